package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Database drivers supported by the lead store.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// ErrMissingBotToken is returned when BOT_TOKEN is not set.
var ErrMissingBotToken = errors.New("BOT_TOKEN is required")

// Config aggregates runtime configuration for the service.
type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Logger   LoggerConfig
	Telegram TelegramConfig
	Bot      BotConfig
}

// AppConfig controls server level behavior.
type AppConfig struct {
	Name                  string
	Env                   string
	Host                  string
	Port                  string
	Version               string
	RequestTimeoutSeconds int
}

// DatabaseConfig selects and configures the lead store.
type DatabaseConfig struct {
	Driver          string
	BootstrapSchema bool
	Postgres        PostgresConfig
	SQLitePath      string
}

// PostgresConfig holds DB connection values.
type PostgresConfig struct {
	DSN            string
	MaxConns       int32
	MinConns       int32
	ConnMaxIdleSec int32
	ConnMaxLifeSec int32
}

// RedisConfig holds Redis connection values. An empty Addr disables the query cache.
type RedisConfig struct {
	Addr            string
	Password        string
	DB              int
	CacheTTLSeconds int
}

// LoggerConfig configures logging behavior.
type LoggerConfig struct {
	Level string
}

// TelegramConfig holds bot API credentials and notification recipients.
type TelegramConfig struct {
	Token              string
	APIURL             string
	AdminChatIDs       []int64
	SendTimeoutSeconds int
}

// BotConfig controls the admin query bot.
type BotConfig struct {
	PollTimeoutSeconds    int
	RetryDelaySeconds     int
	QueryLimit            int
	BackendURL            string
	BackendTimeoutSeconds int
	HealthPort            string
}

// Load reads configuration from environment variables, applying defaults where possible.
func Load() (*Config, error) {
	_ = godotenv.Load()

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	chatIDs, err := parseChatIDs(os.Getenv("ADMIN_CHAT_IDS"))
	if err != nil {
		return nil, fmt.Errorf("invalid ADMIN_CHAT_IDS: %w", err)
	}

	driver := strings.ToLower(getEnv("DB_DRIVER", DriverSQLite))
	if driver != DriverPostgres && driver != DriverSQLite {
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", driver)
	}

	cfg := &Config{
		App: AppConfig{
			Name:                  getEnv("APP_NAME", "lead-service"),
			Env:                   getEnv("APP_ENV", "development"),
			Host:                  getEnv("APP_HOST", "0.0.0.0"),
			Port:                  getEnv("APP_PORT", getEnv("PORT", "5050")),
			Version:               getEnv("APP_VERSION", "dev"),
			RequestTimeoutSeconds: getEnvAsInt("HTTP_REQUEST_TIMEOUT_SECONDS", 30),
		},
		Database: DatabaseConfig{
			Driver:          driver,
			BootstrapSchema: getEnvAsBool("DB_BOOTSTRAP_SCHEMA", true),
			Postgres: PostgresConfig{
				DSN:            os.Getenv("POSTGRES_DSN"),
				MaxConns:       int32(getEnvAsInt("POSTGRES_MAX_CONNS", 10)),
				MinConns:       int32(getEnvAsInt("POSTGRES_MIN_CONNS", 2)),
				ConnMaxIdleSec: int32(getEnvAsInt("POSTGRES_CONN_MAX_IDLE_SECONDS", 30)),
				ConnMaxLifeSec: int32(getEnvAsInt("POSTGRES_CONN_MAX_LIFE_SECONDS", 300)),
			},
			SQLitePath: getEnv("SQLITE_PATH", "leads.db"),
		},
		Redis: RedisConfig{
			Addr:            os.Getenv("REDIS_ADDR"),
			Password:        os.Getenv("REDIS_PASSWORD"),
			DB:              redisDB,
			CacheTTLSeconds: getEnvAsInt("CACHE_TTL_SECONDS", 30),
		},
		Logger: LoggerConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		Telegram: TelegramConfig{
			Token:              strings.TrimSpace(os.Getenv("BOT_TOKEN")),
			APIURL:             os.Getenv("TELEGRAM_API_URL"),
			AdminChatIDs:       chatIDs,
			SendTimeoutSeconds: getEnvAsInt("TELEGRAM_SEND_TIMEOUT_SECONDS", 15),
		},
		Bot: BotConfig{
			PollTimeoutSeconds:    getEnvAsInt("BOT_POLL_TIMEOUT_SECONDS", 10),
			RetryDelaySeconds:     getEnvAsInt("BOT_RETRY_DELAY_SECONDS", 3),
			QueryLimit:            getEnvAsInt("BOT_QUERY_LIMIT", 10),
			BackendURL:            strings.TrimRight(os.Getenv("BACKEND_URL"), "/"),
			BackendTimeoutSeconds: getEnvAsInt("BACKEND_TIMEOUT_SECONDS", 15),
			HealthPort:            getEnv("BOT_HEALTH_PORT", "8081"),
		},
	}

	return cfg, nil
}

// Validate checks the settings without which no binary may start.
func (c *Config) Validate() error {
	if c.Telegram.Token == "" {
		return ErrMissingBotToken
	}
	if c.Database.Driver == DriverPostgres && c.Database.Postgres.DSN == "" {
		return errors.New("POSTGRES_DSN is required when DB_DRIVER=postgres")
	}
	return nil
}

// Addr returns the HTTP bind address.
func (a AppConfig) Addr() string {
	return fmt.Sprintf("%s:%s", a.Host, a.Port)
}

// RequestTimeout returns the configured request timeout duration.
func (a AppConfig) RequestTimeout() time.Duration {
	if a.RequestTimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(a.RequestTimeoutSeconds) * time.Second
}

// CacheTTL returns how long query results stay cached.
func (r RedisConfig) CacheTTL() time.Duration {
	if r.CacheTTLSeconds <= 0 {
		return 30 * time.Second
	}
	return time.Duration(r.CacheTTLSeconds) * time.Second
}

// SendTimeout bounds each call to the Telegram API.
func (t TelegramConfig) SendTimeout() time.Duration {
	if t.SendTimeoutSeconds <= 0 {
		return 15 * time.Second
	}
	return time.Duration(t.SendTimeoutSeconds) * time.Second
}

// PollTimeout returns the long-poll wait bound. It always stays below sendTimeout
// because both share one HTTP client.
func (b BotConfig) PollTimeout(sendTimeout time.Duration) time.Duration {
	poll := time.Duration(b.PollTimeoutSeconds) * time.Second
	if poll <= 0 {
		poll = 10 * time.Second
	}
	if limit := sendTimeout - 5*time.Second; poll > limit {
		poll = limit
	}
	if poll < time.Second {
		poll = time.Second
	}
	return poll
}

// RetryDelay is the fixed pause after a failed update fetch.
func (b BotConfig) RetryDelay() time.Duration {
	if b.RetryDelaySeconds <= 0 {
		return 3 * time.Second
	}
	return time.Duration(b.RetryDelaySeconds) * time.Second
}

// BackendTimeout bounds each query to the backend API.
func (b BotConfig) BackendTimeout() time.Duration {
	if b.BackendTimeoutSeconds <= 0 {
		return 15 * time.Second
	}
	return time.Duration(b.BackendTimeoutSeconds) * time.Second
}

func parseChatIDs(raw string) ([]int64, error) {
	var ids []int64
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("chat id %q: %w", part, err)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvAsBool(key string, fallback bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(val)
	if err != nil {
		return fallback
	}
	return parsed
}
