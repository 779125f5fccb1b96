package telegram

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"

	"github.com/spec-kit/lead-service/internal/config"
)

// Client is a thin wrapper over the Bot API shared by the notifier and the admin bot.
type Client struct {
	api    *tele.Bot
	logger *zap.Logger
}

// NewClient builds an offline bot: no getMe call is made at startup, so an
// unreachable API never blocks the service from starting.
func NewClient(cfg config.TelegramConfig, logger *zap.Logger) (*Client, error) {
	if cfg.Token == "" {
		return nil, config.ErrMissingBotToken
	}

	pref := tele.Settings{
		Token:       cfg.Token,
		URL:         cfg.APIURL,
		Offline:     true,
		Synchronous: true,
		Client:      &http.Client{Timeout: cfg.SendTimeout()},
		OnError: func(err error, c tele.Context) {
			fields := []zap.Field{zap.Error(err)}
			if c != nil && c.Chat() != nil {
				fields = append(fields, zap.Int64("chat_id", c.Chat().ID))
			}
			logger.Error("telegram handler failed", fields...)
		},
	}

	api, err := tele.NewBot(pref)
	if err != nil {
		return nil, fmt.Errorf("init telegram bot: %w", err)
	}
	return &Client{api: api, logger: logger}, nil
}

// Send delivers an HTML-formatted message to chatID.
func (c *Client) Send(ctx context.Context, chatID int64, text string) error {
	return c.SendWithKeyboard(ctx, chatID, text, nil)
}

// SendWithKeyboard delivers a message with an optional reply keyboard attached.
func (c *Client) SendWithKeyboard(ctx context.Context, chatID int64, text string, markup *tele.ReplyMarkup) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	_, err := c.api.Send(tele.ChatID(chatID), text, SendOptions(markup))
	return err
}

// Updates fetches pending updates starting at offset, waiting up to timeout for new ones.
func (c *Client) Updates(ctx context.Context, offset int, timeout time.Duration) ([]tele.Update, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	params := map[string]interface{}{
		"offset":          offset,
		"timeout":         int(timeout / time.Second),
		"allowed_updates": []string{"message", "edited_message"},
	}
	data, err := c.api.Raw("getUpdates", params)
	if err != nil {
		return nil, err
	}

	var resp struct {
		Ok     bool          `json:"ok"`
		Result []tele.Update `json:"result"`
	}
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("decode getUpdates response: %w", err)
	}
	if !resp.Ok {
		return nil, fmt.Errorf("getUpdates: not ok")
	}
	return resp.Result, nil
}

// Identify calls getMe and records the bot's username, which telebot needs to
// route commands addressed as /start@username. Until it succeeds such
// commands are dropped.
func (c *Client) Identify(ctx context.Context) (*tele.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := c.api.Raw("getMe", nil)
	if err != nil {
		return nil, err
	}

	var resp struct {
		Ok     bool       `json:"ok"`
		Result *tele.User `json:"result"`
	}
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("decode getMe response: %w", err)
	}
	if !resp.Ok || resp.Result == nil {
		return nil, fmt.Errorf("getMe: not ok")
	}
	c.api.Me = resp.Result
	return resp.Result, nil
}

// Handle registers a handler on the underlying bot.
func (c *Client) Handle(endpoint interface{}, h tele.HandlerFunc) {
	c.api.Handle(endpoint, h)
}

// Process routes one update through the registered handlers. Handlers run
// synchronously, so Process returns once the update is fully handled.
func (c *Client) Process(u tele.Update) {
	c.api.ProcessUpdate(u)
}

// SendOptions returns the options used for every outgoing message.
func SendOptions(markup *tele.ReplyMarkup) *tele.SendOptions {
	opts := &tele.SendOptions{
		ParseMode:             tele.ModeHTML,
		DisableWebPagePreview: true,
	}
	if markup != nil {
		opts.ReplyMarkup = markup
	}
	return opts
}
