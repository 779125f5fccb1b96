package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/lead-service/internal/adminbot"
	"github.com/spec-kit/lead-service/internal/bootstrap"
	"github.com/spec-kit/lead-service/internal/config"
	"github.com/spec-kit/lead-service/internal/healthcheck"
	"github.com/spec-kit/lead-service/internal/observability"
	"github.com/spec-kit/lead-service/internal/service"
	"github.com/spec-kit/lead-service/internal/telegram"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger, cfg.App, "adminbot")
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	tg, err := telegram.NewClient(cfg.Telegram, logger.Named("telegram"))
	if err != nil {
		logger.Fatal("failed to init telegram client", zap.Error(err))
	}

	metrics := observability.NewMetrics()
	health := healthcheck.NewServer(cfg.Bot.HealthPort, cfg.App.Version, logger)
	health.RegisterMetricsHandler(metrics.Handler())

	var source adminbot.LeadSource
	if cfg.Bot.BackendURL != "" {
		client, err := adminbot.NewBackendClient(cfg.Bot.BackendURL, cfg.Bot.BackendTimeout())
		if err != nil {
			logger.Fatal("invalid backend url", zap.Error(err))
		}
		source = client
		logger.Info("querying leads over http", zap.String("backend_url", cfg.Bot.BackendURL))
	} else {
		store, err := bootstrap.OpenStore(ctx, cfg.Database, logger)
		if err != nil {
			logger.Fatal("failed to open lead store", zap.Error(err))
		}
		defer store.Close()
		health.AddCheck(store.Driver, store.Probe.Ping)
		source = service.NewLeadService(service.LeadDependencies{
			LeadRepo: store.Leads,
			Metrics:  metrics,
			Logger:   logger,
		})
		logger.Info("querying leads from the store", zap.String("db_driver", store.Driver))
	}

	if me, err := tg.Identify(ctx); err != nil {
		logger.Warn("could not identify bot, addressed commands will be ignored", zap.Error(err))
	} else {
		logger.Info("bot identified", zap.String("username", me.Username))
	}

	bot := adminbot.New(tg, source, adminbot.Options{
		PollTimeout: cfg.Bot.PollTimeout(cfg.Telegram.SendTimeout()),
		RetryDelay:  cfg.Bot.RetryDelay(),
		Limit:       cfg.Bot.QueryLimit,
		Location:    time.Local,
	}, metrics, logger.Named("bot"))
	health.AddCheck("telegram", bot.Healthy)

	if err := health.Start(); err != nil {
		logger.Fatal("failed to start health server", zap.Error(err))
	}

	if err := bot.Run(ctx); err != nil {
		logger.Error("admin bot stopped with error", zap.Error(err))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := health.Stop(shutdownCtx); err != nil {
		logger.Warn("health server shutdown", zap.Error(err))
	}
}
