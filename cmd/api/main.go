package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	httptransport "github.com/spec-kit/lead-service/internal/api/http"
	"github.com/spec-kit/lead-service/internal/api/http/handlers"
	"github.com/spec-kit/lead-service/internal/bootstrap"
	"github.com/spec-kit/lead-service/internal/cache"
	"github.com/spec-kit/lead-service/internal/config"
	"github.com/spec-kit/lead-service/internal/events"
	"github.com/spec-kit/lead-service/internal/observability"
	"github.com/spec-kit/lead-service/internal/persistence"
	"github.com/spec-kit/lead-service/internal/service"
	"github.com/spec-kit/lead-service/internal/telegram"
	"github.com/spec-kit/lead-service/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger, cfg.App, "api")
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store, err := bootstrap.OpenStore(ctx, cfg.Database, logger)
	if err != nil {
		logger.Fatal("failed to open lead store", zap.Error(err))
	}
	defer store.Close()

	redis := persistence.NewRedis(ctx, cfg.Redis, logger)
	defer redis.Close()

	tg, err := telegram.NewClient(cfg.Telegram, logger.Named("telegram"))
	if err != nil {
		logger.Fatal("failed to init telegram client", zap.Error(err))
	}

	metrics := observability.NewMetrics()
	dispatcher := events.NewInMemoryDispatcher(logger)
	notifications := service.NewNotificationService(dispatcher, tg, cfg.Telegram.AdminChatIDs, metrics, logger.Named("notify"))
	worker.StartNotificationWorker(notifications)

	leadService := service.NewLeadService(service.LeadDependencies{
		LeadRepo:   store.Leads,
		Cache:      cache.NewLeadCache(redis.Handle(), cfg.Redis.CacheTTL(), logger),
		Dispatcher: dispatcher,
		Metrics:    metrics,
		Logger:     logger,
	})

	deps := map[string]handlers.Pinger{store.Driver: store.Probe}
	if redis != nil {
		deps["redis"] = redis
	}

	app := httptransport.NewApp(cfg.App.Name, httptransport.AppDependencies{
		Logger:         logger,
		RequestTimeout: cfg.App.RequestTimeout(),
		Routes: httptransport.RouteConfig{
			Health:  handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, deps),
			Leads:   handlers.NewLeadsHandler(leadService, time.Local),
			Metrics: metrics,
		},
	})

	go func() {
		logger.Info("http server listening",
			zap.String("addr", cfg.App.Addr()),
			zap.String("db_driver", store.Driver),
			zap.Int("admin_chats", len(cfg.Telegram.AdminChatIDs)))
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		logger.Warn("http shutdown", zap.Error(err))
	}
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
