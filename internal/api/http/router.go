package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"go.uber.org/zap"

	"github.com/spec-kit/lead-service/internal/api/http/handlers"
	"github.com/spec-kit/lead-service/internal/observability"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health  *handlers.HealthHandler
	Leads   *handlers.LeadsHandler
	Metrics *observability.Metrics
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/", cfg.Leads.Index)
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	if cfg.Metrics != nil {
		app.Get("/metrics", adaptor.HTTPHandler(cfg.Metrics.Handler()))
	}

	app.Post("/lead", cfg.Leads.CreateLead)

	admin := app.Group("/admin")
	admin.Get("/leads", cfg.Leads.ListLeads)
}

// AppDependencies bundles what NewApp needs beyond the routes.
type AppDependencies struct {
	Logger         *zap.Logger
	RequestTimeout time.Duration
	Routes         RouteConfig
}

// NewApp builds a fiber app with middlewares and routes registered.
func NewApp(name string, deps AppDependencies) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               name,
		DisableStartupMessage: true,
	})
	RegisterMiddlewares(app, deps.Logger, deps.Routes.Metrics, deps.RequestTimeout)
	RegisterRoutes(app, deps.Routes)
	return app
}
