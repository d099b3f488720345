package router

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/campus-portal/campus-api/internal/config"
	"github.com/campus-portal/campus-api/internal/handler"
	"github.com/campus-portal/campus-api/internal/identity"
	"github.com/campus-portal/campus-api/internal/middleware"
	"github.com/campus-portal/campus-api/internal/observability"
)

// Dependencies groups router dependencies for registration.
type Dependencies struct {
	EventHandler        *handler.EventHandler
	RegistrationHandler *handler.RegistrationHandler
	ClubHandler         *handler.ClubHandler
	FlagHandler         *handler.FlagHandler
	AdminHandler        *handler.AdminHandler
	Principals          middleware.PrincipalResolver
	HealthProbes        []handler.HealthProbe
}

// Register wires the HTTP routes into the fiber application.
func Register(app *fiber.App, cfg config.Config, deps Dependencies) {
	app.Get("/metrics", observability.MetricsHandler())

	api := app.Group("/api/v1", func(c *fiber.Ctx) error {
		c.Set("X-Application", cfg.AppName)
		return c.Next()
	}, middleware.Identity(deps.Principals))
	api.Get("/health", handler.HealthCheck(cfg, deps.HealthProbes...))

	if deps.EventHandler != nil {
		deps.EventHandler.Register(api.Group("/events"))
	}

	if deps.RegistrationHandler != nil {
		registrations := api.Group("/registrations",
			middleware.RequireIdentity(),
			middleware.RateLimit("registrations", cfg.RateLimitMax, rateWindow(cfg)),
		)
		deps.RegistrationHandler.Register(registrations)
	}

	if deps.ClubHandler != nil {
		deps.ClubHandler.Register(api.Group("/clubs"))
	}

	if deps.FlagHandler != nil {
		deps.FlagHandler.Register(api.Group("/flags",
			middleware.RequireIdentity(),
			middleware.RateLimit("flags", cfg.RateLimitMax, rateWindow(cfg)),
		))
	}

	if deps.AdminHandler != nil {
		admin := api.Group("/admin", middleware.RequireRole(identity.RoleAdmin))
		deps.AdminHandler.Register(admin)
	}
}

func rateWindow(cfg config.Config) time.Duration {
	if cfg.RateLimitWindow <= 0 {
		return time.Minute
	}
	return cfg.RateLimitWindow
}
