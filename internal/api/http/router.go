package http

import (
	"net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"

	"github.com/spec-kit/consumer-platform/internal/api/http/handlers"
	"github.com/spec-kit/consumer-platform/internal/auth"
	"github.com/spec-kit/consumer-platform/internal/domain"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Profile        *handlers.ProfileHandler
	Farmer         *handlers.FarmerHandler
	AuthMiddleware *auth.AuthMiddleware
	MetricsHandler http.Handler
}

// RegisterRoutes wires HTTP routes. The auth gate runs per route group, with
// role gates stacked downstream of it where a route is role-restricted.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	if cfg.MetricsHandler != nil {
		app.Get("/metrics", adaptor.HTTPHandler(cfg.MetricsHandler))
	}

	authGroup := app.Group("/api/auth")
	authGroup.Post("/register", cfg.Auth.Register)
	authGroup.Post("/login", cfg.Auth.Login)
	authGroup.Post("/logout", cfg.Auth.Logout)
	authGroup.Get("/profile", cfg.AuthMiddleware.Handle, cfg.Profile.Get)

	farmerGroup := app.Group("/api/farmer", cfg.AuthMiddleware.Handle, auth.RequireRole(domain.RoleFarmer))
	farmerGroup.Put("/profile", cfg.Farmer.UpsertProfile)
}
