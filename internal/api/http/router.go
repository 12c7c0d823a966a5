package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/red-heart/auth-service/internal/api/http/handlers"
	"github.com/red-heart/auth-service/internal/auth"
	"github.com/red-heart/auth-service/internal/domain"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	AuthMiddleware *auth.Middleware
}

// RegisterRoutes wires HTTP routes. Patient endpoints live at the root,
// doctor endpoints under /doctor, mirroring the public API contract.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/", cfg.Health.Root)
	app.Get("/health", cfg.Health.Health)

	app.Post("/signin", cfg.Auth.SignIn(domain.RolePatient))
	app.Post("/register", cfg.Auth.Register(domain.RolePatient))

	doctor := app.Group("/doctor")
	doctor.Post("/signin", cfg.Auth.SignIn(domain.RoleDoctor))
	doctor.Post("/register", cfg.Auth.Register(domain.RoleDoctor))

	protected := app.Group("/auth", cfg.AuthMiddleware.Handle)
	protected.Get("/me", cfg.Auth.Me)
}
