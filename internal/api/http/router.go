package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/paykash-service/internal/api/http/handlers"
	"github.com/spec-kit/paykash-service/internal/auth"
	"github.com/spec-kit/paykash-service/internal/domain"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Users          *handlers.UsersHandler
	AuthMiddleware *auth.Middleware
	LoginRateLimit fiber.Handler
}

// RegisterRoutes wires HTTP routes. Bulk directory listing is a privileged
// operation: /users sits behind both gates, while single-record reads and the
// auth endpoints stay public per the API contract.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	app.Post("/jwt", cfg.Auth.MintToken)
	app.Get("/logout", cfg.Auth.Logout)
	app.Post("/register", cfg.Auth.Register)

	if cfg.LoginRateLimit != nil {
		app.Post("/login", cfg.LoginRateLimit, cfg.Auth.Login)
	} else {
		app.Post("/login", cfg.Auth.Login)
	}

	app.Post("/auth/pin/reset/request", cfg.Auth.RequestPINReset)
	app.Post("/auth/pin/reset/confirm", cfg.Auth.ConfirmPINReset)

	app.Get("/users",
		cfg.AuthMiddleware.RequireAuthenticated,
		cfg.AuthMiddleware.RequireRole(domain.RoleAdmin),
		cfg.Users.List)
	app.Get("/user/:id", cfg.Users.Get)
}
