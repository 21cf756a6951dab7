package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/call-monitoring-service/internal/api/http/handlers"
	"github.com/spec-kit/call-monitoring-service/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Users          *handlers.UsersHandler
	Calls          *handlers.CallsHandler
	Evaluations    *handlers.EvaluationsHandler
	Dashboard      *handlers.DashboardHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	api := app.Group("/api")

	authGroup := api.Group("/auth")
	authGroup.Post("/register", cfg.Auth.Register)
	authGroup.Post("/login", cfg.Auth.Login)
	authGroup.Post("/refresh", cfg.Auth.Refresh)

	protected := api.Group("", cfg.AuthMiddleware.Handle)

	protected.Get("/auth/me", cfg.Auth.Me)
	protected.Post("/auth/logout", cfg.Auth.Logout)

	users := protected.Group("/users")
	users.Get("", cfg.Users.List)
	users.Get("/:id", cfg.Users.Get)
	users.Put("/:id", cfg.Users.Update)
	users.Delete("/:id", cfg.Users.Deactivate)

	calls := protected.Group("/calls")
	calls.Post("", cfg.Calls.Create)
	calls.Get("", cfg.Calls.List)
	calls.Get("/:id", cfg.Calls.Get)
	calls.Put("/:id", cfg.Calls.Update)
	calls.Delete("/:id", cfg.Calls.Delete)

	evaluations := protected.Group("/evaluations")
	evaluations.Post("", cfg.Evaluations.Create)
	evaluations.Get("", cfg.Evaluations.List)
	evaluations.Get("/:id", cfg.Evaluations.Get)
	evaluations.Put("/:id", cfg.Evaluations.Update)
	evaluations.Delete("/:id", cfg.Evaluations.Delete)

	dashboard := protected.Group("/dashboard")
	dashboard.Get("/stats", cfg.Dashboard.Stats)
	dashboard.Get("/operator-performance", cfg.Dashboard.OperatorPerformance)
	dashboard.Get("/recent-activity", cfg.Dashboard.RecentActivity)
}
