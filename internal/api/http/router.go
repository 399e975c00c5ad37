package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/sfrp-tup/helpline/internal/api/http/handlers"
	"github.com/sfrp-tup/helpline/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Users          *handlers.UsersHandler
	Categories     *handlers.CategoriesHandler
	Requests       *handlers.RequestsHandler
	Dashboard      *handlers.DashboardHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	authGroup := app.Group("/auth")
	authGroup.Post("/register", cfg.Users.Register)
	authGroup.Post("/login", cfg.Users.Login)

	api := app.Group("/api")
	api.Get("/categories/:type", cfg.Categories.ListByType)

	// Submission accepts both logged-in and anonymous callers; the form
	// rules enforce the anonymity policy.
	api.Post("/requests", cfg.AuthMiddleware.Optional, cfg.Requests.Submit)

	mine := api.Group("/requests/mine", cfg.AuthMiddleware.Handle)
	mine.Get("", cfg.Requests.ListMine)
	mine.Get("/:type/:id", cfg.Requests.GetMine)

	dashboard := api.Group("/dashboard", cfg.AuthMiddleware.Handle, auth.RequireStaff())
	dashboard.Get("/requests", cfg.Dashboard.ListRequests)
	dashboard.Get("/stats", cfg.Dashboard.Stats)
	dashboard.Get("/requests/:type/:id", cfg.Dashboard.GetRequest)
	dashboard.Post("/requests/:type/:id/status", cfg.Dashboard.UpdateStatus)
	dashboard.Post("/requests/:type/:id/assignment", cfg.Dashboard.UpdateAssignment)
}
