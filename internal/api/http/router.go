package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/school-kit/helpdesk-service/internal/api/http/handlers"
	"github.com/school-kit/helpdesk-service/internal/domain"
	"github.com/school-kit/helpdesk-service/internal/identity"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health   *handlers.HealthHandler
	Auth     *handlers.AuthHandler
	Tickets  *handlers.TicketsHandler
	Users    *handlers.UsersHandler
	Reports  *handlers.ReportsHandler
	Catalog  *handlers.CatalogHandler
	Metrics  *handlers.MetricsHandler
	Identity *identity.Middleware
}

// RegisterRoutes wires HTTP routes. Route-level role guards are a first
// gate; the lifecycle engine re-checks its own rules.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	app.Post("/auth/login", cfg.Auth.Login)

	api := app.Group("/api", cfg.Identity.Handle, identity.RequireRole())

	api.Get("/catalog", cfg.Catalog.Catalog)

	api.Post("/tickets", cfg.Tickets.Submit)
	api.Get("/tickets", cfg.Tickets.List)
	api.Get("/tickets/:id", cfg.Tickets.Get)
	api.Post("/tickets/:id/comments", cfg.Tickets.Comment)
	api.Post("/tickets/:id/close", cfg.Tickets.Close)
	api.Post("/tickets/:id/reopen", cfg.Tickets.Reopen)

	adminOnly := identity.RequireRole(domain.RoleAdmin)
	api.Post("/tickets/:id/assign", adminOnly, cfg.Tickets.Assign)
	api.Post("/tickets/:id/status", adminOnly, cfg.Tickets.ChangeStatus)

	api.Post("/users", adminOnly, cfg.Users.Create)
	api.Get("/users", adminOnly, cfg.Users.List)
	api.Get("/users/admins", identity.RequireRole(domain.RoleAdmin, domain.RolePrincipal), cfg.Users.Admins)

	reporting := identity.RequireRole(domain.RoleAdmin, domain.RolePrincipal)
	api.Get("/reports", reporting, cfg.Reports.Report)
	api.Get("/export/csv", reporting, cfg.Reports.ExportCSV)
	api.Get("/export/bundle", adminOnly, cfg.Reports.ExportBundle)
	api.Post("/import", adminOnly, cfg.Reports.ImportBundle)

	if cfg.Metrics != nil {
		api.Get("/metrics", adminOnly, cfg.Metrics.Snapshot)
	}
}
