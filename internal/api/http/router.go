package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/lintasnet/fieldops/internal/api/http/handlers"
	"github.com/lintasnet/fieldops/internal/auth"
	"github.com/lintasnet/fieldops/internal/domain"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Tickets        *handlers.TicketsHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	app.Post("/auth/login", cfg.Auth.Login)

	staff := app.Group("/staff", cfg.AuthMiddleware.Handle, auth.RequireRole())
	staff.Get("/me", cfg.Auth.Me)

	staff.Get("/tickets", cfg.Tickets.ListTickets)
	staff.Get("/tickets/:id", cfg.Tickets.GetTicket)
	staff.Get("/tickets/:id/transitions", cfg.Tickets.AvailableTransitions)
	staff.Post("/tickets/:id/status", cfg.Tickets.ChangeStatus)

	backOffice := staff.Group("", auth.RequireRole(
		domain.RoleAdmin,
		domain.RoleSupervisor,
		domain.RoleCustomerService,
	))
	backOffice.Post("/tickets", cfg.Tickets.CreateTicket)

	supervisors := staff.Group("", auth.RequireRole(domain.RoleAdmin, domain.RoleSupervisor))
	supervisors.Post("/tickets/:id/team/lead", cfg.Tickets.PromoteLead)
}
