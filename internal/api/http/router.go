package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/helpdesk-service/internal/api/http/handlers"
	"github.com/spec-kit/helpdesk-service/internal/auth"
	"github.com/spec-kit/helpdesk-service/internal/domain"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Me             *handlers.MeHandler
	Clients        *handlers.ClientsHandler
	Technicians    *handlers.TechniciansHandler
	Services       *handlers.ServicesHandler
	Tickets        *handlers.TicketsHandler
	StaffTickets   *handlers.StaffTicketsHandler
	AuthMiddleware *auth.AuthMiddleware
	UploadDir      string
}

// RegisterRoutes wires HTTP routes. Route groups mirror the role split:
// /client, /tech and /admin are each gated on their role before any
// workflow runs.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	if cfg.UploadDir != "" {
		app.Static("/uploads", cfg.UploadDir)
	}

	authGroup := app.Group("/auth")
	authGroup.Post("/login", cfg.Auth.Login)
	authGroup.Post("/change-password",
		cfg.AuthMiddleware.Handle,
		auth.RequireRole(domain.RoleClient, domain.RoleTech, domain.RoleAdmin),
		cfg.Auth.ChangePassword)

	me := app.Group("/me", cfg.AuthMiddleware.Handle)
	me.Get("/", cfg.Me.GetMe)
	me.Put("/", cfg.Me.UpdateMe)
	me.Post("/avatar", cfg.Me.UploadAvatar)
	me.Delete("/", cfg.Me.DeleteMe)

	client := app.Group("/client")
	client.Post("/register", cfg.Clients.Register)
	clientOnly := client.Group("", cfg.AuthMiddleware.Handle, auth.RequireRole(domain.RoleClient))
	clientOnly.Post("/tickets", cfg.Tickets.Create)
	clientOnly.Get("/tickets", cfg.Tickets.List)
	clientOnly.Get("/services", cfg.Services.ListActive)
	clientOnly.Get("/technicians", cfg.Technicians.ListActive)

	tech := app.Group("/tech", cfg.AuthMiddleware.Handle, auth.RequireRole(domain.RoleTech))
	tech.Get("/tickets", cfg.StaffTickets.ListAssigned)
	tech.Patch("/tickets/:id/status", cfg.StaffTickets.UpdateStatusByTech)
	tech.Post("/tickets/:id/services", cfg.StaffTickets.AddService)
	tech.Get("/services", cfg.Services.ListActive)

	admin := app.Group("/admin", cfg.AuthMiddleware.Handle, auth.RequireRole(domain.RoleAdmin))
	admin.Post("/technicians", cfg.Technicians.Create)
	admin.Get("/technicians", cfg.Technicians.List)
	admin.Put("/technicians/:id", cfg.Technicians.Update)
	admin.Post("/services", cfg.Services.Create)
	admin.Get("/services", cfg.Services.List)
	admin.Put("/services/:id", cfg.Services.Update)
	admin.Patch("/services/:id/deactivate", cfg.Services.Deactivate)
	admin.Get("/clients", cfg.Clients.List)
	admin.Put("/clients/:id", cfg.Clients.Update)
	admin.Delete("/clients/:id", cfg.Clients.Delete)
	admin.Get("/tickets", cfg.StaffTickets.ListAll)
	admin.Patch("/tickets/:id/status", cfg.StaffTickets.UpdateStatusByAdmin)
}
