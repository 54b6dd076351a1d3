package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/helpdesk-service/internal/api/dto"
	"github.com/spec-kit/helpdesk-service/internal/auth"
	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/service"
	apperrors "github.com/spec-kit/helpdesk-service/pkg/util"
)

// StaffTicketsHandler manages technician and admin ticket endpoints.
type StaffTicketsHandler struct {
	tickets *service.TicketService
}

// NewStaffTicketsHandler constructs handler.
func NewStaffTicketsHandler(ticketService *service.TicketService) *StaffTicketsHandler {
	return &StaffTicketsHandler{tickets: ticketService}
}

// ListAssigned handles GET /tech/tickets.
func (h *StaffTicketsHandler) ListAssigned(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("Unauthorized")
	}
	tickets, err := h.tickets.ListByTechnician(c.Context(), principal.UserID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewTicketResponses(tickets)})
}

// UpdateStatusByTech handles PATCH /tech/tickets/:id/status.
func (h *StaffTicketsHandler) UpdateStatusByTech(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("Unauthorized")
	}
	status, err := parseStatusBody(c)
	if err != nil {
		return err
	}

	ticket, err := h.tickets.UpdateStatusByTechnician(c.Context(), c.Params("id"), principal.UserID, status)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewTicketResponse(ticket)})
}

// AddService handles POST /tech/tickets/:id/services.
func (h *StaffTicketsHandler) AddService(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("Unauthorized")
	}
	var req dto.AddTicketServiceRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.ServiceID == "" {
		return apperrors.NewValidationError("service_id required", nil)
	}

	ticket, err := h.tickets.AddServiceByTechnician(c.Context(), c.Params("id"), principal.UserID, req.ServiceID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewTicketResponse(ticket)})
}

// ListAll handles GET /admin/tickets.
func (h *StaffTicketsHandler) ListAll(c *fiber.Ctx) error {
	tickets, err := h.tickets.ListAll(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewTicketResponses(tickets)})
}

// UpdateStatusByAdmin handles PATCH /admin/tickets/:id/status.
func (h *StaffTicketsHandler) UpdateStatusByAdmin(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("Unauthorized")
	}
	status, err := parseStatusBody(c)
	if err != nil {
		return err
	}

	ticket, err := h.tickets.UpdateStatusByAdmin(c.Context(), principal.UserID, c.Params("id"), status)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewTicketResponse(ticket)})
}

func parseStatusBody(c *fiber.Ctx) (domain.TicketStatus, error) {
	var req dto.UpdateTicketStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return "", apperrors.NewValidationError("invalid payload", nil)
	}
	if !req.Status.Valid() {
		return "", apperrors.NewValidationError("status must be one of ABERTO, EM_ATENDIMENTO, ENCERRADO", nil)
	}
	return req.Status, nil
}
