package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/helpdesk-service/internal/api/dto"
	"github.com/spec-kit/helpdesk-service/internal/service"
	apperrors "github.com/spec-kit/helpdesk-service/pkg/util"
)

// ClientsHandler exposes client registration and admin client CRUD.
type ClientsHandler struct {
	clients *service.ClientService
}

// NewClientsHandler constructs handler.
func NewClientsHandler(clientService *service.ClientService) *ClientsHandler {
	return &ClientsHandler{clients: clientService}
}

// Register handles POST /client/register (public).
func (h *ClientsHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterClientRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Name == "" || req.Email == "" || req.Password == "" {
		return apperrors.NewValidationError("name, email, password required", nil)
	}

	user, err := h.clients.Register(c.Context(), service.ClientRegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.NewUserResponse(user)})
}

// List handles GET /admin/clients.
func (h *ClientsHandler) List(c *fiber.Ctx) error {
	clients, err := h.clients.List(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewUserResponses(clients)})
}

// Update handles PUT /admin/clients/:id.
func (h *ClientsHandler) Update(c *fiber.Ctx) error {
	var req dto.UpdateClientRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	user, err := h.clients.Update(c.Context(), c.Params("id"), service.ClientUpdateInput{
		Name:     req.Name,
		Email:    req.Email,
		IsActive: req.IsActive,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewUserResponse(user)})
}

// Delete handles DELETE /admin/clients/:id.
func (h *ClientsHandler) Delete(c *fiber.Ctx) error {
	if err := h.clients.Remove(c.Context(), c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}
