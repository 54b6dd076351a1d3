package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/helpdesk-service/internal/api/dto"
	"github.com/spec-kit/helpdesk-service/internal/service"
	apperrors "github.com/spec-kit/helpdesk-service/pkg/util"
)

// TechniciansHandler exposes roster CRUD (admin) and the active roster
// listing (client).
type TechniciansHandler struct {
	technicians *service.TechnicianService
}

// NewTechniciansHandler constructs handler.
func NewTechniciansHandler(technicianService *service.TechnicianService) *TechniciansHandler {
	return &TechniciansHandler{technicians: technicianService}
}

// Create handles POST /admin/technicians.
func (h *TechniciansHandler) Create(c *fiber.Ctx) error {
	var req dto.CreateTechnicianRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Name == "" || req.Email == "" || len(req.AvailabilityTimes) == 0 {
		return apperrors.NewValidationError("name, email, availability_times required", nil)
	}

	user, tempPassword, err := h.technicians.Create(c.Context(), service.TechnicianCreateInput{
		Name:              req.Name,
		Email:             req.Email,
		AvailabilityTimes: req.AvailabilityTimes,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.TechnicianCreatedResponse{
		User:         dto.NewUserResponse(user),
		TempPassword: tempPassword,
	}})
}

// List handles GET /admin/technicians.
func (h *TechniciansHandler) List(c *fiber.Ctx) error {
	technicians, err := h.technicians.List(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewUserResponses(technicians)})
}

// ListActive handles GET /client/technicians.
func (h *TechniciansHandler) ListActive(c *fiber.Ctx) error {
	technicians, err := h.technicians.ListActive(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewUserResponses(technicians)})
}

// Update handles PUT /admin/technicians/:id.
func (h *TechniciansHandler) Update(c *fiber.Ctx) error {
	var req dto.UpdateTechnicianRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	user, err := h.technicians.Update(c.Context(), c.Params("id"), service.TechnicianUpdateInput{
		Name:              req.Name,
		Email:             req.Email,
		IsActive:          req.IsActive,
		AvailabilityTimes: req.AvailabilityTimes,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewUserResponse(user)})
}
