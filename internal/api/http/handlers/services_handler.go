package handlers

import (
	"net/http"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/helpdesk-service/internal/api/dto"
	"github.com/spec-kit/helpdesk-service/internal/service"
	apperrors "github.com/spec-kit/helpdesk-service/pkg/util"
)

// ServicesHandler exposes catalog CRUD (admin) and the active catalog
// listing (client and technician).
type ServicesHandler struct {
	catalog *service.CatalogService
}

// NewServicesHandler constructs handler.
func NewServicesHandler(catalogService *service.CatalogService) *ServicesHandler {
	return &ServicesHandler{catalog: catalogService}
}

// Create handles POST /admin/services.
func (h *ServicesHandler) Create(c *fiber.Ctx) error {
	var req dto.CreateServiceRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Name == "" {
		return apperrors.NewValidationError("name required", nil)
	}
	if req.PriceCents <= 0 {
		return apperrors.NewValidationError("price_cents must be a positive integer", nil)
	}

	svc, err := h.catalog.Create(c.Context(), service.ServiceCreateInput{
		Name:        req.Name,
		Description: req.Description,
		PriceCents:  req.PriceCents,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.NewServiceResponse(svc)})
}

// List handles GET /admin/services with an optional is_active filter.
func (h *ServicesHandler) List(c *fiber.Ctx) error {
	var isActive *bool
	if raw := c.Query("is_active"); raw != "" {
		parsed, err := strconv.ParseBool(raw)
		if err != nil {
			return apperrors.NewValidationError("is_active must be true or false", nil)
		}
		isActive = &parsed
	}

	services, err := h.catalog.List(c.Context(), isActive)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewServiceResponses(services)})
}

// ListActive handles GET /client/services and GET /tech/services.
func (h *ServicesHandler) ListActive(c *fiber.Ctx) error {
	services, err := h.catalog.ListActive(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewServiceResponses(services)})
}

// Update handles PUT /admin/services/:id.
func (h *ServicesHandler) Update(c *fiber.Ctx) error {
	var req dto.UpdateServiceRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.PriceCents != nil && *req.PriceCents <= 0 {
		return apperrors.NewValidationError("price_cents must be a positive integer", nil)
	}

	svc, err := h.catalog.Update(c.Context(), c.Params("id"), service.ServiceUpdateInput{
		Name:        req.Name,
		Description: req.Description,
		PriceCents:  req.PriceCents,
		IsActive:    req.IsActive,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewServiceResponse(svc)})
}

// Deactivate handles PATCH /admin/services/:id/deactivate.
func (h *ServicesHandler) Deactivate(c *fiber.Ctx) error {
	svc, err := h.catalog.Deactivate(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewServiceResponse(svc)})
}
