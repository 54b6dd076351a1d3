package handlers

import (
	"net/http"
	"path/filepath"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/spec-kit/helpdesk-service/internal/api/dto"
	"github.com/spec-kit/helpdesk-service/internal/auth"
	"github.com/spec-kit/helpdesk-service/internal/config"
	"github.com/spec-kit/helpdesk-service/internal/service"
	apperrors "github.com/spec-kit/helpdesk-service/pkg/util"
)

// MeHandler exposes the acting user's profile endpoints.
type MeHandler struct {
	users  *service.UserService
	upload config.UploadConfig
}

// NewMeHandler constructs handler.
func NewMeHandler(userService *service.UserService, upload config.UploadConfig) *MeHandler {
	return &MeHandler{users: userService, upload: upload}
}

// GetMe handles GET /me.
func (h *MeHandler) GetMe(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("Unauthorized")
	}
	user, err := h.users.GetByID(c.Context(), principal.UserID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewUserResponse(user)})
}

// UpdateMe handles PUT /me.
func (h *MeHandler) UpdateMe(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("Unauthorized")
	}
	var req dto.UpdateProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	user, err := h.users.UpdateProfile(c.Context(), principal.UserID, service.ProfileUpdateInput{
		Name:  req.Name,
		Email: req.Email,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewUserResponse(user)})
}

// UploadAvatar handles POST /me/avatar.
func (h *MeHandler) UploadAvatar(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("Unauthorized")
	}
	file, err := c.FormFile("avatar")
	if err != nil {
		return apperrors.NewValidationError("Avatar file is required", nil)
	}
	if h.upload.MaxSizeBytes > 0 && file.Size > h.upload.MaxSizeBytes {
		return apperrors.NewValidationError("avatar file too large", nil)
	}

	filename := uuid.NewString() + filepath.Ext(file.Filename)
	if err := c.SaveFile(file, filepath.Join(h.upload.Dir, filename)); err != nil {
		return apperrors.NewInternalError(err)
	}

	user, err := h.users.UpdateAvatar(c.Context(), principal.UserID, "/uploads/"+filename)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewUserResponse(user)})
}

// DeleteMe handles DELETE /me.
func (h *MeHandler) DeleteMe(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("Unauthorized")
	}
	if err := h.users.Remove(c.Context(), principal.UserID); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}
