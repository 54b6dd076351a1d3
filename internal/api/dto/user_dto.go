package dto

import (
	"time"

	"github.com/spec-kit/helpdesk-service/internal/domain"
)

// UserResponse is the credential-stripped view of an account. Every
// user-shaped response crosses the boundary through this type or
// UserSummary; the password hash never leaves the service layer.
type UserResponse struct {
	ID                 string      `json:"id"`
	Name               string      `json:"name"`
	Email              string      `json:"email"`
	Role               domain.Role `json:"role"`
	IsActive           bool        `json:"is_active"`
	MustChangePassword bool        `json:"must_change_password"`
	AvatarURL          *string     `json:"avatar_url"`
	AvailabilityTimes  []string    `json:"availability_times,omitempty"`
	CreatedAt          time.Time   `json:"created_at"`
	UpdatedAt          time.Time   `json:"updated_at"`
}

// NewUserResponse strips credential material from a user record.
func NewUserResponse(user *domain.User) UserResponse {
	resp := UserResponse{
		ID:                 user.ID,
		Name:               user.Name,
		Email:              user.Email,
		Role:               user.Role,
		IsActive:           user.IsActive,
		MustChangePassword: user.MustChangePassword,
		AvatarURL:          user.AvatarURL,
		CreatedAt:          user.CreatedAt,
		UpdatedAt:          user.UpdatedAt,
	}
	if user.TechnicianProfile != nil {
		resp.AvailabilityTimes = user.TechnicianProfile.AvailabilityTimes
	}
	return resp
}

// NewUserResponses maps a slice of users.
func NewUserResponses(users []domain.User) []UserResponse {
	result := make([]UserResponse, 0, len(users))
	for i := range users {
		result = append(result, NewUserResponse(&users[i]))
	}
	return result
}

// UserSummary is the compact credential-stripped view embedded on tickets.
type UserSummary struct {
	ID        string      `json:"id"`
	Name      string      `json:"name"`
	Email     string      `json:"email"`
	Role      domain.Role `json:"role"`
	IsActive  bool        `json:"is_active"`
	AvatarURL *string     `json:"avatar_url"`
}

// NewUserSummary builds the embedded view.
func NewUserSummary(user *domain.User) UserSummary {
	return UserSummary{
		ID:        user.ID,
		Name:      user.Name,
		Email:     user.Email,
		Role:      user.Role,
		IsActive:  user.IsActive,
		AvatarURL: user.AvatarURL,
	}
}

// RegisterClientRequest payload.
type RegisterClientRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UpdateClientRequest payload for admin client edits.
type UpdateClientRequest struct {
	Name     *string `json:"name"`
	Email    *string `json:"email"`
	IsActive *bool   `json:"is_active"`
}

// UpdateProfileRequest payload for /me edits.
type UpdateProfileRequest struct {
	Name  *string `json:"name"`
	Email *string `json:"email"`
}
