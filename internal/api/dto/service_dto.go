package dto

import (
	"time"

	"github.com/spec-kit/helpdesk-service/internal/domain"
)

// CreateServiceRequest payload.
type CreateServiceRequest struct {
	Name        string  `json:"name"`
	Description *string `json:"description"`
	PriceCents  int64   `json:"price_cents"`
}

// UpdateServiceRequest payload for partial catalog edits.
type UpdateServiceRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	PriceCents  *int64  `json:"price_cents"`
	IsActive    *bool   `json:"is_active"`
}

// ServiceResponse represents a catalog entry.
type ServiceResponse struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Description *string    `json:"description"`
	PriceCents  int64      `json:"price_cents"`
	IsActive    bool       `json:"is_active"`
	DeletedAt   *time.Time `json:"deleted_at"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// NewServiceResponse maps a catalog entry.
func NewServiceResponse(service *domain.Service) ServiceResponse {
	return ServiceResponse{
		ID:          service.ID,
		Name:        service.Name,
		Description: service.Description,
		PriceCents:  service.PriceCents,
		IsActive:    service.IsActive,
		DeletedAt:   service.DeletedAt,
		CreatedAt:   service.CreatedAt,
		UpdatedAt:   service.UpdatedAt,
	}
}

// NewServiceResponses maps a slice of catalog entries.
func NewServiceResponses(services []domain.Service) []ServiceResponse {
	result := make([]ServiceResponse, 0, len(services))
	for i := range services {
		result = append(result, NewServiceResponse(&services[i]))
	}
	return result
}
