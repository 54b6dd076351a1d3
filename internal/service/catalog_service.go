package service

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/helpdesk-service/internal/cache"
	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/repository"
	apperrors "github.com/spec-kit/helpdesk-service/pkg/util"
)

// CatalogService manages the priced service catalog. Deactivation is always a
// soft state change; catalog rows are never hard-deleted so ticket snapshots
// keep a resolvable source reference for as long as possible.
type CatalogService struct {
	services repository.ServiceRepository
	cache    cache.CatalogCache
}

// ServiceCreateInput describes catalog creation payload.
type ServiceCreateInput struct {
	Name        string
	Description *string
	PriceCents  int64
}

// ServiceUpdateInput describes a partial catalog update.
type ServiceUpdateInput struct {
	Name        *string
	Description *string
	PriceCents  *int64
	IsActive    *bool
}

// NewCatalogService constructs the service.
func NewCatalogService(services repository.ServiceRepository, catalogCache cache.CatalogCache) *CatalogService {
	if catalogCache == nil {
		catalogCache = cache.NewNoopCatalogCache()
	}
	return &CatalogService{services: services, cache: catalogCache}
}

// Create adds a catalog entry.
func (s *CatalogService) Create(ctx context.Context, input ServiceCreateInput) (*domain.Service, error) {
	svc := &domain.Service{
		Name:        input.Name,
		Description: input.Description,
		PriceCents:  input.PriceCents,
	}
	if err := s.services.Create(ctx, svc); err != nil {
		return nil, err
	}
	s.cache.Invalidate(ctx)
	return svc, nil
}

// List returns catalog entries, optionally filtered on the active flag.
func (s *CatalogService) List(ctx context.Context, isActive *bool) ([]domain.Service, error) {
	return s.services.List(ctx, isActive)
}

// ListActive returns entries eligible for new tickets, served from the cache
// when warm.
func (s *CatalogService) ListActive(ctx context.Context) ([]domain.Service, error) {
	if cached, ok := s.cache.GetActiveServices(ctx); ok {
		return cached, nil
	}
	services, err := s.services.ListActive(ctx)
	if err != nil {
		return nil, err
	}
	s.cache.SetActiveServices(ctx, services)
	return services, nil
}

// Update applies a partial edit to a catalog entry. Edits never propagate to
// existing ticket snapshot lines.
func (s *CatalogService) Update(ctx context.Context, id string, input ServiceUpdateInput) (*domain.Service, error) {
	existing, err := s.getService(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		existing.Name = *input.Name
	}
	if input.Description != nil {
		existing.Description = input.Description
	}
	if input.PriceCents != nil {
		existing.PriceCents = *input.PriceCents
	}
	if input.IsActive != nil {
		existing.IsActive = *input.IsActive
	}

	if err := s.services.Update(ctx, existing); err != nil {
		return nil, err
	}
	s.cache.Invalidate(ctx)
	return existing, nil
}

// Deactivate soft-deletes a catalog entry: inactive plus a removal timestamp.
// The entry is permanently excluded from active listings and new ticket
// attachment from this point on.
func (s *CatalogService) Deactivate(ctx context.Context, id string) (*domain.Service, error) {
	existing, err := s.getService(ctx, id)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	existing.IsActive = false
	existing.DeletedAt = &now
	if err := s.services.Update(ctx, existing); err != nil {
		return nil, err
	}
	s.cache.Invalidate(ctx)
	return existing, nil
}

func (s *CatalogService) getService(ctx context.Context, id string) (*domain.Service, error) {
	existing, err := s.services.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("Service not found")
		}
		return nil, err
	}
	return existing, nil
}
