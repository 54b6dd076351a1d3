package service

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/helpdesk-service/internal/auth"
	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/repository"
	apperrors "github.com/spec-kit/helpdesk-service/pkg/util"
)

// TechnicianService manages the technician roster.
type TechnicianService struct {
	technicians repository.TechnicianRepository
	users       repository.UserRepository
	bcryptCost  int
}

// TechnicianCreateInput describes admin technician creation.
type TechnicianCreateInput struct {
	Name              string
	Email             string
	AvailabilityTimes []string
}

// TechnicianUpdateInput describes a partial roster edit.
type TechnicianUpdateInput struct {
	Name              *string
	Email             *string
	IsActive          *bool
	AvailabilityTimes []string
}

// NewTechnicianService constructs the service.
func NewTechnicianService(technicians repository.TechnicianRepository, users repository.UserRepository, bcryptCost int) *TechnicianService {
	return &TechnicianService{technicians: technicians, users: users, bcryptCost: bcryptCost}
}

// Create registers a TECH account with a generated temporary password. The
// plaintext temporary password is returned exactly once, in this response.
func (s *TechnicianService) Create(ctx context.Context, input TechnicianCreateInput) (*domain.User, string, error) {
	if err := ensureEmailFree(ctx, s.users, input.Email, ""); err != nil {
		return nil, "", err
	}

	tempPassword := auth.GenerateTempPassword()
	hash, err := auth.HashPassword(tempPassword, s.bcryptCost)
	if err != nil {
		return nil, "", err
	}

	user := &domain.User{
		Name:               input.Name,
		Email:              input.Email,
		PasswordHash:       hash,
		Role:               domain.RoleTech,
		IsActive:           true,
		MustChangePassword: true,
	}
	if err := s.technicians.Create(ctx, user, input.AvailabilityTimes); err != nil {
		return nil, "", err
	}
	return user, tempPassword, nil
}

// List returns the full roster.
func (s *TechnicianService) List(ctx context.Context) ([]domain.User, error) {
	return s.technicians.List(ctx)
}

// ListActive returns technicians eligible for new tickets.
func (s *TechnicianService) ListActive(ctx context.Context) ([]domain.User, error) {
	return s.technicians.ListActive(ctx)
}

// Update applies a partial roster edit.
func (s *TechnicianService) Update(ctx context.Context, id string, input TechnicianUpdateInput) (*domain.User, error) {
	existing, err := s.technicians.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("Technician not found")
		}
		return nil, err
	}

	if input.Email != nil {
		if err := ensureEmailFree(ctx, s.users, *input.Email, id); err != nil {
			return nil, err
		}
		existing.Email = *input.Email
	}
	if input.Name != nil {
		existing.Name = *input.Name
	}
	if input.IsActive != nil {
		existing.IsActive = *input.IsActive
	}

	if err := s.technicians.Update(ctx, existing, input.AvailabilityTimes); err != nil {
		return nil, err
	}
	if input.AvailabilityTimes != nil && existing.TechnicianProfile != nil {
		existing.TechnicianProfile.AvailabilityTimes = input.AvailabilityTimes
	}
	return existing, nil
}
