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

// ClientService handles client account registration and admin-side CRUD.
type ClientService struct {
	users      repository.UserRepository
	bcryptCost int
}

// ClientRegisterInput describes self-registration payload.
type ClientRegisterInput struct {
	Name     string
	Email    string
	Password string
}

// ClientUpdateInput describes an admin client edit.
type ClientUpdateInput struct {
	Name     *string
	Email    *string
	IsActive *bool
}

// NewClientService constructs the service.
func NewClientService(users repository.UserRepository, bcryptCost int) *ClientService {
	return &ClientService{users: users, bcryptCost: bcryptCost}
}

// Register creates a CLIENT account.
func (s *ClientService) Register(ctx context.Context, input ClientRegisterInput) (*domain.User, error) {
	if err := ensureEmailFree(ctx, s.users, input.Email, ""); err != nil {
		return nil, err
	}

	hash, err := auth.HashPassword(input.Password, s.bcryptCost)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		Name:         input.Name,
		Email:        input.Email,
		PasswordHash: hash,
		Role:         domain.RoleClient,
		IsActive:     true,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// List returns every client account.
func (s *ClientService) List(ctx context.Context) ([]domain.User, error) {
	return s.users.ListByRole(ctx, domain.RoleClient)
}

// Update applies an admin edit to a client account.
func (s *ClientService) Update(ctx context.Context, id string, input ClientUpdateInput) (*domain.User, error) {
	client, err := s.getClient(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Email != nil {
		if err := ensureEmailFree(ctx, s.users, *input.Email, id); err != nil {
			return nil, err
		}
		client.Email = *input.Email
	}
	if input.Name != nil {
		client.Name = *input.Name
	}
	if input.IsActive != nil {
		client.IsActive = *input.IsActive
	}

	if err := s.users.Update(ctx, client); err != nil {
		return nil, err
	}
	return client, nil
}

// Remove deletes a client account. Owned tickets go with it via the storage
// level cascade.
func (s *ClientService) Remove(ctx context.Context, id string) error {
	if _, err := s.getClient(ctx, id); err != nil {
		return err
	}
	return s.users.Delete(ctx, id)
}

// getClient reads the account and hides non-client users behind NotFound.
func (s *ClientService) getClient(ctx context.Context, id string) (*domain.User, error) {
	client, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("Client not found")
		}
		return nil, err
	}
	if client.Role != domain.RoleClient {
		return nil, apperrors.NewNotFound("Client not found")
	}
	return client, nil
}

func ensureEmailFree(ctx context.Context, users repository.UserRepository, email, selfID string) error {
	owner, err := users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil
		}
		return err
	}
	if owner.ID != selfID {
		return apperrors.NewConflict("Email already in use", nil)
	}
	return nil
}
