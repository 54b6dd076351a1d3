package service

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/repository"
	apperrors "github.com/spec-kit/helpdesk-service/pkg/util"
)

// UserService backs the /me profile surface for every role.
type UserService struct {
	users repository.UserRepository
}

// ProfileUpdateInput describes a self-service profile edit.
type ProfileUpdateInput struct {
	Name  *string
	Email *string
}

// NewUserService constructs the service.
func NewUserService(users repository.UserRepository) *UserService {
	return &UserService{users: users}
}

// GetByID loads the account.
func (s *UserService) GetByID(ctx context.Context, id string) (*domain.User, error) {
	return s.getUser(ctx, id)
}

// UpdateProfile edits name/email for the acting user.
func (s *UserService) UpdateProfile(ctx context.Context, id string, input ProfileUpdateInput) (*domain.User, error) {
	user, err := s.getUser(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Email != nil {
		if err := ensureEmailFree(ctx, s.users, *input.Email, id); err != nil {
			return nil, err
		}
		user.Email = *input.Email
	}
	if input.Name != nil {
		user.Name = *input.Name
	}

	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// UpdateAvatar stores the uploaded avatar reference.
func (s *UserService) UpdateAvatar(ctx context.Context, id, avatarURL string) (*domain.User, error) {
	user, err := s.getUser(ctx, id)
	if err != nil {
		return nil, err
	}
	user.AvatarURL = &avatarURL
	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Remove deletes the acting user's own account.
func (s *UserService) Remove(ctx context.Context, id string) error {
	if _, err := s.getUser(ctx, id); err != nil {
		return err
	}
	return s.users.Delete(ctx, id)
}

func (s *UserService) getUser(ctx context.Context, id string) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("User not found")
		}
		return nil, err
	}
	return user, nil
}
