package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/helpdesk-service/internal/domain"
)

// UserRepository defines persistence access for accounts of every role.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	Update(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	ListByRole(ctx context.Context, role domain.Role) ([]domain.User, error)
	Delete(ctx context.Context, id string) error
}

type userRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository returns a Postgres-backed implementation.
func NewUserRepository(pool *pgxpool.Pool) UserRepository {
	return &userRepository{pool: pool}
}

const userSelect = `
        SELECT u.id, u.name, u.email, u.password_hash, u.role, u.is_active,
               u.must_change_password, u.avatar_url, u.created_at, u.updated_at,
               tp.id, tp.availability_times, tp.created_at, tp.updated_at
        FROM users u
        LEFT JOIN technician_profiles tp ON tp.user_id = u.id`

func (r *userRepository) Create(ctx context.Context, user *domain.User) error {
	const query = `
        INSERT INTO users (name, email, password_hash, role, is_active, must_change_password)
        VALUES ($1, $2, $3, $4, $5, $6)
        RETURNING id, created_at, updated_at`

	return r.pool.QueryRow(ctx, query,
		user.Name,
		user.Email,
		user.PasswordHash,
		user.Role,
		user.IsActive,
		user.MustChangePassword,
	).Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)
}

func (r *userRepository) Update(ctx context.Context, user *domain.User) error {
	const query = `
        UPDATE users SET name=$1, email=$2, password_hash=$3, is_active=$4,
            must_change_password=$5, avatar_url=$6, updated_at=NOW()
        WHERE id=$7`

	cmd, err := r.pool.Exec(ctx, query,
		user.Name,
		user.Email,
		user.PasswordHash,
		user.IsActive,
		user.MustChangePassword,
		user.AvatarURL,
		user.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	return scanUserRow(r.pool.QueryRow(ctx, userSelect+` WHERE u.id=$1`, id))
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return scanUserRow(r.pool.QueryRow(ctx, userSelect+` WHERE u.email=$1`, email))
}

func (r *userRepository) ListByRole(ctx context.Context, role domain.Role) ([]domain.User, error) {
	rows, err := r.pool.Query(ctx, userSelect+` WHERE u.role=$1 ORDER BY u.created_at`, role)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.User
	for rows.Next() {
		user, err := scanUserRow(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *user)
	}
	return result, rows.Err()
}

func (r *userRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM users WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func scanUserRow(row pgx.Row) (*domain.User, error) {
	var (
		user        domain.User
		profileID   *string
		times       []string
		tpCreatedAt *time.Time
		tpUpdatedAt *time.Time
	)
	if err := row.Scan(
		&user.ID,
		&user.Name,
		&user.Email,
		&user.PasswordHash,
		&user.Role,
		&user.IsActive,
		&user.MustChangePassword,
		&user.AvatarURL,
		&user.CreatedAt,
		&user.UpdatedAt,
		&profileID,
		&times,
		&tpCreatedAt,
		&tpUpdatedAt,
	); err != nil {
		return nil, err
	}
	if profileID != nil {
		profile := &domain.TechnicianProfile{
			ID:                *profileID,
			UserID:            user.ID,
			AvailabilityTimes: times,
		}
		if tpCreatedAt != nil {
			profile.CreatedAt = *tpCreatedAt
		}
		if tpUpdatedAt != nil {
			profile.UpdatedAt = *tpUpdatedAt
		}
		user.TechnicianProfile = profile
	}
	return &user, nil
}
