package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/helpdesk-service/internal/domain"
)

// TechnicianRepository handles TECH users together with their profile row.
type TechnicianRepository interface {
	// Create inserts the user and its technician profile atomically.
	Create(ctx context.Context, user *domain.User, availabilityTimes []string) error
	// Update persists user fields and, when times is non-nil, the profile.
	Update(ctx context.Context, user *domain.User, availabilityTimes []string) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
	List(ctx context.Context) ([]domain.User, error)
	ListActive(ctx context.Context) ([]domain.User, error)
}

type technicianRepository struct {
	pool *pgxpool.Pool
}

// NewTechnicianRepository instantiates repository.
func NewTechnicianRepository(pool *pgxpool.Pool) TechnicianRepository {
	return &technicianRepository{pool: pool}
}

func (r *technicianRepository) Create(ctx context.Context, user *domain.User, availabilityTimes []string) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	const userQuery = `
        INSERT INTO users (name, email, password_hash, role, is_active, must_change_password)
        VALUES ($1, $2, $3, $4, $5, $6)
        RETURNING id, created_at, updated_at`
	if err := tx.QueryRow(ctx, userQuery,
		user.Name,
		user.Email,
		user.PasswordHash,
		domain.RoleTech,
		user.IsActive,
		user.MustChangePassword,
	).Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt); err != nil {
		return err
	}

	profile := &domain.TechnicianProfile{
		UserID:            user.ID,
		AvailabilityTimes: availabilityTimes,
	}
	const profileQuery = `
        INSERT INTO technician_profiles (user_id, availability_times)
        VALUES ($1, $2)
        RETURNING id, created_at, updated_at`
	if err := tx.QueryRow(ctx, profileQuery, user.ID, availabilityTimes).
		Scan(&profile.ID, &profile.CreatedAt, &profile.UpdatedAt); err != nil {
		return err
	}
	user.TechnicianProfile = profile

	return tx.Commit(ctx)
}

func (r *technicianRepository) Update(ctx context.Context, user *domain.User, availabilityTimes []string) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	const userQuery = `
        UPDATE users SET name=$1, email=$2, is_active=$3, updated_at=NOW()
        WHERE id=$4 AND role=$5`
	cmd, err := tx.Exec(ctx, userQuery, user.Name, user.Email, user.IsActive, user.ID, domain.RoleTech)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}

	if availabilityTimes != nil {
		const profileQuery = `
            UPDATE technician_profiles SET availability_times=$1, updated_at=NOW()
            WHERE user_id=$2`
		if _, err := tx.Exec(ctx, profileQuery, availabilityTimes, user.ID); err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

func (r *technicianRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	return scanUserRow(r.pool.QueryRow(ctx, userSelect+` WHERE u.id=$1 AND u.role=$2`, id, domain.RoleTech))
}

func (r *technicianRepository) List(ctx context.Context) ([]domain.User, error) {
	return r.list(ctx, userSelect+` WHERE u.role=$1 ORDER BY u.created_at`)
}

func (r *technicianRepository) ListActive(ctx context.Context) ([]domain.User, error) {
	return r.list(ctx, userSelect+` WHERE u.role=$1 AND u.is_active ORDER BY u.created_at`)
}

func (r *technicianRepository) list(ctx context.Context, query string) ([]domain.User, error) {
	rows, err := r.pool.Query(ctx, query, domain.RoleTech)
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
