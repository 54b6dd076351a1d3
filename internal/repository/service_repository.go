package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/helpdesk-service/internal/domain"
)

// ServiceRepository encapsulates catalog persistence.
type ServiceRepository interface {
	Create(ctx context.Context, service *domain.Service) error
	Update(ctx context.Context, service *domain.Service) error
	GetByID(ctx context.Context, id string) (*domain.Service, error)
	List(ctx context.Context, isActive *bool) ([]domain.Service, error)
	ListActive(ctx context.Context) ([]domain.Service, error)
	// ListEligibleByIDs resolves the given ids to services that are active and
	// not soft-deleted. Missing or ineligible ids are simply absent from the
	// result; callers compare counts.
	ListEligibleByIDs(ctx context.Context, ids []string) ([]domain.Service, error)
}

type serviceRepository struct {
	pool *pgxpool.Pool
}

// NewServiceRepository instantiates repository.
func NewServiceRepository(pool *pgxpool.Pool) ServiceRepository {
	return &serviceRepository{pool: pool}
}

const serviceColumns = `id, name, description, price_cents, is_active, deleted_at, created_at, updated_at`

func (r *serviceRepository) Create(ctx context.Context, service *domain.Service) error {
	const query = `
        INSERT INTO services (name, description, price_cents)
        VALUES ($1, $2, $3)
        RETURNING id, is_active, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		service.Name,
		service.Description,
		service.PriceCents,
	).Scan(&service.ID, &service.IsActive, &service.CreatedAt, &service.UpdatedAt)
}

func (r *serviceRepository) Update(ctx context.Context, service *domain.Service) error {
	const query = `
        UPDATE services SET name=$1, description=$2, price_cents=$3, is_active=$4,
            deleted_at=$5, updated_at=NOW()
        WHERE id=$6`
	cmd, err := r.pool.Exec(ctx, query,
		service.Name,
		service.Description,
		service.PriceCents,
		service.IsActive,
		service.DeletedAt,
		service.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *serviceRepository) GetByID(ctx context.Context, id string) (*domain.Service, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+serviceColumns+` FROM services WHERE id=$1`, id)
	return scanService(row)
}

func (r *serviceRepository) List(ctx context.Context, isActive *bool) ([]domain.Service, error) {
	query := `SELECT ` + serviceColumns + ` FROM services`
	args := []any{}
	if isActive != nil {
		query += ` WHERE is_active=$1`
		args = append(args, *isActive)
	}
	query += ` ORDER BY created_at`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanServices(rows)
}

func (r *serviceRepository) ListActive(ctx context.Context) ([]domain.Service, error) {
	const query = `
        SELECT ` + serviceColumns + `
        FROM services
        WHERE is_active AND deleted_at IS NULL
        ORDER BY created_at`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanServices(rows)
}

func (r *serviceRepository) ListEligibleByIDs(ctx context.Context, ids []string) ([]domain.Service, error) {
	const query = `
        SELECT ` + serviceColumns + `
        FROM services
        WHERE id = ANY($1) AND is_active AND deleted_at IS NULL`
	rows, err := r.pool.Query(ctx, query, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanServices(rows)
}

func scanService(row pgx.Row) (*domain.Service, error) {
	var (
		service   domain.Service
		deletedAt *time.Time
	)
	if err := row.Scan(
		&service.ID,
		&service.Name,
		&service.Description,
		&service.PriceCents,
		&service.IsActive,
		&deletedAt,
		&service.CreatedAt,
		&service.UpdatedAt,
	); err != nil {
		return nil, err
	}
	service.DeletedAt = deletedAt
	return &service, nil
}

func scanServices(rows pgx.Rows) ([]domain.Service, error) {
	var result []domain.Service
	for rows.Next() {
		service, err := scanService(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *service)
	}
	return result, rows.Err()
}
