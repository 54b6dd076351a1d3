package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/helpdesk-service/internal/domain"
)

// TicketRepository encapsulates ticket persistence. Every read returns
// tickets with service lines and client/technician records attached, so the
// callers can compute totals without further round trips.
type TicketRepository interface {
	// Create inserts the ticket and its initial service lines in one
	// transaction.
	Create(ctx context.Context, ticket *domain.Ticket) error
	GetByID(ctx context.Context, id string) (*domain.Ticket, error)
	ListAll(ctx context.Context) ([]domain.Ticket, error)
	ListByClient(ctx context.Context, clientID string) ([]domain.Ticket, error)
	ListByTechnician(ctx context.Context, technicianID string) ([]domain.Ticket, error)
	UpdateStatus(ctx context.Context, id string, status domain.TicketStatus) error
	AppendServiceLine(ctx context.Context, line *domain.TicketServiceLine) error
}

type ticketRepository struct {
	pool *pgxpool.Pool
}

// NewTicketRepository instantiates repository.
func NewTicketRepository(pool *pgxpool.Pool) TicketRepository {
	return &ticketRepository{pool: pool}
}

const ticketSelect = `
        SELECT t.id, t.client_id, t.technician_id, t.title, t.description, t.status,
               t.created_at, t.updated_at,
               c.id, c.name, c.email, c.role, c.is_active, c.avatar_url,
               x.id, x.name, x.email, x.role, x.is_active, x.avatar_url
        FROM tickets t
        JOIN users c ON c.id = t.client_id
        JOIN users x ON x.id = t.technician_id`

func (r *ticketRepository) Create(ctx context.Context, ticket *domain.Ticket) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	const ticketQuery = `
        INSERT INTO tickets (client_id, technician_id, title, description, status)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING id, created_at, updated_at`
	if err := tx.QueryRow(ctx, ticketQuery,
		ticket.ClientID,
		ticket.TechnicianID,
		ticket.Title,
		ticket.Description,
		ticket.Status,
	).Scan(&ticket.ID, &ticket.CreatedAt, &ticket.UpdatedAt); err != nil {
		return err
	}

	const lineQuery = `
        INSERT INTO ticket_services (ticket_id, service_id, service_name_snapshot, price_cents_snapshot, added_by_role)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING id, created_at`
	for i := range ticket.Services {
		line := &ticket.Services[i]
		line.TicketID = ticket.ID
		if err := tx.QueryRow(ctx, lineQuery,
			line.TicketID,
			line.ServiceID,
			line.ServiceNameSnapshot,
			line.PriceCentsSnapshot,
			line.AddedByRole,
		).Scan(&line.ID, &line.CreatedAt); err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

func (r *ticketRepository) GetByID(ctx context.Context, id string) (*domain.Ticket, error) {
	ticket, err := scanTicket(r.pool.QueryRow(ctx, ticketSelect+` WHERE t.id=$1`, id))
	if err != nil {
		return nil, err
	}
	if err := r.attachLines(ctx, []*domain.Ticket{ticket}); err != nil {
		return nil, err
	}
	return ticket, nil
}

func (r *ticketRepository) ListAll(ctx context.Context) ([]domain.Ticket, error) {
	return r.list(ctx, ticketSelect+` ORDER BY t.created_at DESC`)
}

func (r *ticketRepository) ListByClient(ctx context.Context, clientID string) ([]domain.Ticket, error) {
	return r.list(ctx, ticketSelect+` WHERE t.client_id=$1 ORDER BY t.created_at DESC`, clientID)
}

func (r *ticketRepository) ListByTechnician(ctx context.Context, technicianID string) ([]domain.Ticket, error) {
	return r.list(ctx, ticketSelect+` WHERE t.technician_id=$1 ORDER BY t.created_at DESC`, technicianID)
}

func (r *ticketRepository) UpdateStatus(ctx context.Context, id string, status domain.TicketStatus) error {
	cmd, err := r.pool.Exec(ctx, `UPDATE tickets SET status=$1, updated_at=NOW() WHERE id=$2`, status, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *ticketRepository) AppendServiceLine(ctx context.Context, line *domain.TicketServiceLine) error {
	const query = `
        INSERT INTO ticket_services (ticket_id, service_id, service_name_snapshot, price_cents_snapshot, added_by_role)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING id, created_at`
	return r.pool.QueryRow(ctx, query,
		line.TicketID,
		line.ServiceID,
		line.ServiceNameSnapshot,
		line.PriceCentsSnapshot,
		line.AddedByRole,
	).Scan(&line.ID, &line.CreatedAt)
}

func (r *ticketRepository) list(ctx context.Context, query string, args ...any) ([]domain.Ticket, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tickets []domain.Ticket
	for rows.Next() {
		ticket, err := scanTicket(rows)
		if err != nil {
			return nil, err
		}
		tickets = append(tickets, *ticket)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	refs := make([]*domain.Ticket, len(tickets))
	for i := range tickets {
		refs[i] = &tickets[i]
	}
	if err := r.attachLines(ctx, refs); err != nil {
		return nil, err
	}
	return tickets, nil
}

// attachLines loads the service lines for the given tickets in one query.
func (r *ticketRepository) attachLines(ctx context.Context, tickets []*domain.Ticket) error {
	if len(tickets) == 0 {
		return nil
	}
	ids := make([]string, len(tickets))
	byID := make(map[string]*domain.Ticket, len(tickets))
	for i, ticket := range tickets {
		ids[i] = ticket.ID
		byID[ticket.ID] = ticket
	}

	const query = `
        SELECT id, ticket_id, service_id, service_name_snapshot, price_cents_snapshot, added_by_role, created_at
        FROM ticket_services
        WHERE ticket_id = ANY($1)
        ORDER BY created_at`
	rows, err := r.pool.Query(ctx, query, ids)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var line domain.TicketServiceLine
		if err := rows.Scan(
			&line.ID,
			&line.TicketID,
			&line.ServiceID,
			&line.ServiceNameSnapshot,
			&line.PriceCentsSnapshot,
			&line.AddedByRole,
			&line.CreatedAt,
		); err != nil {
			return err
		}
		if ticket, ok := byID[line.TicketID]; ok {
			ticket.Services = append(ticket.Services, line)
		}
	}
	return rows.Err()
}

func scanTicket(row pgx.Row) (*domain.Ticket, error) {
	var (
		ticket domain.Ticket
		client domain.User
		tech   domain.User
	)
	if err := row.Scan(
		&ticket.ID,
		&ticket.ClientID,
		&ticket.TechnicianID,
		&ticket.Title,
		&ticket.Description,
		&ticket.Status,
		&ticket.CreatedAt,
		&ticket.UpdatedAt,
		&client.ID,
		&client.Name,
		&client.Email,
		&client.Role,
		&client.IsActive,
		&client.AvatarURL,
		&tech.ID,
		&tech.Name,
		&tech.Email,
		&tech.Role,
		&tech.IsActive,
		&tech.AvatarURL,
	); err != nil {
		return nil, err
	}
	ticket.Client = &client
	ticket.Technician = &tech
	return &ticket, nil
}
