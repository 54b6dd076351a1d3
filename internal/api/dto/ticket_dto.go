package dto

import (
	"time"

	"github.com/spec-kit/helpdesk-service/internal/domain"
)

// CreateTicketRequest payload.
type CreateTicketRequest struct {
	Title        string   `json:"title"`
	Description  string   `json:"description"`
	TechnicianID string   `json:"technician_id"`
	ServiceIDs   []string `json:"service_ids"`
}

// UpdateTicketStatusRequest payload.
type UpdateTicketStatusRequest struct {
	Status domain.TicketStatus `json:"status"`
}

// AddTicketServiceRequest payload.
type AddTicketServiceRequest struct {
	ServiceID string `json:"service_id"`
}

// TicketServiceLineResponse represents one immutable pricing snapshot.
type TicketServiceLineResponse struct {
	ID                  string      `json:"id"`
	ServiceID           *string     `json:"service_id"`
	ServiceNameSnapshot string      `json:"service_name_snapshot"`
	PriceCentsSnapshot  int64       `json:"price_cents_snapshot"`
	AddedByRole         domain.Role `json:"added_by_role"`
	CreatedAt           time.Time   `json:"created_at"`
}

// TicketResponse is the full ticket representation returned on every read
// path, always carrying the computed total.
type TicketResponse struct {
	ID              string                      `json:"id"`
	Title           string                      `json:"title"`
	Description     string                      `json:"description"`
	Status          domain.TicketStatus         `json:"status"`
	Client          UserSummary                 `json:"client"`
	Technician      UserSummary                 `json:"technician"`
	Services        []TicketServiceLineResponse `json:"services"`
	TotalPriceCents int64                       `json:"total_price_cents"`
	CreatedAt       time.Time                   `json:"created_at"`
	UpdatedAt       time.Time                   `json:"updated_at"`
}

// NewTicketResponse maps a ticket with its lines and computed total.
func NewTicketResponse(ticket *domain.Ticket) TicketResponse {
	lines := make([]TicketServiceLineResponse, 0, len(ticket.Services))
	for _, line := range ticket.Services {
		lines = append(lines, TicketServiceLineResponse{
			ID:                  line.ID,
			ServiceID:           line.ServiceID,
			ServiceNameSnapshot: line.ServiceNameSnapshot,
			PriceCentsSnapshot:  line.PriceCentsSnapshot,
			AddedByRole:         line.AddedByRole,
			CreatedAt:           line.CreatedAt,
		})
	}

	resp := TicketResponse{
		ID:              ticket.ID,
		Title:           ticket.Title,
		Description:     ticket.Description,
		Status:          ticket.Status,
		Services:        lines,
		TotalPriceCents: ticket.TotalPriceCents(),
		CreatedAt:       ticket.CreatedAt,
		UpdatedAt:       ticket.UpdatedAt,
	}
	if ticket.Client != nil {
		resp.Client = NewUserSummary(ticket.Client)
	}
	if ticket.Technician != nil {
		resp.Technician = NewUserSummary(ticket.Technician)
	}
	return resp
}

// NewTicketResponses maps a slice of tickets.
func NewTicketResponses(tickets []domain.Ticket) []TicketResponse {
	result := make([]TicketResponse, 0, len(tickets))
	for i := range tickets {
		result = append(result, NewTicketResponse(&tickets[i]))
	}
	return result
}
