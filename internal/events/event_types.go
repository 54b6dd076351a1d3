package events

import (
	"time"

	"github.com/spec-kit/helpdesk-service/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventTicketCreated       EventType = "ticket_created"
	EventTicketStatusChanged EventType = "ticket_status_changed"
	EventTicketServiceAdded  EventType = "ticket_service_added"
)

// Actor encapsulates actor metadata for an event.
type Actor struct {
	UserID string      `json:"user_id"`
	Role   domain.Role `json:"role"`
}

// Event represents a domain event emitted by the ticket workflows.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	TicketID  string      `json:"ticket_id"`
	Actor     Actor       `json:"actor"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// TicketCreatedPayload payload.
type TicketCreatedPayload struct {
	TechnicianID    string `json:"technician_id"`
	Title           string `json:"title"`
	ServiceCount    int    `json:"service_count"`
	TotalPriceCents int64  `json:"total_price_cents"`
}

// TicketStatusChangedPayload payload.
type TicketStatusChangedPayload struct {
	OldStatus domain.TicketStatus `json:"old_status"`
	NewStatus domain.TicketStatus `json:"new_status"`
}

// TicketServiceAddedPayload payload.
type TicketServiceAddedPayload struct {
	ServiceID           string `json:"service_id"`
	ServiceNameSnapshot string `json:"service_name_snapshot"`
	PriceCentsSnapshot  int64  `json:"price_cents_snapshot"`
	TotalPriceCents     int64  `json:"total_price_cents"`
}
