package domain

import "time"

// TicketStatus enumerates lifecycle states for tickets.
type TicketStatus string

const (
	TicketStatusOpen       TicketStatus = "ABERTO"
	TicketStatusInProgress TicketStatus = "EM_ATENDIMENTO"
	TicketStatusClosed     TicketStatus = "ENCERRADO"
)

// Valid reports whether the status is a known value.
func (s TicketStatus) Valid() bool {
	switch s {
	case TicketStatusOpen, TicketStatusInProgress, TicketStatusClosed:
		return true
	}
	return false
}

// Ticket is the aggregate for client service requests. A ticket always has at
// least one service line from creation on.
type Ticket struct {
	ID           string
	ClientID     string
	TechnicianID string
	Title        string
	Description  string
	Status       TicketStatus
	Services     []TicketServiceLine
	CreatedAt    time.Time
	UpdatedAt    time.Time

	// Client and Technician are eagerly attached on every read path.
	Client     *User
	Technician *User
}

// TicketServiceLine is the immutable pricing snapshot recorded when a service
// is attached to a ticket. Name and price capture the catalog entry at
// attach time; later catalog edits never change them.
type TicketServiceLine struct {
	ID                  string
	TicketID            string
	ServiceID           *string
	ServiceNameSnapshot string
	PriceCentsSnapshot  int64
	AddedByRole         Role
	CreatedAt           time.Time
}

// TotalPriceCents sums every line's price snapshot regardless of the role
// that added it. An empty line set sums to zero.
func (t *Ticket) TotalPriceCents() int64 {
	var total int64
	for _, line := range t.Services {
		total += line.PriceCentsSnapshot
	}
	return total
}
