package domain

import "time"

// Service is a priced catalog entry clients can request on a ticket.
type Service struct {
	ID          string
	Name        string
	Description *string
	PriceCents  int64
	IsActive    bool
	DeletedAt   *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// EligibleForTickets reports whether the service may be attached to new
// tickets. Deactivation is a soft state; existing ticket snapshots are never
// affected by it.
func (s *Service) EligibleForTickets() bool {
	return s.IsActive && s.DeletedAt == nil
}
