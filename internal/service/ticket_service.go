package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/events"
	"github.com/spec-kit/helpdesk-service/internal/repository"
	apperrors "github.com/spec-kit/helpdesk-service/pkg/util"
)

// TicketService coordinates the ticket lifecycle workflows.
type TicketService struct {
	tickets     repository.TicketRepository
	technicians repository.TechnicianRepository
	services    repository.ServiceRepository
	dispatcher  events.Dispatcher
}

// TicketDependencies bundles repositories for the ticket service.
type TicketDependencies struct {
	TicketRepo     repository.TicketRepository
	TechnicianRepo repository.TechnicianRepository
	ServiceRepo    repository.ServiceRepository
	Dispatcher     events.Dispatcher
}

// TicketCreateInput describes the ticket creation payload.
type TicketCreateInput struct {
	Title        string
	Description  string
	TechnicianID string
	ServiceIDs   []string
}

// NewTicketService constructs the service.
func NewTicketService(deps TicketDependencies) *TicketService {
	return &TicketService{
		tickets:     deps.TicketRepo,
		technicians: deps.TechnicianRepo,
		services:    deps.ServiceRepo,
		dispatcher:  deps.Dispatcher,
	}
}

// CreateByClient validates technician and service eligibility, then creates
// the ticket with one CLIENT-tagged snapshot line per requested service.
// Snapshots freeze the catalog name and price as read here; later catalog
// edits never touch them.
func (s *TicketService) CreateByClient(ctx context.Context, clientID string, input TicketCreateInput) (*domain.Ticket, error) {
	technician, err := s.technicians.GetByID(ctx, input.TechnicianID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("Technician not available")
		}
		return nil, err
	}
	if !technician.IsActive {
		return nil, apperrors.NewNotFound("Technician not available")
	}

	eligible, err := s.services.ListEligibleByIDs(ctx, input.ServiceIDs)
	if err != nil {
		return nil, err
	}
	if len(eligible) != len(input.ServiceIDs) {
		return nil, apperrors.NewValidationError("Some services are not available", nil)
	}

	lines := make([]domain.TicketServiceLine, 0, len(eligible))
	for _, svc := range eligible {
		serviceID := svc.ID
		lines = append(lines, domain.TicketServiceLine{
			ServiceID:           &serviceID,
			ServiceNameSnapshot: svc.Name,
			PriceCentsSnapshot:  svc.PriceCents,
			AddedByRole:         domain.RoleClient,
		})
	}

	ticket := &domain.Ticket{
		ClientID:     clientID,
		TechnicianID: input.TechnicianID,
		Title:        strings.TrimSpace(input.Title),
		Description:  strings.TrimSpace(input.Description),
		Status:       domain.TicketStatusOpen,
		Services:     lines,
	}
	if err := s.tickets.Create(ctx, ticket); err != nil {
		return nil, err
	}

	created, err := s.tickets.GetByID(ctx, ticket.ID)
	if err != nil {
		return nil, err
	}
	s.publishEvent(ctx, events.Event{
		Type:     events.EventTicketCreated,
		TicketID: created.ID,
		Actor:    events.Actor{UserID: clientID, Role: domain.RoleClient},
		Payload: events.TicketCreatedPayload{
			TechnicianID:    created.TechnicianID,
			Title:           created.Title,
			ServiceCount:    len(created.Services),
			TotalPriceCents: created.TotalPriceCents(),
		},
	})
	return created, nil
}

// ListByClient returns the client's tickets.
func (s *TicketService) ListByClient(ctx context.Context, clientID string) ([]domain.Ticket, error) {
	return s.tickets.ListByClient(ctx, clientID)
}

// ListByTechnician returns tickets assigned to the technician.
func (s *TicketService) ListByTechnician(ctx context.Context, technicianID string) ([]domain.Ticket, error) {
	return s.tickets.ListByTechnician(ctx, technicianID)
}

// ListAll returns every ticket, for administrators.
func (s *TicketService) ListAll(ctx context.Context) ([]domain.Ticket, error) {
	return s.tickets.ListAll(ctx)
}

// UpdateStatusByAdmin sets any status directly, with no precondition on the
// current state.
func (s *TicketService) UpdateStatusByAdmin(ctx context.Context, actingAdminID, ticketID string, status domain.TicketStatus) (*domain.Ticket, error) {
	existing, err := s.getTicket(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	return s.applyStatus(ctx, existing, status, events.Actor{UserID: actingAdminID, Role: domain.RoleAdmin})
}

// UpdateStatusByTechnician applies the role-gated transition rules for the
// assigned technician. A ticket assigned to someone else reads as missing.
func (s *TicketService) UpdateStatusByTechnician(ctx context.Context, ticketID, technicianID string, status domain.TicketStatus) (*domain.Ticket, error) {
	ticket, err := s.getTicketForTechnician(ctx, ticketID, technicianID)
	if err != nil {
		return nil, err
	}

	switch status {
	case domain.TicketStatusInProgress:
		if ticket.Status != domain.TicketStatusOpen {
			return nil, apperrors.NewValidationError("Ticket must be open to start", nil)
		}
	case domain.TicketStatusClosed:
		if ticket.Status != domain.TicketStatusInProgress {
			return nil, apperrors.NewValidationError("Ticket must be in progress to close", nil)
		}
	case domain.TicketStatusOpen:
		return nil, apperrors.NewValidationError("Ticket cannot be reopened", nil)
	}

	return s.applyStatus(ctx, ticket, status, events.Actor{UserID: technicianID, Role: domain.RoleTech})
}

// AddServiceByTechnician appends one TECH-tagged snapshot line to the ticket.
// The ticket's current status is deliberately not checked; post-closure
// billing corrections stay possible.
func (s *TicketService) AddServiceByTechnician(ctx context.Context, ticketID, technicianID, serviceID string) (*domain.Ticket, error) {
	if _, err := s.getTicketForTechnician(ctx, ticketID, technicianID); err != nil {
		return nil, err
	}

	svc, err := s.services.GetByID(ctx, serviceID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewValidationError("Service not available", nil)
		}
		return nil, err
	}
	if !svc.EligibleForTickets() {
		return nil, apperrors.NewValidationError("Service not available", nil)
	}

	sourceID := svc.ID
	line := &domain.TicketServiceLine{
		TicketID:            ticketID,
		ServiceID:           &sourceID,
		ServiceNameSnapshot: svc.Name,
		PriceCentsSnapshot:  svc.PriceCents,
		AddedByRole:         domain.RoleTech,
	}
	if err := s.tickets.AppendServiceLine(ctx, line); err != nil {
		return nil, err
	}

	updated, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	s.publishEvent(ctx, events.Event{
		Type:     events.EventTicketServiceAdded,
		TicketID: ticketID,
		Actor:    events.Actor{UserID: technicianID, Role: domain.RoleTech},
		Payload: events.TicketServiceAddedPayload{
			ServiceID:           svc.ID,
			ServiceNameSnapshot: line.ServiceNameSnapshot,
			PriceCentsSnapshot:  line.PriceCentsSnapshot,
			TotalPriceCents:     updated.TotalPriceCents(),
		},
	})
	return updated, nil
}

func (s *TicketService) getTicket(ctx context.Context, ticketID string) (*domain.Ticket, error) {
	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("Ticket not found")
		}
		return nil, err
	}
	return ticket, nil
}

// getTicketForTechnician treats an assignment mismatch exactly like a missing
// ticket so existence is not leaked across technicians.
func (s *TicketService) getTicketForTechnician(ctx context.Context, ticketID, technicianID string) (*domain.Ticket, error) {
	ticket, err := s.getTicket(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if ticket.TechnicianID != technicianID {
		return nil, apperrors.NewNotFound("Ticket not found")
	}
	return ticket, nil
}

func (s *TicketService) applyStatus(ctx context.Context, ticket *domain.Ticket, status domain.TicketStatus, actor events.Actor) (*domain.Ticket, error) {
	oldStatus := ticket.Status
	if err := s.tickets.UpdateStatus(ctx, ticket.ID, status); err != nil {
		return nil, err
	}
	updated, err := s.tickets.GetByID(ctx, ticket.ID)
	if err != nil {
		return nil, err
	}
	s.publishEvent(ctx, events.Event{
		Type:     events.EventTicketStatusChanged,
		TicketID: ticket.ID,
		Actor:    actor,
		Payload: events.TicketStatusChangedPayload{
			OldStatus: oldStatus,
			NewStatus: status,
		},
	})
	return updated, nil
}

func (s *TicketService) publishEvent(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	_ = s.dispatcher.Publish(ctx, event)
}
