package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk-service/internal/events"
)

// AuditService writes a structured log line for every ticket domain event.
type AuditService struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// NewAuditService creates the service.
func NewAuditService(dispatcher events.Dispatcher, logger *zap.Logger) *AuditService {
	return &AuditService{dispatcher: dispatcher, logger: logger}
}

// RegisterHandlers subscribes to ticket events.
func (a *AuditService) RegisterHandlers() {
	if a.dispatcher == nil {
		return
	}
	a.dispatcher.Subscribe(events.EventTicketCreated, a.logEvent)
	a.dispatcher.Subscribe(events.EventTicketStatusChanged, a.logEvent)
	a.dispatcher.Subscribe(events.EventTicketServiceAdded, a.logEvent)
}

func (a *AuditService) logEvent(_ context.Context, event events.Event) error {
	a.logger.Info("ticket event",
		zap.String("event_id", event.ID),
		zap.String("type", string(event.Type)),
		zap.String("ticket_id", event.TicketID),
		zap.String("actor_id", event.Actor.UserID),
		zap.String("actor_role", string(event.Actor.Role)),
		zap.Any("payload", event.Payload),
	)
	return nil
}
