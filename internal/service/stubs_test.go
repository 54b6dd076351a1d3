package service

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/helpdesk-service/internal/domain"
)

type stubTicketRepo struct {
	tickets map[string]*domain.Ticket
	nextID  int
}

func newStubTicketRepo() *stubTicketRepo {
	return &stubTicketRepo{tickets: make(map[string]*domain.Ticket)}
}

func (r *stubTicketRepo) Create(_ context.Context, ticket *domain.Ticket) error {
	r.nextID++
	ticket.ID = fmt.Sprintf("ticket-%d", r.nextID)
	for i := range ticket.Services {
		ticket.Services[i].TicketID = ticket.ID
	}
	stored := *ticket
	stored.Services = append([]domain.TicketServiceLine{}, ticket.Services...)
	r.tickets[ticket.ID] = &stored
	return nil
}

func (r *stubTicketRepo) GetByID(_ context.Context, id string) (*domain.Ticket, error) {
	ticket, ok := r.tickets[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	found := *ticket
	found.Services = append([]domain.TicketServiceLine{}, ticket.Services...)
	return &found, nil
}

func (r *stubTicketRepo) ListAll(_ context.Context) ([]domain.Ticket, error) {
	var result []domain.Ticket
	for _, ticket := range r.tickets {
		result = append(result, *ticket)
	}
	return result, nil
}

func (r *stubTicketRepo) ListByClient(_ context.Context, clientID string) ([]domain.Ticket, error) {
	var result []domain.Ticket
	for _, ticket := range r.tickets {
		if ticket.ClientID == clientID {
			result = append(result, *ticket)
		}
	}
	return result, nil
}

func (r *stubTicketRepo) ListByTechnician(_ context.Context, technicianID string) ([]domain.Ticket, error) {
	var result []domain.Ticket
	for _, ticket := range r.tickets {
		if ticket.TechnicianID == technicianID {
			result = append(result, *ticket)
		}
	}
	return result, nil
}

func (r *stubTicketRepo) UpdateStatus(_ context.Context, id string, status domain.TicketStatus) error {
	ticket, ok := r.tickets[id]
	if !ok {
		return pgx.ErrNoRows
	}
	ticket.Status = status
	return nil
}

func (r *stubTicketRepo) AppendServiceLine(_ context.Context, line *domain.TicketServiceLine) error {
	ticket, ok := r.tickets[line.TicketID]
	if !ok {
		return pgx.ErrNoRows
	}
	line.ID = fmt.Sprintf("line-%d", len(ticket.Services)+1)
	ticket.Services = append(ticket.Services, *line)
	return nil
}

type stubTechnicianRepo struct {
	technicians map[string]*domain.User
}

func newStubTechnicianRepo(technicians ...*domain.User) *stubTechnicianRepo {
	repo := &stubTechnicianRepo{technicians: make(map[string]*domain.User)}
	for _, tech := range technicians {
		repo.technicians[tech.ID] = tech
	}
	return repo
}

func (r *stubTechnicianRepo) Create(_ context.Context, user *domain.User, availabilityTimes []string) error {
	if user.ID == "" {
		user.ID = fmt.Sprintf("tech-%d", len(r.technicians)+1)
	}
	user.TechnicianProfile = &domain.TechnicianProfile{AvailabilityTimes: availabilityTimes}
	r.technicians[user.ID] = user
	return nil
}

func (r *stubTechnicianRepo) Update(_ context.Context, user *domain.User, availabilityTimes []string) error {
	existing, ok := r.technicians[user.ID]
	if !ok {
		return pgx.ErrNoRows
	}
	*existing = *user
	if availabilityTimes != nil {
		existing.TechnicianProfile = &domain.TechnicianProfile{AvailabilityTimes: availabilityTimes}
	}
	return nil
}

func (r *stubTechnicianRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	tech, ok := r.technicians[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return tech, nil
}

func (r *stubTechnicianRepo) List(_ context.Context) ([]domain.User, error) {
	var result []domain.User
	for _, tech := range r.technicians {
		result = append(result, *tech)
	}
	return result, nil
}

func (r *stubTechnicianRepo) ListActive(_ context.Context) ([]domain.User, error) {
	var result []domain.User
	for _, tech := range r.technicians {
		if tech.IsActive {
			result = append(result, *tech)
		}
	}
	return result, nil
}

type stubServiceRepo struct {
	services map[string]*domain.Service
}

func newStubServiceRepo(services ...*domain.Service) *stubServiceRepo {
	repo := &stubServiceRepo{services: make(map[string]*domain.Service)}
	for _, svc := range services {
		repo.services[svc.ID] = svc
	}
	return repo
}

func (r *stubServiceRepo) Create(_ context.Context, svc *domain.Service) error {
	if svc.ID == "" {
		svc.ID = fmt.Sprintf("svc-%d", len(r.services)+1)
	}
	svc.IsActive = true
	r.services[svc.ID] = svc
	return nil
}

func (r *stubServiceRepo) Update(_ context.Context, svc *domain.Service) error {
	if _, ok := r.services[svc.ID]; !ok {
		return pgx.ErrNoRows
	}
	r.services[svc.ID] = svc
	return nil
}

func (r *stubServiceRepo) GetByID(_ context.Context, id string) (*domain.Service, error) {
	svc, ok := r.services[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	found := *svc
	return &found, nil
}

func (r *stubServiceRepo) List(_ context.Context, isActive *bool) ([]domain.Service, error) {
	var result []domain.Service
	for _, svc := range r.services {
		if isActive != nil && svc.IsActive != *isActive {
			continue
		}
		result = append(result, *svc)
	}
	return result, nil
}

func (r *stubServiceRepo) ListActive(_ context.Context) ([]domain.Service, error) {
	var result []domain.Service
	for _, svc := range r.services {
		if svc.EligibleForTickets() {
			result = append(result, *svc)
		}
	}
	return result, nil
}

func (r *stubServiceRepo) ListEligibleByIDs(_ context.Context, ids []string) ([]domain.Service, error) {
	seen := make(map[string]bool, len(ids))
	var result []domain.Service
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		svc, ok := r.services[id]
		if !ok || !svc.EligibleForTickets() {
			continue
		}
		result = append(result, *svc)
	}
	return result, nil
}

type stubUserRepo struct {
	users map[string]*domain.User
}

func newStubUserRepo(users ...*domain.User) *stubUserRepo {
	repo := &stubUserRepo{users: make(map[string]*domain.User)}
	for _, user := range users {
		repo.users[user.ID] = user
	}
	return repo
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) error {
	if user.ID == "" {
		user.ID = fmt.Sprintf("user-%d", len(r.users)+1)
	}
	r.users[user.ID] = user
	return nil
}

func (r *stubUserRepo) Update(_ context.Context, user *domain.User) error {
	if _, ok := r.users[user.ID]; !ok {
		return pgx.ErrNoRows
	}
	r.users[user.ID] = user
	return nil
}

func (r *stubUserRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	user, ok := r.users[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	found := *user
	return &found, nil
}

func (r *stubUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, user := range r.users {
		if user.Email == email {
			found := *user
			return &found, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *stubUserRepo) ListByRole(_ context.Context, role domain.Role) ([]domain.User, error) {
	var result []domain.User
	for _, user := range r.users {
		if user.Role == role {
			result = append(result, *user)
		}
	}
	return result, nil
}

func (r *stubUserRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.users[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(r.users, id)
	return nil
}

type stubCatalogCache struct {
	entries       []domain.Service
	warm          bool
	sets          int
	invalidations int
}

func (c *stubCatalogCache) GetActiveServices(_ context.Context) ([]domain.Service, bool) {
	if !c.warm {
		return nil, false
	}
	return c.entries, true
}

func (c *stubCatalogCache) SetActiveServices(_ context.Context, services []domain.Service) {
	c.entries = services
	c.warm = true
	c.sets++
}

func (c *stubCatalogCache) Invalidate(_ context.Context) {
	c.entries = nil
	c.warm = false
	c.invalidations++
}
