package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk-service/internal/api/http/handlers"
	"github.com/spec-kit/helpdesk-service/internal/auth"
	"github.com/spec-kit/helpdesk-service/internal/config"
	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/events"
	"github.com/spec-kit/helpdesk-service/internal/observability"
	"github.com/spec-kit/helpdesk-service/internal/service"
)

type memUserRepo struct {
	users map[string]*domain.User
}

func (r *memUserRepo) Create(_ context.Context, user *domain.User) error {
	if user.ID == "" {
		user.ID = fmt.Sprintf("user-%d", len(r.users)+1)
	}
	r.users[user.ID] = user
	return nil
}

func (r *memUserRepo) Update(_ context.Context, user *domain.User) error {
	if _, ok := r.users[user.ID]; !ok {
		return pgx.ErrNoRows
	}
	r.users[user.ID] = user
	return nil
}

func (r *memUserRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	user, ok := r.users[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	found := *user
	return &found, nil
}

func (r *memUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, user := range r.users {
		if user.Email == email {
			found := *user
			return &found, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *memUserRepo) ListByRole(_ context.Context, role domain.Role) ([]domain.User, error) {
	var result []domain.User
	for _, user := range r.users {
		if user.Role == role {
			result = append(result, *user)
		}
	}
	return result, nil
}

func (r *memUserRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.users[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(r.users, id)
	return nil
}

type memTechnicianRepo struct {
	users *memUserRepo
}

func (r *memTechnicianRepo) Create(ctx context.Context, user *domain.User, availabilityTimes []string) error {
	user.TechnicianProfile = &domain.TechnicianProfile{AvailabilityTimes: availabilityTimes}
	return r.users.Create(ctx, user)
}

func (r *memTechnicianRepo) Update(ctx context.Context, user *domain.User, availabilityTimes []string) error {
	if availabilityTimes != nil {
		user.TechnicianProfile = &domain.TechnicianProfile{AvailabilityTimes: availabilityTimes}
	}
	return r.users.Update(ctx, user)
}

func (r *memTechnicianRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	user, err := r.users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user.Role != domain.RoleTech {
		return nil, pgx.ErrNoRows
	}
	return user, nil
}

func (r *memTechnicianRepo) List(ctx context.Context) ([]domain.User, error) {
	return r.users.ListByRole(ctx, domain.RoleTech)
}

func (r *memTechnicianRepo) ListActive(ctx context.Context) ([]domain.User, error) {
	technicians, err := r.users.ListByRole(ctx, domain.RoleTech)
	if err != nil {
		return nil, err
	}
	var result []domain.User
	for _, tech := range technicians {
		if tech.IsActive {
			result = append(result, tech)
		}
	}
	return result, nil
}

type memServiceRepo struct {
	services map[string]*domain.Service
}

func (r *memServiceRepo) Create(_ context.Context, svc *domain.Service) error {
	if svc.ID == "" {
		svc.ID = fmt.Sprintf("svc-%d", len(r.services)+1)
	}
	svc.IsActive = true
	r.services[svc.ID] = svc
	return nil
}

func (r *memServiceRepo) Update(_ context.Context, svc *domain.Service) error {
	if _, ok := r.services[svc.ID]; !ok {
		return pgx.ErrNoRows
	}
	r.services[svc.ID] = svc
	return nil
}

func (r *memServiceRepo) GetByID(_ context.Context, id string) (*domain.Service, error) {
	svc, ok := r.services[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	found := *svc
	return &found, nil
}

func (r *memServiceRepo) List(_ context.Context, isActive *bool) ([]domain.Service, error) {
	var result []domain.Service
	for _, svc := range r.services {
		if isActive != nil && svc.IsActive != *isActive {
			continue
		}
		result = append(result, *svc)
	}
	return result, nil
}

func (r *memServiceRepo) ListActive(_ context.Context) ([]domain.Service, error) {
	var result []domain.Service
	for _, svc := range r.services {
		if svc.EligibleForTickets() {
			result = append(result, *svc)
		}
	}
	return result, nil
}

func (r *memServiceRepo) ListEligibleByIDs(_ context.Context, ids []string) ([]domain.Service, error) {
	seen := make(map[string]bool, len(ids))
	var result []domain.Service
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		if svc, ok := r.services[id]; ok && svc.EligibleForTickets() {
			result = append(result, *svc)
		}
	}
	return result, nil
}

type memTicketRepo struct {
	tickets map[string]*domain.Ticket
	users   *memUserRepo
}

func (r *memTicketRepo) Create(_ context.Context, ticket *domain.Ticket) error {
	ticket.ID = fmt.Sprintf("ticket-%d", len(r.tickets)+1)
	for i := range ticket.Services {
		ticket.Services[i].TicketID = ticket.ID
	}
	stored := *ticket
	stored.Services = append([]domain.TicketServiceLine{}, ticket.Services...)
	r.tickets[ticket.ID] = &stored
	return nil
}

func (r *memTicketRepo) GetByID(_ context.Context, id string) (*domain.Ticket, error) {
	ticket, ok := r.tickets[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	found := *ticket
	found.Services = append([]domain.TicketServiceLine{}, ticket.Services...)
	found.Client = r.users.users[ticket.ClientID]
	found.Technician = r.users.users[ticket.TechnicianID]
	return &found, nil
}

func (r *memTicketRepo) ListAll(ctx context.Context) ([]domain.Ticket, error) {
	var result []domain.Ticket
	for id := range r.tickets {
		ticket, err := r.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		result = append(result, *ticket)
	}
	return result, nil
}

func (r *memTicketRepo) ListByClient(ctx context.Context, clientID string) ([]domain.Ticket, error) {
	all, err := r.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	var result []domain.Ticket
	for _, ticket := range all {
		if ticket.ClientID == clientID {
			result = append(result, ticket)
		}
	}
	return result, nil
}

func (r *memTicketRepo) ListByTechnician(ctx context.Context, technicianID string) ([]domain.Ticket, error) {
	all, err := r.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	var result []domain.Ticket
	for _, ticket := range all {
		if ticket.TechnicianID == technicianID {
			result = append(result, ticket)
		}
	}
	return result, nil
}

func (r *memTicketRepo) UpdateStatus(_ context.Context, id string, status domain.TicketStatus) error {
	ticket, ok := r.tickets[id]
	if !ok {
		return pgx.ErrNoRows
	}
	ticket.Status = status
	return nil
}

func (r *memTicketRepo) AppendServiceLine(_ context.Context, line *domain.TicketServiceLine) error {
	ticket, ok := r.tickets[line.TicketID]
	if !ok {
		return pgx.ErrNoRows
	}
	ticket.Services = append(ticket.Services, *line)
	return nil
}

func newTestApp(t *testing.T) *fiber.App {
	t.Helper()

	userRepo := &memUserRepo{users: make(map[string]*domain.User)}
	technicianRepo := &memTechnicianRepo{users: userRepo}
	serviceRepo := &memServiceRepo{services: make(map[string]*domain.Service)}
	ticketRepo := &memTicketRepo{tickets: make(map[string]*domain.Ticket), users: userRepo}

	techHash, err := auth.HashPassword("Tech1@123", 4)
	if err != nil {
		t.Fatalf("hash tech password: %v", err)
	}
	userRepo.users["tech-1"] = &domain.User{
		ID:           "tech-1",
		Name:         "Tech One",
		Email:        "tech1@helpdesk.local",
		PasswordHash: techHash,
		Role:         domain.RoleTech,
		IsActive:     true,
	}
	serviceRepo.services["svc-remote"] = &domain.Service{
		ID: "svc-remote", Name: "Suporte remoto", PriceCents: 9000, IsActive: true,
	}
	serviceRepo.services["svc-diag"] = &domain.Service{
		ID: "svc-diag", Name: "Diagnostico tecnico", PriceCents: 1500, IsActive: true,
	}

	authCfg := config.AuthConfig{JWTSecret: "test-secret", AccessTokenTTLMinutes: 15, BcryptCost: 4}
	authService := service.NewAuthService(authCfg, userRepo)
	clientService := service.NewClientService(userRepo, authCfg.BcryptCost)
	technicianService := service.NewTechnicianService(technicianRepo, userRepo, authCfg.BcryptCost)
	catalogService := service.NewCatalogService(serviceRepo, nil)
	userService := service.NewUserService(userRepo)
	ticketService := service.NewTicketService(service.TicketDependencies{
		TicketRepo:     ticketRepo,
		TechnicianRepo: technicianRepo,
		ServiceRepo:    serviceRepo,
		Dispatcher:     events.NewInMemoryDispatcher(),
	})

	logger := zap.NewNop()
	app := fiber.New()
	RegisterMiddlewares(app, logger, observability.NewMetrics(), 0)
	RegisterRoutes(app, RouteConfig{
		Health:         handlers.NewHealthHandler("helpdesk-service", "test", nil, nil),
		Auth:           handlers.NewAuthHandler(authService),
		Me:             handlers.NewMeHandler(userService, config.UploadConfig{Dir: t.TempDir()}),
		Clients:        handlers.NewClientsHandler(clientService),
		Technicians:    handlers.NewTechniciansHandler(technicianService),
		Services:       handlers.NewServicesHandler(catalogService),
		Tickets:        handlers.NewTicketsHandler(ticketService),
		StaffTickets:   handlers.NewStaffTicketsHandler(ticketService),
		AuthMiddleware: auth.NewAuthMiddleware(authService.TokenManager(), userRepo),
	})
	return app
}

func doJSON(t *testing.T, app *fiber.App, method, path, token string, body any) (*http.Response, []byte) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(payload)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read response: %v", err)
	}
	resp.Body.Close()
	return resp, raw
}

func login(t *testing.T, app *fiber.App, email, password string) string {
	t.Helper()

	resp, raw := doJSON(t, app, http.MethodPost, "/auth/login", "", fiber.Map{
		"email":    email,
		"password": password,
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("login %s: status %d body %s", email, resp.StatusCode, raw)
	}

	var envelope struct {
		Data struct {
			Token string `json:"token"`
		} `json:"data"`
	}
	if err := json.Unmarshal(raw, &envelope); err != nil {
		t.Fatalf("decode login response: %v", err)
	}
	if envelope.Data.Token == "" {
		t.Fatal("expected a token")
	}
	return envelope.Data.Token
}

type ticketEnvelope struct {
	Data struct {
		ID              string `json:"id"`
		Status          string `json:"status"`
		TotalPriceCents int64  `json:"total_price_cents"`
		Services        []struct {
			ServiceNameSnapshot string `json:"service_name_snapshot"`
			PriceCentsSnapshot  int64  `json:"price_cents_snapshot"`
			AddedByRole         string `json:"added_by_role"`
		} `json:"services"`
	} `json:"data"`
}

func decodeTicket(t *testing.T, raw []byte) ticketEnvelope {
	t.Helper()
	var envelope ticketEnvelope
	if err := json.Unmarshal(raw, &envelope); err != nil {
		t.Fatalf("decode ticket response: %v (%s)", err, raw)
	}
	return envelope
}

func TestTicketLifecycleOverHTTP(t *testing.T) {
	app := newTestApp(t)

	resp, raw := doJSON(t, app, http.MethodPost, "/client/register", "", fiber.Map{
		"name":     "Maria",
		"email":    "maria@example.com",
		"password": "Maria@123",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("register: status %d body %s", resp.StatusCode, raw)
	}

	clientToken := login(t, app, "maria@example.com", "Maria@123")
	techToken := login(t, app, "tech1@helpdesk.local", "Tech1@123")

	resp, raw = doJSON(t, app, http.MethodPost, "/client/tickets", clientToken, fiber.Map{
		"title":         "Notebook lento",
		"description":   "Demora para iniciar",
		"technician_id": "tech-1",
		"service_ids":   []string{"svc-remote"},
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create ticket: status %d body %s", resp.StatusCode, raw)
	}
	created := decodeTicket(t, raw)
	if created.Data.Status != "ABERTO" || created.Data.TotalPriceCents != 9000 {
		t.Fatalf("unexpected ticket after creation: %+v", created.Data)
	}
	ticketID := created.Data.ID

	resp, raw = doJSON(t, app, http.MethodPatch, "/tech/tickets/"+ticketID+"/status", techToken, fiber.Map{
		"status": "EM_ATENDIMENTO",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("start ticket: status %d body %s", resp.StatusCode, raw)
	}
	started := decodeTicket(t, raw)
	if started.Data.Status != "EM_ATENDIMENTO" {
		t.Fatalf("expected EM_ATENDIMENTO, got %s", started.Data.Status)
	}

	resp, raw = doJSON(t, app, http.MethodPost, "/tech/tickets/"+ticketID+"/services", techToken, fiber.Map{
		"service_id": "svc-diag",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("add service: status %d body %s", resp.StatusCode, raw)
	}
	augmented := decodeTicket(t, raw)
	if augmented.Data.TotalPriceCents != 10500 {
		t.Fatalf("expected total 10500, got %d", augmented.Data.TotalPriceCents)
	}
	if len(augmented.Data.Services) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(augmented.Data.Services))
	}
	if augmented.Data.Services[0].AddedByRole != "CLIENT" || augmented.Data.Services[1].AddedByRole != "TECH" {
		t.Fatalf("unexpected line roles: %+v", augmented.Data.Services)
	}

	resp, raw = doJSON(t, app, http.MethodPatch, "/tech/tickets/"+ticketID+"/status", techToken, fiber.Map{
		"status": "ENCERRADO",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("close ticket: status %d body %s", resp.StatusCode, raw)
	}
	closed := decodeTicket(t, raw)
	if closed.Data.Status != "ENCERRADO" || closed.Data.TotalPriceCents != 10500 {
		t.Fatalf("unexpected closed ticket: %+v", closed.Data)
	}
}

func TestTicketTransitionErrorsOverHTTP(t *testing.T) {
	app := newTestApp(t)

	_, _ = doJSON(t, app, http.MethodPost, "/client/register", "", fiber.Map{
		"name": "Maria", "email": "maria@example.com", "password": "Maria@123",
	})
	clientToken := login(t, app, "maria@example.com", "Maria@123")
	techToken := login(t, app, "tech1@helpdesk.local", "Tech1@123")

	resp, raw := doJSON(t, app, http.MethodPost, "/client/tickets", clientToken, fiber.Map{
		"title":         "Sem internet",
		"description":   "Conexao cai toda hora",
		"technician_id": "tech-1",
		"service_ids":   []string{"svc-remote"},
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create ticket: status %d body %s", resp.StatusCode, raw)
	}
	ticketID := decodeTicket(t, raw).Data.ID

	resp, raw = doJSON(t, app, http.MethodPatch, "/tech/tickets/"+ticketID+"/status", techToken, fiber.Map{
		"status": "ENCERRADO",
	})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d body %s", resp.StatusCode, raw)
	}

	var errEnvelope struct {
		Error struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(raw, &errEnvelope); err != nil {
		t.Fatalf("decode error envelope: %v (%s)", err, raw)
	}
	if errEnvelope.Error.Message != "Ticket must be in progress to close" {
		t.Fatalf("unexpected error message %q", errEnvelope.Error.Message)
	}
}

func TestRoleGatesOverHTTP(t *testing.T) {
	app := newTestApp(t)

	_, _ = doJSON(t, app, http.MethodPost, "/client/register", "", fiber.Map{
		"name": "Maria", "email": "maria@example.com", "password": "Maria@123",
	})
	clientToken := login(t, app, "maria@example.com", "Maria@123")

	resp, _ := doJSON(t, app, http.MethodGet, "/tech/tickets", clientToken, nil)
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("expected 403 for client on tech route, got %d", resp.StatusCode)
	}

	resp, _ = doJSON(t, app, http.MethodGet, "/client/tickets", "", nil)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", resp.StatusCode)
	}

	resp, _ = doJSON(t, app, http.MethodGet, "/admin/tickets", clientToken, nil)
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("expected 403 for client on admin route, got %d", resp.StatusCode)
	}
}
