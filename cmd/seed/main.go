package main

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk-service/internal/auth"
	"github.com/spec-kit/helpdesk-service/internal/config"
	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/observability"
	"github.com/spec-kit/helpdesk-service/internal/persistence"
	"github.com/spec-kit/helpdesk-service/internal/repository"
)

const (
	adminEmail    = "admin@helpdesk.local"
	adminPassword = "Admin@123"
)

type techSeed struct {
	name     string
	email    string
	password string
	ranges   [][2]int
}

var techSeeds = []techSeed{
	{name: "Tech One", email: "tech1@helpdesk.local", password: "Tech1@123", ranges: [][2]int{{8, 12}, {14, 18}}},
	{name: "Tech Two", email: "tech2@helpdesk.local", password: "Tech2@123", ranges: [][2]int{{10, 14}, {16, 20}}},
	{name: "Tech Three", email: "tech3@helpdesk.local", password: "Tech3@123", ranges: [][2]int{{12, 16}, {18, 22}}},
}

type serviceSeed struct {
	name        string
	description string
	priceCents  int64
}

var serviceSeeds = []serviceSeed{
	{name: "Instalacao de software", description: "Setup e configuracao inicial", priceCents: 12000},
	{name: "Manutencao preventiva", description: "Revisao e limpeza", priceCents: 18000},
	{name: "Suporte remoto", description: "Atendimento online", priceCents: 9000},
	{name: "Troca de componente", description: "Substituicao de hardware", priceCents: 25000},
	{name: "Diagnostico tecnico", description: "Analise de problema", priceCents: 15000},
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx := context.Background()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
		logger.Fatal("failed to run migrations", zap.Error(err))
	}

	pool := pg.PoolHandle()
	userRepo := repository.NewUserRepository(pool)
	technicianRepo := repository.NewTechnicianRepository(pool)
	serviceRepo := repository.NewServiceRepository(pool)

	if err := seedAdmin(ctx, cfg, userRepo, logger); err != nil {
		logger.Fatal("failed to seed admin", zap.Error(err))
	}
	if err := seedTechnicians(ctx, cfg, userRepo, technicianRepo, logger); err != nil {
		logger.Fatal("failed to seed technicians", zap.Error(err))
	}
	if err := seedServices(ctx, serviceRepo, logger); err != nil {
		logger.Fatal("failed to seed services", zap.Error(err))
	}

	logger.Info("seed completed",
		zap.String("admin_login", adminEmail+" / "+adminPassword),
		zap.String("tech_logins", "tech1@helpdesk.local / Tech1@123 | tech2@helpdesk.local / Tech2@123 | tech3@helpdesk.local / Tech3@123"))
}

func seedAdmin(ctx context.Context, cfg *config.Config, users repository.UserRepository, logger *zap.Logger) error {
	_, err := users.GetByEmail(ctx, adminEmail)
	if err == nil {
		logger.Info("admin already present, skipping")
		return nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return err
	}

	hash, err := auth.HashPassword(adminPassword, cfg.Auth.BcryptCost)
	if err != nil {
		return err
	}

	admin := &domain.User{
		Name:         "Admin",
		Email:        adminEmail,
		PasswordHash: hash,
		Role:         domain.RoleAdmin,
		IsActive:     true,
	}
	if err := users.Create(ctx, admin); err != nil {
		return err
	}
	logger.Info("seeded admin", zap.String("email", adminEmail))
	return nil
}

func seedTechnicians(ctx context.Context, cfg *config.Config, users repository.UserRepository, technicians repository.TechnicianRepository, logger *zap.Logger) error {
	existing, err := users.ListByRole(ctx, domain.RoleTech)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		logger.Info("technicians already present, skipping")
		return nil
	}

	for _, seed := range techSeeds {
		hash, err := auth.HashPassword(seed.password, cfg.Auth.BcryptCost)
		if err != nil {
			return err
		}

		tech := &domain.User{
			Name:               seed.name,
			Email:              seed.email,
			PasswordHash:       hash,
			Role:               domain.RoleTech,
			IsActive:           true,
			MustChangePassword: true,
		}
		if err := technicians.Create(ctx, tech, buildAvailability(seed.ranges)); err != nil {
			return err
		}
		logger.Info("seeded technician", zap.String("email", seed.email))
	}
	return nil
}

func seedServices(ctx context.Context, services repository.ServiceRepository, logger *zap.Logger) error {
	existing, err := services.List(ctx, nil)
	if err != nil {
		return err
	}
	if len(existing) >= len(serviceSeeds) {
		logger.Info("services already present, skipping")
		return nil
	}

	known := make(map[string]bool, len(existing))
	for _, svc := range existing {
		known[svc.Name] = true
	}

	for _, seed := range serviceSeeds {
		if known[seed.name] {
			continue
		}
		description := seed.description
		svc := &domain.Service{
			Name:        seed.name,
			Description: &description,
			PriceCents:  seed.priceCents,
			IsActive:    true,
		}
		if err := services.Create(ctx, svc); err != nil {
			return err
		}
		logger.Info("seeded service", zap.String("name", seed.name))
	}
	return nil
}

// buildAvailability expands hour ranges into "HH:00" labels, inclusive of
// both endpoints.
func buildAvailability(ranges [][2]int) []string {
	var times []string
	for _, r := range ranges {
		for hour := r[0]; hour <= r[1]; hour++ {
			times = append(times, fmt.Sprintf("%02d:00", hour))
		}
	}
	return times
}
