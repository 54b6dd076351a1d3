package service

import (
	"context"
	"testing"

	"github.com/spec-kit/helpdesk-service/internal/domain"
)

func TestCatalogListActiveUsesCache(t *testing.T) {
	repo := newStubServiceRepo(
		&domain.Service{ID: "svc-1", Name: "Suporte remoto", PriceCents: 9000, IsActive: true},
	)
	cache := &stubCatalogCache{}
	svc := NewCatalogService(repo, cache)
	ctx := context.Background()

	first, err := svc.ListActive(ctx)
	if err != nil {
		t.Fatalf("list active: %v", err)
	}
	if len(first) != 1 || cache.sets != 1 {
		t.Fatalf("expected cold read to warm the cache: len=%d sets=%d", len(first), cache.sets)
	}

	// Remove from storage; the warm cache must still serve the entry.
	delete(repo.services, "svc-1")

	second, err := svc.ListActive(ctx)
	if err != nil {
		t.Fatalf("list active warm: %v", err)
	}
	if len(second) != 1 {
		t.Fatalf("expected cached entry, got %d entries", len(second))
	}
}

func TestCatalogWritesInvalidateCache(t *testing.T) {
	repo := newStubServiceRepo(
		&domain.Service{ID: "svc-1", Name: "Suporte remoto", PriceCents: 9000, IsActive: true},
	)
	cache := &stubCatalogCache{}
	svc := NewCatalogService(repo, cache)
	ctx := context.Background()

	if _, err := svc.ListActive(ctx); err != nil {
		t.Fatalf("warm cache: %v", err)
	}

	if _, err := svc.Create(ctx, ServiceCreateInput{Name: "Diagnostico tecnico", PriceCents: 15000}); err != nil {
		t.Fatalf("create: %v", err)
	}
	if cache.invalidations != 1 {
		t.Fatalf("expected 1 invalidation after create, got %d", cache.invalidations)
	}

	price := int64(9500)
	if _, err := svc.Update(ctx, "svc-1", ServiceUpdateInput{PriceCents: &price}); err != nil {
		t.Fatalf("update: %v", err)
	}
	if cache.invalidations != 2 {
		t.Fatalf("expected 2 invalidations after update, got %d", cache.invalidations)
	}

	if _, err := svc.Deactivate(ctx, "svc-1"); err != nil {
		t.Fatalf("deactivate: %v", err)
	}
	if cache.invalidations != 3 {
		t.Fatalf("expected 3 invalidations after deactivate, got %d", cache.invalidations)
	}
}

func TestCatalogDeactivateSoftDeletes(t *testing.T) {
	repo := newStubServiceRepo(
		&domain.Service{ID: "svc-1", Name: "Suporte remoto", PriceCents: 9000, IsActive: true},
	)
	svc := NewCatalogService(repo, nil)
	ctx := context.Background()

	deactivated, err := svc.Deactivate(ctx, "svc-1")
	if err != nil {
		t.Fatalf("deactivate: %v", err)
	}
	if deactivated.IsActive {
		t.Fatal("expected service to be inactive")
	}
	if deactivated.DeletedAt == nil {
		t.Fatal("expected removal timestamp")
	}
	if deactivated.EligibleForTickets() {
		t.Fatal("deactivated service must not be eligible")
	}

	// The row survives for historical listings.
	all, err := svc.List(ctx, nil)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(all) != 1 {
		t.Fatalf("expected soft-deleted entry to remain listed, got %d", len(all))
	}
}

func TestCatalogUpdateUnknownService(t *testing.T) {
	svc := NewCatalogService(newStubServiceRepo(), nil)

	name := "Novo nome"
	_, err := svc.Update(context.Background(), "svc-missing", ServiceUpdateInput{Name: &name})
	assertDomainError(t, err, 404, "Service not found")
}
