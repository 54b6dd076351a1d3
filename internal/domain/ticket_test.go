package domain

import "testing"

func TestTotalPriceCents(t *testing.T) {
	ticket := &Ticket{
		Services: []TicketServiceLine{
			{ServiceNameSnapshot: "Suporte remoto", PriceCentsSnapshot: 9000, AddedByRole: RoleClient},
			{ServiceNameSnapshot: "Diagnostico tecnico", PriceCentsSnapshot: 1500, AddedByRole: RoleTech},
		},
	}

	if got := ticket.TotalPriceCents(); got != 10500 {
		t.Fatalf("expected total 10500, got %d", got)
	}
}

func TestTotalPriceCentsEmpty(t *testing.T) {
	ticket := &Ticket{}
	if got := ticket.TotalPriceCents(); got != 0 {
		t.Fatalf("expected total 0, got %d", got)
	}
}

func TestTotalPriceCentsIgnoresRole(t *testing.T) {
	ticket := &Ticket{
		Services: []TicketServiceLine{
			{PriceCentsSnapshot: 100, AddedByRole: RoleClient},
			{PriceCentsSnapshot: 200, AddedByRole: RoleTech},
			{PriceCentsSnapshot: 300, AddedByRole: RoleAdmin},
		},
	}
	if got := ticket.TotalPriceCents(); got != 600 {
		t.Fatalf("expected total 600, got %d", got)
	}
}

func TestTicketStatusValid(t *testing.T) {
	for _, status := range []TicketStatus{TicketStatusOpen, TicketStatusInProgress, TicketStatusClosed} {
		if !status.Valid() {
			t.Fatalf("expected %q to be valid", status)
		}
	}
	if TicketStatus("CANCELADO").Valid() {
		t.Fatal("expected unknown status to be invalid")
	}
}

func TestRoleValid(t *testing.T) {
	for _, role := range []Role{RoleClient, RoleTech, RoleAdmin} {
		if !role.Valid() {
			t.Fatalf("expected %q to be valid", role)
		}
	}
	if Role("ROOT").Valid() {
		t.Fatal("expected unknown role to be invalid")
	}
}

func TestServiceEligibleForTickets(t *testing.T) {
	svc := &Service{IsActive: true}
	if !svc.EligibleForTickets() {
		t.Fatal("active service should be eligible")
	}

	svc.IsActive = false
	if svc.EligibleForTickets() {
		t.Fatal("inactive service should not be eligible")
	}
}
