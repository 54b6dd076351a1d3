package auth

import (
	"strings"
	"testing"

	"github.com/spec-kit/helpdesk-service/internal/domain"
)

func TestGenerateAndParseToken(t *testing.T) {
	tm := NewTokenManager("test-secret", 15)

	token, expiresAt, err := tm.GenerateToken("user-1", domain.RoleTech)
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}
	if expiresAt.IsZero() {
		t.Fatal("expected expiry to be set")
	}

	claims, err := tm.ParseToken(token)
	if err != nil {
		t.Fatalf("parse token: %v", err)
	}
	if claims.Subject != "user-1" {
		t.Fatalf("expected subject user-1, got %s", claims.Subject)
	}
	if claims.Role != domain.RoleTech {
		t.Fatalf("expected role TECH, got %s", claims.Role)
	}
}

func TestParseTokenRejectsWrongSecret(t *testing.T) {
	token, _, err := NewTokenManager("secret-a", 15).GenerateToken("user-1", domain.RoleClient)
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}

	if _, err := NewTokenManager("secret-b", 15).ParseToken(token); err == nil {
		t.Fatal("expected token signed with another secret to be rejected")
	}
}

func TestParseTokenRejectsGarbage(t *testing.T) {
	tm := NewTokenManager("test-secret", 15)
	if _, err := tm.ParseToken("not-a-token"); err == nil {
		t.Fatal("expected malformed token to be rejected")
	}
}

func TestGenerateTempPassword(t *testing.T) {
	first := GenerateTempPassword()
	second := GenerateTempPassword()

	if !strings.HasPrefix(first, "Tmp@") {
		t.Fatalf("unexpected prefix in %q", first)
	}
	if len(first) != len("Tmp@")+10 {
		t.Fatalf("unexpected length %d", len(first))
	}
	if first == second {
		t.Fatal("temp passwords should not repeat")
	}
}

func TestHashAndComparePassword(t *testing.T) {
	hash, err := HashPassword("Secret@123", 4)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	if err := ComparePassword(hash, "Secret@123"); err != nil {
		t.Fatalf("expected matching password: %v", err)
	}
	if err := ComparePassword(hash, "Wrong@123"); err == nil {
		t.Fatal("expected mismatching password to fail")
	}
}
