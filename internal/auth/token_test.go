package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/transops/transops/internal/identity"
)

func TestMintAndVerify(t *testing.T) {
	svc := NewTokenService("test-secret", time.Hour)
	user := identity.User{ID: "u-1", Email: "d@example.com", Role: identity.RoleDriver}

	token, err := svc.Mint(user)
	if err != nil {
		t.Fatalf("mint: %v", err)
	}

	claims, err := svc.Verify(token)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if claims.UserID != "u-1" || claims.Role != identity.RoleDriver {
		t.Fatalf("unexpected claims: %+v", claims)
	}
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
	token, err := NewTokenService("secret-a", time.Hour).Mint(identity.User{ID: "u-1"})
	if err != nil {
		t.Fatalf("mint: %v", err)
	}

	_, err = NewTokenService("secret-b", time.Hour).Verify(token)
	if !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestVerifyRejectsExpiredToken(t *testing.T) {
	svc := NewTokenService("test-secret", -time.Minute)
	token, err := svc.Mint(identity.User{ID: "u-1"})
	if err != nil {
		t.Fatalf("mint: %v", err)
	}

	if _, err := svc.Verify(token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected expired token rejection, got %v", err)
	}
}

func TestVerifyRejectsGarbage(t *testing.T) {
	svc := NewTokenService("test-secret", time.Hour)
	if _, err := svc.Verify("not.a.token"); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}
