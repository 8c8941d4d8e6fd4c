package service

import (
	"context"
	"errors"
	"testing"

	"github.com/Gokul-Webzenith/maestro-done/internal/repo"
)

func TestRegisterAndLogin(t *testing.T) {
	svc := NewUserService(repo.NewMemUserRepo())
	ctx := context.Background()

	u, err := svc.Register(ctx, "User@Example.com", "secret123")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if u.ID == 0 {
		t.Error("registered user has no id")
	}
	if u.PasswordHash == "secret123" {
		t.Error("password stored in clear")
	}

	// Email normalization: login with a differently-cased address.
	got, err := svc.ValidateCredentials(ctx, "user@example.com", "secret123")
	if err != nil {
		t.Fatalf("ValidateCredentials: %v", err)
	}
	if got.ID != u.ID {
		t.Errorf("logged in as %d, want %d", got.ID, u.ID)
	}

	if _, err := svc.ValidateCredentials(ctx, "user@example.com", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("wrong password = %v, want ErrInvalidCredentials", err)
	}
	if _, err := svc.ValidateCredentials(ctx, "nobody@example.com", "secret123"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("unknown email = %v, want ErrInvalidCredentials", err)
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc := NewUserService(repo.NewMemUserRepo())
	ctx := context.Background()

	if _, err := svc.Register(ctx, "dup@example.com", "secret123"); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if _, err := svc.Register(ctx, "DUP@example.com", "other1234"); !errors.Is(err, ErrEmailTaken) {
		t.Errorf("duplicate register = %v, want ErrEmailTaken", err)
	}
}
