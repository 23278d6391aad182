package identity

import (
	"context"
	"errors"
	"testing"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	svc, err := NewService(Account{Email: "admin@hospital.com", Password: "password123"})
	if err != nil {
		t.Fatalf("failed to create service: %v", err)
	}
	return svc
}

func TestAuthenticateSuccess(t *testing.T) {
	svc := newTestService(t)

	subject, err := svc.Authenticate(context.Background(), "admin@hospital.com", "password123")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if subject != "admin@hospital.com" {
		t.Fatalf("subject = %q, want admin@hospital.com", subject)
	}
}

func TestAuthenticateUniformFailure(t *testing.T) {
	svc := newTestService(t)

	// Wrong password and unknown email fail identically, so the error gives
	// no signal about which half of the pair was wrong.
	cases := []struct {
		name            string
		email, password string
	}{
		{"wrong password", "admin@hospital.com", "wrong"},
		{"unknown email", "nurse@hospital.com", "password123"},
		{"both wrong", "nurse@hospital.com", "wrong"},
		{"empty pair", "", ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Authenticate(context.Background(), tc.email, tc.password)
			if !errors.Is(err, ErrInvalidCredentials) {
				t.Fatalf("expected ErrInvalidCredentials, got %v", err)
			}
		})
	}
}

func TestNewServiceRequiresAccount(t *testing.T) {
	if _, err := NewService(Account{Email: "admin@hospital.com"}); err == nil {
		t.Fatal("expected error for a missing password")
	}
	if _, err := NewService(Account{Password: "password123"}); err == nil {
		t.Fatal("expected error for a missing email")
	}
}
