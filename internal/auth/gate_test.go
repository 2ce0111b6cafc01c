// Glowcart - Skincare Storefront and Checkout Service
// Copyright 2026 Glowskin Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/glowskin/glowcart

package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/glowskin/glowcart/internal/config"
	"github.com/glowskin/glowcart/internal/database"
)

func newTestGate(t *testing.T) *Gate {
	t.Helper()

	db, err := database.New(&config.DatabaseConfig{Path: ":memory:", Threads: 1})
	if err != nil {
		t.Fatalf("database.New() error = %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	return NewGate(db, NewMemorySessionStore(), NewJWTManager(testSecret, time.Hour), time.Hour)
}

func TestGateRegister(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	gate := newTestGate(t)

	user, err := gate.Register(ctx, "ada", "Ada@Example.com", "sup3r-secret")
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	if user.ID == "" {
		t.Error("Register() produced user without ID")
	}
	if user.Email != "ada@example.com" {
		t.Errorf("Register() email = %q, want lowercased", user.Email)
	}
	if user.PasswordHash == "sup3r-secret" {
		t.Error("Register() stored plaintext password")
	}

	// Same email, different case: still a duplicate.
	_, err = gate.Register(ctx, "ada2", "ADA@example.com", "another-password")
	if !errors.Is(err, ErrEmailTaken) {
		t.Errorf("Register() duplicate error = %v, want ErrEmailTaken", err)
	}
}

func TestGateLogin(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	gate := newTestGate(t)

	if _, err := gate.Register(ctx, "ada", "ada@example.com", "sup3r-secret"); err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	t.Run("success", func(t *testing.T) {
		user, session, token, err := gate.Login(ctx, "ada@example.com", "sup3r-secret")
		if err != nil {
			t.Fatalf("Login() error = %v", err)
		}
		if user.Username != "ada" {
			t.Errorf("Login() username = %q, want %q", user.Username, "ada")
		}
		if session == nil || session.UserID != user.ID {
			t.Errorf("Login() session = %+v, want session for user %q", session, user.ID)
		}
		if token == "" {
			t.Error("Login() returned empty token")
		}

		// Session is resolvable from the store.
		stored, err := gate.sessions.Get(ctx, session.ID)
		if err != nil {
			t.Fatalf("sessions.Get() error = %v", err)
		}
		if stored.Email != "ada@example.com" {
			t.Errorf("stored session email = %q", stored.Email)
		}
	})

	t.Run("credential failures are indistinguishable", func(t *testing.T) {
		_, _, _, unknownErr := gate.Login(ctx, "nobody@example.com", "sup3r-secret")
		_, _, _, wrongErr := gate.Login(ctx, "ada@example.com", "wrong-password")

		if !errors.Is(unknownErr, ErrInvalidCredentials) {
			t.Errorf("Login() unknown email error = %v, want ErrInvalidCredentials", unknownErr)
		}
		if !errors.Is(wrongErr, ErrInvalidCredentials) {
			t.Errorf("Login() wrong password error = %v, want ErrInvalidCredentials", wrongErr)
		}
		if unknownErr.Error() != wrongErr.Error() {
			t.Error("unknown-email and wrong-password errors differ, login can probe accounts")
		}
	})
}

func TestGateLogout(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	gate := newTestGate(t)

	if _, err := gate.Register(ctx, "ada", "ada@example.com", "sup3r-secret"); err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	_, session, _, err := gate.Login(ctx, "ada@example.com", "sup3r-secret")
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}

	if err := gate.Logout(ctx, session.ID); err != nil {
		t.Fatalf("Logout() error = %v", err)
	}
	if _, err := gate.sessions.Get(ctx, session.ID); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("session still resolvable after logout: %v", err)
	}

	// Logging out twice, or with no session, is fine.
	if err := gate.Logout(ctx, session.ID); err != nil {
		t.Errorf("Logout() replay error = %v", err)
	}
	if err := gate.Logout(ctx, ""); err != nil {
		t.Errorf("Logout() empty session error = %v", err)
	}
}
