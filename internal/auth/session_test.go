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
)

func TestNewSession(t *testing.T) {
	t.Parallel()

	session := NewSession("user-1", "ada", "ada@example.com", time.Hour)

	if session.ID == "" {
		t.Fatal("NewSession() produced empty ID")
	}
	if len(session.ID) != 64 {
		t.Errorf("session ID length = %d, want 64 hex chars", len(session.ID))
	}
	if session.IsExpired() {
		t.Error("fresh session reports expired")
	}

	other := NewSession("user-1", "ada", "ada@example.com", time.Hour)
	if other.ID == session.ID {
		t.Error("two sessions share an ID")
	}
}

func TestMemorySessionStore(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := NewMemorySessionStore()

	session := NewSession("user-1", "ada", "ada@example.com", time.Hour)
	if err := store.Create(ctx, session); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	got, err := store.Get(ctx, session.ID)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.UserID != "user-1" || got.Username != "ada" || got.Email != "ada@example.com" {
		t.Errorf("Get() = %+v, want stored fields", got)
	}

	if err := store.Delete(ctx, session.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := store.Get(ctx, session.ID); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("Get() after delete error = %v, want ErrSessionNotFound", err)
	}

	// Deleting again is not an error.
	if err := store.Delete(ctx, session.ID); err != nil {
		t.Errorf("Delete() of absent session error = %v", err)
	}
}

func TestMemorySessionStoreExpiry(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := NewMemorySessionStore()

	expired := NewSession("user-1", "ada", "ada@example.com", -time.Minute)
	live := NewSession("user-2", "grace", "grace@example.com", time.Hour)
	if err := store.Create(ctx, expired); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if err := store.Create(ctx, live); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if _, err := store.Get(ctx, expired.ID); !errors.Is(err, ErrSessionExpired) {
		t.Errorf("Get() expired session error = %v, want ErrSessionExpired", err)
	}

	count, err := store.CleanupExpired(ctx)
	if err != nil {
		t.Fatalf("CleanupExpired() error = %v", err)
	}
	if count != 1 {
		t.Errorf("CleanupExpired() = %d, want 1", count)
	}
	if _, err := store.Get(ctx, live.ID); err != nil {
		t.Errorf("Get() live session after cleanup error = %v", err)
	}
}

func TestBadgerSessionStore(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store, err := NewBadgerSessionStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewBadgerSessionStore() error = %v", err)
	}
	defer func() { _ = store.Close() }()

	session := NewSession("user-1", "ada", "ada@example.com", time.Hour)
	if err := store.Create(ctx, session); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	got, err := store.Get(ctx, session.ID)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.UserID != session.UserID {
		t.Errorf("Get().UserID = %q, want %q", got.UserID, session.UserID)
	}

	if _, err := store.Get(ctx, "no-such-session"); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("Get() missing session error = %v, want ErrSessionNotFound", err)
	}

	if err := store.Delete(ctx, session.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := store.Get(ctx, session.ID); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("Get() after delete error = %v, want ErrSessionNotFound", err)
	}
}

func TestNewSessionStore(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		storeType string
		wantErr   bool
	}{
		{name: "memory", storeType: "memory", wantErr: false},
		{name: "empty defaults to memory", storeType: "", wantErr: false},
		{name: "badger", storeType: "badger", wantErr: false},
		{name: "unknown", storeType: "redis", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			store, err := NewSessionStore(tt.storeType, t.TempDir())
			if tt.wantErr {
				if err == nil {
					t.Error("NewSessionStore() error = nil, want error")
				}
				return
			}
			if err != nil {
				t.Fatalf("NewSessionStore() error = %v", err)
			}
			_ = store.Close()
		})
	}
}
