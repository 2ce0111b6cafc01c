// Glowcart - Skincare Storefront and Checkout Service
// Copyright 2026 Glowskin Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/glowskin/glowcart

// Package auth provides credential verification, session management, and the
// authentication middleware that gates storefront operations.
package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"sync"
	"time"
)

// Session-related errors
var (
	// ErrSessionNotFound is returned when a session is not found in the store.
	ErrSessionNotFound = errors.New("session not found")

	// ErrSessionExpired is returned when trying to access an expired session.
	ErrSessionExpired = errors.New("session expired")
)

// Session represents an authenticated user session. Sessions are created at
// login and referenced by an opaque ID carried in the session cookie.
type Session struct {
	// ID is the unique session identifier (opaque token).
	ID string `json:"id"`

	// UserID is the authenticated user's unique identifier.
	UserID string `json:"user_id"`

	// Username is the authenticated user's username.
	Username string `json:"username"`

	// Email is the authenticated user's email address.
	Email string `json:"email"`

	// CreatedAt is when the session was created.
	CreatedAt time.Time `json:"created_at"`

	// ExpiresAt is when the session expires.
	ExpiresAt time.Time `json:"expires_at"`
}

// IsExpired returns true if the session has expired.
func (s *Session) IsExpired() bool {
	return time.Now().After(s.ExpiresAt)
}

// NewSession creates a session for a user with the given lifetime.
func NewSession(userID, username, email string, duration time.Duration) *Session {
	now := time.Now()
	return &Session{
		ID:        generateSessionID(),
		UserID:    userID,
		Username:  username,
		Email:     email,
		CreatedAt: now,
		ExpiresAt: now.Add(duration),
	}
}

// generateSessionID generates a cryptographically secure session ID.
func generateSessionID() string {
	bytes := make([]byte, 32)
	_, err := rand.Read(bytes)
	if err != nil {
		// Fallback to less secure but still random ID
		return hex.EncodeToString([]byte(time.Now().String()))
	}
	return hex.EncodeToString(bytes)
}

// SessionStore defines the interface for session storage backends.
type SessionStore interface {
	// Create stores a new session.
	Create(ctx context.Context, session *Session) error

	// Get retrieves a session by ID.
	// Returns ErrSessionNotFound if not found.
	// Returns ErrSessionExpired if the session exists but is expired.
	Get(ctx context.Context, id string) (*Session, error)

	// Delete removes a session by ID. No error if it does not exist.
	Delete(ctx context.Context, id string) error

	// CleanupExpired removes all expired sessions and returns the count.
	CleanupExpired(ctx context.Context) (int, error)

	// Close releases store resources.
	Close() error
}

// MemorySessionStore is an in-memory SessionStore. Suitable for development
// and testing; sessions do not survive restarts.
type MemorySessionStore struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewMemorySessionStore creates a new in-memory session store.
func NewMemorySessionStore() *MemorySessionStore {
	return &MemorySessionStore{
		sessions: make(map[string]*Session),
	}
}

// Create stores a new session.
func (s *MemorySessionStore) Create(ctx context.Context, session *Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	copied := *session
	s.sessions[session.ID] = &copied
	return nil
}

// Get retrieves a session by ID.
func (s *MemorySessionStore) Get(ctx context.Context, id string) (*Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	session, ok := s.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	if session.IsExpired() {
		return nil, ErrSessionExpired
	}

	copied := *session
	return &copied, nil
}

// Delete removes a session by ID.
func (s *MemorySessionStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.sessions, id)
	return nil
}

// CleanupExpired removes all expired sessions.
func (s *MemorySessionStore) CleanupExpired(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	count := 0
	for id, session := range s.sessions {
		if session.IsExpired() {
			delete(s.sessions, id)
			count++
		}
	}
	return count, nil
}

// Close implements SessionStore; the memory store holds no resources.
func (s *MemorySessionStore) Close() error {
	return nil
}

// StartCleanupRoutine starts a goroutine that periodically removes expired
// sessions from the given store. Close the returned channel to stop it.
func StartCleanupRoutine(store SessionStore, interval time.Duration) chan struct{} {
	done := make(chan struct{})
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				//nolint:errcheck // Background cleanup - errors are non-critical
				store.CleanupExpired(context.Background())
			case <-done:
				return
			}
		}
	}()
	return done
}
