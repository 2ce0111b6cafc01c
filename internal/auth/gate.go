// Glowcart - Skincare Storefront and Checkout Service
// Copyright 2026 Glowskin Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/glowskin/glowcart

package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/glowskin/glowcart/internal/database"
	"github.com/glowskin/glowcart/internal/logging"
	"github.com/glowskin/glowcart/internal/models"
)

// ErrEmailTaken is returned by Register when the email is already registered.
var ErrEmailTaken = errors.New("email already registered")

// Gate is the authentication service: it registers users, verifies
// credentials, and manages the resulting sessions and tokens. Handlers hold a
// Gate and never touch the stores directly.
type Gate struct {
	db         *database.DB
	sessions   SessionStore
	jwt        *JWTManager
	sessionTTL time.Duration
}

// NewGate creates the authentication service.
func NewGate(db *database.DB, sessions SessionStore, jwt *JWTManager, sessionTTL time.Duration) *Gate {
	return &Gate{
		db:         db,
		sessions:   sessions,
		jwt:        jwt,
		sessionTTL: sessionTTL,
	}
}

// Register creates a new user account with a bcrypt-hashed password.
// Returns ErrEmailTaken if the email is already registered.
func (g *Gate) Register(ctx context.Context, username, email, password string) (*models.User, error) {
	hash, err := HashPassword(password)
	if err != nil {
		return nil, err
	}

	user, err := g.db.CreateUser(ctx, username, email, hash)
	if errors.Is(err, database.ErrDuplicateEmail) {
		return nil, ErrEmailTaken
	}
	if err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	logging.Ctx(ctx).Info().Str("user_id", user.ID).Msg("User registered")
	return user, nil
}

// Login verifies credentials and establishes a session. On success it returns
// the user, a stored session for cookie-based clients, and a signed bearer
// token for API clients. Unknown email and wrong password both return
// ErrInvalidCredentials.
func (g *Gate) Login(ctx context.Context, email, password string) (*models.User, *Session, string, error) {
	user, err := g.db.GetUserByEmail(ctx, email)
	if errors.Is(err, database.ErrNotFound) {
		return nil, nil, "", ErrInvalidCredentials
	}
	if err != nil {
		return nil, nil, "", fmt.Errorf("look up user: %w", err)
	}

	if err := CheckPassword(user.PasswordHash, password); err != nil {
		return nil, nil, "", ErrInvalidCredentials
	}

	session := NewSession(user.ID, user.Username, user.Email, g.sessionTTL)
	if err := g.sessions.Create(ctx, session); err != nil {
		return nil, nil, "", fmt.Errorf("create session: %w", err)
	}

	token, err := g.jwt.Generate(user.ID, user.Username, user.Email)
	if err != nil {
		return nil, nil, "", err
	}

	logging.Ctx(ctx).Info().Str("user_id", user.ID).Msg("User logged in")
	return user, session, token, nil
}

// Logout invalidates a session. Logging out an already-absent session is not
// an error.
func (g *Gate) Logout(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return nil
	}
	return g.sessions.Delete(ctx, sessionID)
}

// CurrentUser loads the full user record for an authenticated subject.
func (g *Gate) CurrentUser(ctx context.Context, subject *Subject) (*models.User, error) {
	return g.db.GetUserByID(ctx, subject.UserID)
}
