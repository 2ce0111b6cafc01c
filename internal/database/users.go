// Glowcart - Skincare Storefront and Checkout Service
// Copyright 2026 Glowskin Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/glowskin/glowcart

package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/glowskin/glowcart/internal/models"
)

// CreateUser persists a new user record. The email is stored lowercased and
// must be unique; a duplicate returns ErrDuplicateEmail.
func (db *DB) CreateUser(ctx context.Context, username, email, passwordHash string) (*models.User, error) {
	user := &models.User{
		ID:           uuid.New().String(),
		Username:     username,
		Email:        strings.ToLower(email),
		PasswordHash: passwordHash,
		CreatedAt:    time.Now().UTC(),
	}

	stmt, err := db.getStmt(ctx, `INSERT INTO users (id, username, email, password_hash, created_at) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return nil, err
	}

	if _, err := stmt.ExecContext(ctx, user.ID, user.Username, user.Email, user.PasswordHash, user.CreatedAt); err != nil {
		if isDuplicateKeyError(err) {
			return nil, ErrDuplicateEmail
		}
		return nil, fmt.Errorf("failed to insert user: %w", err)
	}

	return user, nil
}

// GetUserByEmail looks up a user by email (case-insensitive).
// Returns ErrNotFound if no such user exists.
func (db *DB) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	stmt, err := db.getStmt(ctx, `SELECT id, username, email, password_hash, created_at FROM users WHERE email = ?`)
	if err != nil {
		return nil, err
	}

	return scanUser(stmt.QueryRowContext(ctx, strings.ToLower(email)))
}

// GetUserByID looks up a user by ID. Returns ErrNotFound if absent.
func (db *DB) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	stmt, err := db.getStmt(ctx, `SELECT id, username, email, password_hash, created_at FROM users WHERE id = ?`)
	if err != nil {
		return nil, err
	}

	return scanUser(stmt.QueryRowContext(ctx, id))
}

func scanUser(row *sql.Row) (*models.User, error) {
	var user models.User
	err := row.Scan(&user.ID, &user.Username, &user.Email, &user.PasswordHash, &user.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan user: %w", err)
	}
	return &user, nil
}
