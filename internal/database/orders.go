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
	"time"

	"github.com/google/uuid"

	"github.com/glowskin/glowcart/internal/models"
)

// RecordPaidOrder appends an order in terminal "Paid" status. The write is
// idempotent on providerSessionID: replaying the payment provider's success
// callback returns the already-recorded order instead of inserting a
// duplicate. The boolean result reports whether a new row was created.
func (db *DB) RecordPaidOrder(ctx context.Context, userID, productID, providerSessionID string) (*models.Order, bool, error) {
	order := &models.Order{
		ID:                uuid.New().String(),
		UserID:            userID,
		ProductID:         productID,
		Status:            models.OrderStatusPaid,
		ProviderSessionID: providerSessionID,
		CreatedAt:         time.Now().UTC(),
	}

	stmt, err := db.getStmt(ctx, `INSERT INTO orders (id, user_id, product_id, status, provider_session_id, created_at)
		VALUES (?, ?, ?, ?, ?, ?) ON CONFLICT (provider_session_id) DO NOTHING`)
	if err != nil {
		return nil, false, err
	}

	res, err := stmt.ExecContext(ctx, order.ID, order.UserID, order.ProductID, order.Status, order.ProviderSessionID, order.CreatedAt)
	if err != nil {
		return nil, false, fmt.Errorf("failed to insert order: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return nil, false, fmt.Errorf("failed to read insert result: %w", err)
	}
	if affected > 0 {
		return order, true, nil
	}

	// Conflict path: the callback was replayed, return the existing order.
	existing, err := db.GetOrderByProviderSession(ctx, providerSessionID)
	if err != nil {
		return nil, false, err
	}
	return existing, false, nil
}

// GetOrderByProviderSession looks up an order by the payment provider's
// checkout session ID. Returns ErrNotFound if absent.
func (db *DB) GetOrderByProviderSession(ctx context.Context, providerSessionID string) (*models.Order, error) {
	stmt, err := db.getStmt(ctx, `SELECT id, user_id, product_id, status, provider_session_id, created_at
		FROM orders WHERE provider_session_id = ?`)
	if err != nil {
		return nil, err
	}

	return scanOrder(stmt.QueryRowContext(ctx, providerSessionID))
}

// ListOrdersByUser returns all orders owned by a user, newest first.
func (db *DB) ListOrdersByUser(ctx context.Context, userID string) ([]models.Order, error) {
	stmt, err := db.getStmt(ctx, `SELECT id, user_id, product_id, status, provider_session_id, created_at
		FROM orders WHERE user_id = ? ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}

	rows, err := stmt.QueryContext(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query orders: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var orders []models.Order
	for rows.Next() {
		var order models.Order
		if err := rows.Scan(&order.ID, &order.UserID, &order.ProductID, &order.Status, &order.ProviderSessionID, &order.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan order row: %w", err)
		}
		orders = append(orders, order)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate order rows: %w", err)
	}

	return orders, nil
}

// CountOrders returns the total number of recorded orders.
func (db *DB) CountOrders(ctx context.Context) (int, error) {
	var count int
	if err := db.conn.QueryRowContext(ctx, `SELECT COUNT(*) FROM orders`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count orders: %w", err)
	}
	return count, nil
}

func scanOrder(row *sql.Row) (*models.Order, error) {
	var order models.Order
	err := row.Scan(&order.ID, &order.UserID, &order.ProductID, &order.Status, &order.ProviderSessionID, &order.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan order: %w", err)
	}
	return &order, nil
}
