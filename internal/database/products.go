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

	"github.com/glowskin/glowcart/internal/logging"
	"github.com/glowskin/glowcart/internal/models"
)

// seedProducts is the fixed demo catalog inserted on first startup.
var seedProducts = []struct {
	name  string
	price float64
}{
	{"Retinol Night Cream", 25},
	{"Vitamin C Serum", 20},
	{"Niacinamide Moisturizer", 18},
	{"Salicylic Acid Face Wash", 15},
}

// SeedCatalog inserts the demo catalog if the products table is empty.
// Safe to call on every startup.
func (db *DB) SeedCatalog(ctx context.Context) error {
	var count int
	if err := db.conn.QueryRowContext(ctx, `SELECT COUNT(*) FROM products`).Scan(&count); err != nil {
		return fmt.Errorf("failed to count products: %w", err)
	}
	if count > 0 {
		return nil
	}

	for _, p := range seedProducts {
		if _, err := db.CreateProduct(ctx, p.name, p.price); err != nil {
			return err
		}
	}

	logging.Info().Int("products", len(seedProducts)).Msg("Seeded product catalog")
	return nil
}

// CreateProduct inserts a catalog item.
func (db *DB) CreateProduct(ctx context.Context, name string, price float64) (*models.Product, error) {
	product := &models.Product{
		ID:        uuid.New().String(),
		Name:      name,
		Price:     price,
		CreatedAt: time.Now().UTC(),
	}

	stmt, err := db.getStmt(ctx, `INSERT INTO products (id, name, price, created_at) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return nil, err
	}

	if _, err := stmt.ExecContext(ctx, product.ID, product.Name, product.Price, product.CreatedAt); err != nil {
		return nil, fmt.Errorf("failed to insert product: %w", err)
	}

	return product, nil
}

// GetProduct looks up a product by ID. Returns ErrNotFound if absent.
func (db *DB) GetProduct(ctx context.Context, id string) (*models.Product, error) {
	stmt, err := db.getStmt(ctx, `SELECT id, name, price, created_at FROM products WHERE id = ?`)
	if err != nil {
		return nil, err
	}

	var product models.Product
	err = stmt.QueryRowContext(ctx, id).Scan(&product.ID, &product.Name, &product.Price, &product.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan product: %w", err)
	}

	return &product, nil
}

// SearchProducts returns the page-th slice (1-indexed) of products whose name
// contains query as a case-insensitive substring. An empty query matches the
// whole catalog. Results are ordered by insertion order (seq). An
// out-of-range page yields an empty page with correct pager flags, never an
// error.
func (db *DB) SearchProducts(ctx context.Context, query string, page, pageSize int) (*models.ProductPage, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 1
	}

	pattern := "%" + query + "%"

	countStmt, err := db.getStmt(ctx, `SELECT COUNT(*) FROM products WHERE name ILIKE ?`)
	if err != nil {
		return nil, err
	}
	var total int
	if err := countStmt.QueryRowContext(ctx, pattern).Scan(&total); err != nil {
		return nil, fmt.Errorf("failed to count search results: %w", err)
	}

	listStmt, err := db.getStmt(ctx, `SELECT id, name, price, created_at FROM products WHERE name ILIKE ? ORDER BY seq LIMIT ? OFFSET ?`)
	if err != nil {
		return nil, err
	}

	rows, err := listStmt.QueryContext(ctx, pattern, pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	defer func() { _ = rows.Close() }()

	items := make([]models.Product, 0, pageSize)
	for rows.Next() {
		var product models.Product
		if err := rows.Scan(&product.ID, &product.Name, &product.Price, &product.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan product row: %w", err)
		}
		items = append(items, product)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate product rows: %w", err)
	}

	return &models.ProductPage{
		Items:    items,
		Page:     page,
		PageSize: pageSize,
		Total:    total,
		HasNext:  page*pageSize < total,
		HasPrev:  page > 1,
	}, nil
}
