// Glowcart - Skincare Storefront and Checkout Service
// Copyright 2026 Glowskin Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/glowskin/glowcart

// Package models defines the core storefront entities and API payload types.
package models

import "time"

// OrderStatusPaid is the only order status the system writes. Orders are
// created in this terminal state; there is no pending/cancelled lifecycle.
const OrderStatusPaid = "Paid"

// User is a registered storefront account. The password is stored only as a
// bcrypt hash, never in plaintext.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// Product is a catalog item. Products are seeded at startup and immutable in
// normal operation.
type Product struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Price     float64   `json:"price"`
	CreatedAt time.Time `json:"created_at"`
}

// PriceMinorUnits returns the product price in integer minor currency units
// (cents for usd), as required by the payment provider.
func (p *Product) PriceMinorUnits() int64 {
	return int64(p.Price*100 + 0.5)
}

// Order is an append-only purchase record. ProviderSessionID is the payment
// provider's checkout session ID and is unique: replaying a confirmation
// callback maps onto the existing row instead of creating a duplicate.
type Order struct {
	ID                string    `json:"id"`
	UserID            string    `json:"user_id"`
	ProductID         string    `json:"product_id"`
	Status            string    `json:"status"`
	ProviderSessionID string    `json:"provider_session_id"`
	CreatedAt         time.Time `json:"created_at"`
}

// ProductPage is one page of catalog search results.
type ProductPage struct {
	Items    []Product `json:"items"`
	Page     int       `json:"page"`
	PageSize int       `json:"page_size"`
	Total    int       `json:"total"`
	HasNext  bool      `json:"has_next"`
	HasPrev  bool      `json:"has_prev"`
}

// OrderConfirmed is the notification outbox event published after an order
// has been durably recorded.
type OrderConfirmed struct {
	OrderID     string    `json:"order_id"`
	UserEmail   string    `json:"user_email"`
	ProductName string    `json:"product_name"`
	ConfirmedAt time.Time `json:"confirmed_at"`
}
