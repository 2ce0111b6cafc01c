// Glowcart - Skincare Storefront and Checkout Service
// Copyright 2026 Glowskin Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/glowskin/glowcart

// Package checkout orchestrates the hosted-payment purchase flow: it creates
// provider checkout sessions, records paid orders exactly once, and hands
// confirmation events to the notification outbox.
package checkout

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/glowskin/glowcart/internal/auth"
	"github.com/glowskin/glowcart/internal/database"
	"github.com/glowskin/glowcart/internal/logging"
	"github.com/glowskin/glowcart/internal/metrics"
	"github.com/glowskin/glowcart/internal/models"
	"github.com/glowskin/glowcart/internal/payment"
)

// SessionCreator is the slice of the payment client the orchestrator needs.
type SessionCreator interface {
	CreateSession(ctx context.Context, req payment.SessionRequest) (*payment.CheckoutSession, error)
}

// ConfirmationPublisher hands confirmed orders to the notification outbox.
type ConfirmationPublisher interface {
	PublishOrderConfirmed(ctx context.Context, event models.OrderConfirmed) error
}

// Orchestrator drives the two-step checkout flow. Initiate creates the
// provider session and returns its redirect URL; Confirm records the paid
// order when the provider sends the customer back.
type Orchestrator struct {
	db          *database.DB
	payments    SessionCreator
	publisher   ConfirmationPublisher
	externalURL string
}

// New creates the checkout orchestrator. externalURL is this service's public
// base URL, used to build the provider's success and cancel redirects.
func New(db *database.DB, payments SessionCreator, publisher ConfirmationPublisher, externalURL string) *Orchestrator {
	return &Orchestrator{
		db:          db,
		payments:    payments,
		publisher:   publisher,
		externalURL: externalURL,
	}
}

// Initiate creates a hosted checkout session for the product and returns the
// provider URL to redirect the customer to. An unknown product returns
// database.ErrNotFound before the provider is ever contacted.
func (o *Orchestrator) Initiate(ctx context.Context, productID string) (string, error) {
	product, err := o.db.GetProduct(ctx, productID)
	if err != nil {
		return "", err
	}

	// The provider substitutes its session ID into the placeholder when
	// redirecting, which lets Confirm deduplicate replayed callbacks.
	successURL := fmt.Sprintf("%s/success?session_id={CHECKOUT_SESSION_ID}&product_id=%s",
		o.externalURL, url.QueryEscape(product.ID))

	session, err := o.payments.CreateSession(ctx, payment.SessionRequest{
		ProductName: product.Name,
		AmountMinor: product.PriceMinorUnits(),
		Quantity:    1,
		SuccessURL:  successURL,
		CancelURL:   o.externalURL + "/",
	})
	if err != nil {
		return "", err
	}

	logging.Ctx(ctx).Info().
		Str("product_id", product.ID).
		Str("provider_session_id", session.ID).
		Msg("Checkout session created")

	return session.URL, nil
}

// Confirm records the paid order after the provider redirects the customer
// back. The write is idempotent on providerSessionID: a replayed callback
// returns the already-recorded order and publishes no second confirmation.
func (o *Orchestrator) Confirm(ctx context.Context, subject *auth.Subject, productID, providerSessionID string) (*models.Order, error) {
	product, err := o.db.GetProduct(ctx, productID)
	if err != nil {
		return nil, err
	}

	order, created, err := o.db.RecordPaidOrder(ctx, subject.UserID, product.ID, providerSessionID)
	if err != nil {
		return nil, err
	}

	if !created {
		metrics.OrdersRecordedTotal.WithLabelValues(metrics.OrderOutcomeDuplicate).Inc()
		logging.Ctx(ctx).Info().
			Str("order_id", order.ID).
			Str("provider_session_id", providerSessionID).
			Msg("Duplicate confirmation callback, order already recorded")
		return order, nil
	}

	metrics.OrdersRecordedTotal.WithLabelValues(metrics.OrderOutcomeCreated).Inc()

	event := models.OrderConfirmed{
		OrderID:     order.ID,
		UserEmail:   subject.Email,
		ProductName: product.Name,
		ConfirmedAt: time.Now().UTC(),
	}
	if err := o.publisher.PublishOrderConfirmed(ctx, event); err != nil {
		// The order is recorded; a lost confirmation email must not fail
		// the purchase.
		logging.Ctx(ctx).Error().Err(err).Str("order_id", order.ID).Msg("Failed to enqueue order confirmation")
	}

	logging.Ctx(ctx).Info().
		Str("order_id", order.ID).
		Str("product_id", product.ID).
		Msg("Order recorded")

	return order, nil
}
