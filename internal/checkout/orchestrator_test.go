// Glowcart - Skincare Storefront and Checkout Service
// Copyright 2026 Glowskin Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/glowskin/glowcart

package checkout

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/glowskin/glowcart/internal/auth"
	"github.com/glowskin/glowcart/internal/config"
	"github.com/glowskin/glowcart/internal/database"
	"github.com/glowskin/glowcart/internal/models"
	"github.com/glowskin/glowcart/internal/payment"
)

type fakePayments struct {
	calls    int
	lastReq  payment.SessionRequest
	response *payment.CheckoutSession
	err      error
}

func (f *fakePayments) CreateSession(ctx context.Context, req payment.SessionRequest) (*payment.CheckoutSession, error) {
	f.calls++
	f.lastReq = req
	if f.err != nil {
		return nil, f.err
	}
	return f.response, nil
}

type fakePublisher struct {
	events []models.OrderConfirmed
	err    error
}

func (f *fakePublisher) PublishOrderConfirmed(ctx context.Context, event models.OrderConfirmed) error {
	if f.err != nil {
		return f.err
	}
	f.events = append(f.events, event)
	return nil
}

type testEnv struct {
	db        *database.DB
	payments  *fakePayments
	publisher *fakePublisher
	orch      *Orchestrator
	product   *models.Product
	subject   *auth.Subject
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := database.New(&config.DatabaseConfig{Path: ":memory:", Threads: 1})
	if err != nil {
		t.Fatalf("database.New() error = %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	ctx := context.Background()
	user, err := db.CreateUser(ctx, "ada", "ada@example.com", "hash")
	if err != nil {
		t.Fatalf("CreateUser() error = %v", err)
	}
	product, err := db.CreateProduct(ctx, "Vitamin C Serum", 19.99)
	if err != nil {
		t.Fatalf("CreateProduct() error = %v", err)
	}

	payments := &fakePayments{
		response: &payment.CheckoutSession{ID: "cs_test_123", URL: "https://checkout.example.com/pay/cs_test_123"},
	}
	publisher := &fakePublisher{}

	return &testEnv{
		db:        db,
		payments:  payments,
		publisher: publisher,
		orch:      New(db, payments, publisher, "https://shop.example.com"),
		product:   product,
		subject:   &auth.Subject{UserID: user.ID, Username: "ada", Email: "ada@example.com"},
	}
}

func TestInitiate(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)

	redirectURL, err := env.orch.Initiate(context.Background(), env.product.ID)
	if err != nil {
		t.Fatalf("Initiate() error = %v", err)
	}
	if redirectURL != "https://checkout.example.com/pay/cs_test_123" {
		t.Errorf("Initiate() = %q", redirectURL)
	}

	req := env.payments.lastReq
	if req.ProductName != "Vitamin C Serum" {
		t.Errorf("ProductName = %q", req.ProductName)
	}
	// 19.99 -> 1999 minor units, rounded not truncated.
	if req.AmountMinor != 1999 {
		t.Errorf("AmountMinor = %d, want 1999", req.AmountMinor)
	}
	if !strings.Contains(req.SuccessURL, "session_id={CHECKOUT_SESSION_ID}") {
		t.Errorf("SuccessURL missing session placeholder: %q", req.SuccessURL)
	}
	if !strings.Contains(req.SuccessURL, "product_id="+env.product.ID) {
		t.Errorf("SuccessURL missing product id: %q", req.SuccessURL)
	}
	if req.CancelURL != "https://shop.example.com/" {
		t.Errorf("CancelURL = %q", req.CancelURL)
	}
}

func TestInitiateUnknownProductSkipsProvider(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)

	_, err := env.orch.Initiate(context.Background(), "no-such-product")
	if !errors.Is(err, database.ErrNotFound) {
		t.Fatalf("Initiate() error = %v, want ErrNotFound", err)
	}
	if env.payments.calls != 0 {
		t.Errorf("payment provider contacted %d times for unknown product, want 0", env.payments.calls)
	}
}

func TestInitiateUpstreamFailure(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	env.payments.err = &models.UpstreamError{Service: "payment", StatusCode: 500, Message: "down"}

	_, err := env.orch.Initiate(context.Background(), env.product.ID)
	var uerr *models.UpstreamError
	if !errors.As(err, &uerr) {
		t.Fatalf("Initiate() error = %v, want UpstreamError", err)
	}

	// No order may exist before payment completes.
	count, err := env.db.CountOrders(context.Background())
	if err != nil {
		t.Fatalf("CountOrders() error = %v", err)
	}
	if count != 0 {
		t.Errorf("orders recorded on failed initiate = %d, want 0", count)
	}
}

func TestConfirmRecordsOrderAndPublishes(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	ctx := context.Background()

	order, err := env.orch.Confirm(ctx, env.subject, env.product.ID, "cs_test_123")
	if err != nil {
		t.Fatalf("Confirm() error = %v", err)
	}
	if order.Status != models.OrderStatusPaid {
		t.Errorf("order status = %q, want %q", order.Status, models.OrderStatusPaid)
	}
	if order.UserID != env.subject.UserID {
		t.Errorf("order user = %q, want %q", order.UserID, env.subject.UserID)
	}

	if len(env.publisher.events) != 1 {
		t.Fatalf("published events = %d, want 1", len(env.publisher.events))
	}
	event := env.publisher.events[0]
	if event.OrderID != order.ID {
		t.Errorf("event order = %q, want %q", event.OrderID, order.ID)
	}
	if event.UserEmail != "ada@example.com" {
		t.Errorf("event email = %q", event.UserEmail)
	}
	if event.ProductName != "Vitamin C Serum" {
		t.Errorf("event product = %q", event.ProductName)
	}
}

func TestConfirmReplayIsDeduplicated(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	ctx := context.Background()

	first, err := env.orch.Confirm(ctx, env.subject, env.product.ID, "cs_test_123")
	if err != nil {
		t.Fatalf("Confirm() error = %v", err)
	}
	second, err := env.orch.Confirm(ctx, env.subject, env.product.ID, "cs_test_123")
	if err != nil {
		t.Fatalf("replayed Confirm() error = %v", err)
	}

	if second.ID != first.ID {
		t.Errorf("replayed Confirm() order = %q, want %q", second.ID, first.ID)
	}
	count, err := env.db.CountOrders(ctx)
	if err != nil {
		t.Fatalf("CountOrders() error = %v", err)
	}
	if count != 1 {
		t.Errorf("orders after replay = %d, want 1", count)
	}
	if len(env.publisher.events) != 1 {
		t.Errorf("published events after replay = %d, want 1", len(env.publisher.events))
	}
}

func TestConfirmUnknownProduct(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)

	_, err := env.orch.Confirm(context.Background(), env.subject, "no-such-product", "cs_test_123")
	if !errors.Is(err, database.ErrNotFound) {
		t.Fatalf("Confirm() error = %v, want ErrNotFound", err)
	}
}

func TestConfirmPublishFailureDoesNotFailPurchase(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	env.publisher.err = errors.New("outbox closed")

	order, err := env.orch.Confirm(context.Background(), env.subject, env.product.ID, "cs_test_123")
	if err != nil {
		t.Fatalf("Confirm() error = %v, order must be recorded despite publish failure", err)
	}
	if order == nil || order.Status != models.OrderStatusPaid {
		t.Errorf("order = %+v, want recorded Paid order", order)
	}
}
