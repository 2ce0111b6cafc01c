// Glowcart - Skincare Storefront and Checkout Service
// Copyright 2026 Glowskin Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/glowskin/glowcart

// Package payment is a narrow client for the hosted-checkout API of a
// Stripe-compatible payment provider. It covers exactly the two calls the
// checkout flow needs: creating a checkout session and (optionally)
// retrieving one.
package payment

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/glowskin/glowcart/internal/config"
	"github.com/glowskin/glowcart/internal/logging"
	"github.com/glowskin/glowcart/internal/metrics"
	"github.com/glowskin/glowcart/internal/models"
)

const serviceName = "payment"

// CheckoutSession is the provider-hosted payment session. The customer is
// redirected to URL; ID is later echoed back on the success callback.
type CheckoutSession struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

// SessionRequest describes a single-product checkout to create.
type SessionRequest struct {
	ProductName string
	// AmountMinor is the unit price in the currency's minor units (cents).
	AmountMinor int64
	Quantity    int
	SuccessURL  string
	CancelURL   string
}

// Client talks to the payment provider's REST API.
type Client struct {
	httpClient *http.Client
	baseURL    string
	secretKey  string
	currency   string
}

// NewClient creates a payment client from configuration.
func NewClient(cfg config.PaymentConfig) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		secretKey:  cfg.SecretKey,
		currency:   cfg.Currency,
	}
}

// CreateSession creates a hosted checkout session for a single product and
// returns the session ID and redirect URL.
func (c *Client) CreateSession(ctx context.Context, req SessionRequest) (*CheckoutSession, error) {
	quantity := req.Quantity
	if quantity < 1 {
		quantity = 1
	}

	form := url.Values{}
	form.Set("mode", "payment")
	form.Set("success_url", req.SuccessURL)
	form.Set("cancel_url", req.CancelURL)
	form.Set("line_items[0][price_data][currency]", c.currency)
	form.Set("line_items[0][price_data][product_data][name]", req.ProductName)
	form.Set("line_items[0][price_data][unit_amount]", strconv.FormatInt(req.AmountMinor, 10))
	form.Set("line_items[0][quantity]", strconv.Itoa(quantity))

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/v1/checkout/sessions", strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("build session request: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.secretKey)
	httpReq.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		metrics.UpstreamRequestsTotal.WithLabelValues(serviceName, "error").Inc()
		return nil, &models.UpstreamError{
			Service: serviceName,
			Message: "checkout session request failed",
			Err:     err,
		}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		// Drain so the connection can be reused; never surface the body.
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		metrics.UpstreamRequestsTotal.WithLabelValues(serviceName, "error").Inc()
		logging.Ctx(ctx).Warn().Int("status", resp.StatusCode).Msg("Payment provider rejected session request")
		return nil, &models.UpstreamError{
			Service:    serviceName,
			StatusCode: resp.StatusCode,
			Message:    "checkout session creation rejected",
		}
	}

	var session CheckoutSession
	if err := json.NewDecoder(resp.Body).Decode(&session); err != nil {
		return nil, &models.UpstreamError{
			Service: serviceName,
			Message: "malformed checkout session response",
			Err:     err,
		}
	}
	if session.ID == "" || session.URL == "" {
		return nil, &models.UpstreamError{
			Service: serviceName,
			Message: "checkout session response missing id or url",
		}
	}

	metrics.UpstreamRequestsTotal.WithLabelValues(serviceName, "ok").Inc()
	return &session, nil
}
