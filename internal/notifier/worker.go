// Glowcart - Skincare Storefront and Checkout Service
// Copyright 2026 Glowskin Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/glowskin/glowcart

package notifier

import (
	"context"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/goccy/go-json"

	"github.com/glowskin/glowcart/internal/config"
	"github.com/glowskin/glowcart/internal/logging"
	"github.com/glowskin/glowcart/internal/metrics"
	"github.com/glowskin/glowcart/internal/models"
)

// Worker drains the outbox and delivers confirmation emails with bounded
// retries. Delivery is at-least-once: a crash between send and ack may
// re-deliver, never silently drop.
type Worker struct {
	outbox     *Outbox
	mailer     Mailer
	maxRetries int
	retryDelay time.Duration
}

// NewWorker creates the delivery worker.
func NewWorker(outbox *Outbox, mailer Mailer, cfg config.NotifierConfig) *Worker {
	maxRetries := cfg.MaxRetries
	if maxRetries < 1 {
		maxRetries = 1
	}
	retryDelay := cfg.RetryDelay
	if retryDelay <= 0 {
		retryDelay = time.Second
	}
	return &Worker{
		outbox:     outbox,
		mailer:     mailer,
		maxRetries: maxRetries,
		retryDelay: retryDelay,
	}
}

// Serve consumes confirmation events until the context is cancelled.
// It satisfies suture.Service.
func (w *Worker) Serve(ctx context.Context) error {
	messages, err := w.outbox.Subscribe(ctx)
	if err != nil {
		return err
	}

	logging.Info().Msg("Notification worker started")

	for {
		select {
		case <-ctx.Done():
			logging.Info().Msg("Notification worker stopping")
			return ctx.Err()
		case msg, ok := <-messages:
			if !ok {
				return nil
			}
			w.handle(ctx, msg)
			msg.Ack()
		}
	}
}

// handle delivers one confirmation, retrying transient failures. The message
// is always acked afterwards; a confirmation that exhausts its retries is
// logged and counted, not redelivered forever.
func (w *Worker) handle(ctx context.Context, msg *message.Message) {
	var event models.OrderConfirmed
	if err := json.Unmarshal(msg.Payload, &event); err != nil {
		logging.Error().Err(err).Str("message_id", msg.UUID).Msg("Dropping malformed confirmation event")
		return
	}

	log := logging.Logger().With().
		Str("order_id", event.OrderID).
		Str("message_id", msg.UUID).
		Logger()

	for attempt := 1; attempt <= w.maxRetries; attempt++ {
		err := w.mailer.SendOrderConfirmation(ctx, event)
		if err == nil {
			metrics.ConfirmationEmailsTotal.WithLabelValues(metrics.EmailResultSent).Inc()
			log.Info().Int("attempt", attempt).Msg("Confirmation email sent")
			return
		}

		log.Warn().Err(err).Int("attempt", attempt).Msg("Confirmation email attempt failed")

		if attempt == w.maxRetries {
			break
		}
		select {
		case <-ctx.Done():
			metrics.ConfirmationEmailsTotal.WithLabelValues(metrics.EmailResultFailed).Inc()
			return
		case <-time.After(w.retryDelay):
		}
	}

	metrics.ConfirmationEmailsTotal.WithLabelValues(metrics.EmailResultFailed).Inc()
	log.Error().Int("attempts", w.maxRetries).Msg("Confirmation email delivery exhausted retries")
}
