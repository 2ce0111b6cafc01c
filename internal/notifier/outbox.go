// Glowcart - Skincare Storefront and Checkout Service
// Copyright 2026 Glowskin Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/glowskin/glowcart

package notifier

import (
	"context"
	"fmt"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/goccy/go-json"

	"github.com/glowskin/glowcart/internal/models"
)

// orderConfirmedTopic is the outbox topic carrying confirmed orders.
const orderConfirmedTopic = "orders.confirmed"

// Outbox is the in-process pub/sub channel between the checkout flow and the
// delivery worker. Publishing is cheap and never blocks on SMTP.
type Outbox struct {
	pubsub *gochannel.GoChannel
}

// NewOutbox creates the outbox.
func NewOutbox() *Outbox {
	pubsub := gochannel.NewGoChannel(
		gochannel.Config{
			OutputChannelBuffer: 128,
		},
		watermill.NopLogger{},
	)
	return &Outbox{pubsub: pubsub}
}

// PublishOrderConfirmed enqueues a confirmation for asynchronous delivery.
func (o *Outbox) PublishOrderConfirmed(ctx context.Context, event models.OrderConfirmed) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encode confirmation event: %w", err)
	}

	msg := message.NewMessage(watermill.NewUUID(), payload)
	msg.SetContext(ctx)

	if err := o.pubsub.Publish(orderConfirmedTopic, msg); err != nil {
		return fmt.Errorf("publish confirmation event: %w", err)
	}
	return nil
}

// Subscribe returns the stream of confirmation messages for the worker.
func (o *Outbox) Subscribe(ctx context.Context) (<-chan *message.Message, error) {
	return o.pubsub.Subscribe(ctx, orderConfirmedTopic)
}

// Close shuts the outbox down. Pending messages are dropped.
func (o *Outbox) Close() error {
	return o.pubsub.Close()
}
