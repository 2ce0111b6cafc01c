// Glowcart - Skincare Storefront and Checkout Service
// Copyright 2026 Glowskin Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/glowskin/glowcart

// Package notifier delivers order confirmation emails. Confirmations are
// published to an in-process outbox at checkout and drained by a worker, so
// a slow or failing mail relay never blocks the purchase flow.
package notifier

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"net/smtp"
	"strings"
	"time"

	"github.com/glowskin/glowcart/internal/config"
	"github.com/glowskin/glowcart/internal/models"
)

// Mailer abstracts confirmation delivery for the worker.
type Mailer interface {
	SendOrderConfirmation(ctx context.Context, event models.OrderConfirmed) error
}

// SMTPMailer sends order confirmations through an SMTP relay.
type SMTPMailer struct {
	cfg         config.MailConfig
	dialTimeout time.Duration
}

// NewSMTPMailer creates a mailer from the SMTP relay configuration.
func NewSMTPMailer(cfg config.MailConfig) *SMTPMailer {
	return &SMTPMailer{
		cfg:         cfg,
		dialTimeout: 30 * time.Second,
	}
}

// SendOrderConfirmation emails the customer that their order is confirmed.
func (m *SMTPMailer) SendOrderConfirmation(ctx context.Context, event models.OrderConfirmed) error {
	msg := m.buildMessage(event)
	return m.sendSMTP(ctx, event.UserEmail, msg)
}

// buildMessage constructs the confirmation email with headers.
func (m *SMTPMailer) buildMessage(event models.OrderConfirmed) string {
	var msg strings.Builder

	fromName := m.cfg.FromName
	if fromName == "" {
		fromName = "Glowcart"
	}

	msg.WriteString(fmt.Sprintf("From: %s <%s>\r\n", fromName, m.cfg.From))
	msg.WriteString(fmt.Sprintf("To: %s\r\n", event.UserEmail))
	msg.WriteString("Subject: Order Confirmed\r\n")
	msg.WriteString(fmt.Sprintf("X-Order-ID: %s\r\n", event.OrderID))
	msg.WriteString("MIME-Version: 1.0\r\n")
	msg.WriteString("Content-Type: text/plain; charset=UTF-8\r\n")
	msg.WriteString("\r\n")
	msg.WriteString(fmt.Sprintf("Your order for %s is confirmed.\r\n", event.ProductName))

	return msg.String()
}

// sendSMTP delivers the message via SMTP with optional STARTTLS and auth.
func (m *SMTPMailer) sendSMTP(ctx context.Context, to, msg string) error {
	addr := fmt.Sprintf("%s:%d", m.cfg.Host, m.cfg.Port)

	dialer := &net.Dialer{Timeout: m.dialTimeout}
	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to connect to SMTP server: %w", err)
	}
	defer func() { _ = conn.Close() }()

	client, err := smtp.NewClient(conn, m.cfg.Host)
	if err != nil {
		return fmt.Errorf("failed to create SMTP client: %w", err)
	}
	defer func() { _ = client.Close() }()

	if m.cfg.UseTLS {
		tlsConfig := &tls.Config{
			ServerName: m.cfg.Host,
			MinVersion: tls.VersionTLS12,
		}
		if err := client.StartTLS(tlsConfig); err != nil {
			return fmt.Errorf("failed to start TLS: %w", err)
		}
	}

	if m.cfg.Username != "" && m.cfg.Password != "" {
		auth := smtp.PlainAuth("", m.cfg.Username, m.cfg.Password, m.cfg.Host)
		if err := client.Auth(auth); err != nil {
			return fmt.Errorf("SMTP authentication failed: %w", err)
		}
	}

	if err := client.Mail(m.cfg.From); err != nil {
		return fmt.Errorf("failed to set sender: %w", err)
	}
	if err := client.Rcpt(to); err != nil {
		return fmt.Errorf("failed to set recipient: %w", err)
	}

	writer, err := client.Data()
	if err != nil {
		return fmt.Errorf("failed to start message: %w", err)
	}
	if _, err := writer.Write([]byte(msg)); err != nil {
		return fmt.Errorf("failed to write message: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to close message: %w", err)
	}

	// Quit failures after a delivered message are not send failures.
	if err := client.Quit(); err != nil {
		return nil
	}

	return nil
}
