// Glowcart - Skincare Storefront and Checkout Service
// Copyright 2026 Glowskin Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/glowskin/glowcart

// Package ai produces skincare product recommendations by delegating prompt
// completion to an OpenAI-compatible inference service.
package ai

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/glowskin/glowcart/internal/config"
	"github.com/glowskin/glowcart/internal/logging"
	"github.com/glowskin/glowcart/internal/metrics"
	"github.com/glowskin/glowcart/internal/models"
)

const serviceName = "ai"

// Completer abstracts the inference backend so the gateway can be tested
// without network access.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// Client calls an OpenAI-compatible chat completions endpoint.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	model      string
}

// NewClient creates an inference client from configuration.
func NewClient(cfg config.AIConfig) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:     cfg.APIKey,
		model:      cfg.Model,
	}
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// Complete sends the prompt as a single-turn chat and returns the assistant's
// reply text.
func (c *Client) Complete(ctx context.Context, prompt string) (string, error) {
	body, err := json.Marshal(chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "user", Content: prompt},
		},
	})
	if err != nil {
		return "", fmt.Errorf("encode completion request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/v1/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build completion request: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		metrics.UpstreamRequestsTotal.WithLabelValues(serviceName, "error").Inc()
		return "", &models.UpstreamError{
			Service: serviceName,
			Message: "completion request failed",
			Err:     err,
		}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		metrics.UpstreamRequestsTotal.WithLabelValues(serviceName, "error").Inc()
		logging.Ctx(ctx).Warn().Int("status", resp.StatusCode).Msg("Inference service rejected completion request")
		return "", &models.UpstreamError{
			Service:    serviceName,
			StatusCode: resp.StatusCode,
			Message:    "completion request rejected",
		}
	}

	var parsed chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", &models.UpstreamError{
			Service: serviceName,
			Message: "malformed completion response",
			Err:     err,
		}
	}
	if len(parsed.Choices) == 0 {
		return "", &models.UpstreamError{
			Service: serviceName,
			Message: "completion response contained no choices",
		}
	}

	metrics.UpstreamRequestsTotal.WithLabelValues(serviceName, "ok").Inc()
	return parsed.Choices[0].Message.Content, nil
}
