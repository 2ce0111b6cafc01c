// Glowcart - Skincare Storefront and Checkout Service
// Copyright 2026 Glowskin Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/glowskin/glowcart

package ai

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/glowskin/glowcart/internal/models"
	"github.com/glowskin/glowcart/internal/validation"
)

// fakeCompleter records whether it was called and returns a canned reply.
type fakeCompleter struct {
	calls int
	reply string
	err   error
}

func (f *fakeCompleter) Complete(ctx context.Context, prompt string) (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	return f.reply, nil
}

func TestRecommendValidatesBeforeUpstream(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		req  RecommendationRequest
	}{
		{name: "missing skin type", req: RecommendationRequest{Concerns: "acne", Ingredients: "retinol"}},
		{name: "missing concerns", req: RecommendationRequest{SkinType: "oily", Ingredients: "retinol"}},
		{name: "missing ingredients", req: RecommendationRequest{SkinType: "oily", Concerns: "acne"}},
		{name: "all empty", req: RecommendationRequest{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			completer := &fakeCompleter{reply: "anything"}
			gateway := NewGateway(completer)

			_, err := gateway.Recommend(context.Background(), tt.req)
			var verr *validation.RequestValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("Recommend() error = %v, want RequestValidationError", err)
			}
			if completer.calls != 0 {
				t.Errorf("upstream called %d times for invalid request, want 0", completer.calls)
			}
		})
	}
}

func TestRecommendSplitsSuggestions(t *testing.T) {
	t.Parallel()

	completer := &fakeCompleter{reply: "1. Retinol Night Cream\n\n2. Vitamin C Serum\n  \n3. Niacinamide Moisturizer\n"}
	gateway := NewGateway(completer)

	rec, err := gateway.Recommend(context.Background(), RecommendationRequest{
		SkinType:    "oily",
		Concerns:    "acne",
		Ingredients: "niacinamide",
	})
	if err != nil {
		t.Fatalf("Recommend() error = %v", err)
	}

	want := []string{"1. Retinol Night Cream", "2. Vitamin C Serum", "3. Niacinamide Moisturizer"}
	if len(rec.Suggestions) != len(want) {
		t.Fatalf("len(Suggestions) = %d, want %d: %v", len(rec.Suggestions), len(want), rec.Suggestions)
	}
	for i := range want {
		if rec.Suggestions[i] != want[i] {
			t.Errorf("Suggestions[%d] = %q, want %q", i, rec.Suggestions[i], want[i])
		}
	}
	if rec.Raw != completer.reply {
		t.Error("Raw does not carry the unmodified upstream reply")
	}
}

func TestRecommendUpstreamError(t *testing.T) {
	t.Parallel()

	completer := &fakeCompleter{err: &models.UpstreamError{Service: "ai", StatusCode: 503, Message: "down"}}
	gateway := NewGateway(completer)

	_, err := gateway.Recommend(context.Background(), RecommendationRequest{
		SkinType:    "dry",
		Concerns:    "redness",
		Ingredients: "ceramides",
	})

	var uerr *models.UpstreamError
	if !errors.As(err, &uerr) {
		t.Fatalf("Recommend() error = %v, want UpstreamError", err)
	}
	if uerr.Service != "ai" {
		t.Errorf("UpstreamError.Service = %q, want %q", uerr.Service, "ai")
	}
}

func TestBuildPrompt(t *testing.T) {
	t.Parallel()

	prompt := BuildPrompt(RecommendationRequest{
		SkinType:    "combination",
		Concerns:    "fine lines",
		Ingredients: "retinol, peptides",
	})

	for _, want := range []string{
		"Suggest skincare products for:",
		"Skin Type: combination",
		"Concerns: fine lines",
		"Ingredients: retinol, peptides",
	} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q:\n%s", want, prompt)
		}
	}
}
