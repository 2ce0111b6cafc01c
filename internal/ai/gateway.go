// Glowcart - Skincare Storefront and Checkout Service
// Copyright 2026 Glowskin Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/glowskin/glowcart

package ai

import (
	"context"
	"fmt"
	"strings"

	"github.com/glowskin/glowcart/internal/validation"
)

// RecommendationRequest is the profile a recommendation is produced for.
// All three fields are required; validation runs before any upstream call.
type RecommendationRequest struct {
	SkinType    string `json:"skin_type" validate:"required,max=100"`
	Concerns    string `json:"concerns" validate:"required,max=500"`
	Ingredients string `json:"ingredients" validate:"required,max=500"`
}

// Recommendation is the inference result: the raw reply plus its non-empty
// lines as individual suggestions.
type Recommendation struct {
	Raw         string   `json:"raw"`
	Suggestions []string `json:"suggestions"`
}

// Gateway validates recommendation requests and delegates completion to the
// inference backend. It is stateless and holds no cache or retry logic.
type Gateway struct {
	completer Completer
}

// NewGateway creates the recommendation gateway.
func NewGateway(completer Completer) *Gateway {
	return &Gateway{completer: completer}
}

// Recommend produces product suggestions for the given profile.
func (g *Gateway) Recommend(ctx context.Context, req RecommendationRequest) (*Recommendation, error) {
	if err := validation.ValidateStruct(req); err != nil {
		return nil, err
	}

	raw, err := g.completer.Complete(ctx, BuildPrompt(req))
	if err != nil {
		return nil, err
	}

	return &Recommendation{
		Raw:         raw,
		Suggestions: splitSuggestions(raw),
	}, nil
}

// BuildPrompt renders the fixed recommendation prompt with the profile fields
// embedded verbatim.
func BuildPrompt(req RecommendationRequest) string {
	return fmt.Sprintf("Suggest skincare products for:\nSkin Type: %s\nConcerns: %s\nIngredients: %s\n",
		req.SkinType, req.Concerns, req.Ingredients)
}

// splitSuggestions breaks the reply into one suggestion per non-empty line.
func splitSuggestions(raw string) []string {
	lines := strings.Split(raw, "\n")
	suggestions := make([]string, 0, len(lines))
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		suggestions = append(suggestions, line)
	}
	return suggestions
}
