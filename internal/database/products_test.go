// Glowcart - Skincare Storefront and Checkout Service
// Copyright 2026 Glowskin Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/glowskin/glowcart

package database

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

func TestGetProduct(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	db := newTestDB(t)

	created, err := db.CreateProduct(ctx, "Vitamin C Serum", 20)
	if err != nil {
		t.Fatalf("CreateProduct() error = %v", err)
	}

	got, err := db.GetProduct(ctx, created.ID)
	if err != nil {
		t.Fatalf("GetProduct() error = %v", err)
	}
	if got.Name != "Vitamin C Serum" || got.Price != 20 {
		t.Errorf("GetProduct() = %+v", got)
	}

	if _, err := db.GetProduct(ctx, "no-such-id"); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetProduct() missing error = %v, want ErrNotFound", err)
	}
}

func TestSearchProductsPagination(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	db := newTestDB(t)

	// 12 products, inserted in a known order.
	for i := 1; i <= 12; i++ {
		if _, err := db.CreateProduct(ctx, fmt.Sprintf("Cream %02d", i), float64(i)); err != nil {
			t.Fatalf("CreateProduct() error = %v", err)
		}
	}

	tests := []struct {
		name      string
		page      int
		wantItems int
		wantFirst string
		wantNext  bool
		wantPrev  bool
	}{
		{name: "first page", page: 1, wantItems: 5, wantFirst: "Cream 01", wantNext: true, wantPrev: false},
		{name: "middle page", page: 2, wantItems: 5, wantFirst: "Cream 06", wantNext: true, wantPrev: true},
		{name: "last partial page", page: 3, wantItems: 2, wantFirst: "Cream 11", wantNext: false, wantPrev: true},
		{name: "page beyond range", page: 9, wantItems: 0, wantNext: false, wantPrev: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := db.SearchProducts(ctx, "", tt.page, 5)
			if err != nil {
				t.Fatalf("SearchProducts() error = %v", err)
			}
			if len(result.Items) != tt.wantItems {
				t.Fatalf("len(Items) = %d, want %d", len(result.Items), tt.wantItems)
			}
			if result.Total != 12 {
				t.Errorf("Total = %d, want 12", result.Total)
			}
			if tt.wantFirst != "" && result.Items[0].Name != tt.wantFirst {
				t.Errorf("Items[0].Name = %q, want %q", result.Items[0].Name, tt.wantFirst)
			}
			if result.HasNext != tt.wantNext {
				t.Errorf("HasNext = %v, want %v", result.HasNext, tt.wantNext)
			}
			if result.HasPrev != tt.wantPrev {
				t.Errorf("HasPrev = %v, want %v", result.HasPrev, tt.wantPrev)
			}
		})
	}
}

func TestSearchProductsSubstring(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	db := newTestDB(t)

	names := []string{"Retinol Night Cream", "Vitamin C Serum", "Niacinamide Moisturizer", "Salicylic Acid Face Wash"}
	for i, name := range names {
		if _, err := db.CreateProduct(ctx, name, float64(10+i)); err != nil {
			t.Fatalf("CreateProduct() error = %v", err)
		}
	}

	tests := []struct {
		name      string
		query     string
		wantNames []string
	}{
		{name: "case-insensitive match", query: "cream", wantNames: []string{"Retinol Night Cream"}},
		{name: "substring in middle", query: "ACID", wantNames: []string{"Salicylic Acid Face Wash"}},
		{name: "empty query matches all", query: "", wantNames: names},
		{name: "no match", query: "sunscreen", wantNames: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := db.SearchProducts(ctx, tt.query, 1, 10)
			if err != nil {
				t.Fatalf("SearchProducts() error = %v", err)
			}
			if len(result.Items) != len(tt.wantNames) {
				t.Fatalf("len(Items) = %d, want %d", len(result.Items), len(tt.wantNames))
			}
			for i, want := range tt.wantNames {
				if result.Items[i].Name != want {
					t.Errorf("Items[%d].Name = %q, want %q", i, result.Items[i].Name, want)
				}
			}
		})
	}
}

func TestSearchProductsClampsBadInput(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	db := newTestDB(t)

	if _, err := db.CreateProduct(ctx, "Toner", 9.5); err != nil {
		t.Fatalf("CreateProduct() error = %v", err)
	}

	result, err := db.SearchProducts(ctx, "", 0, 0)
	if err != nil {
		t.Fatalf("SearchProducts() error = %v", err)
	}
	if result.Page != 1 {
		t.Errorf("Page = %d, want clamped to 1", result.Page)
	}
	if len(result.Items) != 1 {
		t.Errorf("len(Items) = %d, want 1", len(result.Items))
	}
}
