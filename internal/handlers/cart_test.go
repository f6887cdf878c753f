package handlers

import (
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"luxe-backend/internal/models"
)

func TestBuildCartView(t *testing.T) {
	kept := primitive.NewObjectID()
	gone := primitive.NewObjectID()

	entries := []models.CartEntry{
		{Product: kept, Qty: 2},
		{Product: gone, Qty: 1},
	}
	products := map[primitive.ObjectID]models.Product{
		kept: {
			ID:     kept,
			Title:  "Silk Scarf",
			Slug:   "silk-scarf",
			Price:  1299,
			Images: []string{"https://cdn.example.com/scarf.jpg"},
		},
	}

	items := buildCartView(entries, products)
	if len(items) != 1 {
		t.Fatalf("got %d items, want 1 (missing product dropped)", len(items))
	}

	item := items[0]
	if item.ID != kept || item.Name != "Silk Scarf" || item.Slug != "silk-scarf" {
		t.Errorf("unexpected item: %+v", item)
	}
	if item.Price != 1299 || item.Qty != 2 {
		t.Errorf("price/qty = %d/%d, want 1299/2", item.Price, item.Qty)
	}
	if item.Image != "https://cdn.example.com/scarf.jpg" {
		t.Errorf("image = %q", item.Image)
	}
}

func TestBuildCartViewEmpty(t *testing.T) {
	items := buildCartView(nil, nil)
	if items == nil {
		t.Fatal("expected empty slice, got nil")
	}
	if len(items) != 0 {
		t.Errorf("got %d items, want 0", len(items))
	}
}
