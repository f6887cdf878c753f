package handlers

import (
	"testing"

	"luxe-backend/internal/models"
)

func TestLowStockProducts(t *testing.T) {
	products := []models.Product{
		{Title: "Out of stock", Inventory: 0},
		{Title: "Nearly gone", Inventory: 3},
		{Title: "Plenty", Inventory: 10},
		{Title: "At threshold", Inventory: models.LowStockThreshold},
	}

	low := lowStockProducts(products)
	if len(low) != 3 {
		t.Fatalf("got %d low stock products, want 3", len(low))
	}
	for _, product := range low {
		if product.Inventory > models.LowStockThreshold {
			t.Errorf("%q (inventory %d) flagged as low stock", product.Title, product.Inventory)
		}
	}
}

func TestLowStockProductsEmpty(t *testing.T) {
	if low := lowStockProducts(nil); low == nil || len(low) != 0 {
		t.Errorf("got %v, want empty slice", low)
	}
}
