package handlers

import "testing"

func TestOrderTax(t *testing.T) {
	tests := []struct {
		subtotal int64
		want     int64
	}{
		{0, 0},
		{100, 18},
		{2000, 360},
		{999, 180},
		{1, 0},
		{3, 1},
	}

	for _, tt := range tests {
		if got := orderTax(tt.subtotal); got != tt.want {
			t.Errorf("orderTax(%d) = %d, want %d", tt.subtotal, got, tt.want)
		}
	}
}

func TestOrderTotal(t *testing.T) {
	subtotal := int64(2000)
	tax := orderTax(subtotal)

	if got := orderTotal(subtotal, 50, tax); got != 2410 {
		t.Errorf("orderTotal = %d, want 2410", got)
	}

	// The discount is recorded on the order but never enters the total.
	if got := orderTotal(subtotal, 0, tax); got != subtotal+tax {
		t.Errorf("orderTotal without shipping = %d, want %d", got, subtotal+tax)
	}
}
