package models

import (
	"testing"
	"time"
)

func TestCouponDiscount(t *testing.T) {
	tests := []struct {
		name      string
		coupon    Coupon
		cartTotal int64
		want      int64
	}{
		{
			name:      "percentage",
			coupon:    Coupon{DiscountType: DiscountPercentage, DiscountValue: 10},
			cartTotal: 2000,
			want:      200,
		},
		{
			name:      "percentage capped by maxDiscount",
			coupon:    Coupon{DiscountType: DiscountPercentage, DiscountValue: 10, MaxDiscount: 150},
			cartTotal: 2000,
			want:      150,
		},
		{
			name:      "percentage rounds",
			coupon:    Coupon{DiscountType: DiscountPercentage, DiscountValue: 15},
			cartTotal: 333,
			want:      50,
		},
		{
			name:      "fixed",
			coupon:    Coupon{DiscountType: DiscountFixed, DiscountValue: 250},
			cartTotal: 2000,
			want:      250,
		},
		{
			name:      "fixed clamped to cart total",
			coupon:    Coupon{DiscountType: DiscountFixed, DiscountValue: 500},
			cartTotal: 300,
			want:      300,
		},
		{
			name:      "negative value clamps to zero",
			coupon:    Coupon{DiscountType: DiscountFixed, DiscountValue: -50},
			cartTotal: 300,
			want:      0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.coupon.Discount(tt.cartTotal); got != tt.want {
				t.Errorf("Discount(%d) = %d, want %d", tt.cartTotal, got, tt.want)
			}
		})
	}
}

func TestCouponExpired(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	fresh := Coupon{ExpiryDate: now.Add(24 * time.Hour)}
	if fresh.Expired(now) {
		t.Error("coupon expiring tomorrow reported expired")
	}

	stale := Coupon{ExpiryDate: now.Add(-time.Minute)}
	if !stale.Expired(now) {
		t.Error("coupon past expiry not reported expired")
	}
}

func TestCouponLimitReached(t *testing.T) {
	available := Coupon{UsageLimit: 10, TimesUsed: 9}
	if available.LimitReached() {
		t.Error("coupon with remaining uses reported exhausted")
	}

	exhausted := Coupon{UsageLimit: 10, TimesUsed: 10}
	if !exhausted.LimitReached() {
		t.Error("coupon at usage limit not reported exhausted")
	}
}
