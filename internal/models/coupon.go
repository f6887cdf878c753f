package models

import (
	"math"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	DiscountPercentage = "percentage"
	DiscountFixed      = "fixed"
)

// Coupon holds a discount rule. Codes are stored uppercase.
type Coupon struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Code          string             `bson:"code" json:"code"`
	DiscountType  string             `bson:"discountType" json:"discountType"`
	DiscountValue float64            `bson:"discountValue" json:"discountValue"`
	MinPurchase   int64              `bson:"minPurchase" json:"minPurchase"`
	MaxDiscount   int64              `bson:"maxDiscount,omitempty" json:"maxDiscount,omitempty"`
	ExpiryDate    time.Time          `bson:"expiryDate" json:"expiryDate"`
	UsageLimit    int                `bson:"usageLimit" json:"usageLimit"`
	TimesUsed     int                `bson:"timesUsed" json:"timesUsed"`
	IsActive      bool               `bson:"isActive" json:"isActive"`
	CreatedAt     time.Time          `bson:"createdAt" json:"createdAt"`
}

func (cp Coupon) Expired(now time.Time) bool {
	return now.After(cp.ExpiryDate)
}

func (cp Coupon) LimitReached() bool {
	return cp.TimesUsed >= cp.UsageLimit
}

// Discount computes the rounded discount for a cart total. Percentage
// discounts honor MaxDiscount when set; the result never exceeds the cart
// total.
func (cp Coupon) Discount(cartTotal int64) int64 {
	var amount float64
	switch cp.DiscountType {
	case DiscountPercentage:
		amount = float64(cartTotal) * cp.DiscountValue / 100
		if cp.MaxDiscount > 0 && amount > float64(cp.MaxDiscount) {
			amount = float64(cp.MaxDiscount)
		}
	default:
		amount = cp.DiscountValue
	}

	if amount > float64(cartTotal) {
		amount = float64(cartTotal)
	}
	if amount < 0 {
		amount = 0
	}

	return int64(math.Round(amount))
}
