package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	BadgeNew        = "NEW"
	BadgeSale       = "SALE"
	BadgeTrending   = "TRENDING"
	BadgeBestseller = "BESTSELLER"
)

// LowStockThreshold marks the inventory level the admin dashboard flags.
const LowStockThreshold = 5

// Product is the catalog document. Prices are integer currency units.
type Product struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title          string             `bson:"title" json:"title"`
	Slug           string             `bson:"slug" json:"slug"`
	Description    string             `bson:"description" json:"description"`
	ShortDesc      string             `bson:"shortDesc,omitempty" json:"shortDesc,omitempty"`
	Images         []string           `bson:"images" json:"images"`
	Price          int64              `bson:"price" json:"price"`
	CompareAtPrice *int64             `bson:"compareAtPrice,omitempty" json:"compareAtPrice,omitempty"`
	Categories     []string           `bson:"categories" json:"categories"`
	Tags           []string           `bson:"tags" json:"tags"`
	SKU            string             `bson:"sku,omitempty" json:"sku,omitempty"`
	Inventory      int                `bson:"inventory" json:"inventory"`
	Featured       bool               `bson:"featured" json:"featured"`
	Badge          string             `bson:"badge,omitempty" json:"badge,omitempty"`
	Rating         float64            `bson:"rating" json:"rating"`
	ReviewCount    int                `bson:"reviewCount" json:"reviewCount"`
	IsActive       bool               `bson:"isActive" json:"isActive"`
	CreatedAt      time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt      time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// FirstImage is the image used in order snapshots and cart views.
func (p Product) FirstImage() string {
	if len(p.Images) == 0 {
		return ""
	}
	return p.Images[0]
}

func (p Product) LowStock() bool {
	return p.Inventory <= LowStockThreshold
}

func ValidBadge(badge string) bool {
	switch badge {
	case "", BadgeNew, BadgeSale, BadgeTrending, BadgeBestseller:
		return true
	}
	return false
}
