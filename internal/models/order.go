package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	PaymentPending  = "pending"
	PaymentPaid     = "paid"
	PaymentFailed   = "failed"
	PaymentRefunded = "refunded"
)

const (
	StatusProcessing      = "processing"
	StatusConfirmed       = "confirmed"
	StatusShipped         = "shipped"
	StatusDelivered       = "delivered"
	StatusCancelled       = "cancelled"
	StatusReturned        = "returned"
	StatusReturnRequested = "return_requested"
)

const (
	PaymentMethodStripe = "stripe"
	PaymentMethodCOD    = "cod"
)

// OrderItem is a frozen copy of catalog data taken at order time; later
// product edits never change it.
type OrderItem struct {
	ProductID primitive.ObjectID `bson:"product" json:"product"`
	Name      string             `bson:"name" json:"name"`
	Image     string             `bson:"image,omitempty" json:"image,omitempty"`
	Price     int64              `bson:"price" json:"price"`
	Qty       int                `bson:"qty" json:"qty"`
}

// ShippingAddress is snapshotted onto the order, not referenced.
type ShippingAddress struct {
	Name    string `bson:"name" json:"name"`
	Phone   string `bson:"phone" json:"phone"`
	Street  string `bson:"street" json:"street"`
	City    string `bson:"city" json:"city"`
	State   string `bson:"state" json:"state"`
	Pincode string `bson:"pincode" json:"pincode"`
	Country string `bson:"country" json:"country"`
}

type Order struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID          primitive.ObjectID `bson:"userId" json:"userId"`
	Items           []OrderItem        `bson:"items" json:"items"`
	ShippingAddress ShippingAddress    `bson:"shippingAddress" json:"shippingAddress"`
	PaymentMethod   string             `bson:"paymentMethod" json:"paymentMethod"`
	PaymentIntentID string             `bson:"paymentIntentId,omitempty" json:"paymentIntentId,omitempty"`
	PaymentStatus   string             `bson:"paymentStatus" json:"paymentStatus"`
	Status          string             `bson:"status" json:"status"`
	Subtotal        int64              `bson:"subtotal" json:"subtotal"`
	ShippingCost    int64              `bson:"shippingCost" json:"shippingCost"`
	Tax             int64              `bson:"tax" json:"tax"`
	Discount        int64              `bson:"discount" json:"discount"`
	Total           int64              `bson:"total" json:"total"`
	CouponCode      string             `bson:"couponCode,omitempty" json:"couponCode,omitempty"`
	TrackingNumber  string             `bson:"trackingNumber,omitempty" json:"trackingNumber,omitempty"`
	ReturnReason    string             `bson:"returnReason,omitempty" json:"returnReason,omitempty"`
	IdempotencyKey  string             `bson:"idempotencyKey,omitempty" json:"-"`
	CreatedAt       time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt       time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// statusTransitions is the fulfillment state machine. Admin status updates
// are rejected unless the edge exists here.
var statusTransitions = map[string][]string{
	StatusProcessing:      {StatusConfirmed, StatusCancelled},
	StatusConfirmed:       {StatusShipped, StatusCancelled},
	StatusShipped:         {StatusDelivered},
	StatusDelivered:       {StatusReturnRequested},
	StatusReturnRequested: {StatusReturned},
	StatusCancelled:       {},
	StatusReturned:        {},
}

func ValidStatus(status string) bool {
	_, ok := statusTransitions[status]
	return ok
}

func CanTransition(from, to string) bool {
	for _, next := range statusTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}
