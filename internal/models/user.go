package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// Address is a shipping address owned by a user. IDs are uuid strings so
// entries can be removed without ObjectID bookkeeping.
type Address struct {
	ID        string `bson:"id" json:"id"`
	Label     string `bson:"label" json:"label"`
	Name      string `bson:"name" json:"name"`
	Phone     string `bson:"phone" json:"phone"`
	Street    string `bson:"street" json:"street"`
	City      string `bson:"city" json:"city"`
	State     string `bson:"state" json:"state"`
	Pincode   string `bson:"pincode" json:"pincode"`
	Country   string `bson:"country" json:"country"`
	IsDefault bool   `bson:"isDefault" json:"isDefault"`
}

// CartEntry is a weak reference to a product; resolution to live product
// data happens at read time.
type CartEntry struct {
	Product primitive.ObjectID `bson:"product" json:"product"`
	Qty     int                `bson:"qty" json:"qty"`
}

// User is the account document. Credential-bearing fields are excluded from
// JSON so no handler can leak them by serializing the struct.
type User struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name          string             `bson:"name" json:"name"`
	Email         string             `bson:"email" json:"email"`
	PasswordHash  string             `bson:"passwordHash" json:"-"`
	Role          string             `bson:"role" json:"role"`
	Addresses     []Address          `bson:"addresses" json:"addresses"`
	Newsletter    bool               `bson:"newsletter" json:"newsletter"`
	VerifyToken   string             `bson:"verifyToken,omitempty" json:"-"`
	ResetToken    string             `bson:"resetToken,omitempty" json:"-"`
	ResetTokenExp *time.Time         `bson:"resetTokenExp,omitempty" json:"-"`
	Cart          []CartEntry        `bson:"cart" json:"cart"`
	CreatedAt     time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt     time.Time          `bson:"updatedAt" json:"updatedAt"`
}

func ValidRole(role string) bool {
	return role == RoleUser || role == RoleAdmin
}
