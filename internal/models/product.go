package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DefaultImage is stored when a product is created without an image.
const DefaultImage = "https://placehold.co/300x300?text=No+Image"

// Categories is the closed set of product categories. Writes outside
// this set are rejected; queries outside it simply match nothing.
var Categories = []string{
	"Electronics",
	"Clothing",
	"Books",
	"Home & Kitchen",
	"Sports",
	"Other",
}

func ValidCategory(category string) bool {
	for _, c := range Categories {
		if c == category {
			return true
		}
	}
	return false
}

// Product is a sellable catalog entry.
type Product struct {
	ID        primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Name      string             `json:"name" bson:"name" binding:"required,max=100"`
	Price     float64            `json:"price" bson:"price"`
	Category  string             `json:"category" bson:"category" binding:"required"`
	Image     string             `json:"image" bson:"image"`
	CreatedAt time.Time          `json:"createdAt" bson:"created_at"`
	UpdatedAt time.Time          `json:"updatedAt" bson:"updated_at"`
}

// ProductUpdate carries the updatable fields of a product. Only
// non-nil fields are written.
type ProductUpdate struct {
	Name     *string  `json:"name,omitempty"`
	Price    *float64 `json:"price,omitempty"`
	Category *string  `json:"category,omitempty"`
	Image    *string  `json:"image,omitempty"`
}

// Admin is the single administrative principal.
type Admin struct {
	ID           primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Email        string             `json:"email" bson:"email"`
	PasswordHash string             `json:"-" bson:"password_hash"`
}
