package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Product represents a catalog product. Categories is a denormalized back-reference list
// kept in sync with Category.Products.
type Product struct {
	ID          primitive.ObjectID   `json:"id" bson:"_id,omitempty"`
	Name        string               `json:"name" bson:"name"`
	Description string               `json:"description,omitempty" bson:"description,omitempty"`
	Price       float64              `json:"price" bson:"price"`
	ImageURL    string               `json:"imageUrl,omitempty" bson:"imageUrl,omitempty"`
	Categories  []primitive.ObjectID `json:"categories" bson:"categories"`
	CreatedAt   time.Time            `json:"createdAt" bson:"createdAt"`
	UpdatedAt   time.Time            `json:"updatedAt" bson:"updatedAt"`
}

// ProductSummary is the subset of a product rendered inside categories and orders.
type ProductSummary struct {
	ID          primitive.ObjectID `json:"id" bson:"_id"`
	Name        string             `json:"name" bson:"name"`
	Price       float64            `json:"price" bson:"price"`
	Description string             `json:"description,omitempty" bson:"description,omitempty"`
}

func (p Product) Summary() ProductSummary {
	return ProductSummary{ID: p.ID, Name: p.Name, Price: p.Price, Description: p.Description}
}

// ProductPatch carries the fields of a partial product update. Nil means "leave unchanged".
type ProductPatch struct {
	Name        *string
	Description *string
	Price       *float64
	ImageURL    *string
	Categories  *[]primitive.ObjectID
}

// Apply writes the present fields of the patch onto p.
func (pp ProductPatch) Apply(p *Product) {
	if pp.Name != nil {
		p.Name = *pp.Name
	}
	if pp.Description != nil {
		p.Description = *pp.Description
	}
	if pp.Price != nil {
		p.Price = *pp.Price
	}
	if pp.ImageURL != nil {
		p.ImageURL = *pp.ImageURL
	}
	if pp.Categories != nil {
		p.Categories = CloneIDs(*pp.Categories)
	}
}
