package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Category groups products. Products is a denormalized list mirrored by Product.Categories.
type Category struct {
	ID          primitive.ObjectID   `json:"id" bson:"_id,omitempty"`
	Name        string               `json:"name" bson:"name"`
	Description string               `json:"description,omitempty" bson:"description,omitempty"`
	Products    []primitive.ObjectID `json:"products" bson:"products"`
	CreatedAt   time.Time            `json:"createdAt" bson:"createdAt"`
	UpdatedAt   time.Time            `json:"updatedAt" bson:"updatedAt"`
}

// CategorySummary is the subset of a category rendered inside products.
type CategorySummary struct {
	ID   primitive.ObjectID `json:"id" bson:"_id"`
	Name string             `json:"name" bson:"name"`
}

func (c Category) Summary() CategorySummary {
	return CategorySummary{ID: c.ID, Name: c.Name}
}

type CategoryPatch struct {
	Name        *string
	Description *string
	Products    *[]primitive.ObjectID
}

func (cp CategoryPatch) Apply(c *Category) {
	if cp.Name != nil {
		c.Name = *cp.Name
	}
	if cp.Description != nil {
		c.Description = *cp.Description
	}
	if cp.Products != nil {
		c.Products = CloneIDs(*cp.Products)
	}
}
