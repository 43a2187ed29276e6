package models

import (
	"slices"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Order is a placed order. Total is supplied by the caller and is not derived from prices.
type Order struct {
	ID        primitive.ObjectID   `json:"id" bson:"_id,omitempty"`
	Date      time.Time            `json:"date" bson:"date"`
	Products  []primitive.ObjectID `json:"products" bson:"products"`
	Total     float64              `json:"total" bson:"total"`
	CreatedAt time.Time            `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time            `json:"updatedAt" bson:"updatedAt"`
}

type OrderPatch struct {
	Date     *time.Time
	Products *[]primitive.ObjectID
	Total    *float64
}

func (op OrderPatch) Apply(o *Order) {
	if op.Date != nil {
		o.Date = *op.Date
	}
	if op.Products != nil {
		o.Products = CloneIDs(*op.Products)
	}
	if op.Total != nil {
		o.Total = *op.Total
	}
}

// CloneIDs returns a non-nil copy of ids.
func CloneIDs(ids []primitive.ObjectID) []primitive.ObjectID {
	if ids == nil {
		return []primitive.ObjectID{}
	}
	return slices.Clone(ids)
}

// ContainsID reports whether id is present in ids.
func ContainsID(ids []primitive.ObjectID, id primitive.ObjectID) bool {
	return slices.Contains(ids, id)
}
