package repo

import (
	"context"

	"github.com/rogerio-castellano/catalog-admin/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ProductRepository defines the interface for product data operations.
type ProductRepository interface {
	Create(ctx context.Context, product models.Product) (models.Product, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (models.Product, error)
	List(ctx context.Context, skip, limit int) ([]models.Product, int64, error)
	FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Product, error)
	// CountExisting returns how many of ids match stored products.
	CountExisting(ctx context.Context, ids []primitive.ObjectID) (int64, error)
	// IDsByCategory returns the ids of every product carrying categoryID.
	IDsByCategory(ctx context.Context, categoryID primitive.ObjectID) ([]primitive.ObjectID, error)
	Update(ctx context.Context, id primitive.ObjectID, patch models.ProductPatch) (models.Product, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
	DeleteAll(ctx context.Context) error

	// AddCategory adds categoryID to the categories of each product in productIDs, skipping
	// products that already reference it.
	AddCategory(ctx context.Context, productIDs []primitive.ObjectID, categoryID primitive.ObjectID) error
	// RemoveCategory pulls categoryID from the categories of each product in productIDs.
	RemoveCategory(ctx context.Context, productIDs []primitive.ObjectID, categoryID primitive.ObjectID) error
}
