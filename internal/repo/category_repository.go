package repo

import (
	"context"

	"github.com/rogerio-castellano/catalog-admin/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CategoryRepository defines the interface for category data operations.
type CategoryRepository interface {
	Create(ctx context.Context, category models.Category) (models.Category, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (models.Category, error)
	List(ctx context.Context, skip, limit int) ([]models.Category, int64, error)
	FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Category, error)
	CountExisting(ctx context.Context, ids []primitive.ObjectID) (int64, error)
	Update(ctx context.Context, id primitive.ObjectID, patch models.CategoryPatch) (models.Category, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
	DeleteAll(ctx context.Context) error

	AddProduct(ctx context.Context, categoryIDs []primitive.ObjectID, productID primitive.ObjectID) error
	RemoveProduct(ctx context.Context, categoryIDs []primitive.ObjectID, productID primitive.ObjectID) error
}
