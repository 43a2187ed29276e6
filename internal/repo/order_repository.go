package repo

import (
	"context"

	"github.com/rogerio-castellano/catalog-admin/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type OrderRepository interface {
	Create(ctx context.Context, order models.Order) (models.Order, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (models.Order, error)
	List(ctx context.Context, skip, limit int) ([]models.Order, int64, error)
	Update(ctx context.Context, id primitive.ObjectID, patch models.OrderPatch) (models.Order, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
	DeleteAll(ctx context.Context) error
}
