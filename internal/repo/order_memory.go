package repo

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/rogerio-castellano/catalog-admin/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type InMemoryOrderRepository struct {
	mu     sync.RWMutex
	orders []models.Order
}

func NewInMemoryOrderRepository() *InMemoryOrderRepository {
	return &InMemoryOrderRepository{
		orders: []models.Order{},
	}
}

func cloneOrder(o models.Order) models.Order {
	o.Products = models.CloneIDs(o.Products)
	return o
}

func (r *InMemoryOrderRepository) indexOf(id primitive.ObjectID) int {
	return slices.IndexFunc(r.orders, func(o models.Order) bool { return o.ID == id })
}

func (r *InMemoryOrderRepository) Create(_ context.Context, order models.Order) (models.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().UTC()
	order.ID = primitive.NewObjectID()
	order.Products = models.CloneIDs(order.Products)
	if order.Date.IsZero() {
		order.Date = now
	}
	order.CreatedAt = now
	order.UpdatedAt = now
	r.orders = append(r.orders, order)
	return cloneOrder(order), nil
}

func (r *InMemoryOrderRepository) GetByID(_ context.Context, id primitive.ObjectID) (models.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if i := r.indexOf(id); i >= 0 {
		return cloneOrder(r.orders[i]), nil
	}
	return models.Order{}, ErrOrderNotFound
}

func (r *InMemoryOrderRepository) List(_ context.Context, skip, limit int) ([]models.Order, int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	page := window(r.orders, skip, limit)
	orders := make([]models.Order, 0, len(page))
	for _, o := range page {
		orders = append(orders, cloneOrder(o))
	}
	return orders, int64(len(r.orders)), nil
}

func (r *InMemoryOrderRepository) Update(_ context.Context, id primitive.ObjectID, patch models.OrderPatch) (models.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(id)
	if i < 0 {
		return models.Order{}, ErrOrderNotFound
	}
	patch.Apply(&r.orders[i])
	r.orders[i].UpdatedAt = time.Now().UTC()
	return cloneOrder(r.orders[i]), nil
}

func (r *InMemoryOrderRepository) Delete(_ context.Context, id primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(id)
	if i < 0 {
		return ErrOrderNotFound
	}
	r.orders = slices.Delete(r.orders, i, i+1)
	return nil
}

func (r *InMemoryOrderRepository) DeleteAll(_ context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.orders = []models.Order{}
	return nil
}

// snapshot returns a copy of every stored order for the metrics repository.
func (r *InMemoryOrderRepository) snapshot() []models.Order {
	r.mu.RLock()
	defer r.mu.RUnlock()

	orders := make([]models.Order, 0, len(r.orders))
	for _, o := range r.orders {
		orders = append(orders, cloneOrder(o))
	}
	return orders
}
