package catalog

import (
	"context"
	"time"

	"github.com/rogerio-castellano/catalog-admin/internal/models"
	"github.com/rogerio-castellano/catalog-admin/internal/pagination"
	"github.com/rogerio-castellano/catalog-admin/internal/repo"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// OrderInput is a new order. A zero Date defaults to the creation time.
// Product ids are stored as given without existence checks.
type OrderInput struct {
	Date     time.Time
	Products []primitive.ObjectID
	Total    float64
}

type OrderService struct {
	orders   repo.OrderRepository
	products repo.ProductRepository
}

func NewOrderService(orders repo.OrderRepository, products repo.ProductRepository) *OrderService {
	return &OrderService{orders: orders, products: products}
}

func (s *OrderService) Create(ctx context.Context, in OrderInput) (models.Order, error) {
	return s.orders.Create(ctx, models.Order{
		Date:     in.Date,
		Products: in.Products,
		Total:    in.Total,
	})
}

func (s *OrderService) Get(ctx context.Context, id primitive.ObjectID) (OrderView, error) {
	o, err := s.orders.GetByID(ctx, id)
	if err != nil {
		return OrderView{}, err
	}
	products, err := productSummaries(ctx, s.products, o.Products)
	if err != nil {
		return OrderView{}, err
	}
	return newOrderView(o, products), nil
}

func (s *OrderService) List(ctx context.Context, p pagination.Pagination) (pagination.Page[OrderView], error) {
	orders, total, err := s.orders.List(ctx, p.Skip, p.Limit)
	if err != nil {
		return pagination.Page[OrderView]{}, err
	}

	var ids []primitive.ObjectID
	for _, o := range orders {
		ids = append(ids, o.Products...)
	}
	products, err := productSummaries(ctx, s.products, ids)
	if err != nil {
		return pagination.Page[OrderView]{}, err
	}

	views := make([]OrderView, 0, len(orders))
	for _, o := range orders {
		views = append(views, newOrderView(o, products))
	}
	return pagination.NewPage(views, total, p), nil
}

func (s *OrderService) Update(ctx context.Context, id primitive.ObjectID, patch models.OrderPatch) (models.Order, error) {
	return s.orders.Update(ctx, id, patch)
}

func (s *OrderService) Delete(ctx context.Context, id primitive.ObjectID) error {
	return s.orders.Delete(ctx, id)
}
