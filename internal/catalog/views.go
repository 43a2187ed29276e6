package catalog

import (
	"context"
	"time"

	"github.com/rogerio-castellano/catalog-admin/internal/models"
	"github.com/rogerio-castellano/catalog-admin/internal/repo"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CategoryView is a category with its products populated.
type CategoryView struct {
	ID          primitive.ObjectID      `json:"id"`
	Name        string                  `json:"name"`
	Description string                  `json:"description,omitempty"`
	Products    []models.ProductSummary `json:"products"`
	CreatedAt   time.Time               `json:"createdAt"`
	UpdatedAt   time.Time               `json:"updatedAt"`
}

// ProductView is a product with its categories populated.
type ProductView struct {
	ID          primitive.ObjectID       `json:"id"`
	Name        string                   `json:"name"`
	Description string                   `json:"description,omitempty"`
	Price       float64                  `json:"price"`
	ImageURL    string                   `json:"imageUrl,omitempty"`
	Categories  []models.CategorySummary `json:"categories"`
	CreatedAt   time.Time                `json:"createdAt"`
	UpdatedAt   time.Time                `json:"updatedAt"`
}

// OrderView is an order with its products populated.
type OrderView struct {
	ID        primitive.ObjectID      `json:"id"`
	Date      time.Time               `json:"date"`
	Products  []models.ProductSummary `json:"products"`
	Total     float64                 `json:"total"`
	CreatedAt time.Time               `json:"createdAt"`
	UpdatedAt time.Time               `json:"updatedAt"`
}

// productSummaries loads the products referenced by ids, keyed by id.
func productSummaries(ctx context.Context, products repo.ProductRepository, ids []primitive.ObjectID) (map[primitive.ObjectID]models.ProductSummary, error) {
	found, err := products.FindByIDs(ctx, unique(ids))
	if err != nil {
		return nil, err
	}
	summaries := make(map[primitive.ObjectID]models.ProductSummary, len(found))
	for _, p := range found {
		summaries[p.ID] = p.Summary()
	}
	return summaries, nil
}

func categorySummaries(ctx context.Context, categories repo.CategoryRepository, ids []primitive.ObjectID) (map[primitive.ObjectID]models.CategorySummary, error) {
	found, err := categories.FindByIDs(ctx, unique(ids))
	if err != nil {
		return nil, err
	}
	summaries := make(map[primitive.ObjectID]models.CategorySummary, len(found))
	for _, c := range found {
		summaries[c.ID] = c.Summary()
	}
	return summaries, nil
}

// pick returns the entries of lookup for ids, in order, skipping ids that no longer exist.
func pick[T any](ids []primitive.ObjectID, lookup map[primitive.ObjectID]T) []T {
	out := make([]T, 0, len(ids))
	for _, id := range ids {
		if v, ok := lookup[id]; ok {
			out = append(out, v)
		}
	}
	return out
}

func newCategoryView(c models.Category, products map[primitive.ObjectID]models.ProductSummary) CategoryView {
	return CategoryView{
		ID:          c.ID,
		Name:        c.Name,
		Description: c.Description,
		Products:    pick(c.Products, products),
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}

func newProductView(p models.Product, categories map[primitive.ObjectID]models.CategorySummary) ProductView {
	return ProductView{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		ImageURL:    p.ImageURL,
		Categories:  pick(p.Categories, categories),
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

func newOrderView(o models.Order, products map[primitive.ObjectID]models.ProductSummary) OrderView {
	return OrderView{
		ID:        o.ID,
		Date:      o.Date,
		Products:  pick(o.Products, products),
		Total:     o.Total,
		CreatedAt: o.CreatedAt,
		UpdatedAt: o.UpdatedAt,
	}
}
