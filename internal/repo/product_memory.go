package repo

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/rogerio-castellano/catalog-admin/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// InMemoryProductRepository is an in-memory implementation of ProductRepository.
type InMemoryProductRepository struct {
	mu       sync.RWMutex
	products []models.Product
}

// NewInMemoryProductRepository creates a new instance of InMemoryProductRepository.
func NewInMemoryProductRepository() *InMemoryProductRepository {
	return &InMemoryProductRepository{
		products: []models.Product{},
	}
}

func cloneProduct(p models.Product) models.Product {
	p.Categories = models.CloneIDs(p.Categories)
	return p
}

func (r *InMemoryProductRepository) indexOf(id primitive.ObjectID) int {
	return slices.IndexFunc(r.products, func(p models.Product) bool { return p.ID == id })
}

// Create adds a new product to the repository.
func (r *InMemoryProductRepository) Create(_ context.Context, product models.Product) (models.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().UTC()
	product.ID = primitive.NewObjectID()
	product.Categories = models.CloneIDs(product.Categories)
	product.CreatedAt = now
	product.UpdatedAt = now
	r.products = append(r.products, product)
	return cloneProduct(product), nil
}

// GetByID retrieves a product by its ID.
func (r *InMemoryProductRepository) GetByID(_ context.Context, id primitive.ObjectID) (models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if i := r.indexOf(id); i >= 0 {
		return cloneProduct(r.products[i]), nil
	}
	return models.Product{}, ErrProductNotFound
}

func (r *InMemoryProductRepository) List(_ context.Context, skip, limit int) ([]models.Product, int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	page := window(r.products, skip, limit)
	products := make([]models.Product, 0, len(page))
	for _, p := range page {
		products = append(products, cloneProduct(p))
	}
	return products, int64(len(r.products)), nil
}

func (r *InMemoryProductRepository) FindByIDs(_ context.Context, ids []primitive.ObjectID) ([]models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	products := []models.Product{}
	for _, p := range r.products {
		if models.ContainsID(ids, p.ID) {
			products = append(products, cloneProduct(p))
		}
	}
	return products, nil
}

func (r *InMemoryProductRepository) CountExisting(_ context.Context, ids []primitive.ObjectID) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var count int64
	for _, p := range r.products {
		if models.ContainsID(ids, p.ID) {
			count++
		}
	}
	return count, nil
}

func (r *InMemoryProductRepository) IDsByCategory(_ context.Context, categoryID primitive.ObjectID) ([]primitive.ObjectID, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := []primitive.ObjectID{}
	for _, p := range r.products {
		if models.ContainsID(p.Categories, categoryID) {
			ids = append(ids, p.ID)
		}
	}
	return ids, nil
}

// Update applies the patch to an existing product in the repository.
func (r *InMemoryProductRepository) Update(_ context.Context, id primitive.ObjectID, patch models.ProductPatch) (models.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(id)
	if i < 0 {
		return models.Product{}, ErrProductNotFound
	}
	patch.Apply(&r.products[i])
	r.products[i].UpdatedAt = time.Now().UTC()
	return cloneProduct(r.products[i]), nil
}

// Delete removes a product from the repository by its ID.
func (r *InMemoryProductRepository) Delete(_ context.Context, id primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(id)
	if i < 0 {
		return ErrProductNotFound
	}
	r.products = slices.Delete(r.products, i, i+1)
	return nil
}

func (r *InMemoryProductRepository) DeleteAll(_ context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.products = []models.Product{}
	return nil
}

func (r *InMemoryProductRepository) AddCategory(_ context.Context, productIDs []primitive.ObjectID, categoryID primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.products {
		p := &r.products[i]
		if models.ContainsID(productIDs, p.ID) && !models.ContainsID(p.Categories, categoryID) {
			p.Categories = append(p.Categories, categoryID)
		}
	}
	return nil
}

func (r *InMemoryProductRepository) RemoveCategory(_ context.Context, productIDs []primitive.ObjectID, categoryID primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.products {
		p := &r.products[i]
		if models.ContainsID(productIDs, p.ID) {
			p.Categories = removeID(p.Categories, categoryID)
		}
	}
	return nil
}

// window returns the items in [skip, skip+limit), clamped to the slice bounds.
func window[T any](items []T, skip, limit int) []T {
	start := clamp(skip, 0, len(items))
	end := len(items)
	if limit > 0 {
		end = clamp(start+limit, start, len(items))
	}
	return items[start:end]
}

func clamp(v, lo, hi int) int {
	return max(lo, min(v, hi))
}

func removeID(ids []primitive.ObjectID, id primitive.ObjectID) []primitive.ObjectID {
	return slices.DeleteFunc(ids, func(candidate primitive.ObjectID) bool { return candidate == id })
}
