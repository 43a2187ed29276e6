package repo

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/rogerio-castellano/catalog-admin/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// InMemoryCategoryRepository is an in-memory implementation of CategoryRepository.
type InMemoryCategoryRepository struct {
	mu         sync.RWMutex
	categories []models.Category
}

func NewInMemoryCategoryRepository() *InMemoryCategoryRepository {
	return &InMemoryCategoryRepository{
		categories: []models.Category{},
	}
}

func cloneCategory(c models.Category) models.Category {
	c.Products = models.CloneIDs(c.Products)
	return c
}

func (r *InMemoryCategoryRepository) indexOf(id primitive.ObjectID) int {
	return slices.IndexFunc(r.categories, func(c models.Category) bool { return c.ID == id })
}

func (r *InMemoryCategoryRepository) Create(_ context.Context, category models.Category) (models.Category, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().UTC()
	category.ID = primitive.NewObjectID()
	category.Products = models.CloneIDs(category.Products)
	category.CreatedAt = now
	category.UpdatedAt = now
	r.categories = append(r.categories, category)
	return cloneCategory(category), nil
}

func (r *InMemoryCategoryRepository) GetByID(_ context.Context, id primitive.ObjectID) (models.Category, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if i := r.indexOf(id); i >= 0 {
		return cloneCategory(r.categories[i]), nil
	}
	return models.Category{}, ErrCategoryNotFound
}

func (r *InMemoryCategoryRepository) List(_ context.Context, skip, limit int) ([]models.Category, int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	page := window(r.categories, skip, limit)
	categories := make([]models.Category, 0, len(page))
	for _, c := range page {
		categories = append(categories, cloneCategory(c))
	}
	return categories, int64(len(r.categories)), nil
}

func (r *InMemoryCategoryRepository) FindByIDs(_ context.Context, ids []primitive.ObjectID) ([]models.Category, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	categories := []models.Category{}
	for _, c := range r.categories {
		if models.ContainsID(ids, c.ID) {
			categories = append(categories, cloneCategory(c))
		}
	}
	return categories, nil
}

func (r *InMemoryCategoryRepository) CountExisting(_ context.Context, ids []primitive.ObjectID) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var count int64
	for _, c := range r.categories {
		if models.ContainsID(ids, c.ID) {
			count++
		}
	}
	return count, nil
}

func (r *InMemoryCategoryRepository) Update(_ context.Context, id primitive.ObjectID, patch models.CategoryPatch) (models.Category, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(id)
	if i < 0 {
		return models.Category{}, ErrCategoryNotFound
	}
	patch.Apply(&r.categories[i])
	r.categories[i].UpdatedAt = time.Now().UTC()
	return cloneCategory(r.categories[i]), nil
}

func (r *InMemoryCategoryRepository) Delete(_ context.Context, id primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(id)
	if i < 0 {
		return ErrCategoryNotFound
	}
	r.categories = slices.Delete(r.categories, i, i+1)
	return nil
}

func (r *InMemoryCategoryRepository) DeleteAll(_ context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.categories = []models.Category{}
	return nil
}

func (r *InMemoryCategoryRepository) AddProduct(_ context.Context, categoryIDs []primitive.ObjectID, productID primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.categories {
		c := &r.categories[i]
		if models.ContainsID(categoryIDs, c.ID) && !models.ContainsID(c.Products, productID) {
			c.Products = append(c.Products, productID)
		}
	}
	return nil
}

func (r *InMemoryCategoryRepository) RemoveProduct(_ context.Context, categoryIDs []primitive.ObjectID, productID primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.categories {
		c := &r.categories[i]
		if models.ContainsID(categoryIDs, c.ID) {
			c.Products = removeID(c.Products, productID)
		}
	}
	return nil
}
