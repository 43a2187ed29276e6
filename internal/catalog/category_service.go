package catalog

import (
	"context"

	"github.com/rogerio-castellano/catalog-admin/internal/models"
	"github.com/rogerio-castellano/catalog-admin/internal/pagination"
	"github.com/rogerio-castellano/catalog-admin/internal/repo"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type CategoryInput struct {
	Name        string
	Description string
	Products    []primitive.ObjectID
}

type CategoryService struct {
	categories repo.CategoryRepository
	products   repo.ProductRepository
	refs       *maintainer
}

func NewCategoryService(categories repo.CategoryRepository, products repo.ProductRepository, log *zap.Logger) *CategoryService {
	return &CategoryService{
		categories: categories,
		products:   products,
		refs:       &maintainer{categories: categories, products: products, logger: log.Named("categories")},
	}
}

// Create validates the referenced products, saves the category and then adds the
// category to each referenced product.
func (s *CategoryService) Create(ctx context.Context, in CategoryInput) (models.Category, error) {
	if err := s.refs.requireProducts(ctx, in.Products); err != nil {
		return models.Category{}, err
	}

	created, err := s.categories.Create(ctx, models.Category{
		Name:        in.Name,
		Description: in.Description,
		Products:    in.Products,
	})
	if err != nil {
		return models.Category{}, err
	}

	if len(created.Products) > 0 {
		if err := s.refs.linkCategory(ctx, created.ID, created.Products); err != nil {
			return created, err
		}
	}
	return created, nil
}

func (s *CategoryService) Get(ctx context.Context, id primitive.ObjectID) (CategoryView, error) {
	c, err := s.categories.GetByID(ctx, id)
	if err != nil {
		return CategoryView{}, err
	}
	products, err := productSummaries(ctx, s.products, c.Products)
	if err != nil {
		return CategoryView{}, err
	}
	return newCategoryView(c, products), nil
}

func (s *CategoryService) List(ctx context.Context, p pagination.Pagination) (pagination.Page[CategoryView], error) {
	categories, total, err := s.categories.List(ctx, p.Skip, p.Limit)
	if err != nil {
		return pagination.Page[CategoryView]{}, err
	}

	var ids []primitive.ObjectID
	for _, c := range categories {
		ids = append(ids, c.Products...)
	}
	products, err := productSummaries(ctx, s.products, ids)
	if err != nil {
		return pagination.Page[CategoryView]{}, err
	}

	views := make([]CategoryView, 0, len(categories))
	for _, c := range categories {
		views = append(views, newCategoryView(c, products))
	}
	return pagination.NewPage(views, total, p), nil
}

// Update applies the patch. A non-empty replacement product list first moves the
// back-references from the previous products to the new ones; an empty list is stored
// without touching any product.
func (s *CategoryService) Update(ctx context.Context, id primitive.ObjectID, patch models.CategoryPatch) (models.Category, error) {
	current, err := s.categories.GetByID(ctx, id)
	if err != nil {
		return models.Category{}, err
	}

	if patch.Products != nil && len(*patch.Products) > 0 {
		if err := s.refs.relinkCategory(ctx, id, current.Products, *patch.Products); err != nil {
			return models.Category{}, err
		}
	}

	return s.categories.Update(ctx, id, patch)
}

// Delete removes the category from its products and then deletes it.
func (s *CategoryService) Delete(ctx context.Context, id primitive.ObjectID) error {
	current, err := s.categories.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.refs.unlinkCategory(ctx, id, current.Products); err != nil {
		return err
	}
	return s.categories.Delete(ctx, id)
}
