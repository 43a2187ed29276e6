package catalog

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/rogerio-castellano/catalog-admin/internal/models"
	"github.com/rogerio-castellano/catalog-admin/internal/pagination"
	"github.com/rogerio-castellano/catalog-admin/internal/repo"
	"github.com/rogerio-castellano/catalog-admin/internal/storage"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type ProductInput struct {
	Name        string
	Description string
	Price       float64
	Categories  []primitive.ObjectID
}

// Image is an uploaded product image.
type Image struct {
	Filename    string
	ContentType string
	Size        int64
	Body        io.Reader
}

type ProductService struct {
	categories repo.CategoryRepository
	products   repo.ProductRepository
	uploader   storage.Uploader
	refs       *maintainer
	logger     *zap.Logger
}

func NewProductService(categories repo.CategoryRepository, products repo.ProductRepository, uploader storage.Uploader, log *zap.Logger) *ProductService {
	log = log.Named("products")
	return &ProductService{
		categories: categories,
		products:   products,
		uploader:   uploader,
		refs:       &maintainer{categories: categories, products: products, logger: log},
		logger:     log,
	}
}

// Create validates the referenced categories, uploads the image if any, saves the
// product and then adds the product to each referenced category.
func (s *ProductService) Create(ctx context.Context, in ProductInput, image *Image) (models.Product, error) {
	if err := s.refs.requireCategories(ctx, in.Categories); err != nil {
		return models.Product{}, err
	}

	product := models.Product{
		Name:        in.Name,
		Description: in.Description,
		Price:       in.Price,
		Categories:  in.Categories,
	}
	if image != nil {
		url, err := s.upload(ctx, image)
		if err != nil {
			return models.Product{}, err
		}
		product.ImageURL = url
	}

	created, err := s.products.Create(ctx, product)
	if err != nil {
		return models.Product{}, err
	}

	if len(created.Categories) > 0 {
		if err := s.refs.linkProduct(ctx, created.ID, created.Categories); err != nil {
			return created, err
		}
	}
	return created, nil
}

func (s *ProductService) Get(ctx context.Context, id primitive.ObjectID) (ProductView, error) {
	p, err := s.products.GetByID(ctx, id)
	if err != nil {
		return ProductView{}, err
	}
	categories, err := categorySummaries(ctx, s.categories, p.Categories)
	if err != nil {
		return ProductView{}, err
	}
	return newProductView(p, categories), nil
}

func (s *ProductService) List(ctx context.Context, p pagination.Pagination) (pagination.Page[ProductView], error) {
	products, total, err := s.products.List(ctx, p.Skip, p.Limit)
	if err != nil {
		return pagination.Page[ProductView]{}, err
	}

	var ids []primitive.ObjectID
	for _, product := range products {
		ids = append(ids, product.Categories...)
	}
	categories, err := categorySummaries(ctx, s.categories, ids)
	if err != nil {
		return pagination.Page[ProductView]{}, err
	}

	views := make([]ProductView, 0, len(products))
	for _, product := range products {
		views = append(views, newProductView(product, categories))
	}
	return pagination.NewPage(views, total, p), nil
}

// Update uploads the image if any, moves the back-references when a non-empty category
// list is supplied and then applies the patch.
func (s *ProductService) Update(ctx context.Context, id primitive.ObjectID, patch models.ProductPatch, image *Image) (models.Product, error) {
	current, err := s.products.GetByID(ctx, id)
	if err != nil {
		return models.Product{}, err
	}

	if image != nil {
		url, err := s.upload(ctx, image)
		if err != nil {
			return models.Product{}, err
		}
		patch.ImageURL = &url
	}

	if patch.Categories != nil && len(*patch.Categories) > 0 {
		if err := s.refs.relinkProduct(ctx, id, current.Categories, *patch.Categories); err != nil {
			return models.Product{}, err
		}
	}

	return s.products.Update(ctx, id, patch)
}

// Delete removes the product from its categories and then deletes it.
// Orders referencing the product are left untouched.
func (s *ProductService) Delete(ctx context.Context, id primitive.ObjectID) error {
	current, err := s.products.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.refs.unlinkProduct(ctx, id, current.Categories); err != nil {
		return err
	}
	return s.products.Delete(ctx, id)
}

func (s *ProductService) upload(ctx context.Context, image *Image) (string, error) {
	key := uuid.NewString() + strings.ToLower(filepath.Ext(image.Filename))
	url, err := s.uploader.Upload(ctx, key, image.Body, image.Size, image.ContentType)
	if err != nil {
		return "", fmt.Errorf("failed to upload product image: %w", err)
	}
	s.logger.Info("product image uploaded", zap.String("key", key))
	return url, nil
}
