package catalog

import (
	"context"

	"github.com/rogerio-castellano/catalog-admin/internal/repo"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// maintainer keeps Category.Products and Product.Categories mirrored.
// Every step is a single store operation; there is no rollback between steps.
type maintainer struct {
	categories repo.CategoryRepository
	products   repo.ProductRepository
	logger     *zap.Logger
}

// requireProducts fails with ErrProductsNotFound unless every id names a stored product.
func (m *maintainer) requireProducts(ctx context.Context, ids []primitive.ObjectID) error {
	if len(ids) == 0 {
		return nil
	}
	count, err := m.products.CountExisting(ctx, ids)
	if err != nil {
		return err
	}
	if count != int64(len(unique(ids))) {
		return ErrProductsNotFound
	}
	return nil
}

func (m *maintainer) requireCategories(ctx context.Context, ids []primitive.ObjectID) error {
	if len(ids) == 0 {
		return nil
	}
	count, err := m.categories.CountExisting(ctx, ids)
	if err != nil {
		return err
	}
	if count != int64(len(unique(ids))) {
		return ErrCategoriesNotFound
	}
	return nil
}

// linkCategory adds categoryID to every product in productIDs.
func (m *maintainer) linkCategory(ctx context.Context, categoryID primitive.ObjectID, productIDs []primitive.ObjectID) error {
	if err := m.products.AddCategory(ctx, productIDs, categoryID); err != nil {
		return m.linkFailed("link category", categoryID, err)
	}
	return nil
}

// relinkCategory moves categoryID from the products in previous to the products in next.
func (m *maintainer) relinkCategory(ctx context.Context, categoryID primitive.ObjectID, previous, next []primitive.ObjectID) error {
	if err := m.products.RemoveCategory(ctx, previous, categoryID); err != nil {
		return m.linkFailed("unlink category", categoryID, err)
	}
	return m.linkCategory(ctx, categoryID, next)
}

func (m *maintainer) unlinkCategory(ctx context.Context, categoryID primitive.ObjectID, productIDs []primitive.ObjectID) error {
	if err := m.products.RemoveCategory(ctx, productIDs, categoryID); err != nil {
		return m.linkFailed("unlink category", categoryID, err)
	}
	return nil
}

// linkProduct adds productID to every category in categoryIDs.
func (m *maintainer) linkProduct(ctx context.Context, productID primitive.ObjectID, categoryIDs []primitive.ObjectID) error {
	if err := m.categories.AddProduct(ctx, categoryIDs, productID); err != nil {
		return m.linkFailed("link product", productID, err)
	}
	return nil
}

func (m *maintainer) relinkProduct(ctx context.Context, productID primitive.ObjectID, previous, next []primitive.ObjectID) error {
	if err := m.categories.RemoveProduct(ctx, previous, productID); err != nil {
		return m.linkFailed("unlink product", productID, err)
	}
	return m.linkProduct(ctx, productID, next)
}

func (m *maintainer) unlinkProduct(ctx context.Context, productID primitive.ObjectID, categoryIDs []primitive.ObjectID) error {
	if err := m.categories.RemoveProduct(ctx, categoryIDs, productID); err != nil {
		return m.linkFailed("unlink product", productID, err)
	}
	return nil
}

func (m *maintainer) linkFailed(op string, id primitive.ObjectID, err error) error {
	m.logger.Error("cross-reference update failed, references may be inconsistent",
		zap.String("op", op),
		zap.String("id", id.Hex()),
		zap.Error(err),
	)
	return &LinkError{Op: op, Err: err}
}

func unique(ids []primitive.ObjectID) []primitive.ObjectID {
	seen := make(map[primitive.ObjectID]struct{}, len(ids))
	out := make([]primitive.ObjectID, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
