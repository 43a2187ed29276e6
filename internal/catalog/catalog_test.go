package catalog

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/rogerio-castellano/catalog-admin/internal/models"
	"github.com/rogerio-castellano/catalog-admin/internal/pagination"
	"github.com/rogerio-castellano/catalog-admin/internal/repo"
	"github.com/rogerio-castellano/catalog-admin/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap/zaptest"
)

type fixture struct {
	store      repo.Store
	uploader   *storage.StubUploader
	categories *CategoryService
	products   *ProductService
	orders     *OrderService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := repo.NewInMemoryStore()
	uploader := storage.NewStubUploader("http://cdn.test")
	log := zaptest.NewLogger(t)

	return &fixture{
		store:      store,
		uploader:   uploader,
		categories: NewCategoryService(store.Categories, store.Products, log),
		products:   NewProductService(store.Categories, store.Products, uploader, log),
		orders:     NewOrderService(store.Orders, store.Products),
	}
}

func ids(v ...primitive.ObjectID) []primitive.ObjectID { return v }

func TestCreateCategory_LinksProducts(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	p1, err := f.products.Create(ctx, ProductInput{Name: "Novel", Price: 10}, nil)
	require.NoError(t, err)
	p2, err := f.products.Create(ctx, ProductInput{Name: "Comic", Price: 5}, nil)
	require.NoError(t, err)

	c, err := f.categories.Create(ctx, CategoryInput{Name: "Books", Products: ids(p1.ID, p2.ID)})
	require.NoError(t, err)
	assert.Equal(t, ids(p1.ID, p2.ID), c.Products)

	for _, id := range ids(p1.ID, p2.ID) {
		p, err := f.store.Products.GetByID(ctx, id)
		require.NoError(t, err)
		assert.Contains(t, p.Categories, c.ID)
	}
}

func TestCreateCategory_MissingProductPerformsNoWrites(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	p, err := f.products.Create(ctx, ProductInput{Name: "Novel"}, nil)
	require.NoError(t, err)

	_, err = f.categories.Create(ctx, CategoryInput{Name: "Books", Products: ids(p.ID, primitive.NewObjectID())})
	require.Error(t, err)
	assert.ErrorIs(t, err, repo.ErrNotFound)
	assert.ErrorIs(t, err, ErrProductsNotFound)

	_, total, err := f.store.Categories.List(ctx, 0, 0)
	require.NoError(t, err)
	assert.Zero(t, total, "category must not be persisted")

	stored, _ := f.store.Products.GetByID(ctx, p.ID)
	assert.Empty(t, stored.Categories)
}

func TestCreateProduct_LinksCategory(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	books, err := f.categories.Create(ctx, CategoryInput{Name: "Books"})
	require.NoError(t, err)
	assert.Empty(t, books.Products)

	novel, err := f.products.Create(ctx, ProductInput{Name: "Novel", Price: 12, Categories: ids(books.ID)}, nil)
	require.NoError(t, err)

	got, err := f.store.Categories.GetByID(ctx, books.ID)
	require.NoError(t, err)
	assert.Equal(t, ids(novel.ID), got.Products)
}

func TestCreateProduct_MissingCategory(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	_, err := f.products.Create(ctx, ProductInput{Name: "Novel", Categories: ids(primitive.NewObjectID())}, &Image{Filename: "a.png", Body: strings.NewReader("x")})
	assert.ErrorIs(t, err, ErrCategoriesNotFound)
	assert.Empty(t, f.uploader.Keys(), "no upload before validation passes")
}

func TestCreateProduct_UploadsImage(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	p, err := f.products.Create(ctx, ProductInput{Name: "Novel"}, &Image{Filename: "Cover.PNG", ContentType: "image/png", Size: 3, Body: strings.NewReader("png")})
	require.NoError(t, err)

	keys := f.uploader.Keys()
	require.Len(t, keys, 1)
	assert.True(t, strings.HasSuffix(keys[0], ".png"))
	assert.Equal(t, "http://cdn.test/"+keys[0], p.ImageURL)
}

func TestUpdateCategory_MovesBackReferences(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	oldP, _ := f.products.Create(ctx, ProductInput{Name: "Old"}, nil)
	newP, _ := f.products.Create(ctx, ProductInput{Name: "New"}, nil)
	c, err := f.categories.Create(ctx, CategoryInput{Name: "Books", Products: ids(oldP.ID)})
	require.NoError(t, err)

	replacement := ids(newP.ID)
	updated, err := f.categories.Update(ctx, c.ID, models.CategoryPatch{Products: &replacement})
	require.NoError(t, err)
	assert.Equal(t, ids(newP.ID), updated.Products)

	stored, _ := f.store.Products.GetByID(ctx, oldP.ID)
	assert.NotContains(t, stored.Categories, c.ID)
	stored, _ = f.store.Products.GetByID(ctx, newP.ID)
	assert.Contains(t, stored.Categories, c.ID)
}

func TestUpdateCategory_EmptyListSkipsRelinking(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	p, _ := f.products.Create(ctx, ProductInput{Name: "Novel"}, nil)
	c, _ := f.categories.Create(ctx, CategoryInput{Name: "Books", Products: ids(p.ID)})

	empty := []primitive.ObjectID{}
	updated, err := f.categories.Update(ctx, c.ID, models.CategoryPatch{Products: &empty})
	require.NoError(t, err)
	assert.Empty(t, updated.Products)

	stored, _ := f.store.Products.GetByID(ctx, p.ID)
	assert.Contains(t, stored.Categories, c.ID, "an empty replacement list does not unlink products")
}

func TestUpdateCategory_NotFound(t *testing.T) {
	f := newFixture(t)
	name := "x"
	_, err := f.categories.Update(context.Background(), primitive.NewObjectID(), models.CategoryPatch{Name: &name})
	assert.ErrorIs(t, err, repo.ErrCategoryNotFound)
}

func TestUpdateProduct_MovesBackReferencesAndUploads(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	a, _ := f.categories.Create(ctx, CategoryInput{Name: "A"})
	b, _ := f.categories.Create(ctx, CategoryInput{Name: "B"})
	p, err := f.products.Create(ctx, ProductInput{Name: "Novel", Categories: ids(a.ID)}, nil)
	require.NoError(t, err)

	replacement := ids(b.ID)
	price := 42.0
	updated, err := f.products.Update(ctx, p.ID, models.ProductPatch{Categories: &replacement, Price: &price}, &Image{Filename: "n.jpg", Body: strings.NewReader("j")})
	require.NoError(t, err)
	assert.Equal(t, 42.0, updated.Price)
	assert.NotEmpty(t, updated.ImageURL)

	gotA, _ := f.store.Categories.GetByID(ctx, a.ID)
	gotB, _ := f.store.Categories.GetByID(ctx, b.ID)
	assert.NotContains(t, gotA.Products, p.ID)
	assert.Contains(t, gotB.Products, p.ID)
}

func TestDeleteProduct_PullsFromCategories(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	c, _ := f.categories.Create(ctx, CategoryInput{Name: "Books"})
	p, _ := f.products.Create(ctx, ProductInput{Name: "Novel", Categories: ids(c.ID)}, nil)

	require.NoError(t, f.products.Delete(ctx, p.ID))

	categories, _, err := f.store.Categories.List(ctx, 0, 0)
	require.NoError(t, err)
	for _, category := range categories {
		assert.NotContains(t, category.Products, p.ID)
	}
	assert.ErrorIs(t, f.products.Delete(ctx, p.ID), repo.ErrNotFound)
}

func TestDeleteCategory_PullsFromProducts(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	p, _ := f.products.Create(ctx, ProductInput{Name: "Novel"}, nil)
	c, _ := f.categories.Create(ctx, CategoryInput{Name: "Books", Products: ids(p.ID)})

	require.NoError(t, f.categories.Delete(ctx, c.ID))

	stored, _ := f.store.Products.GetByID(ctx, p.ID)
	assert.Empty(t, stored.Categories)
	_, err := f.store.Categories.GetByID(ctx, c.ID)
	assert.ErrorIs(t, err, repo.ErrNotFound)
}

func TestGetViews_PopulateAndDropDangling(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	c, _ := f.categories.Create(ctx, CategoryInput{Name: "Books"})
	p, _ := f.products.Create(ctx, ProductInput{Name: "Novel", Price: 9.5, Categories: ids(c.ID)}, nil)
	dangling := primitive.NewObjectID()
	o, err := f.orders.Create(ctx, OrderInput{Products: ids(p.ID, dangling), Total: 9.5})
	require.NoError(t, err)
	assert.False(t, o.Date.IsZero(), "order date defaults to creation time")

	cv, err := f.categories.Get(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, []models.ProductSummary{{ID: p.ID, Name: "Novel", Price: 9.5}}, cv.Products)

	pv, err := f.products.Get(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, []models.CategorySummary{{ID: c.ID, Name: "Books"}}, pv.Categories)

	ov, err := f.orders.Get(ctx, o.ID)
	require.NoError(t, err)
	require.Len(t, ov.Products, 1)
	assert.Equal(t, p.ID, ov.Products[0].ID)
}

func TestList_Paginates(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	for _, name := range []string{"a", "b", "c"} {
		_, err := f.categories.Create(ctx, CategoryInput{Name: name})
		require.NoError(t, err)
	}

	page, err := f.categories.List(ctx, pagination.Resolve(2, 2, 1, 10))
	require.NoError(t, err)
	assert.Equal(t, int64(3), page.Total)
	assert.Equal(t, 2, page.Page)
	assert.Equal(t, 2, page.Limit)
	require.Len(t, page.Data, 1)
	assert.Equal(t, "c", page.Data[0].Name)
}

type failingProducts struct {
	repo.ProductRepository
}

func (failingProducts) AddCategory(context.Context, []primitive.ObjectID, primitive.ObjectID) error {
	return errors.New("connection reset")
}

func TestCreateCategory_LinkFailureIsReported(t *testing.T) {
	ctx := context.Background()
	store := repo.NewInMemoryStore()
	p, _ := store.Products.Create(ctx, models.Product{Name: "Novel"})

	svc := NewCategoryService(store.Categories, failingProducts{store.Products}, zaptest.NewLogger(t))
	c, err := svc.Create(ctx, CategoryInput{Name: "Books", Products: ids(p.ID)})

	var linkErr *LinkError
	require.ErrorAs(t, err, &linkErr)
	assert.Equal(t, "link category", linkErr.Op)
	assert.False(t, errors.Is(err, repo.ErrNotFound))

	stored, getErr := store.Categories.GetByID(ctx, c.ID)
	require.NoError(t, getErr, "the category stays persisted")
	assert.Equal(t, ids(p.ID), stored.Products)
}

func TestCreateCategory_DuplicateIDsAreNotMissing(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	p, _ := f.products.Create(ctx, ProductInput{Name: "Novel"}, nil)
	_, err := f.categories.Create(ctx, CategoryInput{Name: "Books", Products: ids(p.ID, p.ID)})
	require.NoError(t, err)

	stored, _ := f.store.Products.GetByID(ctx, p.ID)
	assert.Len(t, stored.Categories, 1)
}
