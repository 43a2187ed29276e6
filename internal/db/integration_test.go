//go:build integration

package db

import (
	"context"
	"testing"
	"time"

	"github.com/rogerio-castellano/catalog-admin/internal/config"
	"github.com/rogerio-castellano/catalog-admin/internal/models"
	"github.com/rogerio-castellano/catalog-admin/internal/repo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func newPostgresStore(t *testing.T) repo.Store {
	t.Helper()
	ctx := context.Background()

	container, err := tcpostgres.Run(ctx,
		"postgres:16-alpine",
		tcpostgres.WithDatabase("catalog_test"),
		tcpostgres.WithUsername("postgres"),
		tcpostgres.WithPassword("example"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	require.NoError(t, err, "failed to start postgres container")
	t.Cleanup(func() { _ = container.Terminate(ctx) })

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	database, err := ConnectPostgres(ctx, config.PostgresConfig{URL: dsn, MaxOpenConns: 4})
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })

	require.NoError(t, Migrate(database))
	require.NoError(t, Migrate(database), "migrating twice must be a no-op")
	return repo.NewPostgresStore(database)
}

func newMongoStore(t *testing.T) repo.Store {
	t.Helper()
	ctx := context.Background()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "mongo:7",
			ExposedPorts: []string{"27017/tcp"},
			WaitingFor:   wait.ForLog("Waiting for connections").WithStartupTimeout(60 * time.Second),
		},
		Started: true,
	})
	require.NoError(t, err, "failed to start mongo container")
	t.Cleanup(func() { _ = container.Terminate(ctx) })

	endpoint, err := container.PortEndpoint(ctx, "27017/tcp", "mongodb")
	require.NoError(t, err)

	client, err := ConnectMongo(ctx, config.MongoConfig{URI: endpoint, Timeout: 10 * time.Second})
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Disconnect(ctx) })

	return repo.NewMongoStore(client.Database("catalog_test"))
}

func TestStores_Integration(t *testing.T) {
	stores := map[string]func(*testing.T) repo.Store{
		"postgres": newPostgresStore,
		"mongo":    newMongoStore,
	}

	for name, open := range stores {
		t.Run(name, func(t *testing.T) {
			store := open(t)
			exerciseStore(t, store)
		})
	}
}

func exerciseStore(t *testing.T, store repo.Store) {
	ctx := context.Background()

	books, err := store.Categories.Create(ctx, models.Category{Name: "Books"})
	require.NoError(t, err)
	novel, err := store.Products.Create(ctx, models.Product{Name: "Novel", Price: 20, Categories: []primitive.ObjectID{books.ID}})
	require.NoError(t, err)

	require.NoError(t, store.Categories.AddProduct(ctx, []primitive.ObjectID{books.ID}, novel.ID))
	require.NoError(t, store.Categories.AddProduct(ctx, []primitive.ObjectID{books.ID}, novel.ID))

	got, err := store.Categories.GetByID(ctx, books.ID)
	require.NoError(t, err)
	assert.Equal(t, []primitive.ObjectID{novel.ID}, got.Products)

	count, err := store.Products.CountExisting(ctx, []primitive.ObjectID{novel.ID, primitive.NewObjectID()})
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	ids, err := store.Products.IDsByCategory(ctx, books.ID)
	require.NoError(t, err)
	assert.Equal(t, []primitive.ObjectID{novel.ID}, ids)

	price := 25.0
	updated, err := store.Products.Update(ctx, novel.ID, models.ProductPatch{Price: &price})
	require.NoError(t, err)
	assert.Equal(t, 25.0, updated.Price)
	assert.Equal(t, "Novel", updated.Name)

	_, total, err := store.Products.List(ctx, 0, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)

	jan := func(d, h int) time.Time { return time.Date(2025, 1, d, h, 0, 0, 0, time.UTC) }
	for _, o := range []models.Order{
		{Date: jan(8, 10), Products: []primitive.ObjectID{novel.ID}, Total: 1000.49},
		{Date: jan(8, 18), Total: 1600.49},
		{Date: jan(20, 9), Products: []primitive.ObjectID{novel.ID}, Total: 5},
	} {
		_, err := store.Orders.Create(ctx, o)
		require.NoError(t, err)
	}

	from, to := jan(1, 0), jan(8, 23)
	m, err := store.Metrics.Summary(ctx, repo.OrderMatch{From: &from, To: &to})
	require.NoError(t, err)
	assert.Equal(t, int64(2), m.TotalOrders)
	assert.InDelta(t, 2600.98, m.TotalRevenue, 1e-6)

	m, err = store.Metrics.Summary(ctx, repo.OrderMatch{ByProducts: true, Products: []primitive.ObjectID{novel.ID}})
	require.NoError(t, err)
	assert.Equal(t, int64(2), m.TotalOrders)

	m, err = store.Metrics.Summary(ctx, repo.OrderMatch{ByProducts: true})
	require.NoError(t, err)
	assert.Equal(t, repo.Metrics{}, m)

	buckets, err := store.Metrics.DailySales(ctx, repo.DailySalesWindow{From: jan(1, 0), To: time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC), Location: time.UTC})
	require.NoError(t, err)
	require.Len(t, buckets, 2)
	assert.Equal(t, 8, buckets[0].Day)
	assert.InDelta(t, 2600.98, buckets[0].Total, 1e-6)
	assert.Equal(t, 20, buckets[1].Day)

	require.NoError(t, store.Categories.RemoveProduct(ctx, []primitive.ObjectID{books.ID}, novel.ID))
	require.NoError(t, store.Products.Delete(ctx, novel.ID))
	assert.ErrorIs(t, store.Products.Delete(ctx, novel.ID), repo.ErrNotFound)

	got, err = store.Categories.GetByID(ctx, books.ID)
	require.NoError(t, err)
	assert.Empty(t, got.Products)
}
