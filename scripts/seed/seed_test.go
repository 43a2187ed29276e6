package main

import (
	"context"
	"testing"
	"time"

	"github.com/rogerio-castellano/catalog-admin/internal/repo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func TestSeed(t *testing.T) {
	ctx := context.Background()
	store := repo.NewInMemoryStore()
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

	// Running twice proves the store is wiped first.
	_, err := seed(ctx, store, now, zaptest.NewLogger(t))
	require.NoError(t, err)
	result, err := seed(ctx, store, now, zaptest.NewLogger(t))
	require.NoError(t, err)
	assert.Equal(t, seedResult{Categories: 5, Products: 6, Orders: 6}, result)

	categories, total, err := store.Categories.List(ctx, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(5), total)

	for _, c := range categories {
		for _, pid := range c.Products {
			p, err := store.Products.GetByID(ctx, pid)
			require.NoError(t, err)
			assert.Contains(t, p.Categories, c.ID, "links are written on both sides")
			assert.NotEmpty(t, p.ImageURL)
		}
	}
	assert.Len(t, categories[0].Products, 2)

	m, err := store.Metrics.Summary(ctx, repo.OrderMatch{})
	require.NoError(t, err)
	assert.Equal(t, int64(6), m.TotalOrders)
	assert.InDelta(t, 3449.0, m.TotalRevenue, 1e-9)
}
