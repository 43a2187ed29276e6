package dashboard

import (
	"context"
	"testing"
	"time"

	"github.com/rogerio-castellano/catalog-admin/internal/config"
	"github.com/rogerio-castellano/catalog-admin/internal/models"
	"github.com/rogerio-castellano/catalog-admin/internal/repo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap/zaptest"
)

type seeded struct {
	store    repo.Store
	books    primitive.ObjectID
	novel    primitive.ObjectID
	comic    primitive.ObjectID
	pen      primitive.ObjectID
	orderDay func(day int) time.Time
}

func seed(t *testing.T) seeded {
	t.Helper()
	ctx := context.Background()
	store := repo.NewInMemoryStore()

	books, err := store.Categories.Create(ctx, models.Category{Name: "Books"})
	require.NoError(t, err)
	novel, _ := store.Products.Create(ctx, models.Product{Name: "Novel", Categories: []primitive.ObjectID{books.ID}})
	comic, _ := store.Products.Create(ctx, models.Product{Name: "Comic", Categories: []primitive.ObjectID{books.ID}})
	pen, _ := store.Products.Create(ctx, models.Product{Name: "Pen"})

	day := func(d int) time.Time { return time.Date(2025, 1, d, 12, 0, 0, 0, time.UTC) }
	for _, o := range []models.Order{
		{Date: day(1), Products: []primitive.ObjectID{novel.ID}, Total: 100},
		{Date: day(5), Products: []primitive.ObjectID{comic.ID}, Total: 50},
		{Date: day(10), Products: []primitive.ObjectID{pen.ID}, Total: 10},
		{Date: day(31), Products: []primitive.ObjectID{pen.ID, novel.ID}, Total: 40},
	} {
		_, err := store.Orders.Create(ctx, o)
		require.NoError(t, err)
	}

	return seeded{store: store, books: books.ID, novel: novel.ID, comic: comic.ID, pen: pen.ID, orderDay: day}
}

func TestFind_NoOrdersReturnsZeros(t *testing.T) {
	store := repo.NewInMemoryStore()
	s := NewService(store.Metrics, store.Products, Options{}, zaptest.NewLogger(t))

	m, err := s.Find(context.Background(), Filter{})
	require.NoError(t, err)
	assert.Equal(t, repo.Metrics{TotalOrders: 0, TotalRevenue: 0, AverageOrderValue: 0}, m)
}

func TestFind_Filters(t *testing.T) {
	data := seed(t)
	ptr := func(id primitive.ObjectID) *primitive.ObjectID { return &id }
	at := func(d int) *time.Time { v := data.orderDay(d); return &v }

	tests := []struct {
		name       string
		mode       string
		filter     Filter
		wantOrders int64
		wantTotal  float64
	}{
		{"no filter", "", Filter{}, 4, 200},
		{"inclusive date range", "", Filter{StartDate: at(5), EndDate: at(10)}, 2, 60},
		{"start only", "", Filter{StartDate: at(10)}, 2, 50},
		{"end only", "", Filter{EndDate: at(1)}, 1, 100},
		{"product", "", Filter{Product: ptr(data.pen)}, 2, 50},
		{"category", "", Filter{Category: ptr(data.books)}, 3, 190},
		{"category overrides product", config.FilterModeOverride, Filter{Category: ptr(data.books), Product: ptr(data.pen)}, 3, 190},
		{"intersect keeps carried product", config.FilterModeIntersect, Filter{Category: ptr(data.books), Product: ptr(data.comic)}, 1, 50},
		{"intersect drops foreign product", config.FilterModeIntersect, Filter{Category: ptr(data.books), Product: ptr(data.pen)}, 0, 0},
		{"category without products", "", Filter{Category: ptr(primitive.NewObjectID())}, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewService(data.store.Metrics, data.store.Products, Options{FilterMode: tt.mode}, zaptest.NewLogger(t))
			m, err := s.Find(context.Background(), tt.filter)
			require.NoError(t, err)
			assert.Equal(t, tt.wantOrders, m.TotalOrders)
			assert.InDelta(t, tt.wantTotal, m.TotalRevenue, 1e-9)
			if tt.wantOrders > 0 {
				assert.InDelta(t, tt.wantTotal/float64(tt.wantOrders), m.AverageOrderValue, 1e-9)
			}
		})
	}
}

func TestDailySales_CurrentMonthSortedAndRestartable(t *testing.T) {
	data := seed(t)
	ctx := context.Background()
	_, err := data.store.Orders.Create(ctx, models.Order{Date: time.Date(2025, 1, 5, 20, 0, 0, 0, time.UTC), Total: 25})
	require.NoError(t, err)
	_, err = data.store.Orders.Create(ctx, models.Order{Date: time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC), Total: 999})
	require.NoError(t, err)

	s := NewService(data.store.Metrics, data.store.Products, Options{
		Now: func() time.Time { return time.Date(2025, 1, 15, 9, 0, 0, 0, time.UTC) },
	}, zaptest.NewLogger(t))

	report, err := s.DailySales(ctx)
	require.NoError(t, err)

	want := []DailySale{
		{Date: "01/01/2025", Total: 100},
		{Date: "05/01/2025", Total: 75},
		{Date: "10/01/2025", Total: 10},
		{Date: "31/01/2025", Total: 40},
	}
	assert.Equal(t, want, report.Collect())
	assert.Equal(t, want, report.Collect(), "ranging again yields the same sequence")
	assert.Equal(t, 4, report.Len())

	var first []DailySale
	for sale := range report.All() {
		first = append(first, sale)
		break
	}
	assert.Equal(t, want[:1], first)
}

func TestDailySales_UsesConfiguredTimezone(t *testing.T) {
	store := repo.NewInMemoryStore()
	ctx := context.Background()
	loc := time.FixedZone("UTC-3", -3*60*60)

	// 01:00 UTC on Feb 1st is still Jan 31st at UTC-3.
	_, err := store.Orders.Create(ctx, models.Order{Date: time.Date(2025, 2, 1, 1, 0, 0, 0, time.UTC), Total: 7})
	require.NoError(t, err)

	s := NewService(store.Metrics, store.Products, Options{
		Location: loc,
		Now:      func() time.Time { return time.Date(2025, 1, 20, 0, 0, 0, 0, loc) },
	}, zaptest.NewLogger(t))

	report, err := s.DailySales(ctx)
	require.NoError(t, err)
	assert.Equal(t, []DailySale{{Date: "31/01/2025", Total: 7}}, report.Collect())
}

func TestDailySales_EmptyMonth(t *testing.T) {
	store := repo.NewInMemoryStore()
	s := NewService(store.Metrics, store.Products, Options{}, zaptest.NewLogger(t))

	report, err := s.DailySales(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []DailySale{}, report.Collect())
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2025-01-31")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC), d)

	d, err = ParseDate("2025-01-31T10:30:00-03:00")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 1, 31, 13, 30, 0, 0, time.UTC), d.UTC())

	_, err = ParseDate("31/01/2025")
	assert.Error(t, err)
}
