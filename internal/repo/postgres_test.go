package repo

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/rogerio-castellano/catalog-admin/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func newMock(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db, mock
}

func TestPostgresProductRepository_GetByID(t *testing.T) {
	db, mock := newMock(t)
	r := NewPostgresProductRepository(db)

	id := primitive.NewObjectID()
	categoryID := primitive.NewObjectID()
	now := time.Now().UTC()

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT ` + productColumns + ` FROM products WHERE id = $1`)).
		WithArgs(id.Hex()).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "description", "price", "image_url", "categories", "created_at", "updated_at"}).
			AddRow(id.Hex(), "Novel", "", 12.5, "", "{"+categoryID.Hex()+"}", now, now))

	p, err := r.GetByID(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, id, p.ID)
	assert.Equal(t, []primitive.ObjectID{categoryID}, p.Categories)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresProductRepository_GetByID_NotFound(t *testing.T) {
	db, mock := newMock(t)
	r := NewPostgresProductRepository(db)

	mock.ExpectQuery(`SELECT .* FROM products WHERE id = \$1`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := r.GetByID(context.Background(), primitive.NewObjectID())
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestPostgresProductRepository_AddCategory(t *testing.T) {
	db, mock := newMock(t)
	r := NewPostgresProductRepository(db)

	categoryID := primitive.NewObjectID()
	productID := primitive.NewObjectID()

	mock.ExpectExec(regexp.QuoteMeta(`UPDATE products SET categories = array_append(categories, $1) WHERE id = ANY($2) AND NOT ($1 = ANY(categories))`)).
		WithArgs(categoryID.Hex(), "{\""+productID.Hex()+"\"}").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, r.AddCategory(context.Background(), []primitive.ObjectID{productID}, categoryID))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresProductRepository_AddCategory_EmptyIsNoop(t *testing.T) {
	db, mock := newMock(t)
	r := NewPostgresProductRepository(db)

	require.NoError(t, r.AddCategory(context.Background(), nil, primitive.NewObjectID()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresCategoryRepository_Update(t *testing.T) {
	db, mock := newMock(t)
	r := NewPostgresCategoryRepository(db)

	id := primitive.NewObjectID()
	name := "Books"
	now := time.Now().UTC()

	mock.ExpectQuery(regexp.QuoteMeta(`UPDATE categories SET updated_at = $1, name = $2 WHERE id = $3 RETURNING ` + categoryColumns)).
		WithArgs(sqlmock.AnyArg(), name, id.Hex()).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "description", "products", "created_at", "updated_at"}).
			AddRow(id.Hex(), name, "", "{}", now, now))

	c, err := r.Update(context.Background(), id, models.CategoryPatch{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "Books", c.Name)
	assert.Empty(t, c.Products)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresOrderRepository_Delete_NotFound(t *testing.T) {
	db, mock := newMock(t)
	r := NewPostgresOrderRepository(db)

	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM orders WHERE id = $1`)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	assert.ErrorIs(t, r.Delete(context.Background(), primitive.NewObjectID()), ErrOrderNotFound)
}

func TestPostgresMetricsRepository_Summary(t *testing.T) {
	db, mock := newMock(t)
	r := NewPostgresMetricsRepository(db)

	from := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	productID := primitive.NewObjectID()

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT COUNT(*), COALESCE(SUM(total), 0), COALESCE(AVG(total), 0) FROM orders WHERE 1=1 AND date >= $1 AND products && $2::text[]`)).
		WithArgs(from, "{\""+productID.Hex()+"\"}").
		WillReturnRows(sqlmock.NewRows([]string{"count", "sum", "avg"}).AddRow(2, 30.0, 15.0))

	m, err := r.Summary(context.Background(), OrderMatch{From: &from, ByProducts: true, Products: []primitive.ObjectID{productID}})
	require.NoError(t, err)
	assert.Equal(t, Metrics{TotalOrders: 2, TotalRevenue: 30, AverageOrderValue: 15}, m)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresMetricsRepository_DailySales(t *testing.T) {
	db, mock := newMock(t)
	r := NewPostgresMetricsRepository(db)

	loc, err := time.LoadLocation("America/Sao_Paulo")
	require.NoError(t, err)
	from := time.Date(2025, 1, 1, 0, 0, 0, 0, loc)
	to := from.AddDate(0, 1, 0)

	mock.ExpectQuery(`SELECT\s+EXTRACT\(YEAR FROM date AT TIME ZONE \$1\)`).
		WithArgs("America/Sao_Paulo", from, to).
		WillReturnRows(sqlmock.NewRows([]string{"year", "month", "day", "total"}).
			AddRow(2025, 1, 8, 2600.98).
			AddRow(2025, 1, 9, 10.0))

	buckets, err := r.DailySales(context.Background(), DailySalesWindow{From: from, To: to, Location: loc})
	require.NoError(t, err)
	assert.Equal(t, []DailyBucket{
		{Year: 2025, Month: 1, Day: 8, Total: 2600.98},
		{Year: 2025, Month: 1, Day: 9, Total: 10},
	}, buckets)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresMetricsRepository_DailySales_RejectsUnnamedZones(t *testing.T) {
	for _, loc := range []*time.Location{time.Local, time.FixedZone("", 3*60*60), time.FixedZone("BRT", -3*60*60)} {
		t.Run(loc.String(), func(t *testing.T) {
			db, mock := newMock(t)
			r := NewPostgresMetricsRepository(db)

			from := time.Date(2025, 1, 1, 0, 0, 0, 0, loc)
			_, err := r.DailySales(context.Background(), DailySalesWindow{From: from, To: from.AddDate(0, 1, 0), Location: loc})
			assert.ErrorIs(t, err, ErrUnsupportedLocation)
			assert.NoError(t, mock.ExpectationsWereMet(), "no query is sent")
		})
	}
}

func TestZoneName(t *testing.T) {
	tokyo, err := time.LoadLocation("Asia/Tokyo")
	require.NoError(t, err)

	name, err := zoneName(tokyo)
	require.NoError(t, err)
	assert.Equal(t, "Asia/Tokyo", name)

	name, err = zoneName(nil)
	require.NoError(t, err)
	assert.Equal(t, "UTC", name)

	name, err = zoneName(time.UTC)
	require.NoError(t, err)
	assert.Equal(t, "UTC", name)

	_, err = zoneName(time.Local)
	assert.ErrorIs(t, err, ErrUnsupportedLocation)
}
