package repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"
	"github.com/rogerio-castellano/catalog-admin/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const orderColumns = `id, date, products, total, created_at, updated_at`

type PostgresOrderRepository struct {
	db *sql.DB
}

func NewPostgresOrderRepository(db *sql.DB) *PostgresOrderRepository {
	return &PostgresOrderRepository{db: db}
}

func scanOrder(row scanner) (models.Order, error) {
	var (
		o        models.Order
		id       string
		products []string
	)
	if err := row.Scan(&id, &o.Date, pq.Array(&products), &o.Total, &o.CreatedAt, &o.UpdatedAt); err != nil {
		return models.Order{}, err
	}

	var err error
	if o.ID, err = primitive.ObjectIDFromHex(id); err != nil {
		return models.Order{}, fmt.Errorf("%w: %s", ErrInvalidID, id)
	}
	if o.Products, err = idsFromHex(products); err != nil {
		return models.Order{}, err
	}
	return o, nil
}

func (r *PostgresOrderRepository) Create(ctx context.Context, o models.Order) (models.Order, error) {
	query := `INSERT INTO orders (` + orderColumns + `) VALUES ($1, $2, $3, $4, $5, $6)`
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	now := time.Now().UTC()
	o.ID = primitive.NewObjectID()
	o.Products = models.CloneIDs(o.Products)
	if o.Date.IsZero() {
		o.Date = now
	}
	o.CreatedAt = now
	o.UpdatedAt = now

	_, err := r.db.ExecContext(ctx, query, o.ID.Hex(), o.Date, pq.Array(hexIDs(o.Products)), o.Total, o.CreatedAt, o.UpdatedAt)
	if err != nil {
		return models.Order{}, fmt.Errorf("failed to insert order: %w", err)
	}
	return o, nil
}

func (r *PostgresOrderRepository) GetByID(ctx context.Context, id primitive.ObjectID) (models.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE id = $1`
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	o, err := scanOrder(r.db.QueryRowContext(ctx, query, id.Hex()))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Order{}, ErrOrderNotFound
	}
	return o, err
}

func (r *PostgresOrderRepository) List(ctx context.Context, skip, limit int) ([]models.Order, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var total int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM orders`).Scan(&total); err != nil {
		return nil, 0, err
	}

	query, args := pageQuery(`SELECT `+orderColumns+` FROM orders ORDER BY id`, skip, limit)
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	orders := []models.Order{}
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, 0, err
		}
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return orders, total, nil
}

func (r *PostgresOrderRepository) Update(ctx context.Context, id primitive.ObjectID, patch models.OrderPatch) (models.Order, error) {
	set := newSetClause(time.Now().UTC())
	if patch.Date != nil {
		set.add("date", *patch.Date)
	}
	if patch.Products != nil {
		set.add("products", pq.Array(hexIDs(*patch.Products)))
	}
	if patch.Total != nil {
		set.add("total", *patch.Total)
	}

	query, args := set.update("orders", id, orderColumns)
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	o, err := scanOrder(r.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Order{}, ErrOrderNotFound
	}
	return o, err
}

func (r *PostgresOrderRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	res, err := r.db.ExecContext(ctx, `DELETE FROM orders WHERE id = $1`, id.Hex())
	if err != nil {
		return err
	}
	rowsAffected, _ := res.RowsAffected()
	if rowsAffected == 0 {
		return ErrOrderNotFound
	}
	return nil
}

func (r *PostgresOrderRepository) DeleteAll(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	_, err := r.db.ExecContext(ctx, `DELETE FROM orders`)
	return err
}
