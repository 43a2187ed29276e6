package repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/lib/pq"
	"github.com/rogerio-castellano/catalog-admin/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const productColumns = `id, name, description, price, image_url, categories, created_at, updated_at`

type PostgresProductRepository struct {
	db *sql.DB
}

func NewPostgresProductRepository(db *sql.DB) *PostgresProductRepository {
	return &PostgresProductRepository{db: db}
}

func scanProduct(row scanner) (models.Product, error) {
	var (
		p          models.Product
		id         string
		categories []string
	)
	if err := row.Scan(&id, &p.Name, &p.Description, &p.Price, &p.ImageURL, pq.Array(&categories), &p.CreatedAt, &p.UpdatedAt); err != nil {
		return models.Product{}, err
	}

	var err error
	if p.ID, err = primitive.ObjectIDFromHex(id); err != nil {
		return models.Product{}, fmt.Errorf("%w: %s", ErrInvalidID, id)
	}
	if p.Categories, err = idsFromHex(categories); err != nil {
		return models.Product{}, err
	}
	return p, nil
}

func (r *PostgresProductRepository) Create(ctx context.Context, p models.Product) (models.Product, error) {
	query := `INSERT INTO products (` + productColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	now := time.Now().UTC()
	p.ID = primitive.NewObjectID()
	p.Categories = models.CloneIDs(p.Categories)
	p.CreatedAt = now
	p.UpdatedAt = now

	_, err := r.db.ExecContext(ctx, query, p.ID.Hex(), p.Name, p.Description, p.Price, p.ImageURL, pq.Array(hexIDs(p.Categories)), p.CreatedAt, p.UpdatedAt)
	if err != nil {
		return models.Product{}, fmt.Errorf("failed to insert product: %w", err)
	}
	return p, nil
}

func (r *PostgresProductRepository) GetByID(ctx context.Context, id primitive.ObjectID) (models.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1`
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	p, err := scanProduct(r.db.QueryRowContext(ctx, query, id.Hex()))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Product{}, ErrProductNotFound
	}
	return p, err
}

func (r *PostgresProductRepository) List(ctx context.Context, skip, limit int) ([]models.Product, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var total int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM products`).Scan(&total); err != nil {
		return nil, 0, err
	}

	query, args := pageQuery(`SELECT `+productColumns+` FROM products ORDER BY id`, skip, limit)
	products, err := r.query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	return products, total, nil
}

func (r *PostgresProductRepository) FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Product, error) {
	if len(ids) == 0 {
		return []models.Product{}, nil
	}
	query := `SELECT ` + productColumns + ` FROM products WHERE id = ANY($1) ORDER BY id`
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	return r.query(ctx, query, pq.Array(hexIDs(ids)))
}

func (r *PostgresProductRepository) CountExisting(ctx context.Context, ids []primitive.ObjectID) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var count int64
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM products WHERE id = ANY($1)`, pq.Array(hexIDs(ids))).Scan(&count)
	return count, err
}

func (r *PostgresProductRepository) IDsByCategory(ctx context.Context, categoryID primitive.ObjectID) ([]primitive.ObjectID, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	rows, err := r.db.QueryContext(ctx, `SELECT id FROM products WHERE $1 = ANY(categories) ORDER BY id`, categoryID.Hex())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var hex []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		hex = append(hex, id)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return idsFromHex(hex)
}

func (r *PostgresProductRepository) Update(ctx context.Context, id primitive.ObjectID, patch models.ProductPatch) (models.Product, error) {
	set := newSetClause(time.Now().UTC())
	if patch.Name != nil {
		set.add("name", *patch.Name)
	}
	if patch.Description != nil {
		set.add("description", *patch.Description)
	}
	if patch.Price != nil {
		set.add("price", *patch.Price)
	}
	if patch.ImageURL != nil {
		set.add("image_url", *patch.ImageURL)
	}
	if patch.Categories != nil {
		set.add("categories", pq.Array(hexIDs(*patch.Categories)))
	}

	query, args := set.update("products", id, productColumns)
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	p, err := scanProduct(r.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Product{}, ErrProductNotFound
	}
	return p, err
}

func (r *PostgresProductRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	query := `DELETE FROM products WHERE id = $1`
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	res, err := r.db.ExecContext(ctx, query, id.Hex())
	if err != nil {
		return err
	}
	rowsAffected, _ := res.RowsAffected()
	if rowsAffected == 0 {
		return ErrProductNotFound
	}
	return nil
}

func (r *PostgresProductRepository) DeleteAll(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	_, err := r.db.ExecContext(ctx, `DELETE FROM products`)
	return err
}

func (r *PostgresProductRepository) AddCategory(ctx context.Context, productIDs []primitive.ObjectID, categoryID primitive.ObjectID) error {
	query := `UPDATE products SET categories = array_append(categories, $1) WHERE id = ANY($2) AND NOT ($1 = ANY(categories))`
	return execForIDs(ctx, r.db, query, categoryID, productIDs)
}

func (r *PostgresProductRepository) RemoveCategory(ctx context.Context, productIDs []primitive.ObjectID, categoryID primitive.ObjectID) error {
	query := `UPDATE products SET categories = array_remove(categories, $1) WHERE id = ANY($2)`
	return execForIDs(ctx, r.db, query, categoryID, productIDs)
}

func (r *PostgresProductRepository) query(ctx context.Context, query string, args ...any) ([]models.Product, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	products := []models.Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func hexIDs(ids []primitive.ObjectID) []string {
	hex := make([]string, 0, len(ids))
	for _, id := range ids {
		hex = append(hex, id.Hex())
	}
	return hex
}

func idsFromHex(hex []string) ([]primitive.ObjectID, error) {
	ids := make([]primitive.ObjectID, 0, len(hex))
	for _, h := range hex {
		id, err := primitive.ObjectIDFromHex(h)
		if err != nil {
			return nil, fmt.Errorf("%w: %s", ErrInvalidID, h)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func pageQuery(query string, skip, limit int) (string, []any) {
	args := []any{}
	argIdx := 1
	if limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d", argIdx)
		args = append(args, limit)
		argIdx++
	}
	if skip > 0 {
		query += fmt.Sprintf(" OFFSET $%d", argIdx)
		args = append(args, skip)
	}
	return query, args
}

// setClause accumulates the columns of a partial UPDATE. updated_at is always $1.
type setClause struct {
	columns []string
	args    []any
}

func newSetClause(updatedAt time.Time) *setClause {
	return &setClause{columns: []string{"updated_at = $1"}, args: []any{updatedAt}}
}

func (s *setClause) add(column string, value any) {
	s.args = append(s.args, value)
	s.columns = append(s.columns, fmt.Sprintf("%s = $%d", column, len(s.args)))
}

func (s *setClause) update(table string, id primitive.ObjectID, returning string) (string, []any) {
	args := append(s.args, id.Hex())
	query := fmt.Sprintf(`UPDATE %s SET %s WHERE id = $%d RETURNING %s`, table, strings.Join(s.columns, ", "), len(args), returning)
	return query, args
}

func execForIDs(ctx context.Context, db *sql.DB, query string, ref primitive.ObjectID, ids []primitive.ObjectID) error {
	if len(ids) == 0 {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	_, err := db.ExecContext(ctx, query, ref.Hex(), pq.Array(hexIDs(ids)))
	return err
}
