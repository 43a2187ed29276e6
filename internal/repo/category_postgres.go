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

const categoryColumns = `id, name, description, products, created_at, updated_at`

type PostgresCategoryRepository struct {
	db *sql.DB
}

func NewPostgresCategoryRepository(db *sql.DB) *PostgresCategoryRepository {
	return &PostgresCategoryRepository{db: db}
}

func scanCategory(row scanner) (models.Category, error) {
	var (
		c        models.Category
		id       string
		products []string
	)
	if err := row.Scan(&id, &c.Name, &c.Description, pq.Array(&products), &c.CreatedAt, &c.UpdatedAt); err != nil {
		return models.Category{}, err
	}

	var err error
	if c.ID, err = primitive.ObjectIDFromHex(id); err != nil {
		return models.Category{}, fmt.Errorf("%w: %s", ErrInvalidID, id)
	}
	if c.Products, err = idsFromHex(products); err != nil {
		return models.Category{}, err
	}
	return c, nil
}

func (r *PostgresCategoryRepository) Create(ctx context.Context, c models.Category) (models.Category, error) {
	query := `INSERT INTO categories (` + categoryColumns + `) VALUES ($1, $2, $3, $4, $5, $6)`
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	now := time.Now().UTC()
	c.ID = primitive.NewObjectID()
	c.Products = models.CloneIDs(c.Products)
	c.CreatedAt = now
	c.UpdatedAt = now

	_, err := r.db.ExecContext(ctx, query, c.ID.Hex(), c.Name, c.Description, pq.Array(hexIDs(c.Products)), c.CreatedAt, c.UpdatedAt)
	if err != nil {
		return models.Category{}, fmt.Errorf("failed to insert category: %w", err)
	}
	return c, nil
}

func (r *PostgresCategoryRepository) GetByID(ctx context.Context, id primitive.ObjectID) (models.Category, error) {
	query := `SELECT ` + categoryColumns + ` FROM categories WHERE id = $1`
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	c, err := scanCategory(r.db.QueryRowContext(ctx, query, id.Hex()))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Category{}, ErrCategoryNotFound
	}
	return c, err
}

func (r *PostgresCategoryRepository) List(ctx context.Context, skip, limit int) ([]models.Category, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var total int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM categories`).Scan(&total); err != nil {
		return nil, 0, err
	}

	query, args := pageQuery(`SELECT `+categoryColumns+` FROM categories ORDER BY id`, skip, limit)
	categories, err := r.query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	return categories, total, nil
}

func (r *PostgresCategoryRepository) FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Category, error) {
	if len(ids) == 0 {
		return []models.Category{}, nil
	}
	query := `SELECT ` + categoryColumns + ` FROM categories WHERE id = ANY($1) ORDER BY id`
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	return r.query(ctx, query, pq.Array(hexIDs(ids)))
}

func (r *PostgresCategoryRepository) CountExisting(ctx context.Context, ids []primitive.ObjectID) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var count int64
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM categories WHERE id = ANY($1)`, pq.Array(hexIDs(ids))).Scan(&count)
	return count, err
}

func (r *PostgresCategoryRepository) Update(ctx context.Context, id primitive.ObjectID, patch models.CategoryPatch) (models.Category, error) {
	set := newSetClause(time.Now().UTC())
	if patch.Name != nil {
		set.add("name", *patch.Name)
	}
	if patch.Description != nil {
		set.add("description", *patch.Description)
	}
	if patch.Products != nil {
		set.add("products", pq.Array(hexIDs(*patch.Products)))
	}

	query, args := set.update("categories", id, categoryColumns)
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	c, err := scanCategory(r.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Category{}, ErrCategoryNotFound
	}
	return c, err
}

func (r *PostgresCategoryRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	res, err := r.db.ExecContext(ctx, `DELETE FROM categories WHERE id = $1`, id.Hex())
	if err != nil {
		return err
	}
	rowsAffected, _ := res.RowsAffected()
	if rowsAffected == 0 {
		return ErrCategoryNotFound
	}
	return nil
}

func (r *PostgresCategoryRepository) DeleteAll(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	_, err := r.db.ExecContext(ctx, `DELETE FROM categories`)
	return err
}

func (r *PostgresCategoryRepository) AddProduct(ctx context.Context, categoryIDs []primitive.ObjectID, productID primitive.ObjectID) error {
	query := `UPDATE categories SET products = array_append(products, $1) WHERE id = ANY($2) AND NOT ($1 = ANY(products))`
	return execForIDs(ctx, r.db, query, productID, categoryIDs)
}

func (r *PostgresCategoryRepository) RemoveProduct(ctx context.Context, categoryIDs []primitive.ObjectID, productID primitive.ObjectID) error {
	query := `UPDATE categories SET products = array_remove(products, $1) WHERE id = ANY($2)`
	return execForIDs(ctx, r.db, query, productID, categoryIDs)
}

func (r *PostgresCategoryRepository) query(ctx context.Context, query string, args ...any) ([]models.Category, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	categories := []models.Category{}
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, err
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}
