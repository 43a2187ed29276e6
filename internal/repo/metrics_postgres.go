package repo

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"
)

type PostgresMetricsRepository struct {
	db *sql.DB
}

func NewPostgresMetricsRepository(db *sql.DB) *PostgresMetricsRepository {
	return &PostgresMetricsRepository{db: db}
}

func matchConditions(m OrderMatch) (string, []any) {
	query := ""
	argIdx := 1
	args := []any{}

	if m.From != nil {
		query += fmt.Sprintf(" AND date >= $%d", argIdx)
		args = append(args, *m.From)
		argIdx++
	}
	if m.To != nil {
		query += fmt.Sprintf(" AND date <= $%d", argIdx)
		args = append(args, *m.To)
		argIdx++
	}
	if m.ByProducts {
		query += fmt.Sprintf(" AND products && $%d::text[]", argIdx)
		args = append(args, pq.Array(hexIDs(m.Products)))
	}
	return query, args
}

func (r *PostgresMetricsRepository) Summary(ctx context.Context, match OrderMatch) (Metrics, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	conditions, args := matchConditions(match)
	query := `SELECT COUNT(*), COALESCE(SUM(total), 0), COALESCE(AVG(total), 0) FROM orders WHERE 1=1` + conditions

	var m Metrics
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&m.TotalOrders, &m.TotalRevenue, &m.AverageOrderValue); err != nil {
		return Metrics{}, fmt.Errorf("failed to aggregate order metrics: %w", err)
	}
	return m, nil
}

func (r *PostgresMetricsRepository) DailySales(ctx context.Context, w DailySalesWindow) ([]DailyBucket, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	timezone, err := zoneName(w.Location)
	if err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT
			EXTRACT(YEAR FROM date AT TIME ZONE $1)::int AS year,
			EXTRACT(MONTH FROM date AT TIME ZONE $1)::int AS month,
			EXTRACT(DAY FROM date AT TIME ZONE $1)::int AS day,
			SUM(total) AS total
		FROM orders
		WHERE date >= $2 AND date < $3
		GROUP BY 1, 2, 3
		ORDER BY 1, 2, 3
	`, timezone, w.From, w.To)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate daily sales: %w", err)
	}
	defer rows.Close()

	buckets := []DailyBucket{}
	for rows.Next() {
		var b DailyBucket
		if err := rows.Scan(&b.Year, &b.Month, &b.Day, &b.Total); err != nil {
			return nil, err
		}
		buckets = append(buckets, b)
	}
	return buckets, rows.Err()
}
