// Package dashboard aggregates orders into summary metrics and daily sales.
package dashboard

import (
	"context"
	"fmt"
	"iter"
	"time"

	"github.com/rogerio-castellano/catalog-admin/internal/config"
	"github.com/rogerio-castellano/catalog-admin/internal/models"
	"github.com/rogerio-castellano/catalog-admin/internal/repo"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Filter narrows the orders summarized by Find. Nil fields are not applied.
type Filter struct {
	StartDate *time.Time
	EndDate   *time.Time
	Product   *primitive.ObjectID
	Category  *primitive.ObjectID
}

type Options struct {
	// FilterMode decides how Category and Product combine when both are set.
	// config.FilterModeOverride lets the category's products replace the product filter;
	// config.FilterModeIntersect keeps the product only if it carries the category.
	FilterMode string
	Location   *time.Location
	Now        func() time.Time
}

type Service struct {
	metrics  repo.MetricsRepository
	products repo.ProductRepository
	mode     string
	location *time.Location
	now      func() time.Time
	logger   *zap.Logger
}

func NewService(metrics repo.MetricsRepository, products repo.ProductRepository, opts Options, log *zap.Logger) *Service {
	s := &Service{
		metrics:  metrics,
		products: products,
		mode:     opts.FilterMode,
		location: opts.Location,
		now:      opts.Now,
		logger:   log.Named("dashboard"),
	}
	if s.mode == "" {
		s.mode = config.FilterModeOverride
	}
	if s.location == nil {
		s.location = time.UTC
	}
	if s.now == nil {
		s.now = time.Now
	}
	return s
}

// Find returns order count, revenue and average order value for the orders matching f.
// No matching orders yields a zero summary.
func (s *Service) Find(ctx context.Context, f Filter) (repo.Metrics, error) {
	match, err := s.match(ctx, f)
	if err != nil {
		return repo.Metrics{}, err
	}
	return s.metrics.Summary(ctx, match)
}

func (s *Service) match(ctx context.Context, f Filter) (repo.OrderMatch, error) {
	match := repo.OrderMatch{From: f.StartDate, To: f.EndDate}

	switch {
	case f.Category != nil:
		ids, err := s.products.IDsByCategory(ctx, *f.Category)
		if err != nil {
			return repo.OrderMatch{}, err
		}
		if f.Product != nil && s.mode == config.FilterModeIntersect {
			if models.ContainsID(ids, *f.Product) {
				ids = []primitive.ObjectID{*f.Product}
			} else {
				ids = []primitive.ObjectID{}
			}
		} else if f.Product != nil {
			s.logger.Debug("category filter overrides product filter",
				zap.String("category", f.Category.Hex()),
				zap.String("product", f.Product.Hex()),
			)
		}
		match.ByProducts = true
		match.Products = ids

	case f.Product != nil:
		match.ByProducts = true
		match.Products = []primitive.ObjectID{*f.Product}
	}

	return match, nil
}

// DailySales sums order totals per day for the current calendar month.
func (s *Service) DailySales(ctx context.Context) (DailySalesReport, error) {
	now := s.now().In(s.location)
	from := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, s.location)
	to := from.AddDate(0, 1, 0)

	buckets, err := s.metrics.DailySales(ctx, repo.DailySalesWindow{From: from, To: to, Location: s.location})
	if err != nil {
		return DailySalesReport{}, err
	}
	return DailySalesReport{buckets: buckets}, nil
}

// DailySale is one day of sales; Date is formatted DD/MM/YYYY.
type DailySale struct {
	Date  string  `json:"date"`
	Total float64 `json:"total"`
}

// DailySalesReport holds the days with orders, in ascending order.
type DailySalesReport struct {
	buckets []repo.DailyBucket
}

// All yields each day lazily. The sequence can be ranged over any number of times.
func (r DailySalesReport) All() iter.Seq[DailySale] {
	return func(yield func(DailySale) bool) {
		for _, b := range r.buckets {
			sale := DailySale{
				Date:  fmt.Sprintf("%02d/%02d/%04d", b.Day, b.Month, b.Year),
				Total: b.Total,
			}
			if !yield(sale) {
				return
			}
		}
	}
}

func (r DailySalesReport) Len() int {
	return len(r.buckets)
}

// Collect materializes the report, never returning nil.
func (r DailySalesReport) Collect() []DailySale {
	sales := make([]DailySale, 0, len(r.buckets))
	for sale := range r.All() {
		sales = append(sales, sale)
	}
	return sales
}

// ParseDate accepts RFC3339 timestamps or YYYY-MM-DD dates (midnight UTC).
func ParseDate(value string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.DateOnly, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: expected YYYY-MM-DD or RFC3339", value)
	}
	return t, nil
}
