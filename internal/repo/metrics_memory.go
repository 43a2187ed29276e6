package repo

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

type InMemoryMetricsRepository struct {
	orderRepo *InMemoryOrderRepository
}

func NewInMemoryMetricsRepository() *InMemoryMetricsRepository {
	return &InMemoryMetricsRepository{}
}

func (i *InMemoryMetricsRepository) SetRepositories(orderRepo *InMemoryOrderRepository) {
	i.orderRepo = orderRepo
}

// Summary implements MetricsRepository.
func (i *InMemoryMetricsRepository) Summary(_ context.Context, match OrderMatch) (Metrics, error) {
	m := Metrics{}
	if i.orderRepo == nil {
		return m, nil
	}

	revenue := decimal.Zero
	for _, o := range i.orderRepo.snapshot() {
		if !match.matches(o.Date, o.Products) {
			continue
		}
		m.TotalOrders++
		revenue = revenue.Add(decimal.NewFromFloat(o.Total))
	}
	if m.TotalOrders == 0 {
		return m, nil
	}

	m.TotalRevenue = revenue.InexactFloat64()
	m.AverageOrderValue = revenue.Div(decimal.NewFromInt(m.TotalOrders)).InexactFloat64()
	return m, nil
}

// DailySales implements MetricsRepository.
func (i *InMemoryMetricsRepository) DailySales(_ context.Context, w DailySalesWindow) ([]DailyBucket, error) {
	if i.orderRepo == nil {
		return []DailyBucket{}, nil
	}
	loc := w.Location
	if loc == nil {
		loc = time.UTC
	}

	type day struct{ year, month, day int }
	sums := map[day]decimal.Decimal{}
	for _, o := range i.orderRepo.snapshot() {
		if o.Date.Before(w.From) || !o.Date.Before(w.To) {
			continue
		}
		local := o.Date.In(loc)
		key := day{local.Year(), int(local.Month()), local.Day()}
		sums[key] = sums[key].Add(decimal.NewFromFloat(o.Total))
	}

	buckets := make([]DailyBucket, 0, len(sums))
	for k, total := range sums {
		buckets = append(buckets, DailyBucket{Year: k.year, Month: k.month, Day: k.day, Total: total.InexactFloat64()})
	}
	sort.Slice(buckets, func(a, b int) bool {
		return buckets[a].date().Before(buckets[b].date())
	})
	return buckets, nil
}

func (b DailyBucket) date() time.Time {
	return time.Date(b.Year, time.Month(b.Month), b.Day, 0, 0, 0, 0, time.UTC)
}
