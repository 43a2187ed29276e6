package repo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Metrics is the order summary shown on the dashboard.
type Metrics struct {
	TotalOrders       int64   `json:"totalOrders" bson:"totalOrders"`
	TotalRevenue      float64 `json:"totalRevenue" bson:"totalRevenue"`
	AverageOrderValue float64 `json:"averageOrderValue" bson:"averageOrderValue"`
}

// OrderMatch selects the orders an aggregation runs over.
type OrderMatch struct {
	From *time.Time // inclusive
	To   *time.Time // inclusive

	// When ByProducts is set, only orders containing at least one of Products match.
	// An empty Products list then matches nothing.
	ByProducts bool
	Products   []primitive.ObjectID
}

// DailySalesWindow is a half-open [From, To) range bucketed by calendar day in Location.
type DailySalesWindow struct {
	From     time.Time
	To       time.Time
	Location *time.Location
}

// DailyBucket is the summed order total of one calendar day.
type DailyBucket struct {
	Year  int     `bson:"year"`
	Month int     `bson:"month"`
	Day   int     `bson:"day"`
	Total float64 `bson:"total"`
}

// zoneName returns the IANA name the stores group days by. The process-local zone and
// fixed zones have no name a database can resolve, so they are rejected.
func zoneName(loc *time.Location) (string, error) {
	if loc == nil {
		return "UTC", nil
	}
	name := loc.String()
	if name == "Local" {
		return "", fmt.Errorf("%w: the Local zone has no portable name", ErrUnsupportedLocation)
	}
	if name == "" {
		return "", fmt.Errorf("%w: unnamed zone", ErrUnsupportedLocation)
	}
	if _, err := time.LoadLocation(name); err != nil {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedLocation, name)
	}
	return name, nil
}

type MetricsRepository interface {
	Summary(ctx context.Context, match OrderMatch) (Metrics, error)
	// DailySales returns one bucket per day with orders, sorted ascending.
	DailySales(ctx context.Context, window DailySalesWindow) ([]DailyBucket, error)
}

func (m OrderMatch) matches(date time.Time, products []primitive.ObjectID) bool {
	if m.From != nil && date.Before(*m.From) {
		return false
	}
	if m.To != nil && date.After(*m.To) {
		return false
	}
	if !m.ByProducts {
		return true
	}
	for _, id := range products {
		for _, want := range m.Products {
			if id == want {
				return true
			}
		}
	}
	return false
}
