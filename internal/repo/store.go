package repo

import (
	"database/sql"

	"go.mongodb.org/mongo-driver/mongo"
)

// Store bundles the repositories of one backend.
type Store struct {
	Categories CategoryRepository
	Products   ProductRepository
	Orders     OrderRepository
	Metrics    MetricsRepository
}

func NewInMemoryStore() Store {
	orders := NewInMemoryOrderRepository()
	metrics := NewInMemoryMetricsRepository()
	metrics.SetRepositories(orders)

	return Store{
		Categories: NewInMemoryCategoryRepository(),
		Products:   NewInMemoryProductRepository(),
		Orders:     orders,
		Metrics:    metrics,
	}
}

func NewMongoStore(db *mongo.Database) Store {
	return Store{
		Categories: NewMongoCategoryRepository(db),
		Products:   NewMongoProductRepository(db),
		Orders:     NewMongoOrderRepository(db),
		Metrics:    NewMongoMetricsRepository(db),
	}
}

func NewPostgresStore(db *sql.DB) Store {
	return Store{
		Categories: NewPostgresCategoryRepository(db),
		Products:   NewPostgresProductRepository(db),
		Orders:     NewPostgresOrderRepository(db),
		Metrics:    NewPostgresMetricsRepository(db),
	}
}
