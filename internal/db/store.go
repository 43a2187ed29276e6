package db

import (
	"context"
	"fmt"
	"time"

	"github.com/rogerio-castellano/catalog-admin/internal/config"
	"github.com/rogerio-castellano/catalog-admin/internal/repo"
	"go.uber.org/zap"
)

// OpenStore connects to the configured backend and returns its repositories.
// The returned close function releases the underlying connection.
func OpenStore(ctx context.Context, cfg *config.Config, log *zap.Logger) (repo.Store, func(), error) {
	switch cfg.Store.Driver {
	case config.DriverMongo:
		client, err := ConnectMongo(ctx, cfg.Mongo)
		if err != nil {
			return repo.Store{}, nil, err
		}
		log.Info("connected to mongodb", zap.String("database", cfg.Mongo.DBName))

		closeFn := func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := client.Disconnect(ctx); err != nil {
				log.Warn("failed to disconnect from mongodb", zap.Error(err))
			}
		}
		return repo.NewMongoStore(client.Database(cfg.Mongo.DBName)), closeFn, nil

	case config.DriverPostgres:
		database, err := ConnectPostgres(ctx, cfg.Postgres)
		if err != nil {
			return repo.Store{}, nil, err
		}
		if err := Migrate(database); err != nil {
			database.Close()
			return repo.Store{}, nil, err
		}
		log.Info("connected to postgres, migrations applied")

		closeFn := func() {
			if err := database.Close(); err != nil {
				log.Warn("failed to close postgres", zap.Error(err))
			}
		}
		return repo.NewPostgresStore(database), closeFn, nil

	case config.DriverMemory:
		log.Warn("using in-memory store, data is lost on restart")
		return repo.NewInMemoryStore(), func() {}, nil
	}

	return repo.Store{}, nil, fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
}
