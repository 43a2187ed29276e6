// Command seed wipes the configured store and fills it with sample catalog data.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/rogerio-castellano/catalog-admin/internal/config"
	"github.com/rogerio-castellano/catalog-admin/internal/db"
	"github.com/rogerio-castellano/catalog-admin/internal/logger"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid configuration: %v\n", err)
		os.Exit(1)
	}

	log, syncLog := logger.New(cfg.Log)
	defer syncLog()

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	store, closeStore, err := db.OpenStore(ctx, cfg, log)
	if err != nil {
		log.Error("could not open store", zap.Error(err))
		syncLog()
		os.Exit(1)
	}
	defer closeStore()

	result, err := seed(ctx, store, time.Now(), log)
	if err != nil {
		log.Error("seeding failed", zap.Error(err))
		closeStore()
		syncLog()
		os.Exit(1)
	}
	log.Info("database seeded",
		zap.Int("categories", result.Categories),
		zap.Int("products", result.Products),
		zap.Int("orders", result.Orders),
	)
}
