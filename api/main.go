package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/robfig/cron"
	"github.com/rogerio-castellano/catalog-admin/internal/catalog"
	"github.com/rogerio-castellano/catalog-admin/internal/config"
	"github.com/rogerio-castellano/catalog-admin/internal/dashboard"
	"github.com/rogerio-castellano/catalog-admin/internal/db"
	"github.com/rogerio-castellano/catalog-admin/internal/http/ban"
	"github.com/rogerio-castellano/catalog-admin/internal/http/handlers"
	rl "github.com/rogerio-castellano/catalog-admin/internal/http/rate_limiter"
	"github.com/rogerio-castellano/catalog-admin/internal/http/router"
	"github.com/rogerio-castellano/catalog-admin/internal/logger"
	"github.com/rogerio-castellano/catalog-admin/internal/pagination"
	"github.com/rogerio-castellano/catalog-admin/internal/redissvc"
	"github.com/rogerio-castellano/catalog-admin/internal/storage"
	"go.uber.org/zap"
)

// @title Catalog Admin API
// @version 1.0
// @description REST API for managing catalog categories, products, orders and the sales dashboard.
// @host localhost:8080
// @BasePath /
func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid configuration: %v\n", err)
		os.Exit(1)
	}

	log, syncLog := logger.New(cfg.Log)
	defer syncLog()

	if err := run(cfg, log); err != nil {
		log.Error("server stopped", zap.Error(err))
		syncLog()
		os.Exit(1)
	}
}

func run(cfg *config.Config, log *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, closeStore, err := db.OpenStore(ctx, cfg, log)
	if err != nil {
		return fmt.Errorf("could not open store: %w", err)
	}
	defer closeStore()

	uploader, err := storage.New(ctx, cfg.Storage, log)
	if err != nil {
		return fmt.Errorf("could not configure storage: %w", err)
	}

	banStore, closeBans, err := openBanStore(ctx, cfg.Redis, log)
	if err != nil {
		return err
	}
	defer closeBans()
	guard := ban.NewGuard(banStore, ban.Config{
		Strikes:  cfg.Ban.Strikes,
		Window:   cfg.Ban.Window,
		Duration: cfg.Ban.Duration,
	}, log)

	limiter := rl.New(cfg.RateLimit.RPS, cfg.RateLimit.Burst, 5*time.Minute, log)
	if err := limiter.Start("@every 1m"); err != nil {
		return fmt.Errorf("could not schedule visitor cleanup: %w", err)
	}
	defer limiter.Stop()

	jobs := cron.New()
	if err := jobs.AddFunc("@daily", func() { guard.LogSummary(context.Background()) }); err != nil {
		return fmt.Errorf("could not schedule ban summary: %w", err)
	}
	jobs.Start()
	defer jobs.Stop()

	srv := handlers.NewServer(handlers.Services{
		Categories: catalog.NewCategoryService(store.Categories, store.Products, log),
		Products:   catalog.NewProductService(store.Categories, store.Products, uploader, log),
		Orders:     catalog.NewOrderService(store.Orders, store.Products),
		Dashboard: dashboard.NewService(store.Metrics, store.Products, dashboard.Options{
			FilterMode: cfg.Dashboard.FilterMode,
			Location:   cfg.Dashboard.Location,
		}, log),
	}, handlers.Options{
		Pagination: pagination.Defaults{
			Page:  cfg.Pagination.DefaultPage,
			Limit: cfg.Pagination.DefaultLimit,
		},
		MaxUploadBytes: cfg.Storage.MaxUploadBytes,
	}, log)

	httpServer := &http.Server{
		Addr: ":" + cfg.App.Port,
		Handler: router.NewRouter(srv, router.Options{
			Limiter: limiter,
			Guard:   guard,
			Swagger: cfg.Swagger.Enabled,
		}, log),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("server running", zap.String("addr", httpServer.Addr), zap.String("env", cfg.App.Env))
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return httpServer.Shutdown(shutdownCtx)
}

// openBanStore uses Redis when configured so bans are shared between instances.
func openBanStore(ctx context.Context, cfg config.RedisConfig, log *zap.Logger) (ban.Store, func(), error) {
	if cfg.Addr == "" {
		log.Warn("REDIS_ADDR not set, ban state is kept in memory")
		return ban.NewMemoryStore(), func() {}, nil
	}

	rdb, err := redissvc.Connect(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}
	log.Info("connected to redis", zap.String("addr", cfg.Addr))
	return redissvc.NewRedisService(rdb), func() { rdb.Close() }, nil
}
