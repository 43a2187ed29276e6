package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	_ "github.com/rogerio-castellano/catalog-admin/docs"
	"github.com/rogerio-castellano/catalog-admin/internal/http/ban"
	"github.com/rogerio-castellano/catalog-admin/internal/http/handlers"
	mw "github.com/rogerio-castellano/catalog-admin/internal/http/middleware"
	rl "github.com/rogerio-castellano/catalog-admin/internal/http/rate_limiter"
	httpSwagger "github.com/swaggo/http-swagger/v2"
	"go.uber.org/zap"
)

type Options struct {
	// Limiter enables rate limiting; Guard adds bans on top of it.
	Limiter *rl.Limiter
	Guard   *ban.Guard
	Swagger bool
}

func NewRouter(srv *handlers.Server, opts Options, log *zap.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(mw.RequestLogger(log.Named("access")))
	r.Use(chimw.Recoverer)

	r.Get("/health", srv.HealthHandler)
	if opts.Swagger {
		r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))
	}

	r.Group(func(r chi.Router) {
		if opts.Limiter != nil {
			r.Use(mw.RateLimit(opts.Limiter, opts.Guard, log.Named("rate_limit")))
		}

		r.Route("/categories", func(r chi.Router) {
			r.Post("/", srv.CreateCategoryHandler)
			r.Get("/", srv.ListCategoriesHandler)
			r.Get("/{id}", srv.GetCategoryHandler)
			r.Patch("/{id}", srv.UpdateCategoryHandler)
			r.Delete("/{id}", srv.DeleteCategoryHandler)
		})

		r.Route("/products", func(r chi.Router) {
			r.Post("/", srv.CreateProductHandler)
			r.Get("/", srv.ListProductsHandler)
			r.Get("/{id}", srv.GetProductHandler)
			r.Patch("/{id}", srv.UpdateProductHandler)
			r.Delete("/{id}", srv.DeleteProductHandler)
		})

		r.Route("/orders", func(r chi.Router) {
			r.Post("/", srv.CreateOrderHandler)
			r.Get("/", srv.ListOrdersHandler)
			r.Get("/{id}", srv.GetOrderHandler)
			r.Patch("/{id}", srv.UpdateOrderHandler)
			r.Delete("/{id}", srv.DeleteOrderHandler)
		})

		r.Route("/dashboard", func(r chi.Router) {
			r.Get("/metrics", srv.GetDashboardMetricsHandler)
			r.Get("/dailysales", srv.GetDailySalesHandler)
		})
	})

	return r
}
