package handlers

import (
	"github.com/rogerio-castellano/catalog-admin/internal/catalog"
	"github.com/rogerio-castellano/catalog-admin/internal/dashboard"
	"github.com/rogerio-castellano/catalog-admin/internal/pagination"
	"go.uber.org/zap"
)

type Services struct {
	Categories *catalog.CategoryService
	Products   *catalog.ProductService
	Orders     *catalog.OrderService
	Dashboard  *dashboard.Service
}

type Options struct {
	Pagination     pagination.Defaults
	MaxUploadBytes int64
}

// Server holds the handler dependencies.
type Server struct {
	categories *catalog.CategoryService
	products   *catalog.ProductService
	orders     *catalog.OrderService
	dashboard  *dashboard.Service

	pagination     pagination.Defaults
	maxUploadBytes int64
	logger         *zap.Logger
}

func NewServer(svc Services, opts Options, log *zap.Logger) *Server {
	if opts.MaxUploadBytes <= 0 {
		opts.MaxUploadBytes = 10 << 20
	}
	if opts.Pagination.Page < 1 {
		opts.Pagination.Page = 1
	}
	if opts.Pagination.Limit < 1 {
		opts.Pagination.Limit = 10
	}
	return &Server{
		categories:     svc.Categories,
		products:       svc.Products,
		orders:         svc.Orders,
		dashboard:      svc.Dashboard,
		pagination:     opts.Pagination,
		maxUploadBytes: opts.MaxUploadBytes,
		logger:         log.Named("http"),
	}
}
