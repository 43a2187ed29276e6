package router

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rogerio-castellano/catalog-admin/internal/catalog"
	"github.com/rogerio-castellano/catalog-admin/internal/dashboard"
	"github.com/rogerio-castellano/catalog-admin/internal/http/ban"
	"github.com/rogerio-castellano/catalog-admin/internal/http/handlers"
	rl "github.com/rogerio-castellano/catalog-admin/internal/http/rate_limiter"
	"github.com/rogerio-castellano/catalog-admin/internal/repo"
	"github.com/rogerio-castellano/catalog-admin/internal/storage"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func newServer() *handlers.Server {
	log := zap.NewNop()
	store := repo.NewInMemoryStore()
	return handlers.NewServer(handlers.Services{
		Categories: catalog.NewCategoryService(store.Categories, store.Products, log),
		Products:   catalog.NewProductService(store.Categories, store.Products, storage.NewStubUploader("http://cdn.test"), log),
		Orders:     catalog.NewOrderService(store.Orders, store.Products),
		Dashboard:  dashboard.NewService(store.Metrics, store.Products, dashboard.Options{}, log),
	}, handlers.Options{}, log)
}

func get(h http.Handler, path string) *httptest.ResponseRecorder {
	return httpDo(h, http.MethodGet, path)
}

func TestSwaggerRoute(t *testing.T) {
	enabled := NewRouter(newServer(), Options{Swagger: true}, zap.NewNop())
	w := get(enabled, "/swagger/doc.json")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"/dashboard/dailysales"`)

	disabled := NewRouter(newServer(), Options{}, zap.NewNop())
	assert.Equal(t, http.StatusNotFound, get(disabled, "/swagger/doc.json").Code)
}

func TestRateLimitAppliesToAPIRoutes(t *testing.T) {
	limiter := rl.New(0.0001, 1, time.Minute, zap.NewNop())
	guard := ban.NewGuard(ban.NewMemoryStore(), ban.Config{Strikes: 10, Window: time.Minute, Duration: time.Minute}, zap.NewNop())
	h := NewRouter(newServer(), Options{Limiter: limiter, Guard: guard}, zap.NewNop())

	assert.Equal(t, http.StatusOK, get(h, "/categories").Code)
	assert.Equal(t, http.StatusTooManyRequests, get(h, "/products").Code)

	for i := 0; i < 3; i++ {
		assert.Equal(t, http.StatusOK, get(h, "/health").Code, "health is not rate limited")
	}
}

func TestUnknownRoute(t *testing.T) {
	h := NewRouter(newServer(), Options{}, zap.NewNop())
	assert.Equal(t, http.StatusNotFound, get(h, "/inventory").Code)
	assert.Equal(t, http.StatusMethodNotAllowed, httpDo(h, http.MethodPut, "/categories").Code)
}

func httpDo(h http.Handler, method, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}
