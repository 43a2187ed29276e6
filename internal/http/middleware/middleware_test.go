package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rogerio-castellano/catalog-admin/internal/http/ban"
	rl "github.com/rogerio-castellano/catalog-admin/internal/http/rate_limiter"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

var noContent = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusNoContent)
})

func request(h http.Handler, remote string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/products", nil)
	req.RemoteAddr = remote
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestRateLimit_Rejects(t *testing.T) {
	limiter := rl.New(0.0001, 2, time.Minute, zap.NewNop())
	h := RateLimit(limiter, nil, zap.NewNop())(noContent)

	assert.Equal(t, http.StatusNoContent, request(h, "10.0.0.1:1234").Code)
	assert.Equal(t, http.StatusNoContent, request(h, "10.0.0.1:5678").Code)
	w := request(h, "10.0.0.1:1234")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.JSONEq(t, `{"error":"too many requests"}`, w.Body.String())

	assert.Equal(t, http.StatusNoContent, request(h, "10.0.0.2:1234").Code)
}

func TestRateLimit_BansRepeatOffenders(t *testing.T) {
	limiter := rl.New(0.0001, 1, time.Minute, zap.NewNop())
	guard := ban.NewGuard(ban.NewMemoryStore(), ban.Config{Strikes: 2, Window: time.Minute, Duration: time.Hour}, zap.NewNop())
	h := RateLimit(limiter, guard, zap.NewNop())(noContent)

	assert.Equal(t, http.StatusNoContent, request(h, "10.0.0.1:1").Code)
	assert.Equal(t, http.StatusTooManyRequests, request(h, "10.0.0.1:1").Code)
	assert.Equal(t, http.StatusTooManyRequests, request(h, "10.0.0.1:1").Code)
	assert.Equal(t, http.StatusForbidden, request(h, "10.0.0.1:1").Code)

	limiter.Reset()
	assert.Equal(t, http.StatusForbidden, request(h, "10.0.0.1:1").Code, "ban outlives the bucket")
}

func TestRequestLogger(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	h := RequestLogger(zap.New(core))(noContent)

	request(h, "10.0.0.1:1")

	entries := logs.FilterMessage("request").All()
	if assert.Len(t, entries, 1) {
		fields := entries[0].ContextMap()
		assert.Equal(t, "GET", fields["method"])
		assert.Equal(t, "/products", fields["path"])
		assert.EqualValues(t, http.StatusNoContent, fields["status"])
	}
}
