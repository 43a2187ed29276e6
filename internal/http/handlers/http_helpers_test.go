package handlers

import (
	"math"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestRespond_UnencodableDataIsServerError(t *testing.T) {
	core, logs := observer.New(zapcore.ErrorLevel)
	s := NewServer(Services{}, Options{}, zap.New(core))

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/products", nil)
	s.respond(w, r, http.StatusOK, map[string]float64{"price": math.Inf(1)})

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error":"internal server error"}`, w.Body.String())
	assert.Equal(t, 1, logs.FilterMessage("failed to encode response").Len())
}

func TestRespond_WritesJSON(t *testing.T) {
	s := NewServer(Services{}, Options{}, zap.NewNop())

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/health", nil)
	s.respond(w, r, http.StatusCreated, HealthResponse{Status: "ok"})

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestParsePagination(t *testing.T) {
	s := NewServer(Services{}, Options{}, zap.NewNop())

	tests := []struct {
		query     string
		wantErr   bool
		wantPage  int
		wantLimit int
		wantSkip  int
	}{
		{query: "", wantPage: 1, wantLimit: 10},
		{query: "page=3&limit=5", wantPage: 3, wantLimit: 5, wantSkip: 10},
		{query: "limit=1000000", wantPage: 1, wantLimit: 1000000},
		{query: "page=9223372036854775807&limit=2", wantErr: true},
		{query: "page=9223372036854775807", wantErr: true},
		{query: "page=3&limit=9223372036854775807", wantErr: true},
		{query: "page=2&limit=9223372036854775807", wantPage: 2, wantLimit: math.MaxInt, wantSkip: math.MaxInt},
		{query: "page=1&limit=9223372036854775807", wantPage: 1, wantLimit: math.MaxInt},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/categories?"+tt.query, nil)
			p, err := s.parsePagination(r)
			if tt.wantErr {
				assert.Equal(t, invalidField("page", "Out of range for the requested limit"), err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.wantPage, p.Page)
			assert.Equal(t, tt.wantLimit, p.Limit)
			assert.Equal(t, tt.wantSkip, p.Skip)
		})
	}
}
