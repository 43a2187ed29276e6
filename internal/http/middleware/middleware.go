package middleware

import (
	"encoding/json"
	"net"
	"net/http"
	"time"

	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rogerio-castellano/catalog-admin/internal/http/ban"
	rl "github.com/rogerio-castellano/catalog-admin/internal/http/rate_limiter"
	"go.uber.org/zap"
)

// RequestLogger logs one line per request with its status and duration.
func RequestLogger(log *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			fields := []zap.Field{
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", status),
				zap.Int("bytes", ww.BytesWritten()),
				zap.Duration("duration", time.Since(start)),
				zap.String("remote_addr", r.RemoteAddr),
				zap.String("request_id", chimw.GetReqID(r.Context())),
			}
			if status >= http.StatusInternalServerError {
				log.Error("request", fields...)
				return
			}
			log.Info("request", fields...)
		})
	}
}

// RateLimit rejects clients over their token bucket with 429. With a guard, every rejection
// counts as a strike and banned clients get 403 until the ban expires.
func RateLimit(limiter *rl.Limiter, guard *ban.Guard, log *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			client := clientIP(r)

			if guard != nil {
				banned, err := guard.IsBanned(r.Context(), client)
				if err != nil {
					log.Warn("ban lookup failed", zap.String("client", client), zap.Error(err))
				}
				if banned {
					reject(w, http.StatusForbidden, "too many requests, temporarily banned")
					return
				}
			}

			if !limiter.Allow(client) {
				if guard != nil {
					if _, err := guard.Strike(r.Context(), client, r.URL.Path); err != nil {
						log.Warn("strike failed", zap.String("client", client), zap.Error(err))
					}
				}
				reject(w, http.StatusTooManyRequests, "too many requests")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func reject(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
