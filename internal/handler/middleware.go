package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/khata-app/khata-bff/internal/infra/observability"
	"github.com/khata-app/khata-bff/internal/service"
)

// SessionGuard rejects requests while the gate is logged out. The 401
// body carries a redirect hint so the SPA can route to its
// unauthorized view.
func SessionGuard(gate *service.Gate, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !gate.IsAuthenticated() {
				logger.Warn("blocked unauthenticated request",
					zap.String("path", r.URL.Path),
					zap.String("remote_addr", r.RemoteAddr),
				)
				writeJSON(w, http.StatusUnauthorized, errorResponse{
					Error:    "login required",
					Redirect: "/unauthorized",
				})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// CountRequests feeds the request counter behind /v1/metrics/summary.
// 5xx responses count as errors; everything else, including rejected
// input, counts as handled.
func CountRequests(metrics *observability.Metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)

			if ww.Status() >= 500 {
				metrics.IncrRequest("error")
			} else {
				metrics.IncrRequest("success")
			}
		})
	}
}
