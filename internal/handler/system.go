package handler

import (
	"context"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/khata-app/khata-bff/internal/infra/observability"
	"github.com/khata-app/khata-bff/internal/service"
)

// healthzHandler handles GET /healthz: process liveness only.
func healthzHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{
			"status":  "ok",
			"service": "khata-bff",
		})
	}
}

// readyzHandler handles GET /readyz. Readiness means the ledger API is
// reachable; the shop list doubles as the probe because it is tiny and
// cached.
func readyzHandler(svc *service.Ledger, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if _, err := svc.GetShops(ctx); err != nil {
			logger.Warn("readiness probe failed", zap.Error(err))
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{
				"status": "upstream unreachable",
			})
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
	}
}

// metricsSummaryHandler handles GET /v1/metrics/summary, a JSON
// digest of the Prometheus counters for the admin screen.
func metricsSummaryHandler(metrics *observability.Metrics) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, metrics.Snapshot())
	}
}
