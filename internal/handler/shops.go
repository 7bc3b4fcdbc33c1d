package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/khata-app/khata-bff/internal/service"
)

// listShopsHandler handles GET /v1/shops.
func listShopsHandler(svc *service.Ledger, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		shops, err := svc.GetShops(r.Context())
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, shops)
	}
}

// getShopHandler handles GET /v1/shops/{shopID}.
func getShopHandler(svc *service.Ledger, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		shop, err := svc.GetShop(r.Context(), chi.URLParam(r, "shopID"))
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, shop)
	}
}

// getShopStatsHandler handles GET /v1/shops/{shopID}/stats.
func getShopStatsHandler(svc *service.Ledger, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		stats, err := svc.GetShopStats(r.Context(), chi.URLParam(r, "shopID"))
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, stats)
	}
}
