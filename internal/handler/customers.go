package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/khata-app/khata-bff/internal/domain"
	"github.com/khata-app/khata-bff/internal/service"
)

// listCustomersHandler handles GET /v1/shops/{shopID}/customers.
func listCustomersHandler(svc *service.Ledger, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		customers, err := svc.GetCustomers(r.Context(), chi.URLParam(r, "shopID"))
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, customers)
	}
}

// searchCustomersHandler handles GET /v1/shops/{shopID}/customers/search.
// A request superseded by a newer query answers 409; the SPA drops it.
func searchCustomersHandler(svc *service.Search, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		shopID := chi.URLParam(r, "shopID")
		query := r.URL.Query().Get("query")

		customers, err := svc.Search(r.Context(), shopID, query)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, customers)
	}
}

// getCustomerHandler handles GET /v1/shops/{shopID}/customers/{customerID}.
// Returns the customer and its classified transaction history in one
// payload.
func getCustomerHandler(svc *service.Ledger, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		detail, err := svc.GetCustomerDetail(r.Context(),
			chi.URLParam(r, "shopID"), chi.URLParam(r, "customerID"))
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, detail)
	}
}

// createCustomerHandler handles POST /v1/shops/{shopID}/customers.
func createCustomerHandler(svc *service.Ledger, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in domain.CustomerInput
		if err := decodeBody(r, &in); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		customer, err := svc.CreateCustomer(r.Context(), chi.URLParam(r, "shopID"), in)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusCreated, customer)
	}
}
