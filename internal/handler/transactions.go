package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/khata-app/khata-bff/internal/domain"
	"github.com/khata-app/khata-bff/internal/service"
)

// listTransactionsHandler handles
// GET /v1/shops/{shopID}/customers/{customerID}/transactions.
func listTransactionsHandler(svc *service.Ledger, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		txs, err := svc.GetTransactions(r.Context(),
			chi.URLParam(r, "shopID"), chi.URLParam(r, "customerID"))
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, txs)
	}
}

// createTransactionHandler handles
// POST /v1/shops/{shopID}/customers/{customerID}/transactions.
// The response carries the recorded entry only; the caller refetches
// the customer to observe the updated balance.
func createTransactionHandler(svc *service.Ledger, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in domain.TransactionInput
		if err := decodeBody(r, &in); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		tx, err := svc.CreateTransaction(r.Context(),
			chi.URLParam(r, "shopID"), chi.URLParam(r, "customerID"), in)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusCreated, tx)
	}
}
