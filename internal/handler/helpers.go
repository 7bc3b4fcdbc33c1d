// Package handler wires the HTTP surface: routing, middleware and the
// translation between domain errors and status codes.
package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/khata-app/khata-bff/internal/domain"
)

type errorResponse struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
	// Redirect tells the SPA where to send the user, e.g. back to the
	// login page after a 401.
	Redirect string `json:"redirect,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

// handleServiceError maps domain errors to HTTP responses. Remote
// failures deliberately hide the underlying error: the client gets a
// retryable notice, the log gets the detail.
func handleServiceError(w http.ResponseWriter, err error, logger *zap.Logger) {
	var required *domain.ErrRequiredField
	var format *domain.ErrFormat
	var notFound *domain.ErrNotFound
	var unauthorized *domain.ErrUnauthorized
	var superseded *domain.ErrSuperseded
	var remote *domain.ErrRemote

	switch {
	case errors.As(err, &required):
		logger.Debug("validation error", zap.String("error", err.Error()))
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error(), Field: required.Field})
	case errors.As(err, &format):
		logger.Debug("validation error", zap.String("error", err.Error()))
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error(), Field: format.Field})
	case errors.As(err, &notFound):
		logger.Debug("not found", zap.String("error", err.Error()))
		writeError(w, http.StatusNotFound, err.Error())
	case errors.As(err, &unauthorized):
		logger.Warn("unauthorized", zap.String("error", err.Error()))
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: err.Error(), Redirect: "/login"})
	case errors.As(err, &superseded):
		logger.Debug("search superseded", zap.String("error", err.Error()))
		writeError(w, http.StatusConflict, err.Error())
	case errors.As(err, &remote):
		logger.Error("upstream failure", zap.Error(err))
		writeError(w, http.StatusBadGateway, "ledger service unavailable, please retry")
	default:
		logger.Error("unhandled error", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}

// decodeBody parses a JSON request body into dst.
func decodeBody(r *http.Request, dst any) error {
	return json.NewDecoder(r.Body).Decode(dst)
}
