package handler

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/khata-app/khata-bff/internal/domain"
	"github.com/khata-app/khata-bff/internal/service"
)

// loginHandler handles POST /v1/session/login.
func loginHandler(gate *service.Gate, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req domain.LoginRequest
		if err := decodeBody(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if req.Email == "" {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "email is required", Field: "email"})
			return
		}
		if req.Password == "" {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "password is required", Field: "password"})
			return
		}

		if err := gate.Login(r.Context(), req.Email, req.Password); err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, gate.State())
	}
}

// logoutHandler handles POST /v1/session/logout. It always succeeds.
func logoutHandler(gate *service.Gate) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		gate.Logout()
		writeJSON(w, http.StatusOK, gate.State())
	}
}

// sessionHandler handles GET /v1/session.
func sessionHandler(gate *service.Gate) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, gate.State())
	}
}

// changePasswordHandler handles POST /v1/session/password.
func changePasswordHandler(gate *service.Gate, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req domain.ChangePasswordRequest
		if err := decodeBody(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		if err := gate.ChangePassword(r.Context(), req.CurrentPassword, req.NewPassword); err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "password changed"})
	}
}
