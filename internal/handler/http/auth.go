package http

import (
	"fmt"
	"net/http"

	"github.com/MKhiriev/dev-profiles/internal/logger"
	"github.com/MKhiriev/dev-profiles/internal/service"
	"github.com/MKhiriev/dev-profiles/internal/utils"
	"github.com/MKhiriev/dev-profiles/models"
	"github.com/go-chi/chi/v5"
)

func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, r, err, "invalid register request body")
		return
	}

	result, err := h.services.AuthService.Register(r.Context(), req)
	if err != nil {
		writeError(w, r, err, "error occurred during account registration")
		return
	}

	logger.FromRequest(r).Info().Str("account_id", result.User.ID).Msg("account registered")
	utils.WriteJSON(w, result, http.StatusCreated)
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, r, err, "invalid login request body")
		return
	}

	result, err := h.services.AuthService.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, r, err, "login failed")
		return
	}

	logger.FromRequest(r).Debug().Str("account_id", result.User.ID).Msg("account logged in")
	utils.WriteJSON(w, result, http.StatusOK)
}

func (h *Handler) refreshToken(w http.ResponseWriter, r *http.Request) {
	var req models.RefreshTokenRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, r, err, "invalid refresh request body")
		return
	}
	if req.RefreshToken == "" {
		writeError(w, r, service.ErrInvalidDataProvided, "refresh token is missing")
		return
	}

	pair, err := h.services.AuthService.RefreshToken(r.Context(), req.RefreshToken)
	if err != nil {
		writeError(w, r, err, "token refresh failed")
		return
	}

	utils.WriteJSON(w, pair, http.StatusOK)
}

func (h *Handler) logout(w http.ResponseWriter, r *http.Request) {
	accountID, ok := utils.GetAccountIDFromContext(r.Context())
	if !ok {
		writeError(w, r, service.ErrMissingIdentity, "no account in request context")
		return
	}

	if err := h.services.AuthService.Logout(r.Context(), accountID); err != nil {
		writeError(w, r, err, "logout failed")
		return
	}

	utils.WriteJSON(w, models.MessageResponse{Message: "Logged out successfully"}, http.StatusOK)
}

func (h *Handler) unlockAccount(w http.ResponseWriter, r *http.Request) {
	accountID := chi.URLParam(r, "id")

	if err := h.services.AuthService.Unlock(r.Context(), accountID); err != nil {
		writeError(w, r, err, "account unlock failed")
		return
	}

	logger.FromRequest(r).Info().Str("account_id", accountID).Msg("account unlocked by admin")
	utils.WriteJSON(w, models.MessageResponse{Message: fmt.Sprintf("Account %s unlocked", accountID)}, http.StatusOK)
}

// decodeBody decodes a JSON request body into dst. Any decoding failure is
// reported as [ErrInvalidJSON].
func decodeBody(r *http.Request, dst any) error {
	if err := utils.DecodeJSON(r, dst); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidJSON, err)
	}
	return nil
}
