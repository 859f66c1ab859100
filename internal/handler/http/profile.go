package http

import (
	"net/http"

	"github.com/MKhiriev/dev-profiles/internal/service"
	"github.com/MKhiriev/dev-profiles/internal/utils"
	"github.com/MKhiriev/dev-profiles/models"
	"github.com/go-chi/chi/v5"
)

func (h *Handler) getMyProfile(w http.ResponseWriter, r *http.Request) {
	accountID, ok := utils.GetAccountIDFromContext(r.Context())
	if !ok {
		writeError(w, r, service.ErrMissingIdentity, "no account in request context")
		return
	}

	profile, err := h.services.ProfileService.GetProfile(r.Context(), accountID)
	if err != nil {
		writeError(w, r, err, "error getting own profile")
		return
	}

	utils.WriteJSON(w, profile, http.StatusOK)
}

func (h *Handler) updateMyProfile(w http.ResponseWriter, r *http.Request) {
	accountID, ok := utils.GetAccountIDFromContext(r.Context())
	if !ok {
		writeError(w, r, service.ErrMissingIdentity, "no account in request context")
		return
	}

	var update models.ProfileUpdate
	if err := decodeBody(r, &update); err != nil {
		writeError(w, r, err, "invalid profile update body")
		return
	}

	profile, err := h.services.ProfileService.UpdateProfile(r.Context(), accountID, update)
	if err != nil {
		writeError(w, r, err, "error updating profile")
		return
	}

	utils.WriteJSON(w, profile, http.StatusOK)
}

func (h *Handler) getProfileByUsername(w http.ResponseWriter, r *http.Request) {
	profile, err := h.services.ProfileService.GetProfileByUsername(r.Context(), chi.URLParam(r, "username"))
	if err != nil {
		writeError(w, r, err, "error getting public profile")
		return
	}

	utils.WriteJSON(w, profile, http.StatusOK)
}
