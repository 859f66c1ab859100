// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"net/http"

	"github.com/MKhiriev/dev-profiles/internal/logger"
	"github.com/MKhiriev/dev-profiles/internal/service"
	"github.com/MKhiriev/dev-profiles/internal/utils"
	"github.com/MKhiriev/dev-profiles/models"
	"github.com/go-chi/chi/v5"
)

// syncGitHub refreshes the caller's GitHub snapshot and returns the updated
// profile.
func (h *Handler) syncGitHub(w http.ResponseWriter, r *http.Request) {
	accountID, ok := utils.GetAccountIDFromContext(r.Context())
	if !ok {
		writeError(w, r, service.ErrMissingIdentity, "no account in request context")
		return
	}

	profile, err := h.services.GitHubService.SyncGitHubProfile(r.Context(), accountID)
	if err != nil {
		writeError(w, r, err, "github sync failed")
		return
	}

	logger.FromRequest(r).Info().
		Str("account_id", accountID).
		Str("github_username", profile.GitHubUsername).
		Msg("github profile synced")
	utils.WriteJSON(w, profile, http.StatusOK)
}

func (h *Handler) getGitHubProfile(w http.ResponseWriter, r *http.Request) {
	profile, err := h.services.GitHubService.GetGitHubProfile(r.Context(), chi.URLParam(r, "username"))
	if err != nil {
		writeError(w, r, err, "error getting github profile")
		return
	}

	utils.WriteJSON(w, profile, http.StatusOK)
}

// updateGitHubProfile stores client-supplied GitHub stats for the caller.
func (h *Handler) updateGitHubProfile(w http.ResponseWriter, r *http.Request) {
	accountID, ok := utils.GetAccountIDFromContext(r.Context())
	if !ok {
		writeError(w, r, service.ErrMissingIdentity, "no account in request context")
		return
	}

	var update models.GitHubProfileUpdate
	if err := decodeBody(r, &update); err != nil {
		writeError(w, r, err, "invalid github profile body")
		return
	}

	profile, err := h.services.GitHubService.UpdateGitHubProfile(r.Context(), accountID, update)
	if err != nil {
		writeError(w, r, err, "error updating github profile")
		return
	}

	utils.WriteJSON(w, profile, http.StatusOK)
}

func (h *Handler) extractGitHubUsername(w http.ResponseWriter, r *http.Request) {
	var req models.ExtractUsernameRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, r, err, "invalid extract username body")
		return
	}

	username, err := h.services.GitHubService.ExtractGitHubUsername(r.Context(), req.URL)
	if err != nil {
		writeError(w, r, err, "error extracting github username")
		return
	}

	utils.WriteJSON(w, models.UsernameResponse{Username: username}, http.StatusOK)
}
