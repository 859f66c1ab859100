package http

import (
	"net/http"

	"github.com/MKhiriev/dev-profiles/internal/utils"
	"github.com/MKhiriev/dev-profiles/models"
)

func (h *Handler) getServerVersion(w http.ResponseWriter, r *http.Request) {
	serverVersion := h.services.AppInfoService.GetAppVersion(r.Context())

	w.Header().Set("Content-Type", "text/plain")
	w.Write([]byte(serverVersion))
}

func (h *Handler) getBuildInfo(w http.ResponseWriter, r *http.Request) {
	utils.WriteJSON(w, h.services.AppInfoService.GetBuildInfo(r.Context()), http.StatusOK)
}

func (h *Handler) health(w http.ResponseWriter, _ *http.Request) {
	utils.WriteJSON(w, models.StatusResponse{Status: "ok"}, http.StatusOK)
}
