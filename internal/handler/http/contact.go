package http

import (
	"net/http"

	"github.com/MKhiriev/dev-profiles/internal/utils"
	"github.com/MKhiriev/dev-profiles/models"
)

func (h *Handler) sendContact(w http.ResponseWriter, r *http.Request) {
	var msg models.ContactMessage
	if err := decodeBody(r, &msg); err != nil {
		writeError(w, r, err, "invalid contact body")
		return
	}

	if err := h.services.ContactService.SendContactMessage(r.Context(), msg); err != nil {
		writeError(w, r, err, "error sending contact message")
		return
	}

	utils.WriteJSON(w, models.ContactResponse{Success: true}, http.StatusOK)
}
