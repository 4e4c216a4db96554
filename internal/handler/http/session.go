package http

import (
	"encoding/json"
	"net/http"

	"github.com/MKhiriev/go-vault-envelope/internal/logger"
	"github.com/MKhiriev/go-vault-envelope/internal/utils"
	"github.com/MKhiriev/go-vault-envelope/models"
)

// openSession exchanges an API key for a bearer token. The token is sent
// both in the JSON body and in the Authorization header.
func (h *Handler) openSession(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)

	var req models.SessionRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 4096)).Decode(&req); err != nil {
		log.Err(err).Str("func", "*Handler.openSession").Msg("Invalid JSON was passed")
		h.writeError(w, r, ErrInvalidJSON)
		return
	}

	token, err := h.services.SessionService.Open(r.Context(), req.APIKey)
	if err != nil {
		log.Err(err).Str("func", "*Handler.openSession").Msg("session was not opened")
		h.writeError(w, r, err)
		return
	}

	resp := models.SessionResponse{
		Token:     token.SignedString,
		Namespace: token.Subject,
	}
	if token.ExpiresAt != nil {
		resp.ExpiresAt = token.ExpiresAt.Time
	}

	w.Header().Set("Authorization", "Bearer "+token.SignedString)
	_, _ = utils.WriteJSON(w, resp, http.StatusOK)
}
