package http

import (
	"net/http"

	"github.com/MKhiriev/go-vault-envelope/internal/logger"
	"github.com/MKhiriev/go-vault-envelope/internal/utils"
)

// writeError maps err to a status and kind and writes the JSON error body.
// Internal errors are logged but their text is never sent.
func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	resp := responseFromError(err)

	message := err.Error()
	if resp.status >= http.StatusInternalServerError {
		logger.FromRequest(r).Err(err).Str("kind", resp.kind).Msg("request failed")
		message = http.StatusText(resp.status)
	}
	utils.WriteError(w, resp.status, resp.kind, message)
}
