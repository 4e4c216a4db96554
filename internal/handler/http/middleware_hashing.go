package http

import (
	"bytes"
	"errors"
	"io"
	"net/http"

	"github.com/MKhiriev/go-vault-envelope/internal/logger"
	"github.com/MKhiriev/go-vault-envelope/internal/utils"
)

// verifyChecksum reads the whole upload, enforcing the maximum blob size,
// and compares it with the X-Blob-Checksum header before the handler runs.
// A request without the header is let through unchecked.
func (h *Handler) verifyChecksum(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromRequest(r)

		log.Debug().Str("func", "*Handler.verifyChecksum").Msg("checking checksum begins")

		if h.maxBlobSize > 0 {
			r.Body = http.MaxBytesReader(w, r.Body, h.maxBlobSize)
		}

		// read bytes from body
		body, err := io.ReadAll(r.Body)
		if err != nil {
			var maxErr *http.MaxBytesError
			if errors.As(err, &maxErr) {
				log.Warn().Int64("limit", maxErr.Limit).Msg("blob is too large")
				h.writeError(w, r, ErrBlobTooLarge)
				return
			}
			log.Err(err).Str("func", "*Handler.verifyChecksum").Msg("failed to read request body")
			utils.WriteError(w, http.StatusBadRequest, "invalid_body", "failed to read request body")
			return
		}
		// restore request body
		r.Body = io.NopCloser(bytes.NewReader(body))

		checksum := r.Header.Get(utils.ChecksumHeader)
		if !utils.VerifyChecksum(body, checksum) {
			log.Error().Str("func", "*Handler.verifyChecksum").
				Str("checksum from request", checksum).
				Msg("checksums are not equal")
			h.writeError(w, r, ErrChecksumMismatch)
			return
		}

		next.ServeHTTP(w, r)
	})
}
