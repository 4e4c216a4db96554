package http

import (
	"errors"
	"net/http"

	"github.com/MKhiriev/go-vault-envelope/internal/service"
	"github.com/MKhiriev/go-vault-envelope/internal/store"
)

// errorResponse is the status and stable kind label sent for an error.
type errorResponse struct {
	status int
	kind   string
}

// errorStatusMap is checked in order; the first matching entry wins.
var errorStatusMap = []struct {
	target error
	resp   errorResponse
}{
	{service.ErrInvalidAPIKey, errorResponse{http.StatusUnauthorized, "invalid_api_key"}},
	{service.ErrTokenIsExpired, errorResponse{http.StatusUnauthorized, "token_expired"}},
	{service.ErrTokenIsExpiredOrInvalid, errorResponse{http.StatusUnauthorized, "invalid_token"}},
	{service.ErrInvalidEnvelope, errorResponse{http.StatusUnprocessableEntity, "invalid_envelope"}},
	{ErrBlobTooLarge, errorResponse{http.StatusRequestEntityTooLarge, "blob_too_large"}},
	{ErrChecksumMismatch, errorResponse{http.StatusUnprocessableEntity, "checksum_mismatch"}},
	{ErrInvalidJSON, errorResponse{http.StatusBadRequest, "invalid_json"}},

	{store.ErrInvalidBlobID, errorResponse{http.StatusBadRequest, "invalid_id"}},
	{store.ErrNotFound, errorResponse{http.StatusNotFound, "not_found"}},
	{store.ErrPermissionDenied, errorResponse{http.StatusForbidden, "permission_denied"}},
	{store.ErrIO, errorResponse{http.StatusBadGateway, "io"}},
}

func responseFromError(err error) errorResponse {
	for _, entry := range errorStatusMap {
		if errors.Is(err, entry.target) {
			return entry.resp
		}
	}
	return errorResponse{http.StatusInternalServerError, "internal"}
}

func statusFromError(err error) int {
	return responseFromError(err).status
}
