package adapter

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-resty/resty/v2"

	"github.com/MKhiriev/go-vault-envelope/internal/store"
	"github.com/MKhiriev/go-vault-envelope/models"
)

// mapHTTPError translates a non-2xx response into the store sentinels so
// that callers can treat the remote backend like any local one.
func mapHTTPError(resp *resty.Response) error {
	if resp.StatusCode() >= http.StatusOK && resp.StatusCode() < http.StatusMultipleChoices {
		return nil
	}

	body := errorMessage(resp)

	switch resp.StatusCode() {
	case http.StatusBadRequest:
		return fmt.Errorf("%w: %s", store.ErrInvalidBlobID, body)
	case http.StatusUnauthorized:
		return fmt.Errorf("%w: %s", ErrUnauthorized, body)
	case http.StatusForbidden:
		return fmt.Errorf("%w: %s", store.ErrPermissionDenied, body)
	case http.StatusNotFound:
		return fmt.Errorf("%w: %s", store.ErrNotFound, body)
	default:
		return fmt.Errorf("%w: http %d: %s", store.ErrIO, resp.StatusCode(), body)
	}
}

func errorMessage(resp *resty.Response) string {
	raw := resp.Body()
	var errResp models.ErrorResponse
	if len(raw) > 0 && json.Unmarshal(raw, &errResp) == nil && errResp.Error != "" {
		return errResp.Error
	}

	body := strings.TrimSpace(string(raw))
	if body == "" {
		body = http.StatusText(resp.StatusCode())
	}
	return body
}
