package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MKhiriev/go-vault-envelope/internal/service"
	"github.com/MKhiriev/go-vault-envelope/models"
)

func TestOpenSession_Success(t *testing.T) {
	h, ts := newTestHandler(t)
	expires := time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)

	ts.session.EXPECT().Open(gomock.Any(), "key-1").Return(models.Token{
		SignedString:     "signed.jwt.token",
		Subject:          "alice",
		RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(expires)},
	}, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/session", strings.NewReader(`{"apiKey":"key-1"}`))
	rec := serve(h, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Bearer signed.jwt.token", rec.Header().Get("Authorization"))

	var resp models.SessionResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "signed.jwt.token", resp.Token)
	assert.Equal(t, "alice", resp.Namespace)
	assert.True(t, expires.Equal(resp.ExpiresAt))
}

func TestOpenSession_Errors(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		serviceErr error
		wantStatus int
		wantKind   string
	}{
		{"invalid JSON", `{"apiKey":`, nil, http.StatusBadRequest, "invalid_json"},
		{"unknown key", `{"apiKey":"nope"}`, service.ErrInvalidAPIKey, http.StatusUnauthorized, "invalid_api_key"},
		{"signing failure", `{"apiKey":"k"}`, service.ErrTokenCreationFailed, http.StatusInternalServerError, "internal"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, ts := newTestHandler(t)
			if tt.serviceErr != nil {
				ts.session.EXPECT().Open(gomock.Any(), gomock.Any()).Return(models.Token{}, tt.serviceErr)
			}

			rec := serve(h, httptest.NewRequest(http.MethodPost, "/api/session", strings.NewReader(tt.body)))

			assert.Equal(t, tt.wantStatus, rec.Code)
			var resp models.ErrorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.Equal(t, tt.wantKind, resp.Kind)
			assert.Empty(t, rec.Header().Get("Authorization"))
		})
	}
}
