package service

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-vault-envelope/internal/config"
	"github.com/MKhiriev/go-vault-envelope/internal/logger"
)

func newTestSessionSvc(keys map[string]string) SessionService {
	return NewSessionService(config.Server{
		TokenSignKey:  "sign-key",
		TokenIssuer:   "test",
		TokenDuration: config.Duration(time.Hour),
		APIKeys:       keys,
	}, logger.Nop())
}

// ─────────────────────────────────────────────
// Open
// ─────────────────────────────────────────────

func TestSessionService_Open_Success(t *testing.T) {
	svc := newTestSessionSvc(map[string]string{"key-a": "alice", "key-b": "bob"})

	token, err := svc.Open(context.Background(), "key-b")

	require.NoError(t, err)
	assert.Equal(t, "bob", token.Subject)
	assert.NotEmpty(t, token.SignedString)

	parsed, err := svc.ParseToken(context.Background(), token.SignedString)
	require.NoError(t, err)
	assert.Equal(t, "bob", parsed.Subject)
}

func TestSessionService_Open_UnknownKey(t *testing.T) {
	svc := newTestSessionSvc(map[string]string{"key-a": "alice"})

	for _, key := range []string{"", "key", "key-a ", "KEY-A"} {
		_, err := svc.Open(context.Background(), key)
		assert.ErrorIs(t, err, ErrInvalidAPIKey, "key %q", key)
	}
}

func TestSessionService_Open_InvalidNamespace(t *testing.T) {
	svc := newTestSessionSvc(map[string]string{"key-a": "al.ice"})

	_, err := svc.Open(context.Background(), "key-a")

	assert.ErrorIs(t, err, ErrInvalidAPIKey)
}

func TestSessionService_Open_TokenCreationFails(t *testing.T) {
	svc := NewSessionService(config.Server{
		TokenIssuer: "test",
		APIKeys:     map[string]string{"k": "alice"},
	}, logger.Nop())

	_, err := svc.Open(context.Background(), "k")

	assert.ErrorIs(t, err, ErrTokenCreationFailed)
}

func TestNewSessionService_CopiesKeys(t *testing.T) {
	keys := map[string]string{"k": "alice"}
	svc := newTestSessionSvc(keys)
	delete(keys, "k")

	_, err := svc.Open(context.Background(), "k")
	assert.NoError(t, err)
}

// ─────────────────────────────────────────────
// ParseToken
// ─────────────────────────────────────────────

func TestSessionService_ParseToken_Expired(t *testing.T) {
	svc := newTestSessionSvc(nil)

	claims := jwt.RegisteredClaims{
		Issuer:    "test",
		Subject:   "alice",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("sign-key"))
	require.NoError(t, err)

	_, err = svc.ParseToken(context.Background(), signed)
	assert.ErrorIs(t, err, ErrTokenIsExpired)
}

func TestSessionService_ParseToken_Invalid(t *testing.T) {
	svc := newTestSessionSvc(nil)

	sign := func(key, issuer, subject string) string {
		claims := jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   subject,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Minute)),
		}
		s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(key))
		require.NoError(t, err)
		return s
	}

	tests := map[string]string{
		"garbage":           "not-a-token",
		"wrong key":         sign("other", "test", "alice"),
		"wrong issuer":      sign("sign-key", "other", "alice"),
		"invalid namespace": sign("sign-key", "test", "../alice"),
	}
	for name, token := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := svc.ParseToken(context.Background(), token)
			assert.ErrorIs(t, err, ErrTokenIsExpiredOrInvalid)
		})
	}
}
