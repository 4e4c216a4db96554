package models

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Token wraps a session JWT issued by the blob server.
//
// It embeds [jwt.Token] for low-level token operations (signing, parsing)
// and [jwt.RegisteredClaims] for standard claim access (subject, expiry, etc.).
//
// Subject is the namespace the token unlocks. It is a cached copy of the
// "sub" claim populated after a successful validation.
type Token struct {
	*jwt.Token `json:"-"`

	jwt.RegisteredClaims

	// SignedString is the compact JWS representation of the token.
	SignedString string `json:"-"`

	Subject string `json:"-"`
}

// String returns the compact JWS serialization of the token.
// It implements the [fmt.Stringer] interface.
func (t *Token) String() string {
	return t.SignedString
}

// SessionRequest is the body of POST /api/session.
type SessionRequest struct {
	APIKey string `json:"apiKey"`
}

// SessionResponse is returned by POST /api/session. The token is also sent
// in the Authorization header.
type SessionResponse struct {
	Token     string    `json:"token"`
	Namespace string    `json:"namespace"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// ErrorResponse is the JSON body of every non-2xx blob server response.
// Kind is a stable machine readable label.
type ErrorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind"`
}
