package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/MKhiriev/go-vault-envelope/internal/config"
	"github.com/MKhiriev/go-vault-envelope/internal/logger"
	"github.com/MKhiriev/go-vault-envelope/internal/store"
	"github.com/MKhiriev/go-vault-envelope/internal/utils"
	"github.com/MKhiriev/go-vault-envelope/models"
)

// sessionService is the concrete implementation of SessionService.
// It trades a configured API key for a JWT whose subject is the namespace
// the key unlocks.
type sessionService struct {
	// apiKeys maps an API key to its namespace.
	apiKeys map[string]string

	// tokenSignKey is the HMAC secret used to sign and verify JWT tokens.
	tokenSignKey string

	// tokenIssuer is the "iss" claim embedded in every issued JWT.
	// Tokens whose issuer does not match this value are rejected during parsing.
	tokenIssuer string

	// tokenDuration controls how long a newly issued JWT remains valid.
	tokenDuration time.Duration

	logger *logger.Logger
}

// NewSessionService constructs a SessionService from the server settings.
//
// The returned service is safe for concurrent use; all state is read-only after
// construction.
func NewSessionService(cfg config.Server, logger *logger.Logger) SessionService {
	keys := make(map[string]string, len(cfg.APIKeys))
	for k, ns := range cfg.APIKeys {
		keys[k] = ns
	}

	return &sessionService{
		apiKeys:       keys,
		tokenSignKey:  cfg.TokenSignKey,
		tokenIssuer:   cfg.TokenIssuer,
		tokenDuration: cfg.TokenDuration.Std(),
		logger:        logger,
	}
}

// Open looks apiKey up and issues a token for its namespace.
//
// Every configured key is compared in constant time, so the time taken does
// not reveal how much of a guess matched.
//
// Returns:
//   - ErrInvalidAPIKey if the key is unknown or maps to an invalid namespace.
//   - ErrTokenCreationFailed if signing fails.
func (s *sessionService) Open(ctx context.Context, apiKey string) (models.Token, error) {
	log := s.logger.With().Str("func", "*sessionService.Open").Logger()

	namespace, found := "", false
	for key, ns := range s.apiKeys {
		if subtle.ConstantTimeCompare([]byte(key), []byte(apiKey)) == 1 {
			namespace, found = ns, true
		}
	}
	if !found || apiKey == "" {
		log.Warn().Msg("unknown api key")
		return models.Token{}, ErrInvalidAPIKey
	}
	if err := store.ValidateNamespace(namespace); err != nil {
		log.Error().Err(err).Msg("api key is configured with an invalid namespace")
		return models.Token{}, fmt.Errorf("%w: %w", ErrInvalidAPIKey, err)
	}

	token, err := utils.GenerateJWTToken(s.tokenIssuer, namespace, s.tokenDuration, s.tokenSignKey)
	if err != nil {
		return models.Token{}, fmt.Errorf("%w: %w", ErrTokenCreationFailed, err)
	}

	log.Info().Str("namespace", namespace).Msg("session opened")
	return token, nil
}

// ParseToken validates and parses a raw JWT string.
//
// An expired token is reported as ErrTokenIsExpired so clients know to open
// a new session; every other failure is normalised to
// ErrTokenIsExpiredOrInvalid.
func (s *sessionService) ParseToken(ctx context.Context, tokenString string) (models.Token, error) {
	token, err := utils.ValidateAndParseJWTToken(tokenString, s.tokenSignKey, s.tokenIssuer)
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return models.Token{}, ErrTokenIsExpired
	case err != nil:
		return models.Token{}, ErrTokenIsExpiredOrInvalid
	}

	if err = store.ValidateNamespace(token.Subject); err != nil {
		return models.Token{}, ErrTokenIsExpiredOrInvalid
	}
	return token, nil
}
