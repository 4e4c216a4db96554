// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package crypto

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/MKhiriev/go-vault-envelope/internal/logger"
	"github.com/MKhiriev/go-vault-envelope/models"
)

// VaultCrypto seals vault documents into envelopes and opens them again.
// It holds no per-call state and is safe for concurrent use.
type VaultCrypto struct {
	random        RandomSource
	deriver       KeyDeriver
	suite         CipherSuite
	defaultParams KdfParameters
	logger        *logger.Logger
}

// Option configures a [VaultCrypto].
type Option func(*VaultCrypto)

// WithRandom replaces the secure random source.
func WithRandom(r RandomSource) Option {
	return func(v *VaultCrypto) { v.random = r }
}

// WithKeyDeriver replaces the Argon2id key deriver.
func WithKeyDeriver(d KeyDeriver) Option {
	return func(v *VaultCrypto) { v.deriver = d }
}

// WithCipherSuite sets the suite used for new seals.
func WithCipherSuite(suite CipherSuite) Option {
	return func(v *VaultCrypto) { v.suite = suite }
}

// WithDefaultParams sets the KDF profile used for new seals.
func WithDefaultParams(p KdfParameters) Option {
	return func(v *VaultCrypto) { v.defaultParams = p }
}

// WithLogger attaches a logger. Only outcomes and error kinds are logged.
func WithLogger(l *logger.Logger) Option {
	return func(v *VaultCrypto) { v.logger = l }
}

// NewVaultCrypto builds a [VaultCrypto]. Without options it uses the system
// CSPRNG, Argon2id, AES-256-GCM and [DefaultKdfParameters].
func NewVaultCrypto(opts ...Option) (*VaultCrypto, error) {
	v := &VaultCrypto{
		random:        NewSystemRandom(),
		deriver:       NewArgon2idDeriver(),
		suite:         SuiteAES256GCM,
		defaultParams: DefaultKdfParameters(),
		logger:        logger.Nop(),
	}
	for _, opt := range opts {
		opt(v)
	}

	if _, err := NewAEAD(v.suite); err != nil {
		return nil, err
	}
	if err := v.defaultParams.Validate(); err != nil {
		return nil, err
	}
	return v, nil
}

// DefaultParams returns the profile used for new seals.
func (v *VaultCrypto) DefaultParams() KdfParameters {
	return v.defaultParams
}

type sealConfig struct {
	params KdfParameters
	suite  CipherSuite
}

// SealOption overrides the defaults for a single Seal call.
type SealOption func(*sealConfig)

// WithParams seals with p instead of the default profile.
func WithParams(p KdfParameters) SealOption {
	return func(c *sealConfig) { c.params = p }
}

// WithSuite seals with suite instead of the configured one.
func WithSuite(suite CipherSuite) SealOption {
	return func(c *sealConfig) { c.suite = suite }
}

// Seal serializes content as JSON and encrypts it under a key derived from
// password. Every call draws a fresh salt and nonce.
func (v *VaultCrypto) Seal(ctx context.Context, password string, content any, opts ...SealOption) (*Envelope, error) {
	log := v.logger.With().Str("func", "VaultCrypto.Seal").Logger()

	cfg := sealConfig{params: v.defaultParams, suite: v.suite}
	for _, opt := range opts {
		opt(&cfg)
	}

	if strings.TrimSpace(password) == "" {
		return nil, ErrInvalidPassword
	}
	if err := cfg.params.Validate(); err != nil {
		return nil, err
	}
	aead, err := NewAEAD(cfg.suite)
	if err != nil {
		return nil, err
	}

	plaintext, err := json.Marshal(content)
	if err != nil {
		return nil, fmt.Errorf("%w: serialize content: %v", ErrInvalidParameters, err)
	}
	defer wipe(plaintext)

	salt, err := v.random.RandomBytes(int(cfg.params.SaltLen))
	if err != nil {
		return nil, fmt.Errorf("generate salt: %w", err)
	}
	nonce, err := v.random.RandomBytes(NonceSize)
	if err != nil {
		return nil, fmt.Errorf("generate nonce: %w", err)
	}

	env := &Envelope{
		Version:     EnvelopeVersion,
		CipherSuite: cfg.suite,
		KDF:         cfg.params,
		Salt:        salt,
		Nonce:       nonce,
	}

	key, err := v.deriveKey(ctx, password, salt, cfg.params)
	if err != nil {
		log.Error().Str("kind", Kind(err)).Msg("key derivation failed")
		return nil, err
	}
	defer wipe(key)

	env.Ciphertext, err = aead.Seal(key, nonce, plaintext, env.AssociatedData())
	if err != nil {
		return nil, err
	}

	log.Debug().Str("suite", string(cfg.suite)).Int("ciphertext_size", len(env.Ciphertext)).Msg("vault sealed")
	return env, nil
}

// Open authenticates env with password and unmarshals the plaintext into
// target. Nothing is written to target unless the tag verifies.
func (v *VaultCrypto) Open(ctx context.Context, password string, env *Envelope, target any) error {
	plaintext, err := v.open(ctx, password, env)
	if err != nil {
		return err
	}
	defer wipe(plaintext)

	if err = json.Unmarshal(plaintext, target); err != nil {
		return fmt.Errorf("%w: %v", ErrCorruptPayload, err)
	}
	return nil
}

// OpenContent opens env and returns its top-level JSON object. Numbers are
// kept as [json.Number] so large integers survive unchanged. The result
// therefore equals the sealed value as JSON text, not by Go type: a float64
// 1.5 comes back as json.Number("1.5"). Use [VaultCrypto.Open] with a typed
// target to get concrete types back.
func (v *VaultCrypto) OpenContent(ctx context.Context, password string, env *Envelope) (models.VaultContent, error) {
	plaintext, err := v.open(ctx, password, env)
	if err != nil {
		return nil, err
	}
	defer wipe(plaintext)

	dec := json.NewDecoder(bytes.NewReader(plaintext))
	dec.UseNumber()

	var content models.VaultContent
	if err = dec.Decode(&content); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptPayload, err)
	}
	if content == nil || dec.More() {
		return nil, fmt.Errorf("%w: plaintext is not a single JSON object", ErrCorruptPayload)
	}
	return content, nil
}

// SealString seals a single string value.
func (v *VaultCrypto) SealString(ctx context.Context, password, value string, opts ...SealOption) (*Envelope, error) {
	return v.Seal(ctx, password, value, opts...)
}

// OpenString opens an envelope produced by [VaultCrypto.SealString].
func (v *VaultCrypto) OpenString(ctx context.Context, password string, env *Envelope) (string, error) {
	var value string
	if err := v.Open(ctx, password, env, &value); err != nil {
		return "", err
	}
	return value, nil
}

func (v *VaultCrypto) open(ctx context.Context, password string, env *Envelope) ([]byte, error) {
	log := v.logger.With().Str("func", "VaultCrypto.open").Logger()

	if env == nil {
		return nil, fmt.Errorf("%w: nil envelope", ErrMalformedEnvelope)
	}
	if err := env.validate(); err != nil {
		return nil, err
	}
	aead, err := NewAEAD(env.CipherSuite)
	if err != nil {
		return nil, err
	}

	// An empty password can never have sealed anything.
	if strings.TrimSpace(password) == "" {
		return nil, ErrAuthenticationFailed
	}

	key, err := v.deriveKey(ctx, password, env.Salt, env.KDF)
	if err != nil {
		log.Error().Str("kind", Kind(err)).Msg("key derivation failed")
		return nil, err
	}
	defer wipe(key)

	plaintext, err := aead.Open(key, env.Nonce, env.Ciphertext, env.AssociatedData())
	if err != nil {
		log.Debug().Str("kind", Kind(err)).Msg("envelope rejected")
		return nil, err
	}
	return plaintext, nil
}

func (v *VaultCrypto) deriveKey(ctx context.Context, password string, salt []byte, params KdfParameters) ([]byte, error) {
	pw := []byte(password)
	defer wipe(pw)

	return v.deriver.Derive(ctx, pw, salt, params)
}
