// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/MKhiriev/go-vault-envelope/internal/config"
	"github.com/MKhiriev/go-vault-envelope/internal/crypto"
	"github.com/MKhiriev/go-vault-envelope/internal/logger"
	"github.com/MKhiriev/go-vault-envelope/internal/metrics"
	"github.com/MKhiriev/go-vault-envelope/internal/store"
	"github.com/MKhiriev/go-vault-envelope/internal/workers"
	"github.com/MKhiriev/go-vault-envelope/models"
)

// Operation labels recorded in metrics.
const (
	opCreate   = "create"
	opSave     = "save"
	opLoad     = "load"
	opSetEntry = "set_entry"
	opPasswd   = "change_password"
	opInspect  = "inspect"
	opSeal     = "seal"
	opOpen     = "open"
)

const (
	recordContentKey = "content"
	recordSavedAtKey = "savedAt"
)

// vaultService is the concrete implementation of VaultService.
// Every seal and open runs through pool, which bounds how many Argon2id
// derivations hold their memory cost at the same time.
type vaultService struct {
	crypto *crypto.VaultCrypto
	blobs  store.BlobStore
	pool   *workers.Pool

	metrics *metrics.Metrics
	now     func() time.Time

	logger *logger.Logger
}

// NewVaultService wires vc to blobs. A nil pool runs derivations unbounded
// and nil metrics disable recording.
func NewVaultService(vc *crypto.VaultCrypto, blobs store.BlobStore, pool *workers.Pool, m *metrics.Metrics, logger *logger.Logger) VaultService {
	return &vaultService{
		crypto:  vc,
		blobs:   blobs,
		pool:    pool,
		metrics: m,
		now:     time.Now,
		logger:  logger,
	}
}

// NewVaultCrypto builds the envelope service from configuration. Zero KDF
// fields keep the built-in default profile and an empty suite keeps
// AES-256-GCM.
func NewVaultCrypto(cfg config.StructuredConfig, log *logger.Logger) (*crypto.VaultCrypto, error) {
	params, err := kdfParams(cfg.KDF)
	if err != nil {
		return nil, err
	}

	opts := []crypto.Option{crypto.WithDefaultParams(params), crypto.WithLogger(log)}
	if cfg.Crypto.CipherSuite != "" {
		opts = append(opts, crypto.WithCipherSuite(crypto.CipherSuite(cfg.Crypto.CipherSuite)))
	}
	return crypto.NewVaultCrypto(opts...)
}

func kdfParams(cfg config.KDF) (crypto.KdfParameters, error) {
	p := crypto.DefaultKdfParameters()
	if cfg.TimeCost != 0 {
		p.TimeCost = cfg.TimeCost
	}
	if cfg.MemoryCostKiB != 0 {
		p.MemoryCostKiB = cfg.MemoryCostKiB
	}
	if cfg.Parallelism != 0 {
		p.Parallelism = cfg.Parallelism
	}
	if cfg.SaltLen != 0 {
		p.SaltLen = cfg.SaltLen
	}
	return crypto.NewKdfParameters(p.TimeCost, p.MemoryCostKiB, p.Parallelism, p.OutputLen, p.SaltLen)
}

func (s *vaultService) Create(ctx context.Context, id, password string, content models.VaultContent) (err error) {
	defer func() { s.finish(opCreate, id, err) }()

	exists, err := s.blobs.Exists(ctx, id)
	if err != nil {
		return err
	}
	if exists {
		return fmt.Errorf("%w: %s", ErrVaultExists, id)
	}
	return s.save(ctx, id, password, content)
}

func (s *vaultService) Save(ctx context.Context, id, password string, content models.VaultContent) (err error) {
	defer func() { s.finish(opSave, id, err) }()

	return s.save(ctx, id, password, content)
}

func (s *vaultService) Load(ctx context.Context, id, password string) (models.VaultContent, error) {
	vault, err := s.Open(ctx, id, password)
	if err != nil {
		return nil, err
	}
	return vault.Content, nil
}

func (s *vaultService) Open(ctx context.Context, id, password string) (vault models.Vault, err error) {
	defer func() { s.finish(opLoad, id, err) }()

	return s.load(ctx, id, password)
}

func (s *vaultService) SetEntry(ctx context.Context, id, password, key string, value any) (err error) {
	defer func() { s.finish(opSetEntry, id, err) }()

	if strings.TrimSpace(key) == "" {
		return ErrInvalidEntryKey
	}

	vault, err := s.load(ctx, id, password)
	if err != nil {
		return err
	}
	vault.Content[key] = value

	return s.save(ctx, id, password, vault.Content)
}

func (s *vaultService) ChangePassword(ctx context.Context, id, oldPassword, newPassword string) (err error) {
	defer func() { s.finish(opPasswd, id, err) }()

	// checked before the old password costs a derivation
	if strings.TrimSpace(newPassword) == "" {
		return crypto.ErrInvalidPassword
	}

	vault, err := s.load(ctx, id, oldPassword)
	if err != nil {
		return err
	}
	return s.save(ctx, id, newPassword, vault.Content)
}

func (s *vaultService) Inspect(ctx context.Context, id string) (header models.EnvelopeHeader, err error) {
	defer func() { s.finish(opInspect, id, err) }()

	data, err := s.blobs.Read(ctx, id)
	if err != nil {
		return models.EnvelopeHeader{}, err
	}
	env, err := crypto.Decode(data)
	if err != nil {
		return models.EnvelopeHeader{}, err
	}
	return env.Header(), nil
}

func (s *vaultService) Exists(ctx context.Context, id string) (bool, error) {
	return s.blobs.Exists(ctx, id)
}

func (s *vaultService) List(ctx context.Context, prefix string) ([]models.BlobInfo, error) {
	return s.blobs.List(ctx, prefix)
}

func (s *vaultService) SealDocument(ctx context.Context, password string, content models.VaultContent) (data []byte, err error) {
	defer func() { s.finish(opSeal, "", err) }()

	if content == nil {
		content = models.VaultContent{}
	}
	return s.seal(ctx, password, content)
}

func (s *vaultService) OpenDocument(ctx context.Context, password string, data []byte) (content models.VaultContent, err error) {
	defer func() { s.finish(opOpen, "", err) }()

	return s.open(ctx, password, data)
}

func (s *vaultService) save(ctx context.Context, id, password string, content models.VaultContent) error {
	if err := store.ValidateBlobID(id); err != nil {
		return err
	}
	if content == nil {
		content = models.VaultContent{}
	}

	raw, err := json.Marshal(content)
	if err != nil {
		return fmt.Errorf("%w: serialize content: %v", crypto.ErrInvalidParameters, err)
	}
	record := models.VaultRecord{
		Content: raw,
		SavedAt: s.now().UTC().Truncate(time.Second),
	}

	data, err := s.seal(ctx, password, record)
	if err != nil {
		return err
	}
	return s.blobs.Write(ctx, id, data)
}

func (s *vaultService) load(ctx context.Context, id, password string) (models.Vault, error) {
	data, err := s.blobs.Read(ctx, id)
	if err != nil {
		return models.Vault{}, err
	}

	doc, err := s.open(ctx, password, data)
	if err != nil {
		return models.Vault{}, err
	}
	return unwrapRecord(doc), nil
}

func (s *vaultService) seal(ctx context.Context, password string, document any) ([]byte, error) {
	var env *crypto.Envelope
	err := s.pool.Do(ctx, func() error {
		start := time.Now()
		defer func() { s.metrics.ObserveKDF(opSeal, time.Since(start)) }()

		var err error
		env, err = s.crypto.Seal(ctx, password, document)
		return err
	})
	if err != nil {
		return nil, err
	}
	return crypto.EncodeIndent(env)
}

// open decodes data before any key is derived, so malformed or unsupported
// envelopes are rejected without paying for Argon2id.
func (s *vaultService) open(ctx context.Context, password string, data []byte) (models.VaultContent, error) {
	env, err := crypto.Decode(data)
	if err != nil {
		return nil, err
	}

	var doc models.VaultContent
	err = s.pool.Do(ctx, func() error {
		start := time.Now()
		defer func() { s.metrics.ObserveKDF(opOpen, time.Since(start)) }()

		doc, err = s.crypto.OpenContent(ctx, password, env)
		return err
	})
	if err != nil {
		return nil, err
	}
	return doc, nil
}

// unwrapRecord returns the content of a {"content", "savedAt"} record.
// Any other document, such as one sealed with SealDocument, is returned
// whole with a zero SavedAt.
func unwrapRecord(doc models.VaultContent) models.Vault {
	if len(doc) == 2 {
		content, okContent := doc[recordContentKey].(map[string]any)
		savedAt, okSavedAt := doc[recordSavedAtKey].(string)
		if okContent && okSavedAt {
			if ts, err := time.Parse(time.RFC3339, savedAt); err == nil {
				return models.Vault{Content: content, SavedAt: ts}
			}
		}
	}
	return models.Vault{Content: doc}
}

func (s *vaultService) finish(op, id string, err error) {
	result := resultLabel(err)
	s.metrics.RecordVault(op, result)

	event := s.logger.Debug()
	if err != nil {
		event = s.logger.Warn()
	}
	event.Str("func", "*vaultService."+op).Str("blob_id", id).Str("kind", result).Msg("vault operation finished")
}

// resultLabel names the outcome of an operation without leaking details.
func resultLabel(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrVaultExists):
		return "vault_exists"
	case errors.Is(err, ErrInvalidEntryKey):
		return "invalid_entry_key"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "cancelled"
	}

	if kind := crypto.Kind(err); kind != "internal" {
		return kind
	}
	return store.ErrorLabel(err)
}
