package service

import (
	"context"

	"github.com/MKhiriev/go-vault-envelope/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/service_mock.go -package=mock

// VaultService seals vault documents into envelopes and keeps them in a
// blob store under caller-chosen ids.
type VaultService interface {
	// Create seals content under a new id. It fails with ErrVaultExists
	// when the id is taken.
	Create(ctx context.Context, id, password string, content models.VaultContent) error
	// Save seals content and replaces whatever the id held.
	Save(ctx context.Context, id, password string, content models.VaultContent) error
	// Load opens the vault stored under id and returns its content.
	Load(ctx context.Context, id, password string) (models.VaultContent, error)
	// Open is Load that also reports when the vault was saved.
	Open(ctx context.Context, id, password string) (models.Vault, error)
	// SetEntry opens the vault, sets key to value and saves it again.
	SetEntry(ctx context.Context, id, password, key string, value any) error
	// ChangePassword re-seals the vault under newPassword with a fresh salt
	// and nonce and the current default parameters.
	ChangePassword(ctx context.Context, id, oldPassword, newPassword string) error
	// Inspect returns the envelope header without deriving any key.
	Inspect(ctx context.Context, id string) (models.EnvelopeHeader, error)
	Exists(ctx context.Context, id string) (bool, error)
	List(ctx context.Context, prefix string) ([]models.BlobInfo, error)

	// SealDocument and OpenDocument work on envelope bytes directly,
	// without touching the store.
	SealDocument(ctx context.Context, password string, content models.VaultContent) ([]byte, error)
	OpenDocument(ctx context.Context, password string, data []byte) (models.VaultContent, error)
}

// SessionService exchanges API keys for session tokens and verifies them.
type SessionService interface {
	Open(ctx context.Context, apiKey string) (models.Token, error)
	ParseToken(ctx context.Context, tokenString string) (models.Token, error)
}

// BlobService stores opaque blobs on behalf of an authenticated subject.
// Every id is confined to the subject's namespace.
type BlobService interface {
	Put(ctx context.Context, subject, id string, data []byte) error
	Get(ctx context.Context, subject, id string) ([]byte, error)
	Exists(ctx context.Context, subject, id string) (bool, error)
	List(ctx context.Context, subject, prefix string) ([]models.BlobInfo, error)
}

// AppInfoService reports the server version and the envelope formats it
// accepts.
type AppInfoService interface {
	GetAppVersion(ctx context.Context) string
	GetServerInfo(ctx context.Context) models.ServerInfo
}
