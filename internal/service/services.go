package service

import (
	"github.com/MKhiriev/go-vault-envelope/internal/config"
	"github.com/MKhiriev/go-vault-envelope/internal/logger"
	"github.com/MKhiriev/go-vault-envelope/internal/metrics"
	"github.com/MKhiriev/go-vault-envelope/internal/store"
	"github.com/MKhiriev/go-vault-envelope/internal/workers"
)

type Services struct {
	VaultService   VaultService
	SessionService SessionService
	BlobService    BlobService
	AppInfoService AppInfoService
}

// NewServices builds every service over one blob store. The CLI only uses
// VaultService; the blob server uses the rest.
func NewServices(blobs store.BlobStore, cfg config.StructuredConfig, m *metrics.Metrics, logger *logger.Logger) (*Services, error) {
	vc, err := NewVaultCrypto(cfg, logger)
	if err != nil {
		return nil, err
	}

	appInfo, err := NewAppInfoService(cfg, logger)
	if err != nil {
		return nil, err
	}

	pool := workers.NewPool(cfg.Crypto.MaxConcurrentDerivations)

	return &Services{
		VaultService:   NewVaultService(vc, blobs, pool, m, logger),
		SessionService: NewSessionService(cfg.Server, logger),
		BlobService:    NewBlobService(blobs, cfg.Server.ValidateEnvelopes, logger),
		AppInfoService: appInfo,
	}, nil
}
