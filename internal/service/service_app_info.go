package service

import (
	"context"
	"fmt"
	"slices"

	"github.com/MKhiriev/go-vault-envelope/internal/config"
	"github.com/MKhiriev/go-vault-envelope/internal/crypto"
	"github.com/MKhiriev/go-vault-envelope/internal/logger"
	"github.com/MKhiriev/go-vault-envelope/models"
)

type appInfoService struct {
	info models.ServerInfo

	logger *logger.Logger
}

// NewAppInfoService captures the version and the envelope settings the
// server runs with. The configured cipher suite must be one this build
// supports; an empty one means the default suite.
func NewAppInfoService(cfg config.StructuredConfig, logger *logger.Logger) (AppInfoService, error) {
	if cfg.App.Version == "" {
		return nil, ErrVersionIsNotSpecified
	}

	supported := crypto.SupportedSuites()
	suite := crypto.CipherSuite(cfg.Crypto.CipherSuite)
	if suite == "" {
		suite = crypto.SuiteAES256GCM
	}
	if !slices.Contains(supported, suite) {
		return nil, fmt.Errorf("%w: %q", crypto.ErrUnsupportedCipher, suite)
	}

	suites := make([]string, 0, len(supported))
	for _, s := range supported {
		suites = append(suites, string(s))
	}

	return &appInfoService{
		info: models.ServerInfo{
			Version:            cfg.App.Version,
			EnvelopeVersion:    crypto.EnvelopeVersion,
			CipherSuites:       suites,
			DefaultCipherSuite: string(suite),
			KDF:                string(crypto.KdfArgon2id),
			ValidateEnvelopes:  cfg.Server.ValidateEnvelopes,
			MaxBlobSize:        cfg.Server.MaxBlobSize,
		},
		logger: logger,
	}, nil
}

func (s *appInfoService) GetAppVersion(ctx context.Context) string {
	return s.info.Version
}

// GetServerInfo returns a copy; callers may modify it freely.
func (s *appInfoService) GetServerInfo(ctx context.Context) models.ServerInfo {
	info := s.info
	info.CipherSuites = slices.Clone(s.info.CipherSuites)
	return info
}
