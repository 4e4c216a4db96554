package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-vault-envelope/internal/config"
	"github.com/MKhiriev/go-vault-envelope/internal/logger"
	"github.com/MKhiriev/go-vault-envelope/internal/mock"
	"go.uber.org/mock/gomock"
)

func TestNewServices(t *testing.T) {
	blobs := mock.NewMockBlobStore(gomock.NewController(t))
	cfg := config.StructuredConfig{
		App:    config.App{Version: "1.2.3"},
		KDF:    fastKDF,
		Crypto: config.Crypto{MaxConcurrentDerivations: 1},
	}

	services, err := NewServices(blobs, cfg, nil, logger.Nop())

	require.NoError(t, err)
	assert.NotNil(t, services.VaultService)
	assert.NotNil(t, services.SessionService)
	assert.NotNil(t, services.BlobService)
	assert.NotNil(t, services.AppInfoService)
}

func TestNewServices_Errors(t *testing.T) {
	blobs := mock.NewMockBlobStore(gomock.NewController(t))

	_, err := NewServices(blobs, config.StructuredConfig{KDF: fastKDF}, nil, logger.Nop())
	assert.ErrorIs(t, err, ErrVersionIsNotSpecified)

	_, err = NewServices(blobs, config.StructuredConfig{
		App: config.App{Version: "1"},
		KDF: config.KDF{TimeCost: 1000},
	}, nil, logger.Nop())
	assert.Error(t, err)
}
