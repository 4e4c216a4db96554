package http

import (
	"github.com/MKhiriev/go-vault-envelope/internal/config"
	"github.com/MKhiriev/go-vault-envelope/internal/logger"
	"github.com/MKhiriev/go-vault-envelope/internal/metrics"
	"github.com/MKhiriev/go-vault-envelope/internal/service"
	"github.com/MKhiriev/go-vault-envelope/internal/utils"
)

type Handler struct {
	services *service.Services
	metrics  *metrics.Metrics

	// maxBlobSize caps PUT bodies; zero means unlimited.
	maxBlobSize int64

	traceIDs *utils.TraceIDGenerator

	logger *logger.Logger
}

func NewHandler(services *service.Services, cfg config.Server, m *metrics.Metrics, logger *logger.Logger) *Handler {
	logger.Info().Msg("http handler created")
	return &Handler{
		services:    services,
		metrics:     m,
		maxBlobSize: cfg.MaxBlobSize,
		traceIDs:    utils.NewTraceIDGenerator(),
		logger:      logger,
	}
}
