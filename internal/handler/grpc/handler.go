// Package grpc exposes the standard gRPC health checking service for the
// blob server, so orchestrators can probe it without going through HTTP.
package grpc

import (
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/MKhiriev/go-vault-envelope/internal/logger"
)

// ServiceName is the health service name reported for the blob API.
const ServiceName = "vault.BlobStore"

// Handler is the root gRPC transport handler.
//
// It owns the health server and registers it on the gRPC server created by
// the server package. A handler instance is created once at startup.
type Handler struct {
	health *health.Server

	logger *logger.Logger
}

// NewHandler returns a Handler whose services start in NOT_SERVING. The
// server flips them with SetServing once its listeners are up.
func NewHandler(logger *logger.Logger) *Handler {
	h := &Handler{
		health: health.NewServer(),
		logger: logger,
	}
	h.health.SetServingStatus("", healthpb.HealthCheckResponse_NOT_SERVING)
	h.health.SetServingStatus(ServiceName, healthpb.HealthCheckResponse_NOT_SERVING)

	logger.Debug().Msg("gRPC handler created")
	return h
}

// Register attaches the health service to s.
func (h *Handler) Register(s *grpc.Server) {
	healthpb.RegisterHealthServer(s, h.health)
}

// SetServing reports every service as SERVING or NOT_SERVING.
func (h *Handler) SetServing(serving bool) {
	status := healthpb.HealthCheckResponse_NOT_SERVING
	if serving {
		status = healthpb.HealthCheckResponse_SERVING
	}
	h.health.SetServingStatus("", status)
	h.health.SetServingStatus(ServiceName, status)
	h.logger.Debug().Str("status", status.String()).Msg("gRPC health status changed")
}

// Shutdown marks every service NOT_SERVING and ignores later updates.
func (h *Handler) Shutdown() {
	h.health.Shutdown()
}
