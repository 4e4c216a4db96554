package server

import (
	"context"
	"fmt"
	"net"

	"google.golang.org/grpc"

	"github.com/MKhiriev/go-vault-envelope/internal/config"
	myGRPC "github.com/MKhiriev/go-vault-envelope/internal/handler/grpc"
	"github.com/MKhiriev/go-vault-envelope/internal/logger"
)

type grpcServer struct {
	handler *myGRPC.Handler

	server          *grpc.Server
	gRPCNetListener net.Listener

	logger *logger.Logger
}

func newGRPCServer(handler *myGRPC.Handler, cfg config.Server, logger *logger.Logger) (*grpcServer, error) {
	lis, err := net.Listen("tcp", cfg.GRPCAddress)
	if err != nil {
		return nil, fmt.Errorf("listen grpc on %s: %w", cfg.GRPCAddress, err)
	}

	s := grpc.NewServer()
	handler.Register(s)

	return &grpcServer{
		handler:         handler,
		server:          s,
		gRPCNetListener: lis,
		logger:          logger,
	}, nil
}

func (g *grpcServer) addr() string {
	return g.gRPCNetListener.Addr().String()
}

func (g *grpcServer) run() error {
	g.logger.Info().Str("addr", g.addr()).Msg("launching gRPC server")
	g.handler.SetServing(true)
	if err := g.server.Serve(g.gRPCNetListener); err != nil {
		return fmt.Errorf("grpc serve: %w", err)
	}
	return nil
}

// shutdown reports NOT_SERVING first, then drains in-flight calls until ctx
// expires and stops hard after that.
func (g *grpcServer) shutdown(ctx context.Context) {
	g.handler.Shutdown()
	defer g.gRPCNetListener.Close()

	stopped := make(chan struct{})
	go func() {
		g.server.GracefulStop()
		close(stopped)
	}()

	select {
	case <-stopped:
		g.logger.Info().Msg("gRPC server stopped")
	case <-ctx.Done():
		g.logger.Warn().Msg("gRPC server forced to stop")
		g.server.Stop()
	}
}
