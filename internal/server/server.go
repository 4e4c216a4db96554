// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package server

import (
	"context"
	"sync"
	"time"

	"github.com/MKhiriev/go-vault-envelope/internal/config"
	"github.com/MKhiriev/go-vault-envelope/internal/handler"
	"github.com/MKhiriev/go-vault-envelope/internal/logger"
)

const defaultShutdownTimeout = 10 * time.Second

type server struct {
	httpServer *httpServer
	gRPCServer *grpcServer

	shutdownTimeout time.Duration
	shutdownOnce    sync.Once

	logger *logger.Logger
}

// NewServer binds a listener for every configured address. Listeners bound
// before a failure are closed again.
func NewServer(handlers *handler.Handlers, cfg config.Server, logger *logger.Logger) (Server, error) {
	logger.Info().Msg("creating new server...")
	servers := &server{
		shutdownTimeout: cfg.ShutdownTimeout.Std(),
		logger:          logger,
	}
	if servers.shutdownTimeout <= 0 {
		servers.shutdownTimeout = defaultShutdownTimeout
	}

	if cfg.HTTPAddress != "" {
		if handlers == nil || handlers.HTTP == nil {
			return nil, errMissingHandler
		}
		httpSrv, err := newHTTPServer(handlers.HTTP.Init(), cfg, logger)
		if err != nil {
			return nil, err
		}
		servers.httpServer = httpSrv
	}
	if cfg.GRPCAddress != "" {
		if handlers == nil || handlers.GRPC == nil {
			servers.closeListeners()
			return nil, errMissingHandler
		}
		grpcSrv, err := newGRPCServer(handlers.GRPC, cfg, logger)
		if err != nil {
			servers.closeListeners()
			return nil, err
		}
		servers.gRPCServer = grpcSrv
	}

	if servers.httpServer == nil && servers.gRPCServer == nil {
		return nil, errNoServersAreCreated
	}

	return servers, nil
}

func (s *server) Run(ctx context.Context) error {
	errCh := make(chan error, 2)

	// launch all created servers
	if s.httpServer != nil {
		go func() { errCh <- s.httpServer.run() }()
	}
	if s.gRPCServer != nil {
		go func() { errCh <- s.gRPCServer.run() }()
	}

	select {
	case <-ctx.Done():
		s.Shutdown()
		s.logger.Info().Msg("server Shutdown gracefully")
		return nil
	case err := <-errCh:
		s.Shutdown()
		return err
	}
}

func (s *server) Shutdown() {
	s.shutdownOnce.Do(func() {
		ctx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
		defer cancel()

		var wg sync.WaitGroup
		if s.httpServer != nil {
			wg.Add(1)
			go func() {
				defer wg.Done()
				s.httpServer.shutdown(ctx)
			}()
		}
		if s.gRPCServer != nil {
			wg.Add(1)
			go func() {
				defer wg.Done()
				s.gRPCServer.shutdown(ctx)
			}()
		}
		wg.Wait()
	})
}

func (s *server) closeListeners() {
	if s.httpServer != nil {
		_ = s.httpServer.listener.Close()
	}
	if s.gRPCServer != nil {
		_ = s.gRPCServer.gRPCNetListener.Close()
	}
}
