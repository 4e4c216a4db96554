// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package app

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/MKhiriev/go-vault-envelope/internal/config"
	"github.com/MKhiriev/go-vault-envelope/internal/handler"
	"github.com/MKhiriev/go-vault-envelope/internal/logger"
	"github.com/MKhiriev/go-vault-envelope/internal/metrics"
	"github.com/MKhiriev/go-vault-envelope/internal/server"
	"github.com/MKhiriev/go-vault-envelope/internal/service"
	"github.com/MKhiriev/go-vault-envelope/internal/workers"
)

// Server is the blob server process: transports, the primary blob store and
// the optional mirror worker.
type Server struct {
	server  server.Server
	workers *workers.Workers
	metrics *metrics.Metrics

	closers []io.Closer
	logger  *logger.Logger
}

// NewServer builds every component named by cfg. Resources opened before a
// failure are released again.
func NewServer(ctx context.Context, cfg *config.StructuredConfig, log *logger.Logger) (*Server, error) {
	app := &Server{
		metrics: metrics.New(),
		logger:  log,
	}

	if err := app.init(ctx, cfg); err != nil {
		_ = closeAll(app.closers)
		return nil, err
	}
	return app, nil
}

func (a *Server) init(ctx context.Context, cfg *config.StructuredConfig) error {
	blobs, closer, err := OpenBlobStore(ctx, cfg.Storage, cfg.Remote, a.metrics, a.logger)
	if err != nil {
		return fmt.Errorf("open blob store: %w", err)
	}
	a.closers = append(a.closers, closer)

	services, err := service.NewServices(blobs, *cfg, a.metrics, a.logger)
	if err != nil {
		return fmt.Errorf("create services: %w", err)
	}

	handlers, err := handler.NewHandlers(services, cfg.Server, a.metrics, a.logger)
	if err != nil {
		return fmt.Errorf("create handlers: %w", err)
	}

	if a.server, err = server.NewServer(handlers, cfg.Server, a.logger); err != nil {
		return fmt.Errorf("create server: %w", err)
	}

	var mirror workers.Worker
	if interval := cfg.Workers.MirrorInterval.Std(); interval > 0 {
		target, closer, err := OpenBlobStore(ctx, cfg.Workers.Mirror, cfg.Remote, a.metrics, a.logger)
		if err != nil {
			a.server.Shutdown()
			return fmt.Errorf("open mirror store: %w", err)
		}
		a.closers = append(a.closers, closer)
		mirror = workers.NewMirrorWorker(blobs, target, cfg.Workers.MirrorPrefix, interval, a.metrics, a.logger)
	}
	a.workers = workers.NewWorkers(mirror)

	return nil
}

// Metrics exposes the collectors, mainly for tests.
func (a *Server) Metrics() http.Handler {
	return a.metrics.Handler()
}

// Run serves until ctx is done or a transport fails, then stops the
// workers and releases the stores.
func (a *Server) Run(ctx context.Context) error {
	workersCtx, cancel := context.WithCancel(ctx)
	workersDone := make(chan struct{})
	go func() {
		defer close(workersDone)
		a.workers.Run(workersCtx)
	}()

	err := a.server.Run(ctx)

	cancel()
	<-workersDone

	if closeErr := closeAll(a.closers); closeErr != nil {
		a.logger.Err(closeErr).Msg("error closing blob stores")
	}
	return err
}
