package app

import (
	"context"
	"fmt"
	"io"

	"github.com/MKhiriev/go-vault-envelope/internal/adapter"
	"github.com/MKhiriev/go-vault-envelope/internal/config"
	"github.com/MKhiriev/go-vault-envelope/internal/logger"
	"github.com/MKhiriev/go-vault-envelope/internal/metrics"
	"github.com/MKhiriev/go-vault-envelope/internal/store"
)

type closerFunc func() error

func (f closerFunc) Close() error { return f() }

// OpenBlobStore returns the store named by storage.Backend. The remote
// backend talks to the blob server described by remote; every other backend
// is built by [store.NewBlobStore].
func OpenBlobStore(ctx context.Context, storage config.Storage, remote config.Remote, m *metrics.Metrics, log *logger.Logger) (store.BlobStore, io.Closer, error) {
	if storage.Backend != config.BackendRemote {
		return store.NewBlobStore(ctx, storage, m, log)
	}

	rs, err := adapter.NewHTTPRemoteStore(remote, log)
	if err != nil {
		return nil, nil, fmt.Errorf("create remote store: %w", err)
	}

	log.Info().Str("func", "OpenBlobStore").Str("backend", config.BackendRemote).Str("url", remote.URL).Msg("blob store ready")
	return store.Instrument(rs, config.BackendRemote, m), closerFunc(func() error {
		rs.Disconnect()
		return nil
	}), nil
}

// closeAll closes closers in reverse order and keeps the first error.
func closeAll(closers []io.Closer) error {
	var first error
	for i := len(closers) - 1; i >= 0; i-- {
		if err := closers[i].Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}
