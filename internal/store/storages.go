package store

import (
	"context"
	"fmt"
	"io"

	"github.com/MKhiriev/go-vault-envelope/internal/config"
	"github.com/MKhiriev/go-vault-envelope/internal/logger"
	"github.com/MKhiriev/go-vault-envelope/internal/metrics"
)

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// NewBlobStore opens the local backend named by cfg.Backend (file, sqlite,
// postgres or s3), migrating SQL schemas on the way, and wraps it with
// [Instrument]. The returned io.Closer releases database connections.
//
// The remote backend lives in the adapter package and is not handled here.
func NewBlobStore(ctx context.Context, cfg config.Storage, m *metrics.Metrics, log *logger.Logger) (BlobStore, io.Closer, error) {
	var (
		blobs  BlobStore
		closer io.Closer = nopCloser{}
		err    error
	)

	switch cfg.Backend {
	case config.BackendFile:
		blobs, err = NewFileBlobStore(cfg.File.Dir, log)
	case config.BackendSQLite:
		blobs, closer, err = openSQL(func() (*DB, error) { return NewConnectSQLite(ctx, cfg.SQLite, log) })
	case config.BackendPostgres:
		blobs, closer, err = openSQL(func() (*DB, error) { return NewConnectPostgres(ctx, cfg.Postgres, log) })
	case config.BackendS3:
		blobs, err = NewS3BlobStore(ctx, cfg.S3, log)
	default:
		return nil, nil, fmt.Errorf("%w: %q", ErrUnknownBackend, cfg.Backend)
	}
	if err != nil {
		return nil, nil, err
	}

	log.Info().Str("func", "NewBlobStore").Str("backend", cfg.Backend).Msg("blob store ready")
	return Instrument(blobs, cfg.Backend, m), closer, nil
}

func openSQL(connect func() (*DB, error)) (BlobStore, io.Closer, error) {
	db, err := connect()
	if err != nil {
		return nil, nil, err
	}
	if err = db.Migrate(); err != nil {
		db.Close()
		return nil, nil, ioError("migrate", err)
	}
	return NewSQLBlobStore(db), db, nil
}
