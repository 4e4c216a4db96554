package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-vault-envelope/internal/config"
	"github.com/MKhiriev/go-vault-envelope/internal/logger"
)

func TestNewBlobStore_File(t *testing.T) {
	cfg := config.Storage{Backend: config.BackendFile, File: config.FileStorage{Dir: t.TempDir()}}

	s, closer, err := NewBlobStore(context.Background(), cfg, nil, logger.Nop())
	require.NoError(t, err)
	defer closer.Close()

	require.NoError(t, s.Write(context.Background(), "v", []byte("x")))
}

func TestNewBlobStore_SQLite(t *testing.T) {
	cfg := config.Storage{
		Backend: config.BackendSQLite,
		SQLite:  config.SQLiteStorage{DSN: filepath.Join(t.TempDir(), "data", "blobs.db")},
	}
	ctx := context.Background()

	s, closer, err := NewBlobStore(ctx, cfg, nil, logger.Nop())
	require.NoError(t, err)
	defer closer.Close()

	require.NoError(t, s.Write(ctx, "v", []byte("first")))
	require.NoError(t, s.Write(ctx, "v", []byte("second")))

	got, err := s.Read(ctx, "v")
	require.NoError(t, err)
	assert.Equal(t, []byte("second"), got)

	infos, err := s.List(ctx, "")
	require.NoError(t, err)
	require.Len(t, infos, 1)
	assert.Equal(t, int64(len("second")), infos[0].Size)
}

func TestNewBlobStore_Unknown(t *testing.T) {
	_, _, err := NewBlobStore(context.Background(), config.Storage{Backend: "tape"}, nil, logger.Nop())
	assert.ErrorIs(t, err, ErrUnknownBackend)
}
