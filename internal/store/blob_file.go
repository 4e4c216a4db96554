package store

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/MKhiriev/go-vault-envelope/internal/logger"
	"github.com/MKhiriev/go-vault-envelope/models"
)

const (
	blobFileExt     = ".vault"
	tempFilePattern = ".tmp-*"
	blobFilePerm    = 0o600
	blobDirPerm     = 0o700
)

// fileBlobStore keeps one file per blob under a directory. Writes go to a
// temporary file in the same directory which is synced and renamed over the
// target, so a crash leaves either the old or the new envelope.
type fileBlobStore struct {
	dir    string
	logger *logger.Logger
}

// NewFileBlobStore creates dir if needed and returns a [BlobStore] backed by
// it.
func NewFileBlobStore(dir string, log *logger.Logger) (BlobStore, error) {
	if dir == "" {
		return nil, fmt.Errorf("%w: empty directory", ErrIO)
	}
	if err := os.MkdirAll(dir, blobDirPerm); err != nil {
		return nil, mapFileError("create directory", err)
	}
	return &fileBlobStore{dir: dir, logger: log}, nil
}

func (s *fileBlobStore) path(id string) string {
	return filepath.Join(s.dir, id+blobFileExt)
}

func (s *fileBlobStore) Write(ctx context.Context, id string, data []byte) error {
	if err := validateKey(id); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return ioError("write", err)
	}

	tmp, err := os.CreateTemp(s.dir, tempFilePattern)
	if err != nil {
		return mapFileError("create temp file", err)
	}
	tmpName := tmp.Name()
	// removes the temp file on every failure path; after a successful rename
	// it no longer exists and the error is ignored
	defer os.Remove(tmpName)

	if _, err = tmp.Write(data); err != nil {
		tmp.Close()
		return mapFileError("write temp file", err)
	}
	if err = tmp.Chmod(blobFilePerm); err != nil {
		tmp.Close()
		return mapFileError("chmod temp file", err)
	}
	if err = tmp.Sync(); err != nil {
		tmp.Close()
		return mapFileError("sync temp file", err)
	}
	if err = tmp.Close(); err != nil {
		return mapFileError("close temp file", err)
	}
	if err = os.Rename(tmpName, s.path(id)); err != nil {
		return mapFileError("rename temp file", err)
	}

	s.logger.Debug().Str("func", "fileBlobStore.Write").Str("id", id).Int("size", len(data)).Msg("blob written")
	return nil
}

func (s *fileBlobStore) Read(ctx context.Context, id string) ([]byte, error) {
	if err := validateKey(id); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, ioError("read", err)
	}

	data, err := os.ReadFile(s.path(id))
	if err != nil {
		return nil, mapFileError("read", err)
	}
	return data, nil
}

func (s *fileBlobStore) Exists(ctx context.Context, id string) (bool, error) {
	if err := validateKey(id); err != nil {
		return false, err
	}
	if err := ctx.Err(); err != nil {
		return false, ioError("stat", err)
	}

	_, err := os.Stat(s.path(id))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, os.ErrNotExist):
		return false, nil
	default:
		return false, mapFileError("stat", err)
	}
}

func (s *fileBlobStore) List(ctx context.Context, prefix string) ([]models.BlobInfo, error) {
	if err := validatePrefix(prefix); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, ioError("list", err)
	}

	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, mapFileError("list", err)
	}

	infos := make([]models.BlobInfo, 0, len(entries))
	for _, entry := range entries {
		name := entry.Name()
		if !entry.Type().IsRegular() || !strings.HasSuffix(name, blobFileExt) {
			continue
		}
		id := strings.TrimSuffix(name, blobFileExt)
		if validateKey(id) != nil || !hasPrefix(id, prefix) {
			continue
		}
		fi, err := entry.Info()
		if err != nil {
			// removed between ReadDir and Info
			if errors.Is(err, os.ErrNotExist) {
				continue
			}
			return nil, mapFileError("list", err)
		}
		infos = append(infos, models.BlobInfo{ID: id, Size: fi.Size(), UpdatedAt: fi.ModTime().UTC()})
	}

	sort.Slice(infos, func(i, j int) bool { return infos[i].ID < infos[j].ID })
	return infos, nil
}

func mapFileError(op string, err error) error {
	switch {
	case errors.Is(err, os.ErrNotExist):
		return fmt.Errorf("%w: %s: %w", ErrNotFound, op, err)
	case errors.Is(err, os.ErrPermission):
		return fmt.Errorf("%w: %s: %w", ErrPermissionDenied, op, err)
	default:
		return ioError(op, err)
	}
}
