package store

import (
	"context"

	"github.com/MKhiriev/go-vault-envelope/internal/metrics"
	"github.com/MKhiriev/go-vault-envelope/models"
)

type instrumentedBlobStore struct {
	inner   BlobStore
	backend string
	metrics *metrics.Metrics
}

// Instrument counts every call of inner in m, labelled with backend and the
// [ErrorLabel] of the result. A nil m returns inner unchanged.
func Instrument(inner BlobStore, backend string, m *metrics.Metrics) BlobStore {
	if m == nil {
		return inner
	}
	return &instrumentedBlobStore{inner: inner, backend: backend, metrics: m}
}

func (s *instrumentedBlobStore) Write(ctx context.Context, id string, data []byte) error {
	err := s.inner.Write(ctx, id, data)
	s.metrics.RecordBlob(s.backend, "write", ErrorLabel(err))
	return err
}

func (s *instrumentedBlobStore) Read(ctx context.Context, id string) ([]byte, error) {
	data, err := s.inner.Read(ctx, id)
	s.metrics.RecordBlob(s.backend, "read", ErrorLabel(err))
	return data, err
}

func (s *instrumentedBlobStore) Exists(ctx context.Context, id string) (bool, error) {
	ok, err := s.inner.Exists(ctx, id)
	s.metrics.RecordBlob(s.backend, "exists", ErrorLabel(err))
	return ok, err
}

func (s *instrumentedBlobStore) List(ctx context.Context, prefix string) ([]models.BlobInfo, error) {
	infos, err := s.inner.List(ctx, prefix)
	s.metrics.RecordBlob(s.backend, "list", ErrorLabel(err))
	return infos, err
}
