package store

import (
	"context"

	"github.com/MKhiriev/go-vault-envelope/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/store_mock.go -package=mock

// BlobStore persists opaque byte blobs under string ids. Envelopes are
// stored and returned byte-for-byte; no backend interprets them.
//
// Implementations return errors matching [ErrNotFound],
// [ErrPermissionDenied], [ErrInvalidBlobID] or [ErrIO].
type BlobStore interface {
	// Write creates or replaces the blob id. A reader never observes a
	// partially written blob.
	Write(ctx context.Context, id string, data []byte) error
	// Read returns the bytes last written under id.
	Read(ctx context.Context, id string) ([]byte, error)
	// Exists reports whether id has been written.
	Exists(ctx context.Context, id string) (bool, error)
	// List describes every blob whose id starts with prefix, sorted by id.
	List(ctx context.Context, prefix string) ([]models.BlobInfo, error)
}

// ErrorClassificator inspects driver errors of a SQL backend.
type ErrorClassificator interface {
	// Classify reports whether the failed operation may be retried.
	Classify(err error) ErrorClassification
	// Map translates a driver error into a store sentinel error.
	Map(err error) error
}
