package service

import (
	"context"
	"fmt"

	"github.com/MKhiriev/go-vault-envelope/internal/crypto"
	"github.com/MKhiriev/go-vault-envelope/internal/logger"
	"github.com/MKhiriev/go-vault-envelope/internal/store"
	"github.com/MKhiriev/go-vault-envelope/models"
)

// blobService keeps each subject's blobs under its own namespace of one
// shared store. Blobs are opaque bytes; with validation on, uploads must
// decode as envelopes, but nothing is ever decrypted.
type blobService struct {
	blobs    store.BlobStore
	validate bool

	logger *logger.Logger
}

// NewBlobService wraps blobs. With validate set, Put rejects anything that
// is not a structurally valid envelope with ErrInvalidEnvelope.
func NewBlobService(blobs store.BlobStore, validate bool, logger *logger.Logger) BlobService {
	return &blobService{
		blobs:    blobs,
		validate: validate,
		logger:   logger,
	}
}

func (s *blobService) Put(ctx context.Context, subject, id string, data []byte) error {
	log := logger.FromContext(ctx)

	scoped, err := store.Namespaced(s.blobs, subject)
	if err != nil {
		return err
	}

	if s.validate {
		if _, err = crypto.Decode(data); err != nil {
			log.Warn().Str("blob_id", id).Str("kind", crypto.Kind(err)).Msg("rejected blob that is not an envelope")
			return fmt.Errorf("%w: %w", ErrInvalidEnvelope, err)
		}
	}

	if err = scoped.Write(ctx, id, data); err != nil {
		log.Err(err).Str("blob_id", id).Msg("blob write failed")
		return err
	}
	return nil
}

func (s *blobService) Get(ctx context.Context, subject, id string) ([]byte, error) {
	scoped, err := store.Namespaced(s.blobs, subject)
	if err != nil {
		return nil, err
	}
	return scoped.Read(ctx, id)
}

func (s *blobService) Exists(ctx context.Context, subject, id string) (bool, error) {
	scoped, err := store.Namespaced(s.blobs, subject)
	if err != nil {
		return false, err
	}
	return scoped.Exists(ctx, id)
}

func (s *blobService) List(ctx context.Context, subject, prefix string) ([]models.BlobInfo, error) {
	scoped, err := store.Namespaced(s.blobs, subject)
	if err != nil {
		return nil, err
	}

	infos, err := scoped.List(ctx, prefix)
	if err != nil {
		return nil, err
	}
	if infos == nil {
		infos = []models.BlobInfo{}
	}
	return infos, nil
}
