package store

import (
	"context"
	"strings"

	"github.com/MKhiriev/go-vault-envelope/models"
)

const namespaceSeparator = "."

// namespacedBlobStore confines a caller to the keys "<namespace>.<id>" of
// the wrapped store. Ids seen by the caller never include the namespace.
type namespacedBlobStore struct {
	inner     BlobStore
	namespace string
}

// Namespaced wraps inner so that every id is scoped to ns. The blob server
// uses one namespace per authenticated subject.
func Namespaced(inner BlobStore, ns string) (BlobStore, error) {
	if err := ValidateNamespace(ns); err != nil {
		return nil, err
	}
	return &namespacedBlobStore{inner: inner, namespace: ns}, nil
}

func (s *namespacedBlobStore) key(id string) (string, error) {
	if err := ValidateBlobID(id); err != nil {
		return "", err
	}
	return s.namespace + namespaceSeparator + id, nil
}

func (s *namespacedBlobStore) Write(ctx context.Context, id string, data []byte) error {
	key, err := s.key(id)
	if err != nil {
		return err
	}
	return s.inner.Write(ctx, key, data)
}

func (s *namespacedBlobStore) Read(ctx context.Context, id string) ([]byte, error) {
	key, err := s.key(id)
	if err != nil {
		return nil, err
	}
	return s.inner.Read(ctx, key)
}

func (s *namespacedBlobStore) Exists(ctx context.Context, id string) (bool, error) {
	key, err := s.key(id)
	if err != nil {
		return false, err
	}
	return s.inner.Exists(ctx, key)
}

func (s *namespacedBlobStore) List(ctx context.Context, prefix string) ([]models.BlobInfo, error) {
	if err := validatePrefix(prefix); err != nil {
		return nil, err
	}

	full := s.namespace + namespaceSeparator
	infos, err := s.inner.List(ctx, full+prefix)
	if err != nil {
		return nil, err
	}
	for i := range infos {
		infos[i].ID = strings.TrimPrefix(infos[i].ID, full)
	}
	return infos, nil
}
