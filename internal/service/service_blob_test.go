package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MKhiriev/go-vault-envelope/internal/crypto"
	"github.com/MKhiriev/go-vault-envelope/internal/logger"
	"github.com/MKhiriev/go-vault-envelope/internal/mock"
	"github.com/MKhiriev/go-vault-envelope/internal/store"
	"github.com/MKhiriev/go-vault-envelope/models"
)

func TestBlobService_NamespacesIDs(t *testing.T) {
	ctrl := gomock.NewController(t)
	blobs := mock.NewMockBlobStore(ctrl)
	svc := NewBlobService(blobs, false, logger.Nop())
	ctx := context.Background()

	blobs.EXPECT().Write(ctx, "alice.main", []byte("x")).Return(nil)
	blobs.EXPECT().Read(ctx, "alice.main").Return([]byte("x"), nil)
	blobs.EXPECT().Exists(ctx, "bob.main").Return(false, nil)
	blobs.EXPECT().List(ctx, "alice.m").Return([]models.BlobInfo{{ID: "alice.main", Size: 1}}, nil)

	require.NoError(t, svc.Put(ctx, "alice", "main", []byte("x")))

	data, err := svc.Get(ctx, "alice", "main")
	require.NoError(t, err)
	assert.Equal(t, []byte("x"), data)

	ok, err := svc.Exists(ctx, "bob", "main")
	require.NoError(t, err)
	assert.False(t, ok)

	infos, err := svc.List(ctx, "alice", "m")
	require.NoError(t, err)
	assert.Equal(t, []models.BlobInfo{{ID: "main", Size: 1}}, infos)
}

func TestBlobService_List_EmptyIsNotNil(t *testing.T) {
	ctrl := gomock.NewController(t)
	blobs := mock.NewMockBlobStore(ctrl)
	svc := NewBlobService(blobs, false, logger.Nop())

	blobs.EXPECT().List(gomock.Any(), "alice.").Return(nil, nil)

	infos, err := svc.List(context.Background(), "alice", "")
	require.NoError(t, err)
	assert.NotNil(t, infos)
	assert.Empty(t, infos)
}

func TestBlobService_InvalidSubjectOrID(t *testing.T) {
	ctrl := gomock.NewController(t)
	blobs := mock.NewMockBlobStore(ctrl)
	svc := NewBlobService(blobs, false, logger.Nop())
	ctx := context.Background()

	err := svc.Put(ctx, "", "main", nil)
	assert.ErrorIs(t, err, store.ErrInvalidBlobID)

	_, err = svc.Get(ctx, "alice", "../main")
	assert.ErrorIs(t, err, store.ErrInvalidBlobID)

	_, err = svc.List(ctx, "a.b", "")
	assert.ErrorIs(t, err, store.ErrInvalidBlobID)
}

func TestBlobService_Put_Validation(t *testing.T) {
	ctrl := gomock.NewController(t)
	blobs := mock.NewMockBlobStore(ctrl)
	svc := NewBlobService(blobs, true, logger.Nop())
	ctx := context.Background()

	err := svc.Put(ctx, "alice", "main", []byte(`{"hello":"world"}`))
	assert.ErrorIs(t, err, ErrInvalidEnvelope)
	assert.ErrorIs(t, err, crypto.ErrMalformedEnvelope)

	vc := newTestVaultCrypto(t)
	env, err := vc.Seal(ctx, "pw", map[string]any{})
	require.NoError(t, err)
	data, err := crypto.Encode(env)
	require.NoError(t, err)

	blobs.EXPECT().Write(ctx, "alice.main", data).Return(nil)
	assert.NoError(t, svc.Put(ctx, "alice", "main", data))
}

func TestBlobService_Put_StoreError(t *testing.T) {
	ctrl := gomock.NewController(t)
	blobs := mock.NewMockBlobStore(ctrl)
	svc := NewBlobService(blobs, false, logger.Nop())

	blobs.EXPECT().Write(gomock.Any(), "alice.main", gomock.Any()).Return(store.ErrIO)

	err := svc.Put(context.Background(), "alice", "main", []byte("x"))
	assert.ErrorIs(t, err, store.ErrIO)
}
