// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MKhiriev/go-vault-envelope/internal/config"
	"github.com/MKhiriev/go-vault-envelope/internal/crypto"
	"github.com/MKhiriev/go-vault-envelope/internal/logger"
	"github.com/MKhiriev/go-vault-envelope/internal/metrics"
	"github.com/MKhiriev/go-vault-envelope/internal/mock"
	"github.com/MKhiriev/go-vault-envelope/internal/store"
	"github.com/MKhiriev/go-vault-envelope/internal/workers"
	"github.com/MKhiriev/go-vault-envelope/models"
)

var fastKDF = config.KDF{TimeCost: 1, MemoryCostKiB: crypto.MinMemoryCostKiB}

func newTestVaultCrypto(t *testing.T) *crypto.VaultCrypto {
	t.Helper()
	vc, err := NewVaultCrypto(config.StructuredConfig{KDF: fastKDF}, logger.Nop())
	require.NoError(t, err)
	return vc
}

// newTestVaultSvc builds a vaultService over a real file store with a
// cheap KDF profile and a fixed clock.
func newTestVaultSvc(t *testing.T) (*vaultService, store.BlobStore, *metrics.Metrics) {
	t.Helper()
	blobs, err := store.NewFileBlobStore(t.TempDir(), logger.Nop())
	require.NoError(t, err)

	m := metrics.New()
	svc := NewVaultService(newTestVaultCrypto(t), blobs, workers.NewPool(2), m, logger.Nop()).(*vaultService)
	svc.now = func() time.Time { return time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC) }
	return svc, blobs, m
}

// ── Create / Load ────────────────────────────────────────────────────────────

func TestVaultService_CreateAndLoad(t *testing.T) {
	svc, _, _ := newTestVaultSvc(t)
	ctx := context.Background()

	content := models.VaultContent{"github": "hunter2", "pin": 1234}
	require.NoError(t, svc.Create(ctx, "main", "correct horse", content))

	vault, err := svc.Open(ctx, "main", "correct horse")
	require.NoError(t, err)
	assert.Equal(t, "hunter2", vault.Content["github"])
	assert.Equal(t, json.Number("1234"), vault.Content["pin"])
	assert.Equal(t, time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC), vault.SavedAt)

	loaded, err := svc.Load(ctx, "main", "correct horse")
	require.NoError(t, err)
	assert.Equal(t, vault.Content, loaded)
}

func TestVaultService_Create_AlreadyExists(t *testing.T) {
	svc, _, m := newTestVaultSvc(t)
	ctx := context.Background()

	require.NoError(t, svc.Create(ctx, "main", "pw", nil))
	err := svc.Create(ctx, "main", "pw", nil)

	assert.ErrorIs(t, err, ErrVaultExists)
	n, gerr := testutil.GatherAndCount(m.Registry(), "vault_operations_total")
	require.NoError(t, gerr)
	assert.Equal(t, 2, n) // create/ok and create/vault_exists
}

func TestVaultService_Create_EmptyContent(t *testing.T) {
	svc, _, _ := newTestVaultSvc(t)
	ctx := context.Background()

	require.NoError(t, svc.Create(ctx, "empty", "pw", nil))

	content, err := svc.Load(ctx, "empty", "pw")
	require.NoError(t, err)
	assert.Empty(t, content)
	assert.NotNil(t, content)
}

func TestVaultService_Load_WrongPassword(t *testing.T) {
	svc, _, _ := newTestVaultSvc(t)
	ctx := context.Background()
	require.NoError(t, svc.Save(ctx, "main", "right", models.VaultContent{"a": "b"}))

	_, err := svc.Load(ctx, "main", "wrong")

	assert.ErrorIs(t, err, crypto.ErrAuthenticationFailed)
}

func TestVaultService_Load_Missing(t *testing.T) {
	svc, _, _ := newTestVaultSvc(t)

	_, err := svc.Load(context.Background(), "nope", "pw")

	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestVaultService_Load_MalformedBlobSkipsKDF(t *testing.T) {
	ctrl := gomock.NewController(t)
	blobs := mock.NewMockBlobStore(ctrl)
	deriver := mock.NewMockKeyDeriver(ctrl)

	vc, err := crypto.NewVaultCrypto(crypto.WithKeyDeriver(deriver))
	require.NoError(t, err)
	svc := NewVaultService(vc, blobs, nil, nil, logger.Nop())

	blobs.EXPECT().Read(gomock.Any(), "main").Return([]byte(`{"version":2}`), nil)
	// no Derive call is expected

	_, err = svc.Load(context.Background(), "main", "pw")
	assert.ErrorIs(t, err, crypto.ErrUnsupportedVersion)
}

func TestVaultService_Save_StoresPrettyEnvelope(t *testing.T) {
	svc, blobs, _ := newTestVaultSvc(t)
	ctx := context.Background()

	require.NoError(t, svc.Save(ctx, "main", "pw", models.VaultContent{"k": "v"}))

	data, err := blobs.Read(ctx, "main")
	require.NoError(t, err)
	assert.Contains(t, string(data), "\n  \"version\": 1")
	assert.NotContains(t, string(data), `"k"`)

	env, err := crypto.Decode(data)
	require.NoError(t, err)
	assert.Equal(t, uint32(1), env.KDF.TimeCost)
}

func TestVaultService_Save_InvalidID(t *testing.T) {
	svc, _, _ := newTestVaultSvc(t)

	err := svc.Save(context.Background(), "../escape", "pw", nil)

	assert.ErrorIs(t, err, store.ErrInvalidBlobID)
}

func TestVaultService_Save_EmptyPassword(t *testing.T) {
	svc, blobs, _ := newTestVaultSvc(t)
	ctx := context.Background()

	err := svc.Save(ctx, "main", "   ", nil)
	assert.ErrorIs(t, err, crypto.ErrInvalidPassword)

	ok, err := blobs.Exists(ctx, "main")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestVaultService_Save_StoreFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	blobs := mock.NewMockBlobStore(ctrl)
	svc := NewVaultService(newTestVaultCrypto(t), blobs, nil, nil, logger.Nop())

	blobs.EXPECT().Write(gomock.Any(), "main", gomock.Any()).Return(store.ErrPermissionDenied)

	err := svc.Save(context.Background(), "main", "pw", nil)
	assert.ErrorIs(t, err, store.ErrPermissionDenied)
}

// ── SetEntry / ChangePassword ───────────────────────────────────────────────

func TestVaultService_SetEntry(t *testing.T) {
	svc, _, _ := newTestVaultSvc(t)
	ctx := context.Background()
	require.NoError(t, svc.Create(ctx, "main", "pw", models.VaultContent{"a": "1"}))

	require.NoError(t, svc.SetEntry(ctx, "main", "pw", "b", map[string]any{"user": "x"}))

	content, err := svc.Load(ctx, "main", "pw")
	require.NoError(t, err)
	assert.Equal(t, "1", content["a"])
	assert.Equal(t, map[string]any{"user": "x"}, content["b"])
}

func TestVaultService_SetEntry_InvalidKey(t *testing.T) {
	svc, _, _ := newTestVaultSvc(t)

	err := svc.SetEntry(context.Background(), "main", "pw", " ", "v")

	assert.ErrorIs(t, err, ErrInvalidEntryKey)
}

func TestVaultService_ChangePassword(t *testing.T) {
	svc, blobs, _ := newTestVaultSvc(t)
	ctx := context.Background()
	require.NoError(t, svc.Create(ctx, "main", "old", models.VaultContent{"k": "v"}))
	before, err := blobs.Read(ctx, "main")
	require.NoError(t, err)

	require.NoError(t, svc.ChangePassword(ctx, "main", "old", "new"))

	after, err := blobs.Read(ctx, "main")
	require.NoError(t, err)
	envBefore, err := crypto.Decode(before)
	require.NoError(t, err)
	envAfter, err := crypto.Decode(after)
	require.NoError(t, err)
	assert.NotEqual(t, envBefore.Salt, envAfter.Salt)
	assert.NotEqual(t, envBefore.Nonce, envAfter.Nonce)

	_, err = svc.Load(ctx, "main", "old")
	assert.ErrorIs(t, err, crypto.ErrAuthenticationFailed)

	content, err := svc.Load(ctx, "main", "new")
	require.NoError(t, err)
	assert.Equal(t, "v", content["k"])
}

func TestVaultService_ChangePassword_WrongOldKeepsBlob(t *testing.T) {
	svc, blobs, _ := newTestVaultSvc(t)
	ctx := context.Background()
	require.NoError(t, svc.Create(ctx, "main", "old", nil))
	before, err := blobs.Read(ctx, "main")
	require.NoError(t, err)

	err = svc.ChangePassword(ctx, "main", "wrong", "new")
	assert.ErrorIs(t, err, crypto.ErrAuthenticationFailed)

	after, err := blobs.Read(ctx, "main")
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestVaultService_ChangePassword_EmptyNewPassword(t *testing.T) {
	ctrl := gomock.NewController(t)
	blobs := mock.NewMockBlobStore(ctrl)
	svc := NewVaultService(newTestVaultCrypto(t), blobs, nil, nil, logger.Nop())

	err := svc.ChangePassword(context.Background(), "main", "old", "")

	assert.ErrorIs(t, err, crypto.ErrInvalidPassword)
}

// ── Inspect / documents ─────────────────────────────────────────────────────

func TestVaultService_Inspect(t *testing.T) {
	svc, _, _ := newTestVaultSvc(t)
	ctx := context.Background()
	require.NoError(t, svc.Create(ctx, "main", "pw", nil))

	header, err := svc.Inspect(ctx, "main")
	require.NoError(t, err)
	assert.Equal(t, 1, header.Version)
	assert.Equal(t, string(crypto.SuiteAES256GCM), header.CipherSuite)
	assert.Equal(t, "argon2id", header.KDF)
	assert.Equal(t, uint32(crypto.MinMemoryCostKiB), header.Params.MemoryCostKiB)
}

func TestVaultService_SealAndOpenDocument(t *testing.T) {
	svc, _, _ := newTestVaultSvc(t)
	ctx := context.Background()

	data, err := svc.SealDocument(ctx, "pw", models.VaultContent{"content": "plain", "n": 1})
	require.NoError(t, err)

	content, err := svc.OpenDocument(ctx, "pw", data)
	require.NoError(t, err)
	assert.Equal(t, "plain", content["content"])
	assert.Equal(t, json.Number("1"), content["n"])
}

func TestVaultService_ExistsAndList(t *testing.T) {
	svc, _, _ := newTestVaultSvc(t)
	ctx := context.Background()
	require.NoError(t, svc.Create(ctx, "work", "pw", nil))
	require.NoError(t, svc.Create(ctx, "home", "pw", nil))

	ok, err := svc.Exists(ctx, "work")
	require.NoError(t, err)
	assert.True(t, ok)

	infos, err := svc.List(ctx, "")
	require.NoError(t, err)
	require.Len(t, infos, 2)
	assert.Equal(t, "home", infos[0].ID)
}

func TestVaultService_CancelledContext(t *testing.T) {
	svc, _, _ := newTestVaultSvc(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := svc.Save(ctx, "main", "pw", nil)

	assert.ErrorIs(t, err, context.Canceled)
}

// ── helpers ─────────────────────────────────────────────────────────────────

func TestUnwrapRecord(t *testing.T) {
	tests := []struct {
		name    string
		doc     models.VaultContent
		wantRec bool
	}{
		{"record", models.VaultContent{"content": map[string]any{"a": "b"}, "savedAt": "2026-01-02T03:04:05Z"}, true},
		{"bad timestamp", models.VaultContent{"content": map[string]any{}, "savedAt": "yesterday"}, false},
		{"content is not an object", models.VaultContent{"content": "x", "savedAt": "2026-01-02T03:04:05Z"}, false},
		{"extra keys", models.VaultContent{"content": map[string]any{}, "savedAt": "2026-01-02T03:04:05Z", "x": 1}, false},
		{"plain document", models.VaultContent{"a": "b"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			vault := unwrapRecord(tt.doc)
			if tt.wantRec {
				assert.False(t, vault.SavedAt.IsZero())
				assert.Equal(t, models.VaultContent{"a": "b"}, vault.Content)
				return
			}
			assert.True(t, vault.SavedAt.IsZero())
			assert.Equal(t, tt.doc, vault.Content)
		})
	}
}

func TestKdfParams(t *testing.T) {
	p, err := kdfParams(config.KDF{})
	require.NoError(t, err)
	assert.Equal(t, crypto.DefaultKdfParameters(), p)

	p, err = kdfParams(config.KDF{TimeCost: 2, SaltLen: 32})
	require.NoError(t, err)
	assert.Equal(t, uint32(2), p.TimeCost)
	assert.Equal(t, uint32(32), p.SaltLen)
	assert.Equal(t, crypto.DefaultKdfParameters().MemoryCostKiB, p.MemoryCostKiB)

	_, err = kdfParams(config.KDF{MemoryCostKiB: 16})
	assert.ErrorIs(t, err, crypto.ErrInvalidParameters)
}

func TestNewVaultCrypto_UnknownSuite(t *testing.T) {
	_, err := NewVaultCrypto(config.StructuredConfig{Crypto: config.Crypto{CipherSuite: "ROT13"}}, logger.Nop())

	assert.ErrorIs(t, err, crypto.ErrUnsupportedCipher)
}

func TestResultLabel(t *testing.T) {
	assert.Equal(t, "ok", resultLabel(nil))
	assert.Equal(t, "vault_exists", resultLabel(ErrVaultExists))
	assert.Equal(t, "authentication_failed", resultLabel(crypto.ErrAuthenticationFailed))
	assert.Equal(t, "not_found", resultLabel(store.ErrNotFound))
	assert.Equal(t, "cancelled", resultLabel(context.Canceled))
}
