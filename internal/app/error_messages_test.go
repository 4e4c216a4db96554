package app

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/MKhiriev/go-vault-envelope/internal/adapter"
	"github.com/MKhiriev/go-vault-envelope/internal/crypto"
	"github.com/MKhiriev/go-vault-envelope/internal/service"
	"github.com/MKhiriev/go-vault-envelope/internal/store"
)

func TestUserMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"wrong password", crypto.ErrAuthenticationFailed, MsgWrongPassword},
		{"wrapped wrong password", fmt.Errorf("open: %w", crypto.ErrAuthenticationFailed), MsgWrongPassword},
		{"blank password", crypto.ErrInvalidPassword, MsgEmptyPassword},
		{"newer version", crypto.ErrUnsupportedVersion, MsgUnsupportedVault},
		{"unknown cipher", crypto.ErrUnsupportedCipher, MsgUnsupportedVault},
		{"garbage", crypto.ErrMalformedEnvelope, MsgNotAVault},
		{"corrupt", crypto.ErrCorruptPayload, MsgCorruptVault},
		{"exists", service.ErrVaultExists, MsgVaultExists},
		{"bad key", service.ErrInvalidEntryKey, MsgInvalidName},
		{"bad id", store.ErrInvalidBlobID, MsgInvalidName},
		{"missing", store.ErrNotFound, MsgVaultNotFound},
		{"denied", store.ErrPermissionDenied, MsgAccessDenied},
		{"unauthorized", adapter.ErrUnauthorized, MsgUnauthorized},
		{"io", fmt.Errorf("%w: disk full", store.ErrIO), MsgStorageError},
		{"cancelled", context.Canceled, MsgCancelled},
		{"unknown", errors.New("boom"), MsgInternalError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, UserMessage(tt.err))
		})
	}
}
