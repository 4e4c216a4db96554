// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package app assembles the blob server and the vault CLI from the
// configured stores, services and transports.
//
// The Msg* constants are the human-readable lines the CLI prints for an
// error. Keeping them in one place keeps the wording consistent across
// commands.
package app

import (
	"context"
	"errors"

	"github.com/MKhiriev/go-vault-envelope/internal/adapter"
	"github.com/MKhiriev/go-vault-envelope/internal/crypto"
	"github.com/MKhiriev/go-vault-envelope/internal/service"
	"github.com/MKhiriev/go-vault-envelope/internal/store"
)

const (
	// MsgWrongPassword covers a wrong password and a tampered vault alike.
	// The two cannot be told apart.
	MsgWrongPassword = "wrong password or the vault has been modified"

	// MsgEmptyPassword is printed when a new password is blank.
	MsgEmptyPassword = "password must not be empty"

	// MsgNotAVault is printed for bytes that are not a vault envelope.
	MsgNotAVault = "file is not a valid vault"

	// MsgUnsupportedVault is printed for envelopes written by a newer or
	// different build.
	MsgUnsupportedVault = "vault format is not supported by this version"

	// MsgCorruptVault is printed when decryption succeeded but the content
	// is not a vault document.
	MsgCorruptVault = "vault content is corrupt"

	// MsgVaultNotFound is printed when no vault exists under the id.
	MsgVaultNotFound = "vault not found"

	// MsgVaultExists is printed by init for an id that is taken.
	MsgVaultExists = "vault already exists"

	// MsgInvalidName is printed for ids and entry keys outside the allowed
	// alphabet.
	MsgInvalidName = "invalid vault id or entry key"

	// MsgAccessDenied is printed when the store refuses access.
	MsgAccessDenied = "access denied"

	// MsgUnauthorized is printed when the blob server rejects the API key.
	MsgUnauthorized = "blob server rejected the api key"

	// MsgStorageError is printed for any other store failure.
	MsgStorageError = "storage error, see the log file for details"

	// MsgCancelled is printed when the command was interrupted.
	MsgCancelled = "cancelled"

	// MsgInternalError is printed for anything unexpected.
	MsgInternalError = "internal error, see the log file for details"
)

// UserMessage returns the line the CLI prints for err.
func UserMessage(err error) string {
	switch {
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return MsgCancelled
	case errors.Is(err, crypto.ErrAuthenticationFailed):
		return MsgWrongPassword
	case errors.Is(err, crypto.ErrInvalidPassword):
		return MsgEmptyPassword
	case errors.Is(err, crypto.ErrUnsupportedVersion), errors.Is(err, crypto.ErrUnsupportedCipher):
		return MsgUnsupportedVault
	case errors.Is(err, crypto.ErrMalformedEnvelope):
		return MsgNotAVault
	case errors.Is(err, crypto.ErrCorruptPayload):
		return MsgCorruptVault
	case errors.Is(err, service.ErrVaultExists):
		return MsgVaultExists
	case errors.Is(err, service.ErrInvalidEntryKey), errors.Is(err, store.ErrInvalidBlobID):
		return MsgInvalidName
	case errors.Is(err, store.ErrNotFound):
		return MsgVaultNotFound
	case errors.Is(err, store.ErrPermissionDenied):
		return MsgAccessDenied
	case errors.Is(err, adapter.ErrUnauthorized):
		return MsgUnauthorized
	case errors.Is(err, store.ErrIO):
		return MsgStorageError
	default:
		return MsgInternalError
	}
}
