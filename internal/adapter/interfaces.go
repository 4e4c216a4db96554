// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package adapter is the client side of the blob server.
//
// [RemoteStore] implements [store.BlobStore] over HTTP so that the vault
// service can keep its envelopes on a blob server exactly as it would in a
// local directory. Non-2xx responses are mapped back to the store sentinel
// errors by mapHTTPError, so callers use [errors.Is] as usual.
package adapter

import (
	"context"

	"github.com/MKhiriev/go-vault-envelope/internal/store"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/adapter_mock.go -package=mock

// RemoteStore is a [store.BlobStore] backed by a blob server session.
//
// The value owns its session token; nothing is cached at package level.
// Blob operations connect on first use and reconnect once when the token
// has expired.
type RemoteStore interface {
	store.BlobStore

	// Connect exchanges the configured API key for a session token.
	Connect(ctx context.Context) error

	// Disconnect forgets the session token.
	Disconnect()

	// Connected reports whether a session token is held.
	Connected() bool

	// Namespace returns the subject of the current token, or "" when
	// disconnected.
	Namespace() string
}
