// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package crypto

import "context"

//go:generate mockgen -source=interfaces.go -destination=../mock/crypto_mock.go -package=mock

// RandomSource supplies cryptographically secure random bytes for salts and
// nonces.
type RandomSource interface {
	// RandomBytes returns n fresh random bytes or an error if the source
	// could not deliver them.
	RandomBytes(n int) ([]byte, error)
}

// KeyDeriver turns a password into raw AEAD key bytes.
//
// Derive is deterministic: the same password, salt and params always yield
// the same key. It must honour params exactly and never substitute defaults.
// A failure means the primitive broke, not that the password is wrong.
type KeyDeriver interface {
	Derive(ctx context.Context, password, salt []byte, params KdfParameters) ([]byte, error)
}

// AEAD performs authenticated encryption with associated data for one
// cipher suite.
type AEAD interface {
	// Suite reports the cipher suite identifier written into envelopes.
	Suite() CipherSuite

	// Seal encrypts plaintext and appends the authentication tag.
	Seal(key, nonce, plaintext, associatedData []byte) ([]byte, error)

	// Open verifies the tag and only then returns the plaintext. Every
	// verification failure is reported as [ErrAuthenticationFailed].
	Open(key, nonce, ciphertext, associatedData []byte) ([]byte, error)
}
