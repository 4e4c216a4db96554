// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package crypto implements the vault envelope: a versioned, self-describing
// container that encrypts a JSON document under a key derived from a
// password.
//
// Sealing derives a 256-bit key with Argon2id from the password and a fresh
// random salt, then encrypts the serialized document with an AEAD cipher
// (AES-256-GCM by default, ChaCha20-Poly1305 optionally) under a fresh nonce.
// The envelope header (version, cipher suite, KDF name and parameters) is
// bound to the ciphertext as associated data, so editing any of it is
// detected on open.
//
// Opening always uses the parameters recorded in the envelope, never the
// current defaults, so vaults sealed with older profiles keep opening.
//
// A wrong password and a tampered envelope are reported identically, as
// [ErrAuthenticationFailed]. Structural problems are caught earlier by
// [Decode] and reported as [ErrMalformedEnvelope], [ErrUnsupportedVersion]
// or [ErrUnsupportedCipher].
package crypto
