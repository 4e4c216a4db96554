// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package crypto

import "errors"

// Sentinel errors returned by the vault envelope. Callers should match them
// with [errors.Is]; the wrapped message may carry extra detail for logs but
// never key material or plaintext.
var (
	// ErrInvalidPassword is returned by Seal when the password is empty or
	// consists only of whitespace.
	ErrInvalidPassword = errors.New("invalid password")

	// ErrInvalidParameters is returned when KDF parameters, key or nonce
	// sizes fail validation.
	ErrInvalidParameters = errors.New("invalid parameters")

	// ErrDerivationFailed is returned when the Argon2id primitive itself
	// fails. It says nothing about whether the password was right.
	ErrDerivationFailed = errors.New("key derivation failed")

	// ErrMalformedEnvelope is returned by Decode for input that is not a
	// structurally valid envelope.
	ErrMalformedEnvelope = errors.New("malformed envelope")

	// ErrUnsupportedVersion is returned for envelopes declaring a format
	// version this build does not implement.
	ErrUnsupportedVersion = errors.New("unsupported envelope version")

	// ErrUnsupportedCipher is returned for envelopes declaring an unknown
	// cipher suite or KDF.
	ErrUnsupportedCipher = errors.New("unsupported cipher")

	// ErrAuthenticationFailed is the single "wrong password or tampered
	// vault" signal.
	ErrAuthenticationFailed = errors.New("authentication failed")

	// ErrCorruptPayload is returned when the plaintext authenticated
	// correctly but is not a valid serialized vault document.
	ErrCorruptPayload = errors.New("corrupt payload")
)

// Kind maps err to a short stable label for logs, metrics and transport
// layers. Unknown errors map to "internal".
func Kind(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrInvalidPassword):
		return "invalid_password"
	case errors.Is(err, ErrUnsupportedVersion):
		return "unsupported_version"
	case errors.Is(err, ErrUnsupportedCipher):
		return "unsupported_cipher"
	case errors.Is(err, ErrMalformedEnvelope):
		return "malformed_envelope"
	case errors.Is(err, ErrInvalidParameters):
		return "invalid_parameters"
	case errors.Is(err, ErrDerivationFailed):
		return "derivation_failed"
	case errors.Is(err, ErrAuthenticationFailed):
		return "authentication_failed"
	case errors.Is(err, ErrCorruptPayload):
		return "corrupt_payload"
	default:
		return "internal"
	}
}
