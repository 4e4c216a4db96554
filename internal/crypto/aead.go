// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"fmt"

	"golang.org/x/crypto/chacha20poly1305"
)

// CipherSuite is the AEAD identifier stored in an envelope.
type CipherSuite string

const (
	// SuiteAES256GCM is the default suite.
	SuiteAES256GCM CipherSuite = "AES-256-GCM"
	// SuiteChaCha20Poly1305 is offered for hosts without AES hardware.
	SuiteChaCha20Poly1305 CipherSuite = "ChaCha20-Poly1305"
)

const (
	// KeySize is the AEAD key length in bytes for every supported suite.
	KeySize = 32
	// NonceSize is the nonce length in bytes for every supported suite.
	NonceSize = 12
	// TagSize is the authentication tag length in bytes.
	TagSize = 16
)

// SupportedSuites lists the suites this build can open.
func SupportedSuites() []CipherSuite {
	return []CipherSuite{SuiteAES256GCM, SuiteChaCha20Poly1305}
}

// NewAEAD returns the [AEAD] implementation for suite or an error wrapping
// [ErrUnsupportedCipher].
func NewAEAD(suite CipherSuite) (AEAD, error) {
	switch suite {
	case SuiteAES256GCM:
		return &aeadCipher{suite: suite, newAEAD: newAESGCM}, nil
	case SuiteChaCha20Poly1305:
		return &aeadCipher{suite: suite, newAEAD: chacha20poly1305.New}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedCipher, suite)
	}
}

func newAESGCM(key []byte) (cipher.AEAD, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}

// aeadCipher adapts a standard [cipher.AEAD] constructor to [AEAD].
type aeadCipher struct {
	suite   CipherSuite
	newAEAD func(key []byte) (cipher.AEAD, error)
}

// Suite implements [AEAD].
func (c *aeadCipher) Suite() CipherSuite {
	return c.suite
}

// Seal implements [AEAD]. The returned slice is ciphertext || tag.
func (c *aeadCipher) Seal(key, nonce, plaintext, associatedData []byte) ([]byte, error) {
	aead, err := c.build(key, nonce)
	if err != nil {
		return nil, err
	}
	return aead.Seal(nil, nonce, plaintext, associatedData), nil
}

// Open implements [AEAD]. Nothing is returned unless the tag verifies.
func (c *aeadCipher) Open(key, nonce, ciphertext, associatedData []byte) ([]byte, error) {
	aead, err := c.build(key, nonce)
	if err != nil {
		return nil, err
	}
	if len(ciphertext) < aead.Overhead() {
		return nil, ErrAuthenticationFailed
	}

	plaintext, err := aead.Open(nil, nonce, ciphertext, associatedData)
	if err != nil {
		return nil, ErrAuthenticationFailed
	}
	return plaintext, nil
}

func (c *aeadCipher) build(key, nonce []byte) (cipher.AEAD, error) {
	if len(key) != KeySize {
		return nil, fmt.Errorf("%w: key is %d bytes, %s requires %d", ErrInvalidParameters, len(key), c.suite, KeySize)
	}
	if len(nonce) != NonceSize {
		return nil, fmt.Errorf("%w: nonce is %d bytes, %s requires %d", ErrInvalidParameters, len(nonce), c.suite, NonceSize)
	}

	aead, err := c.newAEAD(key)
	if err != nil {
		return nil, fmt.Errorf("%w: create %s: %v", ErrInvalidParameters, c.suite, err)
	}
	return aead, nil
}
