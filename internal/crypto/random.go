// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package crypto

import (
	"crypto/rand"
	"fmt"
	"io"

	"github.com/awnumar/memguard"
)

// systemRandom reads from the operating system CSPRNG.
type systemRandom struct {
	reader io.Reader
}

// NewSystemRandom returns a [RandomSource] backed by crypto/rand.
func NewSystemRandom() RandomSource {
	return &systemRandom{reader: rand.Reader}
}

// RandomBytes implements [RandomSource].
func (s *systemRandom) RandomBytes(n int) ([]byte, error) {
	if n <= 0 {
		return nil, fmt.Errorf("%w: random length %d", ErrInvalidParameters, n)
	}
	b := make([]byte, n)
	if _, err := io.ReadFull(s.reader, b); err != nil {
		return nil, fmt.Errorf("read random bytes: %w", err)
	}
	return b, nil
}

// wipe zeroes sensitive buffers in place. Best effort: copies made by the
// runtime or by callers are out of reach.
func wipe(bufs ...[]byte) {
	for _, b := range bufs {
		if len(b) > 0 {
			memguard.WipeBytes(b)
		}
	}
}
