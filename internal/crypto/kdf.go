// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package crypto

import (
	"context"
	"fmt"

	"golang.org/x/crypto/argon2"
)

// argon2idDeriver is the default [KeyDeriver].
type argon2idDeriver struct {
	// idKey is swapped in tests to simulate primitive failures.
	idKey func(password, salt []byte, time, memory uint32, threads uint8, keyLen uint32) []byte
	// discarded, when set, is called after a key finished past cancellation
	// has been wiped.
	discarded func(key []byte)
}

// NewArgon2idDeriver returns a [KeyDeriver] running Argon2id with exactly the
// parameters it is given.
func NewArgon2idDeriver() KeyDeriver {
	return &argon2idDeriver{idKey: argon2.IDKey}
}

type deriveResult struct {
	key []byte
	err error
}

// Derive implements [KeyDeriver]. The derivation runs on its own goroutine so
// that a cancelled ctx returns promptly; a key finished after cancellation is
// wiped instead of being handed to anyone.
func (d *argon2idDeriver) Derive(ctx context.Context, password, salt []byte, params KdfParameters) ([]byte, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	if uint32(len(salt)) != params.SaltLen {
		return nil, fmt.Errorf("%w: salt is %d bytes, params require %d", ErrInvalidParameters, len(salt), params.SaltLen)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// The goroutine owns its own copies, the caller may wipe its buffers as
	// soon as Derive returns.
	pw := append([]byte(nil), password...)
	s := append([]byte(nil), salt...)

	done := make(chan deriveResult, 1)
	go func() {
		defer wipe(pw)
		done <- d.run(pw, s, params)
	}()

	select {
	case res := <-done:
		return res.key, res.err
	case <-ctx.Done():
		go d.discard(done)
		return nil, ctx.Err()
	}
}

// discard waits for an abandoned derivation and wipes its key.
func (d *argon2idDeriver) discard(done <-chan deriveResult) {
	res := <-done
	wipe(res.key)
	if d.discarded != nil {
		d.discarded(res.key)
	}
}

func (d *argon2idDeriver) run(password, salt []byte, params KdfParameters) (res deriveResult) {
	defer func() {
		if r := recover(); r != nil {
			res = deriveResult{err: fmt.Errorf("%w: %v", ErrDerivationFailed, r)}
		}
	}()

	key := d.idKey(password, salt, params.TimeCost, params.MemoryCostKiB, params.Parallelism, params.OutputLen)
	if uint32(len(key)) != params.OutputLen {
		wipe(key)
		return deriveResult{err: fmt.Errorf("%w: primitive returned %d bytes", ErrDerivationFailed, len(key))}
	}
	return deriveResult{key: key}
}
