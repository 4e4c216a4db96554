// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package crypto

import "fmt"

// KdfAlgorithm identifies the password-based key derivation function.
type KdfAlgorithm string

// KdfArgon2id is the only derivation function this build implements.
const KdfArgon2id KdfAlgorithm = "argon2id"

// Bounds enforced by [NewKdfParameters] and by [Decode] on every envelope.
const (
	// MinMemoryCostKiB is the lowest accepted Argon2id memory cost (8 MiB).
	// Anything cheaper is trivially parallelised on a GPU.
	MinMemoryCostKiB = 8 * 1024
	// MaxMemoryCostKiB caps attacker-controlled envelopes at 4 GiB.
	MaxMemoryCostKiB = 4 * 1024 * 1024
	// MaxTimeCost caps the number of Argon2id passes.
	MaxTimeCost = 64
	// MinSaltLen is the shortest accepted salt in bytes.
	MinSaltLen = 16
	// MaxSaltLen is the longest accepted salt in bytes.
	MaxSaltLen = 64
)

// KdfParameters is an immutable description of how a password is turned into
// an AEAD key. A sealed [Envelope] always carries the parameters that were
// actually used, so changing [DefaultKdfParameters] never breaks old vaults.
type KdfParameters struct {
	Algorithm     KdfAlgorithm
	TimeCost      uint32
	MemoryCostKiB uint32
	Parallelism   uint8
	OutputLen     uint32
	SaltLen       uint32
}

// DefaultKdfParameters returns the profile used for new seals when the caller
// does not pick one: 3 passes, 64 MiB, 1 lane, 32-byte key, 16-byte salt.
func DefaultKdfParameters() KdfParameters {
	return KdfParameters{
		Algorithm:     KdfArgon2id,
		TimeCost:      3,
		MemoryCostKiB: 64 * 1024,
		Parallelism:   1,
		OutputLen:     KeySize,
		SaltLen:       16,
	}
}

// NewKdfParameters builds a validated Argon2id parameter set.
// It returns an error wrapping [ErrInvalidParameters] when any bound is violated.
func NewKdfParameters(timeCost, memoryCostKiB uint32, parallelism uint8, outputLen, saltLen uint32) (KdfParameters, error) {
	p := KdfParameters{
		Algorithm:     KdfArgon2id,
		TimeCost:      timeCost,
		MemoryCostKiB: memoryCostKiB,
		Parallelism:   parallelism,
		OutputLen:     outputLen,
		SaltLen:       saltLen,
	}
	if err := p.Validate(); err != nil {
		return KdfParameters{}, err
	}
	return p, nil
}

// Validate checks p against the safety bounds.
func (p KdfParameters) Validate() error {
	switch {
	case p.Algorithm != KdfArgon2id:
		return fmt.Errorf("%w: unknown algorithm %q", ErrInvalidParameters, p.Algorithm)
	case p.TimeCost < 1 || p.TimeCost > MaxTimeCost:
		return fmt.Errorf("%w: time cost %d out of range [1, %d]", ErrInvalidParameters, p.TimeCost, MaxTimeCost)
	case p.MemoryCostKiB < MinMemoryCostKiB || p.MemoryCostKiB > MaxMemoryCostKiB:
		return fmt.Errorf("%w: memory cost %d KiB out of range [%d, %d]", ErrInvalidParameters, p.MemoryCostKiB, MinMemoryCostKiB, MaxMemoryCostKiB)
	case p.Parallelism < 1:
		return fmt.Errorf("%w: parallelism must be at least 1", ErrInvalidParameters)
	case p.OutputLen != KeySize:
		return fmt.Errorf("%w: output length %d, cipher requires %d", ErrInvalidParameters, p.OutputLen, KeySize)
	case p.SaltLen < MinSaltLen || p.SaltLen > MaxSaltLen:
		return fmt.Errorf("%w: salt length %d out of range [%d, %d]", ErrInvalidParameters, p.SaltLen, MinSaltLen, MaxSaltLen)
	}
	return nil
}
