// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

// EnvelopeJSON is the wire form of a sealed vault. Storage backends persist
// and transport it byte-for-byte; all binary fields are standard base64.
//
//	{
//	  "version": 1,
//	  "cipherSuite": "AES-256-GCM",
//	  "kdf": {"name": "argon2id", "params": {"timeCost": 3, "memoryCostKiB": 65536, "parallelism": 1, "outputLen": 32, "saltLen": 16}},
//	  "salt": "<base64>",
//	  "nonce": "<base64>",
//	  "ciphertext": "<base64>"
//	}
type EnvelopeJSON struct {
	Version     int     `json:"version"`
	CipherSuite string  `json:"cipherSuite"`
	KDF         KDFJSON `json:"kdf"`
	Salt        string  `json:"salt"`
	Nonce       string  `json:"nonce"`
	// Ciphertext includes the appended authentication tag.
	Ciphertext string `json:"ciphertext"`
}

// KDFJSON names the key derivation function and its parameters.
type KDFJSON struct {
	Name   string        `json:"name"`
	Params KDFParamsJSON `json:"params"`
}

// KDFParamsJSON carries the Argon2id cost parameters used for one seal.
type KDFParamsJSON struct {
	TimeCost      uint32 `json:"timeCost"`
	MemoryCostKiB uint32 `json:"memoryCostKiB"`
	Parallelism   uint8  `json:"parallelism"`
	OutputLen     uint32 `json:"outputLen"`
	SaltLen       uint32 `json:"saltLen"`
}

// EnvelopeHeader is the non-secret summary of a sealed vault, readable
// without the password.
type EnvelopeHeader struct {
	Version        int           `json:"version"`
	CipherSuite    string        `json:"cipherSuite"`
	KDF            string        `json:"kdf"`
	Params         KDFParamsJSON `json:"params"`
	CiphertextSize int           `json:"ciphertextSize"`
}
