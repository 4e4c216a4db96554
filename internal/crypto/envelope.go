// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package crypto

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"slices"

	"github.com/MKhiriev/go-vault-envelope/models"
)

// EnvelopeVersion is the only format version this build reads and writes.
const EnvelopeVersion = 1

// associatedDataContext domain-separates envelope headers from any other
// associated data a key might ever authenticate.
const associatedDataContext = "vault-envelope"

var b64 = base64.StdEncoding.Strict()

// Envelope is a decoded, structurally valid sealed vault. It is
// self-describing: the password is the only extra input needed to open it.
type Envelope struct {
	Version     int
	CipherSuite CipherSuite
	KDF         KdfParameters
	Salt        []byte
	Nonce       []byte
	// Ciphertext includes the appended authentication tag.
	Ciphertext []byte
}

// associatedHeader is the canonical form of the header fields bound into
// the authentication tag. Field order is fixed by the struct.
type associatedHeader struct {
	Context       string `json:"context"`
	Version       int    `json:"version"`
	CipherSuite   string `json:"cipherSuite"`
	KDF           string `json:"kdf"`
	TimeCost      uint32 `json:"timeCost"`
	MemoryCostKiB uint32 `json:"memoryCostKiB"`
	Parallelism   uint8  `json:"parallelism"`
	OutputLen     uint32 `json:"outputLen"`
	SaltLen       uint32 `json:"saltLen"`
}

// AssociatedData returns the header bytes authenticated alongside the
// ciphertext. Swapping any header field between envelopes breaks the tag.
func (e *Envelope) AssociatedData() []byte {
	ad, _ := json.Marshal(associatedHeader{
		Context:       associatedDataContext,
		Version:       e.Version,
		CipherSuite:   string(e.CipherSuite),
		KDF:           string(e.KDF.Algorithm),
		TimeCost:      e.KDF.TimeCost,
		MemoryCostKiB: e.KDF.MemoryCostKiB,
		Parallelism:   e.KDF.Parallelism,
		OutputLen:     e.KDF.OutputLen,
		SaltLen:       e.KDF.SaltLen,
	})
	return ad
}

// Header returns the non-secret summary of e.
func (e *Envelope) Header() models.EnvelopeHeader {
	return models.EnvelopeHeader{
		Version:        e.Version,
		CipherSuite:    string(e.CipherSuite),
		KDF:            string(e.KDF.Algorithm),
		Params:         paramsToJSON(e.KDF),
		CiphertextSize: len(e.Ciphertext),
	}
}

// Wire converts e to its transport form.
func (e *Envelope) Wire() models.EnvelopeJSON {
	return models.EnvelopeJSON{
		Version:     e.Version,
		CipherSuite: string(e.CipherSuite),
		KDF: models.KDFJSON{
			Name:   string(e.KDF.Algorithm),
			Params: paramsToJSON(e.KDF),
		},
		Salt:       b64.EncodeToString(e.Salt),
		Nonce:      b64.EncodeToString(e.Nonce),
		Ciphertext: b64.EncodeToString(e.Ciphertext),
	}
}

// Encode serializes e into compact transport bytes.
func Encode(e *Envelope) ([]byte, error) {
	if err := e.validate(); err != nil {
		return nil, err
	}
	return json.Marshal(e.Wire())
}

// EncodeIndent serializes e as indented JSON, the layout used for vault
// files meant to be read by people.
func EncodeIndent(e *Envelope) ([]byte, error) {
	if err := e.validate(); err != nil {
		return nil, err
	}
	return json.MarshalIndent(e.Wire(), "", "  ")
}

// Decode parses transport bytes into an [Envelope]. Every structural check
// happens here, so malformed input never reaches the key deriver or the
// AEAD. An unknown version is rejected before the rest is interpreted.
func Decode(data []byte) (*Envelope, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil || fields == nil {
		return nil, fmt.Errorf("%w: not a JSON object", ErrMalformedEnvelope)
	}

	rawVersion, ok := fields["version"]
	if !ok {
		return nil, fmt.Errorf("%w: missing version", ErrMalformedEnvelope)
	}
	var version int
	if err := json.Unmarshal(rawVersion, &version); err != nil {
		return nil, fmt.Errorf("%w: version is not an integer", ErrMalformedEnvelope)
	}
	if version != EnvelopeVersion {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedVersion, version)
	}
	if err := checkKeys(fields); err != nil {
		return nil, err
	}

	var wire models.EnvelopeJSON
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&wire); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedEnvelope, err)
	}
	if dec.More() {
		return nil, fmt.Errorf("%w: trailing data", ErrMalformedEnvelope)
	}

	return FromWire(wire)
}

var (
	envelopeKeys = []string{"version", "cipherSuite", "kdf", "salt", "nonce", "ciphertext"}
	kdfKeys      = []string{"name", "params"}
	paramsKeys   = []string{"timeCost", "memoryCostKiB", "parallelism", "outputLen", "saltLen"}
)

// checkKeys rejects object keys outside the wire format, compared exactly.
// encoding/json matches struct fields case-insensitively, so "Salt" would
// otherwise decode as "salt".
func checkKeys(top map[string]json.RawMessage) error {
	if err := exactKeys("envelope", top, envelopeKeys); err != nil {
		return err
	}
	rawKDF, ok := top["kdf"]
	if !ok {
		return nil
	}

	var kdf map[string]json.RawMessage
	if err := json.Unmarshal(rawKDF, &kdf); err != nil {
		return fmt.Errorf("%w: kdf is not an object", ErrMalformedEnvelope)
	}
	if err := exactKeys("kdf", kdf, kdfKeys); err != nil {
		return err
	}
	rawParams, ok := kdf["params"]
	if !ok {
		return nil
	}

	var params map[string]json.RawMessage
	if err := json.Unmarshal(rawParams, &params); err != nil {
		return fmt.Errorf("%w: kdf params is not an object", ErrMalformedEnvelope)
	}
	return exactKeys("kdf params", params, paramsKeys)
}

func exactKeys(object string, m map[string]json.RawMessage, allowed []string) error {
	for key := range m {
		if !slices.Contains(allowed, key) {
			return fmt.Errorf("%w: unknown %s field %q", ErrMalformedEnvelope, object, key)
		}
	}
	return nil
}

// FromWire validates an already unmarshalled wire envelope.
func FromWire(wire models.EnvelopeJSON) (*Envelope, error) {
	if wire.Version != EnvelopeVersion {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedVersion, wire.Version)
	}

	suite := CipherSuite(wire.CipherSuite)
	if !isSupportedSuite(suite) {
		return nil, fmt.Errorf("%w: cipher suite %q", ErrUnsupportedCipher, wire.CipherSuite)
	}
	if KdfAlgorithm(wire.KDF.Name) != KdfArgon2id {
		return nil, fmt.Errorf("%w: kdf %q", ErrUnsupportedCipher, wire.KDF.Name)
	}

	params := KdfParameters{
		Algorithm:     KdfArgon2id,
		TimeCost:      wire.KDF.Params.TimeCost,
		MemoryCostKiB: wire.KDF.Params.MemoryCostKiB,
		Parallelism:   wire.KDF.Params.Parallelism,
		OutputLen:     wire.KDF.Params.OutputLen,
		SaltLen:       wire.KDF.Params.SaltLen,
	}
	if err := params.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedEnvelope, err)
	}

	salt, err := b64.DecodeString(wire.Salt)
	if err != nil {
		return nil, fmt.Errorf("%w: salt: %v", ErrMalformedEnvelope, err)
	}
	nonce, err := b64.DecodeString(wire.Nonce)
	if err != nil {
		return nil, fmt.Errorf("%w: nonce: %v", ErrMalformedEnvelope, err)
	}
	ciphertext, err := b64.DecodeString(wire.Ciphertext)
	if err != nil {
		return nil, fmt.Errorf("%w: ciphertext: %v", ErrMalformedEnvelope, err)
	}

	env := &Envelope{
		Version:     wire.Version,
		CipherSuite: suite,
		KDF:         params,
		Salt:        salt,
		Nonce:       nonce,
		Ciphertext:  ciphertext,
	}
	if err = env.validate(); err != nil {
		return nil, err
	}
	return env, nil
}

// validate checks declared against actual lengths.
func (e *Envelope) validate() error {
	switch {
	case e.Version != EnvelopeVersion:
		return fmt.Errorf("%w: %d", ErrUnsupportedVersion, e.Version)
	case !isSupportedSuite(e.CipherSuite):
		return fmt.Errorf("%w: cipher suite %q", ErrUnsupportedCipher, e.CipherSuite)
	case uint32(len(e.Salt)) != e.KDF.SaltLen:
		return fmt.Errorf("%w: salt is %d bytes, header declares %d", ErrMalformedEnvelope, len(e.Salt), e.KDF.SaltLen)
	case len(e.Nonce) != NonceSize:
		return fmt.Errorf("%w: nonce is %d bytes, want %d", ErrMalformedEnvelope, len(e.Nonce), NonceSize)
	case len(e.Ciphertext) < TagSize:
		return fmt.Errorf("%w: ciphertext shorter than tag", ErrMalformedEnvelope)
	}
	if err := e.KDF.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrMalformedEnvelope, err)
	}
	return nil
}

func isSupportedSuite(suite CipherSuite) bool {
	for _, s := range SupportedSuites() {
		if s == suite {
			return true
		}
	}
	return false
}

func paramsToJSON(p KdfParameters) models.KDFParamsJSON {
	return models.KDFParamsJSON{
		TimeCost:      p.TimeCost,
		MemoryCostKiB: p.MemoryCostKiB,
		Parallelism:   p.Parallelism,
		OutputLen:     p.OutputLen,
		SaltLen:       p.SaltLen,
	}
}
