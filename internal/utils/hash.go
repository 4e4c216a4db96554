package utils

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"hash"
	"sync"
)

// ChecksumHeader carries the hex SHA-256 of a blob body between the blob
// server and its clients.
const ChecksumHeader = "X-Blob-Checksum"

// hasherPool is a package-level pool of reusable SHA-256 hash instances.
var hasherPool = sync.Pool{
	New: func() any {
		return sha256.New()
	},
}

// Checksum returns the hex-encoded SHA-256 digest of data using a hasher
// pulled from the pool.
func Checksum(data []byte) string {
	h := hasherPool.Get().(hash.Hash)
	h.Reset()

	h.Write(data)
	sum := h.Sum(nil)

	h.Reset()
	hasherPool.Put(h)

	return hex.EncodeToString(sum)
}

// VerifyChecksum reports whether checksum is the [Checksum] of data. An empty
// checksum is accepted so that older clients keep working.
func VerifyChecksum(data []byte, checksum string) bool {
	if checksum == "" {
		return true
	}
	return subtle.ConstantTimeCompare([]byte(Checksum(data)), []byte(checksum)) == 1
}
