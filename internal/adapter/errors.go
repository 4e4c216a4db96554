package adapter

import "errors"

var (
	// ErrUnauthorized is returned when the server rejects the API key or the
	// session token.
	ErrUnauthorized = errors.New("client unauthorized")

	// ErrChecksumMismatch is returned when a downloaded blob does not match
	// the checksum the server sent with it.
	ErrChecksumMismatch = errors.New("blob checksum mismatch")
)
