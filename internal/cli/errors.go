package cli

import "errors"

var (
	ErrPasswordMismatch    = errors.New("passwords do not match")
	ErrNoTerminal          = errors.New("no terminal to read the password from")
	ErrInvalidDocument     = errors.New("input is not a JSON object")
	ErrEntryNotFound       = errors.New("entry not found")
	ErrMirrorNotConfigured = errors.New("no mirror backend configured")
	ErrMirrorIncomplete    = errors.New("some vaults were not mirrored")
)
