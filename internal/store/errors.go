package store

import (
	"errors"
	"fmt"
)

// Sentinel errors returned by every [BlobStore] implementation. Callers
// should use [errors.Is] to match against these values.
var (
	// ErrNotFound is returned when no blob exists under the requested id.
	ErrNotFound = errors.New("blob not found")

	// ErrPermissionDenied is returned when the backend refuses access.
	ErrPermissionDenied = errors.New("permission denied")

	// ErrInvalidBlobID is returned for ids outside the allowed alphabet or
	// length.
	ErrInvalidBlobID = errors.New("invalid blob id")

	// ErrIO wraps any other backend failure.
	ErrIO = errors.New("storage i/o error")

	// ErrUnknownBackend is returned by the factory for an unsupported
	// backend name.
	ErrUnknownBackend = errors.New("unknown storage backend")
)

// Low-level database operation errors. They are always wrapped together
// with [ErrIO] or one of the other sentinels above.
var (
	// ErrBuildingSQLQuery is returned when constructing a parameterised SQL
	// query fails.
	ErrBuildingSQLQuery = errors.New("error building sql query")

	// ErrExecutingQuery is returned when executing a SELECT fails.
	ErrExecutingQuery = errors.New("error executing sql query")

	// ErrExecutingStatement is returned when executing an INSERT fails.
	ErrExecutingStatement = errors.New("failed to executing statement")

	// ErrScanningRow is returned when scanning a single result row fails.
	ErrScanningRow = errors.New("failed to scan blob row")

	// ErrScanningRows is returned when iterating a result set fails.
	ErrScanningRows = errors.New("failed to scan blob rows")
)

// ErrorLabel maps err to a short label for logs and metrics.
func ErrorLabel(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrPermissionDenied):
		return "permission_denied"
	case errors.Is(err, ErrInvalidBlobID):
		return "invalid_id"
	default:
		return "io"
	}
}

func ioError(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrIO, op, err)
}
