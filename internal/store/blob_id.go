package store

import (
	"fmt"
	"regexp"
	"strings"
)

const (
	// MaxBlobIDLen is the longest id accepted from callers.
	MaxBlobIDLen = 128
	// maxKeyLen is the longest key a backend accepts. It leaves room for a
	// namespace in front of a caller id.
	maxKeyLen = 255
	// maxNamespaceLen is the longest namespace accepted by [Namespaced].
	maxNamespaceLen = 64
)

var (
	keyPattern       = regexp.MustCompile(`^[A-Za-z0-9_-][A-Za-z0-9._-]*$`)
	namespacePattern = regexp.MustCompile(`^[A-Za-z0-9-]+$`)
)

// ValidateBlobID checks a caller supplied id: 1 to [MaxBlobIDLen] characters
// from [A-Za-z0-9._-], not starting with a dot.
func ValidateBlobID(id string) error {
	if len(id) > MaxBlobIDLen {
		return fmt.Errorf("%w: longer than %d characters", ErrInvalidBlobID, MaxBlobIDLen)
	}
	return validateKey(id)
}

// validateKey is the backend-level check. It keeps keys safe to use as file
// names and object keys.
func validateKey(key string) error {
	if key == "" {
		return fmt.Errorf("%w: empty", ErrInvalidBlobID)
	}
	if len(key) > maxKeyLen {
		return fmt.Errorf("%w: longer than %d characters", ErrInvalidBlobID, maxKeyLen)
	}
	if !keyPattern.MatchString(key) {
		return fmt.Errorf("%w: %q", ErrInvalidBlobID, key)
	}
	return nil
}

// validatePrefix accepts the empty prefix and any prefix of a valid key.
func validatePrefix(prefix string) error {
	if prefix == "" {
		return nil
	}
	if len(prefix) > maxKeyLen || !keyPattern.MatchString(prefix) {
		return fmt.Errorf("%w: prefix %q", ErrInvalidBlobID, prefix)
	}
	return nil
}

// ValidateNamespace checks a namespace for [Namespaced]. Namespaces never
// contain dots, so the first dot of a stored key separates namespace and id.
func ValidateNamespace(ns string) error {
	if ns == "" || len(ns) > maxNamespaceLen || !namespacePattern.MatchString(ns) {
		return fmt.Errorf("%w: namespace %q", ErrInvalidBlobID, ns)
	}
	return nil
}

func hasPrefix(id, prefix string) bool {
	return strings.HasPrefix(id, prefix)
}
