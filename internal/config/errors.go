package config

import "errors"

// Validation errors returned when required configuration groups are
// incomplete or invalid.
var (
	// ErrInvalidStorageConfigs indicates an unknown backend or missing
	// backend settings (for example, an s3 backend without a bucket).
	ErrInvalidStorageConfigs = errors.New("invalid storage configuration")
	// ErrInvalidServerConfigs indicates invalid blob server settings
	// (for example, missing token sign key or listen address).
	ErrInvalidServerConfigs = errors.New("invalid server configuration")
	// ErrInvalidRemoteConfigs indicates invalid remote client settings.
	ErrInvalidRemoteConfigs = errors.New("invalid remote configuration")
	// ErrInvalidCryptoConfigs indicates an invalid concurrency bound.
	ErrInvalidCryptoConfigs = errors.New("invalid crypto configuration")
	// ErrInvalidWorkerConfigs indicates invalid background worker settings
	// (for example, a mirror interval without a mirror backend).
	ErrInvalidWorkerConfigs = errors.New("invalid worker configuration")
)
