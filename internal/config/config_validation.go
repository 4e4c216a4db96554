// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"fmt"
	"net/url"
)

// validateServer checks the settings the blob server cannot start without.
func (cfg *StructuredConfig) validateServer() error {
	if err := cfg.Storage.validate(false); err != nil {
		return err
	}
	if cfg.Server.HTTPAddress == "" {
		return fmt.Errorf("%w: empty http address", ErrInvalidServerConfigs)
	}
	if cfg.Server.TokenSignKey == "" {
		return fmt.Errorf("%w: token sign key is required", ErrInvalidServerConfigs)
	}
	if cfg.Server.TokenDuration <= 0 || cfg.Server.RequestTimeout <= 0 {
		return fmt.Errorf("%w: token duration and request timeout must be positive", ErrInvalidServerConfigs)
	}
	if len(cfg.Server.APIKeys) == 0 {
		return fmt.Errorf("%w: at least one api key is required", ErrInvalidServerConfigs)
	}
	if cfg.Server.MaxBlobSize <= 0 {
		return fmt.Errorf("%w: max blob size must be positive", ErrInvalidServerConfigs)
	}
	return cfg.validateCommon()
}

// validateCLI checks the settings the vault CLI needs.
func (cfg *StructuredConfig) validateCLI() error {
	if err := cfg.Storage.validate(true); err != nil {
		return err
	}
	if cfg.Storage.Backend == BackendRemote {
		if err := cfg.Remote.validate(); err != nil {
			return err
		}
	}
	return cfg.validateCommon()
}

func (cfg *StructuredConfig) validateCommon() error {
	if cfg.Crypto.MaxConcurrentDerivations < 1 {
		return fmt.Errorf("%w: max concurrent derivations must be at least 1", ErrInvalidCryptoConfigs)
	}

	if cfg.Workers.MirrorInterval < 0 {
		return fmt.Errorf("%w: negative mirror interval", ErrInvalidWorkerConfigs)
	}
	if cfg.Workers.MirrorInterval > 0 {
		if cfg.Workers.Mirror.Backend == "" {
			return fmt.Errorf("%w: mirror interval set without a mirror backend", ErrInvalidWorkerConfigs)
		}
		if err := cfg.Workers.Mirror.validate(true); err != nil {
			return fmt.Errorf("%w: mirror: %w", ErrInvalidWorkerConfigs, err)
		}
		if cfg.Workers.Mirror.Backend == BackendRemote {
			if err := cfg.Remote.validate(); err != nil {
				return err
			}
		}
	}
	return nil
}

func (s Storage) validate(allowRemote bool) error {
	switch s.Backend {
	case BackendFile:
		if s.File.Dir == "" {
			return fmt.Errorf("%w: file backend needs a directory", ErrInvalidStorageConfigs)
		}
	case BackendSQLite:
		if s.SQLite.DSN == "" {
			return fmt.Errorf("%w: sqlite backend needs a dsn", ErrInvalidStorageConfigs)
		}
	case BackendPostgres:
		if s.Postgres.DSN == "" {
			return fmt.Errorf("%w: postgres backend needs a dsn", ErrInvalidStorageConfigs)
		}
	case BackendS3:
		if s.S3.Bucket == "" {
			return fmt.Errorf("%w: s3 backend needs a bucket", ErrInvalidStorageConfigs)
		}
	case BackendRemote:
		if !allowRemote {
			return fmt.Errorf("%w: remote backend is not allowed here", ErrInvalidStorageConfigs)
		}
	default:
		return fmt.Errorf("%w: unknown backend %q", ErrInvalidStorageConfigs, s.Backend)
	}
	return nil
}

func (r Remote) validate() error {
	u, err := url.Parse(r.URL)
	if err != nil || r.URL == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return fmt.Errorf("%w: url must be an http(s) url", ErrInvalidRemoteConfigs)
	}
	if r.APIKey == "" {
		return fmt.Errorf("%w: api key is required", ErrInvalidRemoteConfigs)
	}
	if r.RequestTimeout <= 0 {
		return fmt.Errorf("%w: request timeout must be positive", ErrInvalidRemoteConfigs)
	}
	return nil
}
