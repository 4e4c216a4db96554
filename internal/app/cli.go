package app

import (
	"context"
	"fmt"
	"io"

	"github.com/MKhiriev/go-vault-envelope/internal/config"
	"github.com/MKhiriev/go-vault-envelope/internal/logger"
	"github.com/MKhiriev/go-vault-envelope/internal/service"
	"github.com/MKhiriev/go-vault-envelope/internal/workers"
)

// CLI holds what the vault commands operate on.
type CLI struct {
	Vault service.VaultService

	// Mirror copies vaults to Workers.Mirror. Nil when no mirror backend
	// is configured.
	Mirror *workers.MirrorWorker

	closers []io.Closer
}

// NewCLI opens the configured store and builds the vault service over it.
// The CLI does not export metrics.
func NewCLI(ctx context.Context, cfg *config.StructuredConfig, log *logger.Logger) (*CLI, error) {
	blobs, closer, err := OpenBlobStore(ctx, cfg.Storage, cfg.Remote, nil, log)
	if err != nil {
		return nil, fmt.Errorf("open blob store: %w", err)
	}
	cli := &CLI{closers: []io.Closer{closer}}

	vc, err := service.NewVaultCrypto(*cfg, log)
	if err != nil {
		_ = cli.Close()
		return nil, fmt.Errorf("create vault crypto: %w", err)
	}
	pool := workers.NewPool(cfg.Crypto.MaxConcurrentDerivations)
	cli.Vault = service.NewVaultService(vc, blobs, pool, nil, log)

	if cfg.Workers.Mirror.Backend != "" {
		target, closer, err := OpenBlobStore(ctx, cfg.Workers.Mirror, cfg.Remote, nil, log)
		if err != nil {
			_ = cli.Close()
			return nil, fmt.Errorf("open mirror store: %w", err)
		}
		cli.closers = append(cli.closers, closer)
		cli.Mirror = workers.NewMirrorWorker(blobs, target, cfg.Workers.MirrorPrefix, cfg.Workers.MirrorInterval.Std(), nil, log)
	}

	return cli, nil
}

// Close releases the stores.
func (c *CLI) Close() error {
	return closeAll(c.closers)
}
