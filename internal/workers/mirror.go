package workers

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/MKhiriev/go-vault-envelope/internal/logger"
	"github.com/MKhiriev/go-vault-envelope/internal/metrics"
	"github.com/MKhiriev/go-vault-envelope/internal/store"
)

// Mirror results recorded in metrics.
const (
	mirrorCopied  = "copied"
	mirrorSkipped = "skipped"
	mirrorFailed  = "failed"
)

// MirrorStats summarises one mirror pass.
type MirrorStats struct {
	Copied  int
	Skipped int
	Failed  int
}

// MirrorWorker copies blobs byte-for-byte from a source store to a target
// store. A blob is written only when the target is missing it or holds
// different bytes. Envelopes are never decoded.
type MirrorWorker struct {
	source   store.BlobStore
	target   store.BlobStore
	prefix   string
	interval time.Duration

	metrics *metrics.Metrics
	logger  *logger.Logger
}

func NewMirrorWorker(source, target store.BlobStore, prefix string, interval time.Duration, m *metrics.Metrics, log *logger.Logger) *MirrorWorker {
	return &MirrorWorker{
		source:   source,
		target:   target,
		prefix:   prefix,
		interval: interval,
		metrics:  m,
		logger:   log,
	}
}

// Run mirrors once immediately and then on every tick until ctx is done.
func (w *MirrorWorker) Run(ctx context.Context) {
	log := w.logger.With().Str("func", "*MirrorWorker.Run").Logger()
	log.Info().Dur("interval", w.interval).Str("prefix", w.prefix).Msg("mirror worker started")

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		stats, err := w.SyncOnce(ctx)
		if err != nil && !errors.Is(err, context.Canceled) {
			log.Err(err).Msg("mirror pass failed")
		} else {
			log.Debug().Int("copied", stats.Copied).Int("skipped", stats.Skipped).Int("failed", stats.Failed).Msg("mirror pass done")
		}

		select {
		case <-ctx.Done():
			log.Info().Msg("mirror worker stopped")
			return
		case <-ticker.C:
		}
	}
}

// SyncOnce performs a single mirror pass. Failures of individual blobs are
// counted and logged; only a failing listing aborts the pass.
func (w *MirrorWorker) SyncOnce(ctx context.Context) (MirrorStats, error) {
	var stats MirrorStats

	infos, err := w.source.List(ctx, w.prefix)
	if err != nil {
		return stats, fmt.Errorf("list source: %w", err)
	}

	for _, info := range infos {
		if err = ctx.Err(); err != nil {
			return stats, err
		}

		result, err := w.mirrorBlob(ctx, info.ID)
		if err != nil {
			w.logger.Warn().Err(err).Str("func", "*MirrorWorker.SyncOnce").Str("blob_id", info.ID).
				Str("kind", store.ErrorLabel(err)).Msg("blob not mirrored")
		}
		w.metrics.RecordMirror(result)

		switch result {
		case mirrorCopied:
			stats.Copied++
		case mirrorSkipped:
			stats.Skipped++
		default:
			stats.Failed++
		}
	}

	return stats, nil
}

func (w *MirrorWorker) mirrorBlob(ctx context.Context, id string) (string, error) {
	data, err := w.source.Read(ctx, id)
	if err != nil {
		// removed since listing
		if errors.Is(err, store.ErrNotFound) {
			return mirrorSkipped, nil
		}
		return mirrorFailed, fmt.Errorf("read source: %w", err)
	}

	current, err := w.target.Read(ctx, id)
	switch {
	case err == nil && bytes.Equal(current, data):
		return mirrorSkipped, nil
	case err != nil && !errors.Is(err, store.ErrNotFound):
		return mirrorFailed, fmt.Errorf("read target: %w", err)
	}

	if err = w.target.Write(ctx, id, data); err != nil {
		return mirrorFailed, fmt.Errorf("write target: %w", err)
	}
	return mirrorCopied, nil
}
