package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/MKhiriev/go-vault-envelope/internal/logger"
	"github.com/MKhiriev/go-vault-envelope/models"
)

const (
	maxWriteAttempts = 3
	writeRetryDelay  = 50 * time.Millisecond
)

// sqlBlobStore keeps blobs in the "blobs" table of SQLite or PostgreSQL.
// A write is a single upsert statement, so readers see either the old or
// the new row.
type sqlBlobStore struct {
	db  *DB
	now func() time.Time
}

// NewSQLBlobStore returns a [BlobStore] on top of an open connection. The
// schema must already be migrated, see [DB.Migrate].
func NewSQLBlobStore(db *DB) BlobStore {
	db.logger.Debug().Str("driver", db.driver).Msg("creating sql blob store")
	return &sqlBlobStore{
		db:  db,
		now: func() time.Time { return time.Now().UTC() },
	}
}

func (s *sqlBlobStore) Write(ctx context.Context, id string, data []byte) error {
	log := logger.FromContext(ctx)

	if err := validateKey(id); err != nil {
		return err
	}

	query, args, err := buildUpsertBlobQuery(s.db.builder(), id, data, s.now())
	if err != nil {
		return fmt.Errorf("%w: %w: %w", ErrIO, ErrBuildingSQLQuery, err)
	}

	for attempt := 1; ; attempt++ {
		_, err = s.db.ExecContext(ctx, query, args...)
		if err == nil {
			return nil
		}
		if attempt >= maxWriteAttempts || s.db.errorClassificator.Classify(err) != Retryable {
			break
		}

		log.Warn().Err(err).Str("func", "*sqlBlobStore.Write").Int("attempt", attempt).Msg("retrying blob write")
		select {
		case <-ctx.Done():
			return ioError("write", ctx.Err())
		case <-time.After(writeRetryDelay * time.Duration(attempt)):
		}
	}

	log.Err(err).Str("func", "*sqlBlobStore.Write").Str("id", id).Msg("error writing blob")
	return fmt.Errorf("%w: %w", ErrExecutingStatement, s.db.errorClassificator.Map(err))
}

func (s *sqlBlobStore) Read(ctx context.Context, id string) ([]byte, error) {
	if err := validateKey(id); err != nil {
		return nil, err
	}

	query, args, err := buildSelectBlobQuery(s.db.builder(), id)
	if err != nil {
		return nil, fmt.Errorf("%w: %w: %w", ErrIO, ErrBuildingSQLQuery, err)
	}

	var data []byte
	err = s.db.QueryRowContext(ctx, query, args...).Scan(&data)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	case err != nil:
		logger.FromContext(ctx).Err(err).Str("func", "*sqlBlobStore.Read").Str("id", id).Msg("error reading blob")
		return nil, fmt.Errorf("%w: %w", ErrScanningRow, s.db.errorClassificator.Map(err))
	}

	if data == nil {
		data = []byte{}
	}
	return data, nil
}

func (s *sqlBlobStore) Exists(ctx context.Context, id string) (bool, error) {
	if err := validateKey(id); err != nil {
		return false, err
	}

	query, args, err := buildCountBlobQuery(s.db.builder(), id)
	if err != nil {
		return false, fmt.Errorf("%w: %w: %w", ErrIO, ErrBuildingSQLQuery, err)
	}

	var count int64
	if err = s.db.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return false, fmt.Errorf("%w: %w", ErrScanningRow, s.db.errorClassificator.Map(err))
	}
	return count > 0, nil
}

func (s *sqlBlobStore) List(ctx context.Context, prefix string) ([]models.BlobInfo, error) {
	if err := validatePrefix(prefix); err != nil {
		return nil, err
	}

	query, args, err := buildListBlobsQuery(s.db.builder(), prefix)
	if err != nil {
		return nil, fmt.Errorf("%w: %w: %w", ErrIO, ErrBuildingSQLQuery, err)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		logger.FromContext(ctx).Err(err).Str("func", "*sqlBlobStore.List").Msg("error listing blobs")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, s.db.errorClassificator.Map(err))
	}
	defer rows.Close()

	infos := make([]models.BlobInfo, 0)
	for rows.Next() {
		var info models.BlobInfo
		if err = rows.Scan(&info.ID, &info.Size, &info.UpdatedAt); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrScanningRows, ioError("scan", err))
		}
		info.UpdatedAt = info.UpdatedAt.UTC()
		infos = append(infos, info)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, s.db.errorClassificator.Map(err))
	}

	return infos, nil
}
