// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"time"

	sq "github.com/Masterminds/squirrel"
)

const blobsTable = "blobs"

const upsertBlobSuffix = `ON CONFLICT (id) DO UPDATE SET
	data       = excluded.data,
	size       = excluded.size,
	updated_at = excluded.updated_at`

// buildUpsertBlobQuery inserts a blob or replaces the row with the same id.
func buildUpsertBlobQuery(b sq.StatementBuilderType, id string, data []byte, updatedAt time.Time) (string, []any, error) {
	return b.Insert(blobsTable).
		Columns("id", "data", "size", "updated_at").
		Values(id, data, len(data), updatedAt).
		Suffix(upsertBlobSuffix).
		ToSql()
}

func buildSelectBlobQuery(b sq.StatementBuilderType, id string) (string, []any, error) {
	return b.Select("data").
		From(blobsTable).
		Where(sq.Eq{"id": id}).
		ToSql()
}

func buildCountBlobQuery(b sq.StatementBuilderType, id string) (string, []any, error) {
	return b.Select("COUNT(*)").
		From(blobsTable).
		Where(sq.Eq{"id": id}).
		ToSql()
}

// buildListBlobsQuery compares a substring rather than using LIKE so that
// "_" in a prefix is not a wildcard.
func buildListBlobsQuery(b sq.StatementBuilderType, prefix string) (string, []any, error) {
	query := b.Select("id", "size", "updated_at").From(blobsTable)
	if prefix != "" {
		query = query.Where("substr(id, 1, ?) = ?", len(prefix), prefix)
	}
	return query.OrderBy("id").ToSql()
}
