package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// WatermarkKey is the db_meta key holding the date of the last applied archive.
const WatermarkKey = "last_update"

// MetaRepo provides methods for the db_meta key/value table.
type MetaRepo struct {
	db DBTX
}

// NewMetaRepo creates a new MetaRepo.
func NewMetaRepo(db DBTX) *MetaRepo {
	return &MetaRepo{db: db}
}

// Get returns the value stored under key. Returns ErrNotFound if absent.
func (r *MetaRepo) Get(ctx context.Context, key string) (string, error) {
	var value sql.NullString
	err := r.db.QueryRowContext(ctx, "SELECT value FROM db_meta WHERE key = ?", key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to query db_meta: %w", err)
	}
	return value.String, nil
}

// Set inserts or replaces the value stored under key.
func (r *MetaRepo) Set(ctx context.Context, key, value string) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO db_meta (key, value) VALUES (?, ?)
		 ON CONFLICT (key) DO UPDATE SET value = excluded.value`,
		key, value,
	)
	if err != nil {
		return fmt.Errorf("failed to set db_meta %s: %w", key, err)
	}
	return nil
}
