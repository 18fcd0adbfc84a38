package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/pable/go-futsal-metrics/internal/cache"
)

// GetCache implements cache.Store on the api_cache table.
func (db *DB) GetCache(ctx context.Context, key string) (cache.Entry, bool, error) {
	var (
		payload []byte
		fetched int64
	)
	err := db.conn.QueryRowContext(ctx,
		"SELECT payload, fetched_at FROM api_cache WHERE key = ?", key).
		Scan(&payload, &fetched)
	if errors.Is(err, sql.ErrNoRows) {
		return cache.Entry{}, false, nil
	}
	if err != nil {
		return cache.Entry{}, false, fmt.Errorf("read api_cache: %w", err)
	}
	return cache.Entry{Payload: payload, FetchedAt: time.UnixMilli(fetched).UTC()}, true, nil
}

// PutCache implements cache.Store. fetched_at is stored as Unix milliseconds.
func (db *DB) PutCache(ctx context.Context, key string, e cache.Entry) error {
	_, err := db.conn.ExecContext(ctx, `
		INSERT OR REPLACE INTO api_cache(key, payload, fetched_at)
		VALUES (?, ?, ?)`,
		key, e.Payload, e.FetchedAt.UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("write api_cache: %w", err)
	}
	return nil
}

// ClearCache removes every cached API response and reports how many there were.
func (db *DB) ClearCache(ctx context.Context) (int64, error) {
	res, err := db.conn.ExecContext(ctx, "DELETE FROM api_cache")
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
