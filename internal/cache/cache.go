// Package cache implements the read-through TTL cache placed in front of the
// FIFA API. Payloads are opaque bytes; the store decides where they live.
package cache

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/pable/go-futsal-metrics/internal/metrics"
)

// Entry is a cached payload and the moment it was loaded.
type Entry struct {
	Payload   []byte
	FetchedAt time.Time
}

// Store persists entries by key.
type Store interface {
	// GetCache returns the entry for key. ok is false when there is none.
	GetCache(ctx context.Context, key string) (e Entry, ok bool, err error)
	PutCache(ctx context.Context, key string, e Entry) error
}

// LoadFunc produces a fresh payload on a miss.
type LoadFunc func(ctx context.Context) ([]byte, error)

// Option configures a ReadThrough.
type Option func(*ReadThrough)

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(c *ReadThrough) {
		if now != nil {
			c.now = now
		}
	}
}

// WithMetrics records every lookup outcome on m.
func WithMetrics(m *metrics.Manager) Option {
	return func(c *ReadThrough) {
		c.metrics = m
	}
}

// ReadThrough serves entries younger than their TTL from the store and loads
// the rest. A failed load falls back to an expired entry when one exists.
type ReadThrough struct {
	store   Store
	now     func() time.Time
	metrics *metrics.Manager
}

// New wraps store.
func New(store Store, opts ...Option) *ReadThrough {
	c := &ReadThrough{store: store, now: time.Now}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Fetch returns the payload for key, loading it when missing or older than
// ttl. A ttl <= 0 always loads. Store errors are logged and treated as a miss;
// the pipeline never fails because the cache is unavailable.
func (c *ReadThrough) Fetch(ctx context.Context, key string, ttl time.Duration, load LoadFunc) ([]byte, error) {
	cached, found, err := c.store.GetCache(ctx, key)
	if err != nil {
		log.Warn().Err(err).Str("key", key).Msg("cache read failed")
		found = false
	}
	if found && ttl > 0 && c.now().Sub(cached.FetchedAt) < ttl {
		c.metrics.RecordCacheLookup(metrics.CacheHit)
		return cached.Payload, nil
	}

	payload, loadErr := load(ctx)
	if loadErr != nil {
		if found && !errors.Is(loadErr, context.Canceled) {
			c.metrics.RecordCacheLookup(metrics.CacheStale)
			log.Warn().Err(loadErr).Str("key", key).
				Time("fetched_at", cached.FetchedAt).
				Msg("upstream failed, serving stale cache entry")
			return cached.Payload, nil
		}
		c.metrics.RecordCacheLookup(metrics.CacheError)
		return nil, fmt.Errorf("load %s: %w", key, loadErr)
	}

	c.metrics.RecordCacheLookup(metrics.CacheMiss)
	if err := c.store.PutCache(ctx, key, Entry{Payload: payload, FetchedAt: c.now()}); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("cache write failed")
	}
	return payload, nil
}

// MemoryStore is a process-local Store.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]Entry
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[string]Entry)}
}

// GetCache implements Store.
func (s *MemoryStore) GetCache(_ context.Context, key string) (Entry, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.entries[key]
	return e, ok, nil
}

// PutCache implements Store. The payload is copied.
func (s *MemoryStore) PutCache(_ context.Context, key string, e Entry) error {
	e.Payload = append([]byte(nil), e.Payload...)
	s.mu.Lock()
	s.entries[key] = e
	s.mu.Unlock()
	return nil
}

// Len reports the number of stored entries.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}
