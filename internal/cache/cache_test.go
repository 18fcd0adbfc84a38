package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type clock struct{ t time.Time }

func (c *clock) now() time.Time          { return c.t }
func (c *clock) advance(d time.Duration) { c.t = c.t.Add(d) }

type counter struct {
	calls   int
	payload string
	err     error
}

func (l *counter) load(context.Context) ([]byte, error) {
	l.calls++
	if l.err != nil {
		return nil, l.err
	}
	return []byte(l.payload), nil
}

type brokenStore struct{}

func (brokenStore) GetCache(context.Context, string) (Entry, bool, error) {
	return Entry{}, false, errors.New("disk I/O error")
}

func (brokenStore) PutCache(context.Context, string, Entry) error {
	return errors.New("disk I/O error")
}

func newTestCache() (*ReadThrough, *clock, *MemoryStore) {
	clk := &clock{t: time.Date(2024, 9, 14, 12, 0, 0, 0, time.UTC)}
	store := NewMemoryStore()
	return New(store, WithClock(clk.now)), clk, store
}

func TestFetch_HitWithinTTL(t *testing.T) {
	c, clk, store := newTestCache()
	src := &counter{payload: "v1"}
	ctx := context.Background()

	got, err := c.Fetch(ctx, "k", time.Hour, src.load)
	require.NoError(t, err)
	assert.Equal(t, "v1", string(got))
	assert.Equal(t, 1, store.Len())

	src.payload = "v2"
	clk.advance(59 * time.Minute)
	got, err = c.Fetch(ctx, "k", time.Hour, src.load)
	require.NoError(t, err)
	assert.Equal(t, "v1", string(got))
	assert.Equal(t, 1, src.calls)
}

func TestFetch_ExpiredReloads(t *testing.T) {
	c, clk, _ := newTestCache()
	src := &counter{payload: "v1"}
	ctx := context.Background()

	_, err := c.Fetch(ctx, "k", time.Hour, src.load)
	require.NoError(t, err)

	src.payload = "v2"
	clk.advance(time.Hour)
	got, err := c.Fetch(ctx, "k", time.Hour, src.load)
	require.NoError(t, err)
	assert.Equal(t, "v2", string(got))
	assert.Equal(t, 2, src.calls)
}

func TestFetch_StaleOnLoadFailure(t *testing.T) {
	c, clk, _ := newTestCache()
	src := &counter{payload: "v1"}
	ctx := context.Background()

	_, err := c.Fetch(ctx, "k", time.Minute, src.load)
	require.NoError(t, err)

	clk.advance(time.Hour)
	src.err = errors.New("HTTP 503")
	got, err := c.Fetch(ctx, "k", time.Minute, src.load)
	require.NoError(t, err)
	assert.Equal(t, "v1", string(got))
}

func TestFetch_ErrorWithoutEntry(t *testing.T) {
	c, _, store := newTestCache()
	boom := errors.New("connection refused")

	_, err := c.Fetch(context.Background(), "k", time.Minute, (&counter{err: boom}).load)
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Zero(t, store.Len())
}

func TestFetch_ZeroTTLAlwaysLoads(t *testing.T) {
	c, _, _ := newTestCache()
	src := &counter{payload: "v"}
	for i := 0; i < 3; i++ {
		_, err := c.Fetch(context.Background(), "k", 0, src.load)
		require.NoError(t, err)
	}
	assert.Equal(t, 3, src.calls)
}

func TestFetch_BrokenStoreStillLoads(t *testing.T) {
	c := New(brokenStore{})
	got, err := c.Fetch(context.Background(), "k", time.Hour, (&counter{payload: "v"}).load)
	require.NoError(t, err)
	assert.Equal(t, "v", string(got))
}

func TestMemoryStore_CopiesPayload(t *testing.T) {
	s := NewMemoryStore()
	buf := []byte("abc")
	require.NoError(t, s.PutCache(context.Background(), "k", Entry{Payload: buf}))
	buf[0] = 'x'

	e, ok, err := s.GetCache(context.Background(), "k")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "abc", string(e.Payload))
}
