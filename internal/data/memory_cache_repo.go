package data

import (
	"bytes"
	"context"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/rajatvd/GifGenerator/internal/core"
)

// MemoryCacheRepo implements core.CacheRepository in process memory. It
// stands in for Redis when the status cache is not configured, so the
// status endpoint still reports the last run of this process.
type MemoryCacheRepo struct {
	c *gocache.Cache
}

var _ core.CacheRepository = (*MemoryCacheRepo)(nil)

// NewMemoryCacheRepo creates a cache that sweeps expired keys every cleanup interval.
func NewMemoryCacheRepo(cleanup time.Duration) *MemoryCacheRepo {
	if cleanup <= 0 {
		cleanup = 10 * time.Minute
	}
	return &MemoryCacheRepo{c: gocache.New(gocache.NoExpiration, cleanup)}
}

// Set stores a copy of value. A zero TTL never expires.
func (m *MemoryCacheRepo) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	if key == "" {
		return ErrKeyRequired
	}
	if ttl <= 0 {
		ttl = gocache.NoExpiration
	}
	m.c.Set(key, bytes.Clone(value), ttl)
	return nil
}

// Get returns a copy of the stored value, or nil when absent or expired.
func (m *MemoryCacheRepo) Get(_ context.Context, key string) ([]byte, error) {
	if key == "" {
		return nil, ErrKeyRequired
	}
	v, ok := m.c.Get(key)
	if !ok {
		return nil, nil
	}
	b, _ := v.([]byte)
	return bytes.Clone(b), nil
}

// Delete removes key and reports whether it was present.
func (m *MemoryCacheRepo) Delete(_ context.Context, key string) (bool, error) {
	if key == "" {
		return false, ErrKeyRequired
	}
	_, ok := m.c.Get(key)
	m.c.Delete(key)
	return ok, nil
}

// Health always succeeds.
func (m *MemoryCacheRepo) Health(context.Context) error { return nil }
