// Package cache short-circuits backend fetches with timestamped copies kept in
// the console's state store. Staleness is time-only: a stale entry is ignored,
// never deleted, until it is overwritten or cleared by prefix.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"admin-console/internal/kvstore"
)

const DefaultTTL = 5 * time.Minute

const (
	KeyDashboardStats    = "dashboard_stats"
	KeyStatistics        = "dashboard_statistics"
	KeyCategoryData      = "dashboard_category_data"
	KeyCustomerLocations = "dashboard_customer_locations"
	KeyMostSoldProducts  = "dashboard_most_sold_products"
	PrefixDashboard      = "dashboard_"
	KeyCategoryTree      = "categories_tree"
)

type entry struct {
	Data      json.RawMessage `json:"data"`
	Timestamp int64           `json:"timestamp"`
}

type Cache struct {
	kv  kvstore.Store
	now func() time.Time
}

type Option func(*Cache)

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(c *Cache) { c.now = now }
}

func New(kv kvstore.Store, opts ...Option) *Cache {
	c := &Cache{kv: kv, now: time.Now}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Set stores value under key with the current timestamp. Failures are logged
// and swallowed; a cache that cannot write behaves like an empty cache.
func (c *Cache) Set(ctx context.Context, key string, value any) {
	data, err := json.Marshal(value)
	if err != nil {
		slog.Warn("cache encode failed", "key", key, "error", err)
		return
	}

	raw, err := json.Marshal(entry{Data: data, Timestamp: c.now().UnixMilli()})
	if err != nil {
		slog.Warn("cache encode failed", "key", key, "error", err)
		return
	}

	if err := c.kv.Set(ctx, key, string(raw)); err != nil {
		slog.Warn("cache write failed", "key", key, "error", err)
	}
}

// Get decodes the entry under key into dst and reports a hit. Absent, stale
// and unreadable entries are all misses, and dst is left untouched.
func (c *Cache) Get(ctx context.Context, key string, ttl time.Duration, dst any) bool {
	e, ok := c.read(ctx, key)
	if !ok || c.stale(e, ttl) {
		return false
	}

	if err := json.Unmarshal(e.Data, dst); err != nil {
		slog.Debug("cache entry does not fit destination", "key", key, "error", err)
		return false
	}
	return true
}

// IsValid reports whether key holds an entry no older than ttl.
func (c *Cache) IsValid(ctx context.Context, key string, ttl time.Duration) bool {
	e, ok := c.read(ctx, key)
	return ok && !c.stale(e, ttl)
}

func (c *Cache) Remove(ctx context.Context, key string) {
	if err := c.kv.Delete(ctx, key); err != nil {
		slog.Warn("cache remove failed", "key", key, "error", err)
	}
}

// ClearByPrefix removes every stored key starting with prefix, cached or not.
func (c *Cache) ClearByPrefix(ctx context.Context, prefix string) {
	removed, err := kvstore.DeletePrefix(ctx, c.kv, prefix)
	if err != nil {
		slog.Warn("cache clear failed", "prefix", prefix, "error", err)
		return
	}
	slog.Debug("cache cleared", "prefix", prefix, "removed", removed)
}

func (c *Cache) read(ctx context.Context, key string) (entry, bool) {
	raw, err := c.kv.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, kvstore.ErrNotFound) {
			slog.Warn("cache read failed", "key", key, "error", err)
		}
		return entry{}, false
	}

	var e entry
	if err := json.Unmarshal([]byte(raw), &e); err != nil {
		slog.Debug("cache entry unreadable", "key", key, "error", err)
		return entry{}, false
	}
	return e, true
}

func (c *Cache) stale(e entry, ttl time.Duration) bool {
	age := c.now().UnixMilli() - e.Timestamp
	return age > ttl.Milliseconds()
}
