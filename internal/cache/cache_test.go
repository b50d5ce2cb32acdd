package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"admin-console/internal/kvstore"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func newTestCache(t *testing.T) (*Cache, *fakeClock, kvstore.Store) {
	t.Helper()
	clock := &fakeClock{now: time.UnixMilli(1_700_000_000_000)}
	kv := kvstore.NewMemoryStore()
	return New(kv, WithClock(clock.Now)), clock, kv
}

type stats struct {
	TotalOrders int     `json:"totalOrders"`
	Revenue     float64 `json:"revenue"`
}

func TestCache_TTLBoundary(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	c, clock, _ := newTestCache(t)

	c.Set(ctx, KeyDashboardStats, stats{TotalOrders: 3, Revenue: 12.5})

	var got stats
	require.True(t, c.Get(ctx, KeyDashboardStats, time.Minute, &got))
	assert.Equal(t, stats{TotalOrders: 3, Revenue: 12.5}, got)

	clock.Advance(time.Minute)
	assert.True(t, c.IsValid(ctx, KeyDashboardStats, time.Minute), "age equal to ttl is still fresh")

	clock.Advance(time.Millisecond)
	var stale stats
	assert.False(t, c.Get(ctx, KeyDashboardStats, time.Minute, &stale))
	assert.Zero(t, stale)
	assert.False(t, c.IsValid(ctx, KeyDashboardStats, time.Minute))

	// a longer ttl still accepts the same entry
	assert.True(t, c.IsValid(ctx, KeyDashboardStats, time.Hour))
}

func TestCache_StaleEntryIsKept(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	c, clock, kv := newTestCache(t)

	c.Set(ctx, KeyStatistics, []int{1, 2})
	clock.Advance(DefaultTTL + time.Second)

	var got []int
	assert.False(t, c.Get(ctx, KeyStatistics, DefaultTTL, &got))

	_, err := kv.Get(ctx, KeyStatistics)
	assert.NoError(t, err)
}

func TestCache_SetOverwritesTimestamp(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	c, clock, _ := newTestCache(t)

	c.Set(ctx, KeyCategoryData, "old")
	clock.Advance(2 * time.Minute)
	c.Set(ctx, KeyCategoryData, "new")
	clock.Advance(2 * time.Minute)

	var got string
	require.True(t, c.Get(ctx, KeyCategoryData, 3*time.Minute, &got))
	assert.Equal(t, "new", got)
}

func TestCache_ClearByPrefix(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	c, _, kv := newTestCache(t)

	c.Set(ctx, KeyDashboardStats, 1)
	c.Set(ctx, KeyCustomerLocations, 2)
	c.Set(ctx, KeyCategoryTree, 3)
	require.NoError(t, kv.Set(ctx, "dashboard_unrelated_raw", "not an entry"))

	c.ClearByPrefix(ctx, PrefixDashboard)

	keys, err := kv.Keys(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, []string{KeyCategoryTree}, keys)
}

func TestCache_Remove(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	c, _, _ := newTestCache(t)

	c.Set(ctx, KeyCategoryTree, []string{"a"})
	c.Remove(ctx, KeyCategoryTree)

	assert.False(t, c.IsValid(ctx, KeyCategoryTree, DefaultTTL))
}

func TestCache_UnreadableEntriesMiss(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	c, _, kv := newTestCache(t)

	require.NoError(t, kv.Set(ctx, "garbage", "{not json"))
	var dst map[string]any
	assert.False(t, c.Get(ctx, "garbage", DefaultTTL, &dst))

	c.Set(ctx, "wrong_shape", "a string")
	var n int
	assert.False(t, c.Get(ctx, "wrong_shape", DefaultTTL, &n))
	assert.Zero(t, n)
}

func TestCache_BackendFailuresDegrade(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	kv := new(kvstore.MockStore)
	kv.On("Get", ctx, KeyDashboardStats).Return("", errors.New("store offline"))
	kv.On("Set", ctx, KeyDashboardStats, mock.Anything).Return(errors.New("store offline"))
	kv.On("Keys", ctx, PrefixDashboard).Return(nil, errors.New("store offline"))

	c := New(kv)

	var dst stats
	assert.NotPanics(t, func() {
		c.Set(ctx, KeyDashboardStats, stats{TotalOrders: 1})
		assert.False(t, c.Get(ctx, KeyDashboardStats, DefaultTTL, &dst))
		c.ClearByPrefix(ctx, PrefixDashboard)
	})
	kv.AssertExpectations(t)
}
