package dashboard

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"admin-console/internal/cache"
	"admin-console/internal/kvstore"
	"admin-console/internal/model"
)

type countingBackend struct {
	calls map[string]int
	fail  error
}

func newCountingBackend() *countingBackend {
	return &countingBackend{calls: map[string]int{}}
}

func (b *countingBackend) GetDashboard(context.Context) (model.DashboardStats, error) {
	b.calls["dashboard"]++
	return model.DashboardStats{TotalUsers: 1250, TotalOrders: 890 + b.calls["dashboard"]}, b.fail
}

func (b *countingBackend) GetStatistics(context.Context) (model.StatisticsResponse, error) {
	b.calls["statistics"]++
	return model.StatisticsResponse{TotalSales: 125000}, b.fail
}

func (b *countingBackend) GetSalesByCategory(context.Context) ([]model.CategorySales, error) {
	b.calls["categories"]++
	return []model.CategorySales{{ID: "c1", Name: "Electronics", Sold: 45}}, b.fail
}

func (b *countingBackend) GetCustomerLocations(context.Context) ([]model.CustomerLocation, error) {
	b.calls["locations"]++
	return []model.CustomerLocation{{ID: 1, Lat: 10.77, Lng: 106.7, Count: 12, City: "HCMC"}}, b.fail
}

func (b *countingBackend) GetMostSoldProducts(context.Context) ([]model.MostSoldProduct, error) {
	b.calls["most_sold"]++
	return []model.MostSoldProduct{{ID: "p1", Name: "iPhone 15", Sold: 120}}, b.fail
}

func TestService_CachesEachFigure(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	backend := newCountingBackend()
	svc := NewService(backend, cache.New(kvstore.NewMemoryStore()), time.Minute, nil)

	for i := 0; i < 3; i++ {
		stats, err := svc.Stats(ctx, false)
		require.NoError(t, err)
		assert.Equal(t, 891, stats.TotalOrders)

		_, err = svc.Statistics(ctx, false)
		require.NoError(t, err)
		_, err = svc.CategorySales(ctx, false)
		require.NoError(t, err)
		locations, err := svc.CustomerLocations(ctx, false)
		require.NoError(t, err)
		assert.Equal(t, "HCMC", locations[0].City)
		_, err = svc.MostSoldProducts(ctx, false)
		require.NoError(t, err)
	}

	assert.Equal(t, map[string]int{"dashboard": 1, "statistics": 1, "categories": 1, "locations": 1, "most_sold": 1}, backend.calls)
}

func TestService_ForceClearsDashboardPrefix(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	kv := kvstore.NewMemoryStore()
	c := cache.New(kv)
	backend := newCountingBackend()
	svc := NewService(backend, c, time.Minute, nil)

	_, err := svc.Stats(ctx, false)
	require.NoError(t, err)
	_, err = svc.Statistics(ctx, false)
	require.NoError(t, err)
	c.Set(ctx, cache.KeyCategoryTree, []string{"kept"})

	stats, err := svc.Stats(ctx, true)
	require.NoError(t, err)
	assert.Equal(t, 892, stats.TotalOrders)

	assert.False(t, c.IsValid(ctx, cache.KeyStatistics, time.Minute), "sibling figures are cleared")
	assert.True(t, c.IsValid(ctx, cache.KeyCategoryTree, time.Minute), "other prefixes survive")
}

func TestService_ExpiredEntryRefetches(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	now := time.Unix(1_700_000_000, 0)
	backend := newCountingBackend()
	svc := NewService(backend, cache.New(kvstore.NewMemoryStore(), cache.WithClock(func() time.Time { return now })), cache.DefaultTTL, nil)

	_, err := svc.CustomerLocations(ctx, false)
	require.NoError(t, err)

	now = now.Add(cache.DefaultTTL + time.Millisecond)
	_, err = svc.CustomerLocations(ctx, false)
	require.NoError(t, err)
	assert.Equal(t, 2, backend.calls["locations"])
}

func TestService_ErrorsAreNotCached(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	backend := newCountingBackend()
	backend.fail = errors.New("shopping service down")
	c := cache.New(kvstore.NewMemoryStore())
	svc := NewService(backend, c, time.Minute, nil)

	_, err := svc.Stats(ctx, false)
	assert.ErrorIs(t, err, backend.fail)
	assert.False(t, c.IsValid(ctx, cache.KeyDashboardStats, time.Minute))
}
