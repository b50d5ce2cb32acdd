// Package dashboard serves the sales dashboard figures, each cached under its
// own key so a page reload does not hit the shopping service.
package dashboard

import (
	"context"
	"log/slog"
	"time"

	"admin-console/internal/cache"
	"admin-console/internal/event"
	"admin-console/internal/model"
)

type Backend interface {
	GetDashboard(ctx context.Context) (model.DashboardStats, error)
	GetStatistics(ctx context.Context) (model.StatisticsResponse, error)
	GetSalesByCategory(ctx context.Context) ([]model.CategorySales, error)
	GetCustomerLocations(ctx context.Context) ([]model.CustomerLocation, error)
	GetMostSoldProducts(ctx context.Context) ([]model.MostSoldProduct, error)
}

type Service struct {
	backend Backend
	cache   *cache.Cache
	ttl     time.Duration
	bus     event.Bus
}

func NewService(backend Backend, c *cache.Cache, ttl time.Duration, bus event.Bus) *Service {
	if ttl <= 0 {
		ttl = cache.DefaultTTL
	}
	if bus == nil {
		bus = event.Nop{}
	}
	return &Service{backend: backend, cache: c, ttl: ttl, bus: bus}
}

// Clear drops every cached dashboard figure.
func (s *Service) Clear(ctx context.Context) {
	s.cache.ClearByPrefix(ctx, cache.PrefixDashboard)
	s.bus.Publish(event.New(event.TypeCacheCleared, map[string]string{"prefix": cache.PrefixDashboard}))
}

func (s *Service) Stats(ctx context.Context, force bool) (model.DashboardStats, error) {
	return cached(ctx, s, cache.KeyDashboardStats, force, s.backend.GetDashboard)
}

func (s *Service) Statistics(ctx context.Context, force bool) (model.StatisticsResponse, error) {
	return cached(ctx, s, cache.KeyStatistics, force, s.backend.GetStatistics)
}

func (s *Service) CategorySales(ctx context.Context, force bool) ([]model.CategorySales, error) {
	return cached(ctx, s, cache.KeyCategoryData, force, s.backend.GetSalesByCategory)
}

func (s *Service) CustomerLocations(ctx context.Context, force bool) ([]model.CustomerLocation, error) {
	return cached(ctx, s, cache.KeyCustomerLocations, force, s.backend.GetCustomerLocations)
}

func (s *Service) MostSoldProducts(ctx context.Context, force bool) ([]model.MostSoldProduct, error) {
	return cached(ctx, s, cache.KeyMostSoldProducts, force, s.backend.GetMostSoldProducts)
}

// cached answers from the cache unless force is set, in which case the whole
// dashboard prefix is cleared first.
func cached[T any](ctx context.Context, s *Service, key string, force bool, fetch func(context.Context) (T, error)) (T, error) {
	if force {
		s.Clear(ctx)
	} else {
		var hit T
		if s.cache.Get(ctx, key, s.ttl, &hit) {
			slog.Debug("dashboard cache hit", "key", key)
			return hit, nil
		}
	}

	value, err := fetch(ctx)
	if err != nil {
		var zero T
		return zero, err
	}
	s.cache.Set(ctx, key, value)
	return value, nil
}
