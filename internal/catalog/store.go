package catalog

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"admin-console/internal/cache"
	"admin-console/internal/event"
	"admin-console/internal/model"
)

type Backend interface {
	GetCategories(ctx context.Context) ([]model.CategoryRecord, error)
	CreateCategory(ctx context.Context, req model.CategoryRequest) (model.CategoryRecord, error)
	UpdateCategory(ctx context.Context, id string, req model.CategoryRequest) (model.CategoryRecord, error)
	DeleteCategory(ctx context.Context, id string) error
}

// Store serves the category forest from memory, then from the TTL cache,
// then from the backend. Writes go to the backend and drop both copies.
type Store struct {
	backend Backend
	cache   *cache.Cache
	ttl     time.Duration
	bus     event.Bus
	now     func() time.Time

	mu       sync.RWMutex
	forest   []model.Category
	loadedAt time.Time
}

func NewStore(backend Backend, c *cache.Cache, ttl time.Duration, bus event.Bus) *Store {
	if ttl <= 0 {
		ttl = cache.DefaultTTL
	}
	if bus == nil {
		bus = event.Nop{}
	}
	return &Store{backend: backend, cache: c, ttl: ttl, bus: bus, now: time.Now}
}

func (s *Store) Tree(ctx context.Context) ([]model.Category, error) {
	s.mu.RLock()
	if s.forest != nil && s.now().Sub(s.loadedAt) <= s.ttl {
		forest := s.forest
		s.mu.RUnlock()
		return forest, nil
	}
	s.mu.RUnlock()

	var cached []model.Category
	if s.cache.Get(ctx, cache.KeyCategoryTree, s.ttl, &cached) {
		s.remember(cached)
		return cached, nil
	}

	return s.Refresh(ctx)
}

// Refresh refetches the records regardless of any cached copy.
func (s *Store) Refresh(ctx context.Context) ([]model.Category, error) {
	records, err := s.backend.GetCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch categories: %w", err)
	}

	forest := BuildForest(records)
	s.remember(forest)
	s.cache.Set(ctx, cache.KeyCategoryTree, forest)

	slog.Debug("category tree loaded", "records", len(records), "roots", len(forest))
	return forest, nil
}

func (s *Store) Get(ctx context.Context, id string) (model.Category, error) {
	forest, err := s.Tree(ctx)
	if err != nil {
		return model.Category{}, err
	}
	if c, ok := Find(forest, id); ok {
		return c, nil
	}
	return model.Category{}, model.ErrCategoryNotFound
}

func (s *Store) All(ctx context.Context) ([]model.Category, error) {
	forest, err := s.Tree(ctx)
	if err != nil {
		return nil, err
	}
	return Flatten(forest), nil
}

func (s *Store) Create(ctx context.Context, req model.CategoryRequest) (model.CategoryRecord, error) {
	if err := validate(&req); err != nil {
		return model.CategoryRecord{}, err
	}
	record, err := s.backend.CreateCategory(ctx, req)
	if err != nil {
		return model.CategoryRecord{}, err
	}
	s.changed(ctx, "created", record.ID)
	return record, nil
}

func (s *Store) Update(ctx context.Context, id string, req model.CategoryRequest) (model.CategoryRecord, error) {
	if err := validate(&req); err != nil {
		return model.CategoryRecord{}, err
	}
	if req.ParentID != nil && *req.ParentID == id {
		return model.CategoryRecord{}, fmt.Errorf("%w: category cannot be its own parent", model.ErrInvalidInput)
	}
	record, err := s.backend.UpdateCategory(ctx, id, req)
	if err != nil {
		return model.CategoryRecord{}, err
	}
	s.changed(ctx, "updated", id)
	return record, nil
}

func (s *Store) Delete(ctx context.Context, id string) error {
	if err := s.backend.DeleteCategory(ctx, id); err != nil {
		return err
	}
	s.changed(ctx, "deleted", id)
	return nil
}

// Invalidate drops the in-memory and cached forest.
func (s *Store) Invalidate(ctx context.Context) {
	s.mu.Lock()
	s.forest = nil
	s.mu.Unlock()
	s.cache.Remove(ctx, cache.KeyCategoryTree)
}

func (s *Store) changed(ctx context.Context, action, id string) {
	s.Invalidate(ctx)
	s.bus.Publish(event.New(event.TypeCategoryChanged, event.Change{Action: action, ID: id}))
}

func (s *Store) remember(forest []model.Category) {
	s.mu.Lock()
	s.forest = forest
	s.loadedAt = s.now()
	s.mu.Unlock()
}

func validate(req *model.CategoryRequest) error {
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return fmt.Errorf("%w: category name is required", model.ErrInvalidInput)
	}
	if req.ParentID != nil && strings.TrimSpace(*req.ParentID) == "" {
		req.ParentID = nil
	}
	return nil
}
