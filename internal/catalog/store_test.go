package catalog

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"admin-console/internal/cache"
	"admin-console/internal/event"
	"admin-console/internal/kvstore"
	"admin-console/internal/model"
)

type fakeBackend struct {
	records []model.CategoryRecord
	err     error
	fetches int
	created []model.CategoryRequest
	deleted []string
}

func (f *fakeBackend) GetCategories(context.Context) ([]model.CategoryRecord, error) {
	f.fetches++
	return f.records, f.err
}

func (f *fakeBackend) CreateCategory(_ context.Context, req model.CategoryRequest) (model.CategoryRecord, error) {
	f.created = append(f.created, req)
	return model.CategoryRecord{ID: "new", Name: req.Name, ParentID: req.ParentID}, nil
}

func (f *fakeBackend) UpdateCategory(_ context.Context, id string, req model.CategoryRequest) (model.CategoryRecord, error) {
	return model.CategoryRecord{ID: id, Name: req.Name, ParentID: req.ParentID}, nil
}

func (f *fakeBackend) DeleteCategory(_ context.Context, id string) error {
	f.deleted = append(f.deleted, id)
	return nil
}

func sampleRecords() []model.CategoryRecord {
	return []model.CategoryRecord{
		record("A", "Apparel", nil),
		record("B", "Shoes", ptr("A")),
	}
}

func TestStore_TreeIsCached(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	kv := kvstore.NewMemoryStore()
	backend := &fakeBackend{records: sampleRecords()}
	store := NewStore(backend, cache.New(kv), time.Minute, nil)

	forest, err := store.Tree(ctx)
	require.NoError(t, err)
	assert.Equal(t, "A[B]", shape(forest))

	_, err = store.Tree(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, backend.fetches)

	// a second console process sharing the state store reads the cached copy
	other := NewStore(backend, cache.New(kv), time.Minute, nil)
	forest, err = other.Tree(ctx)
	require.NoError(t, err)
	assert.Equal(t, "A[B]", shape(forest))
	assert.Equal(t, 1, backend.fetches)

	_, err = store.Refresh(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, backend.fetches)
}

func TestStore_ExpiredMemoryFallsThrough(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	now := time.Unix(1_700_000_000, 0)
	clock := func() time.Time { return now }

	backend := &fakeBackend{records: sampleRecords()}
	store := NewStore(backend, cache.New(kvstore.NewMemoryStore(), cache.WithClock(clock)), time.Minute, nil)
	store.now = clock

	_, err := store.Tree(ctx)
	require.NoError(t, err)

	now = now.Add(2 * time.Minute)
	_, err = store.Tree(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, backend.fetches)
}

func TestStore_WritesInvalidate(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	bus := event.NewBus()
	events, unsubscribe := bus.Subscribe()
	defer unsubscribe()

	backend := &fakeBackend{records: sampleRecords()}
	store := NewStore(backend, cache.New(kvstore.NewMemoryStore()), time.Minute, bus)

	_, err := store.Tree(ctx)
	require.NoError(t, err)

	created, err := store.Create(ctx, model.CategoryRequest{Name: "  Sandals ", ParentID: ptr("")})
	require.NoError(t, err)
	assert.Equal(t, "Sandals", created.Name)
	require.Len(t, backend.created, 1)
	assert.Nil(t, backend.created[0].ParentID, "blank parent is sent as root")

	_, err = store.Tree(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, backend.fetches)

	require.NoError(t, store.Delete(ctx, "B"))
	assert.Equal(t, []string{"B"}, backend.deleted)

	e := <-events
	assert.Equal(t, event.TypeCategoryChanged, e.Type)
	assert.Equal(t, event.Change{Action: "created", ID: "new"}, e.Payload)
}

func TestStore_Validation(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	store := NewStore(&fakeBackend{}, cache.New(kvstore.NewMemoryStore()), 0, nil)

	_, err := store.Create(ctx, model.CategoryRequest{Name: "   "})
	assert.ErrorIs(t, err, model.ErrInvalidInput)

	_, err = store.Update(ctx, "A", model.CategoryRequest{Name: "A", ParentID: ptr("A")})
	assert.ErrorIs(t, err, model.ErrInvalidInput)
}

func TestStore_GetAndAll(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	store := NewStore(&fakeBackend{records: sampleRecords()}, cache.New(kvstore.NewMemoryStore()), time.Minute, nil)

	c, err := store.Get(ctx, "B")
	require.NoError(t, err)
	assert.Equal(t, "Shoes", c.Name)

	_, err = store.Get(ctx, "Z")
	assert.ErrorIs(t, err, model.ErrCategoryNotFound)

	all, err := store.All(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestStore_BackendError(t *testing.T) {
	t.Parallel()
	boom := errors.New("inventory down")
	store := NewStore(&fakeBackend{err: boom}, cache.New(kvstore.NewMemoryStore()), time.Minute, nil)

	_, err := store.Tree(context.Background())
	assert.ErrorIs(t, err, boom)
}
