package kvstore

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func exerciseStore(t *testing.T, store Store) {
	t.Helper()
	ctx := context.Background()

	_, err := store.Get(ctx, "accessToken")
	require.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, store.Set(ctx, "accessToken", "a.b.c"))
	require.NoError(t, store.Set(ctx, "dashboard_stats", `{"data":1}`))
	require.NoError(t, store.Set(ctx, "dashboard_statistics", `{"data":2}`))
	require.NoError(t, store.Set(ctx, "categories_tree", `{"data":[]}`))

	value, err := store.Get(ctx, "accessToken")
	require.NoError(t, err)
	require.Equal(t, "a.b.c", value)

	require.NoError(t, store.Set(ctx, "accessToken", "d.e.f"))
	value, err = store.Get(ctx, "accessToken")
	require.NoError(t, err)
	require.Equal(t, "d.e.f", value)

	keys, err := store.Keys(ctx, "dashboard_")
	require.NoError(t, err)
	require.Equal(t, []string{"dashboard_statistics", "dashboard_stats"}, keys)

	removed, err := DeletePrefix(ctx, store, "dashboard_")
	require.NoError(t, err)
	require.Equal(t, 2, removed)

	keys, err = store.Keys(ctx, "")
	require.NoError(t, err)
	require.ElementsMatch(t, []string{"accessToken", "categories_tree"}, keys)

	require.NoError(t, store.Delete(ctx, "accessToken", "missing"))
	_, err = store.Get(ctx, "accessToken")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStore(t *testing.T) {
	t.Parallel()
	exerciseStore(t, NewMemoryStore())
}

func TestFileStore(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "state", "console.json")
	store, err := NewFileStore(path)
	require.NoError(t, err)
	exerciseStore(t, store)
}

func TestFileStore_SurvivesReopen(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	path := filepath.Join(t.TempDir(), "console.json")
	store, err := NewFileStore(path)
	require.NoError(t, err)
	require.NoError(t, store.Set(ctx, "refreshToken", "r-1"))

	info, err := os.Stat(path)
	require.NoError(t, err)
	require.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	reopened, err := NewFileStore(path)
	require.NoError(t, err)
	value, err := reopened.Get(ctx, "refreshToken")
	require.NoError(t, err)
	require.Equal(t, "r-1", value)
}

func TestFileStore_RejectsCorruptFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "console.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	_, err := NewFileStore(path)
	require.Error(t, err)
}

func TestFileStore_EmptyFileIsEmptyState(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "console.json")
	require.NoError(t, os.WriteFile(path, []byte("  \n"), 0o600))

	store, err := NewFileStore(path)
	require.NoError(t, err)
	keys, err := store.Keys(context.Background(), "")
	require.NoError(t, err)
	require.Empty(t, keys)
}

func TestRedisStore(t *testing.T) {
	addr := os.Getenv("TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("TEST_REDIS_ADDR not set")
	}

	client := redis.NewClient(&redis.Options{Addr: addr})
	t.Cleanup(func() { _ = client.Close() })
	require.NoError(t, client.Ping(context.Background()).Err())

	prefix := "console-test:" + t.Name() + ":"
	store := NewRedisStore(client, prefix)
	t.Cleanup(func() { _, _ = DeletePrefix(context.Background(), store, "") })

	exerciseStore(t, store)
}

func TestEscapeGlob(t *testing.T) {
	t.Parallel()
	require.Equal(t, `console\*:\?\[x\]`, escapeGlob("console*:?[x]"))
	require.Equal(t, "plain_prefix", escapeGlob("plain_prefix"))
}
