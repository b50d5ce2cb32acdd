// Package kvstore is the console's persistent key-value state: tokens, the
// session snapshot and cache entries all live here. Values are opaque strings,
// mirroring a browser's localStorage.
package kvstore

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("key not found")

// Store is safe for concurrent use. Writes are last-writer-wins; there are no
// transactions across keys.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value string) error
	Delete(ctx context.Context, keys ...string) error
	// Keys lists every key starting with prefix. An empty prefix lists all keys.
	Keys(ctx context.Context, prefix string) ([]string, error)
}

// DeletePrefix removes every key that starts with prefix and reports how many
// keys were removed.
func DeletePrefix(ctx context.Context, store Store, prefix string) (int, error) {
	keys, err := store.Keys(ctx, prefix)
	if err != nil {
		return 0, err
	}
	if len(keys) == 0 {
		return 0, nil
	}
	if err := store.Delete(ctx, keys...); err != nil {
		return 0, err
	}
	return len(keys), nil
}
