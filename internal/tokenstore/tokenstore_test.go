package tokenstore

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"admin-console/internal/kvstore"
	"admin-console/internal/model"
)

func TestStore_SaveAndClear(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	kv := kvstore.NewMemoryStore()
	store := New(kv)

	tokens, err := store.Tokens(ctx)
	require.NoError(t, err)
	assert.Empty(t, tokens.AccessToken)
	assert.Empty(t, tokens.RefreshToken)

	require.NoError(t, store.Save(ctx, model.TokenPair{AccessToken: "access", RefreshToken: "refresh"}))

	raw, err := kv.Get(ctx, "accessToken")
	require.NoError(t, err)
	assert.Equal(t, "access", raw)

	tokens, err = store.Tokens(ctx)
	require.NoError(t, err)
	assert.Equal(t, model.TokenPair{AccessToken: "access", RefreshToken: "refresh"}, tokens)

	require.NoError(t, store.Clear(ctx))
	access, err := store.AccessToken(ctx)
	require.NoError(t, err)
	assert.Empty(t, access)
}

func TestStore_PropagatesBackendErrors(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	kv := new(kvstore.MockStore)
	kv.On("Get", ctx, AccessTokenKey).Return("", errors.New("disk on fire"))
	kv.On("Set", ctx, AccessTokenKey, mock.Anything).Return(errors.New("read-only"))

	store := New(kv)

	_, err := store.Tokens(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk on fire")

	err = store.Save(ctx, model.TokenPair{AccessToken: "a", RefreshToken: "r"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "save access token")

	kv.AssertNotCalled(t, "Set", ctx, RefreshTokenKey, mock.Anything)
	kv.AssertExpectations(t)
}
