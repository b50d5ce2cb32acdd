package tokenstore

import (
	"context"
	"errors"
	"fmt"

	"admin-console/internal/kvstore"
	"admin-console/internal/model"
)

const (
	AccessTokenKey  = "accessToken"
	RefreshTokenKey = "refreshToken"
)

// Store persists the raw access and refresh tokens under their well-known keys.
type Store struct {
	kv kvstore.Store
}

func New(kv kvstore.Store) *Store {
	return &Store{kv: kv}
}

// Tokens returns whatever is stored; missing tokens come back empty.
func (s *Store) Tokens(ctx context.Context) (model.TokenPair, error) {
	access, err := s.get(ctx, AccessTokenKey)
	if err != nil {
		return model.TokenPair{}, err
	}

	refresh, err := s.get(ctx, RefreshTokenKey)
	if err != nil {
		return model.TokenPair{}, err
	}

	return model.TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

func (s *Store) AccessToken(ctx context.Context) (string, error) {
	return s.get(ctx, AccessTokenKey)
}

func (s *Store) RefreshToken(ctx context.Context) (string, error) {
	return s.get(ctx, RefreshTokenKey)
}

func (s *Store) Save(ctx context.Context, tokens model.TokenPair) error {
	if err := s.kv.Set(ctx, AccessTokenKey, tokens.AccessToken); err != nil {
		return fmt.Errorf("save access token: %w", err)
	}
	if err := s.kv.Set(ctx, RefreshTokenKey, tokens.RefreshToken); err != nil {
		return fmt.Errorf("save refresh token: %w", err)
	}
	return nil
}

func (s *Store) Clear(ctx context.Context) error {
	if err := s.kv.Delete(ctx, AccessTokenKey, RefreshTokenKey); err != nil {
		return fmt.Errorf("clear tokens: %w", err)
	}
	return nil
}

func (s *Store) get(ctx context.Context, key string) (string, error) {
	value, err := s.kv.Get(ctx, key)
	if errors.Is(err, kvstore.ErrNotFound) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("read %s: %w", key, err)
	}
	return value, nil
}
