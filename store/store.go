package store

import (
	"context"
	"fmt"

	"github.com/swoga/achievements-login/config"
	"github.com/swoga/achievements-login/model"
)

const (
	AccessTokenKey  = "access_token"
	RefreshTokenKey = "refresh_token"
)

// Store is the client side key/value session storage.
// Get returns an empty string for absent keys. Set and Remove apply all
// keys at once, an observer never sees only part of them.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, values map[string]string) error
	Remove(ctx context.Context, keys ...string) error
}

func New(c config.Store) (Store, error) {
	switch c.Type {
	case config.StoreMemory:
		return NewMemory(), nil
	case config.StoreFile:
		return NewFile(c.Path), nil
	case config.StoreRedis:
		return NewRedisFromConfig(c.Redis), nil
	}
	return nil, fmt.Errorf("unknown store type %q", c.Type)
}

func SaveTokens(ctx context.Context, s Store, tokens model.SessionTokens) error {
	return s.Set(ctx, map[string]string{
		AccessTokenKey:  tokens.AccessToken,
		RefreshTokenKey: tokens.RefreshToken,
	})
}

func ClearTokens(ctx context.Context, s Store) error {
	return s.Remove(ctx, AccessTokenKey, RefreshTokenKey)
}

func AccessToken(ctx context.Context, s Store) (string, error) {
	return s.Get(ctx, AccessTokenKey)
}
