// Package cartredis backs cart persistence with Redis, which fits the cart's
// blob-per-session layout and lets abandoned carts expire on their own.
package cartredis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/irsalhamdi/e-commerce-shop/config"
	"github.com/irsalhamdi/e-commerce-shop/storage"
	"github.com/redis/go-redis/v9"
)

const keyNamespace = "shop"

// cmdable is the slice of the redis client the store needs. Tests provide
// a mock.
type cmdable interface {
	Ping(ctx context.Context) *redis.StatusCmd
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

type Store struct {
	store cmdable
	ttl   time.Duration
}

// New connects to Redis and verifies connectivity before returning.
func New(ctx context.Context, cfg config.Redis) (*Store, error) {
	raw := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if err := raw.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("pinging redis at %s: %w", cfg.Addr, err)
	}

	return &Store{store: raw, ttl: cfg.CartTTL}, nil
}

func (s *Store) key(key string) string {
	return keyNamespace + ":" + key
}

func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	b, err := s.store.Get(ctx, s.key(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("redis get %q: %w", key, err)
	}
	return b, nil
}

func (s *Store) Set(ctx context.Context, key string, blob []byte) error {
	if err := s.store.Set(ctx, s.key(key), blob, s.ttl).Err(); err != nil {
		return fmt.Errorf("redis set %q: %w", key, err)
	}
	return nil
}

func (s *Store) Del(ctx context.Context, key string) error {
	if err := s.store.Del(ctx, s.key(key)).Err(); err != nil {
		return fmt.Errorf("redis del %q: %w", key, err)
	}
	return nil
}
