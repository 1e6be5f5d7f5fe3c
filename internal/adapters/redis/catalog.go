package redisad

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"resort_rooms/internal/adapters/catalogsrc"
	"resort_rooms/internal/adapters/observability"
	"resort_rooms/internal/domain"
)

// CatalogStore keeps a published catalog document under one Redis key. The API
// reads it as a catalog source; the operator CLI writes it.
type CatalogStore struct {
	c   *redis.Client
	key string
}

func New(addr, pass string, db int, key string) *CatalogStore {
	return NewWithClient(redis.NewClient(&redis.Options{Addr: addr, Password: pass, DB: db}), key)
}

func NewWithClient(c *redis.Client, key string) *CatalogStore {
	if key == "" {
		key = "catalog:rooms"
	}
	return &CatalogStore{c: c, key: key}
}

func (r *CatalogStore) Name() string { return "redis" }

func (r *CatalogStore) FetchCatalog(ctx context.Context) (*domain.Catalog, error) {
	v, err := r.c.Get(ctx, r.key).Bytes()
	if errors.Is(err, redis.Nil) {
		observability.ObserveCache("redis", "miss")
		return nil, fmt.Errorf("%w: redis key %s is not set", domain.ErrConfigUnavailable, r.key)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: redis: %v", domain.ErrConfigUnavailable, err)
	}
	observability.ObserveCache("redis", "hit")
	cat, err := catalogsrc.Decode(v)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrConfigUnavailable, err)
	}
	return cat, nil
}

// Publish replaces the stored document with cat in one SET.
func (r *CatalogStore) Publish(ctx context.Context, cat *domain.Catalog) error {
	b, err := catalogsrc.Encode(cat)
	if err != nil {
		return err
	}
	observability.ObserveCache("redis", "set")
	return r.c.Set(ctx, r.key, b, 0).Err()
}

func (r *CatalogStore) Del(ctx context.Context) error {
	observability.ObserveCache("redis", "del")
	return r.c.Del(ctx, r.key).Err()
}

func (r *CatalogStore) Ping(ctx context.Context) error { return r.c.Ping(ctx).Err() }

func (r *CatalogStore) Close() error { return r.c.Close() }
