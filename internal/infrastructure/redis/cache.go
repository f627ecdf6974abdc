package redis

import (
	"context"
	"encoding/json"
	"log"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

// ViewCache is a JSON cache for one read model type. Redis failures are
// logged and behave like misses so the dashboard keeps working without Redis.
type ViewCache[T any] struct {
	client goredis.Cmdable
	prefix string
	ttl    time.Duration
}

// NewViewCache creates a cache whose keys are prefix + ":" + id.
func NewViewCache[T any](client goredis.Cmdable, prefix string, ttl time.Duration) *ViewCache[T] {
	return &ViewCache[T]{client: client, prefix: prefix, ttl: ttl}
}

func (c *ViewCache[T]) key(id string) string {
	return c.prefix + ":" + id
}

// Get returns the cached value for id, or (nil, false) on a miss.
func (c *ViewCache[T]) Get(ctx context.Context, id string) (*T, bool) {
	data, err := c.client.Get(ctx, c.key(id)).Bytes()
	if err != nil {
		if err != goredis.Nil {
			log.Printf("ViewCache: read error for key %s: %v", c.key(id), err)
		}
		return nil, false
	}

	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		log.Printf("ViewCache: unmarshal error for key %s: %v", c.key(id), err)
		return nil, false
	}
	return &v, true
}

// Set stores value under id with the cache TTL.
func (c *ViewCache[T]) Set(ctx context.Context, id string, value *T) {
	data, err := json.Marshal(value)
	if err != nil {
		log.Printf("ViewCache: marshal error for key %s: %v", c.key(id), err)
		return
	}
	if err := c.client.Set(ctx, c.key(id), data, c.ttl).Err(); err != nil {
		log.Printf("ViewCache: write error for key %s: %v", c.key(id), err)
	}
}

// Invalidate removes the cached value for id.
func (c *ViewCache[T]) Invalidate(ctx context.Context, id string) error {
	return c.client.Del(ctx, c.key(id)).Err()
}
