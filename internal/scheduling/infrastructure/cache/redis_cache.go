// Package cache caches completed scheduling runs by input hash.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/calendraio/calendra/internal/scheduling/domain"
)

// keyPrefix namespaces every cache key this service writes, following a
// `{service}:{scope}:{id}` convention.
const keyPrefix = "calendra:run"

// ErrCacheMiss is returned by Get when the key is absent.
var ErrCacheMiss = errors.New("cache miss")

// Cache is the interface the application layer depends on, satisfied by
// both FinalTasksCache and NoopFinalTasksCache.
type Cache interface {
	Get(ctx context.Context, inputHash string) (domain.FinalTasks, error)
	Set(ctx context.Context, inputHash string, final domain.FinalTasks) error
	Close() error
}

// FinalTasksCache caches a scheduling run's FinalTasks output, keyed by a
// hash of its input, so re-running an unchanged Input skips re-placement.
type FinalTasksCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewFinalTasksCache builds a cache client against the Redis server at url
// (a redis:// connection URL).
func NewFinalTasksCache(url string, ttl time.Duration) (*FinalTasksCache, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}
	return &FinalTasksCache{
		client: redis.NewClient(opt),
		ttl:    ttl,
	}, nil
}

func namespacedKey(inputHash string) string {
	return fmt.Sprintf("%s:%s", keyPrefix, inputHash)
}

// Get returns the cached FinalTasks for inputHash, or ErrCacheMiss.
func (c *FinalTasksCache) Get(ctx context.Context, inputHash string) (domain.FinalTasks, error) {
	raw, err := c.client.Get(ctx, namespacedKey(inputHash)).Bytes()
	if errors.Is(err, redis.Nil) {
		return domain.FinalTasks{}, ErrCacheMiss
	}
	if err != nil {
		return domain.FinalTasks{}, err
	}

	var final domain.FinalTasks
	if err := json.Unmarshal(raw, &final); err != nil {
		return domain.FinalTasks{}, fmt.Errorf("corrupt cache entry for %s: %w", inputHash, err)
	}
	return final, nil
}

// Set stores final under inputHash with the cache's configured TTL.
func (c *FinalTasksCache) Set(ctx context.Context, inputHash string, final domain.FinalTasks) error {
	raw, err := json.Marshal(final)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, namespacedKey(inputHash), raw, c.ttl).Err()
}

// Close closes the underlying Redis client.
func (c *FinalTasksCache) Close() error {
	return c.client.Close()
}

// Ping verifies the Redis connection is reachable.
func (c *FinalTasksCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

// NoopFinalTasksCache is used in local mode, where no Redis server runs.
type NoopFinalTasksCache struct{}

func (NoopFinalTasksCache) Get(ctx context.Context, inputHash string) (domain.FinalTasks, error) {
	return domain.FinalTasks{}, ErrCacheMiss
}

func (NoopFinalTasksCache) Set(ctx context.Context, inputHash string, final domain.FinalTasks) error {
	return nil
}

func (NoopFinalTasksCache) Close() error { return nil }
