package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"tastebase-backend/application/ports"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	pageKeyPrefix = "render:path:"
	tagKeyPrefix  = "render:tag:"
)

// RedisRenderCache implements ports.RenderCache on Redis. A rendered page is
// stored under render:path:<path>; tag membership is a Redis set under
// render:tag:<tag> whose members are page keys. Deleting absent keys is a
// Redis no-op, which gives invalidation its idempotence for free.
type RedisRenderCache struct {
	client *redis.Client
	logger *zap.Logger
}

// NewRedisRenderCache connects to Redis and verifies the connection.
func NewRedisRenderCache(addr, password string, db int, logger *zap.Logger) (*RedisRenderCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", addr, err)
	}

	return &RedisRenderCache{
		client: client,
		logger: logger,
	}, nil
}

// InvalidatePath drops the cached render for one route.
func (c *RedisRenderCache) InvalidatePath(ctx context.Context, path string) error {
	if err := c.client.Del(ctx, pageKey(path)).Err(); err != nil {
		return fmt.Errorf("failed to invalidate path %q: %w", path, err)
	}
	return nil
}

// InvalidateTag drops every page labelled with tag, then the tag set itself.
func (c *RedisRenderCache) InvalidateTag(ctx context.Context, tag string) error {
	key := tagKey(tag)

	members, err := c.client.SMembers(ctx, key).Result()
	if err != nil {
		return fmt.Errorf("failed to read tag set %q: %w", tag, err)
	}

	if len(members) > 0 {
		if err := c.client.Del(ctx, members...).Err(); err != nil {
			return fmt.Errorf("failed to invalidate %d pages for tag %q: %w", len(members), tag, err)
		}
	}

	if err := c.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("failed to drop tag set %q: %w", tag, err)
	}

	c.logger.Debug("Tag invalidated",
		zap.String("tag", tag),
		zap.Int("pages", len(members)),
	)
	return nil
}

// GetPage returns the cached render for path, or ports.ErrNotCached.
func (c *RedisRenderCache) GetPage(ctx context.Context, path string) ([]byte, error) {
	body, err := c.client.Get(ctx, pageKey(path)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ports.ErrNotCached
		}
		return nil, fmt.Errorf("failed to read page %q: %w", path, err)
	}
	return body, nil
}

// SetPage stores a rendered page and registers it under its tags. The tag
// sets get their expiry refreshed to the page TTL on every write, so a tag
// set never outlives its newest member by more than one TTL; members pointing
// at expired pages are harmless because deleting them again is a no-op.
func (c *RedisRenderCache) SetPage(ctx context.Context, path string, body []byte, tags []string, ttl time.Duration) error {
	key := pageKey(path)

	pipe := c.client.TxPipeline()
	pipe.Set(ctx, key, body, ttl)
	for _, tag := range tags {
		pipe.SAdd(ctx, tagKey(tag), key)
		pipe.Expire(ctx, tagKey(tag), ttl)
	}

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to store page %q: %w", path, err)
	}
	return nil
}

// Close closes the Redis connection.
func (c *RedisRenderCache) Close() error {
	return c.client.Close()
}

func pageKey(path string) string {
	return pageKeyPrefix + path
}

func tagKey(tag string) string {
	return tagKeyPrefix + tag
}
