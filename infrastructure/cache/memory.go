package cache

import (
	"context"
	"sync"
	"time"

	"tastebase-backend/application/ports"
)

// MemoryRenderCache is an in-process ports.RenderCache used in development and
// tests. Same semantics as the Redis implementation: TTL expiry, tag sets over
// page keys, idempotent invalidation.
type MemoryRenderCache struct {
	mu    sync.RWMutex
	pages map[string]pageEntry
	tags  map[string]map[string]struct{} // tag -> set of paths
	done  chan struct{}
}

type pageEntry struct {
	body      []byte
	expiresAt time.Time
}

// NewMemoryRenderCache creates a new in-memory render cache and starts its
// expiry sweeper.
func NewMemoryRenderCache() *MemoryRenderCache {
	c := &MemoryRenderCache{
		pages: make(map[string]pageEntry),
		tags:  make(map[string]map[string]struct{}),
		done:  make(chan struct{}),
	}

	go c.sweepExpired()

	return c
}

// InvalidatePath drops the cached render for one route.
func (c *MemoryRenderCache) InvalidatePath(ctx context.Context, path string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.pages, path)
	return nil
}

// InvalidateTag drops every page labelled with tag.
func (c *MemoryRenderCache) InvalidateTag(ctx context.Context, tag string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	for path := range c.tags[tag] {
		delete(c.pages, path)
	}
	delete(c.tags, tag)
	return nil
}

// GetPage returns the cached render for path, or ports.ErrNotCached.
func (c *MemoryRenderCache) GetPage(ctx context.Context, path string) ([]byte, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, exists := c.pages[path]
	if !exists || time.Now().After(entry.expiresAt) {
		return nil, ports.ErrNotCached
	}
	return entry.body, nil
}

// SetPage stores a rendered page under path, labelled with tags.
func (c *MemoryRenderCache) SetPage(ctx context.Context, path string, body []byte, tags []string, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.pages[path] = pageEntry{
		body:      body,
		expiresAt: time.Now().Add(ttl),
	}
	for _, tag := range tags {
		if c.tags[tag] == nil {
			c.tags[tag] = make(map[string]struct{})
		}
		c.tags[tag][path] = struct{}{}
	}
	return nil
}

// Close stops the expiry sweeper.
func (c *MemoryRenderCache) Close() error {
	close(c.done)
	return nil
}

// sweepExpired periodically removes expired pages and their tag memberships.
func (c *MemoryRenderCache) sweepExpired() {
	ticker := time.NewTicker(1 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-c.done:
			return
		case <-ticker.C:
			c.mu.Lock()
			now := time.Now()
			for path, entry := range c.pages {
				if now.After(entry.expiresAt) {
					delete(c.pages, path)
					for _, members := range c.tags {
						delete(members, path)
					}
				}
			}
			c.mu.Unlock()
		}
	}
}
