// Package videocache holds video search results keyed by query.
package videocache

import (
	"context"
	"sync"
	"time"

	"github.com/yanqian/smartchef/internal/domain/video"
)

type entry struct {
	videos    []video.Suggestion
	expiresAt time.Time
}

// MemoryCache is an in-process cache for single-instance deployments and tests.
type MemoryCache struct {
	mu      sync.RWMutex
	entries map[string]entry
	now     func() time.Time
}

// NewMemoryCache constructs a cache backed by process memory.
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{
		entries: make(map[string]entry),
		now:     time.Now,
	}
}

// Get implements video.Cache.
func (c *MemoryCache) Get(_ context.Context, key string) ([]video.Suggestion, bool, error) {
	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok {
		return nil, false, nil
	}
	if !e.expiresAt.IsZero() && !e.expiresAt.After(c.now()) {
		c.mu.Lock()
		delete(c.entries, key)
		c.mu.Unlock()
		return nil, false, nil
	}
	out := make([]video.Suggestion, len(e.videos))
	copy(out, e.videos)
	return out, true, nil
}

// Set stores videos; a non-positive ttl never expires.
func (c *MemoryCache) Set(_ context.Context, key string, videos []video.Suggestion, ttl time.Duration) error {
	stored := make([]video.Suggestion, len(videos))
	copy(stored, videos)
	exp := time.Time{}
	if ttl > 0 {
		exp = c.now().Add(ttl)
	}
	c.mu.Lock()
	c.entries[key] = entry{videos: stored, expiresAt: exp}
	c.mu.Unlock()
	return nil
}

var _ video.Cache = (*MemoryCache)(nil)
