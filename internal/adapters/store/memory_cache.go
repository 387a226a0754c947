package store

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/commercemesh/catalog-sync/internal/domain"
	"github.com/commercemesh/catalog-sync/internal/ports"
)

var (
	_ ports.PatternCache = (*MemoryPatternCache)(nil)
	_ ports.TagCache     = (*MemoryTagCache)(nil)
)

// MemoryPatternCache is a thread-safe key/value cache purged by glob
// pattern, standing in for the commerce backend's query cache.
type MemoryPatternCache struct {
	mu      sync.RWMutex
	entries map[string]any
}

// NewMemoryPatternCache creates an empty cache.
func NewMemoryPatternCache() *MemoryPatternCache {
	return &MemoryPatternCache{entries: make(map[string]any)}
}

// Set stores a value under the given key.
func (c *MemoryPatternCache) Set(key string, value any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = value
}

// Get returns the value under the given key, if present.
func (c *MemoryPatternCache) Get(key string) (any, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	v, ok := c.entries[key]
	return v, ok
}

// Len returns the number of cached entries.
func (c *MemoryPatternCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Invalidate removes every entry whose key matches the glob pattern. "*"
// purges the whole cache.
func (c *MemoryPatternCache) Invalidate(_ context.Context, pattern string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if pattern == "*" {
		clear(c.entries)
		return nil
	}
	for key := range c.entries {
		if matchGlob(pattern, key) {
			delete(c.entries, key)
		}
	}
	return nil
}

// matchGlob reports whether key matches pattern, where '*' matches any run
// of characters (including none). Patterns contain no other metacharacters.
func matchGlob(pattern, key string) bool {
	parts := strings.Split(pattern, "*")

	// Literal pattern.
	if len(parts) == 1 {
		return pattern == key
	}

	if !strings.HasPrefix(key, parts[0]) {
		return false
	}
	key = key[len(parts[0]):]

	last := parts[len(parts)-1]
	if !strings.HasSuffix(key, last) {
		return false
	}
	key = key[:len(key)-len(last)]

	for _, part := range parts[1 : len(parts)-1] {
		if part == "" {
			continue
		}
		idx := strings.Index(key, part)
		if idx < 0 {
			return false
		}
		key = key[idx+len(part):]
	}
	return true
}

// MemoryTagCache records tag revalidations with timestamps, standing in for
// the storefront's tag-based page cache.
type MemoryTagCache struct {
	mu          sync.Mutex
	revalidated map[domain.Tag]time.Time
}

// NewMemoryTagCache creates an empty cache.
func NewMemoryTagCache() *MemoryTagCache {
	return &MemoryTagCache{revalidated: make(map[domain.Tag]time.Time)}
}

// Revalidate marks the tag's cached pages as stale.
func (c *MemoryTagCache) Revalidate(_ context.Context, tag domain.Tag) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.revalidated[tag] = time.Now()
	return nil
}

// RevalidatedAt returns when the tag was last revalidated, if ever.
func (c *MemoryTagCache) RevalidatedAt(tag domain.Tag) (time.Time, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	t, ok := c.revalidated[tag]
	return t, ok
}
