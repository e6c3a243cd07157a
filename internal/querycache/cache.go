// Package querycache memoizes list queries for the admin pages. Concurrent
// identical lookups collapse into one backend call, results live for a short
// TTL, and a write to an entity kind drops every cached page of that kind.
package querycache

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// Key identifies one cached query: the entity kind plus the serialized
// query parameters (search term, page, filters).
type Key struct {
	Kind  string
	Query string
}

func (k Key) id() string { return k.Kind + "\x00" + k.Query }

type entry struct {
	value   any
	expires time.Time
}

// Cache is safe for concurrent use by all request handlers.
type Cache struct {
	ttl   time.Duration
	group singleflight.Group

	mu      sync.Mutex
	entries map[Key]entry
	issues  map[Key]uint64
}

func New(ttl time.Duration) *Cache {
	return &Cache{
		ttl:     ttl,
		entries: make(map[Key]entry),
		issues:  make(map[Key]uint64),
	}
}

// Do returns the cached value for key, or runs loader to fill it. Each load
// is stamped with an issue number taken when it starts; a load only writes
// the cache if no newer issue for the key exists when it finishes, so a slow
// stale response never overwrites a fresher one. Errors are never cached.
func (c *Cache) Do(ctx context.Context, key Key, loader func(ctx context.Context) (any, error)) (any, error) {
	c.mu.Lock()
	if e, ok := c.entries[key]; ok && time.Now().Before(e.expires) {
		c.mu.Unlock()
		return e.value, nil
	}
	c.mu.Unlock()

	v, err, _ := c.group.Do(key.id(), func() (any, error) {
		c.mu.Lock()
		c.issues[key]++
		issue := c.issues[key]
		c.mu.Unlock()

		val, err := loader(ctx)
		if err != nil {
			return nil, err
		}

		c.mu.Lock()
		if issue == c.issues[key] {
			c.entries[key] = entry{value: val, expires: time.Now().Add(c.ttl)}
		}
		c.mu.Unlock()
		return val, nil
	})
	return v, err
}

// Invalidate drops every cached entry for kind and outdates any load still
// in flight for it, so writes are always followed by a fresh read.
func (c *Cache) Invalidate(kind string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for k := range c.entries {
		if k.Kind == kind {
			delete(c.entries, k)
		}
	}
	for k := range c.issues {
		if k.Kind == kind {
			c.issues[k]++
			c.group.Forget(k.id())
		}
	}
}

// Get is the typed wrapper over Cache.Do.
func Get[V any](ctx context.Context, c *Cache, key Key, loader func(ctx context.Context) (V, error)) (V, error) {
	v, err := c.Do(ctx, key, func(ctx context.Context) (any, error) {
		return loader(ctx)
	})
	if err != nil {
		var zero V
		return zero, err
	}
	return v.(V), nil
}
