// Package cache holds small in-memory TTL caches owned by the component that
// performs the fetches.
package cache

import (
	"sync"
	"time"

	"github.com/btmxh/folio/internal/clock"
)

// Cache is an in-memory TTL cache. Expiry is measured against the injected clock.
type Cache[T any] struct {
	mu    sync.RWMutex
	clock clock.Clock
	ttl   time.Duration
	data  map[string]entry[T]
}

type entry[T any] struct {
	value T
	exp   time.Time
}

// New returns an empty cache whose entries live for ttl.
func New[T any](c clock.Clock, ttl time.Duration) *Cache[T] {
	if c == nil {
		c = clock.Real()
	}
	return &Cache[T]{clock: c, ttl: ttl, data: make(map[string]entry[T])}
}

// Get returns the cached value or false if absent/expired. An expired entry
// is dropped.
func (c *Cache[T]) Get(key string) (T, bool) {
	var zero T

	c.mu.RLock()
	item, ok := c.data[key]
	c.mu.RUnlock()
	if !ok {
		return zero, false
	}

	now := c.clock.Now()
	if !now.Before(item.exp) {
		c.mu.Lock()
		if current, ok := c.data[key]; ok && !now.Before(current.exp) {
			delete(c.data, key)
		}
		c.mu.Unlock()
		return zero, false
	}
	return item.value, true
}

// Put stores value and sweeps out every expired entry, so keys that are never
// read again do not accumulate.
func (c *Cache[T]) Put(key string, value T) {
	now := c.clock.Now()

	c.mu.Lock()
	defer c.mu.Unlock()

	for k, item := range c.data {
		if !now.Before(item.exp) {
			delete(c.data, k)
		}
	}
	c.data[key] = entry[T]{value: value, exp: now.Add(c.ttl)}
}

func (c *Cache[T]) Invalidate(key string) {
	c.mu.Lock()
	delete(c.data, key)
	c.mu.Unlock()
}

func (c *Cache[T]) InvalidateAll() {
	c.mu.Lock()
	c.data = make(map[string]entry[T])
	c.mu.Unlock()
}

// Len counts stored entries; expired ones linger until the next Put or Get.
func (c *Cache[T]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.data)
}
