// Package cache provides a mutex-guarded TTL cache with a size bound.
// Instances own their map exclusively; entries never escape by reference.
// Construct once at startup and inject wherever needed; there is no
// ambient state.
package cache

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

type entry[V any] struct {
	value      V
	insertedAt time.Time
}

type Cache[K comparable, V any] struct {
	mu       sync.Mutex
	entries  map[K]entry[V]
	ttl      time.Duration
	capacity int

	hitMiss *prometheus.CounterVec
	now     func() time.Time
}

// New creates a cache with the given entry TTL and maximum size. A
// non-positive capacity means unbounded.
func New[K comparable, V any](ttl time.Duration, capacity int) *Cache[K, V] {
	return &Cache[K, V]{
		entries:  make(map[K]entry[V]),
		ttl:      ttl,
		capacity: capacity,
		now:      time.Now,
	}
}

// WithMetrics attaches a counter vec with a "result" label ("hit"/"miss").
func (c *Cache[K, V]) WithMetrics(hitMiss *prometheus.CounterVec) *Cache[K, V] {
	c.hitMiss = hitMiss
	return c
}

// Get returns a live entry. Expired entries are evicted on read.
func (c *Cache[K, V]) Get(key K) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var zero V
	e, ok := c.entries[key]
	if !ok {
		c.record("miss")
		return zero, false
	}
	if c.now().Sub(e.insertedAt) >= c.ttl {
		delete(c.entries, key)
		c.record("miss")
		return zero, false
	}
	c.record("hit")
	return e.value, true
}

// Set inserts a value, evicting the single oldest entry when at capacity.
// Eviction is by insertion time, not access time (an accepted
// simplification over true LRU).
func (c *Cache[K, V]) Set(key K, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.entries[key]; !exists && c.capacity > 0 && len(c.entries) >= c.capacity {
		c.evictOldestLocked()
	}
	c.entries[key] = entry[V]{value: value, insertedAt: c.now()}
}

// Delete removes a single entry if present.
func (c *Cache[K, V]) Delete(key K) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
}

// Flush drops every entry.
func (c *Cache[K, V]) Flush() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[K]entry[V])
}

// Len reports the current entry count, expired entries included until the
// next read touches them.
func (c *Cache[K, V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

func (c *Cache[K, V]) evictOldestLocked() {
	var oldestKey K
	var oldestAt time.Time
	first := true
	for key, e := range c.entries {
		if first || e.insertedAt.Before(oldestAt) {
			oldestKey = key
			oldestAt = e.insertedAt
			first = false
		}
	}
	if !first {
		delete(c.entries, oldestKey)
	}
}

func (c *Cache[K, V]) record(result string) {
	if c.hitMiss != nil {
		c.hitMiss.WithLabelValues(result).Inc()
	}
}
