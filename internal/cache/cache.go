// Package cache provides a small in-memory TTL cache.
package cache

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Stats counts cache activity since creation.
type Stats struct {
	Hits      int64
	Misses    int64
	Evictions int64
}

type entry[V any] struct {
	value     V
	expiresAt time.Time
}

type options struct {
	now             func() time.Time
	log             *zap.Logger
	cleanupInterval time.Duration
}

// Option configures a Cache.
type Option func(*options)

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

// WithLogger sets the logger used for hit/miss/eviction events.
func WithLogger(log *zap.Logger) Option {
	return func(o *options) {
		if log != nil {
			o.log = log
		}
	}
}

// WithCleanupInterval starts a janitor goroutine that drops expired entries
// every interval. Close stops it.
func WithCleanupInterval(interval time.Duration) Option {
	return func(o *options) { o.cleanupInterval = interval }
}

// Cache maps string keys to values that expire ttl after being stored.
// A non-positive ttl disables caching.
type Cache[V any] struct {
	mu      sync.Mutex
	ttl     time.Duration
	entries map[string]entry[V]
	stats   Stats
	now     func() time.Time
	log     *zap.Logger

	stop      chan struct{}
	done      chan struct{}
	closeOnce sync.Once
}

// New creates a cache whose entries live for ttl.
func New[V any](ttl time.Duration, opts ...Option) *Cache[V] {
	o := options{now: time.Now, log: zap.NewNop()}
	for _, opt := range opts {
		opt(&o)
	}

	c := &Cache[V]{
		ttl:     ttl,
		entries: make(map[string]entry[V]),
		now:     o.now,
		log:     o.log,
	}
	if ttl > 0 && o.cleanupInterval > 0 {
		c.stop = make(chan struct{})
		c.done = make(chan struct{})
		go c.janitor(o.cleanupInterval)
	}
	return c
}

// Enabled reports whether values are retained at all.
func (c *Cache[V]) Enabled() bool { return c.ttl > 0 }

// Get returns the live value for key.
func (c *Cache[V]) Get(key string) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var zero V
	e, ok := c.entries[key]
	if !ok {
		c.stats.Misses++
		c.log.Debug("cache miss", zap.String("key", key))
		return zero, false
	}
	if !c.now().Before(e.expiresAt) {
		delete(c.entries, key)
		c.stats.Misses++
		c.stats.Evictions++
		c.log.Debug("cache entry expired", zap.String("key", key))
		return zero, false
	}
	c.stats.Hits++
	c.log.Debug("cache hit", zap.String("key", key))
	return e.value, true
}

// Set stores value under key for the cache's ttl.
func (c *Cache[V]) Set(key string, value V) {
	if !c.Enabled() {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = entry[V]{value: value, expiresAt: c.now().Add(c.ttl)}
}

// Invalidate drops key.
func (c *Cache[V]) Invalidate(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
}

// GetOrLoad returns the cached value for key or calls load and caches its
// result. Errors are returned as is and never cached.
func (c *Cache[V]) GetOrLoad(ctx context.Context, key string, load func(context.Context) (V, error)) (V, error) {
	if v, ok := c.Get(key); ok {
		return v, nil
	}
	v, err := load(ctx)
	if err != nil {
		var zero V
		return zero, err
	}
	c.Set(key, v)
	return v, nil
}

// Stats returns a copy of the activity counters.
func (c *Cache[V]) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stats
}

// Len returns the number of stored entries, expired or not.
func (c *Cache[V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Close stops the janitor, if any. It is safe to call more than once.
func (c *Cache[V]) Close() {
	if c.stop == nil {
		return
	}
	c.closeOnce.Do(func() {
		close(c.stop)
		<-c.done
	})
}

func (c *Cache[V]) janitor(interval time.Duration) {
	defer close(c.done)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-c.stop:
			return
		case <-ticker.C:
			if n := c.cleanup(); n > 0 {
				c.log.Debug("cache cleanup", zap.Int("evicted", n))
			}
		}
	}
}

func (c *Cache[V]) cleanup() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	evicted := 0
	for key, e := range c.entries {
		if !now.Before(e.expiresAt) {
			delete(c.entries, key)
			evicted++
		}
	}
	c.stats.Evictions += int64(evicted)
	return evicted
}
