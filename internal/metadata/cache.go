package metadata

import (
	"sync"
	"time"
)

// Cache provides in-memory caching with TTL for decoded metadata.
type Cache[V any] struct {
	mu       sync.RWMutex
	items    map[string]cacheItem[V]
	ttl      time.Duration
	maxItems int
	done     chan struct{}
	once     sync.Once
}

type cacheItem[V any] struct {
	value     V
	expiresAt time.Time
}

// CacheConfig holds cache configuration.
type CacheConfig struct {
	TTL      time.Duration
	MaxItems int
}

// DefaultCacheConfig returns default cache configuration.
func DefaultCacheConfig() CacheConfig {
	return CacheConfig{
		TTL:      15 * time.Minute,
		MaxItems: 1000,
	}
}

// NewCache creates a new cache with the given configuration.
// Call Close to stop the background cleanup.
func NewCache[V any](cfg CacheConfig) *Cache[V] {
	if cfg.TTL == 0 {
		cfg.TTL = 15 * time.Minute
	}
	if cfg.MaxItems == 0 {
		cfg.MaxItems = 1000
	}

	c := &Cache[V]{
		items:    make(map[string]cacheItem[V]),
		ttl:      cfg.TTL,
		maxItems: cfg.MaxItems,
		done:     make(chan struct{}),
	}

	go c.cleanup()

	return c
}

// Get retrieves an item from the cache.
func (c *Cache[V]) Get(key string) (V, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	var zero V
	item, ok := c.items[key]
	if !ok {
		return zero, false
	}

	if time.Now().After(item.expiresAt) {
		return zero, false
	}

	return item.value, true
}

// Set stores an item in the cache.
func (c *Cache[V]) Set(key string, value V) {
	c.SetWithTTL(key, value, c.ttl)
}

// SetWithTTL stores an item with a custom TTL.
func (c *Cache[V]) SetWithTTL(key string, value V, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.items[key]; !exists && len(c.items) >= c.maxItems {
		c.evictOldest()
	}

	c.items[key] = cacheItem[V]{
		value:     value,
		expiresAt: time.Now().Add(ttl),
	}
}

// Delete removes an item from the cache.
func (c *Cache[V]) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.items, key)
}

// Clear removes all items from the cache.
func (c *Cache[V]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = make(map[string]cacheItem[V])
}

// Len returns the number of items in the cache.
func (c *Cache[V]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

// Close stops the background cleanup goroutine.
func (c *Cache[V]) Close() {
	c.once.Do(func() { close(c.done) })
}

// evictOldest removes expired items, then the soonest-expiring 10% if still
// at capacity. Must be called with lock held.
func (c *Cache[V]) evictOldest() {
	now := time.Now()
	for key, item := range c.items {
		if now.After(item.expiresAt) {
			delete(c.items, key)
		}
	}

	if len(c.items) < c.maxItems {
		return
	}

	toRemove := max(c.maxItems/10, 1)

	var oldest []string
	var oldestTimes []time.Time

	for key, item := range c.items {
		if len(oldest) < toRemove {
			oldest = append(oldest, key)
			oldestTimes = append(oldestTimes, item.expiresAt)
			continue
		}
		for i, t := range oldestTimes {
			if item.expiresAt.Before(t) {
				oldest[i] = key
				oldestTimes[i] = item.expiresAt
				break
			}
		}
	}

	for _, key := range oldest {
		delete(c.items, key)
	}
}

// cleanup periodically removes expired items.
func (c *Cache[V]) cleanup() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-c.done:
			return
		case <-ticker.C:
			c.mu.Lock()
			now := time.Now()
			for key, item := range c.items {
				if now.After(item.expiresAt) {
					delete(c.items, key)
				}
			}
			c.mu.Unlock()
		}
	}
}
