// Package memory implements the cache port with an in-process map.
// Suitable for development and single-instance deployments where running
// Redis is not worth the operational cost.
package memory

import (
	"container/list"
	"context"
	"sync"
	"time"
)

// DefaultMaxItems bounds the cache when no explicit limit is given.
const DefaultMaxItems = 1024

// Cache is a mutex-guarded in-memory cache with per-item TTL and LRU
// eviction when the item limit is reached.
type Cache struct {
	mu       sync.Mutex
	items    map[string]*cacheItem
	lruList  *list.List
	maxItems int
}

type cacheItem struct {
	key        string
	value      []byte
	expiry     time.Time
	lruElement *list.Element
}

// New creates an in-memory cache holding at most maxItems entries
func New(maxItems int) *Cache {
	if maxItems <= 0 {
		maxItems = DefaultMaxItems
	}
	return &Cache{
		items:    make(map[string]*cacheItem),
		lruList:  list.New(),
		maxItems: maxItems,
	}
}

// Get retrieves a value from the cache
func (c *Cache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	item, exists := c.items[key]
	if !exists {
		return nil, false, nil
	}

	if time.Now().After(item.expiry) {
		c.removeItem(item)
		return nil, false, nil
	}

	c.lruList.MoveToFront(item.lruElement)

	// Return a copy to prevent external modifications
	value := make([]byte, len(item.value))
	copy(value, item.value)

	return value, true, nil
}

// Set stores a value in the cache with the specified TTL
func (c *Cache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if existing, exists := c.items[key]; exists {
		c.removeItem(existing)
	}

	// Evict from the cold end until there is room
	for len(c.items) >= c.maxItems && c.lruList.Len() > 0 {
		oldest := c.lruList.Back()
		c.removeItem(oldest.Value.(*cacheItem))
	}

	item := &cacheItem{
		key:    key,
		value:  make([]byte, len(value)),
		expiry: time.Now().Add(ttl),
	}
	copy(item.value, value)

	item.lruElement = c.lruList.PushFront(item)
	c.items[key] = item

	return nil
}

// Delete removes a value from the cache
func (c *Cache) Delete(ctx context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if item, exists := c.items[key]; exists {
		c.removeItem(item)
	}

	return nil
}

// Ping always succeeds: the cache lives in-process
func (c *Cache) Ping(ctx context.Context) error {
	return nil
}

// Len returns the number of live entries, counting expired ones that have
// not been touched since expiry.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

// removeItem removes an item from the cache (must be called with lock held)
func (c *Cache) removeItem(item *cacheItem) {
	if item.lruElement != nil {
		c.lruList.Remove(item.lruElement)
	}
	delete(c.items, item.key)
}
