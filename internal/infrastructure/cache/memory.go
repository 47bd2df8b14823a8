package cache

import (
	"context"
	"sync"
	"time"

	"github.com/proteinfinder/backend/internal/domain"
)

// DefaultRetention is how long an entry is kept after it was stored. Entries
// older than the freshness window stay readable as stale data until then.
const DefaultRetention = 72 * time.Hour

// cacheItem represents a single blob in the cache with its store time
type cacheItem struct {
	Blob     []byte
	StoredAt time.Time
}

// MemoryCache is a thread-safe in-memory blob store
type MemoryCache struct {
	data      map[string]cacheItem
	mutex     sync.RWMutex
	retention time.Duration
	now       func() time.Time
	stop      chan struct{}
	stopOnce  sync.Once
}

// NewMemoryCache creates a new in-memory cache. A non-positive retention uses
// DefaultRetention.
func NewMemoryCache(retention time.Duration) *MemoryCache {
	if retention <= 0 {
		retention = DefaultRetention
	}
	cache := &MemoryCache{
		data:      make(map[string]cacheItem),
		retention: retention,
		now:       time.Now,
		stop:      make(chan struct{}),
	}

	// Start cleanup goroutine to remove expired entries every 10 minutes
	go cache.cleanupExpired(10 * time.Minute)

	return cache
}

// Get returns a copy of the blob stored under key
func (c *MemoryCache) Get(ctx context.Context, key string) ([]byte, error) {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	item, exists := c.data[key]
	if !exists || c.expired(item) {
		return nil, domain.ErrCacheMiss
	}

	blob := make([]byte, len(item.Blob))
	copy(blob, item.Blob)
	return blob, nil
}

// Set stores a copy of blob under key
func (c *MemoryCache) Set(ctx context.Context, key string, blob []byte) error {
	stored := make([]byte, len(blob))
	copy(stored, blob)

	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.data[key] = cacheItem{
		Blob:     stored,
		StoredAt: c.now(),
	}
	return nil
}

// IsFresh reports whether key exists and was stored within maxAge
func (c *MemoryCache) IsFresh(ctx context.Context, key string, maxAge time.Duration) (bool, error) {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	item, exists := c.data[key]
	if !exists || c.expired(item) {
		return false, nil
	}
	return c.now().Sub(item.StoredAt) <= maxAge, nil
}

// Size returns the current number of items in the cache
func (c *MemoryCache) Size() int {
	c.mutex.RLock()
	defer c.mutex.RUnlock()
	return len(c.data)
}

// Close stops the cleanup goroutine
func (c *MemoryCache) Close() {
	c.stopOnce.Do(func() { close(c.stop) })
}

func (c *MemoryCache) expired(item cacheItem) bool {
	return c.now().Sub(item.StoredAt) > c.retention
}

// cleanupExpired removes entries past retention periodically
func (c *MemoryCache) cleanupExpired(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-c.stop:
			return
		case <-ticker.C:
			c.removeExpired()
		}
	}
}

func (c *MemoryCache) removeExpired() {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	for key, item := range c.data {
		if c.expired(item) {
			delete(c.data, key)
		}
	}
}
