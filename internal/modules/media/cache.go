package media

import (
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
)

const (
	defaultCacheEntries = 256
	defaultCacheTTL     = 10 * time.Minute
)

type cacheEntry struct {
	data        []byte
	contentType string
	storedAt    time.Time
}

// ResponseCache is a bounded LRU with a TTL sitting in front of the
// fetch+transcode path. The store stays the source of truth, so a miss or
// an eviction only costs a recompression. A nil *ResponseCache is valid
// and caches nothing; serving works with the cache fully disabled.
type ResponseCache struct {
	entries *lru.Cache[string, cacheEntry]
	ttl     time.Duration
}

func NewResponseCache(maxEntries int, ttl time.Duration) *ResponseCache {
	if maxEntries <= 0 {
		maxEntries = defaultCacheEntries
	}
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}
	entries, err := lru.New[string, cacheEntry](maxEntries)
	if err != nil {
		// lru.New only errors on non-positive size which is guarded above.
		return nil
	}
	return &ResponseCache{entries: entries, ttl: ttl}
}

func (c *ResponseCache) Get(key string) ([]byte, string, bool) {
	if c == nil {
		return nil, "", false
	}
	e, ok := c.entries.Get(key)
	if !ok {
		return nil, "", false
	}
	if time.Since(e.storedAt) > c.ttl {
		c.entries.Remove(key)
		return nil, "", false
	}
	return e.data, e.contentType, true
}

func (c *ResponseCache) Put(key string, data []byte, contentType string) {
	if c == nil {
		return
	}
	c.entries.Add(key, cacheEntry{data: data, contentType: contentType, storedAt: time.Now()})
}

// Invalidate drops every cached variant of the given object name.
func (c *ResponseCache) Invalidate(name string) {
	if c == nil {
		return
	}
	for _, key := range c.entries.Keys() {
		if key == name || len(key) > len(name) && key[:len(name)] == name && key[len(name)] == '?' {
			c.entries.Remove(key)
		}
	}
}
