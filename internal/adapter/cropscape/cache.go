package cropscape

import (
	"container/list"
	"context"
	"fmt"
	"sync"

	"github.com/couchcryptid/cdl-history-service/internal/domain"
	"github.com/couchcryptid/cdl-history-service/internal/observability"
)

// CachedSource wraps a CDLSource with an in-memory LRU cache. Published CDL
// layers do not change, so a successful response is valid indefinitely.
type CachedSource struct {
	inner   domain.CDLSource
	cache   *lruCache
	metrics *observability.Metrics
}

// NewCachedSource creates a cache decorator around a CDL source.
func NewCachedSource(inner domain.CDLSource, maxEntries int, metrics *observability.Metrics) *CachedSource {
	return &CachedSource{
		inner:   inner,
		cache:   newLRUCache(maxEntries),
		metrics: metrics,
	}
}

func (c *CachedSource) FetchValue(ctx context.Context, lat, lng float64, year int) ([]byte, error) {
	key := cacheKey(lat, lng, year)
	if body, ok := c.cache.get(key); ok {
		c.metrics.CacheLookups.WithLabelValues("hit").Inc()
		return body, nil
	}
	c.metrics.CacheLookups.WithLabelValues("miss").Inc()

	body, err := c.inner.FetchValue(ctx, lat, lng, year)
	if err != nil {
		return nil, err
	}
	// Only cache bodies that parse, so a garbled response can be retried.
	if _, perr := domain.ParseCDLPayload(body); perr == nil {
		c.cache.put(key, body)
	}
	return body, nil
}

func cacheKey(lat, lng float64, year int) string {
	return fmt.Sprintf("cdl:%d:%.6f,%.6f", year, lat, lng)
}

// lruCache holds response bodies keyed by request, evicting the least
// recently read entry once maxEntries is exceeded. A non-positive maxEntries
// disables caching.
type lruCache struct {
	mu         sync.Mutex
	maxEntries int
	order      *list.List // front is most recently used
	items      map[string]*list.Element
}

type cachedBody struct {
	key  string
	body []byte
}

func newLRUCache(maxEntries int) *lruCache {
	return &lruCache{
		maxEntries: maxEntries,
		order:      list.New(),
		items:      make(map[string]*list.Element),
	}
}

func (c *lruCache) get(key string) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	el, ok := c.items[key]
	if !ok {
		return nil, false
	}
	c.order.MoveToFront(el)
	return el.Value.(*cachedBody).body, true
}

func (c *lruCache) put(key string, body []byte) {
	if c.maxEntries <= 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	if el, ok := c.items[key]; ok {
		el.Value.(*cachedBody).body = body
		c.order.MoveToFront(el)
		return
	}
	c.items[key] = c.order.PushFront(&cachedBody{key: key, body: body})

	for c.order.Len() > c.maxEntries {
		oldest := c.order.Back()
		c.order.Remove(oldest)
		delete(c.items, oldest.Value.(*cachedBody).key)
	}
}

func (c *lruCache) size() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}
