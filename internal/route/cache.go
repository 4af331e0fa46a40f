package route

import (
	"fmt"
	"sync"
	"time"

	"github.com/example/rapid-dispatch/internal/models"
)

// Cache is a tiny in-memory cache for route quotes keyed by coords and
// vehicle class. Quotes are deterministic, so caching only saves arithmetic,
// but it keeps repeated map taps on the same pair cheap.
type Cache struct {
	mu    sync.RWMutex
	store map[string]cacheEntry
	ttl   time.Duration
}

type cacheEntry struct {
	q  models.RouteQuote
	ts time.Time
}

// NewCache creates a cache with the provided TTL.
func NewCache(ttl time.Duration) *Cache {
	return &Cache{store: make(map[string]cacheEntry), ttl: ttl}
}

func keyFor(pickup, dest models.Coord, class models.VehicleClass) string {
	return fmtCoord(pickup) + "->" + fmtCoord(dest) + "#" + string(class)
}

func fmtCoord(c models.Coord) string {
	return fmt.Sprintf("%.6f,%.6f", c.Lat, c.Lng)
}

// Get returns the cached quote and true if present and not expired.
func (c *Cache) Get(pickup, dest models.Coord, class models.VehicleClass) (models.RouteQuote, bool) {
	k := keyFor(pickup, dest, class)
	c.mu.RLock()
	e, ok := c.store[k]
	c.mu.RUnlock()
	if !ok {
		return models.RouteQuote{}, false
	}
	if time.Since(e.ts) > c.ttl {
		c.mu.Lock()
		delete(c.store, k)
		c.mu.Unlock()
		return models.RouteQuote{}, false
	}
	return e.q, true
}

// Set stores a quote in the cache.
func (c *Cache) Set(pickup, dest models.Coord, class models.VehicleClass, q models.RouteQuote) {
	k := keyFor(pickup, dest, class)
	c.mu.Lock()
	c.store[k] = cacheEntry{q: q, ts: time.Now()}
	c.mu.Unlock()
}
