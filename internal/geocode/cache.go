package geocode

import (
	"strings"
	"sync"
	"time"
)

// Cache holds geocoding results keyed by normalized query. A nil point is a
// cached miss.
type Cache struct {
	mu       sync.Mutex
	points   map[string]*Point
	cachedAt map[string]time.Time
	TTL      time.Duration
}

// NewCache creates an empty cache with a one day TTL.
func NewCache() *Cache {
	return &Cache{
		points:   make(map[string]*Point),
		cachedAt: make(map[string]time.Time),
		TTL:      24 * time.Hour,
	}
}

// Get returns the cached point and whether the query was cached at all.
// Expired entries are dropped.
func (c *Cache) Get(query string) (*Point, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	key := cacheKey(query)
	p, ok := c.points[key]
	if !ok {
		return nil, false
	}
	if time.Since(c.cachedAt[key]) > c.TTL {
		delete(c.points, key)
		delete(c.cachedAt, key)
		return nil, false
	}
	return p, true
}

// Set stores a result. Pass nil to record a miss.
func (c *Cache) Set(query string, p *Point) {
	c.mu.Lock()
	defer c.mu.Unlock()

	key := cacheKey(query)
	c.points[key] = p
	c.cachedAt[key] = time.Now()
}

// Size returns the number of cached entries.
func (c *Cache) Size() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.points)
}

func cacheKey(query string) string {
	return strings.ToLower(strings.Join(strings.Fields(query), " "))
}
