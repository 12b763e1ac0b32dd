package workdays

import (
	"sync"
	"time"

	"github.com/imrishuroy/go-repair-sla/internal/dates"
)

// Cache memoizes remote workday counts by day-truncated range.
// Entries live for the process lifetime; there is no eviction.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]int
}

// NewCache returns an empty cache.
func NewCache() *Cache {
	return &Cache{entries: map[string]int{}}
}

// Key builds the cache key for a range, e.g. "2024-03-01_2024-03-08".
func Key(start, end time.Time) string {
	return dates.Day(start) + "_" + dates.Day(end)
}

func (c *Cache) Get(key string) (int, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	v, ok := c.entries[key]
	return v, ok
}

func (c *Cache) Set(key string, days int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = days
}

// Len returns the number of cached ranges.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
