package progression

import (
	"slices"
	"strconv"
	"strings"
	"sync"
)

const DefaultCacheCapacity = 64

// Bounded cache of built indexes, keyed by (k, sorted universe).
// Indexes are immutable, so handing out the same pointer to many callers is fine.
// Oldest entries are evicted first.
type Cache struct {
	mu       sync.Mutex
	capacity int
	entries  map[string]*Index
	order    []string
	hits     uint64
	misses   uint64
}

// Process-wide cache, used by the strategies that need an index for every call
var Shared = NewCache(DefaultCacheCapacity)

func NewCache(capacity int) *Cache {
	return &Cache{
		capacity: max(1, capacity),
		entries:  make(map[string]*Index),
	}
}

func cacheKey(k int, universe []int) string {
	b := strings.Builder{}
	b.Grow(4 * (len(universe) + 1))
	b.WriteString(strconv.Itoa(k))
	b.WriteByte(':')
	for i, v := range universe {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.Itoa(v))
	}
	return b.String()
}

// Get the index for given length and values (unsorted, possibly with duplicates),
// building it on a miss
func (c *Cache) Get(k int, values []int) (*Index, error) {
	universe := slices.Clone(values)
	slices.Sort(universe)
	universe = slices.Compact(universe)
	key := cacheKey(k, universe)

	c.mu.Lock()
	if ix, ok := c.entries[key]; ok {
		c.hits++
		c.mu.Unlock()
		return ix, nil
	}
	c.misses++
	c.mu.Unlock()

	// Build outside the lock, two goroutines may build the same index,
	// but the result is identical
	ix, err := New(k, universe)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if existing, ok := c.entries[key]; ok {
		return existing, nil
	}
	if len(c.order) >= c.capacity {
		oldest := c.order[0]
		c.order = c.order[1:]
		delete(c.entries, oldest)
	}
	c.entries[key] = ix
	c.order = append(c.order, key)
	return ix, nil
}

func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Returns (hits, misses)
func (c *Cache) Stats() (uint64, uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hits, c.misses
}

func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]*Index)
	c.order = nil
}
