// Package cache provides the in-memory LRU cache backing query results and
// embeddings. Entries carry a TTL and the cache enforces both an entry limit
// and a byte budget; expired entries remain retrievable through GetStale for
// degraded serving while the backing stores are down.
package cache

import (
	"container/list"
	"sync"
	"time"
)

// Config bounds a cache instance. Zero MaxBytes means no byte budget;
// zero TTL means entries never expire.
type Config struct {
	MaxEntries int
	MaxBytes   int64
	TTL        time.Duration
}

// Stats is a point-in-time counter snapshot.
type Stats struct {
	Hits        uint64 `json:"hits"`
	Misses      uint64 `json:"misses"`
	Evictions   uint64 `json:"evictions"`
	Expirations uint64 `json:"expirations"`
	Entries     int    `json:"entries"`
	Bytes       int64  `json:"bytes"`
}

type entry[V any] struct {
	key      string
	value    V
	size     int64
	storedAt time.Time
}

// Cache is a thread-safe LRU cache with TTL and a byte budget.
// Recency order lives in a doubly linked list so every operation is O(1).
type Cache[V any] struct {
	cfg   Config
	clock func() time.Time

	mu    sync.Mutex
	items map[string]*list.Element
	order *list.List // front = most recently used
	bytes int64

	hits        uint64
	misses      uint64
	evictions   uint64
	expirations uint64
}

// New creates an empty cache.
func New[V any](cfg Config) *Cache[V] {
	if cfg.MaxEntries <= 0 {
		cfg.MaxEntries = 1
	}
	return &Cache[V]{
		cfg:   cfg,
		clock: time.Now,
		items: make(map[string]*list.Element),
		order: list.New(),
	}
}

// WithClock overrides the time source. Test hook.
func (c *Cache[V]) WithClock(clock func() time.Time) *Cache[V] {
	c.clock = clock
	return c
}

// Get returns the fresh value for key. Expired entries count as misses and
// are left in place for GetStale.
func (c *Cache[V]) Get(key string) (V, bool) {
	var zero V

	c.mu.Lock()
	defer c.mu.Unlock()

	el, ok := c.items[key]
	if !ok {
		c.misses++
		return zero, false
	}

	e := el.Value.(*entry[V])
	if c.expired(e) {
		c.misses++
		c.expirations++
		return zero, false
	}

	c.order.MoveToFront(el)
	c.hits++
	return e.value, true
}

// GetStale returns the value for key even when its TTL has passed. Used to
// serve degraded answers while the storage backend is unavailable. Does not
// touch recency order or hit counters.
func (c *Cache[V]) GetStale(key string) (value V, stale, ok bool) {
	var zero V

	c.mu.Lock()
	defer c.mu.Unlock()

	el, found := c.items[key]
	if !found {
		return zero, false, false
	}

	e := el.Value.(*entry[V])
	return e.value, c.expired(e), true
}

// Put stores value under key with the given size in bytes. A value larger
// than the whole byte budget is not admitted. Inserting evicts from the LRU
// end until both the entry limit and the byte budget hold.
func (c *Cache[V]) Put(key string, value V, size int64) {
	if size < 0 {
		size = 0
	}
	if c.cfg.MaxBytes > 0 && size > c.cfg.MaxBytes {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if el, ok := c.items[key]; ok {
		e := el.Value.(*entry[V])
		c.bytes += size - e.size
		e.value = value
		e.size = size
		e.storedAt = c.clock()
		c.order.MoveToFront(el)
	} else {
		e := &entry[V]{key: key, value: value, size: size, storedAt: c.clock()}
		c.items[key] = c.order.PushFront(e)
		c.bytes += size
	}

	for c.order.Len() > c.cfg.MaxEntries || (c.cfg.MaxBytes > 0 && c.bytes > c.cfg.MaxBytes) {
		c.evictOldest()
	}
}

// Invalidate removes key. Reports whether an entry was present.
func (c *Cache[V]) Invalidate(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	el, ok := c.items[key]
	if !ok {
		return false
	}
	c.remove(el)
	return true
}

// InvalidateAll drops every entry. Counters survive.
func (c *Cache[V]) InvalidateAll() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.items = make(map[string]*list.Element)
	c.order.Init()
	c.bytes = 0
}

// Len returns the number of entries, expired ones included.
func (c *Cache[V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}

// Stats returns a snapshot of the counters.
func (c *Cache[V]) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Stats{
		Hits:        c.hits,
		Misses:      c.misses,
		Evictions:   c.evictions,
		Expirations: c.expirations,
		Entries:     c.order.Len(),
		Bytes:       c.bytes,
	}
}

func (c *Cache[V]) expired(e *entry[V]) bool {
	return c.cfg.TTL > 0 && c.clock().Sub(e.storedAt) >= c.cfg.TTL
}

func (c *Cache[V]) evictOldest() {
	el := c.order.Back()
	if el == nil {
		return
	}
	c.remove(el)
	c.evictions++
}

func (c *Cache[V]) remove(el *list.Element) {
	e := el.Value.(*entry[V])
	delete(c.items, e.key)
	c.order.Remove(el)
	c.bytes -= e.size
}
