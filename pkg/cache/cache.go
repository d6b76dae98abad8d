// Package cache provides a thread-safe LRU cache of parsed binding
// expressions.
//
// Binding sources repeat heavily in markup: the same "Model.Value" appears
// in every row template. The cache keeps the immutable *types.Expression
// for a source so the dispatch loop runs once per distinct text.
//
// # Example
//
//	c := cache.New(1024)
//	expr, err := c.GetOrParse("Model.Value + 1", p.Parse)
package cache

import (
	"container/list"
	"sync"
	"sync/atomic"

	"github.com/sandrolain/bindexpr/pkg/types"
)

// DefaultCapacity is used when New is given a non-positive capacity.
const DefaultCapacity = 256

type entry struct {
	key  string
	expr *types.Expression
}

// Stats reports cache activity since creation or the last Clear.
type Stats struct {
	Hits      uint64
	Misses    uint64
	Evictions uint64
}

// Cache is a thread-safe LRU cache for parsed expressions. Once the
// capacity is reached, the least recently accessed entry is evicted.
type Cache struct {
	mu       sync.RWMutex
	capacity int
	ll       *list.List
	items    map[string]*list.Element

	hits      atomic.Uint64
	misses    atomic.Uint64
	evictions atomic.Uint64
}

// New creates an LRU cache holding at most capacity expressions.
func New(capacity int) *Cache {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Cache{
		capacity: capacity,
		ll:       list.New(),
		items:    make(map[string]*list.Element, capacity),
	}
}

// Get returns the expression cached for source and marks it most recently
// used.
func (c *Cache) Get(source string) (*types.Expression, bool) {
	c.mu.RLock()
	el, ok := c.items[source]
	front := ok && c.ll.Front() == el
	c.mu.RUnlock()
	if !ok {
		c.misses.Add(1)
		return nil, false
	}

	if !front {
		// Re-check under the write lock: the entry may have been evicted.
		c.mu.Lock()
		el, ok = c.items[source]
		if ok {
			c.ll.MoveToFront(el)
		}
		c.mu.Unlock()
		if !ok {
			c.misses.Add(1)
			return nil, false
		}
	}
	c.hits.Add(1)
	return el.Value.(*entry).expr, true
}

// Set inserts or replaces the expression for source.
func (c *Cache) Set(source string, expr *types.Expression) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if el, ok := c.items[source]; ok {
		el.Value.(*entry).expr = expr
		c.ll.MoveToFront(el)
		return
	}
	if c.ll.Len() >= c.capacity {
		c.evictLocked()
	}
	c.items[source] = c.ll.PushFront(&entry{key: source, expr: expr})
}

// GetOrParse returns the cached expression for source, or calls parse and
// caches its result. Failed parses are not cached.
func (c *Cache) GetOrParse(source string, parse func(string) (*types.Expression, error)) (*types.Expression, error) {
	if expr, ok := c.Get(source); ok {
		return expr, nil
	}
	expr, err := parse(source)
	if err != nil {
		return nil, err
	}
	c.Set(source, expr)
	return expr, nil
}

// Len returns the number of cached expressions.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

// Capacity returns the maximum number of cached expressions.
func (c *Cache) Capacity() int {
	return c.capacity
}

// Stats returns a snapshot of the hit, miss and eviction counters.
func (c *Cache) Stats() Stats {
	return Stats{
		Hits:      c.hits.Load(),
		Misses:    c.misses.Load(),
		Evictions: c.evictions.Load(),
	}
}

// Invalidate removes the entry for source.
func (c *Cache) Invalidate(source string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if el, ok := c.items[source]; ok {
		c.ll.Remove(el)
		delete(c.items, source)
	}
}

// Clear removes all entries and resets the counters.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ll.Init()
	c.items = make(map[string]*list.Element, c.capacity)
	c.hits.Store(0)
	c.misses.Store(0)
	c.evictions.Store(0)
}

// evictLocked removes the least recently used entry. c.mu must be held for
// writing.
func (c *Cache) evictLocked() {
	el := c.ll.Back()
	if el == nil {
		return
	}
	c.ll.Remove(el)
	delete(c.items, el.Value.(*entry).key)
	c.evictions.Add(1)
}
