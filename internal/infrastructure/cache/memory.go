package cache

import (
	"container/list"
	"context"
	"sync"

	"github.com/stylecheck/reconciler/internal/domain"
)

// cacheItem is one cached validation result
type cacheItem struct {
	code   string
	result *domain.ValidationResult
}

// MemoryCache is a thread-safe in-memory validation cache.
// Entries are write-once: a second Set for the same code keeps the first result.
// With a positive capacity the least recently used entry is evicted on overflow;
// with capacity 0 the cache grows without bound for the life of the run.
type MemoryCache struct {
	data     map[string]*list.Element
	order    *list.List
	capacity int
	mutex    sync.Mutex
}

// NewMemoryCache creates an unbounded in-memory cache
func NewMemoryCache() *MemoryCache {
	return NewBoundedMemoryCache(0)
}

// NewBoundedMemoryCache creates a cache holding at most capacity entries.
// A capacity of 0 or less means unbounded.
func NewBoundedMemoryCache(capacity int) *MemoryCache {
	if capacity < 0 {
		capacity = 0
	}
	return &MemoryCache{
		data:     make(map[string]*list.Element),
		order:    list.New(),
		capacity: capacity,
	}
}

// Get retrieves a result from the cache
func (c *MemoryCache) Get(ctx context.Context, code string) (*domain.ValidationResult, error) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	elem, exists := c.data[code]
	if !exists {
		return nil, domain.ErrCacheMiss
	}
	c.order.MoveToFront(elem)

	return elem.Value.(*cacheItem).result, nil
}

// Set stores a result unless one is already cached for the code
func (c *MemoryCache) Set(ctx context.Context, code string, result *domain.ValidationResult) error {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	if elem, exists := c.data[code]; exists {
		c.order.MoveToFront(elem)
		return nil
	}

	c.data[code] = c.order.PushFront(&cacheItem{code: code, result: result})

	if c.capacity > 0 && c.order.Len() > c.capacity {
		oldest := c.order.Back()
		c.order.Remove(oldest)
		delete(c.data, oldest.Value.(*cacheItem).code)
	}

	return nil
}

// Delete removes a result from the cache
func (c *MemoryCache) Delete(ctx context.Context, code string) error {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	if elem, exists := c.data[code]; exists {
		c.order.Remove(elem)
		delete(c.data, code)
	}
	return nil
}

// Exists checks if a code has a cached result
func (c *MemoryCache) Exists(ctx context.Context, code string) (bool, error) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	_, exists := c.data[code]
	return exists, nil
}

// Size returns the current number of cached results
func (c *MemoryCache) Size() int {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	return len(c.data)
}

// Clear removes all results from the cache
func (c *MemoryCache) Clear() {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	c.data = make(map[string]*list.Element)
	c.order.Init()
}
