package cached

import (
	"sync"
	"time"
)

// Unbound is a thread-safe cache store with no capacity limit and no
// expiration. Entries stay until overwritten; there is no eviction.
// An Unbound must be created with [NewUnbound]; the zero value is not
// ready for use.
type Unbound[K comparable, V any] struct {
	items  map[K]V
	mu     sync.RWMutex
	hits   uint64
	misses uint64
	opts   options[V]
}

// NewUnbound creates a new unbounded cache store.
func NewUnbound[K comparable, V any](opts ...Option[V]) *Unbound[K, V] {
	return &Unbound[K, V]{
		items: make(map[K]V),
		opts:  applyOptions(opts),
	}
}

// Get retrieves a value from the store by key.
// It returns the value and a boolean indicating whether the key was found.
func (c *Unbound[K, V]) Get(key K) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	val, found := c.items[key]
	if !found {
		c.misses++
		var zero V
		return zero, false
	}

	c.hits++
	return c.opts.dup(val), true
}

// Set adds or updates an item in the store.
func (c *Unbound[K, V]) Set(key K, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.items[key] = c.opts.dup(value)
}

// Peek retrieves a value from the store by key without updating the hit
// and miss counters.
func (c *Unbound[K, V]) Peek(key K) (V, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	val, found := c.items[key]
	if !found {
		var zero V
		return zero, false
	}
	return c.opts.dup(val), true
}

// Contains checks if a key exists in the store.
func (c *Unbound[K, V]) Contains(key K) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()

	_, found := c.items[key]
	return found
}

// Len returns the current number of items in the store.
func (c *Unbound[K, V]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return len(c.items)
}

// Hits returns the number of successful lookups since construction.
func (c *Unbound[K, V]) Hits() uint64 {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.hits
}

// Misses returns the number of failed lookups since construction.
func (c *Unbound[K, V]) Misses() uint64 {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.misses
}

// Capacity returns zero and false: an Unbound store has no capacity bound.
func (c *Unbound[K, V]) Capacity() (int, bool) {
	return 0, false
}

// Lifespan returns zero and false: entries in an Unbound store never expire.
func (c *Unbound[K, V]) Lifespan() (time.Duration, bool) {
	return 0, false
}
