package cached

import (
	"errors"
	"sync"
	"time"
)

// OnEvictFunc is a function that is called when an entry is evicted from a
// store, either to make room for a new entry or because it expired.
type OnEvictFunc[K comparable, V any] func(key K, value V)

// Sized is a thread-safe cache store with a fixed capacity and
// least-recently-used eviction. "Least recently used" means least recently
// touched by Get or Set; entries never touched since insertion are evicted
// oldest-insertion-first.
// A Sized must be created with [NewSized] or [MustNewSized]; the zero value
// is not ready for use.
type Sized[K comparable, V any] struct {
	capacity int
	items    map[K]*entry[K, V]
	head     *entry[K, V] // most recently used
	tail     *entry[K, V] // least recently used
	mu       sync.RWMutex
	hits     uint64
	misses   uint64
	onEvict  OnEvictFunc[K, V]
	opts     options[V]
}

// entry is an intrusive doubly-linked list node.
type entry[K comparable, V any] struct {
	key  K
	val  V
	prev *entry[K, V]
	next *entry[K, V]
}

// NewSized creates a new size-bounded store with the given capacity.
// The capacity must not be negative. A capacity of zero is permitted as a
// degenerate configuration: the store never holds anything, every Set of a
// missing key is a no-op, and every Get is a miss.
func NewSized[K comparable, V any](capacity int, opts ...Option[V]) (*Sized[K, V], error) {
	if capacity < 0 {
		return nil, errors.New("capacity must not be negative")
	}

	return &Sized[K, V]{
		capacity: capacity,
		items:    make(map[K]*entry[K, V], capacity),
		opts:     applyOptions(opts),
	}, nil
}

// MustNewSized creates a new size-bounded store with the given capacity.
// It panics if the capacity is negative.
func MustNewSized[K comparable, V any](capacity int, opts ...Option[V]) *Sized[K, V] {
	cache, err := NewSized[K, V](capacity, opts...)
	if err != nil {
		panic(err)
	}
	return cache
}

// Get retrieves a value from the store by key.
// It returns the value and a boolean indicating whether the key was found.
// A hit moves the key to the most-recently-used position; a miss never
// evicts anything. On a zero-capacity store every Get is a miss.
func (c *Sized[K, V]) Get(key K) (V, bool) {
	c.mu.Lock()

	var zero V

	e, found := c.items[key]
	if !found {
		c.misses++
		c.mu.Unlock()
		return zero, false
	}

	c.hits++
	c.moveToFront(e)
	val := c.opts.dup(e.val)
	c.mu.Unlock()

	return val, true
}

// Peek retrieves a value from the store by key without updating its
// position in the LRU list or the hit/miss counters. This is useful for
// checking a value without affecting eviction order.
func (c *Sized[K, V]) Peek(key K) (V, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	var zero V

	e, found := c.items[key]
	if !found {
		return zero, false
	}

	return c.opts.dup(e.val), true
}

// Set adds or updates an item in the store.
// If the key already exists, its value is updated and the key becomes the
// most recently used. If the store is at capacity, the least recently used
// item is evicted first. On a zero-capacity store, Set of a missing key
// stores nothing.
func (c *Sized[K, V]) Set(key K, value V) {
	c.mu.Lock()
	evictedKey, evictedVal, hasEvicted := c.setLocked(key, c.opts.dup(value))
	onEvict := c.onEvict
	c.mu.Unlock()

	if hasEvicted && onEvict != nil {
		onEvict(evictedKey, evictedVal)
	}
}

// setLocked adds or updates an item. It assumes the mutex is already locked.
// Returns the evicted key/value and whether an eviction occurred.
func (c *Sized[K, V]) setLocked(key K, value V) (evictedKey K, evictedVal V, evicted bool) {
	// if key exists, update value and move to front
	if e, found := c.items[key]; found {
		c.moveToFront(e)
		e.val = value
		return
	}

	// degenerate zero-capacity store: nothing is ever held
	if c.capacity == 0 {
		return
	}

	// if we're at capacity, remove the least recently used item
	if len(c.items) >= c.capacity {
		oldest := c.tail
		if oldest != nil {
			evictedKey = oldest.key
			evictedVal = oldest.val
			evicted = true
			c.remove(oldest)
			delete(c.items, oldest.key)
		}
	}

	// add new item
	e := &entry[K, V]{
		key: key,
		val: value,
	}
	c.pushFront(e)
	c.items[key] = e
	return
}

// moveToFront moves an entry to the front of the list.
func (c *Sized[K, V]) moveToFront(e *entry[K, V]) {
	if c.head == e {
		return
	}
	c.remove(e)
	c.pushFront(e)
}

// pushFront adds an entry to the front of the list.
func (c *Sized[K, V]) pushFront(e *entry[K, V]) {
	e.prev = nil
	e.next = c.head
	if c.head != nil {
		c.head.prev = e
	}
	c.head = e
	if c.tail == nil {
		c.tail = e
	}
}

// remove removes an entry from the list.
func (c *Sized[K, V]) remove(e *entry[K, V]) {
	if e.prev != nil {
		e.prev.next = e.next
	} else {
		c.head = e.next
	}
	if e.next != nil {
		e.next.prev = e.prev
	} else {
		c.tail = e.prev
	}
	e.prev = nil
	e.next = nil
}

// Len returns the current number of items in the store.
func (c *Sized[K, V]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return len(c.items)
}

// Contains checks if a key exists in the store.
func (c *Sized[K, V]) Contains(key K) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()

	_, found := c.items[key]
	return found
}

// Keys returns a slice of all keys in the store.
// The order is from most recently used to least recently used.
func (c *Sized[K, V]) Keys() []K {
	c.mu.RLock()
	defer c.mu.RUnlock()

	keys := make([]K, 0, len(c.items))
	for e := c.head; e != nil; e = e.next {
		keys = append(keys, e.key)
	}

	return keys
}

// Hits returns the number of successful lookups since construction.
func (c *Sized[K, V]) Hits() uint64 {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.hits
}

// Misses returns the number of failed lookups since construction.
func (c *Sized[K, V]) Misses() uint64 {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.misses
}

// Capacity returns the maximum capacity of the store and true.
func (c *Sized[K, V]) Capacity() (int, bool) {
	return c.capacity, true
}

// Lifespan returns zero and false: entries in a Sized store never expire.
func (c *Sized[K, V]) Lifespan() (time.Duration, bool) {
	return 0, false
}

// OnEvict sets a callback function that will be called when an entry is
// evicted to make room for a new one. The callback receives the key and
// value of the evicted entry.
//
// The callback is invoked after the store's internal lock is released and
// may be called concurrently from multiple goroutines. It must be safe for
// concurrent use.
func (c *Sized[K, V]) OnEvict(f OnEvictFunc[K, V]) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.onEvict = f
}
