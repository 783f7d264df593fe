package cached

import (
	"errors"
	"sync"
	"time"
)

// timedEntry pairs a value with its insertion time.
type timedEntry[V any] struct {
	val   V
	stamp time.Time
}

// Timed is a thread-safe cache store whose entries expire a fixed lifespan
// after they are written. Expiration is lazy: an expired entry is detected
// and removed only when the next Get reaches it, never by a background
// sweep. Set always restamps the entry to "now", even when overwriting an
// entry that had already expired.
// A Timed must be created with [NewTimed] or [MustNewTimed]; the zero value
// is not ready for use.
type Timed[K comparable, V any] struct {
	lifespan time.Duration
	items    map[K]timedEntry[V]
	mu       sync.RWMutex
	hits     uint64
	misses   uint64
	timeNow  func() time.Time // for testing
	onEvict  OnEvictFunc[K, V]
	opts     options[V]
}

// NewTimed creates a new time-bounded store with the given lifespan.
// The lifespan is fixed for the life of the store and must be greater than
// zero.
func NewTimed[K comparable, V any](lifespan time.Duration, opts ...Option[V]) (*Timed[K, V], error) {
	if lifespan <= 0 {
		return nil, errors.New("lifespan must be greater than zero")
	}

	return &Timed[K, V]{
		lifespan: lifespan,
		items:    make(map[K]timedEntry[V]),
		timeNow:  time.Now,
		opts:     applyOptions(opts),
	}, nil
}

// MustNewTimed creates a new time-bounded store with the given lifespan.
// It panics if the lifespan is less than or equal to zero.
func MustNewTimed[K comparable, V any](lifespan time.Duration, opts ...Option[V]) *Timed[K, V] {
	cache, err := NewTimed[K, V](lifespan, opts...)
	if err != nil {
		panic(err)
	}
	return cache
}

// Get retrieves a value from the store by key.
// It returns the value and a boolean indicating whether the key was found
// and not expired. An entry older than the store's lifespan is removed,
// counted as a miss, and reported as absent.
func (c *Timed[K, V]) Get(key K) (V, bool) {
	c.mu.Lock()

	var zero V

	e, found := c.items[key]
	if !found {
		c.misses++
		c.mu.Unlock()
		return zero, false
	}

	if c.timeNow().Sub(e.stamp) > c.lifespan {
		c.misses++
		onEvict := c.onEvict
		delete(c.items, key)
		c.mu.Unlock()

		if onEvict != nil {
			onEvict(key, e.val)
		}
		return zero, false
	}

	c.hits++
	val := c.opts.dup(e.val)
	c.mu.Unlock()

	return val, true
}

// Peek retrieves a value from the store by key without updating the
// hit/miss counters.
//
// Note: unlike [Timed.Get], an expired entry is not removed; it is only
// reported as absent.
func (c *Timed[K, V]) Peek(key K) (V, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	var zero V

	e, found := c.items[key]
	if !found {
		return zero, false
	}

	if c.timeNow().Sub(e.stamp) > c.lifespan {
		return zero, false
	}

	return c.opts.dup(e.val), true
}

// Set adds or updates an item in the store and stamps it with the current
// time, resetting the entry's age regardless of whether a prior entry for
// the key had expired.
func (c *Timed[K, V]) Set(key K, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.items[key] = timedEntry[V]{
		val:   c.opts.dup(value),
		stamp: c.timeNow(),
	}
}

// Len returns the raw number of entries in the store, which may include
// entries that have expired but have not yet been read. This imprecision
// is inherent to lazy expiration; callers that need an exact count must
// Get each key.
func (c *Timed[K, V]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return len(c.items)
}

// Contains checks if a key exists in the store and is not expired.
//
// Note: this method does not remove expired entries from the store.
func (c *Timed[K, V]) Contains(key K) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()

	e, found := c.items[key]
	if !found {
		return false
	}

	return c.timeNow().Sub(e.stamp) <= c.lifespan
}

// Hits returns the number of successful lookups since construction.
func (c *Timed[K, V]) Hits() uint64 {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.hits
}

// Misses returns the number of failed lookups since construction.
// A Get that finds only an expired entry counts as a miss.
func (c *Timed[K, V]) Misses() uint64 {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.misses
}

// Capacity returns zero and false: a Timed store has no capacity bound.
func (c *Timed[K, V]) Capacity() (int, bool) {
	return 0, false
}

// Lifespan returns the fixed time-to-live for entries and true.
func (c *Timed[K, V]) Lifespan() (time.Duration, bool) {
	return c.lifespan, true
}

// OnEvict sets a callback function that will be called when an expired
// entry is removed by Get. The callback receives the key and value of the
// removed entry.
//
// The callback is invoked after the store's internal lock is released and
// may be called concurrently from multiple goroutines. It must be safe for
// concurrent use.
func (c *Timed[K, V]) OnEvict(f OnEvictFunc[K, V]) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.onEvict = f
}

// SetTimeNowFunc replaces the function used to get the current time.
// This is primarily useful for testing. Passing nil resets to time.Now.
func (c *Timed[K, V]) SetTimeNowFunc(f func() time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if f == nil {
		f = time.Now
	}
	c.timeNow = f
}
