package cached

import "time"

// Store is the operation set shared by every cache store in this package.
// A Store maps comparable keys to values, tracks hit and miss counts, and
// reports its capacity and lifespan where those bounds apply.
//
// All stores in this package are safe for concurrent use. Each call holds
// the store's internal lock only for the duration of that call, so a Store
// can be shared freely between goroutines and between memoized functions.
type Store[K comparable, V any] interface {
	// Get retrieves the value for key. It returns the value and true if the
	// key is present and not expired, otherwise the zero value and false.
	// Get updates the store's hit/miss counters and, for recency-ordered
	// stores, the key's position in the eviction order.
	Get(key K) (V, bool)

	// Set inserts or overwrites the value for key. It never violates the
	// store's structural invariant: a size-bounded store evicts before
	// exceeding its capacity, and a time-bounded store restamps the entry.
	Set(key K, value V)

	// Len returns the number of entries currently held. For a time-bounded
	// store this is the raw count, which may include entries that have
	// expired but have not yet been read; see [Timed.Len].
	Len() int

	// Hits returns the number of successful lookups since construction.
	Hits() uint64

	// Misses returns the number of failed lookups since construction.
	Misses() uint64

	// Capacity returns the maximum number of entries and true for
	// size-bounded stores, or zero and false for unbounded ones.
	Capacity() (int, bool)

	// Lifespan returns the fixed time-to-live and true for time-bounded
	// stores, or zero and false otherwise.
	Lifespan() (time.Duration, bool)
}

// Option configures a store at construction time.
type Option[V any] func(*options[V])

// options holds optional parameters shared by the store constructors.
type options[V any] struct {
	clone func(V) V
}

// WithCloner sets a duplication function applied to values at the store
// boundary: Set stores clone(value) and Get returns clone(stored).
//
// Go's assignment already copies value-shaped types, so a cloner is only
// needed when V contains pointers, slices, or maps and callers must not be
// able to mutate cached state through a returned value.
func WithCloner[V any](clone func(V) V) Option[V] {
	return func(o *options[V]) {
		o.clone = clone
	}
}

// applyOptions folds opts into an options struct.
func applyOptions[V any](opts []Option[V]) options[V] {
	o := options[V]{}
	for _, fn := range opts {
		fn(&o)
	}
	return o
}

// dup applies the configured cloner, or passes the value through when none
// is set.
func (o *options[V]) dup(v V) V {
	if o.clone == nil {
		return v
	}
	return o.clone(v)
}
