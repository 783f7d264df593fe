package cached

import (
	"encoding/binary"
	"errors"
	"fmt"
	"hash/maphash"
	"time"
)

// DefaultShardCount is the default number of shards for a Sharded store.
const DefaultShardCount = 16

// Sharded is a size-bounded store that distributes keys across multiple
// [Sized] instances to reduce lock contention under heavy concurrent
// memoization. Each shard is an independent LRU store with its own lock,
// so operations on different shards proceed concurrently. Hit and miss
// counts are summed across shards.
type Sharded[K comparable, V any] struct {
	shards   []*Sized[K, V]
	seed     maphash.Seed
	capacity int // sum of the shard capacities
}

// NewSharded creates a new sharded store with the given total capacity,
// distributed evenly across DefaultShardCount shards. A capacity smaller
// than DefaultShardCount is rounded up to one entry per shard; see
// [NewShardedWithCount]. The capacity must be greater than zero.
func NewSharded[K comparable, V any](capacity int, opts ...Option[V]) (*Sharded[K, V], error) {
	return NewShardedWithCount[K, V](capacity, DefaultShardCount, opts...)
}

// MustNewSharded creates a new sharded store with the given total capacity.
// It panics if the capacity is less than or equal to zero.
func MustNewSharded[K comparable, V any](capacity int, opts ...Option[V]) *Sharded[K, V] {
	cache, err := NewSharded[K, V](capacity, opts...)
	if err != nil {
		panic(err)
	}
	return cache
}

// NewShardedWithCount creates a new sharded store with the given total
// capacity and number of shards. The capacity is distributed evenly across
// all shards, with the remainder going to the first shards. Every shard
// holds at least one entry, so when capacity is smaller than shardCount the
// effective capacity is rounded up to one entry per shard; [Sharded.Capacity]
// reports the effective total. Both capacity and shardCount must be greater
// than zero.
func NewShardedWithCount[K comparable, V any](capacity, shardCount int, opts ...Option[V]) (*Sharded[K, V], error) {
	if capacity <= 0 {
		return nil, errors.New("capacity must be greater than zero")
	}
	if shardCount <= 0 {
		return nil, errors.New("shard count must be greater than zero")
	}

	// distribute capacity evenly, with remainder going to first shards
	perShard := capacity / shardCount
	remainder := capacity % shardCount
	if perShard < 1 {
		// each shard needs at least capacity 1
		perShard = 1
		remainder = 0
	}

	total := 0
	shards := make([]*Sized[K, V], shardCount)
	for i := range shards {
		shardCap := perShard
		if i < remainder {
			shardCap++
		}
		shard, err := NewSized[K, V](shardCap, opts...)
		if err != nil {
			return nil, err
		}
		shards[i] = shard
		total += shardCap
	}

	return &Sharded[K, V]{
		shards:   shards,
		seed:     maphash.MakeSeed(),
		capacity: total,
	}, nil
}

// MustNewShardedWithCount creates a new sharded store with the given total
// capacity and number of shards. It panics if the capacity or shard count
// is less than or equal to zero.
func MustNewShardedWithCount[K comparable, V any](capacity, shardCount int, opts ...Option[V]) *Sharded[K, V] {
	cache, err := NewShardedWithCount[K, V](capacity, shardCount, opts...)
	if err != nil {
		panic(err)
	}
	return cache
}

// getShard returns the shard for the given key.
func (s *Sharded[K, V]) getShard(key K) *Sized[K, V] {
	idx := s.shardIndex(key)
	return s.shards[idx]
}

// shardIndex returns the shard index for the given key.
func (s *Sharded[K, V]) shardIndex(key K) int {
	var h maphash.Hash
	h.SetSeed(s.seed)

	// fast path for common types using binary encoding (avoids fmt.Sprint allocations)
	var buf [8]byte
	switch k := any(key).(type) {
	case string:
		h.WriteString(k)
	case int:
		binary.LittleEndian.PutUint64(buf[:], uint64(int64(k)))
		h.Write(buf[:])
	case int64:
		binary.LittleEndian.PutUint64(buf[:], uint64(k))
		h.Write(buf[:])
	case int32:
		binary.LittleEndian.PutUint64(buf[:], uint64(int64(k)))
		h.Write(buf[:])
	case uint:
		binary.LittleEndian.PutUint64(buf[:], uint64(k))
		h.Write(buf[:])
	case uint64:
		binary.LittleEndian.PutUint64(buf[:], k)
		h.Write(buf[:])
	case uint32:
		binary.LittleEndian.PutUint64(buf[:], uint64(k))
		h.Write(buf[:])
	default:
		// fallback for other comparable types
		h.WriteString(fmt.Sprint(key))
	}

	return int(h.Sum64() % uint64(len(s.shards)))
}

// Get retrieves a value from the store by key.
// It returns the value and a boolean indicating whether the key was found.
// A hit updates the key's position in the LRU list of its shard.
func (s *Sharded[K, V]) Get(key K) (V, bool) {
	return s.getShard(key).Get(key)
}

// Peek retrieves a value from the store by key without updating its
// position in its shard's LRU list or the hit/miss counters.
func (s *Sharded[K, V]) Peek(key K) (V, bool) {
	return s.getShard(key).Peek(key)
}

// Set adds or updates an item in the store.
// If the key already exists, its value is updated. If the key's shard is at
// capacity, the least recently used item in that shard is evicted.
func (s *Sharded[K, V]) Set(key K, value V) {
	s.getShard(key).Set(key, value)
}

// Len returns the current number of items in the store across all shards.
func (s *Sharded[K, V]) Len() int {
	total := 0
	for _, shard := range s.shards {
		total += shard.Len()
	}
	return total
}

// Contains checks if a key exists in the store.
func (s *Sharded[K, V]) Contains(key K) bool {
	return s.getShard(key).Contains(key)
}

// Keys returns a slice of all keys in the store.
// The order is from most recently used to least recently used within each
// shard, with shards processed in order. Note that the global LRU order is
// not preserved across shards.
func (s *Sharded[K, V]) Keys() []K {
	keys := make([]K, 0, s.Len())
	for _, shard := range s.shards {
		keys = append(keys, shard.Keys()...)
	}
	return keys
}

// Hits returns the number of successful lookups since construction, summed
// across all shards.
func (s *Sharded[K, V]) Hits() uint64 {
	var total uint64
	for _, shard := range s.shards {
		total += shard.Hits()
	}
	return total
}

// Misses returns the number of failed lookups since construction, summed
// across all shards.
func (s *Sharded[K, V]) Misses() uint64 {
	var total uint64
	for _, shard := range s.shards {
		total += shard.Misses()
	}
	return total
}

// Capacity returns the maximum total capacity of the store and true.
// This is the sum of the shard capacities, which exceeds the capacity the
// store was constructed with when that was smaller than the shard count.
// Len never exceeds this total.
func (s *Sharded[K, V]) Capacity() (int, bool) {
	return s.capacity, true
}

// Lifespan returns zero and false: entries in a Sharded store never expire.
func (s *Sharded[K, V]) Lifespan() (time.Duration, bool) {
	return 0, false
}

// ShardCount returns the number of shards in the store.
func (s *Sharded[K, V]) ShardCount() int {
	return len(s.shards)
}

// OnEvict sets a callback function that will be called when an entry is
// evicted from any shard. The callback receives the key and value of the
// evicted entry.
func (s *Sharded[K, V]) OnEvict(f OnEvictFunc[K, V]) {
	for _, shard := range s.shards {
		shard.OnEvict(f)
	}
}
