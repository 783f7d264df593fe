package cached

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSharded_New(t *testing.T) {
	tests := map[string]struct {
		capacity    int
		expectError bool
	}{
		"valid capacity": {
			capacity:    160,
			expectError: false,
		},
		"zero capacity": {
			capacity:    0,
			expectError: true,
		},
		"negative capacity": {
			capacity:    -1,
			expectError: true,
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			r := require.New(t)

			cache, err := NewSharded[string, int](tc.capacity)
			if tc.expectError {
				r.Error(err)
				r.Nil(cache)
			} else {
				r.NoError(err)
				r.NotNil(cache)
				capacity, bounded := cache.Capacity()
				r.True(bounded)
				r.Equal(tc.capacity, capacity)
				r.Equal(DefaultShardCount, cache.ShardCount())
			}
		})
	}
}

func TestSharded_NewWithCount(t *testing.T) {
	tests := map[string]struct {
		capacity    int
		shardCount  int
		expectError bool
	}{
		"valid parameters": {
			capacity:    100,
			shardCount:  4,
			expectError: false,
		},
		"zero shard count": {
			capacity:    100,
			shardCount:  0,
			expectError: true,
		},
		"negative shard count": {
			capacity:    100,
			shardCount:  -1,
			expectError: true,
		},
		"more shards than capacity": {
			capacity:    4,
			shardCount:  16,
			expectError: false, // each shard gets at least capacity 1
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			r := require.New(t)

			cache, err := NewShardedWithCount[string, int](tc.capacity, tc.shardCount)
			if tc.expectError {
				r.Error(err)
				r.Nil(cache)
			} else {
				r.NoError(err)
				r.NotNil(cache)
				r.Equal(tc.shardCount, cache.ShardCount())
			}
		})
	}
}

func TestSharded_CapacityDistribution(t *testing.T) {
	tests := map[string]struct {
		capacity   int
		shardCount int
		wantCaps   []int
		wantTotal  int
	}{
		"even split": {
			capacity:   100,
			shardCount: 4,
			wantCaps:   []int{25, 25, 25, 25},
			wantTotal:  100,
		},
		"remainder goes to first shards": {
			capacity:   10,
			shardCount: 3,
			wantCaps:   []int{4, 3, 3},
			wantTotal:  10,
		},
		"fewer entries than shards rounds up": {
			capacity:   2,
			shardCount: 4,
			wantCaps:   []int{1, 1, 1, 1},
			wantTotal:  4,
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			r := require.New(t)

			cache := MustNewShardedWithCount[string, int](tc.capacity, tc.shardCount)
			for i, shard := range cache.shards {
				capacity, _ := shard.Capacity()
				r.Equal(tc.wantCaps[i], capacity, fmt.Sprintf("shard %d", i))
			}

			// the reported capacity is the sum of the shard capacities
			total, bounded := cache.Capacity()
			r.True(bounded)
			r.Equal(tc.wantTotal, total)
		})
	}
}

// The reported capacity is a real bound: however many entries are written,
// Len never exceeds it, even when the requested capacity was smaller than
// the shard count and had to be rounded up.
func TestSharded_LenNeverExceedsCapacity(t *testing.T) {
	tests := map[string]struct {
		construct func() *Sharded[int, int]
	}{
		"capacity below default shard count": {
			construct: func() *Sharded[int, int] { return MustNewSharded[int, int](5) },
		},
		"capacity below explicit shard count": {
			construct: func() *Sharded[int, int] { return MustNewShardedWithCount[int, int](3, 8) },
		},
		"capacity above shard count": {
			construct: func() *Sharded[int, int] { return MustNewShardedWithCount[int, int](50, 8) },
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			r := require.New(t)
			cache := tc.construct()

			capacity, bounded := cache.Capacity()
			r.True(bounded)

			for i := 0; i < 1000; i++ {
				cache.Set(i, i)
				r.LessOrEqual(cache.Len(), capacity)
			}
		})
	}
}

func TestSharded_GetSet(t *testing.T) {
	r := require.New(t)
	cache := MustNewSharded[string, int](160)

	for i := 0; i < 100; i++ {
		cache.Set(fmt.Sprintf("key-%d", i), i)
	}

	r.Equal(100, cache.Len())

	for i := 0; i < 100; i++ {
		val, found := cache.Get(fmt.Sprintf("key-%d", i))
		r.True(found)
		r.Equal(i, val)
	}

	// overwrite
	cache.Set("key-0", 1000)
	val, found := cache.Get("key-0")
	r.True(found)
	r.Equal(1000, val)
	r.Equal(100, cache.Len())
}

func TestSharded_ConsistentHashing(t *testing.T) {
	r := require.New(t)
	cache := MustNewSharded[string, int](160)

	// a key must always map to the same shard
	for i := 0; i < 100; i++ {
		key := fmt.Sprintf("key-%d", i)
		first := cache.shardIndex(key)
		for j := 0; j < 10; j++ {
			r.Equal(first, cache.shardIndex(key))
		}
	}
}

func TestSharded_DifferentKeyTypes(t *testing.T) {
	t.Run("int keys", func(t *testing.T) {
		r := require.New(t)
		cache := MustNewSharded[int, string](64)

		for i := 0; i < 50; i++ {
			cache.Set(i, fmt.Sprintf("val-%d", i))
		}
		for i := 0; i < 50; i++ {
			val, found := cache.Get(i)
			r.True(found)
			r.Equal(fmt.Sprintf("val-%d", i), val)
		}
	})

	t.Run("uint64 keys", func(t *testing.T) {
		r := require.New(t)
		cache := MustNewSharded[uint64, int](64)

		for i := uint64(0); i < 50; i++ {
			cache.Set(i, int(i))
		}
		for i := uint64(0); i < 50; i++ {
			val, found := cache.Get(i)
			r.True(found)
			r.Equal(int(i), val)
		}
	})

	t.Run("struct keys", func(t *testing.T) {
		type pair struct{ A, B int }

		r := require.New(t)
		cache := MustNewSharded[pair, int](64)

		for i := 0; i < 50; i++ {
			cache.Set(pair{i, i + 1}, i)
		}
		for i := 0; i < 50; i++ {
			val, found := cache.Get(pair{i, i + 1})
			r.True(found)
			r.Equal(i, val)
		}
	})
}

func TestSharded_CountersSumAcrossShards(t *testing.T) {
	r := require.New(t)
	cache := MustNewSharded[int, int](64)

	for i := 0; i < 20; i++ {
		cache.Set(i, i)
	}

	for i := 0; i < 20; i++ {
		_, found := cache.Get(i)
		r.True(found)
	}
	for i := 100; i < 110; i++ {
		_, found := cache.Get(i)
		r.False(found)
	}

	r.Equal(uint64(20), cache.Hits())
	r.Equal(uint64(10), cache.Misses())
}

func TestSharded_Keys(t *testing.T) {
	r := require.New(t)
	cache := MustNewShardedWithCount[string, int](10, 2)

	cache.Set("a", 1)
	cache.Set("b", 2)
	cache.Set("c", 3)

	keys := cache.Keys()
	r.Len(keys, 3)
	r.ElementsMatch([]string{"a", "b", "c"}, keys)
}

func TestSharded_Peek(t *testing.T) {
	r := require.New(t)
	cache := MustNewSharded[string, int](64)

	cache.Set("a", 1)

	val, found := cache.Peek("a")
	r.True(found)
	r.Equal(1, val)

	_, found = cache.Peek("z")
	r.False(found)

	// peek does not touch counters
	r.Equal(uint64(0), cache.Hits())
	r.Equal(uint64(0), cache.Misses())
}

func TestSharded_ConcurrentAccess(t *testing.T) {
	r := require.New(t)
	cache := MustNewSharded[int, int](1000)

	var wg sync.WaitGroup
	workers := 8
	opsPerWorker := 1000

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(worker int) {
			defer wg.Done()
			for i := 0; i < opsPerWorker; i++ {
				key := worker*opsPerWorker + i
				cache.Set(key, key*2)
				if val, found := cache.Get(key); found && val != key*2 {
					t.Errorf("key %d: got %d, want %d", key, val, key*2)
				}
			}
		}(w)
	}

	wg.Wait()
	r.LessOrEqual(cache.Len(), 1000)
}

func TestSharded_EvictionStaysPerShard(t *testing.T) {
	r := require.New(t)
	cache := MustNewShardedWithCount[int, int](8, 4)

	// overfill well past total capacity; each shard enforces its own bound
	for i := 0; i < 100; i++ {
		cache.Set(i, i)
	}

	r.LessOrEqual(cache.Len(), 8)
	for _, shard := range cache.shards {
		capacity, _ := shard.Capacity()
		r.LessOrEqual(shard.Len(), capacity)
	}
}
