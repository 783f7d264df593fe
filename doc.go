// Package cached provides interchangeable, thread-safe in-memory cache
// stores and function memoization built on top of them.
//
// Four store types implement the common [Store] contract:
//
//   - [Unbound]: an unlimited map-backed store with no eviction
//   - [Sized]: a fixed-capacity store with least-recently-used eviction
//   - [Timed]: a store whose entries expire a fixed lifespan after writing
//   - [Sharded]: a Sized store split across shards to reduce contention
//
// Every store tracks hit and miss counts and is safe for concurrent use.
//
// # Basic Usage
//
// Create a store and use it directly:
//
//	store := cached.MustNewSized[string, int](100)
//	store.Set("key", 42)
//	value, found := store.Get("key")
//
// # Memoization
//
// Wrap a function so its results are cached by argument:
//
//	store := cached.MustNewSized[int, int](50)
//	var fib func(int) int
//	fib = cached.Memoize(store, func(n int) int {
//		if n < 2 {
//			return n
//		}
//		return fib(n-1) + fib(n-2)
//	})
//
// The store's lock is never held while the wrapped function body runs, so
// recursive calls like the one above cannot deadlock. The flip side is that
// concurrent callers missing on the same key each evaluate the body and the
// last one to finish determines the cached value; there is no in-flight
// de-duplication.
//
// Use [MemoizeKey] when the arguments themselves are not usable as a key,
// and [MemoizeErr] to cache only the successful results of a fallible
// function. [Registry] and [Resolve] share one named store per memoized
// function across independent call sites.
//
// # Expiration
//
// Entries in a [Timed] store expire lazily: an expired entry is detected
// and removed by the next Get that reaches it, never by a background sweep.
// Until then it still counts toward [Timed.Len].
//
//	store := cached.MustNewTimed[string, int](5 * time.Minute)
//	store.Set("key", 42)
//	value, found := store.Get("key") // false once five minutes have passed
package cached
