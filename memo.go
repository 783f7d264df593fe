package cached

// Memoize wraps body so that its results are cached in store, keyed by the
// argument itself. The returned function looks the key up first and only
// evaluates body on a miss; a successful result is then inserted so later
// calls with an equal argument skip the computation.
//
// The store's lock is held only for the lookup and, separately, for the
// insert. It is never held while body runs, so body may call the returned
// function recursively without deadlocking. The price of that discipline
// is that concurrent callers missing on the same key each evaluate body
// and race to insert, last writer wins; there is no de-duplication of
// in-flight computations.
func Memoize[K comparable, V any](store Store[K, V], body func(K) V) func(K) V {
	return MemoizeKey(store, func(k K) K { return k }, body)
}

// MemoizeKey is like [Memoize] for functions whose argument is not itself
// usable as a cache key. The key function derives the cache key from the
// argument; functions of several arguments pass them as a struct and derive
// a key from its fields.
func MemoizeKey[A any, K comparable, V any](store Store[K, V], key func(A) K, body func(A) V) func(A) V {
	return func(arg A) V {
		k := key(arg)
		if val, found := store.Get(k); found {
			return val
		}

		// compute outside the store's lock so body may re-enter the
		// memoized function
		val := body(arg)
		store.Set(k, val)
		return val
	}
}

// MemoizeErr wraps a fallible body so that its successful results are
// cached in store, keyed by the argument itself. An error return is handed
// back to the caller unchanged and is never inserted into the store; the
// next call with the same argument evaluates body again.
func MemoizeErr[K comparable, V any](store Store[K, V], body func(K) (V, error)) func(K) (V, error) {
	return MemoizeKeyErr(store, func(k K) K { return k }, body)
}

// MemoizeKeyErr is like [MemoizeErr] with a caller-supplied key derivation
// function, mirroring [MemoizeKey].
func MemoizeKeyErr[A any, K comparable, V any](store Store[K, V], key func(A) K, body func(A) (V, error)) func(A) (V, error) {
	return func(arg A) (V, error) {
		k := key(arg)
		if val, found := store.Get(k); found {
			return val, nil
		}

		val, err := body(arg)
		if err != nil {
			var zero V
			return zero, err
		}

		store.Set(k, val)
		return val, nil
	}
}
