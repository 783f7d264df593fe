package cached

import (
	"fmt"
	"sync"
)

// Registry holds named store instances so that independent call sites can
// share one store per memoized function without package-level globals.
// The zero value is not ready for use; create a Registry with [NewRegistry].
type Registry struct {
	mu     sync.Mutex
	stores map[string]any
}

// NewRegistry creates an empty store registry.
func NewRegistry() *Registry {
	return &Registry{
		stores: make(map[string]any),
	}
}

// Len returns the number of stores currently registered.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return len(r.stores)
}

// Resolve returns the store registered under name, creating it with create
// if it does not exist yet. The create-if-absent step is atomic: when
// several goroutines resolve the same name for the first time concurrently,
// exactly one create call runs and every caller receives the same instance.
//
// Resolve returns an error if a store is already registered under name with
// a different key or value type.
func Resolve[K comparable, V any](r *Registry, name string, create func() Store[K, V]) (Store[K, V], error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, found := r.stores[name]
	if !found {
		store := create()
		r.stores[name] = store
		return store, nil
	}

	store, ok := existing.(Store[K, V])
	if !ok {
		return nil, fmt.Errorf("store %q already registered with type %T", name, existing)
	}
	return store, nil
}

// MustResolve is like [Resolve] but panics if the registered store has a
// different type.
func MustResolve[K comparable, V any](r *Registry, name string, create func() Store[K, V]) Store[K, V] {
	store, err := Resolve(r, name, create)
	if err != nil {
		panic(err)
	}
	return store
}
