package rig

import (
	"reflect"
	"sync"
	"sync/atomic"
)

// Lazy wraps a dependency that is resolved on first access.
// Pass it to a constructor with the Deferred argument to postpone an
// expensive dependency until it is actually used.
type Lazy[T any] struct {
	resolver Resolver
	key      Key
	once     sync.Once
	value    T
	err      error
	resolved atomic.Bool
}

// NewLazy creates a new lazy dependency wrapper.
func NewLazy[T any](r Resolver, key Key) *Lazy[T] {
	return &Lazy[T]{
		resolver: r,
		key:      key,
	}
}

// Get resolves the dependency and returns it.
// The resolution happens only once; subsequent calls return the cached value.
func (l *Lazy[T]) Get() (T, error) {
	l.once.Do(func() {
		instance, err := l.resolver.Resolve(l.key)
		if err != nil {
			l.err = err

			return
		}

		typed, ok := instance.(T)
		if !ok {
			l.err = ErrTypeMismatch(l.key, reflect.TypeFor[T](), instance)

			return
		}

		l.value = typed
		l.resolved.Store(true)
	})

	return l.value, l.err
}

// MustGet resolves the dependency and returns it, panicking on error.
func (l *Lazy[T]) MustGet() T {
	value, err := l.Get()
	if err != nil {
		panic(err)
	}

	return value
}

// IsResolved returns true if the dependency has been resolved.
func (l *Lazy[T]) IsResolved() bool {
	return l.resolved.Load()
}

// Key returns the key of the dependency.
func (l *Lazy[T]) Key() Key {
	return l.key
}
