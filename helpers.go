package rig

import (
	"fmt"
	"reflect"
)

// Resolve with type safety.
func Resolve[T any](r Resolver, key Key) (T, error) {
	var zero T

	instance, err := r.Resolve(key)
	if err != nil {
		return zero, err
	}

	typed, ok := instance.(T)
	if !ok {
		return zero, ErrTypeMismatch(key, reflect.TypeFor[T](), instance)
	}

	return typed, nil
}

// Must resolves or panics - use only during startup.
func Must[T any](r Resolver, key Key) T {
	instance, err := Resolve[T](r, key)
	if err != nil {
		panic(fmt.Sprintf("failed to resolve %s: %v", key, err))
	}

	return instance
}

// ResolveType resolves the type key of T.
func ResolveType[T any](r Resolver) (T, error) {
	return Resolve[T](r, KeyOf[T]())
}

// MustType resolves the type key of T or panics.
func MustType[T any](r Resolver) T {
	return Must[T](r, KeyOf[T]())
}

// RigAs rigs a component through the configuration's container and asserts
// its type. Meant for component bodies.
func RigAs[T any](c *Configuration, name string) (T, error) {
	var zero T

	instance, err := c.Rig(name)
	if err != nil {
		return zero, err
	}

	typed, ok := instance.(T)
	if !ok {
		return zero, ErrTypeMismatch(Named(name), reflect.TypeFor[T](), instance)
	}

	return typed, nil
}

// StateOf returns the configuration state as S.
func StateOf[S any](c *Configuration) (S, bool) {
	state, ok := c.State().(S)

	return state, ok
}

func typeOf(value any) string {
	return fmt.Sprintf("%T", value)
}
