package rig

import (
	"fmt"
	"reflect"
)

// Key identifies a binding. It is either a nominal type reference created with
// KeyOf, a symbolic name created with Named, or both (NamedOf).
//
// Keys are comparable and can be used as map keys.
type Key struct {
	typ  reflect.Type
	name string
}

// KeyOf returns the key for type T.
//
// Example:
//
//	rig.KeyOf[*House]()
func KeyOf[T any]() Key {
	return Key{typ: reflect.TypeFor[T]()}
}

// Named returns a symbolic key.
//
// Example:
//
//	rig.Named("foo_db")
func Named(name string) Key {
	return Key{name: name}
}

// NamedOf returns a key for type T qualified by name, for wiring one type in
// several ways.
func NamedOf[T any](name string) Key {
	return Key{typ: reflect.TypeFor[T](), name: name}
}

// Name returns the symbolic part of the key.
func (k Key) Name() string {
	return k.name
}

// Type returns the nominal part of the key, nil for symbolic keys.
func (k Key) Type() reflect.Type {
	return k.typ
}

// IsZero reports whether k is the zero key.
func (k Key) IsZero() bool {
	return k.typ == nil && k.name == ""
}

// String returns a human-readable representation of the key
func (k Key) String() string {
	switch {
	case k.typ == nil && k.name == "":
		return "<zero key>"
	case k.typ == nil:
		return ":" + k.name
	case k.name == "":
		return k.typ.String()
	default:
		return fmt.Sprintf("%s[name=%s]", k.typ, k.name)
	}
}

// TypedKey carries the Go type of the value bound under a key so resolution
// needs no type assertion at the call site.
type TypedKey[T any] struct {
	key Key
}

// NewTypedKey creates a typed symbolic key.
//
// Example:
//
//	var FooDB = rig.NewTypedKey[*Database]("foo_db")
//	db, err := rig.ResolveKey(c, FooDB)
func NewTypedKey[T any](name string) TypedKey[T] {
	return TypedKey[T]{key: Named(name)}
}

// TypeKey creates a typed key for T itself.
func TypeKey[T any]() TypedKey[T] {
	return TypedKey[T]{key: KeyOf[T]()}
}

// Key returns the untyped key.
func (k TypedKey[T]) Key() Key {
	return k.key
}

// String implements fmt.Stringer.
func (k TypedKey[T]) String() string {
	return k.key.String()
}

// Arg returns an argument resolving this key.
func (k TypedKey[T]) Arg() Arg {
	return Ref(k.key)
}

// ResolveKey resolves a typed key.
func ResolveKey[T any](r Resolver, key TypedKey[T]) (T, error) {
	return Resolve[T](r, key.key)
}

// MustKey resolves a typed key and panics on error.
func MustKey[T any](r Resolver, key TypedKey[T]) T {
	return Must[T](r, key.key)
}

// KnowsKey checks if a typed key can be resolved.
func KnowsKey[T any](r Resolver, key TypedKey[T]) bool {
	return r.Knows(key.key)
}
