package rig

import (
	"fmt"
	"reflect"
)

// ArgKind distinguishes the two ways a constructor argument is obtained.
type ArgKind int

const (
	// ArgKey resolves another key through the resolver.
	ArgKey ArgKind = iota
	// ArgLiteral calls a literal function with the owning configuration.
	ArgLiteral
)

// String returns the kind name.
func (k ArgKind) String() string {
	switch k {
	case ArgKey:
		return "key"
	case ArgLiteral:
		return "literal"
	default:
		return fmt.Sprintf("ArgKind(%d)", int(k))
	}
}

// LiteralFunc produces a literal argument. It receives the configuration that
// owns the binding so it can read that configuration's state.
type LiteralFunc func(owner *Configuration) any

// Arg describes one positional constructor argument.
type Arg struct {
	kind    ArgKind
	key     Key
	literal func(owner *Configuration) (any, error)
}

// Ref creates an argument resolved from key.
func Ref(key Key) Arg {
	return Arg{kind: ArgKey, key: key}
}

// Inject creates an argument resolved from the type key of T.
//
// Usage:
//
//	b.Bind(rig.KeyOf[*House](), NewHouse, rig.Inject[*Door](), rig.Inject[*Window]())
func Inject[T any]() Arg {
	return Ref(KeyOf[T]())
}

// InjectNamed creates an argument resolved from a symbolic key.
func InjectNamed(name string) Arg {
	return Ref(Named(name))
}

// Literal creates an argument produced by fn each time the binding is
// constructed.
//
// Usage:
//
//	b.Bind(rig.KeyOf[*Database](), NewDatabase, rig.Literal(func(*rig.Configuration) any {
//	    return "mongodb://localhost:27017"
//	}))
func Literal(fn LiteralFunc) Arg {
	return Arg{kind: ArgLiteral, literal: func(owner *Configuration) (any, error) {
		return fn(owner), nil
	}}
}

// Value creates a literal argument that always yields v.
func Value(v any) Arg {
	return Arg{kind: ArgLiteral, literal: func(*Configuration) (any, error) {
		return v, nil
	}}
}

// FromState creates a literal argument computed from the owning
// configuration's state, which must be of type S.
//
// Usage:
//
//	type dbURIs struct{ Foo, Bar string }
//	b.Bind(rig.Named("foo_db"), NewDatabase, rig.FromState(func(s *dbURIs) any { return s.Foo }))
func FromState[S any](fn func(state S) any) Arg {
	return Arg{kind: ArgLiteral, literal: func(owner *Configuration) (any, error) {
		var state any
		if owner != nil {
			state = owner.State()
		}

		typed, ok := state.(S)
		if !ok {
			return nil, ErrTypeMismatch(Named("state"), reflect.TypeFor[S](), state)
		}

		return fn(typed), nil
	}}
}

// Deferred creates a literal argument carrying a *Lazy[T] for key. The key is
// resolved through the owner's container on first Get.
func Deferred[T any](key Key) Arg {
	return Arg{kind: ArgLiteral, literal: func(owner *Configuration) (any, error) {
		if owner == nil {
			return nil, ErrDetached
		}

		return NewLazy[T](owner.resolver(), key), nil
	}}
}

// Kind returns the argument kind.
func (a Arg) Kind() ArgKind {
	return a.kind
}

// Key returns the referenced key for ArgKey arguments.
func (a Arg) Key() Key {
	return a.key
}

// String describes the argument.
func (a Arg) String() string {
	if a.kind == ArgKey {
		return a.key.String()
	}

	return "<literal>"
}

// evaluate produces the argument value.
func (a Arg) evaluate(r Resolver, owner *Configuration) (any, error) {
	switch a.kind {
	case ArgKey:
		return r.Resolve(a.key)
	case ArgLiteral:
		if a.literal == nil {
			return nil, nil
		}

		return a.literal(owner)
	default:
		return nil, fmt.Errorf("unknown argument kind: %v", a.kind)
	}
}

// argKeys extracts the referenced keys, skipping literals.
func argKeys(args []Arg) []Key {
	keys := make([]Key, 0, len(args))
	for _, arg := range args {
		if arg.kind == ArgKey {
			keys = append(keys, arg.key)
		}
	}

	return keys
}
