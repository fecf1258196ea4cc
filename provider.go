package rig

import (
	"errors"
	"fmt"
	"reflect"
)

var errorType = reflect.TypeFor[error]()

// Resolver looks keys up. Both Container and Configuration implement it.
type Resolver interface {
	Resolve(key Key) (any, error)
	Knows(key Key) bool
}

// Provider constructs the value bound to a key.
//
// r resolves nested keys; owner is the configuration the binding belongs to.
type Provider interface {
	Provide(r Resolver, owner *Configuration) (any, error)
}

// ProviderFunc adapts a function to Provider.
type ProviderFunc func(r Resolver, owner *Configuration) (any, error)

// Provide implements Provider.
func (f ProviderFunc) Provide(r Resolver, owner *Configuration) (any, error) {
	return f(r, owner)
}

// instanceProvider always returns the same value.
type instanceProvider struct {
	value any
}

// Instance returns a provider for a pre-built value.
func Instance(value any) Provider {
	return &instanceProvider{value: value}
}

func (p *instanceProvider) Provide(Resolver, *Configuration) (any, error) {
	return p.value, nil
}

// ConstructorProvider calls a constructor function with positionally resolved
// arguments.
type ConstructorProvider struct {
	fn     reflect.Value
	fnType reflect.Type
	args   []Arg
}

// Constructor creates a ConstructorProvider. fn must be a function returning
// (T) or (T, error) whose parameter count equals len(args).
//
// Usage:
//
//	p, err := rig.Constructor(NewHouse, rig.Inject[*Door](), rig.Inject[*Window]())
func Constructor(fn any, args ...Arg) (*ConstructorProvider, error) {
	if fn == nil {
		return nil, errors.New("constructor cannot be nil")
	}

	fnValue := reflect.ValueOf(fn)
	fnType := fnValue.Type()

	if fnType.Kind() != reflect.Func {
		return nil, fmt.Errorf("constructor must be a function, got %T", fn)
	}

	if fnType.IsVariadic() {
		return nil, errors.New("constructor must not be variadic")
	}

	// Verify parameter count matches
	if fnType.NumIn() != len(args) {
		return nil, fmt.Errorf("constructor expects %d parameters, got %d arguments", fnType.NumIn(), len(args))
	}

	switch fnType.NumOut() {
	case 1:
	case 2:
		if fnType.Out(1) != errorType {
			return nil, errors.New("constructor's second return value must be error")
		}
	default:
		return nil, fmt.Errorf("constructor must return (T) or (T, error), got %d return values", fnType.NumOut())
	}

	return &ConstructorProvider{
		fn:     fnValue,
		fnType: fnType,
		args:   append([]Arg(nil), args...),
	}, nil
}

// Args returns a copy of the arguments.
func (p *ConstructorProvider) Args() []Arg {
	return append([]Arg(nil), p.args...)
}

// Dependencies returns the keys referenced by the arguments, in order.
func (p *ConstructorProvider) Dependencies() []Key {
	return argKeys(p.args)
}

// Provide resolves every argument in declaration order and calls the
// constructor. Resolution errors are returned as they are.
func (p *ConstructorProvider) Provide(r Resolver, owner *Configuration) (any, error) {
	values := make([]reflect.Value, len(p.args))

	for i, arg := range p.args {
		resolved, err := arg.evaluate(r, owner)
		if err != nil {
			return nil, err
		}

		param := p.fnType.In(i)
		if resolved == nil {
			values[i] = reflect.Zero(param)
			continue
		}

		value := reflect.ValueOf(resolved)
		if !value.Type().AssignableTo(param) {
			return nil, ErrArgumentMismatch(i, arg, param, resolved)
		}

		values[i] = value
	}

	results := p.fn.Call(values)

	if len(results) == 2 && !results[1].IsNil() {
		return nil, results[1].Interface().(error)
	}

	return results[0].Interface(), nil
}

// dependenciesOf returns the argument keys of p when it exposes them.
func dependenciesOf(p Provider) []Key {
	if d, ok := p.(interface{ Dependencies() []Key }); ok {
		return d.Dependencies()
	}

	return nil
}
