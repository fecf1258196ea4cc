package rig

import (
	"fmt"

	"go.uber.org/multierr"
)

// Scope is the caching policy of a binding or component.
type Scope string

const (
	// ScopeSingle constructs at most once per configuration instance.
	ScopeSingle Scope = "single"

	// ScopeInstance constructs a fresh value on every resolution.
	ScopeInstance Scope = "instance"
)

// String returns the string representation of the scope.
func (s Scope) String() string {
	return string(s)
}

// Valid reports whether s is a known scope.
func (s Scope) Valid() bool {
	return s == ScopeSingle || s == ScopeInstance
}

// ParseScope parses "single" or "instance".
func ParseScope(s string) (Scope, error) {
	scope := Scope(s)
	if !scope.Valid() {
		return "", ErrInvalidSetting("scope", s)
	}

	return scope, nil
}

// EntryKind tells bindings and components apart.
type EntryKind int

const (
	// KindBinding is a key bound with Bind, BindProvider or BindValue.
	KindBinding EntryKind = iota
	// KindComponent is a named accessor declared with Component.
	KindComponent
)

// String returns the kind name.
func (k EntryKind) String() string {
	if k == KindComponent {
		return "component"
	}

	return "binding"
}

// ComponentFunc builds a component. It runs with the owning configuration,
// through which it reaches Rig, KnowsComponent and State.
type ComponentFunc func(c *Configuration) (any, error)

// entry is one row of a definition's bindings table.
type entry struct {
	key      Key
	kind     EntryKind
	provider Provider
	scope    Scope
	metadata map[string]string
}

// Builder accumulates the bindings of a configuration type. Declaration errors
// are collected and reported by Build.
//
// Example:
//
//	var Housing = rig.Define("housing").
//	    Bind(rig.KeyOf[*House](), NewHouse, rig.Inject[*Door](), rig.Inject[*Window]()).
//	    Bind(rig.KeyOf[*Window](), NewWindow).
//	    Bind(rig.KeyOf[*Door](), NewDoor).
//	    MustBuild()
type Builder struct {
	name         string
	defaultScope Scope
	entries      []*entry
	index        map[Key]int
	err          error
}

// Define starts a configuration type named name.
func Define(name string, opts ...BuilderOption) *Builder {
	b := &Builder{
		name:         name,
		defaultScope: ScopeSingle,
		index:        make(map[Key]int),
	}

	for _, opt := range opts {
		opt(b)
	}

	if !b.defaultScope.Valid() {
		b.fail("default scope", fmt.Sprintf("scope %s is unknown", b.defaultScope))
	}

	return b
}

// Bind binds key to a constructor called with args in order. The binding is
// instance-scoped until Singleton(key) is called.
func (b *Builder) Bind(key Key, constructor any, args ...Arg) *Builder {
	p, err := Constructor(constructor, args...)
	if err != nil {
		b.fail(key.String(), err.Error())

		return b
	}

	return b.BindProvider(key, p)
}

// BindSingleton is Bind followed by Singleton.
func (b *Builder) BindSingleton(key Key, constructor any, args ...Arg) *Builder {
	p, err := Constructor(constructor, args...)
	if err != nil {
		b.fail(key.String(), err.Error())

		return b
	}

	return b.BindProvider(key, p, WithScope(ScopeSingle))
}

// BindProvider binds key to p. A later binding of the same key replaces the
// earlier one.
func (b *Builder) BindProvider(key Key, p Provider, opts ...EntryOption) *Builder {
	if key.IsZero() {
		b.fail(key.String(), "key cannot be empty")

		return b
	}

	if p == nil {
		b.fail(key.String(), "provider is missing")

		return b
	}

	merged := mergeEntryOptions(ScopeInstance, opts)
	if !merged.scope.Valid() {
		b.fail(key.String(), fmt.Sprintf("scope %s is unknown", merged.scope))

		return b
	}

	b.put(&entry{
		key:      key,
		kind:     KindBinding,
		provider: p,
		scope:    merged.scope,
		metadata: merged.metadata,
	})

	return b
}

// BindValue binds key to a pre-built value.
func (b *Builder) BindValue(key Key, value any) *Builder {
	return b.BindProvider(key, Instance(value), WithScope(ScopeSingle))
}

// Singleton memoizes an already bound key.
func (b *Builder) Singleton(key Key) *Builder {
	i, ok := b.index[key]
	if !ok {
		b.fail(key.String(), "singleton requires an existing binding")

		return b
	}

	b.entries[i].scope = ScopeSingle

	return b
}

// Component declares a named component built by body. The scope defaults to
// the builder's default scope (single unless WithDefaultScope says otherwise).
//
// Example:
//
//	rig.Define("app").
//	    Component("service", func(c *rig.Configuration) (any, error) {
//	        return NewService(), nil
//	    }).
//	    Component("app", func(c *rig.Configuration) (any, error) {
//	        svc, err := c.Rig("service")
//	        if err != nil {
//	            return nil, err
//	        }
//	        return NewApp(svc.(*Service)), nil
//	    }, rig.WithScope(rig.ScopeInstance))
func (b *Builder) Component(name string, body ComponentFunc, opts ...EntryOption) *Builder {
	label := "component " + name

	if name == "" {
		b.fail("component", "name is missing")

		return b
	}

	if body == nil {
		b.fail(label, "block is missing")

		return b
	}

	merged := mergeEntryOptions(b.defaultScope, opts)
	if !merged.scope.Valid() {
		b.fail(label, fmt.Sprintf("scope %s is unknown", merged.scope))

		return b
	}

	b.put(&entry{
		key:  Named(name),
		kind: KindComponent,
		provider: ProviderFunc(func(_ Resolver, owner *Configuration) (any, error) {
			return body(owner)
		}),
		scope:    merged.scope,
		metadata: merged.metadata,
	})

	return b
}

// Err returns the declaration errors collected so far.
func (b *Builder) Err() error {
	return b.err
}

// Build freezes the bindings table.
func (b *Builder) Build() (*Definition, error) {
	if b.err != nil {
		return nil, b.err
	}

	def := &Definition{
		name:    b.name,
		entries: make([]entry, len(b.entries)),
		index:   make(map[Key]int, len(b.entries)),
	}

	for i, e := range b.entries {
		def.entries[i] = *e
		def.index[e.key] = i

		if e.kind == KindComponent {
			def.components = append(def.components, e.key.name)
		}
	}

	return def, nil
}

// MustBuild is Build that panics on declaration errors, for package-level
// variables.
func (b *Builder) MustBuild() *Definition {
	def, err := b.Build()
	if err != nil {
		panic(err)
	}

	return def
}

func (b *Builder) put(e *entry) {
	if i, exists := b.index[e.key]; exists {
		b.entries[i] = e

		return
	}

	b.index[e.key] = len(b.entries)
	b.entries = append(b.entries, e)
}

func (b *Builder) fail(entry, reason string) {
	b.err = multierr.Append(b.err, ErrComponentDefinition(b.name, entry, reason))
}

// Definition is an immutable configuration type produced by a Builder.
// Instantiate it with New.
type Definition struct {
	name       string
	entries    []entry
	index      map[Key]int
	components []string
}

// Name returns the definition name.
func (d *Definition) Name() string {
	return d.name
}

// Keys returns every bound key in declaration order.
func (d *Definition) Keys() []Key {
	keys := make([]Key, len(d.entries))
	for i := range d.entries {
		keys[i] = d.entries[i].key
	}

	return keys
}

// Components returns component names in declaration order.
func (d *Definition) Components() []string {
	return append([]string(nil), d.components...)
}

// Knows reports whether key is bound.
func (d *Definition) Knows(key Key) bool {
	_, ok := d.index[key]

	return ok
}

// Dependencies returns the keys the binding of key passes to its constructor.
func (d *Definition) Dependencies(key Key) []Key {
	i, ok := d.index[key]
	if !ok {
		return nil
	}

	return dependenciesOf(d.entries[i].provider)
}

// New creates a configuration instance. state is available to literal
// arguments and component bodies through Configuration.State.
func (d *Definition) New(state any) *Configuration {
	return newConfiguration(d, state)
}

func (d *Definition) lookup(key Key) (int, *entry, bool) {
	i, ok := d.index[key]
	if !ok {
		return 0, nil, false
	}

	return i, &d.entries[i], true
}
