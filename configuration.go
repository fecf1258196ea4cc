package rig

import (
	"sync"

	"go.uber.org/zap"
)

// slot caches the value of one single-scoped entry.
type slot struct {
	mu    sync.Mutex
	done  bool
	value any
}

// Configuration is an instance of a Definition. It owns its state, its
// back-reference to the container and the cache of single-scoped values.
type Configuration struct {
	def       *Definition
	state     any
	slots     []*slot
	container *Container
	logger    *zap.Logger
	mu        sync.RWMutex
}

func newConfiguration(def *Definition, state any) *Configuration {
	slots := make([]*slot, len(def.entries))
	for i := range slots {
		slots[i] = &slot{}
	}

	return &Configuration{
		def:    def,
		state:  state,
		slots:  slots,
		logger: zap.NewNop(),
	}
}

// Name returns the definition name.
func (c *Configuration) Name() string {
	return c.def.name
}

// Definition returns the configuration type.
func (c *Configuration) Definition() *Definition {
	return c.def
}

// State returns the value passed to Definition.New.
func (c *Configuration) State() any {
	return c.state
}

// Container returns the container the configuration is loaded into, or nil.
func (c *Configuration) Container() *Container {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.container
}

// Knows reports whether this configuration binds key.
func (c *Configuration) Knows(key Key) bool {
	return c.def.Knows(key)
}

// Keys returns the bound keys in declaration order.
func (c *Configuration) Keys() []Key {
	return c.def.Keys()
}

// Components returns component names in declaration order.
func (c *Configuration) Components() []string {
	return c.def.Components()
}

// Resolve constructs the value bound to key. Nested keys are resolved through
// the container when the configuration is loaded, through the configuration
// itself otherwise.
//
// Every failure, including a panic in a constructor, is returned as an
// INSTANTIATION_FAILURE error whose cause is the underlying failure.
func (c *Configuration) Resolve(key Key) (value any, err error) {
	i, e, ok := c.def.lookup(key)
	if !ok {
		return nil, ErrNoProvider(c.Name(), key)
	}

	defer func() {
		if r := recover(); r != nil {
			value = nil
			err = ErrInstantiation(c.Name(), key, panicError(r))
		}
	}()

	if e.scope == ScopeInstance {
		return c.construct(e)
	}

	s := c.slots[i]
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.done {
		return s.value, nil
	}

	value, err = c.construct(e)
	if err != nil {
		return nil, err
	}

	s.value = value
	s.done = true

	return value, nil
}

// Component returns the named component, the accessor declared with
// Builder.Component.
func (c *Configuration) Component(name string) (any, error) {
	return c.Resolve(Named(name))
}

// Rig resolves a component through the owning container. It fails when the
// configuration is not loaded or no configuration provides name.
func (c *Configuration) Rig(name string) (any, error) {
	container := c.Container()
	if container == nil {
		return nil, ErrDetached
	}

	return container.Rig(name)
}

// KnowsComponent reports whether the owning container can rig name.
func (c *Configuration) KnowsComponent(name string) bool {
	container := c.Container()
	if container == nil {
		return false
	}

	return container.KnowsComponent(name)
}

// Cached reports whether a single-scoped value for key has been constructed.
func (c *Configuration) Cached(key Key) bool {
	i, e, ok := c.def.lookup(key)
	if !ok || e.scope != ScopeSingle {
		return false
	}

	s := c.slots[i]
	if !s.mu.TryLock() {
		// under construction
		return false
	}
	defer s.mu.Unlock()

	return s.done
}

func (c *Configuration) construct(e *entry) (any, error) {
	value, err := e.provider.Provide(c.resolver(), c)
	if err != nil {
		return nil, ErrInstantiation(c.Name(), e.key, err)
	}

	c.log().Debug("constructed",
		zap.Stringer("key", e.key),
		zap.Stringer("scope", e.scope),
	)

	return value, nil
}

// resolver returns the container when attached, the configuration otherwise.
func (c *Configuration) resolver() Resolver {
	if container := c.Container(); container != nil {
		return container
	}

	return c
}

func (c *Configuration) log() *zap.Logger {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.logger
}

// attach sets the back-reference. A configuration belongs to one container.
func (c *Configuration) attach(container *Container) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.container != nil && c.container != container {
		return ErrComponentDefinition(c.def.name, "configuration", "already loaded into another container")
	}

	c.container = container
	c.logger = container.logger.With(zap.String("configuration", c.def.name))

	return nil
}
