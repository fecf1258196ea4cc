package rig

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// Policy decides which configuration wins when several bind the same key.
type Policy string

const (
	// PolicyFirstMatch scans configurations in load order and uses the first
	// one that knows the key.
	PolicyFirstMatch Policy = "first-match"

	// PolicyLastRegistered indexes keys at load time; a configuration loaded
	// later replaces earlier owners of the same key.
	PolicyLastRegistered Policy = "last-registered"
)

// String returns the string representation of the policy.
func (p Policy) String() string {
	return string(p)
}

// Valid reports whether p is a known policy.
func (p Policy) Valid() bool {
	return p == PolicyFirstMatch || p == PolicyLastRegistered
}

// ParsePolicy parses "first-match" or "last-registered".
func ParsePolicy(s string) (Policy, error) {
	policy := Policy(s)
	if !policy.Valid() {
		return "", ErrInvalidSetting("policy", s)
	}

	return policy, nil
}

// Container composes configurations and is the entry point for resolution.
type Container struct {
	configs    []*Configuration
	index      map[Key]*Configuration
	policy     Policy
	logger     *zap.Logger
	middleware *middlewareChain
	mu         sync.RWMutex
}

// New creates an empty container. The default policy is PolicyFirstMatch.
func New(opts ...Option) *Container {
	c := &Container{
		index:      make(map[Key]*Configuration),
		policy:     PolicyFirstMatch,
		logger:     zap.NewNop(),
		middleware: newMiddlewareChain(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Compose creates a container and loads configs in order.
//
// Example:
//
//	c, err := rig.Compose([]*rig.Configuration{
//	    DatabaseConfig.New(nil),
//	    ApplicationConfig.New(nil),
//	}, rig.WithPolicy(rig.PolicyLastRegistered))
func Compose(configs []*Configuration, opts ...Option) (*Container, error) {
	c := New(opts...)
	if err := c.Load(configs...); err != nil {
		return nil, err
	}

	return c, nil
}

// Load appends configurations and points their back-reference at c.
func (c *Container) Load(configs ...*Configuration) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.policy.Valid() {
		return ErrInvalidSetting("policy", string(c.policy))
	}

	var err error

	for _, cfg := range configs {
		if cfg == nil || slices.Contains(c.configs, cfg) {
			continue
		}

		if attachErr := cfg.attach(c); attachErr != nil {
			err = multierr.Append(err, attachErr)
			continue
		}

		c.configs = append(c.configs, cfg)

		for _, key := range cfg.Keys() {
			if prev, exists := c.index[key]; exists && prev != cfg {
				c.logger.Debug("key provided by several configurations",
					zap.Stringer("key", key),
					zap.String("previous", prev.Name()),
					zap.String("current", cfg.Name()),
					zap.Stringer("policy", c.policy),
				)

				if c.policy == PolicyFirstMatch {
					continue
				}
			}

			c.index[key] = cfg
		}

		c.logger.Debug("configuration loaded",
			zap.String("configuration", cfg.Name()),
			zap.Int("keys", len(cfg.Keys())),
		)
	}

	return err
}

// Resolve returns the value bound to key by the winning configuration.
func (c *Container) Resolve(key Key) (any, error) {
	return c.ResolveContext(context.Background(), key)
}

// ResolveContext is Resolve with a context handed to middleware. A middleware
// rejection is reported as an INSTANTIATION_FAILURE like any other failure.
func (c *Container) ResolveContext(ctx context.Context, key Key) (any, error) {
	if err := c.middleware.beforeResolve(ctx, key); err != nil {
		return nil, ErrInstantiation("", key, err)
	}

	value, err := c.resolveInternal(key)

	if mwErr := c.middleware.afterResolve(ctx, key, value, err); mwErr != nil {
		return nil, ErrInstantiation("", key, mwErr)
	}

	return value, err
}

func (c *Container) resolveInternal(key Key) (any, error) {
	owner := c.owner(key)
	if owner == nil {
		return nil, ErrNoConfiguration(key)
	}

	value, err := owner.Resolve(key)
	if err != nil {
		c.logger.Warn("resolve failed",
			zap.Stringer("key", key),
			zap.String("configuration", owner.Name()),
			zap.Error(err),
		)

		return nil, err
	}

	return value, nil
}

// MustResolve resolves key or panics - use only during bootstrap.
func (c *Container) MustResolve(key Key) any {
	value, err := c.Resolve(key)
	if err != nil {
		panic(fmt.Sprintf("failed to resolve %s: %v", key, err))
	}

	return value
}

// Knows reports whether some loaded configuration provides key.
func (c *Container) Knows(key Key) bool {
	return c.owner(key) != nil
}

// Rig resolves a component by name.
func (c *Container) Rig(name string) (any, error) {
	return c.Resolve(Named(name))
}

// KnowsComponent reports whether a component named name can be rigged.
func (c *Container) KnowsComponent(name string) bool {
	return c.Knows(Named(name))
}

// Owner returns the configuration that resolves key under the current policy.
func (c *Container) Owner(key Key) (*Configuration, bool) {
	owner := c.owner(key)

	return owner, owner != nil
}

// Configurations returns the loaded configurations in load order.
func (c *Container) Configurations() []*Configuration {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return append([]*Configuration(nil), c.configs...)
}

// Policy returns the precedence policy.
func (c *Container) Policy() Policy {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.policy
}

// Logger returns the container logger.
func (c *Container) Logger() *zap.Logger {
	return c.logger
}

// Use adds middleware to the container.
// Middleware is called in the order they are added.
func (c *Container) Use(middleware Middleware) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.middleware.add(middleware)
}

func (c *Container) owner(key Key) *Configuration {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.policy == PolicyLastRegistered {
		return c.index[key]
	}

	for _, cfg := range c.configs {
		if cfg.Knows(key) {
			return cfg
		}
	}

	return nil
}
