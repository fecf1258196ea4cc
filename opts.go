package rig

import (
	"go.uber.org/zap"
)

// Option configures a Container.
type Option func(*Container)

// WithPolicy sets how duplicate keys across configurations are resolved.
func WithPolicy(policy Policy) Option {
	return func(c *Container) {
		c.policy = policy
	}
}

// WithLogger sets the container logger. Loaded configurations log through it.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Container) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithMiddleware adds resolve middleware, in order.
func WithMiddleware(middleware ...Middleware) Option {
	return func(c *Container) {
		for _, mw := range middleware {
			c.middleware.add(mw)
		}
	}
}

// EntryOption configures a single binding or component.
type EntryOption func(*entryOptions)

type entryOptions struct {
	scope    Scope
	scopeSet bool
	metadata map[string]string
}

// WithScope sets the caching scope of a binding or component.
func WithScope(scope Scope) EntryOption {
	return func(o *entryOptions) {
		o.scope = scope
		o.scopeSet = true
	}
}

// WithMetadata adds diagnostic metadata, reported by Container.Bindings.
func WithMetadata(key, value string) EntryOption {
	return func(o *entryOptions) {
		if o.metadata == nil {
			o.metadata = make(map[string]string)
		}
		o.metadata[key] = value
	}
}

// BuilderOption configures a Builder.
type BuilderOption func(*Builder)

// WithDefaultScope sets the scope of components declared without WithScope.
func WithDefaultScope(scope Scope) BuilderOption {
	return func(b *Builder) {
		b.defaultScope = scope
	}
}

// mergeEntryOptions applies opts over a default scope.
func mergeEntryOptions(def Scope, opts []EntryOption) entryOptions {
	merged := entryOptions{scope: def}
	for _, opt := range opts {
		if opt != nil {
			opt(&merged)
		}
	}

	return merged
}
