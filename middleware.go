package rig

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Middleware provides hooks around Container.Resolve.
// Nested resolutions triggered by constructor arguments pass through it too.
type Middleware interface {
	// BeforeResolve is called before resolving a key.
	// Return error to abort resolution.
	BeforeResolve(ctx context.Context, key Key) error

	// AfterResolve is called after resolving a key.
	// Called even if resolution failed.
	AfterResolve(ctx context.Context, key Key, value any, err error) error
}

// middlewareChain manages multiple middleware.
type middlewareChain struct {
	middleware []Middleware
	mu         sync.RWMutex
}

func newMiddlewareChain() *middlewareChain {
	return &middlewareChain{
		middleware: make([]Middleware, 0),
	}
}

func (m *middlewareChain) add(middleware Middleware) {
	if middleware == nil {
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.middleware = append(m.middleware, middleware)
}

func (m *middlewareChain) snapshot() []Middleware {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.middleware[:len(m.middleware):len(m.middleware)]
}

func (m *middlewareChain) beforeResolve(ctx context.Context, key Key) error {
	for _, mw := range m.snapshot() {
		if err := mw.BeforeResolve(ctx, key); err != nil {
			return err
		}
	}
	return nil
}

func (m *middlewareChain) afterResolve(ctx context.Context, key Key, value any, err error) error {
	for _, mw := range m.snapshot() {
		if mwErr := mw.AfterResolve(ctx, key, value, err); mwErr != nil {
			return mwErr
		}
	}
	return nil
}

// FuncMiddleware wraps functions as Middleware.
type FuncMiddleware struct {
	BeforeResolveFunc func(ctx context.Context, key Key) error
	AfterResolveFunc  func(ctx context.Context, key Key, value any, err error) error
}

// BeforeResolve implements Middleware.
func (f *FuncMiddleware) BeforeResolve(ctx context.Context, key Key) error {
	if f.BeforeResolveFunc != nil {
		return f.BeforeResolveFunc(ctx, key)
	}
	return nil
}

// AfterResolve implements Middleware.
func (f *FuncMiddleware) AfterResolve(ctx context.Context, key Key, value any, err error) error {
	if f.AfterResolveFunc != nil {
		return f.AfterResolveFunc(ctx, key, value, err)
	}
	return nil
}

// loggingMiddleware logs every resolution with its duration.
type loggingMiddleware struct {
	logger *zap.Logger
	mu     sync.Mutex
	starts map[Key][]time.Time
}

// LoggingMiddleware logs each resolution at debug level, and failures at warn
// level.
func LoggingMiddleware(logger *zap.Logger) Middleware {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &loggingMiddleware{
		logger: logger,
		starts: make(map[Key][]time.Time),
	}
}

func (l *loggingMiddleware) BeforeResolve(_ context.Context, key Key) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.starts[key] = append(l.starts[key], time.Now())

	return nil
}

func (l *loggingMiddleware) AfterResolve(_ context.Context, key Key, value any, err error) error {
	elapsed := l.pop(key)

	if err != nil {
		l.logger.Warn("resolve failed",
			zap.Stringer("key", key),
			zap.Duration("elapsed", elapsed),
			zap.Error(err),
		)

		return nil
	}

	l.logger.Debug("resolved",
		zap.Stringer("key", key),
		zap.Duration("elapsed", elapsed),
		zap.String("type", typeOf(value)),
	)

	return nil
}

// pop returns the time since the innermost pending resolution of key.
func (l *loggingMiddleware) pop(key Key) time.Duration {
	l.mu.Lock()
	defer l.mu.Unlock()

	stack := l.starts[key]
	if len(stack) == 0 {
		return 0
	}

	start := stack[len(stack)-1]
	if len(stack) == 1 {
		delete(l.starts, key)
	} else {
		l.starts[key] = stack[:len(stack)-1]
	}

	return time.Since(start)
}
