package rig

import (
	"go.uber.org/multierr"
)

// DependencyGraph records which keys each binding passes to its constructor.
// Only key arguments appear; literal arguments have no edge.
type DependencyGraph struct {
	nodes map[Key]*node
	order []Key // Preserve registration order
}

type node struct {
	key          Key
	dependencies []Key
}

// NewDependencyGraph creates a new dependency graph.
func NewDependencyGraph() *DependencyGraph {
	return &DependencyGraph{
		nodes: make(map[Key]*node),
		order: make([]Key, 0),
	}
}

// AddNode adds a node with its dependencies. Adding a key twice replaces its
// dependencies and keeps its first position.
func (g *DependencyGraph) AddNode(key Key, dependencies []Key) {
	if _, exists := g.nodes[key]; !exists {
		g.order = append(g.order, key)
	}

	g.nodes[key] = &node{
		key:          key,
		dependencies: dependencies,
	}
}

// HasNode checks if a node exists in the graph.
func (g *DependencyGraph) HasNode(key Key) bool {
	_, ok := g.nodes[key]

	return ok
}

// Keys returns every node in registration order.
func (g *DependencyGraph) Keys() []Key {
	return append([]Key(nil), g.order...)
}

// GetDependencies returns the dependency keys of a node.
func (g *DependencyGraph) GetDependencies(key Key) []Key {
	if n, ok := g.nodes[key]; ok {
		return n.dependencies
	}

	return nil
}

// GetDependents returns the nodes that depend on key, in registration order.
func (g *DependencyGraph) GetDependents(key Key) []Key {
	var dependents []Key

	for _, k := range g.order {
		for _, dep := range g.nodes[k].dependencies {
			if dep == key {
				dependents = append(dependents, k)

				break
			}
		}
	}

	return dependents
}

// Missing returns one error per dependency for which known returns false.
// The errors are combined with multierr.
func (g *DependencyGraph) Missing(known func(Key) bool) error {
	var err error

	for _, k := range g.order {
		for _, dep := range g.nodes[k].dependencies {
			if !known(dep) {
				err = multierr.Append(err, ErrMissingDependency(k, dep))
			}
		}
	}

	return err
}

// Graph builds the dependency graph of the bindings that win under the
// container's policy.
func (c *Container) Graph() *DependencyGraph {
	g := NewDependencyGraph()

	for _, cfg := range c.Configurations() {
		for _, key := range cfg.Keys() {
			if c.owner(key) != cfg {
				continue
			}

			g.AddNode(key, cfg.def.Dependencies(key))
		}
	}

	return g
}

// Validate reports every argument key that no loaded configuration provides,
// without constructing anything. Component bodies are opaque and not checked.
func (c *Container) Validate() error {
	return c.Graph().Missing(c.Knows)
}
