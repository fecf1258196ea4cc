// Package rig is a small inversion-of-control container with explicit wiring.
//
// A Definition, built once with Define, binds keys to providers: constructors
// called with an ordered list of arguments, pre-built values, or named
// components. Definition.New creates a Configuration holding private state and
// a cache for single-scoped values. A Container composes configurations and
// resolves a key through the one its Policy designates.
//
//	var Housing = rig.Define("housing").
//	    Bind(rig.KeyOf[*House](), NewHouse, rig.Inject[*Door](), rig.Inject[*Window]()).
//	    Bind(rig.KeyOf[*Door](), NewDoor).
//	    Bind(rig.KeyOf[*Window](), NewWindow).
//	    MustBuild()
//
//	c, err := rig.Compose([]*rig.Configuration{Housing.New(nil)})
//	house, err := rig.ResolveType[*House](c)
package rig
