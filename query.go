package rig

// BindingInfo contains diagnostic information about one bound key.
type BindingInfo struct {
	Key           Key
	Kind          EntryKind
	Scope         Scope
	Configuration string
	// Active is true when this configuration wins the key under the policy.
	Active       bool
	Cached       bool
	Dependencies []Key
	Metadata     map[string]string
}

// Bindings returns every binding of every loaded configuration, in load
// order then declaration order. Shadowed bindings are included with Active
// set to false.
func (c *Container) Bindings() []BindingInfo {
	var infos []BindingInfo

	for _, cfg := range c.Configurations() {
		for i := range cfg.def.entries {
			e := &cfg.def.entries[i]

			metadata := make(map[string]string, len(e.metadata))
			for k, v := range e.metadata {
				metadata[k] = v
			}

			infos = append(infos, BindingInfo{
				Key:           e.key,
				Kind:          e.kind,
				Scope:         e.scope,
				Configuration: cfg.Name(),
				Active:        c.owner(e.key) == cfg,
				Cached:        cfg.Cached(e.key),
				Dependencies:  dependenciesOf(e.provider),
				Metadata:      metadata,
			})
		}
	}

	return infos
}

// BindingQuery defines criteria for querying bindings.
type BindingQuery struct {
	// Scope filters by scope. Empty matches all.
	Scope Scope

	// Kind filters by entry kind. nil matches all.
	Kind *EntryKind

	// Configuration filters by configuration name. Empty matches all.
	Configuration string

	// Metadata filters by metadata key-value pairs; all must match.
	Metadata map[string]string

	// Active filters by whether the binding wins its key. nil matches all.
	Active *bool
}

// Query returns the bindings matching the query criteria.
//
// Example:
//
//	active := true
//	singles := rig.Query(c, rig.BindingQuery{Scope: rig.ScopeSingle, Active: &active})
func Query(c *Container, query BindingQuery) []BindingInfo {
	var results []BindingInfo

	for _, info := range c.Bindings() {
		if query.Scope != "" && info.Scope != query.Scope {
			continue
		}

		if query.Kind != nil && info.Kind != *query.Kind {
			continue
		}

		if query.Configuration != "" && info.Configuration != query.Configuration {
			continue
		}

		if query.Active != nil && info.Active != *query.Active {
			continue
		}

		if !matchMetadata(info.Metadata, query.Metadata) {
			continue
		}

		results = append(results, info)
	}

	return results
}

// FindComponents returns the active components, in load order.
func FindComponents(c *Container) []BindingInfo {
	kind := KindComponent
	active := true

	return Query(c, BindingQuery{Kind: &kind, Active: &active})
}

// FindCached returns the single-scoped bindings already constructed.
func FindCached(c *Container) []BindingInfo {
	var results []BindingInfo

	for _, info := range c.Bindings() {
		if info.Cached {
			results = append(results, info)
		}
	}

	return results
}

func matchMetadata(have, want map[string]string) bool {
	for key, value := range want {
		if have[key] != value {
			return false
		}
	}

	return true
}
