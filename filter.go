package archecs

import "sync"

// Filter decides which archetypes and, within a matching archetype, which
// chunks a Query visits. FilterArchetype is checked once per archetype;
// FilterChunk is checked once per chunk within archetypes that pass.
// Implementations that only care about archetype-level shape can leave
// FilterChunk returning true unconditionally.
type Filter interface {
	FilterArchetype(a *Archetype) bool
	FilterChunk(c *Chunk) bool
}

// Passthrough matches every archetype and every chunk.
type Passthrough struct{}

func (Passthrough) FilterArchetype(*Archetype) bool { return true }
func (Passthrough) FilterChunk(*Chunk) bool          { return true }

// EntityDataFilter matches archetypes (and their chunks) that carry the
// given entity-data component type.
type EntityDataFilter struct{ ID ComponentTypeID }

func (f EntityDataFilter) FilterArchetype(a *Archetype) bool { return a.HasComponent(f.ID) }
func (f EntityDataFilter) FilterChunk(c *Chunk) bool          { return c.HasComponent(f.ID) }

// SharedDataFilter matches archetypes (and their chunks) that carry the
// given shared-data component type, regardless of its value.
type SharedDataFilter struct{ ID ComponentTypeID }

func (f SharedDataFilter) FilterArchetype(a *Archetype) bool { return a.HasShared(f.ID) }
func (f SharedDataFilter) FilterChunk(c *Chunk) bool          { return c.HasShared(f.ID) }

// SharedDataValueFilter matches only the chunks whose shared-data value for
// ID equals Value (compared with ==, since shared components are
// constrained to comparable types).
type SharedDataValueFilter struct {
	ID    ComponentTypeID
	Value any
}

func (f SharedDataValueFilter) FilterArchetype(a *Archetype) bool { return a.HasShared(f.ID) }

func (f SharedDataValueFilter) FilterChunk(c *Chunk) bool {
	v, ok := c.sharedValue(f.ID)
	if !ok {
		return false
	}
	return v == f.Value
}

// EntityDataChangedFilter matches chunks whose column for ID has a change
// version newer than the last one this filter instance observed for that
// specific chunk. Stateful and safe for concurrent use: the observed-version
// map is guarded by a mutex, held only long enough to read-then-update one
// entry, rather than reaching for a concurrent map type.
type EntityDataChangedFilter struct {
	ID ComponentTypeID

	mu       sync.Mutex
	observed map[ChunkID]uint64
}

// NewEntityDataChangedFilter returns a filter tracking changes to
// entity-data component id, with no chunks observed yet (so every matching
// chunk passes on first use).
func NewEntityDataChangedFilter(id ComponentTypeID) *EntityDataChangedFilter {
	return &EntityDataChangedFilter{ID: id, observed: make(map[ChunkID]uint64)}
}

func (f *EntityDataChangedFilter) FilterArchetype(a *Archetype) bool {
	return a.HasComponent(f.ID)
}

func (f *EntityDataChangedFilter) FilterChunk(c *Chunk) bool {
	version, ok := c.EntityDataVersion(f.ID)
	if !ok {
		return false
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	last, seen := f.observed[c.id]
	f.observed[c.id] = version
	return !seen || version != last
}

// notFilter negates a child filter at both archetype and chunk granularity.
type notFilter struct{ child Filter }

// Not negates f: matches archetypes/chunks f itself does not match.
func Not(f Filter) Filter { return notFilter{child: f} }

func (n notFilter) FilterArchetype(a *Archetype) bool { return !n.child.FilterArchetype(a) }
func (n notFilter) FilterChunk(c *Chunk) bool          { return !n.child.FilterChunk(c) }

// andFilter requires every child filter to match.
type andFilter struct{ children []Filter }

// And combines filters with logical AND.
func And(filters ...Filter) Filter { return andFilter{children: filters} }

func (a andFilter) FilterArchetype(arch *Archetype) bool {
	for _, f := range a.children {
		if !f.FilterArchetype(arch) {
			return false
		}
	}
	return true
}

func (a andFilter) FilterChunk(c *Chunk) bool {
	for _, f := range a.children {
		if !f.FilterChunk(c) {
			return false
		}
	}
	return true
}

// orFilter requires at least one child filter to match.
type orFilter struct{ children []Filter }

// Or combines filters with logical OR.
func Or(filters ...Filter) Filter { return orFilter{children: filters} }

func (o orFilter) FilterArchetype(arch *Archetype) bool {
	for _, f := range o.children {
		if f.FilterArchetype(arch) {
			return true
		}
	}
	return false
}

func (o orFilter) FilterChunk(c *Chunk) bool {
	for _, f := range o.children {
		if f.FilterChunk(c) {
			return true
		}
	}
	return false
}
