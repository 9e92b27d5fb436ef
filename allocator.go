package archecs

// slot is one row of the allocator's dense slot vector: either a live
// entity's location, or a dead slot awaiting reuse.
type slot struct {
	version uint32
	alive   bool
	loc     Location
}

// EntityAllocator hands out versioned Entity handles and tracks, for each
// allocator-index slot, whether the current occupant is alive and where its
// data lives. Freed slots are recycled via a free-list with the version
// bumped, so a stale handle from before the free is detectably different
// from any handle minted after it (invariant: IsAlive is false for a stale
// entity, never an error).
type EntityAllocator struct {
	slots []slot
	free  []uint32
}

// NewEntityAllocator returns an empty allocator.
func NewEntityAllocator() *EntityAllocator {
	return &EntityAllocator{}
}

// Create mints a fresh Entity handle with no location yet assigned; callers
// set one with SetLocation once they know where the row landed.
func (a *EntityAllocator) Create() Entity {
	if n := len(a.free); n > 0 {
		idx := a.free[n-1]
		a.free = a.free[:n-1]
		s := &a.slots[idx]
		s.alive = true
		return Entity{Index: idx, Version: s.version}
	}
	idx := uint32(len(a.slots))
	a.slots = append(a.slots, slot{version: 1, alive: true})
	return Entity{Index: idx, Version: 1}
}

// IsAlive reports whether e still refers to a live row: its index is in
// range, its slot is alive, and the version matches.
func (a *EntityAllocator) IsAlive(e Entity) bool {
	if int(e.Index) >= len(a.slots) {
		return false
	}
	s := &a.slots[e.Index]
	return s.alive && s.version == e.Version
}

// Free retires e's slot, bumping its version and returning it to the
// free-list. Reports false if e was already stale.
func (a *EntityAllocator) Free(e Entity) bool {
	if !a.IsAlive(e) {
		return false
	}
	s := &a.slots[e.Index]
	s.alive = false
	s.version++
	s.loc = Location{}
	a.free = append(a.free, e.Index)
	return true
}

// Location returns the stored Location for a live entity.
func (a *EntityAllocator) Location(e Entity) (Location, bool) {
	if !a.IsAlive(e) {
		return Location{}, false
	}
	return a.slots[e.Index].loc, true
}

// SetLocation updates the stored Location for a live entity. No-op (false)
// if e is stale.
func (a *EntityAllocator) SetLocation(e Entity, loc Location) bool {
	if !a.IsAlive(e) {
		return false
	}
	a.slots[e.Index].loc = loc
	return true
}

// Len returns the number of allocator slots ever created (live + dead).
func (a *EntityAllocator) Len() int { return len(a.slots) }
