package archecs

import (
	"fmt"
	"sync/atomic"

	"github.com/TheBitDrifter/bark"
	"github.com/TheBitDrifter/mask"
	"go.uber.org/zap"
)

// maskStringer adapts a mask.Mask into fmt.Stringer for zap.Stringer fields,
// since mask.Mask itself carries no String method.
type maskStringer struct{ m mask.Mask }

func (s maskStringer) String() string { return fmt.Sprintf("%v", s.m) }

// archSignature is the mask-pair identity of an archetype: its entity-data
// mask and its shared-data mask. Both mask.Mask values are comparable, so
// this struct is usable directly as a map key, split into two masks because
// this store tracks entity-data and shared-data membership separately.
type archSignature struct {
	entity mask.Mask
	shared mask.Mask
}

// ComponentValue pairs a component type with the value a Row or SharedValue
// set supplies for it.
type ComponentValue struct {
	Type  ComponentType
	Value any
}

// Row is one entity's worth of entity-data component values, passed to
// World.Insert. Every row in a single Insert call must carry the same set
// of component types (invariant: archetype signature is fixed per batch).
type Row []ComponentValue

// pendingOp is a topology mutation deferred because it arrived while the
// world was locked for query iteration, generalized from a per-entity
// operation queue into arbitrary closures.
type pendingOp func(*World)

// World owns every archetype, chunk set, and chunk in a single ECS
// instance, plus the entity allocator that maps Entity handles to their
// current Location. Topology mutation (Insert, Delete) requires the caller
// to hold exclusive access and never run concurrently with query
// iteration. While a query iteration holds the world locked, Delete is
// deferred until the world is unlocked and Insert is rejected with
// *BorrowConflictError, so in-flight chunk scans are never corrupted.
type World struct {
	name       string
	allocator  *EntityAllocator
	archetypes []*Archetype
	sigIndex   map[archSignature]int
	bitIndex   map[ComponentTypeID]uint32
	nextBit    uint32
	locked     int32
	queue      []pendingOp
	logger     *zap.Logger
}

// NewWorld returns an empty world identified by name, used only in logging
// and diagnostics.
func NewWorld(name string) *World {
	return &World{
		name:      name,
		allocator: NewEntityAllocator(),
		sigIndex:  make(map[archSignature]int),
		bitIndex:  make(map[ComponentTypeID]uint32),
		logger:    Config.Logger(),
	}
}

// Name returns the world's diagnostic name.
func (w *World) Name() string { return w.name }

func (w *World) bitOf(id ComponentTypeID) uint32 {
	if b, ok := w.bitIndex[id]; ok {
		return b
	}
	b := w.nextBit
	w.nextBit++
	w.bitIndex[id] = b
	return b
}

func (w *World) maskOf(types []ComponentType) mask.Mask {
	var m mask.Mask
	for _, t := range types {
		m.Mark(w.bitOf(t.id))
	}
	return m
}

func (w *World) getOrCreateArchetype(entityTypes, sharedTypes []ComponentType) *Archetype {
	sig := archSignature{entity: w.maskOf(entityTypes), shared: w.maskOf(sharedTypes)}
	if i, ok := w.sigIndex[sig]; ok {
		return w.archetypes[i]
	}
	a := newArchetype(archetypeID(len(w.archetypes)), entityTypes, sharedTypes, w.bitOf)
	w.sigIndex[sig] = len(w.archetypes)
	w.archetypes = append(w.archetypes, a)
	w.logger.Debug("archetype created",
		zap.Uint32("id", uint32(a.id)),
		zap.Int("entity_types", len(entityTypes)),
		zap.Int("shared_types", len(sharedTypes)),
		zap.Stringer("entity_mask", maskStringer{a.EntityMask()}),
		zap.Stringer("shared_mask", maskStringer{a.SharedMask()}),
	)
	return a
}

// Archetypes returns every archetype the world has created so far, in
// creation order.
func (w *World) Archetypes() []*Archetype { return w.archetypes }

// Insert creates len(rows) new entities, all belonging to the archetype
// identified by the union of shared's types and rows[0]'s types, and all
// landing in the chunk set identified by shared's values. Every row must
// carry exactly the same set of component types as rows[0], or Insert
// returns a *SignatureMismatchError and creates nothing.
func (w *World) Insert(shared []ComponentValue, rows ...Row) ([]Entity, error) {
	if w.Locked() {
		return nil, &BorrowConflictError{Reason: "Insert called while world is locked for iteration"}
	}
	if len(rows) == 0 {
		return nil, nil
	}

	entityTypes := make([]ComponentType, len(rows[0]))
	wantIDs := make(map[ComponentTypeID]bool, len(rows[0]))
	for i, cv := range rows[0] {
		entityTypes[i] = cv.Type
		wantIDs[cv.Type.id] = true
	}
	for _, row := range rows[1:] {
		if len(row) != len(wantIDs) {
			return nil, &SignatureMismatchError{Reason: "rows do not all declare the same component types"}
		}
		for _, cv := range row {
			if !wantIDs[cv.Type.id] {
				return nil, &SignatureMismatchError{Reason: "rows do not all declare the same component types"}
			}
		}
	}

	sharedTypes := make([]ComponentType, len(shared))
	sharedValues := make(map[ComponentTypeID]any, len(shared))
	for i, sv := range shared {
		sharedTypes[i] = sv.Type
		sharedValues[sv.Type.id] = sv.Value
	}

	a := w.getOrCreateArchetype(entityTypes, sharedTypes)
	cs := a.findOrCreateChunkSet(sharedValues)

	entities := make([]Entity, 0, len(rows))
	for _, row := range rows {
		values := make(map[ComponentTypeID]any, len(row))
		for _, cv := range row {
			values[cv.Type.id] = cv.Value
		}
		e := w.allocator.Create()
		loc, err := a.appendEntity(cs, e, values)
		if err != nil {
			return entities, bark.AddTrace(err)
		}
		w.allocator.SetLocation(e, loc)
		entities = append(entities, e)
	}
	return entities, nil
}

// Delete removes an entity, swap-filling the hole it leaves in its chunk
// and updating the displaced entity's allocator Location to match.
// Reports false if e was already stale.
func (w *World) Delete(e Entity) bool {
	if w.Locked() {
		if !w.allocator.IsAlive(e) {
			return false
		}
		w.Enqueue(func(w *World) { w.Delete(e) })
		return true
	}
	loc, ok := w.allocator.Location(e)
	if !ok {
		return false
	}
	a := w.archetypes[loc.ArchetypeIdx]
	displaced, moved := a.removeEntity(loc)
	w.allocator.Free(e)
	if moved {
		w.allocator.SetLocation(displaced, loc)
	}
	return true
}

// IsAlive reports whether e still refers to a live entity.
func (w *World) IsAlive(e Entity) bool { return w.allocator.IsAlive(e) }

// Location returns e's current Location, or false if e is stale.
func (w *World) Location(e Entity) (Location, bool) { return w.allocator.Location(e) }

// Locked reports whether a query iteration currently holds the world
// locked against topology mutation.
func (w *World) Locked() bool { return atomic.LoadInt32(&w.locked) > 0 }

// lock marks the world locked for the duration of a query iteration.
// Re-entrant: nested iterations simply increment the count.
func (w *World) lock() { atomic.AddInt32(&w.locked, 1) }

// unlock releases one level of iteration locking; once fully unlocked, any
// mutations enqueued while locked are applied in submission order.
func (w *World) unlock() {
	if atomic.AddInt32(&w.locked, -1) > 0 {
		return
	}
	pending := w.queue
	w.queue = nil
	for _, op := range pending {
		op(w)
	}
}

// Enqueue defers fn until the world is next fully unlocked. Used internally
// by Delete when called mid-iteration; exposed so callers can defer their
// own topology mutations from inside a ForEach/ParForEach callback instead
// of having them rejected outright.
func (w *World) Enqueue(fn func(*World)) {
	w.queue = append(w.queue, fn)
}

// GetComponent returns a copy of entity e's value for entity-data component
// id, typed as T. Returns false if e is stale or does not carry id.
func GetComponent[T any](w *World, e Entity, id ComponentTypeID) (T, bool) {
	var zero T
	loc, ok := w.allocator.Location(e)
	if !ok {
		return zero, false
	}
	c := chunkAt(w, loc)
	if c == nil {
		return zero, false
	}
	s, found, err := ChunkEntityData[T](c, id)
	if err != nil || !found {
		return zero, false
	}
	defer s.Release()
	return s.Get(loc.ComponentIdx), true
}

// SetComponent overwrites entity e's value for entity-data component id.
// Returns false if e is stale or does not carry id.
func SetComponent[T any](w *World, e Entity, id ComponentTypeID, v T) bool {
	loc, ok := w.allocator.Location(e)
	if !ok {
		return false
	}
	c := chunkAt(w, loc)
	if c == nil {
		return false
	}
	s, found, err := ChunkEntityDataMut[T](c, id)
	if err != nil || !found {
		return false
	}
	defer s.Release()
	s.Set(loc.ComponentIdx, v)
	return true
}

// SharedComponent returns entity e's value for shared-data component id.
func SharedComponent[T any](w *World, e Entity, id ComponentTypeID) (T, bool) {
	var zero T
	loc, ok := w.allocator.Location(e)
	if !ok {
		return zero, false
	}
	c := chunkAt(w, loc)
	if c == nil {
		return zero, false
	}
	return ChunkSharedData[T](c, id)
}

func chunkAt(w *World, loc Location) *Chunk {
	if loc.ArchetypeIdx < 0 || loc.ArchetypeIdx >= len(w.archetypes) {
		return nil
	}
	a := w.archetypes[loc.ArchetypeIdx]
	if loc.ChunkSetIdx < 0 || loc.ChunkSetIdx >= len(a.chunkSets) {
		return nil
	}
	cs := a.chunkSets[loc.ChunkSetIdx]
	if loc.ChunkIdx < 0 || loc.ChunkIdx >= len(cs.chunks) {
		return nil
	}
	return cs.chunks[loc.ChunkIdx]
}
