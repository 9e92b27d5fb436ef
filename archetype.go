package archecs

import (
	"fmt"
	"sort"
	"strings"

	"github.com/TheBitDrifter/mask"
)

// formatSharedValue encodes one shared-data value into the chunk-set key.
// %#v gives a Go-syntax representation that differs whenever the value
// does, which is all a map key needs; it is not meant to be parsed back.
func formatSharedValue(id ComponentTypeID, v any) string {
	return fmt.Sprintf("%d=%#v", id, v)
}

type archetypeID uint32

// chunkSet groups every chunk sharing one concrete tuple of shared-data
// values within an archetype. key is the canonical, order-independent
// encoding of that tuple, used to find-or-create the set on insert.
type chunkSet struct {
	key          string
	sharedValues []any
	chunks       []*Chunk
}

// Archetype groups every entity with the same unordered set of entity-data
// component types and the same unordered set of shared-data component
// types, invariant 1 of the data model. Entities with the same entity-data
// types but differing shared-data values live in the same Archetype but
// different ChunkSets.
type Archetype struct {
	id          archetypeID
	entityTypes []ComponentType
	sharedTypes []ComponentType
	entityMask  mask.Mask
	sharedMask  mask.Mask
	chunkSets   []*chunkSet
	setIndex    map[string]int
	rowCapacity int
}

func newArchetype(id archetypeID, entityTypes, sharedTypes []ComponentType, bitOf func(ComponentTypeID) uint32) *Archetype {
	sortComponentTypes(entityTypes)
	sortComponentTypes(sharedTypes)

	a := &Archetype{
		id:          id,
		entityTypes: entityTypes,
		sharedTypes: sharedTypes,
		setIndex:    make(map[string]int),
	}
	for _, t := range entityTypes {
		a.entityMask.Mark(bitOf(t.id))
	}
	for _, t := range sharedTypes {
		a.sharedMask.Mark(bitOf(t.id))
	}
	a.rowCapacity = rowsPerChunk(entityTypes, Config.ChunkCapacityBytes())
	if Config.onArchetypeCreated != nil {
		Config.onArchetypeCreated(a)
	}
	return a
}

func sortComponentTypes(types []ComponentType) {
	sort.Slice(types, func(i, j int) bool { return types[i].id < types[j].id })
}

// rowsPerChunk sizes a chunk so its total column footprint stays within
// budget bytes, with a floor of 1 so even an oversized row still fits.
func rowsPerChunk(entityTypes []ComponentType, budget int) int {
	var rowSize uintptr
	for _, t := range entityTypes {
		rowSize += t.size
	}
	if rowSize == 0 {
		return 1024 // tag archetypes with no entity-data columns
	}
	n := budget / int(rowSize)
	if n < 1 {
		n = 1
	}
	return n
}

// ID returns this archetype's process-lifetime identifier.
func (a *Archetype) ID() archetypeID { return a.id }

// EntityTypes returns the canonical (id-sorted) entity-data component types.
func (a *Archetype) EntityTypes() []ComponentType { return a.entityTypes }

// SharedTypes returns the canonical (id-sorted) shared-data component types.
func (a *Archetype) SharedTypes() []ComponentType { return a.sharedTypes }

// HasComponent reports whether id names one of this archetype's entity-data
// types.
func (a *Archetype) HasComponent(id ComponentTypeID) bool {
	for _, t := range a.entityTypes {
		if t.id == id {
			return true
		}
	}
	return false
}

// HasShared reports whether id names one of this archetype's shared-data
// types.
func (a *Archetype) HasShared(id ComponentTypeID) bool {
	for _, t := range a.sharedTypes {
		if t.id == id {
			return true
		}
	}
	return false
}

// EntityMask returns the bitmask of this archetype's entity-data types.
func (a *Archetype) EntityMask() mask.Mask { return a.entityMask }

// SharedMask returns the bitmask of this archetype's shared-data types.
func (a *Archetype) SharedMask() mask.Mask { return a.sharedMask }

// ChunkSets returns every chunk set in this archetype, in creation order.
func (a *Archetype) ChunkSets() []*chunkSet { return a.chunkSets }

// sharedValuesKey canonically encodes a tuple of shared-data values, keyed
// by the shared type's stable id rather than positional order, so two
// callers supplying the same values in different slice order land in the
// same chunk set.
func sharedValuesKey(sharedTypes []ComponentType, values map[ComponentTypeID]any) string {
	var b strings.Builder
	for _, t := range sharedTypes {
		v := values[t.id]
		b.WriteString(formatSharedValue(t.id, v))
		b.WriteByte(';')
	}
	return b.String()
}

// findOrCreateChunkSet returns the chunk set for the given shared-data
// values, creating it if none exists yet. A new set holds no chunks;
// appendEntity allocates the first one.
func (a *Archetype) findOrCreateChunkSet(values map[ComponentTypeID]any) *chunkSet {
	key := sharedValuesKey(a.sharedTypes, values)
	if i, ok := a.setIndex[key]; ok {
		return a.chunkSets[i]
	}
	ordered := make([]any, len(a.sharedTypes))
	for i, t := range a.sharedTypes {
		ordered[i] = values[t.id]
	}
	cs := &chunkSet{key: key, sharedValues: ordered}
	a.setIndex[key] = len(a.chunkSets)
	a.chunkSets = append(a.chunkSets, cs)
	return cs
}

// appendEntity stores e's row in cs, allocating a new chunk if every
// existing chunk is full, and returns the row's location within a.
func (a *Archetype) appendEntity(cs *chunkSet, e Entity, values map[ComponentTypeID]any) (Location, error) {
	sharedIDs := make([]ComponentTypeID, len(a.sharedTypes))
	for i, t := range a.sharedTypes {
		sharedIDs[i] = t.id
	}

	var target *Chunk
	chunkIdx := -1
	for i, c := range cs.chunks {
		if !c.IsFull() {
			target = c
			chunkIdx = i
			break
		}
	}
	if target == nil {
		target = newChunk(a.entityTypes, a.rowCapacity, sharedIDs, cs.sharedValues)
		cs.chunks = append(cs.chunks, target)
		chunkIdx = len(cs.chunks) - 1
	}

	row, err := target.Push(e, values)
	if err != nil {
		return Location{}, err
	}

	setIdx := a.setIndex[cs.key]
	return Location{
		ArchetypeIdx: int(a.id),
		ChunkSetIdx:  setIdx,
		ChunkIdx:     chunkIdx,
		ComponentIdx: row,
	}, nil
}

// removeEntity removes the row at loc from its chunk via swap-remove and
// reports the entity that was moved into that row, if any.
func (a *Archetype) removeEntity(loc Location) (displaced Entity, moved bool) {
	cs := a.chunkSets[loc.ChunkSetIdx]
	c := cs.chunks[loc.ChunkIdx]
	return c.SwapRemove(loc.ComponentIdx)
}
