package archecs

import "testing"

func newTestChunk(t *testing.T, capacity int) *Chunk {
	t.Helper()
	posType := ComponentTypeFor[Position]()
	velType := ComponentTypeFor[Velocity]()
	return newChunk([]ComponentType{posType, velType}, capacity, nil, nil)
}

func TestChunkPushAndRead(t *testing.T) {
	c := newTestChunk(t, 4)
	posType := ComponentTypeFor[Position]()
	velType := ComponentTypeFor[Velocity]()

	e := Entity{Index: 1, Version: 1}
	row, err := c.Push(e, map[ComponentTypeID]any{
		posType.id: Position{X: 1, Y: 2},
		velType.id: Velocity{X: 3, Y: 4},
	})
	if err != nil {
		t.Fatalf("Push: %v", err)
	}
	if row != 0 {
		t.Fatalf("expected row 0, got %d", row)
	}
	if c.Len() != 1 {
		t.Fatalf("expected length 1, got %d", c.Len())
	}

	slice, found, err := ChunkEntityData[Position](c, posType.id)
	if err != nil || !found {
		t.Fatalf("ChunkEntityData: found=%v err=%v", found, err)
	}
	defer slice.Release()
	if got := slice.Get(0); got != (Position{X: 1, Y: 2}) {
		t.Fatalf("Get(0) = %+v, want {1 2}", got)
	}
}

func TestChunkPushRejectsMissingValue(t *testing.T) {
	c := newTestChunk(t, 4)
	posType := ComponentTypeFor[Position]()

	e := Entity{Index: 1, Version: 1}
	_, err := c.Push(e, map[ComponentTypeID]any{posType.id: Position{}})
	if err == nil {
		t.Fatalf("expected error for missing velocity value")
	}
}

func TestChunkFullReportsError(t *testing.T) {
	c := newTestChunk(t, 1)
	posType := ComponentTypeFor[Position]()
	velType := ComponentTypeFor[Velocity]()
	values := map[ComponentTypeID]any{posType.id: Position{}, velType.id: Velocity{}}

	if _, err := c.Push(Entity{Index: 1, Version: 1}, values); err != nil {
		t.Fatalf("first push: %v", err)
	}
	if !c.IsFull() {
		t.Fatalf("chunk of capacity 1 should be full after one push")
	}
	if _, err := c.Push(Entity{Index: 2, Version: 1}, values); err == nil {
		t.Fatalf("expected ChunkFullError on second push")
	}
}

func TestChunkSwapRemoveUpdatesDisplacedEntityLocation(t *testing.T) {
	c := newTestChunk(t, 4)
	posType := ComponentTypeFor[Position]()
	velType := ComponentTypeFor[Velocity]()

	entities := []Entity{{Index: 1, Version: 1}, {Index: 2, Version: 1}, {Index: 3, Version: 1}}
	positions := []Position{{X: 1}, {X: 2}, {X: 3}}
	for i, e := range entities {
		_, err := c.Push(e, map[ComponentTypeID]any{
			posType.id: positions[i],
			velType.id: Velocity{},
		})
		if err != nil {
			t.Fatalf("push %d: %v", i, err)
		}
	}

	displaced, moved := c.SwapRemove(0)
	if !moved {
		t.Fatalf("expected a displaced entity when removing a non-last row")
	}
	if displaced != entities[2] {
		t.Fatalf("expected last entity %+v to be displaced into row 0, got %+v", entities[2], displaced)
	}
	if c.Len() != 2 {
		t.Fatalf("expected length 2 after remove, got %d", c.Len())
	}

	slice, found, err := ChunkEntityData[Position](c, posType.id)
	if err != nil || !found {
		t.Fatalf("ChunkEntityData: found=%v err=%v", found, err)
	}
	defer slice.Release()
	if got := slice.Get(0); got != positions[2] {
		t.Fatalf("row 0 after swap-remove = %+v, want %+v", got, positions[2])
	}
}

func TestChunkSwapRemoveLastRowHasNoDisplacement(t *testing.T) {
	c := newTestChunk(t, 4)
	posType := ComponentTypeFor[Position]()
	velType := ComponentTypeFor[Velocity]()
	e := Entity{Index: 1, Version: 1}
	c.Push(e, map[ComponentTypeID]any{posType.id: Position{}, velType.id: Velocity{}})

	_, moved := c.SwapRemove(0)
	if moved {
		t.Fatalf("removing the only row should report no displacement")
	}
	if c.Len() != 0 {
		t.Fatalf("expected empty chunk, got length %d", c.Len())
	}
}

func TestChunkPushBumpsEveryWrittenColumnVersion(t *testing.T) {
	c := newTestChunk(t, 4)
	posType := ComponentTypeFor[Position]()
	velType := ComponentTypeFor[Velocity]()

	pos0, _ := c.EntityDataVersion(posType.id)
	vel0, _ := c.EntityDataVersion(velType.id)

	if _, err := c.Push(Entity{Index: 1, Version: 1}, map[ComponentTypeID]any{posType.id: Position{}, velType.id: Velocity{}}); err != nil {
		t.Fatalf("Push: %v", err)
	}

	pos1, _ := c.EntityDataVersion(posType.id)
	vel1, _ := c.EntityDataVersion(velType.id)
	if pos1 == pos0 {
		t.Fatalf("Push must bump the position column version: before=%d after=%d", pos0, pos1)
	}
	if vel1 == vel0 {
		t.Fatalf("Push must bump the velocity column version: before=%d after=%d", vel0, vel1)
	}

	if _, err := c.Push(Entity{Index: 2, Version: 1}, map[ComponentTypeID]any{posType.id: Position{}, velType.id: Velocity{}}); err != nil {
		t.Fatalf("second Push: %v", err)
	}
	pos2, _ := c.EntityDataVersion(posType.id)
	if pos2 == pos1 {
		t.Fatalf("a second Push must bump the version again: v1=%d v2=%d", pos1, pos2)
	}
}

func TestChunkEntityDataVersionBumpsOnMutBorrowNotOnSharedBorrow(t *testing.T) {
	c := newTestChunk(t, 4)
	posType := ComponentTypeFor[Position]()
	velType := ComponentTypeFor[Velocity]()
	c.Push(Entity{Index: 1, Version: 1}, map[ComponentTypeID]any{posType.id: Position{}, velType.id: Velocity{}})

	v0, _ := c.EntityDataVersion(posType.id)

	readSlice, _, err := ChunkEntityData[Position](c, posType.id)
	if err != nil {
		t.Fatalf("shared borrow: %v", err)
	}
	readSlice.Release()

	v1, _ := c.EntityDataVersion(posType.id)
	if v1 != v0 {
		t.Fatalf("shared borrow must not bump version: v0=%d v1=%d", v0, v1)
	}

	mutSlice, _, err := ChunkEntityDataMut[Position](c, posType.id)
	if err != nil {
		t.Fatalf("exclusive borrow: %v", err)
	}
	mutSlice.Release()

	v2, _ := c.EntityDataVersion(posType.id)
	if v2 == v1 {
		t.Fatalf("exclusive borrow must bump version: v1=%d v2=%d", v1, v2)
	}
}
