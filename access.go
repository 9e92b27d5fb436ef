package archecs

// ChunkEntityData returns a shared (read-only) borrow of the full live
// column for component id in chunk c, typed as T. Returns false if the
// chunk has no such column, or a *BorrowConflictError if the column already
// has a live exclusive borrow.
func ChunkEntityData[T any](c *Chunk, id ComponentTypeID) (SharedSlice[T], bool, error) {
	col, ok := c.column(id)
	if !ok {
		return SharedSlice[T]{}, false, nil
	}
	release, err := col.cell.borrow()
	if err != nil {
		return SharedSlice[T]{}, true, err
	}
	return SharedSlice[T]{data: columnSlice[T](col, c.length), release: release}, true, nil
}

// ChunkEntityDataMut returns the exclusive (read/write) borrow of the full
// live column for component id in chunk c, typed as T. Acquiring it bumps
// the column's change version immediately, before any write actually
// happens, so EntityDataChangedFilter observes the attempt, not just
// completed writes.
func ChunkEntityDataMut[T any](c *Chunk, id ComponentTypeID) (ExclusiveSlice[T], bool, error) {
	col, ok := c.column(id)
	if !ok {
		return ExclusiveSlice[T]{}, false, nil
	}
	release, err := col.cell.borrowMut()
	if err != nil {
		return ExclusiveSlice[T]{}, true, err
	}
	return ExclusiveSlice[T]{data: columnSlice[T](col, c.length), release: release}, true, nil
}

// ChunkSharedData returns the shared-data value of type T for component id
// in chunk set that owns chunk c. Shared values are immutable for the
// lifetime of the chunk set, so no borrow bookkeeping is needed.
func ChunkSharedData[T any](c *Chunk, id ComponentTypeID) (T, bool) {
	var zero T
	v, ok := c.sharedValue(id)
	if !ok {
		return zero, false
	}
	return v.(T), true
}
