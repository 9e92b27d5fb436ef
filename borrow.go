package archecs

import (
	"sync/atomic"

	"github.com/TheBitDrifter/bark"
)

// borrowCell implements the runtime aliasing discipline for a single column:
// any number of concurrent shared borrows, or exactly one exclusive borrow,
// never both. Every successful borrowMut bumps version, which is how
// EntityDataChangedFilter detects a column touched since it was last seen.
//
// The zero value is a valid, unborrowed, version-0 cell.
type borrowCell struct {
	shared    int32 // atomic count of live shared borrows
	exclusive int32 // atomic 0/1 flag for a live exclusive borrow
	version   uint64
}

// borrow acquires a shared (read) borrow. release must be called exactly
// once to give the borrow back.
func (c *borrowCell) borrow() (release func(), err error) {
	if atomic.LoadInt32(&c.exclusive) != 0 {
		return nil, &BorrowConflictError{Reason: "column has a live exclusive borrow"}
	}
	atomic.AddInt32(&c.shared, 1)
	// Re-check after incrementing: an exclusive borrow may have started
	// concurrently between the load above and the increment.
	if atomic.LoadInt32(&c.exclusive) != 0 {
		atomic.AddInt32(&c.shared, -1)
		return nil, &BorrowConflictError{Reason: "column has a live exclusive borrow"}
	}
	var released int32
	return func() {
		if atomic.CompareAndSwapInt32(&released, 0, 1) {
			atomic.AddInt32(&c.shared, -1)
		}
	}, nil
}

// borrowMut acquires the exclusive (write) borrow. Bumps version on success,
// not on release, so an in-progress write is visible to change filters as
// soon as it starts.
func (c *borrowCell) borrowMut() (release func(), err error) {
	if !atomic.CompareAndSwapInt32(&c.exclusive, 0, 1) {
		return nil, &BorrowConflictError{Reason: "column already has a live exclusive borrow"}
	}
	if atomic.LoadInt32(&c.shared) != 0 {
		atomic.StoreInt32(&c.exclusive, 0)
		return nil, &BorrowConflictError{Reason: "column has live shared borrows"}
	}
	atomic.AddUint64(&c.version, 1)
	var released int32
	return func() {
		if atomic.CompareAndSwapInt32(&released, 0, 1) {
			atomic.StoreInt32(&c.exclusive, 0)
		}
	}, nil
}

// Version returns the column's current change version.
func (c *borrowCell) Version() uint64 {
	return atomic.LoadUint64(&c.version)
}

// bump unconditionally advances the change version by one, used by Push to
// mark freshly written rows as changed without going through a borrowMut.
func (c *borrowCell) bump() {
	atomic.AddUint64(&c.version, 1)
}

// mustBorrow panics via bark.AddTrace when a caller ignores a borrow
// conflict it had no business ignoring (programmer error, per spec: borrow
// conflicts are allowed to panic rather than thread an error return through
// every hot-path call site).
func mustBorrow(release func(), err error) func() {
	if err != nil {
		panic(bark.AddTrace(err))
	}
	return release
}

// SharedSlice is a released-on-demand read view over a column's live
// entities. Created by Chunk column accessors; callers must call Release
// when done.
type SharedSlice[T any] struct {
	data    []T
	release func()
}

// Get returns the element at row i.
func (s SharedSlice[T]) Get(i int) T { return s.data[i] }

// Len reports how many rows are visible.
func (s SharedSlice[T]) Len() int { return len(s.data) }

// Raw exposes the backing slice directly, valid only until Release.
func (s SharedSlice[T]) Raw() []T { return s.data }

// Release gives the borrow back. Safe to call multiple times.
func (s SharedSlice[T]) Release() {
	if s.release != nil {
		s.release()
	}
}

// ExclusiveSlice is a released-on-demand read/write view over a column's
// live entities.
type ExclusiveSlice[T any] struct {
	data    []T
	release func()
}

// Get returns the element at row i.
func (s ExclusiveSlice[T]) Get(i int) T { return s.data[i] }

// Set writes the element at row i.
func (s ExclusiveSlice[T]) Set(i int, v T) { s.data[i] = v }

// Len reports how many rows are visible.
func (s ExclusiveSlice[T]) Len() int { return len(s.data) }

// Raw exposes the backing slice directly, valid only until Release.
func (s ExclusiveSlice[T]) Raw() []T { return s.data }

// Release gives the borrow back. Safe to call multiple times.
func (s ExclusiveSlice[T]) Release() {
	if s.release != nil {
		s.release()
	}
}
