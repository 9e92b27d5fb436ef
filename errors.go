package archecs

import "fmt"

// InvalidViewError reports a malformed View: duplicate component types among
// its elements, or an element count outside the supported 1..=5 range.
type InvalidViewError struct {
	Reason string
}

func (e *InvalidViewError) Error() string {
	return fmt.Sprintf("archecs: invalid view: %s", e.Reason)
}

// BorrowConflictError reports a runtime aliasing violation: a shared borrow
// overlapping an exclusive one, or two overlapping exclusive borrows on the
// same column. Treated as a programmer error; call sites that cannot
// usefully recover from it are expected to let it panic via mustBorrow.
type BorrowConflictError struct {
	Reason string
}

func (e *BorrowConflictError) Error() string {
	return fmt.Sprintf("archecs: borrow conflict: %s", e.Reason)
}

// AccessNotDeclaredError reports a ChunkView.Data/DataMut call for a
// component not present in the owning View's read or write set.
type AccessNotDeclaredError struct {
	ComponentTypeID ComponentTypeID
}

func (e *AccessNotDeclaredError) Error() string {
	if ct, ok := lookupComponentType(e.ComponentTypeID); ok {
		return fmt.Sprintf("archecs: component type %s (id %d) not declared in view", ct.GoType(), e.ComponentTypeID)
	}
	return fmt.Sprintf("archecs: component type %d not declared in view", e.ComponentTypeID)
}

// SignatureMismatchError reports a heterogeneous insert batch: rows that do
// not all carry the same set of entity-data component types.
type SignatureMismatchError struct {
	Reason string
}

func (e *SignatureMismatchError) Error() string {
	return fmt.Sprintf("archecs: signature mismatch: %s", e.Reason)
}

// CapacityExceededError reports a SimpleCache insert past its configured
// maximum capacity.
type CapacityExceededError struct {
	Capacity int
}

func (e *CapacityExceededError) Error() string {
	return fmt.Sprintf("archecs: cache capacity %d exceeded", e.Capacity)
}

// UnknownComponentTypeError reports a ComponentTypeID with no matching
// column or shared value at the queried location — either never registered
// by this process's type registry, or simply absent from that chunk.
type UnknownComponentTypeError struct {
	ComponentTypeID ComponentTypeID
}

func (e *UnknownComponentTypeError) Error() string {
	if ct, ok := lookupComponentType(e.ComponentTypeID); ok {
		return fmt.Sprintf("archecs: component type %s (id %d) not found in this chunk", ct.GoType(), e.ComponentTypeID)
	}
	return fmt.Sprintf("archecs: unknown component type id %d", e.ComponentTypeID)
}

// ChunkFullError reports an attempted Push into a chunk already at capacity.
type ChunkFullError struct {
	Capacity int
}

func (e *ChunkFullError) Error() string {
	return fmt.Sprintf("archecs: chunk at capacity %d", e.Capacity)
}
