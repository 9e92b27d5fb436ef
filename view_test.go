package archecs

import "testing"

func TestNewViewRejectsDuplicateComponentTypes(t *testing.T) {
	_, err := NewView(Read[Position](), Write[Position]())
	if err == nil {
		t.Fatalf("expected *InvalidViewError for duplicate component type")
	}
	if _, ok := err.(*InvalidViewError); !ok {
		t.Fatalf("expected *InvalidViewError, got %T", err)
	}
}

func TestNewViewRejectsEmptyAndOversizedElementLists(t *testing.T) {
	if _, err := NewView(); err == nil {
		t.Fatalf("expected error for an empty view")
	}

	elems := []ViewElement{
		Read[Position](), Read[Velocity](), Read[Health](),
		SharedRef[Team](),
	}
	// Extra fills the fifth slot and a sixth element pushes past the
	// 5-element limit, which NewView checks before looking for duplicates.
	type Extra struct{ V int }
	elems = append(elems, Read[Extra]())
	elems = append(elems, Write[Extra]())
	if _, err := NewView(elems...); err == nil {
		t.Fatalf("expected error for a view with more than 5 elements")
	}
}

func TestViewReadsAndWrites(t *testing.T) {
	v, err := NewView(Write[Position](), Read[Velocity]())
	if err != nil {
		t.Fatalf("NewView: %v", err)
	}
	posType := ComponentTypeFor[Position]()
	velType := ComponentTypeFor[Velocity]()

	if !v.Reads(posType.id) {
		t.Fatalf("a Write element must also count as a read")
	}
	if !v.Writes(posType.id) {
		t.Fatalf("expected Writes(Position) to be true")
	}
	if v.Writes(velType.id) {
		t.Fatalf("a Read-only element must not report Writes")
	}
	if !v.Reads(velType.id) {
		t.Fatalf("expected Reads(Velocity) to be true")
	}
}

func TestViewDefaultFilterRequiresDeclaredTypes(t *testing.T) {
	posType := ComponentTypeFor[Position]()
	teamType := SharedComponentTypeFor[Team]()
	v, err := NewView(Read[Position](), SharedRef[Team]())
	if err != nil {
		t.Fatalf("NewView: %v", err)
	}

	bit := 0
	bitOf := func(ComponentTypeID) uint32 { b := bit; bit++; return uint32(b) }
	withBoth := newArchetype(0, []ComponentType{posType}, []ComponentType{teamType}, bitOf)
	withNeither := newArchetype(1, nil, nil, bitOf)

	f := v.DefaultFilter()
	if !f.FilterArchetype(withBoth) {
		t.Fatalf("archetype carrying both declared types should match")
	}
	if f.FilterArchetype(withNeither) {
		t.Fatalf("archetype carrying neither declared type should not match")
	}
}
