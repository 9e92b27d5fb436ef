package archecs

import "sync"

// Universe is a thin named registry of Worlds. It is not part of the
// storage/query contract this package exists to implement — lifecycle
// glue, scheduling, and serialization are external collaborators per the
// module's scope — but a minimal convenience for callers who run more than
// one World (e.g. one per level, or a client/server pair) is small enough
// to carry.
type Universe struct {
	mu     sync.RWMutex
	worlds map[string]*World
}

// NewUniverse returns an empty Universe.
func NewUniverse() *Universe {
	return &Universe{worlds: make(map[string]*World)}
}

// NewWorld creates, registers, and returns a new World under name.
func (u *Universe) NewWorld(name string) *World {
	u.mu.Lock()
	defer u.mu.Unlock()
	w := NewWorld(name)
	u.worlds[name] = w
	return w
}

// World returns the world registered under name, if any.
func (u *Universe) World(name string) (*World, bool) {
	u.mu.RLock()
	defer u.mu.RUnlock()
	w, ok := u.worlds[name]
	return w, ok
}

// RemoveWorld unregisters the world under name.
func (u *Universe) RemoveWorld(name string) {
	u.mu.Lock()
	defer u.mu.Unlock()
	delete(u.worlds, name)
}
