package archecs

// SimpleCache is a capacity-bounded, string-keyed append-only cache. Query
// uses one internally to memoize which archetypes match a given Filter, so
// repeated iterations over a stable set of archetypes skip re-evaluating
// the filter tree.
type SimpleCache[T any] struct {
	items       []T
	itemIndices map[string]int
	maxCapacity int
}

// NewSimpleCache returns an empty cache that rejects inserts once it holds
// maxCapacity items.
func NewSimpleCache[T any](maxCapacity int) *SimpleCache[T] {
	return &SimpleCache[T]{
		itemIndices: make(map[string]int),
		maxCapacity: maxCapacity,
	}
}

var _ Cache[any] = &SimpleCache[any]{}

// GetIndex returns the index a key was registered under, if present.
func (c *SimpleCache[T]) GetIndex(key string) (int, bool) {
	index, ok := c.itemIndices[key]
	return index, ok
}

// GetItem returns a pointer to the item at index.
func (c *SimpleCache[T]) GetItem(index int) *T {
	item := &c.items[index]
	return item
}

// GetItem32 returns a pointer to the item at index.
func (c *SimpleCache[T]) GetItem32(index uint32) *T {
	item := &c.items[index]
	return item
}

// Register inserts item under key, returning its index, or
// *CapacityExceededError if the cache is already full.
func (c *SimpleCache[T]) Register(key string, item T) (int, error) {
	if len(c.itemIndices) >= c.maxCapacity {
		return -1, &CapacityExceededError{Capacity: c.maxCapacity}
	}

	idx := len(c.items)
	c.itemIndices[key] = idx
	c.items = append(c.items, item)

	return idx, nil
}

// Clear empties the cache back to its initial state.
func (c *SimpleCache[T]) Clear() {
	c.items = make([]T, 0, c.maxCapacity)
	c.itemIndices = make(map[string]int)
}

// Locate returns key's CacheLocation, pairing the key back up with the
// numeric index it was registered under. Reports false if key is absent.
func (c *SimpleCache[T]) Locate(key string) (CacheLocation, bool) {
	index, ok := c.itemIndices[key]
	if !ok {
		return CacheLocation{}, false
	}
	return CacheLocation{Key: key, Index: uint32(index)}, true
}

// Locations returns every key currently registered in the cache, paired with
// its CacheLocation, in no particular order.
func (c *SimpleCache[T]) Locations() []CacheLocation {
	out := make([]CacheLocation, 0, len(c.itemIndices))
	for key, index := range c.itemIndices {
		out = append(out, CacheLocation{Key: key, Index: uint32(index)})
	}
	return out
}
