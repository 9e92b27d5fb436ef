package archecs

import "go.uber.org/zap"

// Config holds process-wide, injectable configuration for the store: a
// handful of hooks and knobs, never hardwired behavior.
var Config config = config{
	logger:             zap.NewNop(),
	chunkCapacityBytes: 16 * 1024,
}

type config struct {
	logger             *zap.Logger
	chunkCapacityBytes int
	onArchetypeCreated func(*Archetype)
	onChunkCreated     func(*Chunk)
}

// SetLogger installs the structured logger that worlds use to log archetype
// creation at debug level. A World copies the logger current when NewWorld
// is called. Chunk creation and borrow conflicts are not logged. Defaults
// to a no-op logger so the module stays silent until a caller opts in.
func (c *config) SetLogger(l *zap.Logger) {
	if l == nil {
		l = zap.NewNop()
	}
	c.logger = l
}

// Logger returns the currently configured logger.
func (c *config) Logger() *zap.Logger {
	return c.logger
}

// SetChunkCapacityBytes sets the target byte budget used to size the
// entity capacity of chunks in archetypes created afterwards. Existing
// archetypes keep the row capacity they were created with, for new chunks
// as well as old ones.
func (c *config) SetChunkCapacityBytes(n int) {
	if n <= 0 {
		return
	}
	c.chunkCapacityBytes = n
}

// ChunkCapacityBytes returns the configured chunk byte budget.
func (c *config) ChunkCapacityBytes() int {
	return c.chunkCapacityBytes
}

// SetOnArchetypeCreated installs a hook invoked whenever a new Archetype is
// created by the world.
func (c *config) SetOnArchetypeCreated(fn func(*Archetype)) {
	c.onArchetypeCreated = fn
}

// SetOnChunkCreated installs a hook invoked whenever a new Chunk is
// allocated within a chunk set.
func (c *config) SetOnChunkCreated(fn func(*Chunk)) {
	c.onChunkCreated = fn
}
