/*
Package archecs is an archetype-based storage and query engine for
entity-component data. It keeps entities with the same set of component
types packed together in cache-friendly chunks, and offers composable
views, filters and queries for iterating over them safely and quickly.

Core Concepts:

  - Entity: a versioned handle to one row of data.
  - ComponentType: a registered Go type, either entity-data (one value per
    entity) or shared-data (one value per chunk set).
  - Archetype: every entity sharing the same unordered set of entity-data
    and shared-data component types.
  - Chunk: a fixed-capacity, struct-of-arrays block of rows within an
    archetype's chunk set.
  - View: a declared set of Read/Write/SharedRef accesses a query intends
    to perform.
  - Filter: a predicate over archetypes and chunks, composed with
    And/Or/Not.

Basic Usage:

	w := archecs.NewWorld("game")

	position := archecs.ComponentTypeFor[Position]()
	velocity := archecs.ComponentTypeFor[Velocity]()

	entities, _ := w.Insert(nil,
		archecs.Row{{Type: position, Value: Position{}}, {Type: velocity, Value: Velocity{X: 1}}},
	)

	view, _ := archecs.NewView(archecs.Write[Position](), archecs.Read[Velocity]())
	query, _ := archecs.NewQuery(view)

	err := query.ForEach(w, func(er archecs.EntityRow) error {
		pos, err := archecs.ChunkViewDataMut[Position](er.View, position.ID())
		if err != nil {
			return err
		}
		vel, err := archecs.ChunkViewData[Velocity](er.View, velocity.ID())
		if err != nil {
			return err
		}
		p := pos.Get(er.Row)
		v := vel.Get(er.Row)
		p.X += v.X
		pos.Set(er.Row, p)
		pos.Release()
		vel.Release()
		return nil
	})
	_ = err
	_ = entities
*/
package archecs
