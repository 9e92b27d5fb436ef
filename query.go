package archecs

import (
	"context"
	"iter"
	"runtime"
	"strconv"

	"golang.org/x/sync/errgroup"
)

const defaultQueryCacheCapacity = 4096

// Query composes a View with a Filter and iterates the chunks of a World
// that match both: the view's own implied component-presence requirements,
// ANDed with whatever extra filters the caller supplied (value filters,
// change filters, Not/And/Or combinators).
type Query struct {
	view      *View
	filter    Filter
	archCache *SimpleCache[bool]
}

// NewQuery builds a Query from view, combining view.DefaultFilter() with
// any extra filters via logical AND.
func NewQuery(view *View, extra ...Filter) (*Query, error) {
	if view == nil {
		return nil, &InvalidViewError{Reason: "view must not be nil"}
	}
	f := view.DefaultFilter()
	if len(extra) > 0 {
		f = And(append([]Filter{f}, extra...)...)
	}
	return &Query{
		view:      view,
		filter:    f,
		archCache: NewSimpleCache[bool](defaultQueryCacheCapacity),
	}, nil
}

// View returns the view this query was built from.
func (q *Query) View() *View { return q.view }

func (q *Query) matchesArchetype(a *Archetype) bool {
	key := strconv.Itoa(int(a.id))
	if idx, ok := q.archCache.GetIndex(key); ok {
		return *q.archCache.GetItem(idx)
	}
	m := q.filter.FilterArchetype(a)
	// A full cache degrades to re-evaluating the filter every time rather
	// than failing the query; archetype counts this large are pathological.
	if _, err := q.archCache.Register(key, m); err != nil {
		return m
	}
	return m
}

// IterChunks lazily yields every chunk set's non-empty chunk that matches
// this query, across every archetype in w, following the
// "Scanning archetypes" / "Scanning chunks(a)" state machine: advance to
// the next archetype only once every chunk of the current one has been
// visited.
func (q *Query) IterChunks(w *World) iter.Seq[*ChunkView] {
	return func(yield func(*ChunkView) bool) {
		w.lock()
		defer w.unlock()
		for _, a := range w.archetypes {
			if !q.matchesArchetype(a) {
				continue
			}
			for _, cs := range a.chunkSets {
				for _, c := range cs.chunks {
					if c.IsEmpty() {
						continue
					}
					if !q.filter.FilterChunk(c) {
						continue
					}
					if !yield(&ChunkView{chunk: c, view: q.view}) {
						return
					}
				}
			}
		}
	}
}

// Iter lazily yields one EntityRow per live entity across every matching
// chunk, in chunk-then-row order.
func (q *Query) Iter(w *World) iter.Seq[EntityRow] {
	return func(yield func(EntityRow) bool) {
		for cv := range q.IterChunks(w) {
			for i, e := range cv.Entities() {
				if !yield(EntityRow{Entity: e, Row: i, View: cv}) {
					return
				}
			}
		}
	}
}

// IterEntities lazily yields just the Entity handles matched by this query.
func (q *Query) IterEntities(w *World) iter.Seq[Entity] {
	return func(yield func(Entity) bool) {
		for er := range q.Iter(w) {
			if !yield(er.Entity) {
				return
			}
		}
	}
}

// ForEach visits every matched entity in order, stopping at the first
// error fn returns.
func (q *Query) ForEach(w *World, fn func(EntityRow) error) error {
	for er := range q.Iter(w) {
		if err := fn(er); err != nil {
			return err
		}
	}
	return nil
}

// ParForEach partitions matched chunks across a pool of workers bounded by
// GOMAXPROCS (golang.org/x/sync/errgroup), one worker per chunk. There is
// no ordering guarantee across chunks; within a chunk, rows are visited in
// order. The first error returned by any worker cancels the rest and is
// returned to the caller.
func (q *Query) ParForEach(w *World, fn func(EntityRow) error) error {
	w.lock()
	defer w.unlock()

	var views []*ChunkView
	for _, a := range w.archetypes {
		if !q.matchesArchetype(a) {
			continue
		}
		for _, cs := range a.chunkSets {
			for _, c := range cs.chunks {
				if c.IsEmpty() || !q.filter.FilterChunk(c) {
					continue
				}
				views = append(views, &ChunkView{chunk: c, view: q.view})
			}
		}
	}

	g, ctx := errgroup.WithContext(context.Background())
	g.SetLimit(runtime.GOMAXPROCS(0))
	for _, cv := range views {
		cv := cv
		g.Go(func() error {
			for i, e := range cv.Entities() {
				select {
				case <-ctx.Done():
					return ctx.Err()
				default:
				}
				if err := fn(EntityRow{Entity: e, Row: i, View: cv}); err != nil {
					return err
				}
			}
			return nil
		})
	}
	return g.Wait()
}
