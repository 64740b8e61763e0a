// Package engine implements the polygon set-algebra core: the registry of
// live regions, the relationship classifier, the add/subtract executor, and
// the drag coordinator. The UI binding feeds it pointer events and a render
// handle factory; everything else is decided here.
package engine

import (
	"github.com/google/uuid"
	"github.com/paulmach/orb"

	"github.com/mapsketch/mapsketch/internal/geo"
)

// Handle is the minimal capability set the engine needs from a region's
// on-screen representation. The rendering layer owns the real thing.
type Handle interface {
	// Attach binds the handle to the rendering surface with the given
	// geometry.
	Attach(g geo.Geometry)
	// Detach removes the handle from the rendering surface.
	Detach()
	// Attached reports whether the handle is still live on the surface.
	Attached() bool
	// SetGeometry pushes a geometry change onto the existing handle
	// without re-creating it. Used only during drags.
	SetGeometry(g geo.Geometry)
}

// HandleFactory creates a render handle for a newly registered region.
// The optimization level is a rendering hint; the engine does not
// interpret it.
type HandleFactory func(g geo.Geometry, optimizationLevel int) Handle

// Entity is one live region: a stable id, its geometry, and its render
// handle. The id never changes while the entity lives; replacing geometry
// is always remove-then-add under a fresh id, which keeps registry and
// render state from ever being half-updated.
type Entity struct {
	ID                string
	Geometry          geo.Geometry
	Handle            Handle
	OptimizationLevel int
}

// Registry owns the authoritative id → region mapping for one drawing
// surface. It is a plain instance, created per surface and mutated only
// from the surface's event path, so it carries no locking.
type Registry struct {
	newHandle         HandleFactory
	optimizationLevel int

	entities map[string]*Entity
	order    []string // insertion order, drives deterministic iteration
}

// NewRegistry creates an empty registry. The factory is required; a nil
// factory registers entities with no render handle, which is only useful
// in tests.
func NewRegistry(factory HandleFactory, optimizationLevel int) *Registry {
	return &Registry{
		newHandle:         factory,
		optimizationLevel: optimizationLevel,
		entities:          make(map[string]*Entity),
	}
}

func newID() string {
	return uuid.New().String()[:8]
}

// Add registers g and returns the new ids. A multi-part geometry is split
// into one entity per disjoint part; a single polygon yields a single id.
// Empty geometry is a no-op.
func (r *Registry) Add(g geo.Geometry) []string {
	r.sweep()
	if g.IsZero() {
		return nil
	}
	ids := make([]string, 0, len(g.Parts()))
	for _, part := range g.Parts() {
		ids = append(ids, r.addOne(geo.FromPolygon(part)))
	}
	return ids
}

func (r *Registry) addOne(g geo.Geometry) string {
	e := &Entity{
		ID:                newID(),
		Geometry:          g,
		OptimizationLevel: r.optimizationLevel,
	}
	if r.newHandle != nil {
		e.Handle = r.newHandle(g, r.optimizationLevel)
		e.Handle.Attach(g)
	}
	r.entities[e.ID] = e
	r.order = append(r.order, e.ID)
	return e.ID
}

// Remove detaches the entity's render handle and deletes the entry.
// Unknown ids return false and change nothing; callers treat that as
// already-gone.
func (r *Registry) Remove(id string) bool {
	r.sweep()
	return r.remove(id)
}

func (r *Registry) remove(id string) bool {
	e, ok := r.entities[id]
	if !ok {
		return false
	}
	if e.Handle != nil {
		e.Handle.Detach()
	}
	delete(r.entities, id)
	for i, oid := range r.order {
		if oid == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return true
}

// Get returns a copy of the entity with the given id.
func (r *Registry) Get(id string) (Entity, bool) {
	e, ok := r.entities[id]
	if !ok {
		return Entity{}, false
	}
	return *e, true
}

// All returns copies of every live entity in insertion order. The copy is
// defensive: callers can trigger further mutations while holding it.
func (r *Registry) All() []Entity {
	out := make([]Entity, 0, len(r.order))
	for _, id := range r.order {
		if e, ok := r.entities[id]; ok {
			out = append(out, *e)
		}
	}
	return out
}

// Count returns the number of live entities.
func (r *Registry) Count() int {
	return len(r.entities)
}

// Clear removes every entity, detaching all handles.
func (r *Registry) Clear() {
	for _, id := range append([]string(nil), r.order...) {
		r.remove(id)
	}
}

// Translated pushes a translated geometry onto an entity's existing handle
// without touching the registry entry. Drag-move feedback only; the entry
// itself is finalized with remove+add at drag end.
func (r *Registry) Translated(id string, g geo.Geometry) {
	if e, ok := r.entities[id]; ok && e.Handle != nil {
		e.Handle.SetGeometry(g)
	}
}

// sweep purges entries whose render handle has been detached behind the
// registry's back. The render layer is outside this core's control; a
// failure there must not leave handle-less entries lying around.
func (r *Registry) sweep() {
	var stale []string
	for id, e := range r.entities {
		if e.Handle != nil && !e.Handle.Attached() {
			stale = append(stale, id)
		}
	}
	for _, id := range stale {
		delete(r.entities, id)
		for i, oid := range r.order {
			if oid == id {
				r.order = append(r.order[:i], r.order[i+1:]...)
				break
			}
		}
	}
}

// PointHit returns the id of the topmost (most recently added) entity whose
// interior contains pt, or "" when nothing is hit.
func (r *Registry) PointHit(pt orb.Point) string {
	for i := len(r.order) - 1; i >= 0; i-- {
		e, ok := r.entities[r.order[i]]
		if !ok {
			continue
		}
		if geo.PointIn(e.Geometry, pt) {
			return e.ID
		}
	}
	return ""
}
