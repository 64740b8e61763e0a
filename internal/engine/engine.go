package engine

import (
	"errors"

	"github.com/paulmach/orb"

	"github.com/mapsketch/mapsketch/internal/geo"
	"github.com/mapsketch/mapsketch/internal/model"
)

// Mode is the current draw mode of the surface. Add and Subtract are the
// freehand-drawing modes; Off is where dragging lives.
type Mode int

const (
	ModeOff Mode = iota
	ModeAdd
	ModeSubtract
)

func (m Mode) String() string {
	switch m {
	case ModeAdd:
		return "add"
	case ModeSubtract:
		return "subtract"
	default:
		return "off"
	}
}

var (
	// ErrDragActive is returned when a mode change or drag start arrives
	// while a drag session is already open.
	ErrDragActive = errors.New("drag session active")
	// ErrUnknownEntity is returned by StartDrag for an id that is not
	// registered.
	ErrUnknownEntity = errors.New("unknown entity")
	// ErrDraggingDisabled is returned by StartDrag when the settings
	// disable region dragging.
	ErrDraggingDisabled = errors.New("dragging disabled")
	// ErrWrongMode is returned by StartDrag outside mode Off.
	ErrWrongMode = errors.New("drag requires draw mode off")
)

// Engine is the set-algebra core for one drawing surface. It owns the
// registry, classifies every add/subtract/drag-release against the live
// set, and mutates the registry transactionally. All methods run
// synchronously on the surface's event path; the Engine is not safe for
// concurrent use and does not need to be.
type Engine struct {
	settings model.DrawSettings
	reg      *Registry
	prim     primitives

	mode Mode
	drag *dragSession
}

// New creates an engine with an empty registry. The factory produces the
// render handle for every region the engine registers.
func New(settings model.DrawSettings, factory HandleFactory) *Engine {
	return &Engine{
		settings: settings,
		reg:      NewRegistry(factory, settings.OptimizationLevel),
		prim:     libPrimitives{},
	}
}

// SetMode switches the draw mode. Rejected while a drag session is open.
func (e *Engine) SetMode(m Mode) error {
	if e.drag != nil {
		return ErrDragActive
	}
	e.mode = m
	return nil
}

// Mode returns the current draw mode.
func (e *Engine) Mode() Mode { return e.mode }

// Settings returns the configuration the engine was created with.
func (e *Engine) Settings() model.DrawSettings { return e.settings }

// SetSettings replaces the engine configuration. Rejected while a drag
// session is open so the modifier binding cannot change under it.
func (e *Engine) SetSettings(s model.DrawSettings) error {
	if e.drag != nil {
		return ErrDragActive
	}
	e.settings = s
	e.reg.optimizationLevel = s.OptimizationLevel
	return nil
}

// Dragging reports whether a drag session is open.
func (e *Engine) Dragging() bool { return e.drag != nil }

// Remove deletes a region. Unknown ids are treated as already gone.
func (e *Engine) Remove(id string) bool { return e.reg.Remove(id) }

// Get returns a copy of one region.
func (e *Engine) Get(id string) (Entity, bool) { return e.reg.Get(id) }

// All returns defensive copies of every live region.
func (e *Engine) All() []Entity { return e.reg.All() }

// Count returns the number of live regions.
func (e *Engine) Count() int { return e.reg.Count() }

// Clear removes every region. An open drag session is discarded.
func (e *Engine) Clear() {
	e.drag = nil
	e.reg.Clear()
}

// HitTest returns the id of the topmost region containing pt, or "".
func (e *Engine) HitTest(pt orb.Point) string { return e.reg.PointHit(pt) }

// affected is one existing entity an incoming geometry interacts with.
type affected struct {
	id   string
	geom geo.Geometry
	rel  Relation
}

// classifyAgainstAll classifies g against every live entity except skipID,
// in insertion order, returning only the interacting ones.
func (e *Engine) classifyAgainstAll(g geo.Geometry, skipID string) []affected {
	var out []affected
	for _, ent := range e.reg.All() {
		if ent.ID == skipID {
			continue
		}
		rel := classify(e.prim, g, ent.Geometry)
		if rel.Interacting() {
			out = append(out, affected{id: ent.ID, geom: ent.Geometry, rel: rel})
		}
	}
	return out
}
