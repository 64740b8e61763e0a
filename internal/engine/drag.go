package engine

import (
	"github.com/paulmach/orb"

	"github.com/mapsketch/mapsketch/internal/geo"
)

// dragSession is the ephemeral state of one interactive move. Created on
// pointer-down, mutated on pointer-move, consumed on pointer-up. Never
// persisted.
type dragSession struct {
	subjectID string
	origin    geo.Geometry // snapshot at drag start, the rollback point
	current   geo.Geometry
	last      orb.Point
	modifier  bool
	preview   DragAction
}

// DragAction names what a drag finalization (or its live preview) did.
type DragAction int

const (
	// DragMoved: a pure translation, no peer interaction.
	DragMoved DragAction = iota
	// DragMerged: the dragged region was unioned with overlapping peers.
	DragMerged
	// DragHoleCut: a containing peer gained a hole; the dragged region
	// was consumed into it.
	DragHoleCut
	// DragSubtracted: the modifier was held; the dragged region was used
	// as a cutting tool and consumed.
	DragSubtracted
	// DragRolledBack: a primitive failed during finalization and the
	// pre-drag snapshot was restored.
	DragRolledBack
)

func (a DragAction) String() string {
	switch a {
	case DragMerged:
		return "merged"
	case DragHoleCut:
		return "hole-cut"
	case DragSubtracted:
		return "subtracted"
	case DragRolledBack:
		return "rolled-back"
	default:
		return "moved"
	}
}

// FinalizationResult is what EndDrag hands back to the UI binding: the
// action taken and the ids of every region created by it.
type FinalizationResult struct {
	Action DragAction
	IDs    []string
}

// StartDrag opens a drag session on a registered region. Only allowed in
// mode Off, with dragging enabled, and when no session is already open.
// The modifier flag is latched from the input-device state at pointer-down
// and re-sampled on every move.
func (e *Engine) StartDrag(id string, at orb.Point, modifier bool) error {
	if e.drag != nil {
		return ErrDragActive
	}
	if !e.settings.DraggingEnabled {
		return ErrDraggingDisabled
	}
	if e.mode != ModeOff {
		return ErrWrongMode
	}
	ent, ok := e.reg.Get(id)
	if !ok {
		return ErrUnknownEntity
	}
	e.drag = &dragSession{
		subjectID: id,
		origin:    ent.Geometry.Clone(),
		current:   ent.Geometry,
		last:      at,
		modifier:  modifier,
	}
	e.drag.preview = e.previewAction()
	return nil
}

// UpdateDrag translates the dragged geometry to follow the pointer and
// re-samples the modifier. Safe to call when no session is open (no-op).
// When the modifier flips mid-drag, the candidate operation is reclassified
// so the UI can adjust its transient feedback.
func (e *Engine) UpdateDrag(at orb.Point, modifier bool) {
	s := e.drag
	if s == nil {
		return
	}
	dx, dy := at[0]-s.last[0], at[1]-s.last[1]
	s.last = at
	s.current = geo.Translate(s.current, dx, dy)
	e.reg.Translated(s.subjectID, s.current)

	if modifier != s.modifier {
		s.modifier = modifier
		s.preview = e.previewAction()
	}
}

// DragPreview returns the action the drag would finalize as right now.
// Meaningful only while a session is open.
func (e *Engine) DragPreview() DragAction {
	if e.drag == nil {
		return DragMoved
	}
	return e.drag.preview
}

// previewAction classifies the in-flight geometry the same way EndDrag
// will, without mutating anything.
func (e *Engine) previewAction() DragAction {
	s := e.drag
	if s.modifier {
		return DragSubtracted
	}
	hits := e.classifyAgainstAll(s.current, s.subjectID)
	for _, h := range hits {
		if h.rel == WithinPeer {
			return DragHoleCut
		}
	}
	if len(hits) > 0 {
		return DragMerged
	}
	return DragMoved
}

// EndDrag finalizes the move. All geometry results are computed before the
// registry is touched, so a primitive failure rolls the subject back to its
// pre-drag snapshot without having half-applied anything. A failed
// interactive edit never silently deletes the subject region.
func (e *Engine) EndDrag() FinalizationResult {
	s := e.drag
	if s == nil {
		return FinalizationResult{Action: DragMoved}
	}
	e.drag = nil

	if s.modifier {
		return e.finalizeSubtract(s)
	}
	return e.finalizeMove(s)
}

// finalizeSubtract uses the released geometry as a cutting tool: every
// intersecting peer loses the overlap, and the dragged region itself is
// consumed.
func (e *Engine) finalizeSubtract(s *dragSession) FinalizationResult {
	hits := e.classifyAgainstAll(s.current, s.subjectID)

	type cut struct {
		id        string
		remainder geo.Geometry // zero when fully consumed
	}
	cuts := make([]cut, 0, len(hits))
	for _, h := range hits {
		res := e.prim.Difference(h.geom, s.current)
		if res.Outcome == geo.OutcomeFail {
			return e.rollback(s)
		}
		if !res.OK() {
			// Abstained: this peer is left out of the cut.
			continue
		}
		cuts = append(cuts, cut{id: h.id, remainder: res.Geom})
	}

	var ids []string
	for _, c := range cuts {
		e.reg.Remove(c.id)
		ids = append(ids, e.reg.Add(c.remainder)...)
	}
	e.reg.Remove(s.subjectID)
	return FinalizationResult{Action: DragSubtracted, IDs: ids}
}

// finalizeMove settles a normal drag: hole-creation when a peer contains
// the dragged region, union-merge when peers overlap, otherwise a pure
// translation re-registered under a fresh identity.
func (e *Engine) finalizeMove(s *dragSession) FinalizationResult {
	hits := e.classifyAgainstAll(s.current, s.subjectID)

	// Hole creation wins over merging: dropping a region wholly inside a
	// peer carves it out of that peer.
	for _, h := range hits {
		if h.rel != WithinPeer {
			continue
		}
		res := e.prim.Difference(h.geom, s.current)
		if res.Outcome == geo.OutcomeFail {
			return e.rollback(s)
		}
		if !res.OK() {
			continue
		}
		e.reg.Remove(h.id)
		e.reg.Remove(s.subjectID)
		ids := e.reg.Add(res.Geom)
		return FinalizationResult{Action: DragHoleCut, IDs: ids}
	}

	if len(hits) > 0 {
		acc := s.current
		merged := make([]string, 0, len(hits))
		for _, h := range hits {
			res := e.prim.Union(acc, h.geom)
			if res.Outcome == geo.OutcomeFail {
				return e.rollback(s)
			}
			if !res.OK() || res.Geom.IsZero() {
				continue
			}
			acc = res.Geom
			merged = append(merged, h.id)
		}
		for _, id := range merged {
			e.reg.Remove(id)
		}
		e.reg.Remove(s.subjectID)
		ids := e.reg.Add(acc)
		return FinalizationResult{Action: DragMerged, IDs: ids}
	}

	// Pure translation: remove+add discipline, fresh identity.
	e.reg.Remove(s.subjectID)
	ids := e.reg.Add(s.current)
	return FinalizationResult{Action: DragMoved, IDs: ids}
}

// rollback restores the pre-drag snapshot under a fresh identity. The only
// rollback path in the system.
func (e *Engine) rollback(s *dragSession) FinalizationResult {
	e.reg.Remove(s.subjectID)
	ids := e.reg.Add(s.origin)
	return FinalizationResult{Action: DragRolledBack, IDs: ids}
}
