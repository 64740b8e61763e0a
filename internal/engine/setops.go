package engine

import "github.com/mapsketch/mapsketch/internal/geo"

// Add registers a newly drawn region, merging it with whatever it lands on.
//
// The incoming geometry is registered directly — no interaction check —
// when the caller asks to skip it, when merging is disabled, when the
// registry is empty, or when the geometry is kinked (self-intersecting
// input gets no topological promises). Otherwise it is classified against
// every live region and folded together with the interacting ones:
// containment folds through difference so an enclosing region gains a hole
// instead of silently absorbing the new shape, everything else folds
// through union. A fold step whose primitive fails is skipped and its
// region left untouched; the fold never aborts as a whole.
//
// Returns the ids of the regions the final geometry registered as (one per
// disjoint part).
func (e *Engine) Add(g geo.Geometry, skipMergeCheck bool) []string {
	if g.IsZero() {
		return nil
	}
	if skipMergeCheck || !e.settings.MergeEnabled || e.reg.Count() == 0 || e.prim.SelfIntersects(g) {
		return e.reg.Add(g)
	}

	hits := e.classifyAgainstAll(g, "")
	if len(hits) == 0 {
		return e.reg.Add(g)
	}

	// Containment-classified regions fold first, through difference, so
	// the holes they produce survive the unions that follow.
	ordered := make([]affected, 0, len(hits))
	for _, h := range hits {
		if h.rel == WithinPeer {
			ordered = append(ordered, h)
		}
	}
	for _, h := range hits {
		if h.rel != WithinPeer {
			ordered = append(ordered, h)
		}
	}

	acc := g
	var consumed []string
	for _, h := range ordered {
		var res geo.OpResult
		if h.rel == WithinPeer {
			// The existing region encloses the accumulator: carve it
			// out instead of unioning it away.
			res = e.prim.Difference(h.geom, acc)
		} else {
			res = e.prim.Union(acc, h.geom)
		}
		if !res.OK() || res.Geom.IsZero() {
			// This step abstained or broke; the region stays out of
			// the removal set and the fold continues without it.
			continue
		}
		acc = res.Geom
		consumed = append(consumed, h.id)
	}

	for _, id := range consumed {
		e.reg.Remove(id)
	}
	return e.reg.Add(acc)
}

// Subtract carves the given geometry out of whatever regions it touches.
//
// Disjoint from everything: no-op. One region hit: its difference replaces
// it, possibly as several parts when the cut splits it. Several regions
// hit: they are unioned into one coherent region first — so the cut does
// not leave seams along old internal boundaries — then the single
// difference replaces them all. A region whose union step fails stays as
// it was; if the final difference fails, the merged region is re-registered
// rather than lost. A difference that consumes everything removes the
// target with no replacement.
//
// Returns the ids of the replacement regions; empty for a no-op or a full
// consume.
func (e *Engine) Subtract(g geo.Geometry) []string {
	if g.IsZero() {
		return nil
	}

	hits := e.classifyAgainstAll(g, "")
	if len(hits) == 0 {
		return nil
	}

	if len(hits) == 1 {
		h := hits[0]
		res := e.prim.Difference(h.geom, g)
		switch {
		case !res.OK():
			// The step abstained or broke; leave the region untouched
			// rather than guess.
			return nil
		case res.Geom.IsZero():
			// The cut consumed the whole region.
			e.reg.Remove(h.id)
			return []string{}
		default:
			e.reg.Remove(h.id)
			return e.reg.Add(res.Geom)
		}
	}

	// Multiple targets: union them into one region first.
	merged := hits[0].geom
	mergedIDs := []string{hits[0].id}
	for _, h := range hits[1:] {
		res := e.prim.Union(merged, h.geom)
		if !res.OK() || res.Geom.IsZero() {
			// This member stays independent and untouched by the cut.
			continue
		}
		merged = res.Geom
		mergedIDs = append(mergedIDs, h.id)
	}

	diff := e.prim.Difference(merged, g)
	for _, id := range mergedIDs {
		e.reg.Remove(id)
	}
	switch {
	case !diff.OK():
		// The cut abstained or broke; keep the partially-merged region
		// instead of losing the originals.
		return e.reg.Add(merged)
	case diff.Geom.IsZero():
		return []string{}
	default:
		return e.reg.Add(diff.Geom)
	}
}
