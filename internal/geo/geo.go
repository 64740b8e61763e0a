// Package geo is the geometry-primitives boundary of MapSketch. It wraps
// the orb types and the polyclip boolean clipper behind a small set of
// operations whose failures are values, not panics: every operation that can
// abstain or fail on degenerate input reports an Outcome instead of throwing,
// so callers can run fallback chains as plain control flow.
package geo

import (
	"fmt"

	"github.com/paulmach/orb"
)

// Outcome reports how a primitive operation concluded.
type Outcome int

const (
	// OutcomeOK means the operation produced a usable result.
	OutcomeOK Outcome = iota
	// OutcomeAbstain means the input was outside what the operation can
	// judge (degenerate rings, empty geometry). Callers treat this as
	// "this test did not run", not as an error.
	OutcomeAbstain
	// OutcomeFail means the operation ran and broke. Callers skip the
	// affected step or roll back, depending on context.
	OutcomeFail
)

func (o Outcome) String() string {
	switch o {
	case OutcomeOK:
		return "ok"
	case OutcomeAbstain:
		return "abstain"
	default:
		return "fail"
	}
}

// OpResult is the return value of the geometry-producing primitives.
type OpResult struct {
	Geom    Geometry
	Outcome Outcome
	Reason  error
}

// OK reports whether the operation produced a usable geometry result.
// The geometry may still be empty (e.g. a difference that consumed
// everything); check Geom.IsZero for that.
func (r OpResult) OK() bool { return r.Outcome == OutcomeOK }

func resultOK(g Geometry) OpResult {
	return OpResult{Geom: g, Outcome: OutcomeOK}
}

func resultAbstain() OpResult {
	return OpResult{Outcome: OutcomeAbstain}
}

func resultFail(format string, args ...interface{}) OpResult {
	return OpResult{Outcome: OutcomeFail, Reason: fmt.Errorf(format, args...)}
}

// Geometry is a closed variant over the two polygonal shapes the engine
// works with: a single polygon (outer ring plus zero or more hole rings) or
// a multi-polygon of disjoint parts. The zero value is the empty geometry.
type Geometry struct {
	poly  orb.Polygon
	multi orb.MultiPolygon
	kind  kind
}

type kind int

const (
	kindEmpty kind = iota
	kindPolygon
	kindMultiPolygon
)

// FromRing builds a single-ring polygon geometry. The ring is closed if the
// input is not.
func FromRing(r orb.Ring) Geometry {
	return FromPolygon(orb.Polygon{r})
}

// FromPolygon wraps an orb polygon. Rings are closed in place of the copy;
// the input slice is not modified.
func FromPolygon(p orb.Polygon) Geometry {
	if len(p) == 0 {
		return Geometry{}
	}
	return Geometry{poly: closePolygon(p), kind: kindPolygon}
}

// FromMultiPolygon wraps an orb multi-polygon. A zero- or one-part input
// collapses to the empty or single-polygon variant.
func FromMultiPolygon(mp orb.MultiPolygon) Geometry {
	switch len(mp) {
	case 0:
		return Geometry{}
	case 1:
		return FromPolygon(mp[0])
	}
	closed := make(orb.MultiPolygon, len(mp))
	for i, p := range mp {
		closed[i] = closePolygon(p)
	}
	return Geometry{multi: closed, kind: kindMultiPolygon}
}

// IsZero reports whether g holds no geometry at all.
func (g Geometry) IsZero() bool { return g.kind == kindEmpty }

// IsMulti reports whether g holds more than one disjoint part.
func (g Geometry) IsMulti() bool { return g.kind == kindMultiPolygon }

// Polygon returns the single-polygon view. For a multi-polygon it returns
// the first part; callers that care about all parts use Parts.
func (g Geometry) Polygon() orb.Polygon {
	switch g.kind {
	case kindPolygon:
		return g.poly
	case kindMultiPolygon:
		return g.multi[0]
	}
	return nil
}

// MultiPolygon returns the geometry as a multi-polygon, wrapping a single
// polygon in a one-element slice.
func (g Geometry) MultiPolygon() orb.MultiPolygon {
	switch g.kind {
	case kindPolygon:
		return orb.MultiPolygon{g.poly}
	case kindMultiPolygon:
		return g.multi
	}
	return nil
}

// Parts returns the disjoint polygon parts of g.
func (g Geometry) Parts() []orb.Polygon {
	return g.MultiPolygon()
}

// Orb returns the underlying orb geometry, for handoff to orb-consuming
// code (geojson encoding, planar measures).
func (g Geometry) Orb() orb.Geometry {
	switch g.kind {
	case kindPolygon:
		return g.poly
	case kindMultiPolygon:
		return g.multi
	}
	return nil
}

// Bound returns the bounding box of g.
func (g Geometry) Bound() orb.Bound {
	switch g.kind {
	case kindPolygon:
		return g.poly.Bound()
	case kindMultiPolygon:
		return g.multi.Bound()
	}
	return orb.Bound{}
}

// Clone returns a deep copy of g.
func (g Geometry) Clone() Geometry {
	switch g.kind {
	case kindPolygon:
		return Geometry{poly: clonePolygon(g.poly), kind: kindPolygon}
	case kindMultiPolygon:
		cp := make(orb.MultiPolygon, len(g.multi))
		for i, p := range g.multi {
			cp[i] = clonePolygon(p)
		}
		return Geometry{multi: cp, kind: kindMultiPolygon}
	}
	return Geometry{}
}

// VertexCount returns the total number of vertices across all rings,
// counting the closing duplicate once.
func (g Geometry) VertexCount() int {
	n := 0
	for _, p := range g.Parts() {
		for _, r := range p {
			n += len(r)
		}
	}
	return n
}

// Translate returns a copy of g with every coordinate of every ring of
// every part shifted by (dx, dy).
func Translate(g Geometry, dx, dy float64) Geometry {
	if g.IsZero() {
		return Geometry{}
	}
	parts := g.Parts()
	out := make(orb.MultiPolygon, len(parts))
	for i, p := range parts {
		out[i] = translatePolygon(p, dx, dy)
	}
	return FromMultiPolygon(out)
}

func translatePolygon(p orb.Polygon, dx, dy float64) orb.Polygon {
	out := make(orb.Polygon, len(p))
	for i, r := range p {
		ring := make(orb.Ring, len(r))
		for j, pt := range r {
			ring[j] = orb.Point{pt[0] + dx, pt[1] + dy}
		}
		out[i] = ring
	}
	return out
}

func clonePolygon(p orb.Polygon) orb.Polygon {
	out := make(orb.Polygon, len(p))
	for i, r := range p {
		ring := make(orb.Ring, len(r))
		copy(ring, r)
		out[i] = ring
	}
	return out
}

// closePolygon copies p, appending the first vertex to any ring that does
// not end where it starts. Ring closure is an invariant everywhere above
// this boundary.
func closePolygon(p orb.Polygon) orb.Polygon {
	out := make(orb.Polygon, len(p))
	for i, r := range p {
		ring := make(orb.Ring, len(r), len(r)+1)
		copy(ring, r)
		if len(ring) > 0 && !ring.Closed() {
			ring = append(ring, ring[0])
		}
		out[i] = ring
	}
	return out
}

// degenerate reports whether g cannot take part in boolean operations:
// empty, or every ring has fewer than three distinct vertices.
func degenerate(g Geometry) bool {
	if g.IsZero() {
		return true
	}
	for _, p := range g.Parts() {
		if len(p) == 0 {
			return true
		}
		if distinctVertices(p[0]) < 3 {
			return true
		}
	}
	return false
}

func distinctVertices(r orb.Ring) int {
	seen := make(map[orb.Point]struct{}, len(r))
	for _, pt := range r {
		seen[pt] = struct{}{}
	}
	return len(seen)
}
