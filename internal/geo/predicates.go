package geo

import (
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
)

// Area returns the total absolute area of g, holes subtracted.
func Area(g Geometry) float64 {
	total := 0.0
	for _, p := range g.Parts() {
		for i, r := range p {
			a := math.Abs(planar.Area(r))
			if i == 0 {
				total += a
			} else {
				total -= a
			}
		}
	}
	if total < 0 {
		return 0
	}
	return total
}

// Perimeter returns the total outer-ring boundary length of g.
func Perimeter(g Geometry) float64 {
	total := 0.0
	for _, p := range g.Parts() {
		if len(p) == 0 {
			continue
		}
		r := p[0]
		for i := 1; i < len(r); i++ {
			total += distance(r[i-1], r[i])
		}
	}
	return total
}

// Centroid returns the area-weighted centroid of g.
func Centroid(g Geometry) orb.Point {
	if g.IsZero() {
		return orb.Point{}
	}
	c, _ := planar.CentroidArea(g.Orb())
	return c
}

// PointIn reports whether pt lies inside g, honoring holes.
func PointIn(g Geometry, pt orb.Point) bool {
	for _, p := range g.Parts() {
		if planar.PolygonContains(p, pt) {
			return true
		}
	}
	return false
}

// Contains reports whether a fully contains b: every vertex of every outer
// ring of b lies inside a, and no boundary segment of b properly crosses a
// boundary segment of a. The crossing check matters for concave shapes,
// where all of b's vertices can sit inside a while b's edges pass through
// a's notch. Degenerate input abstains.
func Contains(a, b Geometry) (bool, Outcome) {
	if degenerate(a) || degenerate(b) {
		return false, OutcomeAbstain
	}
	ab, bb := a.Bound(), b.Bound()
	if !ab.Contains(bb.Min) || !ab.Contains(bb.Max) {
		return false, OutcomeOK
	}
	for _, p := range b.Parts() {
		for _, pt := range p[0] {
			if !PointIn(a, pt) {
				return false, OutcomeOK
			}
		}
	}
	for _, pa := range a.Parts() {
		for _, ra := range pa {
			for _, pb := range b.Parts() {
				for _, rb := range pb {
					if ringsCross(ra, rb) {
						return false, OutcomeOK
					}
				}
			}
		}
	}
	return true, OutcomeOK
}

// Intersects reports whether any boundary segment of a properly crosses a
// boundary segment of b. Shapes that merely share an edge or a vertex do
// not cross, and full containment without boundary contact is not detected
// here; callers that need either test Contains first and fall through to
// the area and vertex probes after. Degenerate input abstains.
func Intersects(a, b Geometry) (bool, Outcome) {
	if degenerate(a) || degenerate(b) {
		return false, OutcomeAbstain
	}
	if !a.Bound().Intersects(b.Bound()) {
		return false, OutcomeOK
	}
	for _, pa := range a.Parts() {
		for _, ra := range pa {
			for _, pb := range b.Parts() {
				for _, rb := range pb {
					if ringsCross(ra, rb) {
						return true, OutcomeOK
					}
				}
			}
		}
	}
	return false, OutcomeOK
}

func ringsCross(a, b orb.Ring) bool {
	if !a.Bound().Intersects(b.Bound()) {
		return false
	}
	for i := 1; i < len(a); i++ {
		for j := 1; j < len(b); j++ {
			if properCross(a[i-1], a[i], b[j-1], b[j]) {
				return true
			}
		}
	}
	return false
}

// properCross reports whether segments pq and rs cross at a single interior
// point of both. Collinear overlap and shared endpoints are not proper
// crossings.
func properCross(p, q, r, s orb.Point) bool {
	d1 := cross(r, s, p)
	d2 := cross(r, s, q)
	d3 := cross(p, q, r)
	d4 := cross(p, q, s)
	return ((d1 > 0 && d2 < 0) || (d1 < 0 && d2 > 0)) &&
		((d3 > 0 && d4 < 0) || (d3 < 0 && d4 > 0))
}

// StrictlyIn reports whether pt lies in the interior of g: inside and not
// on any ring boundary.
func StrictlyIn(g Geometry, pt orb.Point) bool {
	return PointIn(g, pt) && !OnBoundary(g, pt)
}

// OnBoundary reports whether pt lies on any ring segment of g.
func OnBoundary(g Geometry, pt orb.Point) bool {
	for _, p := range g.Parts() {
		for _, r := range p {
			for i := 1; i < len(r); i++ {
				if cross(r[i-1], r[i], pt) == 0 && onSegment(r[i-1], r[i], pt) {
					return true
				}
			}
		}
	}
	return false
}

// segmentsIntersect reports whether segments pq and rs intersect, including
// collinear overlap.
func segmentsIntersect(p, q, r, s orb.Point) bool {
	d1 := cross(r, s, p)
	d2 := cross(r, s, q)
	d3 := cross(p, q, r)
	d4 := cross(p, q, s)

	if ((d1 > 0 && d2 < 0) || (d1 < 0 && d2 > 0)) &&
		((d3 > 0 && d4 < 0) || (d3 < 0 && d4 > 0)) {
		return true
	}
	if d1 == 0 && onSegment(r, s, p) {
		return true
	}
	if d2 == 0 && onSegment(r, s, q) {
		return true
	}
	if d3 == 0 && onSegment(p, q, r) {
		return true
	}
	if d4 == 0 && onSegment(p, q, s) {
		return true
	}
	return false
}

// cross returns the z component of (b-a) x (c-a).
func cross(a, b, c orb.Point) float64 {
	return (b[0]-a[0])*(c[1]-a[1]) - (b[1]-a[1])*(c[0]-a[0])
}

// onSegment reports whether c, known collinear with ab, lies within ab's
// extent.
func onSegment(a, b, c orb.Point) bool {
	return math.Min(a[0], b[0]) <= c[0] && c[0] <= math.Max(a[0], b[0]) &&
		math.Min(a[1], b[1]) <= c[1] && c[1] <= math.Max(a[1], b[1])
}

func distance(a, b orb.Point) float64 {
	dx, dy := b[0]-a[0], b[1]-a[1]
	return math.Sqrt(dx*dx + dy*dy)
}
