// Package marker decides where a region's label marker sits and how much
// geometry detail the renderer gets. These are display heuristics layered
// on top of the engine; nothing here feeds back into the set algebra.
package marker

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/simplify"

	"github.com/mapsketch/mapsketch/internal/geo"
)

// Anchor returns the point a region's marker should sit on. The centroid
// is usually right, but for donuts and crescents it can land in a hole or
// outside the shape entirely; in that case the anchor is nudged to the
// interior point nearest the centroid found by a coarse grid probe.
func Anchor(g geo.Geometry) orb.Point {
	c := geo.Centroid(g)
	if geo.PointIn(g, c) {
		return c
	}
	return interiorNear(g, c)
}

// interiorNear probes a grid over the bounding box and returns the interior
// point closest to the preferred point. Falls back to the first outer-ring
// vertex when even the grid finds nothing (pathologically thin shapes).
func interiorNear(g geo.Geometry, preferred orb.Point) orb.Point {
	const gridSteps = 16

	b := g.Bound()
	dx := (b.Max[0] - b.Min[0]) / gridSteps
	dy := (b.Max[1] - b.Min[1]) / gridSteps
	if dx <= 0 || dy <= 0 {
		return fallbackVertex(g)
	}

	best := orb.Point{}
	bestDist := -1.0
	for i := 0; i <= gridSteps; i++ {
		for j := 0; j <= gridSteps; j++ {
			pt := orb.Point{b.Min[0] + float64(i)*dx, b.Min[1] + float64(j)*dy}
			if !geo.PointIn(g, pt) {
				continue
			}
			d := sqDist(pt, preferred)
			if bestDist < 0 || d < bestDist {
				best, bestDist = pt, d
			}
		}
	}
	if bestDist < 0 {
		return fallbackVertex(g)
	}
	return best
}

func fallbackVertex(g geo.Geometry) orb.Point {
	for _, p := range g.Parts() {
		if len(p) > 0 && len(p[0]) > 0 {
			return p[0][0]
		}
	}
	return orb.Point{}
}

func sqDist(a, b orb.Point) float64 {
	dx, dy := a[0]-b[0], a[1]-b[1]
	return dx*dx + dy*dy
}

// Visible reports whether a region is large enough to carry a marker.
func Visible(g geo.Geometry, minArea float64) bool {
	return geo.Area(g) >= minArea
}

// RenderGeometry returns the geometry the renderer should draw for the
// given optimization level. Level 0 draws the authoritative geometry as-is;
// higher levels run Douglas-Peucker with a tolerance scaled by the level.
// The authoritative registry geometry is never simplified, only its render
// copy.
func RenderGeometry(g geo.Geometry, level int, tolerance float64) geo.Geometry {
	if level <= 0 || tolerance <= 0 || g.IsZero() {
		return g
	}
	s := simplify.DouglasPeucker(tolerance * float64(level))
	out := s.Simplify(orb.Clone(g.Orb()))
	switch v := out.(type) {
	case orb.Polygon:
		return geo.FromPolygon(v)
	case orb.MultiPolygon:
		return geo.FromMultiPolygon(v)
	}
	return g
}
