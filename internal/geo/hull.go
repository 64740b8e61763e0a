package geo

import (
	"sort"

	"github.com/paulmach/orb"
)

// ConvexHull returns the convex hull of all vertices of g as a closed ring,
// computed with the Andrew monotone chain. Fewer than three distinct input
// vertices yield a nil ring.
func ConvexHull(g Geometry) orb.Ring {
	var pts []orb.Point
	seen := make(map[orb.Point]struct{})
	for _, p := range g.Parts() {
		for _, r := range p {
			for _, pt := range r {
				if _, dup := seen[pt]; dup {
					continue
				}
				seen[pt] = struct{}{}
				pts = append(pts, pt)
			}
		}
	}
	if len(pts) < 3 {
		return nil
	}

	sort.Slice(pts, func(i, j int) bool {
		if pts[i][0] != pts[j][0] {
			return pts[i][0] < pts[j][0]
		}
		return pts[i][1] < pts[j][1]
	})

	var lower []orb.Point
	for _, pt := range pts {
		for len(lower) >= 2 && cross(lower[len(lower)-2], lower[len(lower)-1], pt) <= 0 {
			lower = lower[:len(lower)-1]
		}
		lower = append(lower, pt)
	}

	var upper []orb.Point
	for i := len(pts) - 1; i >= 0; i-- {
		pt := pts[i]
		for len(upper) >= 2 && cross(upper[len(upper)-2], upper[len(upper)-1], pt) <= 0 {
			upper = upper[:len(upper)-1]
		}
		upper = append(upper, pt)
	}

	// Each chain's last point is the other chain's first.
	hull := append(lower[:len(lower)-1], upper[:len(upper)-1]...)
	ring := make(orb.Ring, 0, len(hull)+1)
	ring = append(ring, hull...)
	ring = append(ring, ring[0])
	return ring
}

// Convexity returns the ratio of g's area to its convex hull's area, in
// (0, 1]. A value near 1 means a nearly convex shape. Returns 0 when the
// hull is degenerate.
func Convexity(g Geometry) float64 {
	hull := ConvexHull(g)
	if hull == nil {
		return 0
	}
	hullArea := Area(FromRing(hull))
	if hullArea <= 0 {
		return 0
	}
	return Area(g) / hullArea
}
