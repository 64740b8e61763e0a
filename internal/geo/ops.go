package geo

import (
	"math"
	"sort"

	polyclip "github.com/ctessum/polyclip-go"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
)

// AreaEpsilon is the smallest intersection area treated as a real overlap.
// Boundary- or point-touching polygons intersect with area below this and
// are considered disjoint.
const AreaEpsilon = 1e-6

// Union returns the combined region of a and b.
func Union(a, b Geometry) OpResult {
	return clip(a, b, polyclip.UNION)
}

// Difference returns a with b removed. An empty result (OK outcome, zero
// geometry) means b fully consumed a.
func Difference(a, b Geometry) OpResult {
	return clip(a, b, polyclip.DIFFERENCE)
}

// Intersection returns the region shared by a and b.
func Intersection(a, b Geometry) OpResult {
	return clip(a, b, polyclip.INTERSECTION)
}

// clip runs one polyclip boolean operation. Degenerate input abstains; a
// clipper panic is converted into a Fail outcome so callers can skip the
// step or roll back instead of unwinding.
func clip(a, b Geometry, op polyclip.Op) (res OpResult) {
	if degenerate(a) || degenerate(b) {
		return resultAbstain()
	}
	defer func() {
		if r := recover(); r != nil {
			res = resultFail("polygon clip failed: %v", r)
		}
	}()
	subject := toClip(a)
	clipping := toClip(b)
	out := subject.Construct(op, clipping)
	return resultOK(Reassemble(fromClip(out)))
}

// toClip flattens every ring of every part into a polyclip contour list,
// dropping the closing duplicate vertex (polyclip contours are implicitly
// closed).
func toClip(g Geometry) polyclip.Polygon {
	var out polyclip.Polygon
	for _, p := range g.Parts() {
		for _, r := range p {
			if len(r) > 1 && r.Closed() {
				r = r[:len(r)-1]
			}
			if len(r) < 3 {
				continue
			}
			ct := make(polyclip.Contour, len(r))
			for i, pt := range r {
				ct[i] = polyclip.Point{X: pt[0], Y: pt[1]}
			}
			out = append(out, ct)
		}
	}
	return out
}

func fromClip(pp polyclip.Polygon) []orb.Ring {
	var rings []orb.Ring
	for _, ct := range pp {
		if len(ct) < 3 {
			continue
		}
		ring := make(orb.Ring, 0, len(ct)+1)
		for _, pt := range ct {
			ring = append(ring, orb.Point{pt.X, pt.Y})
		}
		if !ring.Closed() {
			ring = append(ring, ring[0])
		}
		if math.Abs(planar.Area(ring)) < AreaEpsilon {
			continue
		}
		rings = append(rings, ring)
	}
	return rings
}

// Reassemble groups a flat list of rings into disjoint polygons with their
// holes. A ring contained in an odd number of other rings is a hole and is
// attached to its smallest enclosing outer; everything else becomes the
// outer ring of its own polygon. Output rings are oriented GeoJSON-style:
// outers counter-clockwise, holes clockwise.
func Reassemble(rings []orb.Ring) Geometry {
	if len(rings) == 0 {
		return Geometry{}
	}

	type ringInfo struct {
		ring  orb.Ring
		area  float64 // absolute
		depth int
	}
	infos := make([]ringInfo, len(rings))
	for i, r := range rings {
		infos[i] = ringInfo{ring: r, area: math.Abs(planar.Area(r))}
	}

	for i := range infos {
		for j := range infos {
			if i == j {
				continue
			}
			if ringInRing(infos[i].ring, infos[j].ring) {
				infos[i].depth++
			}
		}
	}

	// Outers first, largest to smallest, so hole assignment can pick the
	// smallest enclosing outer by scanning in reverse.
	sort.SliceStable(infos, func(i, j int) bool {
		if (infos[i].depth%2 == 0) != (infos[j].depth%2 == 0) {
			return infos[i].depth%2 == 0
		}
		return infos[i].area > infos[j].area
	})

	var polys orb.MultiPolygon
	for _, info := range infos {
		if info.depth%2 != 0 {
			continue
		}
		outer := info.ring
		if outer.Orientation() == orb.CW {
			outer.Reverse()
		}
		polys = append(polys, orb.Polygon{outer})
	}

	for _, info := range infos {
		if info.depth%2 == 0 {
			continue
		}
		hole := info.ring
		if hole.Orientation() == orb.CCW {
			hole.Reverse()
		}
		// Smallest enclosing outer wins; outers are sorted large→small.
		for i := len(polys) - 1; i >= 0; i-- {
			if ringInRing(hole, polys[i][0]) {
				polys[i] = append(polys[i], hole)
				break
			}
		}
	}

	return FromMultiPolygon(polys)
}

// ringInRing reports whether inner lies inside outer, using a vertex probe
// backed by a bounding-box reject.
func ringInRing(inner, outer orb.Ring) bool {
	ib, ob := inner.Bound(), outer.Bound()
	if !ob.Contains(ib.Min) || !ob.Contains(ib.Max) {
		return false
	}
	for _, pt := range inner {
		if planar.RingContains(outer, pt) {
			return true
		}
	}
	return false
}
