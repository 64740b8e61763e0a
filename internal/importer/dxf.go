package importer

import (
	"fmt"
	"math"

	"github.com/paulmach/orb"
	"github.com/yofu/dxf"
	"github.com/yofu/dxf/entity"

	"github.com/mapsketch/mapsketch/internal/geo"
)

// segment is a loose line piece waiting to be chained into a closed ring.
type segment struct {
	start orb.Point
	end   orb.Point
}

// chainTolerance is the maximum endpoint gap bridged when chaining loose
// LINE and ARC segments into rings.
const chainTolerance = 0.01

// ImportDXF imports regions from a DXF file. Each closed shape (LWPOLYLINE,
// CIRCLE, or chain of connected LINEs/ARCs) becomes a ring; rings nested
// inside other rings become holes of the enclosing region.
func ImportDXF(path string) ImportResult {
	result := ImportResult{}

	drawing, err := dxf.Open(path)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot open DXF file: %v", err))
		return result
	}

	entities := drawing.Entities()
	if len(entities) == 0 {
		result.Errors = append(result.Errors, "DXF file contains no entities")
		return result
	}

	var rings []orb.Ring
	var segments []segment

	for _, ent := range entities {
		switch e := ent.(type) {
		case *entity.LwPolyline:
			ring := lwPolylineRing(e)
			if len(ring) >= 3 {
				rings = append(rings, ring)
			} else {
				result.Warnings = append(result.Warnings,
					"Skipped LWPOLYLINE with fewer than 3 vertices")
			}

		case *entity.Circle:
			rings = append(rings, circleRing(e, 64))

		case *entity.Arc:
			pts := arcPoints(e, 32)
			if len(pts) >= 2 {
				segments = append(segments, pointsToSegments(pts)...)
			}

		case *entity.Line:
			segments = append(segments, segment{
				start: orb.Point{e.Start[0], e.Start[1]},
				end:   orb.Point{e.End[0], e.End[1]},
			})

		default:
			// Unsupported entity types are silently skipped
		}
	}

	rings = append(rings, chainSegments(segments, chainTolerance)...)

	if len(rings) == 0 {
		result.Errors = append(result.Errors, "No closed shapes found in DXF file")
		return result
	}

	// Nest the rings by containment so a circle drawn inside an outline
	// imports as a hole, then emit one region per top-level shape.
	assembled := geo.Reassemble(closeRings(rings))
	for _, part := range assembled.Parts() {
		g := geo.FromPolygon(part)
		if geo.Area(g) < geo.AreaEpsilon {
			result.Warnings = append(result.Warnings, "Skipped degenerate shape")
			continue
		}
		result.Geometries = append(result.Geometries, g)
	}

	if len(result.Geometries) == 0 {
		result.Errors = append(result.Errors, "No usable shapes found in DXF file")
	}
	return result
}

// lwPolylineRing converts a DXF LWPOLYLINE entity to a ring. Bulge values
// on vertices produce interpolated arc segments.
func lwPolylineRing(lw *entity.LwPolyline) orb.Ring {
	var ring orb.Ring

	for i := 0; i < len(lw.Vertices); i++ {
		v := lw.Vertices[i]
		current := orb.Point{v[0], v[1]}

		bulge := 0.0
		if i < len(lw.Bulges) {
			bulge = lw.Bulges[i]
		}

		if math.Abs(bulge) > 1e-9 {
			nextIdx := (i + 1) % len(lw.Vertices)
			next := orb.Point{lw.Vertices[nextIdx][0], lw.Vertices[nextIdx][1]}
			arc := bulgeArcPoints(current, next, bulge, 32)
			// The next vertex closes the arc on the following iteration.
			ring = append(ring, arc[:len(arc)-1]...)
		} else {
			ring = append(ring, current)
		}
	}

	return ring
}

// bulgeArcPoints generates points along an arc defined by two endpoints and
// a DXF bulge factor. The bulge is the tangent of 1/4 the included angle.
func bulgeArcPoints(p1, p2 orb.Point, bulge float64, numSegments int) []orb.Point {
	mx := (p1[0] + p2[0]) / 2
	my := (p1[1] + p2[1]) / 2
	dx := p2[0] - p1[0]
	dy := p2[1] - p1[1]
	chordLen := math.Sqrt(dx*dx + dy*dy)
	if chordLen < 1e-9 {
		return []orb.Point{p1, p2}
	}

	sagitta := math.Abs(bulge) * chordLen / 2
	radius := (chordLen*chordLen/(4*sagitta) + sagitta) / 2

	// Arc center sits on the perpendicular through the chord midpoint.
	perpX := -dy / chordLen
	perpY := dx / chordLen
	dist := radius - sagitta
	if bulge > 0 {
		perpX, perpY = -perpX, -perpY
	}
	cx := mx + perpX*dist
	cy := my + perpY*dist

	startAngle := math.Atan2(p1[1]-cy, p1[0]-cx)
	endAngle := math.Atan2(p2[1]-cy, p2[0]-cx)

	if bulge < 0 {
		// Clockwise sweep
		if endAngle > startAngle {
			endAngle -= 2 * math.Pi
		}
	} else if endAngle < startAngle {
		endAngle += 2 * math.Pi
	}

	pts := make([]orb.Point, 0, numSegments+1)
	for i := 0; i <= numSegments; i++ {
		t := float64(i) / float64(numSegments)
		angle := startAngle + t*(endAngle-startAngle)
		pts = append(pts, orb.Point{cx + radius*math.Cos(angle), cy + radius*math.Sin(angle)})
	}
	return pts
}

// circleRing approximates a circle as a regular polygon.
func circleRing(c *entity.Circle, numSegments int) orb.Ring {
	ring := make(orb.Ring, numSegments)
	cx, cy, r := c.Center[0], c.Center[1], c.Radius
	for i := 0; i < numSegments; i++ {
		angle := 2 * math.Pi * float64(i) / float64(numSegments)
		ring[i] = orb.Point{cx + r*math.Cos(angle), cy + r*math.Sin(angle)}
	}
	return ring
}

// arcPoints converts a DXF ARC entity to a series of line points.
func arcPoints(a *entity.Arc, numSegments int) []orb.Point {
	cx, cy := a.Circle.Center[0], a.Circle.Center[1]
	r := a.Circle.Radius

	startRad := a.Angle[0] * math.Pi / 180
	endRad := a.Angle[1] * math.Pi / 180
	if endRad <= startRad {
		endRad += 2 * math.Pi
	}

	pts := make([]orb.Point, numSegments+1)
	for i := 0; i <= numSegments; i++ {
		t := float64(i) / float64(numSegments)
		angle := startRad + t*(endRad-startRad)
		pts[i] = orb.Point{cx + r*math.Cos(angle), cy + r*math.Sin(angle)}
	}
	return pts
}

// pointsToSegments turns a polyline point list into consecutive segments.
func pointsToSegments(pts []orb.Point) []segment {
	segs := make([]segment, 0, len(pts)-1)
	for i := 0; i < len(pts)-1; i++ {
		segs = append(segs, segment{start: pts[i], end: pts[i+1]})
	}
	return segs
}

// chainSegments links loose segments whose endpoints fall within tolerance
// of each other into rings. Open chains and chains shorter than a triangle
// are dropped.
func chainSegments(segs []segment, tolerance float64) []orb.Ring {
	var rings []orb.Ring
	used := make([]bool, len(segs))

	for {
		startIdx := -1
		for i, u := range used {
			if !u {
				startIdx = i
				break
			}
		}
		if startIdx == -1 {
			break
		}

		chain := []orb.Point{segs[startIdx].start, segs[startIdx].end}
		used[startIdx] = true

		changed := true
		for changed {
			changed = false
			tail := chain[len(chain)-1]

			for i, seg := range segs {
				if used[i] {
					continue
				}
				if pointsClose(tail, seg.start, tolerance) {
					chain = append(chain, seg.end)
					used[i] = true
					changed = true
					break
				}
				if pointsClose(tail, seg.end, tolerance) {
					chain = append(chain, seg.start)
					used[i] = true
					changed = true
					break
				}
			}
		}

		closed := len(chain) >= 4 && pointsClose(chain[0], chain[len(chain)-1], tolerance)
		if !closed {
			continue
		}
		// Drop the duplicate closing point; the ring is re-closed on
		// assembly.
		rings = append(rings, orb.Ring(chain[:len(chain)-1]))
	}

	return rings
}

// closeRings returns rings with an explicit closing vertex.
func closeRings(rings []orb.Ring) []orb.Ring {
	out := make([]orb.Ring, 0, len(rings))
	for _, r := range rings {
		if len(r) >= 3 && r[0] != r[len(r)-1] {
			r = append(append(orb.Ring{}, r...), r[0])
		}
		out = append(out, r)
	}
	return out
}

func pointsClose(a, b orb.Point, tolerance float64) bool {
	dx := a[0] - b[0]
	dy := a[1] - b[1]
	return math.Sqrt(dx*dx+dy*dy) <= tolerance
}
