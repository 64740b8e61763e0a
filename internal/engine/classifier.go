package engine

import "github.com/mapsketch/mapsketch/internal/geo"

// Relation is the spatial relationship between a subject geometry and a
// peer, as seen from the subject.
type Relation int

const (
	// Disjoint: no interaction.
	Disjoint Relation = iota
	// Overlaps: boundaries cross or interiors share real area.
	Overlaps
	// ContainsPeer: the subject fully contains the peer.
	ContainsPeer
	// WithinPeer: the peer fully contains the subject.
	WithinPeer
)

func (r Relation) String() string {
	switch r {
	case Overlaps:
		return "overlaps"
	case ContainsPeer:
		return "contains-peer"
	case WithinPeer:
		return "within-peer"
	default:
		return "disjoint"
	}
}

// Interacting reports whether the relation triggers a set operation.
func (r Relation) Interacting() bool { return r != Disjoint }

// classify determines how subject and peer relate, running a layered chain
// from cheapest/most specific to most permissive. The order is load-bearing:
// the later checks can report Overlaps for geometry the earlier ones would
// have judged as containment, and the vertex probe accepts shapes the area
// test rejects as boundary noise. Each primitive that abstains or fails
// simply hands over to the next check; only when every check has passed or
// abstained is the pair Disjoint.
func classify(prim primitives, subject, peer geo.Geometry) Relation {
	// 1. Containment, both directions.
	if in, outcome := prim.Contains(subject, peer); outcome == geo.OutcomeOK && in {
		return ContainsPeer
	}
	if in, outcome := prim.Contains(peer, subject); outcome == geo.OutcomeOK && in {
		return WithinPeer
	}

	// 2. Direct boolean intersect.
	if hit, outcome := prim.Intersects(subject, peer); outcome == geo.OutcomeOK && hit {
		return Overlaps
	}

	// 3. Explicit intersection geometry with an area floor, rejecting
	// boundary- or point-touching false positives.
	if res := prim.Intersection(subject, peer); res.OK() && !res.Geom.IsZero() {
		if prim.Area(res.Geom) > geo.AreaEpsilon {
			return Overlaps
		}
	}

	// 4. Vertex sampling: any vertex of one inside the other.
	if vertexInside(subject, peer) || vertexInside(peer, subject) {
		return Overlaps
	}

	return Disjoint
}

// vertexInside reports whether any outer-ring vertex of a lies strictly
// inside b. Vertices sitting on b's boundary do not count: two regions that
// merely touch must stay disjoint.
func vertexInside(a, b geo.Geometry) bool {
	for _, p := range a.Parts() {
		if len(p) == 0 {
			continue
		}
		for _, pt := range p[0] {
			if geo.StrictlyIn(b, pt) {
				return true
			}
		}
	}
	return false
}
