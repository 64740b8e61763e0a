package engine

import (
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"

	"github.com/mapsketch/mapsketch/internal/geo"
)

func TestClassify(t *testing.T) {
	prim := libPrimitives{}

	tests := []struct {
		name          string
		subject, peer geo.Geometry
		want          Relation
	}{
		{"partial overlap", squareGeom(0, 0, 2), squareGeom(1, 1, 2), Overlaps},
		{"subject contains peer", squareGeom(0, 0, 10), squareGeom(3, 3, 2), ContainsPeer},
		{"peer contains subject", squareGeom(3, 3, 2), squareGeom(0, 0, 10), WithinPeer},
		{"disjoint", squareGeom(0, 0, 1), squareGeom(5, 5, 1), Disjoint},
		{"edge touch stays disjoint", squareGeom(0, 0, 1), squareGeom(1, 0, 1), Disjoint},
		{"corner touch stays disjoint", squareGeom(0, 0, 1), squareGeom(1, 1, 1), Disjoint},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, classify(prim, tt.subject, tt.peer))
		})
	}
}

func TestClassify_BarAcrossConcaveNotchOverlaps(t *testing.T) {
	// Every vertex of the bar sits inside the U's arms, but its edges span
	// the notch. That is an overlap, not containment in either direction.
	u := geo.FromRing(orb.Ring{{0, 0}, {10, 0}, {10, 10}, {7, 10}, {7, 3}, {3, 3}, {3, 10}, {0, 10}})
	bar := geo.FromRing(orb.Ring{{1, 5}, {9, 5}, {9, 7}, {1, 7}})

	assert.Equal(t, Overlaps, classify(libPrimitives{}, bar, u))
	assert.Equal(t, Overlaps, classify(libPrimitives{}, u, bar))
}

func TestClassify_InsideHoleIsDisjoint(t *testing.T) {
	donut := geo.Difference(squareGeom(0, 0, 10), squareGeom(2, 2, 6)).Geom
	island := squareGeom(4, 4, 1)

	assert.Equal(t, Disjoint, classify(libPrimitives{}, island, donut))
}

func TestClassify_DegenerateGeometryFallsThroughToDisjoint(t *testing.T) {
	degen := geo.FromRing(orb.Ring{{0, 0}, {1, 1}, {0, 0}})
	sq := squareGeom(0, 0, 5)

	// Every primitive abstains on the degenerate side; the chain must end
	// in Disjoint rather than error out.
	assert.Equal(t, Disjoint, classify(libPrimitives{}, degen, sq))
	assert.Equal(t, Disjoint, classify(libPrimitives{}, sq, degen))
}

// abstainPrimitives reports abstain for the cheap tests so the classifier
// has to fall through to the intersection-area and vertex probes.
type abstainPrimitives struct {
	libPrimitives
}

func (abstainPrimitives) Contains(a, b geo.Geometry) (bool, geo.Outcome) {
	return false, geo.OutcomeAbstain
}

func (abstainPrimitives) Intersects(a, b geo.Geometry) (bool, geo.Outcome) {
	return false, geo.OutcomeAbstain
}

func TestClassify_FallbackChainStillFindsOverlap(t *testing.T) {
	a := squareGeom(0, 0, 2)
	b := squareGeom(1, 1, 2)

	assert.Equal(t, Overlaps, classify(abstainPrimitives{}, a, b),
		"intersection-area fallback should catch what the abstaining tests missed")
}

// areaAbstainPrimitives additionally kills the explicit intersection, so
// only the vertex probe is left.
type areaAbstainPrimitives struct {
	abstainPrimitives
}

func (areaAbstainPrimitives) Intersection(a, b geo.Geometry) geo.OpResult {
	return geo.OpResult{Outcome: geo.OutcomeFail}
}

func TestClassify_VertexProbeIsLastResort(t *testing.T) {
	a := squareGeom(0, 0, 2)
	b := squareGeom(1, 1, 2)

	assert.Equal(t, Overlaps, classify(areaAbstainPrimitives{}, a, b))
	assert.Equal(t, Disjoint, classify(areaAbstainPrimitives{}, a, squareGeom(10, 10, 1)))
}
