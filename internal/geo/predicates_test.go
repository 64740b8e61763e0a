package geo

import (
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContains(t *testing.T) {
	tests := []struct {
		name    string
		a, b    Geometry
		want    bool
		outcome Outcome
	}{
		{"nested squares", squareGeom(0, 0, 10), squareGeom(2, 2, 2), true, OutcomeOK},
		{"reversed nesting", squareGeom(2, 2, 2), squareGeom(0, 0, 10), false, OutcomeOK},
		{"partial overlap", squareGeom(0, 0, 2), squareGeom(1, 1, 2), false, OutcomeOK},
		{"disjoint", squareGeom(0, 0, 1), squareGeom(5, 5, 1), false, OutcomeOK},
		{"degenerate abstains", FromRing(orb.Ring{{0, 0}, {0, 0}, {0, 0}}), squareGeom(0, 0, 1), false, OutcomeAbstain},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, outcome := Contains(tt.a, tt.b)
			assert.Equal(t, tt.outcome, outcome)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestContains_ConcaveNotchNotContainment(t *testing.T) {
	// A U-shaped region with the notch between x=3 and x=7, and a bar whose
	// vertices all sit inside the U's arms but whose edges span the notch.
	// Vertex sampling alone would call this containment; the boundary
	// crossings must defeat it.
	u := FromRing(orb.Ring{{0, 0}, {10, 0}, {10, 10}, {7, 10}, {7, 3}, {3, 3}, {3, 10}, {0, 10}})
	bar := FromRing(orb.Ring{{1, 5}, {9, 5}, {9, 7}, {1, 7}})

	for _, pt := range bar.Parts()[0][0] {
		require.True(t, PointIn(u, pt), "bar vertex %v should sit inside the U", pt)
	}

	got, outcome := Contains(u, bar)
	require.Equal(t, OutcomeOK, outcome)
	assert.False(t, got)

	got, outcome = Contains(bar, u)
	require.Equal(t, OutcomeOK, outcome)
	assert.False(t, got)
}

func TestIntersects(t *testing.T) {
	tests := []struct {
		name string
		a, b Geometry
		want bool
	}{
		{"crossing squares", squareGeom(0, 0, 2), squareGeom(1, 1, 2), true},
		{"disjoint", squareGeom(0, 0, 1), squareGeom(5, 5, 1), false},
		{"shared edge is not a crossing", squareGeom(0, 0, 1), squareGeom(1, 0, 1), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, outcome := Intersects(tt.a, tt.b)
			require.Equal(t, OutcomeOK, outcome)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestIntersects_FullContainmentNotDetected(t *testing.T) {
	// Boundaries never touch, so the edge-crossing primitive sees nothing.
	// The classifier runs Contains first for exactly this reason.
	got, outcome := Intersects(squareGeom(0, 0, 10), squareGeom(4, 4, 1))
	require.Equal(t, OutcomeOK, outcome)
	assert.False(t, got)
}

func TestArea_DonutSubtractsHole(t *testing.T) {
	donut := Difference(squareGeom(0, 0, 4), squareGeom(1, 1, 2)).Geom
	assert.InDelta(t, 12.0, Area(donut), 1e-9)
}

func TestCentroid_Square(t *testing.T) {
	c := Centroid(squareGeom(0, 0, 2))
	assert.InDelta(t, 1.0, c[0], 1e-9)
	assert.InDelta(t, 1.0, c[1], 1e-9)
}

func TestPerimeter_Square(t *testing.T) {
	assert.InDelta(t, 8.0, Perimeter(squareGeom(0, 0, 2)), 1e-9)
}

func TestSelfIntersects(t *testing.T) {
	bowtie := FromRing(orb.Ring{{0, 0}, {2, 2}, {2, 0}, {0, 2}, {0, 0}})
	assert.True(t, SelfIntersects(bowtie))

	assert.False(t, SelfIntersects(squareGeom(0, 0, 1)))
	assert.False(t, SelfIntersects(FromRing(orb.Ring{{0, 0}, {1, 0}, {0.5, 1}, {0, 0}})))
}

func TestConvexHull_ConcaveShape(t *testing.T) {
	// L-shape: hull is the bounding square.
	l := FromRing(orb.Ring{{0, 0}, {2, 0}, {2, 1}, {1, 1}, {1, 2}, {0, 2}, {0, 0}})
	hull := ConvexHull(l)
	require.NotNil(t, hull)
	require.True(t, hull.Closed())

	assert.InDelta(t, 4.0, Area(FromRing(hull)), 1e-9)
	assert.InDelta(t, 0.75, Convexity(l), 1e-9, "L area 3 over hull area 4")
}

func TestConvexHull_TooFewPoints(t *testing.T) {
	assert.Nil(t, ConvexHull(FromRing(orb.Ring{{0, 0}, {1, 1}, {0, 0}})))
}
