package engine

import (
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mapsketch/mapsketch/internal/geo"
	"github.com/mapsketch/mapsketch/internal/model"
)

func newTestEngine(t *testing.T) (*Engine, *handleTracker) {
	t.Helper()
	tracker := &handleTracker{}
	return New(model.DefaultSettings(), tracker.factory), tracker
}

func totalArea(e *Engine) float64 {
	sum := 0.0
	for _, ent := range e.All() {
		sum += geo.Area(ent.Geometry)
	}
	return sum
}

func TestAdd_DisjointIncrementsCountByOne(t *testing.T) {
	e, _ := newTestEngine(t)

	e.Add(squareGeom(0, 0, 1), false)
	before := e.All()

	ids := e.Add(squareGeom(10, 10, 1), false)
	require.Len(t, ids, 1)
	assert.Equal(t, 2, e.Count())

	// Existing entity untouched.
	after, ok := e.Get(before[0].ID)
	require.True(t, ok)
	assert.Equal(t, before[0].Geometry.Polygon(), after.Geometry.Polygon())
}

func TestAdd_TwoSquaresThenBridge(t *testing.T) {
	// Two disjoint unit squares, then a square overlapping both collapses
	// everything into one region.
	e, _ := newTestEngine(t)

	e.Add(squareGeom(0, 0, 1), false)
	e.Add(squareGeom(2, 2, 1), false)
	require.Equal(t, 2, e.Count())

	bridge := squareGeom(0.5, 0.5, 2)
	ids := e.Add(bridge, false)

	require.Len(t, ids, 1)
	assert.Equal(t, 1, e.Count())

	// area(S1) + area(S2) + area(bridge) - overlaps
	want := 1.0 + 1.0 + 4.0 - 0.25 - 0.25
	assert.InDelta(t, want, totalArea(e), 1e-9)
}

func TestAdd_BarAcrossConcaveNotchUnionsNotCarves(t *testing.T) {
	// All of the bar's vertices land inside the U's arms while its edges
	// span the notch. A vertex-only containment probe would classify the
	// bar as sitting inside the U and carve it away; the merge must union
	// the two shapes instead, with the lower notch becoming an enclosed
	// hole rather than lost area.
	e, _ := newTestEngine(t)

	u := geo.FromRing(orb.Ring{{0, 0}, {10, 0}, {10, 10}, {7, 10}, {7, 3}, {3, 3}, {3, 10}, {0, 10}})
	e.Add(u, false)
	require.InDelta(t, 72.0, totalArea(e), 1e-9)

	bar := geo.FromRing(orb.Ring{{1, 5}, {9, 5}, {9, 7}, {1, 7}})
	ids := e.Add(bar, false)

	require.Len(t, ids, 1)
	assert.Equal(t, 1, e.Count())
	// area(U) + area(bar) - the two 2x2 overlaps over the arms
	assert.InDelta(t, 72.0+16.0-8.0, totalArea(e), 1e-9)

	ent := e.All()[0]
	assert.True(t, geo.PointIn(ent.Geometry, orb.Point{5, 6}), "bar interior kept")
	assert.False(t, geo.PointIn(ent.Geometry, orb.Point{5, 4}), "notch below the bar stays open")
}

func TestAdd_MergeClosure(t *testing.T) {
	// Overlapping k entities reduces count by k-1 net, and the union is
	// at least as large as any input.
	e, _ := newTestEngine(t)

	areas := []float64{}
	e.Add(squareGeom(0, 0, 2), false)
	areas = append(areas, 4)
	e.Add(squareGeom(3, 0, 2), false)
	areas = append(areas, 4)
	e.Add(squareGeom(6, 0, 2), false)
	areas = append(areas, 4)
	require.Equal(t, 3, e.Count())

	// A bar crossing all three.
	e.Add(geo.FromRing(orb.Ring{{-1, 0.5}, {9, 0.5}, {9, 1.5}, {-1, 1.5}, {-1, 0.5}}), false)

	assert.Equal(t, 1, e.Count())
	got := totalArea(e)
	for _, a := range areas {
		assert.GreaterOrEqual(t, got, a, "union monotonicity")
	}
}

func TestAdd_SkipMergeCheckRegistersDirectly(t *testing.T) {
	e, _ := newTestEngine(t)
	e.Add(squareGeom(0, 0, 2), false)

	e.Add(squareGeom(1, 1, 2), true)
	assert.Equal(t, 2, e.Count(), "skip flag bypasses interaction checks")
}

func TestAdd_MergeDisabledRegistersDirectly(t *testing.T) {
	settings := model.DefaultSettings()
	settings.MergeEnabled = false
	e := New(settings, (&handleTracker{}).factory)

	e.Add(squareGeom(0, 0, 2), false)
	e.Add(squareGeom(1, 1, 2), false)
	assert.Equal(t, 2, e.Count())
}

func TestAdd_KinkedInputBypassesMerging(t *testing.T) {
	e, _ := newTestEngine(t)
	e.Add(squareGeom(0, 0, 3), false)

	bowtie := geo.FromRing(orb.Ring{{1, 1}, {2, 2}, {2, 1}, {1, 2}, {1, 1}})
	ids := e.Add(bowtie, false)

	require.Len(t, ids, 1)
	assert.Equal(t, 2, e.Count(), "kinked input gets no topological treatment")
}

func TestAdd_InsideExistingCarvesHole(t *testing.T) {
	e, _ := newTestEngine(t)
	e.Add(squareGeom(0, 0, 10), false)

	ids := e.Add(squareGeom(3, 3, 2), false)

	require.Len(t, ids, 1)
	assert.Equal(t, 1, e.Count())

	ent := e.All()[0]
	assert.InDelta(t, 96.0, geo.Area(ent.Geometry), 1e-9, "100 - 4")
	assert.False(t, geo.PointIn(ent.Geometry, orb.Point{4, 4}), "hole interior excluded")
	assert.True(t, geo.PointIn(ent.Geometry, orb.Point{1, 1}))
}

func TestAdd_EnclosingExistingUnions(t *testing.T) {
	e, _ := newTestEngine(t)
	e.Add(squareGeom(3, 3, 2), false)

	e.Add(squareGeom(0, 0, 10), false)

	assert.Equal(t, 1, e.Count())
	assert.InDelta(t, 100.0, totalArea(e), 1e-9)
}

// failUnion breaks every union so fold steps must be skipped.
type failUnion struct {
	libPrimitives
}

func (failUnion) Union(a, b geo.Geometry) geo.OpResult {
	return geo.OpResult{Outcome: geo.OutcomeFail}
}

func TestAdd_FoldStepFailureSkipsEntityOnly(t *testing.T) {
	e, _ := newTestEngine(t)
	e.prim = failUnion{}

	e.Add(squareGeom(0, 0, 2), false)
	e.Add(squareGeom(3, 0, 2), false)
	require.Equal(t, 2, e.Count())

	// Overlaps both, but every union step fails: the incoming geometry is
	// still registered and the existing entities survive.
	ids := e.Add(geo.FromRing(orb.Ring{{-1, 0.5}, {6, 0.5}, {6, 1.5}, {-1, 1.5}, {-1, 0.5}}), false)

	require.Len(t, ids, 1)
	assert.Equal(t, 3, e.Count())
}

func TestSubtract_DisjointIsNoOp(t *testing.T) {
	e, _ := newTestEngine(t)
	e.Add(squareGeom(0, 0, 2), false)
	before := totalArea(e)

	ids := e.Subtract(squareGeom(10, 10, 2))

	assert.Empty(t, ids)
	assert.Equal(t, 1, e.Count())
	assert.InDelta(t, before, totalArea(e), 1e-12)
}

func TestSubtract_SingleTarget(t *testing.T) {
	e, _ := newTestEngine(t)
	e.Add(squareGeom(0, 0, 4), false)

	ids := e.Subtract(squareGeom(3, 3, 2))

	require.Len(t, ids, 1)
	assert.Equal(t, 1, e.Count())
	assert.InDelta(t, 15.0, totalArea(e), 1e-9, "16 - 1 overlap")
}

func TestSubtract_SplitsTargetIntoParts(t *testing.T) {
	e, _ := newTestEngine(t)
	e.Add(geo.FromRing(orb.Ring{{0, 0}, {6, 0}, {6, 1}, {0, 1}, {0, 0}}), false)

	ids := e.Subtract(geo.FromRing(orb.Ring{{2.5, -1}, {3.5, -1}, {3.5, 2}, {2.5, 2}, {2.5, -1}}))

	assert.Len(t, ids, 2, "a cut through the middle leaves two independent regions")
	assert.Equal(t, 2, e.Count())
	assert.InDelta(t, 5.0, totalArea(e), 1e-9)
}

func TestSubtract_FullConsumeRemovesTarget(t *testing.T) {
	e, _ := newTestEngine(t)
	e.Add(squareGeom(1, 1, 1), false)

	ids := e.Subtract(squareGeom(0, 0, 4))

	assert.Empty(t, ids)
	assert.Equal(t, 0, e.Count())
}

func TestSubtract_MultiTargetUnionsFirst(t *testing.T) {
	e, _ := newTestEngine(t)
	e.Add(squareGeom(0, 0, 2), false)
	e.Add(squareGeom(4, 0, 2), false)
	require.Equal(t, 2, e.Count())

	// A bar clipping the top of both squares.
	ids := e.Subtract(geo.FromRing(orb.Ring{{-1, 1}, {7, 1}, {7, 3}, {-1, 3}, {-1, 1}}))

	require.NotEmpty(t, ids)
	assert.Equal(t, 2, e.Count(), "bottoms of both squares remain")
	assert.InDelta(t, 4.0, totalArea(e), 1e-9, "half of each square survives")
}

func TestSubtract_DifferenceFailureLeavesTargetUntouched(t *testing.T) {
	e, _ := newTestEngine(t)
	e.Add(squareGeom(0, 0, 2), false)
	e.Add(squareGeom(1, 0, 2), false)
	require.Equal(t, 1, e.Count(), "the adds already merged")

	e.prim = failDifference{}
	ids := e.Subtract(squareGeom(0.5, 0.5, 1))

	assert.Empty(t, ids, "failed cut leaves the region untouched")
	assert.Equal(t, 1, e.Count())
}

// failDifference breaks every difference.
type failDifference struct {
	libPrimitives
}

func (failDifference) Difference(a, b geo.Geometry) geo.OpResult {
	return geo.OpResult{Outcome: geo.OutcomeFail}
}

func TestSetMode_RejectedWhileDragging(t *testing.T) {
	e, _ := newTestEngine(t)
	ids := e.Add(squareGeom(0, 0, 2), false)

	require.NoError(t, e.StartDrag(ids[0], orb.Point{1, 1}, false))
	assert.ErrorIs(t, e.SetMode(ModeAdd), ErrDragActive)

	e.EndDrag()
	assert.NoError(t, e.SetMode(ModeAdd))
}

func TestSetSettings_RejectedWhileDragging(t *testing.T) {
	e, _ := newTestEngine(t)
	ids := e.Add(squareGeom(0, 0, 2), false)

	settings := e.Settings()
	settings.MergeEnabled = false

	require.NoError(t, e.StartDrag(ids[0], orb.Point{1, 1}, false))
	assert.ErrorIs(t, e.SetSettings(settings), ErrDragActive)

	e.EndDrag()
	require.NoError(t, e.SetSettings(settings))
	assert.False(t, e.Settings().MergeEnabled)
}
