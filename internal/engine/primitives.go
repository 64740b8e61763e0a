package engine

import "github.com/mapsketch/mapsketch/internal/geo"

// primitives is the geometry boundary the engine calls through. It exists
// so tests can substitute a failing implementation; production code always
// uses the geo package.
type primitives interface {
	Union(a, b geo.Geometry) geo.OpResult
	Difference(a, b geo.Geometry) geo.OpResult
	Intersection(a, b geo.Geometry) geo.OpResult
	Contains(a, b geo.Geometry) (bool, geo.Outcome)
	Intersects(a, b geo.Geometry) (bool, geo.Outcome)
	Area(g geo.Geometry) float64
	SelfIntersects(g geo.Geometry) bool
}

// libPrimitives delegates to the geo package.
type libPrimitives struct{}

func (libPrimitives) Union(a, b geo.Geometry) geo.OpResult        { return geo.Union(a, b) }
func (libPrimitives) Difference(a, b geo.Geometry) geo.OpResult   { return geo.Difference(a, b) }
func (libPrimitives) Intersection(a, b geo.Geometry) geo.OpResult { return geo.Intersection(a, b) }
func (libPrimitives) Contains(a, b geo.Geometry) (bool, geo.Outcome) {
	return geo.Contains(a, b)
}
func (libPrimitives) Intersects(a, b geo.Geometry) (bool, geo.Outcome) {
	return geo.Intersects(a, b)
}
func (libPrimitives) Area(g geo.Geometry) float64        { return geo.Area(g) }
func (libPrimitives) SelfIntersects(g geo.Geometry) bool { return geo.SelfIntersects(g) }
