// Package export provides functionality for exporting sketched regions to
// various file formats.
package export

import (
	"fmt"
	"os"

	"github.com/paulmach/orb/geojson"

	"github.com/mapsketch/mapsketch/internal/engine"
	"github.com/mapsketch/mapsketch/internal/geo"
)

// ExportGeoJSON writes the regions as a GeoJSON feature collection. Each
// feature carries the region id and a few derived measurements as
// properties, so exported files survive a round trip through the importer.
func ExportGeoJSON(path string, regions []engine.Entity) error {
	data, err := GeoJSONBytes(regions)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// GeoJSONBytes renders the regions as GeoJSON without touching the
// filesystem.
func GeoJSONBytes(regions []engine.Entity) ([]byte, error) {
	if len(regions) == 0 {
		return nil, fmt.Errorf("no regions to export")
	}

	fc := geojson.NewFeatureCollection()
	for _, r := range regions {
		f := geojson.NewFeature(r.Geometry.Orb())
		f.Properties["id"] = r.ID
		f.Properties["area"] = geo.Area(r.Geometry)
		f.Properties["perimeter"] = geo.Perimeter(r.Geometry)
		f.Properties["holes"] = holeCount(r.Geometry)
		fc.Append(f)
	}

	data, err := fc.MarshalJSON()
	if err != nil {
		return nil, fmt.Errorf("failed to encode GeoJSON: %w", err)
	}
	return data, nil
}

// holeCount returns the number of interior rings across all parts.
func holeCount(g geo.Geometry) int {
	holes := 0
	for _, p := range g.Parts() {
		if len(p) > 1 {
			holes += len(p) - 1
		}
	}
	return holes
}
