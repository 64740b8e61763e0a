package importer

import (
	"fmt"
	"os"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"github.com/mapsketch/mapsketch/internal/geo"
)

// ImportGeoJSON imports regions from a GeoJSON file. Polygon and
// MultiPolygon features become regions; other geometry types are skipped
// with a warning.
func ImportGeoJSON(path string) ImportResult {
	data, err := os.ReadFile(path)
	if err != nil {
		return ImportResult{Errors: []string{fmt.Sprintf("Cannot open GeoJSON file: %v", err)}}
	}
	return ImportGeoJSONData(data)
}

// ImportGeoJSONData imports regions from raw GeoJSON bytes. A feature
// collection, a single feature, and a bare geometry are all accepted.
func ImportGeoJSONData(data []byte) ImportResult {
	result := ImportResult{}

	features, err := decodeFeatures(data)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot parse GeoJSON: %v", err))
		return result
	}
	if len(features) == 0 {
		result.Errors = append(result.Errors, "GeoJSON contains no features")
		return result
	}

	for i, f := range features {
		if f.Geometry == nil {
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("Skipped feature %d: no geometry", i+1))
			continue
		}
		g, ok := regionFromOrb(f.Geometry)
		if !ok {
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("Skipped feature %d: unsupported geometry type %s", i+1, f.Geometry.GeoJSONType()))
			continue
		}
		if g.IsZero() {
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("Skipped feature %d: empty geometry", i+1))
			continue
		}
		if geo.Area(g) < geo.AreaEpsilon {
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("Skipped feature %d: degenerate geometry", i+1))
			continue
		}
		if geo.SelfIntersects(g) {
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("Feature %d is self-intersecting and will not merge with other regions", i+1))
		}
		result.Geometries = append(result.Geometries, g)
	}

	if len(result.Geometries) == 0 && len(result.Errors) == 0 {
		result.Errors = append(result.Errors, "No polygonal features found in GeoJSON")
	}
	return result
}

// decodeFeatures accepts a FeatureCollection, a single Feature, or a bare
// geometry and returns a flat feature list.
func decodeFeatures(data []byte) ([]*geojson.Feature, error) {
	if fc, err := geojson.UnmarshalFeatureCollection(data); err == nil {
		return fc.Features, nil
	}
	if f, err := geojson.UnmarshalFeature(data); err == nil {
		return []*geojson.Feature{f}, nil
	}
	g, err := geojson.UnmarshalGeometry(data)
	if err != nil {
		return nil, err
	}
	return []*geojson.Feature{geojson.NewFeature(g.Geometry())}, nil
}

func regionFromOrb(og orb.Geometry) (geo.Geometry, bool) {
	switch v := og.(type) {
	case orb.Polygon:
		return geo.FromPolygon(v), true
	case orb.MultiPolygon:
		return geo.FromMultiPolygon(v), true
	case orb.Ring:
		return geo.FromRing(v), true
	default:
		return geo.Geometry{}, false
	}
}
