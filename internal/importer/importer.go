// Package importer loads drawn regions from external files. It supports
// GeoJSON feature collections and DXF drawings, turning each closed shape
// into a region geometry ready for registration.
package importer

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/mapsketch/mapsketch/internal/geo"
)

// ImportResult holds the results of an import operation.
type ImportResult struct {
	Geometries []geo.Geometry
	Errors     []string
	Warnings   []string
}

// Empty reports whether the import produced no usable geometry.
func (r ImportResult) Empty() bool {
	return len(r.Geometries) == 0
}

// ImportFile dispatches to the right importer based on the file extension.
func ImportFile(path string) (ImportResult, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".geojson", ".json":
		return ImportGeoJSON(path), nil
	case ".dxf":
		return ImportDXF(path), nil
	default:
		return ImportResult{}, fmt.Errorf("unsupported file type: %s", filepath.Ext(path))
	}
}
