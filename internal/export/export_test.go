package export

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/mapsketch/mapsketch/internal/engine"
	"github.com/mapsketch/mapsketch/internal/geo"
	"github.com/mapsketch/mapsketch/internal/importer"
)

func square(x, y, size float64) orb.Ring {
	return orb.Ring{
		{x, y}, {x + size, y}, {x + size, y + size}, {x, y + size}, {x, y},
	}
}

// buildTestRegions creates a realistic sketch: a donut, a plain square, and
// a small offset square.
func buildTestRegions() []engine.Entity {
	donut := geo.FromPolygon(orb.Polygon{square(0, 0, 10), square(3, 3, 4)})
	return []engine.Entity{
		{ID: "r1", Geometry: donut},
		{ID: "r2", Geometry: geo.FromRing(square(20, 0, 4))},
		{ID: "r3", Geometry: geo.FromRing(square(30, 5, 2))},
	}
}

func TestGeoJSONBytes_RoundTripsThroughImporter(t *testing.T) {
	data, err := GeoJSONBytes(buildTestRegions())
	require.NoError(t, err)

	result := importer.ImportGeoJSONData(data)

	require.Empty(t, result.Errors)
	require.Len(t, result.Geometries, 3)
	assert.InDelta(t, 84.0, geo.Area(result.Geometries[0]), 1e-9)
	assert.False(t, geo.PointIn(result.Geometries[0], orb.Point{5, 5}))
	assert.InDelta(t, 16.0, geo.Area(result.Geometries[1]), 1e-9)
	assert.InDelta(t, 4.0, geo.Area(result.Geometries[2]), 1e-9)
}

func TestExportGeoJSON_CreatesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sketch.geojson")

	require.NoError(t, ExportGeoJSON(path, buildTestRegions()))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))
}

func TestExportGeoJSON_EmptySketch(t *testing.T) {
	err := ExportGeoJSON(filepath.Join(t.TempDir(), "empty.geojson"), nil)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "no regions")
}

func TestExportDXF_RoundTripsThroughImporter(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sketch.dxf")

	require.NoError(t, ExportDXF(path, buildTestRegions()))

	result := importer.ImportDXF(path)

	require.Empty(t, result.Errors)
	require.Len(t, result.Geometries, 3)

	// The importer orders regions largest first.
	donut := result.Geometries[0]
	assert.InDelta(t, 84.0, geo.Area(donut), 1e-6)
	assert.False(t, geo.PointIn(donut, orb.Point{5, 5}))
}

func TestExportDXF_EmptySketch(t *testing.T) {
	err := ExportDXF(filepath.Join(t.TempDir(), "empty.dxf"), nil)

	require.Error(t, err)
}

func TestExportPDF_CreatesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sketch.pdf")

	require.NoError(t, ExportPDF(path, buildTestRegions()))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(1000))
}

func TestExportPDF_EmptySketch(t *testing.T) {
	err := ExportPDF(filepath.Join(t.TempDir(), "empty.pdf"), nil)

	require.Error(t, err)
}

func TestExportLabels_CreatesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "labels.pdf")

	require.NoError(t, ExportLabels(path, buildTestRegions()))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(1000))
}

func TestExportLabels_EmptySketch(t *testing.T) {
	err := ExportLabels(filepath.Join(t.TempDir(), "labels.pdf"), nil)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "no regions")
}

func TestExportLabels_ManyRegions(t *testing.T) {
	// More than one label page.
	var regions []engine.Entity
	for i := 0; i < 35; i++ {
		x := float64(i%6) * 10
		y := float64(i/6) * 10
		regions = append(regions, engine.Entity{
			ID:       fmt.Sprintf("r%02d", i),
			Geometry: geo.FromRing(square(x, y, 4)),
		})
	}

	path := filepath.Join(t.TempDir(), "labels.pdf")
	require.NoError(t, ExportLabels(path, regions))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(1000))
}

func TestCollectLabelInfos(t *testing.T) {
	labels := CollectLabelInfos(buildTestRegions())

	require.Len(t, labels, 3)

	assert.Equal(t, "r1", labels[0].RegionID)
	assert.InDelta(t, 84.0, labels[0].Area, 1e-9)
	assert.Equal(t, 1, labels[0].Holes)

	assert.Equal(t, "r2", labels[1].RegionID)
	assert.InDelta(t, 16.0, labels[1].Area, 1e-9)
	assert.Equal(t, 0, labels[1].Holes)
	assert.InDelta(t, 22.0, labels[1].AnchorX, 1e-9)
	assert.InDelta(t, 2.0, labels[1].AnchorY, 1e-9)
}

func TestExportXLSX_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "inventory.xlsx")

	require.NoError(t, ExportXLSX(path, buildTestRegions()))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	id, err := f.GetCellValue("Regions", "A2")
	require.NoError(t, err)
	assert.Equal(t, "r1", id)

	holes, err := f.GetCellValue("Regions", "C2")
	require.NoError(t, err)
	assert.Equal(t, "1", holes)

	area, err := f.GetCellValue("Regions", "E3")
	require.NoError(t, err)
	assert.Equal(t, "16", area)

	total, err := f.GetCellValue("Regions", "A5")
	require.NoError(t, err)
	assert.Equal(t, "Total", total)
}

func TestExportXLSX_EmptySketch(t *testing.T) {
	err := ExportXLSX(filepath.Join(t.TempDir(), "inventory.xlsx"), nil)

	require.Error(t, err)
}

func TestHoleCount(t *testing.T) {
	regions := buildTestRegions()

	assert.Equal(t, 1, holeCount(regions[0].Geometry))
	assert.Equal(t, 0, holeCount(regions[1].Geometry))
}
