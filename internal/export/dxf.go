package export

import (
	"fmt"

	"github.com/yofu/dxf"

	"github.com/mapsketch/mapsketch/internal/engine"
)

// ExportDXF writes the regions as a DXF drawing. Every ring, outer and
// hole alike, becomes a closed LWPOLYLINE on a layer named after its
// region, which is what the importer chains back into nested rings.
func ExportDXF(path string, regions []engine.Entity) error {
	if len(regions) == 0 {
		return fmt.Errorf("no regions to export")
	}

	d := dxf.NewDrawing()

	for _, r := range regions {
		if _, err := d.AddLayer("region_"+r.ID, dxf.DefaultColor, dxf.DefaultLineType, true); err != nil {
			return fmt.Errorf("failed to add layer for region %s: %w", r.ID, err)
		}

		for _, part := range r.Geometry.Parts() {
			for _, ring := range part {
				vertices := make([][]float64, 0, len(ring))
				for i, pt := range ring {
					// LWPOLYLINE closes itself; skip the closing vertex.
					if i == len(ring)-1 && pt == ring[0] {
						break
					}
					vertices = append(vertices, []float64{pt[0], pt[1]})
				}
				if len(vertices) < 3 {
					continue
				}
				if _, err := d.LwPolyline(true, vertices...); err != nil {
					return fmt.Errorf("failed to write outline for region %s: %w", r.ID, err)
				}
			}
		}
	}

	return d.SaveAs(path)
}
