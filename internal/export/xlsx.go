package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/mapsketch/mapsketch/internal/engine"
	"github.com/mapsketch/mapsketch/internal/geo"
)

// xlsxHeaders is the column layout of the region inventory sheet.
var xlsxHeaders = []string{"Region ID", "Parts", "Holes", "Vertices", "Area", "Perimeter", "Convexity"}

// ExportXLSX writes a region inventory spreadsheet with one row per region
// and a totals row at the bottom.
func ExportXLSX(path string, regions []engine.Entity) error {
	if len(regions) == 0 {
		return fmt.Errorf("no regions to export")
	}

	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Regions"
	index, err := f.NewSheet(sheet)
	if err != nil {
		return fmt.Errorf("failed to create sheet: %w", err)
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return fmt.Errorf("failed to remove default sheet: %w", err)
	}

	for col, header := range xlsxHeaders {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		if err := f.SetCellValue(sheet, cell, header); err != nil {
			return fmt.Errorf("failed to write header: %w", err)
		}
	}

	for i, r := range regions {
		row := i + 2
		values := []interface{}{
			r.ID,
			len(r.Geometry.Parts()),
			holeCount(r.Geometry),
			r.Geometry.VertexCount(),
			geo.Area(r.Geometry),
			geo.Perimeter(r.Geometry),
			geo.Convexity(r.Geometry),
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row)
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return fmt.Errorf("failed to write region %s: %w", r.ID, err)
			}
		}
	}

	totalRow := len(regions) + 2
	totals := []interface{}{
		"Total",
		nil,
		nil,
		nil,
		totalArea(regions),
		totalPerimeter(regions),
		nil,
	}
	for col, v := range totals {
		if v == nil {
			continue
		}
		cell, _ := excelize.CoordinatesToCellName(col+1, totalRow)
		if err := f.SetCellValue(sheet, cell, v); err != nil {
			return fmt.Errorf("failed to write totals: %w", err)
		}
	}

	if err := f.SetColWidth(sheet, "A", "A", 14); err != nil {
		return fmt.Errorf("failed to size columns: %w", err)
	}

	return f.SaveAs(path)
}
