package export

import (
	"fmt"
	"math"
	"sort"

	"github.com/go-pdf/fpdf"
	"github.com/paulmach/orb"

	"github.com/mapsketch/mapsketch/internal/engine"
	"github.com/mapsketch/mapsketch/internal/geo"
)

// regionColor represents an RGB fill color for a drawn region.
type regionColor struct {
	R, G, B int
}

// regionColors mirrors the color scheme used by the sketch canvas widget.
var regionColors = []regionColor{
	{R: 76, G: 175, B: 80},  // green
	{R: 33, G: 150, B: 243}, // blue
	{R: 255, G: 152, B: 0},  // orange
	{R: 156, G: 39, B: 176}, // purple
	{R: 0, G: 188, B: 212},  // cyan
	{R: 244, G: 67, B: 54},  // red
	{R: 255, G: 235, B: 59}, // yellow
	{R: 121, G: 85, B: 72},  // brown
}

// Page layout constants (A4 landscape in mm).
const (
	pageWidth    = 297.0
	pageHeight   = 210.0
	marginLeft   = 15.0
	marginRight  = 15.0
	marginTop    = 15.0
	marginBottom = 15.0
	headerHeight = 12.0
	legendHeight = 20.0
	drawAreaTop  = marginTop + headerHeight + 5.0
)

// ExportPDF generates a PDF document with the sketched regions rendered to
// scale on a single page, followed by a summary page with per-region
// measurements.
func ExportPDF(path string, regions []engine.Entity) error {
	if len(regions) == 0 {
		return fmt.Errorf("no regions to export")
	}

	pdf := fpdf.New("L", "mm", "A4", "")
	pdf.SetAutoPageBreak(false, marginBottom)

	pdf.AddPage()
	renderSketchPage(pdf, regions)

	pdf.AddPage()
	renderSummaryPage(pdf, regions)

	return pdf.OutputFileAndClose(path)
}

// renderSketchPage draws all regions, scaled to fit the page.
func renderSketchPage(pdf *fpdf.Fpdf, regions []engine.Entity) {
	bound := sketchBound(regions)
	sketchW := bound.Max[0] - bound.Min[0]
	sketchH := bound.Max[1] - bound.Min[1]
	if sketchW <= 0 {
		sketchW = 1
	}
	if sketchH <= 0 {
		sketchH = 1
	}

	// Title
	pdf.SetFont("Helvetica", "B", 14)
	pdf.SetXY(marginLeft, marginTop)
	title := fmt.Sprintf("Sketch (%.0f x %.0f units)", sketchW, sketchH)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, headerHeight, title, "", 0, "L", false, 0, "")

	// Stats line
	pdf.SetFont("Helvetica", "", 10)
	pdf.SetXY(marginLeft, marginTop+headerHeight)
	stats := fmt.Sprintf("Regions: %d | Total area: %.1f | Total perimeter: %.1f",
		len(regions), totalArea(regions), totalPerimeter(regions))
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 5, stats, "", 0, "L", false, 0, "")

	// Calculate scale to fit the sketch within the drawing area
	drawWidth := pageWidth - marginLeft - marginRight
	drawHeight := pageHeight - drawAreaTop - marginBottom - legendHeight
	scale := math.Min(drawWidth/sketchW, drawHeight/sketchH)

	canvasW := sketchW * scale
	canvasH := sketchH * scale
	offsetX := marginLeft + (drawWidth-canvasW)/2
	offsetY := drawAreaTop

	// Map background
	pdf.SetFillColor(245, 245, 240)
	pdf.SetDrawColor(100, 100, 100)
	pdf.SetLineWidth(0.5)
	pdf.Rect(offsetX, offsetY, canvasW, canvasH, "FD")

	project := func(pt orb.Point) (float64, float64) {
		x := offsetX + (pt[0]-bound.Min[0])*scale
		// Flip the vertical axis so sketch north is page up.
		y := offsetY + canvasH - (pt[1]-bound.Min[1])*scale
		return x, y
	}

	// Largest regions first so islands sketched inside holes stay visible.
	ordered := make([]engine.Entity, len(regions))
	copy(ordered, regions)
	sort.SliceStable(ordered, func(i, j int) bool {
		return geo.Area(ordered[i].Geometry) > geo.Area(ordered[j].Geometry)
	})

	colorFor := make(map[string]regionColor, len(regions))
	for i, r := range regions {
		colorFor[r.ID] = regionColors[i%len(regionColors)]
	}

	for _, r := range ordered {
		col := colorFor[r.ID]
		for _, part := range r.Geometry.Parts() {
			for ringIdx, ring := range part {
				pts := make([]fpdf.PointType, 0, len(ring))
				for _, pt := range ring {
					x, y := project(pt)
					pts = append(pts, fpdf.PointType{X: x, Y: y})
				}
				if len(pts) < 3 {
					continue
				}
				if ringIdx == 0 {
					pdf.SetFillColor(col.R, col.G, col.B)
				} else {
					// Holes punch back to the map background.
					pdf.SetFillColor(245, 245, 240)
				}
				pdf.SetDrawColor(30, 30, 30)
				pdf.SetLineWidth(0.3)
				pdf.Polygon(pts, "FD")
			}
		}

		labelRegion(pdf, r, scale, project)
	}

	drawDimensionAnnotations(pdf, sketchW, sketchH, offsetX, offsetY, canvasW, canvasH)
	drawRegionLegend(pdf, regions, colorFor, offsetY+canvasH+5)
}

// labelRegion writes the region id near its anchor point when the region is
// big enough on paper to hold it.
func labelRegion(pdf *fpdf.Fpdf, r engine.Entity, scale float64, project func(orb.Point) (float64, float64)) {
	b := r.Geometry.Bound()
	if (b.Max[0]-b.Min[0])*scale < 15 || (b.Max[1]-b.Min[1])*scale < 8 {
		return
	}

	x, y := project(geo.Centroid(r.Geometry))
	pdf.SetFont("Helvetica", "B", 7)
	pdf.SetTextColor(0, 0, 0)
	labelW := pdf.GetStringWidth(r.ID)
	pdf.SetXY(x-labelW/2, y-2)
	pdf.CellFormat(labelW, 4, r.ID, "", 0, "C", false, 0, "")
}

// drawDimensionAnnotations adds width and height labels outside the sketch
// rectangle.
func drawDimensionAnnotations(pdf *fpdf.Fpdf, sketchW, sketchH, offsetX, offsetY, canvasW, canvasH float64) {
	pdf.SetFont("Helvetica", "", 8)
	pdf.SetTextColor(80, 80, 80)

	widthLabel := fmt.Sprintf("%.1f units", sketchW)
	wLabelW := pdf.GetStringWidth(widthLabel)
	pdf.SetXY(offsetX+(canvasW-wLabelW)/2, offsetY+canvasH+1)
	pdf.CellFormat(wLabelW, 4, widthLabel, "", 0, "C", false, 0, "")

	heightLabel := fmt.Sprintf("%.1f units", sketchH)
	pdf.TransformBegin()
	pdf.TransformRotate(90, offsetX-3, offsetY+canvasH/2)
	hLabelW := pdf.GetStringWidth(heightLabel)
	pdf.SetXY(offsetX-3-hLabelW/2, offsetY+canvasH/2-2)
	pdf.CellFormat(hLabelW, 4, heightLabel, "", 0, "C", false, 0, "")
	pdf.TransformEnd()

	pdf.SetTextColor(0, 0, 0)
}

// drawRegionLegend renders a compact legend of regions at the bottom of the
// sketch page.
func drawRegionLegend(pdf *fpdf.Fpdf, regions []engine.Entity, colorFor map[string]regionColor, startY float64) {
	pdf.SetFont("Helvetica", "B", 8)
	pdf.SetTextColor(0, 0, 0)
	pdf.SetXY(marginLeft, startY)
	pdf.CellFormat(30, 4, "Regions:", "", 0, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 7)
	xPos := marginLeft + 32
	maxX := pageWidth - marginRight

	for _, r := range regions {
		col := colorFor[r.ID]
		label := fmt.Sprintf("%s (area %.1f)", r.ID, geo.Area(r.Geometry))
		if h := holeCount(r.Geometry); h > 0 {
			label += fmt.Sprintf(", %d holes", h)
		}
		labelW := pdf.GetStringWidth(label) + 6

		if xPos+labelW > maxX {
			startY += 5
			xPos = marginLeft
		}

		pdf.SetFillColor(col.R, col.G, col.B)
		pdf.Rect(xPos, startY+0.5, 3, 3, "F")

		pdf.SetXY(xPos+4, startY)
		pdf.CellFormat(labelW-4, 4, label, "", 0, "L", false, 0, "")

		xPos += labelW + 2
	}
}

// renderSummaryPage draws the measurement table for all regions.
func renderSummaryPage(pdf *fpdf.Fpdf, regions []engine.Entity) {
	pdf.SetFont("Helvetica", "B", 16)
	pdf.SetXY(marginLeft, marginTop)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 10, "Sketch Summary", "", 0, "L", false, 0, "")

	pdf.SetDrawColor(0, 0, 0)
	pdf.SetLineWidth(0.5)
	pdf.Line(marginLeft, marginTop+12, pageWidth-marginRight, marginTop+12)

	y := marginTop + 18

	pdf.SetFont("Helvetica", "B", 12)
	pdf.SetXY(marginLeft, y)
	pdf.CellFormat(100, 7, "Overall Statistics", "", 0, "L", false, 0, "")
	y += 9

	summaryItems := []struct {
		label string
		value string
	}{
		{"Regions", fmt.Sprintf("%d", len(regions))},
		{"Total Area", fmt.Sprintf("%.1f", totalArea(regions))},
		{"Total Perimeter", fmt.Sprintf("%.1f", totalPerimeter(regions))},
		{"Regions With Holes", fmt.Sprintf("%d", regionsWithHoles(regions))},
	}

	pdf.SetFont("Helvetica", "", 10)
	for _, item := range summaryItems {
		pdf.SetXY(marginLeft+5, y)
		pdf.CellFormat(60, 6, item.label+":", "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "B", 10)
		pdf.CellFormat(40, 6, item.value, "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 10)
		y += 7
	}

	y += 5

	pdf.SetFont("Helvetica", "B", 12)
	pdf.SetXY(marginLeft, y)
	pdf.CellFormat(100, 7, "Region Breakdown", "", 0, "L", false, 0, "")
	y += 9

	colWidths := []float64{35, 25, 25, 30, 40, 45, 35}
	headers := []string{"Region", "Parts", "Holes", "Vertices", "Area", "Perimeter", "Convexity"}

	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetFillColor(230, 230, 230)
	xPos := marginLeft
	for i, header := range headers {
		pdf.SetXY(xPos, y)
		pdf.CellFormat(colWidths[i], 6, header, "1", 0, "C", true, 0, "")
		xPos += colWidths[i]
	}
	y += 6

	pdf.SetFont("Helvetica", "", 9)
	for i, r := range regions {
		xPos = marginLeft
		rowData := []string{
			r.ID,
			fmt.Sprintf("%d", len(r.Geometry.Parts())),
			fmt.Sprintf("%d", holeCount(r.Geometry)),
			fmt.Sprintf("%d", r.Geometry.VertexCount()),
			fmt.Sprintf("%.1f", geo.Area(r.Geometry)),
			fmt.Sprintf("%.1f", geo.Perimeter(r.Geometry)),
			fmt.Sprintf("%.2f", geo.Convexity(r.Geometry)),
		}

		if i%2 == 0 {
			pdf.SetFillColor(245, 245, 245)
		} else {
			pdf.SetFillColor(255, 255, 255)
		}

		for j, cell := range rowData {
			pdf.SetXY(xPos, y)
			pdf.CellFormat(colWidths[j], 6, cell, "1", 0, "C", true, 0, "")
			xPos += colWidths[j]
		}
		y += 6

		if y > pageHeight-marginBottom-10 {
			pdf.AddPage()
			y = marginTop
		}
	}

	pdf.SetFont("Helvetica", "I", 8)
	pdf.SetTextColor(120, 120, 120)
	pdf.SetXY(marginLeft, pageHeight-marginBottom)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 4, "Generated by MapSketch", "", 0, "C", false, 0, "")
	pdf.SetTextColor(0, 0, 0)
}

// sketchBound returns the bounding box of all regions.
func sketchBound(regions []engine.Entity) orb.Bound {
	bound := regions[0].Geometry.Bound()
	for _, r := range regions[1:] {
		bound = bound.Union(r.Geometry.Bound())
	}
	return bound
}

func totalArea(regions []engine.Entity) float64 {
	total := 0.0
	for _, r := range regions {
		total += geo.Area(r.Geometry)
	}
	return total
}

func totalPerimeter(regions []engine.Entity) float64 {
	total := 0.0
	for _, r := range regions {
		total += geo.Perimeter(r.Geometry)
	}
	return total
}

func regionsWithHoles(regions []engine.Entity) int {
	count := 0
	for _, r := range regions {
		if holeCount(r.Geometry) > 0 {
			count++
		}
	}
	return count
}
