package export

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/go-pdf/fpdf"
	qrcode "github.com/skip2/go-qrcode"

	"github.com/mapsketch/mapsketch/internal/engine"
	"github.com/mapsketch/mapsketch/internal/geo"
	"github.com/mapsketch/mapsketch/internal/marker"
)

// LabelInfo holds the data encoded into each region label's QR code.
type LabelInfo struct {
	RegionID  string  `json:"id"`
	Area      float64 `json:"area"`
	Perimeter float64 `json:"perimeter"`
	Holes     int     `json:"holes"`
	AnchorX   float64 `json:"anchor_x"`
	AnchorY   float64 `json:"anchor_y"`
}

// Label layout constants for Avery 5160-compatible labels (3 columns, 10
// rows per page). Each label cell is approximately 66.7mm x 25.4mm on US
// Letter paper.
const (
	labelPageHeight = 279.4 // US Letter height in mm
	labelMarginTop  = 12.7
	labelMarginLeft = 4.8
	labelWidth      = 66.7
	labelHeight     = 25.4
	labelCols       = 3
	labelRows       = 10
	labelsPerPage   = labelCols * labelRows
	qrSize          = 20.0
	labelPadding    = 2.0
)

// ExportLabels generates a PDF of QR-coded labels, one per region. Each
// label carries the region id, its measurements, and a QR code encoding the
// same data as JSON for field surveys. Labels are laid out on a standard
// label sheet format (Avery 5160 / 3 columns x 10 rows on US Letter).
func ExportLabels(path string, regions []engine.Entity) error {
	labels := CollectLabelInfos(regions)
	if len(labels) == 0 {
		return fmt.Errorf("no regions to generate labels for")
	}

	pdf := fpdf.New("P", "mm", "Letter", "")
	pdf.SetAutoPageBreak(false, 0)

	for i, label := range labels {
		if i%labelsPerPage == 0 {
			pdf.AddPage()
		}

		posOnPage := i % labelsPerPage
		col := posOnPage % labelCols
		row := posOnPage / labelCols

		x := labelMarginLeft + float64(col)*labelWidth
		y := labelMarginTop + float64(row)*labelHeight

		if err := renderLabel(pdf, x, y, label); err != nil {
			return fmt.Errorf("failed to render label for %q: %w", label.RegionID, err)
		}
	}

	return pdf.OutputFileAndClose(path)
}

// renderLabel draws a single label at the given position.
func renderLabel(pdf *fpdf.Fpdf, x, y float64, info LabelInfo) error {
	// Light border as a cutting guide
	pdf.SetDrawColor(200, 200, 200)
	pdf.SetLineWidth(0.1)
	pdf.Rect(x, y, labelWidth, labelHeight, "D")

	qrData, err := json.Marshal(info)
	if err != nil {
		return fmt.Errorf("failed to marshal label info: %w", err)
	}

	qrPNG, err := qrcode.Encode(string(qrData), qrcode.Medium, 256)
	if err != nil {
		return fmt.Errorf("failed to generate QR code: %w", err)
	}

	imgName := "qr_" + info.RegionID
	pdf.RegisterImageOptionsReader(imgName, fpdf.ImageOptions{ImageType: "PNG"}, bytes.NewReader(qrPNG))

	// QR code on the right side of the label
	qrX := x + labelWidth - qrSize - labelPadding
	qrY := y + (labelHeight-qrSize)/2
	pdf.ImageOptions(imgName, qrX, qrY, qrSize, qrSize, false, fpdf.ImageOptions{ImageType: "PNG"}, 0, "")

	// Text area on the left
	textX := x + labelPadding
	textW := labelWidth - qrSize - 3*labelPadding

	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetTextColor(0, 0, 0)
	pdf.SetXY(textX, y+labelPadding)
	pdf.CellFormat(textW, 4.5, "Region "+info.RegionID, "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 7)
	pdf.SetXY(textX, y+labelPadding+5)
	pdf.CellFormat(textW, 3.5, fmt.Sprintf("Area %.1f, perimeter %.1f", info.Area, info.Perimeter), "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 6)
	pdf.SetTextColor(100, 100, 100)
	pdf.SetXY(textX, y+labelPadding+9)
	pdf.CellFormat(textW, 3, fmt.Sprintf("Anchor (%.1f, %.1f)", info.AnchorX, info.AnchorY), "", 1, "L", false, 0, "")

	if info.Holes > 0 {
		pdf.SetXY(textX, y+labelPadding+12.5)
		pdf.SetFont("Helvetica", "I", 6)
		pdf.SetTextColor(150, 100, 0)
		pdf.CellFormat(textW, 3, fmt.Sprintf("%d holes", info.Holes), "", 0, "L", false, 0, "")
	}

	pdf.SetTextColor(0, 0, 0)

	return nil
}

// CollectLabelInfos extracts label information from the regions for use in
// testing or alternative export formats.
func CollectLabelInfos(regions []engine.Entity) []LabelInfo {
	var labels []LabelInfo
	for _, r := range regions {
		anchor := marker.Anchor(r.Geometry)
		labels = append(labels, LabelInfo{
			RegionID:  r.ID,
			Area:      geo.Area(r.Geometry),
			Perimeter: geo.Perimeter(r.Geometry),
			Holes:     holeCount(r.Geometry),
			AnchorX:   anchor[0],
			AnchorY:   anchor[1],
		})
	}
	return labels
}
