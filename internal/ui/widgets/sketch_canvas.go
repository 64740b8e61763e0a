package widgets

import (
	"fmt"
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/widget"
	"github.com/paulmach/orb"

	"github.com/mapsketch/mapsketch/internal/engine"
	"github.com/mapsketch/mapsketch/internal/geo"
	"github.com/mapsketch/mapsketch/internal/marker"
)

// Region colors — cycle through these for visual distinction.
var regionColors = []color.NRGBA{
	{R: 76, G: 175, B: 80, A: 255},  // green
	{R: 33, G: 150, B: 243, A: 255}, // blue
	{R: 255, G: 152, B: 0, A: 255},  // orange
	{R: 156, G: 39, B: 176, A: 255}, // purple
	{R: 0, G: 188, B: 212, A: 255},  // cyan
	{R: 244, G: 67, B: 54, A: 255},  // red
	{R: 255, G: 235, B: 59, A: 255}, // yellow
	{R: 121, G: 85, B: 72, A: 255},  // brown
}

var strokeColor = color.NRGBA{R: 96, G: 96, B: 96, A: 255}

// strokeSampleStep is the minimum pointer travel before a new stroke vertex
// is recorded, in canvas units.
const strokeSampleStep = 2.0

// strokeMinArea is the smallest closed stroke that becomes a region.
const strokeMinArea = 4.0

// SketchCanvas is the interactive drawing surface. In add and subtract
// mode it captures freehand strokes and hands the closed outline to the
// engine; in off mode it drags existing regions.
type SketchCanvas struct {
	widget.BaseWidget

	engine   *engine.Engine
	onStatus func(string)

	modifierDown bool
	stroke       []orb.Point
	dragging     bool
	lastDragPos  orb.Point
}

func NewSketchCanvas(eng *engine.Engine, onStatus func(string)) *SketchCanvas {
	sc := &SketchCanvas{engine: eng, onStatus: onStatus}
	sc.ExtendBaseWidget(sc)
	return sc
}

// NewHandle is the HandleFactory the engine registers regions through.
func (sc *SketchCanvas) NewHandle(g geo.Geometry, optimizationLevel int) engine.Handle {
	return &regionHandle{canvas: sc}
}

// SetModifier records the subtract modifier state. A change while a drag
// session is open re-samples the session immediately.
func (sc *SketchCanvas) SetModifier(down bool) {
	if sc.modifierDown == down {
		return
	}
	sc.modifierDown = down
	if sc.dragging {
		sc.engine.UpdateDrag(sc.lastDragPos, down)
		sc.status(fmt.Sprintf("Drag: release will %s", sc.engine.DragPreview()))
	}
}

func (sc *SketchCanvas) status(msg string) {
	if sc.onStatus != nil {
		sc.onStatus(msg)
	}
}

// Tapped reports what is under the pointer.
func (sc *SketchCanvas) Tapped(ev *fyne.PointEvent) {
	if sc.engine.Mode() != engine.ModeOff {
		return
	}
	pt := orb.Point{float64(ev.Position.X), float64(ev.Position.Y)}
	id := sc.engine.HitTest(pt)
	if id == "" {
		sc.status("")
		return
	}
	if ent, ok := sc.engine.Get(id); ok {
		sc.status(fmt.Sprintf("Region %s: area %.1f, perimeter %.1f", id,
			geo.Area(ent.Geometry), geo.Perimeter(ent.Geometry)))
	}
}

// Dragged captures stroke points in the drawing modes and moves regions in
// off mode.
func (sc *SketchCanvas) Dragged(ev *fyne.DragEvent) {
	pt := orb.Point{float64(ev.Position.X), float64(ev.Position.Y)}

	switch sc.engine.Mode() {
	case engine.ModeAdd, engine.ModeSubtract:
		sc.appendStrokePoint(pt)
		sc.Refresh()

	case engine.ModeOff:
		if !sc.dragging {
			start := orb.Point{
				float64(ev.Position.X - ev.Dragged.DX),
				float64(ev.Position.Y - ev.Dragged.DY),
			}
			id := sc.engine.HitTest(start)
			if id == "" {
				return
			}
			if err := sc.engine.StartDrag(id, start, sc.modifierDown); err != nil {
				sc.status(err.Error())
				return
			}
			sc.dragging = true
		}
		sc.lastDragPos = pt
		sc.engine.UpdateDrag(pt, sc.modifierDown)
		sc.Refresh()
	}
}

// DragEnd closes the stroke or finalizes the drag session.
func (sc *SketchCanvas) DragEnd() {
	switch sc.engine.Mode() {
	case engine.ModeAdd, engine.ModeSubtract:
		sc.finishStroke()

	case engine.ModeOff:
		if !sc.dragging {
			return
		}
		sc.dragging = false
		res := sc.engine.EndDrag()
		sc.status(fmt.Sprintf("Drag finished: %s", res.Action))
		sc.Refresh()
	}
}

func (sc *SketchCanvas) appendStrokePoint(pt orb.Point) {
	if n := len(sc.stroke); n > 0 {
		last := sc.stroke[n-1]
		dx := pt[0] - last[0]
		dy := pt[1] - last[1]
		if dx*dx+dy*dy < strokeSampleStep*strokeSampleStep {
			return
		}
	}
	sc.stroke = append(sc.stroke, pt)
}

func (sc *SketchCanvas) finishStroke() {
	stroke := sc.stroke
	sc.stroke = nil
	defer sc.Refresh()

	g, ok := strokeToGeometry(stroke, sc.engine.Settings().SimplifyTolerance)
	if !ok {
		sc.status("Stroke too small, discarded")
		return
	}

	switch sc.engine.Mode() {
	case engine.ModeAdd:
		ids := sc.engine.Add(g, false)
		sc.status(fmt.Sprintf("Added: %d region(s), %d total", len(ids), sc.engine.Count()))
	case engine.ModeSubtract:
		sc.engine.Subtract(g)
		sc.status(fmt.Sprintf("Subtracted: %d region(s) remain", sc.engine.Count()))
	}
}

// strokeToGeometry closes a captured stroke into a region outline,
// smoothing it with the configured tolerance. Strokes without enough
// enclosed area are rejected.
func strokeToGeometry(stroke []orb.Point, tolerance float64) (geo.Geometry, bool) {
	if len(stroke) < 3 {
		return geo.Geometry{}, false
	}

	ring := make(orb.Ring, 0, len(stroke)+1)
	ring = append(ring, stroke...)
	ring = append(ring, stroke[0])

	g := geo.FromRing(ring)
	if tolerance > 0 {
		g = marker.RenderGeometry(g, 1, tolerance)
	}
	if geo.Area(g) < strokeMinArea {
		return geo.Geometry{}, false
	}
	return g, true
}

func (sc *SketchCanvas) CreateRenderer() fyne.WidgetRenderer {
	r := &sketchRenderer{sc: sc}
	r.rebuild()
	return r
}

// regionHandle is the render handle the engine attaches to each region.
// The canvas rebuilds from the registry on refresh, so the handle only
// tracks liveness and triggers redraws.
type regionHandle struct {
	canvas   *SketchCanvas
	attached bool
}

func (h *regionHandle) Attach(g geo.Geometry) {
	h.attached = true
	h.canvas.Refresh()
}

func (h *regionHandle) Detach() {
	h.attached = false
	h.canvas.Refresh()
}

func (h *regionHandle) Attached() bool { return h.attached }

func (h *regionHandle) SetGeometry(g geo.Geometry) {
	h.canvas.Refresh()
}

type sketchRenderer struct {
	sc      *SketchCanvas
	objects []fyne.CanvasObject
}

func (r *sketchRenderer) rebuild() {
	r.objects = nil

	settings := r.sc.engine.Settings()

	for i, ent := range r.sc.engine.All() {
		col := regionColors[i%len(regionColors)]
		display := marker.RenderGeometry(ent.Geometry, ent.OptimizationLevel, settings.SimplifyTolerance)

		for _, part := range display.Parts() {
			for _, ring := range part {
				r.addRingOutline(ring, col, 2)
			}
		}

		if marker.Visible(ent.Geometry, settings.MarkerMinArea) {
			r.addMarker(ent.ID, ent.Geometry, col)
		}
	}

	// In-progress stroke
	for i := 1; i < len(r.sc.stroke); i++ {
		r.objects = append(r.objects, r.line(r.sc.stroke[i-1], r.sc.stroke[i], strokeColor, 1))
	}
}

func (r *sketchRenderer) addRingOutline(ring orb.Ring, col color.NRGBA, width float32) {
	for i := 1; i < len(ring); i++ {
		r.objects = append(r.objects, r.line(ring[i-1], ring[i], col, width))
	}
}

func (r *sketchRenderer) line(a, b orb.Point, col color.NRGBA, width float32) *canvas.Line {
	l := canvas.NewLine(col)
	l.StrokeWidth = width
	l.Position1 = fyne.NewPos(float32(a[0]), float32(a[1]))
	l.Position2 = fyne.NewPos(float32(b[0]), float32(b[1]))
	return l
}

func (r *sketchRenderer) addMarker(id string, g geo.Geometry, col color.NRGBA) {
	anchor := marker.Anchor(g)

	dot := canvas.NewCircle(col)
	dot.StrokeColor = color.NRGBA{R: 30, G: 30, B: 30, A: 255}
	dot.StrokeWidth = 1
	dot.Resize(fyne.NewSize(8, 8))
	dot.Move(fyne.NewPos(float32(anchor[0])-4, float32(anchor[1])-4))
	r.objects = append(r.objects, dot)

	label := canvas.NewText(id, color.Black)
	label.TextSize = 10
	label.Move(fyne.NewPos(float32(anchor[0])+6, float32(anchor[1])-6))
	r.objects = append(r.objects, label)
}

func (r *sketchRenderer) Layout(size fyne.Size)        {}
func (r *sketchRenderer) Refresh()                     { r.rebuild(); canvas.Refresh(r.sc) }
func (r *sketchRenderer) Destroy()                     {}
func (r *sketchRenderer) Objects() []fyne.CanvasObject { return r.objects }
func (r *sketchRenderer) MinSize() fyne.Size           { return fyne.NewSize(800, 600) }
