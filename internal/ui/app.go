// Package ui builds the MapSketch desktop application: the menu bar, the
// interactive sketch canvas, and the settings dialogs.
package ui

import (
	"fmt"
	"strconv"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/widget"

	"github.com/mapsketch/mapsketch/internal/engine"
	"github.com/mapsketch/mapsketch/internal/export"
	"github.com/mapsketch/mapsketch/internal/geo"
	"github.com/mapsketch/mapsketch/internal/importer"
	"github.com/mapsketch/mapsketch/internal/model"
	"github.com/mapsketch/mapsketch/internal/project"
	"github.com/mapsketch/mapsketch/internal/ui/widgets"
)

// App holds all application state and UI references.
type App struct {
	application fyne.App
	window      fyne.Window

	config model.AppConfig
	engine *engine.Engine
	sketch *widgets.SketchCanvas

	statusLabel *widget.Label
	modeGroup   *widget.RadioGroup
}

func NewApp(application fyne.App, window fyne.Window) *App {
	a := &App{
		application: application,
		window:      window,
	}

	config, err := project.LoadAppConfig(project.DefaultConfigPath())
	if err != nil {
		config = model.DefaultAppConfig()
	}
	a.config = config

	settings := model.DefaultSettings()
	a.config.ApplyToSettings(&settings)

	// The factory closure resolves the canvas lazily; the first region is
	// registered long after both exist.
	a.engine = engine.New(settings, func(g geo.Geometry, level int) engine.Handle {
		return a.sketch.NewHandle(g, level)
	})
	a.sketch = widgets.NewSketchCanvas(a.engine, a.setStatus)

	return a
}

// SetupMenus creates the native menu bar for the application.
func (a *App) SetupMenus() {
	fileMenu := fyne.NewMenu("File",
		fyne.NewMenuItem("Import Regions...", func() {
			a.importRegions()
		}),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Export GeoJSON...", func() {
			a.exportWith("sketch.geojson", export.ExportGeoJSON)
		}),
		fyne.NewMenuItem("Export DXF...", func() {
			a.exportWith("sketch.dxf", export.ExportDXF)
		}),
		fyne.NewMenuItem("Export PDF Sheet...", func() {
			a.exportWith("sketch.pdf", export.ExportPDF)
		}),
		fyne.NewMenuItem("Export QR Labels...", func() {
			a.exportWith("labels.pdf", export.ExportLabels)
		}),
		fyne.NewMenuItem("Export Inventory...", func() {
			a.exportWith("inventory.xlsx", export.ExportXLSX)
		}),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Quit", func() {
			a.window.Close()
		}),
	)

	editMenu := fyne.NewMenu("Edit",
		fyne.NewMenuItem("Clear Sketch", func() {
			dialog.ShowConfirm("Clear Sketch", "Remove all regions?", func(ok bool) {
				if !ok {
					return
				}
				a.engine.Clear()
				a.sketch.Refresh()
				a.setStatus("Sketch cleared")
			}, a.window)
		}),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Settings...", func() {
			a.showSettingsDialog()
		}),
	)

	modeMenu := fyne.NewMenu("Mode",
		fyne.NewMenuItem("Select / Drag", func() {
			a.switchMode(engine.ModeOff)
		}),
		fyne.NewMenuItem("Draw Regions", func() {
			a.switchMode(engine.ModeAdd)
		}),
		fyne.NewMenuItem("Erase Regions", func() {
			a.switchMode(engine.ModeSubtract)
		}),
	)

	helpMenu := fyne.NewMenu("Help",
		fyne.NewMenuItem("About", func() {
			a.showAboutDialog()
		}),
	)

	a.window.SetMainMenu(fyne.NewMainMenu(fileMenu, editMenu, modeMenu, helpMenu))
}

// SetupKeyHandlers wires the subtract modifier key to the sketch canvas so
// a drag in flight can flip between move and subtract.
func (a *App) SetupKeyHandlers() {
	deskCanvas, ok := a.window.Canvas().(desktop.Canvas)
	if !ok {
		return
	}
	deskCanvas.SetOnKeyDown(func(ev *fyne.KeyEvent) {
		if isModifierKey(ev.Name, a.engine.Settings().Modifier) {
			a.sketch.SetModifier(true)
		}
	})
	deskCanvas.SetOnKeyUp(func(ev *fyne.KeyEvent) {
		if isModifierKey(ev.Name, a.engine.Settings().Modifier) {
			a.sketch.SetModifier(false)
		}
	})
}

// isModifierKey reports whether a key event matches the configured
// subtract modifier.
func isModifierKey(name fyne.KeyName, modifier model.ModifierKey) bool {
	switch modifier {
	case model.ModifierControl:
		return name == desktop.KeyControlLeft || name == desktop.KeyControlRight
	case model.ModifierShift:
		return name == desktop.KeyShiftLeft || name == desktop.KeyShiftRight
	default:
		return name == desktop.KeyAltLeft || name == desktop.KeyAltRight
	}
}

func (a *App) showAboutDialog() {
	dialog.ShowInformation(
		"About MapSketch",
		"MapSketch — Freehand Map Region Editor\n\n"+
			"Draw, merge, carve, and drag polygonal regions\n"+
			"on an interactive sketching surface.\n\n"+
			"Version 1.0.0",
		a.window,
	)
}

// Build constructs the full UI and returns the root container.
func (a *App) Build() fyne.CanvasObject {
	a.statusLabel = widget.NewLabel("Ready")

	a.modeGroup = widget.NewRadioGroup([]string{"Select / Drag", "Draw", "Erase"}, func(selected string) {
		switch selected {
		case "Draw":
			a.switchMode(engine.ModeAdd)
		case "Erase":
			a.switchMode(engine.ModeSubtract)
		default:
			a.switchMode(engine.ModeOff)
		}
	})
	a.modeGroup.Horizontal = true
	a.modeGroup.SetSelected("Select / Drag")

	mergeCheck := widget.NewCheck("Merge on contact", func(on bool) {
		settings := a.engine.Settings()
		settings.MergeEnabled = on
		if err := a.engine.SetSettings(settings); err != nil {
			dialog.ShowError(err, a.window)
		}
	})
	mergeCheck.SetChecked(a.engine.Settings().MergeEnabled)

	toolbar := container.NewHBox(
		widget.NewLabelWithStyle("Mode:", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		a.modeGroup,
		layout.NewSpacer(),
		mergeCheck,
	)

	return container.NewBorder(
		toolbar,
		a.statusLabel,
		nil, nil,
		container.NewScroll(a.sketch),
	)
}

func (a *App) switchMode(m engine.Mode) {
	if err := a.engine.SetMode(m); err != nil {
		dialog.ShowError(err, a.window)
		return
	}
	a.setStatus(fmt.Sprintf("Mode: %s", m))
}

func (a *App) setStatus(msg string) {
	if a.statusLabel == nil {
		return
	}
	if msg == "" {
		msg = "Ready"
	}
	a.statusLabel.SetText(msg)
}

// ─── Settings ──────────────────────────────────────────────

func (a *App) showSettingsDialog() {
	settings := a.engine.Settings()

	mergeCheck := widget.NewCheck("Merge overlapping regions", nil)
	mergeCheck.SetChecked(settings.MergeEnabled)

	dragCheck := widget.NewCheck("Allow dragging regions", nil)
	dragCheck.SetChecked(settings.DraggingEnabled)

	modifierSelect := widget.NewSelect([]string{"Alt", "Control", "Shift"}, nil)
	modifierSelect.SetSelected(string(settings.Modifier))

	levelEntry := widget.NewEntry()
	levelEntry.SetText(strconv.Itoa(settings.OptimizationLevel))

	toleranceEntry := widget.NewEntry()
	toleranceEntry.SetText(fmt.Sprintf("%.2f", settings.SimplifyTolerance))

	form := dialog.NewForm("Settings", "Save", "Cancel",
		[]*widget.FormItem{
			widget.NewFormItem("Merging", mergeCheck),
			widget.NewFormItem("Dragging", dragCheck),
			widget.NewFormItem("Subtract modifier", modifierSelect),
			widget.NewFormItem("Render optimization level", levelEntry),
			widget.NewFormItem("Simplify tolerance", toleranceEntry),
		},
		func(ok bool) {
			if !ok {
				return
			}
			level, err := strconv.Atoi(levelEntry.Text)
			if err != nil || level < 0 {
				dialog.ShowError(fmt.Errorf("optimization level must be a non-negative integer"), a.window)
				return
			}
			tolerance, err := strconv.ParseFloat(toleranceEntry.Text, 64)
			if err != nil || tolerance < 0 {
				dialog.ShowError(fmt.Errorf("simplify tolerance must be a non-negative number"), a.window)
				return
			}

			settings.MergeEnabled = mergeCheck.Checked
			settings.DraggingEnabled = dragCheck.Checked
			settings.Modifier = model.ModifierKey(modifierSelect.Selected)
			settings.OptimizationLevel = level
			settings.SimplifyTolerance = tolerance

			if err := a.engine.SetSettings(settings); err != nil {
				dialog.ShowError(err, a.window)
				return
			}
			a.sketch.Refresh()
			a.persistSettings(settings)
		},
		a.window,
	)
	form.Resize(fyne.NewSize(420, 320))
	form.Show()
}

// persistSettings writes the current draw settings back as the saved
// defaults for the next session.
func (a *App) persistSettings(settings model.DrawSettings) {
	a.config.DefaultMergeEnabled = settings.MergeEnabled
	a.config.DefaultDraggingEnabled = settings.DraggingEnabled
	a.config.DefaultModifierKey = string(settings.Modifier)
	a.config.DefaultOptimizationLevel = settings.OptimizationLevel
	a.config.DefaultSimplifyTolerance = settings.SimplifyTolerance

	if err := project.SaveAppConfig(project.DefaultConfigPath(), a.config); err != nil {
		dialog.ShowError(err, a.window)
	}
}

// ─── Import / Export ───────────────────────────────────────

func (a *App) importRegions() {
	d := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil || reader == nil {
			return
		}
		defer reader.Close()
		path := reader.URI().Path()

		result, err := importer.ImportFile(path)
		if err != nil {
			dialog.ShowError(err, a.window)
			return
		}
		a.handleImportResult(path, result)
	}, a.window)
	d.SetFilter(storage.NewExtensionFileFilter([]string{".geojson", ".json", ".dxf"}))
	d.Show()
}

func (a *App) handleImportResult(path string, result importer.ImportResult) {
	if len(result.Errors) > 0 {
		dialog.ShowError(fmt.Errorf("import failed: %s", result.Errors[0]), a.window)
		return
	}

	// Imported regions register as drawn, merge rules included.
	added := 0
	for _, g := range result.Geometries {
		added += len(a.engine.Add(g, false))
	}
	a.sketch.Refresh()
	a.rememberRecentFile(path)

	msg := fmt.Sprintf("Imported %d region(s), %d on the sketch", added, a.engine.Count())
	if len(result.Warnings) > 0 {
		msg += fmt.Sprintf("\n\n%d warning(s), first: %s", len(result.Warnings), result.Warnings[0])
	}
	dialog.ShowInformation("Import Complete", msg, a.window)
	a.setStatus(fmt.Sprintf("Imported %d region(s)", added))
}

func (a *App) rememberRecentFile(path string) {
	recent := []string{path}
	for _, p := range a.config.RecentFiles {
		if p != path && len(recent) < 10 {
			recent = append(recent, p)
		}
	}
	a.config.RecentFiles = recent
	if err := project.SaveAppConfig(project.DefaultConfigPath(), a.config); err != nil {
		a.setStatus(fmt.Sprintf("Could not save preferences: %v", err))
	}
}

// exportWith prompts for a target file and hands the live regions to the
// given export function.
func (a *App) exportWith(defaultName string, exportFn func(string, []engine.Entity) error) {
	regions := a.engine.All()
	if len(regions) == 0 {
		dialog.ShowInformation("Nothing to export", "Draw at least one region first.", a.window)
		return
	}

	d := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err != nil || writer == nil {
			return
		}
		defer writer.Close()
		path := writer.URI().Path()
		if err := exportFn(path, regions); err != nil {
			dialog.ShowError(err, a.window)
			return
		}
		dialog.ShowInformation("Export Complete", fmt.Sprintf("Saved to %s", path), a.window)
	}, a.window)
	d.SetFileName(defaultName)
	d.Show()
}
