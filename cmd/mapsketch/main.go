// MapSketch — Freehand Map Region Editor
//
// A cross-platform desktop application for sketching polygonal map
// regions with live merging, carving, and drag-to-merge editing.
//
// Build:
//   go build -o mapsketch ./cmd/mapsketch
//
// Cross-compile:
//   GOOS=windows GOARCH=amd64 go build -o mapsketch.exe ./cmd/mapsketch
//   GOOS=darwin  GOARCH=amd64 go build -o mapsketch-darwin ./cmd/mapsketch

package main

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"

	"github.com/mapsketch/mapsketch/internal/ui"
)

func main() {
	application := app.NewWithID("io.mapsketch.mapsketch")

	window := application.NewWindow("MapSketch — Freehand Map Region Editor")

	appUI := ui.NewApp(application, window)
	appUI.SetupMenus()
	appUI.SetupKeyHandlers()
	window.SetContent(appUI.Build())
	window.Resize(fyne.NewSize(1200, 800))
	window.CenterOnScreen()
	window.Show()

	application.Run()
}
