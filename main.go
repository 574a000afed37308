// Package main provides the entry point for the Watermark Studio application.
package main

import (
	"log"
	"os"

	"wmstudio/internal/app"
	"wmstudio/internal/metrics"
	"wmstudio/internal/render"
	"wmstudio/internal/version"
	"wmstudio/ui/mainwindow"
	"wmstudio/ui/prefs"

	fyneapp "fyne.io/fyne/v2/app"
)

const appTitle = "Watermark Studio"

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Printf("Starting %s v%s", appTitle, version.Version)

	renderer, err := render.NewRenderer()
	if err != nil {
		log.Fatalf("renderer init failed: %v", err)
	}

	state := app.NewState(renderer)
	state.SetMeasurer(metrics.NewFontMeasurer(renderer.Fonts(), state.ApplyMeasurement))

	fyneApp := fyneapp.New()
	fyneApp.Settings().SetTheme(&app.StudioTheme{})

	appPrefs := prefs.Load()
	win := mainwindow.New(fyneApp, state, appPrefs)

	// Handle command line arguments
	if len(os.Args) > 1 {
		imagePath := os.Args[1]
		if err := state.LoadBaseImageFile(imagePath); err != nil {
			log.Printf("Failed to load image %s: %v", imagePath, err)
		}
	}

	win.SetOnClosed(func() {
		win.SavePreferences()
	})

	win.ShowAndRun()
}
