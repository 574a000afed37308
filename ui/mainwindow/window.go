// Package mainwindow provides the main application window.
package mainwindow

import (
	"fmt"
	"io"
	"path/filepath"

	"wmstudio/internal/app"
	wmimage "wmstudio/internal/image"
	"wmstudio/internal/version"
	"wmstudio/ui/panels"
	"wmstudio/ui/prefs"
	"wmstudio/ui/preview"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/widget"
)

// MainWindow is the primary application window.
type MainWindow struct {
	fyne.Window
	app       fyne.App
	state     *app.State
	prefs     *prefs.Prefs
	preview   *preview.Preview
	sidePanel *panels.MarksPanel
	statusBar *widget.Label
}

// New creates a new main window.
func New(fyneApp fyne.App, state *app.State, p *prefs.Prefs) *MainWindow {
	win := fyneApp.NewWindow("Watermark Studio")

	mw := &MainWindow{
		Window: win,
		app:    fyneApp,
		state:  state,
		prefs:  p,
	}

	mw.setupUI()
	mw.setupMenus()
	mw.setupEventHandlers()
	mw.restoreFormat()

	win.Resize(fyne.NewSize(1100, 720))
	return mw
}

// setupUI creates the main UI layout.
func (mw *MainWindow) setupUI() {
	mw.preview = preview.New(mw.state)
	mw.sidePanel = panels.NewMarksPanel(mw.state, mw.prefs)
	mw.sidePanel.SetWindow(mw.Window)
	mw.statusBar = widget.NewLabel("Load a base image to start")

	split := container.NewHSplit(
		container.NewVScroll(mw.sidePanel.Container()),
		mw.preview,
	)
	split.SetOffset(0.28)

	content := container.NewBorder(
		nil,
		container.NewPadded(mw.statusBar),
		nil,
		nil,
		split,
	)
	mw.SetContent(content)
}

// setupMenus creates the application menus.
func (mw *MainWindow) setupMenus() {
	fileMenu := fyne.NewMenu("File",
		fyne.NewMenuItem("Open Base Image...", mw.onOpenBaseImage),
		fyne.NewMenuItem("Remove Base Image", func() {
			mw.state.RemoveBaseImage()
		}),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Export...", mw.onExport),
	)
	helpMenu := fyne.NewMenu("Help",
		fyne.NewMenuItem("About", func() {
			dialog.ShowInformation("Watermark Studio",
				fmt.Sprintf("Version %s (%s)", version.Version, version.GitCommit),
				mw.Window)
		}),
	)
	mw.SetMainMenu(fyne.NewMainMenu(fileMenu, helpMenu))
}

// setupEventHandlers keeps the status bar in sync with session events.
func (mw *MainWindow) setupEventHandlers() {
	mw.state.On(app.EventImageLoaded, func(data interface{}) {
		if base, ok := data.(*wmimage.BaseImage); ok {
			mw.setStatus(fmt.Sprintf("Loaded %s (%dx%d)", base.Name, base.Width(), base.Height()))
		}
	})
	mw.state.On(app.EventImageRemoved, func(interface{}) {
		mw.setStatus("Base image removed")
	})
	mw.state.On(app.EventExportDone, func(data interface{}) {
		if path, ok := data.(string); ok {
			mw.setStatus("Exported " + path)
		}
	})
	mw.state.On(app.EventError, func(data interface{}) {
		if msg, ok := data.(string); ok {
			mw.setStatus(msg)
		}
	})
}

func (mw *MainWindow) setStatus(text string) {
	mw.statusBar.SetText(text)
}

// restoreFormat reapplies the export format from the last session.
func (mw *MainWindow) restoreFormat() {
	if name := mw.prefs.String(prefs.KeyExportFormat); name != "" {
		mw.state.ChangeExportFormat(name)
	}
}

// onOpenBaseImage prompts for a base image and loads it.
func (mw *MainWindow) onOpenBaseImage() {
	fd := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil || reader == nil {
			return
		}
		defer reader.Close()

		data, err := io.ReadAll(reader)
		if err != nil {
			dialog.ShowError(err, mw.Window)
			return
		}
		name := filepath.Base(reader.URI().Path())
		mw.prefs.SetString(prefs.KeyLastDir, filepath.Dir(reader.URI().Path()))

		go func() {
			if err := mw.state.LoadBaseImage(name, data); err != nil {
				return // surfaced via EventError
			}
		}()
	}, mw.Window)
	fd.SetFilter(storage.NewExtensionFileFilter([]string{".png", ".jpg", ".jpeg", ".gif", ".bmp", ".tif", ".tiff", ".webp"}))
	fd.Show()
}

// onExport prompts for a destination and exports the composited result.
func (mw *MainWindow) onExport() {
	if !mw.state.BaseImage().Loaded() {
		dialog.ShowInformation("Export", "Load a base image first", mw.Window)
		return
	}
	format := mw.state.Format()

	fd := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err != nil || writer == nil {
			return
		}
		path := writer.URI().Path()
		writer.Close()

		go func() {
			if err := mw.state.Export(path); err != nil {
				return // surfaced via EventError
			}
		}()
	}, mw.Window)
	fd.SetFileName("watermarked" + format.Ext)
	fd.Show()
}

// SavePreferences persists UI preferences to disk.
func (mw *MainWindow) SavePreferences() {
	if err := mw.prefs.Save(); err != nil {
		mw.setStatus("Failed to save preferences: " + err.Error())
	}
}
