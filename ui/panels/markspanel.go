// Package panels provides UI panels for the application.
package panels

import (
	"fmt"
	"strconv"

	"wmstudio/internal/app"
	"wmstudio/internal/export"
	"wmstudio/internal/mark"
	"wmstudio/pkg/geometry"
	"wmstudio/ui/prefs"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/widget"
)

// MarksPanel lists the session's watermarks and edits the selected one.
type MarksPanel struct {
	state     *app.State
	prefs     *prefs.Prefs
	window    fyne.Window
	container fyne.CanvasObject

	textEntry *widget.Entry
	markList  *widget.List

	// Property sheet for the selected mark.
	xEntry        *widget.Entry
	yEntry        *widget.Entry
	rotationEntry *widget.Entry
	opacityEntry  *widget.Entry
	tiledCheck    *widget.Check
	gapXEntry     *widget.Entry
	gapYEntry     *widget.Entry
	colorEntry    *widget.Entry
	fontEntry     *widget.Entry
	fontSizeEntry *widget.Entry
	scaleEntry    *widget.Entry

	formatRadio *widget.RadioGroup

	syncing bool // guards widget callbacks while loading values
}

// NewMarksPanel creates the watermark editing panel.
func NewMarksPanel(state *app.State, p *prefs.Prefs) *MarksPanel {
	mp := &MarksPanel{state: state, prefs: p}

	mp.textEntry = widget.NewEntry()
	mp.textEntry.SetPlaceHolder("Watermark text")

	addTextBtn := widget.NewButton("Add Text", func() {
		id := mp.state.AddWatermark(mark.KindText, mp.textEntry.Text)
		if id == app.NoSelection {
			return
		}
		// New text marks pick up the font used last session.
		if font := mp.prefs.String(prefs.KeyLastFont); font != "" {
			if m, ok := mp.state.SelectedMark(); ok && m.ID == id {
				m.Font = font
				mp.state.UpdateWatermark(m)
			}
		}
	})
	addImageBtn := widget.NewButton("Add Image...", func() {
		mp.openImageMarkDialog()
	})
	removeBtn := widget.NewButton("Remove Selected", func() {
		mp.state.RemoveSelectedWatermark()
	})

	mp.markList = widget.NewList(
		func() int { return len(mp.state.Marks()) },
		func() fyne.CanvasObject { return widget.NewLabel("") },
		func(i widget.ListItemID, obj fyne.CanvasObject) {
			marks := mp.state.Marks()
			if i < 0 || i >= len(marks) {
				return
			}
			m := marks[i]
			obj.(*widget.Label).SetText(fmt.Sprintf("%d. [%s] %s", i+1, m.Kind, m.Content))
		},
	)
	mp.markList.OnSelected = func(i widget.ListItemID) {
		if !mp.syncing {
			mp.state.SelectWatermark(i)
		}
	}
	mp.markList.OnUnselected = func(widget.ListItemID) {
		if !mp.syncing {
			mp.state.SelectWatermark(app.NoSelection)
		}
	}

	mp.buildPropertySheet()

	mp.formatRadio = widget.NewRadioGroup(supportedFormatNames(), func(name string) {
		if name != "" && !mp.syncing {
			mp.state.ChangeExportFormat(name)
			mp.prefs.SetString(prefs.KeyExportFormat, name)
		}
	})
	mp.formatRadio.SetSelected(state.Format().Name)

	form := mp.propertyForm()

	mp.container = container.NewVBox(
		widget.NewLabel("Watermarks"),
		mp.textEntry,
		container.NewGridWithColumns(2, addTextBtn, addImageBtn),
		mp.markList,
		removeBtn,
		widget.NewSeparator(),
		widget.NewLabel("Properties"),
		form,
		widget.NewSeparator(),
		widget.NewLabel("Export format"),
		mp.formatRadio,
	)

	state.On(app.EventMarksChanged, func(interface{}) { mp.Sync() })
	state.On(app.EventSelectionChanged, func(interface{}) { mp.Sync() })

	return mp
}

// Container returns the panel container.
func (mp *MarksPanel) Container() fyne.CanvasObject {
	return mp.container
}

// SetWindow sets the parent window for dialogs.
func (mp *MarksPanel) SetWindow(w fyne.Window) {
	mp.window = w
}

func (mp *MarksPanel) buildPropertySheet() {
	mp.xEntry = mp.commitEntry()
	mp.yEntry = mp.commitEntry()
	mp.rotationEntry = mp.commitEntry()
	mp.opacityEntry = mp.commitEntry()
	mp.gapXEntry = mp.commitEntry()
	mp.gapYEntry = mp.commitEntry()
	mp.colorEntry = mp.commitEntry()
	mp.fontEntry = mp.commitEntry()
	mp.fontSizeEntry = mp.commitEntry()
	mp.scaleEntry = mp.commitEntry()
	mp.tiledCheck = widget.NewCheck("Tiled", func(bool) {
		if !mp.syncing {
			mp.applyEdits()
		}
	})
}

// commitEntry returns an entry that applies the property sheet when the
// user presses enter.
func (mp *MarksPanel) commitEntry() *widget.Entry {
	e := widget.NewEntry()
	e.OnSubmitted = func(string) {
		if !mp.syncing {
			mp.applyEdits()
		}
	}
	return e
}

func (mp *MarksPanel) propertyForm() fyne.CanvasObject {
	return widget.NewForm(
		widget.NewFormItem("X", mp.xEntry),
		widget.NewFormItem("Y", mp.yEntry),
		widget.NewFormItem("Rotation", mp.rotationEntry),
		widget.NewFormItem("Opacity %", mp.opacityEntry),
		widget.NewFormItem("", mp.tiledCheck),
		widget.NewFormItem("Gap X", mp.gapXEntry),
		widget.NewFormItem("Gap Y", mp.gapYEntry),
		widget.NewFormItem("Color", mp.colorEntry),
		widget.NewFormItem("Font", mp.fontEntry),
		widget.NewFormItem("Font size", mp.fontSizeEntry),
		widget.NewFormItem("Scale", mp.scaleEntry),
	)
}

// applyEdits builds a whole updated record from the property sheet and
// hands it to the controller. Numeric coercion happens in the model.
func (mp *MarksPanel) applyEdits() {
	m, ok := mp.state.SelectedMark()
	if !ok {
		return
	}

	m.X = geometry.ParseDim(mp.xEntry.Text)
	m.Y = geometry.ParseDim(mp.yEntry.Text)
	m.Rotation = mark.ParseRotation(mp.rotationEntry.Text)
	m.Opacity = mark.ParseOpacity(mp.opacityEntry.Text)
	m.Tiled = mp.tiledCheck.Checked
	m.GapX = geometry.ParseDim(mp.gapXEntry.Text)
	m.GapY = geometry.ParseDim(mp.gapYEntry.Text)
	m.Color = mp.colorEntry.Text
	m.Font = mp.fontEntry.Text
	m.FontSize = mp.fontSizeEntry.Text
	if v, err := strconv.ParseFloat(mp.scaleEntry.Text, 64); err == nil && v > 0 {
		m.Scale = v
	}

	if m.Kind == mark.KindText && m.Font != "" {
		mp.prefs.SetString(prefs.KeyLastFont, m.Font)
	}
	mp.state.UpdateWatermark(m)
}

// Sync reloads the list and property sheet from state.
func (mp *MarksPanel) Sync() {
	mp.syncing = true
	defer func() { mp.syncing = false }()

	mp.markList.Refresh()

	index := mp.state.SelectedIndex()
	if index == app.NoSelection {
		mp.markList.UnselectAll()
	} else {
		mp.markList.Select(index)
	}

	m, ok := mp.state.SelectedMark()
	if !ok {
		for _, e := range mp.entries() {
			e.SetText("")
		}
		mp.tiledCheck.SetChecked(false)
		return
	}

	mp.xEntry.SetText(m.X.String())
	mp.yEntry.SetText(m.Y.String())
	mp.rotationEntry.SetText(strconv.FormatFloat(m.Rotation, 'f', -1, 64))
	mp.opacityEntry.SetText(strconv.Itoa(m.Opacity))
	mp.tiledCheck.SetChecked(m.Tiled)
	mp.gapXEntry.SetText(m.GapX.String())
	mp.gapYEntry.SetText(m.GapY.String())
	mp.colorEntry.SetText(m.Color)
	mp.fontEntry.SetText(m.Font)
	mp.fontSizeEntry.SetText(m.FontSize)
	mp.scaleEntry.SetText(strconv.FormatFloat(m.Scale, 'f', -1, 64))
}

func (mp *MarksPanel) entries() []*widget.Entry {
	return []*widget.Entry{
		mp.xEntry, mp.yEntry, mp.rotationEntry, mp.opacityEntry,
		mp.gapXEntry, mp.gapYEntry, mp.colorEntry, mp.fontEntry,
		mp.fontSizeEntry, mp.scaleEntry,
	}
}

// openImageMarkDialog picks a bitmap file for a new image watermark.
func (mp *MarksPanel) openImageMarkDialog() {
	fd := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil || reader == nil {
			return
		}
		defer reader.Close()
		mp.state.AddWatermark(mark.KindImage, reader.URI().Path())
	}, mp.window)
	fd.SetFilter(storage.NewExtensionFileFilter([]string{".png", ".jpg", ".jpeg", ".gif", ".bmp", ".tif", ".tiff", ".webp"}))
	fd.Show()
}

// supportedFormatNames returns the names the format radio offers. Formats
// the host cannot encode never appear, so selecting one is impossible.
func supportedFormatNames() []string {
	var names []string
	for _, f := range export.Supported() {
		names = append(names, f.Name)
	}
	return names
}
