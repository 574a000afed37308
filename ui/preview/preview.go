// Package preview provides the composited-image preview widget.
package preview

import (
	"image"
	"image/draw"

	"wmstudio/internal/app"
	"wmstudio/pkg/colorutil"
	"wmstudio/pkg/geometry"

	"fyne.io/fyne/v2"
	fynecanvas "fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/widget"
)

const checkerSquare = 8

// Preview displays the rasterized session and lets the user select a
// watermark by clicking it. It re-renders whenever the model changes.
type Preview struct {
	widget.BaseWidget

	state *app.State
	img   *fynecanvas.Image

	// Dimensions of the last rendered frame, for tap hit-testing.
	frameW, frameH float64
}

// New creates a preview bound to the session state.
func New(state *app.State) *Preview {
	p := &Preview{state: state}
	p.img = fynecanvas.NewImageFromImage(placeholder())
	p.img.FillMode = fynecanvas.ImageFillContain
	p.ExtendBaseWidget(p)

	refresh := func(interface{}) { p.Redraw() }
	state.On(app.EventImageLoaded, refresh)
	state.On(app.EventImageRemoved, refresh)
	state.On(app.EventMarksChanged, refresh)
	state.On(app.EventSelectionChanged, refresh)

	return p
}

func (p *Preview) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(p.img)
}

// Redraw rasterizes the current session into the preview. With no base
// image loaded it shows the upload-prompt checkerboard.
func (p *Preview) Redraw() {
	frame := p.state.RenderPreview()
	if frame == nil {
		p.frameW, p.frameH = 0, 0
		p.img.Image = placeholder()
		p.img.Refresh()
		return
	}

	backed := checkerboard(frame.Bounds().Dx(), frame.Bounds().Dy())
	draw.Draw(backed, backed.Bounds(), frame, frame.Bounds().Min, draw.Over)

	p.frameW = float64(frame.Bounds().Dx())
	p.frameH = float64(frame.Bounds().Dy())
	p.img.Image = backed
	p.img.Refresh()
}

// Tapped maps a click back to image coordinates and selects the topmost
// watermark whose placement contains the point, or clears the selection.
func (p *Preview) Tapped(ev *fyne.PointEvent) {
	pt, ok := p.toImagePoint(ev.Position)
	if !ok {
		return
	}

	ops := p.state.Plan()
	// Walk back to front so the topmost mark wins.
	for i := len(ops) - 1; i >= 1; i-- {
		op := ops[i]
		bounds := geometry.RotatedBounds(op.Size, op.Rotation)
		center := geometry.Point2D{
			X: op.Pos.X + op.Size.Width/2,
			Y: op.Pos.Y + op.Size.Height/2,
		}
		rect := geometry.NewRect(center.X-bounds.Width/2, center.Y-bounds.Height/2,
			bounds.Width, bounds.Height)
		if rect.Contains(pt) {
			p.selectMarkByID(op.MarkID)
			return
		}
	}
	p.state.SelectWatermark(app.NoSelection)
}

// toImagePoint converts a widget position to base-image pixels, accounting
// for the contain-fit letterboxing.
func (p *Preview) toImagePoint(pos fyne.Position) (geometry.Point2D, bool) {
	if p.frameW <= 0 || p.frameH <= 0 {
		return geometry.Point2D{}, false
	}
	size := p.Size()
	scaleX := float64(size.Width) / p.frameW
	scaleY := float64(size.Height) / p.frameH
	scale := scaleX
	if scaleY < scale {
		scale = scaleY
	}
	if scale <= 0 {
		return geometry.Point2D{}, false
	}

	offX := (float64(size.Width) - p.frameW*scale) / 2
	offY := (float64(size.Height) - p.frameH*scale) / 2
	pt := geometry.Point2D{
		X: (float64(pos.X) - offX) / scale,
		Y: (float64(pos.Y) - offY) / scale,
	}
	if pt.X < 0 || pt.Y < 0 || pt.X > p.frameW || pt.Y > p.frameH {
		return geometry.Point2D{}, false
	}
	return pt, true
}

func (p *Preview) selectMarkByID(id int) {
	for i, m := range p.state.Marks() {
		if m.ID == id {
			p.state.SelectWatermark(i)
			return
		}
	}
}

// checkerboard builds the backdrop drawn behind transparent pixels.
func checkerboard(w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if ((x/checkerSquare)+(y/checkerSquare))%2 == 0 {
				img.SetNRGBA(x, y, colorutil.CheckerLight)
			} else {
				img.SetNRGBA(x, y, colorutil.CheckerDark)
			}
		}
	}
	return img
}

// placeholder is shown before any base image is loaded.
func placeholder() *image.NRGBA {
	return checkerboard(480, 360)
}
