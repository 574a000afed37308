// Package metrics is the bridge to the text-measurement capability. The
// core never blocks on measurement: it fires a request and keeps handling
// events; the capability eventually delivers at most one result per request,
// with no ordering guarantee between in-flight requests.
package metrics

import (
	"log"

	"wmstudio/internal/render"
)

// Request asks for the rendered extent of a text mark's current style.
// MarkID is the stable identity of the watermark that asked, so the answer
// can be matched back even after the collection or selection changed.
type Request struct {
	MarkID   int
	Text     string
	Font     string
	FontSize string
}

// Result carries a measured extent back to the session controller.
type Result struct {
	MarkID int
	Width  float64
	Height float64
}

// Measurer is the narrow interface the controller fires requests through.
// Implementations deliver results asynchronously; a lost or failed
// measurement simply never delivers, leaving the mark's size unchanged.
type Measurer interface {
	Measure(Request)
}

// FontMeasurer measures with the renderer's own font faces and delivers
// each result through a callback.
type FontMeasurer struct {
	fonts   *render.FontManager
	deliver func(Result)
	inline  bool
}

// NewFontMeasurer creates the production measurer: each request is measured
// on its own goroutine and delivered when done.
func NewFontMeasurer(fonts *render.FontManager, deliver func(Result)) *FontMeasurer {
	return &FontMeasurer{fonts: fonts, deliver: deliver}
}

// NewInlineFontMeasurer creates a measurer that delivers before Measure
// returns. Batch tools use it so a measurement is applied before export.
func NewInlineFontMeasurer(fonts *render.FontManager, deliver func(Result)) *FontMeasurer {
	return &FontMeasurer{fonts: fonts, deliver: deliver, inline: true}
}

// Measure issues a measurement request. Fire-and-forget: failures are
// logged and produce no result.
func (m *FontMeasurer) Measure(req Request) {
	if m.inline {
		m.run(req)
		return
	}
	go m.run(req)
}

func (m *FontMeasurer) run(req Request) {
	size, err := m.fonts.MeasureString(req.Text, req.Font, req.FontSize)
	if err != nil {
		log.Printf("metrics: measurement for mark %d failed: %v", req.MarkID, err)
		return
	}
	m.deliver(Result{MarkID: req.MarkID, Width: size.Width, Height: size.Height})
}
