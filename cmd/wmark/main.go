// wmark applies a watermark to an image from the command line, using the
// same session engine as the GUI.
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"wmstudio/internal/app"
	"wmstudio/internal/mark"
	"wmstudio/internal/metrics"
	"wmstudio/internal/render"
	"wmstudio/pkg/geometry"
)

type options struct {
	input, output string
	text          string
	imageMark     string
	x, y          string
	rotation      string
	opacity       string
	tiled         bool
	gapX, gapY    string
	color         string
	font          string
	fontSize      string
	scale         float64
	format        string
}

func main() {
	var o options
	flag.StringVar(&o.input, "in", "", "input image path (required)")
	flag.StringVar(&o.output, "out", "", "output path (required)")
	flag.StringVar(&o.text, "text", "", "text watermark content")
	flag.StringVar(&o.imageMark, "image", "", "image watermark path")
	flag.StringVar(&o.x, "x", "50%", "x position (pixels, or percent like 50%)")
	flag.StringVar(&o.y, "y", "50%", "y position (pixels, or percent like 50%)")
	flag.StringVar(&o.rotation, "rotation", "0", "rotation in degrees, 0..360")
	flag.StringVar(&o.opacity, "opacity", "100", "opacity percent, 0..100")
	flag.BoolVar(&o.tiled, "tiled", false, "repeat the watermark across the image")
	flag.StringVar(&o.gapX, "gap-x", "0", "horizontal gap between tiles, pixels")
	flag.StringVar(&o.gapY, "gap-y", "0", "vertical gap between tiles, pixels")
	flag.StringVar(&o.color, "color", mark.DefaultColor, "text color, hex")
	flag.StringVar(&o.font, "font", mark.DefaultFont, "font name or .ttf/.otf path")
	flag.StringVar(&o.fontSize, "font-size", "", "font size, blank for default")
	flag.Float64Var(&o.scale, "scale", 1.0, "image watermark scale factor")
	flag.StringVar(&o.format, "format", "", "output format: PNG, JPEG, or BMP (default from extension)")
	flag.Parse()

	if err := run(o); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(o options) error {
	if strings.TrimSpace(o.input) == "" {
		return errors.New("missing -in")
	}
	if strings.TrimSpace(o.output) == "" {
		return errors.New("missing -out")
	}
	if strings.TrimSpace(o.text) == "" && strings.TrimSpace(o.imageMark) == "" {
		return errors.New("need -text or -image")
	}

	renderer, err := render.NewRenderer()
	if err != nil {
		return err
	}
	state := app.NewState(renderer)
	// Inline measurement so text sizes are applied before export.
	state.SetMeasurer(metrics.NewInlineFontMeasurer(renderer.Fonts(), state.ApplyMeasurement))

	if err := state.LoadBaseImageFile(o.input); err != nil {
		return err
	}

	kind, content := mark.KindText, o.text
	if o.text == "" {
		kind, content = mark.KindImage, o.imageMark
	}
	id := state.AddWatermark(kind, content)
	if id == app.NoSelection {
		return errors.New("watermark rejected")
	}

	m, ok := state.SelectedMark()
	if !ok {
		return errors.New("no watermark selected")
	}
	m.X = geometry.ParseDim(o.x)
	m.Y = geometry.ParseDim(o.y)
	m.Rotation = mark.ParseRotation(o.rotation)
	m.Opacity = mark.ParseOpacity(o.opacity)
	m.Tiled = o.tiled
	m.GapX = geometry.ParseDim(o.gapX)
	m.GapY = geometry.ParseDim(o.gapY)
	m.Color = o.color
	m.Font = o.font
	m.FontSize = o.fontSize
	m.Scale = o.scale
	state.UpdateWatermark(m)

	if kind == mark.KindImage {
		// Resource loads in the background; wait for it before export.
		if err := waitForResource(state, id); err != nil {
			return err
		}
	}

	state.ChangeExportFormat(pickFormat(o.format, o.output))
	return state.Export(o.output)
}

// waitForResource blocks until the image watermark's bitmap is bound or the
// load has failed.
func waitForResource(state *app.State, id int) error {
	done := make(chan error, 1)
	post := func(err error) {
		select {
		case done <- err:
		default:
		}
	}

	state.On(app.EventMarksChanged, func(interface{}) {
		if resourceBound(state, id) {
			post(nil)
		}
	})
	state.On(app.EventError, func(data interface{}) {
		msg, _ := data.(string)
		post(errors.New(msg))
	})

	// The load may have resolved either way before the listeners
	// registered: recheck both outcomes, then block.
	if resourceBound(state, id) {
		return nil
	}
	if msg := state.LastError(); msg != "" {
		return errors.New(msg)
	}
	return <-done
}

func resourceBound(state *app.State, id int) bool {
	for _, m := range state.Marks() {
		if m.ID == id && m.Resource != nil {
			return true
		}
	}
	return false
}

// pickFormat resolves the export format from an explicit flag or the output
// file extension, defaulting to PNG.
func pickFormat(name, output string) string {
	if strings.TrimSpace(name) != "" {
		return strings.ToUpper(strings.TrimSpace(name))
	}
	switch strings.ToLower(filepath.Ext(output)) {
	case ".jpg", ".jpeg":
		return "JPEG"
	case ".bmp":
		return "BMP"
	default:
		return "PNG"
	}
}
