package render

import (
	goimage "image"
	"image/color"
	"image/draw"
	"log"
	"math"

	"wmstudio/pkg/colorutil"
	"wmstudio/pkg/geometry"

	"github.com/disintegration/imaging"
	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"
)

// Renderer executes draw-op plans into pixel buffers.
type Renderer struct {
	fonts *FontManager
}

// NewRenderer creates a renderer with its own font manager.
func NewRenderer() (*Renderer, error) {
	fonts, err := NewFontManager()
	if err != nil {
		return nil, err
	}
	return &Renderer{fonts: fonts}, nil
}

// Fonts exposes the renderer's font manager so the metrics bridge measures
// with the same faces the rasterizer draws with.
func (r *Renderer) Fonts() *FontManager {
	return r.fonts
}

// Rasterize executes the ops in order onto a canvas sized from the base op.
// A nil or empty plan yields nil (nothing to show yet).
func (r *Renderer) Rasterize(ops []Op) *goimage.NRGBA {
	if len(ops) == 0 {
		return nil
	}

	w := int(math.Round(ops[0].Size.Width))
	h := int(math.Round(ops[0].Size.Height))
	canvas := goimage.NewNRGBA(goimage.Rect(0, 0, w, h))

	for _, op := range ops {
		switch op.Kind {
		case OpBase:
			draw.Draw(canvas, canvas.Bounds(), op.Image, op.Image.Bounds().Min, draw.Src)
		case OpText:
			tile := r.renderText(op)
			if tile != nil {
				placeTile(canvas, tile, op)
			}
		case OpBitmap:
			tile := imaging.Resize(op.Image,
				int(math.Round(op.Size.Width)), int(math.Round(op.Size.Height)),
				imaging.Lanczos)
			placeTile(canvas, tile, op)
		}
	}
	return canvas
}

// renderText draws the op's text into a transparent tile sized to the
// rendered glyph extent.
func (r *Renderer) renderText(op Op) *goimage.NRGBA {
	face, err := r.fonts.Face(op.Font, ParseFontSize(op.FontSize))
	if err != nil {
		log.Printf("render: font %q unavailable: %v", op.Font, err)
		return nil
	}

	metrics := face.Metrics()
	w := font.MeasureString(face, op.Text).Ceil()
	h := (metrics.Ascent + metrics.Descent).Ceil()
	if w <= 0 || h <= 0 {
		return nil
	}

	tile := goimage.NewNRGBA(goimage.Rect(0, 0, w, h))
	d := &font.Drawer{
		Dst:  tile,
		Src:  goimage.NewUniform(colorutil.ParseHexDefault(op.Color, colorutil.Black)),
		Face: face,
		Dot:  fixed.Point26_6{X: 0, Y: metrics.Ascent},
	}
	d.DrawString(op.Text)
	return tile
}

// placeTile applies the op's opacity and rotation to a tile and composites
// it onto dst, keeping the tile centered on the placement's center so
// rotation pivots about the mark itself.
func placeTile(dst *goimage.NRGBA, tile *goimage.NRGBA, op Op) {
	if op.Alpha <= 0 {
		return
	}
	if op.Alpha < 1 {
		tile = applyAlpha(tile, op.Alpha)
	}

	center := geometry.Point2D{
		X: op.Pos.X + op.Size.Width/2,
		Y: op.Pos.Y + op.Size.Height/2,
	}
	if op.Rotation != 0 && op.Rotation != 360 {
		// imaging rotates counter-clockwise; UI angles are clockwise.
		tile = imaging.Rotate(tile, -op.Rotation, color.NRGBA{})
	}

	x := int(math.Round(center.X - float64(tile.Bounds().Dx())/2))
	y := int(math.Round(center.Y - float64(tile.Bounds().Dy())/2))
	rect := goimage.Rect(x, y, x+tile.Bounds().Dx(), y+tile.Bounds().Dy())
	draw.Draw(dst, rect, tile, tile.Bounds().Min, draw.Over)
}

// applyAlpha returns a copy of the tile with every pixel's alpha scaled.
func applyAlpha(tile *goimage.NRGBA, alpha float64) *goimage.NRGBA {
	out := imaging.Clone(tile)
	for i := 3; i < len(out.Pix); i += 4 {
		out.Pix[i] = uint8(math.Round(float64(out.Pix[i]) * alpha))
	}
	return out
}
