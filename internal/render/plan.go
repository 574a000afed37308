package render

import (
	goimage "image"

	wmimage "wmstudio/internal/image"
	"wmstudio/internal/mark"
	"wmstudio/pkg/geometry"
)

// OpKind identifies what an Op paints.
type OpKind int

const (
	OpBase OpKind = iota
	OpText
	OpBitmap
)

func (k OpKind) String() string {
	switch k {
	case OpBase:
		return "Base"
	case OpText:
		return "Text"
	case OpBitmap:
		return "Bitmap"
	default:
		return "Unknown"
	}
}

// Op is one resolved paint operation. Ops are emitted in paint order; a
// rasterizer executing them front to back reproduces the intended z-order,
// later ops overdrawing earlier ones.
type Op struct {
	Kind     OpKind
	MarkID   int              // 0 for the base image op
	Pos      geometry.Point2D // placement origin in base-image pixels
	Size     geometry.Size    // target size before rotation
	Rotation float64          // degrees about the placement's center
	Alpha    float64          // 0 transparent .. 1 opaque

	Image goimage.Image // base pixels or the mark's decoded resource

	// Text payload.
	Text     string
	Color    string
	Font     string
	FontSize string
}

// Plan resolves the session model into the ordered draw-op list. The base
// image paints first, then every watermark in collection order. Marks whose
// resources or measurements have not arrived yet contribute nothing.
func Plan(base *wmimage.BaseImage, marks []mark.Watermark) []Op {
	if !base.Loaded() {
		return nil
	}

	baseSize := base.Size()
	ops := []Op{{
		Kind:  OpBase,
		Size:  baseSize,
		Alpha: 1,
		Image: base.Image,
	}}

	for _, m := range marks {
		if m.Kind == mark.KindImage && m.Resource == nil {
			continue
		}
		if m.Size.IsZero() {
			// Text metrics not measured yet, or resource size unknown.
			continue
		}
		for _, pos := range placements(baseSize, m) {
			ops = append(ops, markOp(m, pos))
		}
	}
	return ops
}

// placements resolves a mark's deferred coordinates into one or more paint
// positions. A tiled mark expands to a grid anchored at its resolved
// position; an untiled mark paints once.
func placements(baseSize geometry.Size, m mark.Watermark) []geometry.Point2D {
	origin := geometry.Point2D{
		X: m.X.Resolve(baseSize.Width),
		Y: m.Y.Resolve(baseSize.Height),
	}
	if !m.Tiled {
		return []geometry.Point2D{origin}
	}
	gap := geometry.Point2D{
		X: m.GapX.Resolve(baseSize.Width),
		Y: m.GapY.Resolve(baseSize.Height),
	}
	return geometry.TileGrid(baseSize, m.Size, gap, origin)
}

func markOp(m mark.Watermark, pos geometry.Point2D) Op {
	op := Op{
		MarkID:   m.ID,
		Pos:      pos,
		Size:     m.Size,
		Rotation: m.Rotation,
		Alpha:    float64(m.Opacity) / 100.0,
	}
	switch m.Kind {
	case mark.KindText:
		op.Kind = OpText
		op.Text = m.Content
		op.Color = m.Color
		op.Font = m.Font
		op.FontSize = m.FontSize
	case mark.KindImage:
		op.Kind = OpBitmap
		op.Image = m.Resource
	}
	return op
}
