// Package mark defines the watermark model: the data carried by each overlay,
// default construction, input coercion, and the collection helpers the
// session controller builds on.
package mark

import (
	"image"
	"strconv"
	"strings"

	"wmstudio/pkg/geometry"
)

// Kind identifies the watermark variant. It is fixed at creation.
type Kind int

const (
	KindText Kind = iota
	KindImage
)

func (k Kind) String() string {
	switch k {
	case KindText:
		return "Text"
	case KindImage:
		return "Image"
	default:
		return "Unknown"
	}
}

// Defaults applied by New.
const (
	DefaultColor = "#000000"
	DefaultFont  = "serif"
)

// Watermark is a single overlay on the base image. Position and gap are kept
// as deferred Dims so the property sheet can hold partially-typed input;
// they resolve to pixels only at render time.
type Watermark struct {
	// ID is a stable identity minted when the watermark is created. Async
	// results (text metrics, resource loads) are keyed by it, so a result
	// that arrives after the collection changed can be matched or dropped
	// instead of landing on whichever entry is selected at the time.
	ID int

	Kind    Kind   // fixed at creation
	Content string // literal text, or source path for image marks

	X, Y geometry.Dim  // placement, or tiling origin when Tiled
	Size geometry.Size // text: measured glyph box; image: natural size x Scale

	Rotation float64 // degrees, 0..360, about the mark's own center
	Opacity  int     // percent, 0..100

	Tiled      bool
	GapX, GapY geometry.Dim // spacing between tiled repeats

	// Text styling.
	Color    string // hex
	Font     string
	FontSize string // blank means the renderer's default size

	// Image styling.
	Scale float64

	// Resource is the decoded bitmap for image marks; nil until the async
	// load completes. Text marks never set it.
	Resource image.Image `json:"-"`
}

// New creates a watermark of the given kind with the stock defaults:
// centered (50%/50%), upright, fully opaque, untiled.
func New(id int, kind Kind, content string) Watermark {
	return Watermark{
		ID:       id,
		Kind:     kind,
		Content:  content,
		X:        geometry.Percent(50),
		Y:        geometry.Percent(50),
		Rotation: 0,
		Opacity:  100,
		Tiled:    false,
		GapX:     geometry.Px(0),
		GapY:     geometry.Px(0),
		Color:    DefaultColor,
		Font:     DefaultFont,
		FontSize: "",
		Scale:    1,
	}
}

// Normalize coerces out-of-range numeric fields back into their legal
// ranges. Malformed values become 0 rather than surfacing an error.
func (w *Watermark) Normalize() {
	if w.Rotation < 0 || w.Rotation > 360 {
		w.Rotation = 0
	}
	if w.Opacity < 0 || w.Opacity > 100 {
		w.Opacity = 0
	}
	if w.Scale <= 0 {
		w.Scale = 1
	}
}

// StyleChanged reports whether a whole-record update touched anything that
// invalidates a text mark's measured size.
func (w Watermark) StyleChanged(old Watermark) bool {
	return w.Content != old.Content ||
		w.Font != old.Font ||
		w.FontSize != old.FontSize
}

// ParseRotation interprets rotation text from the UI. Unparsable or
// out-of-range input coerces to 0.
func ParseRotation(s string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || v < 0 || v > 360 {
		return 0
	}
	return v
}

// ParseOpacity interprets opacity text from the UI. Unparsable or
// out-of-range input coerces to 0.
func ParseOpacity(s string) int {
	v, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || v < 0 || v > 100 {
		return 0
	}
	return v
}

// Update replaces the entry matching updated's ID with the updated record.
// Mutation is always whole-record replacement. An ID with no live entry is
// a silent no-op, so a stale edit cannot corrupt the collection.
func Update(list []Watermark, updated Watermark) []Watermark {
	for i := range list {
		if list[i].ID == updated.ID {
			out := make([]Watermark, len(list))
			copy(out, list)
			out[i] = updated
			return out
		}
	}
	return list
}

// RemoveAt removes the entry at index. An out-of-range index returns the
// collection unchanged; the caller is responsible for resetting selection.
func RemoveAt(list []Watermark, index int) []Watermark {
	if index < 0 || index >= len(list) {
		return list
	}
	out := make([]Watermark, 0, len(list)-1)
	out = append(out, list[:index]...)
	out = append(out, list[index+1:]...)
	return out
}

// IndexOf returns the index of the entry with the given ID, or -1.
func IndexOf(list []Watermark, id int) int {
	for i := range list {
		if list[i].ID == id {
			return i
		}
	}
	return -1
}
