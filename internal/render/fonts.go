// Package render turns the session model into an ordered list of draw
// operations and rasterizes that list into the final pixel buffer.
package render

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"

	"wmstudio/pkg/geometry"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
)

// DefaultFontSize is used when a text mark's font size spec is blank or
// unparsable.
const DefaultFontSize = 16.0

// ParseFontSize interprets a font size spec like "24", "24px", or "". Blank
// or malformed specs fall back to DefaultFontSize.
func ParseFontSize(spec string) float64 {
	s := strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(spec), "px"))
	if s == "" {
		return DefaultFontSize
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v <= 0 {
		return DefaultFontSize
	}
	return v
}

type faceKey struct {
	name string
	size float64
}

// FontManager resolves font names to faces, caching parsed fonts and sized
// faces. Names that are readable .ttf/.otf paths load that file; anything
// else (generic families like "serif") resolves to the embedded Go Regular
// font, so rendering never fails for want of a font.
type FontManager struct {
	mu       sync.Mutex
	fallback *opentype.Font
	parsed   map[string]*opentype.Font
	faces    map[faceKey]font.Face
}

// NewFontManager creates a font manager with the embedded fallback parsed
// up front.
func NewFontManager() (*FontManager, error) {
	fallback, err := opentype.Parse(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("failed to parse embedded font: %w", err)
	}
	return &FontManager{
		fallback: fallback,
		parsed:   make(map[string]*opentype.Font),
		faces:    make(map[faceKey]font.Face),
	}, nil
}

// Face returns a font.Face for the named font at the given size.
func (fm *FontManager) Face(name string, size float64) (font.Face, error) {
	if size <= 0 {
		size = DefaultFontSize
	}
	fm.mu.Lock()
	defer fm.mu.Unlock()

	key := faceKey{name: name, size: size}
	if face, ok := fm.faces[key]; ok {
		return face, nil
	}

	face, err := opentype.NewFace(fm.lookupLocked(name), &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create font face: %w", err)
	}
	fm.faces[key] = face
	return face, nil
}

// lookupLocked resolves a font name to a parsed font, loading from disk at
// most once per name. Callers hold fm.mu.
func (fm *FontManager) lookupLocked(name string) *opentype.Font {
	if fnt, ok := fm.parsed[name]; ok {
		return fnt
	}
	fnt := fm.fallback
	if data, err := os.ReadFile(name); err == nil {
		if custom, err := opentype.Parse(data); err == nil {
			fnt = custom
		}
	}
	fm.parsed[name] = fnt
	return fnt
}

// MeasureString returns the rendered extent of text in the named font: the
// advance width and the face's ascent+descent. This is the text-measurement
// capability the metrics bridge wraps.
func (fm *FontManager) MeasureString(text, fontName, sizeSpec string) (geometry.Size, error) {
	face, err := fm.Face(fontName, ParseFontSize(sizeSpec))
	if err != nil {
		return geometry.Size{}, err
	}
	m := face.Metrics()
	return geometry.Size{
		Width:  float64(font.MeasureString(face, text).Ceil()),
		Height: float64((m.Ascent + m.Descent).Ceil()),
	}, nil
}
