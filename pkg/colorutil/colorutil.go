// Package colorutil provides shared color utilities for the watermark studio
// application.
package colorutil

import (
	"fmt"
	"image/color"
	"strings"
)

// Common colors used throughout the application.
var (
	Black       = color.NRGBA{R: 0, G: 0, B: 0, A: 255}
	White       = color.NRGBA{R: 255, G: 255, B: 255, A: 255}
	Transparent = color.NRGBA{}

	// Checkerboard squares drawn behind transparent previews.
	CheckerLight = color.NRGBA{R: 0xCC, G: 0xCC, B: 0xCC, A: 255}
	CheckerDark  = color.NRGBA{R: 0x99, G: 0x99, B: 0x99, A: 255}
)

// ParseHex parses a hex color string in #RGB, #RRGGBB, or #RRGGBBAA form.
// The leading '#' is optional.
func ParseHex(s string) (color.NRGBA, error) {
	str := strings.TrimPrefix(strings.TrimSpace(s), "#")
	switch len(str) {
	case 3:
		str = fmt.Sprintf("%c%c%c%c%c%c", str[0], str[0], str[1], str[1], str[2], str[2])
	case 6, 8:
	default:
		return color.NRGBA{}, fmt.Errorf("invalid color format: %q", s)
	}

	var r, g, b uint8
	if _, err := fmt.Sscanf(str[:6], "%02x%02x%02x", &r, &g, &b); err != nil {
		return color.NRGBA{}, fmt.Errorf("invalid color format: %q", s)
	}
	a := uint8(255)
	if len(str) == 8 {
		if _, err := fmt.Sscanf(str[6:], "%02x", &a); err != nil {
			return color.NRGBA{}, fmt.Errorf("invalid color format: %q", s)
		}
	}
	return color.NRGBA{R: r, G: g, B: b, A: a}, nil
}

// ParseHexDefault parses a hex color string, falling back to the given color
// when the input is malformed.
func ParseHexDefault(s string, fallback color.NRGBA) color.NRGBA {
	c, err := ParseHex(s)
	if err != nil {
		return fallback
	}
	return c
}

// FormatHex renders a color as a #RRGGBB string (alpha is dropped).
func FormatHex(c color.NRGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}
