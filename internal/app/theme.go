package app

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/theme"
)

// StudioTheme provides a custom theme for the application.
type StudioTheme struct{}

var _ fyne.Theme = (*StudioTheme)(nil)

func (t *StudioTheme) Color(name fyne.ThemeColorName, variant fyne.ThemeVariant) color.Color {
	switch name {
	case theme.ColorNamePrimary:
		return color.NRGBA{R: 0x35, G: 0x5C, B: 0x7D, A: 0xFF} // Slate blue
	case theme.ColorNameSelection:
		return color.NRGBA{R: 0xF2, G: 0xA1, B: 0x54, A: 0x80} // Amber for the selected mark
	default:
		return theme.DefaultTheme().Color(name, variant)
	}
}

func (t *StudioTheme) Font(style fyne.TextStyle) fyne.Resource {
	return theme.DefaultTheme().Font(style)
}

func (t *StudioTheme) Icon(name fyne.ThemeIconName) fyne.Resource {
	return theme.DefaultTheme().Icon(name)
}

func (t *StudioTheme) Size(name fyne.ThemeSizeName) float32 {
	switch name {
	case theme.SizeNameScrollBar:
		return 16
	default:
		return theme.DefaultTheme().Size(name)
	}
}
