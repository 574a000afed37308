// Package image provides base-image loading and the decoded-resource state
// the render pipeline consumes.
package image

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"

	"wmstudio/pkg/geometry"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// LoadState tracks decode progress for a base image.
type LoadState int

const (
	StateNone LoadState = iota
	StateLoaded
)

func (s LoadState) String() string {
	switch s {
	case StateLoaded:
		return "Loaded"
	default:
		return "None"
	}
}

// BaseImage is the single session background everything else composites onto.
type BaseImage struct {
	Name       string      // display name, usually the file's base name
	SourcePath string      // original file path, empty for in-memory uploads
	Image      image.Image // decoded pixels
	State      LoadState
}

// Load reads and decodes an image file.
func Load(path string) (*BaseImage, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	base, err := Decode(filepath.Base(path), data)
	if err != nil {
		return nil, err
	}
	base.SourcePath = path
	return base, nil
}

// Decode decodes raw upload bytes into a loaded BaseImage.
func Decode(name string, data []byte) (*BaseImage, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image %q: %w", name, err)
	}
	return &BaseImage{
		Name:  name,
		Image: img,
		State: StateLoaded,
	}, nil
}

// Loaded reports whether the base image holds decoded pixels.
func (b *BaseImage) Loaded() bool {
	return b != nil && b.State == StateLoaded && b.Image != nil
}

// Width returns the image width in pixels.
func (b *BaseImage) Width() int {
	if b == nil || b.Image == nil {
		return 0
	}
	return b.Image.Bounds().Dx()
}

// Height returns the image height in pixels.
func (b *BaseImage) Height() int {
	if b == nil || b.Image == nil {
		return 0
	}
	return b.Image.Bounds().Dy()
}

// Size returns the image dimensions.
func (b *BaseImage) Size() geometry.Size {
	return geometry.Size{
		Width:  float64(b.Width()),
		Height: float64(b.Height()),
	}
}

// PixelAt returns the color at the specified pixel coordinates.
func (b *BaseImage) PixelAt(x, y int) color.Color {
	if b == nil || b.Image == nil {
		return color.Black
	}
	bounds := b.Image.Bounds()
	if x < bounds.Min.X || x >= bounds.Max.X || y < bounds.Min.Y || y >= bounds.Max.Y {
		return color.Black
	}
	return b.Image.At(x, y)
}
