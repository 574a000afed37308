// Package export holds the fixed output-format table and the encoders
// behind it. The format set offered to the user is filtered to what the
// host can actually encode, so an unsupported selection is unreachable
// rather than rejected at export time.
package export

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"

	"golang.org/x/image/bmp"
)

// Format describes one export target.
type Format struct {
	Name     string
	MimeType string
	Ext      string
}

// The full enumerated table. WEBP is listed for completeness but has no
// encoder in the host, so Supported filters it out.
var formats = []Format{
	{Name: "PNG", MimeType: "image/png", Ext: ".png"},
	{Name: "JPEG", MimeType: "image/jpeg", Ext: ".jpg"},
	{Name: "BMP", MimeType: "image/bmp", Ext: ".bmp"},
	{Name: "WEBP", MimeType: "image/webp", Ext: ".webp"},
}

const jpegQuality = 95

// All returns the full format table, including entries the host cannot
// encode.
func All() []Format {
	out := make([]Format, len(formats))
	copy(out, formats)
	return out
}

// Supported returns the formats the host can actually encode.
func Supported() []Format {
	var out []Format
	for _, f := range formats {
		if f.CanEncode() {
			out = append(out, f)
		}
	}
	return out
}

// CanEncode reports whether an encoder exists for the format.
func (f Format) CanEncode() bool {
	switch f.Name {
	case "PNG", "JPEG", "BMP":
		return true
	default:
		return false
	}
}

// Lookup finds a format by name.
func Lookup(name string) (Format, bool) {
	for _, f := range formats {
		if f.Name == name {
			return f, true
		}
	}
	return Format{}, false
}

// Default returns the format selected when a session starts.
func Default() Format {
	return formats[0] // PNG
}

// Encode renders the image as an encoded blob in the given format. JPEG and
// BMP carry no alpha, so the image is flattened over white first.
func Encode(img image.Image, f Format) ([]byte, error) {
	var buf bytes.Buffer
	var err error
	switch f.Name {
	case "PNG":
		err = png.Encode(&buf, img)
	case "JPEG":
		err = jpeg.Encode(&buf, flattenToRGB(img, color.NRGBA{255, 255, 255, 255}), &jpeg.Options{Quality: jpegQuality})
	case "BMP":
		err = bmp.Encode(&buf, flattenToRGB(img, color.NRGBA{255, 255, 255, 255}))
	default:
		return nil, fmt.Errorf("no encoder for format %q", f.Name)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to encode %s: %w", f.Name, err)
	}
	return buf.Bytes(), nil
}

// Save encodes the image and writes it to path, fixing up the extension to
// match the format when it disagrees.
func Save(img image.Image, f Format, path string) error {
	data, err := Encode(img, f)
	if err != nil {
		return err
	}
	if ext := filepath.Ext(path); ext == "" {
		path += f.Ext
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// flattenToRGB composites the image over an opaque background, dropping
// alpha for formats that cannot carry it.
func flattenToRGB(img image.Image, bg color.NRGBA) image.Image {
	bounds := img.Bounds()
	rgba := image.NewRGBA(bounds)
	draw.Draw(rgba, bounds, &image.Uniform{C: bg}, image.Point{}, draw.Src)
	draw.Draw(rgba, bounds, img, bounds.Min, draw.Over)
	return rgba
}
