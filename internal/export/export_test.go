package export

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"
)

func TestSupportedExcludesWebp(t *testing.T) {
	for _, f := range Supported() {
		if f.Name == "WEBP" {
			t.Error("WEBP has no encoder and must not be offered")
		}
	}

	names := map[string]bool{}
	for _, f := range Supported() {
		names[f.Name] = true
	}
	for _, want := range []string{"PNG", "JPEG", "BMP"} {
		if !names[want] {
			t.Errorf("expected %s in supported set", want)
		}
	}
}

func TestLookup(t *testing.T) {
	f, ok := Lookup("JPEG")
	if !ok {
		t.Fatal("expected JPEG to exist")
	}
	if f.MimeType != "image/jpeg" || f.Ext != ".jpg" {
		t.Errorf("unexpected format record %+v", f)
	}

	if _, ok := Lookup("TGA"); ok {
		t.Error("expected unknown format lookup to fail")
	}

	// WEBP is in the table but cannot encode.
	webp, ok := Lookup("WEBP")
	if !ok {
		t.Fatal("expected WEBP in the full table")
	}
	if webp.CanEncode() {
		t.Error("WEBP must report no encoder")
	}
}

func TestDefaultIsPNG(t *testing.T) {
	if Default().Name != "PNG" {
		t.Errorf("expected PNG default, got %s", Default().Name)
	}
}

func TestEncodePNGRoundTrip(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 4, 4))
	src.SetNRGBA(1, 1, color.NRGBA{R: 200, G: 10, B: 30, A: 255})

	f, _ := Lookup("PNG")
	data, err := Encode(src, f)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}

	decoded, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	r, g, b, _ := decoded.At(1, 1).RGBA()
	if r>>8 != 200 || g>>8 != 10 || b>>8 != 30 {
		t.Errorf("unexpected pixel after round trip: %d %d %d", r>>8, g>>8, b>>8)
	}
}

func TestEncodeJPEGFlattensAlpha(t *testing.T) {
	// A fully transparent source must come back white, not black.
	src := image.NewNRGBA(image.Rect(0, 0, 4, 4))

	f, _ := Lookup("JPEG")
	data, err := Encode(src, f)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}

	decoded, err := jpeg.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	r, g, b, _ := decoded.At(2, 2).RGBA()
	if r>>8 < 240 || g>>8 < 240 || b>>8 < 240 {
		t.Errorf("expected near-white background, got %d %d %d", r>>8, g>>8, b>>8)
	}
}

func TestEncodeUnsupported(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 2, 2))
	webp, _ := Lookup("WEBP")
	if _, err := Encode(src, webp); err == nil {
		t.Error("expected error encoding WEBP")
	}
}
