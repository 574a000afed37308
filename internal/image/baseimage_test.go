package image

import (
	"bytes"
	goimage "image"
	"image/png"
	"testing"
)

func encodePNG(t *testing.T, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, goimage.NewNRGBA(goimage.Rect(0, 0, w, h))); err != nil {
		t.Fatalf("encode: %v", err)
	}
	return buf.Bytes()
}

func TestDecode(t *testing.T) {
	base, err := Decode("photo.png", encodePNG(t, 64, 48))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}

	if !base.Loaded() {
		t.Error("expected loaded state")
	}
	if base.Name != "photo.png" {
		t.Errorf("expected name preserved, got %q", base.Name)
	}
	if base.Width() != 64 || base.Height() != 48 {
		t.Errorf("unexpected size %dx%d", base.Width(), base.Height())
	}
	if s := base.Size(); s.Width != 64 || s.Height != 48 {
		t.Errorf("unexpected Size() %+v", s)
	}
}

func TestDecodeGarbage(t *testing.T) {
	if _, err := Decode("junk.bin", []byte("definitely not pixels")); err == nil {
		t.Error("expected decode error")
	}
}

func TestNilBaseImageIsSafe(t *testing.T) {
	var b *BaseImage
	if b.Loaded() {
		t.Error("nil base image must not report loaded")
	}
	if b.Width() != 0 || b.Height() != 0 {
		t.Error("nil base image must report zero size")
	}
}

func TestLoadStateString(t *testing.T) {
	if StateNone.String() != "None" || StateLoaded.String() != "Loaded" {
		t.Errorf("unexpected state strings: %s, %s", StateNone, StateLoaded)
	}
}
