package render

import (
	goimage "image"
	"image/color"
	"testing"

	wmimage "wmstudio/internal/image"
	"wmstudio/internal/mark"
	"wmstudio/pkg/geometry"
)

func loadedBase(w, h int) *wmimage.BaseImage {
	return &wmimage.BaseImage{
		Name:  "test",
		Image: goimage.NewNRGBA(goimage.Rect(0, 0, w, h)),
		State: wmimage.StateLoaded,
	}
}

func sizedText(id int, content string) mark.Watermark {
	m := mark.New(id, mark.KindText, content)
	m.Size = geometry.Size{Width: 40, Height: 16}
	return m
}

func TestPlanNoBaseImage(t *testing.T) {
	if ops := Plan(nil, nil); ops != nil {
		t.Errorf("expected nil plan without a base image, got %d ops", len(ops))
	}
	unloaded := &wmimage.BaseImage{Name: "x"}
	if ops := Plan(unloaded, nil); ops != nil {
		t.Errorf("expected nil plan for unloaded base, got %d ops", len(ops))
	}
}

func TestPlanBaseFirst(t *testing.T) {
	ops := Plan(loadedBase(400, 300), nil)
	if len(ops) != 1 {
		t.Fatalf("expected 1 op, got %d", len(ops))
	}
	if ops[0].Kind != OpBase {
		t.Errorf("expected OpBase first, got %v", ops[0].Kind)
	}
	if ops[0].Size != (geometry.Size{Width: 400, Height: 300}) {
		t.Errorf("unexpected base size %+v", ops[0].Size)
	}
}

func TestPlanZOrderFollowsCollectionOrder(t *testing.T) {
	marks := []mark.Watermark{sizedText(1, "A"), sizedText(2, "B"), sizedText(3, "C")}

	ops := Plan(loadedBase(200, 200), marks)
	if len(ops) != 4 {
		t.Fatalf("expected 4 ops, got %d", len(ops))
	}
	for i, wantID := range []int{1, 2, 3} {
		if ops[i+1].MarkID != wantID {
			t.Errorf("op %d has MarkID %d, want %d", i+1, ops[i+1].MarkID, wantID)
		}
	}
}

func TestPlanSkipsUnreadyMarks(t *testing.T) {
	pending := mark.New(1, mark.KindImage, "logo.png") // resource not loaded
	unmeasured := mark.New(2, mark.KindText, "hi")     // metrics not arrived, size zero

	ops := Plan(loadedBase(100, 100), []mark.Watermark{pending, unmeasured})
	if len(ops) != 1 {
		t.Errorf("expected only the base op, got %d ops", len(ops))
	}
}

func TestPlanTiledExpansion(t *testing.T) {
	m := sizedText(1, "tile")
	m.Size = geometry.Size{Width: 20, Height: 20}
	m.Tiled = true
	m.X = geometry.Px(0)
	m.Y = geometry.Px(0)

	ops := Plan(loadedBase(100, 100), []mark.Watermark{m})
	if len(ops) != 26 {
		t.Fatalf("expected base + 25 tile ops, got %d", len(ops))
	}
	for _, op := range ops[1:] {
		if op.Kind != OpText || op.MarkID != 1 {
			t.Errorf("unexpected tile op %+v", op)
		}
	}
}

func TestPlanResolvesPercentPosition(t *testing.T) {
	m := sizedText(1, "A")
	// Defaults are 50%/50%.
	ops := Plan(loadedBase(400, 300), []mark.Watermark{m})
	if len(ops) != 2 {
		t.Fatalf("expected 2 ops, got %d", len(ops))
	}
	if ops[1].Pos != (geometry.Point2D{X: 200, Y: 150}) {
		t.Errorf("expected placement at 200,150, got %+v", ops[1].Pos)
	}
}

func TestPlanOpacityAlpha(t *testing.T) {
	m := sizedText(1, "A")
	m.Opacity = 40
	ops := Plan(loadedBase(100, 100), []mark.Watermark{m})
	if len(ops) != 2 {
		t.Fatalf("expected 2 ops, got %d", len(ops))
	}
	if ops[1].Alpha != 0.4 {
		t.Errorf("expected alpha 0.4, got %v", ops[1].Alpha)
	}
}

func TestRasterizeBitmapOp(t *testing.T) {
	renderer, err := NewRenderer()
	if err != nil {
		t.Fatalf("NewRenderer: %v", err)
	}

	resource := goimage.NewNRGBA(goimage.Rect(0, 0, 10, 10))
	for i := 0; i < len(resource.Pix); i += 4 {
		resource.Pix[i] = 255   // R
		resource.Pix[i+3] = 255 // A
	}

	m := mark.New(1, mark.KindImage, "red.png")
	m.Resource = resource
	m.Size = geometry.Size{Width: 10, Height: 10}
	m.X = geometry.Px(0)
	m.Y = geometry.Px(0)

	out := renderer.Rasterize(Plan(loadedBase(50, 50), []mark.Watermark{m}))
	if out == nil {
		t.Fatal("expected a rasterized frame")
	}
	if out.Bounds().Dx() != 50 || out.Bounds().Dy() != 50 {
		t.Fatalf("unexpected canvas size %v", out.Bounds())
	}

	got := out.NRGBAAt(5, 5)
	if got.R != 255 || got.A != 255 {
		t.Errorf("expected red pixel inside the mark, got %+v", got)
	}
	if corner := out.NRGBAAt(40, 40); corner.R != 0 {
		t.Errorf("expected untouched pixel outside the mark, got %+v", corner)
	}
}

func TestRasterizeZeroAlphaPaintsNothing(t *testing.T) {
	renderer, err := NewRenderer()
	if err != nil {
		t.Fatalf("NewRenderer: %v", err)
	}

	resource := goimage.NewNRGBA(goimage.Rect(0, 0, 10, 10))
	for i := 3; i < len(resource.Pix); i += 4 {
		resource.Pix[i] = 255
	}

	m := mark.New(1, mark.KindImage, "x.png")
	m.Resource = resource
	m.Size = geometry.Size{Width: 10, Height: 10}
	m.X = geometry.Px(0)
	m.Y = geometry.Px(0)
	m.Opacity = 0

	out := renderer.Rasterize(Plan(loadedBase(20, 20), []mark.Watermark{m}))
	if got := out.NRGBAAt(5, 5); got != (color.NRGBA{}) {
		t.Errorf("expected untouched pixel under fully transparent mark, got %+v", got)
	}
}

func TestRasterizeEmptyPlan(t *testing.T) {
	renderer, err := NewRenderer()
	if err != nil {
		t.Fatalf("NewRenderer: %v", err)
	}
	if out := renderer.Rasterize(nil); out != nil {
		t.Error("expected nil frame for empty plan")
	}
}

func TestParseFontSize(t *testing.T) {
	tests := []struct {
		in   string
		want float64
	}{
		{"", DefaultFontSize},
		{"24", 24},
		{"24px", 24},
		{" 18 ", 18},
		{"bogus", DefaultFontSize},
		{"-3", DefaultFontSize},
	}
	for _, tt := range tests {
		if got := ParseFontSize(tt.in); got != tt.want {
			t.Errorf("ParseFontSize(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestMeasureStringGrowsWithText(t *testing.T) {
	fonts, err := NewFontManager()
	if err != nil {
		t.Fatalf("NewFontManager: %v", err)
	}

	short, err := fonts.MeasureString("A", "serif", "")
	if err != nil {
		t.Fatalf("MeasureString: %v", err)
	}
	long, err := fonts.MeasureString("ABCDEF", "serif", "")
	if err != nil {
		t.Fatalf("MeasureString: %v", err)
	}

	if short.Width <= 0 || short.Height <= 0 {
		t.Errorf("expected positive extent, got %+v", short)
	}
	if long.Width <= short.Width {
		t.Errorf("longer text should measure wider: %v vs %v", long.Width, short.Width)
	}
}
