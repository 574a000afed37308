package mark

import (
	"reflect"
	"testing"

	"wmstudio/pkg/geometry"
)

func TestNewDefaults(t *testing.T) {
	m := New(7, KindText, "hello")

	if m.ID != 7 {
		t.Errorf("expected ID 7, got %d", m.ID)
	}
	if m.Kind != KindText {
		t.Errorf("expected KindText, got %v", m.Kind)
	}
	if m.X != geometry.Percent(50) || m.Y != geometry.Percent(50) {
		t.Errorf("expected centered 50%%/50%% position, got %v/%v", m.X, m.Y)
	}
	if m.Rotation != 0 {
		t.Errorf("expected rotation 0, got %v", m.Rotation)
	}
	if m.Opacity != 100 {
		t.Errorf("expected opacity 100, got %d", m.Opacity)
	}
	if m.Tiled {
		t.Error("expected tiled false")
	}
	if m.GapX.Resolve(0) != 0 || m.GapY.Resolve(0) != 0 {
		t.Error("expected zero gaps")
	}
	if m.Color != DefaultColor {
		t.Errorf("expected color %s, got %s", DefaultColor, m.Color)
	}
	if m.Font != DefaultFont {
		t.Errorf("expected font %s, got %s", DefaultFont, m.Font)
	}
	if m.FontSize != "" {
		t.Errorf("expected blank font size, got %q", m.FontSize)
	}
	if m.Scale != 1 {
		t.Errorf("expected scale 1, got %v", m.Scale)
	}
}

func TestParseRotation(t *testing.T) {
	tests := []struct {
		in   string
		want float64
	}{
		{"0", 0},
		{"45.5", 45.5},
		{"360", 360},
		{"361", 0},
		{"-1", 0},
		{"garbage", 0},
		{"", 0},
	}
	for _, tt := range tests {
		if got := ParseRotation(tt.in); got != tt.want {
			t.Errorf("ParseRotation(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestParseOpacity(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{"0", 0},
		{"100", 100},
		{"55", 55},
		{"101", 0},
		{"-5", 0},
		{"nope", 0},
	}
	for _, tt := range tests {
		if got := ParseOpacity(tt.in); got != tt.want {
			t.Errorf("ParseOpacity(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestNormalizeCoercesOutOfRange(t *testing.T) {
	m := New(1, KindText, "x")
	m.Rotation = 400
	m.Opacity = -3
	m.Normalize()

	if m.Rotation != 0 {
		t.Errorf("expected rotation coerced to 0, got %v", m.Rotation)
	}
	if m.Opacity != 0 {
		t.Errorf("expected opacity coerced to 0, got %d", m.Opacity)
	}
}

func TestUpdateReplacesByID(t *testing.T) {
	list := []Watermark{New(1, KindText, "a"), New(2, KindText, "b")}

	updated := list[1]
	updated.Content = "changed"
	out := Update(list, updated)

	if out[1].Content != "changed" {
		t.Errorf("expected entry replaced, got %q", out[1].Content)
	}
	if list[1].Content != "b" {
		t.Error("input collection mutated")
	}
}

func TestUpdateIdempotent(t *testing.T) {
	list := []Watermark{New(1, KindText, "a"), New(2, KindText, "b")}
	updated := list[0]
	updated.Opacity = 40

	once := Update(list, updated)
	twice := Update(once, updated)
	if !reflect.DeepEqual(once, twice) {
		t.Errorf("Update not idempotent: %+v vs %+v", once, twice)
	}
}

func TestUpdateUnknownIDIsNoop(t *testing.T) {
	list := []Watermark{New(1, KindText, "a")}
	ghost := New(99, KindText, "ghost")

	out := Update(list, ghost)
	if !reflect.DeepEqual(out, list) {
		t.Errorf("expected no-op, got %+v", out)
	}
}

func TestRemoveAt(t *testing.T) {
	list := []Watermark{New(1, KindText, "a"), New(2, KindText, "b"), New(3, KindText, "c")}

	out := RemoveAt(list, 1)
	if len(out) != 2 || out[0].ID != 1 || out[1].ID != 3 {
		t.Errorf("unexpected result: %+v", out)
	}
}

func TestRemoveAtOutOfRange(t *testing.T) {
	list := []Watermark{New(1, KindText, "a")}
	for _, index := range []int{-1, 1, 5} {
		out := RemoveAt(list, index)
		if !reflect.DeepEqual(out, list) {
			t.Errorf("RemoveAt(%d) should be a no-op, got %+v", index, out)
		}
	}
}

func TestStyleChanged(t *testing.T) {
	m := New(1, KindText, "a")

	changed := m
	changed.Content = "b"
	if !changed.StyleChanged(m) {
		t.Error("content change should invalidate measurement")
	}

	changed = m
	changed.FontSize = "32"
	if !changed.StyleChanged(m) {
		t.Error("font size change should invalidate measurement")
	}

	changed = m
	changed.Opacity = 30
	if changed.StyleChanged(m) {
		t.Error("opacity change should not invalidate measurement")
	}
}

func TestIndexOf(t *testing.T) {
	list := []Watermark{New(4, KindText, "a"), New(9, KindImage, "b")}
	if got := IndexOf(list, 9); got != 1 {
		t.Errorf("IndexOf(9) = %d, want 1", got)
	}
	if got := IndexOf(list, 123); got != -1 {
		t.Errorf("IndexOf(123) = %d, want -1", got)
	}
}
