package geometry

import (
	"strconv"
	"strings"
)

// Unit identifies how a Dim's raw value is interpreted at resolve time.
type Unit int

const (
	UnitPx      Unit = iota // absolute pixels
	UnitPercent             // percentage of the axis extent
)

func (u Unit) String() string {
	switch u {
	case UnitPx:
		return "px"
	case UnitPercent:
		return "%"
	default:
		return "?"
	}
}

// Dim is a deferred coordinate: the raw text the user typed plus the unit it
// carries. The raw value is kept as-is so partially-typed or momentarily
// invalid input survives editing; interpretation happens only in Resolve.
type Dim struct {
	Raw  string `json:"raw"`
	Unit Unit   `json:"unit"`
}

// Px returns a pixel-mode Dim for a numeric value.
func Px(v float64) Dim {
	return Dim{Raw: strconv.FormatFloat(v, 'f', -1, 64), Unit: UnitPx}
}

// Percent returns a percentage-mode Dim for a numeric value.
func Percent(v float64) Dim {
	return Dim{Raw: strconv.FormatFloat(v, 'f', -1, 64), Unit: UnitPercent}
}

// ParseDim interprets user text as a coordinate. A trailing "%" selects
// percentage mode; anything else is treated as absolute pixels.
func ParseDim(s string) Dim {
	s = strings.TrimSpace(s)
	if strings.HasSuffix(s, "%") {
		return Dim{Raw: strings.TrimSpace(strings.TrimSuffix(s, "%")), Unit: UnitPercent}
	}
	return Dim{Raw: s, Unit: UnitPx}
}

// Resolve converts the Dim to absolute pixels along an axis of the given
// extent. Pixel values ignore the extent entirely; percentages scale by
// extent/100. Unparsable raw text resolves to 0 rather than failing.
func (d Dim) Resolve(axisExtent float64) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(d.Raw), 64)
	if err != nil {
		return 0
	}
	if d.Unit == UnitPercent {
		return v * axisExtent / 100.0
	}
	return v
}

// String formats the Dim the way the user would type it.
func (d Dim) String() string {
	if d.Unit == UnitPercent {
		return d.Raw + "%"
	}
	return d.Raw
}
