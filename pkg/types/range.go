package types

import (
	"strconv"
	"strings"
)

// Range is a numeric filter range. A nil bound means "unbounded on that side".
type Range struct {
	Min *float64 `json:"min,omitempty"`
	Max *float64 `json:"max,omitempty"`
}

// Bounds is a fully resolved numeric interval, used for pre-filling filter
// controls. Unlike Range both ends are always present.
type Bounds struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

func Float(v float64) *float64 {
	return &v
}

func (r Range) Empty() bool {
	return r.Min == nil && r.Max == nil
}

// Normalize swaps inverted bounds so Min <= Max. Clients sometimes submit
// swapped values; that is corrected here instead of being rejected.
func (r *Range) Normalize() {
	if r.Min != nil && r.Max != nil && *r.Min > *r.Max {
		r.Min, r.Max = r.Max, r.Min
	}
}

// Contains reports whether v falls inside the range, treating a missing
// bound as unbounded.
func (r Range) Contains(v float64) bool {
	if r.Min != nil && v < *r.Min {
		return false
	}
	if r.Max != nil && v > *r.Max {
		return false
	}
	return true
}

// DimensionRange is a Range gated by an explicit enabled flag. A disabled
// range never contributes to a query, even when stray bounds are present.
type DimensionRange struct {
	Enabled bool `json:"enabled"`
	Range
}

// ParseNumericLabel parses a term label such as "12.5" or "12,5" as a float.
// Returns false for unparsable or non-positive values.
func ParseNumericLabel(label string) (float64, bool) {
	s := strings.TrimSpace(strings.ReplaceAll(label, ",", "."))
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v <= 0 {
		return 0, false
	}
	return v, true
}
