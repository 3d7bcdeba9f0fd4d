package domain

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Bounds is an inclusive numeric range used by option checks.
type Bounds struct {
	Min, Max float64
}

func (b Bounds) contains(v float64) bool { return v >= b.Min && v <= b.Max }

func (b Bounds) String() string {
	return fmt.Sprintf("in the range %g to %g", b.Min, b.Max)
}

// Valid ranges for user-supplied options.
var (
	GridSpacingBounds = Bounds{1, 100}
	RayAngleBounds    = Bounds{10, 90}
	MaxFreqBounds     = Bounds{5, 100}
	HeaderLineBounds  = Bounds{1, 100}
	StartHourBounds   = Bounds{0, 23}
	LatitudeBounds    = Bounds{-90, 90}
	LongitudeBounds   = Bounds{-180, 180}
)

// CheckRange returns a ConfigurationError when v is outside b.
func CheckRange(option string, v float64, b Bounds) error {
	if math.IsNaN(v) || !b.contains(v) {
		return &ConfigurationError{Option: option, Value: strconv.FormatFloat(v, 'g', -1, 64), Valid: b.String()}
	}
	return nil
}

// ParseCategories parses an ascending comma-separated list of speed
// breakpoints such as "0.5,1,2,3".
func ParseCategories(s string) ([]float64, error) {
	parts := strings.Split(s, ",")
	out := make([]float64, 0, len(parts))
	for _, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return nil, &ParseError{Field: "wind speed categories", Input: s, Format: "numbers separated by commas", Err: err}
		}
		if len(out) > 0 && v <= out[len(out)-1] {
			return nil, &ParseError{Field: "wind speed categories", Input: s, Format: "strictly ascending numbers separated by commas"}
		}
		out = append(out, v)
	}
	return out, nil
}

// CheckCalmThreshold requires the calm threshold to equal the smallest
// speed category, so calms and the first plotted band agree.
func CheckCalmThreshold(categories []float64, threshold float64) error {
	if len(categories) == 0 {
		return &ConfigurationError{Option: "wind speed categories", Value: "", Valid: "at least one category"}
	}
	if categories[0] != threshold {
		return &ConfigurationError{
			Option: "calms threshold",
			Value:  strconv.FormatFloat(threshold, 'g', -1, 64),
			Valid:  fmt.Sprintf("equal to the minimum wind speed category of %g m/s", categories[0]),
		}
	}
	return nil
}

// maxColumn is the last addressable column letter (y, zero-based 24).
const maxColumn = 24

// ColumnIndex maps a single column letter a-y (any case) onto its zero-based
// position.
func ColumnIndex(option, letter string) (int, error) {
	l := strings.ToLower(strings.TrimSpace(letter))
	if len(l) != 1 || l[0] < 'a' || int(l[0]-'a') > maxColumn {
		return 0, &ConfigurationError{Option: option, Value: letter, Valid: "a single column letter a-y"}
	}
	return int(l[0] - 'a'), nil
}
