package domain

import (
	"fmt"
	"math"
	"slices"
	"strings"
)

// Layout is a panel arrangement: columns by rows.
type Layout struct {
	Cols int
	Rows int
}

// RoseType is a faceting mode for the renderer together with its panel
// layout and image size.
type RoseType struct {
	Facets []string
	Layout Layout
	Width  int
	Height int
}

// Name joins the facets, e.g. "season_daylight".
func (r RoseType) Name() string {
	return strings.Join(r.Facets, "_")
}

// Rose types understood by the renderer.
var (
	RoseDefault         = RoseType{Facets: []string{"default"}, Layout: Layout{1, 1}, Width: 800, Height: 800}
	RoseSeason          = RoseType{Facets: []string{"season"}, Layout: Layout{2, 2}, Width: 1200, Height: 1200}
	RoseSeasonsDaylight = RoseType{Facets: []string{"season", "daylight"}, Layout: Layout{4, 2}, Width: 1500, Height: 1000}
	RoseMonth           = RoseType{Facets: []string{"month"}, Layout: Layout{3, 4}, Width: 1200, Height: 1600}
	RoseDaylight        = RoseType{Facets: []string{"daylight"}, Layout: Layout{2, 1}, Width: 1200, Height: 800}
)

// RoseSelection mirrors the per-type output toggles.
type RoseSelection struct {
	AllHours        bool
	Seasons         bool
	SeasonsDaylight bool
	Monthly         bool
	AnnualDaylight  bool
}

// SelectRoseTypes returns the chosen rose types in a fixed order. With no
// toggle set every type is produced.
func SelectRoseTypes(sel RoseSelection) []RoseType {
	var out []RoseType
	if sel.AllHours {
		out = append(out, RoseDefault)
	}
	if sel.Seasons {
		out = append(out, RoseSeason)
	}
	if sel.SeasonsDaylight {
		out = append(out, RoseSeasonsDaylight)
	}
	if sel.Monthly {
		out = append(out, RoseMonth)
	}
	if sel.AnnualDaylight {
		out = append(out, RoseDaylight)
	}
	if len(out) == 0 {
		out = []RoseType{RoseDefault, RoseSeasonsDaylight, RoseMonth, RoseSeason, RoseDaylight}
	}
	return out
}

// Style is the plotting configuration shared by every rendering call of a run.
type Style struct {
	Categories    []float64
	CalmThreshold float64
	GridSpacing   int
	RayAngle      float64
	MaxFreq       *int // nil means automatic
	Latitude      float64
	Longitude     float64
	Hemisphere    string
}

// DefaultStyle returns the stock renderer settings.
func DefaultStyle() Style {
	return Style{
		Categories:    []float64{0.5, 1, 2, 3, 4, 5, 7, 10, 15, 20},
		CalmThreshold: 0.5,
		GridSpacing:   10,
		RayAngle:      30,
		Latitude:      -34,
		Longitude:     151,
		Hemisphere:    "southern",
	}
}

// Validate checks every option against its valid range.
func (s Style) Validate() error {
	if err := CheckRange("grid spacing", float64(s.GridSpacing), GridSpacingBounds); err != nil {
		return err
	}
	if err := CheckRange("ray angle", math.Floor(s.RayAngle), RayAngleBounds); err != nil {
		return err
	}
	if s.MaxFreq != nil {
		if err := CheckRange("max frequency", float64(*s.MaxFreq), MaxFreqBounds); err != nil {
			return err
		}
	}
	if err := CheckRange("latitude", s.Latitude, LatitudeBounds); err != nil {
		return err
	}
	if err := CheckRange("longitude", s.Longitude, LongitudeBounds); err != nil {
		return err
	}
	return CheckCalmThreshold(s.Categories, s.CalmThreshold)
}

// AllDataLabel marks the whole-period rendering of a rose type.
const AllDataLabel = "all_data"

// RenderRequest is everything the renderer needs for one image. Build it
// with NewRenderRequest; it is not modified afterwards.
type RenderRequest struct {
	Station string
	Rose    RoseType
	Label   string
	Table   Table
	Style   Style
}

// NewRenderRequest builds a request that shares no slices with its inputs.
func NewRenderRequest(station string, rose RoseType, label string, t Table, style Style) RenderRequest {
	style.Categories = slices.Clone(style.Categories)
	if style.MaxFreq != nil {
		m := *style.MaxFreq
		style.MaxFreq = &m
	}
	rose.Facets = slices.Clone(rose.Facets)
	return RenderRequest{Station: station, Rose: rose, Label: label, Table: t, Style: style}
}

// YearLabel is the label used for a single-year rendering.
func YearLabel(year int) string {
	return fmt.Sprintf("%d", year)
}

// FileName is the image name, e.g. "Sydney_season_daylight_2019.png".
func (r RenderRequest) FileName() string {
	return fmt.Sprintf("%s_%s_%s.png", r.Station, r.Rose.Name(), r.Label)
}

// DirectionBin counts observations per speed band for one direction sector.
type DirectionBin struct {
	Center float64
	Counts []int
}

// RoseHistogram is the binned form of a table used for plotting.
type RoseHistogram struct {
	Bins  []DirectionBin
	Calms int
	Total int
}

// Frequency returns the percentage of all counted observations in the given
// bin and band.
func (h RoseHistogram) Frequency(bin, band int) float64 {
	if h.Total == 0 {
		return 0
	}
	return 100 * float64(h.Bins[bin].Counts[band]) / float64(h.Total)
}

// CalmFrequency returns the percentage of calm observations.
func (h RoseHistogram) CalmFrequency() float64 {
	if h.Total == 0 {
		return 0
	}
	return 100 * float64(h.Calms) / float64(h.Total)
}

// BinRose sorts every row with both readings into direction sectors of width
// angle (centred on multiples of angle) and speed bands from categories.
// Calm-sentinel rows and speeds below the first category count as calms.
func BinRose(t Table, categories []float64, angle float64) RoseHistogram {
	n := int(math.Round(360 / angle))
	if n < 1 {
		n = 1
	}
	h := RoseHistogram{Bins: make([]DirectionBin, n)}
	for i := range h.Bins {
		h.Bins[i] = DirectionBin{Center: float64(i) * angle, Counts: make([]int, len(categories))}
	}

	for _, o := range t {
		if o.Speed == nil || o.Direction == nil {
			continue
		}
		h.Total++
		band := speedBand(*o.Speed, categories)
		if *o.Direction == CalmDirection || band < 0 {
			h.Calms++
			continue
		}
		idx := int(math.Floor((math.Mod(*o.Direction, 360)+angle/2)/angle)) % n
		h.Bins[idx].Counts[band]++
	}
	return h
}

func speedBand(speed float64, categories []float64) int {
	band := -1
	for i, c := range categories {
		if speed >= c {
			band = i
		}
	}
	return band
}
