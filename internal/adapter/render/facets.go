package render

import (
	"time"

	"github.com/couchcryptid/windrose-etl/internal/domain"
)

// panel is one facet of a rose image.
type panel struct {
	Title string
	Table domain.Table
}

// facetKey assigns an observation to one panel title for a single facet.
type facetKey struct {
	titles []string
	of     func(o domain.Observation) string
}

// splitPanels partitions t into the panels of the rose type, in display order.
func splitPanels(t domain.Table, rose domain.RoseType, style domain.Style) []panel {
	keys := make([]facetKey, 0, len(rose.Facets))
	for _, f := range rose.Facets {
		switch f {
		case "season":
			keys = append(keys, seasonFacet(style.Hemisphere))
		case "month":
			keys = append(keys, monthFacet())
		case "daylight":
			keys = append(keys, daylightFacet(style.Latitude, style.Longitude))
		}
	}
	if len(keys) == 0 {
		return []panel{{Title: "", Table: t}}
	}

	titles := []string{""}
	for _, k := range keys {
		next := make([]string, 0, len(titles)*len(k.titles))
		for _, prefix := range titles {
			for _, title := range k.titles {
				next = append(next, join(prefix, title))
			}
		}
		titles = next
	}

	index := make(map[string]int, len(titles))
	panels := make([]panel, len(titles))
	for i, title := range titles {
		index[title] = i
		panels[i].Title = title
	}
	for _, o := range t {
		title := ""
		for _, k := range keys {
			title = join(title, k.of(o))
		}
		i := index[title]
		panels[i].Table = append(panels[i].Table, o)
	}
	return panels
}

func join(prefix, title string) string {
	if prefix == "" {
		return title
	}
	return prefix + " / " + title
}

var southernSeasons = map[time.Month]string{
	time.September: "spring (SON)", time.October: "spring (SON)", time.November: "spring (SON)",
	time.December: "summer (DJF)", time.January: "summer (DJF)", time.February: "summer (DJF)",
	time.March: "autumn (MAM)", time.April: "autumn (MAM)", time.May: "autumn (MAM)",
	time.June: "winter (JJA)", time.July: "winter (JJA)", time.August: "winter (JJA)",
}

var northernSeasons = map[time.Month]string{
	time.March: "spring (MAM)", time.April: "spring (MAM)", time.May: "spring (MAM)",
	time.June: "summer (JJA)", time.July: "summer (JJA)", time.August: "summer (JJA)",
	time.September: "autumn (SON)", time.October: "autumn (SON)", time.November: "autumn (SON)",
	time.December: "winter (DJF)", time.January: "winter (DJF)", time.February: "winter (DJF)",
}

func seasonFacet(hemisphere string) facetKey {
	if hemisphere == "northern" {
		return facetKey{
			titles: []string{"spring (MAM)", "summer (JJA)", "autumn (SON)", "winter (DJF)"},
			of:     func(o domain.Observation) string { return northernSeasons[o.Time.Month()] },
		}
	}
	return facetKey{
		titles: []string{"spring (SON)", "summer (DJF)", "autumn (MAM)", "winter (JJA)"},
		of:     func(o domain.Observation) string { return southernSeasons[o.Time.Month()] },
	}
}

func monthFacet() facetKey {
	titles := make([]string, 12)
	for m := time.January; m <= time.December; m++ {
		titles[m-1] = m.String()
	}
	return facetKey{
		titles: titles,
		of:     func(o domain.Observation) string { return o.Time.Month().String() },
	}
}

func daylightFacet(lat, lon float64) facetKey {
	return facetKey{
		titles: []string{"daylight", "nighttime"},
		of: func(o domain.Observation) string {
			if isDaylight(o.Time, lat, lon) {
				return "daylight"
			}
			return "nighttime"
		},
	}
}
