package domain

import (
	"strconv"
	"strings"
)

const hourSpecFormat = "comma-separated hours or inclusive ranges in 0-23, e.g. 0-6,18-23"

// HourSet is the set of hours-of-day to retain.
type HourSet [24]bool

// AllHours returns the full 0-23 set.
func AllHours() HourSet {
	var s HourSet
	for h := range s {
		s[h] = true
	}
	return s
}

// Contains reports whether hour h is selected.
func (s HourSet) Contains(h int) bool {
	return h >= 0 && h < len(s) && s[h]
}

// Hours lists the selected hours in ascending order.
func (s HourSet) Hours() []int {
	out := make([]int, 0, len(s))
	for h, ok := range s {
		if ok {
			out = append(out, h)
		}
	}
	return out
}

// Len is the number of selected hours.
func (s HourSet) Len() int {
	n := 0
	for _, ok := range s {
		if ok {
			n++
		}
	}
	return n
}

// ParseHours parses an hour selection such as "1-5, 14-18" or "2,4,6".
// An empty string selects all 24 hours.
func ParseHours(spec string) (HourSet, error) {
	if strings.TrimSpace(spec) == "" {
		return AllHours(), nil
	}

	var set HourSet
	for _, token := range strings.Split(spec, ",") {
		token = strings.TrimSpace(token)
		lo, hi, err := parseHourToken(token)
		if err != nil {
			return HourSet{}, &ParseError{Field: "custom hours", Input: spec, Format: hourSpecFormat, Err: err}
		}
		for h := lo; h <= hi; h++ {
			set[h] = true
		}
	}
	return set, nil
}

func parseHourToken(token string) (int, int, error) {
	from, to, isRange := strings.Cut(token, "-")
	lo, err := parseHour(from)
	if err != nil {
		return 0, 0, err
	}
	if !isRange {
		return lo, lo, nil
	}
	hi, err := parseHour(to)
	if err != nil {
		return 0, 0, err
	}
	if hi < lo {
		return 0, 0, &ConfigurationError{Option: "hour range", Value: token, Valid: "ascending (start <= end)"}
	}
	return lo, hi, nil
}

func parseHour(s string) (int, error) {
	h, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, err
	}
	if h < 0 || h > 23 {
		return 0, &ConfigurationError{Option: "hour", Value: s, Valid: "in the range 0 to 23"}
	}
	return h, nil
}

// FilterByHours keeps rows whose hour-of-day is in set, preserving order.
// The result is a fresh contiguous table.
func FilterByHours(t Table, set HourSet) Table {
	out := make(Table, 0, len(t))
	for _, o := range t {
		if set.Contains(o.Time.Hour()) {
			out = append(out, o)
		}
	}
	return out
}

// SliceByHours parses spec and filters t by it.
func SliceByHours(t Table, spec string) (Table, HourSet, error) {
	set, err := ParseHours(spec)
	if err != nil {
		return nil, HourSet{}, err
	}
	return FilterByHours(t, set), set, nil
}
