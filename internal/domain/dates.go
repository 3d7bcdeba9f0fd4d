package domain

import (
	"errors"
	"strings"
	"time"
)

// dayFirstLayouts are tried in order. Slash dates are day/month/year; the ISO
// forms appear in some network archive exports.
var dayFirstLayouts = []string{
	"2/1/2006",
	"2/1/2006 15:04",
	"2/1/2006 15:04:05",
	"2006-01-02",
	"2006-01-02 15:04",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
}

const dayFirstFormat = "a day-first date such as 1/1/2019 or 1/1/2019 13:00"

var errNoLayout = errors.New("no matching day-first layout")

// ParseDayFirst parses a day-first date or date-time. Timestamps carry no
// zone and are represented in UTC.
func ParseDayFirst(field, s string) (time.Time, error) {
	v := strings.TrimSpace(s)
	if v != "" {
		for _, layout := range dayFirstLayouts {
			if t, err := time.Parse(layout, v); err == nil {
				return t, nil
			}
		}
	}
	return time.Time{}, &ParseError{Field: field, Input: s, Format: dayFirstFormat, Err: errNoLayout}
}
