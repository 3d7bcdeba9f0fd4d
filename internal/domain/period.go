package domain

import (
	"strings"
	"time"
)

// dayTail extends a period end to the last hourly reading of that day.
const dayTail = 23 * time.Hour

// Period is an inclusive calendar range requested by the user.
type Period struct {
	Start time.Time
	End   time.Time
}

// ParsePeriod parses "D/M/Y" or "D/M/Y-D/M/Y". The end always covers the
// whole final day: a single date yields [start, start+23h] and a pair yields
// [start, end+23h].
func ParsePeriod(s string) (Period, error) {
	parts := strings.Split(s, "-")
	if len(parts) > 2 {
		return Period{}, &ParseError{Field: "data period", Input: s, Format: "D/M/Y or D/M/Y-D/M/Y"}
	}

	start, err := ParseDayFirst("data period", parts[0])
	if err != nil {
		return Period{}, err
	}
	end := start
	if len(parts) == 2 {
		end, err = ParseDayFirst("data period", parts[1])
		if err != nil {
			return Period{}, err
		}
	}
	return Period{Start: start, End: end.Add(dayTail)}, nil
}

// PeriodSlice is the result of restricting a table to a requested period.
type PeriodSlice struct {
	Table     Table
	FirstYear int
	LastYear  int

	// StartClamped is set when the request began before the first available
	// timestamp; FirstYear then reflects the data, not the request.
	StartClamped bool
	// EndClamped is the symmetric flag for the last available timestamp.
	EndClamped bool
}

// SliceByPeriod restricts t to the period described by s. An empty s is a
// no-op whose years come from the table itself. A request ending before the
// first available timestamp is a RangeConflictError.
func SliceByPeriod(t Table, s string) (PeriodSlice, error) {
	out := PeriodSlice{Table: t}
	if len(t) > 0 {
		out.FirstYear = t.First().Year()
		out.LastYear = t.Last().Year()
	}
	if strings.TrimSpace(s) == "" {
		return out, nil
	}

	p, err := ParsePeriod(s)
	if err != nil {
		return PeriodSlice{}, err
	}
	if len(t) == 0 {
		return out, nil
	}

	first, last := t.First(), t.Last()
	if p.End.Before(first) {
		return PeriodSlice{}, &RangeConflictError{
			Field:     "data period",
			Requested: s,
			Available: "first reading at " + first.Format("2/1/2006 15:04"),
		}
	}

	out.Table = t.Between(p.Start, p.End)
	if p.Start.Before(first) {
		out.StartClamped = true
	} else {
		out.FirstYear = p.Start.Year()
	}
	if p.End.After(last) {
		out.EndClamped = true
	} else {
		out.LastYear = p.End.Year()
	}
	return out, nil
}
