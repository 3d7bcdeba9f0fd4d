package domain

import (
	"math"
	"time"
)

// CalmDirection is the direction sentinel for calm or invalid-direction
// readings. It is distinct from a missing reading (nil).
const CalmDirection = -999.0

// Observation is one row of the canonical wind table (date, ws, wd).
// Speed is in m/s and Direction in degrees; nil means no reading.
type Observation struct {
	Time      time.Time `json:"date"`
	Speed     *float64  `json:"ws,omitempty"`
	Direction *float64  `json:"wd,omitempty"`
}

// Table is the canonical wind observation table. Rows are expected in
// ascending time order; no stage re-sorts them.
type Table []Observation

// Reading returns a pointer to v, for building observations.
func Reading(v float64) *float64 {
	return &v
}

// First returns the earliest timestamp, or the zero time for an empty table.
func (t Table) First() time.Time {
	if len(t) == 0 {
		return time.Time{}
	}
	return t[0].Time
}

// Last returns the latest timestamp, or the zero time for an empty table.
func (t Table) Last() time.Time {
	if len(t) == 0 {
		return time.Time{}
	}
	return t[len(t)-1].Time
}

// Clone returns a deep copy; readings are copied so the result shares no
// pointers with t.
func (t Table) Clone() Table {
	if t == nil {
		return nil
	}
	out := make(Table, len(t))
	for i, o := range t {
		out[i] = Observation{Time: o.Time, Speed: copyReading(o.Speed), Direction: copyReading(o.Direction)}
	}
	return out
}

// Between returns the rows with from <= Time <= to as a fresh table.
func (t Table) Between(from, to time.Time) Table {
	out := make(Table, 0, len(t))
	for _, o := range t {
		if o.Time.Before(from) || o.Time.After(to) {
			continue
		}
		out = append(out, o)
	}
	return out
}

// SpeedMean is the mean of the non-missing speeds, NaN when there are none.
func (t Table) SpeedMean() float64 {
	return mean(t, func(o Observation) *float64 { return o.Speed })
}

// DirectionMean is the mean of the non-missing directions, NaN when there are none.
func (t Table) DirectionMean() float64 {
	return mean(t, func(o Observation) *float64 { return o.Direction })
}

func mean(t Table, pick func(Observation) *float64) float64 {
	var sum float64
	var n int
	for _, o := range t {
		if v := pick(o); v != nil {
			sum += *v
			n++
		}
	}
	if n == 0 {
		return math.NaN()
	}
	return sum / float64(n)
}

func copyReading(v *float64) *float64 {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}
