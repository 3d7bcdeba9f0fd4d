// Package customcsv reads wind data from arbitrary user CSV files whose
// layout is described by a header-skip count and column letters. The file's
// own timestamps are ignored; an hourly axis is synthesized from the start
// date and hour.
package customcsv

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	"github.com/couchcryptid/windrose-etl/internal/domain"
)

// Readings above these limits are legacy no-data codes such as 999 or 9999.
const (
	maxSpeed     = 100.0
	maxDirection = 360.0
)

var naValues = []string{"", "NA", "NaN", "nan", "<nil>"}

// Options describe the layout of a custom CSV file.
type Options struct {
	HeaderLines     int
	StartDate       string
	StartHour       int
	NumHours        int
	SpeedColumn     string
	DirectionColumn string
}

// layout is Options after validation.
type layout struct {
	start     time.Time
	speedCol  int
	dirCol    int
	numHours  int
	skipLines int
}

// Validate checks every option without touching the file.
func (o Options) Validate() error {
	_, err := o.layout()
	return err
}

func (o Options) layout() (layout, error) {
	if err := domain.CheckRange("header lines", float64(o.HeaderLines), domain.HeaderLineBounds); err != nil {
		return layout{}, err
	}
	if err := domain.CheckRange("start hour", float64(o.StartHour), domain.StartHourBounds); err != nil {
		return layout{}, err
	}
	if o.NumHours < 1 {
		return layout{}, &domain.ConfigurationError{Option: "number of hours", Value: strconv.Itoa(o.NumHours), Valid: "at least 1"}
	}
	speedCol, err := domain.ColumnIndex("wind speed column", o.SpeedColumn)
	if err != nil {
		return layout{}, err
	}
	dirCol, err := domain.ColumnIndex("wind direction column", o.DirectionColumn)
	if err != nil {
		return layout{}, err
	}
	day, err := domain.ParseDayFirst("start date", o.StartDate)
	if err != nil {
		return layout{}, err
	}
	return layout{
		start:     day.Add(time.Duration(o.StartHour) * time.Hour),
		speedCol:  speedCol,
		dirCol:    dirCol,
		numHours:  o.NumHours,
		skipLines: o.HeaderLines,
	}, nil
}

// ReadTable builds a canonical table of exactly NumHours rows from r. The
// source must have no missing hours; blank rows are dropped before counting.
func ReadTable(r io.Reader, opts Options) (domain.Table, error) {
	l, err := opts.layout()
	if err != nil {
		return nil, err
	}

	records, err := readRecords(r, l.skipLines)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, rowMismatch(l.numHours, 0)
	}

	df := dataframe.LoadRecords(records,
		dataframe.HasHeader(false),
		dataframe.DetectTypes(false),
		dataframe.DefaultType(series.String),
		dataframe.NaNValues(naValues),
	)
	if df.Err != nil {
		return nil, fmt.Errorf("read custom csv: %w", df.Err)
	}
	if col := max(l.speedCol, l.dirCol); col >= df.Ncol() {
		return nil, &domain.RangeConflictError{
			Field:     "column",
			Requested: string(rune('a' + col)),
			Available: fmt.Sprintf("%d columns", df.Ncol()),
		}
	}

	rows := nonBlankRows(df)
	if len(rows) != l.numHours {
		return nil, rowMismatch(l.numHours, len(rows))
	}

	table := make(domain.Table, l.numHours)
	for i, row := range rows {
		table[i] = domain.Observation{
			Time:      l.start.Add(time.Duration(i) * time.Hour),
			Speed:     capped(reading(df.Elem(row, l.speedCol)), maxSpeed),
			Direction: capped(reading(df.Elem(row, l.dirCol)), maxDirection),
		}
	}
	return table, nil
}

// readRecords skips the header lines and returns the remaining rows padded
// to a common width.
func readRecords(r io.Reader, skip int) ([][]string, error) {
	br := bufio.NewReader(r)
	for i := 0; i < skip; i++ {
		if _, err := br.ReadString('\n'); err != nil {
			if errors.Is(err, io.EOF) {
				return nil, nil
			}
			return nil, fmt.Errorf("skip header lines: %w", err)
		}
	}

	cr := csv.NewReader(br)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	cr.LazyQuotes = true
	records, err := cr.ReadAll()
	if err != nil {
		input := ""
		var pe *csv.ParseError
		if errors.As(err, &pe) {
			input = fmt.Sprintf("line %d", pe.Line+skip)
		}
		return nil, &domain.ParseError{Field: "custom csv", Input: input, Format: "comma-separated rows", Err: err}
	}

	width := 0
	for _, rec := range records {
		width = max(width, len(rec))
	}
	for i, rec := range records {
		for len(rec) < width {
			rec = append(rec, "")
		}
		records[i] = rec
	}
	return records, nil
}

func nonBlankRows(df dataframe.DataFrame) []int {
	rows := make([]int, 0, df.Nrow())
	for i := 0; i < df.Nrow(); i++ {
		for j := 0; j < df.Ncol(); j++ {
			if !df.Elem(i, j).IsNA() {
				rows = append(rows, i)
				break
			}
		}
	}
	return rows
}

func reading(e series.Element) *float64 {
	if e.IsNA() {
		return nil
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(e.String()), 64)
	if err != nil {
		return nil
	}
	return &v
}

func capped(v *float64, limit float64) *float64 {
	if v == nil || *v > limit {
		return nil
	}
	return v
}

func rowMismatch(want, got int) error {
	return &domain.RangeConflictError{
		Field:     "number of hours",
		Requested: strconv.Itoa(want),
		Available: fmt.Sprintf("%d data rows", got),
	}
}
