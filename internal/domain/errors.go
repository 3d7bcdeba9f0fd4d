package domain

import (
	"fmt"
	"strings"
)

// ConfigurationError reports a numeric or enumerated option outside its
// declared valid range.
type ConfigurationError struct {
	Option string
	Value  string
	Valid  string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("invalid %s %q: must be %s", e.Option, e.Value, e.Valid)
}

// ParseError reports input that does not match its expected format.
type ParseError struct {
	Field  string
	Input  string
	Format string
	Err    error
}

func (e *ParseError) Error() string {
	msg := fmt.Sprintf("cannot parse %s %q: expected %s", e.Field, e.Input, e.Format)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ParseError) Unwrap() error { return e.Err }

// SourceNotFoundError reports a missing station index, station file, or a
// station name absent from an index.
type SourceNotFoundError struct {
	Source    string
	Station   string
	Path      string
	Available []string
}

func (e *SourceNotFoundError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s source not found", e.Source)
	if e.Station != "" {
		fmt.Fprintf(&b, " for station %q", e.Station)
	}
	if e.Path != "" {
		fmt.Fprintf(&b, " at %s", e.Path)
	}
	if len(e.Available) > 0 {
		fmt.Fprintf(&b, "; available stations: %s", strings.Join(e.Available, ", "))
	}
	return b.String()
}

// RangeConflictError reports a request that cannot be reconciled with the
// data actually available.
type RangeConflictError struct {
	Field     string
	Requested string
	Available string
}

func (e *RangeConflictError) Error() string {
	return fmt.Sprintf("%s conflict: requested %s but data has %s", e.Field, e.Requested, e.Available)
}

// DataEmptyError is raised by the validity gate when a table carries no usable data.
type DataEmptyError struct {
	Label string
	Rows  int
}

func (e *DataEmptyError) Error() string {
	if e.Label == "" {
		return fmt.Sprintf("wind table contains no usable data (%d rows)", e.Rows)
	}
	return fmt.Sprintf("wind table %s contains no usable data (%d rows)", e.Label, e.Rows)
}
