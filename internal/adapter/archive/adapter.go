package archive

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	"github.com/couchcryptid/windrose-etl/internal/domain"
)

// kmhPerMS converts km/h to m/s.
const kmhPerMS = 3.6

// naValues are treated as missing readings.
var naValues = []string{"", "NA", "NaN", "nan", "<nil>"}

// Adapter normalizes one network's raw export into the canonical table.
type Adapter interface {
	Normalize(r io.Reader) (domain.Table, error)
}

// columns names the raw timestamp, speed and direction columns of an export.
type columns struct {
	time      string
	speed     string
	direction string
}

// bomAdapter reads BOM one-minute exports, which report speed in km/h.
type bomAdapter struct{}

var bomColumns = columns{
	time:      "Timestamp",
	speed:     "Wind (1 minute) speed in km/h",
	direction: "Vector Average Wind Direction (in degrees)",
}

func (bomAdapter) Normalize(r io.Reader) (domain.Table, error) {
	return normalize(r, domain.NetworkBOM, bomColumns, kmhPerMS)
}

// stationAdapter reads the shared DES/OEH/EPAV layout, already in m/s.
type stationAdapter struct {
	network domain.Network
}

var stationColumns = columns{
	time:      "Date",
	speed:     "WS (m/s)",
	direction: "WD (deg)",
}

func (a stationAdapter) Normalize(r io.Reader) (domain.Table, error) {
	return normalize(r, a.network, stationColumns, 1)
}

// For returns the adapter for a network.
func For(n domain.Network) (Adapter, error) {
	switch n {
	case domain.NetworkBOM:
		return bomAdapter{}, nil
	case domain.NetworkDES, domain.NetworkOEH, domain.NetworkEPAV:
		return stationAdapter{network: n}, nil
	default:
		return nil, &domain.ConfigurationError{Option: "data source", Value: string(n), Valid: "one of BOM, DES, OEH, EPAV"}
	}
}

func normalize(r io.Reader, n domain.Network, cols columns, divisor float64) (domain.Table, error) {
	df := readFrame(r, true)
	if df.Err != nil {
		return nil, fmt.Errorf("read %s archive: %w", n, df.Err)
	}

	times, err := column(df, n, cols.time)
	if err != nil {
		return nil, err
	}
	speeds, err := column(df, n, cols.speed)
	if err != nil {
		return nil, err
	}
	directions, err := column(df, n, cols.direction)
	if err != nil {
		return nil, err
	}

	table := make(domain.Table, df.Nrow())
	for i := range table {
		ts, err := domain.ParseDayFirst(cols.time, elemString(times.Elem(i)))
		if err != nil {
			return nil, fmt.Errorf("%s archive row %d: %w", n, i+1, err)
		}
		table[i].Time = ts
		table[i].Speed = scaled(parseReading(speeds.Elem(i)), divisor)
		table[i].Direction = parseReading(directions.Elem(i))
	}
	return table, nil
}

// readFrame loads every cell as a string so readings can be parsed and
// validated individually.
func readFrame(r io.Reader, header bool) dataframe.DataFrame {
	return dataframe.ReadCSV(r,
		dataframe.HasHeader(header),
		dataframe.DetectTypes(false),
		dataframe.DefaultType(series.String),
		dataframe.NaNValues(naValues),
	)
}

func column(df dataframe.DataFrame, n domain.Network, name string) (series.Series, error) {
	col := df.Col(name)
	if col.Err != nil {
		return col, &domain.ParseError{
			Field:  string(n) + " archive header",
			Input:  strings.Join(df.Names(), ","),
			Format: fmt.Sprintf("a %q column", name),
			Err:    col.Err,
		}
	}
	return col, nil
}

func elemString(e series.Element) string {
	if e.IsNA() {
		return ""
	}
	return e.String()
}

// parseReading returns nil for missing or non-numeric cells.
func parseReading(e series.Element) *float64 {
	if e.IsNA() {
		return nil
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(e.String()), 64)
	if err != nil {
		return nil
	}
	return &v
}

func scaled(v *float64, divisor float64) *float64 {
	if v == nil || divisor == 1 {
		return v
	}
	return domain.Reading(*v / divisor)
}
