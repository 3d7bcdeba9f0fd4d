package domain

import "time"

// YearTable is one calendar year's slice of a table.
type YearTable struct {
	Year  int
	Table Table
}

// AnnualPartition holds one entry per calendar year in ascending order.
type AnnualPartition []YearTable

// Years lists the partition keys in order.
func (p AnnualPartition) Years() []int {
	out := make([]int, len(p))
	for i, y := range p {
		out[i] = y.Year
	}
	return out
}

// PartitionByYear splits t into one table per calendar year between the first
// and last timestamps, inclusive. Each year covers [Jan-1 01:00, Dec-31 23:00];
// years without rows are present with an empty table.
func PartitionByYear(t Table) AnnualPartition {
	if len(t) == 0 {
		return nil
	}
	first, last := t.First().Year(), t.Last().Year()
	out := make(AnnualPartition, 0, last-first+1)
	for year := first; year <= last; year++ {
		from := time.Date(year, time.January, 1, 1, 0, 0, 0, time.UTC)
		to := time.Date(year, time.December, 31, 23, 0, 0, 0, time.UTC)
		out = append(out, YearTable{Year: year, Table: t.Between(from, to)})
	}
	return out
}
