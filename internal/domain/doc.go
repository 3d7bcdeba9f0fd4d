// Package domain models hourly wind observations and the stages that turn a
// raw station record into data ready for wind-rose rendering.
//
// # Canonical Table
//
// Every source is normalized into a [Table] of observations with three
// fields, matching the archive tooling's column names:
//
//	date  timestamp, whole hour (network archives may be finer)
//	ws    wind speed in m/s, or missing
//	wd    wind direction in degrees 0–360, the calm sentinel -999, or missing
//
// Missing readings are nil pointers. The calm sentinel is a real value: it
// marks a direction that is meaningless because the wind was calm, and
// [ReplaceCalms] writes it wherever speed is below the calm threshold.
//
// # Source Conventions
//
// Network archives (BOM, DES, OEH, EPAV) carry day-first timestamps. The BOM
// archive reports one-minute wind speed in km/h, converted by dividing by 3.6;
// the others already use m/s.
//
// Custom CSV files have no usable time column. The time axis is synthesized
// from a start date, a start hour and an hour count, so the file must have no
// gaps. Speeds above 100 and directions above 360 are legacy no-data codes
// (999, 9999 in dispersion-model met files) and become missing.
//
// # Stage Order
//
//	adapter → SliceByPeriod → SliceByHours → ReplaceCalms → RequireUsable
//	        → PartitionByYear (optional) → renderer
//
// Period strings are "D/M/Y" or "D/M/Y-D/M/Y"; the end covers its whole day
// (end + 23h). Hour strings are comma-separated hours or inclusive ranges,
// e.g. "0-6,18-23".
//
// Annual partitions cover [Jan-1 01:00, Dec-31 23:00] of each year between
// the first and last timestamps, empty years included.
//
// # Errors
//
// Failures use a small closed set of types: [ConfigurationError],
// [ParseError], [SourceNotFoundError], [RangeConflictError] and
// [DataEmptyError]. Every one aborts the run; branch on them with errors.As.
package domain
