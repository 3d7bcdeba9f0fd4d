package domain

// Usable reports whether t carries wind data worth rendering. A table is
// unusable when it has no rows, when either column is entirely missing, or
// when either column's mean is exactly CalmDirection.
//
// The mean test is kept as-is from the archive tooling this replaces: it
// catches all-sentinel columns but also rejects any column whose mean happens
// to be -999.
func Usable(t Table) bool {
	if len(t) == 0 {
		return false
	}
	if allMissing(t, func(o Observation) *float64 { return o.Speed }) ||
		allMissing(t, func(o Observation) *float64 { return o.Direction }) {
		return false
	}
	return t.SpeedMean() != CalmDirection && t.DirectionMean() != CalmDirection
}

// RequireUsable returns a DataEmptyError when t is not Usable.
func RequireUsable(t Table, label string) error {
	if Usable(t) {
		return nil
	}
	return &DataEmptyError{Label: label, Rows: len(t)}
}

// CheckUsable combines both behaviours: with fatal set an unusable table is
// an error, otherwise it is reported as false so callers can skip it.
func CheckUsable(t Table, label string, fatal bool) (bool, error) {
	if Usable(t) {
		return true, nil
	}
	if fatal {
		return false, RequireUsable(t, label)
	}
	return false, nil
}

func allMissing(t Table, pick func(Observation) *float64) bool {
	for _, o := range t {
		if pick(o) != nil {
			return false
		}
	}
	return true
}
