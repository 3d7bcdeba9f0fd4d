package domain

// ReplaceCalms returns a copy of t where every row with speed below
// threshold has its direction set to CalmDirection. Speeds are untouched and
// rows with a missing speed are left as they are. The input is not modified.
func ReplaceCalms(t Table, threshold float64) Table {
	out := t.Clone()
	for i := range out {
		if s := out[i].Speed; s != nil && *s < threshold {
			out[i].Direction = Reading(CalmDirection)
		}
	}
	return out
}
