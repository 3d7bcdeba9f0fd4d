package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUsable(t *testing.T) {
	tests := []struct {
		name string
		tbl  Table
		want bool
	}{
		{"empty", Table{}, false},
		{"plain values", tableOf(readings(1, 2), readings(1, 2)), true},
		{"one sentinel row", tableOf(readings(1, -999), readings(1, -999)), true},
		{"all direction sentinel", tableOf(readings(1, 2), readings(-999, -999)), false},
		{"all speed sentinel", tableOf(readings(-999, -999), readings(1, 2)), false},
		{"all speed missing", tableOf([]*float64{nil, nil}, readings(1, 2)), false},
		{"all direction missing", tableOf(readings(1, 2), []*float64{nil, nil}), false},
		{"some missing", tableOf([]*float64{nil, Reading(3)}, []*float64{Reading(90), nil}), true},
		// Known weakness of the mean test: real values averaging -999 are rejected.
		{"coincidental mean", tableOf(readings(-1998, 0), readings(90, 90)), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Usable(tt.tbl))
		})
	}
}

func TestRequireUsable(t *testing.T) {
	require.NoError(t, RequireUsable(tableOf(readings(1), readings(1)), "all_data"))

	err := RequireUsable(Table{}, "all_data")
	var de *DataEmptyError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, "all_data", de.Label)
	assert.Zero(t, de.Rows)
}

func TestCheckUsable(t *testing.T) {
	empty := Table{}

	ok, err := CheckUsable(empty, "2019", false)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = CheckUsable(empty, "2019", true)
	assert.False(t, ok)
	var de *DataEmptyError
	assert.ErrorAs(t, err, &de)

	ok, err = CheckUsable(tableOf(readings(2), readings(200)), "2019", true)
	require.NoError(t, err)
	assert.True(t, ok)
}
