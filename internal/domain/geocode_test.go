package domain

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

// --- mock geocoder ---

type mockGeocoder struct {
	result GeocodingResult
	err    error
	calls  int
	name   string
	region string
}

func (m *mockGeocoder) ForwardGeocode(_ context.Context, name, region string) (GeocodingResult, error) {
	m.calls++
	m.name, m.region = name, region
	return m.result, m.err
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// --- tests ---

func TestLocateStation_NilGeocoder(t *testing.T) {
	style := DefaultStyle()
	got := LocateStation(context.Background(), style, "Alphington", nil, discardLogger())

	assert.Equal(t, -34.0, got.Latitude)
	assert.Equal(t, 151.0, got.Longitude)
}

func TestLocateStation_Found(t *testing.T) {
	geo := &mockGeocoder{result: GeocodingResult{
		Lat:              -37.7784,
		Lon:              145.0313,
		FormattedAddress: "Alphington, Victoria, Australia",
		PlaceName:        "Alphington",
		Confidence:       0.9,
	}}

	got := LocateStation(context.Background(), DefaultStyle(), "Alphington", geo, discardLogger())

	assert.Equal(t, -37.7784, got.Latitude)
	assert.Equal(t, 145.0313, got.Longitude)
	assert.Equal(t, 1, geo.calls)
	assert.Equal(t, "Alphington", geo.name)
	assert.Equal(t, StationRegion, geo.region)
}

func TestLocateStation_ErrorKeepsDefaults(t *testing.T) {
	geo := &mockGeocoder{err: errors.New("timeout")}

	got := LocateStation(context.Background(), DefaultStyle(), "Alphington", geo, discardLogger())

	assert.Equal(t, -34.0, got.Latitude)
	assert.Equal(t, 151.0, got.Longitude)
	assert.Equal(t, 1, geo.calls)
}

func TestLocateStation_EmptyResultKeepsDefaults(t *testing.T) {
	geo := &mockGeocoder{}

	got := LocateStation(context.Background(), DefaultStyle(), "Nowhere", geo, discardLogger())

	assert.Equal(t, -34.0, got.Latitude)
	assert.Equal(t, 151.0, got.Longitude)
}

func TestLocateStation_EmptyStationSkipsLookup(t *testing.T) {
	geo := &mockGeocoder{}

	LocateStation(context.Background(), DefaultStyle(), "", geo, discardLogger())

	assert.Zero(t, geo.calls)
}
