package domain

import (
	"context"
	"log/slog"
)

// StationRegion narrows station-name lookups to the archives' coverage.
const StationRegion = "Australia"

// LocateStation fills the style's coordinates from the station name. It is
// used when the user gave no coordinates; a nil geocoder, a failed lookup or
// an empty result leaves the style unchanged (graceful degradation).
func LocateStation(ctx context.Context, style Style, station string, geocoder Geocoder, logger *slog.Logger) Style {
	if geocoder == nil || station == "" {
		return style
	}

	result, err := geocoder.ForwardGeocode(ctx, station, StationRegion)
	if err != nil {
		logger.Warn("station geocoding failed, using default coordinates",
			"station", station,
			"error", err,
		)
		return style
	}
	if result.Lat == 0 && result.Lon == 0 {
		logger.Warn("station not found by geocoder, using default coordinates", "station", station)
		return style
	}

	logger.Info("station located",
		"station", station,
		"place", result.FormattedAddress,
		"lat", result.Lat,
		"lon", result.Lon,
		"confidence", result.Confidence,
	)
	style.Latitude = result.Lat
	style.Longitude = result.Lon
	return style
}
