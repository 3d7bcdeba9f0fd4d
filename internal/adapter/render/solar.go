package render

import (
	"math"
	"time"
)

// isDaylight reports whether the sun is above the horizon at t, where t is
// local standard time at (lat, lon) and the zone offset is lon/15 hours.
func isDaylight(t time.Time, lat, lon float64) bool {
	return solarElevation(t, lat, lon) > 0
}

// solarElevation returns the sun's elevation in degrees using the
// declination and equation-of-time approximations.
func solarElevation(t time.Time, lat, lon float64) float64 {
	doy := float64(t.YearDay())
	hour := float64(t.Hour()) + float64(t.Minute())/60

	decl := 23.45 * math.Sin(rad(360*(284+doy)/365))

	b := rad(360 * (doy - 81) / 364)
	eot := 9.87*math.Sin(2*b) - 7.53*math.Cos(b) - 1.5*math.Sin(b)
	meridian := 15 * math.Round(lon/15)
	solarTime := hour + (4*(lon-meridian)+eot)/60

	hourAngle := 15 * (solarTime - 12)
	sinEl := math.Sin(rad(lat))*math.Sin(rad(decl)) +
		math.Cos(rad(lat))*math.Cos(rad(decl))*math.Cos(rad(hourAngle))
	return math.Asin(sinEl) * 180 / math.Pi
}

func rad(deg float64) float64 { return deg * math.Pi / 180 }
