package scheduling

import (
	"math"

	"github.com/willowpath/scheduler-api/internal/models"
)

// earthRadiusKm is the mean radius of Earth.
const earthRadiusKm = 6371.0

// HaversineKm returns the great-circle distance between two points in
// kilometers.
func HaversineKm(a, b models.GeoPoint) float64 {
	dLat := degToRad(b.Latitude - a.Latitude)
	dLon := degToRad(b.Longitude - a.Longitude)

	sinLat := math.Sin(dLat / 2)
	sinLon := math.Sin(dLon / 2)

	h := sinLat*sinLat +
		math.Cos(degToRad(a.Latitude))*math.Cos(degToRad(b.Latitude))*sinLon*sinLon

	return 2 * earthRadiusKm * math.Asin(math.Sqrt(h))
}

// TravelMinutes estimates travel time for a distance at the given hour of
// day, assuming the configured baseline speed. The rush-hour multiplier is
// applied exactly once when the hour falls in a rush window. Callers with a
// missing coordinate must skip travel computation entirely rather than pass a
// fabricated zero distance.
func TravelMinutes(distanceKm float64, hour int, cfg Config) float64 {
	if distanceKm <= 0 {
		return 0
	}
	minutes := distanceKm / cfg.BaselineSpeedKmh * 60
	if cfg.IsRushHour(hour) {
		minutes *= cfg.RushHourMultiplier
	}
	return minutes
}

func degToRad(deg float64) float64 {
	return deg * math.Pi / 180
}
