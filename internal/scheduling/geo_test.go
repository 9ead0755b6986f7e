package scheduling

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/willowpath/scheduler-api/internal/models"
)

func TestHaversineKmZeroForIdenticalPoints(t *testing.T) {
	point := models.GeoPoint{Latitude: -6.2, Longitude: 106.8}
	assert.Equal(t, 0.0, HaversineKm(point, point))
}

func TestHaversineKmSymmetric(t *testing.T) {
	a := models.GeoPoint{Latitude: -6.2, Longitude: 106.8}
	b := models.GeoPoint{Latitude: -6.9, Longitude: 107.6}
	assert.InDelta(t, HaversineKm(a, b), HaversineKm(b, a), 1e-9)
}

func TestHaversineKmKnownDistance(t *testing.T) {
	// Jakarta to Bandung is roughly 116 km as the crow flies.
	jakarta := models.GeoPoint{Latitude: -6.2088, Longitude: 106.8456}
	bandung := models.GeoPoint{Latitude: -6.9175, Longitude: 107.6191}
	distance := HaversineKm(jakarta, bandung)
	assert.InDelta(t, 116, distance, 5)
}

func TestTravelMinutesBaseline(t *testing.T) {
	cfg := DefaultConfig()
	// 10 km at 30 km/h outside rush hour.
	assert.InDelta(t, 20.0, TravelMinutes(10, 12, cfg), 1e-9)
}

func TestTravelMinutesRushMultiplierAppliedOnce(t *testing.T) {
	cfg := DefaultConfig()
	// 10 km at 08:00 carries the 1.5x multiplier exactly once, matching the
	// baseline estimate for 15 km at noon.
	rush := TravelMinutes(10, 8, cfg)
	assert.InDelta(t, 30.0, rush, 1e-9)
	assert.InDelta(t, TravelMinutes(15, 12, cfg), rush, 1e-9)
}

func TestTravelMinutesEveningRushWindow(t *testing.T) {
	cfg := DefaultConfig()
	assert.InDelta(t, 30.0, TravelMinutes(10, 17, cfg), 1e-9)
	// 18:00 falls outside the half-open evening window.
	assert.InDelta(t, 20.0, TravelMinutes(10, 18, cfg), 1e-9)
}

func TestTravelMinutesZeroDistance(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, 0.0, TravelMinutes(0, 8, cfg))
	assert.Equal(t, 0.0, TravelMinutes(-1, 8, cfg))
}
