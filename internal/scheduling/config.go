// Package scheduling implements the auto-scheduling engine: geospatial
// travel estimation, availability resolution, conflict detection,
// alternative-time suggestion and batch schedule generation. The package
// performs no I/O and holds no state between calls; every function derives
// its result from the snapshot it is handed, so concurrent calls on distinct
// inputs are safe.
package scheduling

import (
	"errors"
	"fmt"
	"math"
)

// HourRange bounds an hour-of-day window [From, To).
type HourRange struct {
	From int
	To   int
}

// Contains reports whether the hour falls inside the window.
func (r HourRange) Contains(hour int) bool {
	return hour >= r.From && hour < r.To
}

// ScoringWeights assigns relative importance to each candidate sub-score.
// Weights must sum to 1.0; every sub-score is normalised to [0, 1] before
// weighting, so total candidate scores stay in [0, 1].
type ScoringWeights struct {
	Compatibility      float64
	AvailabilityMargin float64
	Travel             float64
	WorkloadBalance    float64
	Preference         float64
	Continuity         float64
	Contiguity         float64
	Urgency            float64
}

// Sum returns the total of all weights.
func (w ScoringWeights) Sum() float64 {
	return w.Compatibility + w.AvailabilityMargin + w.Travel + w.WorkloadBalance +
		w.Preference + w.Continuity + w.Contiguity + w.Urgency
}

const weightTolerance = 1e-9

// Validate rejects weight sets that do not sum to 1.0 or carry negative
// entries.
func (w ScoringWeights) Validate() error {
	for name, value := range map[string]float64{
		"compatibility":       w.Compatibility,
		"availability_margin": w.AvailabilityMargin,
		"travel":              w.Travel,
		"workload_balance":    w.WorkloadBalance,
		"preference":          w.Preference,
		"continuity":          w.Continuity,
		"contiguity":          w.Contiguity,
		"urgency":             w.Urgency,
	} {
		if value < 0 {
			return fmt.Errorf("scoring weight %s must not be negative", name)
		}
	}
	if math.Abs(w.Sum()-1.0) > weightTolerance {
		return fmt.Errorf("scoring weights must sum to 1.0, got %.6f", w.Sum())
	}
	return nil
}

// DefaultWeights returns the production weighting.
func DefaultWeights() ScoringWeights {
	return ScoringWeights{
		Compatibility:      0.20,
		AvailabilityMargin: 0.10,
		Travel:             0.15,
		WorkloadBalance:    0.15,
		Preference:         0.10,
		Continuity:         0.10,
		Contiguity:         0.10,
		Urgency:            0.10,
	}
}

// Config governs engine behaviour. Construct it once (DefaultConfig plus
// overrides) and pass it by reference through a scheduling operation.
type Config struct {
	// SlotIntervalMinutes is the enumeration grid for candidate start times.
	SlotIntervalMinutes int
	// SessionMinutes is the default duration of a generated session.
	SessionMinutes int
	// ServiceWindowStart/End bound generated slots, minutes since midnight.
	ServiceWindowStart int
	ServiceWindowEnd   int
	// BaselineSpeedKmh converts distance into travel minutes.
	BaselineSpeedKmh float64
	// RushHourMultiplier inflates travel time inside rush windows. Applied
	// exactly once per estimate.
	RushHourMultiplier float64
	MorningRush        HourRange
	EveningRush        HourRange
	// DefaultTravelBudgetMinutes normalises travel scores for clients that
	// declare no explicit cap.
	DefaultTravelBudgetMinutes int
	// MaxAlternatives caps the suggestion list.
	MaxAlternatives int
	// AlternativeDayProbes is how many following days the suggester probes at
	// the originally requested clock time.
	AlternativeDayProbes int
	// OneSessionPerClientPerDay makes the per-day uniqueness rule hard. When
	// false only conflict checks and workload caps bound acceptance.
	OneSessionPerClientPerDay bool
	Weights                   ScoringWeights
}

// DefaultConfig returns the documented engine defaults.
func DefaultConfig() Config {
	return Config{
		SlotIntervalMinutes:        15,
		SessionMinutes:             60,
		ServiceWindowStart:         8 * 60,
		ServiceWindowEnd:           18 * 60,
		BaselineSpeedKmh:           30.0,
		RushHourMultiplier:         1.5,
		MorningRush:                HourRange{From: 7, To: 9},
		EveningRush:                HourRange{From: 16, To: 18},
		DefaultTravelBudgetMinutes: 60,
		MaxAlternatives:            5,
		AlternativeDayProbes:       3,
		OneSessionPerClientPerDay:  true,
		Weights:                    DefaultWeights(),
	}
}

// Validate rejects configurations the engine cannot run with.
func (c Config) Validate() error {
	if c.SlotIntervalMinutes <= 0 {
		return errors.New("slot interval must be positive")
	}
	if c.SessionMinutes <= 0 {
		return errors.New("session duration must be positive")
	}
	if c.ServiceWindowStart < 0 || c.ServiceWindowEnd > 24*60 || c.ServiceWindowEnd <= c.ServiceWindowStart {
		return errors.New("service window must fall within a day and end after it starts")
	}
	if c.BaselineSpeedKmh <= 0 {
		return errors.New("baseline speed must be positive")
	}
	if c.RushHourMultiplier < 1 {
		return errors.New("rush-hour multiplier must be at least 1")
	}
	return c.Weights.Validate()
}

// IsRushHour reports whether the hour falls in a configured rush window.
func (c Config) IsRushHour(hour int) bool {
	return c.MorningRush.Contains(hour) || c.EveningRush.Contains(hour)
}
