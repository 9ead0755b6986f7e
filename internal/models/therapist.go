package models

import "time"

// Therapist represents a provider on the practice roster.
type Therapist struct {
	ID                string            `db:"id" json:"id"`
	FullName          string            `db:"full_name" json:"full_name"`
	Latitude          *float64          `db:"latitude" json:"latitude,omitempty"`
	Longitude         *float64          `db:"longitude" json:"longitude,omitempty"`
	AvailabilityHours AvailabilityHours `db:"availability_hours" json:"availability_hours"`
	ServiceTypes      StringSlice       `db:"service_types" json:"service_types"`
	MinHoursPerWeek   int               `db:"min_hours_per_week" json:"min_hours_per_week"`
	MaxHoursPerWeek   int               `db:"max_hours_per_week" json:"max_hours_per_week"`
	AvoidRushHour     bool              `db:"avoid_rush_hour" json:"avoid_rush_hour"`
	ServiceRadiusKm   *float64          `db:"service_radius_km" json:"service_radius_km,omitempty"`
	Active            bool              `db:"active" json:"active"`
	CreatedAt         time.Time         `db:"created_at" json:"created_at"`
	UpdatedAt         time.Time         `db:"updated_at" json:"updated_at"`
}

// PersonID returns the roster identifier.
func (t *Therapist) PersonID() string { return t.ID }

// Geolocation returns the therapist's coordinates, or nil when either
// coordinate is missing.
func (t *Therapist) Geolocation() *GeoPoint {
	if t.Latitude == nil || t.Longitude == nil {
		return nil
	}
	return &GeoPoint{Latitude: *t.Latitude, Longitude: *t.Longitude}
}

// Hours returns the weekly availability map.
func (t *Therapist) Hours() AvailabilityHours { return t.AvailabilityHours }

// Services returns the offered service modalities.
func (t *Therapist) Services() []string { return t.ServiceTypes }

// TherapistFilter captures filtering options for listing therapists.
type TherapistFilter struct {
	Search   string
	Active   *bool
	Page     int
	PageSize int
}
