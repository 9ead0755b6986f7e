package models

import "time"

// Client represents a client on the practice roster.
type Client struct {
	ID                 string            `db:"id" json:"id"`
	FullName           string            `db:"full_name" json:"full_name"`
	Latitude           *float64          `db:"latitude" json:"latitude,omitempty"`
	Longitude          *float64          `db:"longitude" json:"longitude,omitempty"`
	AvailabilityHours  AvailabilityHours `db:"availability_hours" json:"availability_hours"`
	ServicePreferences StringSlice       `db:"service_preferences" json:"service_preferences"`
	MaxTravelMinutes   *int              `db:"max_travel_minutes" json:"max_travel_minutes,omitempty"`
	AvoidRushHour      bool              `db:"avoid_rush_hour" json:"avoid_rush_hour"`
	Active             bool              `db:"active" json:"active"`
	CreatedAt          time.Time         `db:"created_at" json:"created_at"`
	UpdatedAt          time.Time         `db:"updated_at" json:"updated_at"`
}

// PersonID returns the roster identifier.
func (c *Client) PersonID() string { return c.ID }

// Geolocation returns the client's coordinates, or nil when either coordinate
// is missing.
func (c *Client) Geolocation() *GeoPoint {
	if c.Latitude == nil || c.Longitude == nil {
		return nil
	}
	return &GeoPoint{Latitude: *c.Latitude, Longitude: *c.Longitude}
}

// Hours returns the weekly availability map.
func (c *Client) Hours() AvailabilityHours { return c.AvailabilityHours }

// Services returns the preferred service modalities.
func (c *Client) Services() []string { return c.ServicePreferences }

// ClientFilter captures filtering options for listing clients.
type ClientFilter struct {
	Search   string
	Active   *bool
	Page     int
	PageSize int
}
