package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// DayWindow bounds one day's availability in "HH:MM" 24-hour wall-clock form.
// A nil Start or End means the person is unavailable that day.
type DayWindow struct {
	Start *string `json:"start"`
	End   *string `json:"end"`
}

// AvailabilityHours maps lowercase weekday names (monday..saturday) to an
// optional window. Sunday carries no key and is implicitly unavailable.
type AvailabilityHours map[string]*DayWindow

// Value serialises availability as JSONB.
func (a AvailabilityHours) Value() (driver.Value, error) {
	if a == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(a)
}

// Scan restores availability from a JSONB column.
func (a *AvailabilityHours) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*a = AvailabilityHours{}
		return nil
	case []byte:
		return json.Unmarshal(v, a)
	case string:
		return json.Unmarshal([]byte(v), a)
	default:
		return fmt.Errorf("unsupported availability source type %T", src)
	}
}

// StringSlice persists a list of tags as JSONB.
type StringSlice []string

// Value serialises the slice as JSONB.
func (s StringSlice) Value() (driver.Value, error) {
	if s == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(s)
}

// Scan restores the slice from a JSONB column.
func (s *StringSlice) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*s = nil
		return nil
	case []byte:
		return json.Unmarshal(v, s)
	case string:
		return json.Unmarshal([]byte(v), s)
	default:
		return fmt.Errorf("unsupported string slice source type %T", src)
	}
}

// GeoPoint is a WGS-84 coordinate pair in decimal degrees.
type GeoPoint struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}
