package scheduling

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/willowpath/scheduler-api/internal/models"
)

// Person is the narrow view of a therapist or client the engine reads.
type Person interface {
	PersonID() string
	Geolocation() *models.GeoPoint
	Hours() models.AvailabilityHours
	Services() []string
}

// weekdayKeys maps Go weekdays to availability map keys. Sunday is absent:
// the roster never declares sunday hours.
var weekdayKeys = map[time.Weekday]string{
	time.Monday:    "monday",
	time.Tuesday:   "tuesday",
	time.Wednesday: "wednesday",
	time.Thursday:  "thursday",
	time.Friday:    "friday",
	time.Saturday:  "saturday",
}

// ParseClock converts an "HH:MM" 24-hour string to minutes since midnight.
func ParseClock(raw string) (int, error) {
	parts := strings.SplitN(strings.TrimSpace(raw), ":", 2)
	if len(parts) != 2 {
		return 0, fmt.Errorf("invalid clock time %q", raw)
	}
	hour, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, fmt.Errorf("invalid clock time %q", raw)
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, fmt.Errorf("invalid clock time %q", raw)
	}
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return 0, fmt.Errorf("clock time %q out of range", raw)
	}
	return hour*60 + minute, nil
}

// MinuteOfDay returns local wall-clock minutes since midnight.
func MinuteOfDay(t time.Time) int {
	return t.Hour()*60 + t.Minute()
}

// IsAvailable reports whether the person is free at the given weekday and
// minute of day. Availability is the half-open window [start, end); a
// missing day entry or a nil bound means unavailable. The comparison is
// minute-granular local wall-clock arithmetic, so identical inputs always
// produce identical results.
func IsAvailable(p Person, day time.Weekday, minuteOfDay int) bool {
	start, end, ok := DayBounds(p, day)
	if !ok {
		return false
	}
	return minuteOfDay >= start && minuteOfDay < end
}

// DayBounds resolves the person's declared window for a weekday in minutes
// since midnight. ok is false when the day is unavailable or the declared
// bounds are malformed or inverted.
func DayBounds(p Person, day time.Weekday) (start, end int, ok bool) {
	key, known := weekdayKeys[day]
	if !known {
		return 0, 0, false
	}
	window, present := p.Hours()[key]
	if !present || window == nil || window.Start == nil || window.End == nil {
		return 0, 0, false
	}
	start, err := ParseClock(*window.Start)
	if err != nil {
		return 0, 0, false
	}
	end, err = ParseClock(*window.End)
	if err != nil {
		return 0, 0, false
	}
	if start >= end {
		return 0, 0, false
	}
	return start, end, true
}

// ServiceOverlap returns the modalities offered by the therapist that the
// client accepts.
func ServiceOverlap(offered, preferred []string) []string {
	set := make(map[string]struct{}, len(offered))
	for _, tag := range offered {
		set[tag] = struct{}{}
	}
	var overlap []string
	for _, tag := range preferred {
		if _, ok := set[tag]; ok {
			overlap = append(overlap, tag)
		}
	}
	return overlap
}
