package scheduling

import (
	"time"

	"github.com/willowpath/scheduler-api/internal/models"
)

func clockPtr(s string) *string { return &s }

func floatPtr(f float64) *float64 { return &f }

func intPtr(i int) *int { return &i }

// weekHours declares the same window for the given weekday keys.
func weekHours(start, end string, days ...string) models.AvailabilityHours {
	hours := make(models.AvailabilityHours, len(days))
	for _, day := range days {
		hours[day] = &models.DayWindow{Start: clockPtr(start), End: clockPtr(end)}
	}
	return hours
}

func fullWeekHours(start, end string) models.AvailabilityHours {
	return weekHours(start, end, "monday", "tuesday", "wednesday", "thursday", "friday", "saturday")
}

func testTherapist(id string, hours models.AvailabilityHours) *models.Therapist {
	return &models.Therapist{
		ID:                id,
		FullName:          "Therapist " + id,
		AvailabilityHours: hours,
		ServiceTypes:      models.StringSlice{"speech"},
		MaxHoursPerWeek:   40,
		Active:            true,
	}
}

func testClient(id string, hours models.AvailabilityHours) *models.Client {
	return &models.Client{
		ID:                 id,
		FullName:           "Client " + id,
		AvailabilityHours:  hours,
		ServicePreferences: models.StringSlice{"speech"},
		Active:             true,
	}
}

// mondayAt returns a fixed Monday with the given wall-clock time.
func mondayAt(hour, minute int) time.Time {
	return time.Date(2026, time.September, 7, hour, minute, 0, 0, time.UTC)
}

func session(id, therapistID, clientID string, start time.Time, minutes int) models.Session {
	return models.Session{
		ID:          id,
		TherapistID: therapistID,
		ClientID:    clientID,
		StartTime:   start,
		EndTime:     start.Add(time.Duration(minutes) * time.Minute),
		Status:      models.SessionStatusScheduled,
	}
}
