package models

import "time"

// ConflictKind classifies why a proposed session cannot stand as given.
type ConflictKind string

const (
	ConflictDoubleBooking    ConflictKind = "DOUBLE_BOOKING"
	ConflictAvailability     ConflictKind = "AVAILABILITY_VIOLATION"
	ConflictTravelInfeasible ConflictKind = "TRAVEL_INFEASIBLE"
	ConflictCapacityExceeded ConflictKind = "CAPACITY_EXCEEDED"
)

// ConflictSeverity flags how binding a conflict is.
type ConflictSeverity string

const (
	ConflictSeverityHard ConflictSeverity = "hard"
	ConflictSeveritySoft ConflictSeverity = "soft"
)

// Conflict describes a single reason a proposed session is not schedulable.
type Conflict struct {
	Kind     ConflictKind     `json:"kind"`
	Message  string           `json:"message"`
	Severity ConflictSeverity `json:"severity"`
}

// AlternativeTime is a ranked replacement window for a conflicting request.
type AlternativeTime struct {
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
	Score     float64   `json:"score"`
	Reason    string    `json:"reason"`
}

// ScheduleSlot is one proposed assignment produced by the generator.
type ScheduleSlot struct {
	TherapistID string    `json:"therapist_id"`
	ClientID    string    `json:"client_id"`
	StartTime   time.Time `json:"start_time"`
	EndTime     time.Time `json:"end_time"`
	Score       float64   `json:"score"`
}
