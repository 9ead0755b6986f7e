package models

import "time"

// SessionStatus enumerates the lifecycle of a therapy session.
type SessionStatus string

const (
	SessionStatusScheduled SessionStatus = "scheduled"
	SessionStatusCompleted SessionStatus = "completed"
	SessionStatusCancelled SessionStatus = "cancelled"
	SessionStatusNoShow    SessionStatus = "no_show"
)

// Session represents a booked therapy session.
type Session struct {
	ID          string        `db:"id" json:"id"`
	TherapistID string        `db:"therapist_id" json:"therapist_id"`
	ClientID    string        `db:"client_id" json:"client_id"`
	StartTime   time.Time     `db:"start_time" json:"start_time"`
	EndTime     time.Time     `db:"end_time" json:"end_time"`
	Status      SessionStatus `db:"status" json:"status"`
	CreatedAt   time.Time     `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time     `db:"updated_at" json:"updated_at"`
}

// OccupiesTime reports whether the session blocks its window. Cancelled
// sessions never occupy time.
func (s Session) OccupiesTime() bool {
	return s.Status != SessionStatusCancelled
}

// SessionFilter captures filtering options for listing sessions.
type SessionFilter struct {
	TherapistID string
	ClientID    string
	From        *time.Time
	To          *time.Time
	Status      string
	Page        int
	PageSize    int
}
