package dto

import (
	"time"

	"github.com/willowpath/scheduler-api/internal/models"
)

// GenerateScheduleRequest asks the engine for a proposal over a date range.
// Dates use the 2006-01-02 form and are inclusive.
type GenerateScheduleRequest struct {
	StartDate    string   `json:"startDate" validate:"required,datetime=2006-01-02"`
	EndDate      string   `json:"endDate" validate:"required,datetime=2006-01-02"`
	TherapistIDs []string `json:"therapistIds" validate:"omitempty,dive,required"`
	ClientIDs    []string `json:"clientIds" validate:"omitempty,dive,required"`
	// OneSessionPerClientPerDay overrides the configured default when set.
	OneSessionPerClientPerDay *bool `json:"oneSessionPerClientPerDay,omitempty"`
}

// GenerateScheduleResponse returns the proposed slots plus the clients the
// greedy pass could not place.
type GenerateScheduleResponse struct {
	ProposalID         string                `json:"proposalId"`
	Slots              []models.ScheduleSlot `json:"slots"`
	UnscheduledClients []string              `json:"unscheduledClients"`
	Stats              GenerationStats       `json:"stats"`
}

// GenerationStats summarises one generation pass.
type GenerationStats struct {
	CandidateDays  int     `json:"candidateDays"`
	TherapistCount int     `json:"therapistCount"`
	ClientCount    int     `json:"clientCount"`
	AcceptedSlots  int     `json:"acceptedSlots"`
	MeanScore      float64 `json:"meanScore"`
}

// ConflictCheckRequest vets one proposed session window.
type ConflictCheckRequest struct {
	TherapistID      string    `json:"therapistId" validate:"required"`
	ClientID         string    `json:"clientId" validate:"required"`
	StartTime        time.Time `json:"startTime" validate:"required"`
	EndTime          time.Time `json:"endTime" validate:"required"`
	ExcludeSessionID string    `json:"excludeSessionId"`
}

// ConflictCheckResponse lists every reason the proposal cannot stand.
type ConflictCheckResponse struct {
	Conflicts   []models.Conflict `json:"conflicts"`
	Schedulable bool              `json:"schedulable"`
}

// AlternativesResponse carries ranked replacement windows for a conflicting
// request.
type AlternativesResponse struct {
	Conflicts    []models.Conflict        `json:"conflicts"`
	Alternatives []models.AlternativeTime `json:"alternatives"`
}

// SaveProposalResponse reports the persisted session count.
type SaveProposalResponse struct {
	ProposalID    string   `json:"proposalId"`
	SessionIDs    []string `json:"sessionIds"`
	SessionsSaved int      `json:"sessionsSaved"`
}
