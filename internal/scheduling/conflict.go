package scheduling

import (
	"errors"
	"fmt"
	"time"

	"github.com/willowpath/scheduler-api/internal/models"
)

// InputError marks malformed input. Operations abort on it with no partial
// result; "no solution" cases are empty lists, never errors.
type InputError struct {
	msg string
}

func (e *InputError) Error() string { return e.msg }

func inputErrorf(format string, args ...any) error {
	return &InputError{msg: fmt.Sprintf(format, args...)}
}

// IsInputError reports whether err (or anything it wraps) is an InputError.
func IsInputError(err error) bool {
	var ie *InputError
	return errors.As(err, &ie)
}

// ProposedSession is one (therapist, client, window) tuple to be vetted
// against an existing schedule snapshot. ExcludeSessionID skips a session
// being edited in place so it never conflicts with itself.
type ProposedSession struct {
	Start            time.Time
	End              time.Time
	Therapist        *models.Therapist
	Client           *models.Client
	Sessions         []models.Session
	ExcludeSessionID string
}

func (p ProposedSession) validate() error {
	if p.Therapist == nil || p.Therapist.ID == "" {
		return inputErrorf("therapist is required")
	}
	if p.Client == nil || p.Client.ID == "" {
		return inputErrorf("client is required")
	}
	if p.Start.IsZero() || p.End.IsZero() {
		return inputErrorf("start and end times are required")
	}
	if !p.End.After(p.Start) {
		return inputErrorf("end time must be after start time")
	}
	return nil
}

// relevantSessions filters the snapshot to sessions that occupy time for
// either party, dropping cancelled sessions and the excluded id.
func (p ProposedSession) relevantSessions() []models.Session {
	var out []models.Session
	for _, s := range p.Sessions {
		if !s.OccupiesTime() {
			continue
		}
		if p.ExcludeSessionID != "" && s.ID == p.ExcludeSessionID {
			continue
		}
		if s.TherapistID != p.Therapist.ID && s.ClientID != p.Client.ID {
			continue
		}
		out = append(out, s)
	}
	return out
}

// overlaps reports whether [aStart, aEnd) intersects [bStart, bEnd).
func overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && bStart.Before(aEnd)
}

// CheckConflicts vets a proposed session and returns every reason it cannot
// stand as given. An empty list means the proposal is schedulable as-is. The
// function has no side effects and may be called repeatedly on every edit.
func CheckConflicts(p ProposedSession, cfg Config) ([]models.Conflict, error) {
	if err := p.validate(); err != nil {
		return nil, err
	}

	conflicts := make([]models.Conflict, 0)
	sessions := p.relevantSessions()

	for _, s := range sessions {
		if !overlaps(p.Start, p.End, s.StartTime, s.EndTime) {
			continue
		}
		if s.TherapistID == p.Therapist.ID {
			conflicts = append(conflicts, models.Conflict{
				Kind:     models.ConflictDoubleBooking,
				Severity: models.ConflictSeverityHard,
				Message: fmt.Sprintf("therapist %s already has a session from %s to %s",
					p.Therapist.FullName, s.StartTime.Format("15:04"), s.EndTime.Format("15:04")),
			})
		}
		if s.ClientID == p.Client.ID {
			conflicts = append(conflicts, models.Conflict{
				Kind:     models.ConflictDoubleBooking,
				Severity: models.ConflictSeverityHard,
				Message: fmt.Sprintf("client %s already has a session from %s to %s",
					p.Client.FullName, s.StartTime.Format("15:04"), s.EndTime.Format("15:04")),
			})
		}
	}

	conflicts = append(conflicts, availabilityConflicts(p)...)
	conflicts = append(conflicts, travelConflicts(p, sessions, cfg)...)
	conflicts = append(conflicts, capacityConflicts(p, sessions)...)

	return conflicts, nil
}

// availabilityConflicts probes both parties at the start and at one minute
// before the end, so a session ending exactly on a declared bound passes.
func availabilityConflicts(p ProposedSession) []models.Conflict {
	day := p.Start.Weekday()
	startMinute := MinuteOfDay(p.Start)
	lastMinute := MinuteOfDay(p.End.Add(-time.Minute))

	var conflicts []models.Conflict
	if !IsAvailable(p.Therapist, day, startMinute) || !IsAvailable(p.Therapist, day, lastMinute) {
		conflicts = append(conflicts, models.Conflict{
			Kind:     models.ConflictAvailability,
			Severity: models.ConflictSeverityHard,
			Message: fmt.Sprintf("therapist %s is outside declared hours on %s",
				p.Therapist.FullName, weekdayKeys[day]),
		})
	}
	if !IsAvailable(p.Client, day, startMinute) || !IsAvailable(p.Client, day, lastMinute) {
		conflicts = append(conflicts, models.Conflict{
			Kind:     models.ConflictAvailability,
			Severity: models.ConflictSeverityHard,
			Message: fmt.Sprintf("client %s is outside declared hours on %s",
				p.Client.FullName, weekdayKeys[day]),
		})
	}
	return conflicts
}

// travelConflicts applies the distance and travel-time caps. A party without
// geolocation opts out of travel constraints entirely.
func travelConflicts(p ProposedSession, sessions []models.Session, cfg Config) []models.Conflict {
	therapistLoc := p.Therapist.Geolocation()
	clientLoc := p.Client.Geolocation()
	if therapistLoc == nil || clientLoc == nil {
		return nil
	}

	distance := HaversineKm(*therapistLoc, *clientLoc)
	travel := TravelMinutes(distance, p.Start.Hour(), cfg)

	var conflicts []models.Conflict
	if p.Therapist.ServiceRadiusKm != nil && distance > *p.Therapist.ServiceRadiusKm {
		conflicts = append(conflicts, models.Conflict{
			Kind:     models.ConflictTravelInfeasible,
			Severity: models.ConflictSeverityHard,
			Message: fmt.Sprintf("distance %.1f km exceeds therapist %s's service radius of %.1f km",
				distance, p.Therapist.FullName, *p.Therapist.ServiceRadiusKm),
		})
	}
	if p.Client.MaxTravelMinutes != nil && travel > float64(*p.Client.MaxTravelMinutes) {
		conflicts = append(conflicts, models.Conflict{
			Kind:     models.ConflictTravelInfeasible,
			Severity: models.ConflictSeverityHard,
			Message: fmt.Sprintf("estimated travel of %.0f minutes exceeds client %s's limit of %d minutes",
				travel, p.Client.FullName, *p.Client.MaxTravelMinutes),
		})
	}

	// Transition feasibility: the therapist must be able to cover the known
	// travel leg between an adjacent same-day session and the proposal.
	if travel > 0 {
		for _, s := range sessions {
			if s.TherapistID != p.Therapist.ID {
				continue
			}
			if !sameDate(s.StartTime, p.Start) {
				continue
			}
			gapBefore := p.Start.Sub(s.EndTime).Minutes()
			gapAfter := s.StartTime.Sub(p.End).Minutes()
			if (gapBefore >= 0 && gapBefore < travel) || (gapAfter >= 0 && gapAfter < travel) {
				conflicts = append(conflicts, models.Conflict{
					Kind:     models.ConflictTravelInfeasible,
					Severity: models.ConflictSeveritySoft,
					Message: fmt.Sprintf("only %.0f minutes between sessions for an estimated %.0f minute transfer",
						minNonNegative(gapBefore, gapAfter), travel),
				})
				break
			}
		}
	}
	return conflicts
}

// capacityConflicts enforces the therapist's weekly maximum against sessions
// already booked in the same ISO week.
func capacityConflicts(p ProposedSession, sessions []models.Session) []models.Conflict {
	if p.Therapist.MaxHoursPerWeek <= 0 {
		return nil
	}
	week := isoWeekKey(p.Start)
	booked := 0.0
	for _, s := range sessions {
		if s.TherapistID != p.Therapist.ID || isoWeekKey(s.StartTime) != week {
			continue
		}
		booked += s.EndTime.Sub(s.StartTime).Hours()
	}
	proposed := p.End.Sub(p.Start).Hours()
	if booked+proposed > float64(p.Therapist.MaxHoursPerWeek) {
		return []models.Conflict{{
			Kind:     models.ConflictCapacityExceeded,
			Severity: models.ConflictSeverityHard,
			Message: fmt.Sprintf("therapist %s would exceed the weekly maximum of %d hours",
				p.Therapist.FullName, p.Therapist.MaxHoursPerWeek),
		}}
	}
	return nil
}

func sameDate(a, b time.Time) bool {
	return a.Year() == b.Year() && a.YearDay() == b.YearDay()
}

func isoWeekKey(t time.Time) string {
	year, week := t.ISOWeek()
	return fmt.Sprintf("%d-%02d", year, week)
}

func minNonNegative(a, b float64) float64 {
	switch {
	case a < 0:
		return b
	case b < 0:
		return a
	case a < b:
		return a
	default:
		return b
	}
}
