package scheduling

import (
	"fmt"
	"sort"
	"time"

	"github.com/willowpath/scheduler-api/internal/models"
)

// GenerateRequest is the immutable snapshot a generation pass works from.
// The engine never mutates the rosters or sessions it is handed.
type GenerateRequest struct {
	Therapists []models.Therapist
	Clients    []models.Client
	Sessions   []models.Session
	// StartDate and EndDate bound the generation range, inclusive. Only the
	// date component is used.
	StartDate time.Time
	EndDate   time.Time
}

func (r GenerateRequest) validate() error {
	if r.StartDate.IsZero() || r.EndDate.IsZero() {
		return inputErrorf("start and end dates are required")
	}
	if r.EndDate.Before(r.StartDate) {
		return inputErrorf("end date must not be before start date")
	}
	for i := range r.Therapists {
		if r.Therapists[i].ID == "" {
			return inputErrorf("therapist at index %d has no id", i)
		}
	}
	for i := range r.Clients {
		if r.Clients[i].ID == "" {
			return inputErrorf("client at index %d has no id", i)
		}
	}
	return nil
}

// candidate is one scored (therapist, client, window) triple under
// consideration.
type candidate struct {
	therapist *models.Therapist
	client    *models.Client
	start     time.Time
	end       time.Time
	score     float64
}

// Generate proposes a non-conflicting, preference-respecting set of sessions
// across the date range. It is a best-effort greedy optimizer: clients that
// cannot be placed at all are silently omitted, and callers detect
// under-scheduling by diffing the output against the roster. Running it twice
// on identical input yields an identical slot list.
func Generate(req GenerateRequest, cfg Config) ([]models.ScheduleSlot, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid scheduler config: %w", err)
	}
	if err := req.validate(); err != nil {
		return nil, err
	}

	candidates := enumerateCandidates(req, cfg)

	// Deterministic processing order: best score first, then the stable
	// tuple (start, therapist, client) so equal scores never reorder.
	sort.SliceStable(candidates, func(i, j int) bool {
		a, b := candidates[i], candidates[j]
		if a.score != b.score {
			return a.score > b.score
		}
		if !a.start.Equal(b.start) {
			return a.start.Before(b.start)
		}
		if a.therapist.ID != b.therapist.ID {
			return a.therapist.ID < b.therapist.ID
		}
		return a.client.ID < b.client.ID
	})

	acc := newAccumulator(req.Sessions)
	for _, cand := range candidates {
		acc = acc.accept(cand, cfg)
	}

	slots := acc.slots
	sort.SliceStable(slots, func(i, j int) bool {
		if !slots[i].StartTime.Equal(slots[j].StartTime) {
			return slots[i].StartTime.Before(slots[j].StartTime)
		}
		return slots[i].TherapistID < slots[j].TherapistID
	})
	return slots, nil
}

// enumerateCandidates walks every day of the range and every grid slot of the
// service window, pairing therapists and clients whose modalities intersect
// and whose locations fall inside both travel caps.
func enumerateCandidates(req GenerateRequest, cfg Config) []candidate {
	sc := newScoreContext(req.Sessions, cfg)
	var candidates []candidate

	for day := dateOnly(req.StartDate); !day.After(dateOnly(req.EndDate)); day = day.AddDate(0, 0, 1) {
		for ti := range req.Therapists {
			therapist := &req.Therapists[ti]
			for ci := range req.Clients {
				client := &req.Clients[ci]
				if len(ServiceOverlap(therapist.ServiceTypes, client.ServicePreferences)) == 0 {
					continue
				}

				var distance *float64
				if tLoc, cLoc := therapist.Geolocation(), client.Geolocation(); tLoc != nil && cLoc != nil {
					d := HaversineKm(*tLoc, *cLoc)
					if therapist.ServiceRadiusKm != nil && d > *therapist.ServiceRadiusKm {
						continue
					}
					distance = &d
				}

				for minute := cfg.ServiceWindowStart; minute+cfg.SessionMinutes <= cfg.ServiceWindowEnd; minute += cfg.SlotIntervalMinutes {
					start := atMinute(day, minute)
					end := start.Add(time.Duration(cfg.SessionMinutes) * time.Minute)
					lastMinute := minute + cfg.SessionMinutes - 1
					if !IsAvailable(therapist, day.Weekday(), minute) ||
						!IsAvailable(therapist, day.Weekday(), lastMinute) ||
						!IsAvailable(client, day.Weekday(), minute) ||
						!IsAvailable(client, day.Weekday(), lastMinute) {
						continue
					}

					var travel *float64
					if distance != nil {
						t := TravelMinutes(*distance, start.Hour(), cfg)
						if client.MaxTravelMinutes != nil && t > float64(*client.MaxTravelMinutes) {
							continue
						}
						travel = &t
					}

					candidates = append(candidates, candidate{
						therapist: therapist,
						client:    client,
						start:     start,
						end:       end,
						score:     sc.score(therapist, client, start, end, travel),
					})
				}
			}
		}
	}
	return candidates
}

// accumulator is the explicit state threaded through the greedy fold:
// accepted slots plus the bookkeeping needed to enforce capacity and per-day
// rules against them. It stands in for shared mutable state so the generator
// stays a pure function of its inputs.
type accumulator struct {
	slots []models.ScheduleSlot
	// sessions holds the external snapshot plus accepted slots, re-validated
	// through the conflict detector on every acceptance.
	sessions []models.Session
	// therapistWeekMinutes tracks existing plus accepted load per ISO week.
	therapistWeekMinutes map[string]int
	// pairDays ensures at most one accepted slot per (therapist, client, day).
	pairDays map[string]bool
	// clientDays enforces the optional one-session-per-client-per-day rule.
	clientDays map[string]bool
}

func newAccumulator(existing []models.Session) accumulator {
	acc := accumulator{
		slots:                make([]models.ScheduleSlot, 0),
		sessions:             make([]models.Session, 0, len(existing)),
		therapistWeekMinutes: make(map[string]int),
		pairDays:             make(map[string]bool),
		clientDays:           make(map[string]bool),
	}
	for _, s := range existing {
		if !s.OccupiesTime() {
			continue
		}
		acc.sessions = append(acc.sessions, s)
		acc.therapistWeekMinutes[s.TherapistID+"|"+isoWeekKey(s.StartTime)] += int(s.EndTime.Sub(s.StartTime).Minutes())
	}
	return acc
}

// accept folds one candidate into the accumulator, returning it unchanged
// when the candidate violates a stopping rule, a capacity bound, or still
// conflicts against the combined schedule.
func (acc accumulator) accept(cand candidate, cfg Config) accumulator {
	day := dateKey(cand.start)
	pairDay := cand.therapist.ID + "|" + cand.client.ID + "|" + day
	clientDay := cand.client.ID + "|" + day
	if acc.pairDays[pairDay] {
		return acc
	}
	if cfg.OneSessionPerClientPerDay && acc.clientDays[clientDay] {
		return acc
	}

	if cand.therapist.MaxHoursPerWeek > 0 {
		weekKey := cand.therapist.ID + "|" + isoWeekKey(cand.start)
		minutes := int(cand.end.Sub(cand.start).Minutes())
		if acc.therapistWeekMinutes[weekKey]+minutes > cand.therapist.MaxHoursPerWeek*60 {
			return acc
		}
	}

	conflicts, err := CheckConflicts(ProposedSession{
		Start:     cand.start,
		End:       cand.end,
		Therapist: cand.therapist,
		Client:    cand.client,
		Sessions:  acc.sessions,
	}, cfg)
	if err != nil || len(conflicts) > 0 {
		return acc
	}

	acc.slots = append(acc.slots, models.ScheduleSlot{
		TherapistID: cand.therapist.ID,
		ClientID:    cand.client.ID,
		StartTime:   cand.start,
		EndTime:     cand.end,
		Score:       cand.score,
	})
	acc.sessions = append(acc.sessions, models.Session{
		ID:          fmt.Sprintf("pending-%d", len(acc.slots)),
		TherapistID: cand.therapist.ID,
		ClientID:    cand.client.ID,
		StartTime:   cand.start,
		EndTime:     cand.end,
		Status:      models.SessionStatusScheduled,
	})
	acc.therapistWeekMinutes[cand.therapist.ID+"|"+isoWeekKey(cand.start)] += int(cand.end.Sub(cand.start).Minutes())
	acc.pairDays[pairDay] = true
	acc.clientDays[clientDay] = true
	return acc
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
