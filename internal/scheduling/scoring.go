package scheduling

import (
	"math"
	"time"

	"github.com/willowpath/scheduler-api/internal/models"
)

// scoreContext precomputes the session history a generation pass scores
// against. It is built once per invocation from the immutable snapshot, so
// candidate scores never depend on acceptance order.
type scoreContext struct {
	cfg Config
	// pairSessions counts prior non-cancelled sessions per therapist-client
	// pair, clientSessions per client.
	pairSessions   map[string]int
	clientSessions map[string]int
	// clientLastSeen is the latest prior session start per client.
	clientLastSeen map[string]time.Time
	// therapistWeekMinutes holds booked minutes per therapist and ISO week.
	therapistWeekMinutes map[string]int
	// therapistDaySessions indexes existing sessions per therapist and date
	// for the contiguity sub-score.
	therapistDaySessions map[string][]models.Session
}

func newScoreContext(sessions []models.Session, cfg Config) *scoreContext {
	sc := &scoreContext{
		cfg:                  cfg,
		pairSessions:         make(map[string]int),
		clientSessions:       make(map[string]int),
		clientLastSeen:       make(map[string]time.Time),
		therapistWeekMinutes: make(map[string]int),
		therapistDaySessions: make(map[string][]models.Session),
	}
	for _, s := range sessions {
		if !s.OccupiesTime() {
			continue
		}
		sc.pairSessions[pairKey(s.TherapistID, s.ClientID)]++
		sc.clientSessions[s.ClientID]++
		if s.StartTime.After(sc.clientLastSeen[s.ClientID]) {
			sc.clientLastSeen[s.ClientID] = s.StartTime
		}
		weekKey := s.TherapistID + "|" + isoWeekKey(s.StartTime)
		sc.therapistWeekMinutes[weekKey] += int(s.EndTime.Sub(s.StartTime).Minutes())
		dayKey := s.TherapistID + "|" + dateKey(s.StartTime)
		sc.therapistDaySessions[dayKey] = append(sc.therapistDaySessions[dayKey], s)
	}
	return sc
}

// score combines the weighted sub-scores for one candidate. Every sub-score
// is normalised to [0, 1] and the weights sum to 1, so the total stays in
// [0, 1].
func (sc *scoreContext) score(t *models.Therapist, c *models.Client, start, end time.Time, travel *float64) float64 {
	w := sc.cfg.Weights
	total := w.Compatibility*sc.compatibilityScore(t, c) +
		w.AvailabilityMargin*sc.marginScore(t, c, start, end) +
		w.Travel*sc.travelScore(c, travel) +
		w.WorkloadBalance*sc.workloadScore(t, start) +
		w.Preference*sc.preferenceScore(t, c, start) +
		w.Continuity*sc.continuityScore(t, c) +
		w.Contiguity*sc.contiguityScore(t, start, end) +
		w.Urgency*sc.urgencyScore(c, start)
	return total
}

// compatibilityScore is the fraction of the client's preferred modalities the
// therapist offers.
func (sc *scoreContext) compatibilityScore(t *models.Therapist, c *models.Client) float64 {
	if len(c.ServicePreferences) == 0 {
		return 1
	}
	overlap := ServiceOverlap(t.ServiceTypes, c.ServicePreferences)
	return float64(len(overlap)) / float64(len(c.ServicePreferences))
}

// marginScore rewards candidates that sit comfortably inside both parties'
// declared windows rather than hugging a bound.
func (sc *scoreContext) marginScore(t *models.Therapist, c *models.Client, start, end time.Time) float64 {
	day := start.Weekday()
	startMinute := MinuteOfDay(start)
	endMinute := startMinute + int(end.Sub(start).Minutes())

	score := 1.0
	for _, party := range []Person{t, c} {
		lo, hi, ok := DayBounds(party, day)
		if !ok {
			return 0
		}
		half := float64(hi-lo) / 2
		if half <= 0 {
			return 0
		}
		margin := math.Min(float64(startMinute-lo), float64(hi-endMinute))
		partyScore := math.Max(0, math.Min(margin/half, 1))
		if partyScore < score {
			score = partyScore
		}
	}
	return score
}

// travelScore inverts estimated travel time against the client's budget. A
// pair without geolocation is scored neutrally: absent coordinates mean the
// constraint does not apply, not that the parties are co-located.
func (sc *scoreContext) travelScore(c *models.Client, travel *float64) float64 {
	if travel == nil {
		return 1
	}
	budget := float64(sc.cfg.DefaultTravelBudgetMinutes)
	if c.MaxTravelMinutes != nil {
		budget = float64(*c.MaxTravelMinutes)
	}
	if budget <= 0 {
		return 1
	}
	return 1 - math.Min(*travel/budget, 1)
}

// workloadScore favors therapists with spare weekly capacity, and maximally
// favors those still under their weekly minimum.
func (sc *scoreContext) workloadScore(t *models.Therapist, start time.Time) float64 {
	if t.MaxHoursPerWeek <= 0 {
		return 0.5
	}
	booked := float64(sc.therapistWeekMinutes[t.ID+"|"+isoWeekKey(start)])
	if t.MinHoursPerWeek > 0 && booked < float64(t.MinHoursPerWeek*60) {
		return 1
	}
	return 1 - math.Min(booked/float64(t.MaxHoursPerWeek*60), 1)
}

// preferenceScore penalises rush-hour slots for parties that asked to avoid
// them.
func (sc *scoreContext) preferenceScore(t *models.Therapist, c *models.Client, start time.Time) float64 {
	if (t.AvoidRushHour || c.AvoidRushHour) && sc.cfg.IsRushHour(start.Hour()) {
		return 0
	}
	return 1
}

// continuityScore is the share of the client's history already spent with
// this therapist.
func (sc *scoreContext) continuityScore(t *models.Therapist, c *models.Client) float64 {
	total := sc.clientSessions[c.ID]
	if total == 0 {
		return 0
	}
	return float64(sc.pairSessions[pairKey(t.ID, c.ID)]) / float64(total)
}

// contiguityScore rewards slots adjacent to an existing same-day session for
// the therapist, keeping days compact.
func (sc *scoreContext) contiguityScore(t *models.Therapist, start, end time.Time) float64 {
	adjacencyWindow := float64(2 * sc.cfg.SlotIntervalMinutes)
	for _, s := range sc.therapistDaySessions[t.ID+"|"+dateKey(start)] {
		gapBefore := start.Sub(s.EndTime).Minutes()
		gapAfter := s.StartTime.Sub(end).Minutes()
		if (gapBefore >= 0 && gapBefore <= adjacencyWindow) || (gapAfter >= 0 && gapAfter <= adjacencyWindow) {
			return 1
		}
	}
	return 0
}

// urgencyScore grows with time since the client's last session; a client with
// no history is the most urgent.
func (sc *scoreContext) urgencyScore(c *models.Client, start time.Time) float64 {
	last, ok := sc.clientLastSeen[c.ID]
	if !ok {
		return 1
	}
	days := start.Sub(last).Hours() / 24
	if days < 0 {
		return 0
	}
	return math.Min(days/30, 1)
}

func pairKey(therapistID, clientID string) string {
	return therapistID + "|" + clientID
}

func dateKey(t time.Time) string {
	return t.Format("2006-01-02")
}
