package scheduling

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/willowpath/scheduler-api/internal/models"
)

// Relative importance of the suggestion sub-scores. Kept local to the
// suggester; the generator has its own configurable weighting.
const (
	altProximityWeight = 0.5
	altRushWeight      = 0.25
	altTravelWeight    = 0.25
)

// SuggestAlternatives searches for replacement windows when a proposal
// conflicts. Candidates slide across the same day between the parties'
// availability bounds and probe the following days at the requested clock
// time; any candidate that still conflicts is discarded. The result is
// ranked best-first and may legitimately be empty.
func SuggestAlternatives(p ProposedSession, conflicts []models.Conflict, cfg Config) ([]models.AlternativeTime, error) {
	if err := p.validate(); err != nil {
		return nil, err
	}
	alternatives := make([]models.AlternativeTime, 0)
	if len(conflicts) == 0 {
		return alternatives, nil
	}

	duration := p.End.Sub(p.Start)
	durationMinutes := int(duration.Minutes())
	originRush := travelInRush(p, p.Start, cfg)

	for _, candidate := range candidateStarts(p, durationMinutes, cfg) {
		if candidate.Equal(p.Start) {
			continue
		}
		probe := p
		probe.Start = candidate
		probe.End = candidate.Add(duration)
		remaining, err := CheckConflicts(probe, cfg)
		if err != nil || len(remaining) > 0 {
			continue
		}
		alternatives = append(alternatives, scoreAlternative(p, probe, originRush, cfg))
	}

	sort.SliceStable(alternatives, func(i, j int) bool {
		if alternatives[i].Score == alternatives[j].Score {
			return alternatives[i].StartTime.Before(alternatives[j].StartTime)
		}
		return alternatives[i].Score > alternatives[j].Score
	})
	if cfg.MaxAlternatives > 0 && len(alternatives) > cfg.MaxAlternatives {
		alternatives = alternatives[:cfg.MaxAlternatives]
	}
	return alternatives, nil
}

// candidateStarts enumerates same-day windows between the earliest and
// latest availability bound of both parties, plus the same clock time on the
// following probe days.
func candidateStarts(p ProposedSession, durationMinutes int, cfg Config) []time.Time {
	var starts []time.Time

	day := p.Start.Weekday()
	earliest, latest := 0, 0
	bounded := false
	for _, party := range []Person{p.Therapist, p.Client} {
		s, e, ok := DayBounds(party, day)
		if !ok {
			continue
		}
		if !bounded || s < earliest {
			earliest = s
		}
		if !bounded || e > latest {
			latest = e
		}
		bounded = true
	}
	if bounded {
		for minute := earliest; minute+durationMinutes <= latest; minute += cfg.SlotIntervalMinutes {
			starts = append(starts, atMinute(p.Start, minute))
		}
	}

	for offset := 1; offset <= cfg.AlternativeDayProbes; offset++ {
		starts = append(starts, p.Start.AddDate(0, 0, offset))
	}
	return starts
}

func scoreAlternative(original, probe ProposedSession, originRush bool, cfg Config) models.AlternativeTime {
	horizon := float64((cfg.AlternativeDayProbes + 1) * 24 * 60)
	offset := math.Abs(probe.Start.Sub(original.Start).Minutes())
	proximity := 1 - math.Min(offset/horizon, 1)

	rushScore := 1.0
	candidateRush := travelInRush(probe, probe.Start, cfg)
	if candidateRush {
		rushScore = 0
	}

	travelScore := 1.0
	if loc, clientLoc := probe.Therapist.Geolocation(), probe.Client.Geolocation(); loc != nil && clientLoc != nil {
		travel := TravelMinutes(HaversineKm(*loc, *clientLoc), probe.Start.Hour(), cfg)
		budget := float64(cfg.DefaultTravelBudgetMinutes)
		if probe.Client.MaxTravelMinutes != nil {
			budget = float64(*probe.Client.MaxTravelMinutes)
		}
		if budget > 0 {
			travelScore = 1 - math.Min(travel/budget, 1)
		}
	}

	score := altProximityWeight*proximity + altRushWeight*rushScore + altTravelWeight*travelScore

	reason := "Within both parties' declared hours"
	switch {
	case originRush && !candidateRush:
		reason = "Avoids rush-hour travel"
	case proximity >= 0.9:
		reason = "Closest opening to the requested time"
	case !sameDate(probe.Start, original.Start):
		reason = fmt.Sprintf("Next opening on %s at the requested time", probe.Start.Format("Monday"))
	}

	return models.AlternativeTime{
		StartTime: probe.Start,
		EndTime:   probe.End,
		Score:     score,
		Reason:    reason,
	}
}

// travelInRush reports whether the pair has a travel leg that would happen in
// a rush window at the given start time.
func travelInRush(p ProposedSession, start time.Time, cfg Config) bool {
	if p.Therapist.Geolocation() == nil || p.Client.Geolocation() == nil {
		return false
	}
	return cfg.IsRushHour(start.Hour())
}

// atMinute pins a timestamp to the given minute of its day.
func atMinute(t time.Time, minuteOfDay int) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), minuteOfDay/60, minuteOfDay%60, 0, 0, t.Location())
}
