package scheduling

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/willowpath/scheduler-api/internal/models"
)

func rosterRequest(days int) GenerateRequest {
	return GenerateRequest{
		Therapists: []models.Therapist{
			*testTherapist("t1", fullWeekHours("08:00", "18:00")),
			*testTherapist("t2", fullWeekHours("09:00", "17:00")),
		},
		Clients: []models.Client{
			*testClient("c1", fullWeekHours("08:00", "18:00")),
			*testClient("c2", fullWeekHours("09:00", "15:00")),
			*testClient("c3", fullWeekHours("10:00", "16:00")),
		},
		StartDate: mondayAt(0, 0),
		EndDate:   mondayAt(0, 0).AddDate(0, 0, days-1),
	}
}

func TestGenerateDeterministic(t *testing.T) {
	cfg := DefaultConfig()
	req := rosterRequest(3)

	first, err := Generate(req, cfg)
	require.NoError(t, err)
	second, err := Generate(req, cfg)
	require.NoError(t, err)

	assert.Equal(t, first, second, "identical input must yield an identical slot list")
	assert.NotEmpty(t, first)
}

func TestGenerateSlotsNeverOverlapPerParty(t *testing.T) {
	slots, err := Generate(rosterRequest(3), DefaultConfig())
	require.NoError(t, err)
	require.NotEmpty(t, slots)

	for i := range slots {
		for j := i + 1; j < len(slots); j++ {
			a, b := slots[i], slots[j]
			if a.TherapistID != b.TherapistID && a.ClientID != b.ClientID {
				continue
			}
			assert.False(t, overlaps(a.StartTime, a.EndTime, b.StartTime, b.EndTime),
				"slots sharing a party must not overlap: %+v vs %+v", a, b)
		}
	}
}

func TestGenerateRespectsDeclaredHours(t *testing.T) {
	req := rosterRequest(2)
	slots, err := Generate(req, DefaultConfig())
	require.NoError(t, err)

	people := map[string]Person{}
	for i := range req.Therapists {
		people[req.Therapists[i].ID] = &req.Therapists[i]
	}
	for i := range req.Clients {
		people[req.Clients[i].ID] = &req.Clients[i]
	}

	for _, slot := range slots {
		day := slot.StartTime.Weekday()
		for _, id := range []string{slot.TherapistID, slot.ClientID} {
			assert.True(t, IsAvailable(people[id], day, MinuteOfDay(slot.StartTime)))
			assert.True(t, IsAvailable(people[id], day, MinuteOfDay(slot.EndTime.Add(-time.Minute))))
		}
	}
}

func TestGenerateOneSessionPerClientPerDay(t *testing.T) {
	slots, err := Generate(rosterRequest(3), DefaultConfig())
	require.NoError(t, err)

	seen := map[string]bool{}
	for _, slot := range slots {
		key := slot.ClientID + "|" + slot.StartTime.Format("2006-01-02")
		assert.False(t, seen[key], "client %s scheduled twice on %s", slot.ClientID, key)
		seen[key] = true
	}
}

func TestGenerateAllowsMultiplePerDayWhenDisabled(t *testing.T) {
	cfg := DefaultConfig()
	cfg.OneSessionPerClientPerDay = false

	req := GenerateRequest{
		Therapists: []models.Therapist{
			*testTherapist("t1", fullWeekHours("08:00", "18:00")),
			*testTherapist("t2", fullWeekHours("08:00", "18:00")),
		},
		Clients: []models.Client{
			*testClient("c1", fullWeekHours("08:00", "18:00")),
		},
		StartDate: mondayAt(0, 0),
		EndDate:   mondayAt(0, 0),
	}
	slots, err := Generate(req, cfg)
	require.NoError(t, err)
	// Each therapist can still see the client at most once per day, so the
	// relaxed rule yields exactly one slot per therapist.
	assert.Len(t, slots, 2)
}

func TestGenerateHonoursWeeklyCapacity(t *testing.T) {
	therapist := testTherapist("t1", fullWeekHours("08:00", "18:00"))
	therapist.MaxHoursPerWeek = 2

	req := GenerateRequest{
		Therapists: []models.Therapist{*therapist},
		Clients: []models.Client{
			*testClient("c1", fullWeekHours("08:00", "18:00")),
			*testClient("c2", fullWeekHours("08:00", "18:00")),
			*testClient("c3", fullWeekHours("08:00", "18:00")),
		},
		StartDate: mondayAt(0, 0),
		EndDate:   mondayAt(0, 0).AddDate(0, 0, 5),
	}
	slots, err := Generate(req, DefaultConfig())
	require.NoError(t, err)
	assert.Len(t, slots, 2, "a two hour weekly cap admits two one hour sessions")
}

func TestGenerateSkipsIncompatibleServiceTypes(t *testing.T) {
	client := testClient("c1", fullWeekHours("08:00", "18:00"))
	client.ServicePreferences = models.StringSlice{"behavioral"}

	req := GenerateRequest{
		Therapists: []models.Therapist{*testTherapist("t1", fullWeekHours("08:00", "18:00"))},
		Clients:    []models.Client{*client},
		StartDate:  mondayAt(0, 0),
		EndDate:    mondayAt(0, 0),
	}
	slots, err := Generate(req, DefaultConfig())
	require.NoError(t, err)
	assert.Empty(t, slots, "clients with no modality overlap stay unscheduled")
}

func TestGenerateRespectsExistingSessions(t *testing.T) {
	req := GenerateRequest{
		Therapists: []models.Therapist{*testTherapist("t1", fullWeekHours("08:00", "18:00"))},
		Clients:    []models.Client{*testClient("c1", fullWeekHours("08:00", "18:00"))},
		Sessions: []models.Session{
			session("s1", "t1", "c9", mondayAt(8, 0), 600),
		},
		StartDate: mondayAt(0, 0),
		EndDate:   mondayAt(0, 0),
	}
	slots, err := Generate(req, DefaultConfig())
	require.NoError(t, err)
	assert.Empty(t, slots, "a therapist booked across the whole window gets nothing new")
}

func TestGenerateOutputSortedByStartThenTherapist(t *testing.T) {
	slots, err := Generate(rosterRequest(3), DefaultConfig())
	require.NoError(t, err)
	for i := 1; i < len(slots); i++ {
		prev, cur := slots[i-1], slots[i]
		if prev.StartTime.Equal(cur.StartTime) {
			assert.LessOrEqual(t, prev.TherapistID, cur.TherapistID)
			continue
		}
		assert.True(t, prev.StartTime.Before(cur.StartTime))
	}
}

func TestGenerateMalformedInput(t *testing.T) {
	cfg := DefaultConfig()

	_, err := Generate(GenerateRequest{}, cfg)
	require.Error(t, err)
	assert.True(t, IsInputError(err))

	_, err = Generate(GenerateRequest{
		StartDate: mondayAt(0, 0),
		EndDate:   mondayAt(0, 0).AddDate(0, 0, -1),
	}, cfg)
	require.Error(t, err)
	assert.True(t, IsInputError(err))

	_, err = Generate(GenerateRequest{
		Therapists: []models.Therapist{{}},
		StartDate:  mondayAt(0, 0),
		EndDate:    mondayAt(0, 0),
	}, cfg)
	require.Error(t, err)
	assert.True(t, IsInputError(err))
}

func TestGenerateRejectsInvalidConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Weights.Travel = 0.5

	_, err := Generate(rosterRequest(1), cfg)
	require.Error(t, err)
	assert.False(t, IsInputError(err), "config faults are not input errors")
	assert.Contains(t, err.Error(), "scoring weights")
}
