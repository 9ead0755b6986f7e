package scheduling

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/willowpath/scheduler-api/internal/models"
)

func TestSuggestAlternativesEmptyWithoutConflicts(t *testing.T) {
	proposal := ProposedSession{
		Start:     mondayAt(10, 0),
		End:       mondayAt(11, 0),
		Therapist: testTherapist("t1", fullWeekHours("08:00", "18:00")),
		Client:    testClient("c1", fullWeekHours("08:00", "18:00")),
	}
	alternatives, err := SuggestAlternatives(proposal, nil, DefaultConfig())
	require.NoError(t, err)
	assert.Empty(t, alternatives)
}

func TestSuggestAlternativesResolveDoubleBooking(t *testing.T) {
	cfg := DefaultConfig()
	proposal := ProposedSession{
		Start:     mondayAt(10, 0),
		End:       mondayAt(11, 0),
		Therapist: testTherapist("t1", fullWeekHours("08:00", "18:00")),
		Client:    testClient("c1", fullWeekHours("08:00", "18:00")),
		Sessions: []models.Session{
			session("s1", "t1", "c2", mondayAt(10, 0), 60),
		},
	}
	conflicts, err := CheckConflicts(proposal, cfg)
	require.NoError(t, err)
	require.NotEmpty(t, conflicts)

	alternatives, err := SuggestAlternatives(proposal, conflicts, cfg)
	require.NoError(t, err)
	require.Len(t, alternatives, cfg.MaxAlternatives)

	for _, alt := range alternatives {
		assert.False(t, alt.StartTime.Equal(proposal.Start), "the original window is never suggested")
		assert.NotEmpty(t, alt.Reason)

		probe := proposal
		probe.Start = alt.StartTime
		probe.End = alt.EndTime
		remaining, err := CheckConflicts(probe, cfg)
		require.NoError(t, err)
		assert.Empty(t, remaining, "every suggestion must re-validate clean")
	}

	for i := 1; i < len(alternatives); i++ {
		assert.GreaterOrEqual(t, alternatives[i-1].Score, alternatives[i].Score, "ranked best-first")
	}
}

func TestSuggestAlternativesProbesFollowingDays(t *testing.T) {
	cfg := DefaultConfig()
	client := testClient("c1", weekHours("08:00", "18:00", "monday", "tuesday"))

	// Every Monday window is taken for the client.
	var sessions []models.Session
	for hour := 8; hour < 18; hour++ {
		sessions = append(sessions, session("s"+string(rune('a'+hour)), "t2", "c1", mondayAt(hour, 0), 60))
	}

	proposal := ProposedSession{
		Start:     mondayAt(10, 0),
		End:       mondayAt(11, 0),
		Therapist: testTherapist("t1", fullWeekHours("08:00", "18:00")),
		Client:    client,
		Sessions:  sessions,
	}
	conflicts, err := CheckConflicts(proposal, cfg)
	require.NoError(t, err)
	require.NotEmpty(t, conflicts)

	alternatives, err := SuggestAlternatives(proposal, conflicts, cfg)
	require.NoError(t, err)
	require.Len(t, alternatives, 1)
	assert.Equal(t, mondayAt(10, 0).AddDate(0, 0, 1), alternatives[0].StartTime)
	assert.Contains(t, alternatives[0].Reason, "Tuesday")
}

func TestSuggestAlternativesNoOpeningFound(t *testing.T) {
	cfg := DefaultConfig()
	client := testClient("c1", weekHours("08:00", "18:00", "monday"))

	var sessions []models.Session
	for hour := 8; hour < 18; hour++ {
		sessions = append(sessions, session("s"+string(rune('a'+hour)), "t2", "c1", mondayAt(hour, 0), 60))
	}

	proposal := ProposedSession{
		Start:     mondayAt(10, 0),
		End:       mondayAt(11, 0),
		Therapist: testTherapist("t1", fullWeekHours("08:00", "18:00")),
		Client:    client,
		Sessions:  sessions,
	}
	conflicts, err := CheckConflicts(proposal, cfg)
	require.NoError(t, err)
	require.NotEmpty(t, conflicts)

	alternatives, err := SuggestAlternatives(proposal, conflicts, cfg)
	require.NoError(t, err)
	assert.Empty(t, alternatives, "a fully booked week yields an empty list, not an error")
}

func TestSuggestAlternativesMalformedInput(t *testing.T) {
	_, err := SuggestAlternatives(ProposedSession{}, []models.Conflict{{Kind: models.ConflictDoubleBooking}}, DefaultConfig())
	require.Error(t, err)
	assert.True(t, IsInputError(err))
}
