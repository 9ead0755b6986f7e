package scheduling

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/willowpath/scheduler-api/internal/models"
)

func conflictKinds(conflicts []models.Conflict) []models.ConflictKind {
	kinds := make([]models.ConflictKind, 0, len(conflicts))
	for _, c := range conflicts {
		kinds = append(kinds, c.Kind)
	}
	return kinds
}

func TestCheckConflictsCleanProposal(t *testing.T) {
	proposal := ProposedSession{
		Start:     mondayAt(10, 0),
		End:       mondayAt(11, 0),
		Therapist: testTherapist("t1", fullWeekHours("08:00", "18:00")),
		Client:    testClient("c1", fullWeekHours("08:00", "18:00")),
	}
	conflicts, err := CheckConflicts(proposal, DefaultConfig())
	require.NoError(t, err)
	assert.Empty(t, conflicts)
}

func TestCheckConflictsDoubleBookingBothParties(t *testing.T) {
	proposal := ProposedSession{
		Start:     mondayAt(10, 0),
		End:       mondayAt(11, 0),
		Therapist: testTherapist("t1", fullWeekHours("08:00", "18:00")),
		Client:    testClient("c1", fullWeekHours("08:00", "18:00")),
		Sessions: []models.Session{
			session("s1", "t1", "c1", mondayAt(10, 30), 60),
		},
	}
	conflicts, err := CheckConflicts(proposal, DefaultConfig())
	require.NoError(t, err)
	require.Len(t, conflicts, 2)
	assert.Equal(t, models.ConflictDoubleBooking, conflicts[0].Kind)
	assert.Equal(t, models.ConflictSeverityHard, conflicts[0].Severity)
	assert.Contains(t, conflicts[0].Message, "Therapist t1")
	assert.Contains(t, conflicts[1].Message, "Client c1")
}

func TestCheckConflictsBackToBackSessionsDoNotOverlap(t *testing.T) {
	proposal := ProposedSession{
		Start:     mondayAt(11, 0),
		End:       mondayAt(12, 0),
		Therapist: testTherapist("t1", fullWeekHours("08:00", "18:00")),
		Client:    testClient("c1", fullWeekHours("08:00", "18:00")),
		Sessions: []models.Session{
			// Ends exactly as the proposal starts.
			session("s1", "t1", "c2", mondayAt(10, 0), 60),
		},
	}
	conflicts, err := CheckConflicts(proposal, DefaultConfig())
	require.NoError(t, err)
	assert.Empty(t, conflicts)
}

func TestCheckConflictsExcludesSessionBeingEdited(t *testing.T) {
	existing := session("s1", "t1", "c1", mondayAt(10, 0), 60)
	proposal := ProposedSession{
		Start:            mondayAt(10, 0),
		End:              mondayAt(11, 0),
		Therapist:        testTherapist("t1", fullWeekHours("08:00", "18:00")),
		Client:           testClient("c1", fullWeekHours("08:00", "18:00")),
		Sessions:         []models.Session{existing},
		ExcludeSessionID: "s1",
	}
	conflicts, err := CheckConflicts(proposal, DefaultConfig())
	require.NoError(t, err)
	assert.Empty(t, conflicts, "a session must not conflict with itself while being edited")
}

func TestCheckConflictsIgnoresCancelledSessions(t *testing.T) {
	cancelled := session("s1", "t1", "c1", mondayAt(10, 0), 60)
	cancelled.Status = models.SessionStatusCancelled
	proposal := ProposedSession{
		Start:     mondayAt(10, 0),
		End:       mondayAt(11, 0),
		Therapist: testTherapist("t1", fullWeekHours("08:00", "18:00")),
		Client:    testClient("c1", fullWeekHours("08:00", "18:00")),
		Sessions:  []models.Session{cancelled},
	}
	conflicts, err := CheckConflicts(proposal, DefaultConfig())
	require.NoError(t, err)
	assert.Empty(t, conflicts)
}

func TestCheckConflictsAvailabilityViolation(t *testing.T) {
	proposal := ProposedSession{
		Start:     mondayAt(7, 0),
		End:       mondayAt(8, 0),
		Therapist: testTherapist("t1", fullWeekHours("08:00", "18:00")),
		Client:    testClient("c1", fullWeekHours("08:00", "18:00")),
	}
	conflicts, err := CheckConflicts(proposal, DefaultConfig())
	require.NoError(t, err)
	require.Len(t, conflicts, 2)
	for _, c := range conflicts {
		assert.Equal(t, models.ConflictAvailability, c.Kind)
		assert.Equal(t, models.ConflictSeverityHard, c.Severity)
	}
}

func TestCheckConflictsSessionEndingOnDeclaredBoundPasses(t *testing.T) {
	proposal := ProposedSession{
		Start:     mondayAt(17, 0),
		End:       mondayAt(18, 0),
		Therapist: testTherapist("t1", fullWeekHours("08:00", "18:00")),
		Client:    testClient("c1", fullWeekHours("08:00", "18:00")),
	}
	conflicts, err := CheckConflicts(proposal, DefaultConfig())
	require.NoError(t, err)
	assert.Empty(t, conflicts)
}

func TestCheckConflictsTravelBeyondServiceRadius(t *testing.T) {
	therapist := testTherapist("t1", fullWeekHours("08:00", "18:00"))
	therapist.Latitude = floatPtr(-6.2088)
	therapist.Longitude = floatPtr(106.8456)
	therapist.ServiceRadiusKm = floatPtr(50)

	client := testClient("c1", fullWeekHours("08:00", "18:00"))
	client.Latitude = floatPtr(-6.9175)
	client.Longitude = floatPtr(107.6191)

	conflicts, err := CheckConflicts(ProposedSession{
		Start:     mondayAt(10, 0),
		End:       mondayAt(11, 0),
		Therapist: therapist,
		Client:    client,
	}, DefaultConfig())
	require.NoError(t, err)
	assert.Contains(t, conflictKinds(conflicts), models.ConflictTravelInfeasible)
}

func TestCheckConflictsTravelOverClientLimit(t *testing.T) {
	therapist := testTherapist("t1", fullWeekHours("08:00", "18:00"))
	therapist.Latitude = floatPtr(-6.2)
	therapist.Longitude = floatPtr(106.8)

	client := testClient("c1", fullWeekHours("08:00", "18:00"))
	client.Latitude = floatPtr(-6.29)
	client.Longitude = floatPtr(106.8)
	client.MaxTravelMinutes = intPtr(15)

	// Roughly 10 km apart, about 20 minutes at the baseline speed.
	conflicts, err := CheckConflicts(ProposedSession{
		Start:     mondayAt(10, 0),
		End:       mondayAt(11, 0),
		Therapist: therapist,
		Client:    client,
	}, DefaultConfig())
	require.NoError(t, err)
	require.Len(t, conflicts, 1)
	assert.Equal(t, models.ConflictTravelInfeasible, conflicts[0].Kind)
	assert.Equal(t, models.ConflictSeverityHard, conflicts[0].Severity)
}

func TestCheckConflictsMissingGeolocationSkipsTravel(t *testing.T) {
	therapist := testTherapist("t1", fullWeekHours("08:00", "18:00"))
	therapist.ServiceRadiusKm = floatPtr(1)

	client := testClient("c1", fullWeekHours("08:00", "18:00"))
	client.MaxTravelMinutes = intPtr(1)

	conflicts, err := CheckConflicts(ProposedSession{
		Start:     mondayAt(10, 0),
		End:       mondayAt(11, 0),
		Therapist: therapist,
		Client:    client,
	}, DefaultConfig())
	require.NoError(t, err)
	assert.Empty(t, conflicts, "parties without coordinates opt out of travel constraints")
}

func TestCheckConflictsTightTransitionIsSoft(t *testing.T) {
	therapist := testTherapist("t1", fullWeekHours("08:00", "18:00"))
	therapist.Latitude = floatPtr(-6.2)
	therapist.Longitude = floatPtr(106.8)

	client := testClient("c1", fullWeekHours("08:00", "18:00"))
	client.Latitude = floatPtr(-6.29)
	client.Longitude = floatPtr(106.8)

	// The therapist finishes another session ten minutes before this one but
	// needs about twenty minutes on the road.
	conflicts, err := CheckConflicts(ProposedSession{
		Start:     mondayAt(10, 10),
		End:       mondayAt(11, 10),
		Therapist: therapist,
		Client:    client,
		Sessions: []models.Session{
			session("s1", "t1", "c2", mondayAt(9, 0), 60),
		},
	}, DefaultConfig())
	require.NoError(t, err)
	require.Len(t, conflicts, 1)
	assert.Equal(t, models.ConflictTravelInfeasible, conflicts[0].Kind)
	assert.Equal(t, models.ConflictSeveritySoft, conflicts[0].Severity)
}

func TestCheckConflictsWeeklyCapacityExceeded(t *testing.T) {
	therapist := testTherapist("t1", fullWeekHours("08:00", "18:00"))
	therapist.MaxHoursPerWeek = 2

	proposal := ProposedSession{
		Start:     mondayAt(12, 0),
		End:       mondayAt(13, 0),
		Therapist: therapist,
		Client:    testClient("c1", fullWeekHours("08:00", "18:00")),
		Sessions: []models.Session{
			session("s1", "t1", "c2", mondayAt(8, 0), 60),
			session("s2", "t1", "c3", mondayAt(9, 0), 60),
		},
	}
	conflicts, err := CheckConflicts(proposal, DefaultConfig())
	require.NoError(t, err)
	require.Len(t, conflicts, 1)
	assert.Equal(t, models.ConflictCapacityExceeded, conflicts[0].Kind)
	assert.Equal(t, models.ConflictSeverityHard, conflicts[0].Severity)
}

func TestCheckConflictsMalformedInput(t *testing.T) {
	cfg := DefaultConfig()
	therapist := testTherapist("t1", fullWeekHours("08:00", "18:00"))
	client := testClient("c1", fullWeekHours("08:00", "18:00"))

	cases := []ProposedSession{
		{Start: mondayAt(10, 0), End: mondayAt(11, 0), Client: client},
		{Start: mondayAt(10, 0), End: mondayAt(11, 0), Therapist: therapist},
		{Therapist: therapist, Client: client},
		{Start: mondayAt(11, 0), End: mondayAt(10, 0), Therapist: therapist, Client: client},
	}
	for i, proposal := range cases {
		_, err := CheckConflicts(proposal, cfg)
		require.Error(t, err, i)
		assert.True(t, IsInputError(err), i)
	}
}
