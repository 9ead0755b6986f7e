package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clientRows() *sqlmock.Rows {
	hours := `{"monday":{"start":"09:00","end":"15:00"},"wednesday":{"start":null,"end":null}}`
	return sqlmock.NewRows([]string{
		"id", "full_name", "latitude", "longitude", "availability_hours", "service_preferences",
		"max_travel_minutes", "avoid_rush_hour", "active", "created_at", "updated_at",
	}).AddRow("c1", "Robin Vega", nil, nil, []byte(hours), []byte(`["speech","occupational"]`),
		30, false, true, time.Now(), time.Now())
}

func TestClientRepositoryListActive(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewClientRepository(db)

	mock.ExpectQuery("SELECT .+ FROM clients WHERE active = TRUE ORDER BY full_name, id").
		WillReturnRows(clientRows())

	clients, err := repo.ListActive(context.Background())
	require.NoError(t, err)
	require.Len(t, clients, 1)
	assert.Nil(t, clients[0].Geolocation(), "missing coordinates resolve to no geolocation")
	require.NotNil(t, clients[0].AvailabilityHours["wednesday"])
	assert.Nil(t, clients[0].AvailabilityHours["wednesday"].Start)
	require.NotNil(t, clients[0].MaxTravelMinutes)
	assert.Equal(t, 30, *clients[0].MaxTravelMinutes)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestClientRepositoryFindByID(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewClientRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("FROM clients WHERE id = $1")).
		WithArgs("c1").
		WillReturnRows(clientRows())

	client, err := repo.FindByID(context.Background(), "c1")
	require.NoError(t, err)
	assert.Equal(t, "Robin Vega", client.FullName)
	assert.NoError(t, mock.ExpectationsWereMet())
}
