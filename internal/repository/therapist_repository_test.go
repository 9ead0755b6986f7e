package repository

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func therapistRows() *sqlmock.Rows {
	hours := `{"monday":{"start":"08:00","end":"18:00"}}`
	return sqlmock.NewRows([]string{
		"id", "full_name", "latitude", "longitude", "availability_hours", "service_types",
		"min_hours_per_week", "max_hours_per_week", "avoid_rush_hour", "service_radius_km",
		"active", "created_at", "updated_at",
	}).AddRow("t1", "Dana Reeve", -6.2, 106.8, []byte(hours), []byte(`["speech"]`),
		10, 40, false, 25.0, true, time.Now(), time.Now())
}

func TestTherapistRepositoryListActive(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewTherapistRepository(db)

	mock.ExpectQuery("SELECT .+ FROM therapists WHERE active = TRUE ORDER BY full_name, id").
		WillReturnRows(therapistRows())

	therapists, err := repo.ListActive(context.Background())
	require.NoError(t, err)
	require.Len(t, therapists, 1)
	assert.Equal(t, "t1", therapists[0].ID)
	require.NotNil(t, therapists[0].AvailabilityHours["monday"])
	assert.Equal(t, "08:00", *therapists[0].AvailabilityHours["monday"].Start)
	assert.Equal(t, []string{"speech"}, []string(therapists[0].ServiceTypes))
	require.NotNil(t, therapists[0].Geolocation())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTherapistRepositoryFindByID(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewTherapistRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("FROM therapists WHERE id = $1")).
		WithArgs("t1").
		WillReturnRows(therapistRows())

	therapist, err := repo.FindByID(context.Background(), "t1")
	require.NoError(t, err)
	assert.Equal(t, "Dana Reeve", therapist.FullName)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTherapistRepositoryFindByIDMissing(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewTherapistRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("FROM therapists WHERE id = $1")).
		WithArgs("missing").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.FindByID(context.Background(), "missing")
	assert.True(t, errors.Is(err, sql.ErrNoRows))
	assert.NoError(t, mock.ExpectationsWereMet())
}
