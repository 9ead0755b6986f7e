package repository

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/willowpath/scheduler-api/internal/models"
)

const therapistColumns = `id, full_name, latitude, longitude, availability_hours, service_types, min_hours_per_week, max_hours_per_week, avoid_rush_hour, service_radius_km, active, created_at, updated_at`

// TherapistRepository reads the therapist roster.
type TherapistRepository struct {
	db *sqlx.DB
}

// NewTherapistRepository constructs the repository.
func NewTherapistRepository(db *sqlx.DB) *TherapistRepository {
	return &TherapistRepository{db: db}
}

// ListActive returns every active therapist ordered by name.
func (r *TherapistRepository) ListActive(ctx context.Context) ([]models.Therapist, error) {
	const query = `SELECT ` + therapistColumns + ` FROM therapists WHERE active = TRUE ORDER BY full_name, id`
	therapists := []models.Therapist{}
	if err := r.db.SelectContext(ctx, &therapists, query); err != nil {
		return nil, err
	}
	return therapists, nil
}

// FindByID returns a single therapist.
func (r *TherapistRepository) FindByID(ctx context.Context, id string) (*models.Therapist, error) {
	const query = `SELECT ` + therapistColumns + ` FROM therapists WHERE id = $1`
	var therapist models.Therapist
	if err := r.db.GetContext(ctx, &therapist, query, id); err != nil {
		return nil, err
	}
	return &therapist, nil
}
