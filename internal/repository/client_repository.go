package repository

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/willowpath/scheduler-api/internal/models"
)

const clientColumns = `id, full_name, latitude, longitude, availability_hours, service_preferences, max_travel_minutes, avoid_rush_hour, active, created_at, updated_at`

// ClientRepository reads the client roster.
type ClientRepository struct {
	db *sqlx.DB
}

// NewClientRepository constructs the repository.
func NewClientRepository(db *sqlx.DB) *ClientRepository {
	return &ClientRepository{db: db}
}

// ListActive returns every active client ordered by name.
func (r *ClientRepository) ListActive(ctx context.Context) ([]models.Client, error) {
	const query = `SELECT ` + clientColumns + ` FROM clients WHERE active = TRUE ORDER BY full_name, id`
	clients := []models.Client{}
	if err := r.db.SelectContext(ctx, &clients, query); err != nil {
		return nil, err
	}
	return clients, nil
}

// FindByID returns a single client.
func (r *ClientRepository) FindByID(ctx context.Context, id string) (*models.Client, error) {
	const query = `SELECT ` + clientColumns + ` FROM clients WHERE id = $1`
	var client models.Client
	if err := r.db.GetContext(ctx, &client, query, id); err != nil {
		return nil, err
	}
	return &client, nil
}
