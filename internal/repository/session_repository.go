package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/willowpath/scheduler-api/internal/models"
)

const sessionColumns = `id, therapist_id, client_id, start_time, end_time, status, created_at, updated_at`

// SessionRepository persists therapy sessions.
type SessionRepository struct {
	db *sqlx.DB
}

// NewSessionRepository constructs the repository.
func NewSessionRepository(db *sqlx.DB) *SessionRepository {
	return &SessionRepository{db: db}
}

// ListBetween returns sessions overlapping the window, newest first.
func (r *SessionRepository) ListBetween(ctx context.Context, from, to time.Time) ([]models.Session, error) {
	const query = `SELECT ` + sessionColumns + ` FROM sessions WHERE start_time < $2 AND end_time > $1 ORDER BY start_time`
	sessions := []models.Session{}
	if err := r.db.SelectContext(ctx, &sessions, query, from, to); err != nil {
		return nil, err
	}
	return sessions, nil
}

// ListByParticipants returns every session involving the therapist or the
// client.
func (r *SessionRepository) ListByParticipants(ctx context.Context, therapistID, clientID string) ([]models.Session, error) {
	const query = `SELECT ` + sessionColumns + ` FROM sessions WHERE therapist_id = $1 OR client_id = $2 ORDER BY start_time`
	sessions := []models.Session{}
	if err := r.db.SelectContext(ctx, &sessions, query, therapistID, clientID); err != nil {
		return nil, err
	}
	return sessions, nil
}

// BulkCreateWithTx inserts a batch of sessions inside the caller's
// transaction, assigning ids and timestamps.
func (r *SessionRepository) BulkCreateWithTx(ctx context.Context, tx *sqlx.Tx, sessions []models.Session) error {
	if len(sessions) == 0 {
		return nil
	}
	const query = `INSERT INTO sessions (id, therapist_id, client_id, start_time, end_time, status, created_at, updated_at)
		VALUES (:id, :therapist_id, :client_id, :start_time, :end_time, :status, :created_at, :updated_at)`
	now := time.Now().UTC()
	for i := range sessions {
		if sessions[i].ID == "" {
			sessions[i].ID = uuid.NewString()
		}
		if sessions[i].Status == "" {
			sessions[i].Status = models.SessionStatusScheduled
		}
		sessions[i].CreatedAt = now
		sessions[i].UpdatedAt = now
		if _, err := tx.NamedExecContext(ctx, query, sessions[i]); err != nil {
			return fmt.Errorf("insert session: %w", err)
		}
	}
	return nil
}
