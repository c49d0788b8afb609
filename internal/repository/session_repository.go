package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/edutrack/edutrack-api/internal/models"
)

const sessionColumns = "id, user_id, token, user_agent, ip_address, created_at"

// SessionRepository manages persistence for user session records.
type SessionRepository struct {
	db *sqlx.DB
}

// NewSessionRepository constructs a SessionRepository.
func NewSessionRepository(db *sqlx.DB) *SessionRepository {
	return &SessionRepository{db: db}
}

// List returns all sessions, newest first.
func (r *SessionRepository) List(ctx context.Context) ([]models.UserSession, error) {
	query := fmt.Sprintf("SELECT %s FROM user_sessions ORDER BY created_at DESC", sessionColumns)
	var sessions []models.UserSession
	if err := r.db.SelectContext(ctx, &sessions, query); err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	return sessions, nil
}

// FindByID fetches a session by id.
func (r *SessionRepository) FindByID(ctx context.Context, id int64) (*models.UserSession, error) {
	query := fmt.Sprintf("SELECT %s FROM user_sessions WHERE id = $1 LIMIT 1", sessionColumns)
	var session models.UserSession
	if err := r.db.GetContext(ctx, &session, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find session by id: %w", err)
	}
	return &session, nil
}

// Create inserts a session record and fills in the generated id.
func (r *SessionRepository) Create(ctx context.Context, session *models.UserSession) error {
	session.CreatedAt = time.Now().UTC()
	const query = `INSERT INTO user_sessions (user_id, token, user_agent, ip_address, created_at)
        VALUES ($1, $2, $3, $4, $5) RETURNING id`
	if err := r.db.GetContext(ctx, &session.ID, query,
		session.UserID, session.Token, session.UserAgent, session.IPAddress, session.CreatedAt); err != nil {
		return fmt.Errorf("create session: %w", err)
	}
	return nil
}

// Update replaces token, user agent and ip. Missing ids yield sql.ErrNoRows.
func (r *SessionRepository) Update(ctx context.Context, session *models.UserSession) error {
	const query = `UPDATE user_sessions SET token = $2, user_agent = $3, ip_address = $4 WHERE id = $1`
	res, err := r.db.ExecContext(ctx, query, session.ID, session.Token, session.UserAgent, session.IPAddress)
	if err != nil {
		return fmt.Errorf("update session: %w", err)
	}
	return requireRow(res)
}

// Delete removes a session by id.
func (r *SessionRepository) Delete(ctx context.Context, id int64) error {
	const query = `DELETE FROM user_sessions WHERE id = $1`
	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return requireRow(res)
}
