package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/edutrack/edutrack-api/internal/models"
)

// PasswordResetRepository manages persistence for reset tokens.
type PasswordResetRepository struct {
	db *sqlx.DB
}

// NewPasswordResetRepository constructs a PasswordResetRepository.
func NewPasswordResetRepository(db *sqlx.DB) *PasswordResetRepository {
	return &PasswordResetRepository{db: db}
}

// Create inserts a fresh reset token row.
func (r *PasswordResetRepository) Create(ctx context.Context, reset *models.PasswordReset) error {
	reset.CreatedAt = time.Now().UTC()
	const query = `INSERT INTO password_resets (email, token, expires_at, consumed, created_at)
        VALUES ($1, $2, $3, FALSE, $4) RETURNING id`
	if err := r.db.GetContext(ctx, &reset.ID, query,
		reset.Email, reset.Token, reset.ExpiresAt, reset.CreatedAt); err != nil {
		return fmt.Errorf("create password reset: %w", err)
	}
	return nil
}

// Consume marks the token used in a single conditional update and returns the
// row. A token already consumed (or unknown) yields sql.ErrNoRows, so a
// replayed token loses the race even when cleanup failed.
func (r *PasswordResetRepository) Consume(ctx context.Context, token string) (*models.PasswordReset, error) {
	const query = `UPDATE password_resets SET consumed = TRUE WHERE token = $1 AND consumed = FALSE
        RETURNING id, email, token, expires_at, consumed, created_at`
	var reset models.PasswordReset
	if err := r.db.GetContext(ctx, &reset, query, token); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("consume password reset: %w", err)
	}
	return &reset, nil
}

// Delete removes the token row by token value.
func (r *PasswordResetRepository) Delete(ctx context.Context, token string) error {
	const query = `DELETE FROM password_resets WHERE token = $1`
	if _, err := r.db.ExecContext(ctx, query, token); err != nil {
		return fmt.Errorf("delete password reset: %w", err)
	}
	return nil
}
