package repository

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edutrack/edutrack-api/internal/models"
)

func TestPasswordResetRepositoryCreate(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewPasswordResetRepository(db)

	expires := time.Now().UTC().Add(15 * time.Minute)
	mock.ExpectQuery(`INSERT INTO password_resets \(email, token, expires_at, consumed, created_at\)\s+VALUES \(\$1, \$2, \$3, FALSE, \$4\) RETURNING id`).
		WithArgs("jane@example.com", "tok", expires, sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(3)))

	reset := &models.PasswordReset{Email: "jane@example.com", Token: "tok", ExpiresAt: expires}
	require.NoError(t, repo.Create(context.Background(), reset))
	assert.Equal(t, int64(3), reset.ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPasswordResetRepositoryConsumeWins(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewPasswordResetRepository(db)

	now := time.Now().UTC()
	mock.ExpectQuery(`UPDATE password_resets SET consumed = TRUE WHERE token = \$1 AND consumed = FALSE\s+RETURNING`).
		WithArgs("tok").
		WillReturnRows(sqlmock.NewRows([]string{"id", "email", "token", "expires_at", "consumed", "created_at"}).
			AddRow(int64(3), "jane@example.com", "tok", now.Add(time.Minute), true, now))

	reset, err := repo.Consume(context.Background(), "tok")
	require.NoError(t, err)
	assert.True(t, reset.Consumed)
	assert.Equal(t, "jane@example.com", reset.Email)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPasswordResetRepositoryConsumeAlreadyUsed(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewPasswordResetRepository(db)

	mock.ExpectQuery(`UPDATE password_resets SET consumed = TRUE WHERE token = \$1 AND consumed = FALSE`).
		WithArgs("tok").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.Consume(context.Background(), "tok")
	assert.ErrorIs(t, err, sql.ErrNoRows)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPasswordResetRepositoryDeleteBestEffort(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewPasswordResetRepository(db)

	mock.ExpectExec(`DELETE FROM password_resets WHERE token = \$1`).
		WithArgs("tok").
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, repo.Delete(context.Background(), "tok"))
	require.NoError(t, mock.ExpectationsWereMet())
}
