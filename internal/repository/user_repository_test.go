package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edutrack/edutrack-api/internal/models"
)

func newMockDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return sqlx.NewDb(db, "sqlmock"), mock
}

func userRows(u models.User) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "name", "email", "password_hash", "role", "is_active", "phone", "created_at", "updated_at"}).
		AddRow(u.ID, u.Name, u.Email, u.PasswordHash, u.Role, u.IsActive, u.Phone, u.CreatedAt, u.UpdatedAt)
}

func TestUserRepositoryFindByEmail(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepository(db)

	now := time.Now().UTC()
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, name, email, password_hash, role, is_active, phone, created_at, updated_at FROM users WHERE email = $1 LIMIT 1`)).
		WithArgs("jane@example.com").
		WillReturnRows(userRows(models.User{ID: 1, Name: "Jane", Email: "jane@example.com", Role: "admin", IsActive: true, CreatedAt: now, UpdatedAt: now}))

	user, err := repo.FindByEmail(context.Background(), "jane@example.com")
	require.NoError(t, err)
	assert.Equal(t, int64(1), user.ID)
	assert.Equal(t, "admin", user.Role)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepositoryFindByEmailMissing(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepository(db)

	mock.ExpectQuery(`SELECT .+ FROM users WHERE email = \$1`).
		WithArgs("ghost@example.com").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.FindByEmail(context.Background(), "ghost@example.com")
	assert.ErrorIs(t, err, sql.ErrNoRows)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepositoryCreateReturnsID(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepository(db)

	mock.ExpectQuery(`INSERT INTO users .+ RETURNING id`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(11)))

	user := &models.User{Name: "Jane", Email: "jane@example.com", PasswordHash: "hash", Role: "user", IsActive: true}
	require.NoError(t, repo.Create(context.Background(), user))
	assert.Equal(t, int64(11), user.ID)
	assert.False(t, user.CreatedAt.IsZero())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepositoryToggleActiveSingleStatement(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepository(db)

	now := time.Now().UTC()
	mock.ExpectQuery(`UPDATE users SET is_active = NOT is_active, updated_at = \$2 WHERE id = \$1\s+RETURNING`).
		WithArgs(int64(4), sqlmock.AnyArg()).
		WillReturnRows(userRows(models.User{ID: 4, Name: "Jane", Email: "jane@example.com", IsActive: false, CreatedAt: now, UpdatedAt: now}))

	user, err := repo.ToggleActive(context.Background(), 4)
	require.NoError(t, err)
	assert.False(t, user.IsActive)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepositoryToggleActiveMissing(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepository(db)

	mock.ExpectQuery(`UPDATE users SET is_active = NOT is_active`).
		WithArgs(int64(99), sqlmock.AnyArg()).
		WillReturnError(sql.ErrNoRows)

	_, err := repo.ToggleActive(context.Background(), 99)
	assert.ErrorIs(t, err, sql.ErrNoRows)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepositoryDeleteMissingRowsError(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepository(db)

	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM users WHERE id = $1`)).
		WithArgs(int64(5)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Delete(context.Background(), 5)
	assert.ErrorIs(t, err, sql.ErrNoRows)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepositoryDeleteSuccess(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepository(db)

	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM users WHERE id = $1`)).
		WithArgs(int64(5)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Delete(context.Background(), 5))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepositoryUpdatePasswordByEmail(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepository(db)

	mock.ExpectExec(`UPDATE users SET password_hash = \$2, updated_at = \$3 WHERE email = \$1`).
		WithArgs("jane@example.com", "newhash", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.UpdatePasswordByEmail(context.Background(), "jane@example.com", "newhash"))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepositoryListWithFilters(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepository(db)

	now := time.Now().UTC()
	active := true
	mock.ExpectQuery(`SELECT .+ FROM users WHERE 1=1 AND role = \$1 AND is_active = \$2 .+ ORDER BY id ASC LIMIT 20 OFFSET 0`).
		WithArgs("admin", true, "%jane%").
		WillReturnRows(userRows(models.User{ID: 1, Name: "Jane", Email: "jane@example.com", Role: "admin", IsActive: true, CreatedAt: now, UpdatedAt: now}))
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM users WHERE 1=1`).
		WithArgs("admin", true, "%jane%").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	users, total, err := repo.List(context.Background(), models.UserFilter{Role: "admin", Active: &active, Search: "Jane"})
	require.NoError(t, err)
	assert.Len(t, users, 1)
	assert.Equal(t, 1, total)
	require.NoError(t, mock.ExpectationsWereMet())
}
