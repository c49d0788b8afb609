package repository

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edutrack/edutrack-api/internal/models"
)

func formationRows(formations ...models.Formation) *sqlmock.Rows {
	rows := sqlmock.NewRows([]string{"id", "formation_name", "from_date", "end_date", "level", "status"})
	for _, f := range formations {
		rows.AddRow(f.ID, f.FormationName, f.FromDate, f.EndDate, f.Level, f.Status)
	}
	return rows
}

func TestFormationRepositoryListAll(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewFormationRepository(db)

	mock.ExpectQuery(`SELECT .+ FROM formations ORDER BY id DESC`).
		WillReturnRows(formationRows(
			models.Formation{ID: 2, FormationName: "B", Level: "CE1", Status: "Active"},
			models.Formation{ID: 1, FormationName: "A", Level: "CP", Status: "Pending"},
		))

	formations, err := repo.List(context.Background(), "")
	require.NoError(t, err)
	require.Len(t, formations, 2)
	assert.Equal(t, int64(2), formations[0].ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestFormationRepositoryListByStatus(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewFormationRepository(db)

	mock.ExpectQuery(`SELECT .+ FROM formations WHERE status = \$1 ORDER BY id DESC`).
		WithArgs("Active").
		WillReturnRows(formationRows(models.Formation{ID: 2, FormationName: "B", Level: "CE1", Status: "Active"}))

	formations, err := repo.List(context.Background(), "Active")
	require.NoError(t, err)
	require.Len(t, formations, 1)
	assert.Equal(t, "Active", formations[0].Status)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestFormationRepositoryCreateReturnsID(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewFormationRepository(db)

	mock.ExpectQuery(`INSERT INTO formations .+ RETURNING id`).
		WithArgs("Spring", "2025-09-01", "2026-06-30", "CE1", "Active").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(7)))

	formation := &models.Formation{FormationName: "Spring", FromDate: "2025-09-01", EndDate: "2026-06-30", Level: "CE1", Status: "Active"}
	require.NoError(t, repo.Create(context.Background(), formation))
	assert.Equal(t, int64(7), formation.ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestFormationRepositoryUpdateMissing(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewFormationRepository(db)

	mock.ExpectExec(`UPDATE formations SET`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Update(context.Background(), &models.Formation{ID: 42, FormationName: "X", Level: "CP", Status: "Active"})
	assert.ErrorIs(t, err, sql.ErrNoRows)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestFormationRepositoryDelete(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewFormationRepository(db)

	mock.ExpectExec(`DELETE FROM formations WHERE id = \$1`).
		WithArgs(int64(2)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Delete(context.Background(), 2))
	require.NoError(t, mock.ExpectationsWereMet())
}
