package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/edutrack/edutrack-api/internal/models"
)

const formationColumns = "id, formation_name, from_date, end_date, level, status"

// FormationRepository manages persistence for course cohorts.
type FormationRepository struct {
	db *sqlx.DB
}

// NewFormationRepository constructs a FormationRepository.
func NewFormationRepository(db *sqlx.DB) *FormationRepository {
	return &FormationRepository{db: db}
}

// List returns formations ordered by id descending, optionally filtered by
// status.
func (r *FormationRepository) List(ctx context.Context, status string) ([]models.Formation, error) {
	query := fmt.Sprintf("SELECT %s FROM formations", formationColumns)
	var args []interface{}
	if status != "" {
		query += " WHERE status = $1"
		args = append(args, status)
	}
	query += " ORDER BY id DESC"

	var formations []models.Formation
	if err := r.db.SelectContext(ctx, &formations, query, args...); err != nil {
		return nil, fmt.Errorf("list formations: %w", err)
	}
	return formations, nil
}

// FindByID fetches a formation by id.
func (r *FormationRepository) FindByID(ctx context.Context, id int64) (*models.Formation, error) {
	query := fmt.Sprintf("SELECT %s FROM formations WHERE id = $1 LIMIT 1", formationColumns)
	var formation models.Formation
	if err := r.db.GetContext(ctx, &formation, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find formation by id: %w", err)
	}
	return &formation, nil
}

// Create inserts a formation and fills in the generated id.
func (r *FormationRepository) Create(ctx context.Context, formation *models.Formation) error {
	const query = `INSERT INTO formations (formation_name, from_date, end_date, level, status)
        VALUES ($1, $2, $3, $4, $5) RETURNING id`
	if err := r.db.GetContext(ctx, &formation.ID, query,
		formation.FormationName, formation.FromDate, formation.EndDate, formation.Level, formation.Status); err != nil {
		return fmt.Errorf("create formation: %w", err)
	}
	return nil
}

// Update replaces all mutable fields. Missing ids yield sql.ErrNoRows.
func (r *FormationRepository) Update(ctx context.Context, formation *models.Formation) error {
	const query = `UPDATE formations SET formation_name = $2, from_date = $3, end_date = $4, level = $5, status = $6 WHERE id = $1`
	res, err := r.db.ExecContext(ctx, query, formation.ID,
		formation.FormationName, formation.FromDate, formation.EndDate, formation.Level, formation.Status)
	if err != nil {
		return fmt.Errorf("update formation: %w", err)
	}
	return requireRow(res)
}

// Delete removes a formation by id.
func (r *FormationRepository) Delete(ctx context.Context, id int64) error {
	const query = `DELETE FROM formations WHERE id = $1`
	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete formation: %w", err)
	}
	return requireRow(res)
}
