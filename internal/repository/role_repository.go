package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/edutrack/edutrack-api/internal/models"
)

// RoleRepository manages persistence for role reference records.
type RoleRepository struct {
	db *sqlx.DB
}

// NewRoleRepository constructs a RoleRepository.
func NewRoleRepository(db *sqlx.DB) *RoleRepository {
	return &RoleRepository{db: db}
}

// List returns all roles ordered by id ascending.
func (r *RoleRepository) List(ctx context.Context) ([]models.Role, error) {
	const query = `SELECT id, name, created_at FROM roles ORDER BY id ASC`
	var roles []models.Role
	if err := r.db.SelectContext(ctx, &roles, query); err != nil {
		return nil, fmt.Errorf("list roles: %w", err)
	}
	return roles, nil
}

// FindByID fetches a role by id.
func (r *RoleRepository) FindByID(ctx context.Context, id int64) (*models.Role, error) {
	const query = `SELECT id, name, created_at FROM roles WHERE id = $1 LIMIT 1`
	var role models.Role
	if err := r.db.GetContext(ctx, &role, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find role by id: %w", err)
	}
	return &role, nil
}

// Create inserts a role and fills in the generated id.
func (r *RoleRepository) Create(ctx context.Context, role *models.Role) error {
	role.CreatedAt = time.Now().UTC()
	const query = `INSERT INTO roles (name, created_at) VALUES ($1, $2) RETURNING id`
	if err := r.db.GetContext(ctx, &role.ID, query, role.Name, role.CreatedAt); err != nil {
		return fmt.Errorf("create role: %w", err)
	}
	return nil
}

// Update renames a role. Missing ids yield sql.ErrNoRows.
func (r *RoleRepository) Update(ctx context.Context, role *models.Role) error {
	const query = `UPDATE roles SET name = $2 WHERE id = $1`
	res, err := r.db.ExecContext(ctx, query, role.ID, role.Name)
	if err != nil {
		return fmt.Errorf("update role: %w", err)
	}
	return requireRow(res)
}

// Delete removes a role by id.
func (r *RoleRepository) Delete(ctx context.Context, id int64) error {
	const query = `DELETE FROM roles WHERE id = $1`
	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete role: %w", err)
	}
	return requireRow(res)
}
