package models

import "time"

// Role is a simple reference entity naming an application role.
type Role struct {
	ID        int64     `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// RoleRequest carries the payload for creating or updating a role.
type RoleRequest struct {
	Name string `json:"name" validate:"required"`
}
