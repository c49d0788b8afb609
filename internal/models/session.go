package models

import "time"

// UserSession is a plain session record. There is no expiry or revocation
// logic beyond deleting the row.
type UserSession struct {
	ID        int64     `db:"id" json:"id"`
	UserID    int64     `db:"user_id" json:"user_id"`
	Token     string    `db:"token" json:"token"`
	UserAgent *string   `db:"user_agent" json:"user_agent,omitempty"`
	IPAddress *string   `db:"ip_address" json:"ip_address,omitempty"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// SessionRequest carries the payload for creating or updating a session row.
type SessionRequest struct {
	UserID    int64   `json:"user_id" validate:"required"`
	Token     string  `json:"token" validate:"required"`
	UserAgent *string `json:"user_agent"`
	IPAddress *string `json:"ip_address"`
}
