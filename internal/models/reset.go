package models

import "time"

// PasswordReset is a single-use, time-limited reset credential. Consumption
// flips the consumed flag atomically; the row is deleted afterwards as a
// best-effort cleanup.
type PasswordReset struct {
	ID        int64     `db:"id" json:"id"`
	Email     string    `db:"email" json:"email"`
	Token     string    `db:"token" json:"token"`
	ExpiresAt time.Time `db:"expires_at" json:"expires_at"`
	Consumed  bool      `db:"consumed" json:"consumed"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// Expired reports whether the token is unusable at the given instant. The
// boundary is exclusive: a token expiring exactly now is already expired.
func (p *PasswordReset) Expired(now time.Time) bool {
	return !now.Before(p.ExpiresAt)
}
