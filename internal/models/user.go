package models

import (
	"database/sql"
)

// User represents a row of the users table.
type User struct {
	UserID   string         `db:"user_id"`
	Name     string         `db:"name"`
	Email    string         `db:"email"`
	Photo    sql.NullString `db:"photo"`
	IsActive bool           `db:"is_active"`

	// Reset token fields: digest of the outstanding reset token and its
	// absolute expiry, NULL when no reset is in flight.
	ResetTokenHash      sql.NullString `db:"reset_token_hash"`
	ResetTokenExpiresAt sql.NullTime   `db:"reset_token_expires_at"`

	PasswordChangedAt sql.NullTime `db:"password_changed_at"`
	AuditFields
}
