package domain

import "time"

// User represents an identity profile in the domain. Credentials live on
// Account records; a user may link several providers to one profile.
type User struct {
	UserID   string `json:"id"`
	Name     string `json:"name"`
	Email    string `json:"email"` // unique, stored lowercased
	Photo    string `json:"photo,omitempty"`
	IsActive bool   `json:"-"`

	// Password-reset state. Only the SHA-256 digest of the reset token is
	// ever stored; both fields are cleared atomically with a password
	// change or on notifier failure.
	ResetTokenHash      string     `json:"-"`
	ResetTokenExpiresAt *time.Time `json:"-"`

	PasswordChangedAt *time.Time `json:"-"`
	AuditFields
}
