package models

import "database/sql"

// Account represents a row of the accounts table: one credential record per
// (provider, provider_account_id) pair, owned by a user.
type Account struct {
	AccountID         string         `db:"account_id"`
	UserID            string         `db:"user_id"`
	Name              string         `db:"name"`
	Image             sql.NullString `db:"image"`
	PasswordHash      sql.NullString `db:"password_hash"`
	Provider          string         `db:"provider"`
	ProviderAccountID string         `db:"provider_account_id"`
	AuditFields
}
