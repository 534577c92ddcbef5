package pgsql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/notely/notely_backend/internal/apperrors"
	"github.com/notely/notely_backend/internal/core/domain"
	portsrepo "github.com/notely/notely_backend/internal/core/ports/repositories"
	"github.com/notely/notely_backend/internal/models"
)

type PgxAccountRepository struct {
	db *pgxpool.Pool
}

func NewPgxAccountRepository(db *pgxpool.Pool) portsrepo.AccountRepository {
	return &PgxAccountRepository{db: db}
}

var _ portsrepo.AccountRepository = (*PgxAccountRepository)(nil)

func toModelAccount(d domain.Account) models.Account {
	m := models.Account{
		AccountID:         d.AccountID,
		UserID:            d.UserID,
		Name:              d.Name,
		Provider:          string(d.Provider),
		ProviderAccountID: d.ProviderAccountID,
		AuditFields: models.AuditFields{
			CreatedAt: d.CreatedAt,
			UpdatedAt: d.UpdatedAt,
		},
	}
	if d.Image != "" {
		m.Image = sql.NullString{String: d.Image, Valid: true}
	}
	if d.PasswordHash != "" {
		m.PasswordHash = sql.NullString{String: d.PasswordHash, Valid: true}
	}
	return m
}

func toDomainAccount(m models.Account) domain.Account {
	return domain.Account{
		AccountID:         m.AccountID,
		UserID:            m.UserID,
		Name:              m.Name,
		Image:             m.Image.String,
		PasswordHash:      m.PasswordHash.String,
		Provider:          domain.AuthProvider(m.Provider),
		ProviderAccountID: m.ProviderAccountID,
		AuditFields: domain.AuditFields{
			CreatedAt: m.CreatedAt,
			UpdatedAt: m.UpdatedAt,
		},
	}
}

const accountColumns = `account_id, user_id, name, image, password_hash, provider, provider_account_id, created_at, updated_at`

func scanAccount(row pgx.Row) (*domain.Account, error) {
	var m models.Account
	err := row.Scan(
		&m.AccountID,
		&m.UserID,
		&m.Name,
		&m.Image,
		&m.PasswordHash,
		&m.Provider,
		&m.ProviderAccountID,
		&m.CreatedAt,
		&m.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	d := toDomainAccount(m)
	return &d, nil
}

func (r *PgxAccountRepository) SaveAccount(ctx context.Context, account domain.Account) error {
	m := toModelAccount(account)
	query := `
        INSERT INTO accounts (account_id, user_id, name, image, password_hash, provider, provider_account_id, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);
    `
	_, err := r.db.Exec(ctx, query,
		m.AccountID,
		m.UserID,
		m.Name,
		m.Image,
		m.PasswordHash,
		m.Provider,
		m.ProviderAccountID,
		m.CreatedAt,
		m.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save account: %w", err)
	}
	return nil
}

func (r *PgxAccountRepository) FindAccountByProvider(ctx context.Context, provider domain.AuthProvider, providerAccountID string) (*domain.Account, error) {
	query := `
		SELECT ` + accountColumns + `
		FROM accounts
		WHERE provider = $1 AND provider_account_id = $2;
	`
	account, err := scanAccount(r.db.QueryRow(ctx, query, string(provider), providerAccountID))
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find account by provider: %w", err)
	}
	return account, nil
}

func (r *PgxAccountRepository) FindAccountByUserAndProvider(ctx context.Context, userID string, provider domain.AuthProvider) (*domain.Account, error) {
	query := `
		SELECT ` + accountColumns + `
		FROM accounts
		WHERE user_id = $1 AND provider = $2;
	`
	account, err := scanAccount(r.db.QueryRow(ctx, query, userID, string(provider)))
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find account by user and provider: %w", err)
	}
	return account, nil
}

func (r *PgxAccountRepository) UpdatePasswordHash(ctx context.Context, accountID string, passwordHash string) error {
	query := `
        UPDATE accounts
        SET password_hash = $1, updated_at = $2
        WHERE account_id = $3;
    `
	cmdTag, err := r.db.Exec(ctx, query, passwordHash, time.Now(), accountID)
	if err != nil {
		return fmt.Errorf("failed to update password hash: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("account not found: %w", apperrors.ErrNotFound)
	}
	return nil
}
