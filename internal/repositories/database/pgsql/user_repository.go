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

type PgxUserRepository struct {
	db *pgxpool.Pool
}

func NewPgxUserRepository(db *pgxpool.Pool) portsrepo.UserRepository {
	return &PgxUserRepository{db: db}
}

// Ensure PgxUserRepository implements portsrepo.UserRepository
var _ portsrepo.UserRepository = (*PgxUserRepository)(nil)

// Helper to convert domain.User to models.User
func toModelUser(d domain.User) models.User {
	m := models.User{
		UserID:   d.UserID,
		Name:     d.Name,
		Email:    d.Email,
		IsActive: d.IsActive,
		AuditFields: models.AuditFields{
			CreatedAt: d.CreatedAt,
			UpdatedAt: d.UpdatedAt,
		},
	}
	if d.Photo != "" {
		m.Photo = sql.NullString{String: d.Photo, Valid: true}
	}
	if d.ResetTokenHash != "" {
		m.ResetTokenHash = sql.NullString{String: d.ResetTokenHash, Valid: true}
	}
	if d.ResetTokenExpiresAt != nil {
		m.ResetTokenExpiresAt = sql.NullTime{Time: *d.ResetTokenExpiresAt, Valid: true}
	}
	if d.PasswordChangedAt != nil {
		m.PasswordChangedAt = sql.NullTime{Time: *d.PasswordChangedAt, Valid: true}
	}
	return m
}

// Helper to convert models.User to domain.User
func toDomainUser(m models.User) domain.User {
	d := domain.User{
		UserID:   m.UserID,
		Name:     m.Name,
		Email:    m.Email,
		Photo:    m.Photo.String,
		IsActive: m.IsActive,
		AuditFields: domain.AuditFields{
			CreatedAt: m.CreatedAt,
			UpdatedAt: m.UpdatedAt,
		},
	}
	if m.ResetTokenHash.Valid {
		d.ResetTokenHash = m.ResetTokenHash.String
	}
	if m.ResetTokenExpiresAt.Valid {
		t := m.ResetTokenExpiresAt.Time
		d.ResetTokenExpiresAt = &t
	}
	if m.PasswordChangedAt.Valid {
		t := m.PasswordChangedAt.Time
		d.PasswordChangedAt = &t
	}
	return d
}

const userColumns = `user_id, name, email, photo, is_active, reset_token_hash, reset_token_expires_at, password_changed_at, created_at, updated_at`

func scanUser(row pgx.Row) (*domain.User, error) {
	var m models.User
	err := row.Scan(
		&m.UserID,
		&m.Name,
		&m.Email,
		&m.Photo,
		&m.IsActive,
		&m.ResetTokenHash,
		&m.ResetTokenExpiresAt,
		&m.PasswordChangedAt,
		&m.CreatedAt,
		&m.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	d := toDomainUser(m)
	return &d, nil
}

func (r *PgxUserRepository) SaveUser(ctx context.Context, user domain.User) error {
	m := toModelUser(user)
	query := `
        INSERT INTO users (user_id, name, email, photo, is_active, created_at, updated_at)
        VALUES ($1, $2, lower($3), $4, $5, $6, $7)
        ON CONFLICT (user_id) DO UPDATE SET
            name = EXCLUDED.name,
            photo = EXCLUDED.photo,
            updated_at = EXCLUDED.updated_at;
    `
	_, err := r.db.Exec(ctx, query,
		m.UserID,
		m.Name,
		m.Email,
		m.Photo,
		m.IsActive,
		m.CreatedAt,
		m.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save user: %w", err)
	}
	return nil
}

func (r *PgxUserRepository) FindUserByID(ctx context.Context, userID string) (*domain.User, error) {
	query := `
		SELECT ` + userColumns + `
		FROM users
		WHERE user_id = $1 AND is_active = TRUE;
	`
	user, err := scanUser(r.db.QueryRow(ctx, query, userID))
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find user by ID %s: %w", userID, err)
	}
	return user, nil
}

func (r *PgxUserRepository) FindUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	query := `
		SELECT ` + userColumns + `
		FROM users
		WHERE email = lower($1) AND is_active = TRUE;
	`
	user, err := scanUser(r.db.QueryRow(ctx, query, email))
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find user by email: %w", err)
	}
	return user, nil
}

func (r *PgxUserRepository) SetResetToken(ctx context.Context, userID string, tokenHash string, expiresAt time.Time) error {
	query := `
        UPDATE users
        SET reset_token_hash = $1, reset_token_expires_at = $2, updated_at = $3
        WHERE user_id = $4 AND is_active = TRUE;
    `
	cmdTag, err := r.db.Exec(ctx, query, tokenHash, expiresAt, time.Now(), userID)
	if err != nil {
		return fmt.Errorf("failed to set reset token: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("user not found or inactive: %w", apperrors.ErrNotFound)
	}
	return nil
}

func (r *PgxUserRepository) ClearResetToken(ctx context.Context, userID string) error {
	query := `
        UPDATE users
        SET reset_token_hash = NULL, reset_token_expires_at = NULL, updated_at = $1
        WHERE user_id = $2;
    `
	if _, err := r.db.Exec(ctx, query, time.Now(), userID); err != nil {
		return fmt.Errorf("failed to clear reset token: %w", err)
	}
	return nil
}

func (r *PgxUserRepository) ConsumeResetToken(ctx context.Context, tokenHash string) (*domain.User, error) {
	// Single UPDATE ... RETURNING: matching and clearing the token is one
	// statement, so a second concurrent consume of the same digest finds no
	// row. Expired digests match nothing here either, so an expired token
	// and an unknown one are indistinguishable to the caller.
	now := time.Now()
	query := `
		UPDATE users
		SET reset_token_hash = NULL, reset_token_expires_at = NULL, updated_at = $1
		WHERE reset_token_hash = $2 AND reset_token_expires_at > $3 AND is_active = TRUE
		RETURNING ` + userColumns + `;
	`
	user, err := scanUser(r.db.QueryRow(ctx, query, now, tokenHash, now))
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to consume reset token: %w", err)
	}
	return user, nil
}

func (r *PgxUserRepository) SetPasswordChangedAt(ctx context.Context, userID string, changedAt time.Time) error {
	query := `
        UPDATE users
        SET password_changed_at = $1, updated_at = $1
        WHERE user_id = $2;
    `
	if _, err := r.db.Exec(ctx, query, changedAt, userID); err != nil {
		return fmt.Errorf("failed to set password changed time: %w", err)
	}
	return nil
}

func (r *PgxUserRepository) DeactivateUser(ctx context.Context, userID string) error {
	query := `
        UPDATE users
        SET is_active = FALSE, updated_at = $1
        WHERE user_id = $2 AND is_active = TRUE;
    `
	cmdTag, err := r.db.Exec(ctx, query, time.Now(), userID)
	if err != nil {
		return fmt.Errorf("failed to deactivate user: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("user not found or already inactive: %w", apperrors.ErrNotFound)
	}
	return nil
}

func (r *PgxUserRepository) DeleteUser(ctx context.Context, userID string) error {
	query := `DELETE FROM users WHERE user_id = $1;`
	if _, err := r.db.Exec(ctx, query, userID); err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	return nil
}
