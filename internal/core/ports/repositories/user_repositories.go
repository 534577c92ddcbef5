package repositories

import (
	"context"
	"time"

	"github.com/notely/notely_backend/internal/core/domain"
)

// UserRepository persists user profile records and their reset-token state.
// Find methods only return active users; deactivated profiles behave as
// missing at this boundary.
type UserRepository interface {
	SaveUser(ctx context.Context, user domain.User) error
	FindUserByID(ctx context.Context, userID string) (*domain.User, error)
	FindUserByEmail(ctx context.Context, email string) (*domain.User, error)

	// SetResetToken stores the digest of an outstanding reset token and its
	// absolute expiry on the user record, replacing any previous one.
	SetResetToken(ctx context.Context, userID string, tokenHash string, expiresAt time.Time) error
	// ClearResetToken removes both reset-token fields.
	ClearResetToken(ctx context.Context, userID string) error
	// ConsumeResetToken atomically clears a stored digest whose expiry is
	// strictly in the future and returns the owning user. A single statement
	// so that of two concurrent consumes only one can win. Expired and
	// unknown digests are indistinguishable: both return
	// apperrors.ErrNotFound.
	ConsumeResetToken(ctx context.Context, tokenHash string) (*domain.User, error)

	SetPasswordChangedAt(ctx context.Context, userID string, changedAt time.Time) error
	DeactivateUser(ctx context.Context, userID string) error
	// DeleteUser hard-deletes a user row. Only used as compensating cleanup
	// when registration fails between the user and account inserts.
	DeleteUser(ctx context.Context, userID string) error
}
