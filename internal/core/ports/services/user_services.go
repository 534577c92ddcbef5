package services

import (
	"context"

	"github.com/notely/notely_backend/internal/core/domain"
	"github.com/notely/notely_backend/internal/dto"
)

// UserSvcFacade defines identity and credential operations over the user
// directory and the credential store.
type UserSvcFacade interface {
	// RegisterUser creates a User plus its local "credentials" Account.
	// A taken email yields a 400 *apperrors.AppError. If the account insert
	// fails after the user insert, the user row is removed again
	// (compensating cleanup; there is no cross-record transaction).
	RegisterUser(ctx context.Context, req dto.RegisterRequest) (*domain.User, error)

	// AuthenticateUser verifies a local credential pair and resolves it to
	// the owning user. Unknown email and wrong password both yield a 401
	// *apperrors.AppError; a credential whose owning user row is missing
	// yields a 404 (data-integrity fallback).
	AuthenticateUser(ctx context.Context, email string, password string) (*domain.User, error)

	GetUserByID(ctx context.Context, userID string) (*domain.User, error)
	FindUserByEmail(ctx context.Context, email string) (*domain.User, error)

	// CreateOAuthUser reconciles an externally verified profile against the
	// user directory and credential store, creating either record on first
	// sight. Idempotent: replaying the same profile yields the same single
	// User and Account.
	CreateOAuthUser(ctx context.Context, name, email, photo string, provider domain.AuthProvider, providerAccountID string) (*domain.User, error)

	// ResetPassword writes a new password hash onto the user's local
	// credential account and records the change time. The reset token itself
	// is already cleared by the consume that resolved the user.
	ResetPassword(ctx context.Context, user *domain.User, newPassword string) error
}
