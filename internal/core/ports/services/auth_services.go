package services

import (
	"context"
	"time"

	"github.com/notely/notely_backend/internal/core/domain"
	"golang.org/x/oauth2"
	"google.golang.org/api/idtoken"
)

// TokenSvcFacade issues and validates the two token kinds the system mints:
// stateless session JWTs and single-use password-reset tokens.
type TokenSvcFacade interface {
	// GenerateAccessToken creates a signed session token for the user along
	// with its expiry time.
	GenerateAccessToken(ctx context.Context, user *domain.User) (string, time.Time, error)

	// IssueResetToken generates a random reset token, persists its digest
	// and expiry on the user record, and returns the plaintext. This is the
	// only time it ever exists unhashed.
	IssueResetToken(ctx context.Context, user *domain.User) (string, error)

	// ConsumeResetToken resolves a plaintext reset token to its user if the
	// stored digest matches and has not expired, clearing the digest in the
	// same operation so the token works at most once. Wrong and expired
	// tokens both yield apperrors.ErrNotFound.
	ConsumeResetToken(ctx context.Context, plaintextToken string) (*domain.User, error)

	// ClearResetToken rolls back an issued token, e.g. after the reset
	// email could not be delivered.
	ClearResetToken(ctx context.Context, userID string) error
}

// GoogleOAuthHandlerSvcFacade defines the interface for Google OAuth operations.
type GoogleOAuthHandlerSvcFacade interface {
	// GenerateStateString creates a secure random string to be used as a CSRF token for OAuth flow.
	GenerateStateString(ctx context.Context) (string, error)
	// GetGoogleLoginURL returns the URL to redirect the user to for Google login.
	GetGoogleLoginURL(ctx context.Context, state string) string
	// ExchangeCodeForToken exchanges an OAuth authorization code for a token.
	ExchangeCodeForToken(ctx context.Context, code string) (*oauth2.Token, error)
	// GetUserInfo uses the access token to get user information from Google.
	GetUserInfo(ctx context.Context, token *oauth2.Token) (*domain.GoogleUserInfo, error)
	// ValidateGoogleIDToken validates an ID token string from Google and returns its payload.
	ValidateGoogleIDToken(ctx context.Context, idTokenString string) (*idtoken.Payload, error)
}

// NotifierSvc delivers transactional mail. It either completes or fails
// with an opaque error; callers must not leak its internals to clients.
type NotifierSvc interface {
	SendPasswordReset(ctx context.Context, user *domain.User, resetURL string) error
}
