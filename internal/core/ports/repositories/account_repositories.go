package repositories

import (
	"context"

	"github.com/notely/notely_backend/internal/core/domain"
)

// AccountRepository persists provider-scoped credential records.
// A unique index on (provider, provider_account_id) is assumed.
type AccountRepository interface {
	SaveAccount(ctx context.Context, account domain.Account) error
	FindAccountByProvider(ctx context.Context, provider domain.AuthProvider, providerAccountID string) (*domain.Account, error)
	FindAccountByUserAndProvider(ctx context.Context, userID string, provider domain.AuthProvider) (*domain.Account, error)
	UpdatePasswordHash(ctx context.Context, accountID string, passwordHash string) error
}
