package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/notely/notely_backend/internal/apperrors"
	"github.com/notely/notely_backend/internal/core/domain"
	portsrepo "github.com/notely/notely_backend/internal/core/ports/repositories"
	portssvc "github.com/notely/notely_backend/internal/core/ports/services"
	"github.com/notely/notely_backend/internal/dto"
	"github.com/notely/notely_backend/internal/utils"
)

type userService struct {
	userRepo    portsrepo.UserRepository
	accountRepo portsrepo.AccountRepository
}

// NewUserService creates the identity/credential service over the user
// directory and credential store.
func NewUserService(userRepo portsrepo.UserRepository, accountRepo portsrepo.AccountRepository) portssvc.UserSvcFacade {
	return &userService{
		userRepo:    userRepo,
		accountRepo: accountRepo,
	}
}

var _ portssvc.UserSvcFacade = (*userService)(nil)

func (s *userService) RegisterUser(ctx context.Context, req dto.RegisterRequest) (*domain.User, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	existing, err := s.userRepo.FindUserByEmail(ctx, email)
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		return nil, fmt.Errorf("failed to check for existing user: %w", err)
	}
	if existing != nil {
		return nil, apperrors.NewBadRequestError("User with this email already exists")
	}

	now := time.Now()
	user := domain.User{
		UserID:   uuid.NewString(),
		Name:     req.Name,
		Email:    email,
		IsActive: true,
		AuditFields: domain.AuditFields{
			CreatedAt: now,
			UpdatedAt: now,
		},
	}
	if err := s.userRepo.SaveUser(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	passwordHash, err := utils.HashPassword(req.Password)
	if err != nil {
		// The user row exists but has no login method yet; remove it again.
		_ = s.userRepo.DeleteUser(ctx, user.UserID)
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	account := domain.Account{
		AccountID:         uuid.NewString(),
		UserID:            user.UserID,
		Name:              req.Name,
		PasswordHash:      passwordHash,
		Provider:          domain.ProviderCredentials,
		ProviderAccountID: email, // canonical identity key for the local provider
		AuditFields: domain.AuditFields{
			CreatedAt: now,
			UpdatedAt: now,
		},
	}
	if err := s.accountRepo.SaveAccount(ctx, account); err != nil {
		// No cross-record transaction: compensate by deleting the orphaned
		// user so the registration can be retried cleanly.
		_ = s.userRepo.DeleteUser(ctx, user.UserID)
		return nil, fmt.Errorf("failed to create credential account: %w", err)
	}

	return &user, nil
}

func (s *userService) AuthenticateUser(ctx context.Context, email string, password string) (*domain.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	account, err := s.accountRepo.FindAccountByProvider(ctx, domain.ProviderCredentials, email)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NewUnauthorizedError("No account for this email exists")
		}
		return nil, fmt.Errorf("failed to look up credential account: %w", err)
	}

	if !utils.CheckPasswordHash(password, account.PasswordHash) {
		return nil, apperrors.NewUnauthorizedError("Invalid credentials")
	}

	user, err := s.userRepo.FindUserByID(ctx, account.UserID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			// Credential without a live user row is a data-integrity bug
			// upstream, not an authentication outcome.
			return nil, apperrors.NewNotFoundError("No user found")
		}
		return nil, fmt.Errorf("failed to load user for credential: %w", err)
	}

	return user, nil
}

func (s *userService) GetUserByID(ctx context.Context, userID string) (*domain.User, error) {
	return s.userRepo.FindUserByID(ctx, userID)
}

func (s *userService) FindUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	return s.userRepo.FindUserByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
}

func (s *userService) CreateOAuthUser(ctx context.Context, name, email, photo string, provider domain.AuthProvider, providerAccountID string) (*domain.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	now := time.Now()

	user, err := s.userRepo.FindUserByEmail(ctx, email)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("failed to look up user by email: %w", err)
		}
		newUser := domain.User{
			UserID:   uuid.NewString(),
			Name:     name,
			Email:    email,
			Photo:    photo,
			IsActive: true,
			AuditFields: domain.AuditFields{
				CreatedAt: now,
				UpdatedAt: now,
			},
		}
		if err := s.userRepo.SaveUser(ctx, newUser); err != nil {
			return nil, fmt.Errorf("failed to create user from oauth profile: %w", err)
		}
		user = &newUser
	}

	_, err = s.accountRepo.FindAccountByProvider(ctx, provider, providerAccountID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("failed to look up oauth account: %w", err)
		}
		account := domain.Account{
			AccountID:         uuid.NewString(),
			UserID:            user.UserID,
			Name:              name,
			Image:             photo,
			Provider:          provider,
			ProviderAccountID: providerAccountID,
			AuditFields: domain.AuditFields{
				CreatedAt: now,
				UpdatedAt: now,
			},
		}
		if err := s.accountRepo.SaveAccount(ctx, account); err != nil {
			return nil, fmt.Errorf("failed to create oauth account: %w", err)
		}
	}

	return user, nil
}

func (s *userService) ResetPassword(ctx context.Context, user *domain.User, newPassword string) error {
	account, err := s.accountRepo.FindAccountByUserAndProvider(ctx, user.UserID, domain.ProviderCredentials)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return apperrors.NewNotFoundError("Credentials account not found")
		}
		return fmt.Errorf("failed to look up credential account: %w", err)
	}

	passwordHash, err := utils.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("failed to hash new password: %w", err)
	}

	if err := s.accountRepo.UpdatePasswordHash(ctx, account.AccountID, passwordHash); err != nil {
		return fmt.Errorf("failed to update password hash: %w", err)
	}

	if err := s.userRepo.SetPasswordChangedAt(ctx, user.UserID, time.Now()); err != nil {
		return fmt.Errorf("failed to record password change time: %w", err)
	}

	return nil
}
