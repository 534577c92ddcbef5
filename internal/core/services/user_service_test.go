package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/notely/notely_backend/internal/apperrors"
	"github.com/notely/notely_backend/internal/core/domain"
	portssvc "github.com/notely/notely_backend/internal/core/ports/services"
	"github.com/notely/notely_backend/internal/core/services"
	"github.com/notely/notely_backend/internal/dto"
	"github.com/notely/notely_backend/internal/utils"
)

// --- Mock UserRepository ---
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) SaveUser(ctx context.Context, user domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) FindUserByID(ctx context.Context, userID string) (*domain.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) FindUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) SetResetToken(ctx context.Context, userID string, tokenHash string, expiresAt time.Time) error {
	args := m.Called(ctx, userID, tokenHash, expiresAt)
	return args.Error(0)
}

func (m *MockUserRepository) ClearResetToken(ctx context.Context, userID string) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func (m *MockUserRepository) ConsumeResetToken(ctx context.Context, tokenHash string) (*domain.User, error) {
	args := m.Called(ctx, tokenHash)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) SetPasswordChangedAt(ctx context.Context, userID string, changedAt time.Time) error {
	args := m.Called(ctx, userID, changedAt)
	return args.Error(0)
}

func (m *MockUserRepository) DeactivateUser(ctx context.Context, userID string) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func (m *MockUserRepository) DeleteUser(ctx context.Context, userID string) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

// --- Mock AccountRepository ---
type MockAccountRepository struct {
	mock.Mock
}

func (m *MockAccountRepository) SaveAccount(ctx context.Context, account domain.Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *MockAccountRepository) FindAccountByProvider(ctx context.Context, provider domain.AuthProvider, providerAccountID string) (*domain.Account, error) {
	args := m.Called(ctx, provider, providerAccountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountRepository) FindAccountByUserAndProvider(ctx context.Context, userID string, provider domain.AuthProvider) (*domain.Account, error) {
	args := m.Called(ctx, userID, provider)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountRepository) UpdatePasswordHash(ctx context.Context, accountID string, passwordHash string) error {
	args := m.Called(ctx, accountID, passwordHash)
	return args.Error(0)
}

// --- Test Suite ---
type UserServiceTestSuite struct {
	suite.Suite
	mockUserRepo    *MockUserRepository
	mockAccountRepo *MockAccountRepository
	service         portssvc.UserSvcFacade
}

func (suite *UserServiceTestSuite) SetupTest() {
	suite.mockUserRepo = new(MockUserRepository)
	suite.mockAccountRepo = new(MockAccountRepository)
	suite.service = services.NewUserService(suite.mockUserRepo, suite.mockAccountRepo)
}

// --- RegisterUser Tests ---

func (suite *UserServiceTestSuite) TestRegisterUser_Success() {
	ctx := context.Background()
	req := dto.RegisterRequest{
		Name:     "Test User",
		Email:    "Test.User@Example.COM",
		Password: "password123",
	}

	// Email is normalized to lowercase before any lookup or persistence.
	suite.mockUserRepo.On("FindUserByEmail", ctx, "test.user@example.com").Return(nil, apperrors.ErrNotFound).Once()
	suite.mockUserRepo.On("SaveUser", ctx, mock.MatchedBy(func(user domain.User) bool {
		return user.Email == "test.user@example.com" && user.Name == req.Name && user.IsActive && user.UserID != ""
	})).Return(nil).Once()
	suite.mockAccountRepo.On("SaveAccount", ctx, mock.MatchedBy(func(account domain.Account) bool {
		return account.Provider == domain.ProviderCredentials &&
			account.ProviderAccountID == "test.user@example.com" &&
			account.PasswordHash != req.Password &&
			utils.CheckPasswordHash(req.Password, account.PasswordHash)
	})).Return(nil).Once()

	user, err := suite.service.RegisterUser(ctx, req)

	suite.Require().NoError(err)
	suite.Require().NotNil(user)
	suite.Equal("test.user@example.com", user.Email)
	suite.Equal(req.Name, user.Name)
	suite.NotEmpty(user.UserID)

	suite.mockUserRepo.AssertExpectations(suite.T())
	suite.mockAccountRepo.AssertExpectations(suite.T())
}

func (suite *UserServiceTestSuite) TestRegisterUser_DuplicateEmail() {
	ctx := context.Background()
	req := dto.RegisterRequest{Name: "Dup", Email: "dup@example.com", Password: "password123"}
	existing := &domain.User{UserID: uuid.NewString(), Email: "dup@example.com"}

	suite.mockUserRepo.On("FindUserByEmail", ctx, "dup@example.com").Return(existing, nil).Once()

	user, err := suite.service.RegisterUser(ctx, req)

	suite.Require().Error(err)
	suite.Nil(user)
	var appErr *apperrors.AppError
	suite.Require().ErrorAs(err, &appErr)
	suite.Equal(400, appErr.Code)
	suite.Equal("User with this email already exists", appErr.Message)

	suite.mockUserRepo.AssertNotCalled(suite.T(), "SaveUser", mock.Anything, mock.Anything)
	suite.mockAccountRepo.AssertNotCalled(suite.T(), "SaveAccount", mock.Anything, mock.Anything)
}

func (suite *UserServiceTestSuite) TestRegisterUser_AccountSaveFails_CleansUpUser() {
	ctx := context.Background()
	req := dto.RegisterRequest{Name: "Orphan", Email: "orphan@example.com", Password: "password123"}
	expectedErr := assert.AnError

	var savedUserID string
	suite.mockUserRepo.On("FindUserByEmail", ctx, "orphan@example.com").Return(nil, apperrors.ErrNotFound).Once()
	suite.mockUserRepo.On("SaveUser", ctx, mock.AnythingOfType("domain.User")).Return(nil).Once().Run(func(args mock.Arguments) {
		savedUserID = args.Get(1).(domain.User).UserID
	})
	suite.mockAccountRepo.On("SaveAccount", ctx, mock.AnythingOfType("domain.Account")).Return(expectedErr).Once()
	// The orphaned user row must be removed again.
	suite.mockUserRepo.On("DeleteUser", ctx, mock.MatchedBy(func(userID string) bool {
		return userID == savedUserID
	})).Return(nil).Once()

	user, err := suite.service.RegisterUser(ctx, req)

	suite.Require().Error(err)
	suite.Nil(user)
	suite.ErrorIs(err, expectedErr)
	suite.mockUserRepo.AssertExpectations(suite.T())
	suite.mockAccountRepo.AssertExpectations(suite.T())
}

// --- AuthenticateUser Tests ---

func (suite *UserServiceTestSuite) TestAuthenticateUser_Success() {
	ctx := context.Background()
	password := "password123"
	hash, err := utils.HashPassword(password)
	suite.Require().NoError(err)

	userID := uuid.NewString()
	account := &domain.Account{
		AccountID:         uuid.NewString(),
		UserID:            userID,
		PasswordHash:      hash,
		Provider:          domain.ProviderCredentials,
		ProviderAccountID: "login@example.com",
	}
	expectedUser := &domain.User{UserID: userID, Email: "login@example.com", IsActive: true}

	suite.mockAccountRepo.On("FindAccountByProvider", ctx, domain.ProviderCredentials, "login@example.com").Return(account, nil).Once()
	suite.mockUserRepo.On("FindUserByID", ctx, userID).Return(expectedUser, nil).Once()

	user, err := suite.service.AuthenticateUser(ctx, "Login@Example.com", password)

	suite.Require().NoError(err)
	suite.Equal(expectedUser, user)
	suite.mockAccountRepo.AssertExpectations(suite.T())
	suite.mockUserRepo.AssertExpectations(suite.T())
}

func (suite *UserServiceTestSuite) TestAuthenticateUser_UnknownEmail() {
	ctx := context.Background()

	suite.mockAccountRepo.On("FindAccountByProvider", ctx, domain.ProviderCredentials, "ghost@example.com").Return(nil, apperrors.ErrNotFound).Once()

	user, err := suite.service.AuthenticateUser(ctx, "ghost@example.com", "whatever")

	suite.Require().Error(err)
	suite.Nil(user)
	var appErr *apperrors.AppError
	suite.Require().ErrorAs(err, &appErr)
	suite.Equal(401, appErr.Code)
	suite.Equal("No account for this email exists", appErr.Message)
}

func (suite *UserServiceTestSuite) TestAuthenticateUser_WrongPassword() {
	ctx := context.Background()
	hash, err := utils.HashPassword("the-real-password")
	suite.Require().NoError(err)

	account := &domain.Account{
		AccountID:         uuid.NewString(),
		UserID:            uuid.NewString(),
		PasswordHash:      hash,
		Provider:          domain.ProviderCredentials,
		ProviderAccountID: "user@example.com",
	}

	suite.mockAccountRepo.On("FindAccountByProvider", ctx, domain.ProviderCredentials, "user@example.com").Return(account, nil).Once()

	user, err := suite.service.AuthenticateUser(ctx, "user@example.com", "wrong-password")

	suite.Require().Error(err)
	suite.Nil(user)
	var appErr *apperrors.AppError
	suite.Require().ErrorAs(err, &appErr)
	suite.Equal(401, appErr.Code)
	suite.Equal("Invalid credentials", appErr.Message)
	suite.mockUserRepo.AssertNotCalled(suite.T(), "FindUserByID", mock.Anything, mock.Anything)
}

// --- CreateOAuthUser Tests ---

func (suite *UserServiceTestSuite) TestCreateOAuthUser_FirstSight() {
	ctx := context.Background()

	suite.mockUserRepo.On("FindUserByEmail", ctx, "new@example.com").Return(nil, apperrors.ErrNotFound).Once()
	suite.mockUserRepo.On("SaveUser", ctx, mock.MatchedBy(func(user domain.User) bool {
		return user.Email == "new@example.com" && user.Name == "New User" && user.Photo == "https://example.com/p.jpg" && user.IsActive
	})).Return(nil).Once()
	suite.mockAccountRepo.On("FindAccountByProvider", ctx, domain.ProviderGoogle, "google-sub-1").Return(nil, apperrors.ErrNotFound).Once()
	suite.mockAccountRepo.On("SaveAccount", ctx, mock.MatchedBy(func(account domain.Account) bool {
		return account.Provider == domain.ProviderGoogle &&
			account.ProviderAccountID == "google-sub-1" &&
			account.PasswordHash == ""
	})).Return(nil).Once()

	user, err := suite.service.CreateOAuthUser(ctx, "New User", "New@Example.com", "https://example.com/p.jpg", domain.ProviderGoogle, "google-sub-1")

	suite.Require().NoError(err)
	suite.Require().NotNil(user)
	suite.Equal("new@example.com", user.Email)
	suite.mockUserRepo.AssertExpectations(suite.T())
	suite.mockAccountRepo.AssertExpectations(suite.T())
}

func (suite *UserServiceTestSuite) TestCreateOAuthUser_Replay_IsIdempotent() {
	ctx := context.Background()
	existingUser := &domain.User{UserID: uuid.NewString(), Email: "seen@example.com", IsActive: true}
	existingAccount := &domain.Account{
		AccountID:         uuid.NewString(),
		UserID:            existingUser.UserID,
		Provider:          domain.ProviderGoogle,
		ProviderAccountID: "google-sub-2",
	}

	suite.mockUserRepo.On("FindUserByEmail", ctx, "seen@example.com").Return(existingUser, nil).Once()
	suite.mockAccountRepo.On("FindAccountByProvider", ctx, domain.ProviderGoogle, "google-sub-2").Return(existingAccount, nil).Once()

	user, err := suite.service.CreateOAuthUser(ctx, "Seen User", "seen@example.com", "", domain.ProviderGoogle, "google-sub-2")

	suite.Require().NoError(err)
	suite.Equal(existingUser, user)
	suite.mockUserRepo.AssertNotCalled(suite.T(), "SaveUser", mock.Anything, mock.Anything)
	suite.mockAccountRepo.AssertNotCalled(suite.T(), "SaveAccount", mock.Anything, mock.Anything)
}

// --- ResetPassword Tests ---

func (suite *UserServiceTestSuite) TestResetPassword_Success() {
	ctx := context.Background()
	user := &domain.User{UserID: uuid.NewString(), Email: "reset@example.com"}
	account := &domain.Account{
		AccountID:         uuid.NewString(),
		UserID:            user.UserID,
		Provider:          domain.ProviderCredentials,
		ProviderAccountID: user.Email,
	}
	newPassword := "brand-new-password"

	suite.mockAccountRepo.On("FindAccountByUserAndProvider", ctx, user.UserID, domain.ProviderCredentials).Return(account, nil).Once()
	suite.mockAccountRepo.On("UpdatePasswordHash", ctx, account.AccountID, mock.MatchedBy(func(hash string) bool {
		return utils.CheckPasswordHash(newPassword, hash)
	})).Return(nil).Once()
	suite.mockUserRepo.On("SetPasswordChangedAt", ctx, user.UserID, mock.AnythingOfType("time.Time")).Return(nil).Once()

	err := suite.service.ResetPassword(ctx, user, newPassword)

	suite.Require().NoError(err)
	suite.mockAccountRepo.AssertExpectations(suite.T())
	suite.mockUserRepo.AssertExpectations(suite.T())
}

func (suite *UserServiceTestSuite) TestResetPassword_NoCredentialsAccount() {
	ctx := context.Background()
	user := &domain.User{UserID: uuid.NewString(), Email: "oauth-only@example.com"}

	suite.mockAccountRepo.On("FindAccountByUserAndProvider", ctx, user.UserID, domain.ProviderCredentials).Return(nil, apperrors.ErrNotFound).Once()

	err := suite.service.ResetPassword(ctx, user, "whatever-password")

	suite.Require().Error(err)
	var appErr *apperrors.AppError
	suite.Require().ErrorAs(err, &appErr)
	suite.Equal(404, appErr.Code)
	suite.mockAccountRepo.AssertNotCalled(suite.T(), "UpdatePasswordHash", mock.Anything, mock.Anything, mock.Anything)
}

// --- Run Suite ---
func TestUserService(t *testing.T) {
	suite.Run(t, new(UserServiceTestSuite))
}
