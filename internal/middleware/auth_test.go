package middleware_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/notely/notely_backend/internal/apperrors"
	"github.com/notely/notely_backend/internal/core/domain"
	portssvc "github.com/notely/notely_backend/internal/core/ports/services"
	"github.com/notely/notely_backend/internal/dto"
	"github.com/notely/notely_backend/internal/middleware"
	"github.com/notely/notely_backend/internal/platform/config"
	"github.com/notely/notely_backend/internal/utils"
)

// --- Mock UserSvcFacade ---
type MockUserService struct {
	mock.Mock
}

func (m *MockUserService) RegisterUser(ctx context.Context, req dto.RegisterRequest) (*domain.User, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserService) AuthenticateUser(ctx context.Context, email string, password string) (*domain.User, error) {
	args := m.Called(ctx, email, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserService) GetUserByID(ctx context.Context, userID string) (*domain.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserService) FindUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserService) CreateOAuthUser(ctx context.Context, name, email, photo string, provider domain.AuthProvider, providerAccountID string) (*domain.User, error) {
	args := m.Called(ctx, name, email, photo, provider, providerAccountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserService) ResetPassword(ctx context.Context, user *domain.User, newPassword string) error {
	args := m.Called(ctx, user, newPassword)
	return args.Error(0)
}

var _ portssvc.UserSvcFacade = (*MockUserService)(nil)

// --- Test Suite ---
type AuthMiddlewareTestSuite struct {
	suite.Suite
	cfg             *config.Config
	mockUserService *MockUserService
	router          *gin.Engine
}

func (suite *AuthMiddlewareTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	suite.cfg = &config.Config{
		JWTSecret:         "middleware-test-secret",
		JWTExpiryDuration: time.Hour,
		JWTIssuer:         "notely-backend",
		SessionCookieName: "jwt",
	}
	suite.mockUserService = new(MockUserService)

	suite.router = gin.New()
	suite.router.GET("/protected", middleware.AuthMiddleware(suite.cfg, suite.mockUserService), func(c *gin.Context) {
		user, ok := middleware.GetUserFromContext(c)
		if !ok {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "user missing from context"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"userID": user.UserID})
	})
}

func (suite *AuthMiddlewareTestSuite) request(cookie string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if cookie != "" {
		req.AddCookie(&http.Cookie{Name: suite.cfg.SessionCookieName, Value: cookie})
	}
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

func (suite *AuthMiddlewareTestSuite) decodeBody(w *httptest.ResponseRecorder) map[string]string {
	var body map[string]string
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func (suite *AuthMiddlewareTestSuite) TestNoCookie() {
	w := suite.request("")

	suite.Equal(http.StatusUnauthorized, w.Code)
	body := suite.decodeBody(w)
	suite.Equal("fail", body["status"])
	suite.Equal("You are not logged in. Please log in to access this resource.", body["message"])
	suite.mockUserService.AssertNotCalled(suite.T(), "GetUserByID", mock.Anything, mock.Anything)
}

func (suite *AuthMiddlewareTestSuite) TestMalformedToken() {
	w := suite.request("not-a-jwt-at-all")

	suite.Equal(http.StatusUnauthorized, w.Code)
	body := suite.decodeBody(w)
	suite.Equal("Invalid token", body["message"])
}

func (suite *AuthMiddlewareTestSuite) TestExpiredToken() {
	token, err := utils.GenerateJWT(uuid.NewString(), suite.cfg.JWTSecret, -time.Minute, suite.cfg.JWTIssuer)
	suite.Require().NoError(err)

	w := suite.request(token)

	suite.Equal(http.StatusUnauthorized, w.Code)
	body := suite.decodeBody(w)
	suite.Equal("Token has expired", body["message"])
}

func (suite *AuthMiddlewareTestSuite) TestWrongSignature() {
	token, err := utils.GenerateJWT(uuid.NewString(), "a-different-secret", time.Hour, suite.cfg.JWTIssuer)
	suite.Require().NoError(err)

	w := suite.request(token)

	suite.Equal(http.StatusUnauthorized, w.Code)
	body := suite.decodeBody(w)
	suite.Equal("Invalid token", body["message"])
}

func (suite *AuthMiddlewareTestSuite) TestUserNoLongerExists() {
	userID := uuid.NewString()
	token, err := utils.GenerateJWT(userID, suite.cfg.JWTSecret, time.Hour, suite.cfg.JWTIssuer)
	suite.Require().NoError(err)

	// Valid token but the profile behind it is gone (deleted or deactivated).
	suite.mockUserService.On("GetUserByID", mock.Anything, userID).Return(nil, apperrors.ErrNotFound).Once()

	w := suite.request(token)

	suite.Equal(http.StatusUnauthorized, w.Code)
	body := suite.decodeBody(w)
	suite.Equal("The user belonging to this token no longer exists.", body["message"])
	suite.mockUserService.AssertExpectations(suite.T())
}

func (suite *AuthMiddlewareTestSuite) TestValidToken_AttachesUser() {
	userID := uuid.NewString()
	token, err := utils.GenerateJWT(userID, suite.cfg.JWTSecret, time.Hour, suite.cfg.JWTIssuer)
	suite.Require().NoError(err)

	user := &domain.User{UserID: userID, Email: "ok@example.com", IsActive: true}
	suite.mockUserService.On("GetUserByID", mock.Anything, userID).Return(user, nil).Once()

	w := suite.request(token)

	suite.Equal(http.StatusOK, w.Code)
	body := suite.decodeBody(w)
	suite.Equal(userID, body["userID"])
	suite.mockUserService.AssertExpectations(suite.T())
}

// --- Run Suite ---
func TestAuthMiddleware(t *testing.T) {
	suite.Run(t, new(AuthMiddlewareTestSuite))
}
