package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/store/memory"

	"github.com/notely/notely_backend/internal/apperrors"
	portssvc "github.com/notely/notely_backend/internal/core/ports/services"
	"github.com/notely/notely_backend/internal/dto"
	"github.com/notely/notely_backend/internal/middleware"
	"github.com/notely/notely_backend/internal/platform/config"
)

// AuthHandler handles authentication related requests.
type AuthHandler struct {
	userService  portssvc.UserSvcFacade
	tokenService portssvc.TokenSvcFacade
	notifier     portssvc.NotifierSvc
	cfg          *config.Config
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(cfg *config.Config, services *portssvc.ServiceContainer) *AuthHandler {
	return &AuthHandler{
		userService:  services.User,
		tokenService: services.TokenService,
		notifier:     services.Notifier,
		cfg:          cfg,
	}
}

// registerAuthRoutes sets up the routes for authentication.
func registerAuthRoutes(rg *gin.Engine, cfg *config.Config, services *portssvc.ServiceContainer) {
	h := NewAuthHandler(cfg, services)

	// Credential-guessing endpoints get 5 requests per minute per IP.
	rate, _ := limiter.NewRateFromFormatted("5-M")
	store := memory.NewStore()
	ipLimiter := limiter.New(store, rate)
	limitMiddleware := middleware.RateLimit(ipLimiter)

	auth := rg.Group("/auth")
	{
		auth.POST("/login", limitMiddleware, h.Login)
		auth.POST("/register", h.Register)
		auth.POST("/forgot-password", limitMiddleware, h.ForgotPassword)
		auth.POST("/reset-password/:token", h.ResetPassword)
		auth.GET("/me", middleware.AuthMiddleware(cfg, services.User), h.GetCurrentUser)
	}
}

// respondError renders a domain error in the standard failure shape, hiding
// anything that is not an AppError behind a generic 500.
func respondError(c *gin.Context, err error) {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		c.JSON(appErr.Code, appErr)
		return
	}
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	logger.Error("Unexpected error", slog.String("error", err.Error()))
	fallback := apperrors.NewInternalServerError("Something went wrong")
	c.JSON(fallback.Code, fallback)
}

// setSessionCookie attaches the signed session token to the response. The
// cookie max-age is fixed and independent of the token's expiry; the auth
// middleware still rejects the token itself once expired.
func setSessionCookie(c *gin.Context, cfg *config.Config, token string) {
	sameSite := http.SameSiteLaxMode
	if cfg.IsProduction {
		sameSite = http.SameSiteNoneMode
	}
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     cfg.SessionCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(cfg.SessionCookieMaxAge.Seconds()),
		HttpOnly: true,
		Secure:   cfg.IsProduction,
		SameSite: sameSite,
	})
}

func userEnvelope(user dto.UserResponse) gin.H {
	return gin.H{
		"status": "success",
		"data":   gin.H{"user": user},
	}
}

// Login godoc
// @Summary User login
// @Description Authenticates a user by email and password and sets the session cookie.
// @Tags auth
// @Accept json
// @Produce json
// @Param login body dto.LoginRequest true "Login Credentials"
// @Success 200 {object} dto.AuthSuccessResponse
// @Failure 400 {object} apperrors.AppError
// @Failure 401 {object} apperrors.AppError
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apperrors.NewBadRequestError("Invalid request body: "+err.Error()))
		return
	}

	user, err := h.userService.AuthenticateUser(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}

	accessToken, _, err := h.tokenService.GenerateAccessToken(c.Request.Context(), user)
	if err != nil {
		logger := middleware.GetLoggerFromCtx(c.Request.Context())
		logger.Error("Failed to sign session token", slog.String("error", err.Error()))
		respondError(c, apperrors.NewInternalServerError("Failed to generate token"))
		return
	}

	setSessionCookie(c, h.cfg, accessToken)
	c.JSON(http.StatusOK, userEnvelope(dto.ToUserResponse(user)))
}

// Register godoc
// @Summary Register new user
// @Description Creates a user profile plus its local credential account and sets the session cookie.
// @Tags auth
// @Accept json
// @Produce json
// @Param register body dto.RegisterRequest true "User Registration Info"
// @Success 201 {object} dto.AuthSuccessResponse
// @Failure 400 {object} apperrors.AppError
// @Router /auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apperrors.NewBadRequestError("Invalid request body: "+err.Error()))
		return
	}

	user, err := h.userService.RegisterUser(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}

	accessToken, _, err := h.tokenService.GenerateAccessToken(c.Request.Context(), user)
	if err != nil {
		logger := middleware.GetLoggerFromCtx(c.Request.Context())
		logger.Error("Failed to sign session token", slog.String("error", err.Error()))
		respondError(c, apperrors.NewInternalServerError("Failed to generate token"))
		return
	}

	setSessionCookie(c, h.cfg, accessToken)
	c.JSON(http.StatusCreated, userEnvelope(dto.ToUserResponse(user)))
}

// ForgotPassword godoc
// @Summary Request a password reset
// @Description Issues a single-use reset token and emails a reset link to the user.
// @Tags auth
// @Accept json
// @Produce json
// @Param forgot body dto.ForgotPasswordRequest true "Account email"
// @Success 200 {object} map[string]string
// @Failure 400 {object} apperrors.AppError
// @Router /auth/forgot-password [post]
func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	var req dto.ForgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apperrors.NewBadRequestError("Invalid request body: "+err.Error()))
		return
	}

	user, err := h.userService.FindUserByEmail(c.Request.Context(), req.Email)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			// Known enumeration weakness kept for compatibility with the
			// existing clients; a hardened variant would answer 200 here.
			respondError(c, apperrors.NewBadRequestError("No user with this email exists"))
			return
		}
		respondError(c, err)
		return
	}

	resetToken, err := h.tokenService.IssueResetToken(c.Request.Context(), user)
	if err != nil {
		respondError(c, err)
		return
	}

	resetURL := h.cfg.FrontendBaseURL + "/reset-password/" + resetToken

	if err := h.notifier.SendPasswordReset(c.Request.Context(), user, resetURL); err != nil {
		// Roll back so no stale-but-valid token stays on the record.
		if clearErr := h.tokenService.ClearResetToken(c.Request.Context(), user.UserID); clearErr != nil {
			logger := middleware.GetLoggerFromCtx(c.Request.Context())
			logger.Error("Failed to clear reset token after notifier failure", slog.String("error", clearErr.Error()))
		}
		logger := middleware.GetLoggerFromCtx(c.Request.Context())
		logger.Error("Failed to send password reset email", slog.String("error", err.Error()))
		respondError(c, apperrors.NewInternalServerError("An error occurred while sending email. Try again later"))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"message": "Check your email for resetting password",
	})
}

// ResetPassword godoc
// @Summary Reset password with a token
// @Description Consumes a reset token, replaces the local credential's password and signs a new session.
// @Tags auth
// @Accept json
// @Produce json
// @Param token path string true "Reset token"
// @Param reset body dto.ResetPasswordRequest true "New password"
// @Success 200 {object} map[string]string
// @Failure 400 {object} apperrors.AppError
// @Failure 404 {object} apperrors.AppError
// @Router /auth/reset-password/{token} [post]
func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req dto.ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apperrors.NewBadRequestError("Invalid request body: "+err.Error()))
		return
	}

	user, err := h.tokenService.ConsumeResetToken(c.Request.Context(), c.Param("token"))
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			respondError(c, apperrors.NewBadRequestError("Token is invalid or has expired"))
			return
		}
		respondError(c, err)
		return
	}

	if err := h.userService.ResetPassword(c.Request.Context(), user, req.Password); err != nil {
		respondError(c, err)
		return
	}

	accessToken, _, err := h.tokenService.GenerateAccessToken(c.Request.Context(), user)
	if err != nil {
		respondError(c, apperrors.NewInternalServerError("Failed to generate token"))
		return
	}

	setSessionCookie(c, h.cfg, accessToken)
	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"message": "Password reset successful",
	})
}

// GetCurrentUser godoc
// @Summary Current user
// @Description Returns the user resolved from the session cookie.
// @Tags auth
// @Produce json
// @Success 200 {object} dto.AuthSuccessResponse
// @Failure 401 {object} apperrors.AppError
// @Router /auth/me [get]
func (h *AuthHandler) GetCurrentUser(c *gin.Context) {
	user, ok := middleware.GetUserFromContext(c)
	if !ok {
		respondError(c, apperrors.NewUnauthorizedError("You are not logged in. Please log in to access this resource."))
		return
	}
	c.JSON(http.StatusOK, userEnvelope(dto.ToUserResponse(user)))
}
