package middleware

import (
	"context"
	"errors"
	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/notely/notely_backend/internal/apperrors"
	portssvc "github.com/notely/notely_backend/internal/core/ports/services"
	"github.com/notely/notely_backend/internal/platform/config"
	"github.com/notely/notely_backend/internal/utils"
)

// AuthMiddleware creates a Gin middleware handler that validates the session
// cookie and resolves it to a live user. On success the user is attached to
// the request context for downstream handlers; on any failure the request is
// rejected with 401 before any handler runs.
func AuthMiddleware(cfg *config.Config, userService portssvc.UserSvcFacade) gin.HandlerFunc {
	return func(c *gin.Context) {
		logger := GetLoggerFromCtx(c.Request.Context())

		tokenString, err := c.Cookie(cfg.SessionCookieName)
		if err != nil || tokenString == "" {
			appErr := apperrors.NewUnauthorizedError("You are not logged in. Please log in to access this resource.")
			c.AbortWithStatusJSON(appErr.Code, appErr)
			return
		}

		claims, err := utils.ParseAndValidateJWT(tokenString, cfg.JWTSecret)
		if err != nil {
			logger.Warn("Invalid session token", "error", err)
			msg := "Invalid token"
			if errors.Is(err, jwt.ErrTokenExpired) {
				msg = "Token has expired"
			}
			appErr := apperrors.NewUnauthorizedError(msg)
			c.AbortWithStatusJSON(appErr.Code, appErr)
			return
		}

		userID := claims.Subject
		if userID == "" {
			logger.Error("User ID (subject) missing from valid token")
			appErr := apperrors.NewUnauthorizedError("Invalid token claims")
			c.AbortWithStatusJSON(appErr.Code, appErr)
			return
		}

		// The cookie may outlive the user: a deactivated or deleted profile
		// invalidates every outstanding token immediately.
		user, err := userService.GetUserByID(c.Request.Context(), userID)
		if err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				appErr := apperrors.NewUnauthorizedError("The user belonging to this token no longer exists.")
				c.AbortWithStatusJSON(appErr.Code, appErr)
				return
			}
			logger.Error("Failed to resolve user for session token", "error", err, "user_id", userID)
			appErr := apperrors.NewInternalServerError("Something went wrong")
			c.AbortWithStatusJSON(appErr.Code, appErr)
			return
		}

		ctxWithUser := context.WithValue(c.Request.Context(), userKey, user)
		enrichedLogger := logger.With(slog.String("user_id", user.UserID))
		ctxWithLoggerAndUser := context.WithValue(ctxWithUser, loggerCtxKey, enrichedLogger)
		c.Request = c.Request.WithContext(ctxWithLoggerAndUser)

		c.Next()
	}
}
