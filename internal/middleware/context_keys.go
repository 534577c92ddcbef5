package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/notely/notely_backend/internal/core/domain"
)

// userKey is the key used to store the authenticated user in the request
// context. Using a custom type prevents collisions.
const userKey = contextKey("currentUser")

// GetUserFromContext retrieves the authenticated user attached by the auth
// middleware. It returns the user and a boolean indicating if it was found.
func GetUserFromContext(c *gin.Context) (*domain.User, bool) {
	userVal := c.Request.Context().Value(userKey)
	if userVal == nil {
		return nil, false
	}
	user, ok := userVal.(*domain.User)
	if !ok {
		return nil, false
	}
	return user, true
}

// GetUserIDFromContext retrieves the authenticated user's ID.
func GetUserIDFromContext(c *gin.Context) (string, bool) {
	user, ok := GetUserFromContext(c)
	if !ok {
		return "", false
	}
	return user.UserID, true
}
