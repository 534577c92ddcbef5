package dto

import "github.com/notely/notely_backend/internal/core/domain"

// LoginRequest carries local-credential login input.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// RegisterRequest carries registration input. Password strength is a plain
// minimum-length policy enforced at the binding layer.
type RegisterRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
}

// ForgotPasswordRequest carries the email to send a reset link to.
type ForgotPasswordRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// ResetPasswordRequest carries the replacement password; the reset token
// itself travels in the URL path.
type ResetPasswordRequest struct {
	Password string `json:"password" binding:"required,min=8"`
}

// UserResponse is the safe projection of a user returned by auth endpoints.
// It never includes password hashes or reset-token state.
type UserResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Photo string `json:"photo,omitempty"`
}

// AuthSuccessResponse wraps a user projection in the standard envelope.
type AuthSuccessResponse struct {
	Status string `json:"status"`
	Data   struct {
		User UserResponse `json:"user"`
	} `json:"data"`
}

// ToUserResponse converts a domain.User to its safe projection.
func ToUserResponse(user *domain.User) UserResponse {
	return UserResponse{
		ID:    user.UserID,
		Name:  user.Name,
		Email: user.Email,
		Photo: user.Photo,
	}
}
