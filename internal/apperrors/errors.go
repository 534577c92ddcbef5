package apperrors

import (
	"errors"
	"net/http"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrUnauthorized indicates missing or invalid credentials for the requested operation.
var ErrUnauthorized = errors.New("unauthorized")

// ErrExternalService indicates a downstream collaborator (mailer, OAuth provider) failed.
var ErrExternalService = errors.New("external service failure")

// AppError is a domain error that knows how to present itself over HTTP.
// The JSON body is always {"status":"fail"|"error","message":...}:
// "fail" for client-caused 4xx outcomes, "error" for server-side 5xx ones.
type AppError struct {
	Code    int    `json:"-"`
	Status  string `json:"status"`
	Message string `json:"message"`
}

func (e *AppError) Error() string {
	return e.Message
}

func newAppError(code int, message string) *AppError {
	status := "fail"
	if code >= http.StatusInternalServerError {
		status = "error"
	}
	return &AppError{Code: code, Status: status, Message: message}
}

func NewBadRequestError(message string) *AppError {
	return newAppError(http.StatusBadRequest, message)
}

func NewUnauthorizedError(message string) *AppError {
	return newAppError(http.StatusUnauthorized, message)
}

func NewNotFoundError(message string) *AppError {
	return newAppError(http.StatusNotFound, message)
}

func NewConflictError(message string) *AppError {
	return newAppError(http.StatusConflict, message)
}

func NewInternalServerError(message string) *AppError {
	return newAppError(http.StatusInternalServerError, message)
}
