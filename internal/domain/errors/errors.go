package errors

import (
	"errors"
	"net/http"
)

// Domain errors
var (
	ErrNotFound      = errors.New("resource not found")
	ErrAlreadyExists = errors.New("resource already exists")
	ErrInvalidInput  = errors.New("invalid input")
	ErrStateConflict = errors.New("operation conflicts with current state")
	ErrUnauthorized  = errors.New("unauthorized")
	ErrForbidden     = errors.New("forbidden")
	ErrExpired       = errors.New("code expired")
	ErrInvalidCode   = errors.New("invalid code")
)

// Stable machine-readable error codes exposed to clients.
const (
	CodeValidation    = "VALIDATION"
	CodeNotFound      = "NOT_FOUND"
	CodeConflict      = "CONFLICT"
	CodeStateConflict = "STATE_CONFLICT"
	CodeAuthRequired  = "AUTH_REQUIRED"
	CodeUnauthorized  = "UNAUTHORIZED"
	CodeExpired       = "EXPIRED"
	CodeInvalidCode   = "INVALID_CODE"
	CodeInternal      = "INTERNAL"
)

// AppError represents an application error with HTTP status and a
// stable code alongside the human message.
type AppError struct {
	Status  int    `json:"-"`
	Code    string `json:"code"`
	Message string `json:"error"`
	Err     error  `json:"-"`
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError creates a new app error
func NewAppError(status int, code, message string, err error) *AppError {
	return &AppError{
		Status:  status,
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Common error constructors
func NotFound(message string) *AppError {
	return NewAppError(http.StatusNotFound, CodeNotFound, message, ErrNotFound)
}

func BadRequest(message string) *AppError {
	return NewAppError(http.StatusBadRequest, CodeValidation, message, ErrInvalidInput)
}

func Conflict(message string) *AppError {
	return NewAppError(http.StatusConflict, CodeConflict, message, ErrAlreadyExists)
}

func StateConflict(message string) *AppError {
	return NewAppError(http.StatusConflict, CodeStateConflict, message, ErrStateConflict)
}

func Forbidden(message string) *AppError {
	return NewAppError(http.StatusForbidden, CodeAuthRequired, message, ErrForbidden)
}

func Unauthorized(message string) *AppError {
	return NewAppError(http.StatusUnauthorized, CodeUnauthorized, message, ErrUnauthorized)
}

func Expired(message string) *AppError {
	return NewAppError(http.StatusGone, CodeExpired, message, ErrExpired)
}

func InvalidCode(message string) *AppError {
	return NewAppError(http.StatusBadRequest, CodeInvalidCode, message, ErrInvalidCode)
}

func InternalError(err error) *AppError {
	return NewAppError(http.StatusInternalServerError, CodeInternal, "internal server error", err)
}
