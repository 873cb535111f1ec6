package errors

import (
	"fmt"
	"net/http"
	"runtime/debug"
)

// Error codes used by the conversation core
const (
	CodeSessionNotFound  = "SESSION_NOT_FOUND"
	CodeInvalidFilter    = "INVALID_FILTER"
	CodeStoreUnavailable = "STORE_UNAVAILABLE"
	CodePartialFailure   = "PARTIAL_FAILURE"
)

// AppError represents an application error with HTTP status code and error code
type AppError struct {
	StatusCode int    `json:"-"`
	Code       string `json:"code"`
	Message    string `json:"message"`
	Details    any    `json:"details,omitempty"`
	Retryable  bool   `json:"retryable,omitempty"`
	Stack      string `json:"-"`
}

// Error implements the error interface
func (e *AppError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// WithDetails adds details to the error
func (e *AppError) WithDetails(details any) *AppError {
	e.Details = details
	return e
}

// NewError creates a new application error
func NewError(statusCode int, code string, message string) *AppError {
	return &AppError{
		StatusCode: statusCode,
		Code:       code,
		Message:    message,
		Stack:      string(debug.Stack()),
	}
}

// NewBadRequestError creates a 400 Bad Request error
func NewBadRequestError(code string, message string) *AppError {
	return NewError(http.StatusBadRequest, code, message)
}

// NewUnauthorizedError creates a 401 Unauthorized error
func NewUnauthorizedError(code string, message string) *AppError {
	return NewError(http.StatusUnauthorized, code, message)
}

// NewNotFoundError creates a 404 Not Found error
func NewNotFoundError(code string, message string) *AppError {
	return NewError(http.StatusNotFound, code, message)
}

// NewInternalServerError creates a 500 Internal Server Error
func NewInternalServerError(code string, message string) *AppError {
	return NewError(http.StatusInternalServerError, code, message)
}

// NewStoreUnavailableError creates a retryable 503 for transient store
// failures. Callers may retry after a short backoff.
func NewStoreUnavailableError(message string) *AppError {
	err := NewError(http.StatusServiceUnavailable, CodeStoreUnavailable, message)
	err.Retryable = true
	return err
}

// NewInvalidFilterError creates a 400 rejecting a malformed search filter.
// Details should name the offending field.
func NewInvalidFilterError(message string, details any) *AppError {
	err := NewError(http.StatusBadRequest, CodeInvalidFilter, message)
	err.Details = details
	return err
}

// NewSessionNotFoundError creates the 404 raised by single-session aggregation
func NewSessionNotFoundError(sessionID string) *AppError {
	return NewError(http.StatusNotFound, CodeSessionNotFound,
		fmt.Sprintf("session %q does not exist", sessionID))
}

// Is checks if the target error is of type AppError
func Is(err error, target *AppError) bool {
	appErr, ok := err.(*AppError)
	if !ok {
		return false
	}
	return appErr.Code == target.Code
}

// IsCode checks whether err is an AppError carrying the given code
func IsCode(err error, code string) bool {
	appErr, ok := err.(*AppError)
	return ok && appErr.Code == code
}

// IsRetryable reports whether err is a transient error worth retrying
func IsRetryable(err error) bool {
	appErr, ok := err.(*AppError)
	return ok && appErr.Retryable
}
