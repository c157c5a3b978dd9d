package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
)

// Error codes
const (
	ErrCodeNotFound   = "NOT_FOUND"
	ErrCodeValidation = "VALIDATION_ERROR"
	ErrCodeInternal   = "INTERNAL_ERROR"
	ErrCodeBadRequest = "BAD_REQUEST"
	ErrCodeTransport  = "TRANSPORT_ERROR"
	ErrCodeEmptyDeck  = "EMPTY_DECK"
	ErrCodeTimeout    = "TIMEOUT"
)

// AppError represents an application error with HTTP status code and error code
type AppError struct {
	Code    string // Error code (e.g., "NOT_FOUND", "VALIDATION_ERROR")
	Message string // Human-readable error message
	Status  int    // HTTP status code
	Err     error  // Wrapped underlying error (optional)
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying error for error wrapping support
func (e *AppError) Unwrap() error {
	return e.Err
}

// Is matches any AppError carrying the same code, so callers can compare
// against the exported sentinels with errors.Is.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return t.Message == "" && t.Code == e.Code
}

// Sentinels for errors.Is checks against a code.
var (
	ErrNotFound   = &AppError{Code: ErrCodeNotFound}
	ErrValidation = &AppError{Code: ErrCodeValidation}
	ErrBadRequest = &AppError{Code: ErrCodeBadRequest}
	ErrTransport  = &AppError{Code: ErrCodeTransport}
	ErrEmptyDeck  = &AppError{Code: ErrCodeEmptyDeck}
	ErrTimeout    = &AppError{Code: ErrCodeTimeout}
)

// NewNotFoundError creates a new NOT_FOUND error
func NewNotFoundError(resource string, id interface{}) *AppError {
	return &AppError{
		Code:    ErrCodeNotFound,
		Message: fmt.Sprintf("%s not found: %v", resource, id),
		Status:  http.StatusNotFound,
	}
}

// NewValidationError creates a new VALIDATION_ERROR
func NewValidationError(field string, reason string) *AppError {
	return &AppError{
		Code:    ErrCodeValidation,
		Message: fmt.Sprintf("validation failed for %s: %s", field, reason),
		Status:  http.StatusBadRequest,
	}
}

// NewInternalError creates a new INTERNAL_ERROR
func NewInternalError(err error) *AppError {
	return &AppError{
		Code:    ErrCodeInternal,
		Message: "internal server error",
		Status:  http.StatusInternalServerError,
		Err:     err,
	}
}

// NewBadRequestError creates a new BAD_REQUEST error
func NewBadRequestError(message string) *AppError {
	return &AppError{
		Code:    ErrCodeBadRequest,
		Message: message,
		Status:  http.StatusBadRequest,
	}
}

// NewTransportError wraps a failed call to the deck API.
func NewTransportError(op string, err error) *AppError {
	return &AppError{
		Code:    ErrCodeTransport,
		Message: fmt.Sprintf("%s failed", op),
		Status:  http.StatusBadGateway,
		Err:     err,
	}
}

// NewEmptyDeckError is returned when a quiz is requested for a deck without cards.
func NewEmptyDeckError(title string) *AppError {
	return &AppError{
		Code:    ErrCodeEmptyDeck,
		Message: fmt.Sprintf("deck %q has no cards", title),
		Status:  http.StatusConflict,
	}
}

// NewTimeoutError is returned when a request's deadline passed or it was
// cancelled before the store was written.
func NewTimeoutError(err error) *AppError {
	return &AppError{
		Code:    ErrCodeTimeout,
		Message: "request timed out",
		Status:  http.StatusGatewayTimeout,
		Err:     err,
	}
}

// As is errors.As re-exported so callers importing this package under the
// name "errors" keep access to it.
func As(err error, target any) bool {
	return stderrors.As(err, target)
}

// Is is errors.Is re-exported for the same reason as As.
func Is(err, target error) bool {
	return stderrors.Is(err, target)
}

// AsAppError extracts an *AppError from err's chain.
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}
