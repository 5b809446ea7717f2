package domain

import (
	"errors"
	"fmt"
)

// DomainError represents a business domain error with a structured error code.
//
// Codes have the form UD-<AREA>-<NNNN>. The last four digits carry the
// HTTP status class the transport layer maps them to.
type DomainError struct {
	Code    string // Error code (e.g., "UD-USER-4040")
	Message string // Human-readable message
	Details string // Optional additional details
	Cause   error  // Underlying error (if any)
}

// Error implements the error interface.
func (e *DomainError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("[%s] %s: %s", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error for errors.Unwrap() support.
func (e *DomainError) Unwrap() error {
	return e.Cause
}

// Is implements errors.Is() support. Two domain errors match when their
// codes match.
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// NewDomainError creates a new DomainError with the given code and message.
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// WithDetails returns a copy of the error with additional details.
func (e *DomainError) WithDetails(details string) *DomainError {
	return &DomainError{
		Code:    e.Code,
		Message: e.Message,
		Details: details,
		Cause:   e.Cause,
	}
}

// WithCause returns a copy of the error wrapping the given cause.
func (e *DomainError) WithCause(cause error) *DomainError {
	return &DomainError{
		Code:    e.Code,
		Message: e.Message,
		Details: e.Details,
		Cause:   cause,
	}
}

// IsDomainError checks if an error is a DomainError with the given code.
// If code is empty, it only checks if the error is a DomainError.
func IsDomainError(err error, code string) bool {
	var de *DomainError
	if errors.As(err, &de) {
		if code == "" {
			return true
		}
		return de.Code == code
	}
	return false
}

// GetErrorCode extracts the error code from an error if it's a DomainError.
func GetErrorCode(err error) string {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Code
	}
	return ""
}

// ============================================================================
// Directory Errors (USER)
// ============================================================================

var (
	// ErrUserNotFound indicates the addressed record does not exist.
	ErrUserNotFound = NewDomainError("UD-USER-4040", "user not found")

	// ErrUserValidation indicates record fields failed validation.
	ErrUserValidation = NewDomainError("UD-USER-4001", "user validation failed")
)

// ============================================================================
// Authentication Errors (AUTH)
// ============================================================================

var (
	// ErrTokenMalformed indicates the presented token has the wrong shape.
	ErrTokenMalformed = NewDomainError("UD-AUTH-4000", "malformed token")

	// ErrTokenMissing indicates no session token was presented.
	ErrTokenMissing = NewDomainError("UD-AUTH-4010", "session token not provided")

	// ErrTokenInvalid indicates the token was never minted.
	ErrTokenInvalid = NewDomainError("UD-AUTH-4011", "invalid session token")

	// ErrPermissionDenied indicates the caller does not own the record.
	ErrPermissionDenied = NewDomainError("UD-AUTH-4030", "permission denied")
)

// ============================================================================
// System Errors (SYS)
// ============================================================================

var (
	// ErrInternalServer indicates an internal server error.
	ErrInternalServer = NewDomainError("UD-SYS-5000", "internal server error")

	// ErrStorageError indicates the backing store could not be written.
	ErrStorageError = NewDomainError("UD-SYS-5001", "storage error")

	// ErrServiceUnavailable indicates the service is temporarily unavailable.
	ErrServiceUnavailable = NewDomainError("UD-SYS-5030", "service unavailable")

	// ErrBadRequest indicates a malformed request.
	ErrBadRequest = NewDomainError("UD-SYS-4000", "bad request")

	// ErrRateLimited indicates too many requests.
	ErrRateLimited = NewDomainError("UD-SYS-4290", "too many requests")
)

// ============================================================================
// Argument Errors (ARG)
// ============================================================================

var (
	// ErrInvalidArgument indicates an invalid argument.
	ErrInvalidArgument = NewDomainError("UD-ARG-1001", "invalid argument")

	// ErrMissingArgument indicates a required argument is missing.
	ErrMissingArgument = NewDomainError("UD-ARG-1002", "missing required argument")
)

// IsUnauthenticated reports whether err belongs to the unauthenticated class.
func IsUnauthenticated(err error) bool {
	return errors.Is(err, ErrTokenMissing) ||
		errors.Is(err, ErrTokenInvalid) ||
		errors.Is(err, ErrTokenMalformed)
}
