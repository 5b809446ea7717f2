package domain

import (
	"errors"
	"fmt"
	"testing"
)

func TestDomainError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *DomainError
		expected string
	}{
		{
			name:     "error without details",
			err:      NewDomainError("UD-TEST-1000", "test message"),
			expected: "[UD-TEST-1000] test message",
		},
		{
			name:     "error with details",
			err:      NewDomainError("UD-TEST-1001", "test message").WithDetails("extra info"),
			expected: "[UD-TEST-1001] test message: extra info",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.expected {
				t.Errorf("Error() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestDomainError_Is(t *testing.T) {
	err1 := NewDomainError("UD-TEST-1000", "message 1")
	err2 := NewDomainError("UD-TEST-1000", "message 2")
	err3 := NewDomainError("UD-TEST-1001", "message 1")

	if !errors.Is(err1, err2) {
		t.Error("errors.Is should return true for same error code")
	}
	if errors.Is(err1, err3) {
		t.Error("errors.Is should return false for different error code")
	}
	if errors.Is(err1, fmt.Errorf("some error")) {
		t.Error("errors.Is should return false for non-DomainError")
	}
}

func TestDomainError_Unwrap(t *testing.T) {
	cause := fmt.Errorf("underlying cause")
	err := NewDomainError("UD-TEST-1000", "wrapper").WithCause(cause)

	if unwrapped := errors.Unwrap(err); unwrapped != cause {
		t.Errorf("Unwrap() = %v, want %v", unwrapped, cause)
	}

	errNoCause := NewDomainError("UD-TEST-1000", "no cause")
	if errors.Unwrap(errNoCause) != nil {
		t.Error("Unwrap() should return nil when no cause")
	}
}

func TestDomainError_WithDetails(t *testing.T) {
	original := NewDomainError("UD-TEST-1000", "original message")
	withDetails := original.WithDetails("additional details")

	if original.Details != "" {
		t.Error("WithDetails should not modify original error")
	}
	if withDetails.Details != "additional details" {
		t.Errorf("Details = %q, want %q", withDetails.Details, "additional details")
	}
	if withDetails.Code != original.Code || withDetails.Message != original.Message {
		t.Errorf("code/message not preserved: %+v", withDetails)
	}
}

func TestDomainError_WithCause(t *testing.T) {
	original := NewDomainError("UD-TEST-1000", "original message")
	cause := fmt.Errorf("root cause")
	withCause := original.WithCause(cause)

	if original.Cause != nil {
		t.Error("WithCause should not modify original error")
	}
	if withCause.Cause != cause {
		t.Errorf("Cause = %v, want %v", withCause.Cause, cause)
	}
	if !errors.Is(withCause, original) {
		t.Error("wrapped error should still match its sentinel")
	}
}

func TestIsDomainError(t *testing.T) {
	err := ErrUserNotFound

	if !IsDomainError(err, "UD-USER-4040") {
		t.Error("IsDomainError should return true for matching code")
	}
	if IsDomainError(err, "UD-USER-9999") {
		t.Error("IsDomainError should return false for non-matching code")
	}
	if !IsDomainError(err, "") {
		t.Error("IsDomainError with empty code should match any DomainError")
	}
	if IsDomainError(fmt.Errorf("regular error"), "UD-USER-4040") {
		t.Error("IsDomainError should return false for non-DomainError")
	}

	wrapped := fmt.Errorf("wrapped: %w", ErrUserNotFound)
	if !IsDomainError(wrapped, "UD-USER-4040") {
		t.Error("IsDomainError should work with wrapped errors")
	}
}

func TestGetErrorCode(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{"domain error", ErrPermissionDenied, "UD-AUTH-4030"},
		{"wrapped domain error", fmt.Errorf("wrapped: %w", ErrStorageError), "UD-SYS-5001"},
		{"regular error", fmt.Errorf("regular error"), ""},
		{"nil error", nil, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GetErrorCode(tt.err); got != tt.expected {
				t.Errorf("GetErrorCode() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestPredefinedErrors(t *testing.T) {
	tests := []struct {
		err  *DomainError
		code string
	}{
		{ErrUserNotFound, "UD-USER-4040"},
		{ErrUserValidation, "UD-USER-4001"},

		{ErrTokenMalformed, "UD-AUTH-4000"},
		{ErrTokenMissing, "UD-AUTH-4010"},
		{ErrTokenInvalid, "UD-AUTH-4011"},
		{ErrPermissionDenied, "UD-AUTH-4030"},

		{ErrInternalServer, "UD-SYS-5000"},
		{ErrStorageError, "UD-SYS-5001"},
		{ErrServiceUnavailable, "UD-SYS-5030"},
		{ErrBadRequest, "UD-SYS-4000"},
		{ErrRateLimited, "UD-SYS-4290"},

		{ErrInvalidArgument, "UD-ARG-1001"},
		{ErrMissingArgument, "UD-ARG-1002"},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			if tt.err.Code != tt.code {
				t.Errorf("Error code = %q, want %q", tt.err.Code, tt.code)
			}
			if tt.err.Message == "" {
				t.Error("Error message should not be empty")
			}
		})
	}
}

func TestIsUnauthenticated(t *testing.T) {
	tests := []struct {
		err  error
		want bool
	}{
		{ErrTokenMissing, true},
		{ErrTokenInvalid.WithDetails("unknown"), true},
		{fmt.Errorf("resolve: %w", ErrTokenMalformed), true},
		{ErrPermissionDenied, false},
		{ErrUserNotFound, false},
		{nil, false},
	}
	for _, tt := range tests {
		if got := IsUnauthenticated(tt.err); got != tt.want {
			t.Errorf("IsUnauthenticated(%v) = %v, want %v", tt.err, got, tt.want)
		}
	}
}
