package types

import (
	"errors"
	"fmt"
)

// ErrorCode represents a namespaced error code for service errors.
type ErrorCode string

// Configuration error codes
const (
	CONFIG_LOAD_FAILED       ErrorCode = "CONFIG_LOAD_FAILED"
	CONFIG_PARSE_FAILED      ErrorCode = "CONFIG_PARSE_FAILED"
	CONFIG_VALIDATION_FAILED ErrorCode = "CONFIG_VALIDATION_FAILED"
	CONFIG_NOT_FOUND         ErrorCode = "CONFIG_NOT_FOUND"
)

// Server error codes
const (
	SERVER_START_FAILED    ErrorCode = "SERVER_START_FAILED"
	SERVER_SHUTDOWN_FAILED ErrorCode = "SERVER_SHUTDOWN_FAILED"
)

// ServiceError represents a structured error with error code, message, and optional cause.
// It supports error wrapping and retryability hints for error handling logic.
type ServiceError struct {
	Code      ErrorCode
	Message   string
	Retryable bool
	Cause     error
}

// Error implements the error interface, returning a formatted error message.
// Format: "[CODE] message" or "[CODE] message: cause" if cause exists.
func (e *ServiceError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause error for error unwrapping chains.
func (e *ServiceError) Unwrap() error {
	return e.Cause
}

// Is checks if the target error matches this error by error code.
// Returns true if target is a ServiceError with the same Code.
func (e *ServiceError) Is(target error) bool {
	var svcErr *ServiceError
	if errors.As(target, &svcErr) {
		return e.Code == svcErr.Code
	}
	return false
}

// Detail returns the innermost message worth showing to an API client:
// the cause's message if there is one, otherwise the error's own message.
func (e *ServiceError) Detail() string {
	if e.Cause != nil {
		var inner *ServiceError
		if errors.As(e.Cause, &inner) {
			return inner.Detail()
		}
		return e.Cause.Error()
	}
	return e.Message
}

// NewError creates a new non-retryable ServiceError with the given code and message.
func NewError(code ErrorCode, message string) *ServiceError {
	return &ServiceError{
		Code:      code,
		Message:   message,
		Retryable: false,
		Cause:     nil,
	}
}

// IsRetryable reports whether err is a ServiceError marked as transient.
func IsRetryable(err error) bool {
	var svcErr *ServiceError
	if errors.As(err, &svcErr) {
		return svcErr.Retryable
	}
	return false
}

// WrapError creates a new non-retryable ServiceError that wraps an existing error.
// The wrapped error is accessible via Unwrap() for error chain inspection.
func WrapError(code ErrorCode, message string, cause error) *ServiceError {
	return &ServiceError{
		Code:      code,
		Message:   message,
		Retryable: false,
		Cause:     cause,
	}
}

// CodeOf returns the code of the outermost ServiceError in err's chain,
// or an empty code when err carries none.
func CodeOf(err error) ErrorCode {
	var svcErr *ServiceError
	if errors.As(err, &svcErr) {
		return svcErr.Code
	}
	return ""
}
