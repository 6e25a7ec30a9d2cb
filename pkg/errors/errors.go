package errors

import (
	"errors"
	"fmt"
)

// ErrorCode represents a unique error code for stable testing
type ErrorCode string

// Error codes for different error categories
const (
	// General errors
	ErrUnknown  ErrorCode = "UNKNOWN"
	ErrInternal ErrorCode = "INTERNAL"

	// Argument errors
	ErrArgumentRequired ErrorCode = "ARGUMENT_REQUIRED"
	ErrInvalidPath      ErrorCode = "INVALID_PATH"
	ErrInvalidOption    ErrorCode = "INVALID_OPTION"

	// FileSystem errors
	ErrSourceNotFound      ErrorCode = "SOURCE_NOT_FOUND"
	ErrAccessDenied        ErrorCode = "ACCESS_DENIED"
	ErrDeletionFailed      ErrorCode = "DELETION_FAILED"
	ErrCopyFailed          ErrorCode = "COPY_FAILED"
	ErrPlatformUnsupported ErrorCode = "PLATFORM_UNSUPPORTED"

	// Configuration errors
	ErrConfigLoad    ErrorCode = "CONFIG_LOAD"
	ErrConfigParse   ErrorCode = "CONFIG_PARSE"
	ErrConfigInvalid ErrorCode = "CONFIG_INVALID"
)

// TestbedError represents a structured error with code and details
type TestbedError struct {
	Code    ErrorCode
	Message string
	Details map[string]interface{}
	Wrapped error
}

// Error implements the error interface
func (e *TestbedError) Error() string {
	if e.Wrapped != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Wrapped)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap implements the errors.Unwrap interface
func (e *TestbedError) Unwrap() error {
	return e.Wrapped
}

// Is matches another TestbedError by code only.
func (e *TestbedError) Is(target error) bool {
	var targetErr *TestbedError
	if errors.As(target, &targetErr) {
		return e.Code == targetErr.Code
	}
	return false
}

// New creates a new TestbedError with the given code and message
func New(code ErrorCode, message string) *TestbedError {
	return &TestbedError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
	}
}

// Newf creates a new TestbedError with a formatted message
func Newf(code ErrorCode, format string, args ...interface{}) *TestbedError {
	return &TestbedError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
	}
}

// Wrap wraps an existing error with a TestbedError. A nil err yields nil.
func Wrap(err error, code ErrorCode, message string) *TestbedError {
	if err == nil {
		return nil
	}
	return &TestbedError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// Wrapf wraps an existing error with a formatted message
func Wrapf(err error, code ErrorCode, format string, args ...interface{}) *TestbedError {
	if err == nil {
		return nil
	}
	return &TestbedError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// WithDetail adds a detail to the error
func (e *TestbedError) WithDetail(key string, value interface{}) *TestbedError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// IsErrorCode checks if an error has a specific error code anywhere in its chain
func IsErrorCode(err error, code ErrorCode) bool {
	return errors.Is(err, &TestbedError{Code: code})
}

// GetErrorCode returns the outermost error code, or ErrUnknown if err is not a TestbedError
func GetErrorCode(err error) ErrorCode {
	var tbErr *TestbedError
	if errors.As(err, &tbErr) {
		return tbErr.Code
	}
	return ErrUnknown
}

// GetErrorDetails returns the details from an error, or nil if not a TestbedError
func GetErrorDetails(err error) map[string]interface{} {
	var tbErr *TestbedError
	if errors.As(err, &tbErr) {
		return tbErr.Details
	}
	return nil
}
