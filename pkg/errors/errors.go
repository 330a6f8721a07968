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
	ErrUnknown        ErrorCode = "UNKNOWN"
	ErrInternal       ErrorCode = "INTERNAL"
	ErrInvalidInput   ErrorCode = "INVALID_INPUT"
	ErrNotFound       ErrorCode = "NOT_FOUND"
	ErrNotImplemented ErrorCode = "NOT_IMPLEMENTED"

	// Configuration and catalog errors
	ErrConfigLoad     ErrorCode = "CONFIG_LOAD"
	ErrConfigParse    ErrorCode = "CONFIG_PARSE"
	ErrCatalogLoad    ErrorCode = "CATALOG_LOAD"
	ErrCatalogInvalid ErrorCode = "CATALOG_INVALID"

	// Reconciliation errors
	ErrPreconditionUnmet    ErrorCode = "PRECONDITION_UNMET"
	ErrSourceMissing        ErrorCode = "SOURCE_MISSING"
	ErrBackupFailed         ErrorCode = "BACKUP_FAILED"
	ErrMutationFailed       ErrorCode = "MUTATION_FAILED"
	ErrVerificationMismatch ErrorCode = "VERIFICATION_MISMATCH"
	ErrUnsafeSystemState    ErrorCode = "UNSAFE_SYSTEM_STATE"
	ErrUserDeclined         ErrorCode = "USER_DECLINED"

	// External collaborator errors
	ErrCommandUnavailable ErrorCode = "COMMAND_UNAVAILABLE"
	ErrCommandFailed      ErrorCode = "COMMAND_FAILED"

	// FileSystem errors
	ErrFileAccess ErrorCode = "FILE_ACCESS"
	ErrFileWrite    ErrorCode = "FILE_WRITE"
	ErrDirCreate    ErrorCode = "DIR_CREATE"
)

// SysdotError represents a structured error with code and details
type SysdotError struct {
	Code    ErrorCode
	Message string
	Details map[string]interface{}
	Wrapped error
}

// Error implements the error interface
func (e *SysdotError) Error() string {
	if e.Wrapped != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Wrapped)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap implements the errors.Unwrap interface
func (e *SysdotError) Unwrap() error {
	return e.Wrapped
}

// Is implements errors.Is interface
func (e *SysdotError) Is(target error) bool {
	var targetErr *SysdotError
	if errors.As(target, &targetErr) {
		return e.Code == targetErr.Code
	}
	return false
}

// New creates a new SysdotError with the given code and message
func New(code ErrorCode, message string) *SysdotError {
	return &SysdotError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
	}
}

// Newf creates a new SysdotError with a formatted message
func Newf(code ErrorCode, format string, args ...interface{}) *SysdotError {
	return &SysdotError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
	}
}

// Wrap wraps an existing error with a SysdotError
func Wrap(err error, code ErrorCode, message string) *SysdotError {
	if err == nil {
		return nil
	}
	return &SysdotError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// Wrapf wraps an existing error with a formatted message
func Wrapf(err error, code ErrorCode, format string, args ...interface{}) *SysdotError {
	if err == nil {
		return nil
	}
	return &SysdotError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// WithDetail adds a detail to the error
func (e *SysdotError) WithDetail(key string, value interface{}) *SysdotError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// IsErrorCode checks if an error has a specific error code
func IsErrorCode(err error, code ErrorCode) bool {
	var sysdotErr *SysdotError
	if errors.As(err, &sysdotErr) {
		return sysdotErr.Code == code
	}
	return false
}

// GetErrorCode returns the error code from an error, or ErrUnknown if not a SysdotError
func GetErrorCode(err error) ErrorCode {
	var sysdotErr *SysdotError
	if errors.As(err, &sysdotErr) {
		return sysdotErr.Code
	}
	return ErrUnknown
}
