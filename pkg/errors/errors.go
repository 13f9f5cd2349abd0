package errors

import (
	"errors"
	"fmt"
)

// ErrorCode identifies an error category with a stable string for testing
// and log filtering.
type ErrorCode string

const (
	// General errors
	ErrUnknown      ErrorCode = "UNKNOWN"
	ErrInternal     ErrorCode = "INTERNAL"
	ErrInvalidInput ErrorCode = "INVALID_INPUT"
	ErrNotFound     ErrorCode = "NOT_FOUND"

	// Configuration errors
	ErrConfigLoad    ErrorCode = "CONFIG_LOAD"
	ErrConfigParse   ErrorCode = "CONFIG_PARSE"
	ErrConfigInvalid ErrorCode = "CONFIG_INVALID"

	// Orchestration errors
	ErrInventoryUnavailable ErrorCode = "INVENTORY_UNAVAILABLE"
	ErrItemInstall          ErrorCode = "ITEM_INSTALL_FAILED"
	ErrPrereqMissing        ErrorCode = "PREREQUISITE_MISSING"
	ErrInterrupted          ErrorCode = "INTERRUPTED"

	// Privilege errors
	ErrElevation     ErrorCode = "ELEVATION_FAILED"
	ErrNoConsoleUser ErrorCode = "NO_CONSOLE_USER"

	// Config-edit errors
	ErrConfigEdit ErrorCode = "CONFIG_EDIT_FAILED"
	ErrBackup     ErrorCode = "BACKUP_FAILED"

	// FileSystem errors
	ErrFileAccess    ErrorCode = "FILE_ACCESS"
	ErrFileWrite     ErrorCode = "FILE_WRITE"
	ErrSymlinkCreate ErrorCode = "SYMLINK_CREATE"
)

// OnboardError is a structured error with a code and optional details.
type OnboardError struct {
	Code    ErrorCode
	Message string
	Details map[string]interface{}
	Wrapped error
}

// Error implements the error interface
func (e *OnboardError) Error() string {
	if e.Wrapped != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Wrapped)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap implements the errors.Unwrap interface
func (e *OnboardError) Unwrap() error {
	return e.Wrapped
}

// Is matches two OnboardErrors by code.
func (e *OnboardError) Is(target error) bool {
	var targetErr *OnboardError
	if errors.As(target, &targetErr) {
		return e.Code == targetErr.Code
	}
	return false
}

// New creates a new OnboardError with the given code and message
func New(code ErrorCode, message string) *OnboardError {
	return &OnboardError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
	}
}

// Newf creates a new OnboardError with a formatted message
func Newf(code ErrorCode, format string, args ...interface{}) *OnboardError {
	return &OnboardError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
	}
}

// Wrap wraps an existing error with an OnboardError. Returns nil for a
// nil error so call sites can wrap unconditionally.
func Wrap(err error, code ErrorCode, message string) *OnboardError {
	if err == nil {
		return nil
	}
	return &OnboardError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// Wrapf wraps an existing error with a formatted message
func Wrapf(err error, code ErrorCode, format string, args ...interface{}) *OnboardError {
	if err == nil {
		return nil
	}
	return &OnboardError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// WithDetail adds a detail to the error
func (e *OnboardError) WithDetail(key string, value interface{}) *OnboardError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// IsErrorCode checks if an error has a specific error code
func IsErrorCode(err error, code ErrorCode) bool {
	var oerr *OnboardError
	if errors.As(err, &oerr) {
		return oerr.Code == code
	}
	return false
}

// GetErrorCode returns the error code from an error, or ErrUnknown if
// the error is not an OnboardError.
func GetErrorCode(err error) ErrorCode {
	var oerr *OnboardError
	if errors.As(err, &oerr) {
		return oerr.Code
	}
	return ErrUnknown
}
