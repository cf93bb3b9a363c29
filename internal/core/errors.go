// internal/core/errors.go
package core

import (
	"errors"
	"fmt"
)

// Error represents a structured error with code and optional cause.
type Error struct {
	Code    string
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for errors.Is/As support.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is implements errors.Is matching by code.
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Code == t.Code
	}
	return false
}

// WrapError creates a new error with the same code but with a cause.
func WrapError(base *Error, cause error) *Error {
	return &Error{
		Code:    base.Code,
		Message: base.Message,
		Cause:   cause,
	}
}

// BackendError builds a BACKEND_ERROR carrying the backend's own message.
func BackendError(message string, cause error) *Error {
	if message == "" {
		message = ErrBackend.Message
	}
	return &Error{Code: ErrBackend.Code, Message: message, Cause: cause}
}

// InvalidSettings builds a SETTINGS_INVALID error whose message is shown
// to users as is.
func InvalidSettings(message string, cause error) *Error {
	return &Error{Code: ErrSettingsInvalid.Code, Message: message, Cause: cause}
}

// Predefined errors
var (
	// Config errors
	ErrConfigInvalid = &Error{Code: "CONFIG_INVALID", Message: "configuration invalid"}
	ErrConfigMissing = &Error{Code: "CONFIG_MISSING", Message: "required configuration missing"}

	// Backend errors
	ErrTransport = &Error{Code: "TRANSPORT_FAILED", Message: "backend unreachable"}
	ErrBackend   = &Error{Code: "BACKEND_ERROR", Message: "backend returned an error"}
	ErrDecode    = &Error{Code: "DECODE_FAILED", Message: "unexpected response payload"}

	// Settings errors
	ErrSettingsInvalid = &Error{Code: "SETTINGS_INVALID", Message: "settings invalid"}

	// Archive errors
	ErrArchiveFailed = &Error{Code: "ARCHIVE_FAILED", Message: "snapshot archive failed"}
)

// Message returns the single human readable string shown to users for err.
// Backend and settings errors carry text written for users and surface it
// unmodified. Anything else, transport and decode failures included, shows
// fallback; the error chain belongs in the logs.
func Message(err error, fallback string) string {
	if err == nil {
		return ""
	}

	var coreErr *Error
	if errors.As(err, &coreErr) && coreErr.Message != "" {
		switch coreErr.Code {
		case ErrBackend.Code, ErrSettingsInvalid.Code:
			return coreErr.Message
		}
	}
	return fallback
}
