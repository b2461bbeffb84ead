// Package errors defines the structured error type shared by the generation
// pipeline, its adapters and the operator tooling.
package errors

import (
	"errors"
	"fmt"
)

// ErrorCode represents a category of application error.
type ErrorCode string

const (
	// ErrCodeValidation indicates invalid input data.
	ErrCodeValidation ErrorCode = "validation"
	// ErrCodeConfiguration indicates a startup configuration problem (missing credentials, bad limits).
	ErrCodeConfiguration ErrorCode = "configuration"
	// ErrCodeDirectoryUnreadable indicates the output directory could not be listed.
	ErrCodeDirectoryUnreadable ErrorCode = "directory_unreadable"
	// ErrCodeTimeoutExhausted indicates every generation attempt for one artifact timed out.
	ErrCodeTimeoutExhausted ErrorCode = "timeout_exhausted"
	// ErrCodeGenerator indicates the generator backend reported a failure.
	ErrCodeGenerator ErrorCode = "generator"
	// ErrCodeDelivery indicates the delivery channel rejected or failed to send an artifact.
	ErrCodeDelivery ErrorCode = "delivery"
	// ErrCodeDeliveryUnavailable indicates the delivery channel could not be reached at all.
	ErrCodeDeliveryUnavailable ErrorCode = "delivery_unavailable"
	// ErrCodeNotFound indicates a resource was not found.
	ErrCodeNotFound ErrorCode = "not_found"
	// ErrCodeConflict indicates a conflict with existing data (e.g., unique constraint violation).
	ErrCodeConflict ErrorCode = "conflict"
	// ErrCodeInternal indicates an internal error.
	ErrCodeInternal ErrorCode = "internal"
	// ErrCodeTimeout indicates a timeout occurred.
	ErrCodeTimeout ErrorCode = "timeout"
	// ErrCodeCanceled indicates the operation was canceled.
	ErrCodeCanceled ErrorCode = "canceled"
)

// AppError represents a structured application error with a code, message, and optional cause.
// It supports error wrapping and unwrapping for use with errors.Is and errors.As.
type AppError struct {
	// Code categorizes the error type
	Code ErrorCode
	// Message is a human-readable error message
	Message string
	// Cause is the underlying error that caused this error (optional)
	Cause error
	// Field is the configuration key or column that caused the error (optional)
	Field string
}

// Error implements the error interface.
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

// Unwrap returns the underlying cause, enabling errors.Is and errors.As.
func (e *AppError) Unwrap() error {
	return e.Cause
}

// Is matches another *AppError by code so sentinel values work with errors.Is.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return t.Message == "" && t.Code == e.Code
}

// Sentinels usable with errors.Is. They carry only a code.
var (
	ErrConfiguration       = &AppError{Code: ErrCodeConfiguration}
	ErrDirectoryUnreadable = &AppError{Code: ErrCodeDirectoryUnreadable}
	ErrTimeoutExhausted    = &AppError{Code: ErrCodeTimeoutExhausted}
	ErrDelivery            = &AppError{Code: ErrCodeDelivery}
	ErrDeliveryUnavailable = &AppError{Code: ErrCodeDeliveryUnavailable}
)

// NotFound creates a new NotFound error.
func NotFound(message string) *AppError {
	return &AppError{
		Code:    ErrCodeNotFound,
		Message: message,
	}
}

// NotFoundf creates a new NotFound error with formatted message.
func NotFoundf(format string, args ...any) *AppError {
	return &AppError{
		Code:    ErrCodeNotFound,
		Message: fmt.Sprintf(format, args...),
	}
}

// Validation creates a new Validation error.
func Validation(message string) *AppError {
	return &AppError{
		Code:    ErrCodeValidation,
		Message: message,
	}
}

// ValidationField creates a new Validation error for a specific field.
func ValidationField(field, message string) *AppError {
	return &AppError{
		Code:    ErrCodeValidation,
		Message: message,
		Field:   field,
	}
}

// Configuration creates a configuration error for the given key.
func Configuration(field, message string) *AppError {
	return &AppError{
		Code:    ErrCodeConfiguration,
		Message: message,
		Field:   field,
	}
}

// Configurationf creates a configuration error with a formatted message.
func Configurationf(field, format string, args ...any) *AppError {
	return Configuration(field, fmt.Sprintf(format, args...))
}

// Internal creates a new Internal error.
func Internal(message string) *AppError {
	return &AppError{
		Code:    ErrCodeInternal,
		Message: message,
	}
}

// Wrap wraps an existing error with an AppError, preserving the cause.
func Wrap(err error, code ErrorCode, message string) *AppError {
	if err == nil {
		return nil
	}
	return &AppError{
		Code:    code,
		Message: message,
		Cause:   err,
	}
}

// Wrapf wraps an existing error with an AppError and formatted message.
func Wrapf(err error, code ErrorCode, format string, args ...any) *AppError {
	return Wrap(err, code, fmt.Sprintf(format, args...))
}

// isCode checks if an error has a specific error code.
func isCode(err error, code ErrorCode) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Code == code
}

// IsNotFound checks if an error is a NotFound error.
func IsNotFound(err error) bool {
	return isCode(err, ErrCodeNotFound)
}

// IsConflict checks if an error is a Conflict error.
func IsConflict(err error) bool {
	return isCode(err, ErrCodeConflict)
}

// IsValidation checks if an error is a Validation error.
func IsValidation(err error) bool {
	return isCode(err, ErrCodeValidation)
}

// IsConfiguration checks if an error is a startup configuration error.
func IsConfiguration(err error) bool {
	return isCode(err, ErrCodeConfiguration)
}

// IsDirectoryUnreadable checks if an error reports an unreadable output directory.
func IsDirectoryUnreadable(err error) bool {
	return isCode(err, ErrCodeDirectoryUnreadable)
}

// IsDelivery checks if an error is a per-artifact delivery failure.
func IsDelivery(err error) bool {
	return isCode(err, ErrCodeDelivery)
}

// IsDeliveryUnavailable checks if the delivery channel could not be reached.
func IsDeliveryUnavailable(err error) bool {
	return isCode(err, ErrCodeDeliveryUnavailable)
}

// IsTimeout checks if an error is a Timeout error.
func IsTimeout(err error) bool {
	return isCode(err, ErrCodeTimeout)
}

// IsCanceled checks if an error is a Canceled error.
func IsCanceled(err error) bool {
	return isCode(err, ErrCodeCanceled)
}

// GetCode returns the ErrorCode from an error, or empty string if not an AppError.
func GetCode(err error) ErrorCode {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return ""
}

// GetField returns the Field from an error, or empty string if not an AppError or no field set.
func GetField(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Field
	}
	return ""
}
