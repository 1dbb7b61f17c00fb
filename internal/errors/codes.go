package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrorCode represents internal error codes for parse, config and seed operations
type ErrorCode int

const (
	// Success
	ErrCodeOK ErrorCode = 0

	// Input errors
	ErrCodeInvalidArgument  ErrorCode = 1000
	ErrCodeInvalidID        ErrorCode = 1001
	ErrCodeInvalidMoney     ErrorCode = 1002
	ErrCodeInvalidDate      ErrorCode = 1003
	ErrCodeDuplicateID      ErrorCode = 1004
	ErrCodeUnknownReference ErrorCode = 1005
	ErrCodeInvalidConfig    ErrorCode = 1006

	// Internal errors
	ErrCodeInternal   ErrorCode = 2000
	ErrCodeSeedFailed ErrorCode = 2001
)

// StoreError represents a structured error with code and context
type StoreError struct {
	Code    ErrorCode
	Message string
	Details map[string]interface{}
	Cause   error
}

// Error implements the error interface
func (e *StoreError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

// Unwrap returns the underlying error
func (e *StoreError) Unwrap() error {
	return e.Cause
}

// NewStoreError creates a new StoreError
func NewStoreError(code ErrorCode, message string, cause error) *StoreError {
	return &StoreError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
		Cause:   cause,
	}
}

// WithDetail adds a detail to the error
func (e *StoreError) WithDetail(key string, value interface{}) *StoreError {
	e.Details[key] = value
	return e
}

// Convenience constructors for common errors

func InvalidArgument(message string, cause error) *StoreError {
	return NewStoreError(ErrCodeInvalidArgument, message, cause)
}

func InvalidID(value, reason string) *StoreError {
	return NewStoreError(ErrCodeInvalidID, fmt.Sprintf("invalid ID '%s': %s", value, reason), nil).
		WithDetail("value", value).
		WithDetail("reason", reason)
}

func InvalidMoney(value, reason string) *StoreError {
	return NewStoreError(ErrCodeInvalidMoney, fmt.Sprintf("invalid amount '%s': %s", value, reason), nil).
		WithDetail("value", value).
		WithDetail("reason", reason)
}

func InvalidDate(value string, cause error) *StoreError {
	return NewStoreError(ErrCodeInvalidDate, fmt.Sprintf("invalid date '%s'", value), cause).
		WithDetail("value", value)
}

func DuplicateID(kind, id string) *StoreError {
	return NewStoreError(ErrCodeDuplicateID, fmt.Sprintf("duplicate %s ID %s", kind, id), nil).
		WithDetail("kind", kind).
		WithDetail("id", id)
}

func UnknownReference(kind, id, field string) *StoreError {
	return NewStoreError(ErrCodeUnknownReference, fmt.Sprintf("%s %s references unknown %s", kind, id, field), nil).
		WithDetail("kind", kind).
		WithDetail("id", id).
		WithDetail("field", field)
}

func InvalidConfig(message string, cause error) *StoreError {
	return NewStoreError(ErrCodeInvalidConfig, message, cause)
}

func SeedFailed(message string, cause error) *StoreError {
	return NewStoreError(ErrCodeSeedFailed, message, cause)
}

func InternalError(message string, cause error) *StoreError {
	return NewStoreError(ErrCodeInternal, message, cause)
}

// IsStoreError checks if an error is or wraps a StoreError
func IsStoreError(err error) bool {
	var se *StoreError
	return stderrors.As(err, &se)
}

// GetCode extracts the error code from an error
func GetCode(err error) ErrorCode {
	if err == nil {
		return ErrCodeOK
	}
	var se *StoreError
	if stderrors.As(err, &se) {
		return se.Code
	}
	return ErrCodeInternal
}
