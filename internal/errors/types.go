package errors

import (
	"fmt"
)

// ErrorType represents the category of error
type ErrorType int

const (
	ErrorTypeValidation ErrorType = iota
	ErrorTypeNotFound
	ErrorTypeDatabase
	ErrorTypeInvalidInput
	ErrorTypeTimeout
	ErrorTypeConfiguration
)

// kind describes how one error category behaves across the application
type kind struct {
	name string
	code string
	// retryable errors may succeed later and are the only ones a stamp is
	// queued for
	retryable bool
	// correctable errors are the user's to fix; they are not logged
	correctable bool
	// message replaces the error text shown to users; empty keeps it
	message string
	suffix  string
}

var kinds = map[ErrorType]kind{
	ErrorTypeValidation:    {name: "validation", code: "VALIDATION_FAILED", correctable: true},
	ErrorTypeNotFound:      {name: "not_found", code: "NOT_FOUND", correctable: true},
	ErrorTypeDatabase:      {name: "database", code: "DATABASE_ERROR", retryable: true, message: "A database error occurred. Please try again."},
	ErrorTypeInvalidInput:  {name: "invalid_input", code: "INVALID_INPUT", correctable: true},
	ErrorTypeTimeout:       {name: "timeout", code: "TIMEOUT", retryable: true, message: "The operation timed out. Please try again."},
	ErrorTypeConfiguration: {name: "configuration", code: "INVALID_CONFIGURATION", correctable: true, suffix: ". Please fix your settings."},
}

var unknownKind = kind{name: "unknown", code: "UNKNOWN_ERROR", message: "An unexpected error occurred. Please try again."}

func (et ErrorType) kind() kind {
	if k, ok := kinds[et]; ok {
		return k
	}
	return unknownKind
}

// String returns the string representation of the error type
func (et ErrorType) String() string {
	return et.kind().name
}

// AppError is a categorised error. Field and Value name the offending input
// or setting; Op names the storage operation that failed.
type AppError struct {
	Type    ErrorType
	Message string
	Code    string
	Cause   error

	Field string
	Value interface{}
	Op    string
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap returns the underlying error for error unwrapping
func (e *AppError) Unwrap() error {
	return e.Cause
}

// Is matches another AppError of the same type. A target without a code
// matches every code of that type.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.Type == t.Type && (t.Code == "" || e.Code == t.Code)
}

// IsType checks if this error is of the specified type
func (e *AppError) IsType(errorType ErrorType) bool {
	return e.Type == errorType
}

// Retryable reports whether the operation may succeed on a later attempt
func (e *AppError) Retryable() bool {
	return e.Type.kind().retryable
}

// UserMessage is the text shown to the user for this error
func (e *AppError) UserMessage() string {
	k := e.Type.kind()
	if k.message != "" {
		return k.message
	}
	return e.Message + k.suffix
}

func newError(t ErrorType, message string, cause error) *AppError {
	return &AppError{Type: t, Message: message, Code: t.kind().code, Cause: cause}
}
