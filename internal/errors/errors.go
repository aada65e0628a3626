package errors

import (
	"errors"
	"fmt"
)

// NewValidationError creates a new validation error
func NewValidationError(message string, cause error) *AppError {
	return newError(ErrorTypeValidation, message, cause)
}

// NewNotFoundError reports that no resource exists under identifier
func NewNotFoundError(resource string, identifier string) *AppError {
	e := newError(ErrorTypeNotFound, fmt.Sprintf("%s not found: %s", resource, identifier), nil)
	e.Field = resource
	e.Value = identifier
	return e
}

// NewDatabaseError wraps a storage failure. The stamp flow queues on these.
func NewDatabaseError(operation string, cause error) *AppError {
	e := newError(ErrorTypeDatabase, fmt.Sprintf("database operation failed: %s", operation), cause)
	e.Op = operation
	return e
}

// NewInvalidInputError rejects a value supplied by the caller
func NewInvalidInputError(field string, value interface{}, reason string) *AppError {
	e := newError(ErrorTypeInvalidInput, fmt.Sprintf("invalid input for %s: %s", field, reason), nil)
	e.Field = field
	e.Value = value
	return e
}

// NewTimeoutError reports an operation that exceeded its deadline
func NewTimeoutError(operation string, timeout interface{}) *AppError {
	e := newError(ErrorTypeTimeout, fmt.Sprintf("operation timed out: %s", operation), nil)
	e.Op = operation
	e.Value = timeout
	return e
}

// NewConfigurationError creates an error for a setting that cannot be used
// as stored. These block the requesting operation until the user fixes them.
func NewConfigurationError(setting string, value interface{}, reason string) *AppError {
	e := newError(ErrorTypeConfiguration, fmt.Sprintf("invalid configuration for %s: %s", setting, reason), nil)
	e.Field = setting
	e.Value = value
	return e
}

// WrapError wraps err under the given type with its default code
func WrapError(err error, errorType ErrorType, message string) *AppError {
	return newError(errorType, message, err)
}

// IsAppError checks if the error is, or wraps, an AppError
func IsAppError(err error) bool {
	_, ok := AsAppError(err)
	return ok
}

// AsAppError returns the first AppError in err's chain
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// IsErrorType checks if the error is of the specified type
func IsErrorType(err error, errorType ErrorType) bool {
	appErr, ok := AsAppError(err)
	return ok && appErr.IsType(errorType)
}

// IsRetryable reports whether err came from the persistence layer and may
// succeed on a later attempt. Only these errors are eligible for queueing.
func IsRetryable(err error) bool {
	appErr, ok := AsAppError(err)
	return ok && appErr.Retryable()
}

// GetUserMessage returns a user-friendly error message
func GetUserMessage(err error) string {
	if appErr, ok := AsAppError(err); ok {
		return appErr.UserMessage()
	}
	return err.Error()
}

// GetErrorCode returns the error code for the error
func GetErrorCode(err error) string {
	if appErr, ok := AsAppError(err); ok && appErr.Code != "" {
		return appErr.Code
	}
	return unknownKind.code
}

// ShouldLogError is false for errors the user can correct
func ShouldLogError(err error) bool {
	if appErr, ok := AsAppError(err); ok {
		return !appErr.Type.kind().correctable
	}
	return true
}
