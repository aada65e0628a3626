package cli

import (
	"errors"
	"fmt"

	"timesheet/internal/config"
	apperrors "timesheet/internal/errors"
	"timesheet/internal/logging"
	"timesheet/internal/validation"
)

// Exit codes returned by the ts binary
const (
	ExitOK          = 0
	ExitFailure     = 1
	ExitUsage       = 2
	ExitConfig      = 3
	ExitUnavailable = 4
)

// ErrorHandler provides centralized error handling for command handlers
type ErrorHandler struct{}

// NewErrorHandler creates a new error handler
func NewErrorHandler() *ErrorHandler {
	return &ErrorHandler{}
}

// Handle wraps err with the operation and a user-facing message. The
// original error stays reachable through errors.As.
func (eh *ErrorHandler) Handle(operation string, err error) error {
	if err == nil {
		return nil
	}
	if apperrors.ShouldLogError(err) {
		logging.Debugf("%s: %v", operation, err)
	}
	return &commandError{operation: operation, message: eh.message(err), cause: err}
}

// HandleSimple returns the user-facing message without operation context
func (eh *ErrorHandler) HandleSimple(err error) error {
	if err == nil {
		return nil
	}
	return &commandError{message: eh.message(err), cause: err}
}

func (eh *ErrorHandler) message(err error) string {
	if ve, ok := validation.AsValidationError(err); ok {
		return ve.GetUserFriendlyMessage()
	}
	if _, ok := apperrors.AsAppError(err); ok {
		return apperrors.GetUserMessage(err)
	}
	return err.Error()
}

// IsValidationError checks if an error is a validation error
func (eh *ErrorHandler) IsValidationError(err error) bool {
	return validation.IsValidationError(err) || apperrors.IsErrorType(err, apperrors.ErrorTypeValidation)
}

// IsNotFoundError checks if an error is a not found error
func (eh *ErrorHandler) IsNotFoundError(err error) bool {
	return apperrors.IsErrorType(err, apperrors.ErrorTypeNotFound)
}

// IsConfigurationError checks if an error comes from settings or config
func (eh *ErrorHandler) IsConfigurationError(err error) bool {
	if apperrors.IsErrorType(err, apperrors.ErrorTypeConfiguration) {
		return true
	}
	var cfgErr *config.ConfigError
	return errors.As(err, &cfgErr)
}

// ExitCode maps an error to the process exit status
func (eh *ErrorHandler) ExitCode(err error) int {
	switch {
	case err == nil:
		return ExitOK
	case eh.IsConfigurationError(err):
		return ExitConfig
	case eh.IsValidationError(err), apperrors.IsErrorType(err, apperrors.ErrorTypeInvalidInput):
		return ExitUsage
	case apperrors.IsRetryable(err):
		return ExitUnavailable
	default:
		return ExitFailure
	}
}

// GetErrorCode returns the error code for structured errors
func (eh *ErrorHandler) GetErrorCode(err error) string {
	return apperrors.GetErrorCode(err)
}

// commandError is what command handlers return to cobra
type commandError struct {
	operation string
	message   string
	cause     error
}

func (e *commandError) Error() string {
	if e.operation == "" {
		return e.message
	}
	return fmt.Sprintf("failed to %s: %s", e.operation, e.message)
}

func (e *commandError) Unwrap() error {
	return e.cause
}
