package cli

import (
	"fmt"

	"mileage-logbook/internal/errors"
	"mileage-logbook/internal/validation"
)

// CommandError is the error a command hands back to the user: a readable
// message with the original cause kept for errors.Is and errors.As.
type CommandError struct {
	Operation string
	Message   string
	Err       error
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("failed to %s: %s", e.Operation, e.Message)
}

func (e *CommandError) Unwrap() error {
	return e.Err
}

// ErrorHandler provides centralized error handling for command handlers
type ErrorHandler struct{}

// NewErrorHandler creates a new error handler
func NewErrorHandler() *ErrorHandler {
	return &ErrorHandler{}
}

// Handle provides user-friendly error messages for validation and other errors
func (eh *ErrorHandler) Handle(operation string, err error) error {
	if err == nil {
		return nil
	}

	if validationErr, ok := err.(*validation.ValidationError); ok {
		return &CommandError{Operation: operation, Message: validationErr.GetUserFriendlyMessage(), Err: err}
	}

	if _, ok := errors.AsAppError(err); ok {
		return &CommandError{Operation: operation, Message: errors.GetUserMessage(err), Err: err}
	}

	return &CommandError{Operation: operation, Message: err.Error(), Err: err}
}
