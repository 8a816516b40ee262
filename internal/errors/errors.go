package errors

import (
	"errors"
	"fmt"
)

// Sentinels for errors.Is checks. Only Type and Code take part in matching.
var (
	ErrInvalidOdometer  = &AppError{Type: ErrorTypeInvalidOdometer, Code: "INVALID_ODOMETER"}
	ErrEndBeforeStart   = &AppError{Type: ErrorTypeEndBeforeStart, Code: "END_BEFORE_START"}
	ErrTripNotFound     = &AppError{Type: ErrorTypeTripNotFound, Code: "TRIP_NOT_FOUND"}
	ErrNoActiveTrip     = &AppError{Type: ErrorTypeNoActiveTrip, Code: "NO_ACTIVE_TRIP"}
	ErrActiveTripExists = &AppError{Type: ErrorTypeActiveTripExists, Code: "ACTIVE_TRIP_EXISTS"}
	ErrInvalidInput     = &AppError{Type: ErrorTypeInvalidInput, Code: "INVALID_INPUT"}
	ErrStorage          = &AppError{Type: ErrorTypeStorage, Code: "STORAGE_ERROR"}
)

// NewInvalidOdometerError creates an error for a negative or non-numeric odometer reading
func NewInvalidOdometerError(field string, value interface{}) *AppError {
	return &AppError{
		Type:    ErrorTypeInvalidOdometer,
		Message: fmt.Sprintf("invalid odometer reading for %s: must be a non-negative whole number", field),
		Code:    "INVALID_ODOMETER",
		Context: map[string]interface{}{
			"field": field,
			"value": value,
		},
	}
}

// NewEndBeforeStartError creates an error for an end reading that does not exceed the start reading
func NewEndBeforeStartError(startKm, endKm int) *AppError {
	return &AppError{
		Type:    ErrorTypeEndBeforeStart,
		Message: fmt.Sprintf("end reading %d km must be greater than start reading %d km", endKm, startKm),
		Code:    "END_BEFORE_START",
		Context: map[string]interface{}{
			"start_km": startKm,
			"end_km":   endKm,
		},
	}
}

// NewTripNotFoundError creates a new not found error for a trip id
func NewTripNotFoundError(id int64) *AppError {
	return &AppError{
		Type:    ErrorTypeTripNotFound,
		Message: fmt.Sprintf("trip not found: %d", id),
		Code:    "TRIP_NOT_FOUND",
		Context: map[string]interface{}{
			"identifier": id,
		},
	}
}

// NewNoActiveTripError creates an error for ending or cancelling when no trip is open
func NewNoActiveTripError(operation string) *AppError {
	return &AppError{
		Type:    ErrorTypeNoActiveTrip,
		Message: fmt.Sprintf("cannot %s: no trip is in progress", operation),
		Code:    "NO_ACTIVE_TRIP",
		Context: map[string]interface{}{
			"operation": operation,
		},
	}
}

// NewActiveTripExistsError creates an error for starting a trip while another is open
func NewActiveTripExistsError(startKm int) *AppError {
	return &AppError{
		Type:    ErrorTypeActiveTripExists,
		Message: fmt.Sprintf("a trip started at %d km is already in progress", startKm),
		Code:    "ACTIVE_TRIP_EXISTS",
		Context: map[string]interface{}{
			"start_km": startKm,
		},
	}
}

// NewInvalidInputError creates a new invalid input error
func NewInvalidInputError(field string, value interface{}, reason string) *AppError {
	return &AppError{
		Type:    ErrorTypeInvalidInput,
		Message: fmt.Sprintf("invalid input for %s: %s", field, reason),
		Code:    "INVALID_INPUT",
		Context: map[string]interface{}{
			"field":  field,
			"value":  value,
			"reason": reason,
		},
	}
}

// NewStorageError creates a new storage error
func NewStorageError(operation string, cause error) *AppError {
	return &AppError{
		Type:    ErrorTypeStorage,
		Message: fmt.Sprintf("storage operation failed: %s", operation),
		Code:    "STORAGE_ERROR",
		Cause:   cause,
		Context: map[string]interface{}{
			"operation": operation,
		},
	}
}

// IsAppError checks if the error is an AppError
func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

// AsAppError converts an error to an AppError if possible
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// IsErrorType checks if the error is of the specified type
func IsErrorType(err error, errorType ErrorType) bool {
	if appErr, ok := AsAppError(err); ok {
		return appErr.IsType(errorType)
	}
	return false
}

// GetUserMessage returns a user-friendly error message
func GetUserMessage(err error) string {
	if appErr, ok := AsAppError(err); ok {
		switch appErr.Type {
		case ErrorTypeStorage:
			return "The logbook could not be read or written. Please try again."
		default:
			return appErr.Message
		}
	}
	return err.Error()
}

// GetErrorCode returns the error code for the error
func GetErrorCode(err error) string {
	if appErr, ok := AsAppError(err); ok {
		return appErr.Code
	}
	return "UNKNOWN_ERROR"
}

// ShouldLogError determines if an error should be logged based on its type
func ShouldLogError(err error) bool {
	if appErr, ok := AsAppError(err); ok {
		return appErr.Type == ErrorTypeStorage
	}
	return true
}
