package errors

import (
	"errors"
	"fmt"
	"strings"
)

// NewValidationError creates a new validation error
func NewValidationError(message string, cause error) *AppError {
	return &AppError{
		Type:    ErrorTypeValidation,
		Message: message,
		Code:    "VALIDATION_FAILED",
		Cause:   cause,
		Context: make(map[string]interface{}),
	}
}

// NewNotFoundError creates a new not found error
func NewNotFoundError(resource string, identifier string) *AppError {
	return &AppError{
		Type:    ErrorTypeNotFound,
		Message: fmt.Sprintf("%s not found: %s", resource, identifier),
		Code:    "NOT_FOUND",
		Context: map[string]interface{}{
			"resource":   resource,
			"identifier": identifier,
		},
	}
}

// NewDatabaseError creates a new database error
func NewDatabaseError(operation string, cause error) *AppError {
	return &AppError{
		Type:    ErrorTypeDatabase,
		Message: fmt.Sprintf("database operation failed: %s", operation),
		Code:    "DATABASE_ERROR",
		Cause:   cause,
		Context: map[string]interface{}{
			"operation": operation,
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

// NewTimeoutError creates a new timeout error. A nil timeout means the limit
// is unknown and is left out of the context.
func NewTimeoutError(operation string, timeout interface{}) *AppError {
	err := &AppError{
		Type:    ErrorTypeTimeout,
		Message: fmt.Sprintf("operation timed out: %s", operation),
		Code:    "TIMEOUT",
		Context: map[string]interface{}{
			"operation": operation,
		},
	}
	if timeout != nil {
		err.Context["timeout"] = timeout
	}
	return err
}

// NewInvalidTransitionError creates an error for a status change attempted from
// a status that forbids it. The code identifies the blocking status so callers
// can tell "already cancelled" apart from "already completed".
func NewInvalidTransitionError(entity string, action string, status string) *AppError {
	return &AppError{
		Type:    ErrorTypeInvalidTransition,
		Message: fmt.Sprintf("cannot %s %s %s", action, status, entity),
		Code:    TransitionCode(status),
		Context: map[string]interface{}{
			"entity": entity,
			"action": action,
			"status": status,
		},
	}
}

// TransitionCode returns the error code used for transitions blocked by status.
func TransitionCode(status string) string {
	return "ALREADY_" + strings.ToUpper(status)
}

// NewIncompleteTasksError creates an error for a project completion blocked by
// tasks that are still pending or active.
func NewIncompleteTasksError(projectID string, openTasks int) *AppError {
	return &AppError{
		Type:    ErrorTypeIncompleteTasks,
		Message: "cannot complete project with pending or active tasks",
		Code:    "INCOMPLETE_TASKS",
		Context: map[string]interface{}{
			"project_id": projectID,
			"open_tasks": openTasks,
		},
	}
}

// NewInvalidOperationError creates an error for a structural rule violation,
// such as attaching a task to a closed project.
func NewInvalidOperationError(code string, message string) *AppError {
	return &AppError{
		Type:    ErrorTypeInvalidOperation,
		Message: message,
		Code:    code,
		Context: make(map[string]interface{}),
	}
}

// WrapError wraps an existing error with additional context
func WrapError(err error, errorType ErrorType, message string) *AppError {
	return &AppError{
		Type:    errorType,
		Message: message,
		Code:    errorType.String(),
		Cause:   err,
		Context: make(map[string]interface{}),
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
		case ErrorTypeValidation:
			return appErr.Message
		case ErrorTypeNotFound:
			return appErr.Message
		case ErrorTypeInvalidInput:
			return appErr.Message
		case ErrorTypeDatabase:
			return "A database error occurred. Please try again."
		case ErrorTypeTimeout:
			return "The operation timed out. Please try again."
		default:
			if appErr.Type.IsBusinessRule() {
				return appErr.Message
			}
			return "An unexpected error occurred. Please try again."
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
		if appErr.Type.IsBusinessRule() {
			return false
		}
		switch appErr.Type {
		case ErrorTypeValidation, ErrorTypeNotFound, ErrorTypeInvalidInput:
			return false // These are user errors, not system errors
		default:
			return true // Database, timeout and unknown errors are system errors
		}
	}
	return true // Unknown errors should be logged
}