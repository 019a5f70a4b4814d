package domain

import (
	"project-tracker/internal/errors"
)

// Error codes for structural rule violations.
const (
	CodeProjectClosed           = "PROJECT_CLOSED"
	CodeTaskStartsBeforeProject = "TASK_STARTS_BEFORE_PROJECT"
	CodeDuplicateTask           = "DUPLICATE_TASK"
)

const (
	entityTask    = "task"
	entityProject = "project"
)

// Sentinel errors for use with errors.Is. Matching compares the error type and
// code, so a transition error matches the sentinel of the status that blocked it.
var (
	ErrAlreadyActive    = transitionSentinel(StatusActive)
	ErrAlreadyCompleted = transitionSentinel(StatusCompleted)
	ErrAlreadyCancelled = transitionSentinel(StatusCancelled)

	ErrIncompleteTasks = &errors.AppError{
		Type:    errors.ErrorTypeIncompleteTasks,
		Code:    "INCOMPLETE_TASKS",
		Message: "project has pending or active tasks",
	}

	ErrProjectClosed = &errors.AppError{
		Type:    errors.ErrorTypeInvalidOperation,
		Code:    CodeProjectClosed,
		Message: "project is closed",
	}
	ErrTaskStartsBeforeProject = &errors.AppError{
		Type:    errors.ErrorTypeInvalidOperation,
		Code:    CodeTaskStartsBeforeProject,
		Message: "task started before its project",
	}
	ErrDuplicateTask = &errors.AppError{
		Type:    errors.ErrorTypeInvalidOperation,
		Code:    CodeDuplicateTask,
		Message: "task already belongs to the project",
	}
)

func transitionSentinel(status Status) *errors.AppError {
	return &errors.AppError{
		Type:    errors.ErrorTypeInvalidTransition,
		Code:    errors.TransitionCode(status.String()),
		Message: "already " + status.String(),
	}
}
