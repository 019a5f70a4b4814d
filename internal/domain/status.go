package domain

import (
	"strings"

	"project-tracker/internal/errors"
)

// Status represents the lifecycle state shared by projects and tasks.
type Status string

const (
	StatusPending   Status = "pending"
	StatusActive    Status = "active"
	StatusCancelled Status = "cancelled"
	StatusCompleted Status = "completed"
)

// Statuses returns every valid status in lifecycle order.
func Statuses() []Status {
	return []Status{StatusPending, StatusActive, StatusCancelled, StatusCompleted}
}

// IsValid returns true if the status is a known value.
func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusActive, StatusCancelled, StatusCompleted:
		return true
	default:
		return false
	}
}

// IsTerminal returns true for statuses that permit no further transitions.
func (s Status) IsTerminal() bool {
	return s == StatusCancelled || s == StatusCompleted
}

// IsOpen returns true while work may still happen: pending or active.
func (s Status) IsOpen() bool {
	return s == StatusPending || s == StatusActive
}

func (s Status) String() string {
	return string(s)
}

// ParseStatus parses a case-insensitive status name.
func ParseStatus(s string) (Status, error) {
	status := Status(strings.ToLower(strings.TrimSpace(s)))
	if !status.IsValid() {
		return "", errors.NewInvalidInputError("status", s, "must be one of pending, active, cancelled, completed")
	}
	return status, nil
}
