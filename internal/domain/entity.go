package domain

import (
	"strings"
	"time"

	"project-tracker/internal/errors"
)

// Params holds the fields a caller may supply when constructing a project or task.
// An empty ID asks the constructor to generate one.
type Params struct {
	ID           string
	Name         string
	Description  string
	StartedAt    *time.Time
	CancelledAt  *time.Time
	FinishedAt   *time.Time
	ForecastedAt *time.Time
}

// Snapshot is the complete persisted state of a project or task.
type Snapshot struct {
	ID           string
	Name         string
	Description  string
	Status       Status
	StartedAt    *time.Time
	CancelledAt  *time.Time
	FinishedAt   *time.Time
	ForecastedAt *time.Time
}

// entity carries the identity, descriptive fields and lifecycle state that
// projects and tasks have in common.
type entity struct {
	id           string
	name         string
	description  string
	status       Status
	startedAt    *time.Time
	cancelledAt  *time.Time
	finishedAt   *time.Time
	forecastedAt *time.Time
}

func newEntity(p Params, ids IDGenerator) (entity, error) {
	id := p.ID
	if id == "" {
		if ids == nil {
			return entity{}, errors.NewValidationError("an id generator is required when no id is supplied", nil)
		}
		id = ids()
		if id == "" {
			return entity{}, errors.NewValidationError("id generator returned an empty id", nil)
		}
	}
	if strings.TrimSpace(p.Name) == "" {
		return entity{}, errors.NewInvalidInputError("name", p.Name, "must not be empty")
	}
	if p.CancelledAt != nil && p.FinishedAt != nil {
		return entity{}, errors.NewInvalidInputError("finished_at", *p.FinishedAt, "cannot be set together with cancelled_at")
	}

	e := entity{
		id:           id,
		name:         p.Name,
		description:  p.Description,
		status:       StatusPending,
		startedAt:    cloneTime(p.StartedAt),
		cancelledAt:  cloneTime(p.CancelledAt),
		finishedAt:   cloneTime(p.FinishedAt),
		forecastedAt: cloneTime(p.ForecastedAt),
	}
	switch {
	case e.finishedAt != nil:
		e.status = StatusCompleted
	case e.cancelledAt != nil:
		e.status = StatusCancelled
	case e.startedAt != nil:
		e.status = StatusActive
	}
	return e, nil
}

func restoreEntity(s Snapshot) (entity, error) {
	if s.ID == "" {
		return entity{}, errors.NewInvalidInputError("id", s.ID, "must not be empty")
	}
	if !s.Status.IsValid() {
		return entity{}, errors.NewInvalidInputError("status", s.Status, "unknown status")
	}
	if err := checkTimestamps(s); err != nil {
		return entity{}, err
	}
	return entity{
		id:           s.ID,
		name:         s.Name,
		description:  s.Description,
		status:       s.Status,
		startedAt:    cloneTime(s.StartedAt),
		cancelledAt:  cloneTime(s.CancelledAt),
		finishedAt:   cloneTime(s.FinishedAt),
		forecastedAt: cloneTime(s.ForecastedAt),
	}, nil
}

// checkTimestamps verifies that the lifecycle timestamps agree with the status.
func checkTimestamps(s Snapshot) error {
	if s.CancelledAt != nil && s.FinishedAt != nil {
		return errors.NewInvalidInputError("finished_at", *s.FinishedAt, "cannot be set together with cancelled_at")
	}
	switch s.Status {
	case StatusPending:
		if s.StartedAt != nil || s.CancelledAt != nil || s.FinishedAt != nil {
			return errors.NewInvalidInputError("status", s.Status, "pending entities carry no lifecycle timestamps")
		}
	case StatusActive:
		if s.StartedAt == nil || s.CancelledAt != nil || s.FinishedAt != nil {
			return errors.NewInvalidInputError("status", s.Status, "active entities need started_at only")
		}
	case StatusCancelled:
		if s.CancelledAt == nil {
			return errors.NewInvalidInputError("status", s.Status, "cancelled entities need cancelled_at")
		}
	case StatusCompleted:
		if s.FinishedAt == nil {
			return errors.NewInvalidInputError("status", s.Status, "completed entities need finished_at")
		}
	}
	return nil
}

// ID returns the immutable identifier.
func (e *entity) ID() string { return e.id }

// Name returns the current name.
func (e *entity) Name() string { return e.name }

// Description returns the current description.
func (e *entity) Description() string { return e.description }

// Status returns the current lifecycle status.
func (e *entity) Status() Status { return e.status }

// StartedAt returns when the entity was started, or nil.
func (e *entity) StartedAt() *time.Time { return cloneTime(e.startedAt) }

// CancelledAt returns when the entity was cancelled, or nil.
func (e *entity) CancelledAt() *time.Time { return cloneTime(e.cancelledAt) }

// FinishedAt returns when the entity was completed, or nil.
func (e *entity) FinishedAt() *time.Time { return cloneTime(e.finishedAt) }

// ForecastedAt returns the forecast completion date, or nil.
func (e *entity) ForecastedAt() *time.Time { return cloneTime(e.forecastedAt) }

// ChangeName replaces the name.
func (e *entity) ChangeName(name string) { e.name = name }

// ChangeDescription replaces the description.
func (e *entity) ChangeDescription(description string) { e.description = description }

// ChangeForecastedDate replaces the forecast date. It has no effect on status.
func (e *entity) ChangeForecastedDate(at time.Time) { e.forecastedAt = &at }

// Snapshot returns the plain field set for persistence.
func (e *entity) Snapshot() Snapshot {
	return Snapshot{
		ID:           e.id,
		Name:         e.name,
		Description:  e.description,
		Status:       e.status,
		StartedAt:    cloneTime(e.startedAt),
		CancelledAt:  cloneTime(e.cancelledAt),
		FinishedAt:   cloneTime(e.finishedAt),
		ForecastedAt: cloneTime(e.forecastedAt),
	}
}

func (e *entity) checkStart(kind string) error {
	switch e.status {
	case StatusActive, StatusCompleted, StatusCancelled:
		return errors.NewInvalidTransitionError(kind, "start", e.status.String()).WithContext("id", e.id)
	}
	return nil
}

// checkClose guards cancel and complete, both of which are refused once the
// entity has reached a terminal status.
func (e *entity) checkClose(kind string, action string) error {
	if e.status.IsTerminal() {
		return errors.NewInvalidTransitionError(kind, action, e.status.String()).WithContext("id", e.id)
	}
	return nil
}

func (e *entity) markStarted(at time.Time) {
	e.startedAt = &at
	e.status = StatusActive
}

func (e *entity) markCancelled(at time.Time) {
	e.cancelledAt = &at
	e.status = StatusCancelled
}

func (e *entity) markCompleted(at time.Time) {
	e.finishedAt = &at
	e.status = StatusCompleted
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	c := *t
	return &c
}
