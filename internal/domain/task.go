package domain

import (
	"time"
)

// Task is a unit of work owned by exactly one Project.
// It holds no reference back to its project; ownership lives on the Project.
type Task struct {
	entity
}

// NewTask builds a task from explicit fields. The status follows from the
// timestamps supplied: finished means completed, cancelled means cancelled,
// started means active, and none of them means pending.
func NewTask(p Params, ids IDGenerator) (*Task, error) {
	e, err := newEntity(p, ids)
	if err != nil {
		return nil, err
	}
	return &Task{entity: e}, nil
}

// CreateTask creates a new task. A non-nil startedAt starts the task immediately.
func CreateTask(name, description string, startedAt, forecastedAt *time.Time, ids IDGenerator) (*Task, error) {
	return NewTask(Params{
		Name:         name,
		Description:  description,
		StartedAt:    startedAt,
		ForecastedAt: forecastedAt,
	}, ids)
}

// RestoreTask rebuilds a task from persisted state.
func RestoreTask(s Snapshot) (*Task, error) {
	e, err := restoreEntity(s)
	if err != nil {
		return nil, err
	}
	return &Task{entity: e}, nil
}

// Start moves a pending task to active.
func (t *Task) Start(at time.Time) error {
	if err := t.checkStart(entityTask); err != nil {
		return err
	}
	t.markStarted(at)
	return nil
}

// Cancel moves a pending or active task to cancelled.
func (t *Task) Cancel(at time.Time) error {
	if err := t.checkClose(entityTask, "cancel"); err != nil {
		return err
	}
	t.markCancelled(at)
	return nil
}

// Complete moves a pending or active task to completed. Starting first is not required.
func (t *Task) Complete(at time.Time) error {
	if err := t.checkClose(entityTask, "complete"); err != nil {
		return err
	}
	t.markCompleted(at)
	return nil
}

// String returns the task name for display purposes.
func (t *Task) String() string {
	return t.name
}
