package domain

import (
	"fmt"
	"slices"
	"time"

	"project-tracker/internal/errors"
)

// Project is the aggregate root. It owns its tasks exclusively, in the order
// they were added, and enforces the rules that span project and tasks.
type Project struct {
	entity
	tasks []*Task
}

// NewProject builds a project from explicit fields, deriving its status the
// same way NewTask does.
func NewProject(p Params, ids IDGenerator) (*Project, error) {
	e, err := newEntity(p, ids)
	if err != nil {
		return nil, err
	}
	return &Project{entity: e}, nil
}

// CreateProject creates a new project. A non-nil startedAt starts the project immediately.
func CreateProject(name, description string, startedAt, forecastedAt *time.Time, ids IDGenerator) (*Project, error) {
	return NewProject(Params{
		Name:         name,
		Description:  description,
		StartedAt:    startedAt,
		ForecastedAt: forecastedAt,
	}, ids)
}

// RestoreProject rebuilds a project and its tasks from persisted state.
// Tasks must be given in their original insertion order.
func RestoreProject(s Snapshot, tasks []*Task) (*Project, error) {
	e, err := restoreEntity(s)
	if err != nil {
		return nil, err
	}

	p := &Project{entity: e, tasks: make([]*Task, 0, len(tasks))}
	for _, task := range tasks {
		if task == nil {
			return nil, errors.NewInvalidInputError("tasks", nil, "must not contain nil tasks")
		}
		if _, exists := p.FindTask(task.ID()); exists {
			return nil, errors.NewInvalidInputError("tasks", task.ID(), "duplicate task id")
		}
		p.tasks = append(p.tasks, task)
	}

	if p.status.IsTerminal() {
		if open := p.OpenTasks(); len(open) > 0 {
			return nil, errors.NewInvalidInputError("status", p.status, fmt.Sprintf("%s project still has %d open tasks", p.status, len(open)))
		}
	}
	return p, nil
}

// Tasks returns the owned tasks in insertion order. The slice is a copy; the
// tasks themselves are shared with the project.
func (p *Project) Tasks() []*Task {
	return slices.Clone(p.tasks)
}

// FindTask looks up an owned task by ID.
func (p *Project) FindTask(id string) (*Task, bool) {
	for _, task := range p.tasks {
		if task.id == id {
			return task, true
		}
	}
	return nil, false
}

// OpenTasks returns the owned tasks that are still pending or active.
func (p *Project) OpenTasks() []*Task {
	var open []*Task
	for _, task := range p.tasks {
		if task.status.IsOpen() {
			open = append(open, task)
		}
	}
	return open
}

// Start moves a pending project to active. Owned tasks are not affected.
func (p *Project) Start(at time.Time) error {
	if err := p.checkStart(entityProject); err != nil {
		return err
	}
	p.markStarted(at)
	return nil
}

// Cancel moves a pending or active project to cancelled and cancels every
// owned task that is still open. Tasks already cancelled or completed keep
// their status and timestamps.
func (p *Project) Cancel(at time.Time) error {
	if err := p.checkClose(entityProject, "cancel"); err != nil {
		return err
	}
	for _, task := range p.tasks {
		if task.status.IsTerminal() {
			continue
		}
		if err := task.Cancel(at); err != nil {
			return err
		}
	}
	p.markCancelled(at)
	return nil
}

// Complete moves a pending or active project to completed. It fails without
// changing anything while any owned task is pending or active.
func (p *Project) Complete(at time.Time) error {
	if err := p.checkClose(entityProject, "complete"); err != nil {
		return err
	}
	if open := p.OpenTasks(); len(open) > 0 {
		return errors.NewIncompleteTasksError(p.id, len(open))
	}
	p.markCompleted(at)
	return nil
}

// AddTask attaches a task to the project. The project status is left as is.
func (p *Project) AddTask(task *Task) error {
	if task == nil {
		return errors.NewInvalidInputError("task", nil, "must not be nil")
	}
	if p.status.IsTerminal() {
		return errors.NewInvalidOperationError(CodeProjectClosed, fmt.Sprintf("cannot add task to %s project", p.status)).
			WithContext("project_id", p.id).
			WithContext("task_id", task.id)
	}
	if task.startedAt != nil && p.startedAt != nil && task.startedAt.Before(*p.startedAt) {
		return errors.NewInvalidOperationError(CodeTaskStartsBeforeProject, "cannot add task to project before project started").
			WithContext("project_id", p.id).
			WithContext("task_id", task.id)
	}
	if _, exists := p.FindTask(task.id); exists {
		return errors.NewInvalidOperationError(CodeDuplicateTask, fmt.Sprintf("task %s already belongs to project", task.id)).
			WithContext("project_id", p.id).
			WithContext("task_id", task.id)
	}
	p.tasks = append(p.tasks, task)
	return nil
}

// String returns the project name for display purposes.
func (p *Project) String() string {
	return p.name
}
