package services

import (
	"context"
	"time"

	"project-tracker/internal/domain"
)

// CreateProjectInput holds the fields accepted when creating a project.
// A non-nil StartedAt creates the project already active.
type CreateProjectInput struct {
	Name         string     `json:"name"`
	Description  string     `json:"description"`
	StartedAt    *time.Time `json:"started_at,omitempty"`
	ForecastedAt *time.Time `json:"forecasted_at,omitempty"`
}

// AddTaskInput holds the fields accepted when adding a task to a project
type AddTaskInput struct {
	ProjectID    string     `json:"project_id"`
	Name         string     `json:"name"`
	Description  string     `json:"description"`
	StartedAt    *time.Time `json:"started_at,omitempty"`
	ForecastedAt *time.Time `json:"forecasted_at,omitempty"`
}

// UpdateInput lists the descriptive fields to change. Nil fields are left as they are.
type UpdateInput struct {
	Name         *string    `json:"name,omitempty"`
	Description  *string    `json:"description,omitempty"`
	ForecastedAt *time.Time `json:"forecasted_at,omitempty"`
}

// IsEmpty reports whether the input changes nothing
func (u UpdateInput) IsEmpty() bool {
	return u.Name == nil && u.Description == nil && u.ForecastedAt == nil
}

// ProjectSummary represents the progress of a project and its tasks
type ProjectSummary struct {
	Project      *domain.Project       `json:"project"`
	TaskCounts   map[domain.Status]int `json:"task_counts"`
	TotalTasks   int                   `json:"total_tasks"`
	OpenTasks    int                   `json:"open_tasks"`
	Progress     float64               `json:"progress"` // completed share of non-cancelled tasks, 0 to 1
	Overdue      bool                  `json:"overdue"`
	OverdueTasks int                   `json:"overdue_tasks"`
}

// Clock returns the current time
type Clock func() time.Time

// TimeService handles clock access and timestamp parsing
type TimeService interface {
	Now() time.Time

	// ParseTimestamp accepts "now", RFC 3339, "2006-01-02 15:04", "2006-01-02"
	// and relative shorthand in the past such as "30m", "2h", "1d" or "1w".
	ParseTimestamp(value string) (time.Time, error)
	ParseOptionalTimestamp(value string) (*time.Time, error)
}

// ProjectService handles the project and task lifecycle. Each mutation loads
// the project, applies one change and saves the result.
type ProjectService interface {
	// Project operations
	CreateProject(ctx context.Context, input CreateProjectInput) (*domain.Project, error)
	GetProject(ctx context.Context, id string) (*domain.Project, error)
	ListProjects(ctx context.Context, opts domain.SearchOptions) ([]*domain.Project, error)
	UpdateProject(ctx context.Context, id string, input UpdateInput) (*domain.Project, error)
	StartProject(ctx context.Context, id string, at time.Time) (*domain.Project, error)
	CancelProject(ctx context.Context, id string, at time.Time) (*domain.Project, error)
	CompleteProject(ctx context.Context, id string, at time.Time) (*domain.Project, error)
	DeleteProject(ctx context.Context, id string) error

	// Task operations
	AddTask(ctx context.Context, input AddTaskInput) (*domain.Task, error)
	StartTask(ctx context.Context, projectID string, taskID string, at time.Time) (*domain.Task, error)
	CancelTask(ctx context.Context, projectID string, taskID string, at time.Time) (*domain.Task, error)
	CompleteTask(ctx context.Context, projectID string, taskID string, at time.Time) (*domain.Task, error)
	UpdateTask(ctx context.Context, projectID string, taskID string, input UpdateInput) (*domain.Task, error)
}

// ReportingService handles progress reporting
type ReportingService interface {
	GetProjectSummary(ctx context.Context, id string) (*ProjectSummary, error)
	SummarizeProject(project *domain.Project) *ProjectSummary
}

// ServiceContainer manages all services and their dependencies
type ServiceContainer struct {
	TimeService      TimeService
	ProjectService   ProjectService
	ReportingService ReportingService
}
