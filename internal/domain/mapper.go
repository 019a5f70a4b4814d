package domain

import (
	"fmt"

	"project-tracker/internal/repository/sqlite"
)

// TaskMapper handles conversion between domain and database Task models.
type TaskMapper struct{}

// NewTaskMapper creates a new TaskMapper instance.
func NewTaskMapper() *TaskMapper {
	return &TaskMapper{}
}

// ToDatabase converts a domain Task to a database Task. Ownership columns are
// filled in when the task is saved with its project.
func (m *TaskMapper) ToDatabase(task *Task) *sqlite.Task {
	s := task.Snapshot()
	return &sqlite.Task{
		ID:           s.ID,
		Name:         s.Name,
		Description:  s.Description,
		Status:       s.Status.String(),
		StartedAt:    s.StartedAt,
		CancelledAt:  s.CancelledAt,
		FinishedAt:   s.FinishedAt,
		ForecastedAt: s.ForecastedAt,
	}
}

// FromDatabase converts a database Task to a domain Task.
func (m *TaskMapper) FromDatabase(dbTask *sqlite.Task) (*Task, error) {
	task, err := RestoreTask(Snapshot{
		ID:           dbTask.ID,
		Name:         dbTask.Name,
		Description:  dbTask.Description,
		Status:       Status(dbTask.Status),
		StartedAt:    dbTask.StartedAt,
		CancelledAt:  dbTask.CancelledAt,
		FinishedAt:   dbTask.FinishedAt,
		ForecastedAt: dbTask.ForecastedAt,
	})
	if err != nil {
		return nil, fmt.Errorf("restore task %s: %w", dbTask.ID, err)
	}
	return task, nil
}

// ToDatabaseSlice converts a slice of domain Tasks to database Tasks.
func (m *TaskMapper) ToDatabaseSlice(tasks []*Task) []*sqlite.Task {
	dbTasks := make([]*sqlite.Task, len(tasks))
	for i, task := range tasks {
		dbTasks[i] = m.ToDatabase(task)
	}
	return dbTasks
}

// FromDatabaseSlice converts a slice of database Tasks to domain Tasks.
func (m *TaskMapper) FromDatabaseSlice(dbTasks []*sqlite.Task) ([]*Task, error) {
	tasks := make([]*Task, len(dbTasks))
	for i, dbTask := range dbTasks {
		task, err := m.FromDatabase(dbTask)
		if err != nil {
			return nil, err
		}
		tasks[i] = task
	}
	return tasks, nil
}

// ProjectMapper handles conversion between the Project aggregate and its rows.
type ProjectMapper struct {
	tasks *TaskMapper
}

// NewProjectMapper creates a new ProjectMapper instance.
func NewProjectMapper(tasks *TaskMapper) *ProjectMapper {
	return &ProjectMapper{tasks: tasks}
}

// ToDatabase converts a project and its owned tasks to database rows. Tasks
// are returned in ownership order.
func (m *ProjectMapper) ToDatabase(project *Project) (*sqlite.Project, []*sqlite.Task) {
	s := project.Snapshot()
	dbProject := &sqlite.Project{
		ID:           s.ID,
		Name:         s.Name,
		Description:  s.Description,
		Status:       s.Status.String(),
		StartedAt:    s.StartedAt,
		CancelledAt:  s.CancelledAt,
		FinishedAt:   s.FinishedAt,
		ForecastedAt: s.ForecastedAt,
	}

	dbTasks := m.tasks.ToDatabaseSlice(project.Tasks())
	for i, t := range dbTasks {
		t.ProjectID = s.ID
		t.Position = i
	}
	return dbProject, dbTasks
}

// FromDatabase rebuilds a project from its row and task rows. The task rows
// must already be ordered by position.
func (m *ProjectMapper) FromDatabase(dbProject *sqlite.Project, dbTasks []*sqlite.Task) (*Project, error) {
	tasks, err := m.tasks.FromDatabaseSlice(dbTasks)
	if err != nil {
		return nil, err
	}

	project, err := RestoreProject(Snapshot{
		ID:           dbProject.ID,
		Name:         dbProject.Name,
		Description:  dbProject.Description,
		Status:       Status(dbProject.Status),
		StartedAt:    dbProject.StartedAt,
		CancelledAt:  dbProject.CancelledAt,
		FinishedAt:   dbProject.FinishedAt,
		ForecastedAt: dbProject.ForecastedAt,
	}, tasks)
	if err != nil {
		return nil, fmt.Errorf("restore project %s: %w", dbProject.ID, err)
	}
	return project, nil
}

// SearchOptionsMapper handles conversion between domain and database SearchOptions.
type SearchOptionsMapper struct{}

// NewSearchOptionsMapper creates a new SearchOptionsMapper instance.
func NewSearchOptionsMapper() *SearchOptionsMapper {
	return &SearchOptionsMapper{}
}

// ToDatabase converts domain SearchOptions to database SearchOptions.
func (m *SearchOptionsMapper) ToDatabase(opts SearchOptions) sqlite.SearchOptions {
	var dbOpts sqlite.SearchOptions
	if opts.Status != nil {
		status := opts.Status.String()
		dbOpts.Status = &status
	}
	dbOpts.NameContains = opts.NameContains
	return dbOpts
}

// Mapper provides a unified interface for all mapping operations.
type Mapper struct {
	Task          *TaskMapper
	Project       *ProjectMapper
	SearchOptions *SearchOptionsMapper
}

// NewMapper creates a new Mapper instance with all sub-mappers.
func NewMapper() *Mapper {
	tasks := NewTaskMapper()
	return &Mapper{
		Task:          tasks,
		Project:       NewProjectMapper(tasks),
		SearchOptions: NewSearchOptionsMapper(),
	}
}
