package services

import (
	"context"
	stderrors "errors"
	"time"

	"project-tracker/internal/config"
	"project-tracker/internal/domain"
	"project-tracker/internal/errors"
	"project-tracker/internal/logging"
	"project-tracker/internal/repository/sqlite"
	"project-tracker/internal/validation"
)

const (
	kindProject = "project"
	kindTask    = "task"
)

// projectServiceImpl implements the ProjectService interface
type projectServiceImpl struct {
	repo      sqlite.Repository
	mapper    *domain.Mapper
	validator *validation.EntityValidator
	ids       domain.IDGenerator
}

// NewProjectService creates a new ProjectService instance. A nil ids
// generator uses random UUIDs, and a nil cfg uses the default limits.
func NewProjectService(repo sqlite.Repository, cfg *config.Config, ids domain.IDGenerator) ProjectService {
	if ids == nil {
		ids = domain.NewUUID
	}
	return &projectServiceImpl{
		repo:      repo,
		mapper:    domain.NewMapper(),
		validator: validation.NewEntityValidator(cfg),
		ids:       ids,
	}
}

// CreateProject creates a project, active when input.StartedAt is set and pending otherwise
func (s *projectServiceImpl) CreateProject(ctx context.Context, input CreateProjectInput) (*domain.Project, error) {
	if err := s.validator.ValidateForCreation(kindProject, input.Name, input.Description); err != nil {
		return nil, toAppError(err)
	}

	name, _ := s.validator.GetValidName(kindProject, input.Name)
	project, err := domain.CreateProject(name, input.Description, input.StartedAt, input.ForecastedAt, s.ids)
	if err != nil {
		return nil, err
	}

	if err := s.save(ctx, project); err != nil {
		return nil, err
	}
	logging.Debugf("project %s: created (%s)\n", project.ID(), project.Status())
	return project, nil
}

// GetProject retrieves a project with its tasks
func (s *projectServiceImpl) GetProject(ctx context.Context, id string) (*domain.Project, error) {
	if err := s.validator.ValidateID(kindProject, id); err != nil {
		return nil, toAppError(err)
	}
	return s.load(ctx, id)
}

// ListProjects retrieves the projects matching opts, each with its tasks
func (s *projectServiceImpl) ListProjects(ctx context.Context, opts domain.SearchOptions) ([]*domain.Project, error) {
	dbProjects, err := s.repo.ListProjects(ctx, s.mapper.SearchOptions.ToDatabase(opts))
	if err != nil {
		return nil, err
	}

	projects := make([]*domain.Project, 0, len(dbProjects))
	for _, dbProject := range dbProjects {
		dbTasks, err := s.repo.ListTasks(ctx, dbProject.ID)
		if err != nil {
			return nil, err
		}
		project, err := s.mapper.Project.FromDatabase(dbProject, dbTasks)
		if err != nil {
			return nil, errors.WrapError(err, errors.ErrorTypeDatabase, "stored project is inconsistent")
		}
		projects = append(projects, project)
	}
	return projects, nil
}

// UpdateProject changes the name, description or forecast of a project
func (s *projectServiceImpl) UpdateProject(ctx context.Context, id string, input UpdateInput) (*domain.Project, error) {
	name, err := s.validateUpdate(kindProject, input)
	if err != nil {
		return nil, err
	}

	return s.mutate(ctx, id, "updated", func(project *domain.Project) error {
		applyUpdate(project, name, input)
		return nil
	})
}

// StartProject moves a pending project to active
func (s *projectServiceImpl) StartProject(ctx context.Context, id string, at time.Time) (*domain.Project, error) {
	return s.mutate(ctx, id, "started", func(project *domain.Project) error {
		return project.Start(at)
	})
}

// CancelProject cancels a project and its open tasks
func (s *projectServiceImpl) CancelProject(ctx context.Context, id string, at time.Time) (*domain.Project, error) {
	return s.mutate(ctx, id, "cancelled", func(project *domain.Project) error {
		return project.Cancel(at)
	})
}

// CompleteProject completes a project once none of its tasks are open
func (s *projectServiceImpl) CompleteProject(ctx context.Context, id string, at time.Time) (*domain.Project, error) {
	return s.mutate(ctx, id, "completed", func(project *domain.Project) error {
		return project.Complete(at)
	})
}

// DeleteProject removes a project and its tasks
func (s *projectServiceImpl) DeleteProject(ctx context.Context, id string) error {
	if err := s.validator.ValidateID(kindProject, id); err != nil {
		return toAppError(err)
	}
	if err := s.repo.DeleteProject(ctx, id); err != nil {
		return err
	}
	logging.Debugf("project %s: deleted\n", id)
	return nil
}

// AddTask creates a task and attaches it to an existing project
func (s *projectServiceImpl) AddTask(ctx context.Context, input AddTaskInput) (*domain.Task, error) {
	if err := s.validator.ValidateForCreation(kindTask, input.Name, input.Description); err != nil {
		return nil, toAppError(err)
	}
	name, _ := s.validator.GetValidName(kindTask, input.Name)

	var task *domain.Task
	_, err := s.mutate(ctx, input.ProjectID, "task added", func(project *domain.Project) error {
		var err error
		task, err = domain.CreateTask(name, input.Description, input.StartedAt, input.ForecastedAt, s.ids)
		if err != nil {
			return err
		}
		return project.AddTask(task)
	})
	if err != nil {
		return nil, err
	}
	return task, nil
}

// StartTask moves a pending task to active
func (s *projectServiceImpl) StartTask(ctx context.Context, projectID string, taskID string, at time.Time) (*domain.Task, error) {
	return s.mutateTask(ctx, projectID, taskID, "started", func(task *domain.Task) error {
		return task.Start(at)
	})
}

// CancelTask moves a pending or active task to cancelled
func (s *projectServiceImpl) CancelTask(ctx context.Context, projectID string, taskID string, at time.Time) (*domain.Task, error) {
	return s.mutateTask(ctx, projectID, taskID, "cancelled", func(task *domain.Task) error {
		return task.Cancel(at)
	})
}

// CompleteTask moves a pending or active task to completed
func (s *projectServiceImpl) CompleteTask(ctx context.Context, projectID string, taskID string, at time.Time) (*domain.Task, error) {
	return s.mutateTask(ctx, projectID, taskID, "completed", func(task *domain.Task) error {
		return task.Complete(at)
	})
}

// UpdateTask changes the name, description or forecast of a task
func (s *projectServiceImpl) UpdateTask(ctx context.Context, projectID string, taskID string, input UpdateInput) (*domain.Task, error) {
	name, err := s.validateUpdate(kindTask, input)
	if err != nil {
		return nil, err
	}

	return s.mutateTask(ctx, projectID, taskID, "updated", func(task *domain.Task) error {
		applyUpdate(task, name, input)
		return nil
	})
}

// mutate loads a project, applies fn and saves the result. Nothing is saved when fn fails.
func (s *projectServiceImpl) mutate(ctx context.Context, id string, action string, fn func(*domain.Project) error) (*domain.Project, error) {
	if err := s.validator.ValidateID(kindProject, id); err != nil {
		return nil, toAppError(err)
	}

	project, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := fn(project); err != nil {
		return nil, err
	}
	if err := s.save(ctx, project); err != nil {
		return nil, err
	}

	logging.Debugf("project %s: %s\n", id, action)
	return project, nil
}

func (s *projectServiceImpl) mutateTask(ctx context.Context, projectID string, taskID string, action string, fn func(*domain.Task) error) (*domain.Task, error) {
	if err := s.validator.ValidateID(kindTask, taskID); err != nil {
		return nil, toAppError(err)
	}

	var task *domain.Task
	_, err := s.mutate(ctx, projectID, "task "+taskID+" "+action, func(project *domain.Project) error {
		found, ok := project.FindTask(taskID)
		if !ok {
			return errors.NewNotFoundError("task", taskID).WithContext("project_id", projectID)
		}
		task = found
		return fn(task)
	})
	if err != nil {
		return nil, err
	}
	return task, nil
}

func (s *projectServiceImpl) load(ctx context.Context, id string) (*domain.Project, error) {
	dbProject, err := s.repo.GetProject(ctx, id)
	if err != nil {
		return nil, err
	}
	dbTasks, err := s.repo.ListTasks(ctx, id)
	if err != nil {
		return nil, err
	}

	project, err := s.mapper.Project.FromDatabase(dbProject, dbTasks)
	if err != nil {
		return nil, errors.WrapError(err, errors.ErrorTypeDatabase, "stored project is inconsistent")
	}
	return project, nil
}

func (s *projectServiceImpl) save(ctx context.Context, project *domain.Project) error {
	dbProject, dbTasks := s.mapper.Project.ToDatabase(project)
	return s.repo.SaveProject(ctx, dbProject, dbTasks)
}

// validateUpdate checks the supplied fields and returns the trimmed name, if any
func (s *projectServiceImpl) validateUpdate(kind string, input UpdateInput) (string, error) {
	if input.IsEmpty() {
		return "", errors.NewValidationError("nothing to update: set a name, description or forecast", nil)
	}

	var name string
	if input.Name != nil {
		valid, err := s.validator.GetValidName(kind, *input.Name)
		if err != nil {
			return "", toAppError(err)
		}
		name = valid
	}
	if input.Description != nil {
		if err := s.validator.ValidateDescription(kind, *input.Description); err != nil {
			return "", toAppError(err)
		}
	}
	return name, nil
}

type describable interface {
	ChangeName(name string)
	ChangeDescription(description string)
	ChangeForecastedDate(at time.Time)
}

func applyUpdate(target describable, name string, input UpdateInput) {
	if input.Name != nil {
		target.ChangeName(name)
	}
	if input.Description != nil {
		target.ChangeDescription(*input.Description)
	}
	if input.ForecastedAt != nil {
		target.ChangeForecastedDate(*input.ForecastedAt)
	}
}

// toAppError converts field validation failures into application errors
func toAppError(err error) error {
	var ve *validation.ValidationError
	if stderrors.As(err, &ve) {
		return ve.ToAppError()
	}
	return err
}
