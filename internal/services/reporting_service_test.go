package services

import (
	"context"
	"testing"

	"project-tracker/internal/domain"
	"project-tracker/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupReportingService(t *testing.T) (ReportingService, ProjectService) {
	projectService, _ := setupProjectService(t)
	return NewReportingService(projectService, NewTimeService(fixedClock)), projectService
}

func TestReportingService_GetProjectSummary(t *testing.T) {
	tests := []struct {
		name            string
		setup           func(t *testing.T, s ProjectService) string
		expectedSummary func(t *testing.T, summary *ProjectSummary)
		errorAssertion  func(t *testing.T, err error)
	}{
		{
			name: "should report zero progress for project without tasks",
			setup: func(t *testing.T, s ProjectService) string {
				return createActiveProject(t, s).ID()
			},
			expectedSummary: func(t *testing.T, summary *ProjectSummary) {
				assert.Equal(t, 0, summary.TotalTasks)
				assert.Equal(t, 0.0, summary.Progress)
				assert.Len(t, summary.TaskCounts, 4)
				assert.False(t, summary.Overdue)
			},
		},
		{
			name: "should ignore cancelled tasks in progress",
			setup: func(t *testing.T, s ProjectService) string {
				ctx := context.Background()
				project := createActiveProject(t, s)
				done := addTask(t, s, project.ID(), "Done")
				dropped := addTask(t, s, project.ID(), "Dropped")
				addTask(t, s, project.ID(), "Open")
				_, err := s.CompleteTask(ctx, project.ID(), done.ID(), day2)
				require.NoError(t, err)
				_, err = s.CancelTask(ctx, project.ID(), dropped.ID(), day2)
				require.NoError(t, err)
				return project.ID()
			},
			expectedSummary: func(t *testing.T, summary *ProjectSummary) {
				assert.Equal(t, 3, summary.TotalTasks)
				assert.Equal(t, 1, summary.OpenTasks)
				assert.Equal(t, 1, summary.TaskCounts[domain.StatusCompleted])
				assert.Equal(t, 1, summary.TaskCounts[domain.StatusCancelled])
				assert.Equal(t, 1, summary.TaskCounts[domain.StatusPending])
				assert.Equal(t, 0, summary.TaskCounts[domain.StatusActive])
				assert.InDelta(t, 0.5, summary.Progress, 0.0001)
			},
		},
		{
			name: "should report full progress for completed project with only cancelled tasks",
			setup: func(t *testing.T, s ProjectService) string {
				ctx := context.Background()
				project := createActiveProject(t, s)
				task := addTask(t, s, project.ID(), "Dropped")
				_, err := s.CancelTask(ctx, project.ID(), task.ID(), day2)
				require.NoError(t, err)
				_, err = s.CompleteProject(ctx, project.ID(), day3)
				require.NoError(t, err)
				return project.ID()
			},
			expectedSummary: func(t *testing.T, summary *ProjectSummary) {
				assert.Equal(t, 1.0, summary.Progress)
				assert.Equal(t, 0, summary.OpenTasks)
			},
		},
		{
			name: "should flag open project past its forecast",
			setup: func(t *testing.T, s ProjectService) string {
				ctx := context.Background()
				project, err := s.CreateProject(ctx, CreateProjectInput{Name: "Late", StartedAt: timePtr(day1), ForecastedAt: timePtr(day3)})
				require.NoError(t, err)
				_, err = s.AddTask(ctx, AddTaskInput{ProjectID: project.ID(), Name: "Late task", ForecastedAt: timePtr(day2)})
				require.NoError(t, err)
				_, err = s.AddTask(ctx, AddTaskInput{ProjectID: project.ID(), Name: "Future task", ForecastedAt: timePtr(fixedNow.AddDate(0, 0, 1))})
				require.NoError(t, err)
				return project.ID()
			},
			expectedSummary: func(t *testing.T, summary *ProjectSummary) {
				assert.True(t, summary.Overdue)
				assert.Equal(t, 1, summary.OverdueTasks)
			},
		},
		{
			name: "should not flag closed project past its forecast",
			setup: func(t *testing.T, s ProjectService) string {
				ctx := context.Background()
				project, err := s.CreateProject(ctx, CreateProjectInput{Name: "Closed", StartedAt: timePtr(day1), ForecastedAt: timePtr(day2)})
				require.NoError(t, err)
				_, err = s.CancelProject(ctx, project.ID(), day3)
				require.NoError(t, err)
				return project.ID()
			},
			expectedSummary: func(t *testing.T, summary *ProjectSummary) {
				assert.False(t, summary.Overdue)
			},
		},
		{
			name: "should return not found for unknown project",
			setup: func(t *testing.T, s ProjectService) string {
				return "missing"
			},
			errorAssertion: func(t *testing.T, err error) {
				assert.True(t, errors.IsErrorType(err, errors.ErrorTypeNotFound))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Arrange
			reporting, projects := setupReportingService(t)
			id := tt.setup(t, projects)

			// Act
			summary, err := reporting.GetProjectSummary(context.Background(), id)

			// Assert
			if tt.errorAssertion != nil {
				require.Error(t, err)
				tt.errorAssertion(t, err)
				assert.Nil(t, summary)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, id, summary.Project.ID())
			tt.expectedSummary(t, summary)
		})
	}
}

func TestNewServiceContainer(t *testing.T) {
	_, repo := setupProjectService(t)

	container := NewServiceContainer(repo, nil, fixedClock, sequentialIDs())

	require.NotNil(t, container.ProjectService)
	require.NotNil(t, container.ReportingService)
	assert.Equal(t, fixedNow, container.TimeService.Now())

	project, err := container.ProjectService.CreateProject(context.Background(), CreateProjectInput{Name: "Wired"})
	require.NoError(t, err)
	assert.Equal(t, "id-1", project.ID())

	summary, err := container.ReportingService.GetProjectSummary(context.Background(), project.ID())
	require.NoError(t, err)
	assert.Equal(t, "Wired", summary.Project.Name())
}
