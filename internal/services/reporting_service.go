package services

import (
	"context"

	"project-tracker/internal/domain"
)

// reportingServiceImpl implements the ReportingService interface
type reportingServiceImpl struct {
	projectService ProjectService
	timeService    TimeService
}

// NewReportingService creates a new ReportingService instance
func NewReportingService(projectService ProjectService, timeService TimeService) ReportingService {
	return &reportingServiceImpl{
		projectService: projectService,
		timeService:    timeService,
	}
}

// GetProjectSummary loads a project and summarizes its progress
func (r *reportingServiceImpl) GetProjectSummary(ctx context.Context, id string) (*ProjectSummary, error) {
	project, err := r.projectService.GetProject(ctx, id)
	if err != nil {
		return nil, err
	}
	return r.SummarizeProject(project), nil
}

// SummarizeProject counts the tasks of a project per status. Progress is the
// share of completed tasks among those not cancelled; a project without such
// tasks reports 1 once completed and 0 otherwise.
func (r *reportingServiceImpl) SummarizeProject(project *domain.Project) *ProjectSummary {
	now := r.timeService.Now()
	summary := &ProjectSummary{
		Project:    project,
		TaskCounts: make(map[domain.Status]int, len(domain.Statuses())),
	}
	for _, status := range domain.Statuses() {
		summary.TaskCounts[status] = 0
	}

	for _, task := range project.Tasks() {
		summary.TotalTasks++
		summary.TaskCounts[task.Status()]++
		if task.Status().IsOpen() {
			summary.OpenTasks++
			if forecast := task.ForecastedAt(); forecast != nil && now.After(*forecast) {
				summary.OverdueTasks++
			}
		}
	}

	completed := summary.TaskCounts[domain.StatusCompleted]
	counted := summary.TotalTasks - summary.TaskCounts[domain.StatusCancelled]
	switch {
	case counted > 0:
		summary.Progress = float64(completed) / float64(counted)
	case project.Status() == domain.StatusCompleted:
		summary.Progress = 1
	}

	if forecast := project.ForecastedAt(); forecast != nil && project.Status().IsOpen() {
		summary.Overdue = now.After(*forecast)
	}

	return summary
}
