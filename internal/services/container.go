package services

import (
	"project-tracker/internal/config"
	"project-tracker/internal/domain"
	"project-tracker/internal/repository/sqlite"
)

// NewServiceContainer wires the services around a repository. Nil clock and
// ids fall back to time.Now and random UUIDs.
func NewServiceContainer(repo sqlite.Repository, cfg *config.Config, clock Clock, ids domain.IDGenerator) *ServiceContainer {
	timeService := NewTimeService(clock)
	projectService := NewProjectService(repo, cfg, ids)

	return &ServiceContainer{
		TimeService:      timeService,
		ProjectService:   projectService,
		ReportingService: NewReportingService(projectService, timeService),
	}
}
