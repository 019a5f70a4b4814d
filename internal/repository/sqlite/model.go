package sqlite

import "time"

// Project is a row of the projects table
type Project struct {
	ID           string
	Name         string
	Description  string
	Status       string
	StartedAt    *time.Time // Using pointers to allow NULL values
	CancelledAt  *time.Time
	FinishedAt   *time.Time
	ForecastedAt *time.Time
}

// Task is a row of the tasks table. Position keeps the insertion order of the
// tasks within their project.
type Task struct {
	ID           string
	ProjectID    string
	Position     int
	Name         string
	Description  string
	Status       string
	StartedAt    *time.Time
	CancelledAt  *time.Time
	FinishedAt   *time.Time
	ForecastedAt *time.Time
}
