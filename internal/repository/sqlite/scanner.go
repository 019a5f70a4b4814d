package sqlite

import (
	"database/sql"
	"fmt"
	"time"
)

// Scanner interface defines the common scanning behavior for both sql.Row and sql.Rows
type Scanner interface {
	Scan(dest ...interface{}) error
}

// Rows interface defines the common behavior for sql.Rows
type Rows interface {
	Next() bool
	Scan(dest ...interface{}) error
	Err() error
}

// lifecycleColumns receives the nullable timestamp columns shared by both tables
type lifecycleColumns struct {
	startedAt    sql.NullString
	cancelledAt  sql.NullString
	finishedAt   sql.NullString
	forecastedAt sql.NullString
}

func (c *lifecycleColumns) parse() (started, cancelled, finished, forecasted *time.Time, err error) {
	if started, err = ParseNullTimeFromDB(c.startedAt); err != nil {
		return nil, nil, nil, nil, fmt.Errorf("parse started_at: %w", err)
	}
	if cancelled, err = ParseNullTimeFromDB(c.cancelledAt); err != nil {
		return nil, nil, nil, nil, fmt.Errorf("parse cancelled_at: %w", err)
	}
	if finished, err = ParseNullTimeFromDB(c.finishedAt); err != nil {
		return nil, nil, nil, nil, fmt.Errorf("parse finished_at: %w", err)
	}
	if forecasted, err = ParseNullTimeFromDB(c.forecastedAt); err != nil {
		return nil, nil, nil, nil, fmt.Errorf("parse forecasted_at: %w", err)
	}
	return started, cancelled, finished, forecasted, nil
}

// ScanProject scans a single project from a database row. Columns are expected
// in the order of projectColumns.
func ScanProject(scanner Scanner) (*Project, error) {
	project := &Project{}
	var times lifecycleColumns

	err := scanner.Scan(
		&project.ID,
		&project.Name,
		&project.Description,
		&project.Status,
		&times.startedAt,
		&times.cancelledAt,
		&times.finishedAt,
		&times.forecastedAt,
	)
	if err != nil {
		return nil, err
	}

	project.StartedAt, project.CancelledAt, project.FinishedAt, project.ForecastedAt, err = times.parse()
	if err != nil {
		return nil, err
	}
	return project, nil
}

// ScanProjects scans multiple projects from database rows
func ScanProjects(rows Rows) ([]*Project, error) {
	var projects []*Project
	for rows.Next() {
		project, err := ScanProject(rows)
		if err != nil {
			return nil, err
		}
		projects = append(projects, project)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return projects, nil
}

// ScanTask scans a single task from a database row. Columns are expected in
// the order of taskColumns.
func ScanTask(scanner Scanner) (*Task, error) {
	task := &Task{}
	var times lifecycleColumns

	err := scanner.Scan(
		&task.ID,
		&task.ProjectID,
		&task.Position,
		&task.Name,
		&task.Description,
		&task.Status,
		&times.startedAt,
		&times.cancelledAt,
		&times.finishedAt,
		&times.forecastedAt,
	)
	if err != nil {
		return nil, err
	}

	task.StartedAt, task.CancelledAt, task.FinishedAt, task.ForecastedAt, err = times.parse()
	if err != nil {
		return nil, err
	}
	return task, nil
}

// ScanTasks scans multiple tasks from database rows
func ScanTasks(rows Rows) ([]*Task, error) {
	var tasks []*Task
	for rows.Next() {
		task, err := ScanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, task)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return tasks, nil
}
