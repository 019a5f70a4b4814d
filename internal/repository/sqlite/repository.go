package sqlite

import (
	"context"
	"database/sql"
	stderrors "errors"
	"strings"
	"time"

	"project-tracker/internal/errors"
	"project-tracker/internal/repository/sqlite/migrations"

	_ "modernc.org/sqlite"
)

// CodeTaskOwnedElsewhere is returned when a save would move a task between projects.
const CodeTaskOwnedElsewhere = "TASK_OWNED_BY_OTHER_PROJECT"

const projectColumns = `id, name, description, status, started_at, cancelled_at, finished_at, forecasted_at`

const taskColumns = `id, project_id, position, name, description, status, started_at, cancelled_at, finished_at, forecasted_at`

// SearchOptions contains all possible search parameters
type SearchOptions struct {
	Status       *string
	NameContains *string
}

// Repository defines the interface for database operations
type Repository interface {
	// Write operations
	SaveProject(ctx context.Context, project *Project, tasks []*Task) error
	DeleteProject(ctx context.Context, id string) error

	// Read operations
	GetProject(ctx context.Context, id string) (*Project, error)
	ListProjects(ctx context.Context, opts SearchOptions) ([]*Project, error)
	GetTask(ctx context.Context, id string) (*Task, error)
	ListTasks(ctx context.Context, projectID string) ([]*Task, error)

	// Utility
	Close() error
}

// SQLiteRepository implements the Repository interface
type SQLiteRepository struct {
	db           *sql.DB
	queryTimeout time.Duration
}

// New creates a new SQLite repository instance
func New(dbPath string) (*SQLiteRepository, error) {
	return NewWithConfig(dbPath, 0)
}

// NewWithConfig creates a repository whose operations are bounded by
// queryTimeout. A zero timeout leaves deadlines to the caller's context.
func NewWithConfig(dbPath string, queryTimeout time.Duration) (*SQLiteRepository, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, errors.NewDatabaseError("open database", err)
	}

	// One connection keeps ":memory:" databases alive and serialises writers.
	db.SetMaxOpenConns(1)

	ctx := context.Background()
	if _, err := db.ExecContext(ctx, "PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, errors.NewDatabaseError("enable foreign keys", err)
	}

	// Run migrations
	if err := migrations.RunMigrations(ctx, db); err != nil {
		db.Close()
		return nil, errors.NewDatabaseError("run migrations", err)
	}

	return &SQLiteRepository{db: db, queryTimeout: queryTimeout}, nil
}

// Close closes the database connection
func (r *SQLiteRepository) Close() error {
	return r.db.Close()
}

// queryTimeoutKey marks a context whose deadline comes from the repository's
// own query timeout rather than from the caller.
type queryTimeoutKey struct{}

func (r *SQLiteRepository) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if r.queryTimeout <= 0 {
		return ctx, func() {}
	}
	if deadline, ok := ctx.Deadline(); ok && time.Until(deadline) <= r.queryTimeout {
		return ctx, func() {}
	}
	ctx, cancel := context.WithTimeout(ctx, r.queryTimeout)
	return context.WithValue(ctx, queryTimeoutKey{}, r.queryTimeout), cancel
}

// timeoutOr reports a deadline hit as a timeout error and returns any other
// error unchanged. The limit is recorded only when it was the query timeout;
// a caller's deadline is reported without one.
func (r *SQLiteRepository) timeoutOr(ctx context.Context, operation string, err error) error {
	if err == nil {
		return nil
	}
	if !stderrors.Is(ctx.Err(), context.DeadlineExceeded) {
		return err
	}
	if limit, ok := ctx.Value(queryTimeoutKey{}).(time.Duration); ok {
		return errors.NewTimeoutError(operation, limit.String())
	}
	return errors.NewTimeoutError(operation, nil)
}

// SaveProject inserts or updates a project together with its tasks in one
// transaction. Each task is stored at its index in tasks.
func (r *SQLiteRepository) SaveProject(ctx context.Context, project *Project, tasks []*Task) error {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	err := WithTransaction(ctx, r.db, func(tx *sql.Tx) error {
		if err := upsertProject(ctx, tx, project); err != nil {
			return err
		}
		for i, task := range tasks {
			task.ProjectID = project.ID
			task.Position = i
			if err := upsertTask(ctx, tx, task); err != nil {
				return err
			}
		}
		return nil
	})
	return r.timeoutOr(ctx, "save project", err)
}

func upsertProject(ctx context.Context, db execer, p *Project) error {
	query := `
	INSERT INTO projects (` + projectColumns + `)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT(id) DO UPDATE SET
		name = excluded.name,
		description = excluded.description,
		status = excluded.status,
		started_at = excluded.started_at,
		cancelled_at = excluded.cancelled_at,
		finished_at = excluded.finished_at,
		forecasted_at = excluded.forecasted_at`

	_, err := db.ExecContext(ctx, query,
		p.ID, p.Name, p.Description, p.Status,
		FormatTimePtrForDB(p.StartedAt),
		FormatTimePtrForDB(p.CancelledAt),
		FormatTimePtrForDB(p.FinishedAt),
		FormatTimePtrForDB(p.ForecastedAt),
	)
	if err != nil {
		return HandleDatabaseError("save project", err)
	}
	return nil
}

// upsertTask refuses to update a row that belongs to a different project; the
// conflict clause then matches nothing and no row is affected.
func upsertTask(ctx context.Context, db execer, t *Task) error {
	query := `
	INSERT INTO tasks (` + taskColumns + `)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT(id) DO UPDATE SET
		position = excluded.position,
		name = excluded.name,
		description = excluded.description,
		status = excluded.status,
		started_at = excluded.started_at,
		cancelled_at = excluded.cancelled_at,
		finished_at = excluded.finished_at,
		forecasted_at = excluded.forecasted_at
	WHERE tasks.project_id = excluded.project_id`

	result, err := db.ExecContext(ctx, query,
		t.ID, t.ProjectID, t.Position, t.Name, t.Description, t.Status,
		FormatTimePtrForDB(t.StartedAt),
		FormatTimePtrForDB(t.CancelledAt),
		FormatTimePtrForDB(t.FinishedAt),
		FormatTimePtrForDB(t.ForecastedAt),
	)
	if err != nil {
		return HandleDatabaseError("save task", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return HandleDatabaseError("get rows affected", err)
	}
	if rows == 0 {
		return errors.NewInvalidOperationError(CodeTaskOwnedElsewhere, "task "+t.ID+" belongs to another project").
			WithContext("project_id", t.ProjectID).
			WithContext("task_id", t.ID)
	}
	return nil
}

// GetProject retrieves a project by ID
func (r *SQLiteRepository) GetProject(ctx context.Context, id string) (*Project, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	query := `SELECT ` + projectColumns + ` FROM projects WHERE id = ?`
	project, err := QuerySingle(ctx, r.db, query, ScanProject, "project", id, id)
	return project, r.timeoutOr(ctx, "get project", err)
}

// ListProjects retrieves projects matching the search options, ordered by name
func (r *SQLiteRepository) ListProjects(ctx context.Context, opts SearchOptions) ([]*Project, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	var conditions []string
	var args []interface{}

	if opts.Status != nil && *opts.Status != "" {
		conditions = append(conditions, "status = ?")
		args = append(args, *opts.Status)
	}
	if opts.NameContains != nil && *opts.NameContains != "" {
		conditions = append(conditions, "name LIKE ?")
		args = append(args, "%"+*opts.NameContains+"%")
	}

	query := `SELECT ` + projectColumns + ` FROM projects`
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY name COLLATE NOCASE ASC, id ASC"

	projects, err := QueryMultiple(ctx, r.db, query, ScanProjects, "projects", args...)
	return projects, r.timeoutOr(ctx, "list projects", err)
}

// GetTask retrieves a task by ID
func (r *SQLiteRepository) GetTask(ctx context.Context, id string) (*Task, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	query := `SELECT ` + taskColumns + ` FROM tasks WHERE id = ?`
	task, err := QuerySingle(ctx, r.db, query, ScanTask, "task", id, id)
	return task, r.timeoutOr(ctx, "get task", err)
}

// ListTasks retrieves the tasks of a project in the order they were added
func (r *SQLiteRepository) ListTasks(ctx context.Context, projectID string) ([]*Task, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	query := `SELECT ` + taskColumns + ` FROM tasks WHERE project_id = ? ORDER BY position ASC`
	tasks, err := QueryMultiple(ctx, r.db, query, ScanTasks, "tasks", projectID)
	return tasks, r.timeoutOr(ctx, "list tasks", err)
}

// DeleteProject deletes a project and its tasks
func (r *SQLiteRepository) DeleteProject(ctx context.Context, id string) error {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	err := WithTransaction(ctx, r.db, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM tasks WHERE project_id = ?`, id); err != nil {
			return HandleDatabaseError("delete tasks", err)
		}
		return ExecuteWithRowsAffected(ctx, tx, `DELETE FROM projects WHERE id = ?`, "project", id, id)
	})
	return r.timeoutOr(ctx, "delete project", err)
}
