package cli

import (
	"bytes"
	"fmt"
	"os"
	"strings"
	"testing"
	"time"

	"project-tracker/internal/config"
	"project-tracker/internal/domain"
	apperrors "project-tracker/internal/errors"
	"project-tracker/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	time.Local = time.UTC
	os.Exit(m.Run())
}

var fixedNow = time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)

func sequentialIDs() domain.IDGenerator {
	next := 0
	return func() string {
		next++
		return fmt.Sprintf("id-%d", next)
	}
}

// testEnv holds services shared by several command runs, like a database
// shared by several invocations of the binary.
type testEnv struct {
	container *services.ServiceContainer
	config    *config.Config
}

func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()
	repo, err := config.CreateTestRepository()
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })

	cfg := config.NewConfig()
	cfg.Display.Color = false
	clock := func() time.Time { return fixedNow }

	return &testEnv{
		container: services.NewServiceContainer(repo, cfg, clock, sequentialIDs()),
		config:    cfg,
	}
}

// run executes one command line and returns its output
func (e *testEnv) run(args ...string) (string, error) {
	root := NewRootCommandWithServices(e.container, e.config)
	var out, errOut bytes.Buffer
	root.SetOutput(&out, &errOut)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func (e *testEnv) mustRun(t *testing.T, args ...string) string {
	t.Helper()
	out, err := e.run(args...)
	require.NoError(t, err, "pt %s", strings.Join(args, " "))
	return out
}

func TestProjectCommand_Create(t *testing.T) {
	tests := []struct {
		name           string
		args           []string
		expected       string
		errorAssertion func(t *testing.T, err error)
	}{
		{
			name:     "should create pending project",
			args:     []string{"project", "create", "Website"},
			expected: "Created project id-1: Website [pending]\n",
		},
		{
			name:     "should join name arguments",
			args:     []string{"project", "create", "Company", "website"},
			expected: "Created project id-1: Company website [pending]\n",
		},
		{
			name:     "should create active project with --start",
			args:     []string{"project", "create", "Website", "--start"},
			expected: "Created project id-1: Website [active]\n",
		},
		{
			name:     "should create active project with --started-at",
			args:     []string{"project", "create", "Website", "--started-at", "2024-01-01 09:00"},
			expected: "Created project id-1: Website [active]\n",
		},
		{
			name:     "should print only the id with --quiet",
			args:     []string{"project", "create", "Website", "-q"},
			expected: "id-1\n",
		},
		{
			name: "should reject blank name",
			args: []string{"project", "create", "  "},
			errorAssertion: func(t *testing.T, err error) {
				assert.True(t, apperrors.IsErrorType(err, apperrors.ErrorTypeValidation))
			},
		},
		{
			name: "should reject unparseable forecast",
			args: []string{"project", "create", "Website", "--forecast", "someday"},
			errorAssertion: func(t *testing.T, err error) {
				assert.Contains(t, err.Error(), "invalid timestamp format")
			},
		},
		{
			name: "should reject --start together with --started-at",
			args: []string{"project", "create", "Website", "--start", "--started-at", "1d"},
			errorAssertion: func(t *testing.T, err error) {
				assert.Error(t, err)
			},
		},
		{
			name: "should require a name",
			args: []string{"project", "create"},
			errorAssertion: func(t *testing.T, err error) {
				assert.Error(t, err)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Arrange
			env := setupTestEnv(t)

			// Act
			out, err := env.run(tt.args...)

			// Assert
			if tt.errorAssertion != nil {
				require.Error(t, err)
				tt.errorAssertion(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, out)
		})
	}
}

func TestProjectCommand_List(t *testing.T) {
	env := setupTestEnv(t)

	assert.Equal(t, "No projects found\n", env.mustRun(t, "project", "list"))

	env.mustRun(t, "project", "create", "Website", "--started-at", "2024-01-01 09:00", "--forecast", "2024-06-30")
	env.mustRun(t, "project", "create", "Mobile app")
	env.mustRun(t, "task", "add", "id-1", "Design")

	out := env.mustRun(t, "project", "list")
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 3)
	assert.Regexp(t, `^ID\s+NAME\s+TASKS\s+PROGRESS\s+FORECAST\s+STATUS$`, lines[0])
	assert.Regexp(t, `^id-2\s+Mobile app\s+0\s+0%\s+-\s+pending$`, lines[1])
	assert.Regexp(t, `^id-1\s+Website\s+1\s+0%\s+2024-06-30 00:00\s+active$`, lines[2])

	out = env.mustRun(t, "project", "list", "--status", "active")
	assert.Contains(t, out, "Website")
	assert.NotContains(t, out, "Mobile app")

	out = env.mustRun(t, "project", "ls", "--name", "mobile")
	assert.Contains(t, out, "Mobile app")
	assert.NotContains(t, out, "Website")

	_, err := env.run("project", "list", "--status", "paused")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "must be one of pending, active, cancelled, completed")
}

func TestProjectCommand_Show(t *testing.T) {
	env := setupTestEnv(t)
	env.mustRun(t, "project", "create", "Website", "-d", "Company site", "--started-at", "2024-01-01 09:00", "--forecast", "2024-02-01")
	env.mustRun(t, "task", "add", "id-1", "Design", "--started-at", "2024-01-02 09:00")
	env.mustRun(t, "task", "add", "id-1", "Build")
	env.mustRun(t, "task", "complete", "id-1", "id-2", "--at", "2024-01-03 09:00")

	out := env.mustRun(t, "project", "show", "id-1")

	assert.Contains(t, out, "Project: Website\n")
	assert.Contains(t, out, "ID: id-1\n")
	assert.Contains(t, out, "Status: active\n")
	assert.Contains(t, out, "Description: Company site\n")
	assert.Contains(t, out, "Started: 2024-01-01 09:00\n")
	assert.Contains(t, out, "Forecast: 2024-02-01 00:00 (overdue)\n")
	assert.Contains(t, out, "Progress: 50% (1 of 2 tasks open)\n")
	assert.Regexp(t, `id-2\s+Design\s+2024-01-02 09:00\s+-\s+completed`, out)
	assert.Regexp(t, `id-3\s+Build\s+-\s+-\s+pending`, out)
	assert.NotContains(t, out, "Finished:")
}

func TestProjectCommand_ShowDateOnly(t *testing.T) {
	env := setupTestEnv(t)
	env.config.Display.DateOnly = true
	env.mustRun(t, "project", "create", "Website", "--started-at", "2024-01-01 09:00")

	out := env.mustRun(t, "project", "show", "id-1")

	assert.Contains(t, out, "Started: 2024-01-01\n")
	assert.Contains(t, out, "No tasks\n")
}

func TestProjectCommand_Transitions(t *testing.T) {
	env := setupTestEnv(t)
	env.mustRun(t, "project", "create", "Website")

	assert.Equal(t, "Project Website (id-1) is now active\n",
		env.mustRun(t, "project", "start", "id-1", "--at", "2024-01-01"))

	_, err := env.run("project", "start", "id-1")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrAlreadyActive)
	assert.Equal(t, "cannot start active project", NewErrorHandler().Message(err))

	env.mustRun(t, "task", "add", "id-1", "Design")
	_, err = env.run("project", "complete", "id-1")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrIncompleteTasks)

	assert.Equal(t, "Project Website (id-1) is now cancelled\n",
		env.mustRun(t, "project", "cancel", "id-1"))

	out := env.mustRun(t, "project", "show", "id-1")
	assert.Contains(t, out, "Cancelled: 2024-03-10 12:00\n")
	assert.Regexp(t, `id-2\s+Design\s+-\s+-\s+cancelled`, out)

	_, err = env.run("project", "complete", "id-1")
	assert.ErrorIs(t, err, domain.ErrAlreadyCancelled)

	_, err = env.run("project", "start", "missing")
	assert.True(t, apperrors.IsErrorType(err, apperrors.ErrorTypeNotFound))
}

func TestProjectCommand_UpdateAndDelete(t *testing.T) {
	env := setupTestEnv(t)
	env.mustRun(t, "project", "create", "Website", "-d", "Old")

	assert.Equal(t, "Updated project id-1: Website v2\n",
		env.mustRun(t, "project", "update", "id-1", "--name", "Website v2", "-d", ""))

	out := env.mustRun(t, "project", "show", "id-1")
	assert.Contains(t, out, "Project: Website v2\n")
	assert.NotContains(t, out, "Description:")

	_, err := env.run("project", "update", "id-1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "nothing to update")

	assert.Equal(t, "Deleted project id-1\n", env.mustRun(t, "project", "delete", "id-1"))
	assert.Equal(t, "No projects found\n", env.mustRun(t, "project", "list"))

	_, err = env.run("project", "delete", "id-1")
	assert.True(t, apperrors.IsErrorType(err, apperrors.ErrorTypeNotFound))
}

func TestTaskCommand(t *testing.T) {
	env := setupTestEnv(t)
	env.mustRun(t, "project", "create", "Website", "--started-at", "2024-01-02 09:00")

	assert.Equal(t, "Added task id-2 to project id-1: Design mockups [pending]\n",
		env.mustRun(t, "task", "add", "id-1", "Design", "mockups"))
	assert.Equal(t, "id-3\n", env.mustRun(t, "task", "add", "id-1", "Build", "--start", "-q"))

	_, err := env.run("task", "add", "id-1", "Early", "--started-at", "2024-01-01")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrTaskStartsBeforeProject)

	assert.Equal(t, "Task Design mockups (id-2) is now active\n", env.mustRun(t, "task", "start", "id-1", "id-2"))
	assert.Equal(t, "Task Design mockups (id-2) is now completed\n", env.mustRun(t, "task", "complete", "id-1", "id-2"))
	assert.Equal(t, "Task Build (id-3) is now cancelled\n", env.mustRun(t, "t", "cancel", "id-1", "id-3"))

	_, err = env.run("task", "complete", "id-1", "id-3")
	require.Error(t, err)
	assert.Equal(t, "cannot complete cancelled task", NewErrorHandler().Message(err))

	_, err = env.run("task", "start", "id-1", "missing")
	require.Error(t, err)
	assert.Equal(t, "task not found: missing", NewErrorHandler().Message(err))

	assert.Equal(t, "Updated task id-2: Design\n",
		env.mustRun(t, "task", "update", "id-1", "id-2", "--name", "Design", "--forecast", "2024-04-01"))

	assert.Equal(t, "Project Website (id-1) is now completed\n", env.mustRun(t, "project", "complete", "id-1"))

	_, err = env.run("task", "add", "id-1", "Retro")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrProjectClosed)
}

func TestRun(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("PT_CONFIG", t.TempDir()+"/absent.toml")
	t.Setenv("PT_ENV", "")
	t.Setenv("PT_DB_DIR", t.TempDir())
	t.Setenv("PT_DISPLAY_COLOR", "false")

	var out, errOut bytes.Buffer
	code := Run([]string{"project", "create", "Website", "-q"}, &out, &errOut)
	require.Equal(t, 0, code, errOut.String())
	id := strings.TrimSpace(out.String())
	assert.NotEmpty(t, id)

	out.Reset()
	code = Run([]string{"project", "list"}, &out, &errOut)
	require.Equal(t, 0, code, errOut.String())
	assert.Contains(t, out.String(), id)

	out.Reset()
	code = Run([]string{"project", "list", "--db-dir", t.TempDir()}, &out, &errOut)
	require.Equal(t, 0, code, errOut.String())
	assert.Equal(t, "No projects found\n", out.String())

	code = Run([]string{"task", "add", id, "Design"}, &out, &errOut)
	require.Equal(t, 0, code, errOut.String())

	errOut.Reset()
	code = Run([]string{"project", "complete", id}, &out, &errOut)
	assert.Equal(t, 1, code)
	assert.Equal(t, "Error: cannot complete project with pending or active tasks\n", errOut.String())
}

func TestRun_ReportsBadConfiguration(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("PT_CONFIG", t.TempDir()+"/absent.toml")
	t.Setenv("PT_DB_DIR", t.TempDir())
	t.Setenv("PT_APP_TIMEOUT", "soon")

	var out, errOut bytes.Buffer
	code := Run([]string{"project", "list"}, &out, &errOut)

	assert.Equal(t, 1, code)
	assert.Equal(t, "Error: invalid configuration: PT_APP_TIMEOUT: must be a duration such as 10s or 1m\n", errOut.String())
	assert.Empty(t, out.String())
}
