package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"project-tracker/internal/config"
	"project-tracker/internal/logging"
	"project-tracker/internal/services"
)

// setupFunc builds the services for a loaded configuration. The returned
// function releases what setup acquired.
type setupFunc func(cfg *config.Config) (*services.ServiceContainer, func() error, error)

// RootCommand represents the base command when called without any subcommands
type RootCommand struct {
	cmd       *cobra.Command
	app       *App
	overrides config.ConfigOverrides
	setup     setupFunc
	release   func() error
	out       io.Writer
	errOut    io.Writer
}

// NewRootCommand creates the root command. Configuration is loaded and the
// repository opened before any subcommand runs.
func NewRootCommand() *RootCommand {
	return newRootCommand(openServices)
}

// NewRootCommandWithServices creates a root command around existing services,
// skipping configuration loading.
func NewRootCommandWithServices(container *services.ServiceContainer, cfg *config.Config) *RootCommand {
	root := newRootCommand(nil)
	root.app = NewApp(container, cfg)
	return root
}

func newRootCommand(setup setupFunc) *RootCommand {
	root := &RootCommand{
		setup:  setup,
		out:    os.Stdout,
		errOut: os.Stderr,
	}

	root.cmd = &cobra.Command{
		Use:   "pt",
		Short: "A command-line project and task tracker",
		Long: `Project Tracker (pt) keeps track of projects and the tasks they own.

Projects and tasks move from pending to active, and finish as either
cancelled or completed. Cancelling a project cancels its open tasks; a
project can only be completed once none of its tasks are pending or active.

EXAMPLES:
  pt project create "Website" --start --forecast 2025-06-30
  pt project list --status active
  pt task add PROJECT_ID "Design mockups" --start
  pt task complete PROJECT_ID TASK_ID
  pt project complete PROJECT_ID

TIME FORMATS:
  now, 2006-01-02, "2006-01-02 15:04", RFC 3339, or 30m, 2h, 1d, 1w ago

CONFIGURATION:
  Priority: command-line flags > PT_* environment variables > config file > defaults
  Config file: $PT_CONFIG or ~/.config/pt/config.toml

    PT_DB_DIR                     Database directory (default: ~/.pt)
    PT_DB_FILENAME                Database filename (default: pt.db)
    PT_DB_QUERY_TIMEOUT           Query timeout (default: 10s)
    PT_TIME_DISPLAY_FORMAT        Time format (default: 2006-01-02 15:04)
    PT_DISPLAY_DATE_ONLY          Show dates only (default: false)
    PT_DISPLAY_COLOR              Colored status output (default: true)
    PT_APP_TIMEOUT                Command timeout (default: 60s)
    PT_DEBUG                      Print debug messages to stderr`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return root.prepare(cmd)
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return root.close()
		},
	}

	root.addGlobalFlags()
	root.cmd.AddCommand(
		newProjectCommand(root),
		newTaskCommand(root),
	)

	return root
}

// SetArgs sets the arguments used by Execute instead of os.Args
func (r *RootCommand) SetArgs(args []string) {
	r.cmd.SetArgs(args)
}

// SetOutput redirects command output
func (r *RootCommand) SetOutput(out io.Writer, errOut io.Writer) {
	r.out = out
	r.errOut = errOut
	r.cmd.SetOut(out)
	r.cmd.SetErr(errOut)
	if r.app != nil {
		r.app.SetOutput(out, errOut)
	}
}

// Execute runs the root command. Resources opened for the command are
// released even when it fails.
func (r *RootCommand) Execute() error {
	err := r.cmd.Execute()
	if closeErr := r.close(); err == nil {
		err = closeErr
	}
	return err
}

// addGlobalFlags adds global configuration flags
func (r *RootCommand) addGlobalFlags() {
	flags := r.cmd.PersistentFlags()

	flags.String("config", "", "Config file (overrides PT_CONFIG)")

	// Database configuration
	flags.String("db-dir", "", "Database directory (overrides PT_DB_DIR)")
	flags.String("db-filename", "", "Database filename (overrides PT_DB_FILENAME)")
	flags.Duration("db-query-timeout", 0, "Database query timeout (overrides PT_DB_QUERY_TIMEOUT)")

	// Time configuration
	flags.String("time-format", "", "Time display format (overrides PT_TIME_DISPLAY_FORMAT)")

	// Display configuration
	flags.Bool("date-only", false, "Show dates only (overrides PT_DISPLAY_DATE_ONLY)")
	flags.Bool("color", true, "Color status output (overrides PT_DISPLAY_COLOR)")

	// Validation configuration
	flags.Int("name-min-length", 0, "Minimum name length (overrides PT_VALIDATION_NAME_MIN)")
	flags.Int("name-max-length", 0, "Maximum name length (overrides PT_VALIDATION_NAME_MAX)")
	flags.Int("description-max-length", 0, "Maximum description length (overrides PT_VALIDATION_DESCRIPTION_MAX)")

	// Application configuration
	flags.Duration("app-timeout", 0, "Command timeout (overrides PT_APP_TIMEOUT)")
	flags.BoolP("verbose", "v", false, "Print debug messages (overrides PT_APP_VERBOSE)")
}

// collectOverrides copies the flags set on the command line into r.overrides
func (r *RootCommand) collectOverrides(cmd *cobra.Command) {
	flags := cmd.Flags()
	o := &r.overrides

	if flags.Changed("config") {
		v, _ := flags.GetString("config")
		o.ConfigFile = &v
	}
	if flags.Changed("db-dir") {
		v, _ := flags.GetString("db-dir")
		o.DBDir = &v
	}
	if flags.Changed("db-filename") {
		v, _ := flags.GetString("db-filename")
		o.DBFilename = &v
	}
	if flags.Changed("db-query-timeout") {
		v, _ := flags.GetDuration("db-query-timeout")
		o.DBQueryTimeout = &v
	}
	if flags.Changed("time-format") {
		v, _ := flags.GetString("time-format")
		o.TimeFormat = &v
	}
	if flags.Changed("date-only") {
		v, _ := flags.GetBool("date-only")
		o.DateOnly = &v
	}
	if flags.Changed("color") {
		v, _ := flags.GetBool("color")
		o.Color = &v
	}
	if flags.Changed("name-min-length") {
		v, _ := flags.GetInt("name-min-length")
		o.NameMinLength = &v
	}
	if flags.Changed("name-max-length") {
		v, _ := flags.GetInt("name-max-length")
		o.NameMaxLength = &v
	}
	if flags.Changed("description-max-length") {
		v, _ := flags.GetInt("description-max-length")
		o.DescriptionMaxLength = &v
	}
	if flags.Changed("app-timeout") {
		v, _ := flags.GetDuration("app-timeout")
		o.Timeout = &v
	}
	if flags.Changed("verbose") {
		v, _ := flags.GetBool("verbose")
		o.Verbose = &v
	}
}

// prepare loads the configuration and opens the services
func (r *RootCommand) prepare(cmd *cobra.Command) error {
	if r.setup == nil {
		return nil
	}

	r.collectOverrides(cmd)
	cfg, err := config.NewLoader().LoadWithOverrides(&r.overrides)
	if err != nil {
		return err
	}
	if cfg.Application.Verbose {
		logging.SetDebug(true)
	}

	container, release, err := r.setup(cfg)
	if err != nil {
		return err
	}
	r.release = release
	r.app = NewApp(container, cfg)
	r.app.SetOutput(r.out, r.errOut)
	return nil
}

func (r *RootCommand) close() error {
	if r.release == nil {
		return nil
	}
	release := r.release
	r.release = nil
	return release()
}

// commandContext returns a context bounded by the configured application timeout
func (r *RootCommand) commandContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), r.getAppTimeout())
}

// getAppTimeout returns the configured application timeout
func (r *RootCommand) getAppTimeout() time.Duration {
	if r.app != nil && r.app.config.Application.Timeout > 0 {
		return r.app.config.Application.Timeout
	}
	return 60 * time.Second
}

// openServices opens the repository selected by PT_ENV and wires the services
func openServices(cfg *config.Config) (*services.ServiceContainer, func() error, error) {
	repo, err := config.NewRepositoryFactory(config.GetEnvironment(), cfg).CreateRepository()
	if err != nil {
		return nil, nil, fmt.Errorf("open database: %w", err)
	}
	return services.NewServiceContainer(repo, cfg, nil, nil), repo.Close, nil
}
