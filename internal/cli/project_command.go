package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"project-tracker/internal/domain"
	"project-tracker/internal/services"
)

// ProjectCommand handles the project subcommands
type ProjectCommand struct {
	app *App
}

// NewProjectCommand creates a new project command handler
func NewProjectCommand(app *App) *ProjectCommand {
	return &ProjectCommand{app: app}
}

// CreateOptions holds the flags shared by project create and task add
type CreateOptions struct {
	Description string
	Start       bool
	StartedAt   string
	Forecast    string
	Quiet       bool
}

// startedAt resolves --start and --started-at into an optional start time
func (o CreateOptions) startedAt(timeService services.TimeService) (*time.Time, error) {
	if o.StartedAt != "" {
		return timeService.ParseOptionalTimestamp(o.StartedAt)
	}
	if o.Start {
		now := timeService.Now()
		return &now, nil
	}
	return nil, nil
}

// UpdateOptions holds the flags of the update subcommands. Empty strings were not set.
type UpdateOptions struct {
	Name        *string
	Description *string
	Forecast    string
}

func (o UpdateOptions) input(timeService services.TimeService) (services.UpdateInput, error) {
	forecast, err := timeService.ParseOptionalTimestamp(o.Forecast)
	if err != nil {
		return services.UpdateInput{}, err
	}
	return services.UpdateInput{
		Name:         o.Name,
		Description:  o.Description,
		ForecastedAt: forecast,
	}, nil
}

// Create creates a project and prints its identifier
func (c *ProjectCommand) Create(ctx context.Context, name string, opts CreateOptions) error {
	timeService := c.app.services.TimeService
	startedAt, err := opts.startedAt(timeService)
	if err != nil {
		return err
	}
	forecast, err := timeService.ParseOptionalTimestamp(opts.Forecast)
	if err != nil {
		return err
	}

	project, err := c.app.services.ProjectService.CreateProject(ctx, services.CreateProjectInput{
		Name:         name,
		Description:  opts.Description,
		StartedAt:    startedAt,
		ForecastedAt: forecast,
	})
	if err != nil {
		return err
	}

	if opts.Quiet {
		fmt.Fprintln(c.app.out, project.ID())
		return nil
	}
	fmt.Fprintf(c.app.out, "Created project %s: %s [%s]\n", project.ID(), project.Name(), c.app.styles.badge(project.Status()))
	return nil
}

// List prints the projects matching the filters
func (c *ProjectCommand) List(ctx context.Context, status string, name string) error {
	opts := domain.SearchOptions{}
	if status != "" {
		parsed, err := domain.ParseStatus(status)
		if err != nil {
			return err
		}
		opts.Status = &parsed
	}
	if name = strings.TrimSpace(name); name != "" {
		opts.NameContains = &name
	}

	projects, err := c.app.services.ProjectService.ListProjects(ctx, opts)
	if err != nil {
		return err
	}
	c.app.printProjects(projects)
	return nil
}

// Show prints a project with its tasks and progress
func (c *ProjectCommand) Show(ctx context.Context, id string) error {
	summary, err := c.app.services.ReportingService.GetProjectSummary(ctx, id)
	if err != nil {
		return err
	}
	c.app.printSummary(summary)
	return nil
}

// Transition applies start, cancel or complete to a project
func (c *ProjectCommand) Transition(ctx context.Context, action string, id string, at string) error {
	when, err := c.app.services.TimeService.ParseTimestamp(at)
	if err != nil {
		return err
	}

	projects := c.app.services.ProjectService
	var project *domain.Project
	switch action {
	case "start":
		project, err = projects.StartProject(ctx, id, when)
	case "cancel":
		project, err = projects.CancelProject(ctx, id, when)
	case "complete":
		project, err = projects.CompleteProject(ctx, id, when)
	default:
		return fmt.Errorf("unknown project action %q", action)
	}
	if err != nil {
		return err
	}

	fmt.Fprintf(c.app.out, "Project %s (%s) is now %s\n", project.Name(), project.ID(), c.app.styles.badge(project.Status()))
	return nil
}

// Update changes the descriptive fields of a project
func (c *ProjectCommand) Update(ctx context.Context, id string, opts UpdateOptions) error {
	input, err := opts.input(c.app.services.TimeService)
	if err != nil {
		return err
	}
	project, err := c.app.services.ProjectService.UpdateProject(ctx, id, input)
	if err != nil {
		return err
	}
	fmt.Fprintf(c.app.out, "Updated project %s: %s\n", project.ID(), project.Name())
	return nil
}

// Delete removes a project and its tasks
func (c *ProjectCommand) Delete(ctx context.Context, id string) error {
	if err := c.app.services.ProjectService.DeleteProject(ctx, id); err != nil {
		return err
	}
	fmt.Fprintf(c.app.out, "Deleted project %s\n", id)
	return nil
}

// newProjectCommand builds the "pt project" command tree
func newProjectCommand(root *RootCommand) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "project",
		Aliases: []string{"projects", "p"},
		Short:   "Manage projects",
	}

	var create CreateOptions
	createCmd := &cobra.Command{
		Use:   "create NAME",
		Short: "Create a project",
		Long: `Create a project. The project is pending unless --start or --started-at is given.

Examples:
  pt project create "Website"
  pt project create "Website" --start --forecast 2025-06-30
  pt project create "Website" --started-at "2025-01-06 09:00" -d "Company site"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := root.commandContext()
			defer cancel()
			return NewProjectCommand(root.app).Create(ctx, strings.Join(args, " "), create)
		},
	}
	addCreateFlags(createCmd, &create, "project")

	var status, name string
	listCmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List projects",
		Long: `List projects ordered by name.

Examples:
  pt project list
  pt project list --status active
  pt project list --name web`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := root.commandContext()
			defer cancel()
			return NewProjectCommand(root.app).List(ctx, status, name)
		},
	}
	listCmd.Flags().StringVarP(&status, "status", "s", "", "Only list projects with this status (pending, active, cancelled, completed)")
	listCmd.Flags().StringVarP(&name, "name", "n", "", "Only list projects whose name contains this text")

	showCmd := &cobra.Command{
		Use:   "show PROJECT_ID",
		Short: "Show a project with its tasks and progress",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := root.commandContext()
			defer cancel()
			return NewProjectCommand(root.app).Show(ctx, args[0])
		},
	}

	var update UpdateOptions
	updateCmd := &cobra.Command{
		Use:   "update PROJECT_ID",
		Short: "Change the name, description or forecast of a project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := root.commandContext()
			defer cancel()
			return NewProjectCommand(root.app).Update(ctx, args[0], update.fromFlags(cmd))
		},
	}
	addUpdateFlags(updateCmd, &update)

	deleteCmd := &cobra.Command{
		Use:   "delete PROJECT_ID",
		Short: "Delete a project and all its tasks",
		Long:  "Delete a project and all its tasks. This operation cannot be undone.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := root.commandContext()
			defer cancel()
			return NewProjectCommand(root.app).Delete(ctx, args[0])
		},
	}

	cmd.AddCommand(createCmd, listCmd, showCmd, updateCmd, deleteCmd)
	for _, action := range []string{"start", "cancel", "complete"} {
		cmd.AddCommand(newProjectTransitionCommand(root, action))
	}
	return cmd
}

func newProjectTransitionCommand(root *RootCommand, action string) *cobra.Command {
	var at string
	cmd := &cobra.Command{
		Use:   action + " PROJECT_ID",
		Short: transitionHelp["project"][action],
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := root.commandContext()
			defer cancel()
			return NewProjectCommand(root.app).Transition(ctx, action, args[0], at)
		},
	}
	cmd.Flags().StringVar(&at, "at", "now", "When the change happened")
	return cmd
}

var transitionHelp = map[string]map[string]string{
	"project": {
		"start":    "Start a pending project",
		"cancel":   "Cancel a project and its open tasks",
		"complete": "Complete a project once all its tasks are closed",
	},
	"task": {
		"start":    "Start a pending task",
		"cancel":   "Cancel a pending or active task",
		"complete": "Complete a pending or active task",
	},
}

func addCreateFlags(cmd *cobra.Command, opts *CreateOptions, kind string) {
	flags := cmd.Flags()
	flags.StringVarP(&opts.Description, "description", "d", "", "Description of the "+kind)
	flags.BoolVar(&opts.Start, "start", false, "Start the "+kind+" now")
	flags.StringVar(&opts.StartedAt, "started-at", "", "Start the "+kind+" at the given time")
	flags.StringVar(&opts.Forecast, "forecast", "", "Forecasted finish date")
	flags.BoolVarP(&opts.Quiet, "quiet", "q", false, "Print only the new identifier")
	cmd.MarkFlagsMutuallyExclusive("start", "started-at")
}

func addUpdateFlags(cmd *cobra.Command, opts *UpdateOptions) {
	flags := cmd.Flags()
	flags.String("name", "", "New name")
	flags.StringP("description", "d", "", "New description")
	flags.StringVar(&opts.Forecast, "forecast", "", "New forecasted finish date")
}

// fromFlags sets Name and Description only when their flags were given, so
// an explicit empty description can clear it.
func (o UpdateOptions) fromFlags(cmd *cobra.Command) UpdateOptions {
	flags := cmd.Flags()
	if flags.Changed("name") {
		v, _ := flags.GetString("name")
		o.Name = &v
	}
	if flags.Changed("description") {
		v, _ := flags.GetString("description")
		o.Description = &v
	}
	return o
}
