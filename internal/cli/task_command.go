package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"project-tracker/internal/domain"
	"project-tracker/internal/services"
)

// TaskCommand handles the task subcommands
type TaskCommand struct {
	app *App
}

// NewTaskCommand creates a new task command handler
func NewTaskCommand(app *App) *TaskCommand {
	return &TaskCommand{app: app}
}

// Add creates a task in a project and prints its identifier
func (c *TaskCommand) Add(ctx context.Context, projectID string, name string, opts CreateOptions) error {
	timeService := c.app.services.TimeService
	startedAt, err := opts.startedAt(timeService)
	if err != nil {
		return err
	}
	forecast, err := timeService.ParseOptionalTimestamp(opts.Forecast)
	if err != nil {
		return err
	}

	task, err := c.app.services.ProjectService.AddTask(ctx, services.AddTaskInput{
		ProjectID:    projectID,
		Name:         name,
		Description:  opts.Description,
		StartedAt:    startedAt,
		ForecastedAt: forecast,
	})
	if err != nil {
		return err
	}

	if opts.Quiet {
		fmt.Fprintln(c.app.out, task.ID())
		return nil
	}
	fmt.Fprintf(c.app.out, "Added task %s to project %s: %s [%s]\n", task.ID(), projectID, task.Name(), c.app.styles.badge(task.Status()))
	return nil
}

// Transition applies start, cancel or complete to a task
func (c *TaskCommand) Transition(ctx context.Context, action string, projectID string, taskID string, at string) error {
	when, err := c.app.services.TimeService.ParseTimestamp(at)
	if err != nil {
		return err
	}

	projects := c.app.services.ProjectService
	var task *domain.Task
	switch action {
	case "start":
		task, err = projects.StartTask(ctx, projectID, taskID, when)
	case "cancel":
		task, err = projects.CancelTask(ctx, projectID, taskID, when)
	case "complete":
		task, err = projects.CompleteTask(ctx, projectID, taskID, when)
	default:
		return fmt.Errorf("unknown task action %q", action)
	}
	if err != nil {
		return err
	}

	fmt.Fprintf(c.app.out, "Task %s (%s) is now %s\n", task.Name(), task.ID(), c.app.styles.badge(task.Status()))
	return nil
}

// Update changes the descriptive fields of a task
func (c *TaskCommand) Update(ctx context.Context, projectID string, taskID string, opts UpdateOptions) error {
	input, err := opts.input(c.app.services.TimeService)
	if err != nil {
		return err
	}
	task, err := c.app.services.ProjectService.UpdateTask(ctx, projectID, taskID, input)
	if err != nil {
		return err
	}
	fmt.Fprintf(c.app.out, "Updated task %s: %s\n", task.ID(), task.Name())
	return nil
}

// newTaskCommand builds the "pt task" command tree
func newTaskCommand(root *RootCommand) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "task",
		Aliases: []string{"tasks", "t"},
		Short:   "Manage the tasks of a project",
	}

	var add CreateOptions
	addCmd := &cobra.Command{
		Use:   "add PROJECT_ID NAME",
		Short: "Add a task to a project",
		Long: `Add a task to an open project. The task is pending unless --start or
--started-at is given, and it cannot start before its project.

Examples:
  pt task add PROJECT_ID "Design mockups"
  pt task add PROJECT_ID "Design mockups" --start --forecast 2025-02-01`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := root.commandContext()
			defer cancel()
			return NewTaskCommand(root.app).Add(ctx, args[0], strings.Join(args[1:], " "), add)
		},
	}
	addCreateFlags(addCmd, &add, "task")

	var update UpdateOptions
	updateCmd := &cobra.Command{
		Use:   "update PROJECT_ID TASK_ID",
		Short: "Change the name, description or forecast of a task",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := root.commandContext()
			defer cancel()
			return NewTaskCommand(root.app).Update(ctx, args[0], args[1], update.fromFlags(cmd))
		},
	}
	addUpdateFlags(updateCmd, &update)

	cmd.AddCommand(addCmd, updateCmd)
	for _, action := range []string{"start", "cancel", "complete"} {
		cmd.AddCommand(newTaskTransitionCommand(root, action))
	}
	return cmd
}

func newTaskTransitionCommand(root *RootCommand, action string) *cobra.Command {
	var at string
	cmd := &cobra.Command{
		Use:   action + " PROJECT_ID TASK_ID",
		Short: transitionHelp["task"][action],
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := root.commandContext()
			defer cancel()
			return NewTaskCommand(root.app).Transition(ctx, action, args[0], args[1], at)
		},
	}
	cmd.Flags().StringVar(&at, "at", "now", "When the change happened")
	return cmd
}
