package cli

import (
	"fmt"
	"io"
	"math"
	"text/tabwriter"
	"time"

	"github.com/charmbracelet/lipgloss"

	"project-tracker/internal/domain"
	"project-tracker/internal/services"
)

const dateOnlyFormat = "2006-01-02"

type styles struct {
	label  lipgloss.Style
	muted  lipgloss.Style
	alert  lipgloss.Style
	status map[domain.Status]lipgloss.Style
}

// newStyles builds the output styles. The renderer inspects w, so colors are
// dropped automatically when w is not a terminal.
func newStyles(w io.Writer, color bool) styles {
	renderer := lipgloss.NewRenderer(w)
	plain := renderer.NewStyle()
	if !color {
		return styles{
			label: plain,
			muted: plain,
			alert: plain,
			status: map[domain.Status]lipgloss.Style{
				domain.StatusPending:   plain,
				domain.StatusActive:    plain,
				domain.StatusCancelled: plain,
				domain.StatusCompleted: plain,
			},
		}
	}

	return styles{
		label: renderer.NewStyle().Bold(true),
		muted: renderer.NewStyle().Foreground(lipgloss.Color("244")),
		alert: renderer.NewStyle().Foreground(lipgloss.Color("1")).Bold(true),
		status: map[domain.Status]lipgloss.Style{
			domain.StatusPending:   renderer.NewStyle().Foreground(lipgloss.Color("244")),
			domain.StatusActive:    renderer.NewStyle().Foreground(lipgloss.Color("33")).Bold(true),
			domain.StatusCancelled: renderer.NewStyle().Foreground(lipgloss.Color("1")),
			domain.StatusCompleted: renderer.NewStyle().Foreground(lipgloss.Color("2")),
		},
	}
}

func (s styles) badge(status domain.Status) string {
	style, ok := s.status[status]
	if !ok {
		return status.String()
	}
	return style.Render(status.String())
}

// formatTime renders an optional timestamp with the configured layout
func (a *App) formatTime(t *time.Time) string {
	if t == nil {
		return "-"
	}
	layout := a.config.Time.DisplayFormat
	if a.config.Display.DateOnly {
		layout = dateOnlyFormat
	}
	return t.Local().Format(layout)
}

func formatProgress(progress float64) string {
	return fmt.Sprintf("%d%%", int(math.Round(progress*100)))
}

// printProjects writes one row per project. Status is the last column so
// styling never disturbs the alignment.
func (a *App) printProjects(projects []*domain.Project) {
	if len(projects) == 0 {
		fmt.Fprintln(a.out, "No projects found")
		return
	}

	w := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tTASKS\tPROGRESS\tFORECAST\tSTATUS")
	for _, project := range projects {
		summary := a.services.ReportingService.SummarizeProject(project)
		fmt.Fprintf(w, "%s\t%s\t%d\t%s\t%s\t%s\n",
			project.ID(),
			project.Name(),
			summary.TotalTasks,
			formatProgress(summary.Progress),
			a.formatTime(project.ForecastedAt()),
			a.styles.badge(project.Status()),
		)
	}
	w.Flush()
}

// printSummary writes the details of a project followed by its tasks
func (a *App) printSummary(summary *services.ProjectSummary) {
	project := summary.Project
	label := a.styles.label.Render

	fmt.Fprintf(a.out, "%s %s\n", label("Project:"), project.Name())
	fmt.Fprintf(a.out, "%s %s\n", label("ID:"), project.ID())
	fmt.Fprintf(a.out, "%s %s\n", label("Status:"), a.styles.badge(project.Status()))
	if project.Description() != "" {
		fmt.Fprintf(a.out, "%s %s\n", label("Description:"), project.Description())
	}
	fmt.Fprintf(a.out, "%s %s\n", label("Started:"), a.formatTime(project.StartedAt()))
	if project.CancelledAt() != nil {
		fmt.Fprintf(a.out, "%s %s\n", label("Cancelled:"), a.formatTime(project.CancelledAt()))
	}
	if project.FinishedAt() != nil {
		fmt.Fprintf(a.out, "%s %s\n", label("Finished:"), a.formatTime(project.FinishedAt()))
	}
	forecast := a.formatTime(project.ForecastedAt())
	if summary.Overdue {
		forecast += " " + a.styles.alert.Render("(overdue)")
	}
	fmt.Fprintf(a.out, "%s %s\n", label("Forecast:"), forecast)
	fmt.Fprintf(a.out, "%s %s (%d of %d tasks open)\n", label("Progress:"),
		formatProgress(summary.Progress), summary.OpenTasks, summary.TotalTasks)

	tasks := project.Tasks()
	if len(tasks) == 0 {
		fmt.Fprintln(a.out, a.styles.muted.Render("No tasks"))
		return
	}

	fmt.Fprintln(a.out)
	w := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tSTARTED\tFORECAST\tSTATUS")
	for _, task := range tasks {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			task.ID(),
			task.Name(),
			a.formatTime(task.StartedAt()),
			a.formatTime(task.ForecastedAt()),
			a.styles.badge(task.Status()),
		)
	}
	w.Flush()
}
