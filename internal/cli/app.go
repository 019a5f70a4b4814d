package cli

import (
	"io"
	"os"

	"project-tracker/internal/config"
	"project-tracker/internal/services"
)

// App represents the main CLI application
type App struct {
	services *services.ServiceContainer
	config   *config.Config
	out      io.Writer
	errOut   io.Writer
	styles   styles
}

// NewApp creates a new CLI application instance with dependency injection.
// Output goes to stdout and stderr until SetOutput is called.
func NewApp(container *services.ServiceContainer, cfg *config.Config) *App {
	if cfg == nil {
		cfg = config.NewConfig()
	}
	app := &App{
		services: container,
		config:   cfg,
	}
	app.SetOutput(os.Stdout, os.Stderr)
	return app
}

// SetOutput redirects command output
func (a *App) SetOutput(out io.Writer, errOut io.Writer) {
	a.out = out
	a.errOut = errOut
	a.styles = newStyles(out, a.config.Display.Color)
}
