package app

import (
	"io"
	"log/slog"

	"github.com/specialistvlad/gridclosure/internal/config"
)

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	outW   io.Writer
	logger *slog.Logger
	config *Config
	loader config.Loader
}

// NewApp is the constructor for the main application. The App gets its own
// isolated logger writing to outW.
func NewApp(outW io.Writer, cfg *Config, loader config.Loader) *App {
	logger := newLogger(cfg.LogLevel, cfg.LogFormat, outW)
	logger.Debug("Logger configured successfully.")

	return &App{
		outW:   outW,
		logger: logger,
		config: cfg,
		loader: loader,
	}
}

// Result summarizes a successful run.
type Result struct {
	OutDir       string
	Workflows    int
	Tasks        int
	LaunchPlans  int
	ManifestPath string
}

// Artifacts returns the number of artifacts written.
func (r *Result) Artifacts() int {
	return r.Workflows + r.Tasks + r.LaunchPlans
}
