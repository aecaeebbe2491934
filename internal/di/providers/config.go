// Package providers contains dependency injection providers for repostmap.
package providers

import (
	"io"

	"github.com/samber/do/v2"

	"github.com/listenupapp/repostmap/internal/config"
	"github.com/listenupapp/repostmap/internal/id"
	"github.com/listenupapp/repostmap/internal/logger"
)

// Args holds the command-line arguments, program name excluded.
type Args []string

// Console holds the process streams. Saved paths go to Out and logs to Err.
type Console struct {
	Out io.Writer
	Err io.Writer
}

// ProvideConfig provides the application configuration.
func ProvideConfig(i do.Injector) (*config.Config, error) {
	args := do.MustInvoke[Args](i)
	return config.LoadConfig(args)
}

// ProvideLogger provides the structured logger, tagged with a fresh run ID.
func ProvideLogger(i do.Injector) (*logger.Logger, error) {
	cfg := do.MustInvoke[*config.Config](i)
	console := do.MustInvoke[Console](i)

	runID, err := id.Generate("run")
	if err != nil {
		return nil, err
	}

	log := logger.New(logger.Config{
		Writer:      console.Err,
		Level:       logger.ParseLevel(cfg.Logger.Level),
		Environment: cfg.App.Environment,
	}).WithField("run_id", runID)

	log.Info("Starting repostmap",
		"environment", cfg.App.Environment,
		"log_level", cfg.Logger.Level,
		"data_path", cfg.Input.DataPath,
		"boundaries_path", cfg.Input.BoundariesPath,
		"output_dir", cfg.Output.Dir,
	)

	return log, nil
}
