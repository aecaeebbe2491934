// Package di provides dependency injection configuration for repostmap.
package di

import (
	"io"

	"github.com/samber/do/v2"

	"github.com/listenupapp/repostmap/internal/config"
	"github.com/listenupapp/repostmap/internal/di/providers"
	"github.com/listenupapp/repostmap/internal/domain"
	"github.com/listenupapp/repostmap/internal/logger"
	"github.com/listenupapp/repostmap/internal/output"
	"github.com/listenupapp/repostmap/internal/render"
	"github.com/listenupapp/repostmap/internal/service"
)

// NewContainer creates and configures the DI container with all providers.
// args are the command-line arguments without the program name. Saved map
// paths are reported on stdout and logs go to stderr.
func NewContainer(args []string, stdout, stderr io.Writer) *do.RootScope {
	injector := do.New()

	// Process inputs
	do.ProvideValue(injector, providers.Args(args))
	do.ProvideValue(injector, providers.Console{Out: stdout, Err: stderr})

	// Core infrastructure
	do.Provide(injector, providers.ProvideConfig)
	do.Provide(injector, providers.ProvideLogger)

	// Data
	do.Provide(injector, providers.ProvideDataset)

	// Rendering and output
	do.Provide(injector, providers.ProvideRenderer)
	do.Provide(injector, providers.ProvideStorage)

	// Business services
	do.Provide(injector, providers.ProvideMapService)

	return injector
}

// Bootstrap initializes every service so configuration and input errors
// surface before any map is drawn.
func Bootstrap(injector *do.RootScope) error {
	if _, err := do.Invoke[*config.Config](injector); err != nil {
		return err
	}
	if _, err := do.Invoke[*logger.Logger](injector); err != nil {
		return err
	}
	if _, err := do.Invoke[*render.Renderer](injector); err != nil {
		return err
	}
	if _, err := do.Invoke[*output.Storage](injector); err != nil {
		return err
	}
	if _, err := do.Invoke[*domain.Dataset](injector); err != nil {
		return err
	}
	if _, err := do.Invoke[*service.MapService](injector); err != nil {
		return err
	}
	return nil
}
