package providers

import (
	"context"
	"math"

	"github.com/samber/do/v2"

	"github.com/listenupapp/repostmap/internal/config"
	"github.com/listenupapp/repostmap/internal/domain"
	"github.com/listenupapp/repostmap/internal/logger"
	"github.com/listenupapp/repostmap/internal/output"
	"github.com/listenupapp/repostmap/internal/render"
	"github.com/listenupapp/repostmap/internal/service"
)

// ProvideDataset loads boundaries and records. Failure here is fatal.
func ProvideDataset(i do.Injector) (*domain.Dataset, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	loader := service.NewDatasetLoader(service.DatasetOptions{
		DataPath:         cfg.Input.DataPath,
		Sheet:            cfg.Input.Sheet,
		BoundariesPath:   cfg.Input.BoundariesPath,
		NameField:        cfg.Input.BoundaryNameField,
		AliasesPath:      cfg.Input.AliasesPath,
		NormalizeUnicode: cfg.Input.NormalizeUnicode,
	}, log.Logger)

	return loader.Load(context.Background())
}

// ProvideRenderer provides the map renderer.
func ProvideRenderer(i do.Injector) (*render.Renderer, error) {
	cfg := do.MustInvoke[*config.Config](i)

	return render.New(render.Options{
		DPI:         int(math.Round(cfg.Map.DPI)),
		WidthIn:     cfg.Map.WidthInch,
		HeightIn:    cfg.Map.HeightInch,
		NeutralZero: cfg.Map.NeutralZero,
	})
}

// ProvideStorage provides the output directory storage.
func ProvideStorage(i do.Injector) (*output.Storage, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	storage, err := output.NewStorage(cfg.Output.Dir)
	if err != nil {
		return nil, err
	}
	log.Debug("Output storage initialized", "dir", storage.Dir())
	return storage, nil
}

// ProvideMapService provides the per-issue map service.
func ProvideMapService(i do.Injector) (*service.MapService, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)
	console := do.MustInvoke[Console](i)
	renderer := do.MustInvoke[*render.Renderer](i)
	storage := do.MustInvoke[*output.Storage](i)

	return service.NewMapService(renderer, storage, console.Out, log.Logger, cfg.Output.ReportDropped), nil
}
