package service

import (
	"context"
	"log/slog"

	"github.com/listenupapp/repostmap/internal/domain"
	"github.com/listenupapp/repostmap/internal/geo"
	"github.com/listenupapp/repostmap/internal/normalize"
	"github.com/listenupapp/repostmap/internal/sheet"
)

// DatasetOptions locates the inputs of a run.
type DatasetOptions struct {
	DataPath         string
	Sheet            string
	BoundariesPath   string
	NameField        string
	AliasesPath      string
	NormalizeUnicode bool
}

// DatasetLoader reads the boundaries and the spreadsheet and normalizes the
// country column so it joins against the boundary names.
type DatasetLoader struct {
	opts   DatasetOptions
	logger *slog.Logger
}

// NewDatasetLoader creates a new dataset loader.
func NewDatasetLoader(opts DatasetOptions, logger *slog.Logger) *DatasetLoader {
	return &DatasetLoader{
		opts:   opts,
		logger: logger,
	}
}

// Load builds the dataset. Any error here is fatal for the run: a missing
// file, sheet, column, or name attribute leaves nothing to render.
func (l *DatasetLoader) Load(ctx context.Context) (*domain.Dataset, error) {
	boundaries, err := geo.Load(l.opts.BoundariesPath, l.opts.NameField)
	if err != nil {
		return nil, err
	}
	ds := &domain.Dataset{Boundaries: boundaries}
	l.logger.Debug("boundaries loaded",
		"path", l.opts.BoundariesPath,
		"count", len(boundaries),
	)

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	aliases, err := l.aliases(ds.BoundaryNames())
	if err != nil {
		return nil, err
	}

	records, err := sheet.Load(l.opts.DataPath, l.opts.Sheet)
	if err != nil {
		return nil, err
	}

	var opts []normalize.Option
	if l.opts.NormalizeUnicode {
		opts = append(opts, normalize.WithUnicodeComposition())
	}
	normalize.New(aliases, opts...).Apply(records)
	ds.Records = records

	l.logger.Info("dataset loaded",
		"records", len(records),
		"boundaries", len(boundaries),
		"aliases", len(aliases),
	)
	return ds, nil
}

// aliases merges the built-in table with the optional alias file, warns about
// entries that cannot work against these boundaries, and drops the ones that
// would rewrite a canonical name.
func (l *DatasetLoader) aliases(boundaryNames map[string]struct{}) (map[string]string, error) {
	aliases := normalize.DefaultAliases
	if l.opts.AliasesPath != "" {
		extra, err := normalize.LoadAliasFile(l.opts.AliasesPath)
		if err != nil {
			return nil, err
		}
		aliases = normalize.Merge(aliases, extra)
	}

	for _, p := range normalize.CheckAliases(aliases, boundaryNames) {
		l.logger.Warn("country alias ignored or ineffective",
			"alias", p.Alias,
			"canonical", p.Canonical,
			"reason", p.Reason,
		)
	}
	return normalize.PruneShadowing(aliases, boundaryNames), nil
}
