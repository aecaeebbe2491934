// Package service runs the per-issue map pipeline: aggregate, render, save.
package service

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/listenupapp/repostmap/internal/aggregate"
	"github.com/listenupapp/repostmap/internal/domain"
	domainerrors "github.com/listenupapp/repostmap/internal/errors"
)

// Renderer draws the map for one aggregate.
type Renderer interface {
	RenderJPEG(w io.Writer, agg domain.Aggregate, boundaries []domain.Boundary) error
}

// Storage persists one encoded map per issue and returns where it went.
type Storage interface {
	Save(issue string, data []byte) (string, error)
}

// RunSummary reports what a run produced.
type RunSummary struct {
	Issues int
	Saved  []string
	Failed []string
}

// MapService renders and saves one map per issue.
type MapService struct {
	renderer      Renderer
	storage       Storage
	stdout        io.Writer
	logger        *slog.Logger
	reportDropped bool
}

// NewMapService creates a new map service. Saved paths are printed to stdout.
func NewMapService(renderer Renderer, storage Storage, stdout io.Writer, logger *slog.Logger, reportDropped bool) *MapService {
	return &MapService{
		renderer:      renderer,
		storage:       storage,
		stdout:        stdout,
		logger:        logger,
		reportDropped: reportDropped,
	}
}

// Run processes every issue of ds in order of first appearance. A render or
// write failure on one issue is logged and the run moves on; any other error
// stops the run. The returned error joins every failure. Cancelling ctx
// stops before the next issue.
func (s *MapService) Run(ctx context.Context, ds *domain.Dataset) (RunSummary, error) {
	var (
		summary  RunSummary
		failures []error
	)

	for issue := range aggregate.Issues(ds.Records) {
		if err := ctx.Err(); err != nil {
			failures = append(failures, err)
			break
		}
		summary.Issues++

		path, err := s.processIssue(ds, issue)
		if err != nil {
			s.logger.Error("failed to produce map",
				"issue", issue,
				"code", domainerrors.CodeOf(err),
				"error", err,
			)
			summary.Failed = append(summary.Failed, issue)
			failures = append(failures, fmt.Errorf("issue %q: %w", issue, err))
			if domainerrors.CodeOf(err).Fatal() {
				break
			}
			continue
		}

		summary.Saved = append(summary.Saved, path)
		if _, err := fmt.Fprintf(s.stdout, "Saved: %s\n", path); err != nil {
			s.logger.Warn("failed to report saved map", "path", path, "error", err)
		}
	}

	if summary.Issues == 0 && len(failures) == 0 {
		s.logger.Warn("no issues found; nothing to render", "records", len(ds.Records))
	}
	s.logger.Info("run finished",
		"issues", summary.Issues,
		"saved", len(summary.Saved),
		"failed", len(summary.Failed),
	)

	return summary, domainerrors.Join(failures...)
}

// processIssue renders one issue into memory and saves it. The encoded image
// is dropped on return whether or not the save succeeded.
func (s *MapService) processIssue(ds *domain.Dataset, issue string) (string, error) {
	agg := aggregate.Aggregate(ds, issue)
	s.logger.Debug("aggregated issue",
		"issue", issue,
		"records", agg.Total,
		"matched", agg.Matched,
		"max", agg.Max,
	)
	if s.reportDropped {
		s.reportDrops(agg)
	}

	var buf bytes.Buffer
	if err := s.renderer.RenderJPEG(&buf, agg, ds.Boundaries); err != nil {
		return "", err
	}
	return s.storage.Save(issue, buf.Bytes())
}

// reportDrops logs the records of an issue that never reach the map.
func (s *MapService) reportDrops(agg domain.Aggregate) {
	if agg.Dropped() == 0 {
		return
	}
	for _, name := range agg.UnmatchedNames() {
		s.logger.Warn("country has no boundary",
			"issue", agg.Issue,
			"country", name,
			"records", agg.Unmatched[name],
		)
	}
	if agg.NullCountry > 0 {
		s.logger.Warn("records without a country",
			"issue", agg.Issue,
			"records", agg.NullCountry,
			"rows", agg.NullRows,
		)
	}
}
