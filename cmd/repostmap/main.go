// Package main provides the entry point for repostmap, which renders one
// choropleth map of repost counts per issue.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/samber/do/v2"

	"github.com/listenupapp/repostmap/internal/di"
	"github.com/listenupapp/repostmap/internal/domain"
	"github.com/listenupapp/repostmap/internal/logger"
	"github.com/listenupapp/repostmap/internal/service"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run executes one pass over the dataset and returns the process exit code:
// 0 when every issue was saved, 1 otherwise.
func run(args []string, stdout, stderr io.Writer) int {
	// Create DI container
	injector := di.NewContainer(args, stdout, stderr)

	// Bootstrap all services
	if err := di.Bootstrap(injector); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		fmt.Fprintf(stderr, "Failed to start repostmap: %v\n", err)
		return 1
	}

	log := do.MustInvoke[*logger.Logger](injector)
	ds := do.MustInvoke[*domain.Dataset](injector)
	svc := do.MustInvoke[*service.MapService](injector)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	summary, err := svc.Run(ctx, ds)

	if report := injector.Shutdown(); report != nil && len(report.Errors) > 0 {
		log.Error("Shutdown error", "error", report.Error())
	}

	if err != nil {
		log.Error("Some maps were not produced",
			"failed", len(summary.Failed),
			"saved", len(summary.Saved),
		)
		return 1
	}
	return 0
}
