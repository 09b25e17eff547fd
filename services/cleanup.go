package services

import (
	"context"
	"fmt"
	"io"
	"time"

	"go.uber.org/zap"

	"github.com/beyondstorage/cleanup-repos/model"
)

// Lister lists every non-archived repo of an owner.
type Lister interface {
	ListRepos(ctx context.Context) ([]model.Repository, error)
}

type CleanupOptions struct {
	Stale  model.StaleOptions
	DryRun bool
	// Now defaults to time.Now.
	Now func() time.Time
}

// Cleanup fetches all repos, selects the stale ones and reports or archives them.
//
// Any fetch error aborts the run before anything is reported.
func Cleanup(ctx context.Context, w io.Writer, logger *zap.Logger, l Lister, a Archiver,
	opt CleanupOptions) (model.Repositories, model.Summary, error) {
	now := time.Now
	if opt.Now != nil {
		now = opt.Now
	}

	repos, err := l.ListRepos(ctx)
	if err != nil {
		return nil, model.Summary{DryRun: opt.DryRun}, fmt.Errorf("list repos: %w", err)
	}

	stale := model.SelectStale(repos, opt.Stale, now())
	logger.Info("selected stale repos",
		zap.Int("total", len(repos)),
		zap.Int("stale", len(stale)),
		zap.Int("threshold_weeks", opt.Stale.ThresholdWeeks),
		zap.Int("exclusions", opt.Stale.Exclusions.Len()))

	stat := Report(ctx, w, logger, a, stale, opt.DryRun)
	return stale, stat, nil
}
