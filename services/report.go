package services

import (
	"context"
	"fmt"
	"io"

	"go.uber.org/zap"

	"github.com/beyondstorage/cleanup-repos/model"
)

// Archiver archives a single repo.
type Archiver interface {
	ArchiveRepo(ctx context.Context, repo string) (repoURL string, err error)
}

// Report prints candidates to w and archives them unless dryRun is set.
//
// A failed archive is logged and counted, and the remaining candidates are
// still processed.
func Report(ctx context.Context, w io.Writer, logger *zap.Logger, a Archiver,
	candidates model.Repositories, dryRun bool) model.Summary {
	stat := model.Summary{DryRun: dryRun}

	if len(candidates) == 0 {
		fmt.Fprintln(w, "No in-active repositories, nothing to archive.")
		return stat
	}

	fmt.Fprintf(w, "In-active repositories: %d\n\n", len(candidates))

	for _, v := range candidates {
		stat.CountCandidate()
		fmt.Fprintln(w, v.Name)

		if dryRun {
			fmt.Fprintf(w, "Would archive: %s\n", v.Name)
			continue
		}

		url, err := a.ArchiveRepo(ctx, v.Name)
		if err != nil {
			stat.CountFailed()
			logger.Error("archive repo", zap.String("repo", v.Name), zap.Error(err))
			fmt.Fprintf(w, "Failed to archive %s: %v\n", v.Name, err)
			continue
		}
		stat.CountArchived()
		logger.Info("archived repo", zap.String("repo", v.Name), zap.String("url", url))
		fmt.Fprintf(w, "Archived %s\n", url)
	}
	return stat
}
