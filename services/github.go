package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/go-github/v35/github"
	"go.uber.org/zap"
	"golang.org/x/oauth2"

	"github.com/beyondstorage/cleanup-repos/model"
)

const pageSize = 100

type Github struct {
	owner string
	retry Retry

	logger *zap.Logger
	client *github.Client
}

// NewGithub creates a client for owner. An empty baseURL talks to github.com,
// anything else is treated as a GitHub Enterprise server.
func NewGithub(owner, token, baseURL string, retry Retry, logger *zap.Logger) (g *Github, err error) {
	if owner == "" {
		return nil, fmt.Errorf("github owner is empty")
	}
	if token == "" {
		return nil, fmt.Errorf("github access token is empty")
	}

	ctx := context.Background()
	tc := oauth2.NewClient(ctx, oauth2.StaticTokenSource(
		&oauth2.Token{AccessToken: token},
	))

	client := github.NewClient(tc)
	if baseURL != "" {
		client, err = github.NewEnterpriseClient(baseURL, baseURL, tc)
		if err != nil {
			return nil, fmt.Errorf("github enterprise client %s: %w", baseURL, err)
		}
	}

	g = &Github{
		owner:  owner,
		retry:  retry,
		logger: logger,
		client: client,
	}
	return
}

func (g *Github) Owner() string {
	return g.owner
}

// ListRepos returns all non-archived repos of the owner.
//
// The search API caps its results, so a result that upstream reports as
// incomplete or shorter than its total count is an error.
func (g *Github) ListRepos(ctx context.Context) ([]model.Repository, error) {
	start := time.Now()

	query := fmt.Sprintf("org:%s archived:false", g.owner)
	opt := &github.SearchOptions{
		ListOptions: github.ListOptions{
			PerPage: pageSize,
		},
	}

	rs := make([]model.Repository, 0)
	seen := 0
	for {
		var (
			result *github.RepositoriesSearchResult
			resp   *github.Response
		)
		err := g.retry.Do(ctx, g.logger, "search repos", func() (err error) {
			result, resp, err = g.client.Search.Repositories(ctx, query, opt)
			return err
		})
		if err != nil {
			g.logger.Error("search repos", zap.Int("page", opt.Page), zap.Error(err))
			return nil, fmt.Errorf("search repos: %w", err)
		}

		if result.GetIncompleteResults() {
			g.logger.Error("search repos incomplete", zap.Int("page", opt.Page))
			return nil, fmt.Errorf("search repos: upstream reported incomplete results on page %d", opt.Page)
		}

		seen += len(result.Repositories)
		for _, v := range result.Repositories {
			r, ok := repositoryFromGithub(v)
			if !ok {
				g.logger.Warn("ignore repo without name", zap.String("id", v.GetNodeID()))
				continue
			}
			rs = append(rs, r)
			g.logger.Debug("repo", zap.String("repo", r.Name))
		}

		if resp.NextPage == 0 {
			if seen < result.GetTotal() {
				g.logger.Error("search repos truncated",
					zap.Int("seen", seen),
					zap.Int("total", result.GetTotal()))
				return nil, fmt.Errorf("search repos: got %d of %d repos", seen, result.GetTotal())
			}
			break
		}
		opt.Page = resp.NextPage
	}

	g.logger.Info("list repos completed",
		zap.String("owner", g.owner),
		zap.Int("count", len(rs)),
		zap.Duration("elapsed", time.Since(start)))
	return rs, nil
}

// ArchiveRepo marks the repo as archived and returns its html url.
func (g *Github) ArchiveRepo(ctx context.Context, repo string) (repoURL string, err error) {
	r, _, err := g.client.Repositories.Edit(ctx, g.owner, repo, &github.Repository{
		Archived: github.Bool(true),
	})
	if err != nil {
		return "", fmt.Errorf("edit repo %s: %w", repo, err)
	}
	return r.GetHTMLURL(), nil
}

// repositoryFromGithub converts an upstream repo, reporting false if it
// has no name to act on.
func repositoryFromGithub(v *github.Repository) (model.Repository, bool) {
	if v == nil || v.GetName() == "" {
		return model.Repository{}, false
	}

	r := model.Repository{
		Name: v.GetName(),
		ID:   v.GetNodeID(),
		URL:  v.GetHTMLURL(),
		// A missing size is not the same as an empty repo.
		Empty: v.Size != nil && *v.Size == 0,
	}
	if v.UpdatedAt != nil {
		r.UpdatedAt = v.UpdatedAt.Time
	}
	return r, true
}
