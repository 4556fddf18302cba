// Package usecase contains the business logic of the application.
package usecase

import (
	"context"
	"fmt"
	"log"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/naka-gawa/github-digest/internal/domain"
	"github.com/naka-gawa/github-digest/internal/gateway"
)

// Collector is the use case that assembles the activity report for one window.
type Collector struct {
	fetcher gateway.Fetcher
	logger  *log.Logger
}

// NewCollector creates a new Collector instance.
func NewCollector(fetcher gateway.Fetcher, logger *log.Logger) *Collector {
	return &Collector{
		fetcher: fetcher,
		logger:  logger,
	}
}

// Collect resolves the default branch, fetches pull requests and commits
// concurrently, and filters both to the window. It is a pure function of the
// window and the upstream data: same inputs, same report.
func (c *Collector) Collect(ctx context.Context, repository string, window domain.Window) (*domain.Report, error) {
	c.logger.Println("Usecase: Starting activity collection...")

	owner, name, ok := strings.Cut(repository, "/")
	if !ok || owner == "" || name == "" {
		return nil, fmt.Errorf("repository must be in owner/name form, got %q", repository)
	}

	branch, err := c.fetcher.FetchDefaultBranch(ctx, owner, name)
	if err != nil {
		return nil, err
	}

	var prs []domain.PullRequest
	var commits []domain.Commit

	// The two fetches are independent; run them concurrently.
	eg, egCtx := errgroup.WithContext(ctx)

	eg.Go(func() error {
		var err error
		prs, err = c.fetcher.FetchPullRequests(egCtx, owner, name, window)
		return err
	})

	eg.Go(func() error {
		var err error
		commits, err = c.fetcher.FetchCommits(egCtx, owner, name, branch, window)
		return err
	})

	if err := eg.Wait(); err != nil {
		return nil, err
	}

	// The gateway already filters, but window membership is this layer's
	// contract, so it is enforced here against the exact boundaries too.
	prs = filterPullRequests(prs, window)
	commits = filterCommits(commits, window)

	c.logger.Printf("Usecase: Collected %d pull requests and %d commits.\n", len(prs), len(commits))
	return &domain.Report{
		Repository:   repository,
		Window:       window,
		PullRequests: prs,
		Commits:      commits,
	}, nil
}

// filterPullRequests keeps pull requests created or updated inside the window.
func filterPullRequests(prs []domain.PullRequest, window domain.Window) []domain.PullRequest {
	filtered := make([]domain.PullRequest, 0, len(prs))
	for _, pr := range prs {
		if window.Contains(pr.CreatedAt) || window.Contains(pr.UpdatedAt) {
			filtered = append(filtered, pr)
		}
	}
	return filtered
}

// filterCommits keeps commits whose timestamp is inside the window.
func filterCommits(commits []domain.Commit, window domain.Window) []domain.Commit {
	filtered := make([]domain.Commit, 0, len(commits))
	for _, c := range commits {
		if window.Contains(c.Date) {
			filtered = append(filtered, c)
		}
	}
	return filtered
}
