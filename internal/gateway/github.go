// Package gateway provides gateways to the external services the pipeline
// depends on: the GitHub API, the chat completions API, and the chat webhook.
package gateway

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/google/go-github/v62/github"
	"github.com/shurcooL/githubv4"
	"golang.org/x/oauth2"

	"github.com/naka-gawa/github-digest/internal/domain"
)

// Fetcher defines the behavior of a gateway for fetching repository activity from GitHub.
type Fetcher interface {
	FetchDefaultBranch(ctx context.Context, owner, repo string) (string, error)
	FetchPullRequests(ctx context.Context, owner, repo string, window domain.Window) ([]domain.PullRequest, error)
	FetchCommits(ctx context.Context, owner, repo, branch string, window domain.Window) ([]domain.Commit, error)
}

// GitHubGateway is the concrete implementation of the Fetcher interface.
// It holds a REST client for the list/detail endpoints and a GraphQL client
// for the default-branch lookup.
type GitHubGateway struct {
	restClient    *github.Client
	graphqlClient *githubv4.Client
	logger        *log.Logger
}

const perPage = 50

// NewGitHubGateway is a constructor that creates a new instance of GitHubGateway.
func NewGitHubGateway(token string, logger *log.Logger) *GitHubGateway {
	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
	httpClient := &http.Client{
		Transport: &oauth2.Transport{Source: ts},
		Timeout:   30 * time.Second,
	}
	return &GitHubGateway{
		restClient:    github.NewClient(httpClient),
		graphqlClient: githubv4.NewClient(httpClient),
		logger:        logger,
	}
}

// defaultBranchQuery resolves the repository's default branch ref.
type defaultBranchQuery struct {
	Repository struct {
		DefaultBranchRef struct {
			Name githubv4.String
		}
	} `graphql:"repository(owner: $owner, name: $name)"`
}

func (g *GitHubGateway) FetchDefaultBranch(ctx context.Context, owner, repo string) (string, error) {
	g.logger.Println("[1/3] Resolving default branch using GraphQL API...")
	variables := map[string]interface{}{
		"owner": githubv4.String(owner),
		"name":  githubv4.String(repo),
	}
	var q defaultBranchQuery
	if err := g.graphqlClient.Query(ctx, &q, variables); err != nil {
		return "", classifyGraphQLError("resolve default branch", err)
	}
	branch := string(q.Repository.DefaultBranchRef.Name)
	if branch == "" {
		return "", domain.NewMalformedResponseError(domain.DepGitHub, "resolve default branch: query returned no ref for %s/%s", owner, repo)
	}
	g.logger.Printf("Completed resolving default branch: %s\n", branch)
	return branch, nil
}

// FetchPullRequests lists pull requests in all states, newest update first, and
// keeps the ones whose creation or last update falls inside the window.
func (g *GitHubGateway) FetchPullRequests(ctx context.Context, owner, repo string, window domain.Window) ([]domain.PullRequest, error) {
	g.logger.Println("[2/3] Fetching pull requests using REST API...")
	opts := &github.PullRequestListOptions{
		State:       "all",
		Sort:        "updated",
		Direction:   "desc",
		ListOptions: github.ListOptions{PerPage: perPage},
	}
	var prs []domain.PullRequest
	for {
		page, resp, err := g.restClient.PullRequests.List(ctx, owner, repo, opts)
		if err != nil {
			return nil, classifyRESTError("list pull requests", err)
		}
		for _, pr := range page {
			updated := pr.GetUpdatedAt().Time
			if updated.Before(window.Since) {
				// Sorted by updated_at descending, so nothing further back can qualify.
				g.logger.Println("Completed fetching pull requests.")
				return prs, nil
			}
			if !window.Contains(pr.GetCreatedAt().Time) && !window.Contains(updated) {
				continue
			}
			prs = append(prs, g.toPullRequest(ctx, owner, repo, pr))
		}
		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
		g.logger.Println("  Fetching next page of pull requests...")
	}
	g.logger.Println("Completed fetching pull requests.")
	return prs, nil
}

func (g *GitHubGateway) toPullRequest(ctx context.Context, owner, repo string, pr *github.PullRequest) domain.PullRequest {
	out := domain.PullRequest{
		Number:     pr.GetNumber(),
		Title:      pr.GetTitle(),
		Author:     pr.GetUser().GetLogin(),
		State:      pr.GetState(),
		Merged:     pr.MergedAt != nil,
		CreatedAt:  pr.GetCreatedAt().Time,
		UpdatedAt:  pr.GetUpdatedAt().Time,
		BaseBranch: pr.GetBase().GetRef(),
		URL:        pr.GetHTMLURL(),
	}
	if pr.MergedAt != nil {
		mergedAt := pr.GetMergedAt().Time
		out.MergedAt = &mergedAt
	}

	// Diff figures only come back from the detail endpoint. A failure here
	// downgrades to a warning; the record keeps zero-valued figures.
	detail, _, err := g.restClient.PullRequests.Get(ctx, owner, repo, out.Number)
	if err != nil {
		g.logger.Printf("  Warning: failed to fetch details for PR #%d: %v\n", out.Number, err)
		return out
	}
	out.Additions = detail.GetAdditions()
	out.Deletions = detail.GetDeletions()
	out.ChangedFiles = detail.GetChangedFiles()
	out.Commits = detail.GetCommits()
	if base := detail.GetBase().GetRef(); base != "" {
		out.BaseBranch = base
	}
	return out
}

// FetchCommits lists commits on the given branch and keeps the ones whose
// timestamp falls inside the window. The since/until parameters are server
// hints; membership is still checked client-side against the exact boundaries.
func (g *GitHubGateway) FetchCommits(ctx context.Context, owner, repo, branch string, window domain.Window) ([]domain.Commit, error) {
	g.logger.Println("[3/3] Fetching commits using REST API...")
	opts := &github.CommitsListOptions{
		SHA:         branch,
		Since:       window.Since,
		Until:       window.Until,
		ListOptions: github.ListOptions{PerPage: perPage},
	}
	var commits []domain.Commit
	for {
		page, resp, err := g.restClient.Repositories.ListCommits(ctx, owner, repo, opts)
		if err != nil {
			return nil, classifyRESTError("list commits", err)
		}
		for _, rc := range page {
			date := commitDate(rc)
			if date.IsZero() || !window.Contains(date) {
				continue
			}
			commits = append(commits, g.toCommit(ctx, owner, repo, rc, date))
		}
		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
		g.logger.Println("  Fetching next page of commits...")
	}
	g.logger.Println("Completed fetching commits.")
	return commits, nil
}

func (g *GitHubGateway) toCommit(ctx context.Context, owner, repo string, rc *github.RepositoryCommit, date time.Time) domain.Commit {
	sha := rc.GetSHA()
	// First line only; full bodies bloat the prompt without adding signal.
	message, _, _ := strings.Cut(rc.GetCommit().GetMessage(), "\n")
	out := domain.Commit{
		SHA:        sha,
		ShortSHA:   shortSHA(sha),
		Message:    message,
		Author:     rc.GetAuthor().GetLogin(),
		AuthorName: rc.GetCommit().GetAuthor().GetName(),
		Date:       date,
		URL:        rc.GetHTMLURL(),
	}

	detail, _, err := g.restClient.Repositories.GetCommit(ctx, owner, repo, sha, nil)
	if err != nil {
		g.logger.Printf("  Warning: failed to fetch details for commit %s: %v\n", out.ShortSHA, err)
		return out
	}
	out.Additions = detail.GetStats().GetAdditions()
	out.Deletions = detail.GetStats().GetDeletions()
	out.FilesChanged = len(detail.Files)
	return out
}

// commitDate prefers the author date and falls back to the committer date.
func commitDate(rc *github.RepositoryCommit) time.Time {
	if d := rc.GetCommit().GetAuthor().GetDate(); !d.IsZero() {
		return d.Time
	}
	return rc.GetCommit().GetCommitter().GetDate().Time
}

func shortSHA(sha string) string {
	if len(sha) > 7 {
		return sha[:7]
	}
	return sha
}

// classifyRESTError maps go-github error types onto the run's error taxonomy.
func classifyRESTError(op string, err error) error {
	var rateErr *github.RateLimitError
	if errors.As(err, &rateErr) {
		return domain.NewQuotaExceededError(domain.DepGitHub, "%s: rate limit exceeded, resets at %s", op, rateErr.Rate.Reset.Format(time.RFC3339))
	}
	var abuseErr *github.AbuseRateLimitError
	if errors.As(err, &abuseErr) {
		return domain.NewQuotaExceededError(domain.DepGitHub, "%s: secondary rate limit hit", op)
	}
	var respErr *github.ErrorResponse
	if errors.As(err, &respErr) && respErr.Response != nil {
		switch respErr.Response.StatusCode {
		case http.StatusUnauthorized, http.StatusForbidden:
			return domain.NewAuthenticationError(domain.DepGitHub, "%s: %s", op, respErr.Message)
		case http.StatusTooManyRequests:
			return domain.NewQuotaExceededError(domain.DepGitHub, "%s: %s", op, respErr.Message)
		}
	}
	return domain.NewNetworkError(domain.DepGitHub, "%s: %v", op, err)
}

// classifyGraphQLError maps githubv4 failures onto the taxonomy. The library
// surfaces the HTTP status only inside the error string, so matching is textual.
func classifyGraphQLError(op string, err error) error {
	msg := err.Error()
	switch {
	case strings.Contains(msg, "401") || strings.Contains(msg, "403"):
		return domain.NewAuthenticationError(domain.DepGitHub, "%s: %v", op, err)
	case strings.Contains(msg, "429") || strings.Contains(strings.ToLower(msg), "rate limit"):
		return domain.NewQuotaExceededError(domain.DepGitHub, "%s: %v", op, err)
	default:
		return domain.NewNetworkError(domain.DepGitHub, "%s: %v", op, err)
	}
}
