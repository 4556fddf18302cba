package prompt

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/naka-gawa/github-digest/internal/domain"
)

func sampleReport(t *testing.T) *domain.Report {
	t.Helper()
	since, err := time.Parse(time.RFC3339, "2026-08-27T00:00:00Z")
	require.NoError(t, err)
	window := domain.Window{Since: since, Until: since.Add(24 * time.Hour)}

	return &domain.Report{
		Repository: "o/r",
		Window:     window,
		PullRequests: []domain.PullRequest{
			{Number: 7, Title: "Add parser", Author: "alice", State: "closed", Merged: true, BaseBranch: "main", Additions: 120, Deletions: 30, ChangedFiles: 4, Commits: 2},
		},
		Commits: []domain.Commit{
			{ShortSHA: "abc1234", Message: "fix: handle nil window", Author: "alice", Additions: 5, Deletions: 2, FilesChanged: 2},
			{ShortSHA: "bcd2345", Message: "chore: bump deps", AuthorName: "Bob", Additions: 10, Deletions: 10, FilesChanged: 1},
		},
	}
}

func TestBuildUserPrompt(t *testing.T) {
	prompt := BuildUserPrompt(sampleReport(t))

	assert.Contains(t, prompt, "Repository: o/r")
	assert.Contains(t, prompt, "Window: 2026-08-27T00:00:00Z to 2026-08-28T00:00:00Z")
	assert.Contains(t, prompt, "Totals: 1 pull requests, 2 commits")

	// A merged PR reads as merged regardless of the API state field.
	assert.Contains(t, prompt, `#7 "Add parser" by alice [merged] base:main +120/-30 (4 files, 2 commits)`)

	// Commits with no linked login fall back to the commit author name.
	assert.Contains(t, prompt, `abc1234 "fix: handle nil window" by alice +5/-2 (2 files)`)
	assert.Contains(t, prompt, `bcd2345 "chore: bump deps" by Bob +10/-10 (1 files)`)

	// The churn line: 7 + 20 = 27 total, median of {7, 20} is 13.5 -> 14.
	assert.Contains(t, prompt, "Commit churn: 27 lines total, median 14 lines per commit")
}

func TestBuildUserPromptOmitsEmptySections(t *testing.T) {
	report := sampleReport(t)
	report.PullRequests = nil
	prompt := BuildUserPrompt(report)
	assert.NotContains(t, prompt, "Pull requests:")
	assert.Contains(t, prompt, "Commits on the default branch:")

	report = sampleReport(t)
	report.Commits = nil
	prompt = BuildUserPrompt(report)
	assert.Contains(t, prompt, "Pull requests:")
	assert.NotContains(t, prompt, "Commits on the default branch:")
	assert.NotContains(t, prompt, "Commit churn:")
}

func TestSystemPromptShape(t *testing.T) {
	// The notifier renders Slack mrkdwn, so the instruction must ask for it.
	assert.True(t, strings.Contains(SystemPrompt, "Group findings by developer"))
	assert.True(t, strings.Contains(SystemPrompt, "Slack-style"))
}
