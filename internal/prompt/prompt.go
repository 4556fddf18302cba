// Package prompt builds the prompts sent to the chat completions API.
package prompt

import (
	"fmt"
	"strings"
	"time"

	"github.com/montanaflynn/stats"

	"github.com/naka-gawa/github-digest/internal/domain"
)

// SystemPrompt instructs the model how to shape the digest. The output target
// is a Slack message, so the bullets use mrkdwn formatting.
const SystemPrompt = `You are an engineering activity editor. Given a list of pull requests and commits from a repository's last day, write a short digest for the team's chat channel.

Rules:
- Group findings by developer
- Use concise Slack-style bullets (*bold* for developer names, "-" for items)
- Mention PR numbers and short commit hashes where relevant
- Skip formulaic boilerplate; focus on what actually changed`

// BuildUserPrompt serializes a report into the prompt body: a header naming
// the repository and window, aggregate figures, then one line per record.
func BuildUserPrompt(report *domain.Report) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Repository: %s\n", report.Repository)
	fmt.Fprintf(&b, "Window: %s to %s\n",
		report.Window.Since.Format(time.RFC3339),
		report.Window.Until.Format(time.RFC3339))
	writeFigures(&b, report)

	if len(report.PullRequests) > 0 {
		b.WriteString("Pull requests:\n")
		for _, pr := range report.PullRequests {
			fmt.Fprintf(&b, "- #%d %q by %s [%s] base:%s +%d/-%d (%d files, %d commits)\n",
				pr.Number, pr.Title, pr.Author, prState(pr), pr.BaseBranch,
				pr.Additions, pr.Deletions, pr.ChangedFiles, pr.Commits)
		}
		b.WriteString("\n")
	}

	if len(report.Commits) > 0 {
		b.WriteString("Commits on the default branch:\n")
		for _, c := range report.Commits {
			author := c.Author
			if author == "" {
				author = c.AuthorName
			}
			fmt.Fprintf(&b, "- %s %q by %s +%d/-%d (%d files)\n",
				c.ShortSHA, c.Message, author, c.Additions, c.Deletions, c.FilesChanged)
		}
	}

	return b.String()
}

// writeFigures adds a small aggregate block so the model does not have to
// count or sum anything itself.
func writeFigures(b *strings.Builder, report *domain.Report) {
	fmt.Fprintf(b, "Totals: %d pull requests, %d commits\n",
		len(report.PullRequests), len(report.Commits))

	if len(report.Commits) > 0 {
		sizes := make([]float64, 0, len(report.Commits))
		for _, c := range report.Commits {
			sizes = append(sizes, float64(c.Additions+c.Deletions))
		}
		total, errSum := stats.Sum(sizes)
		median, errMedian := stats.Median(sizes)
		if errSum == nil && errMedian == nil {
			fmt.Fprintf(b, "Commit churn: %.0f lines total, median %.0f lines per commit\n", total, median)
		}
	}
	b.WriteString("\n")
}

func prState(pr domain.PullRequest) string {
	if pr.Merged {
		return "merged"
	}
	return pr.State
}
