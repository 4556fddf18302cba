package usecase

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/naka-gawa/github-digest/internal/domain"
)

// mockSummarizer is a mock implementation of the gateway.Summarizer interface.
type mockSummarizer struct {
	mock.Mock
}

func (m *mockSummarizer) Summarize(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	args := m.Called(ctx, systemPrompt, userPrompt)
	return args.String(0), args.Error(1)
}

// mockNotifier is a mock implementation of the gateway.Notifier interface.
type mockNotifier struct {
	mock.Mock
}

func (m *mockNotifier) Notify(ctx context.Context, text string) error {
	args := m.Called(ctx, text)
	return args.Error(0)
}

func reportWithActivity(t *testing.T) *domain.Report {
	window := collectorWindow(t)
	return &domain.Report{
		Repository: "o/r",
		Window:     window,
		PullRequests: []domain.PullRequest{
			{Number: 7, Title: "Add parser", Author: "alice", State: "closed", Merged: true, CreatedAt: window.Since, UpdatedAt: window.Since},
			{Number: 8, Title: "Fix flaky test", Author: "bob", State: "closed", Merged: true, CreatedAt: window.Since, UpdatedAt: window.Since},
		},
		Commits: []domain.Commit{
			{SHA: "abc1234def", ShortSHA: "abc1234", Message: "fix: handle nil window", Author: "alice", Date: window.Since},
			{SHA: "bcd2345efa", ShortSHA: "bcd2345", Message: "chore: bump deps", Author: "bob", Date: window.Since},
			{SHA: "cde3456fab", ShortSHA: "cde3456", Message: "feat: add digest cmd", Author: "alice", Date: window.Since},
			{SHA: "def4567abc", ShortSHA: "def4567", Message: "docs: update readme", Author: "carol", Date: window.Since},
			{SHA: "efa5678bcd", ShortSHA: "efa5678", Message: "refactor: split gateway", Author: "alice", Date: window.Since},
		},
	}
}

func emptyReport(t *testing.T) *domain.Report {
	return &domain.Report{Repository: "o/r", Window: collectorWindow(t)}
}

func TestDigest_Run(t *testing.T) {
	t.Run("activity in the window - one summarizer call, body delivered verbatim", func(t *testing.T) {
		report := reportWithActivity(t)
		generated := "*alice*\n- merged #7, three commits\n*bob*\n- merged #8"

		summarizer := new(mockSummarizer)
		summarizer.On("Summarize", mock.Anything, mock.Anything, mock.MatchedBy(func(userPrompt string) bool {
			return strings.Contains(userPrompt, "o/r") &&
				strings.Contains(userPrompt, "Add parser") &&
				strings.Contains(userPrompt, "abc1234")
		})).Return(generated, nil).Once()

		notifier := new(mockNotifier)
		notifier.On("Notify", mock.Anything, "*Daily digest for o/r (2026-08-28)*\n\n"+generated).Return(nil).Once()

		digest := NewDigest(summarizer, notifier, testLogger())
		err := digest.Run(context.Background(), report)
		require.NoError(t, err)

		summarizer.AssertExpectations(t)
		notifier.AssertExpectations(t)
	})

	t.Run("empty window - fixed message, summarizer never called", func(t *testing.T) {
		summarizer := new(mockSummarizer)
		notifier := new(mockNotifier)
		notifier.On("Notify", mock.Anything, "*Daily digest for o/r (2026-08-28)*\n\n"+NoActivityMessage).Return(nil).Once()

		digest := NewDigest(summarizer, notifier, testLogger())
		err := digest.Run(context.Background(), emptyReport(t))
		require.NoError(t, err)

		summarizer.AssertNotCalled(t, "Summarize")
		notifier.AssertExpectations(t)
	})

	t.Run("error case - malformed model response aborts before notification", func(t *testing.T) {
		summarizer := new(mockSummarizer)
		summarizer.On("Summarize", mock.Anything, mock.Anything, mock.Anything).
			Return("", domain.NewMalformedResponseError(domain.DepOpenAI, "chat completions returned no choices"))

		notifier := new(mockNotifier)

		digest := NewDigest(summarizer, notifier, testLogger())
		err := digest.Run(context.Background(), reportWithActivity(t))

		assert.ErrorIs(t, err, domain.ErrMalformedResponse)
		notifier.AssertNotCalled(t, "Notify")
	})

	t.Run("error case - failed delivery surfaces as a run failure", func(t *testing.T) {
		summarizer := new(mockSummarizer)
		summarizer.On("Summarize", mock.Anything, mock.Anything, mock.Anything).Return("summary", nil)

		notifier := new(mockNotifier)
		notifier.On("Notify", mock.Anything, mock.Anything).
			Return(domain.NewNetworkError(domain.DepSlack, "webhook responded with 500 Internal Server Error"))

		digest := NewDigest(summarizer, notifier, testLogger())
		err := digest.Run(context.Background(), reportWithActivity(t))

		assert.ErrorIs(t, err, domain.ErrNetwork)
	})
}
