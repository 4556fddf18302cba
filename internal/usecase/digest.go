package usecase

import (
	"context"
	"fmt"
	"log"

	"github.com/naka-gawa/github-digest/internal/domain"
	"github.com/naka-gawa/github-digest/internal/gateway"
	"github.com/naka-gawa/github-digest/internal/prompt"
)

// NoActivityMessage is posted when the window holds no pull requests and no
// commits. The model is not called in that case.
const NoActivityMessage = "No activity in the last 24 hours."

// Digest is the use case that summarizes a report and delivers the result.
type Digest struct {
	summarizer gateway.Summarizer
	notifier   gateway.Notifier
	logger     *log.Logger
}

// NewDigest creates a new Digest instance.
func NewDigest(summarizer gateway.Summarizer, notifier gateway.Notifier, logger *log.Logger) *Digest {
	return &Digest{
		summarizer: summarizer,
		notifier:   notifier,
		logger:     logger,
	}
}

// Summarize produces the digest body for a report. Empty reports short-circuit
// to the fixed message; everything else goes through the model exactly once
// and comes back verbatim.
func (d *Digest) Summarize(ctx context.Context, report *domain.Report) (string, error) {
	if report.Empty() {
		d.logger.Println("Usecase: No activity in the window, skipping the summarizer.")
		return NoActivityMessage, nil
	}

	summary, err := d.summarizer.Summarize(ctx, prompt.SystemPrompt, prompt.BuildUserPrompt(report))
	if err != nil {
		return "", err
	}
	return summary, nil
}

// Deliver posts the summary under a header naming the repository and the
// report date.
func (d *Digest) Deliver(ctx context.Context, report *domain.Report, summary string) error {
	header := fmt.Sprintf("*Daily digest for %s (%s)*",
		report.Repository, report.Window.Until.Format("2006-01-02"))
	return d.notifier.Notify(ctx, header+"\n\n"+summary)
}

// Run executes the summarize and notify stages in order.
func (d *Digest) Run(ctx context.Context, report *domain.Report) error {
	summary, err := d.Summarize(ctx, report)
	if err != nil {
		return err
	}
	if err := d.Deliver(ctx, report, summary); err != nil {
		return err
	}
	d.logger.Println("Usecase: Digest delivered.")
	return nil
}
