package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/naka-gawa/github-digest/internal/domain"
)

// Notifier defines the behavior of a gateway that delivers the digest message.
type Notifier interface {
	Notify(ctx context.Context, text string) error
}

// SlackGateway posts messages to an incoming-webhook URL. One message per run,
// no retry; a non-2xx answer fails the run.
type SlackGateway struct {
	webhookURL string
	httpClient *http.Client
	logger     *log.Logger
}

// NewSlackGateway is a constructor that creates a new instance of SlackGateway.
func NewSlackGateway(webhookURL string, logger *log.Logger) *SlackGateway {
	return &SlackGateway{
		webhookURL: webhookURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		logger:     logger,
	}
}

func (g *SlackGateway) Notify(ctx context.Context, text string) error {
	g.logger.Println("Posting digest to the webhook...")
	body, err := json.Marshal(map[string]string{"text": text})
	if err != nil {
		return fmt.Errorf("marshal webhook payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.webhookURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return domain.NewNetworkError(domain.DepSlack, "call webhook: %v", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return domain.NewAuthenticationError(domain.DepSlack, "webhook responded with %s", resp.Status)
	case resp.StatusCode == http.StatusTooManyRequests:
		return domain.NewQuotaExceededError(domain.DepSlack, "webhook responded with %s", resp.Status)
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		return domain.NewNetworkError(domain.DepSlack, "webhook responded with %s", resp.Status)
	}

	g.logger.Println("Completed posting digest.")
	return nil
}
