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

// Summarizer defines the behavior of a gateway that turns a prompt into summary text.
type Summarizer interface {
	Summarize(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

// OpenAIGateway is a minimal client for the chat completions API.
type OpenAIGateway struct {
	apiKey     string
	model      string
	baseURL    string
	httpClient *http.Client
	logger     *log.Logger
}

const defaultOpenAIBaseURL = "https://api.openai.com/v1"

// NewOpenAIGateway is a constructor that creates a new instance of OpenAIGateway.
func NewOpenAIGateway(apiKey, model string, logger *log.Logger) *OpenAIGateway {
	return &OpenAIGateway{
		apiKey:     apiKey,
		model:      model,
		baseURL:    defaultOpenAIBaseURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		logger:     logger,
	}
}

// Summarize sends the system and user prompts in a single request and returns
// the generated text exactly as the model produced it.
func (g *OpenAIGateway) Summarize(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	g.logger.Println("Requesting summary from the chat completions API...")
	payload := map[string]any{
		"model": g.model,
		"messages": []map[string]string{
			{"role": "system", "content": systemPrompt},
			{"role": "user", "content": userPrompt},
		},
		"temperature": 0.3,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("marshal chat completions payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build chat completions request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+g.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return "", domain.NewNetworkError(domain.DepOpenAI, "call chat completions: %v", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return "", domain.NewAuthenticationError(domain.DepOpenAI, "chat completions responded with %s", resp.Status)
	case resp.StatusCode == http.StatusTooManyRequests:
		return "", domain.NewQuotaExceededError(domain.DepOpenAI, "chat completions responded with %s", resp.Status)
	case resp.StatusCode >= 400:
		return "", domain.NewNetworkError(domain.DepOpenAI, "chat completions responded with %s", resp.Status)
	}

	var parsed struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", domain.NewMalformedResponseError(domain.DepOpenAI, "decode chat completions response: %v", err)
	}
	if len(parsed.Choices) == 0 {
		return "", domain.NewMalformedResponseError(domain.DepOpenAI, "chat completions returned no choices")
	}

	g.logger.Println("Completed requesting summary.")
	return parsed.Choices[0].Message.Content, nil
}
