// Package config loads the run configuration from the process environment.
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds everything a single run needs. It is built once at startup and
// passed down explicitly; nothing reads the environment after Load returns.
type Config struct {
	Repository      string
	WindowHours     int
	GitHubToken     string
	OpenAIAPIKey    string
	OpenAIModel     string
	SlackWebhookURL string
}

// Load reads the environment (with an optional .env file for local runs) and
// validates the values every run depends on.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Repository:      os.Getenv("GITHUB_REPOSITORY"),
		WindowHours:     24,
		GitHubToken:     os.Getenv("GITHUB_TOKEN"),
		OpenAIAPIKey:    os.Getenv("OPENAI_API_KEY"),
		OpenAIModel:     getEnv("OPENAI_MODEL", "gpt-4o-mini"),
		SlackWebhookURL: os.Getenv("SLACK_WEBHOOK_URL"),
	}

	if raw := os.Getenv("WINDOW_HOURS"); raw != "" {
		hours, err := strconv.Atoi(raw)
		if err != nil || hours <= 0 {
			return nil, fmt.Errorf("WINDOW_HOURS must be a positive integer, got %q", raw)
		}
		cfg.WindowHours = hours
	}

	if cfg.GitHubToken == "" {
		return nil, fmt.Errorf("GITHUB_TOKEN environment variable is not set")
	}

	return cfg, nil
}

// ValidateDelivery checks the credentials that only the summarize and notify
// stages need. Collect-only runs skip this.
func (c *Config) ValidateDelivery() error {
	if c.OpenAIAPIKey == "" {
		return fmt.Errorf("OPENAI_API_KEY environment variable is not set")
	}
	if c.SlackWebhookURL == "" {
		return fmt.Errorf("SLACK_WEBHOOK_URL environment variable is not set")
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
