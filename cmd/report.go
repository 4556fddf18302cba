// Package cmd contains all the CLI commands for the application,
// built using the Cobra library.
package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/naka-gawa/github-digest/internal/config"
	"github.com/naka-gawa/github-digest/internal/domain"
	"github.com/naka-gawa/github-digest/internal/gateway"
	"github.com/naka-gawa/github-digest/internal/usecase"
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Collects recent repository activity and posts a summarized digest",
	Long: `Collects pull requests and commits for the configured repository over the
trailing window (default 24 hours), summarizes them with the chat completions
API, and posts the digest to the configured webhook. With --collect-only the
collected activity is printed as JSON instead and nothing is summarized or
posted.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()

		// Get the verbose flag from the root command to set up the logger.
		verbose, _ := cmd.InheritedFlags().GetBool("verbose")
		logger := log.New(io.Discard, "", log.LstdFlags) // Default: discard all logs.
		if verbose {
			logger.SetOutput(os.Stderr) // If verbose, log to standard error.
		}

		cfg, err := config.Load()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		// Flags override the environment.
		if repo, _ := cmd.Flags().GetString("repo"); repo != "" {
			cfg.Repository = repo
		}
		if cmd.Flags().Changed("window-hours") {
			hours, _ := cmd.Flags().GetInt("window-hours")
			if hours <= 0 {
				fmt.Fprintln(os.Stderr, "Error: --window-hours must be a positive integer")
				os.Exit(1)
			}
			cfg.WindowHours = hours
		}
		if cfg.Repository == "" {
			fmt.Fprintln(os.Stderr, "Error: set GITHUB_REPOSITORY or pass --repo owner/name")
			os.Exit(1)
		}

		collectOnly, _ := cmd.Flags().GetBool("collect-only")
		if !collectOnly {
			if err := cfg.ValidateDelivery(); err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				os.Exit(1)
			}
		}

		// The window is computed fresh for every run.
		window := domain.NewWindow(time.Now().UTC(), cfg.WindowHours)

		// Inject dependencies and run the pipeline.
		githubGateway := gateway.NewGitHubGateway(cfg.GitHubToken, logger)
		collector := usecase.NewCollector(githubGateway, logger)

		report, err := collector.Collect(ctx, cfg.Repository, window)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to collect activity: %v\n", err)
			os.Exit(1)
		}

		if collectOnly {
			jsonData, err := json.MarshalIndent(report, "", "  ")
			if err != nil {
				fmt.Fprintf(os.Stderr, "Failed to marshal report to JSON: %v\n", err)
				os.Exit(1)
			}
			fmt.Println(string(jsonData))
			return
		}

		digest := usecase.NewDigest(
			gateway.NewOpenAIGateway(cfg.OpenAIAPIKey, cfg.OpenAIModel, logger),
			gateway.NewSlackGateway(cfg.SlackWebhookURL, logger),
			logger,
		)
		if err := digest.Run(ctx, report); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to deliver digest: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(reportCmd)
	reportCmd.Flags().StringP("repo", "r", "", "Target repository in owner/name form (defaults to GITHUB_REPOSITORY)")
	reportCmd.Flags().Int("window-hours", 24, "Trailing window size in hours (defaults to WINDOW_HOURS or 24)")
	reportCmd.Flags().Bool("collect-only", false, "Print the collected activity as JSON and skip summarize/notify")
}
