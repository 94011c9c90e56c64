package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/nitinNayar/github-recent-contributors/internal/config"
	"github.com/nitinNayar/github-recent-contributors/internal/gateway"
	"github.com/nitinNayar/github-recent-contributors/internal/output"
	"github.com/nitinNayar/github-recent-contributors/internal/usecase"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// reportFlags mirrors the command-line flags of the report command.
type reportFlags struct {
	verbose  bool
	noColor  bool
	envFile  string
	override config.Overrides
}

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Counts recent commit authors across an organization and saves a report",
	Long: `Lists the repositories and members of a GitHub organization, counts the commit
authors of every repository (or of the INTERESTING_REPOS allow-list) within the last
NUMBER_OF_DAYS days, and writes the result to the output directory.`,
	Run: func(cmd *cobra.Command, args []string) {
		flags := reportFlags{}
		// The flag is defined on rootCmd.
		flags.verbose, _ = cmd.InheritedFlags().GetBool("verbose")
		flags.noColor, _ = cmd.Flags().GetBool("no-color")
		flags.envFile, _ = cmd.Flags().GetString("env-file")
		flags.override.Org, _ = cmd.Flags().GetString("org")
		flags.override.Days, _ = cmd.Flags().GetInt("days")
		flags.override.Repos, _ = cmd.Flags().GetString("repos")
		flags.override.OutputDir, _ = cmd.Flags().GetString("output-dir")
		flags.override.Format, _ = cmd.Flags().GetString("format")
		flags.override.Workers, _ = cmd.Flags().GetInt("workers")
		flags.override.APIURL, _ = cmd.Flags().GetString("api-url")
		flags.override.LogLevel, _ = cmd.Flags().GetString("log-level")

		if err := runReport(cmd.Context(), cmd.OutOrStdout(), os.Stderr, flags, time.Now()); err != nil {
			fmt.Fprintln(os.Stderr, color.RedString("Error: %v", err))
			if hint := hintFor(err); hint != "" {
				fmt.Fprintln(os.Stderr, hint)
			}
			os.Exit(1)
		}
	},
}

// runReport loads the configuration, performs one run and writes the report file.
// logOut receives log records; out receives the summary.
func runReport(ctx context.Context, out, logOut io.Writer, flags reportFlags, now time.Time) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if flags.noColor {
		color.NoColor = true
	}

	cfg, err := config.Load(flags.envFile)
	if err != nil {
		return err
	}
	cfg.Apply(flags.override)
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger, err := newLogger(logOut, cfg.LogLevel, flags.verbose)
	if err != nil {
		return err
	}

	githubGateway, err := gateway.NewGitHubGateway(cfg.Token, cfg.APIURL, logger)
	if err != nil {
		return fmt.Errorf("failed to create GitHub gateway: %w", err)
	}
	reporter := usecase.NewReporter(githubGateway, logger,
		usecase.WithWorkers(cfg.Workers),
		usecase.WithClock(func() time.Time { return now }),
	)

	result, err := reporter.Run(ctx, usecase.RunOptions{Org: cfg.Org, Days: cfg.Days, Repos: cfg.Repos})
	if err != nil {
		return err
	}

	path, err := output.WriteReport(cfg.OutputDir, cfg.Format, result.Report, now)
	if err != nil {
		return err
	}
	return output.PrintSummary(out, path, result.Report)
}

// newLogger builds the stderr logger. Verbose wins over an explicit level.
func newLogger(w io.Writer, level string, verbose bool) (*logrus.Logger, error) {
	logger := logrus.New()
	logger.SetOutput(w)
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	logger.SetLevel(logrus.WarnLevel)

	switch {
	case verbose:
		logger.SetLevel(logrus.DebugLevel)
	case level != "":
		parsed, err := logrus.ParseLevel(level)
		if err != nil {
			return nil, fmt.Errorf("invalid log level %q: %w", level, err)
		}
		logger.SetLevel(parsed)
	}
	return logger, nil
}

// hintFor returns a follow-up line for errors the user can act on.
func hintFor(err error) string {
	var (
		authErr   *gateway.AuthError
		accessErr *gateway.AccessError
		rateErr   *gateway.RateLimitError
	)
	switch {
	case errors.As(err, &authErr):
		return "Create a token at https://github.com/settings/tokens and export it as GITHUB_PERSONAL_ACCESS_TOKEN."
	case errors.As(err, &accessErr):
		return "The token needs the 'repo' (or 'public_repo') and 'read:org' scopes, and SSO authorization if the organization enforces it."
	case errors.As(err, &rateErr):
		return "Retry after the reset time or use a token with a higher quota."
	}
	return ""
}

func init() {
	rootCmd.AddCommand(reportCmd)
	reportCmd.Flags().StringP("org", "o", "", "GitHub organization name (overrides GITHUB_ORG_NAME)")
	reportCmd.Flags().IntP("days", "d", 0, "Number of days of history to analyze (overrides NUMBER_OF_DAYS)")
	reportCmd.Flags().StringP("repos", "r", "", "Comma-separated repository allow-list (overrides INTERESTING_REPOS)")
	reportCmd.Flags().String("output-dir", "", "Directory for report files (overrides OUTPUT_DIR, default \"outputs\")")
	reportCmd.Flags().StringP("format", "f", "", "Report format: json or yaml (default json)")
	reportCmd.Flags().IntP("workers", "w", 0, "Number of repositories scanned concurrently (default 1)")
	reportCmd.Flags().String("api-url", "", "GitHub Enterprise REST API base URL, e.g. https://ghe.example.com/api/v3/")
	reportCmd.Flags().String("env-file", config.DefaultEnvFile, "Path to the .env file")
	reportCmd.Flags().String("log-level", "", "Log level: debug, info, warn, error (overrides LOG_LEVEL)")
	reportCmd.Flags().Bool("no-color", false, "Disable colored output")
}
