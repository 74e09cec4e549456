package main

import (
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/lmittmann/tint"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/pepsimidamerica/nacwrap-go/internal/config"
	"github.com/pepsimidamerica/nacwrap-go/pkg/nintex"
)

// version is set at build time via ldflags.
var version = "dev"

// Global persistent flags, bound in newRootCmd().
var (
	flagConfigPath string
	flagJSON       bool
	flagVerbose    bool
	flagQuiet      bool
)

// resolvedCfg holds the effective configuration loaded by PersistentPreRunE.
// It is available to all subcommands after the root pre-run phase completes.
var resolvedCfg *config.Resolved

// httpClientTimeout is the default timeout for HTTP requests.
// Prevents hung connections from blocking CLI commands indefinitely.
const httpClientTimeout = 30 * time.Second

// newRootCmd builds and returns the fully-assembled root command with all
// subcommands registered. Called once from main().
func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "nacwrap",
		Short:   "Nintex Workflow Cloud CLI",
		Long:    "Query and manage Nintex Workflow Cloud instances, tasks, workflows, and users.",
		Version: version,
		// Cobra's default error/usage printing is silenced; main handles it.
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			resolved, err := config.Load(flagConfigPath)
			if err != nil {
				return err
			}

			resolvedCfg = resolved
			slog.SetDefault(buildLogger())

			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&flagConfigPath, "config", "", "config file path")
	cmd.PersistentFlags().BoolVar(&flagJSON, "json", false, "output in JSON format")
	cmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "enable debug logging")
	cmd.PersistentFlags().BoolVarP(&flagQuiet, "quiet", "q", false, "suppress informational output")

	// Register subcommands.
	cmd.AddCommand(newInstancesCmd())
	cmd.AddCommand(newTasksCmd())
	cmd.AddCommand(newWorkflowsCmd())
	cmd.AddCommand(newUsersCmd())
	cmd.AddCommand(newOverviewCmd())

	return cmd
}

// buildLogger creates an slog.Logger configured by the resolved config
// and CLI flags. Config-file log level provides the baseline; --verbose
// and --quiet override it because CLI flags always win. A colorized
// handler is used when stderr is a terminal.
func buildLogger() *slog.Logger {
	level := slog.LevelInfo

	if resolvedCfg != nil {
		switch resolvedCfg.LogLevel {
		case "debug":
			level = slog.LevelDebug
		case "warn":
			level = slog.LevelWarn
		case "error":
			level = slog.LevelError
		}
	}

	if flagVerbose {
		level = slog.LevelDebug
	}

	if flagQuiet {
		level = slog.LevelError
	}

	if isatty.IsTerminal(os.Stderr.Fd()) {
		return slog.New(tint.NewHandler(os.Stderr, &tint.Options{
			Level:      level,
			TimeFormat: time.Kitchen,
		}))
	}

	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// newAPIClient builds a nintex.Client from the resolved configuration.
// Credential validation happens here, before any network call.
func newAPIClient() (*nintex.Client, error) {
	httpClient := &http.Client{Timeout: httpClientTimeout}

	source, err := nintex.NewCredentialSource(resolvedCfg.Credentials, httpClient, slog.Default())
	if err != nil {
		return nil, err
	}

	return nintex.NewClient(resolvedCfg.Credentials.BaseURL, httpClient, source, slog.Default()), nil
}
