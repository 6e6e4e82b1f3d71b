package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pfrederiksen/calendar-aggregator/internal/config"
	"github.com/pfrederiksen/calendar-aggregator/internal/logger"
)

const (
	ExitSuccess   = 0
	ExitError     = 1
	ExitNewEvents = 2
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// SetVersionInfo sets the build metadata printed by the version command.
func SetVersionInfo(v, c, d string) {
	version = v
	commit = c
	date = d
}

// globalFlags are shared by every subcommand.
type globalFlags struct {
	configFile string
	envFile    string
	logLevel   string
	logFormat  string
}

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	g := &globalFlags{}

	cmd := &cobra.Command{
		Use:   "calendar-aggregator",
		Short: "Collect upcoming events from arbitrary web pages",
		Long: `calendar-aggregator finds dated events on ordinary web pages
and serves them as JSON or iCalendar, either from the command line or over HTTP.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&g.configFile, "config", "", "Path to a YAML config file")
	cmd.PersistentFlags().StringVar(&g.envFile, "env-file", config.DefaultEnvFile, "Path to a .env file (ignored if missing)")
	cmd.PersistentFlags().StringVar(&g.logLevel, "log-level", "", "Log level: debug, info, warn or error")
	cmd.PersistentFlags().StringVar(&g.logFormat, "log-format", "", "Log format: json or text")

	cmd.AddCommand(newServeCmd(g))
	cmd.AddCommand(newExtractCmd(g))
	cmd.AddCommand(newTopicsCmd(g))
	cmd.AddCommand(newVersionCmd())

	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "calendar-aggregator %s (commit: %s, built: %s)\n", version, commit, date)
		},
	}
}

// loadConfig loads the layered configuration, applies the global flags and
// installs the configured logger. Logs go to stderr so command output on
// stdout stays machine readable.
func (g *globalFlags) loadConfig() (*config.Config, error) {
	cfg, err := config.Load(g.configFile, g.envFile)
	if err != nil {
		return nil, err
	}
	if g.logLevel != "" {
		cfg.LogLevel = g.logLevel
	}
	if g.logFormat != "" {
		cfg.LogFormat = g.logFormat
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	level, err := logger.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	logger.SetDefault(logger.NewWithFormat(level, os.Stderr, logger.Format(cfg.LogFormat)))
	return cfg, nil
}

// errAllFailed is returned by extract when no URL could be fetched.
var errAllFailed = errors.New("all sources failed")

// errNewEvents is returned by extract --new-only when it found new events.
var errNewEvents = errors.New("new events found")

// Execute runs the CLI
func Execute() {
	err := NewRootCmd().Execute()
	if errors.Is(err, errNewEvents) {
		os.Exit(ExitNewEvents)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(ExitError)
	}
}
