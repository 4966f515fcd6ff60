package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/beancheck/beancheck/internal/check"
	"github.com/beancheck/beancheck/internal/config"
	"github.com/beancheck/beancheck/internal/logger"
	"github.com/beancheck/beancheck/internal/watch"
)

var (
	// Version info (set by ldflags)
	version = "dev"

	// Flags
	configPath string
	debug      bool
)

func main() {
	watch.Version = version

	rootCmd := &cobra.Command{
		Use:   "beancheck",
		Short: "JMX metric checks via a Jolokia HTTP bridge",
		Long: `beancheck evaluates JMX metrics exposed through a Jolokia HTTP bridge
against Nagios-style warning/critical thresholds.

Commands:
  beancheck check   Evaluate a single metric and exit with its status
  beancheck batch   Run a YAML file of checks concurrently
  beancheck watch   Re-evaluate one check on an interval, with webhooks
  beancheck list    Show the MBean tree exposed by the bridge

Exit codes follow the monitoring plugin convention:
  0=OK  1=WARNING  2=CRITICAL  3=UNKNOWN`,
		Version: version,
	}

	// Global flags
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file path (default ~/.config/beancheck/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")

	// Add subcommands
	rootCmd.AddCommand(
		newCheckCmd(),
		newBatchCmd(),
		newWatchCmd(),
		newListCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		// Error already printed by cobra; usage problems map to UNKNOWN.
		os.Exit(check.StatusUnknown.ExitCode())
	}
}

// setup loads configuration and initializes the logger. Every subcommand
// calls it before doing work.
func setup() (*config.Config, error) {
	var cfg *config.Config
	var err error

	if configPath != "" {
		cfg, err = config.LoadConfigFromPath(configPath)
	} else {
		cfg, err = config.LoadConfig()
	}
	if err != nil {
		return nil, err
	}

	level, err := logger.ParseLevel(cfg.Log.Level)
	if err != nil {
		level = logger.LevelInfo
	}
	if debug {
		level = logger.LevelDebug
	}
	logger.InitLogger(level, cfg.Log.File)

	return cfg, nil
}

// fatal reports a problem that prevents evaluation and exits UNKNOWN.
func fatal(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(check.StatusUnknown.ExitCode())
}
