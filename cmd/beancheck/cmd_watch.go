package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/beancheck/beancheck/internal/check"
	"github.com/beancheck/beancheck/internal/jolokia"
	"github.com/beancheck/beancheck/internal/logger"
	"github.com/beancheck/beancheck/internal/watch"
)

// newWatchCmd creates the watch subcommand.
func newWatchCmd() *cobra.Command {
	var (
		flags      checkFlags
		interval   time.Duration
		webhookURL string
	)

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Re-evaluate one check on an interval",
		Long: `Continuously re-evaluate a check, printing one result line per cycle.
Status transitions are logged, and optionally POSTed as JSON to a webhook
endpoint. Fetch failures surface as UNKNOWN lines and the loop keeps
going. Stop with SIGINT or SIGTERM.

Takes the same metric and threshold flags as 'beancheck check'.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := setup()
			if err != nil {
				fatal(err)
			}
			defer logger.Close()

			spec, warnNote, critNote, err := flags.resolve(cmd, cfg)
			if err != nil {
				return err
			}

			// A malformed threshold would fail identically every cycle;
			// refuse to start instead.
			if _, err := check.ParseRange(spec.Warning); err != nil {
				fatal(err)
			}
			if _, err := check.ParseRange(spec.Critical); err != nil {
				fatal(err)
			}

			if !cmd.Flags().Changed("interval") {
				interval = cfg.Watch.Interval
			}
			if !cmd.Flags().Changed("webhook-url") {
				webhookURL = cfg.Watch.WebhookURL
			}

			client := jolokia.NewClient(cfg.Jolokia.Timeout)
			checker := check.NewChecker(client, warnNote, critNote)
			label := spec.Primary.Normalize().Label()

			runner := watch.NewRunner(
				watch.RunnerConfig{Interval: interval, WebhookURL: webhookURL},
				checker, spec,
				func(tk watch.Tick) {
					printResult(os.Stdout, label, tk.Result, tk.Err)
				},
			)
			runner.Start()

			// Handle signals for graceful shutdown
			sigChan := make(chan os.Signal, 1)
			signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

			sig := <-sigChan
			fmt.Printf("\nReceived signal %v, shutting down...\n", sig)

			runner.Stop()
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().DurationVar(&interval, "interval", 30*time.Second, "time between evaluations")
	cmd.Flags().StringVar(&webhookURL, "webhook-url", "", "endpoint to POST status transitions to")

	return cmd
}
