package main

import (
	"context"
	"errors"
	"os"

	"github.com/spf13/cobra"

	"github.com/beancheck/beancheck/internal/check"
	"github.com/beancheck/beancheck/internal/jolokia"
	"github.com/beancheck/beancheck/internal/logger"
)

// newCheckCmd creates the check subcommand.
func newCheckCmd() *cobra.Command {
	var flags checkFlags

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Evaluate one MBean metric against thresholds",
		Long: `Fetch an MBean attribute through the Jolokia bridge and evaluate it
against warning and critical threshold ranges.

Threshold expressions follow the monitoring plugin range syntax:
  10        alert when the value is outside [0, 10]
  10:       alert when the value is below 10
  ~:10      alert when the value is above 10
  10:20     alert when the value is outside [10, 20]
  @10:20    alert when the value is inside [10, 20]

With --compare, a second MBean is fetched and the thresholds apply to the
percentage primary/second*100. With --reverse, the breach verdict is
inverted for metrics where a low value is the unhealthy condition.

Examples:
  beancheck check --mbean kafka.server:type=ReplicaManager,name=UnderReplicatedPartitions \
    --warning 1 --critical 5

  beancheck check --mbean java.lang:type=Memory --mbean-attribute HeapMemoryUsage --mbean-key used \
    --second-mbean java.lang:type=Memory --second-mbean-attribute HeapMemoryUsage --second-mbean-key max \
    --compare --warning 80 --critical 90

Exits 0 (OK), 1 (WARNING), 2 (CRITICAL), or 3 (UNKNOWN).`,
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

			client := jolokia.NewClient(cfg.Jolokia.Timeout)
			checker := check.NewChecker(client, warnNote, critNote)

			res, err := checker.Run(context.Background(), spec)

			// A malformed threshold is an operator mistake, not a check
			// outcome; it goes to stderr instead of the plugin line.
			var parseErr *check.ParseError
			if errors.As(err, &parseErr) {
				fatal(parseErr)
			}

			label := spec.Primary.Normalize().Label()
			os.Exit(printResult(os.Stdout, label, res, err))
			return nil
		},
	}

	flags.register(cmd)
	return cmd
}
