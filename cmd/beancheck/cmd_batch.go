package main

import (
	"context"
	"fmt"
	"os"
	"sync"

	"github.com/spf13/cobra"

	"github.com/beancheck/beancheck/internal/check"
	"github.com/beancheck/beancheck/internal/config"
	"github.com/beancheck/beancheck/internal/jolokia"
	"github.com/beancheck/beancheck/internal/logger"
)

// newBatchCmd creates the batch subcommand.
func newBatchCmd() *cobra.Command {
	var (
		targetsPath string
		concurrency int
	)

	cmd := &cobra.Command{
		Use:   "batch",
		Short: "Run a YAML file of checks concurrently",
		Long: `Run every check in a targets file and print one result line per check,
in file order, followed by a summary line. Checks run concurrently up to
the --concurrency limit.

Targets file format:

  defaults:
    host: kafka1
    warning: "1"
    critical: "5"
  checks:
    - mbean: kafka.server:type=ReplicaManager,name=UnderReplicatedPartitions
    - mbean: kafka.server:type=ReplicaManager,name=UnderReplicatedPartitions
      host: kafka2

The exit code is the worst status across all checks (CRITICAL > WARNING >
UNKNOWN > OK).`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := setup()
			if err != nil {
				fatal(err)
			}
			defer logger.Close()

			targets, err := config.LoadTargets(targetsPath)
			if err != nil {
				fatal(err)
			}

			// Validate every threshold before any fetch: a malformed range
			// is an operator mistake that fails the whole run up front.
			parseFailed := false
			for i, t := range targets.Checks {
				for _, expr := range []string{t.Warning, t.Critical} {
					if _, err := check.ParseRange(expr); err != nil {
						fmt.Fprintf(os.Stderr, "Error: checks[%d] %s: %v\n", i, t.DisplayName(), err)
						parseFailed = true
					}
				}
			}
			if parseFailed {
				os.Exit(check.StatusUnknown.ExitCode())
			}

			client := jolokia.NewClient(cfg.Jolokia.Timeout)
			checker := check.NewChecker(client, cfg.Explanations.Warning, cfg.Explanations.Critical)

			results := runBatch(context.Background(), checker, cfg, targets.Checks, concurrency)

			var okCount, warnCount, critCount, unkCount int
			statuses := make([]check.Status, 0, len(results))
			for _, br := range results {
				printResult(os.Stdout, br.label, br.res, br.err)

				status := br.res.Status
				if br.err != nil {
					status = check.StatusUnknown
				}
				statuses = append(statuses, status)
				switch status {
				case check.StatusOK:
					okCount++
				case check.StatusWarning:
					warnCount++
				case check.StatusCritical:
					critCount++
				default:
					unkCount++
				}
			}

			combined := check.Combine(statuses)
			fmt.Printf("%s - %d checks: %d ok, %d warning, %d critical, %d unknown\n",
				statusWord(combined), len(results), okCount, warnCount, critCount, unkCount)

			os.Exit(combined.ExitCode())
			return nil
		},
	}

	cmd.Flags().StringVar(&targetsPath, "targets", "", "YAML file of checks to run (required)")
	cmd.Flags().IntVar(&concurrency, "concurrency", 4, "number of checks to run in parallel")
	_ = cmd.MarkFlagRequired("targets")

	return cmd
}

// batchResult pairs one target's outcome with its display label.
type batchResult struct {
	label string
	res   check.Result
	err   error
}

// runBatch evaluates the targets concurrently with a bounded number of
// in-flight checks. Results come back in file order regardless of
// completion order.
func runBatch(ctx context.Context, checker *check.Checker, cfg *config.Config, targets []config.TargetCheck, concurrency int) []batchResult {
	if concurrency < 1 {
		concurrency = 1
	}

	results := make([]batchResult, len(targets))
	semaphore := make(chan struct{}, concurrency)
	var wg sync.WaitGroup

	for i, target := range targets {
		semaphore <- struct{}{}
		wg.Add(1)

		go func(i int, t config.TargetCheck) {
			defer func() {
				<-semaphore
				wg.Done()
			}()

			spec := targetSpec(cfg, t)

			label := spec.Primary.Normalize().Label()
			if t.Name != "" {
				label = t.Name
			}

			res, err := checker.Run(ctx, spec)
			results[i] = batchResult{label: label, res: res, err: err}
		}(i, target)
	}

	wg.Wait()
	return results
}

// targetSpec converts a merged target entry into a check spec, falling back
// to the main configuration for connection coordinates the file leaves
// unset.
func targetSpec(cfg *config.Config, t config.TargetCheck) check.Spec {
	host := t.Host
	if host == "" {
		host = cfg.Jolokia.Host
	}
	port := t.Port
	if port == 0 {
		port = cfg.Jolokia.Port
	}
	contextPath := t.Context
	if contextPath == "" {
		contextPath = cfg.Jolokia.Context
	}

	spec := check.Spec{
		Primary: check.MetricDescriptor{
			Bean:      t.MBean,
			Attribute: t.Attribute,
			Key:       t.Key,
			Host:      host,
			Port:      port,
			Context:   contextPath,
		},
		Warning:  t.Warning,
		Critical: t.Critical,
		Mode:     check.ModeSingle,
		Reverse:  t.IsReverse(),
	}

	if t.IsCompare() {
		spec.Mode = check.ModeCorrelated
		spec.Secondary = &check.MetricDescriptor{
			Bean:      t.SecondMBean,
			Attribute: t.SecondAttribute,
			Key:       t.SecondKey,
			Host:      host,
			Port:      port,
			Context:   contextPath,
		}
	}

	return spec
}
