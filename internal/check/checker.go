package check

import "context"

// Fetcher resolves a metric descriptor to a numeric value. It is the narrow
// contract between the evaluation core and the bridge transport. The core
// imposes no retry or timeout policy of its own; a fetch either returns a
// value or fails with a single terminal error.
type Fetcher interface {
	Fetch(ctx context.Context, d MetricDescriptor) (float64, error)
}

// Spec describes one check: what to fetch and how to judge it. The second
// descriptor is only consulted in correlated mode.
type Spec struct {
	// Primary is the metric under evaluation.
	Primary MetricDescriptor

	// Secondary is the denominator metric for correlated mode, nil
	// otherwise.
	Secondary *MetricDescriptor

	// Warning and Critical are threshold range expressions (ParseRange
	// syntax).
	Warning  string
	Critical string

	// Mode selects single or correlated evaluation.
	Mode Mode

	// Reverse inverts the breach verdict, for metrics where a low value is
	// the unhealthy condition.
	Reverse bool
}

// Checker runs complete evaluations: it parses the threshold expressions,
// fetches the value(s) through the Fetcher contract, and delegates to the
// Evaluator. Errors propagate typed so the reporting boundary can map parse
// failures to a fatal exit and fetch or correlation failures to UNKNOWN.
type Checker struct {
	fetcher   Fetcher
	evaluator *Evaluator
}

// NewChecker creates a Checker that fetches through the given Fetcher and
// attaches the two contact templates to breached results.
func NewChecker(fetcher Fetcher, warnNote, critNote string) *Checker {
	return &Checker{
		fetcher:   fetcher,
		evaluator: NewEvaluator(warnNote, critNote),
	}
}

// Run evaluates one check. Both range expressions are parsed before any
// fetch happens, so a malformed threshold fails fast without touching the
// network.
func (c *Checker) Run(ctx context.Context, spec Spec) (Result, error) {
	warning, err := ParseRange(spec.Warning)
	if err != nil {
		return Result{}, err
	}
	critical, err := ParseRange(spec.Critical)
	if err != nil {
		return Result{}, err
	}

	primary, err := c.fetcher.Fetch(ctx, spec.Primary.Normalize())
	if err != nil {
		return Result{}, err
	}

	var secondary *float64
	if spec.Mode == ModeCorrelated {
		if spec.Secondary == nil {
			return Result{}, &CorrelationError{Reason: "correlated mode requires a second metric"}
		}
		v, err := c.fetcher.Fetch(ctx, spec.Secondary.Normalize())
		if err != nil {
			return Result{}, err
		}
		secondary = &v
	}

	return c.evaluator.Evaluate(warning, critical, primary, secondary, spec.Mode, spec.Reverse)
}
