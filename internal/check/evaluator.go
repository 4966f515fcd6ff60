package check

// Result is the structured outcome of one evaluation: the final status, the
// explanation text for the breached tier, and the raw value(s) used.
// Results carry no timestamps or other ambient state, so identical inputs
// produce identical Results.
type Result struct {
	// Status is the final health verdict.
	Status Status

	// Explanation is the caller-supplied contact template for the tier
	// that breached, included verbatim. Empty when the status is OK.
	Explanation string

	// Primary is the fetched primary value.
	Primary float64

	// Secondary is the fetched secondary value, nil in single mode.
	Secondary *float64

	// Effective is the scalar that was compared against the thresholds.
	Effective float64
}

// Evaluator resolves warning and critical threshold checks into a final
// status. It holds only the two explanation templates supplied at
// construction; every evaluation is independent and stateless.
type Evaluator struct {
	warnNote string
	critNote string
}

// NewEvaluator creates an Evaluator carrying the contact templates attached
// to WARNING and CRITICAL results. Both may be empty.
func NewEvaluator(warnNote, critNote string) *Evaluator {
	return &Evaluator{warnNote: warnNote, critNote: critNote}
}

// Evaluate checks the value pair against both thresholds and resolves the
// final status. The critical range is evaluated first and dominates: when
// both tiers breach, the result is CRITICAL. A CorrelationError from the
// comparison propagates to the caller rather than defaulting the status —
// inability to evaluate is never reported as OK. UNKNOWN itself is assigned
// where results are reported, not here.
func (e *Evaluator) Evaluate(warning, critical Range, primary float64, secondary *float64, mode Mode, reverse bool) (Result, error) {
	crit, err := Compare(critical, primary, secondary, mode, reverse)
	if err != nil {
		return Result{}, err
	}
	crit.Tier = TierCritical
	if crit.Breached {
		return Result{
			Status:      StatusCritical,
			Explanation: e.critNote,
			Primary:     primary,
			Secondary:   secondary,
			Effective:   crit.Effective,
		}, nil
	}

	warn, err := Compare(warning, primary, secondary, mode, reverse)
	if err != nil {
		return Result{}, err
	}
	warn.Tier = TierWarning
	if warn.Breached {
		return Result{
			Status:      StatusWarning,
			Explanation: e.warnNote,
			Primary:     primary,
			Secondary:   secondary,
			Effective:   warn.Effective,
		}, nil
	}

	return Result{
		Status:    StatusOK,
		Primary:   primary,
		Secondary: secondary,
		Effective: warn.Effective,
	}, nil
}
