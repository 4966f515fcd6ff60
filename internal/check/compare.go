package check

// Mode selects how fetched values are turned into the scalar compared
// against a Range. It is a closed set: every switch over Mode handles both
// members.
type Mode int

const (
	// ModeSingle compares one metric value against literal thresholds.
	ModeSingle Mode = iota
	// ModeCorrelated compares primary/secondary as a percentage, so the
	// thresholds are read as percentages of the secondary value.
	ModeCorrelated
)

// String returns the mode name used in logs.
func (m Mode) String() string {
	switch m {
	case ModeSingle:
		return "single"
	case ModeCorrelated:
		return "correlated"
	default:
		return "single"
	}
}

// Tier names the threshold a comparison was made against.
type Tier int

const (
	TierNone Tier = iota
	TierWarning
	TierCritical
)

// String returns the tier name used in logs.
func (t Tier) String() string {
	switch t {
	case TierWarning:
		return "warning"
	case TierCritical:
		return "critical"
	default:
		return "none"
	}
}

// Outcome records one comparison: the values that went in, the effective
// scalar that was compared, the breach verdict, and the tier it was checked
// against. Outcomes are created per call and not retained.
type Outcome struct {
	// Primary is the fetched primary value.
	Primary float64

	// Secondary is the fetched secondary value, nil in single mode.
	Secondary *float64

	// Effective is the scalar actually compared: the primary value in
	// single mode, primary/secondary*100 in correlated mode.
	Effective float64

	// Breached reports whether the range alerted on the effective value.
	Breached bool

	// Tier is the threshold tier this outcome belongs to.
	Tier Tier
}

// Compare evaluates one value pair against one threshold range and returns
// the breach verdict. The transforms apply in a fixed order: correlation
// first (deriving the effective scalar), then containment, then polarity,
// then reverse. Reverse is the outermost inversion, applied identically for
// both polarities, so it composes predictably with "@" ranges.
//
// In correlated mode a missing or zero secondary returns a
// CorrelationError: a zero denominator means the percentage is undefined,
// which is a fetch-level failure rather than a breach.
func Compare(rng Range, primary float64, secondary *float64, mode Mode, reverse bool) (Outcome, error) {
	out := Outcome{Primary: primary, Secondary: secondary}

	switch mode {
	case ModeSingle:
		out.Effective = primary
	case ModeCorrelated:
		if secondary == nil {
			return Outcome{}, &CorrelationError{Reason: "secondary value required in correlated mode"}
		}
		if *secondary == 0 {
			return Outcome{}, &CorrelationError{Reason: "secondary value is zero, percentage undefined"}
		}
		out.Effective = primary / *secondary * 100
	}

	inside := rng.Contains(out.Effective)

	breach := !inside
	if rng.AlertInside {
		breach = inside
	}
	if reverse {
		breach = !breach
	}

	out.Breached = breach
	return out, nil
}
