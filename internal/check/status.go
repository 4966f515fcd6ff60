package check

// Status is the health verdict of one evaluation, in the monitoring-plugin
// convention. The numeric values double as process exit codes.
type Status int

const (
	// StatusOK indicates the metric is within acceptable thresholds.
	StatusOK Status = 0
	// StatusWarning indicates the warning threshold was breached.
	StatusWarning Status = 1
	// StatusCritical indicates the critical threshold was breached.
	StatusCritical Status = 2
	// StatusUnknown indicates the evaluation could not be completed
	// (fetch failure, correlation failure). It is not a point on the
	// OK/WARNING/CRITICAL scale.
	StatusUnknown Status = 3
)

// String returns the status word used in plugin output lines.
func (s Status) String() string {
	switch s {
	case StatusOK:
		return "OK"
	case StatusWarning:
		return "WARNING"
	case StatusCritical:
		return "CRITICAL"
	case StatusUnknown:
		return "UNKNOWN"
	default:
		return "UNKNOWN"
	}
}

// ExitCode returns the monitoring-plugin exit code for the status.
func (s Status) ExitCode() int {
	if s < StatusOK || s > StatusUnknown {
		return int(StatusUnknown)
	}
	return int(s)
}

// severity orders statuses for aggregation. Breach severity dominates:
// a completed evaluation that found a problem outranks one that could not
// complete, and UNKNOWN outranks OK so that inability to evaluate is never
// reported as healthy.
func (s Status) severity() int {
	switch s {
	case StatusOK:
		return 0
	case StatusUnknown:
		return 1
	case StatusWarning:
		return 2
	case StatusCritical:
		return 3
	default:
		return 1
	}
}

// Worst returns whichever of the two statuses is more severe.
func Worst(a, b Status) Status {
	if a.severity() >= b.severity() {
		return a
	}
	return b
}

// Combine aggregates the statuses of independent checks into one verdict:
// the worst status wins. An empty set is UNKNOWN, since nothing was
// evaluated.
func Combine(statuses []Status) Status {
	if len(statuses) == 0 {
		return StatusUnknown
	}
	combined := statuses[0]
	for _, s := range statuses[1:] {
		combined = Worst(combined, s)
	}
	return combined
}
