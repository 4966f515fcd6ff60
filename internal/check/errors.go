package check

import "fmt"

// ParseError indicates a malformed threshold range expression. It is fatal:
// the check carrying it cannot run and the expression will never parse
// differently on retry.
type ParseError struct {
	// Expr is the expression that failed to parse.
	Expr string

	// Reason describes what was wrong with it.
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("invalid range %q: %s", e.Expr, e.Reason)
}

// CorrelationError indicates that a correlated evaluation could not compute
// its percentage: the secondary value was missing or zero. It is reported as
// UNKNOWN at the boundary, never as a breach and never as OK.
type CorrelationError struct {
	// Reason describes why the correlation failed.
	Reason string
}

func (e *CorrelationError) Error() string {
	return "correlation failed: " + e.Reason
}
