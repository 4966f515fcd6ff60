package check

import (
	"math"
	"strconv"
	"strings"
)

// Range is the normalized form of a threshold expression: an inclusive
// numeric interval with a polarity flag. Unbounded ends are represented as
// ±Inf. Immutable once parsed.
type Range struct {
	// Lower is the inclusive lower bound, -Inf when unbounded.
	Lower float64

	// Upper is the inclusive upper bound, +Inf when unbounded.
	Upper float64

	// AlertInside inverts the polarity: the range breaches when the value
	// falls inside [Lower, Upper] instead of outside it. Written as a "@"
	// prefix on the expression.
	AlertInside bool

	// Expr is the source expression, kept for display.
	Expr string
}

// Contains reports whether the value lies within [Lower, Upper]. Both ends
// are inclusive; an infinite end is always satisfied on that side.
func (r Range) Contains(v float64) bool {
	return r.Lower <= v && v <= r.Upper
}

// ParseRange parses a threshold expression in the monitoring-plugin range
// convention:
//
//	"10"     alert when value is outside [0, 10]
//	"10:"    alert when value is below 10
//	"~:10"   alert when value is above 10
//	"10:20"  alert when value is outside [10, 20]
//	"@10:20" alert when value is inside [10, 20]
//
// A bare number N is shorthand for "0:N", and an empty bound next to the
// colon means 0 on the lower side and +Inf on the upper side. "~" makes the
// lower bound unbounded. Returns a ParseError when the expression is
// malformed or normalizes to lower > upper.
func ParseRange(expr string) (Range, error) {
	r := Range{Expr: expr}

	s := strings.TrimSpace(expr)
	if s == "" {
		return Range{}, &ParseError{Expr: expr, Reason: "empty expression"}
	}

	if strings.HasPrefix(s, "@") {
		r.AlertInside = true
		s = s[1:]
		if s == "" {
			return Range{}, &ParseError{Expr: expr, Reason: "missing range after @"}
		}
	}

	low, high, hasColon := strings.Cut(s, ":")
	if !hasColon {
		// Bare number N is the range [0, N].
		n, err := parseBound(s)
		if err != nil {
			return Range{}, &ParseError{Expr: expr, Reason: err.Error()}
		}
		r.Lower, r.Upper = 0, n
	} else {
		switch low {
		case "", "0":
			r.Lower = 0
		case "~":
			r.Lower = math.Inf(-1)
		default:
			n, err := parseBound(low)
			if err != nil {
				return Range{}, &ParseError{Expr: expr, Reason: err.Error()}
			}
			r.Lower = n
		}

		if high == "" {
			r.Upper = math.Inf(1)
		} else {
			n, err := parseBound(high)
			if err != nil {
				return Range{}, &ParseError{Expr: expr, Reason: err.Error()}
			}
			r.Upper = n
		}
	}

	if r.Lower > r.Upper {
		return Range{}, &ParseError{Expr: expr, Reason: "lower bound exceeds upper bound"}
	}

	return r, nil
}

// parseBound parses one finite numeric bound.
func parseBound(s string) (float64, error) {
	n, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, &boundError{text: s}
	}
	if math.IsInf(n, 0) || math.IsNaN(n) {
		return 0, &boundError{text: s}
	}
	return n, nil
}

type boundError struct {
	text string
}

func (e *boundError) Error() string {
	return "bound " + strconv.Quote(e.text) + " is not a finite number"
}
