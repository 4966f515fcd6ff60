package check

import (
	"errors"
	"reflect"
	"testing"
)

func evaluate(t *testing.T, e *Evaluator, warning, critical string, primary float64, secondary *float64, mode Mode, reverse bool) Result {
	t.Helper()
	res, err := e.Evaluate(mustParse(t, warning), mustParse(t, critical), primary, secondary, mode, reverse)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return res
}

func TestEvaluateSingleMode(t *testing.T) {
	e := NewEvaluator("call the team", "page the team")

	tests := []struct {
		value float64
		want  Status
	}{
		{50, StatusOK},
		{85, StatusWarning},
		{95, StatusCritical},
	}

	for _, tt := range tests {
		res := evaluate(t, e, "80", "90", tt.value, nil, ModeSingle, false)
		if res.Status != tt.want {
			t.Errorf("value %v: status = %v, want %v", tt.value, res.Status, tt.want)
		}
	}
}

func TestEvaluateSingleModeReverse(t *testing.T) {
	e := NewEvaluator("", "")

	tests := []struct {
		value float64
		want  Status
	}{
		{95, StatusOK},
		{5, StatusCritical},
	}

	for _, tt := range tests {
		res := evaluate(t, e, "80", "90", tt.value, nil, ModeSingle, true)
		if res.Status != tt.want {
			t.Errorf("value %v reversed: status = %v, want %v", tt.value, res.Status, tt.want)
		}
	}
}

func TestEvaluateCorrelatedMode(t *testing.T) {
	e := NewEvaluator("", "")

	secondary := 100.0
	res := evaluate(t, e, "70", "90", 80, &secondary, ModeCorrelated, false)

	if res.Status != StatusWarning {
		t.Errorf("expected WARNING for 80%%, got %v", res.Status)
	}
	if res.Effective != 80 {
		t.Errorf("expected effective 80, got %v", res.Effective)
	}
	if res.Primary != 80 || res.Secondary == nil || *res.Secondary != 100 {
		t.Errorf("expected raw values to be carried in the result, got %+v", res)
	}
}

func TestEvaluateCorrelationErrorPropagates(t *testing.T) {
	e := NewEvaluator("", "")

	secondary := 0.0
	_, err := e.Evaluate(mustParse(t, "70"), mustParse(t, "90"), 80, &secondary, ModeCorrelated, false)
	if err == nil {
		t.Fatal("expected error for zero secondary")
	}

	var corrErr *CorrelationError
	if !errors.As(err, &corrErr) {
		t.Fatalf("expected CorrelationError, got %T", err)
	}
}

func TestEvaluateCriticalDominatesWarning(t *testing.T) {
	e := NewEvaluator("warn note", "crit note")

	// 95 breaches both [0,80] and [0,90]; critical must win.
	res := evaluate(t, e, "80", "90", 95, nil, ModeSingle, false)
	if res.Status != StatusCritical {
		t.Errorf("expected CRITICAL when both tiers breach, got %v", res.Status)
	}
	if res.Explanation != "crit note" {
		t.Errorf("expected critical explanation, got %q", res.Explanation)
	}
}

func TestEvaluateOverlappingInsideRanges(t *testing.T) {
	e := NewEvaluator("", "")

	// Both @-ranges contain 15; critical still dominates.
	res := evaluate(t, e, "@10:20", "@12:18", 15, nil, ModeSingle, false)
	if res.Status != StatusCritical {
		t.Errorf("expected CRITICAL, got %v", res.Status)
	}
}

func TestEvaluateAttachesExplanationVerbatim(t *testing.T) {
	warnNote := "\n  Please contact the DBA team by mail.\n"
	critNote := "\n  Please contact the DBA team by phone.\n"
	e := NewEvaluator(warnNote, critNote)

	warn := evaluate(t, e, "80", "90", 85, nil, ModeSingle, false)
	if warn.Explanation != warnNote {
		t.Errorf("warning explanation = %q, want template verbatim", warn.Explanation)
	}

	crit := evaluate(t, e, "80", "90", 95, nil, ModeSingle, false)
	if crit.Explanation != critNote {
		t.Errorf("critical explanation = %q, want template verbatim", crit.Explanation)
	}

	ok := evaluate(t, e, "80", "90", 50, nil, ModeSingle, false)
	if ok.Explanation != "" {
		t.Errorf("OK explanation = %q, want empty", ok.Explanation)
	}
}

func TestEvaluateInclusiveBoundaryIsHealthy(t *testing.T) {
	e := NewEvaluator("", "")

	// Bounds are inclusive on both ends, so a value exactly on the
	// threshold sits inside the healthy range.
	res := evaluate(t, e, "80", "90", 80, nil, ModeSingle, false)
	if res.Status != StatusOK {
		t.Errorf("expected OK at the warning boundary, got %v", res.Status)
	}

	res = evaluate(t, e, "80", "90", 90, nil, ModeSingle, false)
	if res.Status != StatusWarning {
		t.Errorf("expected WARNING at the critical boundary, got %v", res.Status)
	}
}

func TestEvaluateIdempotent(t *testing.T) {
	e := NewEvaluator("warn", "crit")

	secondary := 100.0
	first := evaluate(t, e, "70", "90", 80, &secondary, ModeCorrelated, false)
	second := evaluate(t, e, "70", "90", 80, &secondary, ModeCorrelated, false)

	if !reflect.DeepEqual(first, second) {
		t.Errorf("expected identical results from identical inputs:\n%+v\n%+v", first, second)
	}
}
