package check

import (
	"context"
	"errors"
	"testing"
)

// stubFetcher implements Fetcher for testing, resolving values by bean name.
type stubFetcher struct {
	values map[string]float64
	err    error
	calls  []MetricDescriptor
}

func (f *stubFetcher) Fetch(ctx context.Context, d MetricDescriptor) (float64, error) {
	f.calls = append(f.calls, d)
	if f.err != nil {
		return 0, f.err
	}
	v, ok := f.values[d.Bean]
	if !ok {
		return 0, errors.New("bean not found")
	}
	return v, nil
}

func TestCheckerRunSingle(t *testing.T) {
	fetcher := &stubFetcher{values: map[string]float64{"java.lang:type=Threading": 85}}
	checker := NewChecker(fetcher, "warn note", "crit note")

	res, err := checker.Run(context.Background(), Spec{
		Primary:  MetricDescriptor{Bean: "java.lang:type=Threading"},
		Warning:  "80",
		Critical: "90",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if res.Status != StatusWarning {
		t.Errorf("expected WARNING, got %v", res.Status)
	}
	if len(fetcher.calls) != 1 {
		t.Fatalf("expected one fetch in single mode, got %d", len(fetcher.calls))
	}
	if fetcher.calls[0].Attribute != "Value" {
		t.Errorf("expected descriptor normalized before fetch, got attribute %q", fetcher.calls[0].Attribute)
	}
}

func TestCheckerRunCorrelated(t *testing.T) {
	fetcher := &stubFetcher{values: map[string]float64{
		"broker:type=used":     80,
		"broker:type=capacity": 100,
	}}
	checker := NewChecker(fetcher, "", "")

	secondary := MetricDescriptor{Bean: "broker:type=capacity"}
	res, err := checker.Run(context.Background(), Spec{
		Primary:   MetricDescriptor{Bean: "broker:type=used"},
		Secondary: &secondary,
		Warning:   "70",
		Critical:  "90",
		Mode:      ModeCorrelated,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if res.Status != StatusWarning {
		t.Errorf("expected WARNING for 80%%, got %v", res.Status)
	}
	if len(fetcher.calls) != 2 {
		t.Errorf("expected two fetches in correlated mode, got %d", len(fetcher.calls))
	}
}

func TestCheckerRunSingleSkipsSecondaryFetch(t *testing.T) {
	fetcher := &stubFetcher{values: map[string]float64{"a:b=c": 10}}
	checker := NewChecker(fetcher, "", "")

	secondary := MetricDescriptor{Bean: "never:fetched=me"}
	_, err := checker.Run(context.Background(), Spec{
		Primary:   MetricDescriptor{Bean: "a:b=c"},
		Secondary: &secondary,
		Warning:   "80",
		Critical:  "90",
		Mode:      ModeSingle,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(fetcher.calls) != 1 {
		t.Errorf("expected single mode to skip the secondary fetch, got %d fetches", len(fetcher.calls))
	}
}

func TestCheckerRunCorrelatedWithoutSecondary(t *testing.T) {
	fetcher := &stubFetcher{values: map[string]float64{"a:b=c": 10}}
	checker := NewChecker(fetcher, "", "")

	_, err := checker.Run(context.Background(), Spec{
		Primary:  MetricDescriptor{Bean: "a:b=c"},
		Warning:  "80",
		Critical: "90",
		Mode:     ModeCorrelated,
	})
	if err == nil {
		t.Fatal("expected error for correlated mode without a second metric")
	}

	var corrErr *CorrelationError
	if !errors.As(err, &corrErr) {
		t.Fatalf("expected CorrelationError, got %T", err)
	}
}

func TestCheckerRunParseErrorBeforeFetch(t *testing.T) {
	fetcher := &stubFetcher{values: map[string]float64{"a:b=c": 10}}
	checker := NewChecker(fetcher, "", "")

	_, err := checker.Run(context.Background(), Spec{
		Primary:  MetricDescriptor{Bean: "a:b=c"},
		Warning:  "20:10",
		Critical: "90",
	})
	if err == nil {
		t.Fatal("expected parse error")
	}

	var parseErr *ParseError
	if !errors.As(err, &parseErr) {
		t.Fatalf("expected ParseError, got %T", err)
	}
	if len(fetcher.calls) != 0 {
		t.Errorf("expected no fetches after a parse failure, got %d", len(fetcher.calls))
	}
}

func TestCheckerRunFetchErrorPropagates(t *testing.T) {
	fetchErr := errors.New("connection refused")
	fetcher := &stubFetcher{err: fetchErr}
	checker := NewChecker(fetcher, "", "")

	_, err := checker.Run(context.Background(), Spec{
		Primary:  MetricDescriptor{Bean: "a:b=c"},
		Warning:  "80",
		Critical: "90",
	})
	if !errors.Is(err, fetchErr) {
		t.Fatalf("expected the fetch error to propagate, got %v", err)
	}
}

func TestCheckerRunReverse(t *testing.T) {
	fetcher := &stubFetcher{values: map[string]float64{"free:space=left": 5}}
	checker := NewChecker(fetcher, "", "")

	res, err := checker.Run(context.Background(), Spec{
		Primary:  MetricDescriptor{Bean: "free:space=left"},
		Warning:  "80",
		Critical: "90",
		Reverse:  true,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if res.Status != StatusCritical {
		t.Errorf("expected CRITICAL for low value with reverse logic, got %v", res.Status)
	}
}
