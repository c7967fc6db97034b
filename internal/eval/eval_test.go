package eval

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dantwoashim/Project-Parva-sub001/internal/ephemeris"
	"github.com/dantwoashim/Project-Parva-sub001/internal/panchanga"
	"github.com/dantwoashim/Project-Parva-sub001/internal/uncertainty"
)

var instant = time.Date(2026, 2, 6, 6, 0, 0, 0, time.UTC)

func newHarness(config EvalConfig) (*EvalHarness, *panchanga.Engine) {
	oracle := ephemeris.NewAnalytic()
	engine := panchanga.NewEngine(oracle, panchanga.DefaultConfig())
	return NewEvalHarness(config, oracle, engine.Converter()), engine
}

func makeRecord(t *testing.T, engine *panchanga.Engine, at time.Time) panchanga.Record {
	t.Helper()
	rec, err := engine.At(context.Background(), at)
	if err != nil {
		t.Fatalf("At: %v", err)
	}
	return rec
}

func TestEvalPassesOnComputedRecord(t *testing.T) {
	h, engine := newHarness(DefaultEvalConfig())
	rec := makeRecord(t, engine, instant)

	result, err := h.Run(context.Background(), rec)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !result.Passed {
		t.Fatalf("expected pass on computed record, got fail: %s", result.Reason)
	}
	if result.Reason != "all checks passed" {
		t.Errorf("unexpected reason %q", result.Reason)
	}
}

func TestEvalPassesOnEstimatedBSRecord(t *testing.T) {
	h, engine := newHarness(DefaultEvalConfig())
	rec := makeRecord(t, engine, time.Date(1960, 9, 1, 6, 0, 0, 0, time.UTC))
	if rec.BSDate.Confidence != uncertainty.Estimated {
		t.Fatalf("expected estimated BS date, got %s", rec.BSDate.Confidence)
	}

	result, err := h.Run(context.Background(), rec)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !result.Passed {
		t.Fatalf("expected estimated record to round trip, got fail: %s", result.Reason)
	}
}

func TestEvalMetricCount(t *testing.T) {
	h, engine := newHarness(DefaultEvalConfig())
	result, err := h.Run(context.Background(), makeRecord(t, engine, instant))
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	// Expect: index + 2 tithi boundaries + month start + containment + BS + proximity = 7 metrics
	if len(result.Metrics) != 7 {
		t.Fatalf("expected 7 metrics, got %d", len(result.Metrics))
	}
}

func TestEvalFailsOnCorruptedRecord(t *testing.T) {
	h, engine := newHarness(DefaultEvalConfig())
	base := makeRecord(t, engine, instant)

	tests := []struct {
		name   string
		mutate func(*panchanga.Record)
		metric string
	}{
		{"wrong tithi index", func(r *panchanga.Record) { r.Tithi.Index++ }, "tithi_index"},
		{"tithi start shifted", func(r *panchanga.Record) { r.Tithi.Start = r.Tithi.Start.Add(-3 * time.Hour) }, "tithi_start_error_deg"},
		{"tithi end shifted", func(r *panchanga.Record) { r.Tithi.End = r.Tithi.End.Add(2 * time.Hour) }, "tithi_end_error_deg"},
		{"month start shifted", func(r *panchanga.Record) { r.LunarMonth.Start = r.LunarMonth.Start.Add(12 * time.Hour) }, "month_start_error_deg"},
		{"month before instant", func(r *panchanga.Record) { r.LunarMonth.End = r.Instant.Add(-time.Hour) }, "month_containment"},
		{"BS day off by one", func(r *panchanga.Record) { r.BSDate.Day++ }, "bs_roundtrip_days"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := base
			tt.mutate(&rec)

			result, err := h.Run(context.Background(), rec)
			if err != nil {
				t.Fatalf("Run: %v", err)
			}
			if result.Passed {
				t.Fatal("expected fail")
			}
			m, ok := result.Metric(tt.metric)
			if !ok || m.Pass {
				t.Fatalf("expected %s metric to fail, got %+v", tt.metric, m)
			}
		})
	}
}

func TestEvalProximityInformationalOnly(t *testing.T) {
	config := DefaultEvalConfig()
	config.MinProximityMinutes = 24 * 60
	h, engine := newHarness(config)

	result, err := h.Run(context.Background(), makeRecord(t, engine, instant))
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !result.Passed {
		t.Fatalf("proximity should be informational, not blocking: %s", result.Reason)
	}

	// But the metric should show pass=false
	m, ok := result.Metric("boundary_proximity_minutes")
	if !ok || m.Pass {
		t.Fatal("boundary_proximity_minutes should show pass=false below the minimum")
	}
}

func TestEvalReasonCountsFailures(t *testing.T) {
	h, engine := newHarness(DefaultEvalConfig())
	rec := makeRecord(t, engine, instant)
	rec.Tithi.Index++
	rec.BSDate.Day++

	result, err := h.Run(context.Background(), rec)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if result.Passed {
		t.Fatal("expected fail")
	}
	want := "eval failed: 4 checks: tithi index"
	if len(result.Reason) < len(want) || result.Reason[:len(want)] != want {
		t.Errorf("unexpected reason %q", result.Reason)
	}
}

func TestEvalOracleFailure(t *testing.T) {
	_, engine := newHarness(DefaultEvalConfig())
	rec := makeRecord(t, engine, instant)

	down := ephemeris.OracleFunc(func(_ context.Context, _ time.Time) (ephemeris.LongitudePair, error) {
		return ephemeris.LongitudePair{}, ephemeris.ErrOracleUnavailable
	})
	h := NewEvalHarness(DefaultEvalConfig(), down, engine.Converter())
	if _, err := h.Run(context.Background(), rec); !errors.Is(err, ephemeris.ErrOracleUnavailable) {
		t.Fatalf("expected ErrOracleUnavailable, got %v", err)
	}
}
