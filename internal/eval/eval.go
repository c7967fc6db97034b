package eval

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/dantwoashim/Project-Parva-sub001/internal/bs"
	"github.com/dantwoashim/Project-Parva-sub001/internal/ephemeris"
	"github.com/dantwoashim/Project-Parva-sub001/internal/panchanga"
	"github.com/dantwoashim/Project-Parva-sub001/internal/tithi"
	"github.com/dantwoashim/Project-Parva-sub001/internal/uncertainty"
)

// #region eval-harness
// EvalHarness re-derives a panchanga record's values from the oracle and
// checks them against what the record claims.
type EvalHarness struct {
	config    EvalConfig
	oracle    ephemeris.Oracle
	converter *bs.Converter
}

// NewEvalHarness creates an eval harness with the given configuration.
func NewEvalHarness(config EvalConfig, oracle ephemeris.Oracle, converter *bs.Converter) *EvalHarness {
	return &EvalHarness{config: config, oracle: oracle, converter: converter}
}

// Run checks the tithi at the instant and at both boundaries, the month's
// new moon and containment, and the BS round trip. Boundary proximity is
// reported but never fails the run. Oracle and conversion failures are
// returned as errors.
func (h *EvalHarness) Run(ctx context.Context, rec panchanga.Record) (EvalResult, error) {
	var metrics []EvalMetric
	var failReasons []string
	check := func(name string, value float64, pass bool, reason string) {
		metrics = append(metrics, EvalMetric{Name: name, Value: value, Pass: pass})
		if !pass {
			failReasons = append(failReasons, reason)
		}
	}

	// 1. Tithi index at the instant
	elong, err := h.elongation(ctx, rec.Instant)
	if err != nil {
		return EvalResult{}, err
	}
	idx := tithi.IndexOf(elong)
	check("tithi_index", float64(idx), idx == rec.Tithi.Index,
		fmt.Sprintf("tithi index %d recomputed as %d", rec.Tithi.Index, idx))

	// 2. Both tithi boundaries sit on multiples of 12 degrees
	startErr, err := h.boundaryError(ctx, rec.Tithi.Start, float64(rec.Tithi.Index-1)*tithi.Span)
	if err != nil {
		return EvalResult{}, err
	}
	check("tithi_start_error_deg", startErr, startErr <= h.config.MaxBoundaryErrorDeg,
		fmt.Sprintf("tithi start off by %.4f deg", startErr))

	endErr, err := h.boundaryError(ctx, rec.Tithi.End, float64(rec.Tithi.Index)*tithi.Span)
	if err != nil {
		return EvalResult{}, err
	}
	check("tithi_end_error_deg", endErr, endErr <= h.config.MaxBoundaryErrorDeg,
		fmt.Sprintf("tithi end off by %.4f deg", endErr))

	// 3. Lunar month starts at a new moon and contains the instant
	monthErr, err := h.boundaryError(ctx, rec.LunarMonth.Start, 0)
	if err != nil {
		return EvalResult{}, err
	}
	check("month_start_error_deg", monthErr, monthErr <= h.config.MaxBoundaryErrorDeg,
		fmt.Sprintf("%s start off new moon by %.4f deg", rec.LunarMonth.FullName, monthErr))

	contained := !rec.Instant.Before(rec.LunarMonth.Start) && rec.Instant.Before(rec.LunarMonth.End)
	check("month_containment", boolValue(contained), contained,
		fmt.Sprintf("instant outside %s", rec.LunarMonth.FullName))

	// 4. BS date converts back to the civil date
	back, err := h.converter.ToGregorian(ctx, rec.BSDate)
	if err != nil {
		return EvalResult{}, fmt.Errorf("convert %s back: %w", rec.BSDate, err)
	}
	drift := math.Abs(back.Sub(rec.CivilDate).Hours() / 24)
	check("bs_roundtrip_days", drift, drift <= float64(h.config.MaxRoundTripDays),
		fmt.Sprintf("BS %s maps back to %s, not %s", rec.BSDate, back.Format(time.DateOnly), rec.CivilDate.Format(time.DateOnly)))

	// 5. Boundary proximity: informational, does not fail
	progress := rec.Tithi.Progress
	proximity, _ := uncertainty.BoundaryProximityMinutes(&progress)
	metrics = append(metrics, EvalMetric{
		Name:  "boundary_proximity_minutes",
		Value: proximity,
		Pass:  proximity >= h.config.MinProximityMinutes,
	})

	reason := "all checks passed"
	if len(failReasons) > 0 {
		reason = fmt.Sprintf("eval failed: %s", failReasons[0])
		if len(failReasons) > 1 {
			reason = fmt.Sprintf("eval failed: %d checks: %s", len(failReasons), failReasons[0])
		}
	}

	return EvalResult{
		Passed:  len(failReasons) == 0,
		Metrics: metrics,
		Reason:  reason,
	}, nil
}

// #endregion eval-harness

// #region helpers
func (h *EvalHarness) elongation(ctx context.Context, t time.Time) (float64, error) {
	p, err := h.oracle.Longitudes(ctx, t)
	if err != nil {
		return 0, fmt.Errorf("sample %s: %w", t.UTC().Format(time.RFC3339), err)
	}
	return p.Elongation(), nil
}

// boundaryError is the angular distance between the elongation at t and target.
func (h *EvalHarness) boundaryError(ctx context.Context, t time.Time, target float64) (float64, error) {
	elong, err := h.elongation(ctx, t)
	if err != nil {
		return 0, err
	}
	return math.Abs(ephemeris.SignedDelta(elong, target)), nil
}

func boolValue(b bool) float64 {
	if b {
		return 1
	}
	return 0
}

// #endregion helpers
