package rootfind

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dantwoashim/Project-Parva-sub001/internal/ephemeris"
)

// #region errors
// ErrBoundarySearchDivergence is returned when a search exhausts its step or
// iteration budget without isolating a crossing.
var ErrBoundarySearchDivergence = errors.New("boundary search divergence")
// #endregion errors

// #region config
// Config bounds a crossing search.
type Config struct {
	MaxIterations int           // bisection halvings per bracket
	Precision     time.Duration // stop once the bracket is this narrow
}

// DefaultConfig returns sub-minute precision with a generous iteration cap.
func DefaultConfig() Config {
	return Config{
		MaxIterations: 64,
		Precision:     30 * time.Second,
	}
}
// #endregion config

// #region angle-func
// AngleFunc samples an angle in degrees at an instant. It must increase
// monotonically (mod 360) across any bracket handed to Bisect.
type AngleFunc func(ctx context.Context, t time.Time) (float64, error)

func (f AngleFunc) delta(ctx context.Context, t time.Time, target float64) (float64, error) {
	v, err := f(ctx, t)
	if err != nil {
		return 0, err
	}
	return ephemeris.SignedDelta(v, target), nil
}
// #endregion angle-func

// #region bisect
// Bisect narrows [lo, hi] to the instant where f reaches target. The bracket
// must satisfy delta(lo) < 0 <= delta(hi). The returned instant is the upper
// bound of the final bracket, so f has reached target by then.
func Bisect(ctx context.Context, f AngleFunc, target float64, lo, hi time.Time, cfg Config) (time.Time, error) {
	dlo, err := f.delta(ctx, lo, target)
	if err != nil {
		return time.Time{}, err
	}
	if dlo == 0 {
		return lo, nil
	}
	dhi, err := f.delta(ctx, hi, target)
	if err != nil {
		return time.Time{}, err
	}
	if !(dlo < 0 && dhi >= 0) {
		return time.Time{}, fmt.Errorf("%w: target %.4f not bracketed in [%s, %s]", ErrBoundarySearchDivergence, target, lo.Format(time.RFC3339), hi.Format(time.RFC3339))
	}

	for i := 0; i < cfg.MaxIterations; i++ {
		if hi.Sub(lo) <= cfg.Precision {
			return hi, nil
		}
		mid := lo.Add(hi.Sub(lo) / 2)
		d, err := f.delta(ctx, mid, target)
		if err != nil {
			return time.Time{}, err
		}
		if d < 0 {
			lo = mid
		} else {
			hi = mid
		}
	}
	if hi.Sub(lo) <= cfg.Precision {
		return hi, nil
	}
	return time.Time{}, fmt.Errorf("%w: %d iterations left a %s bracket", ErrBoundarySearchDivergence, cfg.MaxIterations, hi.Sub(lo))
}
// #endregion bisect

// #region scan
// Next finds the first instant after from where f crosses target, stepping
// forward by step at most maxSteps times before bisecting.
func Next(ctx context.Context, f AngleFunc, target float64, from time.Time, step time.Duration, maxSteps int, cfg Config) (time.Time, error) {
	prev := from
	dprev, err := f.delta(ctx, prev, target)
	if err != nil {
		return time.Time{}, err
	}
	for i := 0; i < maxSteps; i++ {
		cur := prev.Add(step)
		d, err := f.delta(ctx, cur, target)
		if err != nil {
			return time.Time{}, err
		}
		if dprev < 0 && d >= 0 {
			return Bisect(ctx, f, target, prev, cur, cfg)
		}
		prev, dprev = cur, d
	}
	return time.Time{}, fmt.Errorf("%w: no crossing of %.4f within %d steps after %s", ErrBoundarySearchDivergence, target, maxSteps, from.Format(time.RFC3339))
}

// Prev finds the most recent instant at or before from where f crossed target.
func Prev(ctx context.Context, f AngleFunc, target float64, from time.Time, step time.Duration, maxSteps int, cfg Config) (time.Time, error) {
	cur := from
	dcur, err := f.delta(ctx, cur, target)
	if err != nil {
		return time.Time{}, err
	}
	if dcur == 0 {
		return cur, nil
	}
	for i := 0; i < maxSteps; i++ {
		prev := cur.Add(-step)
		d, err := f.delta(ctx, prev, target)
		if err != nil {
			return time.Time{}, err
		}
		if d < 0 && dcur >= 0 {
			return Bisect(ctx, f, target, prev, cur, cfg)
		}
		cur, dcur = prev, d
	}
	return time.Time{}, fmt.Errorf("%w: no crossing of %.4f within %d steps before %s", ErrBoundarySearchDivergence, target, maxSteps, from.Format(time.RFC3339))
}
// #endregion scan
