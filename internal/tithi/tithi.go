package tithi

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/dantwoashim/Project-Parva-sub001/internal/ephemeris"
	"github.com/dantwoashim/Project-Parva-sub001/internal/rootfind"
)

// #region engine
// Engine derives tithis from an oracle. It holds configuration only.
type Engine struct {
	oracle ephemeris.Oracle
	search rootfind.Config
}

// NewEngine creates a tithi engine.
func NewEngine(oracle ephemeris.Oracle, search rootfind.Config) *Engine {
	return &Engine{oracle: oracle, search: search}
}
// #endregion engine

// #region arithmetic
// IndexOf maps an elongation to a tithi index 1..30.
func IndexOf(elongation float64) int {
	idx := int(math.Floor(ephemeris.Normalize(elongation)/Span)) + 1
	if idx > 30 {
		idx = 30
	}
	return idx
}

// ProgressOf maps an elongation to the fraction of the current tithi elapsed.
func ProgressOf(elongation float64) float64 {
	p := math.Mod(ephemeris.Normalize(elongation), Span) / Span
	if p >= 1 {
		p = 0
	}
	return p
}
// #endregion arithmetic

// #region at
// Elongation samples the Moon-Sun elongation at t.
func (e *Engine) Elongation(ctx context.Context, t time.Time) (float64, error) {
	p, err := e.oracle.Longitudes(ctx, t)
	if err != nil {
		return 0, err
	}
	return p.Elongation(), nil
}

// At returns the tithi in force at t together with its boundaries.
func (e *Engine) At(ctx context.Context, t time.Time) (Tithi, error) {
	elong, err := e.Elongation(ctx, t)
	if err != nil {
		return Tithi{}, fmt.Errorf("sample elongation: %w", err)
	}
	idx := IndexOf(elong)

	start, err := e.boundary(ctx, t, idx, Backward)
	if err != nil {
		return Tithi{}, err
	}
	end, err := e.boundary(ctx, t, idx, Forward)
	if err != nil {
		return Tithi{}, err
	}
	if !start.Before(end) {
		return Tithi{}, fmt.Errorf("%w: tithi %d start %s not before end %s", ErrBoundarySearchDivergence, idx, start, end)
	}

	return Tithi{
		Index:      idx,
		Start:      start,
		End:        end,
		Progress:   ProgressOf(elong),
		Elongation: elong,
	}, nil
}
// #endregion at

// #region boundary-search
// BoundarySearch returns the nearest instant where elongation crosses a
// multiple of 12 degrees: the start of the current tithi (Backward) or its
// end (Forward).
func (e *Engine) BoundarySearch(ctx context.Context, t time.Time, dir Direction) (time.Time, error) {
	elong, err := e.Elongation(ctx, t)
	if err != nil {
		return time.Time{}, fmt.Errorf("sample elongation: %w", err)
	}
	return e.boundary(ctx, t, IndexOf(elong), dir)
}

// A tithi lasts between roughly 19 and 27 hours; 6-hour steps over 2 days
// always bracket the boundary.
const (
	scanStep  = 6 * time.Hour
	scanSteps = 8
)

func (e *Engine) boundary(ctx context.Context, t time.Time, idx int, dir Direction) (time.Time, error) {
	var (
		at  time.Time
		err error
	)
	switch dir {
	case Forward:
		target := ephemeris.Normalize(float64(idx) * Span)
		at, err = rootfind.Next(ctx, e.Elongation, target, t, scanStep, scanSteps, e.search)
	default:
		target := float64(idx-1) * Span
		at, err = rootfind.Prev(ctx, e.Elongation, target, t, scanStep, scanSteps, e.search)
	}
	if err != nil {
		return time.Time{}, fmt.Errorf("tithi %d %s boundary: %w", idx, dir, err)
	}
	return at, nil
}
// #endregion boundary-search
