package lunar

import (
	"context"
	"fmt"
	"time"

	"github.com/dantwoashim/Project-Parva-sub001/internal/ephemeris"
	"github.com/dantwoashim/Project-Parva-sub001/internal/rootfind"
	"github.com/dantwoashim/Project-Parva-sub001/internal/solar"
)

// #region constants
const (
	// 12h steps over 35 days bracket any conjunction (synodic month ~29.53 days).
	newMoonStep  = 12 * time.Hour
	newMoonSteps = 70

	// Boundaries scans at most this many months from 1 December of the prior year.
	maxBoundaryMonths = 18
)
// #endregion constants

// #region engine
// Engine derives lunar months through an oracle. It holds configuration only.
type Engine struct {
	oracle ephemeris.Oracle
	solar  *solar.Engine
	search rootfind.Config
}

// NewEngine creates a lunar month engine.
func NewEngine(oracle ephemeris.Oracle, search rootfind.Config) *Engine {
	return &Engine{
		oracle: oracle,
		solar:  solar.NewEngine(oracle, search),
		search: search,
	}
}

func (e *Engine) elongation(ctx context.Context, t time.Time) (float64, error) {
	p, err := e.oracle.Longitudes(ctx, t)
	if err != nil {
		return 0, err
	}
	return p.Elongation(), nil
}
// #endregion engine

// #region new-moon
// NextNewMoon returns the first conjunction after t.
func (e *Engine) NextNewMoon(ctx context.Context, t time.Time) (time.Time, error) {
	at, err := rootfind.Next(ctx, e.elongation, 0, t, newMoonStep, newMoonSteps, e.search)
	if err != nil {
		return time.Time{}, fmt.Errorf("next new moon after %s: %w", t.Format(time.RFC3339), err)
	}
	return at, nil
}

// PrevNewMoon returns the last conjunction at or before t.
func (e *Engine) PrevNewMoon(ctx context.Context, t time.Time) (time.Time, error) {
	at, err := rootfind.Prev(ctx, e.elongation, 0, t, newMoonStep, newMoonSteps, e.search)
	if err != nil {
		return time.Time{}, fmt.Errorf("previous new moon before %s: %w", t.Format(time.RFC3339), err)
	}
	return at, nil
}
// #endregion new-moon

// #region boundaries
// Boundaries returns consecutive new-moon spans overlapping a Gregorian year,
// scanning from 1 December of the previous year.
func (e *Engine) Boundaries(ctx context.Context, year int) ([]Span, error) {
	cursor := time.Date(year-1, time.December, 1, 0, 0, 0, 0, time.UTC)
	start, err := e.NextNewMoon(ctx, cursor)
	if err != nil {
		return nil, err
	}

	var spans []Span
	for i := 0; i < maxBoundaryMonths; i++ {
		end, err := e.NextNewMoon(ctx, start.Add(24*time.Hour))
		if err != nil {
			return nil, err
		}
		if start.Year() <= year && year <= end.Year() {
			spans = append(spans, Span{Start: start, End: end})
		}
		start = end
		if start.Year() > year && len(spans) >= 12 {
			break
		}
	}
	return spans, nil
}
// #endregion boundaries

// #region naming
// NameMonth names the month spanning [start, end) after the first ingress
// inside it. A month without an ingress takes the name of the month that
// follows it.
func (e *Engine) NameMonth(ctx context.Context, start, end time.Time) (string, error) {
	ingresses, err := e.solar.SankrantisIn(ctx, start, end)
	if err != nil {
		return "", fmt.Errorf("name month: %w", err)
	}
	if len(ingresses) > 0 {
		return nameForIngress(ingresses[0].Rashi), nil
	}
	next, err := e.solar.NextSankranti(ctx, end)
	if err != nil {
		return "", fmt.Errorf("name month: %w", err)
	}
	return nameForIngress(next.Rashi), nil
}

// DetectAdhik reports whether no ingress falls in [start, end).
func (e *Engine) DetectAdhik(ctx context.Context, start, end time.Time) (bool, error) {
	ingresses, err := e.solar.SankrantisIn(ctx, start, end)
	if err != nil {
		return false, fmt.Errorf("detect adhik: %w", err)
	}
	return len(ingresses) == 0, nil
}

// Month assembles a named month for one span. A span holding two ingresses
// is kshaya: it carries the first name and swallows the next.
func (e *Engine) Month(ctx context.Context, start, end time.Time) (Month, error) {
	ingresses, err := e.solar.SankrantisIn(ctx, start, end)
	if err != nil {
		return Month{}, fmt.Errorf("month: %w", err)
	}
	m := Month{Start: start, End: end, IsKshaya: len(ingresses) > 1}
	if len(ingresses) > 0 {
		m.Name = nameForIngress(ingresses[0].Rashi)
		m.FullName = m.Name
		return m, nil
	}
	next, err := e.solar.NextSankranti(ctx, end)
	if err != nil {
		return Month{}, fmt.Errorf("month: %w", err)
	}
	m.Name = nameForIngress(next.Rashi)
	m.FullName = "Adhik " + m.Name
	m.IsAdhik = true
	return m, nil
}

// MonthAt returns the lunar month containing t. An ingress-less month is
// resolved through its lunar year, which may demote it after a kshaya month.
func (e *Engine) MonthAt(ctx context.Context, t time.Time) (Month, error) {
	start, err := e.PrevNewMoon(ctx, t)
	if err != nil {
		return Month{}, err
	}
	end, err := e.NextNewMoon(ctx, t)
	if err != nil {
		return Month{}, err
	}
	m, err := e.Month(ctx, start, end)
	if err != nil || !m.IsAdhik {
		return m, err
	}
	for _, g := range []int{t.Year(), t.Year() - 1} {
		y, err := e.Year(ctx, g)
		if err != nil {
			return Month{}, err
		}
		for _, ym := range y.Months {
			if !t.Before(ym.Start) && t.Before(ym.End) {
				return ym, nil
			}
		}
	}
	return m, nil
}
// #endregion naming

// #region year
// Year returns the lunar year that starts with Chaitra around Mesha
// Sankranti of gregorianYear and ends before the next year's Chaitra.
func (e *Engine) Year(ctx context.Context, gregorianYear int) (Year, error) {
	start, err := e.yearStart(ctx, gregorianYear)
	if err != nil {
		return Year{}, err
	}
	stop, err := e.yearStart(ctx, gregorianYear+1)
	if err != nil {
		return Year{}, err
	}

	y := Year{GregorianYear: gregorianYear}
	cur := start
	for i := 0; i < 14 && cur.Before(stop.Add(-24*time.Hour)); i++ {
		end, err := e.NextNewMoon(ctx, cur.Add(24*time.Hour))
		if err != nil {
			return Year{}, err
		}
		m, err := e.Month(ctx, cur, end)
		if err != nil {
			return Year{}, err
		}
		y.Months = append(y.Months, m)
		cur = end
	}
	if n := len(y.Months); n < 12 || n > 13 {
		return Year{}, fmt.Errorf("lunar year %d: assembled %d months", gregorianYear, n)
	}
	resolveKshaya(y.Months)
	if n := y.AdhikCount(); n > 1 {
		return Year{}, fmt.Errorf("lunar year %d: %d adhik months", gregorianYear, n)
	}
	return y, nil
}

// resolveKshaya keeps one adhik month per year. The first ingress-less month
// stays adhik; a later one following a kshaya month becomes an ordinary
// month named for the month the kshaya swallowed.
func resolveKshaya(months []Month) {
	seenAdhik := false
	swallowed := ""
	for i := range months {
		m := &months[i]
		if m.IsKshaya {
			swallowed = followingName(m.Name)
		}
		if !m.IsAdhik {
			continue
		}
		if !seenAdhik {
			seenAdhik = true
			continue
		}
		if swallowed != "" {
			m.Name, m.FullName, m.IsAdhik = swallowed, swallowed, false
			swallowed = ""
		}
	}
}

// yearStart is the new moon opening Chaitra: the conjunction before Mesha
// Sankranti, moved one month earlier when the preceding month is adhik.
func (e *Engine) yearStart(ctx context.Context, gregorianYear int) (time.Time, error) {
	mesha, err := e.solar.MeshaSankranti(ctx, gregorianYear)
	if err != nil {
		return time.Time{}, err
	}
	nm, err := e.PrevNewMoon(ctx, mesha)
	if err != nil {
		return time.Time{}, err
	}
	before, err := e.PrevNewMoon(ctx, nm.Add(-24*time.Hour))
	if err != nil {
		return time.Time{}, err
	}
	adhik, err := e.DetectAdhik(ctx, before, nm)
	if err != nil {
		return time.Time{}, err
	}
	if adhik {
		return before, nil
	}
	return nm, nil
}
// #endregion year
