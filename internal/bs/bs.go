package bs

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/dantwoashim/Project-Parva-sub001/internal/ephemeris"
	"github.com/dantwoashim/Project-Parva-sub001/internal/lunar"
	"github.com/dantwoashim/Project-Parva-sub001/internal/rootfind"
	"github.com/dantwoashim/Project-Parva-sub001/internal/solar"
	"github.com/dantwoashim/Project-Parva-sub001/internal/uncertainty"
)

// #region errors
// ErrInvalidDateRange is returned for dates outside the supported window or
// with an impossible month or day.
var ErrInvalidDateRange = errors.New("invalid date range")
// #endregion errors

// #region constants
const (
	// EstimatedYears is how far the estimated regime extends past either table edge.
	EstimatedYears = 200

	// yearOffset is the BS year minus the Gregorian year in which it begins.
	yearOffset = 57
)
// #endregion constants

// #region date
// Date is a Bikram Sambat calendar date.
type Date struct {
	Year       int
	Month      int // 1..12, Baishakh..Chaitra
	Day        int
	Confidence uncertainty.Confidence
	Band       uncertainty.Band // set only for estimated dates
}

// String renders the date as YYYY-MM-DD.
func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, d.Month, d.Day)
}

// MonthName returns the month name, or "" when Month is out of range.
func (d Date) MonthName() string {
	if d.Month < 1 || d.Month > 12 {
		return ""
	}
	return lunar.MonthNames[d.Month-1]
}

// ParseDate reads a YYYY-MM-DD BS date. Confidence defaults to Official.
func ParseDate(s string) (Date, error) {
	var d Date
	if _, err := fmt.Sscanf(s, "%d-%d-%d", &d.Year, &d.Month, &d.Day); err != nil {
		return Date{}, fmt.Errorf("%w: parse %q: %v", ErrInvalidDateRange, s, err)
	}
	d.Confidence = uncertainty.Official
	return d, nil
}
// #endregion date

// #region converter
// Converter maps Gregorian civil dates to BS and back. The official table
// can be swapped at runtime; everything else is configuration.
type Converter struct {
	table atomic.Pointer[Table]
	solar *solar.Engine
	loc   solar.Location
}

// NewConverter creates a converter over the embedded official table.
func NewConverter(oracle ephemeris.Oracle, search rootfind.Config) *Converter {
	c := &Converter{solar: solar.NewEngine(oracle, search), loc: solar.Kathmandu}
	c.table.Store(DefaultTable())
	return c
}

// SetTable replaces the official table.
func (c *Converter) SetTable(t *Table) {
	c.table.Store(t)
}

// Table returns the active official table.
func (c *Converter) Table() *Table {
	return c.table.Load()
}

// Window returns the first and last supported BS years.
func (c *Converter) Window() (int, int) {
	t := c.Table()
	return t.First - EstimatedYears, t.Last + EstimatedYears
}

func (c *Converter) inWindow(year int) bool {
	lo, hi := c.Window()
	return year >= lo && year <= hi
}

// band grows with distance from the official table.
func (c *Converter) band(year int) uncertainty.Band {
	t := c.Table()
	dist := 0
	switch {
	case year < t.First:
		dist = t.First - year
	case year > t.Last:
		dist = year - t.Last
	}
	switch {
	case dist <= 25:
		return uncertainty.Band{MinDays: 0, MaxDays: 1}
	case dist <= 100:
		return uncertainty.Band{MinDays: 1, MaxDays: 2}
	default:
		return uncertainty.Band{MinDays: 1, MaxDays: 3}
	}
}
// #endregion converter

// #region to-bs
// ToBS converts a Gregorian civil date (its year, month and day are used
// as given) to BS. Dates inside the official table are Official; others
// within the window are Estimated.
func (c *Converter) ToBS(ctx context.Context, date time.Time) (Date, error) {
	y, m, d := date.Date()
	day := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)

	t := c.Table()
	first, end := t.Span()
	if !day.Before(first) && day.Before(end) {
		return officialToBS(t, day), nil
	}

	bsYear := y + yearOffset
	if !c.inWindow(bsYear) && !c.inWindow(bsYear-1) {
		lo, hi := c.Window()
		return Date{}, fmt.Errorf("%w: %s outside BS %d..%d", ErrInvalidDateRange, day.Format(time.DateOnly), lo, hi)
	}
	starts, err := c.estimatedStarts(ctx, bsYear)
	if err != nil {
		return Date{}, err
	}
	if day.Before(starts[0]) {
		bsYear--
		if starts, err = c.estimatedStarts(ctx, bsYear); err != nil {
			return Date{}, err
		}
	}
	if !c.inWindow(bsYear) {
		lo, hi := c.Window()
		return Date{}, fmt.Errorf("%w: %s maps to BS %d outside %d..%d", ErrInvalidDateRange, day.Format(time.DateOnly), bsYear, lo, hi)
	}

	for i := 0; i < 12; i++ {
		if day.Before(starts[i+1]) {
			return Date{
				Year:       bsYear,
				Month:      i + 1,
				Day:        int(day.Sub(starts[i]).Hours()/24) + 1,
				Confidence: uncertainty.Estimated,
				Band:       c.band(bsYear),
			}, nil
		}
	}
	return Date{}, fmt.Errorf("%w: %s not inside estimated BS %d", ErrInvalidDateRange, day.Format(time.DateOnly), bsYear)
}

func officialToBS(t *Table, day time.Time) Date {
	year := t.First
	for y := t.First; y <= t.Last; y++ {
		if s, _ := t.YearStart(y); !day.Before(s) {
			year = y
		}
	}
	start, _ := t.YearStart(year)
	offset := int(day.Sub(start).Hours() / 24)
	months, _ := t.Months(year)
	month := 0
	for offset >= months[month] {
		offset -= months[month]
		month++
	}
	return Date{Year: year, Month: month + 1, Day: offset + 1, Confidence: uncertainty.Official}
}
// #endregion to-bs

// #region to-gregorian
// ToGregorian converts a BS date to its Gregorian civil date (midnight UTC).
// Estimated dates are resolved with the estimated regime even inside the
// table so that ToBS and ToGregorian round-trip exactly.
func (c *Converter) ToGregorian(ctx context.Context, date Date) (time.Time, error) {
	if date.Month < 1 || date.Month > 12 || date.Day < 1 {
		return time.Time{}, fmt.Errorf("%w: BS %s", ErrInvalidDateRange, date)
	}
	t := c.Table()
	if date.Confidence != uncertainty.Estimated && t.Covers(date.Year) {
		months, _ := t.Months(date.Year)
		if date.Day > months[date.Month-1] {
			return time.Time{}, fmt.Errorf("%w: BS %s: %s has %d days", ErrInvalidDateRange, date, date.MonthName(), months[date.Month-1])
		}
		start, _ := t.YearStart(date.Year)
		for i := 0; i < date.Month-1; i++ {
			start = start.AddDate(0, 0, months[i])
		}
		return start.AddDate(0, 0, date.Day-1), nil
	}

	if !c.inWindow(date.Year) {
		lo, hi := c.Window()
		return time.Time{}, fmt.Errorf("%w: BS year %d outside %d..%d", ErrInvalidDateRange, date.Year, lo, hi)
	}
	starts, err := c.estimatedStarts(ctx, date.Year)
	if err != nil {
		return time.Time{}, err
	}
	length := int(starts[date.Month].Sub(starts[date.Month-1]).Hours() / 24)
	if date.Day > length {
		return time.Time{}, fmt.Errorf("%w: BS %s: %s has %d days", ErrInvalidDateRange, date, date.MonthName(), length)
	}
	return starts[date.Month-1].AddDate(0, 0, date.Day-1), nil
}
// #endregion to-gregorian

// #region month-lengths
// MonthLengths returns the twelve month lengths of a BS year and the regime
// they come from.
func (c *Converter) MonthLengths(ctx context.Context, year int) ([12]int, uncertainty.Confidence, error) {
	t := c.Table()
	if months, ok := t.Months(year); ok {
		return months, uncertainty.Official, nil
	}
	if !c.inWindow(year) {
		lo, hi := c.Window()
		return [12]int{}, uncertainty.Uncertain, fmt.Errorf("%w: BS year %d outside %d..%d", ErrInvalidDateRange, year, lo, hi)
	}
	starts, err := c.estimatedStarts(ctx, year)
	if err != nil {
		return [12]int{}, uncertainty.Uncertain, err
	}
	var out [12]int
	for i := range out {
		out[i] = int(starts[i+1].Sub(starts[i]).Hours() / 24)
	}
	return out, uncertainty.Estimated, nil
}

// estimatedStarts returns 1st of each month of a BS year plus 1 Baishakh of
// the next year, from sidereal ingresses and the Kathmandu sunrise rule.
func (c *Converter) estimatedStarts(ctx context.Context, bsYear int) ([13]time.Time, error) {
	var starts [13]time.Time
	ingresses, err := c.solar.SolarYear(ctx, bsYear-yearOffset)
	if err != nil {
		return starts, fmt.Errorf("estimate BS %d: %w", bsYear, err)
	}
	for i, s := range ingresses {
		starts[i] = solar.MonthStartDate(s.At, c.loc)
	}
	return starts, nil
}
// #endregion month-lengths
