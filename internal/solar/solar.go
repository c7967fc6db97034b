package solar

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/dantwoashim/Project-Parva-sub001/internal/ephemeris"
	"github.com/dantwoashim/Project-Parva-sub001/internal/rootfind"
)

// #region names
// RashiNames lists the sidereal signs from Mesha (0 degrees).
var RashiNames = [12]string{
	"Mesha", "Vrishabha", "Mithuna", "Karka", "Simha", "Kanya",
	"Tula", "Vrishchika", "Dhanu", "Makara", "Kumbha", "Meena",
}

// RashiOf returns the sign index 0..11 for a sidereal longitude.
func RashiOf(sunLongitude float64) int {
	r := int(ephemeris.Normalize(sunLongitude) / 30)
	if r > 11 {
		r = 11
	}
	return r
}
// #endregion names

// #region sankranti
// Sankranti is the instant the Sun enters Rashi.
type Sankranti struct {
	Rashi int
	At    time.Time
}

// Name returns the sign being entered.
func (s Sankranti) Name() string {
	return RashiNames[s.Rashi]
}

// Engine locates solar ingress events through an oracle.
type Engine struct {
	oracle ephemeris.Oracle
	search rootfind.Config
}

// NewEngine creates a solar event engine.
func NewEngine(oracle ephemeris.Oracle, search rootfind.Config) *Engine {
	return &Engine{oracle: oracle, search: search}
}

// SunLongitude samples the sidereal solar longitude.
func (e *Engine) SunLongitude(ctx context.Context, t time.Time) (float64, error) {
	p, err := e.oracle.Longitudes(ctx, t)
	if err != nil {
		return 0, err
	}
	return p.Sun, nil
}

// NextSankranti returns the first ingress strictly after the sign occupied at after.
func (e *Engine) NextSankranti(ctx context.Context, after time.Time) (Sankranti, error) {
	lon, err := e.SunLongitude(ctx, after)
	if err != nil {
		return Sankranti{}, err
	}
	next := (RashiOf(lon) + 1) % 12
	// A sign spans at most 32 days.
	at, err := rootfind.Next(ctx, e.SunLongitude, float64(next*30), after, 24*time.Hour, 40, e.search)
	if err != nil {
		return Sankranti{}, fmt.Errorf("sankranti into %s: %w", RashiNames[next], err)
	}
	return Sankranti{Rashi: next, At: at}, nil
}

// SankrantisIn lists every ingress in [start, end).
func (e *Engine) SankrantisIn(ctx context.Context, start, end time.Time) ([]Sankranti, error) {
	var out []Sankranti
	cur := start
	for {
		s, err := e.NextSankranti(ctx, cur)
		if err != nil {
			return nil, err
		}
		if !s.At.Before(end) {
			return out, nil
		}
		if !s.At.Before(start) {
			out = append(out, s)
		}
		cur = s.At.Add(time.Second)
	}
}

// MeshaSankranti returns the ingress into Mesha during a Gregorian year (mid April).
func (e *Engine) MeshaSankranti(ctx context.Context, year int) (time.Time, error) {
	from := time.Date(year, time.March, 15, 0, 0, 0, 0, time.UTC)
	at, err := rootfind.Next(ctx, e.SunLongitude, 0, from, 24*time.Hour, 60, e.search)
	if err != nil {
		return time.Time{}, fmt.Errorf("mesha sankranti %d: %w", year, err)
	}
	return at, nil
}

// SolarYear returns the 12 ingresses starting at Mesha Sankranti of year,
// followed by the next year's Mesha Sankranti.
func (e *Engine) SolarYear(ctx context.Context, year int) ([13]Sankranti, error) {
	var out [13]Sankranti
	mesha, err := e.MeshaSankranti(ctx, year)
	if err != nil {
		return out, err
	}
	out[0] = Sankranti{Rashi: 0, At: mesha}
	for i := 1; i < 13; i++ {
		s, err := e.NextSankranti(ctx, out[i-1].At.Add(time.Second))
		if err != nil {
			return out, err
		}
		out[i] = s
	}
	if out[12].Rashi != 0 {
		return out, fmt.Errorf("solar year %d: expected Mesha after Meena, got %s", year, out[12].Name())
	}
	return out, nil
}
// #endregion sankranti

// #region sunrise
// Location is an observer position with its civil time zone.
type Location struct {
	Latitude  float64
	Longitude float64
	Zone      *time.Location
}

// NepalTime is the fixed UTC+05:45 civil zone.
var NepalTime = time.FixedZone("NPT", 5*3600+45*60)

// Kathmandu is the reference location for BS month starts and udaya tithi.
var Kathmandu = Location{Latitude: 27.7172, Longitude: 85.3240, Zone: NepalTime}

// Sunrise approximates upper-limb sunrise with refraction for a civil date
// (NOAA general solar position formulas, about one minute accuracy).
func Sunrise(date time.Time, loc Location) time.Time {
	y, m, d := date.Date()
	day := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	n := float64(day.YearDay())
	gamma := 2 * math.Pi / 365 * (n - 1)

	eqt := 229.18 * (0.000075 + 0.001868*math.Cos(gamma) - 0.032077*math.Sin(gamma) -
		0.014615*math.Cos(2*gamma) - 0.040849*math.Sin(2*gamma))
	decl := 0.006918 - 0.399912*math.Cos(gamma) + 0.070257*math.Sin(gamma) -
		0.006758*math.Cos(2*gamma) + 0.000907*math.Sin(2*gamma) -
		0.002697*math.Cos(3*gamma) + 0.00148*math.Sin(3*gamma)

	lat := loc.Latitude * math.Pi / 180
	cosHA := math.Cos(90.833*math.Pi/180)/(math.Cos(lat)*math.Cos(decl)) - math.Tan(lat)*math.Tan(decl)
	cosHA = math.Max(-1, math.Min(1, cosHA))
	ha := math.Acos(cosHA) * 180 / math.Pi

	minutes := 720 - 4*(loc.Longitude+ha) - eqt
	return day.Add(time.Duration(minutes * float64(time.Minute)))
}
// #endregion sunrise

// #region civil-date
// CivilDate returns the local calendar date of t at loc, as midnight UTC.
func CivilDate(t time.Time, loc Location) time.Time {
	y, m, d := t.In(loc.Zone).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// MonthStartDate applies the Nepal rule: an ingress at or before local
// sunrise starts the month that day, a later ingress starts it the next day.
func MonthStartDate(ingress time.Time, loc Location) time.Time {
	day := CivilDate(ingress, loc)
	if !ingress.After(Sunrise(day, loc)) {
		return day
	}
	return day.AddDate(0, 0, 1)
}
// #endregion civil-date
