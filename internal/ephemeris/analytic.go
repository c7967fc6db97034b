package ephemeris

import (
	"context"
	"fmt"
	"math"
	"time"
)

// #region constants
const (
	deg2rad   = math.Pi / 180
	unixEpoch = 2440587.5 // Julian day of 1970-01-01T00:00Z
	j2000     = 2451545.0
)

// Supported instants for the truncated series. Outside this window the Moon
// error exceeds the 0.05 degree tolerance.
var (
	analyticMin = time.Date(1700, 1, 1, 0, 0, 0, 0, time.UTC)
	analyticMax = time.Date(2400, 1, 1, 0, 0, 0, 0, time.UTC)
)
// #endregion constants

// #region moon-terms
// moonTerm is one periodic term of the lunar longitude series: multiples of
// D, M, M', F and the sine coefficient in 1e-6 degrees.
type moonTerm struct {
	d, m, mp, f int
	coeff       float64
}

var moonTerms = []moonTerm{
	{0, 0, 1, 0, 6288774}, {2, 0, -1, 0, 1274027}, {2, 0, 0, 0, 658314}, {0, 0, 2, 0, 213618},
	{0, 1, 0, 0, -185116}, {0, 0, 0, 2, -114332}, {2, 0, -2, 0, 58793}, {2, -1, -1, 0, 57066},
	{2, 0, 1, 0, 53322}, {2, -1, 0, 0, 45758}, {0, 1, -1, 0, -40923}, {1, 0, 0, 0, -34720},
	{0, 1, 1, 0, -30383}, {2, 0, 0, -2, 15327}, {0, 0, 1, 2, -12528}, {0, 0, 1, -2, 10980},
	{4, 0, -1, 0, 10675}, {0, 0, 3, 0, 10034}, {4, 0, -2, 0, 8548}, {2, 1, -1, 0, -7888},
	{2, 1, 0, 0, -6766}, {1, 0, -1, 0, -5163}, {1, 1, 0, 0, 4987}, {2, -1, 1, 0, 4036},
	{2, 0, 2, 0, 3994}, {4, 0, 0, 0, 3861}, {2, 0, -3, 0, 3665}, {0, 1, -2, 0, -2689},
	{2, 0, -1, 2, -2602}, {2, -1, -2, 0, 2390}, {1, 0, 1, 0, -2348}, {2, -2, 0, 0, 2236},
	{0, 1, 2, 0, -2120}, {0, 2, 0, 0, -2069}, {2, -2, -1, 0, 2048}, {2, 0, 1, -2, -1773},
	{2, 0, 0, 2, -1595}, {4, -1, -1, 0, 1215}, {0, 0, 2, 2, -1110}, {3, 0, -1, 0, -892},
	{2, 1, 1, 0, -810}, {4, -1, -2, 0, 759}, {0, 2, -1, 0, -713}, {2, 2, -1, 0, -700},
	{2, 1, -2, 0, 691}, {2, -1, 0, -2, 596}, {4, 0, 1, 0, 549}, {0, 0, 4, 0, 537},
	{4, -1, 0, 0, 520}, {1, 0, -2, 0, -487}, {2, 1, 0, -2, -399}, {0, 0, 2, -2, -381},
	{1, 1, 1, 0, 351}, {3, 0, -2, 0, -340}, {4, 0, -3, 0, 330}, {2, -1, 2, 0, 327},
	{0, 2, 1, 0, -323}, {1, 1, -1, 0, 299}, {2, 0, 3, 0, 294},
}
// #endregion moon-terms

// #region analytic
// Analytic computes Lahiri sidereal Sun and Moon longitudes in-process.
type Analytic struct{}

// NewAnalytic returns the in-process oracle.
func NewAnalytic() *Analytic {
	return &Analytic{}
}

// Longitudes implements Oracle.
func (a *Analytic) Longitudes(ctx context.Context, t time.Time) (LongitudePair, error) {
	if err := ctx.Err(); err != nil {
		return LongitudePair{}, fmt.Errorf("%w: %w", ErrOracleUnavailable, err)
	}
	if t.Before(analyticMin) || !t.Before(analyticMax) {
		return LongitudePair{}, fmt.Errorf("%w: instant %s outside analytic range", ErrOracleUnavailable, t.UTC().Format(time.RFC3339))
	}

	T := julianCenturies(t)
	dpsi := nutationLongitude(T)
	ay := lahiriAyanamsa(T)
	return NewLongitudePair(
		sunTropical(T)+dpsi-ay,
		moonTropical(T)+dpsi-ay,
	), nil
}
// #endregion analytic

// #region time-scale
// JulianDay converts an instant to a UT Julian day number.
func JulianDay(t time.Time) float64 {
	secs := float64(t.Unix()) + float64(t.Nanosecond())/1e9
	return secs/86400 + unixEpoch
}

// deltaTSeconds is the long-term parabolic TT-UT estimate.
func deltaTSeconds(jd float64) float64 {
	y := 2000 + (jd-j2000)/365.25
	u := (y - 1820) / 100
	return -20 + 32*u*u
}

func julianCenturies(t time.Time) float64 {
	jd := JulianDay(t)
	jde := jd + deltaTSeconds(jd)/86400
	return (jde - j2000) / 36525
}
// #endregion time-scale

// #region series
func nutationLongitude(T float64) float64 {
	omega := 125.04452 - 1934.136261*T
	return -0.004778 * math.Sin(omega*deg2rad)
}

func lahiriAyanamsa(T float64) float64 {
	return 23.853 + 1.396971*T + 0.000308*T*T
}

func sunTropical(T float64) float64 {
	l0 := 280.46646 + 36000.76983*T + 0.0003032*T*T
	m := (357.52911 + 35999.05029*T - 0.0001537*T*T) * deg2rad
	c := (1.914602-0.004817*T-0.000014*T*T)*math.Sin(m) +
		(0.019993-0.000101*T)*math.Sin(2*m) +
		0.000289*math.Sin(3*m)
	return l0 + c - 0.00569
}

func moonTropical(T float64) float64 {
	T2 := T * T
	T3 := T2 * T
	T4 := T3 * T

	lp := 218.3164477 + 481267.88123421*T - 0.0015786*T2 + T3/538841 - T4/65194000
	d := 297.8501921 + 445267.1114034*T - 0.0018819*T2 + T3/545868 - T4/113065000
	m := 357.5291092 + 35999.0502909*T - 0.0001536*T2 + T3/24490000
	mp := 134.9633964 + 477198.8675055*T + 0.0087414*T2 + T3/69699 - T4/14712000
	f := 93.2720950 + 483202.0175233*T - 0.0036539*T2 - T3/3526000 + T4/863310000
	e := 1 - 0.002516*T - 0.0000074*T2

	var sum float64
	for _, term := range moonTerms {
		arg := (float64(term.d)*d + float64(term.m)*m + float64(term.mp)*mp + float64(term.f)*f) * deg2rad
		coeff := term.coeff
		switch term.m {
		case 1, -1:
			coeff *= e
		case 2, -2:
			coeff *= e * e
		}
		sum += coeff * math.Sin(arg)
	}

	a1 := 119.75 + 131.849*T
	a2 := 53.09 + 479264.290*T
	sum += 3958*math.Sin(a1*deg2rad) + 1962*math.Sin((lp-f)*deg2rad) + 318*math.Sin(a2*deg2rad)

	return lp + sum/1e6
}
// #endregion series
