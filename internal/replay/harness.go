package replay

import (
	"context"
	"math"
	"time"

	"github.com/dantwoashim/Project-Parva-sub001/internal/ephemeris"
	"github.com/dantwoashim/Project-Parva-sub001/internal/tithi"
)

// #region types
// Result is the comparison of one fixture row against an oracle.
type Result struct {
	Instant   time.Time
	SunDelta  float64 // absolute angular error, degrees
	MoonDelta float64
	WantTithi int
	GotTithi  int
	Passed    bool
	Reason    string // "ok" | "sun_tolerance" | "moon_tolerance" | "tithi_mismatch" | "oracle_error"
	Err       error
}

// Summary provides aggregate stats from a replay run.
type Summary struct {
	Total           int
	Passed          int
	SunFailures     int
	MoonFailures    int
	TithiMismatches int
	OracleErrors    int
	MaxSunDelta     float64
	MaxMoonDelta    float64
}
// #endregion types

// #region replay
// Replay samples oracle at every fixture instant and compares longitudes
// within the fixture tolerances and the tithi index exactly.
func Replay(ctx context.Context, oracle ephemeris.Oracle, f *Fixture) []Result {
	results := make([]Result, 0, len(f.Rows))
	for _, row := range f.Rows {
		r := Result{Instant: row.Instant, WantTithi: row.Tithi}

		p, err := oracle.Longitudes(ctx, row.Instant)
		if err != nil {
			r.Reason = "oracle_error"
			r.Err = err
			results = append(results, r)
			continue
		}

		want := row.Pair()
		r.SunDelta = math.Abs(ephemeris.SignedDelta(p.Sun, want.Sun))
		r.MoonDelta = math.Abs(ephemeris.SignedDelta(p.Moon, want.Moon))
		r.GotTithi = tithi.IndexOf(p.Elongation())

		switch {
		case r.SunDelta > f.ToleranceSunDeg:
			r.Reason = "sun_tolerance"
		case r.MoonDelta > f.ToleranceMoonDeg:
			r.Reason = "moon_tolerance"
		case r.GotTithi != r.WantTithi:
			r.Reason = "tithi_mismatch"
		default:
			r.Reason = "ok"
			r.Passed = true
		}
		results = append(results, r)
	}
	return results
}

// Summarize computes aggregate stats from replay results.
func Summarize(results []Result) Summary {
	s := Summary{Total: len(results)}
	for _, r := range results {
		s.MaxSunDelta = math.Max(s.MaxSunDelta, r.SunDelta)
		s.MaxMoonDelta = math.Max(s.MaxMoonDelta, r.MoonDelta)
		switch r.Reason {
		case "ok":
			s.Passed++
		case "sun_tolerance":
			s.SunFailures++
		case "moon_tolerance":
			s.MoonFailures++
		case "tithi_mismatch":
			s.TithiMismatches++
		case "oracle_error":
			s.OracleErrors++
		}
	}
	return s
}
// #endregion replay

// #region helpers
func round6(v float64) float64 {
	return math.Round(v*1e6) / 1e6
}
// #endregion helpers
