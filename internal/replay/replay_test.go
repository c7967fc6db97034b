package replay

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/dantwoashim/Project-Parva-sub001/internal/ephemeris"
)

const fixturePath = "testdata/ephemeris_500.json"

// helper: tiny fixture built from explicit rows.
func smallFixture() *Fixture {
	return &Fixture{
		Name:             "small",
		ToleranceSunDeg:  0.01,
		ToleranceMoonDeg: 0.05,
		Rows: []FixtureRow{
			{Instant: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), SunLongitude: 256, MoonLongitude: 300, Tithi: 4},
			{Instant: time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC), SunLongitude: 257, MoonLongitude: 313, Tithi: 5},
		},
	}
}

// #region fixture-tests
func TestLoadFixture_Regression500(t *testing.T) {
	f, err := LoadFixture(fixturePath)
	if err != nil {
		t.Fatalf("LoadFixture: %v", err)
	}
	if len(f.Rows) != 500 {
		t.Fatalf("expected 500 rows, got %d", len(f.Rows))
	}
	if f.ToleranceSunDeg != 0.01 || f.ToleranceMoonDeg != 0.05 {
		t.Errorf("unexpected tolerances %v/%v", f.ToleranceSunDeg, f.ToleranceMoonDeg)
	}
}

func TestLoadFixture_Errors(t *testing.T) {
	dir := t.TempDir()
	if _, err := LoadFixture(filepath.Join(dir, "missing.json")); err == nil {
		t.Error("expected error for missing file")
	}

	bad := filepath.Join(dir, "bad.json")
	os.WriteFile(bad, []byte("{not json"), 0o644)
	if _, err := LoadFixture(bad); err == nil {
		t.Error("expected error for malformed JSON")
	}

	unordered := smallFixture()
	unordered.Rows[0], unordered.Rows[1] = unordered.Rows[1], unordered.Rows[0]
	if err := unordered.Validate(); err == nil {
		t.Error("expected error for unordered rows")
	}

	noTol := smallFixture()
	noTol.ToleranceMoonDeg = 0
	if err := noTol.Validate(); err == nil {
		t.Error("expected error for zero tolerance")
	}
}

func TestWriteFixture_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "f.json")
	if err := WriteFixture(path, smallFixture()); err != nil {
		t.Fatalf("WriteFixture: %v", err)
	}
	f, err := LoadFixture(path)
	if err != nil {
		t.Fatalf("LoadFixture: %v", err)
	}
	if f.Name != "small" || len(f.Rows) != 2 || f.Rows[1].Tithi != 5 {
		t.Errorf("unexpected fixture %+v", f)
	}
}
// #endregion fixture-tests

// #region oracle-tests
func TestFixtureOracle(t *testing.T) {
	f := smallFixture()
	o := f.Oracle()
	ctx := context.Background()

	p, err := o.Longitudes(ctx, f.Rows[1].Instant)
	if err != nil {
		t.Fatalf("Longitudes: %v", err)
	}
	if p.Sun != 257 || p.Moon != 313 {
		t.Errorf("unexpected pair %+v", p)
	}

	if _, err := o.Longitudes(ctx, f.Rows[1].Instant.Add(time.Second)); !errors.Is(err, ephemeris.ErrOracleUnavailable) {
		t.Errorf("expected ErrOracleUnavailable off-fixture, got %v", err)
	}

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	if _, err := o.Longitudes(cancelled, f.Rows[0].Instant); !errors.Is(err, ephemeris.ErrOracleUnavailable) {
		t.Errorf("expected ErrOracleUnavailable on cancelled context, got %v", err)
	}
}
// #endregion oracle-tests

// #region replay-tests
func TestReplay_AnalyticMatchesRegressionFixture(t *testing.T) {
	f, err := LoadFixture(fixturePath)
	if err != nil {
		t.Fatalf("LoadFixture: %v", err)
	}
	results := Replay(context.Background(), ephemeris.NewAnalytic(), f)
	s := Summarize(results)
	if s.Total != 500 || s.Passed != 500 {
		t.Errorf("expected 500/500 passing, got %+v", s)
		for _, r := range results {
			if !r.Passed {
				t.Logf("%s: %s sun=%.5f moon=%.5f tithi %d/%d", r.Instant.Format(time.RFC3339), r.Reason, r.SunDelta, r.MoonDelta, r.GotTithi, r.WantTithi)
			}
		}
	}
	if s.MaxSunDelta > f.ToleranceSunDeg || s.MaxMoonDelta > f.ToleranceMoonDeg {
		t.Errorf("max deltas %.5f/%.5f exceed tolerance", s.MaxSunDelta, s.MaxMoonDelta)
	}
}

func TestReplay_FixtureOracleIsExact(t *testing.T) {
	f := smallFixture()
	s := Summarize(Replay(context.Background(), f.Oracle(), f))
	if s.Passed != 2 || s.MaxSunDelta != 0 || s.MaxMoonDelta != 0 {
		t.Errorf("expected exact self replay, got %+v", s)
	}
}

func TestReplay_Failures(t *testing.T) {
	f := smallFixture()
	tests := []struct {
		name   string
		oracle ephemeris.Oracle
		reason string
	}{
		{"sun off", ephemeris.OracleFunc(func(_ context.Context, t time.Time) (ephemeris.LongitudePair, error) {
			p, _ := f.Oracle().Longitudes(context.Background(), t)
			return ephemeris.NewLongitudePair(p.Sun+0.5, p.Moon+0.5), nil
		}), "sun_tolerance"},
		{"moon off", ephemeris.OracleFunc(func(_ context.Context, t time.Time) (ephemeris.LongitudePair, error) {
			p, _ := f.Oracle().Longitudes(context.Background(), t)
			return ephemeris.NewLongitudePair(p.Sun, p.Moon+0.2), nil
		}), "moon_tolerance"},
		{"oracle down", ephemeris.OracleFunc(func(_ context.Context, _ time.Time) (ephemeris.LongitudePair, error) {
			return ephemeris.LongitudePair{}, ephemeris.ErrOracleUnavailable
		}), "oracle_error"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			results := Replay(context.Background(), tt.oracle, f)
			for _, r := range results {
				if r.Passed || r.Reason != tt.reason {
					t.Errorf("expected %s, got passed=%v reason=%s", tt.reason, r.Passed, r.Reason)
				}
			}
		})
	}

	mismatch := smallFixture()
	mismatch.Rows[0].Tithi = 9
	s := Summarize(Replay(context.Background(), smallFixture().Oracle(), mismatch))
	if s.TithiMismatches != 1 || s.Passed != 1 {
		t.Errorf("expected one tithi mismatch, got %+v", s)
	}
}
// #endregion replay-tests

// #region build-tests
func TestBuild(t *testing.T) {
	instants := []time.Time{
		time.Date(2030, 5, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2020, 5, 1, 0, 0, 0, 0, time.UTC),
	}
	f, err := Build(context.Background(), ephemeris.NewAnalytic(), "built", instants, 0.01, 0.05)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if !f.Rows[0].Instant.Before(f.Rows[1].Instant) {
		t.Error("expected rows sorted by instant")
	}
	s := Summarize(Replay(context.Background(), ephemeris.NewAnalytic(), f))
	if s.Passed != 2 {
		t.Errorf("expected built fixture to replay cleanly, got %+v", s)
	}
}
// #endregion build-tests
