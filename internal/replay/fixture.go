package replay

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/dantwoashim/Project-Parva-sub001/internal/ephemeris"
	"github.com/dantwoashim/Project-Parva-sub001/internal/tithi"
)

// #region fixture-types
// Fixture is the top-level JSON structure of an ephemeris regression fixture.
type Fixture struct {
	Name             string       `json:"name"`
	ToleranceSunDeg  float64      `json:"tolerance_sun_deg"`
	ToleranceMoonDeg float64      `json:"tolerance_moon_deg"`
	Rows             []FixtureRow `json:"rows"`
}

// FixtureRow is one reference sample.
type FixtureRow struct {
	Instant       time.Time `json:"instant"`
	SunLongitude  float64   `json:"sun_longitude"`
	MoonLongitude float64   `json:"moon_longitude"`
	Tithi         int       `json:"tithi"`
}

// Pair returns the row's longitudes as a normalized pair.
func (r FixtureRow) Pair() ephemeris.LongitudePair {
	return ephemeris.NewLongitudePair(r.SunLongitude, r.MoonLongitude)
}
// #endregion fixture-types

// #region fixture-loader
// LoadFixture reads, parses and validates a JSON fixture file.
func LoadFixture(path string) (*Fixture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read fixture %s: %w", path, err)
	}
	var f Fixture
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse fixture %s: %w", path, err)
	}
	if err := f.Validate(); err != nil {
		return nil, fmt.Errorf("fixture %s: %w", path, err)
	}
	return &f, nil
}

// Validate checks tolerances, tithi range and instant ordering.
func (f *Fixture) Validate() error {
	if f.ToleranceSunDeg <= 0 || f.ToleranceMoonDeg <= 0 {
		return fmt.Errorf("tolerances must be positive")
	}
	for i, r := range f.Rows {
		if r.Tithi < 1 || r.Tithi > 30 {
			return fmt.Errorf("row %d: tithi %d", i, r.Tithi)
		}
		if i > 0 && !f.Rows[i-1].Instant.Before(r.Instant) {
			return fmt.Errorf("row %d: instants not strictly increasing", i)
		}
	}
	return nil
}

// WriteFixture stores f as indented JSON.
func WriteFixture(path string, f *Fixture) error {
	data, err := json.MarshalIndent(f, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal fixture: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("write fixture %s: %w", path, err)
	}
	return nil
}
// #endregion fixture-loader

// #region fixture-oracle
// Oracle answers exactly the fixture's instants and reports every other
// instant as unavailable.
func (f *Fixture) Oracle() ephemeris.Oracle {
	rows := f.Rows
	return ephemeris.OracleFunc(func(ctx context.Context, t time.Time) (ephemeris.LongitudePair, error) {
		if err := ctx.Err(); err != nil {
			return ephemeris.LongitudePair{}, fmt.Errorf("%w: %w", ephemeris.ErrOracleUnavailable, err)
		}
		i := sort.Search(len(rows), func(i int) bool { return !rows[i].Instant.Before(t) })
		if i < len(rows) && rows[i].Instant.Equal(t) {
			return rows[i].Pair(), nil
		}
		return ephemeris.LongitudePair{}, fmt.Errorf("%w: no fixture row at %s", ephemeris.ErrOracleUnavailable, t.UTC().Format(time.RFC3339))
	})
}
// #endregion fixture-oracle

// #region build
// Build samples oracle at instants into a new fixture.
func Build(ctx context.Context, oracle ephemeris.Oracle, name string, instants []time.Time, tolSun, tolMoon float64) (*Fixture, error) {
	sorted := append([]time.Time(nil), instants...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Before(sorted[j]) })

	f := &Fixture{Name: name, ToleranceSunDeg: tolSun, ToleranceMoonDeg: tolMoon}
	for _, t := range sorted {
		p, err := oracle.Longitudes(ctx, t)
		if err != nil {
			return nil, fmt.Errorf("sample %s: %w", t.UTC().Format(time.RFC3339), err)
		}
		f.Rows = append(f.Rows, FixtureRow{
			Instant:       t.UTC(),
			SunLongitude:  round6(p.Sun),
			MoonLongitude: round6(p.Moon),
			Tithi:         tithi.IndexOf(p.Elongation()),
		})
	}
	return f, f.Validate()
}
// #endregion build
