package main

import (
	"context"
	"flag"
	"fmt"
	"math/rand/v2"
	"os"
	"time"

	"github.com/dantwoashim/Project-Parva-sub001/internal/ephemeris"
	"github.com/dantwoashim/Project-Parva-sub001/internal/logging"
	"github.com/dantwoashim/Project-Parva-sub001/internal/replay"
	"github.com/dantwoashim/Project-Parva-sub001/internal/store"
)

// #region main

func main() {
	outPath := flag.String("out", "", "output fixture JSON path")
	name := flag.String("name", "ephemeris regression", "fixture name")
	from := flag.String("from", "1950-01-01", "first sample date (sampling mode)")
	to := flag.String("to", "2099-12-31", "last sample date (sampling mode)")
	count := flag.Int("count", 500, "number of samples (sampling mode)")
	seed := flag.Uint64("seed", 1, "seed for sub-day sample offsets")
	dbPath := flag.String("db", "", "export the instants of the last N provenance rows instead of sampling")
	last := flag.Int("last", 100, "number of provenance rows to export (db mode)")
	oracleAddr := flag.String("oracle", "", "remote ephemeris service address (default in-process analytic)")
	timeout := flag.Duration("timeout", 5*time.Second, "per-call timeout for the remote oracle")
	tolSun := flag.Float64("tol-sun", 0.01, "sun tolerance in degrees")
	tolMoon := flag.Float64("tol-moon", 0.05, "moon tolerance in degrees")
	flag.Parse()

	if *outPath == "" {
		fmt.Fprintln(os.Stderr, "usage: fixture-export --out path/to/fixture.json [--from date --to date --count N | --db path [--last N]] [--oracle host:port]")
		os.Exit(2)
	}

	var instants []time.Time
	var err error
	if *dbPath != "" {
		instants, err = fromProvenance(*dbPath, *last)
	} else {
		instants, err = sample(*from, *to, *count, *seed)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	if err := run(*oracleAddr, *timeout, *name, instants, *tolSun, *tolMoon, *outPath); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// #endregion main

// #region extract

// sample spreads count instants evenly over [from, to], each shifted by a
// seeded offset within its slot and truncated to the second.
func sample(from, to string, count int, seed uint64) ([]time.Time, error) {
	start, err := time.Parse(time.DateOnly, from)
	if err != nil {
		return nil, fmt.Errorf("parse --from: %w", err)
	}
	end, err := time.Parse(time.DateOnly, to)
	if err != nil {
		return nil, fmt.Errorf("parse --to: %w", err)
	}
	if count <= 0 || !start.Before(end) {
		return nil, fmt.Errorf("need a positive count and from before to")
	}

	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	slot := end.Sub(start) / time.Duration(count)
	out := make([]time.Time, 0, count)
	for i := 0; i < count; i++ {
		offset := time.Duration(rng.Int64N(int64(slot)))
		out = append(out, start.Add(time.Duration(i)*slot+offset).Truncate(time.Second))
	}
	return out, nil
}

// fromProvenance collects distinct instants of recently answered queries.
func fromProvenance(dbPath string, last int) ([]time.Time, error) {
	s, err := store.NewStore(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	defer s.Close()

	entries, err := logging.Recent(s.DB(), last)
	if err != nil {
		return nil, err
	}

	seen := make(map[time.Time]bool)
	var out []time.Time
	for _, e := range entries {
		if e.Instant.IsZero() || e.Decision == logging.DecisionFailed {
			continue
		}
		t := e.Instant.UTC().Truncate(time.Second)
		if seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("no answered queries in last %d provenance rows", last)
	}
	return out, nil
}

// #endregion extract

// #region build

func run(oracleAddr string, timeout time.Duration, name string, instants []time.Time, tolSun, tolMoon float64, outPath string) error {
	var oracle ephemeris.Oracle = ephemeris.NewAnalytic()
	if oracleAddr != "" {
		client, err := ephemeris.NewClient(oracleAddr, timeout)
		if err != nil {
			return fmt.Errorf("connect oracle %s: %w", oracleAddr, err)
		}
		defer client.Close()
		oracle = client
	}

	f, err := replay.Build(context.Background(), oracle, name, instants, tolSun, tolMoon)
	if err != nil {
		return fmt.Errorf("build fixture: %w", err)
	}
	if err := replay.WriteFixture(outPath, f); err != nil {
		return err
	}

	fmt.Printf("Exported fixture to %s\n", outPath)
	fmt.Printf("  Rows: %d (%s to %s)\n", len(f.Rows),
		f.Rows[0].Instant.Format(time.RFC3339), f.Rows[len(f.Rows)-1].Instant.Format(time.RFC3339))
	fmt.Printf("  Tolerance: sun %.4f deg, moon %.4f deg\n", f.ToleranceSunDeg, f.ToleranceMoonDeg)
	return nil
}

// #endregion build
