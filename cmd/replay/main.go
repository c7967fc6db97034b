package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/dantwoashim/Project-Parva-sub001/internal/ephemeris"
	"github.com/dantwoashim/Project-Parva-sub001/internal/replay"
)

// #region main

func main() {
	fixturePath := flag.String("fixture", "", "path to ephemeris fixture JSON")
	oracleAddr := flag.String("oracle", "", "remote ephemeris service address (default in-process analytic)")
	timeout := flag.Duration("timeout", 5*time.Second, "per-call timeout for the remote oracle")
	failuresOnly := flag.Bool("failures", false, "print only rows that diverge")
	flag.Parse()

	if *fixturePath == "" {
		fmt.Fprintln(os.Stderr, "usage: replay --fixture path/to/fixture.json [--oracle host:port] [--failures]")
		os.Exit(2)
	}

	f, err := replay.LoadFixture(*fixturePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load fixture: %v\n", err)
		os.Exit(2)
	}

	var oracle ephemeris.Oracle = ephemeris.NewAnalytic()
	if *oracleAddr != "" {
		client, err := ephemeris.NewClient(*oracleAddr, *timeout)
		if err != nil {
			fmt.Fprintf(os.Stderr, "connect oracle %s: %v\n", *oracleAddr, err)
			os.Exit(2)
		}
		defer client.Close()
		oracle = client
	}

	results := replay.Replay(context.Background(), oracle, f)
	os.Exit(printComparison(f, results, *failuresOnly))
}

// #endregion main

// #region output

// printComparison outputs a comparison table and returns exit code.
func printComparison(f *replay.Fixture, results []replay.Result, failuresOnly bool) int {
	fmt.Printf("%-21s| %-10s| %-10s| %-9s| %-9s| %s\n", "Instant", "Sun d", "Moon d", "Expected", "Replayed", "Match")
	fmt.Printf("%-21s+%-11s+%-11s+%-10s+%-10s+%s\n",
		"---------------------", "-----------", "-----------", "----------", "----------", "---------------")

	for _, r := range results {
		if failuresOnly && r.Passed {
			continue
		}
		match := "OK"
		if !r.Passed {
			match = r.Reason
		}
		fmt.Printf("%-21s| %-10.6f| %-10.6f| %-9d| %-9d| %s\n",
			r.Instant.UTC().Format(time.RFC3339), r.SunDelta, r.MoonDelta, r.WantTithi, r.GotTithi, match)
		if r.Err != nil {
			fmt.Printf("  error: %v\n", r.Err)
		}
	}

	s := replay.Summarize(results)
	diverge := s.Total - s.Passed
	fmt.Printf("\nFixture %q: tolerance sun %.4f deg, moon %.4f deg\n", f.Name, f.ToleranceSunDeg, f.ToleranceMoonDeg)
	fmt.Printf("Summary: %d total, %d match, %d diverge (sun %d, moon %d, tithi %d, oracle %d)\n",
		s.Total, s.Passed, diverge, s.SunFailures, s.MoonFailures, s.TithiMismatches, s.OracleErrors)
	fmt.Printf("Max delta: sun %.6f deg, moon %.6f deg\n", s.MaxSunDelta, s.MaxMoonDelta)

	if diverge > 0 {
		return 1
	}
	return 0
}

// #endregion output
