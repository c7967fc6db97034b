package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/dantwoashim/Project-Parva-sub001/internal/lunar"
	"github.com/dantwoashim/Project-Parva-sub001/internal/solar"
	"github.com/dantwoashim/Project-Parva-sub001/internal/tithi"
	"github.com/dantwoashim/Project-Parva-sub001/internal/uncertainty"
)

var tithiCmd = &cobra.Command{
	Use:   "tithi [instant]",
	Short: "Show the tithi at an instant with its start and end",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		t, err := parseInstant(optionalArg(args))
		if err != nil {
			return err
		}
		a, err := openApp(false)
		if err != nil {
			return err
		}
		defer a.Close()

		engine := tithi.NewEngine(a.oracle, a.cfg.Panchanga().Search)
		ti, err := engine.At(cmd.Context(), t)
		if err != nil {
			return fmt.Errorf("tithi at %s: %w", t.Format(time.RFC3339), err)
		}
		progress := ti.Progress
		desc := a.engine.Model().BuildTithi(uncertainty.MethodInstant, uncertainty.Exact, &progress)
		proximity, _ := uncertainty.BoundaryProximityMinutes(&progress)

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Tithi %d: %s %s\n", ti.Index, ti.Paksha(), ti.Name())
		fmt.Fprintf(out, "  Start:      %s\n", ti.Start.In(solar.NepalTime).Format("2006-01-02 15:04:05 MST"))
		fmt.Fprintf(out, "  End:        %s\n", ti.End.In(solar.NepalTime).Format("2006-01-02 15:04:05 MST"))
		fmt.Fprintf(out, "  Duration:   %s\n", ti.Duration().Round(time.Minute))
		fmt.Fprintf(out, "  Elongation: %.4f deg (%.2f%% elapsed)\n", ti.Elongation, ti.Progress*100)
		fmt.Fprintf(out, "  Boundary:   %.0f min away\n", proximity)
		fmt.Fprintf(out, "  Confidence: %s, +/- %.1f h\n", desc.Level, desc.IntervalHours)
		if desc.Notes != "" {
			fmt.Fprintf(out, "  Notes:      %s\n", desc.Notes)
		}
		return nil
	},
}

var lunarYearCmd = &cobra.Command{
	Use:   "lunar-year <gregorian-year>",
	Short: "List the lunar months from the Chaitra starting in a Gregorian year",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		year, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid year %q", args[0])
		}
		a, err := openApp(false)
		if err != nil {
			return err
		}
		defer a.Close()

		engine := lunar.NewEngine(a.oracle, a.cfg.Panchanga().Search)
		y, err := engine.Year(cmd.Context(), year)
		if err != nil {
			return fmt.Errorf("lunar year %d: %w", year, err)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%-3s  %-16s  %-17s  %-17s  %s\n", "#", "Month", "Start (NPT)", "End (NPT)", "Days")
		fmt.Fprintf(out, "%-3s+-%-16s+-%-17s+-%-17s+-%s\n", "---", "----------------", "-----------------", "-----------------", "-----")
		for i, m := range y.Months {
			fmt.Fprintf(out, "%-3d  %-16s  %-17s  %-17s  %.2f\n", i+1, m.FullName,
				m.Start.In(solar.NepalTime).Format("2006-01-02 15:04"),
				m.End.In(solar.NepalTime).Format("2006-01-02 15:04"),
				m.End.Sub(m.Start).Hours()/24)
		}
		for _, m := range y.Months {
			if m.IsKshaya {
				fmt.Fprintf(out, "\n%s is kshaya: it holds two sankrantis\n", m.FullName)
			}
		}
		if adhik, ok := y.Adhik(); ok {
			fmt.Fprintf(out, "\n%d months; %s has no sankranti\n", len(y.Months), adhik.FullName)
		} else {
			fmt.Fprintf(out, "\n%d months; no adhik maas\n", len(y.Months))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(tithiCmd, lunarYearCmd)
}
