package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/dantwoashim/Project-Parva-sub001/internal/eval"
)

var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Re-derive daily records over a date range and check their consistency",
	Long: `For every civil date in [--from, --to] computes the udaya record and checks
it against the oracle: tithi at the instant and both boundaries, the month's
new moon and containment, and the BS round trip.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		from, to, err := dateRange(cmd)
		if err != nil {
			return err
		}
		verbose, _ := cmd.Flags().GetBool("verbose")
		a, err := openApp(false)
		if err != nil {
			return err
		}
		defer a.Close()

		ctx := cmd.Context()
		h := eval.NewEvalHarness(eval.DefaultEvalConfig(), a.oracle, a.converter)
		out := cmd.OutOrStdout()
		checked, failed, near := 0, 0, 0
		for day := from; !day.After(to); day = day.AddDate(0, 0, 1) {
			rec, err := a.engine.Daily(ctx, day)
			if err != nil {
				return fmt.Errorf("daily %s: %w", day.Format(time.DateOnly), err)
			}
			result, err := h.Run(ctx, rec)
			if err != nil {
				return fmt.Errorf("verify %s: %w", day.Format(time.DateOnly), err)
			}
			checked++
			if m, ok := result.Metric("boundary_proximity_minutes"); ok && !m.Pass {
				near++
			}
			if !result.Passed {
				failed++
				fmt.Fprintf(out, "%s  FAIL  %s\n", day.Format(time.DateOnly), result.Reason)
			} else if verbose {
				fmt.Fprintf(out, "%s  ok    tithi %d %s, %s\n", day.Format(time.DateOnly), rec.Tithi.Index, rec.LunarMonth.FullName, rec.BSDate)
			}
		}

		fmt.Fprintf(out, "\nSummary: %d checked, %d passed, %d failed, %d near a tithi boundary\n",
			checked, checked-failed, failed, near)
		if failed > 0 {
			return fmt.Errorf("%d records failed verification", failed)
		}
		return nil
	},
}

func init() {
	verifyCmd.Flags().String("from", "", "first civil date, YYYY-MM-DD (default today)")
	verifyCmd.Flags().String("to", "", "last civil date, YYYY-MM-DD (default today)")
	verifyCmd.Flags().BoolP("verbose", "v", false, "print passing dates too")
	rootCmd.AddCommand(verifyCmd)
}
