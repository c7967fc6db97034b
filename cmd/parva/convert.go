package main

import (
	"fmt"
	"log"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/dantwoashim/Project-Parva-sub001/internal/bs"
	"github.com/dantwoashim/Project-Parva-sub001/internal/logging"
	"github.com/dantwoashim/Project-Parva-sub001/internal/uncertainty"
)

var convertCmd = &cobra.Command{
	Use:   "convert",
	Short: "Convert between Gregorian and Bikram Sambat dates",
}

var toBSCmd = &cobra.Command{
	Use:   "to-bs <YYYY-MM-DD>",
	Short: "Convert a Gregorian date to Bikram Sambat",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		date, err := parseDate(args[0])
		if err != nil {
			return err
		}
		a, err := openApp(true)
		if err != nil {
			return err
		}
		defer a.Close()

		d, err := a.converter.ToBS(cmd.Context(), date)
		a.logConversion(date, d, err)
		if err != nil {
			return err
		}
		desc := a.engine.Model().BuildBS(d.Confidence, d.Band)
		fmt.Fprintf(cmd.OutOrStdout(), "%s  (%d %s %d)  %s\n", d, d.Day, d.MonthName(), d.Year, describeBS(d, desc))
		return nil
	},
}

var toADCmd = &cobra.Command{
	Use:   "to-ad <YYYY-MM-DD>",
	Short: "Convert a Bikram Sambat date to Gregorian",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := bs.ParseDate(args[0])
		if err != nil {
			return err
		}
		if estimated, _ := cmd.Flags().GetBool("estimated"); estimated {
			d.Confidence = uncertainty.Estimated
		}
		a, err := openApp(true)
		if err != nil {
			return err
		}
		defer a.Close()

		date, err := a.converter.ToGregorian(cmd.Context(), d)
		a.logConversion(date, d, err)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), date.Format("2006-01-02 (Monday)"))
		return nil
	},
}

var monthsCmd = &cobra.Command{
	Use:   "months <bs-year>",
	Short: "List the day counts of the twelve months of a BS year",
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

		lengths, confidence, err := a.converter.MonthLengths(cmd.Context(), year)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		total := 0
		for i, n := range lengths {
			d := bs.Date{Year: year, Month: i + 1, Day: 1}
			fmt.Fprintf(out, "%2d  %-9s %d\n", i+1, d.MonthName(), n)
			total += n
		}
		fmt.Fprintf(out, "\n%d days (%s)\n", total, confidence)
		return nil
	},
}

func init() {
	toADCmd.Flags().Bool("estimated", false, "use the astronomical estimate even inside the official table")
	convertCmd.AddCommand(toBSCmd, toADCmd, monthsCmd)
	rootCmd.AddCommand(convertCmd)
}

func describeBS(d bs.Date, desc uncertainty.Descriptor) string {
	if d.Confidence == uncertainty.Estimated {
		return fmt.Sprintf("[%s, +/- %s days, %s]", d.Confidence, d.Band, desc.Method)
	}
	return fmt.Sprintf("[%s, %s]", d.Confidence, desc.Method)
}

// logConversion records a conversion in the provenance log.
func (a *app) logConversion(date time.Time, d bs.Date, cerr error) {
	if a.store == nil {
		return
	}
	entry := logging.ProvenanceEntry{
		QueryType: "convert",
		Instant:   date,
		Source:    d.Confidence.String(),
		Decision:  logging.DecisionComputed,
		Reason:    d.String(),
	}
	if cerr != nil {
		entry.Source = ""
		entry.Decision = logging.DecisionFailed
		entry.Reason = cerr.Error()
	}
	if err := logging.LogDecision(a.store.DB(), entry); err != nil {
		log.Printf("logging error: %v", err)
	}
}
