package main

import (
	"github.com/spf13/cobra"
)

var panchangaCmd = &cobra.Command{
	Use:   "panchanga [instant]",
	Short: "Show the panchanga at an instant (default now)",
	Long: `Computes tithi, lunar month, BS date, nakshatra, yoga, karana and vaara at
one instant. When the oracle is unavailable the precomputed cache is consulted.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		t, err := parseInstant(optionalArg(args))
		if err != nil {
			return err
		}
		a, err := openApp(true)
		if err != nil {
			return err
		}
		defer a.Close()

		rec, err := a.engine.At(cmd.Context(), t)
		a.logQuery("at", t, rec, err)
		if err != nil {
			return err
		}
		jsonOut, _ := cmd.Flags().GetBool("json")
		return printRecord(cmd.OutOrStdout(), rec, jsonOut)
	},
}

var dailyCmd = &cobra.Command{
	Use:   "daily [YYYY-MM-DD]",
	Short: "Show the udaya panchanga of a civil date (default today in Nepal)",
	Long: `Evaluates the panchanga at Kathmandu sunrise: the tithi prevailing at
sunrise names the whole civil day.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		date, err := parseDate(optionalArg(args))
		if err != nil {
			return err
		}
		a, err := openApp(true)
		if err != nil {
			return err
		}
		defer a.Close()

		rec, err := a.engine.Daily(cmd.Context(), date)
		a.logQuery("daily", date, rec, err)
		if err != nil {
			return err
		}
		jsonOut, _ := cmd.Flags().GetBool("json")
		return printRecord(cmd.OutOrStdout(), rec, jsonOut)
	},
}

func init() {
	panchangaCmd.Flags().Bool("json", false, "output as JSON")
	dailyCmd.Flags().Bool("json", false, "output as JSON")
	rootCmd.AddCommand(panchangaCmd, dailyCmd)
}
