package main

import (
	"fmt"
	"log"
	"time"

	"github.com/spf13/cobra"

	"github.com/dantwoashim/Project-Parva-sub001/internal/logging"
	"github.com/dantwoashim/Project-Parva-sub001/internal/store"
)

var precomputeCmd = &cobra.Command{
	Use:   "precompute",
	Short: "Store daily panchanga records for a date range",
	Long: `Computes the udaya record of every civil date in [--from, --to] and stores
it in the SQLite cache. The cache answers queries when the oracle is down.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		from, to, err := dateRange(cmd)
		if err != nil {
			return err
		}
		a, err := openApp(true)
		if err != nil {
			return err
		}
		defer a.Close()
		if a.store == nil {
			return fmt.Errorf("precompute needs a database (--db or db_path)")
		}

		ctx := cmd.Context()
		threshold := a.engine.Model().Threshold()
		stored, failed := 0, 0
		for day := from; !day.After(to); day = day.AddDate(0, 0, 1) {
			rec, err := a.engine.Daily(ctx, day)
			if err != nil {
				failed++
				a.logQuery("precompute", day, rec, err)
				log.Printf("%s: %v", day.Format(time.DateOnly), err)
				continue
			}

			id, err := a.store.Put(ctx, store.KindDaily, rec)
			if err != nil {
				return fmt.Errorf("store %s: %w", day.Format(time.DateOnly), err)
			}
			entry := logging.EntryFor("precompute", rec.Instant, rec, nil, threshold)
			entry.RecordID = id
			entry.Decision = logging.DecisionStored
			if err := logging.LogDecision(a.store.DB(), entry); err != nil {
				log.Printf("logging error: %v", err)
			}
			stored++
		}

		total, err := a.store.Count(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Stored %d daily records (%d failed); cache holds %d records\n", stored, failed, total)
		if failed > 0 {
			return fmt.Errorf("%d dates failed", failed)
		}
		return nil
	},
}

func init() {
	precomputeCmd.Flags().String("from", "", "first civil date, YYYY-MM-DD (default today)")
	precomputeCmd.Flags().String("to", "", "last civil date, YYYY-MM-DD (default today)")
	rootCmd.AddCommand(precomputeCmd)
}
