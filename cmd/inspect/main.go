package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/dantwoashim/Project-Parva-sub001/internal/logging"
	"github.com/dantwoashim/Project-Parva-sub001/internal/store"
)

// #region main

func main() {
	dbPath := flag.String("db", "", "path to parva.db")
	last := flag.Int("last", 20, "show N most recent rows")
	record := flag.String("record", "", "show single cached record detail")
	provenance := flag.Bool("provenance", false, "list provenance rows instead of cached records")
	jsonOut := flag.Bool("json", false, "output as JSON instead of table")
	flag.Parse()

	if *dbPath == "" {
		fmt.Fprintln(os.Stderr, "usage: inspect --db path/to/parva.db [--last N] [--record id] [--provenance] [--json]")
		os.Exit(2)
	}

	s, err := store.NewStore(*dbPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "open db: %v\n", err)
		os.Exit(1)
	}
	defer s.Close()

	ctx := context.Background()
	switch {
	case *record != "":
		err = runDetailMode(ctx, s, *record, *jsonOut)
	case *provenance:
		err = runProvenanceMode(s, *last, *jsonOut)
	default:
		err = runListMode(ctx, s, *last, *jsonOut)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// #endregion main

// #region list-mode

type listRow struct {
	RecordID   string  `json:"record_id"`
	Kind       string  `json:"kind"`
	CivilDate  string  `json:"civil_date"`
	BSDate     string  `json:"bs_date"`
	Tithi      string  `json:"tithi"`
	LunarMonth string  `json:"lunar_month"`
	Level      string  `json:"level"`
	Progress   float64 `json:"progress"`
	CreatedAt  string  `json:"created_at"`
}

func runListMode(ctx context.Context, s *store.Store, last int, jsonOut bool) error {
	records, err := s.List(ctx, last)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		fmt.Fprintln(os.Stderr, "no cached records found")
		return nil
	}

	// Store returns newest first, reverse for chronological
	rows := make([]listRow, len(records))
	for i, sr := range records {
		rec := sr.Record
		rows[len(records)-1-i] = listRow{
			RecordID:   sr.ID,
			Kind:       sr.Kind,
			CivilDate:  sr.CivilDate,
			BSDate:     rec.BSDate.String(),
			Tithi:      fmt.Sprintf("%d %s", rec.Tithi.Index, rec.Tithi.Name()),
			LunarMonth: rec.LunarMonth.FullName,
			Level:      rec.Uncertainty.Level.String(),
			Progress:   rec.Tithi.Progress,
			CreatedAt:  sr.CreatedAt.Format("2006-01-02T15:04:05Z"),
		}
	}

	if jsonOut {
		return printJSON(rows)
	}

	fmt.Printf("%-10s  %-7s  %-10s  %-10s  %-17s  %-15s  %-9s  %s\n",
		"Record", "Kind", "Date", "BS", "Tithi", "Month", "Level", "Progress")
	fmt.Printf("%-10s+-%-7s+-%-10s+-%-10s+-%-17s+-%-15s+-%-9s+-%s\n",
		"----------", "-------", "----------", "----------", "-----------------", "---------------", "---------", "--------")
	for _, r := range rows {
		fmt.Printf("%-10s  %-7s  %-10s  %-10s  %-17s  %-15s  %-9s  %.4f\n",
			shortID(r.RecordID), r.Kind, r.CivilDate, r.BSDate, r.Tithi, r.LunarMonth, r.Level, r.Progress)
	}
	return nil
}

// #endregion list-mode

// #region detail-mode

func runDetailMode(ctx context.Context, s *store.Store, id string, jsonOut bool) error {
	sr, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if jsonOut {
		return printJSON(sr)
	}

	rec := sr.Record
	fmt.Printf("Record:     %s (%s)\n", sr.ID, sr.Kind)
	fmt.Printf("Created:    %s\n", sr.CreatedAt.Format("2006-01-02T15:04:05Z"))
	fmt.Printf("Instant:    %s\n", rec.Instant.Format(time.RFC3339))
	fmt.Printf("Civil date: %s\n", sr.CivilDate)
	fmt.Printf("BS date:    %s %s (%s", rec.BSDate, rec.BSDate.MonthName(), rec.BSDate.Confidence)
	if !rec.BSDate.Band.IsZero() {
		fmt.Printf(", +/- %s days", rec.BSDate.Band)
	}
	fmt.Println(")")
	fmt.Printf("Tithi:      %d %s %s (progress %.4f)\n", rec.Tithi.Index, rec.Tithi.Paksha(), rec.Tithi.Name(), rec.Tithi.Progress)
	fmt.Printf("            %s -> %s\n", rec.Tithi.Start.Format(time.RFC3339), rec.Tithi.End.Format(time.RFC3339))
	fmt.Printf("Month:      %s (%s -> %s)\n", rec.LunarMonth.FullName,
		rec.LunarMonth.Start.Format(time.RFC3339), rec.LunarMonth.End.Format(time.RFC3339))
	fmt.Printf("Limbs:      %s, %s, %s, %s\n", rec.Nakshatra.Name, rec.Yoga.Name, rec.Karana.Name, rec.Vaara.Name)
	fmt.Printf("\nUncertainty:\n")
	fmt.Printf("  Level:     %s\n", rec.Uncertainty.Level)
	fmt.Printf("  Interval:  %.1f h\n", rec.Uncertainty.IntervalHours)
	fmt.Printf("  Method:    %s\n", rec.Uncertainty.Method)
	if rec.Uncertainty.Notes != "" {
		fmt.Printf("  Notes:     %s\n", rec.Uncertainty.Notes)
	}
	return nil
}

// #endregion detail-mode

// #region provenance-mode

type provenanceRow struct {
	ID        int64           `json:"id"`
	RecordID  string          `json:"record_id,omitempty"`
	QueryType string          `json:"query_type"`
	Instant   string          `json:"instant,omitempty"`
	Source    string          `json:"source,omitempty"`
	Decision  string          `json:"decision"`
	Reason    string          `json:"reason,omitempty"`
	Detail    json.RawMessage `json:"detail,omitempty"`
	CreatedAt string          `json:"created_at"`
}

func runProvenanceMode(s *store.Store, last int, jsonOut bool) error {
	entries, err := logging.Recent(s.DB(), last)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Fprintln(os.Stderr, "no provenance rows found")
		return nil
	}

	rows := make([]provenanceRow, len(entries))
	for i, e := range entries {
		r := provenanceRow{
			ID:        e.ID,
			RecordID:  e.RecordID,
			QueryType: e.QueryType,
			Source:    e.Source,
			Decision:  e.Decision,
			Reason:    e.Reason,
			CreatedAt: e.CreatedAt.Format("2006-01-02T15:04:05Z"),
		}
		if !e.Instant.IsZero() {
			r.Instant = e.Instant.Format(time.RFC3339)
		}
		if e.DetailJSON != "" {
			r.Detail = json.RawMessage(e.DetailJSON)
		}
		rows[len(entries)-1-i] = r
	}

	if jsonOut {
		return printJSON(rows)
	}

	fmt.Printf("%-6s  %-10s  %-20s  %-11s  %-9s  %s\n", "ID", "Query", "Instant", "Source", "Decision", "Reason")
	fmt.Printf("%-6s+-%-10s+-%-20s+-%-11s+-%-9s+-%s\n",
		"------", "----------", "--------------------", "-----------", "---------", "--------------------")
	for _, r := range rows {
		instant := "—"
		if r.Instant != "" {
			instant = r.Instant
		}
		fmt.Printf("%-6d  %-10s  %-20s  %-11s  %-9s  %s\n", r.ID, r.QueryType, instant, r.Source, r.Decision, r.Reason)
	}
	return nil
}

// #endregion provenance-mode

// #region output

func printJSON(v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal json: %w", err)
	}
	fmt.Println(string(data))
	return nil
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// #endregion output
