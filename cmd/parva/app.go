package main

import (
	"fmt"
	"io"
	"log"
	"time"

	"github.com/spf13/cobra"
	"google.golang.org/protobuf/encoding/protojson"

	"github.com/dantwoashim/Project-Parva-sub001/internal/bs"
	"github.com/dantwoashim/Project-Parva-sub001/internal/config"
	"github.com/dantwoashim/Project-Parva-sub001/internal/ephemeris"
	"github.com/dantwoashim/Project-Parva-sub001/internal/logging"
	"github.com/dantwoashim/Project-Parva-sub001/internal/panchanga"
	"github.com/dantwoashim/Project-Parva-sub001/internal/solar"
	"github.com/dantwoashim/Project-Parva-sub001/internal/store"
)

// #region app
// app holds everything a command needs, built from the loaded config.
type app struct {
	cfg       config.Config
	oracle    ephemeris.Oracle
	converter *bs.Converter
	engine    *panchanga.Engine
	store     *store.Store // nil when no database is configured
	closers   []func() error
}

// openApp loads configuration and wires oracle, BS table, cache and engine.
func openApp(withStore bool) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	a := &app{cfg: cfg, oracle: ephemeris.NewAnalytic()}

	if cfg.Oracle.Addr != "" {
		client, err := ephemeris.NewClient(cfg.Oracle.Addr, cfg.Oracle.Timeout)
		if err != nil {
			return nil, fmt.Errorf("connect oracle %s: %w", cfg.Oracle.Addr, err)
		}
		a.oracle = client
		a.closers = append(a.closers, client.Close)
	}

	pc := cfg.Panchanga()
	a.converter = bs.NewConverter(a.oracle, pc.Search)
	if cfg.BSTable != "" {
		table, err := bs.LoadTable(cfg.BSTable)
		if err != nil {
			a.Close()
			return nil, err
		}
		a.converter.SetTable(table)
	}

	opts := []panchanga.Option{panchanga.WithConverter(a.converter)}
	if withStore && cfg.DBPath != "" {
		s, err := store.NewStore(cfg.DBPath)
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("open store %s: %w", cfg.DBPath, err)
		}
		a.store = s
		a.closers = append(a.closers, s.Close)
		opts = append(opts, panchanga.WithFallback(s))
	}
	a.engine = panchanga.NewEngine(a.oracle, pc, opts...)
	return a, nil
}

// Close releases the cache and oracle connection.
func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			log.Printf("close: %v", err)
		}
	}
}

// logQuery writes the provenance row of one answered or failed query.
func (a *app) logQuery(queryType string, t time.Time, rec panchanga.Record, qerr error) {
	if a.store == nil {
		return
	}
	entry := logging.EntryFor(queryType, t, rec, qerr, a.engine.Model().Threshold())
	if err := logging.LogDecision(a.store.DB(), entry); err != nil {
		log.Printf("logging error: %v", err)
	}
}
// #endregion app

// #region args
// parseInstant accepts RFC 3339, a minute-precision local Nepal time, or a
// bare date (midnight UTC). An empty string means now.
func parseInstant(s string) (time.Time, error) {
	if s == "" {
		return time.Now().UTC(), nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.UTC(), nil
	}
	if t, err := time.ParseInLocation("2006-01-02T15:04", s, solar.NepalTime); err == nil {
		return t.UTC(), nil
	}
	if t, err := time.Parse(time.DateOnly, s); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("cannot parse %q as an instant (want RFC 3339, YYYY-MM-DDTHH:MM Nepal time, or YYYY-MM-DD)", s)
}

// parseDate accepts YYYY-MM-DD; an empty string means today in Nepal.
func parseDate(s string) (time.Time, error) {
	if s == "" {
		return solar.CivilDate(time.Now(), solar.Kathmandu), nil
	}
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("cannot parse %q as YYYY-MM-DD", s)
	}
	return t, nil
}

func optionalArg(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return ""
}

// dateRange reads the --from and --to flags shared by batch commands.
func dateRange(cmd *cobra.Command) (time.Time, time.Time, error) {
	fromStr, _ := cmd.Flags().GetString("from")
	toStr, _ := cmd.Flags().GetString("to")
	from, err := parseDate(fromStr)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	to, err := parseDate(toStr)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	if to.Before(from) {
		return time.Time{}, time.Time{}, fmt.Errorf("--to %s is before --from %s", toStr, fromStr)
	}
	return from, to, nil
}
// #endregion args

// #region output
// printRecord renders a record as text, or as the JSON served over gRPC.
func printRecord(w io.Writer, rec panchanga.Record, jsonOut bool) error {
	if jsonOut {
		st, err := panchanga.RecordStruct(rec)
		if err != nil {
			return err
		}
		data, err := protojson.MarshalOptions{Multiline: true, Indent: "  "}.Marshal(st)
		if err != nil {
			return fmt.Errorf("marshal record: %w", err)
		}
		fmt.Fprintln(w, string(data))
		return nil
	}

	local := rec.Instant.In(solar.NepalTime)
	fmt.Fprintf(w, "Instant:     %s (%s NPT)\n", rec.Instant.Format(time.RFC3339), local.Format("2006-01-02 15:04"))
	fmt.Fprintf(w, "Vaara:       %s\n", rec.Vaara.Name)
	fmt.Fprintf(w, "BS date:     %s (%d %s %d)", rec.BSDate, rec.BSDate.Day, rec.BSDate.MonthName(), rec.BSDate.Year)
	if !rec.BSDate.Band.IsZero() {
		fmt.Fprintf(w, " estimated, +/- %s days", rec.BSDate.Band)
	}
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Lunar month: %s\n", rec.LunarMonth.FullName)
	fmt.Fprintf(w, "Tithi:       %s %s (%d), %.1f%% elapsed\n", rec.Tithi.Paksha(), rec.Tithi.Name(), rec.Tithi.Index, rec.Tithi.Progress*100)
	fmt.Fprintf(w, "             %s -> %s NPT\n",
		rec.Tithi.Start.In(solar.NepalTime).Format("01-02 15:04"), rec.Tithi.End.In(solar.NepalTime).Format("01-02 15:04"))
	fmt.Fprintf(w, "Nakshatra:   %s\n", rec.Nakshatra.Name)
	fmt.Fprintf(w, "Yoga:        %s\n", rec.Yoga.Name)
	fmt.Fprintf(w, "Karana:      %s\n", rec.Karana.Name)
	fmt.Fprintf(w, "Confidence:  %s, +/- %.1f h (%s)\n", rec.Uncertainty.Level, rec.Uncertainty.IntervalHours, rec.Uncertainty.Method)
	if rec.Uncertainty.Notes != "" {
		fmt.Fprintf(w, "Notes:       %s\n", rec.Uncertainty.Notes)
	}
	fmt.Fprintf(w, "Source:      %s\n", rec.Source)
	return nil
}
// #endregion output
