package logging

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/dantwoashim/Project-Parva-sub001/internal/panchanga"
	"github.com/dantwoashim/Project-Parva-sub001/internal/uncertainty"
)

// #region log-decision
// LogDecision writes a provenance entry to the provenance_log table.
func LogDecision(db *sql.DB, entry ProvenanceEntry) error {
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}

	var instant interface{}
	if !entry.Instant.IsZero() {
		instant = entry.Instant.UTC().Format(time.RFC3339Nano)
	}

	_, err := db.Exec(
		`INSERT INTO provenance_log (record_id, query_type, instant, source, decision, reason, detail_json, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		nullIfEmpty(entry.RecordID),
		entry.QueryType,
		instant,
		nullIfEmpty(entry.Source),
		entry.Decision,
		nullIfEmpty(entry.Reason),
		nullIfEmpty(entry.DetailJSON),
		entry.CreatedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("log decision: %w", err)
	}
	return nil
}
// #endregion log-decision

// #region entry-for
// EntryFor builds the provenance entry of one panchanga query outcome.
func EntryFor(queryType string, t time.Time, rec panchanga.Record, err error, threshold float64) ProvenanceEntry {
	entry := ProvenanceEntry{QueryType: queryType, Instant: t}
	if err != nil {
		entry.Decision = DecisionFailed
		entry.Reason = err.Error()
		if errors.Is(err, panchanga.ErrEngineUnavailable) {
			entry.Source = "none"
		}
		return entry
	}

	entry.Source = rec.Source
	entry.Decision = DecisionComputed
	if rec.Source == panchanga.SourcePrecomputed {
		entry.Decision = DecisionFallback
	}
	entry.Reason = rec.Uncertainty.Notes

	detail, merr := json.Marshal(Summarize(rec, threshold))
	if merr == nil {
		entry.DetailJSON = string(detail)
	}
	return entry
}

// Summarize flattens a record into its audit form.
func Summarize(rec panchanga.Record, threshold float64) QueryRecord {
	q := QueryRecord{
		Instant:           rec.Instant,
		CivilDate:         rec.CivilDate.Format(time.DateOnly),
		Tithi:             rec.Tithi.Index,
		TithiName:         rec.Tithi.Name(),
		Progress:          rec.Tithi.Progress,
		LunarMonth:        rec.LunarMonth.FullName,
		BSDate:            rec.BSDate.String(),
		Level:             rec.Uncertainty.Level.String(),
		IntervalHours:     rec.Uncertainty.IntervalHours,
		TithiMethod:       rec.TithiUncertainty.Method,
		BSMethod:          rec.BSUncertainty.Method,
		BoundaryThreshold: threshold,
	}
	if rec.BSDate.Confidence == uncertainty.Estimated {
		q.BSBand = rec.BSDate.Band.String()
	}
	return q
}
// #endregion entry-for

// #region recent
// Recent returns the newest provenance rows, newest first.
func Recent(db *sql.DB, limit int) ([]ProvenanceEntry, error) {
	rows, err := db.Query(
		`SELECT id, record_id, query_type, instant, source, decision, reason, detail_json, created_at
		 FROM provenance_log ORDER BY id DESC LIMIT ?`, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list provenance: %w", err)
	}
	defer rows.Close()

	var out []ProvenanceEntry
	for rows.Next() {
		var e ProvenanceEntry
		var recordID, instant, source, reason, detail sql.NullString
		var created string
		if err := rows.Scan(&e.ID, &recordID, &e.QueryType, &instant, &source, &e.Decision, &reason, &detail, &created); err != nil {
			return nil, fmt.Errorf("scan provenance: %w", err)
		}
		e.RecordID = recordID.String
		e.Source = source.String
		e.Reason = reason.String
		e.DetailJSON = detail.String
		if instant.Valid {
			at, err := time.Parse(time.RFC3339Nano, instant.String)
			if err != nil {
				return nil, fmt.Errorf("scan provenance %d: instant %q: %w", e.ID, instant.String, err)
			}
			e.Instant = at
		}
		at, err := time.Parse(time.RFC3339Nano, created)
		if err != nil {
			return nil, fmt.Errorf("scan provenance %d: created_at %q: %w", e.ID, created, err)
		}
		e.CreatedAt = at
		out = append(out, e)
	}
	return out, rows.Err()
}
// #endregion recent

// #region helpers
func nullIfEmpty(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
// #endregion helpers
