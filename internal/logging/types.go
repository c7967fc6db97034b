package logging

import "time"

// #region decisions
// Decision values written to provenance_log.
const (
	DecisionComputed = "computed" // fresh ephemeris derivation
	DecisionFallback = "fallback" // served from the precomputed cache
	DecisionFailed   = "failed"   // no record produced
	DecisionStored   = "stored"   // written to the cache by precompute
)
// #endregion decisions

// #region provenance-entry
// ProvenanceEntry is a single row in the provenance_log table.
type ProvenanceEntry struct {
	ID         int64
	RecordID   string // cached record, when one exists
	QueryType  string // "at" | "daily" | "precompute" | "verify" | "convert"
	Instant    time.Time
	Source     string
	Decision   string
	Reason     string
	DetailJSON string
	CreatedAt  time.Time
}
// #endregion provenance-entry

// #region query-record
// QueryRecord captures the derived values and their confidence for one query.
// Serialized as JSON into provenance_log.detail_json for later audit.
type QueryRecord struct {
	Instant    time.Time `json:"instant"`
	CivilDate  string    `json:"civil_date"`
	Tithi      int       `json:"tithi"`
	TithiName  string    `json:"tithi_name"`
	Progress   float64   `json:"progress"`
	LunarMonth string    `json:"lunar_month"`
	BSDate     string    `json:"bs_date"`

	// Confidence at answer time
	Level         string  `json:"level"`
	IntervalHours float64 `json:"interval_hours"`
	TithiMethod   string  `json:"tithi_method"`
	BSMethod      string  `json:"bs_method"`
	BSBand        string  `json:"bs_band,omitempty"`

	// Boundary threshold active at answer time
	BoundaryThreshold float64 `json:"boundary_threshold"`
}
// #endregion query-record
