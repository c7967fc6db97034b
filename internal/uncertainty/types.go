package uncertainty

import (
	"fmt"
	"strings"
)

// #region confidence
// Confidence is the closed set of confidence levels.
type Confidence int

const (
	Exact Confidence = iota
	Official
	Estimated
	Uncertain
)

var confidenceNames = [...]string{"exact", "official", "estimated", "uncertain"}

func (c Confidence) String() string {
	if c < Exact || c > Uncertain {
		return fmt.Sprintf("confidence(%d)", int(c))
	}
	return confidenceNames[c]
}

// ParseConfidence maps a lower-case name back to its Confidence.
func ParseConfidence(s string) (Confidence, error) {
	for i, name := range confidenceNames {
		if strings.EqualFold(s, name) {
			return Confidence(i), nil
		}
	}
	return 0, fmt.Errorf("unknown confidence %q", s)
}

// Severity orders levels for combination; Official ranks with Exact.
func (c Confidence) Severity() int {
	switch c {
	case Exact, Official:
		return 0
	case Estimated:
		return 1
	default:
		return 2
	}
}
// #endregion confidence

// #region band
// Band is the estimated error range of an extrapolated BS date, in days.
type Band struct {
	MinDays int
	MaxDays int
}

// String renders the band as "min-max".
func (b Band) String() string {
	return fmt.Sprintf("%d-%d", b.MinDays, b.MaxDays)
}

// IsZero reports whether no band was assigned.
func (b Band) IsZero() bool {
	return b.MinDays == 0 && b.MaxDays == 0
}
// #endregion band

// #region descriptor
// Descriptor annotates a derived temporal quantity.
type Descriptor struct {
	Level                    Confidence
	IntervalHours            float64
	Method                   string
	Probability              float64
	Notes                    string
	BoundaryProximityMinutes *float64
}
// #endregion descriptor

// #region methods
// Method labels recorded in descriptors.
const (
	MethodUdaya         = "ephemeris_udaya"
	MethodInstant       = "ephemeris_instant"
	MethodInstantaneous = "instantaneous"
	MethodOfficialTable = "official_lookup_table"
	MethodBSEstimation  = "bs_estimation_model"
	MethodUnknownBS     = "unknown_bs_mode"
	MethodPrecomputed   = "precomputed_cache"
)
// #endregion methods
