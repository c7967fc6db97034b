package panchanga

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dantwoashim/Project-Parva-sub001/internal/bs"
	"github.com/dantwoashim/Project-Parva-sub001/internal/ephemeris"
	"github.com/dantwoashim/Project-Parva-sub001/internal/lunar"
	"github.com/dantwoashim/Project-Parva-sub001/internal/tithi"
	"github.com/dantwoashim/Project-Parva-sub001/internal/uncertainty"
)

// #region errors
// ErrEngineUnavailable is returned when no record can be produced.
var ErrEngineUnavailable = errors.New("panchanga engine unavailable")

// ErrInvalidRecord is returned when a derived record fails validation.
var ErrInvalidRecord = errors.New("invalid panchanga record")
// #endregion errors

// #region sources
// Record sources.
const (
	SourceEphemeris   = "ephemeris"
	SourcePrecomputed = "precomputed"
)
// #endregion sources

// #region record
// Record is the full set of calendar values for one instant.
type Record struct {
	Instant          time.Time               `json:"instant"`
	CivilDate        time.Time               `json:"civil_date"` // Nepal date, midnight UTC
	Longitudes       ephemeris.LongitudePair `json:"longitudes"`
	Tithi            tithi.Tithi             `json:"tithi"`
	LunarMonth       lunar.Month             `json:"lunar_month"`
	BSDate           bs.Date                 `json:"bs_date"`
	Nakshatra        Limb                    `json:"nakshatra"`
	Yoga             Limb                    `json:"yoga"`
	Karana           Limb                    `json:"karana"`
	Vaara            Limb                    `json:"vaara"`
	Uncertainty      uncertainty.Descriptor  `json:"uncertainty"`
	TithiUncertainty uncertainty.Descriptor  `json:"tithi_uncertainty"`
	BSUncertainty    uncertainty.Descriptor  `json:"bs_uncertainty"`
	Source           string                  `json:"source"`
}

// Validate checks the record's internal consistency.
func (r Record) Validate() error {
	t := r.Tithi
	switch {
	case r.Instant.IsZero():
		return fmt.Errorf("%w: zero instant", ErrInvalidRecord)
	case t.Index < 1 || t.Index > 30:
		return fmt.Errorf("%w: tithi index %d", ErrInvalidRecord, t.Index)
	case !t.Start.Before(t.End):
		return fmt.Errorf("%w: tithi start %s not before end %s", ErrInvalidRecord, t.Start, t.End)
	case r.Instant.Before(t.Start) || r.Instant.After(t.End):
		return fmt.Errorf("%w: instant outside tithi %d", ErrInvalidRecord, t.Index)
	case t.Progress < 0 || t.Progress >= 1:
		return fmt.Errorf("%w: tithi progress %v", ErrInvalidRecord, t.Progress)
	case r.LunarMonth.FullName == "" || !r.LunarMonth.Start.Before(r.LunarMonth.End):
		return fmt.Errorf("%w: lunar month %q", ErrInvalidRecord, r.LunarMonth.FullName)
	case r.Instant.Before(r.LunarMonth.Start) || r.Instant.After(r.LunarMonth.End):
		return fmt.Errorf("%w: instant outside %s", ErrInvalidRecord, r.LunarMonth.FullName)
	case r.BSDate.Month < 1 || r.BSDate.Month > 12 || r.BSDate.Day < 1 || r.BSDate.Day > 32:
		return fmt.Errorf("%w: BS date %s", ErrInvalidRecord, r.BSDate)
	case r.Nakshatra.Name == "" || r.Yoga.Name == "" || r.Karana.Name == "" || r.Vaara.Name == "":
		return fmt.Errorf("%w: missing limb", ErrInvalidRecord)
	case r.Source == "":
		return fmt.Errorf("%w: missing source", ErrInvalidRecord)
	}
	return nil
}
// #endregion record

// #region fallback
// Fallback supplies stored records when the oracle is unavailable.
type Fallback interface {
	Lookup(ctx context.Context, t time.Time) (Record, bool, error)
}
// #endregion fallback
