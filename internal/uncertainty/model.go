package uncertainty

import (
	"fmt"
	"math"
)

// #region config
// Level holds the calibrated probability and default interval of a confidence level.
type Level struct {
	Probability   float64
	IntervalHours float64
}

// Config holds the boundary policy and per-level calibration.
type Config struct {
	BoundaryThreshold float64 // progress distance from 0 or 1 that forces Uncertain
	Levels            map[Confidence]Level
}

// DefaultConfig returns the 1% boundary threshold and the stock calibration table.
func DefaultConfig() Config {
	return Config{
		BoundaryThreshold: 0.01,
		Levels: map[Confidence]Level{
			Exact:     {Probability: 0.995, IntervalHours: 0.5},
			Official:  {Probability: 0.995, IntervalHours: 0},
			Estimated: {Probability: 0.9, IntervalHours: 24},
			Uncertain: {Probability: 0.75, IntervalHours: 48},
		},
	}
}

// Validate rejects thresholds that would classify every instant as a boundary.
func (c Config) Validate() error {
	if c.BoundaryThreshold < 0 || c.BoundaryThreshold >= 0.5 {
		return fmt.Errorf("boundary threshold %v outside [0, 0.5)", c.BoundaryThreshold)
	}
	return nil
}
// #endregion config

// #region model
// Model builds descriptors under one Config.
type Model struct {
	config Config
}

// NewModel creates a model with the given configuration.
func NewModel(config Config) *Model {
	if config.Levels == nil {
		config.Levels = DefaultConfig().Levels
	}
	return &Model{config: config}
}

// Threshold returns the active boundary threshold.
func (m *Model) Threshold() float64 {
	return m.config.BoundaryThreshold
}

func (m *Model) probability(c Confidence) float64 {
	if l, ok := m.config.Levels[c]; ok {
		return l.Probability
	}
	return m.config.Levels[Uncertain].Probability
}
// #endregion model

// #region build-bs
// BuildBS describes a BS conversion. Official dates are exact with zero
// interval; estimated dates widen by one day per day of band.
func (m *Model) BuildBS(c Confidence, band Band) Descriptor {
	switch c {
	case Official, Exact:
		return Descriptor{
			Level:         Exact,
			IntervalHours: 0,
			Method:        MethodOfficialTable,
			Probability:   m.probability(Exact),
		}
	case Estimated:
		if band.IsZero() {
			band = Band{MinDays: 0, MaxDays: 1}
		}
		return Descriptor{
			Level:         Estimated,
			IntervalHours: 24 * float64(max(band.MaxDays, 1)),
			Method:        MethodBSEstimation,
			Probability:   m.probability(Estimated),
			Notes:         "estimated_error_days=" + band.String(),
		}
	default:
		return Descriptor{
			Level:         Uncertain,
			IntervalHours: m.config.Levels[Uncertain].IntervalHours,
			Method:        MethodUnknownBS,
			Probability:   m.probability(Uncertain),
		}
	}
}
// #endregion build-bs

// #region build-tithi
// BuildTithi describes a tithi derivation. Progress within the threshold of
// either boundary forces Uncertain with an interval of at least 12 hours.
func (m *Model) BuildTithi(method string, c Confidence, progress *float64) Descriptor {
	var d Descriptor
	switch {
	case (method == MethodUdaya || method == MethodInstant) && (c == Exact || c == Official):
		d = Descriptor{Level: Exact, IntervalHours: 0.5, Notes: "ephemeris calculation"}
	case method == MethodInstantaneous:
		d = Descriptor{Level: Estimated, IntervalHours: 6, Notes: "fallback instantaneous calculation"}
	case method == MethodPrecomputed:
		d = Descriptor{Level: Estimated, IntervalHours: 24, Notes: "served from precomputed cache"}
	default:
		d = Descriptor{Level: Uncertain, IntervalHours: 24, Notes: "unclassified tithi method"}
	}
	d.Method = method

	if minutes, ok := BoundaryProximityMinutes(progress); ok {
		d.BoundaryProximityMinutes = &minutes
		if m.nearBoundary(*progress) {
			d.Level = Uncertain
			d.IntervalHours = math.Max(d.IntervalHours, 12)
			d.Notes = "tithi boundary close to reference instant"
		}
	}
	d.Probability = m.probability(d.Level)
	return d
}

func (m *Model) nearBoundary(progress float64) bool {
	dist := math.Min(math.Abs(progress), math.Abs(1-progress))
	return dist <= m.config.BoundaryThreshold+1e-12
}
// #endregion build-tithi

// #region proximity
// averageTithiMinutes is the mean tithi length (about 23.6 hours).
const averageTithiMinutes = 23.6 * 60

// BoundaryProximityMinutes estimates the minutes to the nearest tithi
// boundary. It reports false when progress is unknown.
func BoundaryProximityMinutes(progress *float64) (float64, bool) {
	if progress == nil {
		return 0, false
	}
	p := *progress
	return math.Min(math.Abs(p), math.Abs(1-p)) * averageTithiMinutes, true
}
// #endregion proximity

// #region combine
// Combine returns the more severe of two descriptors; ties keep the wider interval.
func Combine(a, b Descriptor) Descriptor {
	if b.Level.Severity() > a.Level.Severity() {
		return b
	}
	if b.Level.Severity() == a.Level.Severity() && b.IntervalHours > a.IntervalHours {
		return b
	}
	return a
}
// #endregion combine
