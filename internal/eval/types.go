package eval

// #region eval-config
// EvalConfig holds tolerances for record consistency checks.
type EvalConfig struct {
	MaxBoundaryErrorDeg float64 // elongation error allowed at a recomputed boundary
	MaxRoundTripDays    int     // BS -> Gregorian drift allowed, in days
	MinProximityMinutes float64 // warn when the instant sits this close to a tithi boundary
}

// DefaultEvalConfig returns tolerances matching the default boundary search precision.
func DefaultEvalConfig() EvalConfig {
	return EvalConfig{
		MaxBoundaryErrorDeg: 0.02,
		MaxRoundTripDays:    0,
		MinProximityMinutes: 15,
	}
}

// #endregion eval-config

// #region eval-metric
// EvalMetric captures a single validation check result.
type EvalMetric struct {
	Name  string
	Value float64
	Pass  bool
}

// #endregion eval-metric

// #region eval-result
// EvalResult is the output of a consistency run over one record.
type EvalResult struct {
	Passed  bool
	Metrics []EvalMetric
	Reason  string
}

// Metric returns the named metric.
func (r EvalResult) Metric(name string) (EvalMetric, bool) {
	for _, m := range r.Metrics {
		if m.Name == name {
			return m, true
		}
	}
	return EvalMetric{}, false
}

// #endregion eval-result
