package uncertainty

import (
	"math"
	"testing"
)

func ptr(v float64) *float64 { return &v }

// #region confidence-tests
func TestConfidence_StringAndParse(t *testing.T) {
	for _, c := range []Confidence{Exact, Official, Estimated, Uncertain} {
		got, err := ParseConfidence(c.String())
		if err != nil {
			t.Fatalf("ParseConfidence(%q): %v", c.String(), err)
		}
		if got != c {
			t.Errorf("round trip of %v gave %v", c, got)
		}
	}
	if _, err := ParseConfidence("confident"); err == nil {
		t.Error("expected error for unknown confidence")
	}
	if s := Confidence(9).String(); s != "confidence(9)" {
		t.Errorf("unexpected out-of-range string %q", s)
	}
}
// #endregion confidence-tests

// #region bs-tests
func TestBuildBS_Official(t *testing.T) {
	d := NewModel(DefaultConfig()).BuildBS(Official, Band{})
	if d.Level != Exact {
		t.Errorf("expected exact, got %v", d.Level)
	}
	if d.IntervalHours != 0 {
		t.Errorf("expected zero interval, got %v", d.IntervalHours)
	}
	if d.Method != MethodOfficialTable {
		t.Errorf("expected %s, got %s", MethodOfficialTable, d.Method)
	}
}

func TestBuildBS_EstimatedScalesWithBand(t *testing.T) {
	m := NewModel(DefaultConfig())
	tests := []struct {
		band     Band
		interval float64
		notes    string
	}{
		{Band{}, 24, "estimated_error_days=0-1"},
		{Band{MinDays: 0, MaxDays: 1}, 24, "estimated_error_days=0-1"},
		{Band{MinDays: 1, MaxDays: 2}, 48, "estimated_error_days=1-2"},
		{Band{MinDays: 1, MaxDays: 3}, 72, "estimated_error_days=1-3"},
	}
	for _, tt := range tests {
		d := m.BuildBS(Estimated, tt.band)
		if d.Level != Estimated {
			t.Errorf("band %v: expected estimated, got %v", tt.band, d.Level)
		}
		if d.IntervalHours != tt.interval {
			t.Errorf("band %v: interval %v, want %v", tt.band, d.IntervalHours, tt.interval)
		}
		if d.Notes != tt.notes {
			t.Errorf("band %v: notes %q, want %q", tt.band, d.Notes, tt.notes)
		}
	}
}

func TestBuildBS_Unknown(t *testing.T) {
	d := NewModel(DefaultConfig()).BuildBS(Uncertain, Band{})
	if d.Level != Uncertain || d.Method != MethodUnknownBS {
		t.Errorf("expected uncertain/%s, got %v/%s", MethodUnknownBS, d.Level, d.Method)
	}
}
// #endregion bs-tests

// #region tithi-tests
func TestBuildTithi_Levels(t *testing.T) {
	m := NewModel(DefaultConfig())
	tests := []struct {
		name     string
		method   string
		conf     Confidence
		level    Confidence
		interval float64
	}{
		{"udaya exact", MethodUdaya, Exact, Exact, 0.5},
		{"instant exact", MethodInstant, Exact, Exact, 0.5},
		{"instantaneous fallback", MethodInstantaneous, Exact, Estimated, 6},
		{"precomputed", MethodPrecomputed, Exact, Estimated, 24},
		{"udaya estimated", MethodUdaya, Estimated, Uncertain, 24},
		{"unknown method", "mystery", Exact, Uncertain, 24},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := m.BuildTithi(tt.method, tt.conf, ptr(0.5))
			if d.Level != tt.level {
				t.Errorf("level = %v, want %v", d.Level, tt.level)
			}
			if d.IntervalHours != tt.interval {
				t.Errorf("interval = %v, want %v", d.IntervalHours, tt.interval)
			}
		})
	}
}

func TestBuildTithi_BoundaryWidening(t *testing.T) {
	m := NewModel(DefaultConfig())
	for _, p := range []float64{0, 0.005, 0.01, 0.99, 0.999} {
		d := m.BuildTithi(MethodUdaya, Exact, ptr(p))
		if d.Level != Uncertain {
			t.Errorf("progress %v: expected uncertain, got %v", p, d.Level)
		}
		if d.IntervalHours < 12 {
			t.Errorf("progress %v: expected interval >= 12, got %v", p, d.IntervalHours)
		}
	}
	d := m.BuildTithi(MethodUdaya, Exact, ptr(0.02))
	if d.Level != Exact {
		t.Errorf("progress 0.02: expected exact with default threshold, got %v", d.Level)
	}
}

func TestBuildTithi_KeepsWiderInterval(t *testing.T) {
	d := NewModel(DefaultConfig()).BuildTithi("mystery", Exact, ptr(0.001))
	if d.IntervalHours != 24 {
		t.Errorf("expected the 24h interval to survive widening, got %v", d.IntervalHours)
	}
}

func TestBuildTithi_ConfigurableThreshold(t *testing.T) {
	cfg := DefaultConfig()
	cfg.BoundaryThreshold = 0.05
	d := NewModel(cfg).BuildTithi(MethodUdaya, Exact, ptr(0.04))
	if d.Level != Uncertain {
		t.Errorf("expected uncertain under 5%% threshold, got %v", d.Level)
	}
}

func TestBuildTithi_UnknownProgress(t *testing.T) {
	d := NewModel(DefaultConfig()).BuildTithi(MethodUdaya, Exact, nil)
	if d.Level != Exact {
		t.Errorf("expected exact, got %v", d.Level)
	}
	if d.BoundaryProximityMinutes != nil {
		t.Errorf("expected nil proximity, got %v", *d.BoundaryProximityMinutes)
	}
}
// #endregion tithi-tests

// #region proximity-tests
func TestBoundaryProximityMinutes(t *testing.T) {
	if _, ok := BoundaryProximityMinutes(nil); ok {
		t.Error("expected no estimate for unknown progress")
	}
	mid, ok := BoundaryProximityMinutes(ptr(0.5))
	if !ok || mid <= 600 {
		t.Errorf("expected > 600 minutes at mid-tithi, got %v (ok=%v)", mid, ok)
	}

	prev := -1.0
	for _, p := range []float64{0, 0.1, 0.2, 0.3, 0.4, 0.5} {
		v, _ := BoundaryProximityMinutes(ptr(p))
		if v <= prev {
			t.Errorf("expected increase toward 0.5, got %v after %v", v, prev)
		}
		prev = v
	}
	lo, _ := BoundaryProximityMinutes(ptr(0.2))
	hi, _ := BoundaryProximityMinutes(ptr(0.8))
	if math.Abs(lo-hi) > 1e-9 {
		t.Errorf("expected symmetry, got %v and %v", lo, hi)
	}
}
// #endregion proximity-tests

// #region combine-tests
func TestCombine(t *testing.T) {
	exact := Descriptor{Level: Exact, IntervalHours: 0.5}
	official := Descriptor{Level: Exact, IntervalHours: 0}
	estimated := Descriptor{Level: Estimated, IntervalHours: 24}
	uncertain := Descriptor{Level: Uncertain, IntervalHours: 12}

	if got := Combine(exact, estimated); got.Level != Estimated {
		t.Errorf("expected estimated, got %v", got.Level)
	}
	if got := Combine(uncertain, estimated); got.Level != Uncertain {
		t.Errorf("expected uncertain, got %v", got.Level)
	}
	if got := Combine(official, exact); got.IntervalHours != 0.5 {
		t.Errorf("expected wider interval on tie, got %v", got.IntervalHours)
	}
}

func TestConfigValidate(t *testing.T) {
	if err := DefaultConfig().Validate(); err != nil {
		t.Errorf("default config invalid: %v", err)
	}
	bad := DefaultConfig()
	bad.BoundaryThreshold = 0.5
	if err := bad.Validate(); err == nil {
		t.Error("expected error for threshold 0.5")
	}
}
// #endregion combine-tests
