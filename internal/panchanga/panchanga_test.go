package panchanga

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dantwoashim/Project-Parva-sub001/internal/bs"
	"github.com/dantwoashim/Project-Parva-sub001/internal/ephemeris"
	"github.com/dantwoashim/Project-Parva-sub001/internal/uncertainty"
)

// #region helpers
var refInstant = time.Date(2026, 2, 6, 6, 0, 0, 0, time.UTC)

func failingOracle() ephemeris.Oracle {
	return ephemeris.OracleFunc(func(_ context.Context, _ time.Time) (ephemeris.LongitudePair, error) {
		return ephemeris.LongitudePair{}, ephemeris.ErrOracleUnavailable
	})
}

type stubFallback struct {
	rec   Record
	ok    bool
	err   error
	asked time.Time
}

func (f *stubFallback) Lookup(_ context.Context, t time.Time) (Record, bool, error) {
	f.asked = t
	return f.rec, f.ok, f.err
}

func analyticRecord(t *testing.T) Record {
	t.Helper()
	rec, err := NewEngine(ephemeris.NewAnalytic(), DefaultConfig()).At(context.Background(), refInstant)
	if err != nil {
		t.Fatalf("At: %v", err)
	}
	return rec
}
// #endregion helpers

// #region limb-tests
func TestLimbs(t *testing.T) {
	tests := []struct {
		name string
		got  Limb
		want Limb
	}{
		{"nakshatra start", NakshatraOf(0), Limb{1, "Ashwini"}},
		{"nakshatra end", NakshatraOf(359.9), Limb{27, "Revati"}},
		{"nakshatra wrap", NakshatraOf(-1), Limb{27, "Revati"}},
		{"yoga wraps sum", YogaOf(350, 20), Limb{1, "Vishkumbha"}},
		{"yoga last", YogaOf(180, 179), Limb{27, "Vaidhriti"}},
		{"karana first", KaranaOf(0), Limb{1, "Kimstughna"}},
		{"karana bava", KaranaOf(6), Limb{2, "Bava"}},
		{"karana vishti", KaranaOf(42), Limb{8, "Vishti"}},
		{"karana rotates", KaranaOf(48), Limb{9, "Bava"}},
		{"karana shakuni", KaranaOf(342), Limb{58, "Shakuni"}},
		{"karana naga", KaranaOf(359), Limb{60, "Naga"}},
		{"vaara friday", VaaraOf(time.Date(2026, 2, 6, 0, 0, 0, 0, time.UTC)), Limb{5, "Shukravara"}},
		{"vaara sunday", VaaraOf(time.Date(2026, 2, 8, 0, 0, 0, 0, time.UTC)), Limb{0, "Ravivara"}},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("%s: got %+v, want %+v", tt.name, tt.got, tt.want)
		}
	}
}
// #endregion limb-tests

// #region at-tests
func TestAt_KnownInstant(t *testing.T) {
	rec := analyticRecord(t)

	if rec.Tithi.Index != 20 || rec.Tithi.Name() != "Panchami" || rec.Tithi.Paksha() != "krishna" {
		t.Errorf("expected krishna Panchami (20), got %d %s %s", rec.Tithi.Index, rec.Tithi.Paksha(), rec.Tithi.Name())
	}
	if rec.LunarMonth.FullName != "Magh" {
		t.Errorf("expected Magh, got %s", rec.LunarMonth.FullName)
	}
	if rec.BSDate.String() != "2082-10-23" || rec.BSDate.Confidence != uncertainty.Official {
		t.Errorf("expected official 2082-10-23, got %s (%v)", rec.BSDate, rec.BSDate.Confidence)
	}
	if rec.Vaara.Name != "Shukravara" {
		t.Errorf("expected Shukravara, got %s", rec.Vaara.Name)
	}
	if !rec.CivilDate.Equal(time.Date(2026, 2, 6, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("unexpected civil date %s", rec.CivilDate)
	}
	if rec.Source != SourceEphemeris {
		t.Errorf("expected source %s, got %s", SourceEphemeris, rec.Source)
	}
	if rec.TithiUncertainty.Method != uncertainty.MethodInstant || rec.TithiUncertainty.Level != uncertainty.Exact {
		t.Errorf("unexpected tithi uncertainty %+v", rec.TithiUncertainty)
	}
	if rec.BSUncertainty.Method != uncertainty.MethodOfficialTable {
		t.Errorf("unexpected BS uncertainty %+v", rec.BSUncertainty)
	}
	if rec.Uncertainty.Level != uncertainty.Exact || rec.Uncertainty.IntervalHours != 0.5 {
		t.Errorf("unexpected combined uncertainty %+v", rec.Uncertainty)
	}
	if rec.Karana.Index != 2*rec.Tithi.Index-1 && rec.Karana.Index != 2*rec.Tithi.Index {
		t.Errorf("karana %d does not belong to tithi %d", rec.Karana.Index, rec.Tithi.Index)
	}
	if err := rec.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}
}

func TestAt_EstimatedBS(t *testing.T) {
	rec, err := NewEngine(ephemeris.NewAnalytic(), DefaultConfig()).At(context.Background(), time.Date(1960, 6, 1, 12, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("At: %v", err)
	}
	if rec.BSDate.Confidence != uncertainty.Estimated {
		t.Errorf("expected estimated BS date, got %v", rec.BSDate.Confidence)
	}
	if rec.Uncertainty.Level.Severity() < uncertainty.Estimated.Severity() {
		t.Errorf("expected combined level at least estimated, got %v", rec.Uncertainty.Level)
	}
}

func TestDaily_UsesSunrise(t *testing.T) {
	rec, err := NewEngine(ephemeris.NewAnalytic(), DefaultConfig()).Daily(context.Background(), time.Date(2026, 2, 6, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("Daily: %v", err)
	}
	local := rec.Instant.In(time.FixedZone("NPT", 5*3600+45*60))
	if local.Hour() != 6 && local.Hour() != 7 {
		t.Errorf("expected a sunrise instant, got %s", local)
	}
	if rec.TithiUncertainty.Method != uncertainty.MethodUdaya {
		t.Errorf("expected udaya method, got %s", rec.TithiUncertainty.Method)
	}
	if !rec.CivilDate.Equal(time.Date(2026, 2, 6, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("unexpected civil date %s", rec.CivilDate)
	}
}
// #endregion at-tests

// #region failure-tests
func TestAt_OracleUnavailableNoFallback(t *testing.T) {
	_, err := NewEngine(failingOracle(), DefaultConfig()).At(context.Background(), refInstant)
	if !errors.Is(err, ErrEngineUnavailable) {
		t.Fatalf("expected ErrEngineUnavailable, got %v", err)
	}
	if !errors.Is(err, ephemeris.ErrOracleUnavailable) {
		t.Errorf("expected cause to be kept, got %v", err)
	}
}

func TestAt_FallbackHit(t *testing.T) {
	fb := &stubFallback{rec: analyticRecord(t), ok: true}
	rec, err := NewEngine(failingOracle(), DefaultConfig(), WithFallback(fb)).At(context.Background(), refInstant)
	if err != nil {
		t.Fatalf("At: %v", err)
	}
	if !fb.asked.Equal(refInstant) {
		t.Errorf("fallback asked for %s", fb.asked)
	}
	if rec.Source != SourcePrecomputed {
		t.Errorf("expected source %s, got %s", SourcePrecomputed, rec.Source)
	}
	if rec.TithiUncertainty.Method != uncertainty.MethodPrecomputed || rec.TithiUncertainty.Level != uncertainty.Estimated {
		t.Errorf("unexpected tithi uncertainty %+v", rec.TithiUncertainty)
	}
	if rec.Uncertainty.Level != uncertainty.Estimated {
		t.Errorf("expected combined estimated, got %v", rec.Uncertainty.Level)
	}
}

func TestAt_FallbackMissOrError(t *testing.T) {
	for _, fb := range []*stubFallback{{ok: false}, {err: errors.New("disk full")}} {
		_, err := NewEngine(failingOracle(), DefaultConfig(), WithFallback(fb)).At(context.Background(), refInstant)
		if !errors.Is(err, ErrEngineUnavailable) {
			t.Errorf("expected ErrEngineUnavailable, got %v", err)
		}
	}
}

func TestAt_FallbackInvalidRecord(t *testing.T) {
	bad := analyticRecord(t)
	bad.Tithi.Index = 0
	fb := &stubFallback{rec: bad, ok: true}
	_, err := NewEngine(failingOracle(), DefaultConfig(), WithFallback(fb)).At(context.Background(), refInstant)
	if !errors.Is(err, ErrEngineUnavailable) || !errors.Is(err, ErrInvalidRecord) {
		t.Fatalf("expected invalid record to be refused, got %v", err)
	}
}

func TestAt_OtherFailuresSkipFallback(t *testing.T) {
	fb := &stubFallback{rec: analyticRecord(t), ok: true}
	_, err := NewEngine(ephemeris.NewAnalytic(), DefaultConfig(), WithFallback(fb)).At(context.Background(), time.Date(2290, 6, 1, 0, 0, 0, 0, time.UTC))
	if !errors.Is(err, ErrEngineUnavailable) || !errors.Is(err, bs.ErrInvalidDateRange) {
		t.Fatalf("expected ErrEngineUnavailable wrapping ErrInvalidDateRange, got %v", err)
	}
	if !fb.asked.IsZero() {
		t.Error("fallback consulted for a non-oracle failure")
	}
}
// #endregion failure-tests

// #region validate-tests
func TestValidate(t *testing.T) {
	good := analyticRecord(t)
	tests := []struct {
		name   string
		mutate func(r *Record)
	}{
		{"zero instant", func(r *Record) { r.Instant = time.Time{} }},
		{"tithi index", func(r *Record) { r.Tithi.Index = 31 }},
		{"tithi order", func(r *Record) { r.Tithi.End = r.Tithi.Start }},
		{"instant outside tithi", func(r *Record) { r.Instant = r.Tithi.End.Add(time.Hour) }},
		{"progress", func(r *Record) { r.Tithi.Progress = 1 }},
		{"month name", func(r *Record) { r.LunarMonth.FullName = "" }},
		{"bs month", func(r *Record) { r.BSDate.Month = 13 }},
		{"limb", func(r *Record) { r.Yoga.Name = "" }},
		{"source", func(r *Record) { r.Source = "" }},
	}
	for _, tt := range tests {
		r := good
		tt.mutate(&r)
		if err := r.Validate(); !errors.Is(err, ErrInvalidRecord) {
			t.Errorf("%s: expected ErrInvalidRecord, got %v", tt.name, err)
		}
	}
}
// #endregion validate-tests
