package panchanga

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dantwoashim/Project-Parva-sub001/internal/bs"
	"github.com/dantwoashim/Project-Parva-sub001/internal/ephemeris"
	"github.com/dantwoashim/Project-Parva-sub001/internal/lunar"
	"github.com/dantwoashim/Project-Parva-sub001/internal/rootfind"
	"github.com/dantwoashim/Project-Parva-sub001/internal/solar"
	"github.com/dantwoashim/Project-Parva-sub001/internal/tithi"
	"github.com/dantwoashim/Project-Parva-sub001/internal/uncertainty"
)

// #region config
// Config groups the settings of every sub-engine.
type Config struct {
	Search      rootfind.Config
	Uncertainty uncertainty.Config
	Location    solar.Location
}

// DefaultConfig returns Kathmandu, the default search and the 1% boundary threshold.
func DefaultConfig() Config {
	return Config{
		Search:      rootfind.DefaultConfig(),
		Uncertainty: uncertainty.DefaultConfig(),
		Location:    solar.Kathmandu,
	}
}
// #endregion config

// #region engine
// Engine composes the oracle, tithi, lunar, BS and uncertainty engines.
type Engine struct {
	oracle    ephemeris.Oracle
	tithi     *tithi.Engine
	lunar     *lunar.Engine
	converter *bs.Converter
	model     *uncertainty.Model
	fallback  Fallback
	loc       solar.Location
}

// Option customizes an Engine.
type Option func(*Engine)

// WithFallback consults f when the oracle is unavailable.
func WithFallback(f Fallback) Option {
	return func(e *Engine) { e.fallback = f }
}

// WithConverter shares a BS converter, e.g. one fed by a table watcher.
func WithConverter(c *bs.Converter) Option {
	return func(e *Engine) { e.converter = c }
}

// NewEngine creates an aggregator over oracle.
func NewEngine(oracle ephemeris.Oracle, cfg Config, opts ...Option) *Engine {
	e := &Engine{
		oracle: oracle,
		tithi:  tithi.NewEngine(oracle, cfg.Search),
		lunar:  lunar.NewEngine(oracle, cfg.Search),
		model:  uncertainty.NewModel(cfg.Uncertainty),
		loc:    cfg.Location,
	}
	if e.loc.Zone == nil {
		e.loc = solar.Kathmandu
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.converter == nil {
		e.converter = bs.NewConverter(oracle, cfg.Search)
	}
	return e
}

// Converter returns the BS converter in use.
func (e *Engine) Converter() *bs.Converter {
	return e.converter
}

// Model returns the uncertainty model in use.
func (e *Engine) Model() *uncertainty.Model {
	return e.model
}
// #endregion engine

// #region at
// At returns the record for an instant.
func (e *Engine) At(ctx context.Context, t time.Time) (Record, error) {
	return e.resolve(ctx, t.UTC(), uncertainty.MethodInstant)
}

// Daily returns the udaya record of a civil date: the values at local sunrise.
func (e *Engine) Daily(ctx context.Context, date time.Time) (Record, error) {
	return e.resolve(ctx, solar.Sunrise(date, e.loc), uncertainty.MethodUdaya)
}

func (e *Engine) resolve(ctx context.Context, t time.Time, method string) (Record, error) {
	rec, err := e.compute(ctx, t, method)
	if err == nil {
		return rec, nil
	}
	if errors.Is(err, ephemeris.ErrOracleUnavailable) && e.fallback != nil {
		cached, ok, ferr := e.fallback.Lookup(ctx, t)
		switch {
		case ferr != nil:
			err = fmt.Errorf("%w; fallback: %w", err, ferr)
		case ok:
			cached = e.fromCache(cached)
			if verr := cached.Validate(); verr != nil {
				return Record{}, fmt.Errorf("%w: %w", ErrEngineUnavailable, verr)
			}
			return cached, nil
		}
	}
	return Record{}, fmt.Errorf("%w: %w", ErrEngineUnavailable, err)
}

func (e *Engine) compute(ctx context.Context, t time.Time, method string) (Record, error) {
	pair, err := e.oracle.Longitudes(ctx, t)
	if err != nil {
		return Record{}, fmt.Errorf("sample longitudes: %w", err)
	}
	ti, err := e.tithi.At(ctx, t)
	if err != nil {
		return Record{}, err
	}
	month, err := e.lunar.MonthAt(ctx, t)
	if err != nil {
		return Record{}, err
	}
	civil := solar.CivilDate(t, e.loc)
	date, err := e.converter.ToBS(ctx, civil)
	if err != nil {
		return Record{}, err
	}

	rec := Record{
		Instant:    t,
		CivilDate:  civil,
		Longitudes: pair,
		Tithi:      ti,
		LunarMonth: month,
		BSDate:     date,
		Nakshatra:  NakshatraOf(pair.Moon),
		Yoga:       YogaOf(pair.Sun, pair.Moon),
		Karana:     KaranaOf(pair.Elongation()),
		Vaara:      VaaraOf(civil),
		Source:     SourceEphemeris,
	}
	progress := ti.Progress
	rec.TithiUncertainty = e.model.BuildTithi(method, uncertainty.Exact, &progress)
	rec.BSUncertainty = e.model.BuildBS(date.Confidence, date.Band)
	rec.Uncertainty = uncertainty.Combine(rec.TithiUncertainty, rec.BSUncertainty)

	if err := rec.Validate(); err != nil {
		return Record{}, err
	}
	return rec, nil
}

// fromCache relabels a stored record as served from the cache.
func (e *Engine) fromCache(rec Record) Record {
	rec.Source = SourcePrecomputed
	progress := rec.Tithi.Progress
	rec.TithiUncertainty = e.model.BuildTithi(uncertainty.MethodPrecomputed, uncertainty.Exact, &progress)
	rec.Uncertainty = uncertainty.Combine(rec.TithiUncertainty, rec.BSUncertainty)
	return rec
}
// #endregion at
