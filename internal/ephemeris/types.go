package ephemeris

import (
	"context"
	"errors"
	"math"
	"time"
)

// #region errors
// ErrOracleUnavailable is returned when the longitude source fails or times out.
var ErrOracleUnavailable = errors.New("oracle unavailable")
// #endregion errors

// #region longitude-pair
// LongitudePair holds sidereal ecliptic longitudes in degrees, both in [0, 360).
type LongitudePair struct {
	Sun  float64
	Moon float64
}

// NewLongitudePair normalizes both angles into [0, 360).
func NewLongitudePair(sun, moon float64) LongitudePair {
	return LongitudePair{Sun: Normalize(sun), Moon: Normalize(moon)}
}

// Elongation is the Moon-Sun separation mod 360.
func (p LongitudePair) Elongation() float64 {
	return Normalize(p.Moon - p.Sun)
}
// #endregion longitude-pair

// #region oracle
// Oracle is the single seam between the engine and an astronomical back end.
type Oracle interface {
	Longitudes(ctx context.Context, t time.Time) (LongitudePair, error)
}

// OracleFunc adapts a plain function to the Oracle interface.
type OracleFunc func(ctx context.Context, t time.Time) (LongitudePair, error)

// Longitudes calls f.
func (f OracleFunc) Longitudes(ctx context.Context, t time.Time) (LongitudePair, error) {
	return f(ctx, t)
}
// #endregion oracle

// #region angles
// Normalize maps any angle in degrees into [0, 360).
func Normalize(deg float64) float64 {
	r := math.Mod(deg, 360)
	if r < 0 {
		r += 360
	}
	if r >= 360 {
		r -= 360
	}
	return r
}

// SignedDelta returns the shortest signed distance from target to deg, in [-180, 180).
func SignedDelta(deg, target float64) float64 {
	return Normalize(deg-target+180) - 180
}
// #endregion angles
