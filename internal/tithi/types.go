package tithi

import (
	"time"

	"github.com/dantwoashim/Project-Parva-sub001/internal/rootfind"
)

// #region constants
// Span is the elongation covered by one tithi, in degrees.
const Span = 12.0

// ErrBoundarySearchDivergence is returned when a boundary search does not converge.
var ErrBoundarySearchDivergence = rootfind.ErrBoundarySearchDivergence

// names indexes 1..15 within a paksha; 15 is renamed for the krishna half.
var names = [15]string{
	"Pratipada", "Dwitiya", "Tritiya", "Chaturthi", "Panchami",
	"Shashthi", "Saptami", "Ashtami", "Navami", "Dashami",
	"Ekadashi", "Dwadashi", "Trayodashi", "Chaturdashi", "Purnima",
}
// #endregion constants

// #region direction
// Direction selects which boundary a search looks for.
type Direction int

const (
	Backward Direction = iota // start of the current tithi
	Forward                   // end of the current tithi
)

func (d Direction) String() string {
	if d == Forward {
		return "forward"
	}
	return "backward"
}
// #endregion direction

// #region tithi
// Tithi is one lunar day.
type Tithi struct {
	Index      int // 1..30
	Start      time.Time
	End        time.Time
	Progress   float64 // [0, 1)
	Elongation float64 // sampled elongation in degrees
}

// Paksha returns "shukla" for 1..15 and "krishna" for 16..30.
func (t Tithi) Paksha() string {
	if t.Index <= 15 {
		return "shukla"
	}
	return "krishna"
}

// Number is the 1..15 count within the paksha.
func (t Tithi) Number() int {
	if t.Index > 15 {
		return t.Index - 15
	}
	return t.Index
}

// Name returns the traditional tithi name.
func (t Tithi) Name() string {
	if t.Index == 30 {
		return "Amavasya"
	}
	return names[t.Number()-1]
}

// Duration is End minus Start.
func (t Tithi) Duration() time.Duration {
	return t.End.Sub(t.Start)
}
// #endregion tithi
