package panchanga

import (
	"math"
	"time"

	"github.com/dantwoashim/Project-Parva-sub001/internal/ephemeris"
)

// #region names
var nakshatraNames = [27]string{
	"Ashwini", "Bharani", "Krittika", "Rohini", "Mrigashira", "Ardra", "Punarvasu",
	"Pushya", "Ashlesha", "Magha", "Purva Phalguni", "Uttara Phalguni", "Hasta",
	"Chitra", "Swati", "Vishakha", "Anuradha", "Jyeshtha", "Mula", "Purva Ashadha",
	"Uttara Ashadha", "Shravana", "Dhanishta", "Shatabhisha", "Purva Bhadrapada",
	"Uttara Bhadrapada", "Revati",
}

var yogaNames = [27]string{
	"Vishkumbha", "Priti", "Ayushman", "Saubhagya", "Shobhana", "Atiganda", "Sukarma",
	"Dhriti", "Shula", "Ganda", "Vriddhi", "Dhruva", "Vyaghata", "Harshana", "Vajra",
	"Siddhi", "Vyatipata", "Variyan", "Parigha", "Shiva", "Siddha", "Sadhya", "Shubha",
	"Shukla", "Brahma", "Indra", "Vaidhriti",
}

// movableKaranas repeat eight times between the fixed ones.
var movableKaranas = [7]string{"Bava", "Balava", "Kaulava", "Taitila", "Garija", "Vanija", "Vishti"}

var fixedKaranas = [3]string{"Shakuni", "Chatushpada", "Naga"}

var vaaraNames = [7]string{
	"Ravivara", "Somavara", "Mangalavara", "Budhavara", "Guruvara", "Shukravara", "Shanivara",
}
// #endregion names

// #region limb
// Limb is one indexed panchanga element.
type Limb struct {
	Index int    `json:"index"` // 1-based, except Vaara which counts from Sunday = 0
	Name  string `json:"name"`
}

const nakshatraSpan = 360.0 / 27

func segment(deg, span float64, n int) int {
	i := int(math.Floor(ephemeris.Normalize(deg) / span))
	if i >= n {
		i = n - 1
	}
	return i
}

// NakshatraOf returns the lunar mansion for a sidereal Moon longitude.
func NakshatraOf(moon float64) Limb {
	i := segment(moon, nakshatraSpan, 27)
	return Limb{Index: i + 1, Name: nakshatraNames[i]}
}

// YogaOf returns the yoga for the sum of the sidereal longitudes.
func YogaOf(sun, moon float64) Limb {
	i := segment(sun+moon, nakshatraSpan, 27)
	return Limb{Index: i + 1, Name: yogaNames[i]}
}

// KaranaOf returns the half-tithi for an elongation.
func KaranaOf(elongation float64) Limb {
	i := segment(elongation, 6, 60)
	var name string
	switch {
	case i == 0:
		name = "Kimstughna"
	case i >= 57:
		name = fixedKaranas[i-57]
	default:
		name = movableKaranas[(i-1)%7]
	}
	return Limb{Index: i + 1, Name: name}
}

// VaaraOf returns the weekday of a civil date.
func VaaraOf(civil time.Time) Limb {
	wd := int(civil.Weekday())
	return Limb{Index: wd, Name: vaaraNames[wd]}
}
// #endregion limb
