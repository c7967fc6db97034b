package lunar

import "time"

// #region names
// MonthNames lists lunar month names in Bikram Sambat order.
var MonthNames = [12]string{
	"Baishakh", "Jestha", "Ashadh", "Shrawan", "Bhadra", "Ashwin",
	"Kartik", "Mangsir", "Poush", "Magh", "Falgun", "Chaitra",
}

// nameForIngress maps the sign entered during an amanta month to the
// month's name: the Mesha ingress falls in Chaitra, Vrishabha in Baishakh.
func nameForIngress(rashi int) string {
	return MonthNames[(rashi+11)%12]
}

// followingName returns the month name after name in calendar order.
func followingName(name string) string {
	for i, n := range MonthNames {
		if n == name {
			return MonthNames[(i+1)%12]
		}
	}
	return ""
}
// #endregion names

// #region span
// Span is one new-moon to new-moon interval.
type Span struct {
	Start time.Time
	End   time.Time
}
// #endregion span

// #region month
// Month is one named lunar month.
type Month struct {
	Name     string // base name, e.g. "Shrawan"
	FullName string // "Adhik Shrawan" for intercalary months
	IsAdhik  bool
	IsKshaya bool // two ingresses: the month swallows the next name
	Start    time.Time
	End      time.Time
}

// Year is the ordered months of one lunar year, from Chaitra to Falgun.
type Year struct {
	GregorianYear int
	Months        []Month
}

// Adhik returns the intercalary month, if any.
func (y Year) Adhik() (Month, bool) {
	for _, m := range y.Months {
		if m.IsAdhik {
			return m, true
		}
	}
	return Month{}, false
}

// AdhikCount counts intercalary months.
func (y Year) AdhikCount() int {
	n := 0
	for _, m := range y.Months {
		if m.IsAdhik {
			n++
		}
	}
	return n
}
// #endregion month
