package bs

import (
	_ "embed"
	"fmt"
	"os"
	"sort"
	"strconv"
	"sync"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

//go:embed official.toml
var officialTOML []byte

// #region types
// tableFile is the on-disk layout of a month-length table.
type tableFile struct {
	Reference struct {
		BSYear    int            `toml:"bs_year"`
		Gregorian toml.LocalDate `toml:"gregorian"`
	} `toml:"reference"`
	Years map[string][]int `toml:"years"`
}

// Table is a validated official month-length table. It is immutable once built.
type Table struct {
	First  int
	Last   int
	months map[int][12]int
	starts map[int]time.Time // First..Last+1, midnight UTC
}
// #endregion types

// #region parse
// ParseTable decodes and validates a TOML month-length table.
func ParseTable(data []byte) (*Table, error) {
	var f tableFile
	if err := toml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse bs table: %w", err)
	}
	if len(f.Years) == 0 {
		return nil, fmt.Errorf("parse bs table: no years")
	}

	t := &Table{months: make(map[int][12]int, len(f.Years))}
	years := make([]int, 0, len(f.Years))
	for key, lengths := range f.Years {
		y, err := strconv.Atoi(key)
		if err != nil {
			return nil, fmt.Errorf("parse bs table: year key %q: %w", key, err)
		}
		if len(lengths) != 12 {
			return nil, fmt.Errorf("parse bs table: year %d has %d months", y, len(lengths))
		}
		var row [12]int
		total := 0
		for i, n := range lengths {
			if n < 29 || n > 32 {
				return nil, fmt.Errorf("parse bs table: year %d month %d has %d days", y, i+1, n)
			}
			row[i] = n
			total += n
		}
		if total < 365 || total > 366 {
			return nil, fmt.Errorf("parse bs table: year %d has %d days", y, total)
		}
		t.months[y] = row
		years = append(years, y)
	}
	sort.Ints(years)
	t.First, t.Last = years[0], years[len(years)-1]
	if t.Last-t.First+1 != len(years) {
		return nil, fmt.Errorf("parse bs table: years %d..%d are not contiguous", t.First, t.Last)
	}

	ref := f.Reference.BSYear
	if ref < t.First || ref > t.Last {
		return nil, fmt.Errorf("parse bs table: reference year %d outside %d..%d", ref, t.First, t.Last)
	}
	g := f.Reference.Gregorian
	if g.Year == 0 {
		return nil, fmt.Errorf("parse bs table: missing reference date")
	}
	anchor := time.Date(g.Year, time.Month(g.Month), g.Day, 0, 0, 0, 0, time.UTC)

	t.starts = make(map[int]time.Time, len(years)+1)
	t.starts[ref] = anchor
	for y := ref; y <= t.Last; y++ {
		t.starts[y+1] = t.starts[y].AddDate(0, 0, t.yearDays(y))
	}
	for y := ref - 1; y >= t.First; y-- {
		t.starts[y] = t.starts[y+1].AddDate(0, 0, -t.yearDays(y))
	}
	return t, nil
}

// LoadTable reads a TOML month-length table from disk.
func LoadTable(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read bs table: %w", err)
	}
	return ParseTable(data)
}

var defaultTable = sync.OnceValues(func() (*Table, error) {
	return ParseTable(officialTOML)
})

// DefaultTable returns the embedded official table (BS 2070-2095).
func DefaultTable() *Table {
	t, err := defaultTable()
	if err != nil {
		panic(err)
	}
	return t
}

// DefaultTOML returns a copy of the embedded table source.
func DefaultTOML() []byte {
	return append([]byte(nil), officialTOML...)
}
// #endregion parse

// #region lookup
// Covers reports whether year is in the table.
func (t *Table) Covers(year int) bool {
	return year >= t.First && year <= t.Last
}

// Months returns the month lengths of a covered year.
func (t *Table) Months(year int) ([12]int, bool) {
	m, ok := t.months[year]
	return m, ok
}

// YearStart returns 1 Baishakh of a covered year.
func (t *Table) YearStart(year int) (time.Time, bool) {
	s, ok := t.starts[year]
	return s, ok && year <= t.Last
}

// Span returns the first day covered and the first day after the table.
func (t *Table) Span() (time.Time, time.Time) {
	return t.starts[t.First], t.starts[t.Last+1]
}

func (t *Table) yearDays(year int) int {
	total := 0
	for _, n := range t.months[year] {
		total += n
	}
	return total
}
// #endregion lookup
