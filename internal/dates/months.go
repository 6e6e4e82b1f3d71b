package dates

import (
	"strings"
	"time"
)

// MonthTable maps month names of one locale to their month number.
// Lookups are keyed by the lower-cased first three letters of the name,
// so both "December" and "Dec" resolve to time.December.
type MonthTable struct {
	names []string
	index map[string]time.Month
}

// NewMonthTable builds a table from the twelve full month names of a locale,
// January first.
func NewMonthTable(names ...string) *MonthTable {
	t := &MonthTable{
		names: names,
		index: make(map[string]time.Month, len(names)),
	}
	for i, name := range names {
		t.index[abbreviation(name)] = time.Month(i + 1)
	}
	return t
}

// Lookup resolves a full or abbreviated month name, ignoring case.
func (t *MonthTable) Lookup(name string) (time.Month, bool) {
	m, ok := t.index[abbreviation(name)]
	return m, ok
}

// alternation returns a regexp alternation matching every full name and its
// three-letter abbreviation, long form first so "August" wins over "Aug".
func (t *MonthTable) alternation() string {
	parts := make([]string, 0, 2*len(t.names))
	for _, name := range t.names {
		parts = append(parts, name, string([]rune(name)[:3]))
	}
	return strings.Join(parts, "|")
}

func abbreviation(name string) string {
	r := []rune(strings.ToLower(name))
	if len(r) > 3 {
		r = r[:3]
	}
	return string(r)
}

var (
	englishMonths = NewMonthTable(
		"January", "February", "March", "April", "May", "June",
		"July", "August", "September", "October", "November", "December",
	)

	germanMonths = NewMonthTable(
		"Januar", "Februar", "März", "April", "Mai", "Juni",
		"Juli", "August", "September", "Oktober", "November", "Dezember",
	)
)

// EnglishMonths returns the English month table used by the default parsers.
func EnglishMonths() *MonthTable {
	return englishMonths
}
