package dates

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"
)

// Candidate is a date read from text before the year is known.
// Year is zero when the text did not contain one.
type Candidate struct {
	Year  int
	Month time.Month
	Day   int
}

// Resolve turns the candidate into a midnight timestamp in now's location,
// taking the year from now when it is missing. It reports false when
// day and month do not form a real calendar date (e.g. 31 February).
func (c Candidate) Resolve(now time.Time) (time.Time, bool) {
	year := c.Year
	if year == 0 {
		year = now.Year()
	}
	if c.Month < time.January || c.Month > time.December || c.Day < 1 {
		return time.Time{}, false
	}

	t := time.Date(year, c.Month, c.Day, 0, 0, 0, 0, now.Location())
	// time.Date normalizes overflow (Feb 31 -> Mar 3), so a round trip detects it.
	if t.Year() != year || t.Month() != c.Month || t.Day() != c.Day {
		return time.Time{}, false
	}
	return t, true
}

// groups holds the submatch positions of day, month and year in a pattern.
type groups struct {
	day, month, year int
}

// Parser recognizes one date notation.
type Parser struct {
	name    string
	pattern *regexp.Regexp
	groups  groups
	months  *MonthTable // nil for numeric months
}

// Name identifies the parser in logs and tests.
func (p *Parser) Name() string {
	return p.name
}

// ExtractDates returns every date found in text, in match order.
// Text without dates yields an empty result, never an error.
func (p *Parser) ExtractDates(text string) []time.Time {
	return p.extractDates(text, time.Now())
}

var newlines = strings.NewReplacer("\r\n", " ", "\n", " ")

func (p *Parser) extractDates(text string, now time.Time) []time.Time {
	text = newlines.Replace(text)

	var dates []time.Time
	for _, loc := range p.pattern.FindAllStringSubmatchIndex(text, -1) {
		// a month name inside a longer word ("marketing", "Mainz") is no date
		if p.months != nil && !standalone(text, loc[2*p.groups.month], loc[2*p.groups.month+1]) {
			continue
		}
		c, ok := p.candidate(submatches(text, loc))
		if !ok {
			continue
		}
		if t, ok := c.Resolve(now); ok {
			dates = append(dates, t)
		}
	}
	return dates
}

// submatches turns match indices into strings; unmatched groups are empty.
func submatches(text string, loc []int) []string {
	match := make([]string, len(loc)/2)
	for i := range match {
		if loc[2*i] >= 0 {
			match[i] = text[loc[2*i]:loc[2*i+1]]
		}
	}
	return match
}

// standalone reports whether text[start:end] has no letter directly before or
// after it. Digits may touch it, as in "25Dec2023" merged from sibling nodes.
func standalone(text string, start, end int) bool {
	if before, _ := utf8.DecodeLastRuneInString(text[:start]); start > 0 && unicode.IsLetter(before) {
		return false
	}
	if after, _ := utf8.DecodeRuneInString(text[end:]); end < len(text) && unicode.IsLetter(after) {
		return false
	}
	return true
}

func (p *Parser) candidate(match []string) (Candidate, bool) {
	day, err := strconv.Atoi(match[p.groups.day])
	if err != nil {
		return Candidate{}, false
	}

	var month time.Month
	if p.months == nil {
		n, err := strconv.Atoi(match[p.groups.month])
		if err != nil {
			return Candidate{}, false
		}
		month = time.Month(n)
	} else {
		m, ok := p.months.Lookup(match[p.groups.month])
		if !ok {
			return Candidate{}, false
		}
		month = m
	}

	year := 0
	if raw := match[p.groups.year]; raw != "" {
		y, err := strconv.Atoi(raw)
		if err != nil {
			return Candidate{}, false
		}
		year = y
	}

	return Candidate{Year: year, Month: month, Day: day}, true
}

const (
	// day of month with an optional English ordinal suffix ("25th")
	dayPattern = `(\d{1,2})(?:st|nd|rd|th)?`
	// up to three punctuation or filler characters between date parts ("25. ", "25th of ")
	gapPattern = `\s*[^\d\s]{0,3}\s*`
	yearGroup  = `(?:` + gapPattern + `(\d{4}))?`
)

// NewDDMMYYYY matches numeric dates like 25.12.2023. The year is mandatory.
func NewDDMMYYYY() *Parser {
	return &Parser{
		name:    "dd.mm.yyyy",
		pattern: regexp.MustCompile(`(\d\d)\.(\d\d)\.(\d\d\d\d)`),
		groups:  groups{day: 1, month: 2, year: 3},
	}
}

// NewDayMonth matches dates written day first, e.g. "25 Dec", "25. Dezember 2023".
func NewDayMonth(name string, months *MonthTable) *Parser {
	expr := fmt.Sprintf(`(?i)%s%s(%s)%s`, dayPattern, gapPattern, months.alternation(), yearGroup)
	return &Parser{
		name:    name,
		pattern: regexp.MustCompile(expr),
		groups:  groups{day: 1, month: 2, year: 3},
		months:  months,
	}
}

// NewMonthDay matches dates written month first, e.g. "Dec 25th", "March 19, 2023".
// The day must not run into further digits, so "August 2023" is not read as August 20.
func NewMonthDay(name string, months *MonthTable) *Parser {
	expr := fmt.Sprintf(`(?i)(%s)\.?\s*%s%s\b`, months.alternation(), dayPattern, yearGroup)
	return &Parser{
		name:    name,
		pattern: regexp.MustCompile(expr),
		groups:  groups{month: 1, day: 2, year: 3},
		months:  months,
	}
}
