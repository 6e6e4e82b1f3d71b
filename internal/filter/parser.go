package filter

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/pfrederiksen/calendar-aggregator/internal/dates"
)

const monthNames = `jan|january|feb|february|mar|march|apr|april|may|jun|june|jul|july|aug|august|sep|sept|september|oct|october|nov|november|dec|december`

var (
	// "Mar 1-15" or "March 1-15"
	sameMonthRange = regexp.MustCompile(`(?i)^(` + monthNames + `)\s+(\d{1,2})\s*-\s*(\d{1,2})$`)
	// "Mar 1 - Apr 15"
	crossMonthRange = regexp.MustCompile(`(?i)^(` + monthNames + `)\s+(\d{1,2})\s*-\s*(` + monthNames + `)\s+(\d{1,2})$`)
	// "March"
	wholeMonth = regexp.MustCompile(`(?i)^(` + monthNames + `)$`)
	// "2026-03-01..2026-03-15"
	isoRange = regexp.MustCompile(`^(\d{4}-\d{2}-\d{2})\s*\.\.\s*(\d{4}-\d{2}-\d{2})$`)
)

// ParseDateRange parses a date range string into start and end times.
//
// Supported formats:
//   - "Mar 1-15" or "March 1-15" - Same month, different days
//   - "March 1 - April 15" - Different months
//   - "March" - Entire month
//   - "2026-03-01..2026-03-15" - Explicit dates
//
// Without an explicit year, a month earlier than now's month is taken to be
// next year. A cross-month range whose end month precedes its start month
// ends in the following year.
//
// Times are in now's location. Start is at 00:00:00, end at 23:59:59.
func ParseDateRange(input string, now time.Time) (*time.Time, *time.Time, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return nil, nil, fmt.Errorf("date range cannot be empty")
	}
	loc := now.Location()

	if matches := sameMonthRange.FindStringSubmatch(input); matches != nil {
		month, err := parseMonth(matches[1])
		if err != nil {
			return nil, nil, err
		}
		year := yearForMonth(month, now)

		from, err := day(year, month, matches[2], loc)
		if err != nil {
			return nil, nil, err
		}
		to, err := day(year, month, matches[3], loc)
		if err != nil {
			return nil, nil, err
		}
		return ordered(from, endOfDay(to))
	}

	if matches := crossMonthRange.FindStringSubmatch(input); matches != nil {
		month1, err := parseMonth(matches[1])
		if err != nil {
			return nil, nil, err
		}
		month2, err := parseMonth(matches[3])
		if err != nil {
			return nil, nil, err
		}

		year1 := yearForMonth(month1, now)
		year2 := year1
		if month2 < month1 {
			year2++
		}

		from, err := day(year1, month1, matches[2], loc)
		if err != nil {
			return nil, nil, err
		}
		to, err := day(year2, month2, matches[4], loc)
		if err != nil {
			return nil, nil, err
		}
		return ordered(from, endOfDay(to))
	}

	if matches := wholeMonth.FindStringSubmatch(input); matches != nil {
		month, err := parseMonth(matches[1])
		if err != nil {
			return nil, nil, err
		}

		year := yearForMonth(month, now)
		from := time.Date(year, month, 1, 0, 0, 0, 0, loc)
		// day 0 of the next month is the last day of this one
		to := endOfDay(time.Date(year, month+1, 0, 0, 0, 0, 0, loc))
		return &from, &to, nil
	}

	if matches := isoRange.FindStringSubmatch(input); matches != nil {
		from, err := time.ParseInLocation("2006-01-02", matches[1], loc)
		if err != nil {
			return nil, nil, fmt.Errorf("invalid date: %s", matches[1])
		}
		to, err := time.ParseInLocation("2006-01-02", matches[2], loc)
		if err != nil {
			return nil, nil, fmt.Errorf("invalid date: %s", matches[2])
		}
		return ordered(from, endOfDay(to))
	}

	return nil, nil, fmt.Errorf("invalid date range format. Use 'Mar 1-15', 'March 1 - April 15', 'March' or '2026-03-01..2026-03-15'")
}

func parseMonth(name string) (time.Month, error) {
	month, ok := dates.EnglishMonths().Lookup(strings.TrimSpace(name))
	if !ok {
		return 0, fmt.Errorf("invalid month: %s", name)
	}
	return month, nil
}

// day validates a day of month and returns its midnight.
func day(year int, month time.Month, raw string, loc *time.Location) (time.Time, error) {
	n, err := strconv.Atoi(raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid day: %s", raw)
	}
	t, ok := dates.Candidate{Year: year, Month: month, Day: n}.Resolve(time.Date(year, 1, 1, 0, 0, 0, 0, loc))
	if !ok {
		return time.Time{}, fmt.Errorf("invalid day: %s %s", month, raw)
	}
	return t, nil
}

func endOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, 0, t.Location())
}

func ordered(from, to time.Time) (*time.Time, *time.Time, error) {
	if from.After(to) {
		return nil, nil, fmt.Errorf("start date must be before end date")
	}
	return &from, &to, nil
}

// yearForMonth returns now's year, or the next one when month has passed.
func yearForMonth(month time.Month, now time.Time) int {
	year := now.Year()
	if month < now.Month() {
		year++
	}
	return year
}
