package calendar

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/pfrederiksen/calendar-aggregator/internal/event"
)

const (
	prodID       = "-//Calendar Aggregator//calendar-aggregator//EN"
	calendarName = "Aggregated Events"
	uidDomain    = "calendar-aggregator"

	maxSummaryRunes = 80
	maxLineOctets   = 75
)

// Generate returns a VCALENDAR holding one all-day VEVENT per event, in the
// given order. An empty slice yields a calendar without events.
func Generate(events []event.Event) string {
	return generate(events, time.Now())
}

func generate(events []event.Event, now time.Time) string {
	var ics strings.Builder

	writeLine(&ics, "BEGIN:VCALENDAR")
	writeLine(&ics, "VERSION:2.0")
	writeLine(&ics, "PRODID:"+prodID)
	writeLine(&ics, "CALSCALE:GREGORIAN")
	writeLine(&ics, "METHOD:PUBLISH")
	writeLine(&ics, "X-WR-CALNAME:"+calendarName)

	stamp := formatICSTime(now)
	for _, evt := range events {
		writeEvent(&ics, evt, stamp)
	}

	writeLine(&ics, "END:VCALENDAR")
	return ics.String()
}

func writeEvent(ics *strings.Builder, evt event.Event, stamp string) {
	start := evt.Date
	end := start.AddDate(0, 0, 1)

	writeLine(ics, "BEGIN:VEVENT")
	writeLine(ics, fmt.Sprintf("UID:%s@%s", evt.ID(), uidDomain))
	writeLine(ics, "DTSTAMP:"+stamp)
	writeLine(ics, "DTSTART;VALUE=DATE:"+formatICSDate(start))
	writeLine(ics, "DTEND;VALUE=DATE:"+formatICSDate(end))
	writeLine(ics, "SUMMARY:"+escapeICS(Summary(evt.Text)))
	writeLine(ics, "DESCRIPTION:"+escapeICS(strings.TrimSpace(evt.Text)))
	writeLine(ics, "STATUS:CONFIRMED")
	writeLine(ics, "TRANSP:TRANSPARENT")
	writeLine(ics, "END:VEVENT")
}

// Summary returns the first non-blank line of text, cut to 80 runes.
func Summary(text string) string {
	for _, line := range strings.Split(text, "\n") {
		line = strings.Join(strings.Fields(line), " ")
		if line == "" {
			continue
		}
		if utf8.RuneCountInString(line) > maxSummaryRunes {
			r := []rune(line)
			line = strings.TrimSpace(string(r[:maxSummaryRunes-1])) + "…"
		}
		return line
	}
	return ""
}

// formatICSTime formats a time.Time as an iCalendar UTC datetime string
func formatICSTime(t time.Time) string {
	return t.UTC().Format("20060102T150405Z")
}

// formatICSDate formats the calendar day of t as an iCalendar DATE value
func formatICSDate(t time.Time) string {
	return t.Format("20060102")
}

// escapeICS escapes special characters for iCalendar format
func escapeICS(s string) string {
	// Replace special characters according to RFC 5545
	s = strings.ReplaceAll(s, "\\", "\\\\")
	s = strings.ReplaceAll(s, ",", "\\,")
	s = strings.ReplaceAll(s, ";", "\\;")
	s = strings.ReplaceAll(s, "\r\n", "\\n")
	s = strings.ReplaceAll(s, "\n", "\\n")
	s = strings.ReplaceAll(s, "\r", "")
	return s
}

// writeLine writes a content line terminated by CRLF, folding it into
// continuation lines of at most 75 octets. Folds never split a UTF-8 sequence.
func writeLine(b *strings.Builder, line string) {
	limit := maxLineOctets
	for len(line) > limit {
		cut := limit
		for cut > 0 && !utf8.RuneStart(line[cut]) {
			cut--
		}
		b.WriteString(line[:cut])
		b.WriteString("\r\n ")
		line = line[cut:]
		// the leading space counts towards the next line
		limit = maxLineOctets - 1
	}
	b.WriteString(line)
	b.WriteString("\r\n")
}
