package dates

import "time"

// Extractor tries a fixed list of parsers in priority order.
type Extractor struct {
	parsers []*Parser
	now     func() time.Time
}

// NewExtractor returns an Extractor with the default parser order:
// DD.MM.YYYY, English day-month, English month-day, German day-month.
func NewExtractor() *Extractor {
	return &Extractor{
		parsers: DefaultParsers(),
		now:     time.Now,
	}
}

// DefaultParsers returns the parsers used by NewExtractor, in priority order.
func DefaultParsers() []*Parser {
	return []*Parser{
		NewDDMMYYYY(),
		NewDayMonth("day-month-en", englishMonths),
		NewMonthDay("month-day-en", englishMonths),
		NewDayMonth("day-month-de", germanMonths),
	}
}

// WithClock returns a copy of e that infers missing years from now() instead of
// the wall clock.
func (e *Extractor) WithClock(now func() time.Time) *Extractor {
	return &Extractor{parsers: e.parsers, now: now}
}

// ExtractDates returns the dates found by the first parser with at least one
// match. Later parsers are not consulted once one has matched.
func (e *Extractor) ExtractDates(text string) []time.Time {
	now := e.now()
	for _, p := range e.parsers {
		if found := p.extractDates(text, now); len(found) > 0 {
			return found
		}
	}
	return nil
}

// Count returns how many dates ExtractDates would find in text.
func (e *Extractor) Count(text string) int {
	return len(e.ExtractDates(text))
}

var defaultExtractor = NewExtractor()

// Extract runs the default Extractor over text.
func Extract(text string) []time.Time {
	return defaultExtractor.ExtractDates(text)
}
