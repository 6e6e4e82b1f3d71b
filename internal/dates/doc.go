// Package dates finds calendar dates in free-form text.
//
// Each Parser recognizes one date notation (numeric DD.MM.YYYY, English day-month,
// English month-day, German day-month). The Extractor tries them in a fixed priority
// order and returns the matches of the first parser that finds anything, so the same
// real-world date is never counted twice by two looser patterns. Dates without a year
// are assumed to be in the current year; impossible dates such as 31.02. are dropped.
package dates
