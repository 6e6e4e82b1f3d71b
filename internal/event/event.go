package event

import (
	"crypto/sha1"
	"encoding/json"
	"fmt"
	"time"
)

// dateLayout is the wire format of Event.Date: a date-time without zone,
// interpreted in the reader's local time.
const dateLayout = "2006-01-02T15:04:05"

// Event is a date found on a web page together with the text around it.
type Event struct {
	Date time.Time `json:"date"`
	Text string    `json:"text"`
}

// New creates an Event, truncating date to midnight in its own location.
func New(date time.Time, text string) Event {
	return Event{
		Date: midnight(date),
		Text: text,
	}
}

// ID returns a deterministic identifier derived from the date and text.
func (e Event) ID() string {
	h := sha1.New()
	h.Write([]byte(e.Date.Format("2006-01-02") + "|" + e.Text))
	return fmt.Sprintf("%x", h.Sum(nil))
}

type wireEvent struct {
	Date string `json:"date"`
	Text string `json:"text"`
}

// MarshalJSON encodes the date without a zone offset.
func (e Event) MarshalJSON() ([]byte, error) {
	return json.Marshal(wireEvent{
		Date: e.Date.Format(dateLayout),
		Text: e.Text,
	})
}

// UnmarshalJSON decodes the format written by MarshalJSON in local time.
func (e *Event) UnmarshalJSON(data []byte) error {
	var w wireEvent
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	d, err := time.ParseInLocation(dateLayout, w.Date, time.Local)
	if err != nil {
		return fmt.Errorf("parsing event date: %w", err)
	}
	e.Date = d
	e.Text = w.Text
	return nil
}

func midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
