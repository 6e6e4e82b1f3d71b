package event

import (
	"encoding/json"
	"strings"
	"testing"
	"time"
)

func TestID(t *testing.T) {
	date := time.Date(2023, time.December, 25, 0, 0, 0, 0, time.Local)

	id1 := New(date, "Christmas Party").ID()
	id2 := New(date, "Christmas Party").ID()
	if id1 != id2 {
		t.Errorf("ID should be deterministic, got %s vs %s", id1, id2)
	}
	if len(id1) != 40 { // SHA1 produces 40 hex characters
		t.Errorf("expected ID length of 40, got %d", len(id1))
	}

	if other := New(date, "New Year's Eve").ID(); other == id1 {
		t.Error("different text should produce a different ID")
	}
	if other := New(date.AddDate(0, 0, 1), "Christmas Party").ID(); other == id1 {
		t.Error("different date should produce a different ID")
	}
}

func TestNewTruncatesToMidnight(t *testing.T) {
	evt := New(time.Date(2024, time.March, 3, 18, 45, 12, 0, time.Local), "Concert")
	if evt.Date.Hour() != 0 || evt.Date.Minute() != 0 || evt.Date.Second() != 0 {
		t.Errorf("Date = %v, want midnight", evt.Date)
	}
	if evt.Date.Day() != 3 {
		t.Errorf("Date.Day() = %d, want 3", evt.Date.Day())
	}
}

func TestJSON(t *testing.T) {
	evt := New(time.Date(2023, time.December, 25, 0, 0, 0, 0, time.Local), "25.12.2023: Christmas Party")

	data, err := json.Marshal(evt)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	if !strings.Contains(string(data), `"date":"2023-12-25T00:00:00"`) {
		t.Errorf("Marshal() = %s, want zone-less date", data)
	}
	if !strings.Contains(string(data), `"text":"25.12.2023: Christmas Party"`) {
		t.Errorf("Marshal() = %s, want verbatim text", data)
	}

	var decoded Event
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if !decoded.Date.Equal(evt.Date) || decoded.Text != evt.Text {
		t.Errorf("Unmarshal() = %+v, want %+v", decoded, evt)
	}

	if err := json.Unmarshal([]byte(`{"date":"yesterday","text":"x"}`), &decoded); err == nil {
		t.Error("Unmarshal() with bad date should fail")
	}
}
