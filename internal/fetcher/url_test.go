package fetcher

import (
	"errors"
	"testing"
)

func TestNormalizeURL(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"https://example.com/events", "https://example.com/events", false},
		{"http://example.com", "http://example.com", false},
		{"example.com/calendar", "http://example.com/calendar", false},
		{"  example.com  ", "http://example.com", false},
		{"ftp://example.com/file", "", true},
		{"javascript://alert(1)", "", true},
		{"http://", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := NormalizeURL(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("NormalizeURL(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrInvalidURL) {
				t.Errorf("NormalizeURL(%q) error = %v, want ErrInvalidURL", tt.in, err)
			}
			if got != tt.want {
				t.Errorf("NormalizeURL(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
