package ui

import (
	"testing"
	"time"
)

func TestHumanizeDuration(t *testing.T) {
	tests := []struct {
		in   time.Duration
		want string
	}{
		{500 * time.Millisecond, "now"},
		{42 * time.Second, "42s"},
		{3 * time.Minute, "3m"},
		{5 * time.Hour, "5h"},
	}
	for _, tt := range tests {
		if got := humanizeDuration(tt.in); got != tt.want {
			t.Fatalf("humanizeDuration(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestTruncateMiddle(t *testing.T) {
	tests := []struct {
		in    string
		limit int
		want  string
	}{
		{"http://localhost:8000", 40, "http://localhost:8000"},
		{"abcdefghij", 5, "ab…ij"},
		{"abcdefghij", 3, "abc"},
		{"  padded  ", 0, "padded"},
	}
	for _, tt := range tests {
		if got := truncateMiddle(tt.in, tt.limit); got != tt.want {
			t.Fatalf("truncateMiddle(%q, %d) = %q, want %q", tt.in, tt.limit, got, tt.want)
		}
	}
}

func TestTruncateEnd(t *testing.T) {
	tests := []struct {
		in    string
		limit int
		want  string
	}{
		{"Welcome (Engineering)", 40, "Welcome (Engineering)"},
		{"Welcome (Engineering)", 8, "Welcome…"},
		{"Welcome", 1, "W"},
	}
	for _, tt := range tests {
		if got := truncateEnd(tt.in, tt.limit); got != tt.want {
			t.Fatalf("truncateEnd(%q, %d) = %q, want %q", tt.in, tt.limit, got, tt.want)
		}
	}
}
