package utils

import "testing"

func TestFormatTTMLTime(t *testing.T) {
	tests := []struct {
		ms       uint64
		expected string
	}{
		{3723456, "1:02:03.456"},
		{310100, "5:10.100"},
		{7123, "7.123"},
		{0, "0.000"},
		{59999, "59.999"},
		{60000, "1:00.000"},
	}

	for _, tt := range tests {
		if got := FormatTTMLTime(tt.ms); got != tt.expected {
			t.Errorf("FormatTTMLTime(%d): expected %q, got %q", tt.ms, tt.expected, got)
		}
	}
}

func TestParseTTMLTime(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected uint64
	}{
		{"seconds with unit", "5.1s", 5100},
		{"seconds only", "7.123", 7123},
		{"bare seconds", "12", 12000},
		{"minutes seconds", "5:10.100", 310100},
		{"hours minutes seconds", "1:02:03.456", 3723456},
		{"two-digit fraction is hundredths", "3.45", 3450},
		{"one-digit fraction is tenths", "3.4", 3400},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseTTMLTime(tt.input)
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if got != tt.expected {
				t.Errorf("Expected %d, got %d", tt.expected, got)
			}
		})
	}
}

func TestParseTTMLTime_Invalid(t *testing.T) {
	for _, input := range []string{"", "abc", "1:2:3:4", "5.", "5.1234"} {
		if _, err := ParseTTMLTime(input); err == nil {
			t.Errorf("Expected error for %q", input)
		}
	}
}

func TestParseTTMLTime_RoundTrip(t *testing.T) {
	for _, input := range []string{"0.000", "7.123", "5:10.100", "1:02:03.456"} {
		ms, err := ParseTTMLTime(input)
		if err != nil {
			t.Fatalf("Unexpected error for %q: %v", input, err)
		}
		if got := FormatTTMLTime(ms); got != input {
			t.Errorf("Round trip %q: got %q", input, got)
		}
	}
}

func TestFormatLRCTime(t *testing.T) {
	tests := []struct {
		ms       uint64
		expected string
	}{
		{0, "[00:00.00]"},
		{20000, "[00:20.00]"},
		{90500, "[01:30.50]"},
		{123, "[00:00.12]"},  // 12.3cs rounds to 12
		{125, "[00:00.13]"},  // half rounds up
	}

	for _, tt := range tests {
		if got := FormatLRCTime(tt.ms); got != tt.expected {
			t.Errorf("FormatLRCTime(%d): expected %q, got %q", tt.ms, tt.expected, got)
		}
	}
}

func TestFormatASSTime(t *testing.T) {
	tests := []struct {
		ms       uint64
		expected string
	}{
		{0, "0:00:00.00"},
		{200, "0:00:00.20"},
		{61230, "0:01:01.23"},
		{3600000, "1:00:00.00"},
	}

	for _, tt := range tests {
		if got := FormatASSTime(tt.ms); got != tt.expected {
			t.Errorf("FormatASSTime(%d): expected %q, got %q", tt.ms, tt.expected, got)
		}
	}
}

func TestFormatASSTime_Monotonic(t *testing.T) {
	prev := FormatASSTime(0)
	for ms := uint64(1); ms < 5000; ms += 7 {
		cur := FormatASSTime(ms)
		if cur < prev {
			t.Fatalf("FormatASSTime not monotonic at %dms: %q < %q", ms, cur, prev)
		}
		prev = cur
	}
}

func TestParseLRCTime(t *testing.T) {
	tests := []struct {
		input    string
		expected uint64
	}{
		{"[01:30.50]", 90500},
		{"[00:20.00]", 20000},
		{"01:30.500", 90500},
		{"[00:05:25]", 5250}, // colon fraction separator
	}

	for _, tt := range tests {
		got, err := ParseLRCTime(tt.input)
		if err != nil {
			t.Fatalf("Unexpected error for %q: %v", tt.input, err)
		}
		if got != tt.expected {
			t.Errorf("ParseLRCTime(%q): expected %d, got %d", tt.input, tt.expected, got)
		}
	}

	if _, err := ParseLRCTime("nope"); err == nil {
		t.Error("Expected an error for a malformed timestamp")
	}
}

func TestParseLRCTimestampParts(t *testing.T) {
	ms, err := ParseLRCTimestampParts("01", "30", "50")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if ms != 90500 {
		t.Errorf("Expected 90500, got %d", ms)
	}

	ms, err = ParseLRCTimestampParts("00", "01", "500")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if ms != 1500 {
		t.Errorf("Expected 1500, got %d", ms)
	}
}
