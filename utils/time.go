package utils

import (
	"fmt"
	"strconv"
	"strings"

	"lyrics-convert-go/model"
)

// FormatTTMLTime formats milliseconds as a TTML time string.
// 123456ms -> "2:03.456"; hours and minutes are omitted when zero.
func FormatTTMLTime(ms uint64) string {
	hours := ms / 3_600_000
	minutes := (ms % 3_600_000) / 60_000
	seconds := (ms % 60_000) / 1000
	millis := ms % 1000

	if hours > 0 {
		return fmt.Sprintf("%d:%02d:%02d.%03d", hours, minutes, seconds, millis)
	}
	if minutes > 0 {
		return fmt.Sprintf("%d:%02d.%03d", minutes, seconds, millis)
	}
	return fmt.Sprintf("%d.%03d", seconds, millis)
}

// FormatLRCTime formats milliseconds as an LRC timestamp "[mm:ss.xx]"
// with two-digit centiseconds, rounded half-up.
func FormatLRCTime(ms uint64) string {
	totalCs := (ms + 5) / 10
	cs := totalCs % 100
	totalSeconds := totalCs / 100
	seconds := totalSeconds % 60
	minutes := totalSeconds / 60
	return fmt.Sprintf("[%02d:%02d.%02d]", minutes, seconds, cs)
}

// FormatASSTime formats milliseconds as an ASS timestamp "h:mm:ss.cc",
// rounded half-up to centiseconds.
func FormatASSTime(ms uint64) string {
	totalCs := (ms + 5) / 10
	cs := totalCs % 100
	totalSeconds := totalCs / 100
	seconds := totalSeconds % 60
	totalMinutes := totalSeconds / 60
	minutes := totalMinutes % 60
	hours := totalMinutes / 60
	return fmt.Sprintf("%d:%02d:%02d.%02d", hours, minutes, seconds, cs)
}

// RoundDurationToCs rounds a millisecond duration half-up to centiseconds.
func RoundDurationToCs(durationMs uint64) uint64 {
	return (durationMs + 5) / 10
}

// ParseTTMLTime parses a TTML time string into milliseconds.
// Accepted forms: "s.fff", "m:ss.fff", "h:mm:ss.fff". The fractional
// part may be 1-3 digits; two digits mean hundredths.
func ParseTTMLTime(input string) (uint64, error) {
	s := strings.TrimSpace(input)
	if s == "" {
		return 0, model.NewInvalidTime(input)
	}
	// Optional trailing "s" unit on the seconds-only form, e.g. "5.1s".
	s = strings.TrimSuffix(s, "s")

	parts := strings.Split(s, ":")
	if len(parts) > 3 {
		return 0, model.NewInvalidTime(input)
	}

	var hours, minutes uint64
	var err error
	secondsPart := parts[len(parts)-1]
	switch len(parts) {
	case 3:
		hours, err = parseUintComponent(parts[0], input)
		if err != nil {
			return 0, err
		}
		fallthrough
	case 2:
		minutes, err = parseUintComponent(parts[len(parts)-2], input)
		if err != nil {
			return 0, err
		}
	}

	secStr, fracStr, hasFrac := strings.Cut(secondsPart, ".")
	seconds, err := parseUintComponent(secStr, input)
	if err != nil {
		return 0, err
	}

	var millis uint64
	if hasFrac {
		millis, err = parseFraction(fracStr, input)
		if err != nil {
			return 0, err
		}
	}

	return (hours*3600+minutes*60+seconds)*1000 + millis, nil
}

// ParseLRCTime parses a full LRC timestamp such as "[01:30.50]" or
// "01:30.500" into milliseconds.
func ParseLRCTime(input string) (uint64, error) {
	s := strings.TrimSpace(input)
	s = strings.TrimPrefix(s, "[")
	s = strings.TrimSuffix(s, "]")

	minutes, rest, ok := strings.Cut(s, ":")
	if !ok {
		return 0, model.NewInvalidTime(input)
	}
	seconds, fraction, ok := cutFraction(rest)
	if !ok {
		return 0, model.NewInvalidTime(input)
	}
	return ParseLRCTimestampParts(minutes, seconds, fraction)
}

func cutFraction(s string) (string, string, bool) {
	if sec, frac, ok := strings.Cut(s, "."); ok {
		return sec, frac, true
	}
	if sec, frac, ok := strings.Cut(s, ":"); ok {
		return sec, frac, true
	}
	return "", "", false
}

// ParseLRCTimestampParts converts the captured pieces of an LRC
// timestamp into milliseconds. The fraction may be 2 (centiseconds) or
// 3 (milliseconds) digits.
func ParseLRCTimestampParts(minutes, seconds, fraction string) (uint64, error) {
	m, err := strconv.ParseUint(minutes, 10, 64)
	if err != nil {
		return 0, model.NewConvertError(model.ErrInvalidTime, minutes, err)
	}
	s, err := strconv.ParseUint(seconds, 10, 64)
	if err != nil {
		return 0, model.NewConvertError(model.ErrInvalidTime, seconds, err)
	}
	ms, err := parseFraction(fraction, fraction)
	if err != nil {
		return 0, err
	}
	return (m*60+s)*1000 + ms, nil
}

func parseUintComponent(s, original string) (uint64, error) {
	v, err := strconv.ParseUint(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0, model.NewInvalidTime(original)
	}
	return v, nil
}

func parseFraction(frac, original string) (uint64, error) {
	if frac == "" || len(frac) > 3 {
		return 0, model.NewInvalidTime(original)
	}
	v, err := strconv.ParseUint(frac, 10, 64)
	if err != nil {
		return 0, model.NewInvalidTime(original)
	}
	switch len(frac) {
	case 1:
		return v * 100, nil
	case 2:
		return v * 10, nil
	default:
		return v, nil
	}
}
