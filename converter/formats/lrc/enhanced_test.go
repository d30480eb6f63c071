package lrc

import (
	"strings"
	"testing"
)

func TestParseEnhanced_Syllables(t *testing.T) {
	content := "[00:10.00]<00:10.00>Hel<00:10.50>lo <00:11.00>world<00:12.00>\n"

	parsed, err := ParseEnhanced(content)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if len(parsed.Lines) != 1 {
		t.Fatalf("Expected 1 line, got %d", len(parsed.Lines))
	}
	if parsed.IsLineTimed {
		t.Error("Enhanced LRC must be word timed")
	}

	syls := parsed.Lines[0].MainTrack().Content.Syllables()
	if len(syls) != 3 {
		t.Fatalf("Expected 3 syllables, got %d", len(syls))
	}

	if syls[0].Text != "Hel" || syls[0].StartMs != 10000 || syls[0].EndMs != 10500 {
		t.Errorf("Unexpected first syllable: %+v", syls[0])
	}
	if syls[1].Text != "lo" || !syls[1].EndsWithSpace {
		t.Errorf("Expected 'lo' with trailing space, got %+v", syls[1])
	}
	if syls[2].Text != "world" || syls[2].EndMs != 12000 {
		t.Errorf("Unexpected last syllable: %+v", syls[2])
	}
}

func TestParseEnhanced_MissingTrailingStamp(t *testing.T) {
	content := "[00:10.00]<00:10.00>one\n[00:12.00]<00:12.00>two<00:13.00>\n"

	parsed, err := ParseEnhanced(content)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if len(parsed.Lines) != 2 {
		t.Fatalf("Expected 2 lines, got %d", len(parsed.Lines))
	}
	// The open end of line one closes at the start of line two.
	if parsed.Lines[0].EndMs != 12000 {
		t.Errorf("Expected open syllable to end at 12000, got %d", parsed.Lines[0].EndMs)
	}
}

func TestRoundTrip_EnhancedLRC(t *testing.T) {
	content := "[00:10.00]<00:10.00>Hel<00:10.50>lo <00:11.00>world<00:12.00>\n"

	parsed, err := ParseEnhanced(content)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	generated, err := GenerateEnhanced(parsed.Lines, nil)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	reparsed, err := ParseEnhanced(generated)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	orig := parsed.Lines[0].MainTrack().Content.Syllables()
	round := reparsed.Lines[0].MainTrack().Content.Syllables()
	if len(orig) != len(round) {
		t.Fatalf("Syllable count changed: %d vs %d", len(orig), len(round))
	}
	for i := range orig {
		if orig[i] != round[i] {
			t.Errorf("Syllable %d changed: %+v vs %+v", i, orig[i], round[i])
		}
	}
}

func TestGenerateEnhanced_Layout(t *testing.T) {
	content := "[00:10.00]<00:10.00>word<00:11.00>\n"
	parsed, err := ParseEnhanced(content)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	generated, err := GenerateEnhanced(parsed.Lines, nil)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if !strings.HasPrefix(generated, "[00:10.00]<00:10.00>word<00:11.00>") {
		t.Errorf("Unexpected layout:\n%s", generated)
	}
}
