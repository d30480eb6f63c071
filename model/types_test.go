package model

import "testing"

func TestTrack_Text(t *testing.T) {
	track := NewSyllableTrack([]Syllable{
		{Text: "Hello", StartMs: 0, EndMs: 500, EndsWithSpace: true},
		{Text: "world", StartMs: 500, EndMs: 1000},
	})

	if got := track.Text(); got != "Hello world" {
		t.Errorf("Expected 'Hello world', got %q", got)
	}
}

func TestTrack_TextNoTrailingSpace(t *testing.T) {
	track := NewSyllableTrack([]Syllable{
		{Text: "end", StartMs: 0, EndMs: 500, EndsWithSpace: true},
	})

	if got := track.Text(); got != "end" {
		t.Errorf("Trailing space must not leak into Text(), got %q", got)
	}
}

func TestSyllable_DurationMs(t *testing.T) {
	s := Syllable{StartMs: 100, EndMs: 250}
	if s.DurationMs() != 150 {
		t.Errorf("Expected 150, got %d", s.DurationMs())
	}

	inverted := Syllable{StartMs: 250, EndMs: 100}
	if inverted.DurationMs() != 0 {
		t.Errorf("Inverted interval must be zero-length, got %d", inverted.DurationMs())
	}
}

func TestLine_TrackAccessors(t *testing.T) {
	line := Line{
		Tracks: []AnnotatedTrack{
			{ContentType: ContentTypeMain, Content: NewLineTimedTrack("main", 0, 1000)},
			{ContentType: ContentTypeBackground, Content: NewLineTimedTrack("bg", 0, 1000)},
		},
	}

	if line.MainTrack() == nil || line.MainTrack().Content.Text() != "main" {
		t.Error("MainTrack accessor broken")
	}
	if line.BackgroundTrack() == nil || line.BackgroundTrack().Content.Text() != "bg" {
		t.Error("BackgroundTrack accessor broken")
	}
	if line.MainText() != "main" {
		t.Errorf("Expected 'main', got %q", line.MainText())
	}
}

func TestParseLyricFormat(t *testing.T) {
	tests := []struct {
		input    string
		expected LyricFormat
	}{
		{"ttml", FormatTTML},
		{"LRC", FormatLRC},
		{"lys", FormatLYS},
		{"lqe", FormatLQE},
		{"ass", FormatASS},
		{"json", FormatAppleMusicJSON},
	}

	for _, tt := range tests {
		got, err := ParseLyricFormat(tt.input)
		if err != nil {
			t.Fatalf("Unexpected error for %q: %v", tt.input, err)
		}
		if got != tt.expected {
			t.Errorf("ParseLyricFormat(%q): expected %v, got %v", tt.input, tt.expected, got)
		}
	}

	if _, err := ParseLyricFormat("nope"); err == nil {
		t.Error("Expected an error for an unknown format")
	}
}

func TestAgentStore_NameToIDMap(t *testing.T) {
	store := NewAgentStore()
	store.Add(Agent{ID: "v1", Name: "Alice", Type: AgentTypePerson})
	store.Add(Agent{ID: "v1000", Type: AgentTypeGroup})

	m := store.NameToIDMap()
	if m["Alice"] != "v1" {
		t.Errorf("Expected Alice -> v1, got %v", m)
	}
	if len(m) != 1 {
		t.Errorf("Nameless agents must not appear, got %v", m)
	}
}
