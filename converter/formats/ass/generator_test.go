package ass

import (
	"strings"
	"testing"

	"lyrics-convert-go/metadata"
	"lyrics-convert-go/model"
)

func karaokeLine() model.Line {
	return model.Line{
		StartMs: 0,
		EndMs:   200,
		Tracks: []model.AnnotatedTrack{{
			ContentType: model.ContentTypeMain,
			Content: model.NewSyllableTrack([]model.Syllable{
				{Text: "a", StartMs: 0, EndMs: 123},
				{Text: "b", StartMs: 123, EndMs: 200},
			}),
		}},
	}
}

func TestGenerate_KaraokeRounding(t *testing.T) {
	output, err := Generate([]model.Line{karaokeLine()}, nil, nil, false, nil)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if !strings.Contains(output, `Dialogue: 0,0:00:00.00,0:00:00.20,Default,v1,0,0,0,,{\k12}a{\k8}b`) {
		t.Errorf("Unexpected karaoke dialogue, got:\n%s", output)
	}
}

func TestGenerate_HeaderSections(t *testing.T) {
	output, err := Generate([]model.Line{karaokeLine()}, nil, nil, false, nil)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	for _, want := range []string{
		"[Script Info]",
		"[V4+ Styles]",
		"Style: Default,",
		"Style: ts,",
		"Style: bg-roma,",
		"Style: meta,",
		"[Events]",
	} {
		if !strings.Contains(output, want) {
			t.Errorf("Expected header section %q", want)
		}
	}
}

func TestGenerate_MetadataComments(t *testing.T) {
	meta := metadata.NewStore()
	meta.Add("ti", "Song")

	agents := model.NewAgentStore()
	agents.Add(model.Agent{ID: "v1", Name: "Alice", Type: model.AgentTypePerson})

	output, err := Generate([]model.Line{karaokeLine()}, meta, &agents, false, nil)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if !strings.Contains(output, "Comment: 0,0:00:00.00,0:00:00.00,meta,,0,0,0,,title: Song") {
		t.Errorf("Expected metadata comment, got:\n%s", output)
	}
	if !strings.Contains(output, "Comment: 0,0:00:00.00,0:00:00.00,meta,,0,0,0,,v1: Alice") {
		t.Errorf("Expected agent comment, got:\n%s", output)
	}
}

func TestGenerate_ActorFields(t *testing.T) {
	line := karaokeLine()
	line.Agent = "v2"
	line.SongPart = "Chorus"
	line.Tracks = append(line.Tracks, model.AnnotatedTrack{
		ContentType: model.ContentTypeBackground,
		Content: model.NewSyllableTrack([]model.Syllable{
			{Text: "echo", StartMs: 50, EndMs: 150},
		}),
	})

	output, err := Generate([]model.Line{line}, nil, nil, false, nil)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if !strings.Contains(output, `v2 itunes:song-part="Chorus"`) {
		t.Errorf("Expected actor with song part, got:\n%s", output)
	}
	if !strings.Contains(output, ",Default,x-bg,") {
		t.Errorf("Expected background actor x-bg, got:\n%s", output)
	}
}

func TestGenerate_AuxiliaryStylesAndActors(t *testing.T) {
	line := karaokeLine()
	trans := model.NewLineTimedTrack("你好", 0, 200)
	trans.SetLanguage("zh-Hans")
	roma := model.NewLineTimedTrack("nihao", 0, 200)
	line.Tracks[0].Translations = append(line.Tracks[0].Translations, trans)
	line.Tracks[0].Romanizations = append(line.Tracks[0].Romanizations, roma)

	output, err := Generate([]model.Line{line}, nil, nil, true, nil)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if !strings.Contains(output, ",ts,x-lang:zh-Hans,0,0,0,,你好") {
		t.Errorf("Expected translation dialogue with language actor, got:\n%s", output)
	}
	if !strings.Contains(output, ",roma,,0,0,0,,nihao") {
		t.Errorf("Expected romanization dialogue, got:\n%s", output)
	}
}

func TestGenerate_SubCentisecondSyllableKeepsK1(t *testing.T) {
	line := model.Line{
		StartMs: 0,
		EndMs:   100,
		Tracks: []model.AnnotatedTrack{{
			ContentType: model.ContentTypeMain,
			Content: model.NewSyllableTrack([]model.Syllable{
				{Text: "x", StartMs: 0, EndMs: 3},
				{Text: "y", StartMs: 3, EndMs: 100},
			}),
		}},
	}

	output, err := Generate([]model.Line{line}, nil, nil, false, nil)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if !strings.Contains(output, `{\k1}x`) {
		t.Errorf("Expected a {\\k1} floor for the 3ms syllable, got:\n%s", output)
	}
}

func TestGenerate_LineTimedText(t *testing.T) {
	line := model.Line{
		StartMs: 1000,
		EndMs:   2000,
		Tracks: []model.AnnotatedTrack{{
			ContentType: model.ContentTypeMain,
			Content:     model.NewLineTimedTrack("Plain line", 1000, 2000),
		}},
	}

	output, err := Generate([]model.Line{line}, nil, nil, true, nil)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if !strings.Contains(output, ",Default,v1,0,0,0,,Plain line") {
		t.Errorf("Expected plain text dialogue, got:\n%s", output)
	}
	if strings.Contains(output, `{\k`) {
		t.Errorf("Line-timed output must not contain karaoke tags, got:\n%s", output)
	}
}
