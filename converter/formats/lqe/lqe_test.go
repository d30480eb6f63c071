package lqe

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lyrics-convert-go/metadata"
	"lyrics-convert-go/model"
)

func bilingualLines() []model.Line {
	trans := model.NewLineTimedTrack("你好世界", 10000, 12000)
	trans.SetLanguage("zh-Hans")
	return []model.Line{{
		StartMs: 10000,
		EndMs:   12000,
		Tracks: []model.AnnotatedTrack{{
			ContentType:  model.ContentTypeMain,
			Content:      model.NewLineTimedTrack("Hello world", 10000, 12000),
			Translations: []model.Track{trans},
		}},
	}}
}

func TestGenerate_ContainerLayout(t *testing.T) {
	meta := metadata.NewStore()
	meta.Add("ti", "Song")

	output, err := Generate(bilingualLines(), meta, &model.LqeGenerationOptions{
		MainLyricFormat: model.FormatLRC,
		AuxiliaryFormat: model.FormatLRC,
	})
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(output, "[Lyricify Quick Export]\n[version:1.0]"))
	assert.Contains(t, output, "[ti:Song]")
	assert.Contains(t, output, "[lyrics: format@lrc, language@und]")
	assert.Contains(t, output, "[translation: format@lrc, language@zh-Hans]")
	assert.Contains(t, output, "[00:10.00]Hello world")
	assert.Contains(t, output, "[00:10.00]你好世界")
	assert.NotContains(t, output, "[pronunciation:", "no romanizations, no pronunciation block")
}

func TestGenerate_PronunciationBlockDefaults(t *testing.T) {
	roma := model.NewLineTimedTrack("konnichiwa", 10000, 12000)
	lines := bilingualLines()
	lines[0].Tracks[0].Romanizations = append(lines[0].Tracks[0].Romanizations, roma)

	output, err := Generate(lines, nil, &model.LqeGenerationOptions{
		MainLyricFormat: model.FormatLRC,
		AuxiliaryFormat: model.FormatLRC,
	})
	require.NoError(t, err)

	assert.Contains(t, output, "[pronunciation: format@lrc, language@romaji]")
}

func TestRoundTrip_LQE(t *testing.T) {
	output, err := Generate(bilingualLines(), nil, &model.LqeGenerationOptions{
		MainLyricFormat: model.FormatLRC,
		AuxiliaryFormat: model.FormatLRC,
	})
	require.NoError(t, err)

	parsed, err := Parse(output, nil)
	require.NoError(t, err)

	require.Len(t, parsed.Lines, 1)
	line := parsed.Lines[0]
	assert.Equal(t, uint64(10000), line.StartMs)
	assert.Equal(t, "Hello world", line.MainText())

	mt := line.MainTrack()
	require.Len(t, mt.Translations, 1, "the translation block must merge back onto the main line")
	assert.Equal(t, "你好世界", mt.Translations[0].Text())
	assert.Equal(t, "zh-Hans", mt.Translations[0].Language())
	assert.Equal(t, model.FormatLQE, parsed.SourceFormat)
}

func TestParse_MissingLyricsBlock(t *testing.T) {
	_, err := Parse("[Lyricify Quick Export]\n[version:1.0]\n", nil)
	require.Error(t, err)

	var convErr *model.ConvertError
	require.ErrorAs(t, err, &convErr)
	assert.Equal(t, model.ErrInvalidLyricFormat, convErr.Kind)
}

func TestGenerate_LysMainBlock(t *testing.T) {
	lines := []model.Line{{
		StartMs: 0,
		EndMs:   1000,
		Tracks: []model.AnnotatedTrack{{
			ContentType: model.ContentTypeMain,
			Content: model.NewSyllableTrack([]model.Syllable{
				{Text: "Hel", StartMs: 0, EndMs: 500},
				{Text: "lo", StartMs: 500, EndMs: 1000},
			}),
		}},
	}}

	output, err := Generate(lines, nil, &model.LqeGenerationOptions{
		MainLyricFormat: model.FormatLYS,
		AuxiliaryFormat: model.FormatLRC,
	})
	require.NoError(t, err)

	assert.Contains(t, output, "[lyrics: format@lys, language@und]")
	assert.Contains(t, output, "[0]Hel(0,500)lo(500,500)")
}
