package converter

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lyrics-convert-go/model"
)

func TestConvertSingle_LRCToTTML(t *testing.T) {
	input := &model.ConversionInput{
		MainLyric: model.InputFile{
			Content: "[ti:Song]\n[00:20.00]Hello world\n[00:22.00]Next line\n",
			Format:  model.FormatLRC,
		},
		TargetFormat: model.FormatTTML,
	}

	output, err := ConvertSingle(input, nil)
	require.NoError(t, err)

	assert.Contains(t, output.OutputLyrics, `itunes:timing="Line"`)
	assert.Contains(t, output.OutputLyrics, "Hello world")
	assert.Contains(t, output.OutputLyrics, `<amll:meta key="musicName" value="Song"/>`)
}

func TestConvertSingle_TTMLToASS(t *testing.T) {
	ttmlDoc := `<tt xmlns="http://www.w3.org/ns/ttml" itunes:timing="Word"><body><div>` +
		`<p begin="0s" end="0.2s"><span begin="0s" end="0.123s">a</span><span begin="0.123s" end="0.2s">b</span></p>` +
		`</div></body></tt>`

	input := &model.ConversionInput{
		MainLyric:    model.InputFile{Content: ttmlDoc, Format: model.FormatTTML},
		TargetFormat: model.FormatASS,
	}

	output, err := ConvertSingle(input, nil)
	require.NoError(t, err)
	assert.Contains(t, output.OutputLyrics, `{\k12}a{\k8}b`)
}

func TestConvertSingle_AuxiliaryTranslationMerge(t *testing.T) {
	input := &model.ConversionInput{
		MainLyric: model.InputFile{
			Content: "[00:20.00]Hello world\n",
			Format:  model.FormatLRC,
		},
		Translations: []model.InputFile{{
			Content:  "[00:20.03]你好世界\n",
			Format:   model.FormatLRC,
			Language: "zh-Hans",
		}},
		TargetFormat: model.FormatLQE,
	}

	output, err := ConvertSingle(input, nil)
	require.NoError(t, err)
	assert.Contains(t, output.OutputLyrics, "[translation: format@lrc, language@zh-Hans]")
	assert.Contains(t, output.OutputLyrics, "你好世界")
}

func TestConvertSingle_RecognizeAgents(t *testing.T) {
	input := &model.ConversionInput{
		MainLyric: model.InputFile{
			Content: "[00:10.00]汪：摘一颗苹果\n[00:12.00]等你看我从门前过\n",
			Format:  model.FormatLRC,
		},
		TargetFormat: model.FormatLRC,
	}

	output, err := ConvertSingle(input, &model.ConversionOptions{RecognizeAgents: true})
	require.NoError(t, err)

	require.Len(t, output.SourceData.Lines, 2)
	assert.Equal(t, "v1", output.SourceData.Lines[0].Agent)
	assert.Equal(t, "摘一颗苹果", output.SourceData.Lines[0].MainText())
	assert.NotContains(t, output.OutputLyrics, "汪：")
}

func TestConvertSingle_MetadataOverrides(t *testing.T) {
	input := &model.ConversionInput{
		MainLyric: model.InputFile{
			Content: "[ti:Old Title]\n[00:10.00]Line\n",
			Format:  model.FormatLRC,
		},
		TargetFormat:          model.FormatLRC,
		UserMetadataOverrides: map[string][]string{"ti": {"New Title"}},
	}

	output, err := ConvertSingle(input, nil)
	require.NoError(t, err)
	assert.Contains(t, output.OutputLyrics, "[ti:New Title]")
	assert.NotContains(t, output.OutputLyrics, "Old Title")
}

func TestConvertSingle_NoLinesIsError(t *testing.T) {
	input := &model.ConversionInput{
		MainLyric:    model.InputFile{Content: "not lyrics at all", Format: model.FormatLRC},
		TargetFormat: model.FormatTTML,
	}

	_, err := ConvertSingle(input, nil)
	require.Error(t, err)

	var convErr *model.ConvertError
	require.ErrorAs(t, err, &convErr)
	assert.Equal(t, model.ErrInvalidLyricFormat, convErr.Kind)
}

func TestConvertSingle_RTLDetection(t *testing.T) {
	input := &model.ConversionInput{
		MainLyric: model.InputFile{
			Content: "[language:ar]\n[00:10.00]مرحبا\n",
			Format:  model.FormatLRC,
		},
		TargetFormat: model.FormatLRC,
	}

	output, err := ConvertSingle(input, nil)
	require.NoError(t, err)
	assert.True(t, output.IsRTL)
}

func TestConvertSingleBytes_DecodesBOM(t *testing.T) {
	raw := append([]byte{0xEF, 0xBB, 0xBF}, []byte("[00:10.00]Line\n")...)
	input := &model.ConversionInput{
		MainLyric:    model.InputFile{Format: model.FormatLRC},
		TargetFormat: model.FormatLRC,
	}

	output, err := ConvertSingleBytes(raw, input, nil)
	require.NoError(t, err)
	assert.True(t, strings.Contains(output.OutputLyrics, "[00:10.00]Line"))
}

func TestConvertSingle_WarningsPropagate(t *testing.T) {
	input := &model.ConversionInput{
		MainLyric: model.InputFile{
			Content: "[00:75.00]bad\n[00:20.00]good\n",
			Format:  model.FormatLRC,
		},
		TargetFormat: model.FormatLRC,
	}

	output, err := ConvertSingle(input, nil)
	require.NoError(t, err)
	assert.NotEmpty(t, output.Warnings)
}
