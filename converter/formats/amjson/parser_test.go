package amjson

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lyrics-convert-go/model"
)

const embeddedTTML = `<tt xmlns=\"http://www.w3.org/ns/ttml\" itunes:timing=\"Word\"><body><div><p begin=\"5s\" end=\"10s\"><span begin=\"5.1s\" end=\"5.5s\">Hello</span></p></div></body></tt>`

func TestParse_Basic(t *testing.T) {
	content := `{"data":[{"id":"1207257061","attributes":{"ttml":"` + embeddedTTML + `"}}]}`

	parsed, err := Parse(content, nil)
	require.NoError(t, err)

	require.Len(t, parsed.Lines, 1)
	assert.Equal(t, "Hello", parsed.Lines[0].MainText())
	assert.Equal(t, model.FormatAppleMusicJSON, parsed.SourceFormat)
	assert.Equal(t, []string{"1207257061"}, parsed.RawMetadata["AppleMusicId"])
}

func TestParse_FallsBackToLocalizations(t *testing.T) {
	content := `{"data":[{"id":"42","attributes":{"ttmlLocalizations":"` + embeddedTTML + `"}}]}`

	parsed, err := Parse(content, nil)
	require.NoError(t, err)
	require.Len(t, parsed.Lines, 1)
}

func TestParse_EmptyData(t *testing.T) {
	_, err := Parse(`{"data":[]}`, nil)
	require.Error(t, err)

	var convErr *model.ConvertError
	require.ErrorAs(t, err, &convErr)
	assert.Equal(t, model.ErrInvalidJsonStructure, convErr.Kind)
}

func TestParse_MalformedJSON(t *testing.T) {
	_, err := Parse(`{not json`, nil)
	require.Error(t, err)

	var convErr *model.ConvertError
	require.ErrorAs(t, err, &convErr)
	assert.Equal(t, model.ErrJsonParse, convErr.Kind)
}
