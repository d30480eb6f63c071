package amjson

import (
	"encoding/json"

	log "github.com/sirupsen/logrus"

	"lyrics-convert-go/converter/formats/ttml"
	"lyrics-convert-go/logcolors"
	"lyrics-convert-go/model"
)

type root struct {
	Data []dataItem `json:"data"`
}

type dataItem struct {
	ID         string     `json:"id"`
	Attributes attributes `json:"attributes"`
}

type attributes struct {
	TTML              string `json:"ttml"`
	TTMLLocalizations string `json:"ttmlLocalizations"`
}

// Parse parses the Apple Music JSON lyric payload: a data array whose
// first item wraps a TTML document. The item id is recorded as the
// AppleMusicId metadata entry.
func Parse(content string, options *model.TtmlParsingOptions) (*model.ParsedSourceData, error) {
	var r root
	if err := json.Unmarshal([]byte(content), &r); err != nil {
		return nil, model.NewJsonParse("failed to parse Apple Music JSON", err)
	}

	if len(r.Data) == 0 {
		return nil, model.NewInvalidJsonStructure("Apple Music JSON \"data\" array is empty or malformed")
	}

	item := r.Data[0]
	ttmlString := item.Attributes.TTML
	if ttmlString == "" {
		ttmlString = item.Attributes.TTMLLocalizations
	}
	if ttmlString == "" {
		return nil, model.NewInvalidJsonStructure("Apple Music JSON carries no TTML content")
	}

	parsed, err := ttml.Parse(ttmlString, options)
	if err != nil {
		return nil, err
	}

	if item.ID != "" {
		parsed.AddRawMetadata("AppleMusicId", item.ID)
	}
	parsed.SourceFormat = model.FormatAppleMusicJSON
	parsed.SourceText = content

	log.Debugf("%s Parsed embedded TTML for id %s (%d lines)", logcolors.LogJSONParser, item.ID, len(parsed.Lines))
	return parsed, nil
}
