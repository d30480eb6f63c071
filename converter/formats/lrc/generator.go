package lrc

import (
	"strings"

	"lyrics-convert-go/metadata"
	"lyrics-convert-go/model"
	"lyrics-convert-go/utils"
)

// Generate renders lines as plain LRC. Auxiliary tracks get their own
// lines at the same timestamp, mirroring how the parser reads them back.
func Generate(lines []model.Line, meta *metadata.Store) (string, error) {
	return generate(lines, meta, true)
}

// GenerateMainOnly renders only the main tracks. Container formats use
// it for sub-documents whose auxiliaries live in separate blocks.
func GenerateMainOnly(lines []model.Line, meta *metadata.Store) (string, error) {
	return generate(lines, meta, false)
}

func generate(lines []model.Line, meta *metadata.Store, includeAux bool) (string, error) {
	var sb strings.Builder

	if meta != nil {
		sb.WriteString(meta.GenerateLRCHeader())
	}

	for i := range lines {
		line := &lines[i]
		ts := utils.FormatLRCTime(line.StartMs)

		for _, at := range line.Tracks {
			if at.ContentType != model.ContentTypeMain {
				continue
			}
			writeTextLine(&sb, ts, at.Content.Text())
			if !includeAux {
				continue
			}
			for _, tr := range at.Translations {
				writeTextLine(&sb, ts, tr.Text())
			}
			for _, ro := range at.Romanizations {
				writeTextLine(&sb, ts, ro.Text())
			}
		}
	}

	return sb.String(), nil
}

func writeTextLine(sb *strings.Builder, ts, text string) {
	if strings.TrimSpace(text) == "" {
		return
	}
	sb.WriteString(ts)
	sb.WriteString(text)
	sb.WriteByte('\n')
}
