package lqe

import (
	"fmt"
	"strings"

	log "github.com/sirupsen/logrus"

	"lyrics-convert-go/converter/formats/lrc"
	"lyrics-convert-go/converter/formats/lys"
	"lyrics-convert-go/logcolors"
	"lyrics-convert-go/metadata"
	"lyrics-convert-go/model"
)

type auxTrackType int

const (
	auxTranslation auxTrackType = iota
	auxRomanization
)

// Generate renders lines as a Lyricify Quick Export container: a shared
// LRC header, a main lyrics block, and optional translation and
// pronunciation blocks, each holding a complete sub-format document.
func Generate(lines []model.Line, meta *metadata.Store, options *model.LqeGenerationOptions) (string, error) {
	if options == nil {
		options = &model.LqeGenerationOptions{MainLyricFormat: model.FormatLYS, AuxiliaryFormat: model.FormatLRC}
	}

	var sb strings.Builder

	sb.WriteString("[Lyricify Quick Export]\n")
	sb.WriteString("[version:1.0]\n")

	if meta != nil {
		if header := meta.GenerateLRCHeader(); header != "" {
			sb.WriteString(header)
			sb.WriteByte('\n')
		}
	}

	if err := writeMainBlock(&sb, lines, meta, options); err != nil {
		return "", err
	}
	if err := writeAuxiliaryBlock(&sb, lines, meta, options, auxTranslation); err != nil {
		return "", err
	}
	if err := writeAuxiliaryBlock(&sb, lines, meta, options, auxRomanization); err != nil {
		return "", err
	}

	log.Debugf("%s Generated container with %d lines", logcolors.LogLQEGen, len(lines))
	return strings.TrimSpace(sb.String()), nil
}

func writeMainBlock(sb *strings.Builder, lines []model.Line, meta *metadata.Store, options *model.LqeGenerationOptions) error {
	lang := "und"
	if meta != nil {
		if l, ok := meta.GetSingle(metadata.KeyLanguage); ok && l != "" {
			lang = l
		}
	}

	fmt.Fprintf(sb, "[lyrics: format@%s, language@%s]\n", options.MainLyricFormat.ExtensionStr(), lang)

	content, err := generateSubFormat(lines, nil, options.MainLyricFormat)
	if err != nil {
		return err
	}
	sb.WriteString(content)
	sb.WriteString("\n\n")
	return nil
}

// extractAndPromoteLines lifts the auxiliary tracks of each line into
// main tracks of synthesized lines so a sub-generator can render them.
func extractAndPromoteLines(lines []model.Line, trackType auxTrackType) []model.Line {
	var out []model.Line
	for i := range lines {
		line := &lines[i]
		var auxTracks []model.Track
		for _, at := range line.Tracks {
			if trackType == auxTranslation {
				auxTracks = append(auxTracks, at.Translations...)
			} else {
				auxTracks = append(auxTracks, at.Romanizations...)
			}
		}
		if len(auxTracks) == 0 {
			continue
		}

		promoted := model.Line{
			StartMs:  line.StartMs,
			EndMs:    line.EndMs,
			Agent:    line.Agent,
			SongPart: line.SongPart,
		}
		for _, track := range auxTracks {
			promoted.Tracks = append(promoted.Tracks, model.AnnotatedTrack{
				ContentType: model.ContentTypeMain,
				Content:     track,
			})
		}
		out = append(out, promoted)
	}
	return out
}

func writeAuxiliaryBlock(sb *strings.Builder, lines []model.Line, meta *metadata.Store, options *model.LqeGenerationOptions, trackType auxTrackType) error {
	auxLines := extractAndPromoteLines(lines, trackType)
	if len(auxLines) == 0 {
		return nil
	}

	blockName, lang := "translation", "und"
	if trackType == auxRomanization {
		blockName, lang = "pronunciation", "romaji"
	}
	for i := range auxLines {
		if l := auxLines[i].Tracks[0].Content.Language(); l != "" {
			lang = l
			break
		}
	}

	fmt.Fprintf(sb, "[%s: format@%s, language@%s]\n", blockName, options.AuxiliaryFormat.ExtensionStr(), lang)

	content, err := generateSubFormat(auxLines, nil, options.AuxiliaryFormat)
	if err != nil {
		return err
	}
	sb.WriteString(content)
	sb.WriteString("\n\n")
	return nil
}

func generateSubFormat(lines []model.Line, meta *metadata.Store, format model.LyricFormat) (string, error) {
	switch format {
	case model.FormatLRC:
		return lrc.GenerateMainOnly(lines, meta)
	case model.FormatEnhancedLRC:
		return lrc.GenerateEnhanced(lines, meta)
	case model.FormatLYS:
		return lys.Generate(lines, meta)
	default:
		return "", model.NewInternal(fmt.Sprintf("LQE cannot format an inner block as %s", format))
	}
}
