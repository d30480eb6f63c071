package lrc

import (
	"fmt"
	"regexp"
	"strings"

	log "github.com/sirupsen/logrus"

	"lyrics-convert-go/config"
	"lyrics-convert-go/logcolors"
	"lyrics-convert-go/metadata"
	"lyrics-convert-go/model"
	"lyrics-convert-go/utils"
)

var (
	// Matches the line timestamp prefix of an enhanced LRC line
	enhancedLineRegex = regexp.MustCompile(`^\[(\d{2,}):(\d{2})[.:](\d{2,3})\](.*)$`)

	// Matches an inline per-syllable timestamp <mm:ss.xx>
	inlineTimestampRegex = regexp.MustCompile(`<(\d{2,}):(\d{2})[.:](\d{2,3})>`)
)

// ParseEnhanced parses enhanced (word-timed) LRC: a line timestamp
// followed by <ts>-interleaved syllables. A trailing <ts> after the
// last syllable supplies its end time; when absent, the next syllable
// or the next line supplies it.
func ParseEnhanced(content string) (*model.ParsedSourceData, error) {
	raw := make(map[string][]string)
	var warnings []string

	type pendingLine struct {
		startMs   uint64
		syllables []model.Syllable
		openEnd   bool // last syllable has no explicit end time
	}
	var pending []pendingLine

	for lineNum, rawLine := range strings.Split(content, "\n") {
		line := strings.TrimSpace(rawLine)
		if line == "" || ParseMetadataTag(line, raw) {
			continue
		}

		caps := enhancedLineRegex.FindStringSubmatch(line)
		if caps == nil {
			continue
		}
		lineStart, err := utils.ParseLRCTimestampParts(caps[1], caps[2], caps[3])
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("invalid timestamp (line %d): %v", lineNum+1, err))
			continue
		}

		body := caps[4]
		marks := inlineTimestampRegex.FindAllStringSubmatchIndex(body, -1)

		var syllables []model.Syllable
		openEnd := false
		if len(marks) == 0 {
			// No inline stamps: degrade to one line-timed syllable.
			text := utils.NormalizeTextWhitespace(body)
			if text != "" {
				syllables = append(syllables, model.Syllable{Text: text, StartMs: lineStart})
				openEnd = true
			}
		} else {
			for mi, mark := range marks {
				startMs, err := utils.ParseLRCTimestampParts(
					body[mark[2]:mark[3]], body[mark[4]:mark[5]], body[mark[6]:mark[7]])
				if err != nil {
					warnings = append(warnings, fmt.Sprintf("invalid inline timestamp (line %d): %v", lineNum+1, err))
					continue
				}

				textEnd := len(body)
				if mi+1 < len(marks) {
					textEnd = marks[mi+1][0]
				}
				segment := body[mark[1]:textEnd]
				text := strings.TrimSpace(segment)
				if text == "" {
					// A bare trailing stamp closes the previous syllable.
					if len(syllables) > 0 && syllables[len(syllables)-1].EndMs == 0 {
						syllables[len(syllables)-1].EndMs = startMs
					}
					continue
				}

				if len(syllables) > 0 {
					prev := &syllables[len(syllables)-1]
					if prev.EndMs == 0 {
						prev.EndMs = startMs
					}
					if strings.HasPrefix(segment, " ") || strings.HasSuffix(body[marks[mi-1][1]:marks[mi][0]], " ") {
						prev.EndsWithSpace = true
					}
				}
				syl := model.Syllable{Text: text, StartMs: startMs}
				if strings.HasSuffix(segment, " ") {
					syl.EndsWithSpace = true
				}
				syllables = append(syllables, syl)
			}
			if len(syllables) > 0 && syllables[len(syllables)-1].EndMs == 0 {
				openEnd = true
			}
		}

		if len(syllables) == 0 {
			continue
		}
		pending = append(pending, pendingLine{startMs: lineStart, syllables: syllables, openEnd: openEnd})
	}

	lastLineDuration := config.Get().Configuration.LrcLastLineDurationMs
	if lastLineDuration == 0 {
		lastLineDuration = 10000
	}

	lines := make([]model.Line, 0, len(pending))
	for i, pl := range pending {
		syls := pl.syllables
		if pl.openEnd {
			end := syls[len(syls)-1].StartMs + lastLineDuration
			if i+1 < len(pending) {
				end = pending[i+1].startMs
			}
			if end < syls[len(syls)-1].StartMs {
				end = syls[len(syls)-1].StartMs
			}
			syls[len(syls)-1].EndMs = end
		}
		lines = append(lines, model.Line{
			StartMs: syls[0].StartMs,
			EndMs:   syls[len(syls)-1].EndMs,
			Tracks: []model.AnnotatedTrack{{
				ContentType: model.ContentTypeMain,
				Content:     model.NewSyllableTrack(syls),
			}},
		})
	}

	log.Debugf("%s Parsed %d enhanced lines (%d warnings)", logcolors.LogLRCParser, len(lines), len(warnings))

	return &model.ParsedSourceData{
		Lines:        lines,
		RawMetadata:  raw,
		SourceFormat: model.FormatEnhancedLRC,
		IsLineTimed:  false,
		Warnings:     warnings,
		SourceText:   content,
	}, nil
}

// GenerateEnhanced renders lines as enhanced LRC with per-syllable
// inline timestamps and a trailing end stamp.
func GenerateEnhanced(lines []model.Line, meta *metadata.Store) (string, error) {
	var sb strings.Builder

	if meta != nil {
		sb.WriteString(meta.GenerateLRCHeader())
	}

	for i := range lines {
		line := &lines[i]
		mt := line.MainTrack()
		if mt == nil {
			continue
		}
		syls := mt.Content.Syllables()
		if len(syls) == 0 {
			continue
		}

		sb.WriteString(utils.FormatLRCTime(line.StartMs))
		for _, syl := range syls {
			sb.WriteString(inlineTimestamp(syl.StartMs))
			sb.WriteString(syl.Text)
			if syl.EndsWithSpace {
				sb.WriteByte(' ')
			}
		}
		sb.WriteString(inlineTimestamp(syls[len(syls)-1].EndMs))
		sb.WriteByte('\n')
	}

	return sb.String(), nil
}

func inlineTimestamp(ms uint64) string {
	ts := utils.FormatLRCTime(ms)
	return "<" + strings.TrimSuffix(strings.TrimPrefix(ts, "["), "]") + ">"
}
