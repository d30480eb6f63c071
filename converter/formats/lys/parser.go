package lys

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	log "github.com/sirupsen/logrus"

	"lyrics-convert-go/converter/formats/lrc"
	"lyrics-convert-go/logcolors"
	"lyrics-convert-go/model"
)

// Lyricify Syllable line properties. The value encodes placement
// (unset/left/right) and whether the line is a background voice.
const (
	PropUnset   = 0
	PropLeft    = 1
	PropRight   = 2
	PropBgUnset = 3
	PropBgLeft  = 4
	PropBgRight = 5
	// 6-8 appear in the wild as aliases of the background variants.
	propBgAliasBase = 6
)

var (
	// Matches the [P] property prefix of a LYS line
	propertyRegex = regexp.MustCompile(`^\[(\d+)\]`)

	// Matches one syllable: text followed by (start,duration) in ms
	syllableRegex = regexp.MustCompile(`([^()]*)\((\d+),(\d+)\)`)
)

// Parse parses Lyricify Syllable content. Background lines attach to
// the preceding main line as its background annotated track.
func Parse(content string) (*model.ParsedSourceData, error) {
	raw := make(map[string][]string)
	var warnings []string
	var lines []model.Line

	for lineNum, rawLine := range strings.Split(content, "\n") {
		line := strings.TrimSpace(rawLine)
		if line == "" || lrc.ParseMetadataTag(line, raw) {
			continue
		}

		propMatch := propertyRegex.FindStringSubmatch(line)
		if propMatch == nil {
			continue
		}
		prop, err := strconv.Atoi(propMatch[1])
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("invalid LYS property (line %d): %q", lineNum+1, propMatch[1]))
			continue
		}
		if prop >= propBgAliasBase && prop <= propBgAliasBase+2 {
			prop = prop - propBgAliasBase + PropBgUnset
		}

		body := line[len(propMatch[0]):]
		syllables := parseSyllables(body, lineNum+1, &warnings)
		if len(syllables) == 0 {
			continue
		}

		isBackground := prop >= PropBgUnset && prop <= PropBgRight
		track := model.AnnotatedTrack{
			ContentType: model.ContentTypeMain,
			Content:     model.NewSyllableTrack(syllables),
		}
		if isBackground {
			track.ContentType = model.ContentTypeBackground
		}

		startMs := syllables[0].StartMs
		endMs := syllables[len(syllables)-1].EndMs

		if isBackground && len(lines) > 0 && lines[len(lines)-1].BackgroundTrack() == nil {
			// Background voice belongs to the previous main line.
			prev := &lines[len(lines)-1]
			prev.Tracks = append(prev.Tracks, track)
			if endMs > prev.EndMs {
				prev.EndMs = endMs
			}
			continue
		}

		newLine := model.Line{
			StartMs: startMs,
			EndMs:   endMs,
			Tracks:  []model.AnnotatedTrack{track},
			Agent:   agentForProperty(prop),
		}
		lines = append(lines, newLine)
	}

	log.Debugf("%s Parsed %d lines (%d warnings)", logcolors.LogLYSParser, len(lines), len(warnings))

	return &model.ParsedSourceData{
		Lines:        lines,
		RawMetadata:  raw,
		SourceFormat: model.FormatLYS,
		IsLineTimed:  false,
		Warnings:     warnings,
		SourceText:   content,
	}, nil
}

func parseSyllables(body string, lineNum int, warnings *[]string) []model.Syllable {
	var syllables []model.Syllable
	matches := syllableRegex.FindAllStringSubmatch(body, -1)
	for _, m := range matches {
		start, err1 := strconv.ParseUint(m[2], 10, 64)
		dur, err2 := strconv.ParseUint(m[3], 10, 64)
		if err1 != nil || err2 != nil {
			*warnings = append(*warnings, fmt.Sprintf("invalid LYS syllable timing (line %d): %q", lineNum, m[0]))
			continue
		}

		text := m[1]
		if len(syllables) > 0 && strings.HasPrefix(text, " ") {
			syllables[len(syllables)-1].EndsWithSpace = true
		}
		endsWithSpace := strings.HasSuffix(text, " ")
		text = strings.TrimSpace(text)
		if text == "" {
			continue
		}
		syllables = append(syllables, model.Syllable{
			Text:          text,
			StartMs:       start,
			EndMs:         start + dur,
			EndsWithSpace: endsWithSpace,
		})
	}
	return syllables
}

func agentForProperty(prop int) string {
	switch prop {
	case PropLeft, PropBgLeft:
		return "v1"
	case PropRight, PropBgRight:
		return "v2"
	default:
		return ""
	}
}
