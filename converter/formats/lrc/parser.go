package lrc

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	log "github.com/sirupsen/logrus"

	"lyrics-convert-go/config"
	"lyrics-convert-go/logcolors"
	"lyrics-convert-go/model"
	"lyrics-convert-go/utils"
)

var (
	// Matches a complete LRC lyric line: the timestamp group, then text
	lineRegex = regexp.MustCompile(`^((?:\[\d{2,}:\d{2}[.:]\d{2,3}\])+)(.*)$`)

	// Extracts a single timestamp from the timestamp group
	timestampExtractRegex = regexp.MustCompile(`\[(\d{2,}):(\d{2})[.:](\d{2,3})\]`)

	// Metadata tags pattern: [tag:value]
	metadataRegex = regexp.MustCompile(`^\[([a-zA-Z][a-zA-Z0-9]*):([^\]]*)\]$`)
)

type tempEntry struct {
	timestampMs uint64
	text        string
}

// ParseMetadataTag recognizes an LRC-style "[key:value]" metadata line
// and stores it into raw. Returns true when the line was consumed.
func ParseMetadataTag(line string, raw map[string][]string) bool {
	matches := metadataRegex.FindStringSubmatch(line)
	if matches == nil {
		return false
	}
	key := matches[1]
	value := strings.TrimSpace(matches[2])
	if value != "" {
		raw[key] = append(raw[key], value)
	}
	return true
}

// Parse parses LRC content into ParsedSourceData. Lines sharing a
// timestamp form a group interpreted per the configured strategy.
func Parse(content string, options *model.LrcParsingOptions) (*model.ParsedSourceData, error) {
	if options == nil {
		options = &model.LrcParsingOptions{}
	}

	entries, raw, warnings := parseLinesToTempEntries(content)

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].timestampMs < entries[j].timestampMs
	})

	lines, groupWarnings := processTimestampGroups(entries, options)
	warnings = append(warnings, groupWarnings...)

	log.Debugf("%s Parsed %d lines (%d warnings)", logcolors.LogLRCParser, len(lines), len(warnings))

	return &model.ParsedSourceData{
		Lines:        lines,
		RawMetadata:  raw,
		SourceFormat: model.FormatLRC,
		IsLineTimed:  true,
		Warnings:     warnings,
		SourceText:   content,
	}, nil
}

func parseLinesToTempEntries(content string) ([]tempEntry, map[string][]string, []string) {
	var entries []tempEntry
	raw := make(map[string][]string)
	var warnings []string

	for lineNum, rawLine := range strings.Split(content, "\n") {
		line := strings.TrimSpace(rawLine)
		if line == "" || ParseMetadataTag(line, raw) {
			continue
		}

		caps := lineRegex.FindStringSubmatch(line)
		if caps == nil {
			continue
		}
		text := utils.NormalizeTextWhitespace(caps[2])

		for _, ts := range timestampExtractRegex.FindAllStringSubmatch(caps[1], -1) {
			if secondsOutOfRange(ts[2]) {
				warnings = append(warnings, fmt.Sprintf("invalid LRC seconds (line %d): %q", lineNum+1, ts[2]))
				continue
			}
			ms, err := utils.ParseLRCTimestampParts(ts[1], ts[2], ts[3])
			if err != nil {
				warnings = append(warnings, fmt.Sprintf("invalid LRC timestamp (line %d): %q", lineNum+1, ts[0]))
				continue
			}
			entries = append(entries, tempEntry{timestampMs: ms, text: text})
		}
	}
	return entries, raw, warnings
}

func secondsOutOfRange(sec string) bool {
	return len(sec) == 2 && sec[0] >= '6'
}

func processTimestampGroups(entries []tempEntry, options *model.LrcParsingOptions) ([]model.Line, []string) {
	var lines []model.Line
	var warnings []string

	lastLineDuration := config.Get().Configuration.LrcLastLineDurationMs
	if lastLineDuration == 0 {
		lastLineDuration = 10000
	}

	i := 0
	for i < len(entries) {
		startMs := entries[i].timestampMs

		next := i
		for next < len(entries) && entries[next].timestampMs == startMs {
			next++
		}
		group := entries[i:next]

		// A group made only of empty lines is an end marker for the
		// previous group; it produces nothing itself.
		if allEmpty(group) {
			i = next
			continue
		}

		endMs := startMs + lastLineDuration
		if next < len(entries) {
			endMs = entries[next].timestampMs
			if endMs < startMs {
				endMs = startMs
			}
		}

		tracks, groupWarnings := handleStrategyForGroup(group, startMs, endMs, options)
		warnings = append(warnings, groupWarnings...)

		if len(tracks) > 0 {
			lines = append(lines, model.Line{
				StartMs: startMs,
				EndMs:   endMs,
				Tracks:  tracks,
			})
		}

		i = next
	}

	return lines, warnings
}

func allEmpty(group []tempEntry) bool {
	for _, e := range group {
		if e.text != "" {
			return false
		}
	}
	return true
}

func handleStrategyForGroup(group []tempEntry, startMs, endMs uint64, options *model.LrcParsingOptions) ([]model.AnnotatedTrack, []string) {
	switch options.SameTimestampStrategy {
	case model.LrcStrategyAllAreMain:
		return handleAllAreMain(group, startMs, endMs), nil
	case model.LrcStrategyUseRoleOrder:
		return handleUseRoleOrder(group, options.RoleOrder, startMs, endMs)
	default:
		return handleFirstIsMain(group, startMs, endMs), nil
	}
}

func handleFirstIsMain(group []tempEntry, startMs, endMs uint64) []model.AnnotatedTrack {
	var meaningful []tempEntry
	for _, e := range group {
		if e.text != "" {
			meaningful = append(meaningful, e)
		}
	}
	if len(meaningful) == 0 {
		return nil
	}

	track := model.AnnotatedTrack{
		ContentType: model.ContentTypeMain,
		Content:     model.NewLineTimedTrack(meaningful[0].text, startMs, endMs),
	}
	for _, e := range meaningful[1:] {
		track.Translations = append(track.Translations, model.NewLineTimedTrack(e.text, startMs, endMs))
	}
	return []model.AnnotatedTrack{track}
}

func handleAllAreMain(group []tempEntry, startMs, endMs uint64) []model.AnnotatedTrack {
	var tracks []model.AnnotatedTrack
	for _, e := range group {
		if e.text == "" {
			continue
		}
		tracks = append(tracks, model.AnnotatedTrack{
			ContentType: model.ContentTypeMain,
			Content:     model.NewLineTimedTrack(e.text, startMs, endMs),
		})
	}
	return tracks
}

func handleUseRoleOrder(group []tempEntry, roles []model.LrcLineRole, startMs, endMs uint64) ([]model.AnnotatedTrack, []string) {
	var warnings []string

	if len(group) != len(roles) {
		warnings = append(warnings, fmt.Sprintf("%dms: line count (%d) does not match role count (%d)", startMs, len(group), len(roles)))
	}

	var mainTrack *model.Track
	var translations, romanizations []model.Track
	n := len(group)
	if len(roles) < n {
		n = len(roles)
	}

	for idx := 0; idx < n; idx++ {
		if group[idx].text == "" {
			continue // empty lines act as placeholders
		}
		track := model.NewLineTimedTrack(group[idx].text, startMs, endMs)
		switch roles[idx] {
		case model.LrcRoleMain:
			if mainTrack != nil {
				warnings = append(warnings, fmt.Sprintf("%dms: multiple main lines specified; treating the extra one as a translation", startMs))
				translations = append(translations, track)
			} else {
				mainTrack = &track
			}
		case model.LrcRoleTranslation:
			translations = append(translations, track)
		case model.LrcRoleRomanization:
			romanizations = append(romanizations, track)
		}
	}

	if mainTrack == nil {
		if !allEmpty(group) {
			warnings = append(warnings, fmt.Sprintf("%dms: no main line assigned; defaulting to the first non-empty line", startMs))
			for _, e := range group {
				if e.text != "" {
					track := model.NewLineTimedTrack(e.text, startMs, endMs)
					mainTrack = &track
					break
				}
			}
		}
		if mainTrack == nil {
			return nil, warnings
		}
	}

	return []model.AnnotatedTrack{{
		ContentType:   model.ContentTypeMain,
		Content:       *mainTrack,
		Translations:  translations,
		Romanizations: romanizations,
	}}, warnings
}
