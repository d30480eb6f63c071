package lqe

import (
	"fmt"
	"regexp"
	"strings"

	log "github.com/sirupsen/logrus"

	"lyrics-convert-go/converter/formats/lrc"
	"lyrics-convert-go/converter/formats/lys"
	"lyrics-convert-go/converter/merge"
	"lyrics-convert-go/logcolors"
	"lyrics-convert-go/model"
)

// Matches an LQE section header: [name: format@ext, language@tag]
var sectionHeaderRegex = regexp.MustCompile(`^\[(lyrics|translation|pronunciation):\s*([^\]]*)\]$`)

type section struct {
	name     string
	format   model.LyricFormat
	language string
	body     []string
}

// Parse parses a Lyricify Quick Export container. The main block is
// parsed with its declared sub-format; translation and pronunciation
// blocks are parsed the same way and then merged onto the main lines by
// start-time proximity.
func Parse(content string, options *model.ConversionOptions) (*model.ParsedSourceData, error) {
	var sections []section
	var headerLines []string
	current := -1

	for _, rawLine := range strings.Split(content, "\n") {
		line := strings.TrimRight(rawLine, "\r")
		trimmed := strings.TrimSpace(line)

		if caps := sectionHeaderRegex.FindStringSubmatch(trimmed); caps != nil {
			format, language := parseSectionAttrs(caps[2])
			sections = append(sections, section{name: caps[1], format: format, language: language})
			current = len(sections) - 1
			continue
		}
		if current >= 0 {
			sections[current].body = append(sections[current].body, line)
		} else {
			headerLines = append(headerLines, trimmed)
		}
	}

	raw := make(map[string][]string)
	for _, line := range headerLines {
		if line == "" || strings.HasPrefix(line, "[Lyricify Quick Export]") {
			continue
		}
		lrc.ParseMetadataTag(line, raw)
	}
	delete(raw, "version")

	var mainData *model.ParsedSourceData
	var warnings []string

	for _, sec := range sections {
		if sec.name != "lyrics" {
			continue
		}
		parsed, err := parseSubFormat(strings.Join(sec.body, "\n"), sec.format, options)
		if err != nil {
			return nil, err
		}
		if sec.language != "" && sec.language != "und" {
			raw["language"] = append(raw["language"], sec.language)
		}
		mainData = parsed
		warnings = append(warnings, parsed.Warnings...)
		break
	}

	if mainData == nil {
		return nil, model.NewInvalidLyricFormat("LQE container has no [lyrics:] block")
	}

	var mergeOptions *model.MergeOptions
	if options != nil {
		mergeOptions = &options.Merge
	}

	for _, sec := range sections {
		var kind merge.AuxKind
		switch sec.name {
		case "translation":
			kind = merge.AuxTranslation
		case "pronunciation":
			kind = merge.AuxRomanization
		default:
			continue
		}

		parsed, err := parseSubFormat(strings.Join(sec.body, "\n"), sec.format, options)
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("failed to parse LQE %s block: %v", sec.name, err))
			continue
		}
		warnings = append(warnings, parsed.Warnings...)

		if sec.language != "" {
			for i := range parsed.Lines {
				if mt := parsed.Lines[i].MainTrack(); mt != nil {
					mt.Content.SetLanguage(sec.language)
				}
			}
		}
		merge.AuxiliaryTracks(mainData.Lines, parsed.Lines, kind, mergeOptions)
	}

	for key, values := range mainData.RawMetadata {
		raw[key] = append(raw[key], values...)
	}

	log.Debugf("%s Parsed container: %d lines, %d sections", logcolors.LogLQEParser, len(mainData.Lines), len(sections))

	return &model.ParsedSourceData{
		Lines:        mainData.Lines,
		RawMetadata:  raw,
		Agents:       mainData.Agents,
		SourceFormat: model.FormatLQE,
		IsLineTimed:  mainData.IsLineTimed,
		Warnings:     warnings,
		SourceText:   content,
	}, nil
}

// parseSectionAttrs reads "format@lys, language@zh-Hans".
func parseSectionAttrs(attrs string) (model.LyricFormat, string) {
	format := model.FormatLRC
	language := ""
	for _, part := range strings.Split(attrs, ",") {
		key, value, ok := strings.Cut(strings.TrimSpace(part), "@")
		if !ok {
			continue
		}
		switch strings.TrimSpace(key) {
		case "format":
			if f, err := model.ParseLyricFormat(strings.TrimSpace(value)); err == nil {
				format = f
			}
		case "language":
			language = strings.TrimSpace(value)
		}
	}
	return format, language
}

func parseSubFormat(content string, format model.LyricFormat, options *model.ConversionOptions) (*model.ParsedSourceData, error) {
	switch format {
	case model.FormatLRC:
		var lrcOptions *model.LrcParsingOptions
		if options != nil {
			lrcOptions = &options.Lrc
		}
		return lrc.Parse(content, lrcOptions)
	case model.FormatEnhancedLRC:
		return lrc.ParseEnhanced(content)
	case model.FormatLYS:
		return lys.Parse(content)
	default:
		return nil, model.NewInternal(fmt.Sprintf("LQE cannot parse an inner block as %s", format))
	}
}
