package converter

import (
	"fmt"

	log "github.com/sirupsen/logrus"

	"lyrics-convert-go/converter/formats"
	"lyrics-convert-go/converter/merge"
	"lyrics-convert-go/logcolors"
	"lyrics-convert-go/metadata"
	"lyrics-convert-go/model"
	"lyrics-convert-go/utils"
)

func init() {
	registry := formats.GetRegistry()

	registry.RegisterParser(ttmlParser{})
	registry.RegisterParser(lrcParser{})
	registry.RegisterParser(enhancedLrcParser{})
	registry.RegisterParser(lysParser{})
	registry.RegisterParser(lqeParser{})
	registry.RegisterParser(amjsonParser{})

	registry.RegisterGenerator(ttmlGenerator{})
	registry.RegisterGenerator(lrcGenerator{})
	registry.RegisterGenerator(enhancedLrcGenerator{})
	registry.RegisterGenerator(lysGenerator{})
	registry.RegisterGenerator(lqeGenerator{})
	registry.RegisterGenerator(assGenerator{})
}

// ConvertSingle is the single conversion entrypoint: parse the main
// document, fold in auxiliary documents, normalize metadata, optionally
// recognize vocalists, then render the target format.
func ConvertSingle(input *model.ConversionInput, options *model.ConversionOptions) (*model.ConversionOutput, error) {
	if options == nil {
		options = &model.ConversionOptions{}
	}

	registry := formats.GetRegistry()

	parser, err := registry.GetParser(input.MainLyric.Format)
	if err != nil {
		return nil, err
	}
	parsed, err := parser.Parse(input.MainLyric.Content, options)
	if err != nil {
		return nil, err
	}
	if len(parsed.Lines) == 0 {
		log.Warnf("%s No lines survived parsing (%d warnings)", logcolors.LogConvert, len(parsed.Warnings))
		return nil, model.NewInvalidLyricFormat("no lyric lines could be parsed from the source")
	}
	warnings := append([]string(nil), parsed.Warnings...)

	// Auxiliary documents attach onto the main lines by start time.
	for _, auxInput := range input.Translations {
		auxWarnings, err := mergeAuxiliaryInput(parsed, auxInput, merge.AuxTranslation, options, registry)
		if err != nil {
			return nil, err
		}
		warnings = append(warnings, auxWarnings...)
	}
	for _, auxInput := range input.Romanizations {
		auxWarnings, err := mergeAuxiliaryInput(parsed, auxInput, merge.AuxRomanization, options, registry)
		if err != nil {
			return nil, err
		}
		warnings = append(warnings, auxWarnings...)
	}

	meta := metadata.NewStore()
	meta.LoadFromRaw(parsed.RawMetadata)
	for key, values := range input.UserMetadataOverrides {
		meta.SetMultiple(key, values)
	}
	meta.Deduplicate()

	agents := parsed.Agents
	if agents.Len() == 0 {
		agents = meta.ToAgentStore()
		parsed.Agents = agents
	}

	if options.RecognizeAgents {
		RecognizeAgents(parsed)
	}

	generator, err := registry.GetGenerator(input.TargetFormat)
	if err != nil {
		return nil, err
	}
	output, err := generator.Generate(parsed.Lines, meta, &parsed.Agents, parsed.IsLineTimed, options)
	if err != nil {
		return nil, err
	}

	lang, _ := meta.GetSingle(metadata.KeyLanguage)

	return &model.ConversionOutput{
		OutputLyrics: output,
		SourceData:   parsed,
		Warnings:     warnings,
		IsRTL:        utils.IsRTLLanguage(lang),
	}, nil
}

// ConvertSingleBytes decodes raw document bytes to UTF-8 before
// converting, for callers reading files of unknown encoding.
func ConvertSingleBytes(rawMain []byte, input *model.ConversionInput, options *model.ConversionOptions) (*model.ConversionOutput, error) {
	content, err := utils.DecodeToUTF8(rawMain)
	if err != nil {
		return nil, err
	}
	input.MainLyric.Content = content
	return ConvertSingle(input, options)
}

func mergeAuxiliaryInput(parsed *model.ParsedSourceData, auxInput model.InputFile, kind merge.AuxKind, options *model.ConversionOptions, registry *formats.Registry) ([]string, error) {
	if auxInput.Content == "" {
		return nil, nil
	}
	parser, err := registry.GetParser(auxInput.Format)
	if err != nil {
		return nil, fmt.Errorf("auxiliary document: %w", err)
	}
	auxParsed, err := parser.Parse(auxInput.Content, options)
	if err != nil {
		return nil, fmt.Errorf("auxiliary document: %w", err)
	}

	if auxInput.Language != "" {
		for i := range auxParsed.Lines {
			if mt := auxParsed.Lines[i].MainTrack(); mt != nil {
				if kind == merge.AuxRomanization {
					mt.Content.SetScheme(auxInput.Language)
				}
				mt.Content.SetLanguage(auxInput.Language)
			}
		}
	}

	merge.AuxiliaryTracks(parsed.Lines, auxParsed.Lines, kind, &options.Merge)
	return auxParsed.Warnings, nil
}
