package converter

import (
	"lyrics-convert-go/converter/formats/amjson"
	"lyrics-convert-go/converter/formats/ass"
	"lyrics-convert-go/converter/formats/lqe"
	"lyrics-convert-go/converter/formats/lrc"
	"lyrics-convert-go/converter/formats/lys"
	"lyrics-convert-go/converter/formats/ttml"
	"lyrics-convert-go/metadata"
	"lyrics-convert-go/model"
)

// The adapters below bind the format packages' plain functions to the
// registry interfaces.

type ttmlParser struct{}

func (ttmlParser) Format() model.LyricFormat { return model.FormatTTML }
func (ttmlParser) Parse(content string, options *model.ConversionOptions) (*model.ParsedSourceData, error) {
	return ttml.Parse(content, ttmlOptions(options))
}

type lrcParser struct{}

func (lrcParser) Format() model.LyricFormat { return model.FormatLRC }
func (lrcParser) Parse(content string, options *model.ConversionOptions) (*model.ParsedSourceData, error) {
	var lrcOptions *model.LrcParsingOptions
	if options != nil {
		lrcOptions = &options.Lrc
	}
	return lrc.Parse(content, lrcOptions)
}

type enhancedLrcParser struct{}

func (enhancedLrcParser) Format() model.LyricFormat { return model.FormatEnhancedLRC }
func (enhancedLrcParser) Parse(content string, options *model.ConversionOptions) (*model.ParsedSourceData, error) {
	return lrc.ParseEnhanced(content)
}

type lysParser struct{}

func (lysParser) Format() model.LyricFormat { return model.FormatLYS }
func (lysParser) Parse(content string, options *model.ConversionOptions) (*model.ParsedSourceData, error) {
	return lys.Parse(content)
}

type lqeParser struct{}

func (lqeParser) Format() model.LyricFormat { return model.FormatLQE }
func (lqeParser) Parse(content string, options *model.ConversionOptions) (*model.ParsedSourceData, error) {
	return lqe.Parse(content, options)
}

type amjsonParser struct{}

func (amjsonParser) Format() model.LyricFormat { return model.FormatAppleMusicJSON }
func (amjsonParser) Parse(content string, options *model.ConversionOptions) (*model.ParsedSourceData, error) {
	return amjson.Parse(content, ttmlOptions(options))
}

type ttmlGenerator struct{}

func (ttmlGenerator) Format() model.LyricFormat { return model.FormatTTML }
func (ttmlGenerator) Generate(lines []model.Line, meta *metadata.Store, agents *model.AgentStore, isLineTimed bool, options *model.ConversionOptions) (string, error) {
	genOptions := &model.TtmlGenerationOptions{}
	if options != nil {
		opt := options.TtmlGeneration
		genOptions = &opt
	}
	if isLineTimed {
		genOptions.TimingMode = model.TtmlTimingLine
	}
	return ttml.Generate(lines, meta, agents, genOptions)
}

type lrcGenerator struct{}

func (lrcGenerator) Format() model.LyricFormat { return model.FormatLRC }
func (lrcGenerator) Generate(lines []model.Line, meta *metadata.Store, agents *model.AgentStore, isLineTimed bool, options *model.ConversionOptions) (string, error) {
	return lrc.Generate(lines, meta)
}

type enhancedLrcGenerator struct{}

func (enhancedLrcGenerator) Format() model.LyricFormat { return model.FormatEnhancedLRC }
func (enhancedLrcGenerator) Generate(lines []model.Line, meta *metadata.Store, agents *model.AgentStore, isLineTimed bool, options *model.ConversionOptions) (string, error) {
	return lrc.GenerateEnhanced(lines, meta)
}

type lysGenerator struct{}

func (lysGenerator) Format() model.LyricFormat { return model.FormatLYS }
func (lysGenerator) Generate(lines []model.Line, meta *metadata.Store, agents *model.AgentStore, isLineTimed bool, options *model.ConversionOptions) (string, error) {
	return lys.Generate(lines, meta)
}

type lqeGenerator struct{}

func (lqeGenerator) Format() model.LyricFormat { return model.FormatLQE }
func (lqeGenerator) Generate(lines []model.Line, meta *metadata.Store, agents *model.AgentStore, isLineTimed bool, options *model.ConversionOptions) (string, error) {
	lqeOptions := &model.LqeGenerationOptions{MainLyricFormat: model.FormatLYS, AuxiliaryFormat: model.FormatLRC}
	if options != nil && options.Lqe != (model.LqeGenerationOptions{}) {
		opt := options.Lqe
		lqeOptions = &opt
	}
	if isLineTimed {
		lqeOptions.MainLyricFormat = model.FormatLRC
	}
	return lqe.Generate(lines, meta, lqeOptions)
}

type assGenerator struct{}

func (assGenerator) Format() model.LyricFormat { return model.FormatASS }
func (assGenerator) Generate(lines []model.Line, meta *metadata.Store, agents *model.AgentStore, isLineTimed bool, options *model.ConversionOptions) (string, error) {
	var assOptions *model.AssGenerationOptions
	if options != nil {
		assOptions = &options.Ass
	}
	return ass.Generate(lines, meta, agents, isLineTimed, assOptions)
}

func ttmlOptions(options *model.ConversionOptions) *model.TtmlParsingOptions {
	if options == nil {
		return nil
	}
	return &options.Ttml
}
