package ttml

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"

	log "github.com/sirupsen/logrus"

	"lyrics-convert-go/config"
	"lyrics-convert-go/logcolors"
	"lyrics-convert-go/model"
	"lyrics-convert-go/utils"
)

// Parse parses an Apple Music / AMLL TTML document into the shared IR.
//
// The parser is a push-style state machine over the XML token stream.
// It never aborts on a malformed record: tokenizer faults trigger the
// recovery path, which salvages whatever the current <p> or metadata
// context has accumulated and returns all data collected so far with a
// positional warning.
func Parse(content string, options *model.TtmlParsingOptions) (*model.ParsedSourceData, error) {
	if options == nil {
		options = &model.TtmlParsingOptions{}
	}

	// Pre-scan: timed spans decide word timing when itunes:timing is absent.
	hasTimedSpans := strings.Contains(content, "<span") && strings.Contains(content, "begin=")

	decoder := xml.NewDecoder(strings.NewReader(content))
	decoder.Strict = false
	decoder.Entity = xml.HTMLEntity

	state := newParserState(options)
	lines := make([]model.Line, 0, strings.Count(content, "<p"))
	raw := make(map[string][]string)
	var warnings []string

	detectThreshold := config.Get().Configuration.TTMLFormatDetectThreshold
	detectMaxNodes := config.Get().Configuration.TTMLFormatDetectMaxNodes
	if detectThreshold == 0 {
		detectThreshold = 5
	}
	if detectMaxNodes == 0 {
		detectMaxNodes = 5000
	}

	for {
		if state.formatDetection == formatUndetermined {
			state.totalNodesProcessed++
			if state.whitespaceNodesWithNewline > detectThreshold {
				state.formatDetection = formatIsFormatted
			} else if state.totalNodesProcessed > detectMaxNodes {
				state.formatDetection = formatNotFormatted
			}
		}

		tok, err := decoder.Token()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			// Salvage and stop: Go's tokenizer cannot resync after a
			// syntax fault, so recovery drains the live context and
			// then treats the rest of the stream as EOF.
			attemptRecoveryFromError(state, decoder, &lines, &warnings, err)
			break
		}

		if cd, ok := tok.(xml.CharData); ok && state.formatDetection == formatUndetermined {
			if hasNewline(cd) && isAllWhitespace(cd) {
				state.whitespaceNodesWithNewline++
			}
		}

		switch {
		case state.inMetadata:
			handleMetadataEvent(tok, state, raw, &warnings)
		case state.body.inP:
			handlePEvent(tok, state, &lines, &warnings)
		default:
			handleGlobalEvent(tok, state, raw, &warnings, hasTimedSpans, options)
		}
	}

	log.Debugf("%s Parsed %d lines, %d agents, %d metadata keys (%d warnings)",
		logcolors.LogTTMLParser, len(lines), state.agentStore.Len(), len(raw), len(warnings))

	return &model.ParsedSourceData{
		Lines:             lines,
		RawMetadata:       raw,
		Agents:            state.agentStore,
		SourceFormat:      model.FormatTTML,
		IsLineTimed:       state.isLineTimingMode,
		Warnings:          warnings,
		SourceText:        content,
		DetectedFormatted: state.formatDetection == formatIsFormatted,
	}, nil
}

func hasNewline(b []byte) bool {
	for _, c := range b {
		if c == '\n' {
			return true
		}
	}
	return false
}

func isAllWhitespace(b []byte) bool {
	for _, c := range b {
		switch c {
		case ' ', '\t', '\n', '\r':
		default:
			return false
		}
	}
	return true
}

// attrValue fetches an attribute by local name.
func attrValue(e xml.StartElement, local string) (string, bool) {
	for _, a := range e.Attr {
		if a.Name.Local == local {
			return a.Value, true
		}
	}
	return "", false
}

// attrValueAny fetches the first present attribute among several local names.
func attrValueAny(e xml.StartElement, locals ...string) (string, bool) {
	for _, local := range locals {
		if v, ok := attrValue(e, local); ok {
			return v, true
		}
	}
	return "", false
}

// timeAttr reads a TTML time attribute; malformed values degrade to a
// warning and zero.
func timeAttr(e xml.StartElement, local string, warnings *[]string) (uint64, bool) {
	v, ok := attrValue(e, local)
	if !ok || v == "" {
		return 0, false
	}
	ms, err := utils.ParseTTMLTime(v)
	if err != nil {
		*warnings = append(*warnings, fmt.Sprintf("invalid time attribute %s=%q: %v", local, v, err))
		return 0, false
	}
	return ms, true
}

// handleGlobalEvent processes events outside <p> and <metadata>.
func handleGlobalEvent(tok xml.Token, state *parserState, raw map[string][]string, warnings *[]string, hasTimedSpans bool, options *model.TtmlParsingOptions) {
	switch e := tok.(type) {
	case xml.StartElement:
		switch e.Name.Local {
		case tagTT:
			processTTStart(e, state, raw, warnings, hasTimedSpans, options)
		case tagMetadata:
			state.inMetadata = true
			state.meta.context = metaCtxNone
		case tagBody:
			state.body.inBody = true
		case tagDiv:
			if state.body.inBody {
				state.body.inDiv = true
				part, _ := attrValueAny(e, attrSongPartNew, attrSongPart)
				state.body.currentSongPart = part
			}
		case tagP:
			if state.body.inBody {
				startP(e, state, warnings)
			}
		}
	case xml.EndElement:
		switch e.Name.Local {
		case tagDiv:
			if state.body.inDiv {
				state.body.inDiv = false
				state.body.currentSongPart = ""
			}
		case tagBody:
			state.body.inBody = false
		}
	}
}

// processTTStart determines the timing mode and default language from
// the document root.
func processTTStart(e xml.StartElement, state *parserState, raw map[string][]string, warnings *[]string, hasTimedSpans bool, options *model.TtmlParsingOptions) {
	if options.ForceTimingMode != nil {
		state.isLineTimingMode = *options.ForceTimingMode == model.TtmlTimingLine
	} else if timing, ok := attrValue(e, attrTiming); ok {
		if strings.EqualFold(timing, "line") {
			state.isLineTimingMode = true
		}
	} else if !hasTimedSpans {
		state.isLineTimingMode = true
		state.detectedLineMode = true
		*warnings = append(*warnings, "no timed <span> tags and no itunes:timing attribute found, switched to line mode")
	}

	if lang, ok := attrValue(e, attrLang); ok && lang != "" {
		raw["Language"] = append(raw["Language"], lang)
		if state.defaultMainLang == "" {
			state.defaultMainLang = lang
		}
	}
}

// startP initializes the accumulator for a new <p>.
func startP(e xml.StartElement, state *parserState, warnings *[]string) {
	state.body.inP = true

	startMs, _ := timeAttr(e, attrBegin, warnings)
	endMs, _ := timeAttr(e, attrEnd, warnings)

	agentAttr, _ := attrValue(e, attrAgent)
	songPart, ok := attrValueAny(e, attrSongPartNew, attrSongPart)
	if !ok {
		songPart = state.body.currentSongPart
	}
	itunesKey, _ := attrValue(e, attrKey)

	state.body.currentP = &currentPData{
		startMs:   startMs,
		endMs:     endMs,
		agent:     state.resolveAgentID(agentAttr),
		songPart:  songPart,
		itunesKey: itunesKey,
	}
	state.body.spanStack = state.body.spanStack[:0]
	state.body.pText = state.body.pText[:0]
}

// handlePEvent processes events inside an open <p>.
func handlePEvent(tok xml.Token, state *parserState, lines *[]model.Line, warnings *[]string) {
	p := state.body.currentP
	if p == nil {
		state.body.inP = false
		return
	}

	switch e := tok.(type) {
	case xml.StartElement:
		switch e.Name.Local {
		case tagSpan:
			flushDirectPText(state)
			pushSpan(&state.body.spanStack, e, warnings)
		case tagBr:
			// Treated as a hard space on the preceding syllable.
			flushDirectPText(state)
			markLastSyllableSpace(p)
			appendLineText(p, state, []byte(" "))
		}
	case xml.CharData:
		if len(state.body.spanStack) > 0 {
			top := &state.body.spanStack[len(state.body.spanStack)-1]
			top.text = append(top.text, e...)
		} else {
			state.body.pText = append(state.body.pText, e...)
		}
	case xml.EndElement:
		switch e.Name.Local {
		case tagSpan:
			endSpanInP(state, p)
		case tagP:
			flushDirectPText(state)
			finalizeP(state, p, lines)
			state.body.inP = false
			state.body.currentP = nil
			state.body.spanStack = state.body.spanStack[:0]
		}
	}
}

// pushSpan reads a span's role, language, and timing, and places it on
// the stack. Nested spans inherit the background flag of their container.
func pushSpan(stack *[]spanContext, e xml.StartElement, warnings *[]string) {
	ctx := spanContext{}

	roleAttr, _ := attrValue(e, attrRole)
	switch roleAttr {
	case roleTranslation:
		ctx.role = roleTrans
	case roleRomanization:
		ctx.role = roleRoman
	case roleBackground:
		ctx.role = roleBg
	default:
		ctx.role = roleGeneric
	}

	ctx.lang, _ = attrValue(e, attrLang)
	ctx.scheme, _ = attrValue(e, attrScheme)

	if start, ok := timeAttr(e, attrBegin, warnings); ok {
		ctx.startMs = start
		if end, ok := timeAttr(e, attrEnd, warnings); ok {
			ctx.endMs = end
		}
		ctx.hasTiming = true
	}

	if len(*stack) > 0 {
		parent := (*stack)[len(*stack)-1]
		ctx.inBackground = parent.inBackground || parent.role == roleBg
	}
	if ctx.role == roleBg {
		ctx.inBackground = true
	}

	*stack = append(*stack, ctx)
}

// endSpanInP pops the finished span and dispatches its content.
func endSpanInP(state *parserState, p *currentPData) {
	stack := &state.body.spanStack
	if len(*stack) == 0 {
		return
	}
	ctx := (*stack)[len(*stack)-1]
	*stack = (*stack)[:len(*stack)-1]

	contentType := model.ContentTypeMain
	if ctx.inBackground {
		contentType = model.ContentTypeBackground
		p.hasBg = true
	}

	switch ctx.role {
	case roleTrans, roleRoman:
		text := strings.TrimSpace(string(ctx.text))
		if text == "" {
			return
		}
		track := model.NewLineTimedTrack(text, p.startMs, p.endMs)
		if ctx.role == roleTrans {
			track.SetLanguage(firstNonEmpty(ctx.lang, state.defaultTranslationLang))
		} else {
			track.SetLanguage(firstNonEmpty(ctx.lang, state.defaultRomanizationLang))
			track.SetScheme(ctx.scheme)
		}
		p.auxTracks = append(p.auxTracks, pendingAuxTrack{
			track:        track,
			isRoman:      ctx.role == roleRoman,
			inBackground: ctx.inBackground && ctx.role != roleBg,
		})
	case roleBg:
		// Children already dispatched. Direct text of the container is
		// free text in background scope.
		handleFreeText(state, p, ctx.text, model.ContentTypeBackground)
	case roleGeneric:
		if state.isLineTimingMode || !ctx.hasTiming {
			handleFreeText(state, p, ctx.text, contentType)
			return
		}
		appendSyllable(p, ctx, contentType)
	}
}

// appendSyllable turns a timed generic span into a syllable, applying
// the whitespace-lifting rule.
func appendSyllable(p *currentPData, ctx spanContext, contentType model.ContentType) {
	raw := string(ctx.text)
	trimmed := strings.TrimSpace(raw)

	if strings.HasPrefix(raw, " ") || strings.HasPrefix(raw, "\t") || strings.HasPrefix(raw, "\n") {
		markLastSyllableOfType(p, contentType)
	}
	if trimmed == "" {
		return
	}

	p.syllables = append(p.syllables, pendingSyllable{
		syl: model.Syllable{
			Text:          trimmed,
			StartMs:       ctx.startMs,
			EndMs:         ctx.endMs,
			EndsWithSpace: endsWithWhitespace(raw),
		},
		contentType: contentType,
	})
}

// handleFreeText deals with untimed text: pure whitespace only flips
// the previous syllable's space flag; in line-timed mode the text joins
// the line accumulation; otherwise it becomes an untimed token anchored
// at the previous syllable's end.
func handleFreeText(state *parserState, p *currentPData, text []byte, contentType model.ContentType) {
	if len(text) == 0 {
		return
	}
	if isAllWhitespace(text) {
		markLastSyllableOfType(p, contentType)
		return
	}

	if state.isLineTimingMode {
		appendLineTextOfType(p, text, contentType)
		return
	}

	raw := string(text)
	trimmed := strings.TrimSpace(raw)
	if strings.HasPrefix(raw, " ") || strings.HasPrefix(raw, "\t") {
		markLastSyllableOfType(p, contentType)
	}

	anchor := p.startMs
	for i := len(p.syllables) - 1; i >= 0; i-- {
		if p.syllables[i].contentType == contentType {
			anchor = p.syllables[i].syl.EndMs
			break
		}
	}
	p.syllables = append(p.syllables, pendingSyllable{
		syl: model.Syllable{
			Text:          trimmed,
			StartMs:       anchor,
			EndMs:         anchor,
			EndsWithSpace: endsWithWhitespace(raw),
		},
		contentType: contentType,
	})
}

// flushDirectPText processes text nodes sitting directly under <p>.
func flushDirectPText(state *parserState) {
	p := state.body.currentP
	if p == nil || len(state.body.pText) == 0 {
		return
	}
	text := state.body.pText
	state.body.pText = state.body.pText[:0]
	handleFreeText(state, p, text, model.ContentTypeMain)
}

func appendLineText(p *currentPData, state *parserState, text []byte) {
	if state.isLineTimingMode {
		appendLineTextOfType(p, text, model.ContentTypeMain)
	}
}

func appendLineTextOfType(p *currentPData, text []byte, contentType model.ContentType) {
	if contentType == model.ContentTypeBackground {
		p.lineBgText = append(p.lineBgText, text...)
		p.hasBg = true
	} else {
		p.lineMainText = append(p.lineMainText, text...)
	}
}

func markLastSyllableSpace(p *currentPData) {
	markLastSyllableOfType(p, model.ContentTypeMain)
}

func markLastSyllableOfType(p *currentPData, contentType model.ContentType) {
	for i := len(p.syllables) - 1; i >= 0; i-- {
		if p.syllables[i].contentType == contentType {
			p.syllables[i].syl.EndsWithSpace = true
			return
		}
	}
}

func endsWithWhitespace(s string) bool {
	return s != strings.TrimRight(s, " \t\n\r")
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// finalizeP turns the accumulated <p> data into a Line.
func finalizeP(state *parserState, p *currentPData, lines *[]model.Line) {
	line := model.Line{
		StartMs:   p.startMs,
		EndMs:     p.endMs,
		Agent:     p.agent,
		SongPart:  p.songPart,
		ITunesKey: p.itunesKey,
	}

	var mainSyls, bgSyls []model.Syllable
	for _, ps := range p.syllables {
		if ps.contentType == model.ContentTypeBackground {
			bgSyls = append(bgSyls, ps.syl)
		} else {
			mainSyls = append(mainSyls, ps.syl)
		}
	}

	if state.isLineTimingMode {
		if text := utils.NormalizeTextWhitespace(string(p.lineMainText)); text != "" {
			mainSyls = []model.Syllable{{Text: text, StartMs: p.startMs, EndMs: p.endMs}}
		}
		if text := utils.NormalizeTextWhitespace(string(p.lineBgText)); text != "" {
			bgSyls = []model.Syllable{{Text: text, StartMs: p.startMs, EndMs: p.endMs}}
		}
	}

	mainTrack := model.AnnotatedTrack{
		ContentType: model.ContentTypeMain,
		Content:     model.NewSyllableTrack(mainSyls),
	}
	if state.defaultMainLang != "" {
		mainTrack.Content.SetLanguage(state.defaultMainLang)
	}
	line.Tracks = append(line.Tracks, mainTrack)

	if p.hasBg && len(bgSyls) > 0 {
		line.Tracks = append(line.Tracks, model.AnnotatedTrack{
			ContentType: model.ContentTypeBackground,
			Content:     model.NewSyllableTrack(bgSyls),
		})
	}

	// Inline auxiliary spans committed while the <p> was open.
	for _, aux := range p.auxTracks {
		attachAux(&line, aux.track, aux.isRoman, aux.inBackground)
	}

	// Head-declared auxiliaries keyed by itunes:key.
	if p.itunesKey != "" {
		for _, entry := range state.meta.translationMap[p.itunesKey] {
			attachHeadEntry(&line, entry, false)
		}
		for _, entry := range state.meta.romanizationMap[p.itunesKey] {
			attachHeadEntry(&line, entry, true)
		}
	}

	// Recompute line times from syllables when the <p> carried none,
	// or when end precedes start.
	if len(mainSyls) > 0 {
		if line.StartMs == 0 && line.EndMs == 0 {
			line.StartMs = mainSyls[0].StartMs
			line.EndMs = mainSyls[len(mainSyls)-1].EndMs
		} else if line.EndMs < line.StartMs {
			line.EndMs = mainSyls[len(mainSyls)-1].EndMs
			if line.EndMs < line.StartMs {
				line.EndMs = line.StartMs
			}
		}
	}

	*lines = append(*lines, line)
}

// attachAux adds one auxiliary track to the right annotated track.
func attachAux(line *model.Line, track model.Track, isRoman, background bool) {
	var target *model.AnnotatedTrack
	if background {
		target = line.BackgroundTrack()
	}
	if target == nil {
		target = line.MainTrack()
	}
	if target == nil {
		return
	}
	if isRoman {
		target.Romanizations = append(target.Romanizations, track)
	} else {
		target.Translations = append(target.Translations, track)
	}
}

// attachHeadEntry attaches a head-declared auxiliary entry to the line,
// splitting its main and background legs.
func attachHeadEntry(line *model.Line, entry headAuxEntry, isRoman bool) {
	makeTrack := func(text string, timed []model.Syllable) model.Track {
		var track model.Track
		if len(timed) > 0 {
			track = model.NewSyllableTrack(timed)
		} else {
			track = model.NewLineTimedTrack(text, line.StartMs, line.EndMs)
		}
		track.SetLanguage(entry.lang)
		if isRoman {
			track.SetScheme(entry.scheme)
		}
		return track
	}

	if entry.main != "" || len(entry.timedMain) > 0 {
		if mt := line.MainTrack(); mt != nil {
			if isRoman {
				mt.Romanizations = append(mt.Romanizations, makeTrack(entry.main, entry.timedMain))
			} else {
				mt.Translations = append(mt.Translations, makeTrack(entry.main, entry.timedMain))
			}
		}
	}
	if entry.bg != "" || len(entry.timedBg) > 0 {
		if bt := line.BackgroundTrack(); bt != nil {
			if isRoman {
				bt.Romanizations = append(bt.Romanizations, makeTrack(entry.bg, entry.timedBg))
			} else {
				bt.Translations = append(bt.Translations, makeTrack(entry.bg, entry.timedBg))
			}
		}
	}
}

// attemptRecoveryFromError salvages state after a tokenizer fault.
func attemptRecoveryFromError(state *parserState, decoder *xml.Decoder, lines *[]model.Line, warnings *[]string, err error) {
	offset := decoder.InputOffset()
	*warnings = append(*warnings, fmt.Sprintf("malformed TTML at byte %d: %v", offset, err))

	switch {
	case state.body.inP && state.body.currentP != nil:
		*warnings = append(*warnings, fmt.Sprintf("error inside <p> starting at %dms, recovering collected data", state.body.currentP.startMs))
		flushDirectPText(state)
		finalizeP(state, state.body.currentP, lines)
		state.body.inP = false
		state.body.currentP = nil
		state.body.spanStack = state.body.spanStack[:0]
	case state.inMetadata:
		*warnings = append(*warnings, "error inside <metadata>, discarding the metadata context")
		state.inMetadata = false
		state.meta = metadataState{
			translationMap:  make(map[string][]headAuxEntry),
			romanizationMap: make(map[string][]headAuxEntry),
		}
	default:
		*warnings = append(*warnings, "error at global scope, resetting body state")
		state.body = bodyState{}
	}
}
