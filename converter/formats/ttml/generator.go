package ttml

import (
	"fmt"
	"sort"
	"strings"

	log "github.com/sirupsen/logrus"

	"lyrics-convert-go/logcolors"
	"lyrics-convert-go/metadata"
	"lyrics-convert-go/model"
	"lyrics-convert-go/utils"
)

// amllKeyNames maps canonical metadata kinds to the amll:meta key
// vocabulary. Custom keys are written under their own names; other
// canonical keys outside this table are not written as amll:meta.
var amllKeyNames = map[metadata.KeyKind]string{
	metadata.KeyTitle:                 "musicName",
	metadata.KeyArtist:                "artists",
	metadata.KeyAlbum:                 "album",
	metadata.KeyIsrc:                  "isrc",
	metadata.KeyAppleMusicID:          "appleMusicId",
	metadata.KeyNcmMusicID:            "ncmMusicId",
	metadata.KeyQqMusicID:             "qqMusicId",
	metadata.KeySpotifyID:             "spotifyId",
	metadata.KeyTtmlAuthorGithub:      "ttmlAuthorGithub",
	metadata.KeyTtmlAuthorGithubLogin: "ttmlAuthorGithubLogin",
}

// xmlEscaper covers text and attribute content.
var xmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
)

// Generate renders lines as an Apple Music / AMLL TTML document.
func Generate(lines []model.Line, meta *metadata.Store, agents *model.AgentStore, options *model.TtmlGenerationOptions) (string, error) {
	if options == nil {
		options = &model.TtmlGenerationOptions{}
	}
	if meta == nil {
		meta = metadata.NewStore()
	}
	if agents == nil {
		empty := model.NewAgentStore()
		agents = &empty
	}

	if err := validateLines(lines); err != nil {
		return "", err
	}

	w := newXMLBuilder(options.Format)

	lang := options.MainLanguage
	if lang == "" {
		lang, _ = meta.GetSingle(metadata.KeyLanguage)
	}

	attrs := []xmlAttr{
		{"xmlns", nsTTML},
		{"xmlns:ttm", nsTTM},
		{"xmlns:itunes", nsItunes},
	}
	if hasAmllMetadata(meta) {
		attrs = append(attrs, xmlAttr{"xmlns:amll", nsAMLL})
	}
	sort.Slice(attrs, func(i, j int) bool { return attrs[i].name < attrs[j].name })
	attrs = append(attrs, xmlAttr{"itunes:timing", options.TimingMode.String()})
	if lang != "" {
		attrs = append(attrs, xmlAttr{"xml:lang", lang})
	}

	w.open(tagTT, attrs...)
	writeHead(w, lines, meta, agents, options)
	writeBody(w, lines, options)
	w.close(tagTT)

	log.Debugf("%s Generated %d lines in %s mode", logcolors.LogTTMLGen, len(lines), options.TimingMode)
	return w.String(), nil
}

// validateLines rejects IR that breaks the one-background-track
// invariant; such data indicates a bug upstream, not bad input.
func validateLines(lines []model.Line) error {
	for i := range lines {
		bg := 0
		for _, at := range lines[i].Tracks {
			if at.ContentType == model.ContentTypeBackground {
				bg++
			}
		}
		if bg > 1 {
			return model.NewInternal(fmt.Sprintf("line %d carries %d background tracks", i, bg))
		}
	}
	return nil
}

func hasAmllMetadata(meta *metadata.Store) bool {
	for _, key := range meta.Keys() {
		if key.Kind == metadata.KeyCustom {
			return true
		}
		if _, ok := amllKeyNames[key.Kind]; ok {
			return true
		}
	}
	return false
}

func writeHead(w *xmlBuilder, lines []model.Line, meta *metadata.Store, agents *model.AgentStore, options *model.TtmlGenerationOptions) {
	w.open(tagHead)
	w.open(tagMetadata)

	writeAgents(w, lines, agents)

	for _, key := range meta.Keys() {
		var amllKey string
		if key.Kind == metadata.KeyCustom {
			amllKey = key.Custom
		} else {
			amllKey = amllKeyNames[key.Kind]
		}
		if amllKey == "" {
			continue
		}
		for _, value := range meta.GetMultiByKey(key.String()) {
			w.empty("amll:meta", xmlAttr{"key", amllKey}, xmlAttr{"value", value})
		}
	}

	writeITunesMetadata(w, lines, meta, options)

	w.close(tagMetadata)
	w.close(tagHead)
}

func writeAgents(w *xmlBuilder, lines []model.Line, agents *model.AgentStore) {
	ids := make([]string, 0, agents.Len())
	for id := range agents.AgentsByID {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	if len(ids) == 0 {
		// Every document declares at least the lead vocalist.
		w.open("ttm:agent", xmlAttr{"type", "person"}, xmlAttr{"xml:id", "v1"})
		w.close("ttm:agent")
		return
	}

	for _, id := range ids {
		agent := agents.AgentsByID[id]
		w.open("ttm:agent", xmlAttr{"type", agent.Type.String()}, xmlAttr{"xml:id", agent.ID})
		if agent.Name != "" {
			w.textElement("ttm:name", agent.Name, xmlAttr{"type", "full"})
		}
		w.close("ttm:agent")
	}
}

func writeITunesMetadata(w *xmlBuilder, lines []model.Line, meta *metadata.Store, options *model.TtmlGenerationOptions) {
	songwriters := meta.GetMulti(metadata.KeySongwriter)

	var translations, transliterations []headAux

	if options.UseAppleFormatRules {
		translations = collectHeadAux(lines, false)
		transliterations = collectHeadAux(lines, true)
	}

	if len(songwriters) == 0 && len(translations) == 0 && len(transliterations) == 0 {
		return
	}

	w.open(tagITunesMetadata, xmlAttr{"xmlns", nsItunes})

	if len(songwriters) > 0 {
		w.open(tagSongwriters)
		for _, name := range songwriters {
			w.textElement(tagSongwriter, name)
		}
		w.close(tagSongwriters)
	}

	writeHeadAuxBlocks(w, tagTranslations, tagTranslation, translations)
	writeHeadAuxBlocks(w, tagTransliterations, tagTransliteration, transliterations)

	w.close(tagITunesMetadata)
}

type headAuxLine struct {
	key  string
	main string
	bg   string
}

type headAux struct {
	lang    string
	scheme  string
	entries []headAuxLine
}

// collectHeadAux groups auxiliary track text by language for hoisting
// into the head, keyed by each line's itunes:key.
func collectHeadAux(lines []model.Line, roman bool) []headAux {
	byLang := make(map[string]*headAux)
	var order []string

	for i := range lines {
		line := &lines[i]
		key := line.ITunesKey
		if key == "" {
			key = fmt.Sprintf("L%d", i+1)
		}

		pick := func(at *model.AnnotatedTrack) []model.Track {
			if at == nil {
				return nil
			}
			if roman {
				return at.Romanizations
			}
			return at.Translations
		}

		for _, track := range pick(line.MainTrack()) {
			lang := track.Language()
			entry, ok := byLang[lang]
			if !ok {
				entry = &headAux{lang: lang, scheme: track.Metadata[model.TrackMetaScheme]}
				byLang[lang] = entry
				order = append(order, lang)
			}
			entry.entries = append(entry.entries, headAuxLine{key: key, main: track.Text()})
		}
		for _, track := range pick(line.BackgroundTrack()) {
			lang := track.Language()
			entry, ok := byLang[lang]
			if !ok {
				entry = &headAux{lang: lang, scheme: track.Metadata[model.TrackMetaScheme]}
				byLang[lang] = entry
				order = append(order, lang)
			}
			// Attach to the matching key when present, else add a new row.
			found := false
			for j := range entry.entries {
				if entry.entries[j].key == key {
					entry.entries[j].bg = track.Text()
					found = true
					break
				}
			}
			if !found {
				entry.entries = append(entry.entries, headAuxLine{key: key, bg: track.Text()})
			}
		}
	}

	out := make([]headAux, 0, len(order))
	for _, lang := range order {
		out = append(out, *byLang[lang])
	}
	return out
}

func writeHeadAuxBlocks(w *xmlBuilder, containerTag, entryTag string, blocks []headAux) {
	if len(blocks) == 0 {
		return
	}
	w.open(containerTag)
	for _, block := range blocks {
		var attrs []xmlAttr
		attrs = append(attrs, xmlAttr{"type", "subtitle"})
		if block.lang != "" {
			attrs = append(attrs, xmlAttr{"xml:lang", block.lang})
		}
		if block.scheme != "" {
			attrs = append(attrs, xmlAttr{"xml:scheme", block.scheme})
		}
		w.open(entryTag, attrs...)
		for _, entry := range block.entries {
			w.openInline(tagText, xmlAttr{"for", entry.key})
			w.rawText(entry.main)
			if entry.bg != "" {
				w.openInline(tagSpan, xmlAttr{"ttm:role", roleBackground})
				w.rawText("(" + entry.bg + ")")
				w.closeInline(tagSpan)
			}
			w.closeInline(tagText)
			w.lineBreak()
		}
		w.close(entryTag)
	}
	w.close(containerTag)
}

func writeBody(w *xmlBuilder, lines []model.Line, options *model.TtmlGenerationOptions) {
	var dur uint64
	for i := range lines {
		if lines[i].EndMs > dur {
			dur = lines[i].EndMs
		}
	}
	w.open(tagBody, xmlAttr{"dur", utils.FormatTTMLTime(dur)})

	// One div per contiguous song-part bucket.
	start := 0
	for start < len(lines) {
		end := start
		part := lines[start].SongPart
		for end < len(lines) && lines[end].SongPart == part {
			end++
		}
		writeDiv(w, lines[start:end], start, part, options)
		start = end
	}

	w.close(tagBody)
}

func writeDiv(w *xmlBuilder, lines []model.Line, offset int, songPart string, options *model.TtmlGenerationOptions) {
	if len(lines) == 0 {
		return
	}
	attrs := []xmlAttr{
		{"begin", utils.FormatTTMLTime(lines[0].StartMs)},
		{"end", utils.FormatTTMLTime(lines[len(lines)-1].EndMs)},
	}
	if songPart != "" {
		attrs = append(attrs, xmlAttr{"itunes:song-part", songPart})
	}
	w.open(tagDiv, attrs...)

	for i := range lines {
		writeP(w, &lines[i], offset+i, options)
	}

	w.close(tagDiv)
}

func writeP(w *xmlBuilder, line *model.Line, index int, options *model.TtmlGenerationOptions) {
	startMs, endMs := line.StartMs, line.EndMs
	if mt := line.MainTrack(); mt != nil {
		// Word-timed lines derive their bounds from the syllables.
		if syls := mt.Content.Syllables(); len(syls) > 0 && options.TimingMode == model.TtmlTimingWord {
			startMs = syls[0].StartMs
			endMs = syls[len(syls)-1].EndMs
		}
	}

	key := line.ITunesKey
	if key == "" {
		key = fmt.Sprintf("L%d", index+1)
	}

	attrs := []xmlAttr{
		{"begin", utils.FormatTTMLTime(startMs)},
		{"end", utils.FormatTTMLTime(endMs)},
		{"itunes:key", key},
	}
	if line.Agent != "" {
		attrs = append(attrs, xmlAttr{"ttm:agent", line.Agent})
	}

	w.openInline(tagP, attrs...)

	if mt := line.MainTrack(); mt != nil {
		writeTrackContent(w, &mt.Content, line, options)
		if !options.UseAppleFormatRules {
			writeInlineAux(w, mt)
		}
	}
	if bt := line.BackgroundTrack(); bt != nil {
		w.openInline(tagSpan, xmlAttr{"ttm:role", roleBackground})
		writeTrackContent(w, &bt.Content, line, options)
		if !options.UseAppleFormatRules {
			writeInlineAux(w, bt)
		}
		w.closeInline(tagSpan)
	}

	w.closeInline(tagP)
	w.lineBreak()
}

func writeTrackContent(w *xmlBuilder, track *model.Track, line *model.Line, options *model.TtmlGenerationOptions) {
	if options.TimingMode == model.TtmlTimingLine {
		w.rawText(track.Text())
		return
	}

	syls := track.Syllables()
	for _, syl := range syls {
		w.openInline(tagSpan,
			xmlAttr{"begin", utils.FormatTTMLTime(syl.StartMs)},
			xmlAttr{"end", utils.FormatTTMLTime(syl.EndMs)})
		w.rawText(syl.Text)
		w.closeInline(tagSpan)
		if syl.EndsWithSpace {
			w.rawText(" ")
		}
	}
}

func writeInlineAux(w *xmlBuilder, at *model.AnnotatedTrack) {
	for _, track := range at.Translations {
		attrs := []xmlAttr{{"ttm:role", roleTranslation}}
		if lang := track.Language(); lang != "" {
			attrs = append(attrs, xmlAttr{"xml:lang", lang})
		}
		w.openInline(tagSpan, attrs...)
		w.rawText(track.Text())
		w.closeInline(tagSpan)
	}
	for _, track := range at.Romanizations {
		attrs := []xmlAttr{{"ttm:role", roleRomanization}}
		if lang := track.Language(); lang != "" {
			attrs = append(attrs, xmlAttr{"xml:lang", lang})
		}
		if scheme := track.Metadata[model.TrackMetaScheme]; scheme != "" {
			attrs = append(attrs, xmlAttr{"xml:scheme", scheme})
		}
		w.openInline(tagSpan, attrs...)
		w.rawText(track.Text())
		w.closeInline(tagSpan)
	}
}
