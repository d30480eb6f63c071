package ass

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

const defaultScriptInfo = `[Script Info]
ScriptType: v4.00+
PlayResX: 1920
PlayResY: 1080`

const defaultStyles = `[V4+ Styles]
Format: Name, Fontname, Fontsize, PrimaryColour, SecondaryColour, OutlineColour, BackColour, Bold, Italic, Underline, StrikeOut, ScaleX, ScaleY, Spacing, Angle, BorderStyle, Outline, Shadow, Alignment, MarginL, MarginR, MarginV, Encoding
Style: Default,Arial,100,&H00FFFFFF,&H003F3F3F,&H00000000,&H00000000,-1,0,0,0,100,100,0,0,1,2,1,2,10,10,10,1
Style: Orig,Arial,100,&H00FFFFFF,&H003F3F3F,&H00000000,&H00000000,-1,0,0,0,100,100,0,0,1,2,1,2,10,10,10,1
Style: ts,Arial,55,&H00D3D3D3,&H000000FF,&H00000000,&H99000000,0,0,0,0,100,100,0,0,1,2,1,2,10,10,50,1
Style: roma,Arial,55,&H00D3D3D3,&H000000FF,&H00000000,&H99000000,0,0,0,0,100,100,0,0,1,2,1,2,10,10,50,1
Style: bg-ts,Arial,45,&H00A0A0A0,&H000000FF,&H00000000,&H99000000,0,0,0,0,100,100,0,0,1,1.5,1,8,10,10,55,1
Style: bg-roma,Arial,45,&H00A0A0A0,&H000000FF,&H00000000,&H99000000,0,0,0,0,100,100,0,0,1,1.5,1,8,10,10,55,1
Style: meta,Arial,40,&H00C0C0C0,&H000000FF,&H00000000,&H99000000,0,0,0,0,100,100,0,0,1,1,0,5,10,10,10,1`

// Generate renders lines as an ASS subtitle script with karaoke timing.
func Generate(lines []model.Line, meta *metadata.Store, agents *model.AgentStore, isLineTimed bool, options *model.AssGenerationOptions) (string, error) {
	if options == nil {
		options = &model.AssGenerationOptions{}
	}

	for i := range lines {
		bg := 0
		for _, at := range lines[i].Tracks {
			if at.ContentType == model.ContentTypeBackground {
				bg++
			}
		}
		if bg > 1 {
			return "", model.NewInternal(fmt.Sprintf("line %d carries %d background tracks", i, bg))
		}
	}

	var sb strings.Builder
	sb.Grow(len(lines)*200 + 1024)

	writeHeader(&sb, options)
	if err := writeEvents(&sb, lines, meta, agents, isLineTimed); err != nil {
		return "", err
	}

	log.Debugf("%s Generated %d lines (line-timed=%v)", logcolors.LogASSGen, len(lines), isLineTimed)
	return sb.String(), nil
}

func writeHeader(sb *strings.Builder, options *model.AssGenerationOptions) {
	scriptInfo := defaultScriptInfo
	if options.ScriptInfo != "" {
		scriptInfo = strings.TrimSpace(options.ScriptInfo)
	}
	sb.WriteString(scriptInfo)
	sb.WriteString("\n\n")

	styles := defaultStyles
	if options.Styles != "" {
		styles = strings.TrimSpace(options.Styles)
	}
	sb.WriteString(styles)
	sb.WriteString("\n\n")
}

func writeEvents(sb *strings.Builder, lines []model.Line, meta *metadata.Store, agents *model.AgentStore, isLineTimed bool) error {
	sb.WriteString("[Events]\n")
	sb.WriteString("Format: Layer, Start, End, Style, Name, MarginL, MarginR, MarginV, Effect, Text\n")

	if meta != nil {
		for _, key := range meta.Keys() {
			for _, value := range meta.GetMultiByKey(key.String()) {
				fmt.Fprintf(sb, "Comment: 0,0:00:00.00,0:00:00.00,meta,,0,0,0,,%s: %s\n", key, value)
			}
		}
	}

	if agents != nil {
		ids := make([]string, 0, agents.Len())
		for id := range agents.AgentsByID {
			ids = append(ids, id)
		}
		sort.Strings(ids)
		for _, id := range ids {
			if name := agents.AgentsByID[id].Name; name != "" {
				fmt.Fprintf(sb, "Comment: 0,0:00:00.00,0:00:00.00,meta,,0,0,0,,%s: %s\n", id, name)
			}
		}
	}

	for i := range lines {
		if err := writeEventsForLine(sb, &lines[i], isLineTimed); err != nil {
			return err
		}
	}
	return nil
}

func writeEventsForLine(sb *strings.Builder, line *model.Line, isLineTimed bool) error {
	for ti := range line.Tracks {
		at := &line.Tracks[ti]
		isBg := at.ContentType == model.ContentTypeBackground

		actor := line.Agent
		if actor == "" {
			actor = "v1"
		}
		if isBg {
			actor = "x-bg"
		} else if line.SongPart != "" {
			actor += fmt.Sprintf(" itunes:song-part=%q", line.SongPart)
		}

		trackStart, trackEnd := line.StartMs, line.EndMs
		if syls := at.Content.Syllables(); len(syls) > 0 {
			trackStart = syls[0].StartMs
			trackEnd = syls[len(syls)-1].EndMs
		}

		if err := writeDialogueLine(sb, trackStart, trackEnd, &at.Content, "Default", actor, isLineTimed); err != nil {
			return err
		}

		transStyle, romaStyle := "ts", "roma"
		if isBg {
			transStyle, romaStyle = "bg-ts", "bg-roma"
		}
		for i := range at.Translations {
			if err := writeDialogueLine(sb, trackStart, trackEnd, &at.Translations[i], transStyle, langActor(&at.Translations[i]), isLineTimed); err != nil {
				return err
			}
		}
		for i := range at.Romanizations {
			if err := writeDialogueLine(sb, trackStart, trackEnd, &at.Romanizations[i], romaStyle, langActor(&at.Romanizations[i]), isLineTimed); err != nil {
				return err
			}
		}
	}
	return nil
}

func langActor(track *model.Track) string {
	if lang := track.Language(); lang != "" {
		return "x-lang:" + lang
	}
	return ""
}

func writeDialogueLine(sb *strings.Builder, startMs, endMs uint64, track *model.Track, style, actor string, isLineTimed bool) error {
	var text string
	if isLineTimed {
		text = track.Text()
	} else {
		text = buildKaraokeText(track.Syllables())
	}

	if strings.TrimSpace(text) == "" {
		return nil
	}
	fmt.Fprintf(sb, "Dialogue: 0,%s,%s,%s,%s,0,0,0,,%s\n",
		utils.FormatASSTime(startMs), utils.FormatASSTime(endMs), style, strings.TrimSpace(actor), text)
	return nil
}

// buildKaraokeText builds {\k} karaoke text. Gaps and durations round
// half-up to centiseconds; a syllable with a non-zero duration shorter
// than one centisecond keeps a {\k1} so it does not vanish.
func buildKaraokeText(syllables []model.Syllable) string {
	if len(syllables) == 0 {
		return ""
	}

	var sb strings.Builder
	previousEnd := syllables[0].StartMs

	for _, syl := range syllables {
		if syl.StartMs > previousEnd {
			if gapCs := utils.RoundDurationToCs(syl.StartMs - previousEnd); gapCs > 0 {
				fmt.Fprintf(&sb, "{\\k%d}", gapCs)
			}
		}

		durationMs := syl.DurationMs()
		sylCs := utils.RoundDurationToCs(durationMs)
		if sylCs == 0 && durationMs > 0 {
			sylCs = 1
		}
		if sylCs > 0 {
			fmt.Fprintf(&sb, "{\\k%d}", sylCs)
		}

		sb.WriteString(syl.Text)
		if syl.EndsWithSpace {
			sb.WriteByte(' ')
		}
		previousEnd = syl.EndMs
	}

	return strings.TrimRight(sb.String(), " ")
}
