package converter

import (
	"fmt"
	"regexp"
	"strings"

	log "github.com/sirupsen/logrus"

	"lyrics-convert-go/logcolors"
	"lyrics-convert-go/model"
)

// Matches a vocalist marker at the start of a line: a parenthesized
// name (half- or full-width) or a bare word, followed by a colon.
var agentRegex = regexp.MustCompile(`^\s*(?:\((.+?)\)|（(.+?)）|([^\s:()（）]+))\s*[:：]\s*`)

// RecognizeAgents rewrites the parsed lines in place, extracting
// vocalist prefixes.
//
// Two modes apply per marker: when no text follows the marker the line
// is a block marker — it is dropped and subsequent unmarked lines
// inherit its vocalist; when text remains the marker is inline — the
// line keeps the text, gets the vocalist, and later unmarked lines
// inherit it. Names resolve through the agent store, allocating fresh
// v<N> identities as needed; the chorus aliases map to the group type.
func RecognizeAgents(data *model.ParsedSourceData) {
	if data.Agents.AgentsByID == nil {
		data.Agents = model.NewAgentStore()
	}

	nameToID := data.Agents.NameToIDMap()
	nextAgentNum := data.Agents.Len() + 1
	currentAgentID := ""

	processed := make([]model.Line, 0, len(data.Lines))

	for _, line := range data.Lines {
		fullText := concatMainText(&line)

		caps := agentRegex.FindStringSubmatch(fullText)
		if caps == nil {
			// No marker: inherit the current vocalist, or push ours
			// forward when the line already carries one.
			if line.Agent != "" {
				currentAgentID = line.Agent
			} else {
				line.Agent = currentAgentID
			}
			processed = append(processed, line)
			continue
		}

		name := firstCaptured(caps)
		if name == "" {
			line.Agent = currentAgentID
			processed = append(processed, line)
			continue
		}

		agentID, ok := nameToID[name]
		if !ok {
			agentID = fmt.Sprintf("v%d", nextAgentNum)
			for {
				if _, exists := data.Agents.Get(agentID); !exists {
					break
				}
				nextAgentNum++
				agentID = fmt.Sprintf("v%d", nextAgentNum)
			}
			nextAgentNum++
			nameToID[name] = agentID

			agentType := model.AgentTypePerson
			if model.IsGroupAlias(name) {
				agentType = model.AgentTypeGroup
			}
			data.Agents.Add(model.Agent{ID: agentID, Name: name, Type: agentType})
		}

		remaining := strings.TrimPrefix(fullText, caps[0])
		if strings.TrimSpace(remaining) == "" {
			// Block mode: pure marker line, dropped.
			currentAgentID = agentID
			continue
		}

		// Inline mode: keep the line, strip the marker from its syllables.
		line.Agent = agentID
		currentAgentID = agentID
		stripPrefixFromMainTrack(&line, caps[0])
		processed = append(processed, line)
	}

	data.Lines = processed
	log.Debugf("%s Recognized %d agents across %d lines", logcolors.LogAgents, data.Agents.Len(), len(processed))
}

func firstCaptured(caps []string) string {
	for _, c := range caps[1:] {
		if c != "" {
			return strings.TrimSpace(c)
		}
	}
	return ""
}

// concatMainText joins the main track's syllable texts without
// separator, matching how the marker was split across syllables.
func concatMainText(line *model.Line) string {
	mt := line.MainTrack()
	if mt == nil {
		return ""
	}
	var sb strings.Builder
	for _, word := range mt.Content.Words {
		for _, syl := range word.Syllables {
			sb.WriteString(syl.Text)
		}
	}
	return sb.String()
}

// stripPrefixFromMainTrack removes the marker prefix by rune count,
// walking words and syllables. A syllable straddling the boundary is
// cut so its tail survives.
func stripPrefixFromMainTrack(line *model.Line, prefix string) {
	mt := line.MainTrack()
	if mt == nil {
		return
	}
	toRemove := len([]rune(prefix))
	if toRemove == 0 {
		return
	}

	for wi := range mt.Content.Words {
		if toRemove == 0 {
			break
		}
		word := &mt.Content.Words[wi]

		drain := 0
		for _, syl := range word.Syllables {
			sylLen := len([]rune(syl.Text))
			if toRemove >= sylLen {
				toRemove -= sylLen
				drain++
			} else {
				break
			}
		}
		if drain > 0 {
			word.Syllables = word.Syllables[drain:]
		}

		if toRemove > 0 && len(word.Syllables) > 0 {
			first := &word.Syllables[0]
			runes := []rune(first.Text)
			if toRemove < len(runes) {
				first.Text = string(runes[toRemove:])
			} else {
				word.Syllables = word.Syllables[1:]
			}
			toRemove = 0
		}
	}

	// Drop words emptied by the strip.
	kept := mt.Content.Words[:0]
	for _, word := range mt.Content.Words {
		if len(word.Syllables) > 0 {
			kept = append(kept, word)
		}
	}
	mt.Content.Words = kept
}
