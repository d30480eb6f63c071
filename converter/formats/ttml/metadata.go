package ttml

import (
	"encoding/xml"
	"strings"

	"lyrics-convert-go/model"
)

// handleMetadataEvent processes events inside <metadata>: agent
// definitions, amll:meta key/value pairs, and the iTunesMetadata
// subtree with its per-key translations and transliterations.
func handleMetadataEvent(tok xml.Token, state *parserState, raw map[string][]string, warnings *[]string) {
	m := &state.meta

	switch e := tok.(type) {
	case xml.StartElement:
		switch e.Name.Local {
		case tagAgent:
			m.context = metaCtxAgent
			m.currentAgentID, _ = attrValue(e, attrID)
			m.currentAgentType = model.AgentTypePerson
			if t, ok := attrValue(e, attrType); ok && t == "group" {
				m.currentAgentType = model.AgentTypeGroup
			}
			m.currentAgentName = m.currentAgentName[:0]
		case tagName:
			if m.context == metaCtxAgent {
				m.context = metaCtxAgentName
			}
		case tagMeta:
			key, _ := attrValue(e, attrKey)
			value, _ := attrValue(e, attrVal)
			if key != "" && value != "" {
				raw[key] = append(raw[key], value)
			}
		case tagITunesMetadata:
			m.context = metaCtxITunes
		case tagSongwriter:
			m.context = metaCtxSongwriter
			m.songwriterBuf = m.songwriterBuf[:0]
		case tagTranslations:
			m.context = metaCtxAuxContainer
			m.auxKind = auxTranslation
		case tagTransliterations:
			m.context = metaCtxAuxContainer
			m.auxKind = auxRomanization
		case tagTranslation, tagTransliteration:
			if m.context == metaCtxAuxContainer {
				m.context = metaCtxAuxEntry
				m.auxLang, _ = attrValue(e, attrLang)
				m.auxScheme, _ = attrValue(e, attrScheme)
			}
		case tagText:
			if m.context == metaCtxAuxEntry {
				m.context = metaCtxAuxText
				m.auxKey, _ = attrValue(e, attrFor)
				m.auxMain = m.auxMain[:0]
				m.auxBg = m.auxBg[:0]
				m.auxTimedMain = nil
				m.auxTimedBg = nil
				m.spanStack = m.spanStack[:0]
			}
		case tagSpan:
			if m.context == metaCtxAuxText {
				pushSpan(&m.spanStack, e, warnings)
			}
		}

	case xml.CharData:
		switch m.context {
		case metaCtxAgentName:
			m.currentAgentName = append(m.currentAgentName, e...)
		case metaCtxSongwriter:
			m.songwriterBuf = append(m.songwriterBuf, e...)
		case metaCtxAuxText:
			if len(m.spanStack) > 0 {
				top := &m.spanStack[len(m.spanStack)-1]
				top.text = append(top.text, e...)
			} else {
				m.auxMain = append(m.auxMain, e...)
			}
		}

	case xml.EndElement:
		switch e.Name.Local {
		case tagMetadata:
			state.inMetadata = false
			m.context = metaCtxNone
		case tagName:
			if m.context == metaCtxAgentName {
				m.context = metaCtxAgent
			}
		case tagAgent:
			if m.context == metaCtxAgent || m.context == metaCtxAgentName {
				commitAgent(state)
				m.context = metaCtxNone
			}
		case tagSongwriter:
			if m.context == metaCtxSongwriter {
				if name := strings.TrimSpace(string(m.songwriterBuf)); name != "" {
					raw["songwriter"] = append(raw["songwriter"], name)
				}
				m.context = metaCtxITunes
			}
		case tagITunesMetadata:
			m.context = metaCtxNone
		case tagTranslations, tagTransliterations:
			if m.context == metaCtxAuxContainer {
				m.context = metaCtxITunes
			}
		case tagTranslation, tagTransliteration:
			if m.context == metaCtxAuxEntry {
				m.context = metaCtxAuxContainer
			}
		case tagText:
			if m.context == metaCtxAuxText {
				commitAuxText(state)
				m.context = metaCtxAuxEntry
			}
		case tagSpan:
			if m.context == metaCtxAuxText {
				endSpanInAuxText(state)
			}
		}
	}
}

// commitAgent finishes a <ttm:agent> definition.
func commitAgent(state *parserState) {
	m := &state.meta
	if m.currentAgentID == "" {
		return
	}

	name := strings.TrimSpace(string(m.currentAgentName))
	agentType := m.currentAgentType
	if m.currentAgentID == model.GroupAgentID || model.IsGroupAlias(name) {
		agentType = model.AgentTypeGroup
	}

	agent := model.Agent{ID: m.currentAgentID, Type: agentType}
	if agentType == model.AgentTypePerson {
		agent.Name = name
	}
	state.agentStore.Add(agent)
	if name != "" {
		state.agentNameToIDMap[name] = m.currentAgentID
	}

	m.currentAgentID = ""
	m.currentAgentName = m.currentAgentName[:0]
}

// endSpanInAuxText dispatches a finished span inside a head <text>
// element: the same span machine as the body, so a nested x-bg span
// routes its text to the background leg of the entry.
func endSpanInAuxText(state *parserState) {
	m := &state.meta
	if len(m.spanStack) == 0 {
		return
	}
	ctx := m.spanStack[len(m.spanStack)-1]
	m.spanStack = m.spanStack[:len(m.spanStack)-1]

	if ctx.role == roleBg && !ctx.hasTiming {
		m.auxBg = append(m.auxBg, ctx.text...)
		return
	}

	if ctx.hasTiming {
		text := strings.TrimSpace(string(ctx.text))
		if text == "" {
			return
		}
		syl := model.Syllable{
			Text:          text,
			StartMs:       ctx.startMs,
			EndMs:         ctx.endMs,
			EndsWithSpace: endsWithWhitespace(string(ctx.text)),
		}
		if ctx.inBackground {
			m.auxTimedBg = append(m.auxTimedBg, syl)
		} else {
			m.auxTimedMain = append(m.auxTimedMain, syl)
		}
		return
	}

	// Untimed generic span: its text belongs to whichever leg the
	// containing span selects.
	if ctx.inBackground {
		m.auxBg = append(m.auxBg, ctx.text...)
	} else {
		m.auxMain = append(m.auxMain, ctx.text...)
	}
}

// commitAuxText stores the finished <text for=K> entry for attachment
// at </p>.
func commitAuxText(state *parserState) {
	m := &state.meta
	if m.auxKey == "" {
		return
	}

	entry := headAuxEntry{
		main:      strings.TrimSpace(string(m.auxMain)),
		bg:        trimParens(strings.TrimSpace(string(m.auxBg))),
		lang:      m.auxLang,
		scheme:    m.auxScheme,
		timedMain: m.auxTimedMain,
		timedBg:   m.auxTimedBg,
	}
	if entry.main == "" && entry.bg == "" && len(entry.timedMain) == 0 && len(entry.timedBg) == 0 {
		return
	}

	if m.auxKind == auxTranslation {
		m.translationMap[m.auxKey] = append(m.translationMap[m.auxKey], entry)
	} else {
		m.romanizationMap[m.auxKey] = append(m.romanizationMap[m.auxKey], entry)
	}
}

// trimParens strips one layer of half- or full-width parentheses, the
// convention for background text in head-declared entries.
func trimParens(text string) string {
	text = strings.TrimSpace(text)
	for _, pair := range [][2]string{{"(", ")"}, {"（", "）"}} {
		text = strings.TrimPrefix(text, pair[0])
		text = strings.TrimSuffix(text, pair[1])
	}
	return strings.TrimSpace(text)
}
