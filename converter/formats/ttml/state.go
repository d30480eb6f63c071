package ttml

import (
	"fmt"

	"lyrics-convert-go/model"
)

type formatDetection int

const (
	formatUndetermined formatDetection = iota
	formatIsFormatted
	formatNotFormatted
)

// spanRole classifies a <span> by its ttm:role attribute.
type spanRole int

const (
	roleGeneric spanRole = iota
	roleTrans
	roleRoman
	roleBg
)

// spanContext is one entry of the span stack inside a <p> or a
// metadata <text> element.
type spanContext struct {
	role         spanRole
	lang         string
	scheme       string
	startMs      uint64
	endMs        uint64
	hasTiming    bool
	inBackground bool
	text         []byte
}

// pendingSyllable is a timed token collected inside the current <p>.
type pendingSyllable struct {
	syl         model.Syllable
	contentType model.ContentType
}

// pendingAuxTrack is an inline x-translation / x-roman span committed
// while the enclosing <p> is still open.
type pendingAuxTrack struct {
	track        model.Track
	isRoman      bool
	inBackground bool
}

// currentPData accumulates everything for the <p> under construction.
type currentPData struct {
	startMs   uint64
	endMs     uint64
	agent     string
	songPart  string
	itunesKey string

	syllables []pendingSyllable
	auxTracks []pendingAuxTrack
	// lineMainText and lineBgText collect raw text for line-timed
	// documents, per content type.
	lineMainText []byte
	lineBgText   []byte
	hasBg        bool
}

// bodyState tracks where in <body> the parser currently is.
type bodyState struct {
	inBody          bool
	inDiv           bool
	inP             bool
	currentSongPart string
	currentP        *currentPData
	spanStack       []spanContext
	// pText buffers text nodes that sit directly under <p>.
	pText []byte
}

// auxKind distinguishes <translations> from <transliterations>.
type auxKind int

const (
	auxTranslation auxKind = iota
	auxRomanization
)

// metadataContext is the location inside <metadata>.
type metadataContext int

const (
	metaCtxNone metadataContext = iota
	metaCtxAgent
	metaCtxAgentName
	metaCtxITunes
	metaCtxSongwriter
	metaCtxAuxContainer
	metaCtxAuxEntry
	metaCtxAuxText
)

// headAuxEntry is one <text for=K> payload from the head: plain main
// and background text plus optional word-timed syllables.
type headAuxEntry struct {
	main      string
	bg        string
	lang      string
	scheme    string
	timedMain []model.Syllable
	timedBg   []model.Syllable
}

// metadataState is the <metadata> sub-machine.
type metadataState struct {
	context metadataContext

	currentAgentID   string
	currentAgentType model.AgentType
	currentAgentName []byte

	songwriterBuf []byte

	auxKind      auxKind
	auxLang      string
	auxScheme    string
	auxKey       string
	auxMain      []byte
	auxBg        []byte
	auxTimedMain []model.Syllable
	auxTimedBg   []model.Syllable
	spanStack    []spanContext

	// translationMap and romanizationMap key head-declared auxiliary
	// content by itunes:key for attachment at </p>.
	translationMap  map[string][]headAuxEntry
	romanizationMap map[string][]headAuxEntry
}

// parserState is the aggregate state machine for one parse.
type parserState struct {
	isLineTimingMode bool
	detectedLineMode bool

	formatDetection            formatDetection
	whitespaceNodesWithNewline uint32
	totalNodesProcessed        uint32

	defaultMainLang         string
	defaultTranslationLang  string
	defaultRomanizationLang string

	inMetadata bool
	meta       metadataState
	body       bodyState

	agentStore       model.AgentStore
	agentCounter     int
	agentNameToIDMap map[string]string
}

func newParserState(options *model.TtmlParsingOptions) *parserState {
	return &parserState{
		defaultMainLang:         options.DefaultLanguages.Main,
		defaultTranslationLang:  options.DefaultLanguages.Translation,
		defaultRomanizationLang: options.DefaultLanguages.Romanization,
		meta: metadataState{
			translationMap:  make(map[string][]headAuxEntry),
			romanizationMap: make(map[string][]headAuxEntry),
		},
		agentStore:       model.NewAgentStore(),
		agentNameToIDMap: make(map[string]string),
	}
}

// resolveAgentID finds or creates an agent ID for a <p> agent
// attribute. The value may be a known ID, a known display name, or a
// brand-new name that gets a fresh v<N> identity.
func (s *parserState) resolveAgentID(val string) string {
	if val == "" {
		return ""
	}
	if _, ok := s.agentStore.Get(val); ok {
		return val
	}
	if id, ok := s.agentNameToIDMap[val]; ok {
		return id
	}

	var newID string
	for {
		s.agentCounter++
		newID = fmt.Sprintf("v%d", s.agentCounter)
		if _, taken := s.agentStore.Get(newID); !taken {
			break
		}
	}
	s.agentNameToIDMap[val] = newID
	s.agentStore.Add(model.Agent{ID: newID, Name: val, Type: model.AgentTypePerson})
	return newID
}
