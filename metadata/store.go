package metadata

import (
	"fmt"
	"sort"
	"strings"

	log "github.com/sirupsen/logrus"

	"lyrics-convert-go/logcolors"
	"lyrics-convert-go/model"
)

// Store is a central container for normalized lyric metadata. Keys are
// canonicalized on insertion; insertion order within a key is preserved
// until Deduplicate sorts it.
type Store struct {
	data map[CanonicalKey][]string
	// customOrder remembers first-seen order among Custom keys so that
	// serialization stays stable.
	customOrder []string
}

// NewStore creates an empty metadata store.
func NewStore() *Store {
	return &Store{data: make(map[CanonicalKey][]string)}
}

// Add appends a value under the canonical form of keyStr. Values are
// trimmed; empty values are dropped.
func (s *Store) Add(keyStr, value string) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return
	}
	key := CanonicalizeKey(keyStr)
	s.trackCustomOrder(key)
	s.data[key] = append(s.data[key], trimmed)
}

// SetSingle clears any existing values of the key and stores the one value.
func (s *Store) SetSingle(keyStr, value string) {
	key := CanonicalizeKey(keyStr)
	s.trackCustomOrder(key)
	s.data[key] = []string{strings.TrimSpace(value)}
}

// SetMultiple clears any existing values of the key and stores the list.
func (s *Store) SetMultiple(keyStr string, values []string) {
	key := CanonicalizeKey(keyStr)
	s.trackCustomOrder(key)
	cleaned := make([]string, 0, len(values))
	for _, v := range values {
		cleaned = append(cleaned, strings.TrimSpace(v))
	}
	s.data[key] = cleaned
}

// GetSingle returns the first value of a known key.
func (s *Store) GetSingle(kind KeyKind) (string, bool) {
	values := s.data[NewKey(kind)]
	if len(values) == 0 {
		return "", false
	}
	return values[0], true
}

// GetMulti returns all values of a known key.
func (s *Store) GetMulti(kind KeyKind) []string {
	return s.data[NewKey(kind)]
}

// GetMultiByKey returns all values stored under the canonical form of a
// raw key string.
func (s *Store) GetMultiByKey(keyStr string) []string {
	return s.data[CanonicalizeKey(keyStr)]
}

// Remove drops a key and all its values.
func (s *Store) Remove(keyStr string) {
	delete(s.data, CanonicalizeKey(keyStr))
}

// Len returns the number of distinct keys.
func (s *Store) Len() int {
	return len(s.data)
}

// Keys returns all keys: known kinds in enumeration order first, then
// Custom keys in first-insertion order.
func (s *Store) Keys() []CanonicalKey {
	var keys []CanonicalKey
	for kind := KeyTitle; kind < KeyCustom; kind++ {
		key := NewKey(kind)
		if _, ok := s.data[key]; ok {
			keys = append(keys, key)
		}
	}
	for _, name := range s.customOrder {
		key := CanonicalKey{Kind: KeyCustom, Custom: name}
		if _, ok := s.data[key]; ok {
			keys = append(keys, key)
		}
	}
	return keys
}

// Deduplicate trims every value, removes empties, sorts and dedups the
// values of each key, and drops keys left without values. Calling it
// twice is a no-op.
func (s *Store) Deduplicate() {
	for key, values := range s.data {
		cleaned := values[:0]
		for _, v := range values {
			if t := strings.TrimSpace(v); t != "" {
				cleaned = append(cleaned, t)
			}
		}
		if len(cleaned) == 0 {
			delete(s.data, key)
			continue
		}
		sort.Strings(cleaned)
		deduped := cleaned[:1]
		for _, v := range cleaned[1:] {
			if v != deduped[len(deduped)-1] {
				deduped = append(deduped, v)
			}
		}
		s.data[key] = deduped
	}
}

// GenerateLRCHeader emits the common LRC metadata tags. Multi-valued
// fields other than offset are joined with "/".
func (s *Store) GenerateLRCHeader() string {
	var sb strings.Builder

	lrcTags := []struct {
		kind KeyKind
		tag  string
	}{
		{KeyTitle, "ti"},
		{KeyArtist, "ar"},
		{KeyAlbum, "al"},
		{KeyTtmlAuthorGithubLogin, "by"},
		{KeyLanguage, "language"},
		{KeyOffset, "offset"},
	}

	for _, entry := range lrcTags {
		values := s.GetMulti(entry.kind)
		if len(values) == 0 {
			continue
		}
		var value string
		if entry.kind == KeyOffset {
			value = values[0]
		} else {
			value = strings.Join(values, "/")
		}
		value = strings.TrimSpace(value)
		if value == "" && entry.tag != "offset" {
			continue
		}
		fmt.Fprintf(&sb, "[%s:%s]\n", entry.tag, value)
	}
	return sb.String()
}

// ToAgentStore parses the stored "agent" definitions ("id" or
// "id=name") into an AgentStore. The ID v1000 and the chorus aliases
// map to the group type.
func (s *Store) ToAgentStore() model.AgentStore {
	store := model.NewAgentStore()
	for _, def := range s.GetMulti(KeyAgent) {
		id, name, hasName := strings.Cut(def, "=")
		isChorus := id == model.GroupAgentID || (hasName && model.IsGroupAlias(name))

		agent := model.Agent{ID: id, Type: model.AgentTypePerson}
		if isChorus {
			agent.Type = model.AgentTypeGroup
		} else if hasName {
			agent.Name = name
		}
		store.Add(agent)
	}
	return store
}

// LoadFromRaw fills the store from a parser's raw metadata map,
// canonicalizing keys and cleaning values along the way.
func (s *Store) LoadFromRaw(raw map[string][]string) {
	for key, values := range raw {
		for _, value := range values {
			s.Add(key, value)
		}
	}
	log.Debugf("%s Loaded %d raw metadata keys", logcolors.LogMetadata, len(raw))
}

// ToSerializableMap exports the public metadata as plain string keys.
func (s *Store) ToSerializableMap() map[string][]string {
	out := make(map[string][]string)
	for key, values := range s.data {
		if !key.IsPublic() {
			continue
		}
		out[key.String()] = append([]string(nil), values...)
	}
	return out
}

// Clone returns an independent copy of the store.
func (s *Store) Clone() *Store {
	c := NewStore()
	for key, values := range s.data {
		c.data[key] = append([]string(nil), values...)
	}
	c.customOrder = append([]string(nil), s.customOrder...)
	return c
}

func (s *Store) trackCustomOrder(key CanonicalKey) {
	if key.Kind != KeyCustom {
		return
	}
	if _, seen := s.data[key]; !seen {
		s.customOrder = append(s.customOrder, key.Custom)
	}
}
