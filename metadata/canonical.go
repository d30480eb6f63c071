package metadata

import "strings"

// CanonicalKey is the normalized identity of a metadata entry. Known
// keys map from their common source aliases; everything else becomes a
// Custom key carrying the original name.
type CanonicalKey struct {
	Kind   KeyKind
	Custom string
}

// KeyKind enumerates the known canonical metadata keys.
type KeyKind int

const (
	KeyTitle KeyKind = iota
	KeyArtist
	KeyAlbum
	KeyLanguage
	KeyOffset
	KeyIsrc
	KeySongwriter
	KeyAppleMusicID
	KeyNcmMusicID
	KeyQqMusicID
	KeySpotifyID
	KeyTtmlAuthorGithub
	KeyTtmlAuthorGithubLogin
	KeyAgent
	KeyCustom
)

var kindNames = map[KeyKind]string{
	KeyTitle:                 "title",
	KeyArtist:                "artist",
	KeyAlbum:                 "album",
	KeyLanguage:              "language",
	KeyOffset:                "offset",
	KeyIsrc:                  "isrc",
	KeySongwriter:            "songwriter",
	KeyAppleMusicID:          "appleMusicId",
	KeyNcmMusicID:            "ncmMusicId",
	KeyQqMusicID:             "qqMusicId",
	KeySpotifyID:             "spotifyId",
	KeyTtmlAuthorGithub:      "ttmlAuthorGithub",
	KeyTtmlAuthorGithubLogin: "ttmlAuthorGithubLogin",
	KeyAgent:                 "agent",
}

// aliasTable maps lower-cased source key names to canonical kinds.
var aliasTable = map[string]KeyKind{
	"ti":                    KeyTitle,
	"title":                 KeyTitle,
	"musicname":             KeyTitle,
	"ar":                    KeyArtist,
	"artist":                KeyArtist,
	"artists":               KeyArtist,
	"al":                    KeyAlbum,
	"album":                 KeyAlbum,
	"by":                    KeyTtmlAuthorGithubLogin,
	"ttmlauthorgithublogin": KeyTtmlAuthorGithubLogin,
	"ttmlauthorgithub":      KeyTtmlAuthorGithub,
	"language":              KeyLanguage,
	"lang":                  KeyLanguage,
	"offset":                KeyOffset,
	"isrc":                  KeyIsrc,
	"songwriter":            KeySongwriter,
	"songwriters":           KeySongwriter,
	"applemusicid":          KeyAppleMusicID,
	"ncmmusicid":            KeyNcmMusicID,
	"musicid":               KeyNcmMusicID,
	"qqmusicid":             KeyQqMusicID,
	"spotifyid":             KeySpotifyID,
	"agent":                 KeyAgent,
	"agents":                KeyAgent,
}

// CanonicalizeKey resolves a raw key string to its canonical identity.
func CanonicalizeKey(keyStr string) CanonicalKey {
	if kind, ok := aliasTable[strings.ToLower(strings.TrimSpace(keyStr))]; ok {
		return CanonicalKey{Kind: kind}
	}
	return CanonicalKey{Kind: KeyCustom, Custom: keyStr}
}

// NewKey builds the canonical identity of a known kind.
func NewKey(kind KeyKind) CanonicalKey {
	return CanonicalKey{Kind: kind}
}

// String returns the canonical string name of the key.
func (k CanonicalKey) String() string {
	if k.Kind == KeyCustom {
		return k.Custom
	}
	return kindNames[k.Kind]
}

// IsPublic reports whether the key belongs in serialized output.
// Internal bookkeeping keys and unknown custom keys stay private.
func (k CanonicalKey) IsPublic() bool {
	switch k.Kind {
	case KeyCustom, KeyAgent:
		return false
	default:
		return true
	}
}
