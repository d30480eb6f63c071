package model

import (
	"fmt"
	"strings"
)

// LyricFormat identifies a supported lyric document format.
type LyricFormat int

const (
	FormatTTML LyricFormat = iota
	FormatLRC
	FormatEnhancedLRC
	FormatLYS
	FormatLQE
	FormatASS
	FormatAppleMusicJSON
)

func (f LyricFormat) String() string {
	switch f {
	case FormatTTML:
		return "TTML"
	case FormatLRC:
		return "LRC"
	case FormatEnhancedLRC:
		return "Enhanced LRC"
	case FormatLYS:
		return "Lyricify Syllable"
	case FormatLQE:
		return "Lyricify Quick Export"
	case FormatASS:
		return "ASS"
	case FormatAppleMusicJSON:
		return "Apple Music JSON"
	default:
		return fmt.Sprintf("LyricFormat(%d)", int(f))
	}
}

// ExtensionStr returns the conventional file extension, also used as
// the format tag inside LQE block headers.
func (f LyricFormat) ExtensionStr() string {
	switch f {
	case FormatTTML:
		return "ttml"
	case FormatLRC:
		return "lrc"
	case FormatEnhancedLRC:
		return "lrc"
	case FormatLYS:
		return "lys"
	case FormatLQE:
		return "lqe"
	case FormatASS:
		return "ass"
	case FormatAppleMusicJSON:
		return "json"
	default:
		return ""
	}
}

// ParseLyricFormat resolves a format name or extension string.
func ParseLyricFormat(s string) (LyricFormat, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "ttml", "xml":
		return FormatTTML, nil
	case "lrc":
		return FormatLRC, nil
	case "elrc", "enhancedlrc", "enhanced-lrc", "alrc":
		return FormatEnhancedLRC, nil
	case "lys":
		return FormatLYS, nil
	case "lqe":
		return FormatLQE, nil
	case "ass", "ssa":
		return FormatASS, nil
	case "json", "applemusicjson", "apple-music-json":
		return FormatAppleMusicJSON, nil
	default:
		return FormatTTML, NewInvalidLyricFormat(s)
	}
}
