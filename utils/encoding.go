package utils

import (
	"bytes"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"

	"lyrics-convert-go/model"
)

var (
	utf8BOM    = []byte{0xEF, 0xBB, 0xBF}
	utf16LEBOM = []byte{0xFF, 0xFE}
	utf16BEBOM = []byte{0xFE, 0xFF}
)

// DecodeToUTF8 normalizes raw document bytes to a UTF-8 string.
// BOM-marked UTF-8/UTF-16 is decoded accordingly; BOM-less input is
// kept as-is when it is valid UTF-8 and otherwise decoded as Latin-1,
// which cannot fail and preserves every byte.
func DecodeToUTF8(raw []byte) (string, error) {
	switch {
	case bytes.HasPrefix(raw, utf8BOM):
		return string(raw[len(utf8BOM):]), nil
	case bytes.HasPrefix(raw, utf16LEBOM):
		return decodeWith(unicode.UTF16(unicode.LittleEndian, unicode.ExpectBOM), raw)
	case bytes.HasPrefix(raw, utf16BEBOM):
		return decodeWith(unicode.UTF16(unicode.BigEndian, unicode.ExpectBOM), raw)
	}

	if utf8.Valid(raw) {
		return string(raw), nil
	}
	return decodeWith(charmap.ISO8859_1, raw)
}

func decodeWith(enc encoding.Encoding, raw []byte) (string, error) {
	decoded, err := enc.NewDecoder().Bytes(raw)
	if err != nil {
		return "", model.NewEncodingError("failed to decode input text", err)
	}
	return string(decoded), nil
}
