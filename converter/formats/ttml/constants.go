package ttml

// Element local names. encoding/xml resolves namespace prefixes away,
// so matching happens on the local part; the attribute vocabulary has
// no ambiguous local names within one element.
const (
	tagTT               = "tt"
	tagHead             = "head"
	tagMetadata         = "metadata"
	tagBody             = "body"
	tagDiv              = "div"
	tagP                = "p"
	tagSpan             = "span"
	tagBr               = "br"
	tagAgent            = "agent"
	tagName             = "name"
	tagMeta             = "meta"
	tagITunesMetadata   = "iTunesMetadata"
	tagSongwriter       = "songwriter"
	tagSongwriters      = "songwriters"
	tagTranslations     = "translations"
	tagTransliterations = "transliterations"
	tagTranslation      = "translation"
	tagTransliteration  = "transliteration"
	tagText             = "text"
)

// Attribute local names.
const (
	attrTiming      = "timing"
	attrLang        = "lang"
	attrSongPart    = "song-part"
	attrSongPartNew = "songPart"
	attrBegin       = "begin"
	attrEnd         = "end"
	attrAgent       = "agent"
	attrKey         = "key"
	attrRole        = "role"
	attrScheme      = "scheme"
	attrID          = "id"
	attrVal         = "value"
	attrFor         = "for"
	attrType        = "type"
)

// ttm:role vocabulary.
const (
	roleTranslation  = "x-translation"
	roleRomanization = "x-roman"
	roleBackground   = "x-bg"
)

// Namespaces emitted by the generator.
const (
	nsTTML   = "http://www.w3.org/ns/ttml"
	nsTTM    = "http://www.w3.org/ns/ttml#metadata"
	nsItunes = "http://music.apple.com/lyric-ttml-internal"
	nsAMLL   = "http://www.example.com/ns/amll"
)
