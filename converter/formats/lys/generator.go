package lys

import (
	"fmt"
	"strings"

	"lyrics-convert-go/metadata"
	"lyrics-convert-go/model"
)

// Generate renders lines as Lyricify Syllable. Each main track becomes
// a [P]-prefixed line; a background annotated track becomes its own
// line right after its main sibling, with the background property.
func Generate(lines []model.Line, meta *metadata.Store) (string, error) {
	var sb strings.Builder

	if meta != nil {
		sb.WriteString(meta.GenerateLRCHeader())
	}

	for i := range lines {
		line := &lines[i]
		for _, at := range line.Tracks {
			isBackground := at.ContentType == model.ContentTypeBackground
			prop := propertyFor(line.Agent, isBackground)

			syls := at.Content.Syllables()
			if len(syls) == 0 {
				continue
			}

			fmt.Fprintf(&sb, "[%d]", prop)
			for _, syl := range syls {
				text := syl.Text
				if syl.EndsWithSpace {
					text += " "
				}
				fmt.Fprintf(&sb, "%s(%d,%d)", text, syl.StartMs, syl.DurationMs())
			}
			sb.WriteByte('\n')
		}
	}

	return sb.String(), nil
}

func propertyFor(agent string, background bool) int {
	base := PropUnset
	switch agent {
	case "v1":
		base = PropLeft
	case "v2":
		base = PropRight
	}
	if background {
		return base + PropBgUnset
	}
	return base
}
