package merge

import (
	log "github.com/sirupsen/logrus"

	"lyrics-convert-go/config"
	"lyrics-convert-go/logcolors"
	"lyrics-convert-go/model"
)

// AuxKind selects which auxiliary vector of a main line an auxiliary
// document feeds.
type AuxKind int

const (
	AuxTranslation AuxKind = iota
	AuxRomanization
)

// DefaultToleranceMs returns the configured start-time tolerance.
func DefaultToleranceMs() uint64 {
	if t := config.Get().Configuration.MergeToleranceMs; t > 0 {
		return t
	}
	return 50
}

// AuxiliaryTracks aligns separately parsed translation and romanization
// lines onto the main lines by start-time proximity. Both inputs must
// be sorted by StartMs. Auxiliary lines outside the tolerance window of
// any main line are dropped.
func AuxiliaryTracks(mainLines []model.Line, auxLines []model.Line, kind AuxKind, options *model.MergeOptions) {
	if len(mainLines) == 0 || len(auxLines) == 0 {
		return
	}

	tolerance := DefaultToleranceMs()
	if options != nil && options.ToleranceMs > 0 {
		tolerance = options.ToleranceMs
	}

	attached, cursor := 0, 0
	for i := range mainLines {
		main := &mainLines[i]

		// Skip auxiliary lines that ended up too far before this line.
		for cursor < len(auxLines) && auxLines[cursor].StartMs+tolerance < main.StartMs {
			cursor++
		}

		for cursor < len(auxLines) && withinTolerance(auxLines[cursor].StartMs, main.StartMs, tolerance) {
			if track := auxLines[cursor].MainTrack(); track != nil {
				target := main.MainTrack()
				if target != nil {
					aux := track.Content
					if lang := track.Content.Language(); lang != "" {
						aux.SetLanguage(lang)
					}
					if kind == AuxTranslation {
						target.Translations = append(target.Translations, aux)
					} else {
						target.Romanizations = append(target.Romanizations, aux)
					}
					attached++
				}
			}
			cursor++
		}
	}

	log.Debugf("%s Attached %d of %d auxiliary lines (kind=%d, tolerance=%dms)",
		logcolors.LogMerger, attached, len(auxLines), kind, tolerance)
}

func withinTolerance(a, b, tolerance uint64) bool {
	if a > b {
		return a-b <= tolerance
	}
	return b-a <= tolerance
}
