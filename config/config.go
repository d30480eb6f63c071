package config

import (
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	log "github.com/sirupsen/logrus"

	"lyrics-convert-go/logcolors"
)

var conf = mustLoad()

type Config struct {
	Configuration struct {
		// Auxiliary merger
		MergeToleranceMs uint64 `envconfig:"MERGE_TOLERANCE_MS" default:"50"` // Max |aux.start - main.start| for a translation/romanization line to attach

		// LRC family
		LrcLastLineDurationMs    uint64 `envconfig:"LRC_LAST_LINE_DURATION_MS" default:"10000"` // Sentinel duration for the final LRC group
		LrcSameTimestampStrategy string `envconfig:"LRC_SAME_TIMESTAMP_STRATEGY" default:"first-is-main"`

		// TTML parser
		TTMLFormatDetectThreshold uint32 `envconfig:"TTML_FORMAT_DETECT_THRESHOLD" default:"5"`    // Whitespace-with-newline nodes before input counts as formatted
		TTMLFormatDetectMaxNodes  uint32 `envconfig:"TTML_FORMAT_DETECT_MAX_NODES" default:"5000"` // Give up on detection after this many nodes

		// Defaults applied when the source declares no language
		DefaultMainLanguage string `envconfig:"DEFAULT_MAIN_LANGUAGE" default:""`
	}
}

// load loads the configuration from the environment.
func load() (Config, error) {
	err := godotenv.Load()
	if err != nil {
		log.Debugf("%s No env file loaded: %v", logcolors.LogConfig, err)
	}

	cfg := Config{}
	err = envconfig.Process("", &cfg)
	return cfg, err
}

func mustLoad() Config {
	c, err := load()
	if err != nil {
		log.WithError(err).Warnf("Unable to load configuration")
	}

	return c
}

func Get() Config {
	return conf
}
