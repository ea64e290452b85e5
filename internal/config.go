package internal

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// Config is shared by the server and the trainer; each binary reads the
// fields it needs. Defaults make a bare environment runnable, a .env file
// (loaded in main) overrides them.
type Config struct {
	Host           string  `env:"HOST,default=0.0.0.0"`
	Port           int     `env:"PORT,default=5000" validate:"gt=0,lte=65535"`
	LogLevel       string  `env:"LOG_LEVEL,default=info"`
	BadgerFilepath string  `env:"BADGER_FILEPATH,default=./data/badger"`
	DatasetPath    string  `env:"DATASET_PATH,default=./dataset_udara.csv"`
	AdvisoryPath   string  `env:"ADVISORY_PATH"` // empty: embedded defaults
	HazardTerms    string  `env:"HAZARD_TERMS"`  // comma-separated override, empty: built-in list
	TestFraction   float64 `env:"TEST_FRACTION,default=0.2" validate:"gt=0,lt=1"`
	SplitSeed      int64   `env:"SPLIT_SEED,default=42"`
	MaxFeatures    int     `env:"MAX_FEATURES,default=1000" validate:"gt=0"`
	NgramMax       int     `env:"NGRAM_MAX,default=2" validate:"gte=1,lte=3"`
	SmoothingAlpha float64 `env:"SMOOTHING_ALPHA,default=1.0" validate:"gt=0"`
}

func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("config validation: %w", err)
	}
	return nil
}

// HazardTermList splits the comma-separated override, or returns fallback
// when no override is set.
func (c Config) HazardTermList(fallback []string) []string {
	if strings.TrimSpace(c.HazardTerms) == "" {
		return fallback
	}
	var terms []string
	for _, term := range strings.Split(c.HazardTerms, ",") {
		if term = strings.TrimSpace(term); term != "" {
			terms = append(terms, term)
		}
	}
	return terms
}
