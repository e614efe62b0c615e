// Package match implements multi-strategy candidate search, confidence
// scoring, and dedup/ranking for signup identity resolution.
package match

import (
	"fmt"
	"os"
	"strings"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

// Config holds scoring constants and result caps for the matcher.
type Config struct {
	// Base scores per strategy.
	EmailScore     float64 `yaml:"email_score"`
	ExactNameScore float64 `yaml:"exact_name_score"`

	// Floor a name-based match degrades toward when the name only
	// partially matches (nickname vs full first name).
	PartialNameFloor float64 `yaml:"partial_name_floor"`

	// Partial-name strategy score range; the overlap similarity
	// interpolates between the two.
	PartialBase float64 `yaml:"partial_base"`
	PartialCeil float64 `yaml:"partial_ceil"`

	// Category thresholds.
	HighThreshold   float64 `yaml:"high_threshold"`
	MediumThreshold float64 `yaml:"medium_threshold"`

	// Result caps per strategy query.
	ExactLimit   int `yaml:"exact_limit"`
	PartialLimit int `yaml:"partial_limit"`
}

// DefaultConfig returns the tuned production scoring constants.
func DefaultConfig() Config {
	return Config{
		EmailScore:       0.95,
		ExactNameScore:   0.85,
		PartialNameFloor: 0.6,
		PartialBase:      0.3,
		PartialCeil:      0.5,
		HighThreshold:    0.8,
		MediumThreshold:  0.5,
		ExactLimit:       10,
		PartialLimit:     20,
	}
}

// Validate checks that a Config is internally consistent.
func (c Config) Validate() error {
	var errs []string

	unit := func(name string, v float64) {
		if v < 0 || v > 1 {
			errs = append(errs, fmt.Sprintf("%s %.2f outside [0,1]", name, v))
		}
	}
	unit("email_score", c.EmailScore)
	unit("exact_name_score", c.ExactNameScore)
	unit("partial_name_floor", c.PartialNameFloor)
	unit("partial_base", c.PartialBase)
	unit("partial_ceil", c.PartialCeil)
	unit("high_threshold", c.HighThreshold)
	unit("medium_threshold", c.MediumThreshold)

	if c.PartialBase > c.PartialCeil {
		errs = append(errs, "partial_base exceeds partial_ceil")
	}
	if c.PartialNameFloor > c.ExactNameScore {
		errs = append(errs, "partial_name_floor exceeds exact_name_score")
	}
	if c.MediumThreshold > c.HighThreshold {
		errs = append(errs, "medium_threshold exceeds high_threshold")
	}
	if c.ExactLimit <= 0 || c.PartialLimit <= 0 {
		errs = append(errs, "result limits must be positive")
	}

	if len(errs) > 0 {
		return eris.New("match: invalid config: " + strings.Join(errs, "; "))
	}
	return nil
}

// LoadConfig reads a Config from a YAML file, filling unset fields from
// DefaultConfig.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, eris.Wrapf(err, "match: read config %s", path)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, eris.Wrap(err, "match: parse config")
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}
